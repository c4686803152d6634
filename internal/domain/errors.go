package domain

import "errors"

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound          = errors.New("resource not found")
	ErrInvalidInput      = errors.New("invalid input")
	ErrDuplicate         = errors.New("duplicate resource")
	ErrUnauthorized      = errors.New("unauthorized")
	ErrForbidden         = errors.New("forbidden")
	ErrUnsupportedFormat = errors.New("only csv, xlsx and xls files are supported")
	ErrDecode            = errors.New("csv decode failed, make sure the file is UTF-8 or GBK encoded")
	ErrFormat            = errors.New("spreadsheet parse failed")
)

// IsClientError indica si el error es atribuible a la entrada del cliente.
func IsClientError(err error) bool {
	return errors.Is(err, ErrInvalidInput) ||
		errors.Is(err, ErrUnsupportedFormat) ||
		errors.Is(err, ErrDecode) ||
		errors.Is(err, ErrFormat) ||
		errors.Is(err, ErrDuplicate)
}
