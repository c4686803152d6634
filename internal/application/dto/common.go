package dto

// Códigos del sobre de respuesta.
const (
	CodeOK           = 200
	CodeBadRequest   = 400
	CodeUnauthorized = 401
	CodeForbidden    = 403
	CodeNotFound     = 404
	CodeInternal     = 500
)

// Envelope es el sobre uniforme de todas las respuestas: {code, message, data}.
type Envelope struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Data    any    `json:"data"`
}

// Success construye un sobre de éxito.
func Success(data any, message string) Envelope {
	if message == "" {
		message = "success"
	}
	return Envelope{Code: CodeOK, Message: message, Data: data}
}

// Failure construye un sobre de error sin datos.
func Failure(code int, message string) Envelope {
	return Envelope{Code: code, Message: message, Data: nil}
}

// ListPayload payload de los listados paginados.
type ListPayload[T any] struct {
	List  []T `json:"list"`
	Total int `json:"total"`
	Page  int `json:"page"`
	Size  int `json:"size"`
}

// PageRequest paginación por número de página (page, size).
type PageRequest struct {
	Page   int
	Size   int
	Search string
}

// Límites de paginación.
const (
	DefaultPageSize = 10
	MaxPageSize     = 100
)

// Normalize aplica valores por defecto y límites.
func (p *PageRequest) Normalize() {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.Size <= 0 {
		p.Size = DefaultPageSize
	}
	if p.Size > MaxPageSize {
		p.Size = MaxPageSize
	}
}

// Offset devuelve el desplazamiento SQL de la página.
func (p PageRequest) Offset() int {
	return (p.Page - 1) * p.Size
}
