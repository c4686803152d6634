package impex

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/jhoicas/Almacen-api/internal/domain"
)

// Format formato tabular soportado.
type Format string

const (
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
	FormatXLS  Format = "xls"
)

// DetectFormat decide el formato por la extensión del nombre de archivo.
func DetectFormat(filename string) (Format, error) {
	switch strings.ToLower(filepath.Ext(strings.TrimSpace(filename))) {
	case ".csv":
		return FormatCSV, nil
	case ".xlsx":
		return FormatXLSX, nil
	case ".xls":
		return FormatXLS, nil
	default:
		return "", domain.ErrUnsupportedFormat
	}
}

// ContentType tipo MIME del archivo exportado.
func (f Format) ContentType() string {
	switch f {
	case FormatXLSX:
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	case FormatXLS:
		return "application/vnd.ms-excel"
	default:
		return "text/csv"
	}
}

var errUnsupportedExport = fmt.Errorf("%w: export supports csv and xlsx", domain.ErrInvalidInput)
