package impex

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/extrame/xls"
	"github.com/xuri/excelize/v2"
	"golang.org/x/text/encoding/simplifiedchinese"
	"golang.org/x/text/transform"

	"github.com/jhoicas/Almacen-api/internal/application/dto"
	"github.com/jhoicas/Almacen-api/internal/domain"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Row es una fila de datos del archivo con su número visible: 1 es la primera fila
// después de la cabecera, contando las filas vacías.
type Row struct {
	N      int
	Record dto.ItemRecord
}

// ReadRecords convierte el archivo subido en filas con claves canónicas, en el orden
// del archivo. Las filas vacías no se devuelven pero conservan su número.
func ReadRecords(filename string, r io.Reader) ([]Row, error) {
	format, err := DetectFormat(filename)
	if err != nil {
		return nil, err
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read upload: %w", err)
	}

	var table [][]string
	switch format {
	case FormatCSV:
		table, err = decodeCSV(data)
	case FormatXLSX:
		table, err = decodeXLSX(data)
	case FormatXLS:
		table, err = decodeXLS(data)
	}
	if err != nil {
		return nil, err
	}
	return normalize(table), nil
}

// decodeCSV prueba UTF-8 (con o sin BOM), luego GBK y por último UTF-8 con reemplazo
// de secuencias inválidas. Gana el primer intento que produce una tabla.
func decodeCSV(data []byte) ([][]string, error) {
	attempts := []func([]byte) (string, bool){
		decodeUTF8SIG,
		decodeGBK,
		decodeLossyUTF8,
	}
	for _, decode := range attempts {
		text, ok := decode(data)
		if !ok {
			continue
		}
		table, err := parseCSV(text)
		if err == nil {
			return table, nil
		}
	}
	return nil, domain.ErrDecode
}

func decodeUTF8SIG(data []byte) (string, bool) {
	data = bytes.TrimPrefix(data, utf8BOM)
	if !utf8.Valid(data) {
		return "", false
	}
	return string(data), true
}

func decodeGBK(data []byte) (string, bool) {
	out, _, err := transform.Bytes(simplifiedchinese.GBK.NewDecoder(), data)
	if err != nil || bytes.ContainsRune(out, utf8.RuneError) {
		return "", false
	}
	return string(out), true
}

func decodeLossyUTF8(data []byte) (string, bool) {
	return string(bytes.ToValidUTF8(data, []byte(string(utf8.RuneError)))), true
}

func parseCSV(text string) ([][]string, error) {
	cr := csv.NewReader(strings.NewReader(text))
	cr.FieldsPerRecord = -1
	return cr.ReadAll()
}

func decodeXLSX(data []byte) ([][]string, error) {
	wb, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, formatError("xlsx", err)
	}
	defer wb.Close()

	sheets := wb.GetSheetList()
	if len(sheets) == 0 {
		return nil, formatError("xlsx", fmt.Errorf("workbook has no sheets"))
	}
	rows, err := wb.GetRows(sheets[0])
	if err != nil {
		return nil, formatError("xlsx", err)
	}
	return rows, nil
}

func decodeXLS(data []byte) (table [][]string, err error) {
	// el lector BIFF entra en pánico con archivos truncados
	defer func() {
		if p := recover(); p != nil {
			table, err = nil, formatError("xls", fmt.Errorf("%v", p))
		}
	}()

	wb, err := xls.OpenReader(bytes.NewReader(data), "utf-8")
	if err != nil {
		return nil, formatError("xls", err)
	}
	sheet := wb.GetSheet(0)
	if sheet == nil {
		return nil, formatError("xls", fmt.Errorf("workbook has no sheets"))
	}
	for i := 0; i <= int(sheet.MaxRow); i++ {
		row := sheet.Row(i)
		if row == nil {
			table = append(table, nil)
			continue
		}
		cells := make([]string, row.LastCol())
		for j := range cells {
			cells[j] = row.Col(j)
		}
		table = append(table, cells)
	}
	return table, nil
}

func formatError(kind string, cause error) error {
	return fmt.Errorf("%w: %s file could not be read (%v), confirm the file is not corrupt and is a valid %s workbook",
		domain.ErrFormat, kind, cause, kind)
}

// normalize recorta las cabeceras, convierte celdas ausentes en "" y traduce cada fila a
// un registro canónico. Las filas totalmente vacías se descartan sin renumerar las demás.
func normalize(table [][]string) []Row {
	if len(table) == 0 {
		return nil
	}
	header := make([]string, len(table[0]))
	for i, h := range table[0] {
		header[i] = strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))
	}

	rows := make([]Row, 0, len(table)-1)
	for i, row := range table[1:] {
		if isBlankRow(row) {
			continue
		}
		raw := make(map[string]any, len(header))
		for i, col := range header {
			if col == "" {
				continue
			}
			cell := ""
			if i < len(row) {
				cell = strings.TrimSpace(row[i])
			}
			raw[col] = cell
		}
		rows = append(rows, Row{N: i + 1, Record: dto.NormalizeItemRecord(raw)})
	}
	return rows
}

func isBlankRow(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
