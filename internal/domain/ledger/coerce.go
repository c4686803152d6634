// Package ledger reúne las políticas de coerción compartidas por el motor de movimientos
// y la importación masiva. Ninguna de ellas falla: ante un valor no interpretable
// devuelven el valor por defecto.
package ledger

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// DateLayout formato ISO-8601 de fecha (YYYY-MM-DD).
const DateLayout = "2006-01-02"

// ToInt convierte v a entero. Acepta enteros, flotantes sin parte fraccionaria y
// textos numéricos ("12", " 12 ", "12.0", "1.2E+01"). Cualquier otra cosa devuelve def.
func ToInt(v any, def int) int {
	switch n := v.(type) {
	case nil:
		return def
	case int:
		return n
	case int32:
		return int(n)
	case int64:
		return int(n)
	case float64:
		if n != math.Trunc(n) || math.IsInf(n, 0) || math.IsNaN(n) {
			return def
		}
		return int(n)
	case json.Number:
		return parseIntText(n.String(), def)
	case string:
		return parseIntText(n, def)
	case []byte:
		return parseIntText(string(n), def)
	default:
		return def
	}
}

func parseIntText(s string, def int) int {
	s = strings.TrimSpace(s)
	if s == "" {
		return def
	}
	if n, err := strconv.Atoi(s); err == nil {
		return n
	}
	// Las hojas de cálculo suelen entregar enteros como "10.0" o en notación científica.
	d, err := decimal.NewFromString(s)
	if err != nil || !d.IsInteger() {
		return def
	}
	return int(d.IntPart())
}

// ToDate interpreta los primeros 10 caracteres de v como YYYY-MM-DD.
// Si falta o no es válida devuelve la fecha de hoy.
func ToDate(v any) time.Time {
	return ToDateAt(v, time.Now())
}

// ToDateAt igual que ToDate pero con "hoy" explícito.
func ToDateAt(v any, now time.Time) time.Time {
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	var s string
	switch t := v.(type) {
	case nil:
		return today
	case time.Time:
		return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	case string:
		s = t
	default:
		s = fmt.Sprint(t)
	}
	s = strings.TrimSpace(s)
	if len(s) < len(DateLayout) {
		return today
	}
	d, err := time.Parse(DateLayout, s[:len(DateLayout)])
	if err != nil {
		return today
	}
	return d
}

// ToText convierte un valor de celda o de JSON a texto sin espacios laterales.
// Los flotantes enteros se imprimen sin decimales ("10", no "10.0").
func ToText(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(t)
	case float64:
		if t == math.Trunc(t) && !math.IsInf(t, 0) {
			return strconv.FormatInt(int64(t), 10)
		}
		return strconv.FormatFloat(t, 'f', -1, 64)
	case json.Number:
		return t.String()
	default:
		return strings.TrimSpace(fmt.Sprint(t))
	}
}
