package dto

import (
	"strconv"
	"strings"
	"time"

	"github.com/jhoicas/Almacen-api/internal/domain/entity"
	"github.com/jhoicas/Almacen-api/internal/domain/ledger"
)

// ItemField describe una columna de Item: nombre canónico, alias aceptados en la entrada
// y las funciones de codificación/decodificación. La misma tabla sirve para importar,
// exportar y normalizar los cuerpos JSON.
type ItemField struct {
	Column  string
	Aliases []string
	Encode  func(it *entity.Item) string
	Decode  func(it *entity.Item, v any)
}

// ItemFields en el orden exacto de las columnas de importación/exportación.
var ItemFields = []ItemField{
	{
		Column: "item_code", Aliases: []string{"itemCode"},
		Encode: func(it *entity.Item) string { return it.ItemCode },
		Decode: func(it *entity.Item, v any) { it.ItemCode = ledger.ToText(v) },
	},
	{
		Column: "item_name", Aliases: []string{"itemName"},
		Encode: func(it *entity.Item) string { return it.ItemName },
		Decode: func(it *entity.Item, v any) { it.ItemName = ledger.ToText(v) },
	},
	{
		Column: "category",
		Encode: func(it *entity.Item) string { return it.Category },
		Decode: func(it *entity.Item, v any) { it.Category = textOr(v, entity.DefaultCategory) },
	},
	{
		Column: "specification",
		Encode: func(it *entity.Item) string { return it.Specification },
		Decode: func(it *entity.Item, v any) { it.Specification = ledger.ToText(v) },
	},
	{
		Column: "unit",
		Encode: func(it *entity.Item) string { return it.Unit },
		Decode: func(it *entity.Item, v any) { it.Unit = textOr(v, entity.DefaultUnit) },
	},
	{
		Column: "initial_stock", Aliases: []string{"initialStock"},
		Encode: func(it *entity.Item) string { return strconv.Itoa(it.InitialStock) },
		Decode: func(it *entity.Item, v any) { it.InitialStock = ledger.ToInt(v, 0) },
	},
	{
		Column: "current_stock", Aliases: []string{"currentStock"},
		Encode: func(it *entity.Item) string { return strconv.Itoa(it.CurrentStock) },
		Decode: func(it *entity.Item, v any) { it.CurrentStock = ledger.ToInt(v, 0) },
	},
	{
		Column: "min_stock", Aliases: []string{"minStock"},
		Encode: func(it *entity.Item) string { return strconv.Itoa(it.MinStock) },
		Decode: func(it *entity.Item, v any) { it.MinStock = ledger.ToInt(v, entity.DefaultMinStock) },
	},
	{
		Column: "location",
		Encode: func(it *entity.Item) string { return it.Location },
		Decode: func(it *entity.Item, v any) { it.Location = ledger.ToText(v) },
	},
	{
		Column: "remark",
		Encode: func(it *entity.Item) string { return it.Remark },
		Decode: func(it *entity.Item, v any) { it.Remark = ledger.ToText(v) },
	},
}

// Columnas de solo salida que cierran el archivo exportado.
const (
	ColumnCreatedAt = "created_at"
	ColumnUpdatedAt = "updated_at"
)

var aliasToColumn = buildAliasIndex()

func buildAliasIndex() map[string]string {
	idx := make(map[string]string, len(ItemFields)*2)
	for _, f := range ItemFields {
		idx[f.Column] = f.Column
		for _, a := range f.Aliases {
			idx[a] = f.Column
		}
	}
	return idx
}

// CanonicalColumn traduce un nombre de columna o clave JSON a su nombre canónico.
// Las columnas desconocidas devuelven ok=false y se ignoran.
func CanonicalColumn(name string) (string, bool) {
	col, ok := aliasToColumn[strings.TrimSpace(name)]
	return col, ok
}

// ExportHeader cabecera del archivo exportado.
func ExportHeader() []string {
	h := make([]string, 0, len(ItemFields)+2)
	for _, f := range ItemFields {
		h = append(h, f.Column)
	}
	return append(h, ColumnCreatedAt, ColumnUpdatedAt)
}

// ExportRow fila exportada de un artículo, alineada con ExportHeader.
func ExportRow(it *entity.Item) []string {
	row := make([]string, 0, len(ItemFields)+2)
	for _, f := range ItemFields {
		row = append(row, f.Encode(it))
	}
	return append(row,
		it.CreatedAt.Format(time.RFC3339Nano),
		it.UpdatedAt.Format(time.RFC3339Nano),
	)
}

// ItemRecord es un registro de artículo con claves canónicas.
type ItemRecord map[string]any

// NormalizeItemRecord traduce alias a nombres canónicos y descarta claves desconocidas.
// Si llegan alias y nombre canónico a la vez, gana el primer valor no vacío en orden
// alias → canónico.
func NormalizeItemRecord(raw map[string]any) ItemRecord {
	rec := make(ItemRecord, len(ItemFields))
	for _, f := range ItemFields {
		keys := append(append([]string{}, f.Aliases...), f.Column)
		for _, k := range keys {
			v, ok := raw[k]
			if !ok {
				continue
			}
			if _, seen := rec[f.Column]; !seen || isBlank(rec[f.Column]) {
				rec[f.Column] = v
			}
		}
	}
	return rec
}

// Has indica si el registro trae un valor no vacío para la columna.
func (r ItemRecord) Has(column string) bool {
	v, ok := r[column]
	return ok && !isBlank(v)
}

// Text valor de texto de la columna (vacío si no viene).
func (r ItemRecord) Text(column string) string {
	return ledger.ToText(r[column])
}

// DecodeItem construye un Item completo aplicando los valores por defecto de cada columna.
// initial_stock y current_stock se completan mutuamente cuando uno de los dos falta.
func DecodeItem(rec ItemRecord) *entity.Item {
	it := &entity.Item{}
	for _, f := range ItemFields {
		f.Decode(it, rec[f.Column])
	}
	if !rec.Has("current_stock") && rec.Has("initial_stock") {
		it.CurrentStock = it.InitialStock
	}
	if !rec.Has("initial_stock") && rec.Has("current_stock") {
		it.InitialStock = ledger.ToInt(rec["current_stock"], 0)
	}
	return it
}

// ApplyItem sobrescribe en it solo las columnas presentes en rec (actualización parcial).
// initial_stock y current_stock nunca se aplican: el primero se fija al crear y el
// segundo solo cambia vía movimientos o importación.
func ApplyItem(it *entity.Item, rec ItemRecord) {
	for _, f := range ItemFields {
		if f.Column == "current_stock" || f.Column == "initial_stock" {
			continue
		}
		if v, ok := rec[f.Column]; ok {
			f.Decode(it, v)
		}
	}
}

func textOr(v any, def string) string {
	if s := ledger.ToText(v); s != "" {
		return s
	}
	return def
}

func isBlank(v any) bool {
	return ledger.ToText(v) == ""
}
