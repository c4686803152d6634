// Package pdf genera el informe de artículos bajo stock mínimo.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: nombre del almacén  │  título + fecha de emisión   │
//	│  RESUMEN: artículos bajo mínimo / faltante total            │
//	│  TABLA: Código | Artículo | Categoría | Ud. | Stock | Mín.  │
//	│  FOOTER: leyenda                                             │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"
	"strconv"
	"time"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"

	"github.com/jhoicas/Almacen-api/internal/domain/entity"
)

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorAlert   = &props.Color{Red: 180, Green: 30, Blue: 30}
)

// ReportGenerator genera PDFs con Maroto v2.
type ReportGenerator struct {
	warehouse string
}

// NewReportGenerator construye el generador; warehouse es el nombre que va en la cabecera.
func NewReportGenerator(warehouse string) *ReportGenerator {
	return &ReportGenerator{warehouse: warehouse}
}

// LowStockPDF genera el informe de artículos con current_stock <= min_stock.
func (g *ReportGenerator) LowStockPDF(_ context.Context, items []*entity.Item, at time.Time) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Informe de stock bajo", true).
		WithAuthor(g.warehouse, true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(g.warehouse, at))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(summaryRow(items))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))

	m.AddRows(tableHeaderRow())
	if len(items) == 0 {
		m.AddRows(row.New(10).Add(col.New(12).Add(
			text.New("Ningún artículo está por debajo de su stock mínimo.", props.Text{
				Size: 9, Align: align.Center, Top: 3, Color: colorGray,
			}),
		)))
	}
	m.AddRows(tableDetailRows(items)...)

	m.AddRows(line.NewRow(3))
	m.AddRows(row.New(8).Add(col.New(12).Add(
		text.New("Stock negativo indica salidas registradas por encima de lo disponible.", props.Text{
			Size: 6.5, Color: colorGray, Top: 2,
		}),
	)))

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

func headerRow(warehouse string, at time.Time) core.Row {
	return row.New(16).Add(
		col.New(7).Add(
			text.New(warehouse, props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
		),
		col.New(5).Add(
			text.New("INFORME DE STOCK BAJO", props.Text{
				Style: fontstyle.Bold, Size: 9, Align: align.Right, Color: colorPrimary, Top: 1,
			}),
			text.New("Emitido: "+at.Format("02/01/2006 15:04"), props.Text{
				Size: 8, Align: align.Right, Top: 8, Color: colorGray,
			}),
		),
	)
}

func summaryRow(items []*entity.Item) core.Row {
	return row.New(10).Add(col.New(12).Add(
		text.New(fmt.Sprintf("Artículos bajo mínimo: %d   |   Faltante total: %s",
			len(items), formatThousands(totalShortage(items))), props.Text{
			Size: 9, Top: 3,
		}),
	))
}

func tableHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a, Color: colorPrimary, Top: 2, Left: 1, Right: 1,
		}))
	}
	return row.New(8).Add(
		h("Código", 2, align.Left),
		h("Artículo", 4, align.Left),
		h("Categoría", 2, align.Left),
		h("Ud.", 1, align.Center),
		h("Stock", 1, align.Right),
		h("Mín.", 1, align.Right),
		h("Falta", 1, align.Right),
	)
}

func tableDetailRows(items []*entity.Item) []core.Row {
	result := make([]core.Row, 0, len(items))
	for _, it := range items {
		stockProps := props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1}
		if it.CurrentStock < 0 {
			stockProps.Color = colorAlert
			stockProps.Style = fontstyle.Bold
		}
		result = append(result, row.New(7).Add(
			col.New(2).Add(text.New(it.ItemCode, props.Text{Size: 8, Top: 1, Left: 1})),
			col.New(4).Add(text.New(it.ItemName, props.Text{Size: 8, Top: 1, Left: 1})),
			col.New(2).Add(text.New(it.Category, props.Text{Size: 8, Top: 1, Left: 1})),
			col.New(1).Add(text.New(it.Unit, props.Text{Size: 8, Align: align.Center, Top: 1})),
			col.New(1).Add(text.New(formatThousands(it.CurrentStock), stockProps)),
			col.New(1).Add(text.New(formatThousands(it.MinStock), props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1})),
			col.New(1).Add(text.New(formatThousands(shortage(it)), props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1})),
		))
	}
	return result
}

// shortage unidades que faltan para volver al mínimo.
func shortage(it *entity.Item) int {
	if it.CurrentStock >= it.MinStock {
		return 0
	}
	return it.MinStock - it.CurrentStock
}

func totalShortage(items []*entity.Item) int {
	total := 0
	for _, it := range items {
		total += shortage(it)
	}
	return total
}

// formatThousands inserta puntos de miles. Ej: 25000 → "25.000", -1200 → "-1.200".
func formatThousands(n int) string {
	s := strconv.Itoa(n)
	sign := ""
	if n < 0 {
		sign, s = "-", s[1:]
	}
	if len(s) <= 3 {
		return sign + s
	}
	buf := make([]byte, 0, len(s)+len(s)/3)
	for i, c := range []byte(s) {
		if i > 0 && (len(s)-i)%3 == 0 {
			buf = append(buf, '.')
		}
		buf = append(buf, c)
	}
	return sign + string(buf)
}
