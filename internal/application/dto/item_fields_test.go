package dto_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Almacen-api/internal/application/dto"
	"github.com/jhoicas/Almacen-api/internal/domain/entity"
)

func TestCanonicalColumn_Alias(t *testing.T) {
	col, ok := dto.CanonicalColumn("itemCode")
	require.True(t, ok)
	assert.Equal(t, "item_code", col)

	col, ok = dto.CanonicalColumn(" min_stock ")
	require.True(t, ok)
	assert.Equal(t, "min_stock", col)

	_, ok = dto.CanonicalColumn("precio")
	assert.False(t, ok, "las columnas desconocidas se ignoran")
}

func TestNormalizeItemRecord_DescartaDesconocidas(t *testing.T) {
	rec := dto.NormalizeItemRecord(map[string]any{
		"itemCode":  "A-1",
		"item_name": "Tornillo",
		"color":     "rojo",
	})
	assert.Equal(t, "A-1", rec.Text("item_code"))
	assert.Equal(t, "Tornillo", rec.Text("item_name"))
	_, ok := rec["color"]
	assert.False(t, ok)
}

func TestNormalizeItemRecord_AliasVacioNoTapaCanonico(t *testing.T) {
	rec := dto.NormalizeItemRecord(map[string]any{
		"itemCode":  "",
		"item_code": "B-2",
	})
	assert.Equal(t, "B-2", rec.Text("item_code"))
}

func TestDecodeItem_Defaults(t *testing.T) {
	it := dto.DecodeItem(dto.ItemRecord{"item_code": "A", "item_name": "N"})
	assert.Equal(t, entity.DefaultCategory, it.Category)
	assert.Equal(t, entity.DefaultUnit, it.Unit)
	assert.Equal(t, entity.DefaultMinStock, it.MinStock)
	assert.Equal(t, 0, it.InitialStock)
	assert.Equal(t, 0, it.CurrentStock)
}

func TestDecodeItem_CurrentStockCaeAInitial(t *testing.T) {
	it := dto.DecodeItem(dto.ItemRecord{"item_code": "A", "item_name": "N", "initial_stock": "25", "current_stock": ""})
	assert.Equal(t, 25, it.InitialStock)
	assert.Equal(t, 25, it.CurrentStock)

	it = dto.DecodeItem(dto.ItemRecord{"item_code": "A", "item_name": "N", "current_stock": 7.0})
	assert.Equal(t, 7, it.InitialStock)
	assert.Equal(t, 7, it.CurrentStock)
}

func TestApplyItem_NoTocaStock(t *testing.T) {
	it := &entity.Item{ItemCode: "A", ItemName: "Viejo", InitialStock: 5, CurrentStock: 9, MinStock: 3}
	dto.ApplyItem(it, dto.NormalizeItemRecord(map[string]any{
		"itemName":     "Nuevo",
		"currentStock": 100,
		"initialStock": 100,
		"minStock":     "4",
	}))
	assert.Equal(t, "Nuevo", it.ItemName)
	assert.Equal(t, 4, it.MinStock)
	assert.Equal(t, 5, it.InitialStock)
	assert.Equal(t, 9, it.CurrentStock)
	assert.Equal(t, "A", it.ItemCode, "las columnas ausentes no se modifican")
}

func TestExportRow_AlineadaConCabecera(t *testing.T) {
	ts := time.Date(2024, 3, 1, 8, 0, 0, 0, time.UTC)
	it := &entity.Item{
		ItemCode: "A", ItemName: "N", Category: "c", Unit: "u",
		InitialStock: 1, CurrentStock: 2, MinStock: 3, CreatedAt: ts, UpdatedAt: ts,
	}
	header := dto.ExportHeader()
	row := dto.ExportRow(it)
	require.Len(t, row, len(header))
	assert.Equal(t, []string{
		"item_code", "item_name", "category", "specification", "unit",
		"initial_stock", "current_stock", "min_stock", "location", "remark",
		"created_at", "updated_at",
	}, header)
	assert.Equal(t, "2", row[6])
	assert.Equal(t, "2024-03-01T08:00:00Z", row[10])
}

func TestPageRequest_Normalize(t *testing.T) {
	p := dto.PageRequest{Page: 0, Size: 1000}
	p.Normalize()
	assert.Equal(t, 1, p.Page)
	assert.Equal(t, dto.MaxPageSize, p.Size)
	p = dto.PageRequest{Page: 3, Size: 20}
	assert.Equal(t, 40, p.Offset())
}

func TestParseInboundRequest_Permisivo(t *testing.T) {
	in := dto.ParseInboundRequest(map[string]any{
		"item":     "12",
		"quantity": "muchos",
		"date":     "2024-02-03",
		"supplier": " ACME ",
	})
	assert.Equal(t, int64(12), in.ItemID)
	assert.Equal(t, 0, in.Quantity)
	assert.Equal(t, "ACME", in.Supplier)
	assert.Equal(t, time.Date(2024, 2, 3, 0, 0, 0, 0, time.UTC), in.Date)
}
