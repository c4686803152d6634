package pdf

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Almacen-api/internal/domain/entity"
)

func TestLowStockPDF(t *testing.T) {
	g := NewReportGenerator("Almacén Central")
	items := []*entity.Item{
		{ItemCode: "A-1", ItemName: "Tornillo", Category: "Ferreteria", Unit: "caja", CurrentStock: 2, MinStock: 10},
		{ItemCode: "B-2", ItemName: "Cable", Category: "Electrico", Unit: "m", CurrentStock: -40, MinStock: 5},
	}

	out, err := g.LowStockPDF(context.Background(), items, time.Date(2024, 1, 2, 10, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF")))
}

func TestLowStockPDF_SinArticulos(t *testing.T) {
	out, err := NewReportGenerator("Almacén").LowStockPDF(context.Background(), nil, time.Now())
	require.NoError(t, err)
	assert.NotEmpty(t, out)
}

func TestShortage(t *testing.T) {
	assert.Equal(t, 8, shortage(&entity.Item{CurrentStock: 2, MinStock: 10}))
	assert.Equal(t, 45, shortage(&entity.Item{CurrentStock: -40, MinStock: 5}))
	assert.Equal(t, 0, shortage(&entity.Item{CurrentStock: 10, MinStock: 10}))
}

func TestFormatThousands(t *testing.T) {
	assert.Equal(t, "0", formatThousands(0))
	assert.Equal(t, "999", formatThousands(999))
	assert.Equal(t, "25.000", formatThousands(25000))
	assert.Equal(t, "1.000.000", formatThousands(1000000))
	assert.Equal(t, "-1.200", formatThousands(-1200))
}
