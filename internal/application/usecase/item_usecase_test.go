package usecase_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Almacen-api/internal/application/dto"
	"github.com/jhoicas/Almacen-api/internal/application/usecase"
	"github.com/jhoicas/Almacen-api/internal/domain"
	"github.com/jhoicas/Almacen-api/internal/domain/entity"
	"github.com/jhoicas/Almacen-api/internal/testutil/memstore"
)

func TestItemCreate_StockActualIgualAlInicial(t *testing.T) {
	store := memstore.New()
	uc := usecase.NewItemUseCase(store)

	out, err := uc.Create(context.Background(), map[string]any{
		"itemCode": "T-1", "itemName": "Taladro", "initialStock": "25", "currentStock": 3,
	})
	require.NoError(t, err)
	assert.Equal(t, 25, out.InitialStock)
	assert.Equal(t, 25, out.CurrentStock)
	assert.Equal(t, entity.DefaultUnit, out.Unit)
	assert.Equal(t, entity.DefaultMinStock, out.MinStock)
	assert.NotZero(t, out.ID)
}

func TestItemCreate_Validaciones(t *testing.T) {
	store := memstore.New()
	uc := usecase.NewItemUseCase(store)
	ctx := context.Background()

	_, err := uc.Create(ctx, map[string]any{"item_code": "  ", "item_name": "x"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = uc.Create(ctx, map[string]any{"item_code": "T-1", "item_name": "x"})
	require.NoError(t, err)
	_, err = uc.Create(ctx, map[string]any{"item_code": "T-1", "item_name": "y"})
	assert.ErrorIs(t, err, domain.ErrDuplicate)
}

func TestItemUpdate_ParcialSinTocarStock(t *testing.T) {
	store := memstore.New()
	uc := usecase.NewItemUseCase(store)
	item := store.Seed(entity.Item{ItemCode: "U-1", ItemName: "Viejo", Category: "A", Unit: "kg",
		InitialStock: 10, CurrentStock: 4, MinStock: 2})

	out, err := uc.Update(context.Background(), item.ID, map[string]any{
		"itemName": "Nuevo", "currentStock": 999, "initial_stock": 999,
	})
	require.NoError(t, err)
	assert.Equal(t, "Nuevo", out.ItemName)
	assert.Equal(t, "A", out.Category)
	assert.Equal(t, "kg", out.Unit)
	assert.Equal(t, 10, out.InitialStock)
	assert.Equal(t, 4, out.CurrentStock)

	_, err = uc.Update(context.Background(), item.ID, map[string]any{"item_name": ""})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestItemGetDelete_NoEncontrado(t *testing.T) {
	store := memstore.New()
	uc := usecase.NewItemUseCase(store)
	ctx := context.Background()

	_, err := uc.GetByID(ctx, 42)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	_, err = uc.Update(ctx, 42, map[string]any{"item_name": "x"})
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.ErrorIs(t, uc.Delete(ctx, 42), domain.ErrNotFound)

	item := store.Seed(entity.Item{ItemCode: "V-1", ItemName: "Borrar"})
	require.NoError(t, uc.Delete(ctx, item.ID))
	assert.Empty(t, store.Items())
}

func TestItemList_BusquedaYPaginacion(t *testing.T) {
	store := memstore.New()
	uc := usecase.NewItemUseCase(store)
	for i, name := range []string{"Tornillo corto", "Tornillo largo", "Tuerca", "Tornillo fino"} {
		store.Seed(entity.Item{ItemCode: string(rune('A' + i)), ItemName: name, Category: "Ferretería"})
	}

	out, err := uc.List(context.Background(), dto.ItemListRequest{
		PageRequest: dto.PageRequest{Page: 2, Size: 2, Search: "tornillo"},
	})
	require.NoError(t, err)
	assert.Equal(t, 3, out.Total)
	assert.Equal(t, 2, out.Page)
	assert.Equal(t, 2, out.Size)
	require.Len(t, out.List, 1)
	assert.Equal(t, "Tornillo corto", out.List[0].ItemName)

	out, err = uc.List(context.Background(), dto.ItemListRequest{})
	require.NoError(t, err)
	assert.Equal(t, 1, out.Page)
	assert.Equal(t, dto.DefaultPageSize, out.Size)
	assert.Len(t, out.List, 4)
}

func TestItemLowStockYEstadisticas(t *testing.T) {
	store := memstore.New()
	uc := usecase.NewItemUseCase(store)
	store.Seed(entity.Item{ItemCode: "L-1", ItemName: "Bajo", CurrentStock: 2, MinStock: 5})
	store.Seed(entity.Item{ItemCode: "L-2", ItemName: "Justo", CurrentStock: 5, MinStock: 5})
	store.Seed(entity.Item{ItemCode: "L-3", ItemName: "Sobra", CurrentStock: 50, MinStock: 5})

	low, err := uc.LowStock(context.Background(), dto.PageRequest{})
	require.NoError(t, err)
	assert.Equal(t, 2, low.Total)

	all, err := uc.LowStockItems(context.Background())
	require.NoError(t, err)
	assert.Len(t, all, 2)

	st, err := uc.Statistics(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, st.TotalItems)
	assert.Equal(t, int64(57), st.TotalStock)
	assert.Equal(t, 2, st.LowStockCount)
	assert.Equal(t, 1, st.NormalStockCount)
	assert.True(t, decimal.NewFromInt(19).Equal(st.AverageStock))
}

func TestMovementList_FiltroPorArticulo(t *testing.T) {
	store := memstore.New()
	uc := usecase.NewMovementUseCase(store)
	ctx := context.Background()
	day := time.Date(2024, 3, 2, 0, 0, 0, 0, time.UTC)
	for _, rec := range []*entity.InboundRecord{
		{ItemID: 1, Quantity: 1, Supplier: "Norte", InboundDate: day, ItemName: "Uno"},
		{ItemID: 2, Quantity: 2, Supplier: "Sur", InboundDate: day, ItemName: "Dos"},
		{ItemID: 1, Quantity: 3, Supplier: "Sur", InboundDate: day, ItemName: "Uno"},
	} {
		require.NoError(t, store.CreateInbound(ctx, rec))
	}
	require.NoError(t, store.CreateOutbound(ctx, &entity.OutboundRecord{ItemID: 1, Quantity: 1, Receiver: "Ana", OutboundDate: day, ItemName: "Uno"}))

	in, err := uc.ListInbound(ctx, dto.PageRequest{}, 1)
	require.NoError(t, err)
	assert.Equal(t, 2, in.Total)
	assert.Equal(t, 3, in.List[0].Quantity)
	assert.Equal(t, "2024-03-02", in.List[0].InboundDate)

	in, err = uc.ListInbound(ctx, dto.PageRequest{Search: "sur"}, 0)
	require.NoError(t, err)
	assert.Equal(t, 2, in.Total)

	out, err := uc.ListOutbound(ctx, dto.PageRequest{Search: "ana"}, 0)
	require.NoError(t, err)
	assert.Equal(t, 1, out.Total)
	assert.Equal(t, "Ana", out.List[0].Receiver)
}
