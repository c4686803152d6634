package postgres_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"

	"github.com/jhoicas/Almacen-api/internal/application/ledger"
	"github.com/jhoicas/Almacen-api/internal/domain"
	"github.com/jhoicas/Almacen-api/internal/domain/entity"
	"github.com/jhoicas/Almacen-api/internal/domain/repository"
	"github.com/jhoicas/Almacen-api/internal/infrastructure/postgres"
	"github.com/jhoicas/Almacen-api/internal/infrastructure/postgres/testhelper"
)

var day = time.Date(2024, 5, 20, 0, 0, 0, 0, time.UTC)

func newItem(code, name string, stock int) *entity.Item {
	return &entity.Item{
		ItemCode: code, ItemName: name, Category: entity.DefaultCategory, Unit: entity.DefaultUnit,
		InitialStock: stock, CurrentStock: stock, MinStock: entity.DefaultMinStock,
	}
}

func TestItemRepo_CRUD(t *testing.T) {
	pool := testhelper.SetupTestDB(t)
	repo := postgres.NewItemRepository(pool)
	ctx := context.Background()

	it := newItem("A-1", "Tornillo", 5)
	require.NoError(t, repo.Create(ctx, it))
	assert.NotZero(t, it.ID)
	assert.False(t, it.CreatedAt.IsZero())

	err := repo.Create(ctx, newItem("A-1", "Otro", 0))
	assert.ErrorIs(t, err, domain.ErrDuplicate)

	got, err := repo.GetByCode(ctx, "A-1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "Tornillo", got.ItemName)

	got.ItemName = "Tornillo M6"
	got.CurrentStock = 999
	require.NoError(t, repo.Update(ctx, got))
	again, err := repo.GetByID(ctx, it.ID)
	require.NoError(t, err)
	assert.Equal(t, "Tornillo M6", again.ItemName)
	assert.Equal(t, 5, again.CurrentStock)

	missing, err := repo.GetByID(ctx, 12345)
	require.NoError(t, err)
	assert.Nil(t, missing)

	ok, err := repo.Delete(ctx, it.ID)
	require.NoError(t, err)
	assert.True(t, ok)
	ok, err = repo.Delete(ctx, it.ID)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestItemRepo_UpsertYNombre(t *testing.T) {
	pool := testhelper.SetupTestDB(t)
	repo := postgres.NewItemRepository(pool)
	ctx := context.Background()

	created, err := repo.UpsertByCode(ctx, newItem("U-1", "Cinta", 3))
	require.NoError(t, err)
	assert.True(t, created)

	upd := newItem("U-1", "Cinta aislante", 7)
	created, err = repo.UpsertByCode(ctx, upd)
	require.NoError(t, err)
	assert.False(t, created)

	got, err := repo.GetByCode(ctx, "U-1")
	require.NoError(t, err)
	assert.Equal(t, "Cinta aislante", got.ItemName)
	assert.Equal(t, 7, got.CurrentStock)
	assert.Equal(t, upd.ID, got.ID)

	taken, err := repo.NameTakenByOtherCode(ctx, "Cinta aislante", "U-2")
	require.NoError(t, err)
	assert.True(t, taken)
	taken, err = repo.NameTakenByOtherCode(ctx, "Cinta aislante", "U-1")
	require.NoError(t, err)
	assert.False(t, taken)
}

func TestItemRepo_ListYEstadisticas(t *testing.T) {
	pool := testhelper.SetupTestDB(t)
	repo := postgres.NewItemRepository(pool)
	ctx := context.Background()

	for _, it := range []*entity.Item{
		{ItemCode: "L-1", ItemName: "Guante talla M", Category: "EPP", Unit: "par", CurrentStock: 2, MinStock: 10},
		{ItemCode: "L-2", ItemName: "Guante talla L", Category: "EPP", Unit: "par", CurrentStock: 30, MinStock: 10},
		{ItemCode: "L-3", ItemName: "Casco", Category: "EPP", Unit: "pieza", CurrentStock: 10, MinStock: 10},
	} {
		require.NoError(t, repo.Create(ctx, it))
	}

	list, total, err := repo.List(ctx, repository.ItemFilter{Search: "guante", Limit: 1})
	require.NoError(t, err)
	assert.Equal(t, 2, total)
	require.Len(t, list, 1)
	assert.Equal(t, "L-2", list[0].ItemCode)

	list, total, err = repo.List(ctx, repository.ItemFilter{LowStockOnly: true})
	require.NoError(t, err)
	assert.Equal(t, 2, total)
	assert.Len(t, list, 2)

	_, total, err = repo.List(ctx, repository.ItemFilter{Unit: "pieza", Category: "EPP"})
	require.NoError(t, err)
	assert.Equal(t, 1, total)

	all, err := repo.ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "L-3", all[0].ItemCode)

	st, err := repo.Statistics(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, st.TotalItems)
	assert.Equal(t, int64(42), st.TotalStock)
	assert.Equal(t, 2, st.LowStockCount)
	assert.Equal(t, 1, st.NormalStockCount)
	assert.True(t, decimal.NewFromInt(14).Equal(st.AverageStock), st.AverageStock.String())
}

func TestLedger_SobrePostgres(t *testing.T) {
	pool := testhelper.SetupTestDB(t)
	ctx := context.Background()
	items := postgres.NewItemRepository(pool)
	users := postgres.NewUserRepository(pool)
	eng := ledger.NewEngine(postgres.NewTxRunner(pool), postgres.NewMovementRepository(pool))

	op := &entity.User{Username: "luis", Nickname: "Luis G.", PasswordHash: "x", Role: entity.RoleOperator, IsActive: true}
	require.NoError(t, users.Create(ctx, op))
	it := newItem("M-1", "Martillo", 10)
	require.NoError(t, items.Create(ctx, it))

	in, err := eng.PostInbound(ctx, ledger.InboundInput{ItemID: it.ID, Quantity: 4, Supplier: "ACME", Date: day,
		Operator: &entity.Identity{UserID: op.ID, Username: op.Username}})
	require.NoError(t, err)
	assert.Equal(t, "Martillo", in.ItemName)

	_, err = eng.PostOutbound(ctx, ledger.OutboundInput{ItemID: it.ID, Quantity: 50, Receiver: "Obra", Date: day})
	require.NoError(t, err)

	got, err := items.GetByID(ctx, it.ID)
	require.NoError(t, err)
	assert.Equal(t, -36, got.CurrentStock)

	bal, err := eng.Verify(ctx, it.ID)
	require.NoError(t, err)
	assert.True(t, bal.Consistent())
	assert.Equal(t, 4, bal.InboundTotal)
	assert.Equal(t, 50, bal.OutboundTotal)

	movs := postgres.NewMovementRepository(pool)
	list, total, err := movs.ListInbound(ctx, repository.MovementFilter{Search: "luis", Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	assert.Equal(t, "Luis G.", list[0].OperatorName)
	assert.True(t, list[0].InboundDate.Equal(day))

	outs, _, err := movs.ListOutbound(ctx, repository.MovementFilter{ItemID: it.ID})
	require.NoError(t, err)
	require.Len(t, outs, 1)
	assert.Nil(t, outs[0].OperatorID)
	assert.Empty(t, outs[0].OperatorName)

	_, err = eng.PostInbound(ctx, ledger.InboundInput{ItemID: 9999, Quantity: 1, Date: day})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	// borrar el artículo arrastra sus movimientos
	ok, err := items.Delete(ctx, it.ID)
	require.NoError(t, err)
	assert.True(t, ok)
	_, total, err = movs.ListInbound(ctx, repository.MovementFilter{})
	require.NoError(t, err)
	assert.Zero(t, total)
}

func TestLedger_EntradasConcurrentes(t *testing.T) {
	pool := testhelper.SetupTestDB(t)
	ctx := context.Background()
	items := postgres.NewItemRepository(pool)
	eng := ledger.NewEngine(postgres.NewTxRunner(pool), postgres.NewMovementRepository(pool))

	it := newItem("C-1", "Caja", 0)
	require.NoError(t, items.Create(ctx, it))

	var g errgroup.Group
	for i := 0; i < 100; i++ {
		g.Go(func() error {
			_, err := eng.PostInbound(ctx, ledger.InboundInput{ItemID: it.ID, Quantity: 1, Date: day})
			return err
		})
	}
	require.NoError(t, g.Wait())

	got, err := items.GetByID(ctx, it.ID)
	require.NoError(t, err)
	assert.Equal(t, 100, got.CurrentStock)

	bal, err := eng.Verify(ctx, it.ID)
	require.NoError(t, err)
	assert.True(t, bal.Consistent())
}

func TestTxRunner_RevierteAnteError(t *testing.T) {
	pool := testhelper.SetupTestDB(t)
	ctx := context.Background()
	runner := postgres.NewTxRunner(pool)
	boom := errors.New("boom")

	err := runner.Run(ctx, func(items repository.ItemRepository, _ repository.MovementRepository) error {
		if _, err := items.UpsertByCode(ctx, newItem("R-1", "Rollback", 1)); err != nil {
			return err
		}
		return boom
	})
	assert.ErrorIs(t, err, boom)

	got, err := postgres.NewItemRepository(pool).GetByCode(ctx, "R-1")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestLedger_Recompute(t *testing.T) {
	pool := testhelper.SetupTestDB(t)
	ctx := context.Background()
	items := postgres.NewItemRepository(pool)
	eng := ledger.NewEngine(postgres.NewTxRunner(pool), postgres.NewMovementRepository(pool))

	it := newItem("X-1", "Desfasado", 5)
	require.NoError(t, items.Create(ctx, it))
	_, err := eng.PostInbound(ctx, ledger.InboundInput{ItemID: it.ID, Quantity: 5, Date: day})
	require.NoError(t, err)
	require.NoError(t, items.SetCurrentStock(ctx, it.ID, 0))

	bal, err := eng.Recompute(ctx, it.ID)
	require.NoError(t, err)
	assert.Equal(t, 10, bal.CurrentStock)

	got, err := items.GetByID(ctx, it.ID)
	require.NoError(t, err)
	assert.Equal(t, 10, got.CurrentStock)
}
