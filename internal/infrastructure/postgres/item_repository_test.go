package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	pgxmock "github.com/pashagolub/pgxmock/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Almacen-api/internal/domain"
	"github.com/jhoicas/Almacen-api/internal/domain/entity"
	"github.com/jhoicas/Almacen-api/internal/domain/repository"
)

var itemCols = []string{"id", "item_code", "item_name", "category", "specification", "unit",
	"initial_stock", "current_stock", "min_stock", "location", "remark", "created_at", "updated_at"}

func newMock(t *testing.T) pgxmock.PgxPoolIface {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(func() {
		assert.NoError(t, mock.ExpectationsWereMet())
		mock.Close()
	})
	return mock
}

func TestItemRepo_AdjustStock(t *testing.T) {
	now := time.Now()

	tests := []struct {
		name    string
		setup   func(mock pgxmock.PgxPoolIface)
		wantNil bool
		wantErr bool
	}{
		{
			name: "ajusta",
			setup: func(mock pgxmock.PgxPoolIface) {
				rows := pgxmock.NewRows(itemCols).
					AddRow(int64(1), "A-1", "Tornillo", "其他", "", "个", 5, 8, 10, "", "", now, now)
				mock.ExpectQuery(`UPDATE items SET current_stock = current_stock \+ \$2`).
					WithArgs(int64(1), 3).
					WillReturnRows(rows)
			},
		},
		{
			name: "no existe",
			setup: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectQuery(`UPDATE items SET current_stock`).
					WithArgs(int64(1), 3).
					WillReturnError(pgx.ErrNoRows)
			},
			wantNil: true,
		},
		{
			name: "fallo de conexión",
			setup: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectQuery(`UPDATE items SET current_stock`).
					WithArgs(int64(1), 3).
					WillReturnError(errors.New("conn reset"))
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock := newMock(t)
			tt.setup(mock)

			it, err := NewItemRepository(mock).AdjustStock(context.Background(), 1, 3)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			if tt.wantNil {
				assert.Nil(t, it)
				return
			}
			assert.Equal(t, 8, it.CurrentStock)
		})
	}
}

func TestItemRepo_UpsertByCode_Flag(t *testing.T) {
	mock := newMock(t)
	now := time.Now()
	mock.ExpectQuery(`INSERT INTO items .* ON CONFLICT \(item_code\) DO UPDATE`).
		WithArgs("A-1", "Tornillo", "其他", "", "个", 5, 5, 10, "", "").
		WillReturnRows(pgxmock.NewRows([]string{"id", "created_at", "updated_at", "inserted"}).
			AddRow(int64(9), now, now, false))

	it := &entity.Item{ItemCode: "A-1", ItemName: "Tornillo", Category: "其他", Unit: "个",
		InitialStock: 5, CurrentStock: 5, MinStock: 10}
	created, err := NewItemRepository(mock).UpsertByCode(context.Background(), it)
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, int64(9), it.ID)
}

func TestItemRepo_Create_Duplicado(t *testing.T) {
	mock := newMock(t)
	mock.ExpectQuery(`INSERT INTO items`).
		WithArgs("A-1", "x", "", "", "", 0, 0, 0, "", "").
		WillReturnError(&pgconn.PgError{Code: "23505"})

	err := NewItemRepository(mock).Create(context.Background(), &entity.Item{ItemCode: "A-1", ItemName: "x"})
	assert.ErrorIs(t, err, domain.ErrDuplicate)
}

func TestItemRepo_List_ConstruyeFiltros(t *testing.T) {
	mock := newMock(t)
	now := time.Now()
	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM items WHERE \(\(item_code ILIKE \$1 OR item_name ILIKE \$2\) AND category = \$3 AND current_stock <= min_stock\)`).
		WithArgs("%tor%", "%tor%", "EPP").
		WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(1))
	mock.ExpectQuery(`ORDER BY id DESC LIMIT 10 OFFSET 20`).
		WithArgs("%tor%", "%tor%", "EPP").
		WillReturnRows(pgxmock.NewRows(itemCols).
			AddRow(int64(3), "T-1", "Tornillo", "EPP", "", "个", 0, 1, 10, "", "", now, now))

	list, total, err := NewItemRepository(mock).List(context.Background(), repository.ItemFilter{
		Search: "tor", Category: "EPP", LowStockOnly: true, Limit: 10, Offset: 20,
	})
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	require.Len(t, list, 1)
	assert.Equal(t, "T-1", list[0].ItemCode)
}

func TestItemRepo_SetCurrentStock_NoExiste(t *testing.T) {
	mock := newMock(t)
	mock.ExpectExec(`UPDATE items SET current_stock = \$2`).
		WithArgs(int64(4), 7).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	err := NewItemRepository(mock).SetCurrentStock(context.Background(), 4, 7)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestMapError(t *testing.T) {
	assert.Nil(t, mapError(nil, "op"))
	assert.ErrorIs(t, mapError(pgx.ErrNoRows, "op"), domain.ErrNotFound)
	assert.ErrorIs(t, mapError(&pgconn.PgError{Code: "23505"}, "op"), domain.ErrDuplicate)
	assert.ErrorIs(t, mapError(&pgconn.PgError{Code: "23503"}, "op"), domain.ErrNotFound)
	assert.ErrorIs(t, mapError(&pgconn.PgError{Code: "23514"}, "op"), domain.ErrInvalidInput)
	assert.ErrorIs(t, mapError(&pgconn.PgError{Code: "22003"}, "op"), domain.ErrInvalidInput)
	assert.ErrorIs(t, mapError(context.Canceled, "op"), context.Canceled)
	assert.False(t, domain.IsClientError(mapError(errors.New("x"), "op")))
}
