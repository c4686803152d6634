package repository

import (
	"context"

	"github.com/jhoicas/Almacen-api/internal/domain/entity"
)

// MovementFilter criterios del listado de entradas/salidas.
type MovementFilter struct {
	Search string
	ItemID int64
	Limit  int
	Offset int
}

// MovementRepository define el puerto de persistencia del libro de movimientos.
// Solo permite agregar registros; no existe camino de actualización ni borrado.
type MovementRepository interface {
	CreateInbound(ctx context.Context, rec *entity.InboundRecord) error
	CreateOutbound(ctx context.Context, rec *entity.OutboundRecord) error
	ListInbound(ctx context.Context, f MovementFilter) ([]*entity.InboundRecord, int, error)
	ListOutbound(ctx context.Context, f MovementFilter) ([]*entity.OutboundRecord, int, error)
	// Balance devuelve (nil, nil) si el artículo no existe.
	Balance(ctx context.Context, itemID int64) (*entity.LedgerBalance, error)
}
