package ledger

import (
	"context"

	"github.com/jhoicas/Almacen-api/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando repositorios atados a esa tx.
// Garantiza que el registro del movimiento y el ajuste de stock sean atómicos.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		items repository.ItemRepository,
		movements repository.MovementRepository,
	) error) error
}
