package impex

import (
	"context"

	"github.com/jhoicas/Almacen-api/internal/domain/repository"
)

// TxRunner ejecuta la importación completa dentro de una única transacción.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		items repository.ItemRepository,
		movements repository.MovementRepository,
	) error) error
}
