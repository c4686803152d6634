package repository

import (
	"context"

	"github.com/shopspring/decimal"
	"github.com/jhoicas/Almacen-api/internal/domain/entity"
)

// ItemFilter criterios del listado de artículos.
type ItemFilter struct {
	Search       string // coincide con item_code o item_name (ILIKE)
	Category     string
	Unit         string
	LowStockOnly bool
	Limit        int
	Offset       int
}

// ItemStatistics agregados del almacén.
type ItemStatistics struct {
	TotalItems       int
	TotalStock       int64
	LowStockCount    int
	NormalStockCount int
	AverageStock     decimal.Decimal
}

// ItemRepository define el puerto de persistencia para Item (DIP).
// Los métodos Get* devuelven (nil, nil) cuando no existe la fila.
type ItemRepository interface {
	Create(ctx context.Context, item *entity.Item) error
	GetByID(ctx context.Context, id int64) (*entity.Item, error)
	GetByCode(ctx context.Context, code string) (*entity.Item, error)
	// GetForUpdate bloquea la fila (SELECT FOR UPDATE) hasta el fin de la transacción.
	GetForUpdate(ctx context.Context, id int64) (*entity.Item, error)
	NameTakenByOtherCode(ctx context.Context, name, code string) (bool, error)
	Update(ctx context.Context, item *entity.Item) error
	Delete(ctx context.Context, id int64) (bool, error)
	List(ctx context.Context, f ItemFilter) ([]*entity.Item, int, error)
	// ListAll devuelve todos los artículos ordenados por id descendente.
	ListAll(ctx context.Context) ([]*entity.Item, error)
	// UpsertByCode inserta o sobrescribe por item_code; created indica si hubo inserción.
	UpsertByCode(ctx context.Context, item *entity.Item) (created bool, err error)
	// AdjustStock suma delta a current_stock en un único UPDATE atómico.
	// Devuelve (nil, nil) si el artículo no existe.
	AdjustStock(ctx context.Context, id int64, delta int) (*entity.Item, error)
	SetCurrentStock(ctx context.Context, id int64, stock int) error
	Statistics(ctx context.Context) (*ItemStatistics, error)
}
