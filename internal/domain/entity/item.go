package entity

import "time"

// Valores por defecto de un Item cuando la entrada no los trae.
const (
	DefaultCategory = "其他"
	DefaultUnit     = "个"
	DefaultMinStock = 10
)

// Item representa un artículo de almacén identificado por ItemCode (único).
// CurrentStock se modifica vía movimientos; InitialStock es solo referencia histórica.
type Item struct {
	ID            int64
	ItemCode      string
	ItemName      string
	Category      string
	Specification string
	Unit          string
	InitialStock  int
	CurrentStock  int
	MinStock      int
	Location      string
	Remark        string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// IsLowStock indica si el stock actual alcanzó el umbral de alerta.
func (i *Item) IsLowStock() bool {
	return i.CurrentStock <= i.MinStock
}
