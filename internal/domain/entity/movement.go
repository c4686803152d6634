package entity

import "time"

// Tipos de movimiento de stock.
const (
	MovementInbound  = "inbound"
	MovementOutbound = "outbound"
)

// InboundRecord es una entrada de almacén. Inmutable una vez creada; al crearse suma
// Quantity al CurrentStock del Item.
type InboundRecord struct {
	ID           int64
	ItemID       int64
	Quantity     int
	Supplier     string
	InboundDate  time.Time
	OperatorID   *int64 // nil si la petición no estaba autenticada
	Remark       string
	CreatedAt    time.Time
	ItemName     string // desnormalizado para la respuesta
	OperatorName string
}

// OutboundRecord es una salida de almacén. Al crearse resta Quantity del CurrentStock
// del Item, sin piso: el stock puede quedar negativo.
type OutboundRecord struct {
	ID           int64
	ItemID       int64
	Quantity     int
	Receiver     string
	OutboundDate time.Time
	Reason       string
	OperatorID   *int64
	CreatedAt    time.Time
	ItemName     string
	OperatorName string
}

// LedgerBalance resume el libro de movimientos de un Item.
type LedgerBalance struct {
	ItemID        int64
	InitialStock  int
	InboundTotal  int
	OutboundTotal int
	CurrentStock  int
}

// Expected es initial_stock + Σ entradas − Σ salidas.
func (b LedgerBalance) Expected() int {
	return b.InitialStock + b.InboundTotal - b.OutboundTotal
}

// Consistent indica si current_stock coincide con el libro.
func (b LedgerBalance) Consistent() bool {
	return b.Expected() == b.CurrentStock
}
