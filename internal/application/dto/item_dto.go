package dto

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/jhoicas/Almacen-api/internal/domain/entity"
)

// ItemResponse salida de un artículo (claves camelCase que consume el front).
type ItemResponse struct {
	ID            int64     `json:"id"`
	ItemCode      string    `json:"itemCode"`
	ItemName      string    `json:"itemName"`
	Category      string    `json:"category"`
	Specification string    `json:"specification"`
	Unit          string    `json:"unit"`
	InitialStock  int       `json:"initialStock"`
	CurrentStock  int       `json:"currentStock"`
	MinStock      int       `json:"minStock"`
	Location      string    `json:"location"`
	Remark        string    `json:"remark"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

// ToItemResponse mapea la entidad a su salida.
func ToItemResponse(it *entity.Item) *ItemResponse {
	if it == nil {
		return nil
	}
	return &ItemResponse{
		ID:            it.ID,
		ItemCode:      it.ItemCode,
		ItemName:      it.ItemName,
		Category:      it.Category,
		Specification: it.Specification,
		Unit:          it.Unit,
		InitialStock:  it.InitialStock,
		CurrentStock:  it.CurrentStock,
		MinStock:      it.MinStock,
		Location:      it.Location,
		Remark:        it.Remark,
		CreatedAt:     it.CreatedAt,
		UpdatedAt:     it.UpdatedAt,
	}
}

// ItemListRequest filtros del listado de artículos.
type ItemListRequest struct {
	PageRequest
	Category string
	Unit     string
}

// StatisticsResponse agregados del almacén.
type StatisticsResponse struct {
	TotalItems       int             `json:"total_items"`
	TotalStock       int64           `json:"total_stock"`
	LowStockCount    int             `json:"low_stock_count"`
	NormalStockCount int             `json:"normal_stock_count"`
	AverageStock     decimal.Decimal `json:"average_stock"`
}

// LedgerCheckResponse resultado de verificar current_stock contra el libro de movimientos.
type LedgerCheckResponse struct {
	ItemID        int64 `json:"itemId"`
	InitialStock  int   `json:"initialStock"`
	InboundTotal  int   `json:"inboundTotal"`
	OutboundTotal int   `json:"outboundTotal"`
	Expected      int   `json:"expected"`
	Actual        int   `json:"actual"`
	Consistent    bool  `json:"consistent"`
}

// ToLedgerCheckResponse mapea el balance a su salida.
func ToLedgerCheckResponse(b *entity.LedgerBalance) *LedgerCheckResponse {
	return &LedgerCheckResponse{
		ItemID:        b.ItemID,
		InitialStock:  b.InitialStock,
		InboundTotal:  b.InboundTotal,
		OutboundTotal: b.OutboundTotal,
		Expected:      b.Expected(),
		Actual:        b.CurrentStock,
		Consistent:    b.Consistent(),
	}
}
