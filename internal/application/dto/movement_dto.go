package dto

import (
	"time"

	"github.com/jhoicas/Almacen-api/internal/domain/entity"
	"github.com/jhoicas/Almacen-api/internal/domain/ledger"
)

// InboundResponse salida de una entrada, con nombre de artículo y operador desnormalizados.
type InboundResponse struct {
	ID           int64     `json:"id"`
	ItemID       int64     `json:"itemId"`
	ItemName     string    `json:"itemName"`
	Quantity     int       `json:"quantity"`
	InboundDate  string    `json:"inboundDate"`
	Supplier     string    `json:"supplier"`
	OperatorName string    `json:"operatorName"`
	Remark       string    `json:"remark"`
	CreatedAt    time.Time `json:"createdAt"`
}

// OutboundResponse salida de una salida de almacén.
type OutboundResponse struct {
	ID           int64     `json:"id"`
	ItemID       int64     `json:"itemId"`
	ItemName     string    `json:"itemName"`
	Quantity     int       `json:"quantity"`
	OutboundDate string    `json:"outboundDate"`
	Receiver     string    `json:"receiver"`
	Reason       string    `json:"reason"`
	OperatorName string    `json:"operatorName"`
	CreatedAt    time.Time `json:"createdAt"`
}

// ToInboundResponse mapea el registro a su salida.
func ToInboundResponse(r *entity.InboundRecord) *InboundResponse {
	return &InboundResponse{
		ID:           r.ID,
		ItemID:       r.ItemID,
		ItemName:     r.ItemName,
		Quantity:     r.Quantity,
		InboundDate:  r.InboundDate.Format(ledger.DateLayout),
		Supplier:     r.Supplier,
		OperatorName: r.OperatorName,
		Remark:       r.Remark,
		CreatedAt:    r.CreatedAt,
	}
}

// ToOutboundResponse mapea el registro a su salida.
func ToOutboundResponse(r *entity.OutboundRecord) *OutboundResponse {
	return &OutboundResponse{
		ID:           r.ID,
		ItemID:       r.ItemID,
		ItemName:     r.ItemName,
		Quantity:     r.Quantity,
		OutboundDate: r.OutboundDate.Format(ledger.DateLayout),
		Receiver:     r.Receiver,
		Reason:       r.Reason,
		OperatorName: r.OperatorName,
		CreatedAt:    r.CreatedAt,
	}
}

// firstPresent devuelve el primer valor no nulo entre las claves dadas.
func firstPresent(m map[string]any, keys ...string) any {
	for _, k := range keys {
		if v, ok := m[k]; ok && v != nil && ledger.ToText(v) != "" {
			return v
		}
	}
	return nil
}

// InboundRequest cuerpo de POST inbound/add ya interpretado con la política permisiva:
// cantidad no numérica → 0, fecha inválida → hoy.
type InboundRequest struct {
	ItemID   int64
	Quantity int
	Supplier string
	Date     time.Time
	Remark   string
}

// ParseInboundRequest interpreta el cuerpo JSON (itemId|item, quantity, supplier,
// inboundDate|date, remark).
func ParseInboundRequest(body map[string]any) InboundRequest {
	return InboundRequest{
		ItemID:   int64(ledger.ToInt(firstPresent(body, "itemId", "item"), 0)),
		Quantity: ledger.ToInt(body["quantity"], 0),
		Supplier: ledger.ToText(body["supplier"]),
		Date:     ledger.ToDate(firstPresent(body, "inboundDate", "date")),
		Remark:   ledger.ToText(body["remark"]),
	}
}

// OutboundRequest cuerpo de POST outbound/add.
type OutboundRequest struct {
	ItemID   int64
	Quantity int
	Receiver string
	Date     time.Time
	Reason   string
}

// ParseOutboundRequest interpreta el cuerpo JSON (itemId|item, quantity, receiver,
// outboundDate|date, reason).
func ParseOutboundRequest(body map[string]any) OutboundRequest {
	return OutboundRequest{
		ItemID:   int64(ledger.ToInt(firstPresent(body, "itemId", "item"), 0)),
		Quantity: ledger.ToInt(body["quantity"], 0),
		Receiver: ledger.ToText(body["receiver"]),
		Date:     ledger.ToDate(firstPresent(body, "outboundDate", "date")),
		Reason:   ledger.ToText(body["reason"]),
	}
}
