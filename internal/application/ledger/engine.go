// Package ledger mantiene el invariante entre el current_stock de un artículo y su libro
// de entradas/salidas.
package ledger

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/jhoicas/Almacen-api/internal/domain"
	"github.com/jhoicas/Almacen-api/internal/domain/entity"
	"github.com/jhoicas/Almacen-api/internal/domain/repository"
)

// Una cantidad no numérica ya llega como 0; se rechaza el signo negativo y lo que no
// cabe en la columna INTEGER.
var (
	errNegativeQuantity = fmt.Errorf("%w: quantity must not be negative", domain.ErrInvalidInput)
	errQuantityTooLarge = fmt.Errorf("%w: quantity must not exceed %d", domain.ErrInvalidInput, math.MaxInt32)
)

func checkQuantity(q int) error {
	switch {
	case q < 0:
		return errNegativeQuantity
	case q > math.MaxInt32:
		return errQuantityTooLarge
	}
	return nil
}

// Engine registra movimientos de stock de forma transaccional.
// El ajuste de current_stock es un UPDATE atómico en la BD (current_stock = current_stock + delta),
// nunca lectura-cálculo-escritura en la aplicación.
type Engine struct {
	txRunner  TxRunner
	movements repository.MovementRepository
}

// NewEngine construye el motor.
func NewEngine(txRunner TxRunner, movements repository.MovementRepository) *Engine {
	return &Engine{txRunner: txRunner, movements: movements}
}

// InboundInput entrada para registrar una entrada de almacén.
type InboundInput struct {
	ItemID   int64
	Quantity int
	Supplier string
	Date     time.Time
	Remark   string
	Operator *entity.Identity // nil si la petición no está autenticada
}

// OutboundInput entrada para registrar una salida de almacén.
type OutboundInput struct {
	ItemID   int64
	Quantity int
	Receiver string
	Date     time.Time
	Reason   string
	Operator *entity.Identity
}

// PostInbound crea el registro y suma Quantity al stock del artículo en la misma transacción.
// Devuelve domain.ErrNotFound si el artículo no existe.
func (e *Engine) PostInbound(ctx context.Context, in InboundInput) (*entity.InboundRecord, error) {
	if err := checkQuantity(in.Quantity); err != nil {
		return nil, err
	}
	var rec *entity.InboundRecord
	err := e.txRunner.Run(ctx, func(items repository.ItemRepository, movements repository.MovementRepository) error {
		item, err := items.AdjustStock(ctx, in.ItemID, in.Quantity)
		if err != nil {
			return err
		}
		if item == nil {
			return domain.ErrNotFound
		}
		rec = &entity.InboundRecord{
			ItemID:      item.ID,
			Quantity:    in.Quantity,
			Supplier:    in.Supplier,
			InboundDate: in.Date,
			Remark:      in.Remark,
			ItemName:    item.ItemName,
		}
		rec.OperatorID, rec.OperatorName = operatorOf(in.Operator)
		return movements.CreateInbound(ctx, rec)
	})
	if err != nil {
		return nil, err
	}
	return rec, nil
}

// PostOutbound crea el registro y resta Quantity del stock del artículo en la misma transacción.
// No hay piso: el stock puede quedar negativo.
func (e *Engine) PostOutbound(ctx context.Context, in OutboundInput) (*entity.OutboundRecord, error) {
	if err := checkQuantity(in.Quantity); err != nil {
		return nil, err
	}
	var rec *entity.OutboundRecord
	err := e.txRunner.Run(ctx, func(items repository.ItemRepository, movements repository.MovementRepository) error {
		item, err := items.AdjustStock(ctx, in.ItemID, -in.Quantity)
		if err != nil {
			return err
		}
		if item == nil {
			return domain.ErrNotFound
		}
		rec = &entity.OutboundRecord{
			ItemID:       item.ID,
			Quantity:     in.Quantity,
			Receiver:     in.Receiver,
			OutboundDate: in.Date,
			Reason:       in.Reason,
			ItemName:     item.ItemName,
		}
		rec.OperatorID, rec.OperatorName = operatorOf(in.Operator)
		return movements.CreateOutbound(ctx, rec)
	})
	if err != nil {
		return nil, err
	}
	return rec, nil
}

// Verify compara current_stock con initial_stock + Σ entradas − Σ salidas.
func (e *Engine) Verify(ctx context.Context, itemID int64) (*entity.LedgerBalance, error) {
	bal, err := e.movements.Balance(ctx, itemID)
	if err != nil {
		return nil, err
	}
	if bal == nil {
		return nil, domain.ErrNotFound
	}
	return bal, nil
}

// Recompute fija current_stock al valor del libro. Bloquea la fila del artículo para que
// ningún movimiento concurrente quede fuera del cálculo.
func (e *Engine) Recompute(ctx context.Context, itemID int64) (*entity.LedgerBalance, error) {
	var bal *entity.LedgerBalance
	err := e.txRunner.Run(ctx, func(items repository.ItemRepository, movements repository.MovementRepository) error {
		item, err := items.GetForUpdate(ctx, itemID)
		if err != nil {
			return err
		}
		if item == nil {
			return domain.ErrNotFound
		}
		b, err := movements.Balance(ctx, itemID)
		if err != nil {
			return err
		}
		if b == nil {
			return domain.ErrNotFound
		}
		if !b.Consistent() {
			if err := items.SetCurrentStock(ctx, itemID, b.Expected()); err != nil {
				return err
			}
			b.CurrentStock = b.Expected()
		}
		bal = b
		return nil
	})
	if err != nil {
		return nil, err
	}
	return bal, nil
}

func operatorOf(id *entity.Identity) (*int64, string) {
	if id == nil || id.UserID == 0 {
		return nil, ""
	}
	uid := id.UserID
	return &uid, id.Username
}
