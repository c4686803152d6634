package postgres

import (
	"context"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/Almacen-api/internal/domain/entity"
	"github.com/jhoicas/Almacen-api/internal/domain/repository"
)

var _ repository.MovementRepository = (*MovementRepo)(nil)

// nombre visible del operador: nickname si existe, si no username
const operatorNameExpr = `COALESCE(NULLIF(u.nickname, ''), u.username, '')`

// MovementRepo implementación de MovementRepository sobre PostgreSQL (usable con pool o tx).
type MovementRepo struct {
	q Querier
}

// NewMovementRepository construye el adaptador. Pasar pool o tx (Querier).
func NewMovementRepository(q Querier) *MovementRepo {
	return &MovementRepo{q: q}
}

// CreateInbound persiste la entrada. No toca el stock: eso lo hace el motor en la misma tx.
func (r *MovementRepo) CreateInbound(ctx context.Context, rec *entity.InboundRecord) error {
	query := `
		INSERT INTO inbound_records (item_id, quantity, supplier, inbound_date, operator_id, remark)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at`
	err := r.q.QueryRow(ctx, query,
		rec.ItemID, rec.Quantity, rec.Supplier, rec.InboundDate, rec.OperatorID, rec.Remark,
	).Scan(&rec.ID, &rec.CreatedAt)
	if err != nil {
		return mapError(err, "insert inbound record")
	}
	return nil
}

// CreateOutbound persiste la salida.
func (r *MovementRepo) CreateOutbound(ctx context.Context, rec *entity.OutboundRecord) error {
	query := `
		INSERT INTO outbound_records (item_id, quantity, receiver, outbound_date, reason, operator_id)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at`
	err := r.q.QueryRow(ctx, query,
		rec.ItemID, rec.Quantity, rec.Receiver, rec.OutboundDate, rec.Reason, rec.OperatorID,
	).Scan(&rec.ID, &rec.CreatedAt)
	if err != nil {
		return mapError(err, "insert outbound record")
	}
	return nil
}

// ListInbound entradas por fecha descendente; search sobre artículo, proveedor y operador.
func (r *MovementRepo) ListInbound(ctx context.Context, f repository.MovementFilter) ([]*entity.InboundRecord, int, error) {
	where := sq.And{}
	if f.ItemID != 0 {
		where = append(where, sq.Eq{"m.item_id": f.ItemID})
	}
	if f.Search != "" {
		like := "%" + f.Search + "%"
		where = append(where, sq.Or{
			sq.ILike{"i.item_name": like},
			sq.ILike{"m.supplier": like},
			sq.ILike{"u.username": like},
		})
	}
	from := "inbound_records m JOIN items i ON i.id = m.item_id LEFT JOIN users u ON u.id = m.operator_id"

	total, err := r.count(ctx, from, where)
	if err != nil {
		return nil, 0, err
	}

	qb := psql.Select(
		"m.id", "m.item_id", "m.quantity", "m.supplier", "m.inbound_date", "m.operator_id",
		"m.remark", "m.created_at", "i.item_name", operatorNameExpr,
	).From(from).Where(where).OrderBy("m.inbound_date DESC", "m.created_at DESC", "m.id DESC")
	if f.Limit > 0 {
		qb = qb.Limit(uint64(f.Limit)).Offset(uint64(f.Offset))
	}
	query, args, err := qb.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("build list inbound: %w", err)
	}
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, mapError(err, "list inbound")
	}
	defer rows.Close()

	list := make([]*entity.InboundRecord, 0)
	for rows.Next() {
		var rec entity.InboundRecord
		if err := rows.Scan(&rec.ID, &rec.ItemID, &rec.Quantity, &rec.Supplier, &rec.InboundDate,
			&rec.OperatorID, &rec.Remark, &rec.CreatedAt, &rec.ItemName, &rec.OperatorName); err != nil {
			return nil, 0, mapError(err, "scan inbound")
		}
		list = append(list, &rec)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, mapError(err, "list inbound")
	}
	return list, total, nil
}

// ListOutbound salidas por fecha descendente; search sobre artículo, receptor y operador.
func (r *MovementRepo) ListOutbound(ctx context.Context, f repository.MovementFilter) ([]*entity.OutboundRecord, int, error) {
	where := sq.And{}
	if f.ItemID != 0 {
		where = append(where, sq.Eq{"m.item_id": f.ItemID})
	}
	if f.Search != "" {
		like := "%" + f.Search + "%"
		where = append(where, sq.Or{
			sq.ILike{"i.item_name": like},
			sq.ILike{"m.receiver": like},
			sq.ILike{"u.username": like},
		})
	}
	from := "outbound_records m JOIN items i ON i.id = m.item_id LEFT JOIN users u ON u.id = m.operator_id"

	total, err := r.count(ctx, from, where)
	if err != nil {
		return nil, 0, err
	}

	qb := psql.Select(
		"m.id", "m.item_id", "m.quantity", "m.receiver", "m.outbound_date", "m.reason",
		"m.operator_id", "m.created_at", "i.item_name", operatorNameExpr,
	).From(from).Where(where).OrderBy("m.outbound_date DESC", "m.created_at DESC", "m.id DESC")
	if f.Limit > 0 {
		qb = qb.Limit(uint64(f.Limit)).Offset(uint64(f.Offset))
	}
	query, args, err := qb.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("build list outbound: %w", err)
	}
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, mapError(err, "list outbound")
	}
	defer rows.Close()

	list := make([]*entity.OutboundRecord, 0)
	for rows.Next() {
		var rec entity.OutboundRecord
		if err := rows.Scan(&rec.ID, &rec.ItemID, &rec.Quantity, &rec.Receiver, &rec.OutboundDate,
			&rec.Reason, &rec.OperatorID, &rec.CreatedAt, &rec.ItemName, &rec.OperatorName); err != nil {
			return nil, 0, mapError(err, "scan outbound")
		}
		list = append(list, &rec)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, mapError(err, "list outbound")
	}
	return list, total, nil
}

func (r *MovementRepo) count(ctx context.Context, from string, where sq.And) (int, error) {
	query, args, err := psql.Select("COUNT(*)").From(from).Where(where).ToSql()
	if err != nil {
		return 0, fmt.Errorf("build count movements: %w", err)
	}
	var total int
	if err := r.q.QueryRow(ctx, query, args...).Scan(&total); err != nil {
		return 0, mapError(err, "count movements")
	}
	return total, nil
}

// Balance suma el libro del artículo junto a su stock actual.
func (r *MovementRepo) Balance(ctx context.Context, itemID int64) (*entity.LedgerBalance, error) {
	query := `
		SELECT i.id, i.initial_stock, i.current_stock,
			COALESCE((SELECT SUM(quantity) FROM inbound_records WHERE item_id = i.id), 0),
			COALESCE((SELECT SUM(quantity) FROM outbound_records WHERE item_id = i.id), 0)
		FROM items i WHERE i.id = $1`
	var b entity.LedgerBalance
	err := r.q.QueryRow(ctx, query, itemID).Scan(
		&b.ItemID, &b.InitialStock, &b.CurrentStock, &b.InboundTotal, &b.OutboundTotal,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, mapError(err, "ledger balance")
	}
	return &b, nil
}
