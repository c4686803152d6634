package postgres

import (
	"context"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Almacen-api/internal/domain"
	"github.com/jhoicas/Almacen-api/internal/domain/entity"
	"github.com/jhoicas/Almacen-api/internal/domain/repository"
)

var _ repository.ItemRepository = (*ItemRepo)(nil)

const itemColumns = `id, item_code, item_name, category, specification, unit,
	initial_stock, current_stock, min_stock, location, remark, created_at, updated_at`

// ItemRepo implementación de ItemRepository sobre PostgreSQL (usable con pool o tx).
type ItemRepo struct {
	q Querier
}

// NewItemRepository construye el adaptador. Pasar pool o tx (Querier).
func NewItemRepository(q Querier) *ItemRepo {
	return &ItemRepo{q: q}
}

func scanItem(row pgx.Row) (*entity.Item, error) {
	var it entity.Item
	err := row.Scan(
		&it.ID, &it.ItemCode, &it.ItemName, &it.Category, &it.Specification, &it.Unit,
		&it.InitialStock, &it.CurrentStock, &it.MinStock, &it.Location, &it.Remark,
		&it.CreatedAt, &it.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &it, nil
}

// getOne ejecuta una consulta de una fila; (nil, nil) si no hay fila.
func (r *ItemRepo) getOne(ctx context.Context, op, query string, args ...any) (*entity.Item, error) {
	it, err := scanItem(r.q.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, mapError(err, op)
	}
	return it, nil
}

// Create inserta el artículo y completa ID y timestamps.
func (r *ItemRepo) Create(ctx context.Context, item *entity.Item) error {
	query := `
		INSERT INTO items (item_code, item_name, category, specification, unit,
			initial_stock, current_stock, min_stock, location, remark)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id, created_at, updated_at`
	err := r.q.QueryRow(ctx, query,
		item.ItemCode, item.ItemName, item.Category, item.Specification, item.Unit,
		item.InitialStock, item.CurrentStock, item.MinStock, item.Location, item.Remark,
	).Scan(&item.ID, &item.CreatedAt, &item.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: item_code %s", domain.ErrDuplicate, item.ItemCode)
		}
		return mapError(err, "insert item")
	}
	return nil
}

// GetByID obtiene un artículo por ID.
func (r *ItemRepo) GetByID(ctx context.Context, id int64) (*entity.Item, error) {
	return r.getOne(ctx, "get item", `SELECT `+itemColumns+` FROM items WHERE id = $1`, id)
}

// GetByCode obtiene un artículo por item_code.
func (r *ItemRepo) GetByCode(ctx context.Context, code string) (*entity.Item, error) {
	return r.getOne(ctx, "get item by code", `SELECT `+itemColumns+` FROM items WHERE item_code = $1`, code)
}

// GetForUpdate obtiene el artículo y bloquea la fila (SELECT FOR UPDATE).
func (r *ItemRepo) GetForUpdate(ctx context.Context, id int64) (*entity.Item, error) {
	return r.getOne(ctx, "get item for update", `SELECT `+itemColumns+` FROM items WHERE id = $1 FOR UPDATE`, id)
}

// NameTakenByOtherCode indica si otro artículo (con distinto código) ya usa ese nombre.
func (r *ItemRepo) NameTakenByOtherCode(ctx context.Context, name, code string) (bool, error) {
	var taken bool
	err := r.q.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM items WHERE item_name = $1 AND item_code <> $2)`,
		name, code,
	).Scan(&taken)
	if err != nil {
		return false, mapError(err, "check item name")
	}
	return taken, nil
}

// Update sobrescribe los campos descriptivos; initial_stock y current_stock no se tocan.
func (r *ItemRepo) Update(ctx context.Context, item *entity.Item) error {
	query := `
		UPDATE items SET item_code = $2, item_name = $3, category = $4, specification = $5,
			unit = $6, min_stock = $7, location = $8, remark = $9, updated_at = now()
		WHERE id = $1
		RETURNING updated_at`
	err := r.q.QueryRow(ctx, query,
		item.ID, item.ItemCode, item.ItemName, item.Category, item.Specification,
		item.Unit, item.MinStock, item.Location, item.Remark,
	).Scan(&item.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: item_code %s", domain.ErrDuplicate, item.ItemCode)
		}
		return mapError(err, "update item")
	}
	return nil
}

// Delete elimina el artículo; los movimientos caen en cascada.
func (r *ItemRepo) Delete(ctx context.Context, id int64) (bool, error) {
	tag, err := r.q.Exec(ctx, `DELETE FROM items WHERE id = $1`, id)
	if err != nil {
		return false, mapError(err, "delete item")
	}
	return tag.RowsAffected() > 0, nil
}

func itemWhere(f repository.ItemFilter) sq.And {
	where := sq.And{}
	if f.Search != "" {
		like := "%" + f.Search + "%"
		where = append(where, sq.Or{sq.ILike{"item_code": like}, sq.ILike{"item_name": like}})
	}
	if f.Category != "" {
		where = append(where, sq.Eq{"category": f.Category})
	}
	if f.Unit != "" {
		where = append(where, sq.Eq{"unit": f.Unit})
	}
	if f.LowStockOnly {
		where = append(where, sq.Expr("current_stock <= min_stock"))
	}
	return where
}

// List devuelve la página pedida (id descendente) y el total de coincidencias.
// Limit 0 devuelve todas las filas.
func (r *ItemRepo) List(ctx context.Context, f repository.ItemFilter) ([]*entity.Item, int, error) {
	where := itemWhere(f)

	countSQL, countArgs, err := psql.Select("COUNT(*)").From("items").Where(where).ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("build count items: %w", err)
	}
	var total int
	if err := r.q.QueryRow(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, 0, mapError(err, "count items")
	}

	qb := psql.Select(itemColumns).From("items").Where(where).OrderBy("id DESC")
	if f.Limit > 0 {
		qb = qb.Limit(uint64(f.Limit)).Offset(uint64(f.Offset))
	}
	list, err := r.query(ctx, qb)
	if err != nil {
		return nil, 0, err
	}
	return list, total, nil
}

// ListAll todos los artículos, id descendente.
func (r *ItemRepo) ListAll(ctx context.Context) ([]*entity.Item, error) {
	return r.query(ctx, psql.Select(itemColumns).From("items").OrderBy("id DESC"))
}

func (r *ItemRepo) query(ctx context.Context, qb sq.SelectBuilder) ([]*entity.Item, error) {
	query, args, err := qb.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list items: %w", err)
	}
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, mapError(err, "list items")
	}
	defer rows.Close()

	list := make([]*entity.Item, 0)
	for rows.Next() {
		it, err := scanItem(rows)
		if err != nil {
			return nil, mapError(err, "scan item")
		}
		list = append(list, it)
	}
	if err := rows.Err(); err != nil {
		return nil, mapError(err, "list items")
	}
	return list, nil
}

// UpsertByCode inserta o sobrescribe todos los campos por item_code. La fila queda
// bloqueada por el ON CONFLICT hasta el fin de la transacción.
func (r *ItemRepo) UpsertByCode(ctx context.Context, item *entity.Item) (bool, error) {
	query := `
		INSERT INTO items (item_code, item_name, category, specification, unit,
			initial_stock, current_stock, min_stock, location, remark)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (item_code) DO UPDATE SET
			item_name = EXCLUDED.item_name,
			category = EXCLUDED.category,
			specification = EXCLUDED.specification,
			unit = EXCLUDED.unit,
			initial_stock = EXCLUDED.initial_stock,
			current_stock = EXCLUDED.current_stock,
			min_stock = EXCLUDED.min_stock,
			location = EXCLUDED.location,
			remark = EXCLUDED.remark,
			updated_at = now()
		RETURNING id, created_at, updated_at, (xmax = 0) AS inserted`
	var inserted bool
	err := r.q.QueryRow(ctx, query,
		item.ItemCode, item.ItemName, item.Category, item.Specification, item.Unit,
		item.InitialStock, item.CurrentStock, item.MinStock, item.Location, item.Remark,
	).Scan(&item.ID, &item.CreatedAt, &item.UpdatedAt, &inserted)
	if err != nil {
		return false, mapError(err, "upsert item "+item.ItemCode)
	}
	return inserted, nil
}

// AdjustStock suma delta a current_stock en un único UPDATE y devuelve la fila resultante.
func (r *ItemRepo) AdjustStock(ctx context.Context, id int64, delta int) (*entity.Item, error) {
	return r.getOne(ctx, "adjust stock",
		`UPDATE items SET current_stock = current_stock + $2, updated_at = now()
		WHERE id = $1 RETURNING `+itemColumns,
		id, delta,
	)
}

// SetCurrentStock fija current_stock (recálculo desde el libro).
func (r *ItemRepo) SetCurrentStock(ctx context.Context, id int64, stock int) error {
	tag, err := r.q.Exec(ctx,
		`UPDATE items SET current_stock = $2, updated_at = now() WHERE id = $1`, id, stock)
	if err != nil {
		return mapError(err, "set current stock")
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Statistics agregados sobre todo el catálogo.
func (r *ItemRepo) Statistics(ctx context.Context) (*repository.ItemStatistics, error) {
	query := `
		SELECT COUNT(*),
			COALESCE(SUM(current_stock), 0),
			COUNT(*) FILTER (WHERE current_stock <= min_stock),
			COALESCE(ROUND(AVG(current_stock), 2), 0)
		FROM items`
	var st repository.ItemStatistics
	var avg decimal.Decimal
	if err := r.q.QueryRow(ctx, query).Scan(&st.TotalItems, &st.TotalStock, &st.LowStockCount, &avg); err != nil {
		return nil, mapError(err, "item statistics")
	}
	st.NormalStockCount = st.TotalItems - st.LowStockCount
	st.AverageStock = avg
	return &st, nil
}
