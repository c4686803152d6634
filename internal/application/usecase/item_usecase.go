package usecase

import (
	"context"
	"fmt"

	"github.com/jhoicas/Almacen-api/internal/application/dto"
	"github.com/jhoicas/Almacen-api/internal/domain"
	"github.com/jhoicas/Almacen-api/internal/domain/entity"
	"github.com/jhoicas/Almacen-api/internal/domain/repository"
)

var errItemIdentity = fmt.Errorf("%w: item_code and item_name are required", domain.ErrInvalidInput)

// ItemUseCase casos de uso CRUD y consultas de artículos. El stock solo cambia vía
// movimientos o importación.
type ItemUseCase struct {
	repo repository.ItemRepository
}

// NewItemUseCase construye el caso de uso.
func NewItemUseCase(repo repository.ItemRepository) *ItemUseCase {
	return &ItemUseCase{repo: repo}
}

// Create crea un artículo a partir de un cuerpo con claves canónicas o camelCase.
// current_stock arranca igual a initial_stock.
func (uc *ItemUseCase) Create(ctx context.Context, body map[string]any) (*dto.ItemResponse, error) {
	rec := dto.NormalizeItemRecord(body)
	if !rec.Has("item_code") || !rec.Has("item_name") {
		return nil, errItemIdentity
	}
	item := dto.DecodeItem(rec)
	item.CurrentStock = item.InitialStock

	existing, err := uc.repo.GetByCode(ctx, item.ItemCode)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, fmt.Errorf("%w: item_code %s", domain.ErrDuplicate, item.ItemCode)
	}
	if err := uc.repo.Create(ctx, item); err != nil {
		return nil, err
	}
	return dto.ToItemResponse(item), nil
}

// GetByID obtiene un artículo.
func (uc *ItemUseCase) GetByID(ctx context.Context, id int64) (*dto.ItemResponse, error) {
	item, err := uc.find(ctx, id)
	if err != nil {
		return nil, err
	}
	return dto.ToItemResponse(item), nil
}

// Update aplica una actualización parcial: solo las columnas presentes en el cuerpo.
func (uc *ItemUseCase) Update(ctx context.Context, id int64, body map[string]any) (*dto.ItemResponse, error) {
	item, err := uc.find(ctx, id)
	if err != nil {
		return nil, err
	}
	dto.ApplyItem(item, dto.NormalizeItemRecord(body))
	if item.ItemCode == "" || item.ItemName == "" {
		return nil, errItemIdentity
	}
	if err := uc.repo.Update(ctx, item); err != nil {
		return nil, err
	}
	return dto.ToItemResponse(item), nil
}

// Delete elimina el artículo y, en cascada, sus movimientos.
func (uc *ItemUseCase) Delete(ctx context.Context, id int64) error {
	ok, err := uc.repo.Delete(ctx, id)
	if err != nil {
		return err
	}
	if !ok {
		return domain.ErrNotFound
	}
	return nil
}

// List lista artículos con búsqueda por código o nombre, filtros y paginación.
func (uc *ItemUseCase) List(ctx context.Context, req dto.ItemListRequest) (*dto.ListPayload[dto.ItemResponse], error) {
	req.Normalize()
	return uc.list(ctx, req.PageRequest, repository.ItemFilter{
		Search:   req.Search,
		Category: req.Category,
		Unit:     req.Unit,
	})
}

// LowStock lista artículos con current_stock <= min_stock.
func (uc *ItemUseCase) LowStock(ctx context.Context, page dto.PageRequest) (*dto.ListPayload[dto.ItemResponse], error) {
	page.Normalize()
	return uc.list(ctx, page, repository.ItemFilter{Search: page.Search, LowStockOnly: true})
}

// LowStockItems devuelve todos los artículos bajo mínimo, sin paginar (informe PDF).
func (uc *ItemUseCase) LowStockItems(ctx context.Context) ([]*entity.Item, error) {
	list, _, err := uc.repo.List(ctx, repository.ItemFilter{LowStockOnly: true})
	return list, err
}

// Statistics agregados del almacén.
func (uc *ItemUseCase) Statistics(ctx context.Context) (*dto.StatisticsResponse, error) {
	st, err := uc.repo.Statistics(ctx)
	if err != nil {
		return nil, err
	}
	return &dto.StatisticsResponse{
		TotalItems:       st.TotalItems,
		TotalStock:       st.TotalStock,
		LowStockCount:    st.LowStockCount,
		NormalStockCount: st.NormalStockCount,
		AverageStock:     st.AverageStock,
	}, nil
}

func (uc *ItemUseCase) find(ctx context.Context, id int64) (*entity.Item, error) {
	item, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, domain.ErrNotFound
	}
	return item, nil
}

func (uc *ItemUseCase) list(ctx context.Context, page dto.PageRequest, f repository.ItemFilter) (*dto.ListPayload[dto.ItemResponse], error) {
	f.Limit, f.Offset = page.Size, page.Offset()
	list, total, err := uc.repo.List(ctx, f)
	if err != nil {
		return nil, err
	}
	out := make([]dto.ItemResponse, 0, len(list))
	for _, it := range list {
		out = append(out, *dto.ToItemResponse(it))
	}
	return &dto.ListPayload[dto.ItemResponse]{List: out, Total: total, Page: page.Page, Size: page.Size}, nil
}
