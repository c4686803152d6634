package usecase

import (
	"context"

	"github.com/jhoicas/Almacen-api/internal/application/dto"
	"github.com/jhoicas/Almacen-api/internal/domain/repository"
)

// MovementUseCase consultas paginadas sobre entradas y salidas.
type MovementUseCase struct {
	repo repository.MovementRepository
}

// NewMovementUseCase construye el caso de uso.
func NewMovementUseCase(repo repository.MovementRepository) *MovementUseCase {
	return &MovementUseCase{repo: repo}
}

// ListInbound entradas más recientes primero; search filtra por artículo, proveedor u operador.
func (uc *MovementUseCase) ListInbound(ctx context.Context, page dto.PageRequest, itemID int64) (*dto.ListPayload[dto.InboundResponse], error) {
	page.Normalize()
	list, total, err := uc.repo.ListInbound(ctx, movementFilter(page, itemID))
	if err != nil {
		return nil, err
	}
	out := make([]dto.InboundResponse, 0, len(list))
	for _, r := range list {
		out = append(out, *dto.ToInboundResponse(r))
	}
	return &dto.ListPayload[dto.InboundResponse]{List: out, Total: total, Page: page.Page, Size: page.Size}, nil
}

// ListOutbound salidas más recientes primero; search filtra por artículo o receptor.
func (uc *MovementUseCase) ListOutbound(ctx context.Context, page dto.PageRequest, itemID int64) (*dto.ListPayload[dto.OutboundResponse], error) {
	page.Normalize()
	list, total, err := uc.repo.ListOutbound(ctx, movementFilter(page, itemID))
	if err != nil {
		return nil, err
	}
	out := make([]dto.OutboundResponse, 0, len(list))
	for _, r := range list {
		out = append(out, *dto.ToOutboundResponse(r))
	}
	return &dto.ListPayload[dto.OutboundResponse]{List: out, Total: total, Page: page.Page, Size: page.Size}, nil
}

func movementFilter(page dto.PageRequest, itemID int64) repository.MovementFilter {
	return repository.MovementFilter{
		Search: page.Search,
		ItemID: itemID,
		Limit:  page.Size,
		Offset: page.Offset(),
	}
}
