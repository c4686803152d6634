package http

import (
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/jhoicas/Almacen-api/internal/application/dto"
	"github.com/jhoicas/Almacen-api/internal/application/ledger"
	"github.com/jhoicas/Almacen-api/internal/application/usecase"
	"github.com/jhoicas/Almacen-api/internal/infrastructure/pdf"
)

const msgItemNotFound = "item not found"

// ItemHandler maneja el catálogo de artículos, la verificación del libro y el informe.
type ItemHandler struct {
	uc     *usecase.ItemUseCase
	engine *ledger.Engine
	report *pdf.ReportGenerator
	log    zerolog.Logger
}

// NewItemHandler construye el handler.
func NewItemHandler(uc *usecase.ItemUseCase, engine *ledger.Engine, report *pdf.ReportGenerator, log zerolog.Logger) *ItemHandler {
	return &ItemHandler{uc: uc, engine: engine, report: report, log: log}
}

// List godoc
// @Summary      Listar artículos
// @Tags         stock
// @Produce      json
// @Param        page      query  int     false  "Página"   default(1)
// @Param        size      query  int     false  "Tamaño"   default(10)
// @Param        search    query  string  false  "Código o nombre"
// @Param        category  query  string  false  "Categoría exacta"
// @Param        unit      query  string  false  "Unidad exacta"
// @Success      200  {object}  dto.Envelope
// @Router       /api/warehouse/stock/list [get]
func (h *ItemHandler) List(c *fiber.Ctx) error {
	out, err := h.uc.List(c.UserContext(), dto.ItemListRequest{
		PageRequest: pageFrom(c),
		Category:    c.Query("category"),
		Unit:        c.Query("unit"),
	})
	if err != nil {
		return respondError(c, h.log, err, "")
	}
	return ok(c, out)
}

// Create godoc
// @Summary      Crear artículo
// @Description  current_stock toma el valor de initial_stock.
// @Tags         stock
// @Accept       json
// @Produce      json
// @Success      200  {object}  dto.Envelope
// @Failure      400  {object}  dto.Envelope
// @Router       /api/warehouse/stock/add [post]
func (h *ItemHandler) Create(c *fiber.Ctx) error {
	body, valid := jsonBody(c)
	if !valid {
		return fail(c, fiber.StatusBadRequest, "invalid body")
	}
	out, err := h.uc.Create(c.UserContext(), body)
	if err != nil {
		return respondError(c, h.log, err, "")
	}
	return okMessage(c, out, "added")
}

// Get godoc
// @Summary      Detalle de artículo
// @Tags         stock
// @Produce      json
// @Param        id   path  int  true  "ID"
// @Success      200  {object}  dto.Envelope
// @Failure      404  {object}  dto.Envelope
// @Router       /api/warehouse/stock/{id} [get]
func (h *ItemHandler) Get(c *fiber.Ctx) error {
	id, valid := idParam(c)
	if !valid {
		return fail(c, fiber.StatusBadRequest, "invalid id")
	}
	out, err := h.uc.GetByID(c.UserContext(), id)
	if err != nil {
		return respondError(c, h.log, err, msgItemNotFound)
	}
	return ok(c, out)
}

// Update godoc
// @Summary      Actualizar artículo (PUT o PATCH, parcial)
// @Description  Nunca modifica current_stock; el stock solo cambia con movimientos o importación.
// @Tags         stock
// @Accept       json
// @Produce      json
// @Param        id   path  int  true  "ID"
// @Success      200  {object}  dto.Envelope
// @Failure      404  {object}  dto.Envelope
// @Router       /api/warehouse/stock/{id} [put]
func (h *ItemHandler) Update(c *fiber.Ctx) error {
	id, valid := idParam(c)
	if !valid {
		return fail(c, fiber.StatusBadRequest, "invalid id")
	}
	body, valid := jsonBody(c)
	if !valid {
		return fail(c, fiber.StatusBadRequest, "invalid body")
	}
	out, err := h.uc.Update(c.UserContext(), id, body)
	if err != nil {
		return respondError(c, h.log, err, msgItemNotFound)
	}
	return okMessage(c, out, "updated")
}

// Delete godoc
// @Summary      Eliminar artículo (borra también sus movimientos)
// @Tags         stock
// @Param        id   path  int  true  "ID"
// @Success      200  {object}  dto.Envelope
// @Failure      404  {object}  dto.Envelope
// @Router       /api/warehouse/stock/{id} [delete]
func (h *ItemHandler) Delete(c *fiber.Ctx) error {
	id, valid := idParam(c)
	if !valid {
		return fail(c, fiber.StatusBadRequest, "invalid id")
	}
	if err := h.uc.Delete(c.UserContext(), id); err != nil {
		return respondError(c, h.log, err, msgItemNotFound)
	}
	return okMessage(c, nil, "deleted")
}

// LowStock godoc
// @Summary      Artículos con stock bajo (current_stock <= min_stock)
// @Tags         stock
// @Produce      json
// @Success      200  {object}  dto.Envelope
// @Router       /api/warehouse/stock/low [get]
func (h *ItemHandler) LowStock(c *fiber.Ctx) error {
	out, err := h.uc.LowStock(c.UserContext(), pageFrom(c))
	if err != nil {
		return respondError(c, h.log, err, "")
	}
	return ok(c, out)
}

// Statistics godoc
// @Summary      Estadísticas del almacén
// @Tags         stock
// @Produce      json
// @Success      200  {object}  dto.Envelope
// @Router       /api/warehouse/stock/statistics [get]
func (h *ItemHandler) Statistics(c *fiber.Ctx) error {
	out, err := h.uc.Statistics(c.UserContext())
	if err != nil {
		return respondError(c, h.log, err, "")
	}
	return ok(c, out)
}

// Report godoc
// @Summary      Informe PDF de stock bajo
// @Tags         stock
// @Produce      application/pdf
// @Success      200
// @Router       /api/warehouse/stock/report [get]
func (h *ItemHandler) Report(c *fiber.Ctx) error {
	items, err := h.uc.LowStockItems(c.UserContext())
	if err != nil {
		return respondError(c, h.log, err, "")
	}
	now := time.Now()
	doc, err := h.report.LowStockPDF(c.UserContext(), items, now)
	if err != nil {
		return respondError(c, h.log, err, "")
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="low-stock-%s.pdf"`, now.Format("20060102")))
	return c.Send(doc)
}

// Ledger godoc
// @Summary      Verificar current_stock contra el libro de movimientos
// @Tags         stock
// @Produce      json
// @Param        id   path  int  true  "ID"
// @Success      200  {object}  dto.Envelope
// @Failure      404  {object}  dto.Envelope
// @Router       /api/warehouse/stock/{id}/ledger [get]
func (h *ItemHandler) Ledger(c *fiber.Ctx) error {
	id, valid := idParam(c)
	if !valid {
		return fail(c, fiber.StatusBadRequest, "invalid id")
	}
	bal, err := h.engine.Verify(c.UserContext(), id)
	if err != nil {
		return respondError(c, h.log, err, msgItemNotFound)
	}
	return ok(c, dto.ToLedgerCheckResponse(bal))
}

// Recompute godoc
// @Summary      Recalcular current_stock desde el libro (solo admin)
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Param        id   path  int  true  "ID"
// @Success      200  {object}  dto.Envelope
// @Failure      401  {object}  dto.Envelope
// @Failure      403  {object}  dto.Envelope
// @Failure      404  {object}  dto.Envelope
// @Router       /api/warehouse/stock/{id}/recompute [post]
func (h *ItemHandler) Recompute(c *fiber.Ctx) error {
	id, valid := idParam(c)
	if !valid {
		return fail(c, fiber.StatusBadRequest, "invalid id")
	}
	bal, err := h.engine.Recompute(c.UserContext(), id)
	if err != nil {
		return respondError(c, h.log, err, msgItemNotFound)
	}
	h.log.Info().
		Int64("item_id", id).
		Int("stock", bal.CurrentStock).
		Str("request_id", requestID(c)).
		Msg("stock recalculado desde el libro")
	return okMessage(c, dto.ToLedgerCheckResponse(bal), "recomputed")
}
