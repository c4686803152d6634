package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/jhoicas/Almacen-api/internal/application/dto"
	"github.com/jhoicas/Almacen-api/internal/application/ledger"
	"github.com/jhoicas/Almacen-api/internal/application/usecase"
)

// MovementHandler maneja entradas y salidas de almacén.
type MovementHandler struct {
	engine *ledger.Engine
	uc     *usecase.MovementUseCase
	log    zerolog.Logger
}

// NewMovementHandler construye el handler.
func NewMovementHandler(engine *ledger.Engine, uc *usecase.MovementUseCase, log zerolog.Logger) *MovementHandler {
	return &MovementHandler{engine: engine, uc: uc, log: log}
}

// ListInbound godoc
// @Summary      Listar entradas
// @Tags         inbound
// @Produce      json
// @Param        page    query  int     false  "Página"
// @Param        size    query  int     false  "Tamaño"
// @Param        search  query  string  false  "Artículo, proveedor u operador"
// @Param        itemId  query  int     false  "Filtrar por artículo"
// @Success      200  {object}  dto.Envelope
// @Router       /api/warehouse/inbound/list [get]
func (h *MovementHandler) ListInbound(c *fiber.Ctx) error {
	out, err := h.uc.ListInbound(c.UserContext(), pageFrom(c), int64(c.QueryInt("itemId", 0)))
	if err != nil {
		return respondError(c, h.log, err, "")
	}
	return ok(c, out)
}

// AddInbound godoc
// @Summary      Registrar entrada
// @Description  Suma quantity al stock del artículo en la misma transacción que crea el registro.
// @Description  Cantidad no numérica → 0; fecha ausente o inválida → hoy.
// @Tags         inbound
// @Accept       json
// @Produce      json
// @Success      200  {object}  dto.Envelope
// @Failure      400  {object}  dto.Envelope
// @Failure      404  {object}  dto.Envelope
// @Router       /api/warehouse/inbound/add [post]
func (h *MovementHandler) AddInbound(c *fiber.Ctx) error {
	body, valid := jsonBody(c)
	if !valid {
		return fail(c, fiber.StatusBadRequest, "invalid body")
	}
	req := dto.ParseInboundRequest(body)
	rec, err := h.engine.PostInbound(c.UserContext(), ledger.InboundInput{
		ItemID:   req.ItemID,
		Quantity: req.Quantity,
		Supplier: req.Supplier,
		Date:     req.Date,
		Remark:   req.Remark,
		Operator: GetIdentity(c),
	})
	if err != nil {
		return respondError(c, h.log, err, msgItemNotFound)
	}
	return okMessage(c, dto.ToInboundResponse(rec), "inbound recorded")
}

// ListOutbound godoc
// @Summary      Listar salidas
// @Tags         outbound
// @Produce      json
// @Param        page    query  int     false  "Página"
// @Param        size    query  int     false  "Tamaño"
// @Param        search  query  string  false  "Artículo o receptor"
// @Param        itemId  query  int     false  "Filtrar por artículo"
// @Success      200  {object}  dto.Envelope
// @Router       /api/warehouse/outbound/list [get]
func (h *MovementHandler) ListOutbound(c *fiber.Ctx) error {
	out, err := h.uc.ListOutbound(c.UserContext(), pageFrom(c), int64(c.QueryInt("itemId", 0)))
	if err != nil {
		return respondError(c, h.log, err, "")
	}
	return ok(c, out)
}

// AddOutbound godoc
// @Summary      Registrar salida
// @Description  Resta quantity del stock sin comprobar existencias: el stock puede quedar negativo.
// @Tags         outbound
// @Accept       json
// @Produce      json
// @Success      200  {object}  dto.Envelope
// @Failure      400  {object}  dto.Envelope
// @Failure      404  {object}  dto.Envelope
// @Router       /api/warehouse/outbound/add [post]
func (h *MovementHandler) AddOutbound(c *fiber.Ctx) error {
	body, valid := jsonBody(c)
	if !valid {
		return fail(c, fiber.StatusBadRequest, "invalid body")
	}
	req := dto.ParseOutboundRequest(body)
	rec, err := h.engine.PostOutbound(c.UserContext(), ledger.OutboundInput{
		ItemID:   req.ItemID,
		Quantity: req.Quantity,
		Receiver: req.Receiver,
		Date:     req.Date,
		Reason:   req.Reason,
		Operator: GetIdentity(c),
	})
	if err != nil {
		return respondError(c, h.log, err, msgItemNotFound)
	}
	return okMessage(c, dto.ToOutboundResponse(rec), "outbound recorded")
}
