package http

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/jhoicas/Almacen-api/internal/application/impex"
)

// ImpexHandler maneja la importación y exportación masiva de artículos.
type ImpexHandler struct {
	svc *impex.Service
	log zerolog.Logger
}

// NewImpexHandler construye el handler.
func NewImpexHandler(svc *impex.Service, log zerolog.Logger) *ImpexHandler {
	return &ImpexHandler{svc: svc, log: log}
}

// Import godoc
// @Summary      Importar artículos desde CSV, XLSX o XLS
// @Description  Upsert por item_code. Las filas inválidas se informan en errors sin abortar el lote;
// @Description  un fallo de almacenamiento revierte el lote entero.
// @Tags         stock
// @Accept       multipart/form-data
// @Produce      json
// @Param        file  formData  file  true  "Archivo .csv, .xlsx o .xls"
// @Success      200  {object}  dto.Envelope
// @Failure      400  {object}  dto.Envelope
// @Router       /api/warehouse/stock/import [post]
func (h *ImpexHandler) Import(c *fiber.Ctx) error {
	fh, err := c.FormFile("file")
	if err != nil {
		return fail(c, fiber.StatusBadRequest, "file is required")
	}
	f, err := fh.Open()
	if err != nil {
		return respondError(c, h.log, err, "")
	}
	defer f.Close()

	res, err := h.svc.Import(c.UserContext(), fh.Filename, f)
	if err != nil {
		return respondError(c, h.log, err, "")
	}
	return okMessage(c, res, "import finished")
}

// Export godoc
// @Summary      Exportar todos los artículos
// @Description  Mismas columnas que la importación más created_at y updated_at, ordenado por id descendente.
// @Tags         stock
// @Produce      text/csv
// @Param        format  query  string  false  "csv (por defecto) o xlsx"
// @Success      200
// @Router       /api/warehouse/stock/export [get]
func (h *ImpexHandler) Export(c *fiber.Ctx) error {
	format := impex.Format(strings.ToLower(strings.TrimSpace(c.Query("format"))))
	if format == "" {
		format = impex.FormatCSV
	}
	var buf bytes.Buffer
	if err := h.svc.Export(c.UserContext(), format, &buf); err != nil {
		return respondError(c, h.log, err, "")
	}
	c.Set(fiber.HeaderContentType, format.ContentType())
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="stock.%s"`, format))
	return c.Send(buf.Bytes())
}
