package http

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Almacen-api/internal/application/dto"
)

// pageFrom lee page, size y search (o q) de la query.
func pageFrom(c *fiber.Ctx) dto.PageRequest {
	search := c.Query("search")
	if search == "" {
		search = c.Query("q")
	}
	return dto.PageRequest{
		Page:   c.QueryInt("page", 1),
		Size:   c.QueryInt("size", dto.DefaultPageSize),
		Search: search,
	}
}

// idParam interpreta :id; false si no es un entero positivo.
func idParam(c *fiber.Ctx) (int64, bool) {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

// jsonBody decodifica el cuerpo como objeto genérico; las claves se resuelven después
// con la tabla de alias.
func jsonBody(c *fiber.Ctx) (map[string]any, bool) {
	body := map[string]any{}
	if len(c.Body()) == 0 {
		return body, true
	}
	if err := c.BodyParser(&body); err != nil {
		return nil, false
	}
	return body, true
}
