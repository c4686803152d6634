package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/jhoicas/Almacen-api/internal/application/dto"
	"github.com/jhoicas/Almacen-api/internal/domain"
)

// ok responde 200 con el sobre de éxito.
func ok(c *fiber.Ctx, data any) error {
	return c.JSON(dto.Success(data, ""))
}

// okMessage responde 200 con un mensaje propio.
func okMessage(c *fiber.Ctx, data any, message string) error {
	return c.JSON(dto.Success(data, message))
}

// fail responde con el mismo código en el estado HTTP y en el sobre.
func fail(c *fiber.Ctx, code int, message string) error {
	return c.Status(code).JSON(dto.Failure(code, message))
}

// statusOf traduce un error de dominio a código HTTP / código del sobre.
func statusOf(err error) int {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, domain.ErrUnauthorized):
		return fiber.StatusUnauthorized
	case errors.Is(err, domain.ErrForbidden):
		return fiber.StatusForbidden
	case domain.IsClientError(err):
		return fiber.StatusBadRequest
	default:
		return fiber.StatusInternalServerError
	}
}

// respondError escribe el sobre de error. Los fallos de sistema se registran con detalle y
// al cliente solo le llega un mensaje genérico.
func respondError(c *fiber.Ctx, log zerolog.Logger, err error, notFoundMsg string) error {
	code := statusOf(err)
	switch code {
	case fiber.StatusInternalServerError:
		log.Error().Err(err).
			Str("request_id", requestID(c)).
			Str("path", c.Path()).
			Msg("fallo interno")
		return fail(c, code, "internal server error")
	case fiber.StatusNotFound:
		if notFoundMsg != "" {
			return fail(c, code, notFoundMsg)
		}
	}
	return fail(c, code, err.Error())
}

// ErrorHandler maneja los errores que escapan de los handlers (rutas inexistentes,
// cuerpo demasiado grande, pánicos recuperados).
func ErrorHandler(log zerolog.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		var fe *fiber.Error
		if errors.As(err, &fe) {
			return fail(c, fe.Code, fe.Message)
		}
		return respondError(c, log, err, "")
	}
}
