package http

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/jhoicas/Almacen-api/internal/application/auth"
	"github.com/jhoicas/Almacen-api/internal/application/dto"
)

// AuthHandler maneja login, renovación de token y datos del usuario.
type AuthHandler struct {
	uc  *auth.AuthUseCase
	log zerolog.Logger
}

// NewAuthHandler construye el handler de auth.
func NewAuthHandler(uc *auth.AuthUseCase, log zerolog.Logger) *AuthHandler {
	return &AuthHandler{uc: uc, log: log}
}

// Login godoc
// @Summary      Iniciar sesión
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body  dto.LoginRequest  true  "username, password"
// @Success      200   {object}  dto.Envelope
// @Failure      401   {object}  dto.Envelope
// @Failure      403   {object}  dto.Envelope
// @Router       /api/auth/login [post]
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var in dto.LoginRequest
	if err := c.BodyParser(&in); err != nil {
		return fail(c, fiber.StatusBadRequest, "invalid body")
	}
	if strings.TrimSpace(in.Username) == "" || in.Password == "" {
		return fail(c, fiber.StatusBadRequest, "username and password are required")
	}
	out, err := h.uc.Login(c.UserContext(), in)
	if err != nil {
		switch statusOf(err) {
		case fiber.StatusUnauthorized:
			return fail(c, fiber.StatusUnauthorized, "invalid credentials")
		case fiber.StatusForbidden:
			return fail(c, fiber.StatusForbidden, "account disabled")
		}
		return respondError(c, h.log, err, "")
	}
	return ok(c, out)
}

// Refresh godoc
// @Summary      Renovar token de acceso
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body  dto.RefreshRequest  true  "refresh"
// @Success      200   {object}  dto.Envelope
// @Failure      400   {object}  dto.Envelope
// @Failure      401   {object}  dto.Envelope
// @Router       /api/auth/refresh [post]
func (h *AuthHandler) Refresh(c *fiber.Ctx) error {
	var in dto.RefreshRequest
	if err := c.BodyParser(&in); err != nil {
		return fail(c, fiber.StatusBadRequest, "invalid body")
	}
	if in.Refresh == "" {
		return fail(c, fiber.StatusBadRequest, "refresh token required")
	}
	out, err := h.uc.Refresh(c.UserContext(), in.Refresh)
	if err != nil {
		if statusOf(err) == fiber.StatusUnauthorized {
			return fail(c, fiber.StatusUnauthorized, "invalid refresh token")
		}
		return respondError(c, h.log, err, "")
	}
	return ok(c, out)
}

// UserInfo godoc
// @Summary      Datos del usuario autenticado
// @Tags         auth
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.Envelope
// @Failure      401  {object}  dto.Envelope
// @Router       /api/auth/userInfo [get]
func (h *AuthHandler) UserInfo(c *fiber.Ctx) error {
	id := GetIdentity(c)
	if id == nil {
		return fail(c, fiber.StatusUnauthorized, "authentication required")
	}
	out, err := h.uc.UserInfo(c.UserContext(), id.UserID)
	if err != nil {
		return respondError(c, h.log, err, "user not found")
	}
	return ok(c, out)
}

// Logout godoc
// @Summary      Cerrar sesión
// @Description  Los tokens no tienen estado en el servidor; el cliente los descarta.
// @Tags         auth
// @Produce      json
// @Success      200  {object}  dto.Envelope
// @Router       /api/auth/logout [post]
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	return okMessage(c, nil, "logout success")
}
