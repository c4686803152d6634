package http

import (
	"slices"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Almacen-api/internal/domain/entity"
)

// LocalIdentity clave de Locals con el *entity.Identity del operador.
const LocalIdentity = "identity"

// tokenParser es lo que el middleware necesita de auth.AuthUseCase.
type tokenParser interface {
	ParseAccess(token string) (*entity.Identity, error)
}

// OptionalAuth carga la identidad si llega un Bearer válido. Sin cabecera la petición sigue
// como anónima; una cabecera presente pero inválida es 401.
func OptionalAuth(parser tokenParser) fiber.Handler {
	return func(c *fiber.Ctx) error {
		header := c.Get(fiber.HeaderAuthorization)
		if header == "" {
			return c.Next()
		}
		id, msg := identityFrom(parser, header)
		if id == nil {
			return fail(c, fiber.StatusUnauthorized, msg)
		}
		c.Locals(LocalIdentity, id)
		return c.Next()
	}
}

// RequireAuth exige un Bearer de acceso válido.
func RequireAuth(parser tokenParser) fiber.Handler {
	return func(c *fiber.Ctx) error {
		header := c.Get(fiber.HeaderAuthorization)
		if header == "" {
			return fail(c, fiber.StatusUnauthorized, "authorization header required")
		}
		id, msg := identityFrom(parser, header)
		if id == nil {
			return fail(c, fiber.StatusUnauthorized, msg)
		}
		c.Locals(LocalIdentity, id)
		return c.Next()
	}
}

// RequireRole exige que la identidad cargada tenga alguno de los roles dados.
// Va después de RequireAuth u OptionalAuth.
func RequireRole(roles ...string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := GetIdentity(c)
		if id == nil {
			return fail(c, fiber.StatusUnauthorized, "authentication required")
		}
		if !slices.Contains(roles, id.Role) {
			return fail(c, fiber.StatusForbidden, "role not allowed")
		}
		return c.Next()
	}
}

func identityFrom(parser tokenParser, header string) (*entity.Identity, string) {
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return nil, "expected format: Bearer <token>"
	}
	token := strings.TrimSpace(parts[1])
	if token == "" {
		return nil, "empty token"
	}
	id, err := parser.ParseAccess(token)
	if err != nil {
		return nil, "invalid or expired token"
	}
	return id, ""
}

// GetIdentity devuelve el operador de la petición, o nil si es anónima.
func GetIdentity(c *fiber.Ctx) *entity.Identity {
	id, _ := c.Locals(LocalIdentity).(*entity.Identity)
	return id
}
