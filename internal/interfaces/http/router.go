package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/rs/zerolog"

	"github.com/jhoicas/Almacen-api/internal/application/auth"
	"github.com/jhoicas/Almacen-api/internal/application/impex"
	"github.com/jhoicas/Almacen-api/internal/application/ledger"
	"github.com/jhoicas/Almacen-api/internal/application/usecase"
	"github.com/jhoicas/Almacen-api/internal/domain/entity"
	"github.com/jhoicas/Almacen-api/internal/infrastructure/pdf"
)

// AppOptions parámetros del servidor Fiber.
type AppOptions struct {
	Name         string
	BodyLimitMB  int
	AllowOrigins string
	Log          zerolog.Logger
}

// NewApp crea la aplicación Fiber con el manejo de errores en sobre y los middlewares comunes
// (request id, log de peticiones, recover, CORS). El log va antes de recover para que los
// pánicos también queden registrados con su estado 500.
func NewApp(opts AppOptions) *fiber.App {
	cfg := fiber.Config{
		AppName:      opts.Name,
		ErrorHandler: ErrorHandler(opts.Log),
	}
	if opts.BodyLimitMB > 0 {
		cfg.BodyLimit = opts.BodyLimitMB * 1024 * 1024
	}
	app := fiber.New(cfg)
	app.Use(requestid.New())
	app.Use(RequestLogger(opts.Log))
	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: opts.AllowOrigins,
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
	}))
	return app
}

// RouterDeps dependencias para el router.
type RouterDeps struct {
	ItemUC     *usecase.ItemUseCase
	MovementUC *usecase.MovementUseCase
	Engine     *ledger.Engine
	Impex      *impex.Service
	Report     *pdf.ReportGenerator
	AuthUC     *auth.AuthUseCase
	Log        zerolog.Logger
	// AuthRequired false: las rutas de almacén aceptan peticiones anónimas y el operador
	// solo se registra si llega un token.
	AuthRequired bool
	Service      string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	app.Get("/health", func(c *fiber.Ctx) error {
		return ok(c, fiber.Map{"status": "ok", "service": deps.Service})
	})

	api := app.Group("/api")

	// Auth (público salvo userInfo)
	authHandler := NewAuthHandler(deps.AuthUC, deps.Log)
	authGroup := api.Group("/auth")
	authGroup.Post("/login", authHandler.Login)
	authGroup.Post("/refresh", authHandler.Refresh)
	authGroup.Post("/logout", authHandler.Logout)
	authGroup.Get("/userInfo", RequireAuth(deps.AuthUC), authHandler.UserInfo)

	access := OptionalAuth(deps.AuthUC)
	if deps.AuthRequired {
		access = RequireAuth(deps.AuthUC)
	}
	wh := api.Group("/warehouse", access)

	itemHandler := NewItemHandler(deps.ItemUC, deps.Engine, deps.Report, deps.Log)
	impexHandler := NewImpexHandler(deps.Impex, deps.Log)
	stock := wh.Group("/stock")
	stock.Get("/list", itemHandler.List)
	stock.Post("/add", itemHandler.Create)
	stock.Post("/import", impexHandler.Import)
	stock.Get("/export", impexHandler.Export)
	stock.Get("/low", itemHandler.LowStock)
	stock.Get("/statistics", itemHandler.Statistics)
	stock.Get("/report", itemHandler.Report)
	stock.Get("/:id", itemHandler.Get)
	stock.Put("/:id", itemHandler.Update)
	stock.Patch("/:id", itemHandler.Update)
	stock.Delete("/:id", itemHandler.Delete)
	stock.Get("/:id/ledger", itemHandler.Ledger)
	stock.Post("/:id/recompute", RequireAuth(deps.AuthUC), RequireRole(entity.RoleAdmin), itemHandler.Recompute)

	movementHandler := NewMovementHandler(deps.Engine, deps.MovementUC, deps.Log)
	inbound := wh.Group("/inbound")
	inbound.Get("/list", movementHandler.ListInbound)
	inbound.Post("/add", movementHandler.AddInbound)
	outbound := wh.Group("/outbound")
	outbound.Get("/list", movementHandler.ListOutbound)
	outbound.Post("/add", movementHandler.AddOutbound)
}
