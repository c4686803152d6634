package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"

	"github.com/jhoicas/Almacen-api/internal/application/auth"
	"github.com/jhoicas/Almacen-api/internal/application/impex"
	"github.com/jhoicas/Almacen-api/internal/application/ledger"
	"github.com/jhoicas/Almacen-api/internal/application/usecase"
	infrapdf "github.com/jhoicas/Almacen-api/internal/infrastructure/pdf"
	"github.com/jhoicas/Almacen-api/internal/infrastructure/postgres"
	httpRouter "github.com/jhoicas/Almacen-api/internal/interfaces/http"
	"github.com/jhoicas/Almacen-api/pkg/config"
	"github.com/jhoicas/Almacen-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:     cfg.App.Env,
		Level:   cfg.App.LogLevel,
		Service: cfg.App.Name,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Bool("auth_required", cfg.HTTP.AuthRequired).
		Msg("iniciando aplicación")

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	if cfg.DB.AutoMigrate {
		if err := postgres.Migrate(ctx, pool, log.Component("migrate")); err != nil {
			log.Fatal().Err(err).Msg("migraciones")
		}
	}

	itemRepo := postgres.NewItemRepository(pool)
	movementRepo := postgres.NewMovementRepository(pool)
	userRepo := postgres.NewUserRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	engine := ledger.NewEngine(txRunner, movementRepo)
	impexSvc := impex.NewService(txRunner, itemRepo, log.Component("impex"))
	itemUC := usecase.NewItemUseCase(itemRepo)
	movementUC := usecase.NewMovementUseCase(movementRepo)
	authUC := auth.NewAuthUseCase(userRepo, auth.JWTConfig{
		Secret:            cfg.JWT.Secret,
		ExpMinutes:        cfg.JWT.Expiration,
		RefreshExpMinutes: cfg.JWT.RefreshExpiration,
		Issuer:            cfg.JWT.Issuer,
	})

	// PDF: informe de artículos bajo mínimo
	reportGen := infrapdf.NewReportGenerator(cfg.App.Name)

	app := httpRouter.NewApp(httpRouter.AppOptions{
		Name:         cfg.App.Name,
		BodyLimitMB:  cfg.HTTP.BodyLimitMB,
		AllowOrigins: cfg.HTTP.AllowOrigins,
		Log:          log.Component("http"),
	})

	// Swagger UI en local: http://localhost:<port>/docs
	if cfg.HTTP.SwaggerEnabled {
		app.Use(swagger.New(swagger.Config{
			BasePath: "/",
			FilePath: "./docs/swagger.json",
			Path:     "docs",
			Title:    "Almacén API",
		}))
	}

	httpRouter.Router(app, httpRouter.RouterDeps{
		ItemUC:       itemUC,
		MovementUC:   movementUC,
		Engine:       engine,
		Impex:        impexSvc,
		Report:       reportGen,
		AuthUC:       authUC,
		Log:          log.Component("http"),
		AuthRequired: cfg.HTTP.AuthRequired,
		Service:      cfg.App.Name,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}
