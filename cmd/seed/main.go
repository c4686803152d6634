// seed crea el usuario administrador y, opcionalmente, carga artículos de un archivo.
//
// Uso: go run ./cmd/seed [ruta/articulos.csv|.xlsx|.xls]
// Sin archivo inserta un catálogo de ejemplo. La contraseña del admin se lee de
// SEED_ADMIN_PASSWORD (por defecto admin123, solo para desarrollo).
package main

import (
	"context"
	"errors"
	"os"

	"github.com/jhoicas/Almacen-api/internal/application/auth"
	"github.com/jhoicas/Almacen-api/internal/application/impex"
	"github.com/jhoicas/Almacen-api/internal/application/usecase"
	"github.com/jhoicas/Almacen-api/internal/domain"
	"github.com/jhoicas/Almacen-api/internal/domain/entity"
	"github.com/jhoicas/Almacen-api/internal/infrastructure/postgres"
	"github.com/jhoicas/Almacen-api/pkg/config"
	"github.com/jhoicas/Almacen-api/pkg/logger"
)

var demoItems = []map[string]any{
	{"item_code": "HW-0001", "item_name": "Tornillo hexagonal M6", "category": "Ferretería", "specification": "M6x20", "unit": "caja", "initial_stock": 120, "min_stock": 20, "location": "A-01"},
	{"item_code": "HW-0002", "item_name": "Tuerca M6", "category": "Ferretería", "specification": "M6", "unit": "caja", "initial_stock": 80, "min_stock": 20, "location": "A-01"},
	{"item_code": "EL-0001", "item_name": "Cable 2x1.5", "category": "Eléctrico", "unit": "m", "initial_stock": 300, "min_stock": 50, "location": "B-03"},
	{"item_code": "EL-0002", "item_name": "Interruptor simple", "category": "Eléctrico", "unit": "ud", "initial_stock": 6, "min_stock": 10, "location": "B-04"},
	{"item_code": "OF-0001", "item_name": "Papel A4", "category": "Oficina", "specification": "80g", "unit": "resma", "initial_stock": 15, "min_stock": 10, "location": "C-01"},
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel, Service: "seed"})

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	if err := postgres.Migrate(ctx, pool, log.Component("migrate")); err != nil {
		log.Fatal().Err(err).Msg("migraciones")
	}

	authUC := auth.NewAuthUseCase(postgres.NewUserRepository(pool), auth.JWTConfig{Secret: cfg.JWT.Secret})
	password := os.Getenv("SEED_ADMIN_PASSWORD")
	if password == "" {
		password = "admin123"
	}
	if _, err := authUC.RegisterUser(ctx, "admin", password, "Administrador", entity.RoleAdmin); err != nil {
		if !errors.Is(err, domain.ErrDuplicate) {
			log.Fatal().Err(err).Msg("crear admin")
		}
		log.Info().Msg("admin ya existe")
	} else {
		log.Info().Msg("admin creado")
	}

	itemRepo := postgres.NewItemRepository(pool)

	if len(os.Args) > 1 {
		path := os.Args[1]
		f, err := os.Open(path)
		if err != nil {
			log.Fatal().Err(err).Str("file", path).Msg("abrir archivo")
		}
		defer f.Close()
		svc := impex.NewService(postgres.NewTxRunner(pool), itemRepo, log.Component("impex"))
		res, err := svc.Import(ctx, path, f)
		if err != nil {
			log.Fatal().Err(err).Msg("importar")
		}
		for _, e := range res.Errors {
			log.Warn().Msg(e)
		}
		log.Info().Int("created", res.Created).Int("updated", res.Updated).Msg("artículos importados")
		return
	}

	itemUC := usecase.NewItemUseCase(itemRepo)
	created := 0
	for _, body := range demoItems {
		if _, err := itemUC.Create(ctx, body); err != nil {
			if errors.Is(err, domain.ErrDuplicate) {
				continue
			}
			log.Fatal().Err(err).Interface("item", body["item_code"]).Msg("crear artículo")
		}
		created++
	}
	log.Info().Int("created", created).Msg("catálogo de ejemplo cargado")
}
