package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"github.com/swaggo/swag"

	"github.com/jhoicas/gesafe-api/docs"
	"github.com/jhoicas/gesafe-api/internal/application/auth"
	"github.com/jhoicas/gesafe-api/internal/application/inventory"
	appreport "github.com/jhoicas/gesafe-api/internal/application/report"
	"github.com/jhoicas/gesafe-api/internal/application/usecase"
	"github.com/jhoicas/gesafe-api/internal/domain/repository"
	"github.com/jhoicas/gesafe-api/internal/infrastructure/distlock"
	"github.com/jhoicas/gesafe-api/internal/infrastructure/memory"
	infrapdf "github.com/jhoicas/gesafe-api/internal/infrastructure/pdf"
	"github.com/jhoicas/gesafe-api/internal/infrastructure/postgres"
	infraxlsx "github.com/jhoicas/gesafe-api/internal/infrastructure/xlsx"
	httpRouter "github.com/jhoicas/gesafe-api/internal/interfaces/http"
	"github.com/jhoicas/gesafe-api/pkg/config"
	"github.com/jhoicas/gesafe-api/pkg/logger"
)

// storage repositorios del driver elegido.
type storage struct {
	users      repository.UserRepository
	properties repository.PropertyRepository
	lots       repository.LotRepository
	movements  repository.MovementRepository
	tx         inventory.TxRunner
	close      func()
}

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
		Str("storage", cfg.Storage).
		Msg("iniciando aplicación")

	ctx := context.Background()
	store, err := openStorage(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Str("storage", cfg.Storage).Msg("abrir almacenamiento")
	}
	defer store.close()

	var locker inventory.Locker = inventory.NewLocalLocker()
	if cfg.Redis.Enabled() {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Address,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer rdb.Close()
		if err := rdb.Ping(ctx).Err(); err != nil {
			log.Fatal().Err(err).Str("addr", cfg.Redis.Address).Msg("conexión a Redis")
		}
		locker = distlock.New(rdb, cfg.Redis.LockTTL, log.Zerolog())
		log.Info().Str("addr", cfg.Redis.Address).Msg("lock distribuido por lote activo")
	}

	authUC := auth.NewAuthUseCase(store.users, store.properties, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})
	propertyUC := usecase.NewPropertyUseCase(store.properties)
	ledger := inventory.NewLedgerUseCase(store.tx, locker, store.properties, store.lots, store.movements)
	alertsUC := inventory.NewExpiryAlertUseCase(store.lots, cfg.Ledger.AlertWindowDays)
	reportUC := appreport.NewReportUseCase(store.properties, store.lots, store.movements, map[string]appreport.Renderer{
		"pdf":  infrapdf.NewReportRenderer(cfg.App.Name),
		"xlsx": infraxlsx.NewReportRenderer(),
	})

	app := httpRouter.NewApp(cfg.App.Name, log.Zerolog())

	if cfg.App.DocsEnabled {
		mountDocs(app, log)
	}

	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:     authUC,
		PropertyUC: propertyUC,
		Ledger:     ledger,
		Alerts:     alertsUC,
		Reports:    reportUC,
		JWTSecret:  cfg.JWT.Secret,
		Log:        log.Zerolog(),
		LoginLimit: cfg.HTTP.LoginLimit,
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

func openStorage(ctx context.Context, cfg *config.Config, log *logger.Logger) (*storage, error) {
	if cfg.Storage == config.StorageMemory {
		log.Warn().Msg("STORAGE_DRIVER=memory: los datos se pierden al reiniciar")
		m := memory.NewStore()
		return &storage{
			users:      m.Users(),
			properties: m.Properties(),
			lots:       m.Lots(),
			movements:  m.Movements(),
			tx:         m,
			close:      func() {},
		}, nil
	}

	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		return nil, err
	}
	if cfg.DB.Migrate {
		if err := postgres.Migrate(ctx, pool); err != nil {
			pool.Close()
			return nil, err
		}
		log.Info().Msg("schema aplicado")
	}
	return &storage{
		users:      postgres.NewUserRepository(pool),
		properties: postgres.NewPropertyRepository(pool),
		lots:       postgres.NewLotRepository(pool),
		movements:  postgres.NewMovementRepository(pool),
		tx:         postgres.NewTxRunner(pool),
		close:      pool.Close,
	}, nil
}

// mountDocs Swagger UI en /docs (si existe docs/swagger.json) y la especificación
// registrada en /swagger/doc.json.
func mountDocs(app *fiber.App, log *logger.Logger) {
	app.Get("/swagger/doc.json", func(c *fiber.Ctx) error {
		doc, err := swag.ReadDoc(docs.SwaggerInfo.InstanceName())
		if err != nil {
			return err
		}
		c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSONCharsetUTF8)
		return c.SendString(doc)
	})

	const specPath = "./docs/swagger.json"
	if _, err := os.Stat(specPath); err != nil {
		log.Warn().Str("path", specPath).Msg("swagger UI deshabilitado: archivo no encontrado")
		return
	}
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: specPath,
		Path:     "docs",
		Title:    "Gesafe API",
	}))
}
