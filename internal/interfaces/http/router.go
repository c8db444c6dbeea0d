package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/rs/zerolog"

	"github.com/jhoicas/gesafe-api/internal/application/auth"
	"github.com/jhoicas/gesafe-api/internal/application/dto"
	"github.com/jhoicas/gesafe-api/internal/application/inventory"
	appreport "github.com/jhoicas/gesafe-api/internal/application/report"
	"github.com/jhoicas/gesafe-api/internal/application/usecase"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC     *auth.AuthUseCase
	PropertyUC *usecase.PropertyUseCase
	Ledger     *inventory.LedgerUseCase
	Alerts     *inventory.ExpiryAlertUseCase
	Reports    *appreport.ReportUseCase
	JWTSecret  string
	Log        zerolog.Logger
	LoginLimit int // intentos de login por minuto e IP; 0 desactiva el límite
}

// NewApp crea la aplicación Fiber con el manejador de errores y los middlewares comunes.
func NewApp(name string, log zerolog.Logger) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:      name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 30,
		IdleTimeout:  time.Second * 60,
		ErrorHandler: ErrorHandler(log),
	})
	app.Use(requestid.New())
	app.Use(RequestLogger(log))
	app.Use(recover.New())

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(dto.HealthResponse{Status: "ok"})
	})
	return app
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	authHandler := NewAuthHandler(deps.AuthUC, deps.Log)
	propertyHandler := NewPropertyHandler(deps.PropertyUC, deps.Log)
	productHandler := NewProductHandler(deps.Ledger, deps.Log)
	alertsHandler := NewAlertsHandler(deps.Alerts, deps.Log)
	reportHandler := NewReportHandler(deps.Reports, deps.Log)
	requireAuth := AuthMiddleware(deps.JWTSecret)

	// Auth (público)
	authGroup := app.Group("/auth")
	authGroup.Post("/register", authHandler.Register)
	if deps.LoginLimit > 0 {
		authGroup.Post("/login", LoginLimiter(deps.LoginLimit), authHandler.Login)
	} else {
		authGroup.Post("/login", authHandler.Login)
	}

	// Perfil y propriedades (protegido)
	authGroup.Get("/perfil", requireAuth, authHandler.Profile)
	authGroup.Put("/perfil", requireAuth, authHandler.UpdateProfile)
	authGroup.Get("/propriedades", requireAuth, propertyHandler.List)
	authGroup.Post("/propriedades", requireAuth, propertyHandler.CreateMany)
	authGroup.Post("/propriedade", requireAuth, propertyHandler.Create)

	// Produtos (protegido). Las rutas fijas van antes de /:propertyId.
	products := app.Group("/produto", requireAuth)
	products.Get("/embalagens", productHandler.Packagings)
	products.Get("/alertas-vencimento", alertsHandler.Expiring)
	products.Get("/relatorio-geral", reportHandler.General)
	products.Get("/relatorio-movimentacoes", reportHandler.Movements)
	products.Get("/relatorio-vencimentos", reportHandler.Expirations)
	products.Get("/historico/:productId", productHandler.History)
	products.Post("/validade/normalizar", productHandler.NormalizeExpiry)
	products.Post("/cadastrar", productHandler.Register)
	products.Post("/saida", productHandler.Withdraw)
	products.Patch("/movimentacao/:movementId/:propertyId", productHandler.Deactivate)
	products.Put("/:propertyId/:productId", productHandler.Update)
	products.Get("/:propertyId", productHandler.List)
}
