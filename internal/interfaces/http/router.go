package http

import (
	"time"

	"github.com/goccy/go-json"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	appanalytics "github.com/jhoicas/stock-tracker/internal/application/analytics"
	"github.com/jhoicas/stock-tracker/internal/application/auth"
	"github.com/jhoicas/stock-tracker/internal/application/inventory"
	"github.com/jhoicas/stock-tracker/internal/application/usecase"
)

// AppConfig opciones de la aplicación Fiber.
type AppConfig struct {
	Name        string
	CORSOrigins string
	Logger      zerolog.Logger
}

// NewApp crea la aplicación Fiber con el codec goccy/go-json, el ErrorHandler del envelope
// y los middlewares comunes (recover, CORS, request id, log de peticiones, métricas).
func NewApp(cfg AppConfig) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:      cfg.Name,
		JSONEncoder:  json.Marshal,
		JSONDecoder:  json.Unmarshal,
		ErrorHandler: ErrorHandler,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: cfg.CORSOrigins,
		AllowHeaders: "Origin, Content-Type, Accept, Authorization, " + HeaderRequestID,
		AllowMethods: "GET,POST,PUT,DELETE,OPTIONS",
	}))
	app.Use(RequestID())
	app.Use(RequestLogger(cfg.Logger))
	app.Use(Metrics())

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.Name, "timestamp": time.Now().UTC()})
	})
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))
	return app
}

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC        *auth.AuthUseCase
	UserUC        *usecase.UserUseCase
	CategoryUC    *usecase.CategoryUseCase
	ItemUC        *inventory.ItemUseCase
	LowStockUC    *inventory.LowStockUseCase
	TransactionUC *inventory.TransactionUseCase
	DashboardUC   *appanalytics.DashboardUseCase
	JWTSecret     string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Auth (login y logout públicos)
	authHandler := NewAuthHandler(deps.AuthUC)
	authGroup := api.Group("/auth")
	authGroup.Post("/login", authHandler.Login)
	authGroup.Post("/logout", OptionalAuth(deps.JWTSecret), authHandler.Logout)
	authGroup.Get("/me", AuthMiddleware(deps.JWTSecret), authHandler.Me)
	authGroup.Put("/change-password", AuthMiddleware(deps.JWTSecret), authHandler.ChangePassword)

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))
	admin := RequireAdmin()

	// Users
	userHandler := NewUserHandler(deps.UserUC)
	users := protected.Group("/users")
	users.Get("/stats", admin, userHandler.Stats)
	users.Get("/", admin, userHandler.List)
	users.Post("/", admin, userHandler.Create)
	users.Get("/:id<int>", userHandler.GetByID)
	users.Put("/:id<int>", userHandler.Update)
	users.Delete("/:id<int>", admin, userHandler.Delete)

	// Inventory: las rutas estáticas van antes que /:id
	inventoryHandler := NewInventoryHandler(deps.ItemUC, deps.LowStockUC)
	categoryHandler := NewCategoryHandler(deps.CategoryUC)
	inv := protected.Group("/inventory")
	inv.Get("/categories", categoryHandler.List)
	inv.Post("/categories", admin, categoryHandler.Create)
	inv.Put("/categories/:id<int>", admin, categoryHandler.Update)
	inv.Delete("/categories/:id<int>", admin, categoryHandler.Delete)
	inv.Get("/alerts/low-stock", inventoryHandler.LowStock)
	inv.Get("/alerts/low-stock/pdf", inventoryHandler.LowStockPDF)
	inv.Get("/", inventoryHandler.List)
	inv.Post("/", admin, inventoryHandler.Create)
	inv.Get("/:id<int>", inventoryHandler.GetByID)
	inv.Put("/:id<int>", admin, inventoryHandler.Update)
	inv.Delete("/:id<int>", admin, inventoryHandler.Delete)

	// Transactions: además del token, la cuenta debe seguir activa
	transactionHandler := NewTransactionHandler(deps.TransactionUC, deps.DashboardUC)
	txs := protected.Group("/transactions", RequireActiveUser(deps.UserUC))
	txs.Get("/stats", transactionHandler.Stats)
	txs.Get("/inventory/:inventoryId<int>", transactionHandler.History)
	txs.Get("/", transactionHandler.List)
	txs.Post("/", transactionHandler.Create)
	txs.Get("/:id<int>", transactionHandler.GetByID)
	txs.Put("/:id<int>", transactionHandler.Update)
	txs.Delete("/:id<int>", transactionHandler.Delete)

	// Dashboard
	dashboardHandler := NewDashboardHandler(deps.DashboardUC)
	protected.Get("/dashboard/stats", dashboardHandler.GetSummary)
}
