package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"

	appanalytics "github.com/jhoicas/stock-tracker/internal/application/analytics"
	"github.com/jhoicas/stock-tracker/internal/application/auth"
	"github.com/jhoicas/stock-tracker/internal/application/inventory"
	"github.com/jhoicas/stock-tracker/internal/application/usecase"
	"github.com/jhoicas/stock-tracker/internal/infrastructure/jsonstore"
	infrapdf "github.com/jhoicas/stock-tracker/internal/infrastructure/pdf"
	"github.com/jhoicas/stock-tracker/internal/infrastructure/security"
	httpRouter "github.com/jhoicas/stock-tracker/internal/interfaces/http"
	"github.com/jhoicas/stock-tracker/pkg/config"
	"github.com/jhoicas/stock-tracker/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.App.LogLevel,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("iniciando aplicación")

	if cfg.JWT.UsesDefaultSecret() {
		log.Warn().Msg("JWT_SECRET no definido: se usa el secreto de desarrollo")
	}

	hasher := security.NewBcryptHasher(cfg.Auth.BcryptCost)
	storeLog := log.Zerolog()
	store, err := jsonstore.Open(jsonstore.Options{
		Path:              cfg.Store.Path,
		Hasher:            hasher,
		AdminPassword:     cfg.Auth.AdminDefaultPassword,
		ResetAdminOnStart: cfg.Auth.AdminResetOnStart,
		Logger:            &storeLog,
	})
	if err != nil {
		log.Fatal().Err(err).Str("path", cfg.Store.Path).Msg("abrir documento de inventario")
	}

	repos := store.Repositories()
	txRunner := jsonstore.NewTxRunner(store)

	authUC := auth.NewAuthUseCase(repos.Users, txRunner, hasher, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})
	userUC := usecase.NewUserUseCase(repos.Users, txRunner, hasher)
	categoryUC := usecase.NewCategoryUseCase(repos.Categories, repos.Items, txRunner)
	itemUC := inventory.NewItemUseCase(repos.Items, repos.Categories, txRunner)
	transactionUC := inventory.NewTransactionUseCase(repos.Transactions, repos.Items, repos.Users, txRunner)
	dashboardUC := appanalytics.NewDashboardUseCase(repos.Items, repos.Categories, repos.Transactions)

	// PDF: reporte imprimible de alertas de stock bajo
	reportGenerator := infrapdf.NewMarotoReportGenerator(cfg.App.Name)
	lowStockUC := inventory.NewLowStockUseCase(repos.Items, repos.Categories, reportGenerator)

	app := httpRouter.NewApp(httpRouter.AppConfig{
		Name:        cfg.App.Name,
		CORSOrigins: cfg.HTTP.CORSOrigins,
		Logger:      log.Component("http"),
	})

	// Swagger UI en local: http://localhost:<port>/docs
	if _, err := os.Stat(cfg.Swagger.FilePath); err == nil {
		app.Use(swagger.New(swagger.Config{
			BasePath: "/",
			FilePath: cfg.Swagger.FilePath,
			Path:     "docs",
			Title:    "Stock Tracker API",
		}))
	} else {
		log.Warn().Str("file", cfg.Swagger.FilePath).Msg("swagger.json no encontrado, /docs deshabilitado")
	}

	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:        authUC,
		UserUC:        userUC,
		CategoryUC:    categoryUC,
		ItemUC:        itemUC,
		LowStockUC:    lowStockUC,
		TransactionUC: transactionUC,
		DashboardUC:   dashboardUC,
		JWTSecret:     cfg.JWT.Secret,
	})

	go func() {
		log.Info().Str("addr", cfg.HTTP.Addr()).Str("store", store.Path()).Msg("servidor HTTP escuchando")
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

	// Última escritura del documento tras drenar las peticiones en curso.
	if err := store.Close(); err != nil {
		log.Error().Err(err).Msg("cerrar documento de inventario")
	}

	log.Info().Msg("aplicación detenida")
}
