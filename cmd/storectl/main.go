// storectl abre el documento de inventario fuera del servidor para tareas de mantenimiento.
//
// Al abrir el documento se migran las credenciales heredadas (texto plano → bcrypt) y se
// crea el archivo con los datos semilla si no existe.
//
// Uso:
//
//	go run ./cmd/storectl                         # resumen del documento
//	go run ./cmd/storectl --reset-admin           # restablece la credencial de "admin"
//	go run ./cmd/storectl --low-stock-pdf out.pdf # exporta el reporte de stock bajo
//
// La ruta del documento sale de STORE_PATH salvo que se indique --store.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/pflag"

	"github.com/jhoicas/stock-tracker/internal/application/inventory"
	"github.com/jhoicas/stock-tracker/internal/infrastructure/jsonstore"
	infrapdf "github.com/jhoicas/stock-tracker/internal/infrastructure/pdf"
	"github.com/jhoicas/stock-tracker/internal/infrastructure/security"
	"github.com/jhoicas/stock-tracker/pkg/config"
	"github.com/jhoicas/stock-tracker/pkg/logger"
)

func main() {
	os.Exit(run())
}

// run devuelve el código de salida; el documento se cierra (flush final) en todos los caminos.
func run() (code int) {
	storePath := pflag.String("store", "", "ruta del documento JSON (por defecto STORE_PATH)")
	resetAdmin := pflag.Bool("reset-admin", false, "restablecer la contraseña de admin a ADMIN_DEFAULT_PASSWORD")
	pdfPath := pflag.String("low-stock-pdf", "", "escribir el reporte PDF de stock bajo en esta ruta")
	pflag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Cargar configuración: %v\n", err)
		return 1
	}
	if *storePath != "" {
		cfg.Store.Path = *storePath
	}

	log := logger.New(logger.Config{Env: "development", Level: cfg.App.LogLevel})
	zl := log.Zerolog()

	store, err := jsonstore.Open(jsonstore.Options{
		Path:              cfg.Store.Path,
		Hasher:            security.NewBcryptHasher(cfg.Auth.BcryptCost),
		AdminPassword:     cfg.Auth.AdminDefaultPassword,
		ResetAdminOnStart: *resetAdmin,
		Logger:            &zl,
	})
	if err != nil {
		log.Error().Err(err).Str("path", cfg.Store.Path).Msg("abrir documento")
		return 1
	}
	defer func() {
		if err := store.Close(); err != nil {
			log.Error().Err(err).Msg("cerrar documento")
			code = 1
		}
	}()

	counts, err := store.Snapshot()
	if err != nil {
		log.Error().Err(err).Msg("leer documento")
		return 1
	}

	repos := store.Repositories()
	lowStockUC := inventory.NewLowStockUseCase(repos.Items, repos.Categories, infrapdf.NewMarotoReportGenerator(cfg.App.Name))
	alerts, err := lowStockUC.List(context.Background())
	if err != nil {
		log.Error().Err(err).Msg("calcular alertas de stock bajo")
		return 1
	}

	log.Info().
		Str("path", store.Path()).
		Int("users", counts.Users).
		Int("categories", counts.Categories).
		Int("items", counts.Items).
		Int("transactions", counts.Transactions).
		Int("low_stock", len(alerts)).
		Msg("resumen del documento")

	if *pdfPath != "" {
		pdf, err := lowStockUC.Report(context.Background())
		if err != nil {
			log.Error().Err(err).Msg("generar reporte")
			return 1
		}
		if err := os.WriteFile(*pdfPath, pdf, 0o644); err != nil {
			log.Error().Err(err).Str("file", *pdfPath).Msg("escribir reporte")
			return 1
		}
		log.Info().Str("file", *pdfPath).Int("bytes", len(pdf)).Msg("reporte de stock bajo generado")
	}
	return 0
}
