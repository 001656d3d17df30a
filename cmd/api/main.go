package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/hospisys/farmacia-stock/internal/application/refdata"
	"github.com/hospisys/farmacia-stock/internal/application/stockops"
	"github.com/hospisys/farmacia-stock/internal/infrastructure/his"
	httpRouter "github.com/hospisys/farmacia-stock/internal/interfaces/http"
	"github.com/hospisys/farmacia-stock/pkg/config"
	"github.com/hospisys/farmacia-stock/pkg/logger"
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
		Str("his_base_url", cfg.HIS.BaseURL).
		Msg("iniciando aplicación")

	hisClient := his.NewClient(cfg.HIS.BaseURL, cfg.HIS.Timeout())
	store := refdata.NewStore(hisClient, log)

	// Carga inicial de las colecciones de referencia; sin ellas el validador
	// no puede consultar existencias.
	loadCtx, cancelLoad := context.WithTimeout(context.Background(), 2*cfg.HIS.Timeout())
	if err := store.LoadAll(loadCtx); err != nil {
		cancelLoad()
		log.Fatal().Err(err).Msg("carga inicial de datos de referencia")
	}
	cancelLoad()

	validator := stockops.NewValidator(store)
	lookupUC := stockops.NewLookupUseCase(store)
	drafts := stockops.NewDraftManager(store, validator, cfg.Drafts.TTL(), log)
	submitUC := stockops.NewSubmitUseCase(drafts, validator, store, hisClient, log)
	operationsUC := stockops.NewOperationsUseCase(store, hisClient, log)

	sweepCtx, stopSweeper := context.WithCancel(context.Background())
	go drafts.StartSweeper(sweepCtx)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "Farmacia Stock API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		Store:      store,
		Lookup:     lookupUC,
		Drafts:     drafts,
		Submit:     submitUC,
		Operations: operationsUC,
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
	stopSweeper()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}
