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

	"github.com/albeiroc/invoice-forge/asset"
	appbilling "github.com/albeiroc/invoice-forge/internal/application/billing"
	infrapdf "github.com/albeiroc/invoice-forge/internal/infrastructure/pdf"
	httpRouter "github.com/albeiroc/invoice-forge/internal/interfaces/http"
	"github.com/albeiroc/invoice-forge/pkg/config"
	"github.com/albeiroc/invoice-forge/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.Log.Level,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("iniciando aplicación")

	// Logo por defecto: archivo configurado o asset embebido. Si el archivo
	// configurado no se puede leer, se degrada al embebido y se registra.
	defaultLogo := asset.DefaultLogoPNG
	if cfg.PDF.DefaultLogoPath != "" {
		raw, readErr := os.ReadFile(cfg.PDF.DefaultLogoPath)
		if readErr != nil {
			log.Warn().Err(readErr).Str("path", cfg.PDF.DefaultLogoPath).
				Msg("logo por defecto configurado ilegible, se usa el embebido")
		} else {
			defaultLogo = raw
		}
	}

	renderer := infrapdf.NewMarotoInvoiceRenderer(defaultLogo, log)
	renderInvoiceUC := appbilling.NewRenderInvoiceUseCase(renderer)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())
	app.Use(httpRouter.RequestLogger(log))

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "Invoice Forge API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		RenderInvoice: renderInvoiceUC,
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
