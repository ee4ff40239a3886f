package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"paperqa_backend/bootstrap"
	"paperqa_backend/config"
	"paperqa_backend/middleware"
	"paperqa_backend/pkg/logging"
	"paperqa_backend/routes"

	"github.com/gofiber/fiber/v2"
	"github.com/joho/godotenv"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("no .env file, using process environment")
	}
	logging.Init()

	cfg := config.LoadConfig()
	backend, err := bootstrap.NewApp(cfg)
	if err != nil {
		log.Fatal(err)
	}

	eventCtx, stopEvents := context.WithCancel(context.Background())
	if err := backend.StartEventLog(eventCtx); err != nil {
		logging.Logger.Warn("event log subscription failed", "error", err)
	}

	app := fiber.New(fiber.Config{
		BodyLimit: int(cfg.MaxFileSize) + 1024*1024,
	})
	app.Use(middleware.Logger())
	app.Use(middleware.CORS())

	routes.RegisterDocumentRoutes(app, backend.Handlers.DocHandler)
	routes.RegisterQARoutes(app, backend.Handlers.QAHandler)
	routes.RegisterHealthRoutes(app, backend.Handlers.HealthHandler)

	port := cfg.HttpPort
	if port == "" {
		port = "3000"
	}

	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
		<-quit
		logging.Logger.Info("shutting down")
		stopEvents()
		if err := app.Shutdown(); err != nil {
			logging.Logger.Error("fail app.Shutdown", "error", err)
		}
		if err := backend.Shutdown(); err != nil {
			logging.Logger.Error("fail backend.Shutdown", "error", err)
		}
	}()

	logging.Logger.Info("server running", "port", port)
	if err := app.Listen(":" + port); err != nil {
		log.Fatal(err)
	}
}
