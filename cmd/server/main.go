// Command server is the entry point for the Krok Nodes API server.
package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"kroknodes/internal/bootstrap"
	"kroknodes/internal/config"
	"kroknodes/internal/database"
	"kroknodes/internal/middleware"
	"kroknodes/internal/repository"
	"kroknodes/internal/server"

	"github.com/gofiber/fiber/v2"
	"github.com/joho/godotenv"
)

func main() {
	// .env is optional; real deployments set environment variables directly.
	_ = godotenv.Load()
	slog.SetDefault(middleware.Logger)

	cfg := config.LoadConfig()

	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	// Seed the root user and its default flow before accepting traffic.
	// A failed seed is logged but never blocks startup.
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	if err := bootstrap.EnsureRootUser(ctx,
		repository.NewUserRepository(db),
		repository.NewFlowRepository(db),
	); err != nil {
		slog.Error("bootstrap failed; continuing", "error", err)
	}
	cancel()

	srv := server.New(cfg, db)

	app := fiber.New(fiber.Config{
		AppName: "Krok Nodes API",
	})
	srv.SetupMiddleware(app)
	srv.SetupRoutes(app)

	// Graceful shutdown
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan

		log.Println("Shutting down server...")
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()

		if err := app.ShutdownWithContext(shutdownCtx); err != nil {
			log.Printf("Server shutdown error: %v", err)
		}
	}()

	log.Printf("Server starting on port %s...", cfg.Port)
	log.Fatal(app.Listen(":" + cfg.Port))
}
