// Package server contains the HTTP surface of the Krok Nodes API.
package server

import (
	"kroknodes/internal/config"
	"kroknodes/internal/middleware"
	"kroknodes/internal/repository"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"gorm.io/gorm"
)

// Server holds all dependencies and provides handlers
type Server struct {
	config   *config.Config
	db       *gorm.DB
	userRepo repository.UserRepository
	flowRepo repository.FlowRepository
}

// New creates a server instance over an already-connected database.
func New(cfg *config.Config, db *gorm.DB) *Server {
	return &Server{
		config:   cfg,
		db:       db,
		userRepo: repository.NewUserRepository(db),
		flowRepo: repository.NewFlowRepository(db),
	}
}

// SetupMiddleware configures middleware for the Fiber app
func (s *Server) SetupMiddleware(app *fiber.App) {
	// Request ID for tracing
	app.Use(requestid.New())

	// Structured logging middleware
	app.Use(middleware.StructuredLogger())

	// CORS for the local frontend dev servers
	origins := s.config.AllowedOrigins
	if origins == "" {
		origins = "http://localhost:3000,http://localhost:5173"
	}

	app.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		AllowCredentials: true,
	}))
}

// SetupRoutes configures all routes for the application
func (s *Server) SetupRoutes(app *fiber.App) {
	app.Get("/", s.Root)
	app.Get("/health", s.HealthCheck)

	api := app.Group("/api/v1")

	users := api.Group("/users")
	users.Get("/", s.ListUsers)
	users.Post("/", s.CreateUser)
	users.Post("/get-or-create", s.GetOrCreateUser)
	users.Get("/:id", s.GetUser)
	users.Put("/:id", s.UpdateUser)
	users.Delete("/:id", s.DeleteUser)

	flows := api.Group("/flows")
	flows.Get("/", s.ListFlows)
	flows.Post("/", s.CreateFlow)
	flows.Post("/create-default/:user_id", s.CreateDefaultFlow)
	flows.Get("/:flow_id", s.GetFlow)
	flows.Put("/:flow_id", s.UpdateFlow)
	flows.Delete("/:flow_id", s.DeleteFlow)
}

// Root handles GET /
func (s *Server) Root(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"message": "Krok Nodes API"})
}

// HealthCheck handles GET /health
func (s *Server) HealthCheck(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "healthy"})
}
