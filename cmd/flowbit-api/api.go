// Package main provides the FlowBit API server implementation.
package main

import (
	"log/slog"
	"strconv"

	"github.com/dukex/flowbit/pkg/config"
	"github.com/dukex/flowbit/pkg/services"
	"github.com/dukex/flowbit/pkg/session"
	"github.com/dukex/flowbit/pkg/web"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/cors"
	"github.com/gofiber/fiber/v3/middleware/healthcheck"
	"github.com/gofiber/fiber/v3/middleware/logger"
)

type API struct {
	logger     *slog.Logger
	executions *services.Executions
	sessions   *session.Store
	config     config.Config
	validate   *validator.Validate
}

func NewAPI(
	logger *slog.Logger,
	executions *services.Executions,
	cfg config.Config,
) *API {
	return &API{
		logger:     logger,
		executions: executions,
		sessions:   session.NewStore(),
		config:     cfg,
		validate:   validator.New(validator.WithRequiredStructEnabled()),
	}
}

func (a *API) App() *fiber.App {
	handlers := web.NewAPIHandlers(
		a.executions,
		a.sessions,
		a.validate,
		web.NewIntegrationGuide(a.config.N8n, a.config.Langflow),
	)

	app := fiber.New()
	app.Use(cors.New())
	app.Use(logger.New(logger.Config{
		DisableColors: true,
	}))

	app.Get(healthcheck.DefaultLivenessEndpoint, healthcheck.NewHealthChecker())
	app.Get(healthcheck.DefaultReadinessEndpoint, healthcheck.NewHealthChecker())

	app.Get("/", func(c fiber.Ctx) error {
		return c.SendString("FlowBit API")
	})

	api := app.Group("/api")
	api.Get("/executions", handlers.ListExecutions)
	api.Get("/executions/:id", handlers.GetExecution)
	api.Post("/trigger", handlers.TriggerWorkflow)
	api.Get("/integration-guide", handlers.IntegrationGuide)

	s := api.Group("/sessions")
	s.Post("/", handlers.CreateSession)
	s.Get("/:id", handlers.GetSession)
	s.Delete("/:id", handlers.DeleteSession)
	s.Post("/:id/folders", handlers.CreateFolder)
	s.Patch("/:id/folders/:folderId", handlers.RenameFolder)
	s.Delete("/:id/folders/:folderId", handlers.DeleteFolder)
	s.Patch("/:id/filters", handlers.UpdateFilters)
	s.Get("/:id/executions", handlers.SessionExecutions)

	app.Get("/health", handlers.HealthCheck)

	return app
}

func (a *API) Start(port int) error {
	app := a.App()

	a.logger.Info("Starting FlowBit API", "port", port)

	return app.Listen(":" + strconv.Itoa(port))
}
