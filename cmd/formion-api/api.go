// Package main provides the Formion API server implementation.
package main

import (
	"log/slog"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/cors"
	"github.com/gofiber/fiber/v3/middleware/healthcheck"
	"github.com/gofiber/fiber/v3/middleware/logger"

	"github.com/formion/formion/pkg/eventbus"
	"github.com/formion/formion/pkg/persistence"
	"github.com/formion/formion/pkg/services"
	"github.com/formion/formion/pkg/web"
)

type API struct {
	logger      *slog.Logger
	persistence persistence.Persistence
	eventBus    eventbus.EventBus
	validate    *validator.Validate
}

func NewAPI(
	logger *slog.Logger,
	persistence persistence.Persistence,
	eventBus eventbus.EventBus,
) *API {
	return &API{
		logger:      logger,
		persistence: persistence,
		eventBus:    eventBus,
		validate:    validator.New(validator.WithRequiredStructEnabled()),
	}
}

func (a *API) App() *fiber.App {
	formService := services.NewForm(a.persistence, a.eventBus)
	submissionService := services.NewSubmission(a.persistence, a.eventBus)

	handlers := web.NewAPIHandlers(formService, submissionService, a.validate)

	app := fiber.New()
	app.Use(cors.New())
	app.Use(logger.New(logger.Config{
		DisableColors: true,
	}))

	app.Get(healthcheck.DefaultLivenessEndpoint, healthcheck.NewHealthChecker())
	app.Get(healthcheck.DefaultReadinessEndpoint, healthcheck.NewHealthChecker())

	app.Get("/", func(c fiber.Ctx) error {
		return c.SendString("Formion API")
	})

	app.Get("/field-types", handlers.GetFieldTypes)

	f := app.Group("/forms")
	f.Get("/", handlers.GetForms)
	f.Post("/", handlers.CreateForm)
	f.Post("/import", handlers.ImportForm)
	f.Get("/:id", handlers.GetForm)
	f.Patch("/:id", handlers.UpdateForm)
	f.Delete("/:id", handlers.DeleteForm)
	f.Post("/:id/publish", handlers.PublishForm)
	f.Post("/:id/unpublish", handlers.UnpublishForm)
	f.Get("/:id/submissions", handlers.GetFormSubmissions)

	// Public endpoints for the anonymous fill-in flow:
	p := app.Group("/public/:tenant")
	p.Get("/forms/:id", handlers.GetPublicForm)
	p.Post("/forms/:id/submissions", handlers.SubmitPublicForm)
	p.Get("/submissions/:id/status", handlers.GetSubmissionStatus)

	app.Get("/health", handlers.HealthCheck)

	return app
}

func (a *API) Start(port int) error {
	app := a.App()

	err := app.Listen(":" + strconv.Itoa(port))

	return err
}
