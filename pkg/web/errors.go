package web

import (
	"errors"

	"github.com/dukex/flowbit/pkg/engines"
	"github.com/dukex/flowbit/pkg/services"
	"github.com/dukex/flowbit/pkg/session"
	"github.com/gofiber/fiber/v3"
	"github.com/moogar0880/problems"
)

func badRequest(c fiber.Ctx, detail string) error {
	problem := problems.NewStatusProblem(400).
		WithInstance(c.Path()).
		WithType("validation_error").
		WithDetail(detail)

	return c.Status(fiber.StatusBadRequest).JSON(problem)
}

func notFound(c fiber.Ctx, problemType, detail string) error {
	problem := problems.NewStatusProblem(404).
		WithInstance(c.Path()).
		WithType(problemType).
		WithDetail(detail)

	return c.Status(fiber.StatusNotFound).JSON(problem)
}

func internalError(c fiber.Ctx, err error) error {
	problem := problems.NewStatusProblem(500).
		WithInstance(c.Path()).
		WithType("internal_error").
		WithError(err)

	return c.Status(fiber.StatusInternalServerError).JSON(problem)
}

// handleServiceError provides typed error handling for service layer errors.
func handleServiceError(c fiber.Ctx, err error) error {
	switch {
	case services.IsValidationError(err), session.IsValidationError(err):
		var serviceErr *services.ServiceError
		if errors.As(err, &serviceErr) && serviceErr.Message != "" {
			return badRequest(c, serviceErr.Message)
		}

		return badRequest(c, err.Error())

	case engines.IsExecutionNotFound(err):
		return notFound(c, "execution_not_found", "Execution not found")

	case errors.Is(err, session.ErrSessionNotFound):
		return notFound(c, "session_not_found", "session not found")

	case errors.Is(err, session.ErrFolderNotFound):
		return notFound(c, "folder_not_found", "folder not found")

	case session.IsConflictError(err):
		problem := problems.NewStatusProblem(409).
			WithInstance(c.Path()).
			WithType("conflict").
			WithDetail(err.Error())

		return c.Status(fiber.StatusConflict).JSON(problem)

	default:
		return internalError(c, err)
	}
}
