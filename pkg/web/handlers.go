// Package web provides HTTP handlers and REST API endpoints for the executions dashboard.
package web

import (
	"net/http"
	"time"

	"github.com/dukex/flowbit/pkg/services"
	"github.com/dukex/flowbit/pkg/session"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"
)

const missingTriggerFields = "Missing workflowId or engine"

type APIHandlers struct {
	executionsService *services.Executions
	sessions          *session.Store
	validator         *validator.Validate
	guide             IntegrationGuide
}

func NewAPIHandlers(
	executionsService *services.Executions,
	sessions *session.Store,
	validator *validator.Validate,
	guide IntegrationGuide,
) *APIHandlers {
	return &APIHandlers{
		executionsService: executionsService,
		sessions:          sessions,
		validator:         validator,
		guide:             guide,
	}
}

func (h *APIHandlers) ListExecutions(c fiber.Ctx) error {
	return c.JSON(h.executionsService.List(c.Context()))
}

func (h *APIHandlers) GetExecution(c fiber.Ctx) error {
	detail, err := h.executionsService.Detail(c.Context(), c.Params("id"), c.Query("engine"))
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.JSON(detail)
}

func (h *APIHandlers) TriggerWorkflow(c fiber.Ctx) error {
	var req TriggerWorkflowRequest
	if err := c.Bind().JSON(&req); err != nil {
		return badRequest(c, "Invalid JSON format")
	}

	if err := h.validator.Struct(req); err != nil {
		return badRequest(c, missingTriggerFields)
	}

	result, err := h.executionsService.Trigger(c.Context(), services.TriggerRequest{
		WorkflowID: string(req.WorkflowID),
		Engine:     req.Engine,
	})
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.JSON(result)
}

func (h *APIHandlers) IntegrationGuide(c fiber.Ctx) error {
	return c.JSON(h.guide)
}

func (h *APIHandlers) HealthCheck(c fiber.Ctx) error {
	status := "healthy"
	message := "FlowBit API is healthy"

	engines := "configured"
	if !h.executionsService.Configured() {
		engines = "using mock data"
	}

	return c.Status(http.StatusOK).JSON(fiber.Map{
		"status":  status,
		"message": message,
		"checkers": fiber.Map{
			"engines": engines,
		},
		"timestamp": time.Now().UTC(),
	})
}

func (h *APIHandlers) CreateSession(c fiber.Ctx) error {
	return c.Status(fiber.StatusCreated).JSON(h.sessions.Create())
}

func (h *APIHandlers) GetSession(c fiber.Ctx) error {
	current, err := h.sessions.Get(c.Params("id"))
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.JSON(current)
}

func (h *APIHandlers) DeleteSession(c fiber.Ctx) error {
	if err := h.sessions.Delete(c.Params("id")); err != nil {
		return handleServiceError(c, err)
	}

	return c.SendStatus(fiber.StatusNoContent)
}

func (h *APIHandlers) CreateFolder(c fiber.Ctx) error {
	var req FolderRequest
	if err := c.Bind().JSON(&req); err != nil {
		return badRequest(c, "Invalid JSON format")
	}

	if err := h.validator.Struct(req); err != nil {
		return badRequest(c, err.Error())
	}

	folder, err := h.sessions.CreateFolder(c.Params("id"), req.Name)
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(folder)
}

func (h *APIHandlers) RenameFolder(c fiber.Ctx) error {
	var req FolderRequest
	if err := c.Bind().JSON(&req); err != nil {
		return badRequest(c, "Invalid JSON format")
	}

	if err := h.validator.Struct(req); err != nil {
		return badRequest(c, err.Error())
	}

	folder, err := h.sessions.RenameFolder(c.Params("id"), c.Params("folderId"), req.Name)
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.JSON(folder)
}

func (h *APIHandlers) DeleteFolder(c fiber.Ctx) error {
	if err := h.sessions.DeleteFolder(c.Params("id"), c.Params("folderId")); err != nil {
		return handleServiceError(c, err)
	}

	return c.SendStatus(fiber.StatusNoContent)
}

func (h *APIHandlers) UpdateFilters(c fiber.Ctx) error {
	var req UpdateFiltersRequest
	if err := c.Bind().JSON(&req); err != nil {
		return badRequest(c, "Invalid JSON format")
	}

	if err := h.validator.Struct(req); err != nil {
		return badRequest(c, err.Error())
	}

	updated, err := h.sessions.UpdateFilters(c.Params("id"), req.toUpdate())
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.JSON(updated)
}

// SessionExecutions returns the aggregated feed filtered and paginated by the session's state.
func (h *APIHandlers) SessionExecutions(c fiber.Ctx) error {
	current, err := h.sessions.Get(c.Params("id"))
	if err != nil {
		return handleServiceError(c, err)
	}

	list := h.executionsService.List(c.Context())

	return c.JSON(SessionExecutionsResponse{
		View:          current.Apply(list.Executions),
		UsingMockData: list.UsingMockData,
		Message:       list.Message,
	})
}
