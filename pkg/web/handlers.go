// Package web provides HTTP handlers and REST API endpoints for form management.
package web

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"

	"github.com/formion/formion/pkg/models"
	"github.com/formion/formion/pkg/persistence"
	"github.com/formion/formion/pkg/registry"
	"github.com/formion/formion/pkg/schema"
	"github.com/formion/formion/pkg/services"
)

type APIHandlers struct {
	formService       *services.Form
	submissionService *services.Submission
	validator         *validator.Validate
}

func NewAPIHandlers(
	formService *services.Form,
	submissionService *services.Submission,
	validator *validator.Validate,
) *APIHandlers {
	return &APIHandlers{
		formService:       formService,
		submissionService: submissionService,
		validator:         validator,
	}
}

// GetFieldTypes serves the builder's "add field" palette.
func (h *APIHandlers) GetFieldTypes(c fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"field_types": registry.All(),
	})
}

func (h *APIHandlers) GetForms(c fiber.Ctx) error {
	req, err := h.parseListFormsRequest(c)
	if err != nil {
		return badRequest(c, "Invalid query parameters: "+err.Error())
	}

	result, err := h.formService.ListForms(c.Context(), *req)
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.JSON(fiber.Map{
		"forms":         result.Forms,
		"total_count":   result.TotalCount,
		"has_next_page": result.HasNextPage,
		"pagination": fiber.Map{
			"limit":  req.Limit,
			"offset": req.Offset,
		},
		"sorting": fiber.Map{
			"sort_by":    req.SortBy,
			"sort_order": req.SortOrder,
		},
	})
}

// parseListFormsRequest parses and validates query parameters for listing forms.
func (h *APIHandlers) parseListFormsRequest(c fiber.Ctx) (*services.ListFormsRequest, error) {
	req := &services.ListFormsRequest{}

	if limitStr := c.Query("limit"); limitStr != "" {
		limit, err := strconv.Atoi(limitStr)
		if err != nil {
			return nil, err
		}

		req.Limit = limit
	}

	if offsetStr := c.Query("offset"); offsetStr != "" {
		offset, err := strconv.Atoi(offsetStr)
		if err != nil {
			return nil, err
		}

		req.Offset = offset
	}

	req.TenantSlug = c.Query("tenant_slug")

	if statusStr := c.Query("status"); statusStr != "" {
		status := models.FormStatus(statusStr)
		req.Status = &status
	}

	req.SortBy = c.Query("sort_by")
	req.SortOrder = c.Query("sort_order")

	return req, nil
}

func (h *APIHandlers) GetForm(c fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return badRequest(c, "Form ID is required")
	}

	form, err := h.formService.FetchByID(c.Context(), id)
	if err != nil {
		if persistence.IsFormNotFound(err) {
			return notFound(c, "Form not found")
		}

		return internalError(c, err)
	}

	return c.JSON(form)
}

func (h *APIHandlers) CreateForm(c fiber.Ctx) error {
	var req CreateFormRequest
	if err := c.Bind().JSON(&req); err != nil {
		return badRequest(c, "Invalid JSON format")
	}

	if err := h.validator.Struct(req); err != nil {
		return badRequest(c, err.Error())
	}

	created, err := h.formService.Create(c.Context(), req.TenantSlug, req.Name, req.Description)
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(created)
}

func (h *APIHandlers) UpdateForm(c fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return badRequest(c, "Form ID is required")
	}

	var req UpdateFormRequest
	if err := c.Bind().JSON(&req); err != nil {
		return badRequest(c, "Invalid JSON format")
	}

	if err := h.validator.Struct(req); err != nil {
		return badRequest(c, err.Error())
	}

	existing, err := h.formService.FetchByID(c.Context(), id)
	if err != nil {
		if persistence.IsFormNotFound(err) {
			return notFound(c, "Form not found")
		}

		return internalError(c, err)
	}

	name := existing.Name
	if req.Name != nil {
		name = *req.Name
	}

	description := existing.Description
	if req.Description != nil {
		description = *req.Description
	}

	fields := existing.Fields
	if req.Fields != nil {
		fields = *req.Fields
	}

	updated, err := h.formService.Update(c.Context(), id, name, description, fields)
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.JSON(updated)
}

func (h *APIHandlers) DeleteForm(c fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return badRequest(c, "Form ID is required")
	}

	err := h.formService.Delete(c.Context(), id)
	if err != nil {
		if persistence.IsFormNotFound(err) {
			return notFound(c, "Form not found")
		}

		return internalError(c, err)
	}

	return c.SendStatus(fiber.StatusNoContent)
}

func (h *APIHandlers) PublishForm(c fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return badRequest(c, "Form ID is required")
	}

	published, err := h.formService.Publish(c.Context(), id)
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.JSON(published)
}

func (h *APIHandlers) UnpublishForm(c fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return badRequest(c, "Form ID is required")
	}

	unpublished, err := h.formService.Unpublish(c.Context(), id)
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.JSON(unpublished)
}

// GetFormSubmissions serves the admin review list for one form, newest first.
func (h *APIHandlers) GetFormSubmissions(c fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return badRequest(c, "Form ID is required")
	}

	submissions, err := h.submissionService.ListByForm(c.Context(), id)
	if err != nil {
		if persistence.IsFormNotFound(err) {
			return notFound(c, "Form not found")
		}

		return internalError(c, err)
	}

	return c.JSON(fiber.Map{
		"submissions": submissions,
		"total_count": len(submissions),
	})
}

// ImportForm creates a whole form from an externally authored definition.
func (h *APIHandlers) ImportForm(c fiber.Ctx) error {
	var req ImportFormRequest
	if err := c.Bind().JSON(&req); err != nil {
		return badRequest(c, "Invalid JSON format")
	}

	if err := h.validator.Struct(req); err != nil {
		return badRequest(c, err.Error())
	}

	definition, fields, err := schema.Parse(req.Definition)
	if err != nil {
		return badRequest(c, err.Error())
	}

	created, err := h.formService.Create(c.Context(), req.TenantSlug, definition.Name, definition.Description)
	if err != nil {
		return handleServiceError(c, err)
	}

	if len(fields) > 0 {
		created, err = h.formService.Update(c.Context(), created.ID, definition.Name, definition.Description, fields)
		if err != nil {
			return handleServiceError(c, err)
		}
	}

	return c.Status(fiber.StatusCreated).JSON(created)
}

func (h *APIHandlers) GetPublicForm(c fiber.Ctx) error {
	tenantSlug := c.Params("tenant")
	formID := c.Params("id")

	if tenantSlug == "" || formID == "" {
		return badRequest(c, "Tenant slug and form ID are required")
	}

	form, err := h.submissionService.PublicForm(c.Context(), tenantSlug, formID)
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.JSON(TransformPublicFormResponse(form))
}

func (h *APIHandlers) SubmitPublicForm(c fiber.Ctx) error {
	tenantSlug := c.Params("tenant")
	formID := c.Params("id")

	if tenantSlug == "" || formID == "" {
		return badRequest(c, "Tenant slug and form ID are required")
	}

	var req SubmitFormRequest
	if err := c.Bind().JSON(&req); err != nil {
		return badRequest(c, "Invalid JSON format")
	}

	if err := h.validator.Struct(req); err != nil {
		return badRequest(c, err.Error())
	}

	response, err := h.submissionService.Submit(c.Context(), tenantSlug, formID, req.Answers)
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(response)
}

func (h *APIHandlers) GetSubmissionStatus(c fiber.Ctx) error {
	tenantSlug := c.Params("tenant")
	submissionID := c.Params("id")

	if tenantSlug == "" || submissionID == "" {
		return badRequest(c, "Tenant slug and submission ID are required")
	}

	status, err := h.submissionService.Status(c.Context(), tenantSlug, submissionID)
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.JSON(status)
}

func (h *APIHandlers) HealthCheck(c fiber.Ctx) error {
	repositoryCheck, repOk := h.formService.HealthCheck(c.Context())

	status := "unhealthy"
	message := "Formion API is unhealthy"
	httpStatus := http.StatusInternalServerError

	if repOk {
		status = "healthy"
		message = "Formion API is healthy"
		httpStatus = http.StatusOK
	}

	return c.Status(httpStatus).JSON(fiber.Map{
		"status":  status,
		"message": message,
		"checkers": fiber.Map{
			"repository": repositoryCheck,
		},
		"timestamp": time.Now().UTC(),
	})
}
