package handler

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/talentforge/crm-api/internal/dto"
	"github.com/talentforge/crm-api/internal/service"
	"github.com/talentforge/crm-api/internal/utils"
)

// ApplicationHandler exposes candidate submission and application pipeline
// endpoints.
type ApplicationHandler struct {
	service service.ApplicationService
	logger  zerolog.Logger
}

// NewApplicationHandler constructs the handler.
func NewApplicationHandler(service service.ApplicationService, logger zerolog.Logger) *ApplicationHandler {
	return &ApplicationHandler{
		service: service,
		logger:  logger.With().Str("component", "application_handler").Logger(),
	}
}

// RegisterPublic attaches the candidate-facing submission routes.
func (h *ApplicationHandler) RegisterPublic(router fiber.Router) {
	router.Post("/:id/applications", h.submit)
}

// RegisterAdmin attaches the back-office application pipeline routes.
func (h *ApplicationHandler) RegisterAdmin(router fiber.Router) {
	router.Get("", h.list)
	router.Get("/reference/:reference", h.getByReference)
	router.Get("/:id", h.get)
	router.Patch("/:id/status", h.updateStatus)
}

func (h *ApplicationHandler) submit(c *fiber.Ctx) error {
	jobID, err := parseIDParam(c)
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid job id")
	}

	var payload dto.ApplicationCreateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	resume, err := c.FormFile("resume")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "resume file is required")
	}

	application, err := h.service.Submit(c.Context(), jobID, payload, resume)
	if err != nil {
		switch {
		case isValidationError(err):
			return utils.SendError(c, fiber.StatusUnprocessableEntity, err.Error())
		case errors.Is(err, service.ErrJobNotOpen):
			return utils.SendError(c, fiber.StatusConflict, err.Error())
		case errors.Is(err, service.ErrResumeTooLarge):
			return utils.SendError(c, fiber.StatusRequestEntityTooLarge, err.Error())
		case errors.Is(err, service.ErrResumeTypeNotAllowed):
			return utils.SendError(c, fiber.StatusUnsupportedMediaType, err.Error())
		}
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to submit application")
		return sendServiceError(c, err, "failed to submit application")
	}

	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "application received", application)
}

func (h *ApplicationHandler) list(c *fiber.Ctx) error {
	page, pageSize, err := parsePagination(c)
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid pagination")
	}

	jobID, err := parseQueryUint(c, "job_id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid job id")
	}

	req := dto.ApplicationListRequest{
		Page:     page,
		PageSize: pageSize,
		JobID:    jobID,
		Status:   strings.TrimSpace(c.Query("status")),
		Email:    strings.TrimSpace(c.Query("email")),
	}

	response, err := h.service.List(c.Context(), req)
	if err != nil {
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to list applications")
		return sendServiceError(c, err, "failed to list applications")
	}

	return utils.SendSuccess(c, "applications", response)
}

func (h *ApplicationHandler) get(c *fiber.Ctx) error {
	id, err := parseIDParam(c)
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid application id")
	}

	application, err := h.service.Get(c.Context(), id)
	if err != nil {
		return sendServiceError(c, err, "failed to load application")
	}

	return utils.SendSuccess(c, "application", application)
}

func (h *ApplicationHandler) getByReference(c *fiber.Ctx) error {
	reference := strings.TrimSpace(c.Params("reference"))
	if reference == "" {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid application reference")
	}

	application, err := h.service.GetByReference(c.Context(), reference)
	if err != nil {
		return sendServiceError(c, err, "failed to load application")
	}

	return utils.SendSuccess(c, "application", application)
}

func (h *ApplicationHandler) updateStatus(c *fiber.Ctx) error {
	id, err := parseIDParam(c)
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid application id")
	}

	var payload dto.ApplicationStatusRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	application, err := h.service.UpdateStatus(c.Context(), id, payload.Status)
	if err != nil {
		if isValidationError(err) {
			return utils.SendError(c, fiber.StatusUnprocessableEntity, err.Error())
		}
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to update application status")
		return sendServiceError(c, err, "failed to update application status")
	}

	return utils.SendSuccess(c, "application status updated", application)
}
