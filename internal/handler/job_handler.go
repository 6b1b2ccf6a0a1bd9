package handler

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/talentforge/crm-api/internal/dto"
	"github.com/talentforge/crm-api/internal/service"
	"github.com/talentforge/crm-api/internal/utils"
)

// JobHandler exposes job board endpoints. RegisterPublic serves the
// candidate-facing listing; RegisterAdmin serves posting management.
type JobHandler struct {
	service service.JobService
	logger  zerolog.Logger
}

// NewJobHandler constructs the handler.
func NewJobHandler(service service.JobService, logger zerolog.Logger) *JobHandler {
	return &JobHandler{
		service: service,
		logger:  logger.With().Str("component", "job_handler").Logger(),
	}
}

// RegisterPublic attaches the candidate-facing routes.
func (h *JobHandler) RegisterPublic(router fiber.Router) {
	router.Get("/categories", h.listCategories)
	router.Get("", h.listPublished)
	router.Get("/:slug", h.getBySlug)
}

// RegisterAdmin attaches the posting-management routes.
func (h *JobHandler) RegisterAdmin(router fiber.Router) {
	router.Get("", h.list)
	router.Post("", h.create)
	router.Post("/categories", h.createCategory)
	router.Get("/:id", h.get)
	router.Put("/:id", h.update)
	router.Delete("/:id", h.delete)
}

func (h *JobHandler) listPublished(c *fiber.Ctx) error {
	req, err := h.listRequest(c)
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}
	req.PublishedOnly = true

	response, err := h.service.List(c.Context(), req)
	if err != nil {
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to list jobs")
		return sendServiceError(c, err, "failed to list jobs")
	}

	return utils.SendSuccess(c, "jobs", response)
}

func (h *JobHandler) list(c *fiber.Ctx) error {
	req, err := h.listRequest(c)
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	response, err := h.service.List(c.Context(), req)
	if err != nil {
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to list jobs")
		return sendServiceError(c, err, "failed to list jobs")
	}

	return utils.SendSuccess(c, "jobs", response)
}

func (h *JobHandler) listRequest(c *fiber.Ctx) (dto.JobListRequest, error) {
	page, pageSize, err := parsePagination(c)
	if err != nil {
		return dto.JobListRequest{}, err
	}

	categoryID, err := parseQueryUint(c, "category_id")
	if err != nil {
		return dto.JobListRequest{}, err
	}

	return dto.JobListRequest{
		Page:       page,
		PageSize:   pageSize,
		Search:     strings.TrimSpace(c.Query("search")),
		CategoryID: categoryID,
		Location:   strings.TrimSpace(c.Query("location")),
	}, nil
}

func (h *JobHandler) getBySlug(c *fiber.Ctx) error {
	slug := strings.TrimSpace(c.Params("slug"))
	if slug == "" {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid job slug")
	}

	job, err := h.service.GetBySlug(c.Context(), slug)
	if err != nil {
		return sendServiceError(c, err, "failed to load job")
	}

	return utils.SendSuccess(c, "job", job)
}

func (h *JobHandler) get(c *fiber.Ctx) error {
	id, err := parseIDParam(c)
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid job id")
	}

	job, err := h.service.Get(c.Context(), id)
	if err != nil {
		return sendServiceError(c, err, "failed to load job")
	}

	return utils.SendSuccess(c, "job", job)
}

func (h *JobHandler) create(c *fiber.Ctx) error {
	var payload dto.JobCreateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	job, err := h.service.Create(c.Context(), payload)
	if err != nil {
		if isValidationError(err) {
			return utils.SendError(c, fiber.StatusUnprocessableEntity, err.Error())
		}
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to create job")
		return sendServiceError(c, err, "failed to create job")
	}

	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "job created", job)
}

func (h *JobHandler) update(c *fiber.Ctx) error {
	id, err := parseIDParam(c)
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid job id")
	}

	var payload dto.JobUpdateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	job, err := h.service.Update(c.Context(), id, payload)
	if err != nil {
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to update job")
		return sendServiceError(c, err, "failed to update job")
	}

	return utils.SendSuccess(c, "job updated", job)
}

func (h *JobHandler) delete(c *fiber.Ctx) error {
	id, err := parseIDParam(c)
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid job id")
	}

	if err := h.service.Delete(c.Context(), id); err != nil {
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to delete job")
		return sendServiceError(c, err, "failed to delete job")
	}

	return utils.SendSuccess(c, "job deleted", nil)
}

func (h *JobHandler) createCategory(c *fiber.Ctx) error {
	var payload dto.JobCategoryRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	category, err := h.service.CreateCategory(c.Context(), payload)
	if err != nil {
		if isValidationError(err) {
			return utils.SendError(c, fiber.StatusUnprocessableEntity, err.Error())
		}
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to create job category")
		return sendServiceError(c, err, "failed to create job category")
	}

	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "job category created", category)
}

func (h *JobHandler) listCategories(c *fiber.Ctx) error {
	categories, err := h.service.ListCategories(c.Context())
	if err != nil {
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to list job categories")
		return sendServiceError(c, err, "failed to list job categories")
	}

	return utils.SendSuccess(c, "job categories", categories)
}
