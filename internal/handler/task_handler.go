package handler

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/talentforge/crm-api/internal/dto"
	"github.com/talentforge/crm-api/internal/service"
	"github.com/talentforge/crm-api/internal/utils"
)

// TaskHandler exposes task CRUD and completion endpoints.
type TaskHandler struct {
	service service.TaskService
	logger  zerolog.Logger
}

// NewTaskHandler constructs the handler.
func NewTaskHandler(service service.TaskService, logger zerolog.Logger) *TaskHandler {
	return &TaskHandler{
		service: service,
		logger:  logger.With().Str("component", "task_handler").Logger(),
	}
}

// Register attaches task routes to the router group.
func (h *TaskHandler) Register(router fiber.Router) {
	router.Get("", h.list)
	router.Post("", h.create)
	router.Get("/:id", h.get)
	router.Put("/:id", h.update)
	router.Delete("/:id", h.delete)
	router.Post("/:id/complete", h.complete)
	router.Post("/:id/notes", h.addNote)
}

func (h *TaskHandler) list(c *fiber.Ctx) error {
	page, pageSize, err := parsePagination(c)
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid pagination")
	}

	companyID, err := parseQueryUint(c, "company_id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid company id")
	}
	contactID, err := parseQueryUint(c, "contact_id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid contact id")
	}
	opportunityID, err := parseQueryUint(c, "opportunity_id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid opportunity id")
	}

	req := dto.TaskListRequest{
		Page:          page,
		PageSize:      pageSize,
		Search:        strings.TrimSpace(c.Query("search")),
		Status:        strings.TrimSpace(c.Query("status")),
		CompanyID:     companyID,
		ContactID:     contactID,
		OpportunityID: opportunityID,
	}

	response, err := h.service.List(c.Context(), req)
	if err != nil {
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to list tasks")
		return sendServiceError(c, err, "failed to list tasks")
	}

	return utils.SendSuccess(c, "tasks", response)
}

func (h *TaskHandler) create(c *fiber.Ctx) error {
	var payload dto.TaskCreateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	task, err := h.service.Create(c.Context(), actorFromContext(c), payload)
	if err != nil {
		if isValidationError(err) {
			return utils.SendError(c, fiber.StatusUnprocessableEntity, err.Error())
		}
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to create task")
		return sendServiceError(c, err, "failed to create task")
	}

	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "task created", task)
}

func (h *TaskHandler) get(c *fiber.Ctx) error {
	id, err := parseIDParam(c)
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid task id")
	}

	task, err := h.service.Get(c.Context(), id)
	if err != nil {
		return sendServiceError(c, err, "failed to load task")
	}

	return utils.SendSuccess(c, "task", task)
}

func (h *TaskHandler) update(c *fiber.Ctx) error {
	id, err := parseIDParam(c)
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid task id")
	}

	var payload dto.TaskUpdateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	task, err := h.service.Update(c.Context(), actorFromContext(c), id, payload)
	if err != nil {
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to update task")
		return sendServiceError(c, err, "failed to update task")
	}

	return utils.SendSuccess(c, "task updated", task)
}

func (h *TaskHandler) delete(c *fiber.Ctx) error {
	id, err := parseIDParam(c)
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid task id")
	}

	if err := h.service.Delete(c.Context(), actorFromContext(c), id); err != nil {
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to delete task")
		return sendServiceError(c, err, "failed to delete task")
	}

	return utils.SendSuccess(c, "task deleted", nil)
}

func (h *TaskHandler) complete(c *fiber.Ctx) error {
	id, err := parseIDParam(c)
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid task id")
	}

	task, err := h.service.Complete(c.Context(), actorFromContext(c), id)
	if err != nil {
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to complete task")
		return sendServiceError(c, err, "failed to complete task")
	}

	return utils.SendSuccess(c, "task completed", task)
}

func (h *TaskHandler) addNote(c *fiber.Ctx) error {
	id, err := parseIDParam(c)
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid task id")
	}

	var payload dto.NoteRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	note, err := h.service.AddNote(c.Context(), actorFromContext(c), id, payload.Text)
	if err != nil {
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to add task note")
		return sendServiceError(c, err, "failed to add task note")
	}

	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "note added", note)
}
