package handler

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/talentforge/crm-api/internal/dto"
	"github.com/talentforge/crm-api/internal/service"
	"github.com/talentforge/crm-api/internal/utils"
)

// OpportunityHandler exposes opportunity CRUD and pipeline endpoints.
type OpportunityHandler struct {
	service service.OpportunityService
	logger  zerolog.Logger
}

// NewOpportunityHandler constructs the handler.
func NewOpportunityHandler(service service.OpportunityService, logger zerolog.Logger) *OpportunityHandler {
	return &OpportunityHandler{
		service: service,
		logger:  logger.With().Str("component", "opportunity_handler").Logger(),
	}
}

// Register attaches opportunity routes to the router group.
func (h *OpportunityHandler) Register(router fiber.Router) {
	router.Get("/stages", h.listStages)
	router.Get("", h.list)
	router.Post("", h.create)
	router.Get("/:id", h.get)
	router.Put("/:id", h.update)
	router.Delete("/:id", h.delete)
	router.Patch("/:id/stage", h.changeStage)
	router.Post("/:id/notes", h.addNote)
}

func (h *OpportunityHandler) list(c *fiber.Ctx) error {
	page, pageSize, err := parsePagination(c)
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid pagination")
	}

	stageID, err := parseQueryUint(c, "stage_id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid stage id")
	}
	companyID, err := parseQueryUint(c, "company_id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid company id")
	}

	req := dto.OpportunityListRequest{
		Page:      page,
		PageSize:  pageSize,
		Search:    strings.TrimSpace(c.Query("search")),
		StageID:   stageID,
		CompanyID: companyID,
	}

	response, err := h.service.List(c.Context(), req)
	if err != nil {
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to list opportunities")
		return sendServiceError(c, err, "failed to list opportunities")
	}

	return utils.SendSuccess(c, "opportunities", response)
}

func (h *OpportunityHandler) listStages(c *fiber.Ctx) error {
	stages, err := h.service.ListStages(c.Context())
	if err != nil {
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to list pipeline stages")
		return sendServiceError(c, err, "failed to list pipeline stages")
	}

	return utils.SendSuccess(c, "pipeline stages", stages)
}

func (h *OpportunityHandler) create(c *fiber.Ctx) error {
	var payload dto.OpportunityCreateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	opportunity, err := h.service.Create(c.Context(), actorFromContext(c), payload)
	if err != nil {
		if isValidationError(err) {
			return utils.SendError(c, fiber.StatusUnprocessableEntity, err.Error())
		}
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to create opportunity")
		return sendServiceError(c, err, "failed to create opportunity")
	}

	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "opportunity created", opportunity)
}

func (h *OpportunityHandler) get(c *fiber.Ctx) error {
	id, err := parseIDParam(c)
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid opportunity id")
	}

	opportunity, err := h.service.Get(c.Context(), id)
	if err != nil {
		return sendServiceError(c, err, "failed to load opportunity")
	}

	return utils.SendSuccess(c, "opportunity", opportunity)
}

func (h *OpportunityHandler) update(c *fiber.Ctx) error {
	id, err := parseIDParam(c)
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid opportunity id")
	}

	var payload dto.OpportunityUpdateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	opportunity, err := h.service.Update(c.Context(), actorFromContext(c), id, payload)
	if err != nil {
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to update opportunity")
		return sendServiceError(c, err, "failed to update opportunity")
	}

	return utils.SendSuccess(c, "opportunity updated", opportunity)
}

func (h *OpportunityHandler) delete(c *fiber.Ctx) error {
	id, err := parseIDParam(c)
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid opportunity id")
	}

	if err := h.service.Delete(c.Context(), actorFromContext(c), id); err != nil {
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to delete opportunity")
		return sendServiceError(c, err, "failed to delete opportunity")
	}

	return utils.SendSuccess(c, "opportunity deleted", nil)
}

func (h *OpportunityHandler) changeStage(c *fiber.Ctx) error {
	id, err := parseIDParam(c)
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid opportunity id")
	}

	var payload dto.OpportunityStageRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	opportunity, err := h.service.ChangeStage(c.Context(), actorFromContext(c), id, payload.StageID)
	if err != nil {
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to move opportunity stage")
		return sendServiceError(c, err, "failed to move opportunity stage")
	}

	return utils.SendSuccess(c, "opportunity stage updated", opportunity)
}

func (h *OpportunityHandler) addNote(c *fiber.Ctx) error {
	id, err := parseIDParam(c)
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid opportunity id")
	}

	var payload dto.NoteRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	note, err := h.service.AddNote(c.Context(), actorFromContext(c), id, payload.Text)
	if err != nil {
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to add opportunity note")
		return sendServiceError(c, err, "failed to add opportunity note")
	}

	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "note added", note)
}
