package handler

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/talentforge/crm-api/internal/dto"
	"github.com/talentforge/crm-api/internal/service"
	"github.com/talentforge/crm-api/internal/utils"
)

// CompanyHandler exposes company CRUD and lifecycle endpoints.
type CompanyHandler struct {
	service service.CompanyService
	logger  zerolog.Logger
}

// NewCompanyHandler constructs the handler.
func NewCompanyHandler(service service.CompanyService, logger zerolog.Logger) *CompanyHandler {
	return &CompanyHandler{
		service: service,
		logger:  logger.With().Str("component", "company_handler").Logger(),
	}
}

// Register attaches company routes to the router group.
func (h *CompanyHandler) Register(router fiber.Router) {
	router.Get("", h.list)
	router.Post("", h.create)
	router.Get("/:id", h.get)
	router.Put("/:id", h.update)
	router.Delete("/:id", h.delete)
	router.Patch("/:id/status", h.changeStatus)
	router.Post("/:id/notes", h.addNote)
}

func (h *CompanyHandler) list(c *fiber.Ctx) error {
	page, pageSize, err := parsePagination(c)
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid pagination")
	}

	req := dto.CompanyListRequest{
		Page:     page,
		PageSize: pageSize,
		Search:   strings.TrimSpace(c.Query("search")),
		Status:   strings.TrimSpace(c.Query("status")),
	}

	response, err := h.service.List(c.Context(), req)
	if err != nil {
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to list companies")
		return sendServiceError(c, err, "failed to list companies")
	}

	return utils.SendSuccess(c, "companies", response)
}

func (h *CompanyHandler) create(c *fiber.Ctx) error {
	var payload dto.CompanyCreateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	company, err := h.service.Create(c.Context(), actorFromContext(c), payload)
	if err != nil {
		if isValidationError(err) {
			return utils.SendError(c, fiber.StatusUnprocessableEntity, err.Error())
		}
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to create company")
		return sendServiceError(c, err, "failed to create company")
	}

	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "company created", company)
}

func (h *CompanyHandler) get(c *fiber.Ctx) error {
	id, err := parseIDParam(c)
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid company id")
	}

	company, err := h.service.Get(c.Context(), id)
	if err != nil {
		return sendServiceError(c, err, "failed to load company")
	}

	return utils.SendSuccess(c, "company", company)
}

func (h *CompanyHandler) update(c *fiber.Ctx) error {
	id, err := parseIDParam(c)
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid company id")
	}

	var payload dto.CompanyUpdateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	company, err := h.service.Update(c.Context(), actorFromContext(c), id, payload)
	if err != nil {
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to update company")
		return sendServiceError(c, err, "failed to update company")
	}

	return utils.SendSuccess(c, "company updated", company)
}

func (h *CompanyHandler) delete(c *fiber.Ctx) error {
	id, err := parseIDParam(c)
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid company id")
	}

	if err := h.service.Delete(c.Context(), actorFromContext(c), id); err != nil {
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to delete company")
		return sendServiceError(c, err, "failed to delete company")
	}

	return utils.SendSuccess(c, "company deleted", nil)
}

func (h *CompanyHandler) changeStatus(c *fiber.Ctx) error {
	id, err := parseIDParam(c)
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid company id")
	}

	var payload dto.CompanyStatusRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	company, err := h.service.ChangeStatus(c.Context(), actorFromContext(c), id, payload.Status)
	if err != nil {
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to change company status")
		return sendServiceError(c, err, "failed to change company status")
	}

	return utils.SendSuccess(c, "company status updated", company)
}

func (h *CompanyHandler) addNote(c *fiber.Ctx) error {
	id, err := parseIDParam(c)
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid company id")
	}

	var payload dto.NoteRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	note, err := h.service.AddNote(c.Context(), actorFromContext(c), id, payload.Text)
	if err != nil {
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to add company note")
		return sendServiceError(c, err, "failed to add company note")
	}

	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "note added", note)
}
