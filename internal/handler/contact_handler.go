package handler

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/talentforge/crm-api/internal/dto"
	"github.com/talentforge/crm-api/internal/service"
	"github.com/talentforge/crm-api/internal/utils"
)

// ContactHandler exposes contact CRUD endpoints.
type ContactHandler struct {
	service service.ContactService
	logger  zerolog.Logger
}

// NewContactHandler constructs the handler.
func NewContactHandler(service service.ContactService, logger zerolog.Logger) *ContactHandler {
	return &ContactHandler{
		service: service,
		logger:  logger.With().Str("component", "contact_handler").Logger(),
	}
}

// Register attaches contact routes to the router group.
func (h *ContactHandler) Register(router fiber.Router) {
	router.Get("", h.list)
	router.Post("", h.create)
	router.Get("/:id", h.get)
	router.Put("/:id", h.update)
	router.Delete("/:id", h.delete)
	router.Post("/:id/notes", h.addNote)
}

func (h *ContactHandler) list(c *fiber.Ctx) error {
	page, pageSize, err := parsePagination(c)
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid pagination")
	}

	companyID, err := parseQueryUint(c, "company_id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid company id")
	}

	req := dto.ContactListRequest{
		Page:      page,
		PageSize:  pageSize,
		Search:    strings.TrimSpace(c.Query("search")),
		CompanyID: companyID,
	}

	response, err := h.service.List(c.Context(), req)
	if err != nil {
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to list contacts")
		return sendServiceError(c, err, "failed to list contacts")
	}

	return utils.SendSuccess(c, "contacts", response)
}

func (h *ContactHandler) create(c *fiber.Ctx) error {
	var payload dto.ContactCreateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	contact, err := h.service.Create(c.Context(), actorFromContext(c), payload)
	if err != nil {
		if isValidationError(err) {
			return utils.SendError(c, fiber.StatusUnprocessableEntity, err.Error())
		}
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to create contact")
		return sendServiceError(c, err, "failed to create contact")
	}

	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "contact created", contact)
}

func (h *ContactHandler) get(c *fiber.Ctx) error {
	id, err := parseIDParam(c)
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid contact id")
	}

	contact, err := h.service.Get(c.Context(), id)
	if err != nil {
		return sendServiceError(c, err, "failed to load contact")
	}

	return utils.SendSuccess(c, "contact", contact)
}

func (h *ContactHandler) update(c *fiber.Ctx) error {
	id, err := parseIDParam(c)
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid contact id")
	}

	var payload dto.ContactUpdateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	contact, err := h.service.Update(c.Context(), actorFromContext(c), id, payload)
	if err != nil {
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to update contact")
		return sendServiceError(c, err, "failed to update contact")
	}

	return utils.SendSuccess(c, "contact updated", contact)
}

func (h *ContactHandler) delete(c *fiber.Ctx) error {
	id, err := parseIDParam(c)
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid contact id")
	}

	if err := h.service.Delete(c.Context(), actorFromContext(c), id); err != nil {
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to delete contact")
		return sendServiceError(c, err, "failed to delete contact")
	}

	return utils.SendSuccess(c, "contact deleted", nil)
}

func (h *ContactHandler) addNote(c *fiber.Ctx) error {
	id, err := parseIDParam(c)
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid contact id")
	}

	var payload dto.NoteRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	note, err := h.service.AddNote(c.Context(), actorFromContext(c), id, payload.Text)
	if err != nil {
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to add contact note")
		return sendServiceError(c, err, "failed to add contact note")
	}

	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "note added", note)
}
