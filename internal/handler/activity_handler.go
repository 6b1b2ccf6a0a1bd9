package handler

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/talentforge/crm-api/internal/dto"
	"github.com/talentforge/crm-api/internal/service"
	"github.com/talentforge/crm-api/internal/utils"
)

// ActivityHandler exposes the audit trail read endpoints plus ad-hoc
// activity recording.
type ActivityHandler struct {
	service service.ActivityService
	logger  zerolog.Logger
}

// NewActivityHandler constructs the handler.
func NewActivityHandler(service service.ActivityService, logger zerolog.Logger) *ActivityHandler {
	return &ActivityHandler{
		service: service,
		logger:  logger.With().Str("component", "activity_handler").Logger(),
	}
}

// Register attaches activity routes to the router group.
func (h *ActivityHandler) Register(router fiber.Router) {
	router.Get("/recent", h.recent)
	router.Get("/summary", h.summary)
	router.Get("/:kind/:id", h.listForSubject)
	router.Get("/:kind/:id/counts", h.counts)
	router.Post("/:kind/:id", h.recordCustom)
}

// RegisterDashboard attaches the dashboard summary route.
func (h *ActivityHandler) RegisterDashboard(router fiber.Router) {
	router.Get("/activity-summary", h.summary)
}

func (h *ActivityHandler) listForSubject(c *fiber.Ctx) error {
	subject, err := subjectFromParams(c)
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	page, pageSize, err := parsePagination(c)
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid pagination")
	}

	userID, err := parseQueryUint(c, "user_id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid user id")
	}
	createdAfter, err := parseQueryTime(c, "created_after")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid created_after timestamp")
	}
	createdBefore, err := parseQueryTime(c, "created_before")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid created_before timestamp")
	}

	req := dto.ActivityListRequest{
		Page:          page,
		PageSize:      pageSize,
		Type:          strings.TrimSpace(c.Query("type")),
		UserID:        userID,
		CreatedAfter:  createdAfter,
		CreatedBefore: createdBefore,
	}
	if raw := strings.TrimSpace(c.Query("system_generated")); raw != "" {
		system := raw == "true" || raw == "1"
		req.SystemGenerated = &system
	}

	response, err := h.service.ListForSubject(c.Context(), subject, req)
	if err != nil {
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to list activities")
		return sendServiceError(c, err, "failed to list activities")
	}

	return utils.SendSuccess(c, "activities", response)
}

func (h *ActivityHandler) recent(c *fiber.Ctx) error {
	limit, err := parseQueryInt(c, "limit")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid limit")
	}

	items, err := h.service.Recent(c.Context(), limit)
	if err != nil {
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to load recent activities")
		return sendServiceError(c, err, "failed to load recent activities")
	}

	return utils.SendSuccess(c, "recent activities", items)
}

func (h *ActivityHandler) counts(c *fiber.Ctx) error {
	subject, err := subjectFromParams(c)
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	response, err := h.service.TypeCounts(c.Context(), subject)
	if err != nil {
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to count activities")
		return sendServiceError(c, err, "failed to count activities")
	}

	return utils.SendSuccess(c, "activity counts", response)
}

func (h *ActivityHandler) summary(c *fiber.Ctx) error {
	response, err := h.service.Summary(c.Context())
	if err != nil {
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to build activity summary")
		return sendServiceError(c, err, "failed to build activity summary")
	}

	return utils.SendSuccess(c, "activity summary", response)
}

func (h *ActivityHandler) recordCustom(c *fiber.Ctx) error {
	subject, err := subjectFromParams(c)
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	var payload dto.CustomActivityRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	actor := actorFromContext(c)
	record, err := h.service.RecordCustom(c.Context(), actor, subject, payload)
	if err != nil {
		if isValidationError(err) {
			return utils.SendError(c, fiber.StatusUnprocessableEntity, err.Error())
		}
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to record activity")
		return sendServiceError(c, err, "failed to record activity")
	}

	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "activity recorded", record)
}
