package handler

import (
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/talentforge/crm-api/internal/middleware"
	"github.com/talentforge/crm-api/internal/models"
	"github.com/talentforge/crm-api/internal/utils"
)

func parseQueryInt(c *fiber.Ctx, key string) (int, error) {
	value := strings.TrimSpace(c.Query(key))
	if value == "" {
		return 0, nil
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return 0, err
	}
	return parsed, nil
}

func parseQueryUint(c *fiber.Ctx, key string) (*uint, error) {
	value := strings.TrimSpace(c.Query(key))
	if value == "" {
		return nil, nil
	}
	parsed, err := strconv.ParseUint(value, 10, 32)
	if err != nil {
		return nil, err
	}
	id := uint(parsed)
	return &id, nil
}

func parseQueryTime(c *fiber.Ctx, key string) (*time.Time, error) {
	value := strings.TrimSpace(c.Query(key))
	if value == "" {
		return nil, nil
	}
	parsed, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return nil, err
	}
	return &parsed, nil
}

func parseIDParam(c *fiber.Ctx) (uint, error) {
	raw := c.Params("id")
	parsed, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || parsed == 0 {
		return 0, errors.New("invalid id")
	}
	return uint(parsed), nil
}

// subjectFromParams resolves the :kind/:id route segments into an entity
// reference, rejecting unknown kinds.
func subjectFromParams(c *fiber.Ctx) (models.EntityRef, error) {
	kind, err := models.ParseEntityKind(c.Params("kind"))
	if err != nil {
		return models.EntityRef{}, err
	}
	id, err := parseIDParam(c)
	if err != nil {
		return models.EntityRef{}, err
	}
	return models.EntityRef{Kind: kind, ID: id}, nil
}

func parsePagination(c *fiber.Ctx) (page, pageSize int, err error) {
	page, err = parseQueryInt(c, "page")
	if err != nil {
		return 0, 0, err
	}
	if page <= 0 {
		page = 1
	}

	pageSize, err = parseQueryInt(c, "page_size")
	if err != nil {
		return 0, 0, err
	}
	if pageSize <= 0 {
		pageSize = 25
	} else if pageSize > 200 {
		pageSize = 200
	}

	return page, pageSize, nil
}

// actorFromContext resolves the acting user set by the auth middleware,
// falling back to the system identity for unauthenticated calls.
func actorFromContext(c *fiber.Ctx) models.Actor {
	actor := models.SystemActor()
	if v := c.Locals("user_id"); v != nil {
		if id, ok := v.(uint); ok {
			actor.ID = id
		}
	}
	if v := c.Locals("user_name"); v != nil {
		if name, ok := v.(string); ok && name != "" {
			actor.Name = name
		}
	}
	return actor
}

func requestLogger(base zerolog.Logger, c *fiber.Ctx) *zerolog.Logger {
	logger := base
	if c != nil {
		if correlation := middleware.GetCorrelationID(c); correlation != "" {
			logger = base.With().Str("correlation_id", correlation).Logger()
		}
	}
	return &logger
}

func isValidationError(err error) bool {
	var validationErrors validator.ValidationErrors
	return errors.As(err, &validationErrors)
}

// sendServiceError maps common service failures onto HTTP responses.
func sendServiceError(c *fiber.Ctx, err error, fallback string) error {
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return utils.SendError(c, fiber.StatusNotFound, "not found")
	case isValidationError(err):
		return utils.SendError(c, fiber.StatusUnprocessableEntity, err.Error())
	default:
		return utils.SendError(c, fiber.StatusInternalServerError, fallback)
	}
}
