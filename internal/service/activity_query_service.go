package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/talentforge/crm-api/internal/dto"
	"github.com/talentforge/crm-api/internal/models"
	"github.com/talentforge/crm-api/internal/observability"
	"github.com/talentforge/crm-api/internal/repository"
)

// ActivityService is the read surface over the audit trail, plus the entry
// point for ad-hoc user-recorded events.
type ActivityService interface {
	ListForSubject(ctx context.Context, subject models.EntityRef, req dto.ActivityListRequest) (dto.ActivityListResponse, error)
	Recent(ctx context.Context, limit int) ([]dto.ActivityResponse, error)
	TypeCounts(ctx context.Context, subject models.EntityRef) (dto.ActivityCountsResponse, error)
	Summary(ctx context.Context) (dto.ActivitySummaryResponse, error)
	RecordCustom(ctx context.Context, actor models.Actor, subject models.EntityRef, req dto.CustomActivityRequest) (dto.ActivityResponse, error)
}

type activityService struct {
	repo      repository.ActivityRepository
	recorder  AuditRecorder
	cache     *redis.Client
	ttl       time.Duration
	validator *validator.Validate
	logger    zerolog.Logger
}

// NewActivityService constructs the activity read service. The cache client
// may be nil; lookups then always hit the store.
func NewActivityService(repo repository.ActivityRepository, recorder AuditRecorder, cache *redis.Client, ttl time.Duration, logger zerolog.Logger) ActivityService {
	if ttl <= 0 {
		ttl = 30 * time.Second
	}
	return &activityService{
		repo:      repo,
		recorder:  recorder,
		cache:     cache,
		ttl:       ttl,
		validator: validator.New(),
		logger:    logger.With().Str("component", "activity_service").Logger(),
	}
}

func (s *activityService) ListForSubject(ctx context.Context, subject models.EntityRef, req dto.ActivityListRequest) (dto.ActivityListResponse, error) {
	page := maxInt(req.Page, 1)
	pageSize := clampPageSize(req.PageSize)

	records, total, err := s.repo.ListForSubject(ctx, subject, repository.ActivityFilter{
		Page:            page,
		PageSize:        pageSize,
		Type:            req.Type,
		UserID:          req.UserID,
		CreatedAfter:    req.CreatedAfter,
		CreatedBefore:   req.CreatedBefore,
		SystemGenerated: req.SystemGenerated,
	})
	if err != nil {
		return dto.ActivityListResponse{}, err
	}

	items := make([]dto.ActivityResponse, 0, len(records))
	for _, record := range records {
		items = append(items, dto.NewActivityResponse(record))
	}

	return dto.ActivityListResponse{
		Items:      items,
		Pagination: buildPagination(page, pageSize, total),
	}, nil
}

func (s *activityService) Recent(ctx context.Context, limit int) ([]dto.ActivityResponse, error) {
	start := time.Now()
	defer func() {
		observability.ActivityFeedLatency().Observe(time.Since(start).Seconds())
	}()

	if limit <= 0 || limit > 100 {
		limit = 20
	}

	cacheKey := fmt.Sprintf("activities:recent:%d", limit)
	if s.cache != nil {
		if cached, err := s.cache.Get(ctx, cacheKey).Result(); err == nil && cached != "" {
			var items []dto.ActivityResponse
			if err := json.Unmarshal([]byte(cached), &items); err == nil {
				observability.ActivityFeedRequests().WithLabelValues("hit").Inc()
				return items, nil
			}
		}
	}

	records, err := s.repo.ListRecent(ctx, limit)
	if err != nil {
		observability.ActivityFeedRequests().WithLabelValues("error").Inc()
		return nil, err
	}

	items := make([]dto.ActivityResponse, 0, len(records))
	for _, record := range records {
		items = append(items, dto.NewActivityResponse(record))
	}

	if s.cache != nil {
		if payload, err := json.Marshal(items); err == nil {
			if err := s.cache.Set(ctx, cacheKey, payload, s.ttl).Err(); err != nil {
				s.logger.Warn().Err(err).Msg("failed to cache recent activities")
			}
		}
	}

	observability.ActivityFeedRequests().WithLabelValues("miss").Inc()
	return items, nil
}

func (s *activityService) TypeCounts(ctx context.Context, subject models.EntityRef) (dto.ActivityCountsResponse, error) {
	counts, err := s.repo.CountByType(ctx, subject)
	if err != nil {
		return dto.ActivityCountsResponse{}, err
	}
	return dto.ActivityCountsResponse{Counts: counts}, nil
}

func (s *activityService) Summary(ctx context.Context) (dto.ActivitySummaryResponse, error) {
	recent, err := s.Recent(ctx, 10)
	if err != nil {
		return dto.ActivitySummaryResponse{}, err
	}

	counts, err := s.repo.CountAllByType(ctx)
	if err != nil {
		return dto.ActivitySummaryResponse{}, err
	}

	return dto.ActivitySummaryResponse{Recent: recent, Counts: counts}, nil
}

func (s *activityService) RecordCustom(ctx context.Context, actor models.Actor, subject models.EntityRef, req dto.CustomActivityRequest) (dto.ActivityResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return dto.ActivityResponse{}, err
	}

	record, err := s.recorder.Record(ctx, nil, AuditEntry{
		Subject:           subject,
		UserID:            actor.ID,
		Type:              req.Type,
		Description:       req.Description,
		Properties:        req.Properties,
		IsSystemGenerated: false,
	})
	if err != nil {
		return dto.ActivityResponse{}, err
	}
	return dto.NewActivityResponse(record), nil
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func clampPageSize(size int) int {
	if size <= 0 {
		return 25
	}
	if size > 200 {
		return 200
	}
	return size
}
