package service

import (
	"context"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/talentforge/crm-api/internal/dto"
	"github.com/talentforge/crm-api/internal/models"
	"github.com/talentforge/crm-api/internal/repository"
)

// OpportunityService exposes the pipeline opportunity workflow.
type OpportunityService interface {
	Create(ctx context.Context, actor models.Actor, req dto.OpportunityCreateRequest) (dto.OpportunityResponse, error)
	Get(ctx context.Context, id uint) (dto.OpportunityResponse, error)
	Update(ctx context.Context, actor models.Actor, id uint, req dto.OpportunityUpdateRequest) (dto.OpportunityResponse, error)
	Delete(ctx context.Context, actor models.Actor, id uint) error
	ChangeStage(ctx context.Context, actor models.Actor, id uint, stageID uint) (dto.OpportunityResponse, error)
	AddNote(ctx context.Context, actor models.Actor, id uint, text string) (dto.ActivityResponse, error)
	List(ctx context.Context, req dto.OpportunityListRequest) (dto.OpportunityListResponse, error)
	ListStages(ctx context.Context) ([]dto.PipelineStageResponse, error)
}

type opportunityService struct {
	db        *gorm.DB
	repo      repository.OpportunityRepository
	audit     AuditRecorder
	validator *validator.Validate
	logger    zerolog.Logger
}

// NewOpportunityService constructs the opportunity service.
func NewOpportunityService(db *gorm.DB, repo repository.OpportunityRepository, audit AuditRecorder, validate *validator.Validate, logger zerolog.Logger) OpportunityService {
	return &opportunityService{
		db:        db,
		repo:      repo,
		audit:     audit,
		validator: validate,
		logger:    logger.With().Str("component", "opportunity_service").Logger(),
	}
}

func (s *opportunityService) Create(ctx context.Context, actor models.Actor, req dto.OpportunityCreateRequest) (dto.OpportunityResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return dto.OpportunityResponse{}, err
	}

	if _, err := s.repo.GetStage(ctx, req.StageID); err != nil {
		return dto.OpportunityResponse{}, err
	}

	opportunity := models.Opportunity{
		Title:     req.Title,
		Amount:    req.Amount,
		StageID:   req.StageID,
		CompanyID: req.CompanyID,
		ContactID: req.ContactID,
	}
	if req.CloseDate != "" {
		closeDate, err := time.Parse(time.RFC3339, req.CloseDate)
		if err != nil {
			return dto.OpportunityResponse{}, err
		}
		opportunity.CloseDate = &closeDate
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.repo.WithTx(tx).Create(ctx, &opportunity); err != nil {
			return err
		}
		return s.audit.OnCreated(ctx, tx, actor, &opportunity)
	})
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to create opportunity")
		return dto.OpportunityResponse{}, err
	}

	return dto.NewOpportunityResponse(opportunity), nil
}

func (s *opportunityService) Get(ctx context.Context, id uint) (dto.OpportunityResponse, error) {
	opportunity, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return dto.OpportunityResponse{}, err
	}
	return dto.NewOpportunityResponse(*opportunity), nil
}

func (s *opportunityService) Update(ctx context.Context, actor models.Actor, id uint, req dto.OpportunityUpdateRequest) (dto.OpportunityResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return dto.OpportunityResponse{}, err
	}

	opportunity, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return dto.OpportunityResponse{}, err
	}

	before := opportunity.AuditAttributes()

	if req.Title != nil {
		opportunity.Title = *req.Title
	}
	if req.Amount != nil {
		opportunity.Amount = *req.Amount
	}
	if req.CloseDate != nil {
		closeDate, err := time.Parse(time.RFC3339, *req.CloseDate)
		if err != nil {
			return dto.OpportunityResponse{}, err
		}
		opportunity.CloseDate = &closeDate
	}
	if req.CompanyID != nil {
		opportunity.CompanyID = req.CompanyID
	}
	if req.ContactID != nil {
		opportunity.ContactID = req.ContactID
	}

	after := opportunity.AuditAttributes()

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.repo.WithTx(tx).Update(ctx, opportunity); err != nil {
			return err
		}
		_, err := s.audit.OnUpdated(ctx, tx, actor, opportunity, before, after)
		return err
	})
	if err != nil {
		s.logger.Error().Err(err).Uint("opportunity_id", id).Msg("failed to update opportunity")
		return dto.OpportunityResponse{}, err
	}

	return dto.NewOpportunityResponse(*opportunity), nil
}

func (s *opportunityService) Delete(ctx context.Context, actor models.Actor, id uint) error {
	opportunity, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.audit.OnDeleted(ctx, tx, actor, opportunity); err != nil {
			return err
		}
		return s.repo.WithTx(tx).Delete(ctx, opportunity)
	})
	if err != nil {
		s.logger.Error().Err(err).Uint("opportunity_id", id).Msg("failed to delete opportunity")
	}
	return err
}

func (s *opportunityService) ChangeStage(ctx context.Context, actor models.Actor, id uint, stageID uint) (dto.OpportunityResponse, error) {
	opportunity, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return dto.OpportunityResponse{}, err
	}

	// Same-stage moves succeed without saving or recording anything.
	if opportunity.StageID == stageID {
		return dto.NewOpportunityResponse(*opportunity), nil
	}

	oldStage, err := s.repo.GetStage(ctx, opportunity.StageID)
	if err != nil {
		return dto.OpportunityResponse{}, err
	}
	newStage, err := s.repo.GetStage(ctx, stageID)
	if err != nil {
		return dto.OpportunityResponse{}, err
	}

	before := opportunity.AuditAttributes()
	opportunity.StageID = stageID
	after := opportunity.AuditAttributes()

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.repo.WithTx(tx).Update(ctx, opportunity); err != nil {
			return err
		}
		if _, err := s.audit.OnUpdated(ctx, tx, actor, opportunity, before, after); err != nil {
			return err
		}
		return s.audit.RecordStageChange(ctx, tx, actor, opportunity, *oldStage, *newStage)
	})
	if err != nil {
		s.logger.Error().Err(err).Uint("opportunity_id", id).Msg("failed to change opportunity stage")
		return dto.OpportunityResponse{}, err
	}

	return dto.NewOpportunityResponse(*opportunity), nil
}

func (s *opportunityService) AddNote(ctx context.Context, actor models.Actor, id uint, text string) (dto.ActivityResponse, error) {
	if err := s.validator.Struct(dto.NoteRequest{Text: text}); err != nil {
		return dto.ActivityResponse{}, err
	}

	opportunity, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return dto.ActivityResponse{}, err
	}

	record, err := s.audit.AddNote(ctx, actor, opportunity.Ref(), text)
	if err != nil {
		return dto.ActivityResponse{}, err
	}
	return dto.NewActivityResponse(record), nil
}

func (s *opportunityService) List(ctx context.Context, req dto.OpportunityListRequest) (dto.OpportunityListResponse, error) {
	opportunities, total, err := s.repo.List(ctx, repository.OpportunityFilter{
		Page:      req.Page,
		PageSize:  req.PageSize,
		Search:    req.Search,
		StageID:   req.StageID,
		CompanyID: req.CompanyID,
	})
	if err != nil {
		return dto.OpportunityListResponse{}, err
	}

	items := make([]dto.OpportunityResponse, 0, len(opportunities))
	for _, opportunity := range opportunities {
		items = append(items, dto.NewOpportunityResponse(opportunity))
	}

	return dto.OpportunityListResponse{
		Items:      items,
		Pagination: buildPagination(req.Page, req.PageSize, total),
	}, nil
}

func (s *opportunityService) ListStages(ctx context.Context) ([]dto.PipelineStageResponse, error) {
	stages, err := s.repo.ListStages(ctx)
	if err != nil {
		return nil, err
	}

	responses := make([]dto.PipelineStageResponse, 0, len(stages))
	for _, stage := range stages {
		responses = append(responses, dto.NewPipelineStageResponse(stage))
	}
	return responses, nil
}
