package service

import (
	"context"
	"math"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/gorm"

	"github.com/talentforge/crm-api/internal/dto"
	"github.com/talentforge/crm-api/internal/models"
	"github.com/talentforge/crm-api/internal/repository"
)

// CompanyService exposes the company workflow. Every mutation takes the
// acting user explicitly and records audit activity in the same transaction.
type CompanyService interface {
	Create(ctx context.Context, actor models.Actor, req dto.CompanyCreateRequest) (dto.CompanyResponse, error)
	Get(ctx context.Context, id uint) (dto.CompanyResponse, error)
	Update(ctx context.Context, actor models.Actor, id uint, req dto.CompanyUpdateRequest) (dto.CompanyResponse, error)
	Delete(ctx context.Context, actor models.Actor, id uint) error
	ChangeStatus(ctx context.Context, actor models.Actor, id uint, status string) (dto.CompanyResponse, error)
	AddNote(ctx context.Context, actor models.Actor, id uint, text string) (dto.ActivityResponse, error)
	List(ctx context.Context, req dto.CompanyListRequest) (dto.CompanyListResponse, error)
}

type companyService struct {
	db        *gorm.DB
	repo      repository.CompanyRepository
	audit     AuditRecorder
	validator *validator.Validate
	logger    zerolog.Logger
	tracer    trace.Tracer
}

// NewCompanyService constructs the company service.
func NewCompanyService(db *gorm.DB, repo repository.CompanyRepository, audit AuditRecorder, validate *validator.Validate, logger zerolog.Logger) CompanyService {
	return &companyService{
		db:        db,
		repo:      repo,
		audit:     audit,
		validator: validate,
		logger:    logger.With().Str("component", "company_service").Logger(),
		tracer:    otel.Tracer("github.com/talentforge/crm-api/internal/service/company"),
	}
}

func (s *companyService) Create(ctx context.Context, actor models.Actor, req dto.CompanyCreateRequest) (dto.CompanyResponse, error) {
	ctx, span := s.tracer.Start(ctx, "company.create")
	defer span.End()

	if err := s.validator.Struct(req); err != nil {
		return dto.CompanyResponse{}, err
	}

	status := req.Status
	if status == "" {
		status = models.CompanyStatusLead
	}

	company := models.Company{
		Name:     req.Name,
		Industry: req.Industry,
		Website:  req.Website,
		Phone:    req.Phone,
		City:     req.City,
		Status:   status,
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.repo.WithTx(tx).Create(ctx, &company); err != nil {
			return err
		}
		return s.audit.OnCreated(ctx, tx, actor, &company)
	})
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to create company")
		return dto.CompanyResponse{}, err
	}

	span.SetAttributes(attribute.Int("company.id", int(company.ID)))
	return dto.NewCompanyResponse(company), nil
}

func (s *companyService) Get(ctx context.Context, id uint) (dto.CompanyResponse, error) {
	company, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return dto.CompanyResponse{}, err
	}
	return dto.NewCompanyResponse(*company), nil
}

func (s *companyService) Update(ctx context.Context, actor models.Actor, id uint, req dto.CompanyUpdateRequest) (dto.CompanyResponse, error) {
	ctx, span := s.tracer.Start(ctx, "company.update")
	defer span.End()

	if err := s.validator.Struct(req); err != nil {
		return dto.CompanyResponse{}, err
	}

	company, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return dto.CompanyResponse{}, err
	}

	before := company.AuditAttributes()
	oldStatus := company.Status

	if req.Name != nil {
		company.Name = *req.Name
	}
	if req.Industry != nil {
		company.Industry = *req.Industry
	}
	if req.Website != nil {
		company.Website = *req.Website
	}
	if req.Phone != nil {
		company.Phone = *req.Phone
	}
	if req.City != nil {
		company.City = *req.City
	}
	if req.Status != nil {
		company.Status = *req.Status
	}

	after := company.AuditAttributes()

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.repo.WithTx(tx).Update(ctx, company); err != nil {
			return err
		}
		if _, err := s.audit.OnUpdated(ctx, tx, actor, company, before, after); err != nil {
			return err
		}
		// A status move deserves its dedicated record alongside the generic one.
		return s.audit.RecordStatusChange(ctx, tx, actor, company, oldStatus, company.Status)
	})
	if err != nil {
		s.logger.Error().Err(err).Uint("company_id", id).Msg("failed to update company")
		return dto.CompanyResponse{}, err
	}

	return dto.NewCompanyResponse(*company), nil
}

func (s *companyService) Delete(ctx context.Context, actor models.Actor, id uint) error {
	ctx, span := s.tracer.Start(ctx, "company.delete")
	defer span.End()

	company, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.audit.OnDeleted(ctx, tx, actor, company); err != nil {
			return err
		}
		return s.repo.WithTx(tx).Delete(ctx, company)
	})
	if err != nil {
		s.logger.Error().Err(err).Uint("company_id", id).Msg("failed to delete company")
	}
	return err
}

func (s *companyService) ChangeStatus(ctx context.Context, actor models.Actor, id uint, status string) (dto.CompanyResponse, error) {
	ctx, span := s.tracer.Start(ctx, "company.change_status")
	defer span.End()

	if err := s.validator.Struct(dto.CompanyStatusRequest{Status: status}); err != nil {
		return dto.CompanyResponse{}, err
	}

	company, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return dto.CompanyResponse{}, err
	}

	// Same-value transitions succeed without saving or recording anything.
	if company.Status == status {
		return dto.NewCompanyResponse(*company), nil
	}

	before := company.AuditAttributes()
	oldStatus := company.Status
	company.Status = status
	after := company.AuditAttributes()

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.repo.WithTx(tx).Update(ctx, company); err != nil {
			return err
		}
		if _, err := s.audit.OnUpdated(ctx, tx, actor, company, before, after); err != nil {
			return err
		}
		return s.audit.RecordStatusChange(ctx, tx, actor, company, oldStatus, status)
	})
	if err != nil {
		s.logger.Error().Err(err).Uint("company_id", id).Msg("failed to change company status")
		return dto.CompanyResponse{}, err
	}

	return dto.NewCompanyResponse(*company), nil
}

func (s *companyService) AddNote(ctx context.Context, actor models.Actor, id uint, text string) (dto.ActivityResponse, error) {
	if err := s.validator.Struct(dto.NoteRequest{Text: text}); err != nil {
		return dto.ActivityResponse{}, err
	}

	company, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return dto.ActivityResponse{}, err
	}

	record, err := s.audit.AddNote(ctx, actor, company.Ref(), text)
	if err != nil {
		return dto.ActivityResponse{}, err
	}
	return dto.NewActivityResponse(record), nil
}

func (s *companyService) List(ctx context.Context, req dto.CompanyListRequest) (dto.CompanyListResponse, error) {
	companies, total, err := s.repo.List(ctx, repository.CompanyFilter{
		Page:     req.Page,
		PageSize: req.PageSize,
		Search:   req.Search,
		Status:   req.Status,
	})
	if err != nil {
		return dto.CompanyListResponse{}, err
	}

	items := make([]dto.CompanyResponse, 0, len(companies))
	for _, company := range companies {
		items = append(items, dto.NewCompanyResponse(company))
	}

	return dto.CompanyListResponse{
		Items:      items,
		Pagination: buildPagination(req.Page, req.PageSize, total),
	}, nil
}

func buildPagination(page, pageSize int, total int64) dto.PaginationMeta {
	meta := dto.PaginationMeta{
		Page:       maxInt(page, 1),
		PageSize:   pageSize,
		TotalItems: total,
	}
	if pageSize > 0 {
		meta.TotalPages = int(math.Ceil(float64(total) / float64(pageSize)))
	} else {
		meta.TotalPages = 1
	}
	return meta
}
