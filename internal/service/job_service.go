package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/microcosm-cc/bluemonday"
	"github.com/rs/zerolog"

	"github.com/talentforge/crm-api/internal/dto"
	"github.com/talentforge/crm-api/internal/models"
	"github.com/talentforge/crm-api/internal/repository"
)

// JobService exposes the job board: public listings and admin management.
type JobService interface {
	Create(ctx context.Context, req dto.JobCreateRequest) (dto.JobResponse, error)
	Get(ctx context.Context, id uint) (dto.JobResponse, error)
	GetBySlug(ctx context.Context, slug string) (dto.JobResponse, error)
	Update(ctx context.Context, id uint, req dto.JobUpdateRequest) (dto.JobResponse, error)
	Delete(ctx context.Context, id uint) error
	List(ctx context.Context, req dto.JobListRequest) (dto.JobListResponse, error)
	CreateCategory(ctx context.Context, req dto.JobCategoryRequest) (dto.JobCategoryResponse, error)
	ListCategories(ctx context.Context) ([]dto.JobCategoryResponse, error)
}

type jobService struct {
	repo      repository.JobRepository
	validator *validator.Validate
	sanitizer *bluemonday.Policy
	logger    zerolog.Logger
}

// NewJobService constructs the job board service. Job descriptions accept a
// limited HTML subset; everything else is stripped.
func NewJobService(repo repository.JobRepository, validate *validator.Validate, logger zerolog.Logger) JobService {
	return &jobService{
		repo:      repo,
		validator: validate,
		sanitizer: bluemonday.UGCPolicy(),
		logger:    logger.With().Str("component", "job_service").Logger(),
	}
}

func (s *jobService) Create(ctx context.Context, req dto.JobCreateRequest) (dto.JobResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return dto.JobResponse{}, err
	}
	if req.SalaryMax > 0 && req.SalaryMax < req.SalaryMin {
		return dto.JobResponse{}, fmt.Errorf("salary_max must not be below salary_min")
	}

	if _, err := s.repo.GetCategory(ctx, req.CategoryID); err != nil {
		return dto.JobResponse{}, err
	}

	employmentType := req.EmploymentType
	if employmentType == "" {
		employmentType = models.EmploymentFullTime
	}

	job := models.Job{
		Title:          req.Title,
		Slug:           slugify(req.Title),
		CategoryID:     req.CategoryID,
		CompanyID:      req.CompanyID,
		Location:       req.Location,
		EmploymentType: employmentType,
		SalaryMin:      req.SalaryMin,
		SalaryMax:      req.SalaryMax,
		Description:    s.sanitizer.Sanitize(req.Description),
		IsPublished:    req.IsPublished,
	}

	if err := s.repo.Create(ctx, &job); err != nil {
		s.logger.Error().Err(err).Msg("failed to create job")
		return dto.JobResponse{}, err
	}

	return dto.NewJobResponse(job), nil
}

func (s *jobService) Get(ctx context.Context, id uint) (dto.JobResponse, error) {
	job, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return dto.JobResponse{}, err
	}
	return dto.NewJobResponse(*job), nil
}

func (s *jobService) GetBySlug(ctx context.Context, slug string) (dto.JobResponse, error) {
	job, err := s.repo.GetBySlug(ctx, slug)
	if err != nil {
		return dto.JobResponse{}, err
	}
	return dto.NewJobResponse(*job), nil
}

func (s *jobService) Update(ctx context.Context, id uint, req dto.JobUpdateRequest) (dto.JobResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return dto.JobResponse{}, err
	}

	job, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return dto.JobResponse{}, err
	}

	if req.Title != nil {
		job.Title = *req.Title
		job.Slug = slugify(*req.Title)
	}
	if req.CategoryID != nil {
		if _, err := s.repo.GetCategory(ctx, *req.CategoryID); err != nil {
			return dto.JobResponse{}, err
		}
		job.CategoryID = *req.CategoryID
	}
	if req.CompanyID != nil {
		job.CompanyID = req.CompanyID
	}
	if req.Location != nil {
		job.Location = *req.Location
	}
	if req.EmploymentType != nil {
		job.EmploymentType = *req.EmploymentType
	}
	if req.SalaryMin != nil {
		job.SalaryMin = *req.SalaryMin
	}
	if req.SalaryMax != nil {
		job.SalaryMax = *req.SalaryMax
	}
	if req.Description != nil {
		job.Description = s.sanitizer.Sanitize(*req.Description)
	}
	if req.IsPublished != nil {
		job.IsPublished = *req.IsPublished
	}

	if err := s.repo.Update(ctx, job); err != nil {
		s.logger.Error().Err(err).Uint("job_id", id).Msg("failed to update job")
		return dto.JobResponse{}, err
	}

	return dto.NewJobResponse(*job), nil
}

func (s *jobService) Delete(ctx context.Context, id uint) error {
	job, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	return s.repo.Delete(ctx, job)
}

func (s *jobService) List(ctx context.Context, req dto.JobListRequest) (dto.JobListResponse, error) {
	jobs, total, err := s.repo.List(ctx, repository.JobFilter{
		Page:          req.Page,
		PageSize:      req.PageSize,
		Search:        req.Search,
		CategoryID:    req.CategoryID,
		Location:      req.Location,
		PublishedOnly: req.PublishedOnly,
	})
	if err != nil {
		return dto.JobListResponse{}, err
	}

	items := make([]dto.JobResponse, 0, len(jobs))
	for _, job := range jobs {
		items = append(items, dto.NewJobResponse(job))
	}

	return dto.JobListResponse{
		Items:      items,
		Pagination: buildPagination(req.Page, req.PageSize, total),
	}, nil
}

func (s *jobService) CreateCategory(ctx context.Context, req dto.JobCategoryRequest) (dto.JobCategoryResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return dto.JobCategoryResponse{}, err
	}

	category := models.JobCategory{
		Name: req.Name,
		Slug: slugify(req.Name),
	}
	if err := s.repo.CreateCategory(ctx, &category); err != nil {
		s.logger.Error().Err(err).Msg("failed to create job category")
		return dto.JobCategoryResponse{}, err
	}

	return dto.NewJobCategoryResponse(category), nil
}

func (s *jobService) ListCategories(ctx context.Context) ([]dto.JobCategoryResponse, error) {
	categories, err := s.repo.ListCategories(ctx)
	if err != nil {
		return nil, err
	}

	responses := make([]dto.JobCategoryResponse, 0, len(categories))
	for _, category := range categories {
		responses = append(responses, dto.NewJobCategoryResponse(category))
	}
	return responses, nil
}

func slugify(value string) string {
	slug := strings.ToLower(strings.TrimSpace(value))
	slug = strings.Map(func(r rune) rune {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			return r
		}
		return '-'
	}, slug)
	for strings.Contains(slug, "--") {
		slug = strings.ReplaceAll(slug, "--", "-")
	}
	return strings.Trim(slug, "-")
}
