package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/talentforge/crm-api/internal/dto"
	"github.com/talentforge/crm-api/internal/models"
	"github.com/talentforge/crm-api/internal/observability"
	"github.com/talentforge/crm-api/internal/repository"
)

var (
	// ErrResumeTooLarge indicates the resume exceeded the configured limit.
	ErrResumeTooLarge = errors.New("resume exceeds maximum allowed size")
	// ErrResumeTypeNotAllowed indicates the resume MIME type is not permitted.
	ErrResumeTypeNotAllowed = errors.New("resume file type not allowed")
	// ErrJobNotOpen indicates the job is unpublished or deleted.
	ErrJobNotOpen = errors.New("job is not open for applications")
)

var allowedResumeTypes = []string{
	"application/pdf",
	"application/msword",
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document",
}

// FileStorage abstracts resume upload destinations.
type FileStorage interface {
	Upload(ctx context.Context, name string, reader io.Reader) (string, error)
}

// ApplicationService handles candidate submissions and the admin pipeline.
type ApplicationService interface {
	Submit(ctx context.Context, jobID uint, req dto.ApplicationCreateRequest, resume *multipart.FileHeader) (dto.ApplicationResponse, error)
	Get(ctx context.Context, id uint) (dto.ApplicationResponse, error)
	GetByReference(ctx context.Context, reference string) (dto.ApplicationResponse, error)
	UpdateStatus(ctx context.Context, id uint, status string) (dto.ApplicationResponse, error)
	List(ctx context.Context, req dto.ApplicationListRequest) (dto.ApplicationListResponse, error)
}

type applicationService struct {
	repo      repository.ApplicationRepository
	jobs      repository.JobRepository
	storage   FileStorage
	validator *validator.Validate
	logger    zerolog.Logger
	maxSize   int64
	tracer    trace.Tracer
}

// NewApplicationService constructs the application service.
func NewApplicationService(repo repository.ApplicationRepository, jobs repository.JobRepository, storage FileStorage, validate *validator.Validate, maxSizeMB int, logger zerolog.Logger) ApplicationService {
	if maxSizeMB <= 0 {
		maxSizeMB = 5
	}
	return &applicationService{
		repo:      repo,
		jobs:      jobs,
		storage:   storage,
		validator: validate,
		logger:    logger.With().Str("component", "application_service").Logger(),
		maxSize:   int64(maxSizeMB) * 1024 * 1024,
		tracer:    otel.Tracer("github.com/talentforge/crm-api/internal/service/application"),
	}
}

func (s *applicationService) Submit(ctx context.Context, jobID uint, req dto.ApplicationCreateRequest, resume *multipart.FileHeader) (dto.ApplicationResponse, error) {
	ctx, span := s.tracer.Start(ctx, "application.submit")
	defer span.End()

	if err := s.validator.Struct(req); err != nil {
		span.SetStatus(codes.Error, "validation failed")
		return dto.ApplicationResponse{}, err
	}

	job, err := s.jobs.GetByID(ctx, jobID)
	if err != nil {
		return dto.ApplicationResponse{}, err
	}
	if !job.IsPublished {
		observability.JobApplications().WithLabelValues("rejected").Inc()
		return dto.ApplicationResponse{}, ErrJobNotOpen
	}

	application := models.JobApplication{
		JobID:       job.ID,
		Reference:   uuid.NewString(),
		Name:        req.Name,
		Email:       strings.ToLower(strings.TrimSpace(req.Email)),
		Phone:       req.Phone,
		CoverLetter: req.CoverLetter,
		Status:      models.ApplicationReceived,
	}

	if resume != nil {
		url, err := s.storeResume(ctx, application.Reference, resume)
		if err != nil {
			observability.JobApplications().WithLabelValues("rejected").Inc()
			span.RecordError(err)
			return dto.ApplicationResponse{}, err
		}
		application.ResumeURL = url
	}

	if err := s.repo.Create(ctx, &application); err != nil {
		s.logger.Error().Err(err).Uint("job_id", jobID).Msg("failed to persist application")
		return dto.ApplicationResponse{}, err
	}

	observability.JobApplications().WithLabelValues("received").Inc()
	span.SetAttributes(attribute.String("application.reference", application.Reference))
	return dto.NewApplicationResponse(application), nil
}

func (s *applicationService) storeResume(ctx context.Context, reference string, header *multipart.FileHeader) (string, error) {
	if header.Size > s.maxSize {
		return "", ErrResumeTooLarge
	}

	file, err := header.Open()
	if err != nil {
		return "", err
	}
	defer file.Close()

	payload, err := io.ReadAll(io.LimitReader(file, s.maxSize+1))
	if err != nil {
		return "", err
	}
	if int64(len(payload)) > s.maxSize {
		return "", ErrResumeTooLarge
	}

	detected := mimetype.Detect(payload)
	allowed := false
	for _, mime := range allowedResumeTypes {
		if detected.Is(mime) {
			allowed = true
			break
		}
	}
	if !allowed {
		s.logger.Warn().Str("mime", detected.String()).Msg("rejected resume upload")
		return "", ErrResumeTypeNotAllowed
	}

	if s.storage == nil {
		return "", fmt.Errorf("resume storage is not configured")
	}

	name := fmt.Sprintf("resume-%s%s", reference, detected.Extension())
	return s.storage.Upload(ctx, name, bytes.NewReader(payload))
}

func (s *applicationService) Get(ctx context.Context, id uint) (dto.ApplicationResponse, error) {
	application, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return dto.ApplicationResponse{}, err
	}
	return dto.NewApplicationResponse(*application), nil
}

func (s *applicationService) GetByReference(ctx context.Context, reference string) (dto.ApplicationResponse, error) {
	application, err := s.repo.GetByReference(ctx, reference)
	if err != nil {
		return dto.ApplicationResponse{}, err
	}
	return dto.NewApplicationResponse(*application), nil
}

func (s *applicationService) UpdateStatus(ctx context.Context, id uint, status string) (dto.ApplicationResponse, error) {
	if err := s.validator.Struct(dto.ApplicationStatusRequest{Status: status}); err != nil {
		return dto.ApplicationResponse{}, err
	}

	application, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return dto.ApplicationResponse{}, err
	}

	if application.Status != status {
		application.Status = status
		if err := s.repo.Update(ctx, application); err != nil {
			return dto.ApplicationResponse{}, err
		}
	}

	return dto.NewApplicationResponse(*application), nil
}

func (s *applicationService) List(ctx context.Context, req dto.ApplicationListRequest) (dto.ApplicationListResponse, error) {
	applications, total, err := s.repo.List(ctx, repository.ApplicationFilter{
		Page:     req.Page,
		PageSize: req.PageSize,
		JobID:    req.JobID,
		Status:   req.Status,
		Email:    req.Email,
	})
	if err != nil {
		return dto.ApplicationListResponse{}, err
	}

	items := make([]dto.ApplicationResponse, 0, len(applications))
	for _, application := range applications {
		items = append(items, dto.NewApplicationResponse(application))
	}

	return dto.ApplicationListResponse{
		Items:      items,
		Pagination: buildPagination(req.Page, req.PageSize, total),
	}, nil
}
