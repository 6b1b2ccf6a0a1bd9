package service

import (
	"context"
	"time"

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

// TaskService exposes the follow-up task workflow, including the completion
// state machine with its audit fan-out.
type TaskService interface {
	Create(ctx context.Context, actor models.Actor, req dto.TaskCreateRequest) (dto.TaskResponse, error)
	Get(ctx context.Context, id uint) (dto.TaskResponse, error)
	Update(ctx context.Context, actor models.Actor, id uint, req dto.TaskUpdateRequest) (dto.TaskResponse, error)
	Delete(ctx context.Context, actor models.Actor, id uint) error
	// Complete moves the task to the completed state, stamps the completion
	// time and fans activity records out to the linked company, contact and
	// opportunity. Completing an already-completed task is a no-op.
	Complete(ctx context.Context, actor models.Actor, id uint) (dto.TaskResponse, error)
	AddNote(ctx context.Context, actor models.Actor, id uint, text string) (dto.ActivityResponse, error)
	List(ctx context.Context, req dto.TaskListRequest) (dto.TaskListResponse, error)
}

type taskService struct {
	db        *gorm.DB
	repo      repository.TaskRepository
	audit     AuditRecorder
	validator *validator.Validate
	logger    zerolog.Logger
	tracer    trace.Tracer
}

// NewTaskService constructs the task service.
func NewTaskService(db *gorm.DB, repo repository.TaskRepository, audit AuditRecorder, validate *validator.Validate, logger zerolog.Logger) TaskService {
	return &taskService{
		db:        db,
		repo:      repo,
		audit:     audit,
		validator: validate,
		logger:    logger.With().Str("component", "task_service").Logger(),
		tracer:    otel.Tracer("github.com/talentforge/crm-api/internal/service/task"),
	}
}

func (s *taskService) Create(ctx context.Context, actor models.Actor, req dto.TaskCreateRequest) (dto.TaskResponse, error) {
	ctx, span := s.tracer.Start(ctx, "task.create")
	defer span.End()

	if err := s.validator.Struct(req); err != nil {
		return dto.TaskResponse{}, err
	}

	priority := req.Priority
	if priority == "" {
		priority = models.TaskPriorityNormal
	}

	task := models.Task{
		Title:         req.Title,
		Description:   req.Description,
		Priority:      priority,
		Status:        models.TaskStatusNotStarted,
		CompanyID:     req.CompanyID,
		ContactID:     req.ContactID,
		OpportunityID: req.OpportunityID,
	}
	if req.DueDate != "" {
		dueDate, err := time.Parse(time.RFC3339, req.DueDate)
		if err != nil {
			return dto.TaskResponse{}, err
		}
		task.DueDate = &dueDate
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.repo.WithTx(tx).Create(ctx, &task); err != nil {
			return err
		}
		return s.audit.OnCreated(ctx, tx, actor, &task)
	})
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to create task")
		return dto.TaskResponse{}, err
	}

	span.SetAttributes(attribute.Int("task.id", int(task.ID)))
	return dto.NewTaskResponse(task), nil
}

func (s *taskService) Get(ctx context.Context, id uint) (dto.TaskResponse, error) {
	task, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return dto.TaskResponse{}, err
	}
	return dto.NewTaskResponse(*task), nil
}

func (s *taskService) Update(ctx context.Context, actor models.Actor, id uint, req dto.TaskUpdateRequest) (dto.TaskResponse, error) {
	ctx, span := s.tracer.Start(ctx, "task.update")
	defer span.End()

	if err := s.validator.Struct(req); err != nil {
		return dto.TaskResponse{}, err
	}

	task, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return dto.TaskResponse{}, err
	}

	before := task.AuditAttributes()

	if req.Title != nil {
		task.Title = *req.Title
	}
	if req.Description != nil {
		task.Description = *req.Description
	}
	if req.DueDate != nil {
		dueDate, err := time.Parse(time.RFC3339, *req.DueDate)
		if err != nil {
			return dto.TaskResponse{}, err
		}
		task.DueDate = &dueDate
	}
	if req.Priority != nil {
		task.Priority = *req.Priority
	}
	if req.Status != nil {
		// Reopening a completed task is a plain field update; the completion
		// timestamp is cleared with it.
		if task.Status == models.TaskStatusCompleted && *req.Status != models.TaskStatusCompleted {
			task.CompletedAt = nil
		}
		task.Status = *req.Status
	}
	if req.CompanyID != nil {
		task.CompanyID = req.CompanyID
	}
	if req.ContactID != nil {
		task.ContactID = req.ContactID
	}
	if req.OpportunityID != nil {
		task.OpportunityID = req.OpportunityID
	}

	after := task.AuditAttributes()

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.repo.WithTx(tx).Update(ctx, task); err != nil {
			return err
		}
		_, err := s.audit.OnUpdated(ctx, tx, actor, task, before, after)
		return err
	})
	if err != nil {
		s.logger.Error().Err(err).Uint("task_id", id).Msg("failed to update task")
		return dto.TaskResponse{}, err
	}

	return dto.NewTaskResponse(*task), nil
}

func (s *taskService) Delete(ctx context.Context, actor models.Actor, id uint) error {
	task, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.audit.OnDeleted(ctx, tx, actor, task); err != nil {
			return err
		}
		return s.repo.WithTx(tx).Delete(ctx, task)
	})
	if err != nil {
		s.logger.Error().Err(err).Uint("task_id", id).Msg("failed to delete task")
	}
	return err
}

func (s *taskService) Complete(ctx context.Context, actor models.Actor, id uint) (dto.TaskResponse, error) {
	ctx, span := s.tracer.Start(ctx, "task.complete")
	defer span.End()

	task, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return dto.TaskResponse{}, err
	}

	// Terminal-idempotent: no state change, no timestamp update, no records.
	if task.IsCompleted() {
		return dto.NewTaskResponse(*task), nil
	}

	now := time.Now()
	task.Status = models.TaskStatusCompleted
	task.CompletedAt = &now

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.repo.WithTx(tx).Update(ctx, task); err != nil {
			return err
		}
		return s.audit.RecordTaskCompleted(ctx, tx, actor, task)
	})
	if err != nil {
		s.logger.Error().Err(err).Uint("task_id", id).Msg("failed to complete task")
		return dto.TaskResponse{}, err
	}

	span.SetAttributes(attribute.Int("task.fanout", len(task.RelatedRefs())))
	return dto.NewTaskResponse(*task), nil
}

func (s *taskService) AddNote(ctx context.Context, actor models.Actor, id uint, text string) (dto.ActivityResponse, error) {
	if err := s.validator.Struct(dto.NoteRequest{Text: text}); err != nil {
		return dto.ActivityResponse{}, err
	}

	task, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return dto.ActivityResponse{}, err
	}

	record, err := s.audit.AddNote(ctx, actor, task.Ref(), text)
	if err != nil {
		return dto.ActivityResponse{}, err
	}
	return dto.NewActivityResponse(record), nil
}

func (s *taskService) List(ctx context.Context, req dto.TaskListRequest) (dto.TaskListResponse, error) {
	tasks, total, err := s.repo.List(ctx, repository.TaskFilter{
		Page:          req.Page,
		PageSize:      req.PageSize,
		Search:        req.Search,
		Status:        req.Status,
		CompanyID:     req.CompanyID,
		ContactID:     req.ContactID,
		OpportunityID: req.OpportunityID,
	})
	if err != nil {
		return dto.TaskListResponse{}, err
	}

	items := make([]dto.TaskResponse, 0, len(tasks))
	for _, task := range tasks {
		items = append(items, dto.NewTaskResponse(task))
	}

	return dto.TaskListResponse{
		Items:      items,
		Pagination: buildPagination(req.Page, req.PageSize, total),
	}, nil
}
