package service

import (
	"context"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/talentforge/crm-api/internal/dto"
	"github.com/talentforge/crm-api/internal/models"
	"github.com/talentforge/crm-api/internal/repository"
)

// ContactService exposes the contact workflow.
type ContactService interface {
	Create(ctx context.Context, actor models.Actor, req dto.ContactCreateRequest) (dto.ContactResponse, error)
	Get(ctx context.Context, id uint) (dto.ContactResponse, error)
	Update(ctx context.Context, actor models.Actor, id uint, req dto.ContactUpdateRequest) (dto.ContactResponse, error)
	Delete(ctx context.Context, actor models.Actor, id uint) error
	AddNote(ctx context.Context, actor models.Actor, id uint, text string) (dto.ActivityResponse, error)
	List(ctx context.Context, req dto.ContactListRequest) (dto.ContactListResponse, error)
}

type contactService struct {
	db        *gorm.DB
	repo      repository.ContactRepository
	audit     AuditRecorder
	validator *validator.Validate
	logger    zerolog.Logger
}

// NewContactService constructs the contact service.
func NewContactService(db *gorm.DB, repo repository.ContactRepository, audit AuditRecorder, validate *validator.Validate, logger zerolog.Logger) ContactService {
	return &contactService{
		db:        db,
		repo:      repo,
		audit:     audit,
		validator: validate,
		logger:    logger.With().Str("component", "contact_service").Logger(),
	}
}

func (s *contactService) Create(ctx context.Context, actor models.Actor, req dto.ContactCreateRequest) (dto.ContactResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return dto.ContactResponse{}, err
	}

	contact := models.Contact{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Phone:     req.Phone,
		Position:  req.Position,
		CompanyID: req.CompanyID,
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.repo.WithTx(tx).Create(ctx, &contact); err != nil {
			return err
		}
		return s.audit.OnCreated(ctx, tx, actor, &contact)
	})
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to create contact")
		return dto.ContactResponse{}, err
	}

	return dto.NewContactResponse(contact), nil
}

func (s *contactService) Get(ctx context.Context, id uint) (dto.ContactResponse, error) {
	contact, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return dto.ContactResponse{}, err
	}
	return dto.NewContactResponse(*contact), nil
}

func (s *contactService) Update(ctx context.Context, actor models.Actor, id uint, req dto.ContactUpdateRequest) (dto.ContactResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return dto.ContactResponse{}, err
	}

	contact, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return dto.ContactResponse{}, err
	}

	before := contact.AuditAttributes()

	if req.FirstName != nil {
		contact.FirstName = *req.FirstName
	}
	if req.LastName != nil {
		contact.LastName = *req.LastName
	}
	if req.Email != nil {
		contact.Email = *req.Email
	}
	if req.Phone != nil {
		contact.Phone = *req.Phone
	}
	if req.Position != nil {
		contact.Position = *req.Position
	}
	if req.CompanyID != nil {
		contact.CompanyID = req.CompanyID
	}

	after := contact.AuditAttributes()

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.repo.WithTx(tx).Update(ctx, contact); err != nil {
			return err
		}
		_, err := s.audit.OnUpdated(ctx, tx, actor, contact, before, after)
		return err
	})
	if err != nil {
		s.logger.Error().Err(err).Uint("contact_id", id).Msg("failed to update contact")
		return dto.ContactResponse{}, err
	}

	return dto.NewContactResponse(*contact), nil
}

func (s *contactService) Delete(ctx context.Context, actor models.Actor, id uint) error {
	contact, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.audit.OnDeleted(ctx, tx, actor, contact); err != nil {
			return err
		}
		return s.repo.WithTx(tx).Delete(ctx, contact)
	})
	if err != nil {
		s.logger.Error().Err(err).Uint("contact_id", id).Msg("failed to delete contact")
	}
	return err
}

func (s *contactService) AddNote(ctx context.Context, actor models.Actor, id uint, text string) (dto.ActivityResponse, error) {
	if err := s.validator.Struct(dto.NoteRequest{Text: text}); err != nil {
		return dto.ActivityResponse{}, err
	}

	contact, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return dto.ActivityResponse{}, err
	}

	record, err := s.audit.AddNote(ctx, actor, contact.Ref(), text)
	if err != nil {
		return dto.ActivityResponse{}, err
	}
	return dto.NewActivityResponse(record), nil
}

func (s *contactService) List(ctx context.Context, req dto.ContactListRequest) (dto.ContactListResponse, error) {
	contacts, total, err := s.repo.List(ctx, repository.ContactFilter{
		Page:      req.Page,
		PageSize:  req.PageSize,
		Search:    req.Search,
		CompanyID: req.CompanyID,
	})
	if err != nil {
		return dto.ContactListResponse{}, err
	}

	items := make([]dto.ContactResponse, 0, len(contacts))
	for _, contact := range contacts {
		items = append(items, dto.NewContactResponse(contact))
	}

	return dto.ContactListResponse{
		Items:      items,
		Pagination: buildPagination(req.Page, req.PageSize, total),
	}, nil
}
