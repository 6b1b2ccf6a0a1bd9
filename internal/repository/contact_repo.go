package repository

import (
	"context"
	"strings"

	"gorm.io/gorm"

	"github.com/talentforge/crm-api/internal/models"
)

// ContactFilter narrows contact listings.
type ContactFilter struct {
	Page      int
	PageSize  int
	Search    string
	CompanyID *uint
}

// ContactRepository persists CRM contacts.
type ContactRepository interface {
	WithTx(tx *gorm.DB) ContactRepository
	Create(ctx context.Context, contact *models.Contact) error
	GetByID(ctx context.Context, id uint) (*models.Contact, error)
	Update(ctx context.Context, contact *models.Contact) error
	Delete(ctx context.Context, contact *models.Contact) error
	List(ctx context.Context, filter ContactFilter) ([]models.Contact, int64, error)
}

type contactRepository struct {
	db *gorm.DB
}

// NewContactRepository constructs the contact repository.
func NewContactRepository(db *gorm.DB) ContactRepository {
	return &contactRepository{db: db}
}

func (r *contactRepository) WithTx(tx *gorm.DB) ContactRepository {
	if tx == nil {
		return r
	}
	return &contactRepository{db: tx}
}

func (r *contactRepository) Create(ctx context.Context, contact *models.Contact) error {
	return r.db.WithContext(ctx).Create(contact).Error
}

func (r *contactRepository) GetByID(ctx context.Context, id uint) (*models.Contact, error) {
	var contact models.Contact
	if err := r.db.WithContext(ctx).First(&contact, id).Error; err != nil {
		return nil, err
	}
	return &contact, nil
}

func (r *contactRepository) Update(ctx context.Context, contact *models.Contact) error {
	return r.db.WithContext(ctx).Save(contact).Error
}

func (r *contactRepository) Delete(ctx context.Context, contact *models.Contact) error {
	return r.db.WithContext(ctx).Delete(contact).Error
}

func (r *contactRepository) List(ctx context.Context, filter ContactFilter) ([]models.Contact, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.Contact{})

	if search := strings.TrimSpace(filter.Search); search != "" {
		like := "%" + strings.ToLower(search) + "%"
		query = query.Where("LOWER(first_name) LIKE ? OR LOWER(last_name) LIKE ? OR LOWER(email) LIKE ?", like, like, like)
	}
	if filter.CompanyID != nil {
		query = query.Where("company_id = ?", *filter.CompanyID)
	}

	countQuery := query.Session(&gorm.Session{})
	var total int64
	if err := countQuery.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if filter.PageSize > 0 {
		page := filter.Page
		if page <= 0 {
			page = 1
		}
		query = query.Offset((page - 1) * filter.PageSize).Limit(filter.PageSize)
	}

	var contacts []models.Contact
	if err := query.Order("created_at DESC").Find(&contacts).Error; err != nil {
		return nil, 0, err
	}

	return contacts, total, nil
}
