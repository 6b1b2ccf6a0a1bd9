package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/talentforge/crm-api/internal/models"
)

// ApplicationFilter narrows job application listings.
type ApplicationFilter struct {
	Page     int
	PageSize int
	JobID    *uint
	Status   string
	Email    string
}

// ApplicationRepository persists candidate applications.
type ApplicationRepository interface {
	Create(ctx context.Context, application *models.JobApplication) error
	GetByID(ctx context.Context, id uint) (*models.JobApplication, error)
	GetByReference(ctx context.Context, reference string) (*models.JobApplication, error)
	Update(ctx context.Context, application *models.JobApplication) error
	List(ctx context.Context, filter ApplicationFilter) ([]models.JobApplication, int64, error)
}

type applicationRepository struct {
	db *gorm.DB
}

// NewApplicationRepository constructs the application repository.
func NewApplicationRepository(db *gorm.DB) ApplicationRepository {
	return &applicationRepository{db: db}
}

func (r *applicationRepository) Create(ctx context.Context, application *models.JobApplication) error {
	return r.db.WithContext(ctx).Create(application).Error
}

func (r *applicationRepository) GetByID(ctx context.Context, id uint) (*models.JobApplication, error) {
	var application models.JobApplication
	if err := r.db.WithContext(ctx).First(&application, id).Error; err != nil {
		return nil, err
	}
	return &application, nil
}

func (r *applicationRepository) GetByReference(ctx context.Context, reference string) (*models.JobApplication, error) {
	var application models.JobApplication
	if err := r.db.WithContext(ctx).Where("reference = ?", reference).First(&application).Error; err != nil {
		return nil, err
	}
	return &application, nil
}

func (r *applicationRepository) Update(ctx context.Context, application *models.JobApplication) error {
	return r.db.WithContext(ctx).Save(application).Error
}

func (r *applicationRepository) List(ctx context.Context, filter ApplicationFilter) ([]models.JobApplication, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.JobApplication{})

	if filter.JobID != nil {
		query = query.Where("job_id = ?", *filter.JobID)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.Email != "" {
		query = query.Where("email = ?", filter.Email)
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

	var applications []models.JobApplication
	if err := query.Order("created_at DESC").Find(&applications).Error; err != nil {
		return nil, 0, err
	}

	return applications, total, nil
}
