package repository

import (
	"context"
	"strings"

	"gorm.io/gorm"

	"github.com/talentforge/crm-api/internal/models"
)

// JobFilter narrows job-board listings.
type JobFilter struct {
	Page          int
	PageSize      int
	Search        string
	CategoryID    *uint
	Location      string
	PublishedOnly bool
}

// JobRepository persists job postings and categories.
type JobRepository interface {
	Create(ctx context.Context, job *models.Job) error
	GetByID(ctx context.Context, id uint) (*models.Job, error)
	GetBySlug(ctx context.Context, slug string) (*models.Job, error)
	Update(ctx context.Context, job *models.Job) error
	Delete(ctx context.Context, job *models.Job) error
	List(ctx context.Context, filter JobFilter) ([]models.Job, int64, error)
	CreateCategory(ctx context.Context, category *models.JobCategory) error
	ListCategories(ctx context.Context) ([]models.JobCategory, error)
	GetCategory(ctx context.Context, id uint) (*models.JobCategory, error)
}

type jobRepository struct {
	db *gorm.DB
}

// NewJobRepository constructs the job repository.
func NewJobRepository(db *gorm.DB) JobRepository {
	return &jobRepository{db: db}
}

func (r *jobRepository) Create(ctx context.Context, job *models.Job) error {
	return r.db.WithContext(ctx).Create(job).Error
}

func (r *jobRepository) GetByID(ctx context.Context, id uint) (*models.Job, error) {
	var job models.Job
	if err := r.db.WithContext(ctx).First(&job, id).Error; err != nil {
		return nil, err
	}
	return &job, nil
}

func (r *jobRepository) GetBySlug(ctx context.Context, slug string) (*models.Job, error) {
	var job models.Job
	if err := r.db.WithContext(ctx).Where("slug = ?", slug).First(&job).Error; err != nil {
		return nil, err
	}
	return &job, nil
}

func (r *jobRepository) Update(ctx context.Context, job *models.Job) error {
	return r.db.WithContext(ctx).Save(job).Error
}

func (r *jobRepository) Delete(ctx context.Context, job *models.Job) error {
	return r.db.WithContext(ctx).Delete(job).Error
}

func (r *jobRepository) List(ctx context.Context, filter JobFilter) ([]models.Job, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.Job{})

	if filter.PublishedOnly {
		query = query.Where("is_published = ?", true)
	}
	if search := strings.TrimSpace(filter.Search); search != "" {
		like := "%" + strings.ToLower(search) + "%"
		query = query.Where("LOWER(title) LIKE ?", like)
	}
	if filter.CategoryID != nil {
		query = query.Where("category_id = ?", *filter.CategoryID)
	}
	if location := strings.TrimSpace(filter.Location); location != "" {
		query = query.Where("LOWER(location) = ?", strings.ToLower(location))
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

	var jobs []models.Job
	if err := query.Order("created_at DESC").Find(&jobs).Error; err != nil {
		return nil, 0, err
	}

	return jobs, total, nil
}

func (r *jobRepository) CreateCategory(ctx context.Context, category *models.JobCategory) error {
	return r.db.WithContext(ctx).Create(category).Error
}

func (r *jobRepository) ListCategories(ctx context.Context) ([]models.JobCategory, error) {
	var categories []models.JobCategory
	if err := r.db.WithContext(ctx).Order("name ASC").Find(&categories).Error; err != nil {
		return nil, err
	}
	return categories, nil
}

func (r *jobRepository) GetCategory(ctx context.Context, id uint) (*models.JobCategory, error) {
	var category models.JobCategory
	if err := r.db.WithContext(ctx).First(&category, id).Error; err != nil {
		return nil, err
	}
	return &category, nil
}
