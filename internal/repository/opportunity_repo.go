package repository

import (
	"context"
	"strings"

	"gorm.io/gorm"

	"github.com/talentforge/crm-api/internal/models"
)

// OpportunityFilter narrows opportunity listings.
type OpportunityFilter struct {
	Page      int
	PageSize  int
	Search    string
	StageID   *uint
	CompanyID *uint
}

// OpportunityRepository persists pipeline opportunities and stages.
type OpportunityRepository interface {
	WithTx(tx *gorm.DB) OpportunityRepository
	Create(ctx context.Context, opportunity *models.Opportunity) error
	GetByID(ctx context.Context, id uint) (*models.Opportunity, error)
	Update(ctx context.Context, opportunity *models.Opportunity) error
	Delete(ctx context.Context, opportunity *models.Opportunity) error
	List(ctx context.Context, filter OpportunityFilter) ([]models.Opportunity, int64, error)
	GetStage(ctx context.Context, id uint) (*models.PipelineStage, error)
	ListStages(ctx context.Context) ([]models.PipelineStage, error)
	SeedStages(ctx context.Context, stages []models.PipelineStage) error
}

type opportunityRepository struct {
	db *gorm.DB
}

// NewOpportunityRepository constructs the opportunity repository.
func NewOpportunityRepository(db *gorm.DB) OpportunityRepository {
	return &opportunityRepository{db: db}
}

func (r *opportunityRepository) WithTx(tx *gorm.DB) OpportunityRepository {
	if tx == nil {
		return r
	}
	return &opportunityRepository{db: tx}
}

func (r *opportunityRepository) Create(ctx context.Context, opportunity *models.Opportunity) error {
	return r.db.WithContext(ctx).Create(opportunity).Error
}

func (r *opportunityRepository) GetByID(ctx context.Context, id uint) (*models.Opportunity, error) {
	var opportunity models.Opportunity
	if err := r.db.WithContext(ctx).First(&opportunity, id).Error; err != nil {
		return nil, err
	}
	return &opportunity, nil
}

func (r *opportunityRepository) Update(ctx context.Context, opportunity *models.Opportunity) error {
	return r.db.WithContext(ctx).Save(opportunity).Error
}

func (r *opportunityRepository) Delete(ctx context.Context, opportunity *models.Opportunity) error {
	return r.db.WithContext(ctx).Delete(opportunity).Error
}

func (r *opportunityRepository) List(ctx context.Context, filter OpportunityFilter) ([]models.Opportunity, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.Opportunity{})

	if search := strings.TrimSpace(filter.Search); search != "" {
		like := "%" + strings.ToLower(search) + "%"
		query = query.Where("LOWER(title) LIKE ?", like)
	}
	if filter.StageID != nil {
		query = query.Where("stage_id = ?", *filter.StageID)
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

	var opportunities []models.Opportunity
	if err := query.Order("created_at DESC").Find(&opportunities).Error; err != nil {
		return nil, 0, err
	}

	return opportunities, total, nil
}

func (r *opportunityRepository) GetStage(ctx context.Context, id uint) (*models.PipelineStage, error) {
	var stage models.PipelineStage
	if err := r.db.WithContext(ctx).First(&stage, id).Error; err != nil {
		return nil, err
	}
	return &stage, nil
}

func (r *opportunityRepository) ListStages(ctx context.Context) ([]models.PipelineStage, error) {
	var stages []models.PipelineStage
	if err := r.db.WithContext(ctx).Order("position ASC").Find(&stages).Error; err != nil {
		return nil, err
	}
	return stages, nil
}

// SeedStages inserts the default stage set when the table is empty.
func (r *opportunityRepository) SeedStages(ctx context.Context, stages []models.PipelineStage) error {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.PipelineStage{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&stages).Error
}
