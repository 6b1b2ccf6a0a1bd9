package repository

import (
	"context"
	"strings"

	"gorm.io/gorm"

	"github.com/talentforge/crm-api/internal/models"
)

// CompanyFilter narrows company listings.
type CompanyFilter struct {
	Page     int
	PageSize int
	Search   string
	Status   string
}

// CompanyRepository persists CRM companies.
type CompanyRepository interface {
	WithTx(tx *gorm.DB) CompanyRepository
	Create(ctx context.Context, company *models.Company) error
	GetByID(ctx context.Context, id uint) (*models.Company, error)
	Update(ctx context.Context, company *models.Company) error
	Delete(ctx context.Context, company *models.Company) error
	List(ctx context.Context, filter CompanyFilter) ([]models.Company, int64, error)
}

type companyRepository struct {
	db *gorm.DB
}

// NewCompanyRepository constructs the company repository.
func NewCompanyRepository(db *gorm.DB) CompanyRepository {
	return &companyRepository{db: db}
}

func (r *companyRepository) WithTx(tx *gorm.DB) CompanyRepository {
	if tx == nil {
		return r
	}
	return &companyRepository{db: tx}
}

func (r *companyRepository) Create(ctx context.Context, company *models.Company) error {
	return r.db.WithContext(ctx).Create(company).Error
}

func (r *companyRepository) GetByID(ctx context.Context, id uint) (*models.Company, error) {
	var company models.Company
	if err := r.db.WithContext(ctx).First(&company, id).Error; err != nil {
		return nil, err
	}
	return &company, nil
}

func (r *companyRepository) Update(ctx context.Context, company *models.Company) error {
	return r.db.WithContext(ctx).Save(company).Error
}

func (r *companyRepository) Delete(ctx context.Context, company *models.Company) error {
	return r.db.WithContext(ctx).Delete(company).Error
}

func (r *companyRepository) List(ctx context.Context, filter CompanyFilter) ([]models.Company, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.Company{})

	if search := strings.TrimSpace(filter.Search); search != "" {
		like := "%" + strings.ToLower(search) + "%"
		query = query.Where("LOWER(name) LIKE ? OR LOWER(city) LIKE ?", like, like)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
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

	var companies []models.Company
	if err := query.Order("created_at DESC").Find(&companies).Error; err != nil {
		return nil, 0, err
	}

	return companies, total, nil
}
