package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/talentforge/crm-api/internal/models"
)

// ActivityFilter narrows per-subject activity queries.
type ActivityFilter struct {
	Page            int
	PageSize        int
	Type            string
	UserID          *uint
	CreatedAfter    *time.Time
	CreatedBefore   *time.Time
	SystemGenerated *bool
}

// ActivityRepository is the append-only store for the audit trail. Records
// are written once and never updated or deleted.
type ActivityRepository interface {
	// WithTx returns a repository bound to the given transaction so audit
	// writes commit or roll back together with the entity mutation that
	// triggered them.
	WithTx(tx *gorm.DB) ActivityRepository
	Create(ctx context.Context, record *models.Activity) error
	ListForSubject(ctx context.Context, subject models.EntityRef, filter ActivityFilter) ([]models.Activity, int64, error)
	ListRecent(ctx context.Context, limit int) ([]models.Activity, error)
	CountByType(ctx context.Context, subject models.EntityRef) (map[string]int64, error)
	CountAllByType(ctx context.Context) (map[string]int64, error)
}

type activityRepository struct {
	db *gorm.DB
}

// NewActivityRepository constructs the activity store.
func NewActivityRepository(db *gorm.DB) ActivityRepository {
	return &activityRepository{db: db}
}

func (r *activityRepository) WithTx(tx *gorm.DB) ActivityRepository {
	if tx == nil {
		return r
	}
	return &activityRepository{db: tx}
}

func (r *activityRepository) Create(ctx context.Context, record *models.Activity) error {
	return r.db.WithContext(ctx).Create(record).Error
}

func (r *activityRepository) ListForSubject(ctx context.Context, subject models.EntityRef, filter ActivityFilter) ([]models.Activity, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.Activity{}).
		Where("subject_type = ? AND subject_id = ?", string(subject.Kind), subject.ID)

	if filter.Type != "" {
		query = query.Where("type = ?", filter.Type)
	}
	if filter.UserID != nil {
		query = query.Where("user_id = ?", *filter.UserID)
	}
	if filter.CreatedAfter != nil {
		query = query.Where("created_at >= ?", *filter.CreatedAfter)
	}
	if filter.CreatedBefore != nil {
		query = query.Where("created_at <= ?", *filter.CreatedBefore)
	}
	if filter.SystemGenerated != nil {
		query = query.Where("is_system_generated = ?", *filter.SystemGenerated)
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
		offset := (page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	var records []models.Activity
	if err := query.Order("created_at DESC, id DESC").Find(&records).Error; err != nil {
		return nil, 0, err
	}

	return records, total, nil
}

func (r *activityRepository) ListRecent(ctx context.Context, limit int) ([]models.Activity, error) {
	if limit <= 0 {
		limit = 20
	}

	var records []models.Activity
	err := r.db.WithContext(ctx).
		Order("created_at DESC, id DESC").
		Limit(limit).
		Find(&records).Error
	if err != nil {
		return nil, err
	}

	return records, nil
}

func (r *activityRepository) CountByType(ctx context.Context, subject models.EntityRef) (map[string]int64, error) {
	query := r.db.WithContext(ctx).Model(&models.Activity{}).
		Where("subject_type = ? AND subject_id = ?", string(subject.Kind), subject.ID)
	return countByType(query)
}

func (r *activityRepository) CountAllByType(ctx context.Context) (map[string]int64, error) {
	return countByType(r.db.WithContext(ctx).Model(&models.Activity{}))
}

func countByType(query *gorm.DB) (map[string]int64, error) {
	type row struct {
		Type  string
		Total int64
	}

	var rows []row
	err := query.
		Select("type, COUNT(*) AS total").
		Group("type").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	counts := make(map[string]int64, len(rows))
	for _, r := range rows {
		counts[r.Type] = r.Total
	}

	return counts, nil
}
