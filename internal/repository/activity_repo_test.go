package repository

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/talentforge/crm-api/internal/models"
)

func TestActivityRepositoryListForSubjectFiltersAndOrders(t *testing.T) {
	db := setupTestDB(t)
	repo := NewActivityRepository(db)
	ctx := context.Background()

	subject := models.EntityRef{Kind: models.KindCompany, ID: 1}
	now := time.Now()

	records := []models.Activity{
		{SubjectType: "company", SubjectID: 1, UserID: 3, Type: models.ActivityCreated, Description: "Created company Acme", IsSystemGenerated: true, CreatedAt: now.Add(-3 * time.Hour)},
		{SubjectType: "company", SubjectID: 1, UserID: 3, Type: models.ActivityUpdated, Description: "Updated company Acme", IsSystemGenerated: true, CreatedAt: now.Add(-2 * time.Hour)},
		{SubjectType: "company", SubjectID: 1, UserID: 7, Type: models.ActivityNoteAdded, Description: "Called them back", IsSystemGenerated: false, CreatedAt: now.Add(-1 * time.Hour)},
		{SubjectType: "company", SubjectID: 2, UserID: 3, Type: models.ActivityCreated, Description: "Created company Globex", IsSystemGenerated: true, CreatedAt: now},
	}
	for i := range records {
		require.NoError(t, db.Create(&records[i]).Error)
	}

	listed, total, err := repo.ListForSubject(ctx, subject, ActivityFilter{PageSize: 10})
	require.NoError(t, err)
	require.Equal(t, int64(3), total)
	require.Len(t, listed, 3)
	require.Equal(t, models.ActivityNoteAdded, listed[0].Type, "expected newest record first")
	require.Equal(t, models.ActivityCreated, listed[2].Type)

	listed, total, err = repo.ListForSubject(ctx, subject, ActivityFilter{PageSize: 10, Type: models.ActivityUpdated})
	require.NoError(t, err)
	require.Equal(t, int64(1), total)
	require.Equal(t, "Updated company Acme", listed[0].Description)

	userID := uint(7)
	listed, total, err = repo.ListForSubject(ctx, subject, ActivityFilter{PageSize: 10, UserID: &userID})
	require.NoError(t, err)
	require.Equal(t, int64(1), total)
	require.Equal(t, "Called them back", listed[0].Description)

	system := false
	listed, total, err = repo.ListForSubject(ctx, subject, ActivityFilter{PageSize: 10, SystemGenerated: &system})
	require.NoError(t, err)
	require.Equal(t, int64(1), total)
	require.False(t, listed[0].IsSystemGenerated)

	cutoff := now.Add(-90 * time.Minute)
	listed, total, err = repo.ListForSubject(ctx, subject, ActivityFilter{PageSize: 10, CreatedAfter: &cutoff})
	require.NoError(t, err)
	require.Equal(t, int64(1), total)
	require.Equal(t, models.ActivityNoteAdded, listed[0].Type)

	listed, total, err = repo.ListForSubject(ctx, subject, ActivityFilter{Page: 2, PageSize: 2})
	require.NoError(t, err)
	require.Equal(t, int64(3), total)
	require.Len(t, listed, 1, "expected the remainder on page two")
}

func TestActivityRepositoryListRecentSpansSubjects(t *testing.T) {
	db := setupTestDB(t)
	repo := NewActivityRepository(db)
	ctx := context.Background()

	now := time.Now()
	require.NoError(t, db.Create(&models.Activity{SubjectType: "company", SubjectID: 1, Type: models.ActivityCreated, IsSystemGenerated: true, CreatedAt: now.Add(-2 * time.Hour)}).Error)
	require.NoError(t, db.Create(&models.Activity{SubjectType: "task", SubjectID: 4, Type: models.ActivityTaskCompleted, IsSystemGenerated: true, CreatedAt: now.Add(-1 * time.Hour)}).Error)
	require.NoError(t, db.Create(&models.Activity{SubjectType: "contact", SubjectID: 9, Type: models.ActivityNoteAdded, CreatedAt: now}).Error)

	recent, err := repo.ListRecent(ctx, 2)
	require.NoError(t, err)
	require.Len(t, recent, 2)
	require.Equal(t, "contact", recent[0].SubjectType)
	require.Equal(t, "task", recent[1].SubjectType)
}

func TestActivityRepositoryCountsByType(t *testing.T) {
	db := setupTestDB(t)
	repo := NewActivityRepository(db)
	ctx := context.Background()

	subject := models.EntityRef{Kind: models.KindContact, ID: 5}
	require.NoError(t, db.Create(&models.Activity{SubjectType: "contact", SubjectID: 5, Type: models.ActivityCreated, IsSystemGenerated: true}).Error)
	require.NoError(t, db.Create(&models.Activity{SubjectType: "contact", SubjectID: 5, Type: models.ActivityUpdated, IsSystemGenerated: true}).Error)
	require.NoError(t, db.Create(&models.Activity{SubjectType: "contact", SubjectID: 5, Type: models.ActivityUpdated, IsSystemGenerated: true}).Error)
	require.NoError(t, db.Create(&models.Activity{SubjectType: "contact", SubjectID: 6, Type: models.ActivityUpdated, IsSystemGenerated: true}).Error)

	counts, err := repo.CountByType(ctx, subject)
	require.NoError(t, err)
	require.Equal(t, int64(1), counts[models.ActivityCreated])
	require.Equal(t, int64(2), counts[models.ActivityUpdated])

	all, err := repo.CountAllByType(ctx)
	require.NoError(t, err)
	require.Equal(t, int64(3), all[models.ActivityUpdated])
}

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.Company{},
		&models.Contact{},
		&models.PipelineStage{},
		&models.Opportunity{},
		&models.Task{},
		&models.Activity{},
		&models.JobCategory{},
		&models.Job{},
		&models.JobApplication{},
	))
	return db
}
