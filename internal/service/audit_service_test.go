package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/talentforge/crm-api/internal/models"
	"github.com/talentforge/crm-api/internal/repository"
)

func testLogger() zerolog.Logger {
	return zerolog.Nop()
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

func subjectActivities(t *testing.T, db *gorm.DB, subject models.EntityRef) []models.Activity {
	t.Helper()
	var records []models.Activity
	err := db.Where("subject_type = ? AND subject_id = ?", string(subject.Kind), subject.ID).
		Order("id ASC").
		Find(&records).Error
	require.NoError(t, err)
	return records
}

func TestDiffAttributesReportsOnlyChangedKeys(t *testing.T) {
	before := map[string]interface{}{"name": "Acme", "city": "Berlin", "status": "lead"}
	after := map[string]interface{}{"name": "Acme Corp", "city": "Berlin", "status": "lead"}

	oldValues, newValues := DiffAttributes(before, after)
	require.Equal(t, map[string]interface{}{"name": "Acme"}, oldValues)
	require.Equal(t, map[string]interface{}{"name": "Acme Corp"}, newValues)
}

func TestDiffAttributesEmptyWhenNothingChanged(t *testing.T) {
	snapshot := map[string]interface{}{"name": "Acme", "city": "Berlin"}

	oldValues, newValues := DiffAttributes(snapshot, map[string]interface{}{"name": "Acme", "city": "Berlin"})
	require.Empty(t, oldValues)
	require.Empty(t, newValues)
}

func TestRecordRejectsInvalidEntries(t *testing.T) {
	db := setupTestDB(t)
	recorder := NewAuditService(repository.NewActivityRepository(db), testLogger())
	ctx := context.Background()

	_, err := recorder.Record(ctx, nil, AuditEntry{Type: models.ActivityCreated})
	require.ErrorContains(t, err, "subject must be set")

	_, err = recorder.Record(ctx, nil, AuditEntry{
		Subject: models.EntityRef{Kind: models.KindCompany, ID: 1},
		Type:    "reticulated",
	})
	require.ErrorContains(t, err, "unknown activity type")
}

func TestOnCreatedWritesSnapshotRecord(t *testing.T) {
	db := setupTestDB(t)
	recorder := NewAuditService(repository.NewActivityRepository(db), testLogger())
	actor := models.Actor{ID: 12, Name: "Dana"}

	company := models.Company{ID: 1, Name: "Acme", Status: models.CompanyStatusLead}
	require.NoError(t, recorder.OnCreated(context.Background(), nil, actor, &company))

	records := subjectActivities(t, db, company.Ref())
	require.Len(t, records, 1)
	require.Equal(t, models.ActivityCreated, records[0].Type)
	require.Equal(t, "Created company Acme", records[0].Description)
	require.Equal(t, uint(12), records[0].UserID)
	require.True(t, records[0].IsSystemGenerated)

	attributes, ok := records[0].Properties["attributes"].(map[string]interface{})
	require.True(t, ok)
	require.Equal(t, "Acme", attributes["name"])
	require.Equal(t, "lead", attributes["status"])
}

func TestOnUpdatedSuppressesNoOpSaves(t *testing.T) {
	db := setupTestDB(t)
	recorder := NewAuditService(repository.NewActivityRepository(db), testLogger())
	actor := models.Actor{ID: 3}

	company := models.Company{ID: 2, Name: "Globex"}
	snapshot := company.AuditAttributes()

	wrote, err := recorder.OnUpdated(context.Background(), nil, actor, &company, snapshot, company.AuditAttributes())
	require.NoError(t, err)
	require.False(t, wrote)
	require.Empty(t, subjectActivities(t, db, company.Ref()))
}

func TestOnUpdatedRecordsOldAndNewValues(t *testing.T) {
	db := setupTestDB(t)
	recorder := NewAuditService(repository.NewActivityRepository(db), testLogger())
	actor := models.Actor{ID: 3}

	company := models.Company{ID: 2, Name: "Globex", City: "Hamburg"}
	before := company.AuditAttributes()
	company.City = "Munich"
	after := company.AuditAttributes()

	wrote, err := recorder.OnUpdated(context.Background(), nil, actor, &company, before, after)
	require.NoError(t, err)
	require.True(t, wrote)

	records := subjectActivities(t, db, company.Ref())
	require.Len(t, records, 1)
	require.Equal(t, models.ActivityUpdated, records[0].Type)

	oldValues := records[0].Properties["old"].(map[string]interface{})
	newValues := records[0].Properties["new"].(map[string]interface{})
	require.Equal(t, "Hamburg", oldValues["city"])
	require.Equal(t, "Munich", newValues["city"])
	require.NotContains(t, newValues, "name")
}

func TestRecordStatusChangeSkipsSameValue(t *testing.T) {
	db := setupTestDB(t)
	recorder := NewAuditService(repository.NewActivityRepository(db), testLogger())
	actor := models.Actor{ID: 5}
	company := models.Company{ID: 3, Name: "Initech", Status: models.CompanyStatusProspect}

	require.NoError(t, recorder.RecordStatusChange(context.Background(), nil, actor, &company, "prospect", "prospect"))
	require.Empty(t, subjectActivities(t, db, company.Ref()))

	require.NoError(t, recorder.RecordStatusChange(context.Background(), nil, actor, &company, "prospect", "customer"))
	records := subjectActivities(t, db, company.Ref())
	require.Len(t, records, 1)
	require.Equal(t, models.ActivityStatusChanged, records[0].Type)
	require.Equal(t, "Status changed from Prospect to Customer", records[0].Description)
	require.Equal(t, "prospect", records[0].Properties["old_status"])
	require.Equal(t, "customer", records[0].Properties["new_status"])
}

func TestRecordStageChangeUsesStageNames(t *testing.T) {
	db := setupTestDB(t)
	recorder := NewAuditService(repository.NewActivityRepository(db), testLogger())
	actor := models.Actor{ID: 5}
	opportunity := models.Opportunity{ID: 8, Title: "Placement deal", StageID: 3}

	qualification := models.PipelineStage{ID: 1, Name: "Qualification", Position: 1}
	proposal := models.PipelineStage{ID: 3, Name: "Proposal", Position: 3}

	require.NoError(t, recorder.RecordStageChange(context.Background(), nil, actor, &opportunity, qualification, qualification))
	require.Empty(t, subjectActivities(t, db, opportunity.Ref()))

	require.NoError(t, recorder.RecordStageChange(context.Background(), nil, actor, &opportunity, qualification, proposal))
	records := subjectActivities(t, db, opportunity.Ref())
	require.Len(t, records, 1)
	require.Equal(t, models.ActivityStageChanged, records[0].Type)
	require.Equal(t, "Moved from Qualification to Proposal", records[0].Description)
}

func TestRecordTaskCompletedFansOutToRelatedSubjects(t *testing.T) {
	db := setupTestDB(t)
	recorder := NewAuditService(repository.NewActivityRepository(db), testLogger())
	actor := models.Actor{ID: 9}

	companyID := uint(1)
	contactID := uint(2)
	opportunityID := uint(3)
	completedAt := time.Now().Add(-time.Minute)
	task := models.Task{
		ID:            11,
		Title:         "Send contract",
		Status:        models.TaskStatusCompleted,
		CompletedAt:   &completedAt,
		CompanyID:     &companyID,
		ContactID:     &contactID,
		OpportunityID: &opportunityID,
	}

	require.NoError(t, recorder.RecordTaskCompleted(context.Background(), nil, actor, &task))

	var all []models.Activity
	require.NoError(t, db.Order("id ASC").Find(&all).Error)
	require.Len(t, all, 4)

	for _, record := range all {
		require.Equal(t, models.ActivityTaskCompleted, record.Type)
		require.Equal(t, "Task completed: Send contract", record.Description)
		require.EqualValues(t, 11, record.Properties["task_id"])
		require.Equal(t, completedAt.Format(time.RFC3339), record.Properties["completed_at"])
	}

	taskRecords := subjectActivities(t, db, task.Ref())
	require.Len(t, taskRecords, 1)
	require.Nil(t, taskRecords[0].CauserType)

	companyRecords := subjectActivities(t, db, models.EntityRef{Kind: models.KindCompany, ID: companyID})
	require.Len(t, companyRecords, 1)
	causer, ok := companyRecords[0].Causer()
	require.True(t, ok)
	require.Equal(t, task.Ref(), causer)
}

func TestRecordTaskCompletedWithoutLinksWritesSingleRecord(t *testing.T) {
	db := setupTestDB(t)
	recorder := NewAuditService(repository.NewActivityRepository(db), testLogger())

	task := models.Task{ID: 12, Title: "Standalone", Status: models.TaskStatusCompleted}
	require.NoError(t, recorder.RecordTaskCompleted(context.Background(), nil, models.Actor{ID: 1}, &task))

	var total int64
	require.NoError(t, db.Model(&models.Activity{}).Count(&total).Error)
	require.Equal(t, int64(1), total)
}

func TestAddNoteKeepsTextVerbatim(t *testing.T) {
	db := setupTestDB(t)
	recorder := NewAuditService(repository.NewActivityRepository(db), testLogger())
	subject := models.EntityRef{Kind: models.KindContact, ID: 4}

	text := "Spoke with <b>Maria</b>; call back Tuesday"
	record, err := recorder.AddNote(context.Background(), models.Actor{ID: 6}, subject, text)
	require.NoError(t, err)
	require.Equal(t, models.ActivityNoteAdded, record.Type)
	require.Equal(t, text, record.Description)
	require.False(t, record.IsSystemGenerated)
	require.Equal(t, uint(6), record.UserID)
}
