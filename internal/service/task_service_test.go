package service

import (
	"context"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/talentforge/crm-api/internal/dto"
	"github.com/talentforge/crm-api/internal/models"
	"github.com/talentforge/crm-api/internal/repository"
)

func newTaskServiceForTest(t *testing.T) (TaskService, *gorm.DB) {
	t.Helper()
	db := setupTestDB(t)
	audit := NewAuditService(repository.NewActivityRepository(db), testLogger())
	svc := NewTaskService(db, repository.NewTaskRepository(db), audit, validator.New(validator.WithRequiredStructEnabled()), testLogger())
	return svc, db
}

func TestTaskCompleteFansOutToLinkedSubjects(t *testing.T) {
	svc, db := newTaskServiceForTest(t)
	actor := models.Actor{ID: 7, Name: "Jordan"}
	ctx := context.Background()

	companyID := uint(21)
	contactID := uint(22)
	opportunityID := uint(23)
	task, err := svc.Create(ctx, actor, dto.TaskCreateRequest{
		Title:         "Send contract",
		CompanyID:     &companyID,
		ContactID:     &contactID,
		OpportunityID: &opportunityID,
	})
	require.NoError(t, err)
	require.Equal(t, models.TaskStatusNotStarted, task.Status)

	completed, err := svc.Complete(ctx, actor, task.ID)
	require.NoError(t, err)
	require.Equal(t, models.TaskStatusCompleted, completed.Status)
	require.NotNil(t, completed.CompletedAt)

	var fanout []models.Activity
	require.NoError(t, db.Where("type = ?", models.ActivityTaskCompleted).Order("id ASC").Find(&fanout).Error)
	require.Len(t, fanout, 4, "task plus company, contact and opportunity")

	for _, record := range fanout {
		require.Equal(t, "Task completed: Send contract", record.Description)
		require.EqualValues(t, task.ID, record.Properties["task_id"])
	}

	require.Equal(t, "task", fanout[0].SubjectType)
	require.Nil(t, fanout[0].CauserType)

	related := map[string]uint{}
	for _, record := range fanout[1:] {
		related[record.SubjectType] = record.SubjectID
		causer, ok := record.Causer()
		require.True(t, ok)
		require.Equal(t, models.EntityRef{Kind: models.KindTask, ID: task.ID}, causer)
	}
	require.Equal(t, map[string]uint{"company": companyID, "contact": contactID, "opportunity": opportunityID}, related)
}

func TestTaskCompleteIsIdempotent(t *testing.T) {
	svc, db := newTaskServiceForTest(t)
	actor := models.Actor{ID: 7}
	ctx := context.Background()

	task, err := svc.Create(ctx, actor, dto.TaskCreateRequest{Title: "Call candidate"})
	require.NoError(t, err)

	first, err := svc.Complete(ctx, actor, task.ID)
	require.NoError(t, err)
	require.NotNil(t, first.CompletedAt)

	second, err := svc.Complete(ctx, actor, task.ID)
	require.NoError(t, err)
	require.NotNil(t, second.CompletedAt)
	require.WithinDuration(t, *first.CompletedAt, *second.CompletedAt, time.Second, "completion timestamp must not move")

	var total int64
	require.NoError(t, db.Model(&models.Activity{}).Where("type = ?", models.ActivityTaskCompleted).Count(&total).Error)
	require.Equal(t, int64(1), total)
}

func TestTaskReopenClearsCompletionTimestamp(t *testing.T) {
	svc, db := newTaskServiceForTest(t)
	actor := models.Actor{ID: 5}
	ctx := context.Background()

	task, err := svc.Create(ctx, actor, dto.TaskCreateRequest{Title: "Review CVs"})
	require.NoError(t, err)

	_, err = svc.Complete(ctx, actor, task.ID)
	require.NoError(t, err)

	status := models.TaskStatusInProgress
	reopened, err := svc.Update(ctx, actor, task.ID, dto.TaskUpdateRequest{Status: &status})
	require.NoError(t, err)
	require.Equal(t, models.TaskStatusInProgress, reopened.Status)
	require.Nil(t, reopened.CompletedAt)

	records := subjectActivities(t, db, models.EntityRef{Kind: models.KindTask, ID: task.ID})
	last := records[len(records)-1]
	require.Equal(t, models.ActivityUpdated, last.Type)
}

func TestTaskUpdateRejectsCompletedStatus(t *testing.T) {
	svc, _ := newTaskServiceForTest(t)
	actor := models.Actor{ID: 5}
	ctx := context.Background()

	task, err := svc.Create(ctx, actor, dto.TaskCreateRequest{Title: "Prep interview"})
	require.NoError(t, err)

	status := models.TaskStatusCompleted
	_, err = svc.Update(ctx, actor, task.ID, dto.TaskUpdateRequest{Status: &status})
	require.Error(t, err, "completion only happens through the dedicated action")
}

func TestTaskDeleteRecordsActivity(t *testing.T) {
	svc, db := newTaskServiceForTest(t)
	actor := models.Actor{ID: 5}
	ctx := context.Background()

	task, err := svc.Create(ctx, actor, dto.TaskCreateRequest{Title: "Old follow-up"})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, actor, task.ID))

	records := subjectActivities(t, db, models.EntityRef{Kind: models.KindTask, ID: task.ID})
	require.Len(t, records, 2)
	require.Equal(t, models.ActivityDeleted, records[1].Type)
	require.Equal(t, "Deleted task Old follow-up", records[1].Description)
}
