package service

import (
	"context"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/talentforge/crm-api/internal/dto"
	"github.com/talentforge/crm-api/internal/models"
	"github.com/talentforge/crm-api/internal/repository"
)

func newCompanyServiceForTest(t *testing.T) (CompanyService, *gorm.DB) {
	t.Helper()
	db := setupTestDB(t)
	audit := NewAuditService(repository.NewActivityRepository(db), testLogger())
	svc := NewCompanyService(db, repository.NewCompanyRepository(db), audit, validator.New(validator.WithRequiredStructEnabled()), testLogger())
	return svc, db
}

func TestCompanyCreateRecordsActivity(t *testing.T) {
	svc, db := newCompanyServiceForTest(t)
	actor := models.Actor{ID: 4, Name: "Priya"}

	company, err := svc.Create(context.Background(), actor, dto.CompanyCreateRequest{Name: "Acme Staffing", Industry: "Recruitment"})
	require.NoError(t, err)
	require.Equal(t, models.CompanyStatusLead, company.Status, "status defaults to lead")

	records := subjectActivities(t, db, models.EntityRef{Kind: models.KindCompany, ID: company.ID})
	require.Len(t, records, 1)
	require.Equal(t, models.ActivityCreated, records[0].Type)
	require.Equal(t, "Created company Acme Staffing", records[0].Description)
	require.Equal(t, uint(4), records[0].UserID)
}

func TestCompanyCreateRejectsInvalidPayload(t *testing.T) {
	svc, db := newCompanyServiceForTest(t)

	_, err := svc.Create(context.Background(), models.Actor{ID: 1}, dto.CompanyCreateRequest{Name: "x"})
	require.Error(t, err)

	var total int64
	require.NoError(t, db.Model(&models.Activity{}).Count(&total).Error)
	require.Zero(t, total, "failed create must not leave audit records behind")
}

func TestCompanyUpdateRecordsDiffAndSkipsNoOps(t *testing.T) {
	svc, db := newCompanyServiceForTest(t)
	actor := models.Actor{ID: 2}
	ctx := context.Background()

	company, err := svc.Create(ctx, actor, dto.CompanyCreateRequest{Name: "Globex", City: "Hamburg"})
	require.NoError(t, err)
	subject := models.EntityRef{Kind: models.KindCompany, ID: company.ID}

	city := "Munich"
	_, err = svc.Update(ctx, actor, company.ID, dto.CompanyUpdateRequest{City: &city})
	require.NoError(t, err)

	records := subjectActivities(t, db, subject)
	require.Len(t, records, 2)
	updated := records[1]
	require.Equal(t, models.ActivityUpdated, updated.Type)
	require.Equal(t, "Updated company Globex", updated.Description)
	oldValues := updated.Properties["old"].(map[string]interface{})
	newValues := updated.Properties["new"].(map[string]interface{})
	require.Equal(t, "Hamburg", oldValues["city"])
	require.Equal(t, "Munich", newValues["city"])

	// Saving the same values again writes nothing.
	_, err = svc.Update(ctx, actor, company.ID, dto.CompanyUpdateRequest{City: &city})
	require.NoError(t, err)
	require.Len(t, subjectActivities(t, db, subject), 2)
}

func TestCompanyChangeStatusWritesBothRecords(t *testing.T) {
	svc, db := newCompanyServiceForTest(t)
	actor := models.Actor{ID: 2}
	ctx := context.Background()

	company, err := svc.Create(ctx, actor, dto.CompanyCreateRequest{Name: "Initech"})
	require.NoError(t, err)
	subject := models.EntityRef{Kind: models.KindCompany, ID: company.ID}

	changed, err := svc.ChangeStatus(ctx, actor, company.ID, models.CompanyStatusCustomer)
	require.NoError(t, err)
	require.Equal(t, models.CompanyStatusCustomer, changed.Status)

	records := subjectActivities(t, db, subject)
	require.Len(t, records, 3, "created, updated and status_changed")
	require.Equal(t, models.ActivityUpdated, records[1].Type)
	require.Equal(t, models.ActivityStatusChanged, records[2].Type)
	require.Equal(t, "Status changed from Lead to Customer", records[2].Description)

	// Same-value transitions succeed without writing anything.
	again, err := svc.ChangeStatus(ctx, actor, company.ID, models.CompanyStatusCustomer)
	require.NoError(t, err)
	require.Equal(t, models.CompanyStatusCustomer, again.Status)
	require.Len(t, subjectActivities(t, db, subject), 3)
}

func TestCompanyDeleteRecordsLastSnapshot(t *testing.T) {
	svc, db := newCompanyServiceForTest(t)
	actor := models.Actor{ID: 8}
	ctx := context.Background()

	company, err := svc.Create(ctx, actor, dto.CompanyCreateRequest{Name: "Umbrella", City: "Raccoon City"})
	require.NoError(t, err)
	subject := models.EntityRef{Kind: models.KindCompany, ID: company.ID}

	require.NoError(t, svc.Delete(ctx, actor, company.ID))

	_, err = svc.Get(ctx, company.ID)
	require.ErrorIs(t, err, gorm.ErrRecordNotFound)

	records := subjectActivities(t, db, subject)
	require.Len(t, records, 2)
	deleted := records[1]
	require.Equal(t, models.ActivityDeleted, deleted.Type)
	require.Equal(t, "Deleted company Umbrella", deleted.Description)
	attributes := deleted.Properties["attributes"].(map[string]interface{})
	require.Equal(t, "Raccoon City", attributes["city"])
}

func TestCompanyAddNoteIsUserGenerated(t *testing.T) {
	svc, db := newCompanyServiceForTest(t)
	actor := models.Actor{ID: 3, Name: "Sam"}
	ctx := context.Background()

	company, err := svc.Create(ctx, actor, dto.CompanyCreateRequest{Name: "Hooli"})
	require.NoError(t, err)

	note, err := svc.AddNote(ctx, actor, company.ID, "Intro call went well")
	require.NoError(t, err)
	require.Equal(t, models.ActivityNoteAdded, note.Type)
	require.Equal(t, "Intro call went well", note.Description)
	require.False(t, note.IsSystemGenerated)

	records := subjectActivities(t, db, models.EntityRef{Kind: models.KindCompany, ID: company.ID})
	require.Len(t, records, 2)

	_, err = svc.AddNote(ctx, actor, company.ID, "")
	require.Error(t, err, "empty notes are rejected")
}
