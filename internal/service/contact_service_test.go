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

func newContactServiceForTest(t *testing.T) (ContactService, *gorm.DB) {
	t.Helper()
	db := setupTestDB(t)
	audit := NewAuditService(repository.NewActivityRepository(db), testLogger())
	svc := NewContactService(db, repository.NewContactRepository(db), audit, validator.New(validator.WithRequiredStructEnabled()), testLogger())
	return svc, db
}

func TestContactCreateRecordsActivity(t *testing.T) {
	svc, db := newContactServiceForTest(t)
	actor := models.Actor{ID: 9, Name: "Jonas"}

	contact, err := svc.Create(context.Background(), actor, dto.ContactCreateRequest{
		FirstName: "Liv",
		LastName:  "Andersen",
		Email:     "liv@acme.example",
		Position:  "CTO",
	})
	require.NoError(t, err)

	records := subjectActivities(t, db, models.EntityRef{Kind: models.KindContact, ID: contact.ID})
	require.Len(t, records, 1)
	require.Equal(t, models.ActivityCreated, records[0].Type)
	require.Equal(t, "Created contact Liv Andersen", records[0].Description)
}

func TestContactUpdateDiffsOnlyChangedFields(t *testing.T) {
	svc, db := newContactServiceForTest(t)
	actor := models.Actor{ID: 9, Name: "Jonas"}

	contact, err := svc.Create(context.Background(), actor, dto.ContactCreateRequest{FirstName: "Liv", LastName: "Andersen"})
	require.NoError(t, err)

	position := "VP Engineering"
	_, err = svc.Update(context.Background(), actor, contact.ID, dto.ContactUpdateRequest{Position: &position})
	require.NoError(t, err)

	records := subjectActivities(t, db, models.EntityRef{Kind: models.KindContact, ID: contact.ID})
	require.Len(t, records, 2)

	updated := records[len(records)-1]
	if updated.Type != models.ActivityUpdated {
		updated = records[0]
	}
	require.Equal(t, models.ActivityUpdated, updated.Type)
	require.Equal(t, map[string]interface{}{"position": "VP Engineering"}, updated.Properties["new"])
	require.Equal(t, map[string]interface{}{"position": ""}, updated.Properties["old"])
}

func TestContactListSearchesByName(t *testing.T) {
	svc, _ := newContactServiceForTest(t)
	actor := models.SystemActor()
	ctx := context.Background()

	_, err := svc.Create(ctx, actor, dto.ContactCreateRequest{FirstName: "Liv", LastName: "Andersen"})
	require.NoError(t, err)
	_, err = svc.Create(ctx, actor, dto.ContactCreateRequest{FirstName: "Ola", LastName: "Berg"})
	require.NoError(t, err)

	found, err := svc.List(ctx, dto.ContactListRequest{PageSize: 10, Search: "anders"})
	require.NoError(t, err)
	require.Len(t, found.Items, 1)
	require.Equal(t, "Liv", found.Items[0].FirstName)
}

func TestContactDeleteRecordsActivity(t *testing.T) {
	svc, db := newContactServiceForTest(t)
	actor := models.Actor{ID: 9, Name: "Jonas"}

	contact, err := svc.Create(context.Background(), actor, dto.ContactCreateRequest{FirstName: "Liv", LastName: "Andersen"})
	require.NoError(t, err)
	require.NoError(t, svc.Delete(context.Background(), actor, contact.ID))

	_, err = svc.Get(context.Background(), contact.ID)
	require.ErrorIs(t, err, gorm.ErrRecordNotFound)

	records := subjectActivities(t, db, models.EntityRef{Kind: models.KindContact, ID: contact.ID})
	require.Len(t, records, 2)
}
