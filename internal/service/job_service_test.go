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

func newJobServiceForTest(t *testing.T) (JobService, *gorm.DB) {
	t.Helper()
	db := setupTestDB(t)
	svc := NewJobService(repository.NewJobRepository(db), validator.New(validator.WithRequiredStructEnabled()), testLogger())
	return svc, db
}

func createTestCategory(t *testing.T, svc JobService, name string) dto.JobCategoryResponse {
	t.Helper()
	category, err := svc.CreateCategory(context.Background(), dto.JobCategoryRequest{Name: name})
	require.NoError(t, err)
	return category
}

func TestJobCreateSanitizesDescriptionAndBuildsSlug(t *testing.T) {
	svc, _ := newJobServiceForTest(t)
	ctx := context.Background()
	category := createTestCategory(t, svc, "Engineering")

	job, err := svc.Create(ctx, dto.JobCreateRequest{
		Title:       "Senior Go Engineer (Berlin)",
		CategoryID:  category.ID,
		Description: "<p>Build services</p><script>alert('x')</script>",
		IsPublished: true,
	})
	require.NoError(t, err)
	require.Equal(t, "senior-go-engineer-berlin", job.Slug)
	require.Contains(t, job.Description, "<p>Build services</p>")
	require.NotContains(t, job.Description, "<script>")
	require.Equal(t, models.EmploymentFullTime, job.EmploymentType, "employment type defaults to full time")
}

func TestJobCreateValidatesSalaryRangeAndCategory(t *testing.T) {
	svc, _ := newJobServiceForTest(t)
	ctx := context.Background()
	category := createTestCategory(t, svc, "Sales")

	_, err := svc.Create(ctx, dto.JobCreateRequest{
		Title:      "Account Manager",
		CategoryID: category.ID,
		SalaryMin:  60000,
		SalaryMax:  50000,
	})
	require.ErrorContains(t, err, "salary_max")

	_, err = svc.Create(ctx, dto.JobCreateRequest{Title: "Account Manager", CategoryID: 999})
	require.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestJobListPublishedOnlyHidesDrafts(t *testing.T) {
	svc, _ := newJobServiceForTest(t)
	ctx := context.Background()
	category := createTestCategory(t, svc, "Engineering")

	_, err := svc.Create(ctx, dto.JobCreateRequest{Title: "Published role", CategoryID: category.ID, IsPublished: true})
	require.NoError(t, err)
	_, err = svc.Create(ctx, dto.JobCreateRequest{Title: "Draft role", CategoryID: category.ID})
	require.NoError(t, err)

	public, err := svc.List(ctx, dto.JobListRequest{PageSize: 10, PublishedOnly: true})
	require.NoError(t, err)
	require.Len(t, public.Items, 1)
	require.Equal(t, "Published role", public.Items[0].Title)

	admin, err := svc.List(ctx, dto.JobListRequest{PageSize: 10})
	require.NoError(t, err)
	require.Len(t, admin.Items, 2)
}

func TestJobGetBySlug(t *testing.T) {
	svc, _ := newJobServiceForTest(t)
	ctx := context.Background()
	category := createTestCategory(t, svc, "Engineering")

	created, err := svc.Create(ctx, dto.JobCreateRequest{Title: "Data Engineer", CategoryID: category.ID, IsPublished: true})
	require.NoError(t, err)

	found, err := svc.GetBySlug(ctx, "data-engineer")
	require.NoError(t, err)
	require.Equal(t, created.ID, found.ID)
}

func TestJobUpdateResanitizesAndReslugs(t *testing.T) {
	svc, _ := newJobServiceForTest(t)
	ctx := context.Background()
	category := createTestCategory(t, svc, "Engineering")

	job, err := svc.Create(ctx, dto.JobCreateRequest{Title: "Platform Engineer", CategoryID: category.ID})
	require.NoError(t, err)

	title := "Staff Platform Engineer"
	description := "<em>Hybrid</em><iframe src='evil'></iframe>"
	updated, err := svc.Update(ctx, job.ID, dto.JobUpdateRequest{Title: &title, Description: &description})
	require.NoError(t, err)
	require.Equal(t, "staff-platform-engineer", updated.Slug)
	require.Contains(t, updated.Description, "<em>Hybrid</em>")
	require.NotContains(t, updated.Description, "iframe")
}
