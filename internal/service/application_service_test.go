package service

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/require"

	"github.com/talentforge/crm-api/internal/dto"
	"github.com/talentforge/crm-api/internal/models"
	"github.com/talentforge/crm-api/internal/repository"
)

type fakeStorage struct {
	uploads []string
}

func (f *fakeStorage) Upload(_ context.Context, name string, reader io.Reader) (string, error) {
	if _, err := io.Copy(io.Discard, reader); err != nil {
		return "", err
	}
	f.uploads = append(f.uploads, name)
	return "https://files.example.com/" + name, nil
}

func newApplicationServiceForTest(t *testing.T) (ApplicationService, JobService, *fakeStorage) {
	t.Helper()
	db := setupTestDB(t)
	validate := validator.New(validator.WithRequiredStructEnabled())
	storage := &fakeStorage{}
	jobRepo := repository.NewJobRepository(db)
	jobs := NewJobService(jobRepo, validate, testLogger())
	svc := NewApplicationService(repository.NewApplicationRepository(db), jobRepo, storage, validate, 1, testLogger())
	return svc, jobs, storage
}

func createTestJob(t *testing.T, jobs JobService, published bool) dto.JobResponse {
	t.Helper()
	ctx := context.Background()
	category, err := jobs.CreateCategory(ctx, dto.JobCategoryRequest{Name: "Engineering"})
	require.NoError(t, err)
	job, err := jobs.Create(ctx, dto.JobCreateRequest{Title: "Go Engineer", CategoryID: category.ID, IsPublished: published})
	require.NoError(t, err)
	return job
}

func resumeFileHeader(t *testing.T, name string, payload []byte) *multipart.FileHeader {
	t.Helper()
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile("resume", name)
	require.NoError(t, err)
	_, err = part.Write(payload)
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	form, err := multipart.NewReader(&buf, writer.Boundary()).ReadForm(32 << 20)
	require.NoError(t, err)
	t.Cleanup(func() { _ = form.RemoveAll() })
	require.Len(t, form.File["resume"], 1)
	return form.File["resume"][0]
}

func pdfPayload() []byte {
	return []byte("%PDF-1.4\n1 0 obj\n<< /Type /Catalog >>\nendobj\ntrailer\n<<>>\n%%EOF")
}

func TestApplicationSubmitStoresResumeAndReference(t *testing.T) {
	svc, jobs, storage := newApplicationServiceForTest(t)
	job := createTestJob(t, jobs, true)

	application, err := svc.Submit(context.Background(), job.ID, dto.ApplicationCreateRequest{
		Name:  "Maria Jensen",
		Email: "Maria.Jensen@Example.com",
	}, resumeFileHeader(t, "cv.pdf", pdfPayload()))
	require.NoError(t, err)

	require.Equal(t, job.ID, application.JobID)
	require.NotEmpty(t, application.Reference)
	require.Equal(t, models.ApplicationReceived, application.Status)
	require.Equal(t, "maria.jensen@example.com", application.Email, "email is normalized")
	require.Contains(t, application.ResumeURL, application.Reference)
	require.Len(t, storage.uploads, 1)

	found, err := svc.GetByReference(context.Background(), application.Reference)
	require.NoError(t, err)
	require.Equal(t, application.ID, found.ID)
}

func TestApplicationSubmitRejectsUnpublishedJob(t *testing.T) {
	svc, jobs, _ := newApplicationServiceForTest(t)
	job := createTestJob(t, jobs, false)

	_, err := svc.Submit(context.Background(), job.ID, dto.ApplicationCreateRequest{
		Name:  "Sam Lee",
		Email: "sam@example.com",
	}, resumeFileHeader(t, "cv.pdf", pdfPayload()))
	require.ErrorIs(t, err, ErrJobNotOpen)
}

func TestApplicationSubmitRejectsDisallowedMimeType(t *testing.T) {
	svc, jobs, storage := newApplicationServiceForTest(t)
	job := createTestJob(t, jobs, true)

	_, err := svc.Submit(context.Background(), job.ID, dto.ApplicationCreateRequest{
		Name:  "Sam Lee",
		Email: "sam@example.com",
	}, resumeFileHeader(t, "cv.exe", []byte{0x4D, 0x5A, 0x90, 0x00, 0x03}))
	require.ErrorIs(t, err, ErrResumeTypeNotAllowed)
	require.Empty(t, storage.uploads)
}

func TestApplicationSubmitRejectsOversizedResume(t *testing.T) {
	svc, jobs, _ := newApplicationServiceForTest(t)
	job := createTestJob(t, jobs, true)

	oversized := append(pdfPayload(), bytes.Repeat([]byte{'a'}, 2<<20)...)
	_, err := svc.Submit(context.Background(), job.ID, dto.ApplicationCreateRequest{
		Name:  "Sam Lee",
		Email: "sam@example.com",
	}, resumeFileHeader(t, "cv.pdf", oversized))
	require.ErrorIs(t, err, ErrResumeTooLarge)
}

func TestApplicationStatusPipeline(t *testing.T) {
	svc, jobs, _ := newApplicationServiceForTest(t)
	job := createTestJob(t, jobs, true)

	application, err := svc.Submit(context.Background(), job.ID, dto.ApplicationCreateRequest{
		Name:  "Maria Jensen",
		Email: "maria@example.com",
	}, resumeFileHeader(t, "cv.pdf", pdfPayload()))
	require.NoError(t, err)

	moved, err := svc.UpdateStatus(context.Background(), application.ID, models.ApplicationScreening)
	require.NoError(t, err)
	require.Equal(t, models.ApplicationScreening, moved.Status)

	_, err = svc.UpdateStatus(context.Background(), application.ID, "hired-on-the-spot")
	require.Error(t, err)
}

func TestApplicationListFilters(t *testing.T) {
	svc, jobs, _ := newApplicationServiceForTest(t)
	job := createTestJob(t, jobs, true)

	for i := 0; i < 3; i++ {
		_, err := svc.Submit(context.Background(), job.ID, dto.ApplicationCreateRequest{
			Name:  fmt.Sprintf("Candidate %d", i),
			Email: fmt.Sprintf("candidate%d@example.com", i),
		}, resumeFileHeader(t, "cv.pdf", pdfPayload()))
		require.NoError(t, err)
	}

	listed, err := svc.List(context.Background(), dto.ApplicationListRequest{PageSize: 10, Email: "candidate1@example.com"})
	require.NoError(t, err)
	require.Len(t, listed.Items, 1)

	all, err := svc.List(context.Background(), dto.ApplicationListRequest{PageSize: 2})
	require.NoError(t, err)
	require.Len(t, all.Items, 2)
	require.Equal(t, int64(3), all.Pagination.TotalItems)
}
