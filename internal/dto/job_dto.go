package dto

import (
	"time"

	"github.com/talentforge/crm-api/internal/models"
)

// JobCreateRequest captures a new job posting.
type JobCreateRequest struct {
	Title          string `json:"title" validate:"required,min=3,max=255"`
	CategoryID     uint   `json:"category_id" validate:"required,gt=0"`
	CompanyID      *uint  `json:"company_id"`
	Location       string `json:"location" validate:"omitempty,max=128"`
	EmploymentType string `json:"employment_type" validate:"omitempty,oneof=full_time part_time contract temporary"`
	SalaryMin      int    `json:"salary_min" validate:"omitempty,gte=0"`
	SalaryMax      int    `json:"salary_max" validate:"omitempty,gte=0"`
	Description    string `json:"description" validate:"omitempty,max=20000"`
	IsPublished    bool   `json:"is_published"`
}

// JobUpdateRequest captures a partial job update.
type JobUpdateRequest struct {
	Title          *string `json:"title" validate:"omitempty,min=3,max=255"`
	CategoryID     *uint   `json:"category_id" validate:"omitempty,gt=0"`
	CompanyID      *uint   `json:"company_id"`
	Location       *string `json:"location" validate:"omitempty,max=128"`
	EmploymentType *string `json:"employment_type" validate:"omitempty,oneof=full_time part_time contract temporary"`
	SalaryMin      *int    `json:"salary_min" validate:"omitempty,gte=0"`
	SalaryMax      *int    `json:"salary_max" validate:"omitempty,gte=0"`
	Description    *string `json:"description" validate:"omitempty,max=20000"`
	IsPublished    *bool   `json:"is_published"`
}

// JobListRequest defines filters for the job board.
type JobListRequest struct {
	Page          int
	PageSize      int
	Search        string
	CategoryID    *uint
	Location      string
	PublishedOnly bool
}

// JobResponse serializes a job posting.
type JobResponse struct {
	ID             uint      `json:"id"`
	Title          string    `json:"title"`
	Slug           string    `json:"slug"`
	CategoryID     uint      `json:"category_id"`
	CompanyID      *uint     `json:"company_id"`
	Location       string    `json:"location"`
	EmploymentType string    `json:"employment_type"`
	SalaryMin      int       `json:"salary_min"`
	SalaryMax      int       `json:"salary_max"`
	Description    string    `json:"description"`
	IsPublished    bool      `json:"is_published"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// JobListResponse wraps a paginated job listing.
type JobListResponse struct {
	Items      []JobResponse  `json:"items"`
	Pagination PaginationMeta `json:"pagination"`
}

// JobCategoryRequest captures a new job category.
type JobCategoryRequest struct {
	Name string `json:"name" validate:"required,min=2,max=128"`
}

// JobCategoryResponse serializes a job category.
type JobCategoryResponse struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
	Slug string `json:"slug"`
}

// ApplicationCreateRequest captures a candidate submission. The resume file
// travels as multipart alongside this payload.
type ApplicationCreateRequest struct {
	Name        string `json:"name" form:"name" validate:"required,min=2,max=255"`
	Email       string `json:"email" form:"email" validate:"required,email,max=255"`
	Phone       string `json:"phone" form:"phone" validate:"omitempty,max=64"`
	CoverLetter string `json:"cover_letter" form:"cover_letter" validate:"omitempty,max=10000"`
}

// ApplicationStatusRequest captures an admin pipeline move for an application.
type ApplicationStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=received screening interview offered rejected"`
}

// ApplicationListRequest defines filters for listing applications.
type ApplicationListRequest struct {
	Page     int
	PageSize int
	JobID    *uint
	Status   string
	Email    string
}

// ApplicationResponse serializes a job application.
type ApplicationResponse struct {
	ID          uint      `json:"id"`
	JobID       uint      `json:"job_id"`
	Reference   string    `json:"reference"`
	Name        string    `json:"name"`
	Email       string    `json:"email"`
	Phone       string    `json:"phone"`
	CoverLetter string    `json:"cover_letter"`
	ResumeURL   string    `json:"resume_url"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
}

// ApplicationListResponse wraps a paginated application listing.
type ApplicationListResponse struct {
	Items      []ApplicationResponse `json:"items"`
	Pagination PaginationMeta        `json:"pagination"`
}

// NewJobResponse converts a job model into a DTO.
func NewJobResponse(job models.Job) JobResponse {
	return JobResponse{
		ID:             job.ID,
		Title:          job.Title,
		Slug:           job.Slug,
		CategoryID:     job.CategoryID,
		CompanyID:      job.CompanyID,
		Location:       job.Location,
		EmploymentType: job.EmploymentType,
		SalaryMin:      job.SalaryMin,
		SalaryMax:      job.SalaryMax,
		Description:    job.Description,
		IsPublished:    job.IsPublished,
		CreatedAt:      job.CreatedAt,
		UpdatedAt:      job.UpdatedAt,
	}
}

// NewJobCategoryResponse converts a category model into a DTO.
func NewJobCategoryResponse(category models.JobCategory) JobCategoryResponse {
	return JobCategoryResponse{
		ID:   category.ID,
		Name: category.Name,
		Slug: category.Slug,
	}
}

// NewApplicationResponse converts an application model into a DTO.
func NewApplicationResponse(application models.JobApplication) ApplicationResponse {
	return ApplicationResponse{
		ID:          application.ID,
		JobID:       application.JobID,
		Reference:   application.Reference,
		Name:        application.Name,
		Email:       application.Email,
		Phone:       application.Phone,
		CoverLetter: application.CoverLetter,
		ResumeURL:   application.ResumeURL,
		Status:      application.Status,
		CreatedAt:   application.CreatedAt,
	}
}
