package models

import (
	"time"

	"gorm.io/gorm"
)

// Job employment types.
const (
	EmploymentFullTime  = "full_time"
	EmploymentPartTime  = "part_time"
	EmploymentContract  = "contract"
	EmploymentTemporary = "temporary"
)

// Application pipeline statuses.
const (
	ApplicationReceived  = "received"
	ApplicationScreening = "screening"
	ApplicationInterview = "interview"
	ApplicationOffered   = "offered"
	ApplicationRejected  = "rejected"
)

// JobCategory groups published jobs on the public board.
type JobCategory struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"size:128;not null;uniqueIndex" json:"name"`
	Slug      string    `gorm:"size:128;not null;uniqueIndex" json:"slug"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Job is a vacancy posted on the job board on behalf of a client company.
// Description holds sanitized HTML.
type Job struct {
	ID             uint           `gorm:"primaryKey" json:"id"`
	Title          string         `gorm:"size:255;not null" json:"title"`
	Slug           string         `gorm:"size:255;not null;uniqueIndex" json:"slug"`
	CategoryID     uint           `gorm:"not null;index" json:"category_id"`
	CompanyID      *uint          `gorm:"index" json:"company_id"`
	Location       string         `gorm:"size:128;index" json:"location"`
	EmploymentType string         `gorm:"size:32;not null;default:full_time" json:"employment_type"`
	SalaryMin      int            `json:"salary_min"`
	SalaryMax      int            `json:"salary_max"`
	Description    string         `gorm:"type:text" json:"description"`
	IsPublished    bool           `gorm:"not null;default:false;index" json:"is_published"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
	DeletedAt      gorm.DeletedAt `gorm:"index" json:"-"`
}

// JobApplication is a candidate submission against a published job. Reference
// is an externally shareable identifier handed back to the applicant.
type JobApplication struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	JobID       uint      `gorm:"not null;index" json:"job_id"`
	Reference   string    `gorm:"size:64;not null;uniqueIndex" json:"reference"`
	Name        string    `gorm:"size:255;not null" json:"name"`
	Email       string    `gorm:"size:255;not null;index" json:"email"`
	Phone       string    `gorm:"size:64" json:"phone"`
	CoverLetter string    `gorm:"type:text" json:"cover_letter"`
	ResumeURL   string    `gorm:"size:512" json:"resume_url"`
	Status      string    `gorm:"size:32;not null;default:received;index" json:"status"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
