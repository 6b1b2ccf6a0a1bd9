package dto

import (
	"time"

	"github.com/talentforge/crm-api/internal/models"
)

// TaskCreateRequest captures a new task payload.
type TaskCreateRequest struct {
	Title         string `json:"title" validate:"required,min=2,max=255"`
	Description   string `json:"description" validate:"omitempty,max=5000"`
	DueDate       string `json:"due_date" validate:"omitempty,datetime=2006-01-02T15:04:05Z07:00"`
	Priority      string `json:"priority" validate:"omitempty,oneof=low normal high"`
	CompanyID     *uint  `json:"company_id"`
	ContactID     *uint  `json:"contact_id"`
	OpportunityID *uint  `json:"opportunity_id"`
}

// TaskUpdateRequest captures a partial task update. The completed status is
// unreachable here; completion has its own endpoint and state machine.
type TaskUpdateRequest struct {
	Title         *string `json:"title" validate:"omitempty,min=2,max=255"`
	Description   *string `json:"description" validate:"omitempty,max=5000"`
	DueDate       *string `json:"due_date" validate:"omitempty,datetime=2006-01-02T15:04:05Z07:00"`
	Priority      *string `json:"priority" validate:"omitempty,oneof=low normal high"`
	Status        *string `json:"status" validate:"omitempty,oneof=not_started in_progress deferred waiting cancelled"`
	CompanyID     *uint   `json:"company_id"`
	ContactID     *uint   `json:"contact_id"`
	OpportunityID *uint   `json:"opportunity_id"`
}

// TaskListRequest defines filters for listing tasks.
type TaskListRequest struct {
	Page          int
	PageSize      int
	Search        string
	Status        string
	CompanyID     *uint
	ContactID     *uint
	OpportunityID *uint
}

// TaskResponse serializes a task.
type TaskResponse struct {
	ID            uint       `json:"id"`
	Title         string     `json:"title"`
	Description   string     `json:"description"`
	DueDate       *time.Time `json:"due_date"`
	Priority      string     `json:"priority"`
	Status        string     `json:"status"`
	CompletedAt   *time.Time `json:"completed_at"`
	CompanyID     *uint      `json:"company_id"`
	ContactID     *uint      `json:"contact_id"`
	OpportunityID *uint      `json:"opportunity_id"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

// TaskListResponse wraps a paginated task listing.
type TaskListResponse struct {
	Items      []TaskResponse `json:"items"`
	Pagination PaginationMeta `json:"pagination"`
}

// NewTaskResponse converts a task model into a DTO.
func NewTaskResponse(task models.Task) TaskResponse {
	return TaskResponse{
		ID:            task.ID,
		Title:         task.Title,
		Description:   task.Description,
		DueDate:       task.DueDate,
		Priority:      task.Priority,
		Status:        task.Status,
		CompletedAt:   task.CompletedAt,
		CompanyID:     task.CompanyID,
		ContactID:     task.ContactID,
		OpportunityID: task.OpportunityID,
		CreatedAt:     task.CreatedAt,
		UpdatedAt:     task.UpdatedAt,
	}
}
