package dto

import (
	"time"

	"github.com/talentforge/crm-api/internal/models"
)

// ActivityListRequest defines filters for a subject's activity trail.
type ActivityListRequest struct {
	Page            int
	PageSize        int
	Type            string
	UserID          *uint
	CreatedAfter    *time.Time
	CreatedBefore   *time.Time
	SystemGenerated *bool
}

// ActivityResponse serializes a single audit record.
type ActivityResponse struct {
	ID                uint                   `json:"id"`
	SubjectType       string                 `json:"subject_type"`
	SubjectID         uint                   `json:"subject_id"`
	CauserType        *string                `json:"causer_type,omitempty"`
	CauserID          *uint                  `json:"causer_id,omitempty"`
	UserID            uint                   `json:"user_id"`
	Type              string                 `json:"type"`
	Description       string                 `json:"description"`
	Properties        map[string]interface{} `json:"properties"`
	IsSystemGenerated bool                   `json:"is_system_generated"`
	CreatedAt         time.Time              `json:"created_at"`
}

// ActivityListResponse wraps a paginated activity trail.
type ActivityListResponse struct {
	Items      []ActivityResponse `json:"items"`
	Pagination PaginationMeta     `json:"pagination"`
}

// ActivityCountsResponse maps activity types to record counts for dashboards.
type ActivityCountsResponse struct {
	Counts map[string]int64 `json:"counts"`
}

// ActivitySummaryResponse is the dashboard widget payload: the latest trail
// entries plus per-type totals across all subjects.
type ActivitySummaryResponse struct {
	Recent []ActivityResponse `json:"recent"`
	Counts map[string]int64   `json:"counts"`
}

// NoteRequest captures an explicit user note against an entity.
type NoteRequest struct {
	Text string `json:"text" validate:"required,min=1,max=5000"`
}

// CustomActivityRequest records an ad-hoc entry (for example an email sent
// outside the system) against an entity.
type CustomActivityRequest struct {
	Type        string                 `json:"type" validate:"required,oneof=email_sent custom"`
	Description string                 `json:"description" validate:"required,min=1,max=2000"`
	Properties  map[string]interface{} `json:"properties"`
}

// NewActivityResponse converts an activity model into a DTO.
func NewActivityResponse(record models.Activity) ActivityResponse {
	return ActivityResponse{
		ID:                record.ID,
		SubjectType:       record.SubjectType,
		SubjectID:         record.SubjectID,
		CauserType:        record.CauserType,
		CauserID:          record.CauserID,
		UserID:            record.UserID,
		Type:              record.Type,
		Description:       record.Description,
		Properties:        map[string]interface{}(record.Properties),
		IsSystemGenerated: record.IsSystemGenerated,
		CreatedAt:         record.CreatedAt,
	}
}
