package dto

import (
	"time"

	"github.com/talentforge/crm-api/internal/models"
)

// OpportunityCreateRequest captures a new opportunity payload.
type OpportunityCreateRequest struct {
	Title     string  `json:"title" validate:"required,min=2,max=255"`
	Amount    float64 `json:"amount" validate:"omitempty,gte=0"`
	CloseDate string  `json:"close_date" validate:"omitempty,datetime=2006-01-02T15:04:05Z07:00"`
	StageID   uint    `json:"stage_id" validate:"required,gt=0"`
	CompanyID *uint   `json:"company_id"`
	ContactID *uint   `json:"contact_id"`
}

// OpportunityUpdateRequest captures a partial opportunity update. Stage moves
// go through the dedicated stage endpoint, not here.
type OpportunityUpdateRequest struct {
	Title     *string  `json:"title" validate:"omitempty,min=2,max=255"`
	Amount    *float64 `json:"amount" validate:"omitempty,gte=0"`
	CloseDate *string  `json:"close_date" validate:"omitempty,datetime=2006-01-02T15:04:05Z07:00"`
	CompanyID *uint    `json:"company_id"`
	ContactID *uint    `json:"contact_id"`
}

// OpportunityStageRequest captures an explicit pipeline stage move.
type OpportunityStageRequest struct {
	StageID uint `json:"stage_id" validate:"required,gt=0"`
}

// OpportunityListRequest defines filters for listing opportunities.
type OpportunityListRequest struct {
	Page      int
	PageSize  int
	Search    string
	StageID   *uint
	CompanyID *uint
}

// OpportunityResponse serializes an opportunity.
type OpportunityResponse struct {
	ID        uint       `json:"id"`
	Title     string     `json:"title"`
	Amount    float64    `json:"amount"`
	CloseDate *time.Time `json:"close_date"`
	StageID   uint       `json:"stage_id"`
	CompanyID *uint      `json:"company_id"`
	ContactID *uint      `json:"contact_id"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// OpportunityListResponse wraps a paginated opportunity listing.
type OpportunityListResponse struct {
	Items      []OpportunityResponse `json:"items"`
	Pagination PaginationMeta        `json:"pagination"`
}

// PipelineStageResponse serializes a pipeline stage.
type PipelineStageResponse struct {
	ID       uint   `json:"id"`
	Name     string `json:"name"`
	Position int    `json:"position"`
}

// NewOpportunityResponse converts an opportunity model into a DTO.
func NewOpportunityResponse(opportunity models.Opportunity) OpportunityResponse {
	return OpportunityResponse{
		ID:        opportunity.ID,
		Title:     opportunity.Title,
		Amount:    opportunity.Amount,
		CloseDate: opportunity.CloseDate,
		StageID:   opportunity.StageID,
		CompanyID: opportunity.CompanyID,
		ContactID: opportunity.ContactID,
		CreatedAt: opportunity.CreatedAt,
		UpdatedAt: opportunity.UpdatedAt,
	}
}

// NewPipelineStageResponse converts a stage model into a DTO.
func NewPipelineStageResponse(stage models.PipelineStage) PipelineStageResponse {
	return PipelineStageResponse{
		ID:       stage.ID,
		Name:     stage.Name,
		Position: stage.Position,
	}
}
