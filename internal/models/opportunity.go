package models

import (
	"time"

	"gorm.io/gorm"
)

// PipelineStage is a named position in the sales pipeline. Stages are seeded
// at startup and referenced by opportunities.
type PipelineStage struct {
	ID       uint   `gorm:"primaryKey" json:"id"`
	Name     string `gorm:"size:128;not null;uniqueIndex" json:"name"`
	Position int    `gorm:"not null" json:"position"`
}

// DefaultPipelineStages returns the seed stage set applied on first boot.
func DefaultPipelineStages() []PipelineStage {
	return []PipelineStage{
		{Name: "Qualification", Position: 1},
		{Name: "Needs Analysis", Position: 2},
		{Name: "Proposal", Position: 3},
		{Name: "Negotiation", Position: 4},
		{Name: "Closed Won", Position: 5},
		{Name: "Closed Lost", Position: 6},
	}
}

// Opportunity is a potential placement deal in the pipeline.
type Opportunity struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	Title     string         `gorm:"size:255;not null" json:"title"`
	Amount    float64        `json:"amount"`
	CloseDate *time.Time     `json:"close_date"`
	StageID   uint           `gorm:"not null;index" json:"stage_id"`
	CompanyID *uint          `gorm:"index" json:"company_id"`
	ContactID *uint          `gorm:"index" json:"contact_id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// Ref implements Auditable.
func (o *Opportunity) Ref() EntityRef {
	return EntityRef{Kind: KindOpportunity, ID: o.ID}
}

// Label implements Auditable.
func (o *Opportunity) Label() string {
	return "opportunity " + o.Title
}

// AuditAttributes implements Auditable.
func (o *Opportunity) AuditAttributes() map[string]interface{} {
	attrs := map[string]interface{}{
		"title":    o.Title,
		"amount":   o.Amount,
		"stage_id": o.StageID,
	}
	if o.CloseDate != nil {
		attrs["close_date"] = o.CloseDate.Format(time.RFC3339)
	} else {
		attrs["close_date"] = nil
	}
	if o.CompanyID != nil {
		attrs["company_id"] = *o.CompanyID
	} else {
		attrs["company_id"] = nil
	}
	if o.ContactID != nil {
		attrs["contact_id"] = *o.ContactID
	} else {
		attrs["contact_id"] = nil
	}
	return attrs
}

// RelatedRefs implements Auditable.
func (o *Opportunity) RelatedRefs() []EntityRef {
	return nil
}
