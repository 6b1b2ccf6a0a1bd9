package models

import (
	"time"

	"gorm.io/gorm"
)

// Task statuses. Completed is reached only through the explicit complete
// action; the reverse transition is a plain field update.
const (
	TaskStatusNotStarted = "not_started"
	TaskStatusInProgress = "in_progress"
	TaskStatusCompleted  = "completed"
	TaskStatusDeferred   = "deferred"
	TaskStatusWaiting    = "waiting"
	TaskStatusCancelled  = "cancelled"
)

// Task priorities.
const (
	TaskPriorityLow    = "low"
	TaskPriorityNormal = "normal"
	TaskPriorityHigh   = "high"
)

// Task is a follow-up item, optionally linked to a company, contact and
// opportunity. Completing it fans activity records out to those links.
type Task struct {
	ID            uint           `gorm:"primaryKey" json:"id"`
	Title         string         `gorm:"size:255;not null" json:"title"`
	Description   string         `gorm:"type:text" json:"description"`
	DueDate       *time.Time     `json:"due_date"`
	Priority      string         `gorm:"size:16;not null;default:normal" json:"priority"`
	Status        string         `gorm:"size:32;not null;default:not_started;index" json:"status"`
	CompletedAt   *time.Time     `json:"completed_at"`
	CompanyID     *uint          `gorm:"index" json:"company_id"`
	ContactID     *uint          `gorm:"index" json:"contact_id"`
	OpportunityID *uint          `gorm:"index" json:"opportunity_id"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"-"`
}

// IsCompleted reports whether the task reached the terminal completed state.
func (t *Task) IsCompleted() bool {
	return t.Status == TaskStatusCompleted
}

// Ref implements Auditable.
func (t *Task) Ref() EntityRef {
	return EntityRef{Kind: KindTask, ID: t.ID}
}

// Label implements Auditable.
func (t *Task) Label() string {
	return "task " + t.Title
}

// AuditAttributes implements Auditable. CompletedAt is excluded: it is set by
// the completion state machine, not by generic field updates.
func (t *Task) AuditAttributes() map[string]interface{} {
	attrs := map[string]interface{}{
		"title":       t.Title,
		"description": t.Description,
		"priority":    t.Priority,
		"status":      t.Status,
	}
	if t.DueDate != nil {
		attrs["due_date"] = t.DueDate.Format(time.RFC3339)
	} else {
		attrs["due_date"] = nil
	}
	if t.CompanyID != nil {
		attrs["company_id"] = *t.CompanyID
	} else {
		attrs["company_id"] = nil
	}
	if t.ContactID != nil {
		attrs["contact_id"] = *t.ContactID
	} else {
		attrs["contact_id"] = nil
	}
	if t.OpportunityID != nil {
		attrs["opportunity_id"] = *t.OpportunityID
	} else {
		attrs["opportunity_id"] = nil
	}
	return attrs
}

// RelatedRefs implements Auditable. Each non-null link contributes one
// fan-out target.
func (t *Task) RelatedRefs() []EntityRef {
	refs := make([]EntityRef, 0, 3)
	if t.CompanyID != nil {
		refs = append(refs, EntityRef{Kind: KindCompany, ID: *t.CompanyID})
	}
	if t.ContactID != nil {
		refs = append(refs, EntityRef{Kind: KindContact, ID: *t.ContactID})
	}
	if t.OpportunityID != nil {
		refs = append(refs, EntityRef{Kind: KindOpportunity, ID: *t.OpportunityID})
	}
	return refs
}
