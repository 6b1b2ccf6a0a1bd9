package models

import (
	"time"

	"gorm.io/datatypes"
)

// Activity type tags. Every persisted record carries exactly one of these.
const (
	ActivityCreated       = "created"
	ActivityUpdated       = "updated"
	ActivityDeleted       = "deleted"
	ActivityNoteAdded     = "note_added"
	ActivityEmailSent     = "email_sent"
	ActivityTaskCreated   = "task_created"
	ActivityTaskCompleted = "task_completed"
	ActivityStatusChanged = "status_changed"
	ActivityStageChanged  = "stage_changed"
	ActivityCustom        = "custom"
)

// KnownActivityTypes enumerates every valid activity type tag.
var KnownActivityTypes = []string{
	ActivityCreated,
	ActivityUpdated,
	ActivityDeleted,
	ActivityNoteAdded,
	ActivityEmailSent,
	ActivityTaskCreated,
	ActivityTaskCompleted,
	ActivityStatusChanged,
	ActivityStageChanged,
	ActivityCustom,
}

// IsKnownActivityType reports whether the tag is one of the enumerated kinds.
func IsKnownActivityType(t string) bool {
	for _, known := range KnownActivityTypes {
		if t == known {
			return true
		}
	}
	return false
}

// Activity is a single write-once entry in the audit trail. The subject is the
// entity the record describes; the causer, when set, is the entity whose
// mutation produced the record (used for fan-out causation chains). No update
// or delete path exists for this model.
type Activity struct {
	ID                uint              `gorm:"primaryKey" json:"id"`
	SubjectType       string            `gorm:"size:32;not null;index:idx_activities_subject" json:"subject_type"`
	SubjectID         uint              `gorm:"not null;index:idx_activities_subject" json:"subject_id"`
	CauserType        *string           `gorm:"size:32" json:"causer_type"`
	CauserID          *uint             `json:"causer_id"`
	UserID            uint              `gorm:"not null;index" json:"user_id"`
	Type              string            `gorm:"size:32;not null;index" json:"type"`
	Description       string            `gorm:"type:text;not null" json:"description"`
	Properties        datatypes.JSONMap `gorm:"type:json" json:"properties"`
	IsSystemGenerated bool              `gorm:"not null;default:true" json:"is_system_generated"`
	CreatedAt         time.Time         `gorm:"index" json:"created_at"`
	UpdatedAt         time.Time         `json:"updated_at"`
}

// Subject returns the polymorphic subject reference of the record.
func (a Activity) Subject() EntityRef {
	return EntityRef{Kind: EntityKind(a.SubjectType), ID: a.SubjectID}
}

// Causer returns the causing entity reference, if one was recorded.
func (a Activity) Causer() (EntityRef, bool) {
	if a.CauserType == nil || a.CauserID == nil {
		return EntityRef{}, false
	}
	return EntityRef{Kind: EntityKind(*a.CauserType), ID: *a.CauserID}, true
}
