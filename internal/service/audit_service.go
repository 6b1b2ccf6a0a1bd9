package service

import (
	"context"
	"fmt"
	"reflect"
	"time"

	"github.com/rs/zerolog"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/talentforge/crm-api/internal/models"
	"github.com/talentforge/crm-api/internal/observability"
	"github.com/talentforge/crm-api/internal/repository"
)

// AuditEntry is the raw payload handed to the activity store.
type AuditEntry struct {
	Subject           models.EntityRef
	Causer            *models.EntityRef
	UserID            uint
	Type              string
	Description       string
	Properties        map[string]interface{}
	IsSystemGenerated bool
}

// AuditRecorder decides, for every mutation of an auditable entity, what to
// write to the activity store. Automatic triggers take the caller's
// transaction so the audit write and the entity mutation commit atomically:
// if either fails, both roll back. The recorder holds no state between calls.
type AuditRecorder interface {
	Record(ctx context.Context, tx *gorm.DB, entry AuditEntry) (models.Activity, error)
	OnCreated(ctx context.Context, tx *gorm.DB, actor models.Actor, entity models.Auditable) error
	// OnUpdated diffs the before/after snapshots and writes an updated record
	// iff at least one tracked field changed. Returns whether a record was
	// written.
	OnUpdated(ctx context.Context, tx *gorm.DB, actor models.Actor, entity models.Auditable, before, after map[string]interface{}) (bool, error)
	OnDeleted(ctx context.Context, tx *gorm.DB, actor models.Actor, entity models.Auditable) error
	// RecordStatusChange is a no-op when old equals new.
	RecordStatusChange(ctx context.Context, tx *gorm.DB, actor models.Actor, entity models.Auditable, oldStatus, newStatus string) error
	RecordStageChange(ctx context.Context, tx *gorm.DB, actor models.Actor, entity models.Auditable, oldStage, newStage models.PipelineStage) error
	// RecordTaskCompleted writes the completion record on the task and fans
	// identical-shaped records out to every related subject.
	RecordTaskCompleted(ctx context.Context, tx *gorm.DB, actor models.Actor, task *models.Task) error
	// AddNote records a user-generated note; the description is the note text
	// verbatim.
	AddNote(ctx context.Context, actor models.Actor, subject models.EntityRef, text string) (models.Activity, error)
}

type auditService struct {
	activities repository.ActivityRepository
	logger     zerolog.Logger
}

// NewAuditService constructs the activity recorder.
func NewAuditService(activities repository.ActivityRepository, logger zerolog.Logger) AuditRecorder {
	return &auditService{
		activities: activities,
		logger:     logger.With().Str("component", "audit_service").Logger(),
	}
}

// DiffAttributes compares two tracked-attribute snapshots by value and
// returns the old and new values of every key that genuinely changed.
// Assigning a field its current value is not a change.
func DiffAttributes(before, after map[string]interface{}) (map[string]interface{}, map[string]interface{}) {
	oldValues := map[string]interface{}{}
	newValues := map[string]interface{}{}

	for key, prev := range before {
		next, ok := after[key]
		if !ok {
			oldValues[key] = prev
			newValues[key] = nil
			continue
		}
		if !reflect.DeepEqual(prev, next) {
			oldValues[key] = prev
			newValues[key] = next
		}
	}
	for key, next := range after {
		if _, ok := before[key]; !ok {
			oldValues[key] = nil
			newValues[key] = next
		}
	}

	return oldValues, newValues
}

func (s *auditService) Record(ctx context.Context, tx *gorm.DB, entry AuditEntry) (models.Activity, error) {
	if entry.Subject.Kind == "" || entry.Subject.ID == 0 {
		return models.Activity{}, fmt.Errorf("activity subject must be set")
	}
	if !models.IsKnownActivityType(entry.Type) {
		return models.Activity{}, fmt.Errorf("unknown activity type %q", entry.Type)
	}

	record := models.Activity{
		SubjectType:       string(entry.Subject.Kind),
		SubjectID:         entry.Subject.ID,
		UserID:            entry.UserID,
		Type:              entry.Type,
		Description:       entry.Description,
		Properties:        toJSONMap(entry.Properties),
		IsSystemGenerated: entry.IsSystemGenerated,
	}
	if entry.Causer != nil {
		causerType := string(entry.Causer.Kind)
		causerID := entry.Causer.ID
		record.CauserType = &causerType
		record.CauserID = &causerID
	}

	if err := s.activities.WithTx(tx).Create(ctx, &record); err != nil {
		s.logger.Error().Err(err).
			Str("type", entry.Type).
			Str("subject_type", record.SubjectType).
			Uint("subject_id", record.SubjectID).
			Msg("failed to persist activity record")
		return models.Activity{}, err
	}

	observability.ActivitiesRecorded().WithLabelValues(entry.Type).Inc()
	return record, nil
}

func (s *auditService) OnCreated(ctx context.Context, tx *gorm.DB, actor models.Actor, entity models.Auditable) error {
	_, err := s.Record(ctx, tx, AuditEntry{
		Subject:           entity.Ref(),
		UserID:            actor.ID,
		Type:              models.ActivityCreated,
		Description:       "Created " + entity.Label(),
		Properties:        map[string]interface{}{"attributes": entity.AuditAttributes()},
		IsSystemGenerated: true,
	})
	return err
}

func (s *auditService) OnUpdated(ctx context.Context, tx *gorm.DB, actor models.Actor, entity models.Auditable, before, after map[string]interface{}) (bool, error) {
	oldValues, newValues := DiffAttributes(before, after)
	if len(newValues) == 0 {
		return false, nil
	}

	_, err := s.Record(ctx, tx, AuditEntry{
		Subject:     entity.Ref(),
		UserID:      actor.ID,
		Type:        models.ActivityUpdated,
		Description: "Updated " + entity.Label(),
		Properties: map[string]interface{}{
			"old": oldValues,
			"new": newValues,
		},
		IsSystemGenerated: true,
	})
	if err != nil {
		return false, err
	}
	return true, nil
}

func (s *auditService) OnDeleted(ctx context.Context, tx *gorm.DB, actor models.Actor, entity models.Auditable) error {
	_, err := s.Record(ctx, tx, AuditEntry{
		Subject:           entity.Ref(),
		UserID:            actor.ID,
		Type:              models.ActivityDeleted,
		Description:       "Deleted " + entity.Label(),
		Properties:        map[string]interface{}{"attributes": entity.AuditAttributes()},
		IsSystemGenerated: true,
	})
	return err
}

func (s *auditService) RecordStatusChange(ctx context.Context, tx *gorm.DB, actor models.Actor, entity models.Auditable, oldStatus, newStatus string) error {
	if oldStatus == newStatus {
		return nil
	}

	_, err := s.Record(ctx, tx, AuditEntry{
		Subject: entity.Ref(),
		UserID:  actor.ID,
		Type:    models.ActivityStatusChanged,
		Description: fmt.Sprintf("Status changed from %s to %s",
			models.CompanyStatusLabel(oldStatus), models.CompanyStatusLabel(newStatus)),
		Properties: map[string]interface{}{
			"old_status": oldStatus,
			"new_status": newStatus,
		},
		IsSystemGenerated: true,
	})
	return err
}

func (s *auditService) RecordStageChange(ctx context.Context, tx *gorm.DB, actor models.Actor, entity models.Auditable, oldStage, newStage models.PipelineStage) error {
	if oldStage.ID == newStage.ID {
		return nil
	}

	_, err := s.Record(ctx, tx, AuditEntry{
		Subject:     entity.Ref(),
		UserID:      actor.ID,
		Type:        models.ActivityStageChanged,
		Description: fmt.Sprintf("Moved from %s to %s", oldStage.Name, newStage.Name),
		Properties: map[string]interface{}{
			"old_stage_id": oldStage.ID,
			"new_stage_id": newStage.ID,
		},
		IsSystemGenerated: true,
	})
	return err
}

func (s *auditService) RecordTaskCompleted(ctx context.Context, tx *gorm.DB, actor models.Actor, task *models.Task) error {
	completedAt := time.Now()
	if task.CompletedAt != nil {
		completedAt = *task.CompletedAt
	}

	description := "Task completed: " + task.Title
	properties := map[string]interface{}{
		"task_id":      task.ID,
		"completed_at": completedAt.Format(time.RFC3339),
	}

	if _, err := s.Record(ctx, tx, AuditEntry{
		Subject:           task.Ref(),
		UserID:            actor.ID,
		Type:              models.ActivityTaskCompleted,
		Description:       description,
		Properties:        properties,
		IsSystemGenerated: true,
	}); err != nil {
		return err
	}

	// Fan out to every linked subject with the task as the causer.
	taskRef := task.Ref()
	for _, related := range task.RelatedRefs() {
		if _, err := s.Record(ctx, tx, AuditEntry{
			Subject:           related,
			Causer:            &taskRef,
			UserID:            actor.ID,
			Type:              models.ActivityTaskCompleted,
			Description:       description,
			Properties:        properties,
			IsSystemGenerated: true,
		}); err != nil {
			return err
		}
	}

	return nil
}

func (s *auditService) AddNote(ctx context.Context, actor models.Actor, subject models.EntityRef, text string) (models.Activity, error) {
	return s.Record(ctx, nil, AuditEntry{
		Subject:           subject,
		UserID:            actor.ID,
		Type:              models.ActivityNoteAdded,
		Description:       text,
		Properties:        map[string]interface{}{},
		IsSystemGenerated: false,
	})
}

func toJSONMap(properties map[string]interface{}) datatypes.JSONMap {
	if properties == nil {
		return datatypes.JSONMap{}
	}
	return datatypes.JSONMap(properties)
}
