package models

import "fmt"

// EntityKind identifies an auditable domain entity type.
type EntityKind string

const (
	KindCompany     EntityKind = "company"
	KindContact     EntityKind = "contact"
	KindOpportunity EntityKind = "opportunity"
	KindTask        EntityKind = "task"
)

// KnownEntityKinds lists every kind that can appear as an activity subject.
var KnownEntityKinds = []EntityKind{KindCompany, KindContact, KindOpportunity, KindTask}

// ParseEntityKind validates a raw kind string coming from the HTTP layer.
func ParseEntityKind(raw string) (EntityKind, error) {
	kind := EntityKind(raw)
	for _, known := range KnownEntityKinds {
		if kind == known {
			return kind, nil
		}
	}
	return "", fmt.Errorf("unknown entity kind %q", raw)
}

// EntityRef is a polymorphic (kind, id) reference to an auditable entity.
type EntityRef struct {
	Kind EntityKind
	ID   uint
}

// Auditable is implemented by every entity whose mutations are recorded in the
// activity trail. AuditAttributes returns the tracked field set only; volatile
// columns such as timestamps must not appear in it.
type Auditable interface {
	Ref() EntityRef
	Label() string
	AuditAttributes() map[string]interface{}
	// RelatedRefs returns the subjects that composite actions fan out to.
	// Empty for every kind except Task.
	RelatedRefs() []EntityRef
}

// SystemUserID is the well-known identity recorded when no authenticated
// actor is present. The default is applied at the HTTP boundary, never inside
// the audit core.
const SystemUserID uint = 0

// Actor is the acting human or system user, threaded explicitly through every
// mutation call.
type Actor struct {
	ID   uint
	Name string
}

// SystemActor returns the fallback actor for unauthenticated or internal calls.
func SystemActor() Actor {
	return Actor{ID: SystemUserID, Name: "system"}
}
