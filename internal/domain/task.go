package domain

import (
	"fmt"
	"strings"
	"time"
)

// TaskKind distinguishes resident-specific templates from facility-wide ones.
type TaskKind string

const (
	TaskKindSpecific TaskKind = "specific"
	TaskKindCommon   TaskKind = "common"
)

// InstanceStatus is the caregiver-mutable state of a daily task instance.
type InstanceStatus string

const (
	InstanceStatusPending InstanceStatus = "pending"
	InstanceStatusDone    InstanceStatus = "done"
)

// ActivityTemplate is a recurring task definition owned by a caregiver account.
type ActivityTemplate struct {
	ID          string
	OwnerID     string
	Label       string
	Kind        TaskKind
	DefaultTime TimeOfDay
	RepeatDays  Weekdays
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Validate checks the boundary invariants for a template.
func (t ActivityTemplate) Validate() error {
	if strings.TrimSpace(t.Label) == "" {
		return fmt.Errorf("%w: label is required", ErrInvalidInput)
	}
	if t.Kind != TaskKindSpecific && t.Kind != TaskKindCommon {
		return fmt.Errorf("%w: unknown task kind %q", ErrInvalidInput, t.Kind)
	}
	if err := t.RepeatDays.Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	return nil
}

// ResidentAssignment links a specific-kind template to one resident, carrying the
// template's repeat pattern and the effective scheduled time after the
// assignment-level override is applied against the template default.
type ResidentAssignment struct {
	ResidentID    string
	ActivityID    string
	OwnerID       string
	ScheduledTime *TimeOfDay
	DefaultTime   TimeOfDay
	RepeatDays    Weekdays
}

// EffectiveTime resolves the assignment override, falling back to the template default.
func (a ResidentAssignment) EffectiveTime() TimeOfDay {
	if a.ScheduledTime != nil {
		return *a.ScheduledTime
	}
	return a.DefaultTime
}

// DailyTaskInstance is one concrete, stateful occurrence of a template on one
// calendar day, for one resident or for the whole facility (ResidentID nil).
type DailyTaskInstance struct {
	ID            string
	ActivityID    string
	ResidentID    *string
	OwnerID       string
	Date          Date
	ScheduledTime *TimeOfDay
	Status        InstanceStatus
	Label         string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// Key returns the composite identity of the instance for membership tests.
func (i DailyTaskInstance) Key() InstanceKey {
	key := InstanceKey{ActivityID: i.ActivityID, Date: i.Date}
	if i.ResidentID != nil {
		key.ResidentID = *i.ResidentID
	}
	return key
}

// InstanceKey is the composite identity (activity, resident-or-none, date).
// An empty ResidentID stands for the facility-wide "no resident" slot.
type InstanceKey struct {
	ActivityID string
	ResidentID string
	Date       Date
}
