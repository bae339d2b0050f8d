// Package events defines the event payloads published by the care service.
package events

import "time"

// TaskInstanceCreated is emitted once per daily task instance the schedule
// expander materializes. ResidentID is empty for facility-wide tasks.
type TaskInstanceCreated struct {
	InstanceID    string    `json:"instance_id"`
	ActivityID    string    `json:"activity_id"`
	ResidentID    string    `json:"resident_id,omitempty"`
	OwnerID       string    `json:"owner_id"`
	Date          string    `json:"date"`
	ScheduledTime string    `json:"scheduled_time,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}

// TaskInstanceStatusChanged tracks caregiver toggles for the audit trail and
// optimistic UI flows.
type TaskInstanceStatusChanged struct {
	InstanceID string    `json:"instance_id"`
	ActivityID string    `json:"activity_id"`
	ResidentID string    `json:"resident_id,omitempty"`
	OwnerID    string    `json:"owner_id"`
	Date       string    `json:"date"`
	Status     string    `json:"status"`
	OccurredAt time.Time `json:"occurred_at"`
}
