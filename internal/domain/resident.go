package domain

import (
	"fmt"
	"strings"
	"time"
)

// Resident is a person under the facility's care.
type Resident struct {
	ID              string
	OwnerID         string
	Name            string
	Age             *int
	RoomNumber      string
	Condition       string
	GuardianName    string
	GuardianContact string
	PhotoURL        string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// Validate checks the boundary invariants for a resident record.
func (r Resident) Validate() error {
	if strings.TrimSpace(r.Name) == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidInput)
	}
	if r.Age != nil && (*r.Age < 0 || *r.Age > 150) {
		return fmt.Errorf("%w: age out of range", ErrInvalidInput)
	}
	return nil
}

// VitalsEntry is one timestamped vitals reading for a resident.
type VitalsEntry struct {
	ID         string
	ResidentID string
	OwnerID    string
	Date       Date
	Time       TimeOfDay
	BP         string
	Temp       string
	Pulse      string
	Resp       string
	SpO2       string
	Sugar      string
	Insulin    string
	CreatedAt  time.Time
}

// IntakeOutputEntry is one fluid intake / output log line for a resident.
type IntakeOutputEntry struct {
	ID         string
	ResidentID string
	OwnerID    string
	Date       Date
	Time       TimeOfDay
	IntakeML   *int
	UrineML    *int
	Stool      string
	CreatedAt  time.Time
}

// Validate rejects entries carrying no measurement at all.
func (e IntakeOutputEntry) Validate() error {
	if e.IntakeML == nil && e.UrineML == nil && strings.TrimSpace(e.Stool) == "" {
		return fmt.Errorf("%w: intake/output entry is empty", ErrInvalidInput)
	}
	return nil
}
