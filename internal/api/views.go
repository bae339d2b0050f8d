package api

import (
	"errors"
	"strings"
	"time"

	"example.com/care/internal/domain"
)

// ResidentRequest is the payload for creating or updating a resident.
type ResidentRequest struct {
	Name            string `json:"name"`
	Age             *int   `json:"age,omitempty"`
	RoomNumber      string `json:"room_number,omitempty"`
	Condition       string `json:"condition,omitempty"`
	GuardianName    string `json:"guardian_name,omitempty"`
	GuardianContact string `json:"guardian_contact,omitempty"`
	PhotoURL        string `json:"photo_url,omitempty"`
}

func (r ResidentRequest) toDomain(ownerID, residentID string) domain.Resident {
	return domain.Resident{
		ID:              residentID,
		OwnerID:         ownerID,
		Name:            r.Name,
		Age:             r.Age,
		RoomNumber:      r.RoomNumber,
		Condition:       r.Condition,
		GuardianName:    r.GuardianName,
		GuardianContact: r.GuardianContact,
		PhotoURL:        r.PhotoURL,
	}
}

// ResidentView exposes resident details.
type ResidentView struct {
	ResidentID      string    `json:"resident_id"`
	Name            string    `json:"name"`
	Age             *int      `json:"age,omitempty"`
	RoomNumber      string    `json:"room_number,omitempty"`
	Condition       string    `json:"condition,omitempty"`
	GuardianName    string    `json:"guardian_name,omitempty"`
	GuardianContact string    `json:"guardian_contact,omitempty"`
	PhotoURL        string    `json:"photo_url,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// ResidentListResponse packages list results.
type ResidentListResponse struct {
	Items []ResidentView `json:"items"`
}

func toResidentView(r domain.Resident) ResidentView {
	return ResidentView{
		ResidentID:      r.ID,
		Name:            r.Name,
		Age:             r.Age,
		RoomNumber:      r.RoomNumber,
		Condition:       r.Condition,
		GuardianName:    r.GuardianName,
		GuardianContact: r.GuardianContact,
		PhotoURL:        r.PhotoURL,
		CreatedAt:       r.CreatedAt,
		UpdatedAt:       r.UpdatedAt,
	}
}

// CreateTaskRequest is the payload for POST /v1/tasks.
type CreateTaskRequest struct {
	Label       string `json:"label"`
	Kind        string `json:"kind"`
	DefaultTime string `json:"default_time"`
	RepeatDays  []int  `json:"repeat_days"`
	ResidentID  string `json:"resident_id,omitempty"`
}

// Validate ensures request correctness.
func (r CreateTaskRequest) Validate() error {
	if strings.TrimSpace(r.Label) == "" {
		return errors.New("label is required")
	}
	if r.Kind != string(domain.TaskKindSpecific) && r.Kind != string(domain.TaskKindCommon) {
		return errors.New("kind must be specific or common")
	}
	if strings.TrimSpace(r.DefaultTime) == "" {
		return errors.New("default_time is required")
	}
	return nil
}

// UpdateTaskRequest is the payload for PUT /v1/tasks/{id}.
type UpdateTaskRequest struct {
	Label       string `json:"label"`
	DefaultTime string `json:"default_time"`
	RepeatDays  []int  `json:"repeat_days"`
}

// TaskView exposes template details.
type TaskView struct {
	ActivityID  string    `json:"activity_id"`
	Label       string    `json:"label"`
	Kind        string    `json:"kind"`
	DefaultTime string    `json:"default_time"`
	RepeatDays  []int     `json:"repeat_days"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func toTaskView(t domain.ActivityTemplate) TaskView {
	return TaskView{
		ActivityID:  t.ID,
		Label:       t.Label,
		Kind:        string(t.Kind),
		DefaultTime: t.DefaultTime.String(),
		RepeatDays:  t.RepeatDays,
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
	}
}

// EnsureScheduleRequest is the payload for POST /v1/schedule/ensure.
type EnsureScheduleRequest struct {
	Date string `json:"date,omitempty"`
}

// EnsureScheduleResponse reports what one expansion pass did.
type EnsureScheduleResponse struct {
	Date     string `json:"date"`
	Planned  int    `json:"planned"`
	Inserted int    `json:"inserted"`
	Deferred bool   `json:"deferred"`
}

// InstanceView exposes one daily task instance.
type InstanceView struct {
	InstanceID    string    `json:"instance_id"`
	ActivityID    string    `json:"activity_id"`
	ResidentID    *string   `json:"resident_id,omitempty"`
	Date          string    `json:"date"`
	ScheduledTime *string   `json:"scheduled_time,omitempty"`
	Status        string    `json:"status"`
	Label         string    `json:"label"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// InstanceListResponse packages instance list results.
type InstanceListResponse struct {
	Date  string         `json:"date"`
	Items []InstanceView `json:"items"`
}

func toInstanceView(i domain.DailyTaskInstance) InstanceView {
	view := InstanceView{
		InstanceID: i.ID,
		ActivityID: i.ActivityID,
		ResidentID: i.ResidentID,
		Date:       i.Date.String(),
		Status:     string(i.Status),
		Label:      i.Label,
		CreatedAt:  i.CreatedAt,
		UpdatedAt:  i.UpdatedAt,
	}
	if i.ScheduledTime != nil {
		formatted := i.ScheduledTime.String()
		view.ScheduledTime = &formatted
	}
	return view
}

// VitalsRequest is the payload for recording a vitals reading.
type VitalsRequest struct {
	Date    string `json:"date,omitempty"`
	Time    string `json:"time,omitempty"`
	BP      string `json:"bp,omitempty"`
	Temp    string `json:"temp,omitempty"`
	Pulse   string `json:"pulse,omitempty"`
	Resp    string `json:"resp,omitempty"`
	SpO2    string `json:"spo2,omitempty"`
	Sugar   string `json:"sugar,omitempty"`
	Insulin string `json:"insulin,omitempty"`
}

// VitalsView exposes one vitals reading.
type VitalsView struct {
	VitalID    string    `json:"vital_id"`
	ResidentID string    `json:"resident_id"`
	Date       string    `json:"date"`
	Time       string    `json:"time"`
	BP         string    `json:"bp,omitempty"`
	Temp       string    `json:"temp,omitempty"`
	Pulse      string    `json:"pulse,omitempty"`
	Resp       string    `json:"resp,omitempty"`
	SpO2       string    `json:"spo2,omitempty"`
	Sugar      string    `json:"sugar,omitempty"`
	Insulin    string    `json:"insulin,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

// VitalsListResponse packages vitals list results.
type VitalsListResponse struct {
	Items []VitalsView `json:"items"`
}

func toVitalsView(e domain.VitalsEntry) VitalsView {
	return VitalsView{
		VitalID:    e.ID,
		ResidentID: e.ResidentID,
		Date:       e.Date.String(),
		Time:       e.Time.String(),
		BP:         e.BP,
		Temp:       e.Temp,
		Pulse:      e.Pulse,
		Resp:       e.Resp,
		SpO2:       e.SpO2,
		Sugar:      e.Sugar,
		Insulin:    e.Insulin,
		CreatedAt:  e.CreatedAt,
	}
}

// IntakeOutputRequest is the payload for recording an intake/output entry.
type IntakeOutputRequest struct {
	Date     string `json:"date,omitempty"`
	Time     string `json:"time,omitempty"`
	IntakeML *int   `json:"intake_ml,omitempty"`
	UrineML  *int   `json:"urine_ml,omitempty"`
	Stool    string `json:"stool,omitempty"`
}

// IntakeOutputView exposes one intake/output entry.
type IntakeOutputView struct {
	EntryID    string    `json:"entry_id"`
	ResidentID string    `json:"resident_id"`
	Date       string    `json:"date"`
	Time       string    `json:"time"`
	IntakeML   *int      `json:"intake_ml,omitempty"`
	UrineML    *int      `json:"urine_ml,omitempty"`
	Stool      string    `json:"stool,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

// IntakeOutputListResponse packages intake/output list results.
type IntakeOutputListResponse struct {
	Items []IntakeOutputView `json:"items"`
}

func toIntakeOutputView(e domain.IntakeOutputEntry) IntakeOutputView {
	return IntakeOutputView{
		EntryID:    e.ID,
		ResidentID: e.ResidentID,
		Date:       e.Date.String(),
		Time:       e.Time.String(),
		IntakeML:   e.IntakeML,
		UrineML:    e.UrineML,
		Stool:      e.Stool,
		CreatedAt:  e.CreatedAt,
	}
}
