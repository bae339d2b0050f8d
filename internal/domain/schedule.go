// Package domain defines the business logic for the care service.
package domain

import (
	"time"

	"github.com/google/uuid"
)

// ExpansionInput carries everything the expander needs for one (date, owner) pass:
// the owner's resident assignments (specific templates), the owner's common
// templates, and the keys of instances already materialized for the date.
type ExpansionInput struct {
	Date            Date
	OwnerID         string
	Assignments     []ResidentAssignment
	CommonTemplates []ActivityTemplate
	Existing        []InstanceKey
}

// PlanInstances computes the instances missing for the input date. It is pure:
// callers load state, apply the plan, and let the store's insert-if-absent
// semantics settle races with concurrent planners.
//
// A template whose repeat pattern is non-empty and excludes the date's weekday
// yields nothing. An empty pattern schedules every day.
func PlanInstances(in ExpansionInput, now time.Time) []DailyTaskInstance {
	weekday := in.Date.Weekday()

	existing := make(map[InstanceKey]struct{}, len(in.Existing))
	for _, key := range in.Existing {
		existing[key] = struct{}{}
	}

	var staged []DailyTaskInstance

	stage := func(key InstanceKey, residentID *string, scheduled TimeOfDay) {
		if _, ok := existing[key]; ok {
			return
		}
		existing[key] = struct{}{}
		tod := scheduled
		staged = append(staged, DailyTaskInstance{
			ID:            uuid.NewString(),
			ActivityID:    key.ActivityID,
			ResidentID:    residentID,
			OwnerID:       in.OwnerID,
			Date:          in.Date,
			ScheduledTime: &tod,
			Status:        InstanceStatusPending,
			CreatedAt:     now.UTC(),
			UpdatedAt:     now.UTC(),
		})
	}

	for _, assignment := range in.Assignments {
		if !assignment.RepeatDays.Matches(weekday) {
			continue
		}
		residentID := assignment.ResidentID
		key := InstanceKey{ActivityID: assignment.ActivityID, ResidentID: residentID, Date: in.Date}
		stage(key, &residentID, assignment.EffectiveTime())
	}

	for _, template := range in.CommonTemplates {
		if !template.RepeatDays.Matches(weekday) {
			continue
		}
		key := InstanceKey{ActivityID: template.ID, Date: in.Date}
		stage(key, nil, template.DefaultTime)
	}

	return staged
}
