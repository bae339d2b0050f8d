package domain

import (
	"sort"
	"time"
)

// DefaultUpcomingHorizon is the look-ahead window for the caregiver worklist.
const DefaultUpcomingHorizon = 30 * time.Minute

// SelectUpcoming filters today's pending instances down to the worklist: entries
// already overdue, plus entries due within the horizon (boundary inclusive).
// Instances without a scheduled time never appear. The result is ordered by
// ascending scheduled time.
func SelectUpcoming(instances []DailyTaskInstance, now TimeOfDay, horizon time.Duration) []DailyTaskInstance {
	out := make([]DailyTaskInstance, 0, len(instances))
	for _, instance := range instances {
		if instance.Status != InstanceStatusPending || instance.ScheduledTime == nil {
			continue
		}
		until := instance.ScheduledTime.Sub(now)
		if until < 0 || until <= horizon {
			out = append(out, instance)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].ScheduledTime.Seconds() < out[j].ScheduledTime.Seconds()
	})
	return out
}
