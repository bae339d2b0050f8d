package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func pendingAt(t *testing.T, id, at string) DailyTaskInstance {
	t.Helper()
	tod := mustTime(t, at)
	return DailyTaskInstance{ID: id, Status: InstanceStatusPending, ScheduledTime: &tod}
}

func TestSelectUpcomingWindowBoundaries(t *testing.T) {
	now := mustTime(t, "09:00")

	atBoundary := pendingAt(t, "boundary", "09:30")
	justPast := pendingAt(t, "past-boundary", "09:31")
	overdue := pendingAt(t, "overdue", "08:00")

	out := SelectUpcoming([]DailyTaskInstance{atBoundary, justPast, overdue}, now, DefaultUpcomingHorizon)

	ids := make([]string, 0, len(out))
	for _, instance := range out {
		ids = append(ids, instance.ID)
	}
	require.Equal(t, []string{"overdue", "boundary"}, ids)
}

func TestSelectUpcomingSkipsDoneAndUntimed(t *testing.T) {
	now := mustTime(t, "09:00")

	doneTime := mustTime(t, "09:10")
	done := DailyTaskInstance{ID: "done", Status: InstanceStatusDone, ScheduledTime: &doneTime}
	untimed := DailyTaskInstance{ID: "untimed", Status: InstanceStatusPending}
	due := pendingAt(t, "due", "09:15")

	out := SelectUpcoming([]DailyTaskInstance{done, untimed, due}, now, DefaultUpcomingHorizon)
	require.Len(t, out, 1)
	require.Equal(t, "due", out[0].ID)
}

func TestSelectUpcomingOrdersAscending(t *testing.T) {
	now := mustTime(t, "12:00")

	out := SelectUpcoming([]DailyTaskInstance{
		pendingAt(t, "c", "12:20"),
		pendingAt(t, "a", "07:00"),
		pendingAt(t, "b", "11:45"),
	}, now, DefaultUpcomingHorizon)

	require.Len(t, out, 3)
	require.Equal(t, "a", out[0].ID)
	require.Equal(t, "b", out[1].ID)
	require.Equal(t, "c", out[2].ID)
}

func TestSelectUpcomingCustomHorizon(t *testing.T) {
	now := mustTime(t, "09:00")

	near := pendingAt(t, "near", "09:05")
	far := pendingAt(t, "far", "09:20")

	out := SelectUpcoming([]DailyTaskInstance{near, far}, now, 10*time.Minute)
	require.Len(t, out, 1)
	require.Equal(t, "near", out[0].ID)
}

func TestSelectUpcomingEmptyInput(t *testing.T) {
	out := SelectUpcoming(nil, mustTime(t, "09:00"), DefaultUpcomingHorizon)
	require.Empty(t, out)
}
