package domain

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var errStore = errors.New("store unavailable")

// fakeRepo is an in-memory Repository with switchable failure modes.
type fakeRepo struct {
	assignments []ResidentAssignment
	commons     []ActivityTemplate
	instances   map[InstanceKey]*DailyTaskInstance
	residents   map[string]*Resident

	failReads       bool
	failWrites      bool
	insertCalls     int
	createdTemplate *ActivityTemplate
	createdAssign   *ResidentAssignment
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		instances: make(map[InstanceKey]*DailyTaskInstance),
		residents: make(map[string]*Resident),
	}
}

func (f *fakeRepo) ListAssignments(_ context.Context, ownerID string) ([]ResidentAssignment, error) {
	if f.failReads {
		return nil, errStore
	}
	return f.assignments, nil
}

func (f *fakeRepo) ListCommonTemplates(_ context.Context, ownerID string) ([]ActivityTemplate, error) {
	if f.failReads {
		return nil, errStore
	}
	return f.commons, nil
}

func (f *fakeRepo) ListInstances(_ context.Context, ownerID string, date Date, residentID *string) ([]DailyTaskInstance, error) {
	if f.failReads {
		return nil, errStore
	}
	var out []DailyTaskInstance
	for _, instance := range f.instances {
		if instance.OwnerID != ownerID || instance.Date != date {
			continue
		}
		if residentID != nil {
			if *residentID == "" {
				if instance.ResidentID != nil {
					continue
				}
			} else if instance.ResidentID == nil || *instance.ResidentID != *residentID {
				continue
			}
		}
		out = append(out, *instance)
	}
	return out, nil
}

func (f *fakeRepo) InsertInstances(_ context.Context, staged []DailyTaskInstance) (int, error) {
	f.insertCalls++
	if f.failWrites {
		return 0, errStore
	}
	inserted := 0
	for _, instance := range staged {
		key := instance.Key()
		if _, exists := f.instances[key]; exists {
			continue
		}
		copied := instance
		f.instances[key] = &copied
		inserted++
	}
	return inserted, nil
}

func (f *fakeRepo) GetInstance(_ context.Context, ownerID, instanceID string) (*DailyTaskInstance, error) {
	if f.failReads {
		return nil, errStore
	}
	for _, instance := range f.instances {
		if instance.OwnerID == ownerID && instance.ID == instanceID {
			copied := *instance
			return &copied, nil
		}
	}
	return nil, nil
}

func (f *fakeRepo) SetInstanceStatus(_ context.Context, ownerID, instanceID string, status InstanceStatus, updatedAt time.Time) (*DailyTaskInstance, error) {
	if f.failWrites {
		return nil, errStore
	}
	for _, instance := range f.instances {
		if instance.OwnerID == ownerID && instance.ID == instanceID {
			instance.Status = status
			instance.UpdatedAt = updatedAt
			copied := *instance
			return &copied, nil
		}
	}
	return nil, nil
}

func (f *fakeRepo) CreateTemplate(_ context.Context, template ActivityTemplate, assignment *ResidentAssignment) error {
	if f.failWrites {
		return errStore
	}
	f.createdTemplate = &template
	f.createdAssign = assignment
	if template.Kind == TaskKindCommon {
		f.commons = append(f.commons, template)
	}
	if assignment != nil {
		f.assignments = append(f.assignments, *assignment)
	}
	return nil
}

func (f *fakeRepo) UpdateTemplate(_ context.Context, template ActivityTemplate, _ Date) error {
	if f.failWrites {
		return errStore
	}
	return nil
}

func (f *fakeRepo) DeleteTemplate(_ context.Context, ownerID, activityID string) error {
	if f.failWrites {
		return errStore
	}
	return nil
}

func (f *fakeRepo) CreateResident(_ context.Context, resident Resident) error {
	if f.failWrites {
		return errStore
	}
	copied := resident
	f.residents[resident.ID] = &copied
	return nil
}

func (f *fakeRepo) ListResidents(_ context.Context, ownerID string) ([]Resident, error) {
	if f.failReads {
		return nil, errStore
	}
	var out []Resident
	for _, resident := range f.residents {
		if resident.OwnerID == ownerID {
			out = append(out, *resident)
		}
	}
	return out, nil
}

func (f *fakeRepo) GetResident(_ context.Context, ownerID, residentID string) (*Resident, error) {
	if f.failReads {
		return nil, errStore
	}
	resident, ok := f.residents[residentID]
	if !ok || resident.OwnerID != ownerID {
		return nil, nil
	}
	copied := *resident
	return &copied, nil
}

func (f *fakeRepo) UpdateResident(_ context.Context, resident Resident) error {
	if f.failWrites {
		return errStore
	}
	return nil
}

func (f *fakeRepo) DeleteResident(_ context.Context, ownerID, residentID string) error {
	if f.failWrites {
		return errStore
	}
	delete(f.residents, residentID)
	return nil
}

func (f *fakeRepo) AddVitals(_ context.Context, entry VitalsEntry) error {
	if f.failWrites {
		return errStore
	}
	return nil
}

func (f *fakeRepo) ListVitals(_ context.Context, ownerID, residentID string, date Date) ([]VitalsEntry, error) {
	if f.failReads {
		return nil, errStore
	}
	return nil, nil
}

func (f *fakeRepo) DeleteVitals(_ context.Context, ownerID, vitalID string) error {
	if f.failWrites {
		return errStore
	}
	return nil
}

func (f *fakeRepo) AddIntakeOutput(_ context.Context, entry IntakeOutputEntry) error {
	if f.failWrites {
		return errStore
	}
	return nil
}

func (f *fakeRepo) ListIntakeOutput(_ context.Context, ownerID, residentID string, date Date) ([]IntakeOutputEntry, error) {
	if f.failReads {
		return nil, errStore
	}
	return nil, nil
}

func (f *fakeRepo) UpdateIntakeOutput(_ context.Context, entry IntakeOutputEntry) error {
	if f.failWrites {
		return errStore
	}
	return nil
}

func (f *fakeRepo) DeleteIntakeOutput(_ context.Context, ownerID, entryID string) error {
	if f.failWrites {
		return errStore
	}
	return nil
}

func fixedClock() time.Time {
	return time.Date(2024, time.June, 10, 8, 45, 0, 0, time.UTC)
}

func newTestService(repo *fakeRepo, opts ...Option) *Service {
	opts = append([]Option{WithClock(fixedClock)}, opts...)
	return NewService(repo, zap.NewNop(), opts...)
}

func seedRepo(t *testing.T, repo *fakeRepo) {
	t.Helper()
	repo.assignments = []ResidentAssignment{
		{
			ResidentID:  "resident-1",
			ActivityID:  "template-b",
			OwnerID:     "owner-1",
			DefaultTime: mustTime(t, "09:00"),
			RepeatDays:  Weekdays{1, 2, 3, 4, 5},
		},
	}
	repo.commons = []ActivityTemplate{
		{
			ID:          "template-a",
			OwnerID:     "owner-1",
			Label:       "Morning round",
			Kind:        TaskKindCommon,
			DefaultTime: mustTime(t, "08:00"),
		},
	}
}

func TestEnsureInstancesForDateMaterializesOnce(t *testing.T) {
	repo := newFakeRepo()
	seedRepo(t, repo)
	service := newTestService(repo)

	date := mustDate(t, "2024-06-10")

	result, err := service.EnsureInstancesForDate(context.Background(), "owner-1", date)
	require.NoError(t, err)
	require.Equal(t, 2, result.Planned)
	require.Equal(t, 2, result.Inserted)
	require.False(t, result.Deferred)

	// The second pass stages nothing.
	result, err = service.EnsureInstancesForDate(context.Background(), "owner-1", date)
	require.NoError(t, err)
	require.Zero(t, result.Planned)
	require.Zero(t, result.Inserted)
	require.Equal(t, 1, repo.insertCalls, "no insert call when nothing is staged")
}

func TestEnsureInstancesForDateRequiresOwner(t *testing.T) {
	service := newTestService(newFakeRepo())

	_, err := service.EnsureInstancesForDate(context.Background(), "  ", mustDate(t, "2024-06-10"))
	require.ErrorIs(t, err, ErrAuthRequired)
}

func TestEnsureInstancesForDateAbortsOnReadFailure(t *testing.T) {
	repo := newFakeRepo()
	seedRepo(t, repo)
	repo.failReads = true
	service := newTestService(repo)

	_, err := service.EnsureInstancesForDate(context.Background(), "owner-1", mustDate(t, "2024-06-10"))
	require.ErrorIs(t, err, ErrStoreRead)
	require.Zero(t, repo.insertCalls)
}

func TestEnsureInstancesForDateAbsorbsWriteFailure(t *testing.T) {
	repo := newFakeRepo()
	seedRepo(t, repo)
	repo.failWrites = true
	service := newTestService(repo)

	result, err := service.EnsureInstancesForDate(context.Background(), "owner-1", mustDate(t, "2024-06-10"))
	require.NoError(t, err)
	require.True(t, result.Deferred)
	require.Zero(t, result.Inserted)

	// The next trigger replays the pass once the store recovers.
	repo.failWrites = false
	result, err = service.EnsureInstancesForDate(context.Background(), "owner-1", mustDate(t, "2024-06-10"))
	require.NoError(t, err)
	require.Equal(t, 2, result.Inserted)
}

func TestEnsureInstancesForDatePreservesDoneStatus(t *testing.T) {
	repo := newFakeRepo()
	seedRepo(t, repo)
	service := newTestService(repo)

	date := mustDate(t, "2024-06-10")

	_, err := service.EnsureInstancesForDate(context.Background(), "owner-1", date)
	require.NoError(t, err)

	var target *DailyTaskInstance
	for _, instance := range repo.instances {
		if instance.ActivityID == "template-b" {
			target = instance
		}
	}
	require.NotNil(t, target)
	target.Status = InstanceStatusDone

	result, err := service.EnsureInstancesForDate(context.Background(), "owner-1", date)
	require.NoError(t, err)
	require.Zero(t, result.Planned)
	require.Equal(t, InstanceStatusDone, target.Status)
}

func TestUpcomingWorklist(t *testing.T) {
	repo := newFakeRepo()
	seedRepo(t, repo)
	service := newTestService(repo)

	date := mustDate(t, "2024-06-10")

	// 08:45: the 08:00 round is overdue, the 09:00 task is inside the window.
	worklist, err := service.UpcomingWorklist(context.Background(), "owner-1", date, mustTime(t, "08:45"))
	require.NoError(t, err)
	require.Len(t, worklist, 2)
	require.Equal(t, "template-a", worklist[0].ActivityID)
	require.Equal(t, "template-b", worklist[1].ActivityID)

	// 08:29: the 09:00 task is beyond the 30 minute horizon.
	worklist, err = service.UpcomingWorklist(context.Background(), "owner-1", date, mustTime(t, "08:29"))
	require.NoError(t, err)
	require.Len(t, worklist, 1)
	require.Equal(t, "template-a", worklist[0].ActivityID)
}

func TestToggleInstanceStatusFlips(t *testing.T) {
	repo := newFakeRepo()
	seedRepo(t, repo)
	service := newTestService(repo)

	date := mustDate(t, "2024-06-10")
	_, err := service.EnsureInstancesForDate(context.Background(), "owner-1", date)
	require.NoError(t, err)

	var id string
	for _, instance := range repo.instances {
		id = instance.ID
		break
	}

	updated, err := service.ToggleInstanceStatus(context.Background(), "owner-1", id)
	require.NoError(t, err)
	require.Equal(t, InstanceStatusDone, updated.Status)

	updated, err = service.ToggleInstanceStatus(context.Background(), "owner-1", id)
	require.NoError(t, err)
	require.Equal(t, InstanceStatusPending, updated.Status)
}

func TestToggleInstanceStatusNotFound(t *testing.T) {
	service := newTestService(newFakeRepo())

	_, err := service.ToggleInstanceStatus(context.Background(), "owner-1", "missing")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestCreateTaskSpecificRequiresResident(t *testing.T) {
	service := newTestService(newFakeRepo())

	_, err := service.CreateTask(context.Background(), CreateTaskInput{
		OwnerID:     "owner-1",
		Label:       "Medication",
		Kind:        TaskKindSpecific,
		DefaultTime: mustTime(t, "09:00"),
	})
	require.ErrorIs(t, err, ErrInvalidInput)
}

func TestCreateTaskCommonForbidsResident(t *testing.T) {
	service := newTestService(newFakeRepo())

	_, err := service.CreateTask(context.Background(), CreateTaskInput{
		OwnerID:     "owner-1",
		Label:       "Lunch",
		Kind:        TaskKindCommon,
		DefaultTime: mustTime(t, "12:00"),
		ResidentID:  "resident-1",
	})
	require.ErrorIs(t, err, ErrInvalidInput)
}

func TestCreateTaskMaterializesToday(t *testing.T) {
	repo := newFakeRepo()
	service := newTestService(repo)

	template, err := service.CreateTask(context.Background(), CreateTaskInput{
		OwnerID:     "owner-1",
		Label:       "Medication",
		Kind:        TaskKindSpecific,
		DefaultTime: mustTime(t, "09:00"),
		ResidentID:  "resident-1",
	})
	require.NoError(t, err)
	require.NotEmpty(t, template.ID)
	require.NotNil(t, repo.createdAssign)
	require.Equal(t, "resident-1", repo.createdAssign.ResidentID)

	// Today (2024-06-10) has the new instance without waiting for a trigger.
	instances, err := repo.ListInstances(context.Background(), "owner-1", mustDate(t, "2024-06-10"), nil)
	require.NoError(t, err)
	require.Len(t, instances, 1)
	require.Equal(t, template.ID, instances[0].ActivityID)
}

func TestCreateResidentValidates(t *testing.T) {
	service := newTestService(newFakeRepo())

	_, err := service.CreateResident(context.Background(), Resident{OwnerID: "owner-1"})
	require.ErrorIs(t, err, ErrInvalidInput)

	resident, err := service.CreateResident(context.Background(), Resident{OwnerID: "owner-1", Name: "Ada"})
	require.NoError(t, err)
	require.NotEmpty(t, resident.ID)
}

func TestAddIntakeOutputRejectsEmptyEntry(t *testing.T) {
	service := newTestService(newFakeRepo())

	_, err := service.AddIntakeOutput(context.Background(), IntakeOutputEntry{
		OwnerID:    "owner-1",
		ResidentID: "resident-1",
	})
	require.ErrorIs(t, err, ErrInvalidInput)
}
