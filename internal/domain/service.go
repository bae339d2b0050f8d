package domain

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ScheduleRepository captures the persistence operations the expander and the
// worklist depend on. InsertInstances must carry insert-if-absent semantics on
// the (activity, resident-or-none, date) identity: concurrent duplicate staging
// is settled by the store, never surfaced as an error.
type ScheduleRepository interface {
	ListAssignments(ctx context.Context, ownerID string) ([]ResidentAssignment, error)
	ListCommonTemplates(ctx context.Context, ownerID string) ([]ActivityTemplate, error)
	ListInstances(ctx context.Context, ownerID string, date Date, residentID *string) ([]DailyTaskInstance, error)
	InsertInstances(ctx context.Context, instances []DailyTaskInstance) (int, error)
	GetInstance(ctx context.Context, ownerID, instanceID string) (*DailyTaskInstance, error)
	SetInstanceStatus(ctx context.Context, ownerID, instanceID string, status InstanceStatus, updatedAt time.Time) (*DailyTaskInstance, error)
}

// TemplateRepository manages task templates and their resident assignments.
type TemplateRepository interface {
	CreateTemplate(ctx context.Context, template ActivityTemplate, assignment *ResidentAssignment) error
	UpdateTemplate(ctx context.Context, template ActivityTemplate, propagateDate Date) error
	DeleteTemplate(ctx context.Context, ownerID, activityID string) error
}

// ResidentRepository manages resident records.
type ResidentRepository interface {
	CreateResident(ctx context.Context, resident Resident) error
	ListResidents(ctx context.Context, ownerID string) ([]Resident, error)
	GetResident(ctx context.Context, ownerID, residentID string) (*Resident, error)
	UpdateResident(ctx context.Context, resident Resident) error
	DeleteResident(ctx context.Context, ownerID, residentID string) error
}

// CareLogRepository manages vitals and intake/output entries.
type CareLogRepository interface {
	AddVitals(ctx context.Context, entry VitalsEntry) error
	ListVitals(ctx context.Context, ownerID, residentID string, date Date) ([]VitalsEntry, error)
	DeleteVitals(ctx context.Context, ownerID, vitalID string) error
	AddIntakeOutput(ctx context.Context, entry IntakeOutputEntry) error
	ListIntakeOutput(ctx context.Context, ownerID, residentID string, date Date) ([]IntakeOutputEntry, error)
	UpdateIntakeOutput(ctx context.Context, entry IntakeOutputEntry) error
	DeleteIntakeOutput(ctx context.Context, ownerID, entryID string) error
}

// Repository is the full persistence surface the service runs on.
type Repository interface {
	ScheduleRepository
	TemplateRepository
	ResidentRepository
	CareLogRepository
}

// Service orchestrates caregiving workflows.
type Service struct {
	repo    Repository
	logger  *zap.Logger
	horizon time.Duration
	clock   func() time.Time
}

// Option configures optional Service behaviour.
type Option func(*Service)

// WithHorizon overrides the upcoming-worklist look-ahead window.
func WithHorizon(horizon time.Duration) Option {
	return func(s *Service) {
		if horizon > 0 {
			s.horizon = horizon
		}
	}
}

// WithClock overrides the wall clock, mainly for tests.
func WithClock(clock func() time.Time) Option {
	return func(s *Service) {
		s.clock = clock
	}
}

// NewService constructs a Service.
func NewService(repo Repository, logger *zap.Logger, opts ...Option) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Service{
		repo:    repo,
		logger:  logger,
		horizon: DefaultUpcomingHorizon,
		clock:   time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// EnsureResult reports what one expansion pass did.
type EnsureResult struct {
	Date     Date
	Planned  int
	Inserted int
	// Deferred is set when staged inserts could not be persisted; the pass is
	// left for the next trigger, which replays it idempotently.
	Deferred bool
}

// EnsureInstancesForDate materializes the missing daily task instances for the
// owner's templates on the given date. Safe to call repeatedly and concurrently:
// a second pass stages nothing, and racing passes are settled by the store's
// insert-if-absent semantics. Expansion always runs against the current
// template/assignment set, including for past dates.
//
// Read failures abort with ErrStoreRead. Write failures are absorbed: the result
// is flagged Deferred and the instances appear on the next trigger.
func (s *Service) EnsureInstancesForDate(ctx context.Context, ownerID string, date Date) (EnsureResult, error) {
	if err := requireOwner(ownerID); err != nil {
		return EnsureResult{}, err
	}
	if date.IsZero() {
		return EnsureResult{}, fmt.Errorf("%w: date is required", ErrInvalidInput)
	}

	assignments, err := s.repo.ListAssignments(ctx, ownerID)
	if err != nil {
		return EnsureResult{}, fmt.Errorf("%w: list assignments: %v", ErrStoreRead, err)
	}
	commons, err := s.repo.ListCommonTemplates(ctx, ownerID)
	if err != nil {
		return EnsureResult{}, fmt.Errorf("%w: list common templates: %v", ErrStoreRead, err)
	}
	existing, err := s.repo.ListInstances(ctx, ownerID, date, nil)
	if err != nil {
		return EnsureResult{}, fmt.Errorf("%w: list instances: %v", ErrStoreRead, err)
	}

	keys := make([]InstanceKey, 0, len(existing))
	for _, instance := range existing {
		keys = append(keys, instance.Key())
	}

	staged := PlanInstances(ExpansionInput{
		Date:            date,
		OwnerID:         ownerID,
		Assignments:     assignments,
		CommonTemplates: commons,
		Existing:        keys,
	}, s.clock())

	result := EnsureResult{Date: date, Planned: len(staged)}
	if len(staged) == 0 {
		return result, nil
	}

	inserted, err := s.repo.InsertInstances(ctx, staged)
	if err != nil {
		// Materialization is a background consistency pass; the next trigger
		// replays it, so the failure is logged rather than propagated.
		s.logger.Warn("instance materialization deferred",
			zap.String("owner_id", ownerID),
			zap.String("date", date.String()),
			zap.Int("staged", len(staged)),
			zap.Error(err))
		result.Deferred = true
		return result, nil
	}
	result.Inserted = inserted
	return result, nil
}

// ListDayInstances returns the instances for a date, materializing missing ones
// first, mirroring the app's behaviour on date navigation. A non-nil residentID
// narrows the result to one resident's tasks; pointing it at the empty string
// selects the facility-wide (no resident) tasks.
func (s *Service) ListDayInstances(ctx context.Context, ownerID string, date Date, residentID *string) ([]DailyTaskInstance, error) {
	if _, err := s.EnsureInstancesForDate(ctx, ownerID, date); err != nil {
		return nil, err
	}
	instances, err := s.repo.ListInstances(ctx, ownerID, date, residentID)
	if err != nil {
		return nil, fmt.Errorf("%w: list instances: %v", ErrStoreRead, err)
	}
	return instances, nil
}

// UpcomingWorklist materializes today's instances and filters the pending ones
// down to the overdue-or-due-soon window.
func (s *Service) UpcomingWorklist(ctx context.Context, ownerID string, date Date, now TimeOfDay) ([]DailyTaskInstance, error) {
	instances, err := s.ListDayInstances(ctx, ownerID, date, nil)
	if err != nil {
		return nil, err
	}
	return SelectUpcoming(instances, now, s.horizon), nil
}

// ToggleInstanceStatus flips pending<->done on exactly one instance and returns
// the updated row. No other row is touched.
func (s *Service) ToggleInstanceStatus(ctx context.Context, ownerID, instanceID string) (*DailyTaskInstance, error) {
	if err := requireOwner(ownerID); err != nil {
		return nil, err
	}
	instance, err := s.repo.GetInstance(ctx, ownerID, instanceID)
	if err != nil {
		return nil, fmt.Errorf("%w: get instance: %v", ErrStoreRead, err)
	}
	if instance == nil {
		return nil, ErrNotFound
	}

	next := InstanceStatusDone
	if instance.Status == InstanceStatusDone {
		next = InstanceStatusPending
	}

	updated, err := s.repo.SetInstanceStatus(ctx, ownerID, instanceID, next, s.clock().UTC())
	if err != nil {
		return nil, fmt.Errorf("%w: set instance status: %v", ErrStoreWrite, err)
	}
	if updated == nil {
		return nil, ErrNotFound
	}
	return updated, nil
}

// CreateTaskInput captures the payload for creating a task template.
type CreateTaskInput struct {
	OwnerID     string
	Label       string
	Kind        TaskKind
	DefaultTime TimeOfDay
	RepeatDays  Weekdays
	// ResidentID is required for specific tasks and forbidden for common ones.
	ResidentID string
}

// CreateTask creates a template (plus the resident assignment for specific
// tasks) and materializes today's instance when the pattern schedules today.
func (s *Service) CreateTask(ctx context.Context, input CreateTaskInput) (*ActivityTemplate, error) {
	if err := requireOwner(input.OwnerID); err != nil {
		return nil, err
	}

	now := s.clock().UTC()
	template := ActivityTemplate{
		ID:          uuid.NewString(),
		OwnerID:     input.OwnerID,
		Label:       strings.TrimSpace(input.Label),
		Kind:        input.Kind,
		DefaultTime: input.DefaultTime,
		RepeatDays:  input.RepeatDays,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := template.Validate(); err != nil {
		return nil, err
	}

	var assignment *ResidentAssignment
	switch input.Kind {
	case TaskKindSpecific:
		if input.ResidentID == "" {
			return nil, fmt.Errorf("%w: specific task requires a resident", ErrInvalidInput)
		}
		assignment = &ResidentAssignment{
			ResidentID:  input.ResidentID,
			ActivityID:  template.ID,
			OwnerID:     input.OwnerID,
			DefaultTime: template.DefaultTime,
			RepeatDays:  template.RepeatDays,
		}
	case TaskKindCommon:
		if input.ResidentID != "" {
			return nil, fmt.Errorf("%w: common task cannot target a resident", ErrInvalidInput)
		}
	}

	if err := s.repo.CreateTemplate(ctx, template, assignment); err != nil {
		return nil, fmt.Errorf("%w: create template: %v", ErrStoreWrite, err)
	}

	// Materialize today's instance right away so the new task shows up without
	// waiting for the next foreground trigger.
	if _, err := s.EnsureInstancesForDate(ctx, input.OwnerID, DateOf(s.clock())); err != nil && !errors.Is(err, ErrStoreRead) {
		return nil, err
	}
	return &template, nil
}

// UpdateTaskInput captures the editable template fields.
type UpdateTaskInput struct {
	OwnerID     string
	ActivityID  string
	Label       string
	DefaultTime TimeOfDay
	RepeatDays  Weekdays
}

// UpdateTask edits a template in place and propagates the new time to the
// same-day instance and any assignment override, matching the app's edit path.
// Instances on other dates keep the time they were created with.
func (s *Service) UpdateTask(ctx context.Context, input UpdateTaskInput) error {
	if err := requireOwner(input.OwnerID); err != nil {
		return err
	}
	if strings.TrimSpace(input.Label) == "" {
		return fmt.Errorf("%w: label is required", ErrInvalidInput)
	}
	if err := input.RepeatDays.Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	template := ActivityTemplate{
		ID:          input.ActivityID,
		OwnerID:     input.OwnerID,
		Label:       strings.TrimSpace(input.Label),
		DefaultTime: input.DefaultTime,
		RepeatDays:  input.RepeatDays,
		UpdatedAt:   s.clock().UTC(),
	}
	if err := s.repo.UpdateTemplate(ctx, template, DateOf(s.clock())); err != nil {
		return fmt.Errorf("%w: update template: %v", ErrStoreWrite, err)
	}
	return nil
}

// DeleteTask removes a template, cascading to its assignments and instances.
func (s *Service) DeleteTask(ctx context.Context, ownerID, activityID string) error {
	if err := requireOwner(ownerID); err != nil {
		return err
	}
	if err := s.repo.DeleteTemplate(ctx, ownerID, activityID); err != nil {
		return fmt.Errorf("%w: delete template: %v", ErrStoreWrite, err)
	}
	return nil
}

// CreateResident validates and stores a new resident.
func (s *Service) CreateResident(ctx context.Context, resident Resident) (*Resident, error) {
	if err := requireOwner(resident.OwnerID); err != nil {
		return nil, err
	}
	resident.ID = uuid.NewString()
	now := s.clock().UTC()
	resident.CreatedAt = now
	resident.UpdatedAt = now
	if err := resident.Validate(); err != nil {
		return nil, err
	}
	if err := s.repo.CreateResident(ctx, resident); err != nil {
		return nil, fmt.Errorf("%w: create resident: %v", ErrStoreWrite, err)
	}
	return &resident, nil
}

// ListResidents returns the owner's residents.
func (s *Service) ListResidents(ctx context.Context, ownerID string) ([]Resident, error) {
	if err := requireOwner(ownerID); err != nil {
		return nil, err
	}
	residents, err := s.repo.ListResidents(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("%w: list residents: %v", ErrStoreRead, err)
	}
	return residents, nil
}

// GetResident fetches one resident by id.
func (s *Service) GetResident(ctx context.Context, ownerID, residentID string) (*Resident, error) {
	if err := requireOwner(ownerID); err != nil {
		return nil, err
	}
	resident, err := s.repo.GetResident(ctx, ownerID, residentID)
	if err != nil {
		return nil, fmt.Errorf("%w: get resident: %v", ErrStoreRead, err)
	}
	if resident == nil {
		return nil, ErrNotFound
	}
	return resident, nil
}

// UpdateResident edits resident fields in place.
func (s *Service) UpdateResident(ctx context.Context, resident Resident) error {
	if err := requireOwner(resident.OwnerID); err != nil {
		return err
	}
	resident.UpdatedAt = s.clock().UTC()
	if err := resident.Validate(); err != nil {
		return err
	}
	if err := s.repo.UpdateResident(ctx, resident); err != nil {
		return fmt.Errorf("%w: update resident: %v", ErrStoreWrite, err)
	}
	return nil
}

// DeleteResident removes a resident, cascading to assignments, instances, and logs.
func (s *Service) DeleteResident(ctx context.Context, ownerID, residentID string) error {
	if err := requireOwner(ownerID); err != nil {
		return err
	}
	if err := s.repo.DeleteResident(ctx, ownerID, residentID); err != nil {
		return fmt.Errorf("%w: delete resident: %v", ErrStoreWrite, err)
	}
	return nil
}

// AddVitals stores one vitals reading.
func (s *Service) AddVitals(ctx context.Context, entry VitalsEntry) (*VitalsEntry, error) {
	if err := requireOwner(entry.OwnerID); err != nil {
		return nil, err
	}
	entry.ID = uuid.NewString()
	entry.CreatedAt = s.clock().UTC()
	if err := s.repo.AddVitals(ctx, entry); err != nil {
		return nil, fmt.Errorf("%w: add vitals: %v", ErrStoreWrite, err)
	}
	return &entry, nil
}

// ListVitals returns a resident's vitals readings for a date.
func (s *Service) ListVitals(ctx context.Context, ownerID, residentID string, date Date) ([]VitalsEntry, error) {
	if err := requireOwner(ownerID); err != nil {
		return nil, err
	}
	entries, err := s.repo.ListVitals(ctx, ownerID, residentID, date)
	if err != nil {
		return nil, fmt.Errorf("%w: list vitals: %v", ErrStoreRead, err)
	}
	return entries, nil
}

// DeleteVitals removes one vitals reading.
func (s *Service) DeleteVitals(ctx context.Context, ownerID, vitalID string) error {
	if err := requireOwner(ownerID); err != nil {
		return err
	}
	if err := s.repo.DeleteVitals(ctx, ownerID, vitalID); err != nil {
		return fmt.Errorf("%w: delete vitals: %v", ErrStoreWrite, err)
	}
	return nil
}

// AddIntakeOutput stores one intake/output log line.
func (s *Service) AddIntakeOutput(ctx context.Context, entry IntakeOutputEntry) (*IntakeOutputEntry, error) {
	if err := requireOwner(entry.OwnerID); err != nil {
		return nil, err
	}
	if err := entry.Validate(); err != nil {
		return nil, err
	}
	entry.ID = uuid.NewString()
	entry.CreatedAt = s.clock().UTC()
	if err := s.repo.AddIntakeOutput(ctx, entry); err != nil {
		return nil, fmt.Errorf("%w: add intake/output: %v", ErrStoreWrite, err)
	}
	return &entry, nil
}

// ListIntakeOutput returns a resident's intake/output entries for a date.
func (s *Service) ListIntakeOutput(ctx context.Context, ownerID, residentID string, date Date) ([]IntakeOutputEntry, error) {
	if err := requireOwner(ownerID); err != nil {
		return nil, err
	}
	entries, err := s.repo.ListIntakeOutput(ctx, ownerID, residentID, date)
	if err != nil {
		return nil, fmt.Errorf("%w: list intake/output: %v", ErrStoreRead, err)
	}
	return entries, nil
}

// UpdateIntakeOutput edits one intake/output entry.
func (s *Service) UpdateIntakeOutput(ctx context.Context, entry IntakeOutputEntry) error {
	if err := requireOwner(entry.OwnerID); err != nil {
		return err
	}
	if err := entry.Validate(); err != nil {
		return err
	}
	if err := s.repo.UpdateIntakeOutput(ctx, entry); err != nil {
		return fmt.Errorf("%w: update intake/output: %v", ErrStoreWrite, err)
	}
	return nil
}

// DeleteIntakeOutput removes one intake/output entry.
func (s *Service) DeleteIntakeOutput(ctx context.Context, ownerID, entryID string) error {
	if err := requireOwner(ownerID); err != nil {
		return err
	}
	if err := s.repo.DeleteIntakeOutput(ctx, ownerID, entryID); err != nil {
		return fmt.Errorf("%w: delete intake/output: %v", ErrStoreWrite, err)
	}
	return nil
}

func requireOwner(ownerID string) error {
	if strings.TrimSpace(ownerID) == "" {
		return ErrAuthRequired
	}
	return nil
}
