// Package postgres provides pgx-backed persistence for the care service.
package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"example.com/care/internal/domain"
	"example.com/care/internal/events"
	"example.com/care/internal/observability"
)

// Repository implements domain.Repository on top of a pgx connection pool.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a Repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// ListAssignments returns the owner's specific-task assignments joined with the
// template fields the expander needs.
func (r *Repository) ListAssignments(ctx context.Context, ownerID string) ([]domain.ResidentAssignment, error) {
	const query = `SELECT ra.resident_id::text, ra.activity_id::text, ra.owner_id, ra.scheduled_time::text, a.default_time::text, a.repeat_days
        FROM resident_activities ra
        JOIN activities a ON a.activity_id = ra.activity_id
        WHERE ra.owner_id = $1 AND a.kind = 'specific'`

	rows, err := r.pool.Query(ctx, query, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var assignments []domain.ResidentAssignment
	for rows.Next() {
		var (
			assignment domain.ResidentAssignment
			override   *string
			defaultRaw string
			repeatRaw  []int32
		)
		if err := rows.Scan(&assignment.ResidentID, &assignment.ActivityID, &assignment.OwnerID, &override, &defaultRaw, &repeatRaw); err != nil {
			return nil, err
		}
		if assignment.DefaultTime, err = domain.ParseTimeOfDay(defaultRaw); err != nil {
			return nil, err
		}
		if override != nil {
			tod, err := domain.ParseTimeOfDay(*override)
			if err != nil {
				return nil, err
			}
			assignment.ScheduledTime = &tod
		}
		assignment.RepeatDays = toWeekdays(repeatRaw)
		assignments = append(assignments, assignment)
	}
	return assignments, rows.Err()
}

// ListCommonTemplates returns the owner's facility-wide templates.
func (r *Repository) ListCommonTemplates(ctx context.Context, ownerID string) ([]domain.ActivityTemplate, error) {
	const query = `SELECT activity_id::text, owner_id, label, default_time::text, repeat_days, created_at, updated_at
        FROM activities WHERE owner_id = $1 AND kind = 'common'`

	rows, err := r.pool.Query(ctx, query, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var templates []domain.ActivityTemplate
	for rows.Next() {
		var (
			template   domain.ActivityTemplate
			defaultRaw string
			repeatRaw  []int32
		)
		if err := rows.Scan(&template.ID, &template.OwnerID, &template.Label, &defaultRaw, &repeatRaw, &template.CreatedAt, &template.UpdatedAt); err != nil {
			return nil, err
		}
		if template.DefaultTime, err = domain.ParseTimeOfDay(defaultRaw); err != nil {
			return nil, err
		}
		template.Kind = domain.TaskKindCommon
		template.RepeatDays = toWeekdays(repeatRaw)
		templates = append(templates, template)
	}
	return templates, rows.Err()
}

// ListInstances returns the owner's instances for a date ordered by scheduled
// time. residentID narrows the result: nil means all instances, a pointer to
// the empty string means facility-wide (no resident) instances only.
func (r *Repository) ListInstances(ctx context.Context, ownerID string, date domain.Date, residentID *string) ([]domain.DailyTaskInstance, error) {
	query := `SELECT i.instance_id::text, i.activity_id::text, i.resident_id::text, i.owner_id, i.date::text, i.scheduled_time::text, i.status, a.label, i.created_at, i.updated_at
        FROM daily_task_instances i
        JOIN activities a ON a.activity_id = i.activity_id
        WHERE i.owner_id = $1 AND i.date = $2`
	args := []interface{}{ownerID, date.String()}

	if residentID != nil {
		if *residentID == "" {
			query += ` AND i.resident_id IS NULL`
		} else {
			query += ` AND i.resident_id = $3`
			args = append(args, *residentID)
		}
	}
	query += ` ORDER BY i.scheduled_time ASC NULLS LAST, i.instance_id ASC`

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var instances []domain.DailyTaskInstance
	for rows.Next() {
		instance, err := scanInstance(rows)
		if err != nil {
			return nil, err
		}
		instances = append(instances, instance)
	}
	return instances, rows.Err()
}

// InsertInstances persists staged instances with insert-if-absent semantics on
// the (activity, resident-or-none, date) identity and records one outbox event
// per row actually inserted, all in a single transaction. Conflicting rows are
// silently skipped: a concurrent expansion pass having won the race is the
// expected outcome, not an error. Returns the number of rows inserted.
func (r *Repository) InsertInstances(ctx context.Context, instances []domain.DailyTaskInstance) (int, error) {
	if len(instances) == 0 {
		return 0, nil
	}

	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return 0, err
	}
	defer tx.Rollback(ctx)

	const stmt = `INSERT INTO daily_task_instances (instance_id, activity_id, resident_id, owner_id, date, scheduled_time, status, created_at, updated_at)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
        ON CONFLICT (activity_id, resident_id, date) DO NOTHING
        RETURNING instance_id`

	inserted := 0
	for _, instance := range instances {
		var id string
		err := tx.QueryRow(ctx, stmt,
			instance.ID,
			instance.ActivityID,
			instance.ResidentID,
			instance.OwnerID,
			instance.Date.String(),
			timeOrNil(instance.ScheduledTime),
			instance.Status,
			instance.CreatedAt,
			instance.UpdatedAt,
		).Scan(&id)
		if errors.Is(err, pgx.ErrNoRows) {
			continue
		}
		if err != nil {
			return 0, err
		}
		inserted++

		payload := events.TaskInstanceCreated{
			InstanceID: instance.ID,
			ActivityID: instance.ActivityID,
			OwnerID:    instance.OwnerID,
			Date:       instance.Date.String(),
			CreatedAt:  instance.CreatedAt,
		}
		if instance.ResidentID != nil {
			payload.ResidentID = *instance.ResidentID
		}
		if instance.ScheduledTime != nil {
			payload.ScheduledTime = instance.ScheduledTime.String()
		}
		if err := insertOutbox(ctx, tx, instance.OwnerID, instance.ID, "task_instance.created", payload); err != nil {
			return 0, err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, err
	}
	if inserted > 0 {
		observability.RecordInstancesPersisted(time.Now().UTC())
	}
	return inserted, nil
}

// GetInstance fetches one instance by id, or nil when absent.
func (r *Repository) GetInstance(ctx context.Context, ownerID, instanceID string) (*domain.DailyTaskInstance, error) {
	const query = `SELECT i.instance_id::text, i.activity_id::text, i.resident_id::text, i.owner_id, i.date::text, i.scheduled_time::text, i.status, a.label, i.created_at, i.updated_at
        FROM daily_task_instances i
        JOIN activities a ON a.activity_id = i.activity_id
        WHERE i.owner_id = $1 AND i.instance_id = $2`

	rows, err := r.pool.Query(ctx, query, ownerID, instanceID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	if !rows.Next() {
		return nil, rows.Err()
	}
	instance, err := scanInstance(rows)
	if err != nil {
		return nil, err
	}
	return &instance, rows.Err()
}

// SetInstanceStatus updates one instance's status and records the status-changed
// event in the same transaction. Returns nil when the instance is gone.
func (r *Repository) SetInstanceStatus(ctx context.Context, ownerID, instanceID string, status domain.InstanceStatus, updatedAt time.Time) (*domain.DailyTaskInstance, error) {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	const stmt = `UPDATE daily_task_instances
        SET status = $1, updated_at = $2
        WHERE owner_id = $3 AND instance_id = $4
        RETURNING activity_id::text, resident_id::text, date::text`

	var (
		activityID string
		residentID *string
		dateRaw    string
	)
	if err := tx.QueryRow(ctx, stmt, status, updatedAt, ownerID, instanceID).Scan(&activityID, &residentID, &dateRaw); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	payload := events.TaskInstanceStatusChanged{
		InstanceID: instanceID,
		ActivityID: activityID,
		OwnerID:    ownerID,
		Date:       dateRaw,
		Status:     string(status),
		OccurredAt: updatedAt,
	}
	if residentID != nil {
		payload.ResidentID = *residentID
	}
	if err := insertOutbox(ctx, tx, ownerID, instanceID, "task_instance.status_changed", payload); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return r.GetInstance(ctx, ownerID, instanceID)
}

// CreateTemplate inserts a template and, for specific tasks, its resident assignment.
func (r *Repository) CreateTemplate(ctx context.Context, template domain.ActivityTemplate, assignment *domain.ResidentAssignment) error {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	const insertTemplate = `INSERT INTO activities (activity_id, owner_id, label, kind, default_time, repeat_days, created_at, updated_at)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8)`

	if _, err := tx.Exec(ctx, insertTemplate,
		template.ID,
		template.OwnerID,
		template.Label,
		template.Kind,
		template.DefaultTime.String(),
		toInt32s(template.RepeatDays),
		template.CreatedAt,
		template.UpdatedAt,
	); err != nil {
		return err
	}

	if assignment != nil {
		const insertAssignment = `INSERT INTO resident_activities (resident_id, activity_id, owner_id, scheduled_time)
            VALUES ($1,$2,$3,$4)`
		if _, err := tx.Exec(ctx, insertAssignment,
			assignment.ResidentID,
			assignment.ActivityID,
			assignment.OwnerID,
			timeOrNil(assignment.ScheduledTime),
		); err != nil {
			return err
		}
	}

	return tx.Commit(ctx)
}

// UpdateTemplate edits label/time/repeat pattern in place and propagates the
// new time to assignment overrides and to the given day's instances. Instances
// on other dates keep the time they were created with.
func (r *Repository) UpdateTemplate(ctx context.Context, template domain.ActivityTemplate, propagateDate domain.Date) error {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	const updateTemplate = `UPDATE activities
        SET label = $1, default_time = $2, repeat_days = $3, updated_at = $4
        WHERE owner_id = $5 AND activity_id = $6`

	if _, err := tx.Exec(ctx, updateTemplate,
		template.Label,
		template.DefaultTime.String(),
		toInt32s(template.RepeatDays),
		template.UpdatedAt,
		template.OwnerID,
		template.ID,
	); err != nil {
		return err
	}

	if _, err := tx.Exec(ctx,
		`UPDATE resident_activities SET scheduled_time = $1 WHERE owner_id = $2 AND activity_id = $3`,
		template.DefaultTime.String(), template.OwnerID, template.ID,
	); err != nil {
		return err
	}

	if _, err := tx.Exec(ctx,
		`UPDATE daily_task_instances SET scheduled_time = $1, updated_at = $2 WHERE owner_id = $3 AND activity_id = $4 AND date = $5`,
		template.DefaultTime.String(), template.UpdatedAt, template.OwnerID, template.ID, propagateDate.String(),
	); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

// DeleteTemplate removes a template; assignments and instances go with it via
// the FK cascades.
func (r *Repository) DeleteTemplate(ctx context.Context, ownerID, activityID string) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM activities WHERE owner_id = $1 AND activity_id = $2`, ownerID, activityID)
	return err
}

// CreateResident inserts a resident row.
func (r *Repository) CreateResident(ctx context.Context, resident domain.Resident) error {
	const stmt = `INSERT INTO residents (resident_id, owner_id, name, age, room_number, condition, guardian_name, guardian_contact, photo_url, created_at, updated_at)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)`

	_, err := r.pool.Exec(ctx, stmt,
		resident.ID,
		resident.OwnerID,
		resident.Name,
		resident.Age,
		nullIfEmpty(resident.RoomNumber),
		nullIfEmpty(resident.Condition),
		nullIfEmpty(resident.GuardianName),
		nullIfEmpty(resident.GuardianContact),
		nullIfEmpty(resident.PhotoURL),
		resident.CreatedAt,
		resident.UpdatedAt,
	)
	return err
}

// ListResidents returns the owner's residents ordered by name.
func (r *Repository) ListResidents(ctx context.Context, ownerID string) ([]domain.Resident, error) {
	const query = `SELECT resident_id::text, owner_id, name, age, room_number, condition, guardian_name, guardian_contact, photo_url, created_at, updated_at
        FROM residents WHERE owner_id = $1 ORDER BY name ASC`

	rows, err := r.pool.Query(ctx, query, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var residents []domain.Resident
	for rows.Next() {
		resident, err := scanResident(rows)
		if err != nil {
			return nil, err
		}
		residents = append(residents, resident)
	}
	return residents, rows.Err()
}

// GetResident fetches one resident by id, or nil when absent.
func (r *Repository) GetResident(ctx context.Context, ownerID, residentID string) (*domain.Resident, error) {
	const query = `SELECT resident_id::text, owner_id, name, age, room_number, condition, guardian_name, guardian_contact, photo_url, created_at, updated_at
        FROM residents WHERE owner_id = $1 AND resident_id = $2`

	rows, err := r.pool.Query(ctx, query, ownerID, residentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	if !rows.Next() {
		return nil, rows.Err()
	}
	resident, err := scanResident(rows)
	if err != nil {
		return nil, err
	}
	return &resident, rows.Err()
}

// UpdateResident edits resident fields in place.
func (r *Repository) UpdateResident(ctx context.Context, resident domain.Resident) error {
	const stmt = `UPDATE residents
        SET name = $1, age = $2, room_number = $3, condition = $4, guardian_name = $5, guardian_contact = $6, photo_url = $7, updated_at = $8
        WHERE owner_id = $9 AND resident_id = $10`

	_, err := r.pool.Exec(ctx, stmt,
		resident.Name,
		resident.Age,
		nullIfEmpty(resident.RoomNumber),
		nullIfEmpty(resident.Condition),
		nullIfEmpty(resident.GuardianName),
		nullIfEmpty(resident.GuardianContact),
		nullIfEmpty(resident.PhotoURL),
		resident.UpdatedAt,
		resident.OwnerID,
		resident.ID,
	)
	return err
}

// DeleteResident removes a resident; assignments, instances, and care logs
// cascade via FKs.
func (r *Repository) DeleteResident(ctx context.Context, ownerID, residentID string) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM residents WHERE owner_id = $1 AND resident_id = $2`, ownerID, residentID)
	return err
}

// AddVitals inserts one vitals reading.
func (r *Repository) AddVitals(ctx context.Context, entry domain.VitalsEntry) error {
	const stmt = `INSERT INTO vitals (vital_id, resident_id, owner_id, date, time, bp, temp, pulse, resp, spo2, sugar, insulin, created_at)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13)`

	_, err := r.pool.Exec(ctx, stmt,
		entry.ID,
		entry.ResidentID,
		entry.OwnerID,
		entry.Date.String(),
		entry.Time.String(),
		nullIfEmpty(entry.BP),
		nullIfEmpty(entry.Temp),
		nullIfEmpty(entry.Pulse),
		nullIfEmpty(entry.Resp),
		nullIfEmpty(entry.SpO2),
		nullIfEmpty(entry.Sugar),
		nullIfEmpty(entry.Insulin),
		entry.CreatedAt,
	)
	return err
}

// ListVitals returns a resident's readings for a date, most recent first.
func (r *Repository) ListVitals(ctx context.Context, ownerID, residentID string, date domain.Date) ([]domain.VitalsEntry, error) {
	const query = `SELECT vital_id::text, resident_id::text, owner_id, date::text, time::text, bp, temp, pulse, resp, spo2, sugar, insulin, created_at
        FROM vitals WHERE owner_id = $1 AND resident_id = $2 AND date = $3 ORDER BY time DESC`

	rows, err := r.pool.Query(ctx, query, ownerID, residentID, date.String())
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []domain.VitalsEntry
	for rows.Next() {
		var (
			entry   domain.VitalsEntry
			dateRaw string
			timeRaw string
			fields  [7]*string
		)
		if err := rows.Scan(&entry.ID, &entry.ResidentID, &entry.OwnerID, &dateRaw, &timeRaw,
			&fields[0], &fields[1], &fields[2], &fields[3], &fields[4], &fields[5], &fields[6], &entry.CreatedAt); err != nil {
			return nil, err
		}
		if entry.Date, err = domain.ParseDate(dateRaw); err != nil {
			return nil, err
		}
		if entry.Time, err = domain.ParseTimeOfDay(timeRaw); err != nil {
			return nil, err
		}
		entry.BP = deref(fields[0])
		entry.Temp = deref(fields[1])
		entry.Pulse = deref(fields[2])
		entry.Resp = deref(fields[3])
		entry.SpO2 = deref(fields[4])
		entry.Sugar = deref(fields[5])
		entry.Insulin = deref(fields[6])
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}

// DeleteVitals removes one reading.
func (r *Repository) DeleteVitals(ctx context.Context, ownerID, vitalID string) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM vitals WHERE owner_id = $1 AND vital_id = $2`, ownerID, vitalID)
	return err
}

// AddIntakeOutput inserts one intake/output log line.
func (r *Repository) AddIntakeOutput(ctx context.Context, entry domain.IntakeOutputEntry) error {
	const stmt = `INSERT INTO intake_output (entry_id, resident_id, owner_id, date, time, intake_ml, urine_ml, stool, created_at)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)`

	_, err := r.pool.Exec(ctx, stmt,
		entry.ID,
		entry.ResidentID,
		entry.OwnerID,
		entry.Date.String(),
		entry.Time.String(),
		entry.IntakeML,
		entry.UrineML,
		nullIfEmpty(entry.Stool),
		entry.CreatedAt,
	)
	return err
}

// ListIntakeOutput returns a resident's entries for a date, most recent first.
func (r *Repository) ListIntakeOutput(ctx context.Context, ownerID, residentID string, date domain.Date) ([]domain.IntakeOutputEntry, error) {
	const query = `SELECT entry_id::text, resident_id::text, owner_id, date::text, time::text, intake_ml, urine_ml, stool, created_at
        FROM intake_output WHERE owner_id = $1 AND resident_id = $2 AND date = $3 ORDER BY time DESC`

	rows, err := r.pool.Query(ctx, query, ownerID, residentID, date.String())
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []domain.IntakeOutputEntry
	for rows.Next() {
		var (
			entry   domain.IntakeOutputEntry
			dateRaw string
			timeRaw string
			stool   *string
		)
		if err := rows.Scan(&entry.ID, &entry.ResidentID, &entry.OwnerID, &dateRaw, &timeRaw, &entry.IntakeML, &entry.UrineML, &stool, &entry.CreatedAt); err != nil {
			return nil, err
		}
		if entry.Date, err = domain.ParseDate(dateRaw); err != nil {
			return nil, err
		}
		if entry.Time, err = domain.ParseTimeOfDay(timeRaw); err != nil {
			return nil, err
		}
		entry.Stool = deref(stool)
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}

// UpdateIntakeOutput edits one entry in place.
func (r *Repository) UpdateIntakeOutput(ctx context.Context, entry domain.IntakeOutputEntry) error {
	const stmt = `UPDATE intake_output
        SET time = $1, intake_ml = $2, urine_ml = $3, stool = $4
        WHERE owner_id = $5 AND entry_id = $6`

	_, err := r.pool.Exec(ctx, stmt,
		entry.Time.String(),
		entry.IntakeML,
		entry.UrineML,
		nullIfEmpty(entry.Stool),
		entry.OwnerID,
		entry.ID,
	)
	return err
}

// DeleteIntakeOutput removes one entry.
func (r *Repository) DeleteIntakeOutput(ctx context.Context, ownerID, entryID string) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM intake_output WHERE owner_id = $1 AND entry_id = $2`, ownerID, entryID)
	return err
}

func insertOutbox(ctx context.Context, tx pgx.Tx, ownerID, aggregateID, eventType string, payload interface{}) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	meta, ok := eventCatalog[eventType]
	if !ok {
		return fmt.Errorf("unknown event type: %s", eventType)
	}

	dedupeKey := fmt.Sprintf("%s:%s", aggregateID, eventType)

	const stmt = `INSERT INTO outbox (owner_id, aggregate_type, aggregate_id, event_type, topic, schema_subject, partition_key, payload, dedupe_key)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)`

	_, err = tx.Exec(ctx, stmt,
		ownerID,
		"task_instance",
		aggregateID,
		eventType,
		meta.Topic,
		meta.SchemaSubject,
		meta.PartitionKeyFn(ownerID, aggregateID),
		body,
		dedupeKey,
	)
	return err
}

func scanInstance(rows pgx.Rows) (domain.DailyTaskInstance, error) {
	var (
		instance  domain.DailyTaskInstance
		dateRaw   string
		timeRaw   *string
		statusRaw string
	)
	if err := rows.Scan(&instance.ID, &instance.ActivityID, &instance.ResidentID, &instance.OwnerID, &dateRaw, &timeRaw, &statusRaw, &instance.Label, &instance.CreatedAt, &instance.UpdatedAt); err != nil {
		return domain.DailyTaskInstance{}, err
	}
	var err error
	if instance.Date, err = domain.ParseDate(dateRaw); err != nil {
		return domain.DailyTaskInstance{}, err
	}
	if timeRaw != nil {
		tod, err := domain.ParseTimeOfDay(*timeRaw)
		if err != nil {
			return domain.DailyTaskInstance{}, err
		}
		instance.ScheduledTime = &tod
	}
	instance.Status = domain.InstanceStatus(statusRaw)
	return instance, nil
}

func scanResident(rows pgx.Rows) (domain.Resident, error) {
	var (
		resident domain.Resident
		fields   [5]*string
	)
	if err := rows.Scan(&resident.ID, &resident.OwnerID, &resident.Name, &resident.Age,
		&fields[0], &fields[1], &fields[2], &fields[3], &fields[4], &resident.CreatedAt, &resident.UpdatedAt); err != nil {
		return domain.Resident{}, err
	}
	resident.RoomNumber = deref(fields[0])
	resident.Condition = deref(fields[1])
	resident.GuardianName = deref(fields[2])
	resident.GuardianContact = deref(fields[3])
	resident.PhotoURL = deref(fields[4])
	return resident, nil
}

func toWeekdays(raw []int32) domain.Weekdays {
	if len(raw) == 0 {
		return nil
	}
	out := make(domain.Weekdays, 0, len(raw))
	for _, day := range raw {
		out = append(out, int(day))
	}
	return out
}

func toInt32s(days domain.Weekdays) []int32 {
	out := make([]int32, 0, len(days))
	for _, day := range days {
		out = append(out, int32(day))
	}
	return out
}

func timeOrNil(t *domain.TimeOfDay) interface{} {
	if t == nil {
		return nil
	}
	return t.String()
}

func nullIfEmpty(value string) interface{} {
	if value == "" {
		return nil
	}
	return value
}

func deref(value *string) string {
	if value == nil {
		return ""
	}
	return *value
}

// EventMetadata describes how to route an outbox event.
type EventMetadata struct {
	Topic          string
	SchemaSubject  string
	PartitionKeyFn func(ownerID, aggregateID string) string
}

var eventCatalog = map[string]EventMetadata{
	"task_instance.created": {
		Topic:         "care_task_events",
		SchemaSubject: "care_task_events-value",
		PartitionKeyFn: func(ownerID, _ string) string {
			return ownerID
		},
	},
	"task_instance.status_changed": {
		Topic:         "care_task_status",
		SchemaSubject: "care_task_status-value",
		PartitionKeyFn: func(_, aggregateID string) string {
			return aggregateID
		},
	},
}
