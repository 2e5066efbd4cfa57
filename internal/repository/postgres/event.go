package postgres

import (
	"context"
	"database/sql"
	stderrors "errors"
	"fmt"
	"time"

	"github.com/lib/pq"

	"github.com/chopperdodo/DC-KS-ASSISTANT-R4/internal/model"
	"github.com/chopperdodo/DC-KS-ASSISTANT-R4/pkg/errors"
)

func (r *eventRepository) Create(ctx context.Context, event *model.Event) (err error) {
	defer func(start time.Time) { recordOp(r.m, "create_event", start, err) }(time.Now())

	query := `
		INSERT INTO events (
			guild_id, name, start_time, duration_minutes,
			description, recurrence_step_seconds, buckets_fired,
			created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id
	`
	event.StartTime = event.StartTime.UTC().Truncate(time.Minute)
	event.CreatedAt = time.Now().UTC()
	event.UpdatedAt = event.CreatedAt
	if event.BucketsFired == nil {
		event.BucketsFired = pq.StringArray{}
	}

	err = r.db.QueryRowContext(ctx, query,
		event.GuildID,
		event.Name,
		event.StartTime,
		event.DurationMinutes,
		event.Description,
		event.RecurrenceSecs,
		event.BucketsFired,
		event.CreatedAt,
		event.UpdatedAt,
	).Scan(&event.ID)
	if err != nil {
		return errors.StoreUnavailable(fmt.Errorf("create event: %w", err))
	}
	return nil
}

func (r *eventRepository) Get(ctx context.Context, id int64) (_ *model.Event, err error) {
	defer func(start time.Time) { recordOp(r.m, "get_event", start, err) }(time.Now())

	query := `
		SELECT id, guild_id, name, start_time, duration_minutes,
			   description, recurrence_step_seconds, buckets_fired,
			   created_at, updated_at
		FROM events
		WHERE id = $1
	`
	var event model.Event
	err = r.db.GetContext(ctx, &event, query, id)
	if stderrors.Is(err, sql.ErrNoRows) {
		return nil, errors.EventNotFound(id)
	}
	if err != nil {
		return nil, errors.StoreUnavailable(fmt.Errorf("get event: %w", err))
	}
	return &event, nil
}

func (r *eventRepository) ListByGuild(ctx context.Context, guildID string) (_ []model.Event, err error) {
	defer func(start time.Time) { recordOp(r.m, "list_events", start, err) }(time.Now())

	query := `
		SELECT id, guild_id, name, start_time, duration_minutes,
			   description, recurrence_step_seconds, buckets_fired,
			   created_at, updated_at
		FROM events
		WHERE guild_id = $1
		ORDER BY start_time ASC, id ASC
	`
	var events []model.Event
	if err = r.db.SelectContext(ctx, &events, query, guildID); err != nil {
		return nil, errors.StoreUnavailable(fmt.Errorf("list events: %w", err))
	}
	return events, nil
}

func (r *eventRepository) Delete(ctx context.Context, id int64) (err error) {
	defer func(start time.Time) { recordOp(r.m, "delete_event", start, err) }(time.Now())

	result, err := r.db.ExecContext(ctx, `DELETE FROM events WHERE id = $1`, id)
	if err != nil {
		return errors.StoreUnavailable(fmt.Errorf("delete event: %w", err))
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return errors.StoreUnavailable(fmt.Errorf("delete event rows: %w", err))
	}
	if rows == 0 {
		return errors.EventNotFound(id)
	}
	return nil
}

func (r *eventRepository) ListPendingReminders(ctx context.Context, now time.Time) (_ []model.Event, err error) {
	defer func(start time.Time) { recordOp(r.m, "list_pending_reminders", start, err) }(time.Now())

	// An event with every bucket fired is never refetched.
	query := `
		SELECT id, guild_id, name, start_time, duration_minutes,
			   description, recurrence_step_seconds, buckets_fired,
			   created_at, updated_at
		FROM events
		WHERE start_time > $1
		  AND NOT (buckets_fired @> $2)
		ORDER BY start_time ASC, id ASC
	`
	all := make(pq.StringArray, 0, len(model.AllBuckets))
	for _, b := range model.AllBuckets {
		all = append(all, string(b))
	}

	var events []model.Event
	if err = r.db.SelectContext(ctx, &events, query, now.UTC(), all); err != nil {
		return nil, errors.StoreUnavailable(fmt.Errorf("list pending reminders: %w", err))
	}
	return events, nil
}

func (r *eventRepository) MarkBucketFired(ctx context.Context, id int64, bucket model.LeadBucket) (err error) {
	defer func(start time.Time) { recordOp(r.m, "mark_bucket_fired", start, err) }(time.Now())

	// Append-if-absent keeps the flag monotonic and the call idempotent.
	query := `
		UPDATE events
		SET buckets_fired = array_append(buckets_fired, $2),
		    updated_at = now()
		WHERE id = $1
		  AND NOT (buckets_fired @> ARRAY[$2])
	`
	if _, err = r.db.ExecContext(ctx, query, id, string(bucket)); err != nil {
		return errors.StoreUnavailable(fmt.Errorf("mark bucket fired: %w", err))
	}
	return nil
}

func (r *eventRepository) DeleteExpired(ctx context.Context, cutoff time.Time) (_ int64, err error) {
	defer func(start time.Time) { recordOp(r.m, "delete_expired", start, err) }(time.Now())

	result, err := r.db.ExecContext(ctx, `DELETE FROM events WHERE start_time < $1`, cutoff.UTC())
	if err != nil {
		return 0, errors.StoreUnavailable(fmt.Errorf("delete expired events: %w", err))
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return 0, errors.StoreUnavailable(fmt.Errorf("delete expired rows: %w", err))
	}
	return rows, nil
}
