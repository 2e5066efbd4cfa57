package model

import (
	"time"

	"github.com/lib/pq"
)

// LeadBucket identifies a reminder window that fires exactly once per event.
type LeadBucket string

const (
	// BucketEarly is the early warning. It covers the standard 30-minute
	// window and the shortened 15-minute window used by urgent categories.
	BucketEarly LeadBucket = "early"
	// BucketFinal is the last-call warning inside the 5-minute window.
	BucketFinal LeadBucket = "final"
)

// AllBuckets lists every bucket in firing order.
var AllBuckets = []LeadBucket{BucketEarly, BucketFinal}

// Event is one scheduled occurrence. Recurring series are materialized as
// independent rows, one per occurrence.
type Event struct {
	ID              int64          `json:"id" db:"id"`
	GuildID         string         `json:"guild_id" db:"guild_id"`
	Name            string         `json:"name" db:"name"`
	StartTime       time.Time      `json:"start_time" db:"start_time"`
	DurationMinutes int            `json:"duration_minutes" db:"duration_minutes"`
	Description     string         `json:"description" db:"description"`
	RecurrenceSecs  *int64         `json:"recurrence_step_seconds,omitempty" db:"recurrence_step_seconds"`
	BucketsFired    pq.StringArray `json:"buckets_fired" db:"buckets_fired"`
	CreatedAt       time.Time      `json:"created_at" db:"created_at"`
	UpdatedAt       time.Time      `json:"updated_at" db:"updated_at"`
}

// Fired reports whether the given lead bucket has already been dispatched.
// Buckets are monotonic: once fired they never reset.
func (e *Event) Fired(b LeadBucket) bool {
	for _, v := range e.BucketsFired {
		if v == string(b) {
			return true
		}
	}
	return false
}

// End returns the exclusive end of the event's occupancy interval
// [StartTime, StartTime+Duration). Zero-duration events occupy an instant.
func (e *Event) End() time.Time {
	return e.StartTime.Add(time.Duration(e.DurationMinutes) * time.Minute)
}

// Overlaps reports whether two events occupy intersecting time ranges
// using half-open intervals: touching boundaries do not overlap, and a
// zero-duration event conflicts only with an interval that strictly
// contains its instant.
func (e *Event) Overlaps(other *Event) bool {
	return e.StartTime.Before(other.End()) && other.StartTime.Before(e.End())
}

// CreateEventRequest is the atomic payload the scheduling workflow hands
// to the core. Multi-step UI collection happens upstream.
type CreateEventRequest struct {
	Name            string `json:"name" binding:"required"`
	Time            string `json:"time" binding:"required"`
	DurationMinutes *int   `json:"duration_minutes,omitempty" binding:"omitempty,gte=0"`
	Description     string `json:"description"`
	Repeat          int    `json:"repeat" binding:"gte=0"`
	Interval        string `json:"interval" binding:"omitempty,interval"`
}

// CreateEventResponse reports the materialized series plus any overlap
// warnings. Conflicts warn, they never block creation.
type CreateEventResponse struct {
	Events    []Event `json:"events"`
	Conflicts []Event `json:"conflicts,omitempty"`
}

// ConflictCheckRequest previews overlaps for a proposed event without
// persisting anything. ExcludeReplaced marks the proposal as an edit
// replacement; the record being replaced is matched by name and start
// time because the replacement has no identity yet.
type ConflictCheckRequest struct {
	Name            string `json:"name" binding:"required"`
	Time            string `json:"time" binding:"required"`
	DurationMinutes *int   `json:"duration_minutes,omitempty" binding:"omitempty,gte=0"`
	ExcludeReplaced bool   `json:"exclude_replaced"`
}
