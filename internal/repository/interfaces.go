package repository

import (
	"context"
	"time"

	"github.com/chopperdodo/DC-KS-ASSISTANT-R4/internal/model"
)

// EventRepository is durable CRUD plus the reminder bookkeeping the
// dispatcher needs. All mutations are atomic at the single-record level;
// series creation is intentionally not transactional.
type EventRepository interface {
	Create(ctx context.Context, event *model.Event) error
	Get(ctx context.Context, id int64) (*model.Event, error)
	// ListByGuild returns the guild's events ordered by start_time
	// ascending, ties broken by id ascending.
	ListByGuild(ctx context.Context, guildID string) ([]model.Event, error)
	Delete(ctx context.Context, id int64) error
	// ListPendingReminders returns future events that still have at
	// least one lead bucket left to fire.
	ListPendingReminders(ctx context.Context, now time.Time) ([]model.Event, error)
	// MarkBucketFired durably records that a lead bucket was dispatched.
	// Marking an already-fired bucket is a no-op, not an error.
	MarkBucketFired(ctx context.Context, id int64, bucket model.LeadBucket) error
	// DeleteExpired removes every event with start_time before cutoff
	// and reports how many rows were purged.
	DeleteExpired(ctx context.Context, cutoff time.Time) (int64, error)
}

// GuildSettingsRepository stores the per-guild notification destination.
type GuildSettingsRepository interface {
	// Get returns (nil, nil) when the guild has no destination
	// configured; dispatch is suppressed for that guild.
	Get(ctx context.Context, guildID string) (*model.GuildSettings, error)
	Set(ctx context.Context, guildID, channelID string) error
	List(ctx context.Context) ([]model.GuildSettings, error)
}
