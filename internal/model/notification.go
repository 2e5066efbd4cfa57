package model

import "time"

// Urgency labels how the sink should render a reminder.
type Urgency string

const (
	UrgencyStandard Urgency = "standard"
	UrgencyUrgent   Urgency = "urgent"
	UrgencyFinal    Urgency = "final"
)

// Reminder is the structured payload handed to the notification sink.
// The core supplies fields; the sink owns presentation.
type Reminder struct {
	EventID      int64      `json:"event_id"`
	GuildID      string     `json:"guild_id"`
	ChannelID    string     `json:"channel_id"`
	Name         string     `json:"name"`
	Category     string     `json:"category"`
	Description  string     `json:"description,omitempty"`
	StartTime    time.Time  `json:"start_time"`
	MinutesUntil int        `json:"minutes_until"`
	Bucket       LeadBucket `json:"bucket"`
	Urgency      Urgency    `json:"urgency"`
}

// DigestEntry is one row of the daily schedule digest.
type DigestEntry struct {
	EventID   int64     `json:"event_id"`
	Name      string    `json:"name"`
	StartTime time.Time `json:"start_time"`
}

// Digest summarizes a guild's upcoming schedule.
type Digest struct {
	GuildID     string        `json:"guild_id"`
	ChannelID   string        `json:"channel_id"`
	GeneratedAt time.Time     `json:"generated_at"`
	Entries     []DigestEntry `json:"entries"`
}
