package model

import "time"

// GuildSettings maps a guild to the channel where reminders are
// delivered. A guild without settings has dispatch suppressed; that is
// configuration, not an error.
type GuildSettings struct {
	GuildID   string    `json:"guild_id" db:"guild_id"`
	ChannelID string    `json:"channel_id" db:"channel_id"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// SetChannelRequest configures the announcement destination for a guild.
type SetChannelRequest struct {
	ChannelID string `json:"channel_id" binding:"required"`
}
