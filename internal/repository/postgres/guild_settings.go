package postgres

import (
	"context"
	"database/sql"
	stderrors "errors"
	"fmt"
	"time"

	"github.com/chopperdodo/DC-KS-ASSISTANT-R4/internal/model"
	"github.com/chopperdodo/DC-KS-ASSISTANT-R4/pkg/errors"
)

func (r *guildSettingsRepository) Get(ctx context.Context, guildID string) (_ *model.GuildSettings, err error) {
	defer func(start time.Time) { recordOp(r.m, "get_guild_settings", start, err) }(time.Now())

	query := `
		SELECT guild_id, channel_id, updated_at
		FROM guild_settings
		WHERE guild_id = $1
	`
	var settings model.GuildSettings
	err = r.db.GetContext(ctx, &settings, query, guildID)
	if stderrors.Is(err, sql.ErrNoRows) {
		// Absence means dispatch is suppressed for the guild.
		return nil, nil
	}
	if err != nil {
		return nil, errors.StoreUnavailable(fmt.Errorf("get guild settings: %w", err))
	}
	return &settings, nil
}

func (r *guildSettingsRepository) Set(ctx context.Context, guildID, channelID string) (err error) {
	defer func(start time.Time) { recordOp(r.m, "set_guild_settings", start, err) }(time.Now())

	query := `
		INSERT INTO guild_settings (guild_id, channel_id, updated_at)
		VALUES ($1, $2, now())
		ON CONFLICT (guild_id)
		DO UPDATE SET channel_id = EXCLUDED.channel_id, updated_at = now()
	`
	if _, err = r.db.ExecContext(ctx, query, guildID, channelID); err != nil {
		return errors.StoreUnavailable(fmt.Errorf("set guild settings: %w", err))
	}
	return nil
}

func (r *guildSettingsRepository) List(ctx context.Context) (_ []model.GuildSettings, err error) {
	defer func(start time.Time) { recordOp(r.m, "list_guild_settings", start, err) }(time.Now())

	query := `
		SELECT guild_id, channel_id, updated_at
		FROM guild_settings
		ORDER BY guild_id ASC
	`
	var settings []model.GuildSettings
	if err = r.db.SelectContext(ctx, &settings, query); err != nil {
		return nil, errors.StoreUnavailable(fmt.Errorf("list guild settings: %w", err))
	}
	return settings, nil
}
