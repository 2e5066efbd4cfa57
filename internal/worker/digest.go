package worker

import (
	"context"
	"time"

	"github.com/chopperdodo/DC-KS-ASSISTANT-R4/internal/model"
	"github.com/chopperdodo/DC-KS-ASSISTANT-R4/internal/notifier"
	"github.com/chopperdodo/DC-KS-ASSISTANT-R4/internal/repository"
	"github.com/chopperdodo/DC-KS-ASSISTANT-R4/pkg/logger"
	"github.com/chopperdodo/DC-KS-ASSISTANT-R4/pkg/metrics"
)

// DigestWorker publishes an upcoming-schedule summary to every guild
// with a configured destination. It is driven by a cron schedule from
// the worker binary rather than the dispatch ticker.
type DigestWorker struct {
	events  repository.EventRepository
	guilds  repository.GuildSettingsRepository
	sink    notifier.Notifier
	logger  *logger.Logger
	metrics *metrics.Metrics
	now     func() time.Time
}

func NewDigestWorker(
	events repository.EventRepository,
	guilds repository.GuildSettingsRepository,
	sink notifier.Notifier,
	logger *logger.Logger,
	metrics *metrics.Metrics,
) *DigestWorker {
	return &DigestWorker{
		events:  events,
		guilds:  guilds,
		sink:    sink,
		logger:  logger,
		metrics: metrics,
		now:     time.Now,
	}
}

// Run performs one digest pass. Per-guild failures are logged and do not
// stop the fan-out.
func (w *DigestWorker) Run(ctx context.Context) {
	settings, err := w.guilds.List(ctx)
	if err != nil {
		w.logger.Error(err, "failed to list guild settings for digest")
		return
	}

	now := w.now().UTC()
	for _, gs := range settings {
		if err := w.publish(ctx, gs, now); err != nil {
			w.logger.Error(err, "digest publish failed", "guild_id", gs.GuildID)
		}
	}
}

func (w *DigestWorker) publish(ctx context.Context, gs model.GuildSettings, now time.Time) error {
	events, err := w.events.ListByGuild(ctx, gs.GuildID)
	if err != nil {
		return err
	}

	digest := &model.Digest{
		GuildID:     gs.GuildID,
		ChannelID:   gs.ChannelID,
		GeneratedAt: now,
	}
	for _, e := range events {
		if e.StartTime.After(now) {
			digest.Entries = append(digest.Entries, model.DigestEntry{
				EventID:   e.ID,
				Name:      e.Name,
				StartTime: e.StartTime,
			})
		}
	}
	if len(digest.Entries) == 0 {
		return nil
	}

	if err := w.sink.SendDigest(ctx, digest); err != nil {
		return err
	}
	w.metrics.DigestsPublished.Inc()
	return nil
}
