package worker

import (
	"context"
	"time"

	"github.com/patrickmn/go-cache"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/chopperdodo/DC-KS-ASSISTANT-R4/internal/category"
	"github.com/chopperdodo/DC-KS-ASSISTANT-R4/internal/model"
	"github.com/chopperdodo/DC-KS-ASSISTANT-R4/internal/notifier"
	"github.com/chopperdodo/DC-KS-ASSISTANT-R4/internal/repository"
	"github.com/chopperdodo/DC-KS-ASSISTANT-R4/pkg/logger"
	"github.com/chopperdodo/DC-KS-ASSISTANT-R4/pkg/metrics"
)

type ReminderConfig struct {
	PollInterval        time.Duration
	GracePeriod         time.Duration
	SendTimeout         time.Duration
	DestinationCacheTTL time.Duration
}

// ReminderWorker is the periodic control loop: each tick it retires
// expired events, selects the pending candidates, classifies the due
// lead bucket and emits exactly one notification per bucket per event.
type ReminderWorker struct {
	events    repository.EventRepository
	guilds    repository.GuildSettingsRepository
	sink      notifier.Notifier
	destCache *cache.Cache
	config    ReminderConfig
	logger    *logger.Logger
	metrics   *metrics.Metrics
	now       func() time.Time
}

func NewReminderWorker(
	events repository.EventRepository,
	guilds repository.GuildSettingsRepository,
	sink notifier.Notifier,
	config ReminderConfig,
	logger *logger.Logger,
	metrics *metrics.Metrics,
) *ReminderWorker {
	if config.PollInterval <= 0 {
		panic("PollInterval must be greater than 0")
	}
	if config.GracePeriod <= 0 {
		panic("GracePeriod must be greater than 0")
	}
	if config.SendTimeout <= 0 {
		panic("SendTimeout must be greater than 0")
	}

	return &ReminderWorker{
		events:    events,
		guilds:    guilds,
		sink:      sink,
		destCache: cache.New(config.DestinationCacheTTL, 2*config.DestinationCacheTTL),
		config:    config,
		logger:    logger,
		metrics:   metrics,
		now:       time.Now,
	}
}

// Start runs the dispatch loop until ctx is cancelled. Ticks run
// synchronously on a single goroutine, so they never overlap: a slow
// tick delays the next one instead of racing it for unset flags.
func (w *ReminderWorker) Start(ctx context.Context) {
	ticker := time.NewTicker(w.config.PollInterval)
	defer ticker.Stop()

	w.logger.Info("starting reminder dispatcher",
		"poll_interval", w.config.PollInterval.String(),
		"grace_period", w.config.GracePeriod.String())

	for {
		select {
		case <-ctx.Done():
			w.logger.Info("shutting down reminder dispatcher")
			return
		case <-ticker.C:
			w.tick(ctx)
		}
	}
}

func (w *ReminderWorker) tick(ctx context.Context) {
	timer := prometheus.NewTimer(w.metrics.TickDuration)
	defer timer.ObserveDuration()

	now := w.now().UTC()

	// Purge and dispatch are independent failure domains: a purge error
	// never blocks dispatch in the same tick.
	w.purge(ctx, now)

	events, err := w.events.ListPendingReminders(ctx, now)
	if err != nil {
		w.logger.Error(err, "failed to list pending reminders")
		return
	}
	w.metrics.CandidateEvents.Set(float64(len(events)))
	w.logger.Debug("tick candidates selected", "count", len(events))

	for i := range events {
		w.process(ctx, &events[i], now)
	}
}

func (w *ReminderWorker) purge(ctx context.Context, now time.Time) {
	purged, err := w.events.DeleteExpired(ctx, now.Add(-w.config.GracePeriod))
	if err != nil {
		w.logger.Error(err, "retention purge failed")
		return
	}
	if purged > 0 {
		w.metrics.EventsPurged.Add(float64(purged))
		w.logger.Info("purged expired events", "count", purged)
	}
}

// process handles a single candidate. Failures are logged and skipped so
// one broken event never aborts the rest of the tick; the unmarked
// bucket is retried next tick.
func (w *ReminderWorker) process(ctx context.Context, event *model.Event, now time.Time) {
	bucket, urgency, due := classify(event, now)
	if !due {
		return
	}

	channelID, err := w.destination(ctx, event.GuildID)
	if err != nil {
		w.metrics.ReminderFailures.WithLabelValues("destination").Inc()
		w.logger.Error(err, "destination lookup failed",
			"event_id", event.ID, "guild_id", event.GuildID)
		return
	}
	if channelID == "" {
		// No destination configured: dispatch suppressed for the guild.
		w.logger.Warn(nil, "skipping reminder, no channel configured",
			"event_id", event.ID, "guild_id", event.GuildID)
		return
	}

	reminder := &model.Reminder{
		EventID:      event.ID,
		GuildID:      event.GuildID,
		ChannelID:    channelID,
		Name:         event.Name,
		Category:     category.Resolve(event.Name).Key,
		Description:  event.Description,
		StartTime:    event.StartTime,
		MinutesUntil: int(event.StartTime.Sub(now).Minutes()),
		Bucket:       bucket,
		Urgency:      urgency,
	}

	// Send before marking. A send that succeeds but fails to mark risks
	// one duplicate next tick; marking first would silently suppress the
	// reminder forever. The duplicate is the accepted failure direction.
	sendCtx, cancel := context.WithTimeout(ctx, w.config.SendTimeout)
	defer cancel()
	if err := w.sink.SendReminder(sendCtx, reminder); err != nil {
		w.metrics.ReminderFailures.WithLabelValues("send").Inc()
		w.logger.Error(err, "reminder send failed",
			"event_id", event.ID, "bucket", string(bucket))
		return
	}

	if err := w.events.MarkBucketFired(ctx, event.ID, bucket); err != nil {
		w.metrics.ReminderFailures.WithLabelValues("mark").Inc()
		w.logger.Error(err, "failed to mark bucket fired",
			"event_id", event.ID, "bucket", string(bucket))
		return
	}

	w.metrics.RemindersSent.WithLabelValues(string(bucket)).Inc()
	w.logger.Info("reminder sent",
		"event_id", event.ID,
		"name", event.Name,
		"bucket", string(bucket),
		"minutes_until", reminder.MinutesUntil)
}

// destination resolves a guild's channel through a TTL cache. An empty
// string means the guild has no destination configured.
func (w *ReminderWorker) destination(ctx context.Context, guildID string) (string, error) {
	if v, ok := w.destCache.Get(guildID); ok {
		return v.(string), nil
	}

	settings, err := w.guilds.Get(ctx, guildID)
	if err != nil {
		return "", err
	}

	channelID := ""
	if settings != nil {
		channelID = settings.ChannelID
	}
	w.destCache.Set(guildID, channelID, cache.DefaultExpiration)
	return channelID, nil
}
