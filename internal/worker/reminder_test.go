package worker

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chopperdodo/DC-KS-ASSISTANT-R4/internal/model"
)

func newTestWorker(events *fakeEventRepo, guilds *fakeGuildRepo, sink *fakeSink) *ReminderWorker {
	w := NewReminderWorker(events, guilds, sink, ReminderConfig{
		PollInterval:        time.Minute,
		GracePeriod:         time.Hour,
		SendTimeout:         time.Second,
		DestinationCacheTTL: 5 * time.Minute,
	}, testLogger, testMetrics)
	return w
}

func tickAt(w *ReminderWorker, at time.Time) {
	w.now = func() time.Time { return at }
	w.tick(context.Background())
}

func setChannel(t *testing.T, guilds *fakeGuildRepo, guildID, channelID string) {
	t.Helper()
	require.NoError(t, guilds.Set(context.Background(), guildID, channelID))
}

func TestTickIdempotence(t *testing.T) {
	events := newFakeEventRepo()
	guilds := newFakeGuildRepo()
	sink := &fakeSink{}
	w := newTestWorker(events, guilds, sink)

	setChannel(t, guilds, "g1", "chan-1")
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	events.add(model.Event{GuildID: "g1", Name: "Bear", StartTime: now.Add(27 * time.Minute)})

	tickAt(w, now)
	require.Len(t, sink.sent(), 1)
	assert.Equal(t, model.BucketEarly, sink.sent()[0].Bucket)

	// The event is still inside the early window next tick, but the
	// fired bucket suppresses a second send.
	tickAt(w, now.Add(time.Minute))
	assert.Len(t, sink.sent(), 1)
}

func TestTickExactlyOncePerBucket(t *testing.T) {
	events := newFakeEventRepo()
	guilds := newFakeGuildRepo()
	sink := &fakeSink{}
	w := newTestWorker(events, guilds, sink)

	setChannel(t, guilds, "g1", "chan-1")
	start := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	events.add(model.Event{GuildID: "g1", Name: "Bear", StartTime: start})

	// Tick every minute from 40 minutes before start until just after.
	for lead := 40; lead >= -1; lead-- {
		tickAt(w, start.Add(-time.Duration(lead)*time.Minute))
	}

	var early, final int
	for _, r := range sink.sent() {
		switch r.Bucket {
		case model.BucketEarly:
			early++
			assert.Equal(t, model.UrgencyStandard, r.Urgency)
		case model.BucketFinal:
			final++
			assert.Equal(t, model.UrgencyFinal, r.Urgency)
		}
	}
	assert.Equal(t, 1, early, "exactly one early notification across the sweep")
	assert.Equal(t, 1, final, "exactly one final notification across the sweep")
}

func TestTickUrgentCategoryWindow(t *testing.T) {
	events := newFakeEventRepo()
	guilds := newFakeGuildRepo()
	sink := &fakeSink{}
	w := newTestWorker(events, guilds, sink)

	setChannel(t, guilds, "g1", "chan-1")
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	events.add(model.Event{GuildID: "g1", Name: "Shield", StartTime: now.Add(30 * time.Minute)})

	// 30 minutes out is the standard window, which urgent categories skip.
	tickAt(w, now)
	assert.Empty(t, sink.sent())

	tickAt(w, now.Add(15*time.Minute))
	require.Len(t, sink.sent(), 1)
	r := sink.sent()[0]
	assert.Equal(t, model.BucketEarly, r.Bucket)
	assert.Equal(t, model.UrgencyUrgent, r.Urgency)
	assert.Equal(t, 15, r.MinutesUntil)
	assert.Equal(t, "Shield / 護盾", r.Category)
}

func TestTickRetentionPurge(t *testing.T) {
	events := newFakeEventRepo()
	guilds := newFakeGuildRepo()
	sink := &fakeSink{}
	w := newTestWorker(events, guilds, sink)

	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	beyond := events.add(model.Event{GuildID: "g1", Name: "Bear", StartTime: now.Add(-time.Hour - time.Second)})
	atCutoff := events.add(model.Event{GuildID: "g1", Name: "Bear", StartTime: now.Add(-time.Hour)})
	within := events.add(model.Event{GuildID: "g1", Name: "Bear", StartTime: now.Add(-59 * time.Minute)})
	future := events.add(model.Event{GuildID: "g1", Name: "Bear", StartTime: now.Add(2 * time.Hour)})

	tickAt(w, now)

	_, err := events.Get(context.Background(), beyond.ID)
	assert.Error(t, err, "started more than the grace period ago, purged")
	_, err = events.Get(context.Background(), atCutoff.ID)
	assert.NoError(t, err, "exactly at the cutoff is retained")
	_, err = events.Get(context.Background(), within.ID)
	assert.NoError(t, err)
	_, err = events.Get(context.Background(), future.ID)
	assert.NoError(t, err)
}

func TestTickNoDestinationConfigured(t *testing.T) {
	events := newFakeEventRepo()
	guilds := newFakeGuildRepo()
	sink := &fakeSink{}
	w := newTestWorker(events, guilds, sink)

	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	e := events.add(model.Event{GuildID: "g1", Name: "Bear", StartTime: now.Add(30 * time.Minute)})

	tickAt(w, now)
	assert.Empty(t, sink.sent(), "dispatch suppressed without a channel")

	// The bucket stays unmarked, so configuring a channel later lets the
	// reminder fire while the event is still in the window.
	stored, err := events.Get(context.Background(), e.ID)
	require.NoError(t, err)
	assert.False(t, stored.Fired(model.BucketEarly))

	// The unconfigured result is cached; the second tick does not hit the
	// settings store again.
	calls := guilds.getCalls
	tickAt(w, now.Add(time.Minute))
	assert.Equal(t, calls, guilds.getCalls)
}

func TestTickSendFailureRetriesNextTick(t *testing.T) {
	events := newFakeEventRepo()
	guilds := newFakeGuildRepo()
	sink := &fakeSink{sendErr: fmt.Errorf("broker down")}
	w := newTestWorker(events, guilds, sink)

	setChannel(t, guilds, "g1", "chan-1")
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	e := events.add(model.Event{GuildID: "g1", Name: "Bear", StartTime: now.Add(30 * time.Minute)})

	tickAt(w, now)
	assert.Empty(t, sink.sent())
	stored, err := events.Get(context.Background(), e.ID)
	require.NoError(t, err)
	assert.False(t, stored.Fired(model.BucketEarly), "failed send leaves the bucket unmarked")

	sink.sendErr = nil
	tickAt(w, now.Add(time.Minute))
	require.Len(t, sink.sent(), 1)
	stored, err = events.Get(context.Background(), e.ID)
	require.NoError(t, err)
	assert.True(t, stored.Fired(model.BucketEarly))
}

func TestTickMarkFailureAllowsDuplicate(t *testing.T) {
	events := newFakeEventRepo()
	guilds := newFakeGuildRepo()
	sink := &fakeSink{}
	w := newTestWorker(events, guilds, sink)

	setChannel(t, guilds, "g1", "chan-1")
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	events.add(model.Event{GuildID: "g1", Name: "Bear", StartTime: now.Add(30 * time.Minute)})

	events.markErr = fmt.Errorf("store unavailable")
	tickAt(w, now)
	require.Len(t, sink.sent(), 1, "send happens before marking")

	// Marking failed, so the next tick resends. A duplicate is preferred
	// over silently losing the reminder.
	events.markErr = nil
	tickAt(w, now.Add(time.Minute))
	assert.Len(t, sink.sent(), 2)

	tickAt(w, now.Add(2*time.Minute))
	assert.Len(t, sink.sent(), 2)
}

func TestTickSkipsBrokenEventAndContinues(t *testing.T) {
	events := newFakeEventRepo()
	guilds := newFakeGuildRepo()
	sink := &fakeSink{}
	w := newTestWorker(events, guilds, sink)

	setChannel(t, guilds, "g1", "chan-1")
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	// First candidate's guild has no channel; second one dispatches fine.
	events.add(model.Event{GuildID: "g0", Name: "Bear", StartTime: now.Add(28 * time.Minute)})
	events.add(model.Event{GuildID: "g1", Name: "Bear", StartTime: now.Add(30 * time.Minute)})

	tickAt(w, now)
	require.Len(t, sink.sent(), 1)
	assert.Equal(t, "g1", sink.sent()[0].GuildID)
}

func TestTickBearLifecycle(t *testing.T) {
	events := newFakeEventRepo()
	guilds := newFakeGuildRepo()
	sink := &fakeSink{}
	w := newTestWorker(events, guilds, sink)

	setChannel(t, guilds, "g1", "chan-1")
	start := time.Date(2025, 1, 1, 10, 0, 0, 0, time.UTC)
	e := events.add(model.Event{GuildID: "g1", Name: "Bear", StartTime: start, DurationMinutes: 30})

	// Half an hour out: standard early reminder.
	tickAt(w, start.Add(-30*time.Minute))
	require.Len(t, sink.sent(), 1)
	assert.Equal(t, model.BucketEarly, sink.sent()[0].Bucket)
	assert.Equal(t, 30, sink.sent()[0].MinutesUntil)

	// Two minutes out: final reminder.
	tickAt(w, start.Add(-2*time.Minute))
	require.Len(t, sink.sent(), 2)
	assert.Equal(t, model.BucketFinal, sink.sent()[1].Bucket)

	// Both buckets fired; the event is no longer a candidate.
	tickAt(w, start.Add(-time.Minute))
	assert.Len(t, sink.sent(), 2)

	// Well past start plus the grace period: retention removes it.
	tickAt(w, start.Add(90*time.Minute))
	_, err := events.Get(context.Background(), e.ID)
	assert.Error(t, err)
}
