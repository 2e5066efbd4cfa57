package worker

import (
	"context"
	"io"
	"sort"
	"sync"
	"time"

	"github.com/chopperdodo/DC-KS-ASSISTANT-R4/internal/model"
	"github.com/chopperdodo/DC-KS-ASSISTANT-R4/pkg/errors"
	"github.com/chopperdodo/DC-KS-ASSISTANT-R4/pkg/logger"
	"github.com/chopperdodo/DC-KS-ASSISTANT-R4/pkg/metrics"
)

// Metrics register against the default prometheus registry, so the test
// binary holds a single shared instance.
var testMetrics = metrics.NewMetrics("test", "worker")

var testLogger = logger.NewLogger(&logger.Config{
	Level:      logger.FatalLevel,
	TimeFormat: time.RFC3339,
	Output:     io.Discard,
})

type fakeEventRepo struct {
	mu     sync.Mutex
	nextID int64
	events map[int64]*model.Event

	markErr error
}

func newFakeEventRepo() *fakeEventRepo {
	return &fakeEventRepo{events: map[int64]*model.Event{}}
}

func (f *fakeEventRepo) add(e model.Event) *model.Event {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	e.ID = f.nextID
	f.events[e.ID] = &e
	return &e
}

func (f *fakeEventRepo) Create(ctx context.Context, event *model.Event) error {
	stored := f.add(*event)
	event.ID = stored.ID
	return nil
}

func (f *fakeEventRepo) Get(ctx context.Context, id int64) (*model.Event, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	e, ok := f.events[id]
	if !ok {
		return nil, errors.EventNotFound(id)
	}
	clone := *e
	return &clone, nil
}

func (f *fakeEventRepo) ListByGuild(ctx context.Context, guildID string) ([]model.Event, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []model.Event
	for _, e := range f.events {
		if e.GuildID == guildID {
			out = append(out, *e)
		}
	}
	sortByStart(out)
	return out, nil
}

func (f *fakeEventRepo) Delete(ctx context.Context, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.events[id]; !ok {
		return errors.EventNotFound(id)
	}
	delete(f.events, id)
	return nil
}

func (f *fakeEventRepo) ListPendingReminders(ctx context.Context, now time.Time) ([]model.Event, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []model.Event
	for _, e := range f.events {
		if e.StartTime.After(now) && !(e.Fired(model.BucketEarly) && e.Fired(model.BucketFinal)) {
			out = append(out, *e)
		}
	}
	sortByStart(out)
	return out, nil
}

func (f *fakeEventRepo) MarkBucketFired(ctx context.Context, id int64, bucket model.LeadBucket) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.markErr != nil {
		return f.markErr
	}
	e, ok := f.events[id]
	if !ok {
		return errors.EventNotFound(id)
	}
	if !e.Fired(bucket) {
		e.BucketsFired = append(e.BucketsFired, string(bucket))
	}
	return nil
}

func (f *fakeEventRepo) DeleteExpired(ctx context.Context, cutoff time.Time) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var purged int64
	for id, e := range f.events {
		if e.StartTime.Before(cutoff) {
			delete(f.events, id)
			purged++
		}
	}
	return purged, nil
}

func sortByStart(events []model.Event) {
	sort.Slice(events, func(i, j int) bool {
		if !events[i].StartTime.Equal(events[j].StartTime) {
			return events[i].StartTime.Before(events[j].StartTime)
		}
		return events[i].ID < events[j].ID
	})
}

type fakeGuildRepo struct {
	mu       sync.Mutex
	settings map[string]*model.GuildSettings
	getCalls int
}

func newFakeGuildRepo() *fakeGuildRepo {
	return &fakeGuildRepo{settings: map[string]*model.GuildSettings{}}
}

func (f *fakeGuildRepo) Get(ctx context.Context, guildID string) (*model.GuildSettings, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.getCalls++
	s, ok := f.settings[guildID]
	if !ok {
		return nil, nil
	}
	clone := *s
	return &clone, nil
}

func (f *fakeGuildRepo) Set(ctx context.Context, guildID, channelID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.settings[guildID] = &model.GuildSettings{GuildID: guildID, ChannelID: channelID}
	return nil
}

func (f *fakeGuildRepo) List(ctx context.Context) ([]model.GuildSettings, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []model.GuildSettings
	for _, s := range f.settings {
		out = append(out, *s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].GuildID < out[j].GuildID })
	return out, nil
}

type fakeSink struct {
	mu        sync.Mutex
	reminders []*model.Reminder
	digests   []*model.Digest
	sendErr   error
}

func (f *fakeSink) SendReminder(ctx context.Context, r *model.Reminder) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.sendErr != nil {
		return f.sendErr
	}
	f.reminders = append(f.reminders, r)
	return nil
}

func (f *fakeSink) SendDigest(ctx context.Context, d *model.Digest) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.sendErr != nil {
		return f.sendErr
	}
	f.digests = append(f.digests, d)
	return nil
}

func (f *fakeSink) sent() []*model.Reminder {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]*model.Reminder(nil), f.reminders...)
}
