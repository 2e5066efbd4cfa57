package event

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/chopperdodo/DC-KS-ASSISTANT-R4/internal/model"
	"github.com/chopperdodo/DC-KS-ASSISTANT-R4/pkg/errors"
)

// fakeEventRepo is an in-memory EventRepository with the same ordering
// and idempotence guarantees as the postgres implementation.
type fakeEventRepo struct {
	nextID  int64
	events  map[int64]*model.Event
	creates int
	// failAfter, when positive, makes Create fail once that many
	// inserts have succeeded. Models a store outage mid-series.
	failAfter int
}

func newFakeEventRepo() *fakeEventRepo {
	return &fakeEventRepo{events: map[int64]*model.Event{}}
}

func (f *fakeEventRepo) Create(ctx context.Context, event *model.Event) error {
	if f.failAfter > 0 && f.creates >= f.failAfter {
		return errors.StoreUnavailable(fmt.Errorf("fake outage"))
	}
	f.creates++
	f.nextID++
	event.ID = f.nextID
	clone := *event
	f.events[event.ID] = &clone
	return nil
}

func (f *fakeEventRepo) Get(ctx context.Context, id int64) (*model.Event, error) {
	e, ok := f.events[id]
	if !ok {
		return nil, errors.EventNotFound(id)
	}
	clone := *e
	return &clone, nil
}

func (f *fakeEventRepo) ListByGuild(ctx context.Context, guildID string) ([]model.Event, error) {
	var out []model.Event
	for _, e := range f.events {
		if e.GuildID == guildID {
			out = append(out, *e)
		}
	}
	sortEvents(out)
	return out, nil
}

func (f *fakeEventRepo) Delete(ctx context.Context, id int64) error {
	if _, ok := f.events[id]; !ok {
		return errors.EventNotFound(id)
	}
	delete(f.events, id)
	return nil
}

func (f *fakeEventRepo) ListPendingReminders(ctx context.Context, now time.Time) ([]model.Event, error) {
	var out []model.Event
	for _, e := range f.events {
		if e.StartTime.After(now) && !(e.Fired(model.BucketEarly) && e.Fired(model.BucketFinal)) {
			out = append(out, *e)
		}
	}
	sortEvents(out)
	return out, nil
}

func (f *fakeEventRepo) MarkBucketFired(ctx context.Context, id int64, bucket model.LeadBucket) error {
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
	var purged int64
	for id, e := range f.events {
		if e.StartTime.Before(cutoff) {
			delete(f.events, id)
			purged++
		}
	}
	return purged, nil
}

func sortEvents(events []model.Event) {
	sort.Slice(events, func(i, j int) bool {
		if !events[i].StartTime.Equal(events[j].StartTime) {
			return events[i].StartTime.Before(events[j].StartTime)
		}
		return events[i].ID < events[j].ID
	})
}
