package event

import (
	"context"
	"fmt"
	"time"

	"github.com/chopperdodo/DC-KS-ASSISTANT-R4/internal/category"
	"github.com/chopperdodo/DC-KS-ASSISTANT-R4/internal/model"
	"github.com/chopperdodo/DC-KS-ASSISTANT-R4/internal/repository"
	"github.com/chopperdodo/DC-KS-ASSISTANT-R4/pkg/errors"
	"github.com/chopperdodo/DC-KS-ASSISTANT-R4/pkg/timeparse"
)

type Service struct {
	repo repository.EventRepository
	now  func() time.Time
}

func NewService(repo repository.EventRepository) *Service {
	return &Service{
		repo: repo,
		now:  time.Now,
	}
}

// CreateEvent parses the request, expands the recurrence series and
// persists each occurrence independently. Series creation is not
// transactional: a store failure after N inserts leaves those N records
// in place, and the returned response carries them alongside the error so
// the caller can reconcile.
//
// Conflicts against the guild's existing schedule are returned as
// warnings; they never block creation.
func (s *Service) CreateEvent(ctx context.Context, guildID string, req *model.CreateEventRequest) (*model.CreateEventResponse, error) {
	start, err := timeparse.ParseEventTime(req.Time, s.now())
	if err != nil {
		return nil, err
	}

	interval, err := timeparse.ParseInterval(req.Interval)
	if err != nil {
		return nil, err
	}

	duration := category.DefaultDuration(req.Name)
	if req.DurationMinutes != nil {
		duration = *req.DurationMinutes
	}

	series, err := Expand(guildID, req.Name, req.Description, start, duration, interval, req.Repeat)
	if err != nil {
		return nil, err
	}

	existing, err := s.repo.ListByGuild(ctx, guildID)
	if err != nil {
		return nil, err
	}

	resp := &model.CreateEventResponse{}
	seen := make(map[int64]bool)
	for i := range series {
		for _, c := range FindConflicts(existing, &series[i], false) {
			if !seen[c.ID] {
				seen[c.ID] = true
				resp.Conflicts = append(resp.Conflicts, c)
			}
		}
	}

	for i := range series {
		if err := s.repo.Create(ctx, &series[i]); err != nil {
			return resp, fmt.Errorf("series insert %d of %d: %w", i+1, len(series), err)
		}
		resp.Events = append(resp.Events, series[i])
	}
	return resp, nil
}

func (s *Service) ListEvents(ctx context.Context, guildID string) ([]model.Event, error) {
	return s.repo.ListByGuild(ctx, guildID)
}

func (s *Service) DeleteEvent(ctx context.Context, guildID string, id int64) error {
	event, err := s.repo.Get(ctx, id)
	if err != nil {
		return err
	}
	if event.GuildID != guildID {
		return errors.EventNotFound(id)
	}
	return s.repo.Delete(ctx, id)
}

// EditEvent replaces an event: delete then recreate from the request.
// The new record (and any recurrence expansion) gets fresh identifiers,
// which the response carries for re-reference.
func (s *Service) EditEvent(ctx context.Context, guildID string, id int64, req *model.CreateEventRequest) (*model.CreateEventResponse, error) {
	// Validate the request fully before destroying the original.
	if _, err := timeparse.ParseEventTime(req.Time, s.now()); err != nil {
		return nil, err
	}
	interval, err := timeparse.ParseInterval(req.Interval)
	if err != nil {
		return nil, err
	}
	if req.Repeat > 0 && interval <= 0 {
		return nil, errors.MissingInterval()
	}

	if err := s.DeleteEvent(ctx, guildID, id); err != nil {
		return nil, err
	}
	return s.CreateEvent(ctx, guildID, req)
}

// CheckConflicts previews overlaps for a proposed event without
// persisting it.
func (s *Service) CheckConflicts(ctx context.Context, guildID string, req *model.ConflictCheckRequest) ([]model.Event, error) {
	start, err := timeparse.ParseEventTime(req.Time, s.now())
	if err != nil {
		return nil, err
	}

	duration := category.DefaultDuration(req.Name)
	if req.DurationMinutes != nil {
		duration = *req.DurationMinutes
	}

	existing, err := s.repo.ListByGuild(ctx, guildID)
	if err != nil {
		return nil, err
	}

	candidate := &model.Event{
		GuildID:         guildID,
		Name:            req.Name,
		StartTime:       start,
		DurationMinutes: duration,
	}
	return FindConflicts(existing, candidate, req.ExcludeReplaced), nil
}
