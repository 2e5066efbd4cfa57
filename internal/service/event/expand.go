package event

import (
	"time"

	"github.com/chopperdodo/DC-KS-ASSISTANT-R4/internal/model"
	"github.com/chopperdodo/DC-KS-ASSISTANT-R4/pkg/errors"
)

// Expand materializes a recurring series: the original occurrence at
// start plus repeat further occurrences spaced interval apart, all
// sharing the event's attributes. Repetition without a positive interval
// is rejected outright, never truncated to a single event.
func Expand(guildID, name, description string, start time.Time, durationMinutes int, interval time.Duration, repeat int) ([]model.Event, error) {
	if repeat > 0 && interval <= 0 {
		return nil, errors.MissingInterval()
	}

	var recurrence *int64
	if interval > 0 {
		secs := int64(interval / time.Second)
		recurrence = &secs
	}

	events := make([]model.Event, 0, repeat+1)
	for k := 0; k <= repeat; k++ {
		events = append(events, model.Event{
			GuildID:         guildID,
			Name:            name,
			StartTime:       start.Add(time.Duration(k) * interval).UTC(),
			DurationMinutes: durationMinutes,
			Description:     description,
			RecurrenceSecs:  recurrence,
		})
	}
	return events, nil
}
