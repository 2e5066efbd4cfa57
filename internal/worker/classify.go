package worker

import (
	"time"

	"github.com/chopperdodo/DC-KS-ASSISTANT-R4/internal/category"
	"github.com/chopperdodo/DC-KS-ASSISTANT-R4/internal/model"
)

// Lead windows in minutes before start. Each window is ±5 minutes around
// its nominal target so a delayed or skipped tick still lands inside it;
// the windows must stay at least as wide as the poll interval.
const (
	standardEarlyMin = 25
	standardEarlyMax = 35
	urgentEarlyMin   = 10
	urgentEarlyMax   = 20
	finalMax         = 5
)

// classify picks the lead bucket due for an event at instant now. First
// match wins and the cases are mutually exclusive: urgent categories use
// the shortened early window, everything shares the final window.
func classify(e *model.Event, now time.Time) (model.LeadBucket, model.Urgency, bool) {
	minutes := e.StartTime.Sub(now).Minutes()
	urgent := category.IsUrgent(e.Name)

	switch {
	case urgent && minutes >= urgentEarlyMin && minutes <= urgentEarlyMax && !e.Fired(model.BucketEarly):
		return model.BucketEarly, model.UrgencyUrgent, true
	case !urgent && minutes >= standardEarlyMin && minutes <= standardEarlyMax && !e.Fired(model.BucketEarly):
		return model.BucketEarly, model.UrgencyStandard, true
	case minutes > 0 && minutes <= finalMax && !e.Fired(model.BucketFinal):
		return model.BucketFinal, model.UrgencyFinal, true
	}
	return "", "", false
}
