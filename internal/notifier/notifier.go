// Package notifier is the boundary to the notification sink. The core
// hands over structured payloads; rendering is the sink's problem.
package notifier

import (
	"context"

	"github.com/chopperdodo/DC-KS-ASSISTANT-R4/internal/model"
)

// Notifier delivers reminder payloads to a destination. Send must return
// only after the sink has accepted the message; the dispatcher marks a
// lead bucket as fired only on success.
type Notifier interface {
	SendReminder(ctx context.Context, reminder *model.Reminder) error
	SendDigest(ctx context.Context, digest *model.Digest) error
}
