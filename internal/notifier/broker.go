package notifier

import (
	"context"
	"fmt"

	"github.com/chopperdodo/DC-KS-ASSISTANT-R4/internal/model"
	"github.com/chopperdodo/DC-KS-ASSISTANT-R4/pkg/messaging"
)

// BrokerNotifier publishes payloads on per-channel broker topics. The bot
// gateway subscribes to reminders:<channel_id> and owns presentation.
type BrokerNotifier struct {
	broker messaging.Broker
}

func NewBrokerNotifier(broker messaging.Broker) *BrokerNotifier {
	return &BrokerNotifier{broker: broker}
}

func (n *BrokerNotifier) SendReminder(ctx context.Context, reminder *model.Reminder) error {
	msg := messaging.Message{Type: "reminder", Payload: reminder}
	if err := n.broker.Publish(ctx, topicFor(reminder.ChannelID), msg); err != nil {
		return fmt.Errorf("publish reminder for event %d: %w", reminder.EventID, err)
	}
	return nil
}

func (n *BrokerNotifier) SendDigest(ctx context.Context, digest *model.Digest) error {
	msg := messaging.Message{Type: "digest", Payload: digest}
	if err := n.broker.Publish(ctx, topicFor(digest.ChannelID), msg); err != nil {
		return fmt.Errorf("publish digest for guild %s: %w", digest.GuildID, err)
	}
	return nil
}

func topicFor(channelID string) string {
	return "reminders:" + channelID
}
