package notifier

import (
	"context"
	"fmt"
	"strings"

	"gopkg.in/gomail.v2"

	"github.com/chopperdodo/DC-KS-ASSISTANT-R4/internal/config"
	"github.com/chopperdodo/DC-KS-ASSISTANT-R4/internal/model"
)

// EmailNotifier delivers over SMTP for deployments without a bot
// gateway. The destination channel id is interpreted as an address.
type EmailNotifier struct {
	dialer *gomail.Dialer
	from   string
}

func NewEmailNotifier(cfg config.EmailConfig) *EmailNotifier {
	return &EmailNotifier{
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password),
		from:   cfg.From,
	}
}

func (n *EmailNotifier) SendReminder(ctx context.Context, reminder *model.Reminder) error {
	subject := fmt.Sprintf("[%s] %s in %d minutes", reminder.Urgency, reminder.Name, reminder.MinutesUntil)
	body := fmt.Sprintf(
		"%s (%s)\nstarts at %s UTC, in %d minutes\n\n%s\n",
		reminder.Name,
		reminder.Category,
		reminder.StartTime.Format("2006-01-02 15:04"),
		reminder.MinutesUntil,
		reminder.Description,
	)
	return n.send(ctx, reminder.ChannelID, subject, body)
}

func (n *EmailNotifier) SendDigest(ctx context.Context, digest *model.Digest) error {
	var b strings.Builder
	fmt.Fprintf(&b, "Upcoming events for guild %s\n\n", digest.GuildID)
	for _, e := range digest.Entries {
		fmt.Fprintf(&b, "- %s at %s UTC\n", e.Name, e.StartTime.Format("2006-01-02 15:04"))
	}
	subject := fmt.Sprintf("Schedule digest: %d upcoming events", len(digest.Entries))
	return n.send(ctx, digest.ChannelID, subject, b.String())
}

func (n *EmailNotifier) send(ctx context.Context, to, subject, body string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	msg := gomail.NewMessage()
	msg.SetHeader("From", n.from)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/plain", body)

	// gomail has no context support; run the dial in a goroutine so the
	// send timeout still bounds the call.
	done := make(chan error, 1)
	go func() {
		done <- n.dialer.DialAndSend(msg)
	}()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case err := <-done:
		return err
	}
}
