package notify

import (
	"context"
	"log/slog"

	"github.com/lysyi3m/flavor-watch/app/match"
)

var _ Notifier = Discard{}

// Discard logs the alert it would have sent. Used for dry runs.
type Discard struct{}

func (Discard) Send(ctx context.Context, matches []match.Match, topic string) error {
	if len(matches) == 0 {
		return nil
	}
	slog.Info("Dry run, notification not sent", "topic", topic, "message", Message(matches))
	return nil
}

func (Discard) Target(topic string) string {
	return topic + " (dry run)"
}
