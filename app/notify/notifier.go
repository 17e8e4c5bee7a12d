// Package notify delivers flavor alerts to a push-notification topic.
package notify

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/lysyi3m/flavor-watch/app/match"
)

const (
	DefaultServer = "https://ntfy.sh"
	DefaultTopic  = "sweetcow-stanley-mpe"

	DefaultTimeout = 30 * time.Second

	Title    = "Sweet Cow Flavor Alert"
	Priority = "high"
	Tags     = "ice_cream"
)

// Notifier sends matches to a topic. Implementations must not do any network
// call when matches is empty.
type Notifier interface {
	Send(ctx context.Context, matches []match.Match, topic string) error
	Target(topic string) string
}

// NotifyError is returned when an alert could not be delivered.
// StatusCode is zero when no response was received.
type NotifyError struct {
	Topic      string
	StatusCode int
	Err        error
}

func (e *NotifyError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("notify %s: HTTP %d: %v", e.Topic, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("notify %s: %v", e.Topic, e.Err)
}

func (e *NotifyError) Unwrap() error {
	return e.Err
}

// Message renders the alert body: a header, one bullet per match and a closing line.
func Message(matches []match.Match) string {
	lines := make([]string, 0, len(matches))
	for _, m := range matches {
		lines = append(lines, "• "+m.String())
	}

	var b strings.Builder
	b.WriteString("Sweet Cow Alert! 🍦\n\n")
	b.WriteString(strings.Join(lines, "\n"))
	b.WriteString("\n\nStanley Marketplace has your flavor(s)!")
	return b.String()
}
