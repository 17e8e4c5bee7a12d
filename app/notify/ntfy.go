package notify

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/lysyi3m/flavor-watch/app/match"
)

var _ Notifier = (*Ntfy)(nil)

// Ntfy posts alerts to an ntfy server.
type Ntfy struct {
	client *resty.Client
	server string
}

// NewNtfy builds a notifier. A non-positive timeout falls back to DefaultTimeout.
func NewNtfy(server, userAgent string, timeout time.Duration) *Ntfy {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	client := resty.New().
		SetTimeout(timeout).
		SetHeader("User-Agent", userAgent)

	return &Ntfy{
		client: client,
		server: strings.TrimSuffix(server, "/"),
	}
}

func (n *Ntfy) Send(ctx context.Context, matches []match.Match, topic string) error {
	if len(matches) == 0 {
		return nil
	}

	endpoint := n.server + "/" + url.PathEscape(topic)

	res, err := n.client.R().
		SetContext(ctx).
		SetHeader("Content-Type", "text/plain; charset=utf-8").
		SetHeader("Title", Title).
		SetHeader("Priority", Priority).
		SetHeader("Tags", Tags).
		SetBody([]byte(Message(matches))).
		Post(endpoint)
	if err != nil {
		return &NotifyError{Topic: topic, Err: err}
	}

	if !res.IsSuccess() {
		return &NotifyError{Topic: topic, StatusCode: res.StatusCode(), Err: fmt.Errorf("unexpected status %s", res.Status())}
	}

	slog.Debug("Notification delivered", "endpoint", endpoint, "matches", len(matches), "duration", res.Time())

	return nil
}

// Target returns the host/topic form used in progress output.
func (n *Ntfy) Target(topic string) string {
	host := n.server
	if u, err := url.Parse(n.server); err == nil && u.Host != "" {
		host = u.Host
	}
	return host + "/" + topic
}
