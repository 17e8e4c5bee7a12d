package notify

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/lysyi3m/flavor-watch/app/match"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMessage(t *testing.T) {
	matches := []match.Match{
		{Wanted: "Mint Lover", Found: "Mint Chip"},
		{Wanted: "Cookie Dough", Found: "Cookie Dough Crunch"},
	}

	expected := "Sweet Cow Alert! 🍦\n\n" +
		"• Mint Lover (found: Mint Chip)\n" +
		"• Cookie Dough (found: Cookie Dough Crunch)\n\n" +
		"Stanley Marketplace has your flavor(s)!"

	assert.Equal(t, expected, Message(matches))
}

func TestNtfySend(t *testing.T) {
	var requests atomic.Int32
	var body, path string
	var header http.Header

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		data, _ := io.ReadAll(r.Body)
		body = string(data)
		path = r.URL.Path
		header = r.Header.Clone()
		requests.Add(1)
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	ntfy := NewNtfy(server.URL+"/", "FlavorWatch/test", 5*time.Second)
	matches := []match.Match{{Wanted: "Mint Lover", Found: "Mint Chip"}}

	err := ntfy.Send(context.Background(), matches, "topicA")
	require.NoError(t, err)

	require.Equal(t, int32(1), requests.Load())
	assert.Equal(t, "/topicA", path)
	assert.Contains(t, body, "• Mint Lover (found: Mint Chip)")
	assert.Equal(t, "Sweet Cow Flavor Alert", header.Get("Title"))
	assert.Equal(t, "high", header.Get("Priority"))
	assert.Equal(t, "ice_cream", header.Get("Tags"))
	assert.True(t, strings.HasPrefix(header.Get("Content-Type"), "text/plain"))
}

func TestNtfySendNoMatches(t *testing.T) {
	var requests atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests.Add(1)
	}))
	defer server.Close()

	ntfy := NewNtfy(server.URL, "FlavorWatch/test", 5*time.Second)

	require.NoError(t, ntfy.Send(context.Background(), nil, "topicA"))
	require.NoError(t, ntfy.Send(context.Background(), []match.Match{}, "topicA"))
	assert.Equal(t, int32(0), requests.Load())
}

func TestNtfySendHTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer server.Close()

	ntfy := NewNtfy(server.URL, "FlavorWatch/test", 5*time.Second)

	err := ntfy.Send(context.Background(), []match.Match{{Wanted: "A", Found: "B"}}, "topicA")

	var notifyErr *NotifyError
	require.True(t, errors.As(err, &notifyErr))
	assert.Equal(t, http.StatusTooManyRequests, notifyErr.StatusCode)
	assert.Equal(t, "topicA", notifyErr.Topic)
}

func TestNtfySendNetworkError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL
	server.Close()

	ntfy := NewNtfy(url, "FlavorWatch/test", 5*time.Second)

	err := ntfy.Send(context.Background(), []match.Match{{Wanted: "A", Found: "B"}}, "topicA")

	var notifyErr *NotifyError
	require.True(t, errors.As(err, &notifyErr))
	assert.Zero(t, notifyErr.StatusCode)
}

func TestNtfyTarget(t *testing.T) {
	assert.Equal(t, "ntfy.sh/sweetcow", NewNtfy(DefaultServer, "ua", 0).Target("sweetcow"))
	assert.Equal(t, "push.example.com:8443/alerts", NewNtfy("https://push.example.com:8443", "ua", 0).Target("alerts"))
}

func TestDiscard(t *testing.T) {
	var d Discard

	assert.NoError(t, d.Send(context.Background(), []match.Match{{Wanted: "A", Found: "B"}}, "topic"))
	assert.Equal(t, "topic (dry run)", d.Target("topic"))
}

func TestNtfySendTimeout(t *testing.T) {
	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-release
	}))
	defer server.Close()
	defer close(release)

	ntfy := NewNtfy(server.URL, "FlavorWatch/test", 50*time.Millisecond)

	started := time.Now()
	err := ntfy.Send(context.Background(), []match.Match{{Wanted: "A", Found: "B"}}, "topicA")

	var notifyErr *NotifyError
	require.True(t, errors.As(err, &notifyErr))
	assert.Zero(t, notifyErr.StatusCode)
	assert.Less(t, time.Since(started), 5*time.Second)
}

func TestNewNtfyDefaultTimeout(t *testing.T) {
	assert.Equal(t, DefaultTimeout, NewNtfy(DefaultServer, "ua", 0).client.GetClient().Timeout)
	assert.Equal(t, 3*time.Second, NewNtfy(DefaultServer, "ua", 3*time.Second).client.GetClient().Timeout)
}
