package tasks

import (
	"cmp"
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/lysyi3m/flavor-watch/app/database"
	"github.com/lysyi3m/flavor-watch/app/match"
	"github.com/lysyi3m/flavor-watch/app/notify"
	"github.com/lysyi3m/flavor-watch/app/watch"
)

// Result summarizes one check.
type Result struct {
	RunID    int64         `json:"run_id,omitempty"`
	Topic    string        `json:"topic"`
	Flavors  []string      `json:"flavors"`
	Matches  []match.Match `json:"matches"`
	Notified bool          `json:"notified"`
}

type CheckFlavorsTask struct {
	Task
	configFile    string
	topicOverride string
	source        FlavorSource
	matcher       *match.Matcher
	notifier      notify.Notifier
	history       database.RunRepository
	out           io.Writer
	result        *Result
}

// NewCheckFlavorsTask builds a check. history may be nil.
func NewCheckFlavorsTask(configFile, topicOverride string, source FlavorSource, matcher *match.Matcher,
	notifier notify.Notifier, history database.RunRepository, out io.Writer) *CheckFlavorsTask {
	return &CheckFlavorsTask{
		Task:          NewTask(TaskTypeCheckFlavors),
		configFile:    configFile,
		topicOverride: topicOverride,
		source:        source,
		matcher:       matcher,
		notifier:      notifier,
		history:       history,
		out:           out,
	}
}

// ResolveTopic picks the override, then the watch list topic, then the default.
func ResolveTopic(override, configured string) string {
	return cmp.Or(override, configured, notify.DefaultTopic)
}

func (t *CheckFlavorsTask) Result() *Result {
	return t.result
}

func (t *CheckFlavorsTask) Execute(ctx context.Context) error {

	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	startedAt := time.Now().UTC()

	watchConfig, err := watch.Load(t.configFile)
	if err != nil {
		return fmt.Errorf("failed to load watch list: %w", err)
	}

	topic := ResolveTopic(t.topicOverride, watchConfig.NtfyTopic)

	fmt.Fprintf(t.out, "Scraping %s...\n", t.source.URL())

	flavors, err := t.source.Fetch(ctx)
	if err != nil {
		return fmt.Errorf("failed to scrape flavors: %w", err)
	}

	fmt.Fprintf(t.out, "Found %d flavors: [%s]\n", len(flavors), strings.Join(flavors, ", "))

	matches := t.matcher.Run(flavors, watchConfig.Rules)

	t.result = &Result{
		Topic:   topic,
		Flavors: flavors,
		Matches: matches,
	}

	var notifyErr error
	if len(matches) > 0 {
		fmt.Fprintf(t.out, "Matches found: %s\n", formatMatches(matches))

		notifyErr = t.notifier.Send(ctx, matches, topic)
		if notifyErr == nil {
			t.result.Notified = true
			fmt.Fprintf(t.out, "Notification sent to %s\n", t.notifier.Target(topic))
		}
	} else {
		fmt.Fprintln(t.out, "No matches today.")
	}

	t.recordRun(ctx, startedAt)

	if notifyErr != nil {
		return fmt.Errorf("failed to send notification: %w", notifyErr)
	}

	slog.Info("Task completed",
		"type", t.GetType(),
		"id", t.GetID(),
		"duration", t.GetDuration(),
		"flavors", len(flavors),
		"matches", len(matches),
		"notified", t.result.Notified)

	return nil
}

// recordRun stores the run when history is enabled. Failures are only logged.
func (t *CheckFlavorsTask) recordRun(ctx context.Context, startedAt time.Time) {
	if t.history == nil {
		return
	}

	runID, err := t.history.RecordRun(ctx, database.Run{
		StartedAt:  startedAt,
		FinishedAt: time.Now().UTC(),
		URL:        t.source.URL(),
		Topic:      t.result.Topic,
		Flavors:    t.result.Flavors,
		Matches:    t.result.Matches,
		Notified:   t.result.Notified,
	})
	if err != nil {
		slog.Warn("Failed to record run history", "id", t.GetID(), "error", err)
		return
	}

	t.result.RunID = runID
}

func formatMatches(matches []match.Match) string {
	parts := make([]string, 0, len(matches))
	for _, m := range matches {
		parts = append(parts, m.String())
	}
	return strings.Join(parts, "; ")
}
