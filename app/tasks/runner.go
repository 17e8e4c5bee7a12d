package tasks

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/lysyi3m/flavor-watch/app/database"
	"github.com/lysyi3m/flavor-watch/app/match"
	"github.com/lysyi3m/flavor-watch/app/notify"
)

var ErrCheckInProgress = errors.New("a flavor check is already running")

// Runner builds and executes one CheckFlavorsTask at a time.
type Runner struct {
	ConfigFile    string
	TopicOverride string
	Source        FlavorSource
	Matcher       *match.Matcher
	Notifier      notify.Notifier
	History       database.RunRepository
	Out           io.Writer
	Timeout       time.Duration

	mu sync.Mutex
}

// Run executes a check and returns ErrCheckInProgress if another one has not finished.
func (r *Runner) Run(ctx context.Context) (*Result, error) {
	if !r.mu.TryLock() {
		return nil, ErrCheckInProgress
	}
	defer r.mu.Unlock()

	task := NewCheckFlavorsTask(r.ConfigFile, r.TopicOverride, r.Source, r.Matcher, r.Notifier, r.History, r.Out)

	if err := r.executeTask(ctx, task); err != nil {
		return task.Result(), err
	}

	return task.Result(), nil
}

func (r *Runner) executeTask(ctx context.Context, task TaskInterface) error {
	task.Start()

	if r.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.Timeout)
		defer cancel()
	}

	err := task.Execute(ctx)
	if err != nil {
		slog.Error("Task execution failed", "type", string(task.GetType()), "id", task.GetID(), "duration", task.GetDuration(), "error", err)
	}

	return err
}
