package api

import (
	"context"

	"github.com/lysyi3m/flavor-watch/app/database"
	"github.com/lysyi3m/flavor-watch/app/feed"
	"github.com/lysyi3m/flavor-watch/app/tasks"
)

type GeneratorInterface interface {
	Run(records []database.MatchRecord) (string, error)
}

var _ GeneratorInterface = (*feed.Generator)(nil)

// CheckerInterface triggers one flavor check.
type CheckerInterface interface {
	Run(ctx context.Context) (*tasks.Result, error)
}

var _ CheckerInterface = (*tasks.Runner)(nil)

type Handler struct {
	checker   CheckerInterface
	history   database.RunRepository
	generator GeneratorInterface
	sourceURL string
	version   string
	feedLimit int
}
