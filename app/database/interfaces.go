package database

import "context"

type RunRepository interface {
	RecordRun(ctx context.Context, run Run) (int64, error)

	GetLastRun(ctx context.Context) (*Run, error)
	GetRunCount(ctx context.Context) (int, error)
	GetRecentMatches(ctx context.Context, limit int) ([]MatchRecord, error)
}
