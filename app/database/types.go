package database

import (
	"time"

	"github.com/lysyi3m/flavor-watch/app/match"
)

// Run is one completed flavor check.
type Run struct {
	ID         int64
	StartedAt  time.Time
	FinishedAt time.Time
	URL        string
	Topic      string
	Flavors    []string
	Matches    []match.Match
	Notified   bool
}

// MatchRecord is a stored match together with the run it came from.
type MatchRecord struct {
	RunID    int64
	Wanted   string
	Found    string
	Topic    string
	Notified bool
	FoundAt  time.Time
}
