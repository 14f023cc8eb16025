// Package store records completed inference runs for later
// inspection by the front-ends. Knowledge bases themselves are never
// stored; each run record is a self-contained snapshot of one result.
package store

import (
	"context"
	"time"
)

// Store is the run-history interface.
type Store interface {
	Close() error

	// SaveRun records one completed run.
	SaveRun(ctx context.Context, r Run) error
	// GetRun returns a run by id.
	GetRun(ctx context.Context, id string) (Run, bool, error)
	// ListRuns returns up to limit runs, newest first. limit <= 0
	// means no limit.
	ListRuns(ctx context.Context, limit int) ([]Run, error)
	// PruneRuns deletes all but the keep newest runs and returns the
	// ids of the deleted ones, so callers can drop derived artifacts.
	PruneRuns(ctx context.Context, keep int) ([]string, error)
}

// Run is one recorded inference run.
type Run struct {
	ID         string
	Mode       string // "forward" or "backward"
	CreatedAt  time.Time
	Success    bool
	Goals      []string
	FinalFacts []string
	RuleIDs    []int    // fired (forward) or used (backward) rule ids
	Trace      []string // rendered trace lines
}
