// Package inferlab is the facade over the inference core: it executes
// forward and backward runs, stamps each with a ULID run id and
// records the outcome in an optional run-history store.
package inferlab

import (
	"context"
	"crypto/rand"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/reasonware/inferlab/pkg/inferlab/backward"
	"github.com/reasonware/inferlab/pkg/inferlab/forward"
	"github.com/reasonware/inferlab/pkg/inferlab/kb"
	"github.com/reasonware/inferlab/pkg/inferlab/store"
)

// Options configures an Engine.
type Options struct {
	// Store receives run records when set; nil disables history.
	Store store.Store
}

// Engine runs inference and keeps history.
type Engine struct {
	store   store.Store
	entropy *ulid.MonotonicEntropy
}

// New creates an Engine with the given dependencies.
func New(opts Options) *Engine {
	return &Engine{
		store:   opts.Store,
		entropy: ulid.Monotonic(rand.Reader, 0),
	}
}

// Close shuts down the engine's store, if any.
func (e *Engine) Close() error {
	if e.store == nil {
		return nil
	}
	return e.store.Close()
}

// NewRunID allocates a fresh ULID run identifier.
func (e *Engine) NewRunID() string {
	return ulid.MustNew(ulid.Now(), e.entropy).String()
}

// RunForward executes one forward run against the knowledge base and
// records it. The knowledge base must be owned by this call.
func (e *Engine) RunForward(ctx context.Context, base *kb.KnowledgeBase, opts forward.Options) (string, forward.Result, error) {
	res, err := forward.Run(base, opts)
	if err != nil {
		return "", forward.Result{}, err
	}
	id := e.NewRunID()
	if err := e.record(ctx, store.Run{
		ID:         id,
		Mode:       "forward",
		CreatedAt:  time.Now().UTC(),
		Success:    res.Success,
		Goals:      atomsToStrings(res.Goals),
		FinalFacts: atomsToStrings(res.FinalFacts),
		RuleIDs:    res.FiredRules,
		Trace:      forwardTraceLines(res),
	}); err != nil {
		return "", forward.Result{}, err
	}
	return id, res, nil
}

// RunBackward executes one backward run against the knowledge base
// and records it.
func (e *Engine) RunBackward(ctx context.Context, base *kb.KnowledgeBase, opts backward.Options) (string, backward.Result, error) {
	res, err := backward.Run(base, opts)
	if err != nil {
		return "", backward.Result{}, err
	}
	id := e.NewRunID()
	if err := e.record(ctx, store.Run{
		ID:         id,
		Mode:       "backward",
		CreatedAt:  time.Now().UTC(),
		Success:    res.Success,
		Goals:      atomsToStrings(res.Goals),
		FinalFacts: atomsToStrings(res.FinalKnown),
		RuleIDs:    res.UsedRules,
		Trace:      append([]string(nil), res.Steps...),
	}); err != nil {
		return "", backward.Result{}, err
	}
	return id, res, nil
}

// History returns up to limit recorded runs, newest first.
func (e *Engine) History(ctx context.Context, limit int) ([]store.Run, error) {
	if e.store == nil {
		return nil, nil
	}
	return e.store.ListRuns(ctx, limit)
}

// Prune drops all but the keep newest runs from history and returns
// the ids of the dropped ones.
func (e *Engine) Prune(ctx context.Context, keep int) ([]string, error) {
	if e.store == nil {
		return nil, nil
	}
	return e.store.PruneRuns(ctx, keep)
}

func (e *Engine) record(ctx context.Context, r store.Run) error {
	if e.store == nil {
		return nil
	}
	return e.store.SaveRun(ctx, r)
}

func forwardTraceLines(res forward.Result) []string {
	out := make([]string, len(res.History))
	for i, t := range res.History {
		out[i] = t.String()
	}
	return out
}

func atomsToStrings(atoms []kb.Atom) []string {
	out := make([]string, len(atoms))
	for i, a := range atoms {
		out[i] = string(a)
	}
	return out
}
