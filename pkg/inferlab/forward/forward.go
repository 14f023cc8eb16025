// Package forward implements data-driven forward chaining: the agenda
// of pending rules is scanned until no rule can fire, growing the set
// of known facts monotonically. The saturated fact set is independent
// of the agenda discipline; only the firing order and the step traces
// depend on it.
package forward

import (
	"fmt"
	"strings"

	"github.com/reasonware/inferlab/pkg/inferlab/internalerr"
	"github.com/reasonware/inferlab/pkg/inferlab/kb"
)

// Structure selects the agenda discipline.
type Structure string

// IndexMode selects which rule id gets priority.
type IndexMode string

const (
	Stack Structure = "stack"
	Queue Structure = "queue"

	Min IndexMode = "min"
	Max IndexMode = "max"
)

// ParseStructure validates a textual structure choice.
func ParseStructure(raw string) (Structure, error) {
	switch Structure(strings.ToLower(strings.TrimSpace(raw))) {
	case Stack:
		return Stack, nil
	case Queue:
		return Queue, nil
	}
	return "", fmt.Errorf("structure must be %q or %q, got %q: %w", Stack, Queue, raw, internalerr.ErrInvalidInput)
}

// ParseIndexMode validates a textual index-mode choice.
func ParseIndexMode(raw string) (IndexMode, error) {
	switch IndexMode(strings.ToLower(strings.TrimSpace(raw))) {
	case Min:
		return Min, nil
	case Max:
		return Max, nil
	}
	return "", fmt.Errorf("index mode must be %q or %q, got %q: %w", Min, Max, raw, internalerr.ErrInvalidInput)
}

// Options configures one forward run.
type Options struct {
	Structure Structure
	IndexMode IndexMode
	// Goals are the atoms checked against the saturated fact set. The
	// run always saturates; it never stops early on goal coverage.
	Goals []kb.Atom
	// InitialFacts overrides the knowledge base's working set when
	// non-nil.
	InitialFacts []kb.Atom
}

// StepTrace records the state after one algorithmic step. Agenda lists
// the still-pending rule ids in the order the next scan tries them.
type StepTrace struct {
	Step   int
	RuleID int // 0 when no rule fired at this step
	Agenda []int
	Known  []kb.Atom
	Fired  []int
	Note   string
}

// String renders the record as one replay-log line.
func (t StepTrace) String() string {
	rule := "-"
	if t.RuleID != 0 {
		rule = fmt.Sprintf("R%d", t.RuleID)
	}
	return fmt.Sprintf("step %d: rule=%s agenda=%v known=%v fired=%v note=%s",
		t.Step, rule, t.Agenda, t.Known, t.Fired, t.Note)
}

// Result is the outcome of one forward run.
type Result struct {
	Success    bool
	Goals      []kb.Atom
	FinalFacts []kb.Atom
	FiredRules []int
	History    []StepTrace
}

// Run saturates the knowledge base under the given options. A rule
// fires when all its premises are known and its conclusion is not yet
// known; after every fire the scan restarts from the top of the pop
// order, since a new fact may unlock a higher-priority rule. An empty
// rule set saturates immediately at the initial facts.
func Run(base *kb.KnowledgeBase, opts Options) (Result, error) {
	if _, err := ParseStructure(string(opts.Structure)); err != nil {
		return Result{}, err
	}
	if _, err := ParseIndexMode(string(opts.IndexMode)); err != nil {
		return Result{}, err
	}

	rules := base.AllRules()
	byID := make(map[int]kb.Rule, len(rules))
	ids := make([]int, 0, len(rules))
	for _, r := range rules {
		byID[r.ID] = r
		ids = append(ids, r.ID)
	}

	known := make(kb.AtomSet)
	if opts.InitialFacts != nil {
		for _, a := range opts.InitialFacts {
			known.Add(kb.Normalize(string(a)))
		}
	} else {
		known = base.KnownFacts()
	}
	goals := make(kb.AtomSet)
	for _, g := range opts.Goals {
		goals.Add(kb.Normalize(string(g)))
	}

	ag := newAgenda(ids, opts.Structure, opts.IndexMode)
	var fired []int
	history := []StepTrace{{
		Step:   0,
		Agenda: ag.popOrder(),
		Known:  known.Sorted(),
		Fired:  append([]int(nil), fired...),
		Note:   "initial state",
	}}

	step := 0
	for {
		firedID := 0
		for _, id := range ag.popOrder() {
			r := byID[id]
			if !known.HasAll(r.Premises) || known.Has(r.Conclusion) {
				continue
			}
			step++
			ag.remove(id)
			known.Add(r.Conclusion)
			fired = append(fired, id)
			history = append(history, StepTrace{
				Step:   step,
				RuleID: id,
				Agenda: ag.popOrder(),
				Known:  known.Sorted(),
				Fired:  append([]int(nil), fired...),
				Note:   fmt.Sprintf("derived '%s'", r.Conclusion),
			})
			firedID = id
			break
		}
		if firedID == 0 {
			break
		}
	}

	history = append(history, StepTrace{
		Step:   step + 1,
		Agenda: ag.popOrder(),
		Known:  known.Sorted(),
		Fired:  append([]int(nil), fired...),
		Note:   "no rule fireable, saturation reached",
	})

	return Result{
		Success:    goals.SubsetOf(known),
		Goals:      goals.Sorted(),
		FinalFacts: known.Sorted(),
		FiredRules: fired,
		History:    history,
	}, nil
}
