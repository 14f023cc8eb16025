// Package backward implements goal-driven proof search: a depth-first
// walk over the rules concluding each goal, with a cycle guard on the
// atoms currently being proved and memoization of proven atoms into
// the known set. Termination follows from the finite rule set plus the
// cycle guard.
package backward

import (
	"fmt"
	"sort"
	"strings"

	"github.com/reasonware/inferlab/pkg/inferlab/internalerr"
	"github.com/reasonware/inferlab/pkg/inferlab/kb"
)

// IndexMode selects which candidate rule is tried first when several
// rules conclude the same atom.
type IndexMode string

const (
	Min IndexMode = "min"
	Max IndexMode = "max"
)

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

// Options configures one backward run.
type Options struct {
	IndexMode IndexMode
	Goals     []kb.Atom
	// InitialFacts overrides the knowledge base's working set when
	// non-nil.
	InitialFacts []kb.Atom
}

// Result is the outcome of one backward run. Steps is the indented
// textual proof trace; UsedRules lists rule ids in the order their
// proof first completed.
type Result struct {
	Success    bool
	Goals      []kb.Atom
	FinalKnown []kb.Atom
	UsedRules  []int
	Steps      []string
}

// prover carries the mutable search state for one run.
type prover struct {
	mode         IndexMode
	known        kb.AtomSet
	inProgress   kb.AtomSet
	byConclusion map[kb.Atom][]kb.Rule
	used         []int
	steps        []string
}

func (p *prover) stepf(format string, args ...any) {
	p.steps = append(p.steps, fmt.Sprintf(format, args...))
}

// prove attempts to establish one atom. Proven atoms are added to the
// known set so separate goals never re-prove them.
func (p *prover) prove(goal kb.Atom, depth int) bool {
	indent := strings.Repeat("  ", depth)
	if p.known.Has(goal) {
		p.stepf("%s- '%s' is already known.", indent, goal)
		return true
	}
	if p.inProgress.Has(goal) {
		p.stepf("%s- cycle detected while proving '%s'; abandoning this path.", indent, goal)
		return false
	}

	candidates := p.byConclusion[goal]
	if len(candidates) == 0 {
		p.stepf("%s- no rule could establish '%s'.", indent, goal)
		return false
	}
	ordered := make([]kb.Rule, len(candidates))
	copy(ordered, candidates)
	sort.Slice(ordered, func(i, j int) bool {
		if p.mode == Max {
			return ordered[i].ID > ordered[j].ID
		}
		return ordered[i].ID < ordered[j].ID
	})

	p.inProgress.Add(goal)
	p.stepf("%s- considering %d rule(s) for '%s' (order: %s).", indent, len(ordered), goal, p.mode)
	for _, r := range ordered {
		p.stepf("%s  > trying %s: %s", indent, r.Label(), r.Text())
		proved := true
		for _, premise := range r.Premises {
			p.stepf("%s    * proving premise '%s'", indent, premise)
			if !p.prove(premise, depth+2) {
				proved = false
				p.stepf("%s    x premise '%s' failed; abandoning %s.", indent, premise, r.Label())
				break
			}
		}
		if proved {
			p.known.Add(goal)
			p.used = append(p.used, r.ID)
			p.stepf("%s  + '%s' proven via %s.", indent, goal, r.Label())
			p.inProgress.Remove(goal)
			return true
		}
	}

	p.inProgress.Remove(goal)
	p.stepf("%s- could not prove '%s'.", indent, goal)
	return false
}

// Run attempts every goal independently: one unprovable goal does not
// block attempts on the others. Success requires all goals proven.
func Run(base *kb.KnowledgeBase, opts Options) (Result, error) {
	if _, err := ParseIndexMode(string(opts.IndexMode)); err != nil {
		return Result{}, err
	}

	byConclusion := make(map[kb.Atom][]kb.Rule)
	for _, r := range base.AllRules() {
		byConclusion[r.Conclusion] = append(byConclusion[r.Conclusion], r)
	}

	known := make(kb.AtomSet)
	if opts.InitialFacts != nil {
		for _, a := range opts.InitialFacts {
			known.Add(kb.Normalize(string(a)))
		}
	} else {
		known = base.KnownFacts()
	}

	raw := make([]string, len(opts.Goals))
	for i, g := range opts.Goals {
		raw[i] = string(g)
	}
	goals := kb.NormalizeAll(raw)

	p := &prover{
		mode:         opts.IndexMode,
		known:        known,
		inProgress:   make(kb.AtomSet),
		byConclusion: byConclusion,
	}

	success := true
	for _, g := range goals {
		if p.known.Has(g) {
			p.stepf("goal '%s' holds from the initial facts.", g)
			continue
		}
		p.stepf("=== proving goal '%s' ===", g)
		if p.prove(g, 1) {
			p.stepf("goal '%s' proven.", g)
		} else {
			success = false
			p.stepf("goal '%s' could not be proven.", g)
		}
	}

	return Result{
		Success:    success,
		Goals:      goals,
		FinalKnown: p.known.Sorted(),
		UsedRules:  p.used,
		Steps:      p.steps,
	}, nil
}
