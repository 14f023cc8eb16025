// Package kb holds the knowledge-base data model: atoms, rules and the
// mutable working set of known facts. A KnowledgeBase is owned by a
// single inference run and is never shared across concurrent runs, so
// the package does no locking.
package kb

import (
	"fmt"
	"sort"
	"strings"

	"github.com/reasonware/inferlab/pkg/inferlab/internalerr"
)

// KnowledgeBase is in-memory storage for rules and known facts.
// Rule ids are assigned from a per-instance counter starting at 1 and
// are never reused within the lifetime of the instance.
type KnowledgeBase struct {
	name   string
	rules  []Rule
	byID   map[int]int // rule id -> index into rules
	nextID int
	facts  AtomSet
}

// New creates an empty knowledge base.
func New(name string) *KnowledgeBase {
	if name == "" {
		name = "knowledge-base"
	}
	return &KnowledgeBase{
		name:   name,
		byID:   make(map[int]int),
		nextID: 1,
		facts:  make(AtomSet),
	}
}

// Name returns the display name of the knowledge base.
func (b *KnowledgeBase) Name() string { return b.name }

// AddRule validates and inserts a rule, returning it with its assigned id.
func (b *KnowledgeBase) AddRule(premises []Atom, conclusion Atom) (Rule, error) {
	p, c, err := normalizeRuleParts(premises, conclusion)
	if err != nil {
		return Rule{}, err
	}
	rule := Rule{ID: b.nextID, Premises: p, Conclusion: c}
	b.nextID++
	b.byID[rule.ID] = len(b.rules)
	b.rules = append(b.rules, rule)
	return rule, nil
}

// UpdateRule replaces the premises and conclusion of an existing rule.
func (b *KnowledgeBase) UpdateRule(id int, premises []Atom, conclusion Atom) (Rule, error) {
	idx, ok := b.byID[id]
	if !ok {
		return Rule{}, fmt.Errorf("update rule %d: %w", id, internalerr.ErrUnknownRule)
	}
	p, c, err := normalizeRuleParts(premises, conclusion)
	if err != nil {
		return Rule{}, err
	}
	rule := Rule{ID: id, Premises: p, Conclusion: c}
	b.rules[idx] = rule
	return rule, nil
}

// RemoveRule deletes a rule by id. The id is not reused afterwards.
func (b *KnowledgeBase) RemoveRule(id int) error {
	idx, ok := b.byID[id]
	if !ok {
		return fmt.Errorf("remove rule %d: %w", id, internalerr.ErrUnknownRule)
	}
	b.rules = append(b.rules[:idx], b.rules[idx+1:]...)
	delete(b.byID, id)
	for i := idx; i < len(b.rules); i++ {
		b.byID[b.rules[i].ID] = i
	}
	return nil
}

// Rule looks up a rule by id.
func (b *KnowledgeBase) Rule(id int) (Rule, bool) {
	idx, ok := b.byID[id]
	if !ok {
		return Rule{}, false
	}
	return b.rules[idx].clone(), true
}

// AllRules returns all rules ordered by ascending id. The returned
// slice is independent of the knowledge base.
func (b *KnowledgeBase) AllRules() []Rule {
	out := make([]Rule, 0, len(b.rules))
	for _, r := range b.rules {
		out = append(out, r.clone())
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// RuleCount returns the number of rules.
func (b *KnowledgeBase) RuleCount() int { return len(b.rules) }

// ClearRules removes every rule and resets the id counter.
func (b *KnowledgeBase) ClearRules() {
	b.rules = nil
	b.byID = make(map[int]int)
	b.nextID = 1
}

// AddFact adds a fact atom to the working set.
func (b *KnowledgeBase) AddFact(raw Atom) (Atom, error) {
	a := Normalize(string(raw))
	if a == "" {
		return "", fmt.Errorf("add fact: empty atom: %w", internalerr.ErrInvalidInput)
	}
	b.facts.Add(a)
	return a, nil
}

// RemoveFact drops a fact atom if present.
func (b *KnowledgeBase) RemoveFact(raw Atom) {
	b.facts.Remove(Normalize(string(raw)))
}

// SetFacts replaces the working set with the given atoms.
func (b *KnowledgeBase) SetFacts(atoms []Atom) {
	b.facts = make(AtomSet, len(atoms))
	for _, a := range atoms {
		b.facts.Add(Normalize(string(a)))
	}
}

// KnownFacts returns an independent copy of the current fact set.
func (b *KnowledgeBase) KnownFacts() AtomSet { return b.facts.Clone() }

// ClearFacts empties the working set.
func (b *KnowledgeBase) ClearFacts() { b.facts = make(AtomSet) }

// Clone returns a deep copy sharing no state with the receiver, so a
// host may hand each inference run its own snapshot.
func (b *KnowledgeBase) Clone() *KnowledgeBase {
	out := New(b.name)
	out.nextID = b.nextID
	out.rules = make([]Rule, 0, len(b.rules))
	for i, r := range b.rules {
		out.rules = append(out.rules, r.clone())
		out.byID[r.ID] = i
	}
	out.facts = b.facts.Clone()
	return out
}

// Summary describes the knowledge base in one line.
func (b *KnowledgeBase) Summary() string {
	return fmt.Sprintf("%s: %d rule(s), %d fact(s)", b.name, len(b.rules), len(b.facts))
}

// normalizeRuleParts validates rule input. Premises must be non-empty
// after normalization; the conclusion must be a single non-empty token.
func normalizeRuleParts(premises []Atom, conclusion Atom) ([]Atom, Atom, error) {
	seen := make(map[Atom]struct{}, len(premises))
	p := make([]Atom, 0, len(premises))
	for _, raw := range premises {
		a := Normalize(string(raw))
		if a == "" {
			continue
		}
		if _, ok := seen[a]; ok {
			continue
		}
		seen[a] = struct{}{}
		p = append(p, a)
	}
	if len(p) == 0 {
		return nil, "", fmt.Errorf("rule has no premises: %w", internalerr.ErrInvalidRule)
	}
	c := Normalize(string(conclusion))
	if c == "" {
		return nil, "", fmt.Errorf("rule has no conclusion: %w", internalerr.ErrInvalidRule)
	}
	if strings.ContainsAny(string(c), ",&^") || strings.Contains(string(c), "->") {
		return nil, "", fmt.Errorf("conclusion %q is not a single atom: %w", c, internalerr.ErrInvalidRule)
	}
	return p, c, nil
}
