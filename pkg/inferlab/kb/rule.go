package kb

import (
	"fmt"
	"strings"
)

// Rule is a propositional production: once every premise is known the
// conclusion may be derived. Premises are deduplicated with first-seen
// order preserved. A rule whose conclusion appears among its own
// premises is legal data but can never fire.
type Rule struct {
	ID         int
	Premises   []Atom
	Conclusion Atom
}

// Text renders the rule in canonical form, e.g. "a ^ b -> c".
func (r Rule) Text() string {
	parts := make([]string, len(r.Premises))
	for i, p := range r.Premises {
		parts[i] = string(p)
	}
	return fmt.Sprintf("%s -> %s", strings.Join(parts, " ^ "), r.Conclusion)
}

// Label is the short display name used in traces and graphs, e.g. "R3".
func (r Rule) Label() string {
	return fmt.Sprintf("R%d", r.ID)
}

// HasPremise reports whether the atom is one of the rule's premises.
func (r Rule) HasPremise(a Atom) bool {
	for _, p := range r.Premises {
		if p == a {
			return true
		}
	}
	return false
}

// clone returns a copy with an independent premises slice.
func (r Rule) clone() Rule {
	premises := make([]Atom, len(r.Premises))
	copy(premises, r.Premises)
	r.Premises = premises
	return r
}
