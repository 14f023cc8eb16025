package kb

import (
	"sort"
	"strings"
)

// Atom is a propositional token. Equality is by normalized text.
// Case is significant: the triangle sample distinguishes the side 'a'
// from the angle 'A'.
type Atom string

// Normalize trims surrounding whitespace from a raw token.
func Normalize(raw string) Atom {
	return Atom(strings.TrimSpace(raw))
}

// NormalizeAll normalizes a batch of raw tokens, dropping empties and
// duplicates while preserving first-seen order.
func NormalizeAll(raw []string) []Atom {
	seen := make(map[Atom]struct{}, len(raw))
	out := make([]Atom, 0, len(raw))
	for _, r := range raw {
		a := Normalize(r)
		if a == "" {
			continue
		}
		if _, ok := seen[a]; ok {
			continue
		}
		seen[a] = struct{}{}
		out = append(out, a)
	}
	return out
}

// AtomSet is an unordered set of atoms.
type AtomSet map[Atom]struct{}

// NewAtomSet builds a set from the given atoms, skipping empties.
func NewAtomSet(atoms ...Atom) AtomSet {
	s := make(AtomSet, len(atoms))
	for _, a := range atoms {
		s.Add(a)
	}
	return s
}

// Add inserts an atom. Empty atoms are ignored.
func (s AtomSet) Add(a Atom) {
	if a == "" {
		return
	}
	s[a] = struct{}{}
}

// Remove deletes an atom if present.
func (s AtomSet) Remove(a Atom) {
	delete(s, a)
}

// Has reports whether the atom is in the set.
func (s AtomSet) Has(a Atom) bool {
	_, ok := s[a]
	return ok
}

// HasAll reports whether every atom in the slice is in the set.
func (s AtomSet) HasAll(atoms []Atom) bool {
	for _, a := range atoms {
		if !s.Has(a) {
			return false
		}
	}
	return true
}

// SubsetOf reports whether every member of s is in other.
func (s AtomSet) SubsetOf(other AtomSet) bool {
	for a := range s {
		if !other.Has(a) {
			return false
		}
	}
	return true
}

// Clone returns an independent copy of the set.
func (s AtomSet) Clone() AtomSet {
	out := make(AtomSet, len(s))
	for a := range s {
		out[a] = struct{}{}
	}
	return out
}

// Sorted returns the members in lexicographic order.
func (s AtomSet) Sorted() []Atom {
	out := make([]Atom, 0, len(s))
	for a := range s {
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
