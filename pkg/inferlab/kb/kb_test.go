package kb

import (
	"errors"
	"testing"

	"github.com/reasonware/inferlab/pkg/inferlab/internalerr"
)

func TestAddRuleAssignsSequentialIDs(t *testing.T) {
	base := New("test")

	r1, err := base.AddRule([]Atom{"a"}, "b")
	if err != nil {
		t.Fatalf("AddRule: %v", err)
	}
	r2, err := base.AddRule([]Atom{"b"}, "c")
	if err != nil {
		t.Fatalf("AddRule: %v", err)
	}

	if r1.ID != 1 || r2.ID != 2 {
		t.Errorf("expected ids 1,2, got %d,%d", r1.ID, r2.ID)
	}
}

func TestRemovedIDsAreNotReused(t *testing.T) {
	base := New("test")
	base.AddRule([]Atom{"a"}, "b")
	r2, _ := base.AddRule([]Atom{"b"}, "c")
	base.AddRule([]Atom{"c"}, "d")

	if err := base.RemoveRule(r2.ID); err != nil {
		t.Fatalf("RemoveRule: %v", err)
	}
	r4, err := base.AddRule([]Atom{"d"}, "e")
	if err != nil {
		t.Fatalf("AddRule: %v", err)
	}
	if r4.ID != 4 {
		t.Errorf("expected id 4 after deletion, got %d", r4.ID)
	}

	ids := []int{}
	for _, r := range base.AllRules() {
		ids = append(ids, r.ID)
	}
	want := []int{1, 3, 4}
	for i := range want {
		if ids[i] != want[i] {
			t.Fatalf("expected ids %v, got %v", want, ids)
		}
	}
}

func TestClearRulesResetsCounter(t *testing.T) {
	base := New("test")
	base.AddRule([]Atom{"a"}, "b")
	base.ClearRules()

	r, err := base.AddRule([]Atom{"a"}, "b")
	if err != nil {
		t.Fatalf("AddRule: %v", err)
	}
	if r.ID != 1 {
		t.Errorf("expected id 1 after reset, got %d", r.ID)
	}
}

func TestAddRuleValidation(t *testing.T) {
	base := New("test")

	if _, err := base.AddRule(nil, "c"); !errors.Is(err, internalerr.ErrInvalidRule) {
		t.Errorf("empty premises: expected ErrInvalidRule, got %v", err)
	}
	if _, err := base.AddRule([]Atom{" ", ""}, "c"); !errors.Is(err, internalerr.ErrInvalidRule) {
		t.Errorf("blank premises: expected ErrInvalidRule, got %v", err)
	}
	if _, err := base.AddRule([]Atom{"a"}, "  "); !errors.Is(err, internalerr.ErrInvalidRule) {
		t.Errorf("empty conclusion: expected ErrInvalidRule, got %v", err)
	}
	if _, err := base.AddRule([]Atom{"a"}, "b ^ c"); !errors.Is(err, internalerr.ErrInvalidRule) {
		t.Errorf("multi-token conclusion: expected ErrInvalidRule, got %v", err)
	}
}

func TestAddRuleDedupesAndNormalizesPremises(t *testing.T) {
	base := New("test")
	r, err := base.AddRule([]Atom{" a ", "b", "a"}, " c ")
	if err != nil {
		t.Fatalf("AddRule: %v", err)
	}
	if len(r.Premises) != 2 || r.Premises[0] != "a" || r.Premises[1] != "b" {
		t.Errorf("expected premises [a b], got %v", r.Premises)
	}
	if r.Conclusion != "c" {
		t.Errorf("expected conclusion c, got %q", r.Conclusion)
	}
}

func TestUpdateRule(t *testing.T) {
	base := New("test")
	r, _ := base.AddRule([]Atom{"a"}, "b")

	updated, err := base.UpdateRule(r.ID, []Atom{"x", "y"}, "z")
	if err != nil {
		t.Fatalf("UpdateRule: %v", err)
	}
	if updated.ID != r.ID {
		t.Errorf("update must keep the id, got %d", updated.ID)
	}
	if updated.Conclusion != "z" {
		t.Errorf("expected conclusion z, got %q", updated.Conclusion)
	}

	if _, err := base.UpdateRule(99, []Atom{"a"}, "b"); !errors.Is(err, internalerr.ErrUnknownRule) {
		t.Errorf("expected ErrUnknownRule, got %v", err)
	}
	if err := base.RemoveRule(99); !errors.Is(err, internalerr.ErrUnknownRule) {
		t.Errorf("expected ErrUnknownRule, got %v", err)
	}
}

func TestFacts(t *testing.T) {
	base := New("test")

	a, err := base.AddFact(" a ")
	if err != nil {
		t.Fatalf("AddFact: %v", err)
	}
	if a != "a" {
		t.Errorf("expected normalized atom a, got %q", a)
	}
	if _, err := base.AddFact("   "); !errors.Is(err, internalerr.ErrInvalidInput) {
		t.Errorf("expected ErrInvalidInput for blank fact, got %v", err)
	}

	base.AddFact("b")
	base.RemoveFact("a ")
	facts := base.KnownFacts()
	if facts.Has("a") || !facts.Has("b") {
		t.Errorf("expected facts {b}, got %v", facts.Sorted())
	}

	base.SetFacts([]Atom{"x", "y", "x"})
	if got := len(base.KnownFacts()); got != 2 {
		t.Errorf("expected 2 facts after SetFacts, got %d", got)
	}

	base.ClearFacts()
	if got := len(base.KnownFacts()); got != 0 {
		t.Errorf("expected no facts after ClearFacts, got %d", got)
	}
}

func TestNormalizationIsCaseSensitive(t *testing.T) {
	if Normalize(" A ") == Normalize("a") {
		t.Error("atoms must stay case sensitive: the triangle sample relies on 'a' != 'A'")
	}
}

func TestCloneIsIndependent(t *testing.T) {
	base := New("orig")
	base.AddRule([]Atom{"a"}, "b")
	base.AddFact("a")

	clone := base.Clone()
	clone.AddRule([]Atom{"b"}, "c")
	clone.AddFact("z")
	clone.ClearFacts()

	if base.RuleCount() != 1 {
		t.Errorf("clone mutation leaked into original rules: %d", base.RuleCount())
	}
	if !base.KnownFacts().Has("a") {
		t.Error("clone mutation leaked into original facts")
	}
}

func TestAtomSetOps(t *testing.T) {
	s := NewAtomSet("b", "a")
	if !s.HasAll([]Atom{"a", "b"}) {
		t.Error("HasAll failed for members")
	}
	if s.HasAll([]Atom{"a", "c"}) {
		t.Error("HasAll succeeded for a non-member")
	}
	if got := s.Sorted(); len(got) != 2 || got[0] != "a" || got[1] != "b" {
		t.Errorf("Sorted: got %v", got)
	}
	if !s.SubsetOf(NewAtomSet("a", "b", "c")) {
		t.Error("SubsetOf failed")
	}
	if NewAtomSet("a", "x").SubsetOf(s) {
		t.Error("SubsetOf succeeded for a non-subset")
	}
}
