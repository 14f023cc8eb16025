// Package sample bundles the triangle-classification exercise used by
// the CLI and web front-ends as their default knowledge base.
package sample

import (
	"fmt"
	"strings"

	"github.com/reasonware/inferlab/pkg/inferlab/kb"
	"github.com/reasonware/inferlab/pkg/inferlab/ruletext"
)

// TriangleRules encodes the classic triangle exercise: lowercase atoms
// are sides and derived quantities, uppercase atoms are angles.
var TriangleRules = []string{
	"a ^ b ^ C -> c",
	"a ^ b ^ ma -> c",
	"a ^ b ^ mb -> c",
	"A ^ B -> C",
	"a ^ hc -> B",
	"b ^ hc -> A",
	"a ^ R -> A",
	"b ^ R -> B",
	"a ^ b ^ c -> P",
	"a ^ b ^ c -> p",
	"a ^ b ^ c -> mc",
	"a ^ ha -> S",
	"a ^ b ^ C -> S",
	"a ^ b ^ c ^ p -> S",
	"b ^ S -> hb",
	"S ^ p -> r",
}

// TriangleFacts are the default given facts: the three sides.
var TriangleFacts = []string{"a", "b", "c"}

// TriangleGoals is the default goal: the inradius.
var TriangleGoals = []string{"r"}

// TriangleKB builds the sample knowledge base with its default facts.
// The rule data is static, so a failure to parse is a programming
// error and panics.
func TriangleKB() *kb.KnowledgeBase {
	base := kb.New("triangle-demo")
	if err := ruletext.LoadRules(base, strings.Join(TriangleRules, "\n")); err != nil {
		panic(fmt.Sprintf("sample: triangle rules: %v", err))
	}
	facts := make([]kb.Atom, len(TriangleFacts))
	for i, f := range TriangleFacts {
		facts[i] = kb.Atom(f)
	}
	base.SetFacts(facts)
	return base
}

// TriangleGoalAtoms returns the default goals as atoms.
func TriangleGoalAtoms() []kb.Atom {
	out := make([]kb.Atom, len(TriangleGoals))
	for i, g := range TriangleGoals {
		out[i] = kb.Atom(g)
	}
	return out
}
