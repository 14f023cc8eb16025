// Package graphs converts chaining results into abstract node/edge
// descriptors. Descriptors carry no rendering logic; layout, colors
// and file output belong to the rendering collaborator.
package graphs

import (
	"sort"

	"github.com/reasonware/inferlab/pkg/inferlab/backward"
	"github.com/reasonware/inferlab/pkg/inferlab/forward"
	"github.com/reasonware/inferlab/pkg/inferlab/kb"
)

// Kind tags a node as a fact atom or a rule.
type Kind string

// Role classifies a fact node.
type Role string

const (
	KindFact Kind = "fact"
	KindRule Kind = "rule"

	RoleGiven   Role = "given"
	RoleDerived Role = "derived"
	RoleGoal    Role = "goal"
)

// Artifact names used by renderers and front-ends.
const (
	ForwardFPG  = "forward_fpg"
	ForwardRPG  = "forward_rpg"
	BackwardFPG = "backward_fpg"
)

// Node is one vertex of a descriptor. ID is the atom text for facts
// and the rule label (e.g. "R3") for rules.
type Node struct {
	ID     string
	Kind   Kind
	Role   Role // facts only
	RuleID int  // rules only
}

// Edge connects two nodes by id.
type Edge struct {
	From string
	To   string
}

// Descriptor is a pure-data graph description. Direction is a layout
// hint ("LR" or "TB") carried over to the renderer.
type Descriptor struct {
	Name      string
	Direction string
	Nodes     []Node
	Edges     []Edge
}

// BuildFPG builds a fact-propagation graph over the rules that
// participated in a run: every touched atom classified as
// given/derived/goal, a node per rule, premise->rule and
// rule->conclusion edges.
func BuildFPG(name string, rules []kb.Rule, given, goals kb.AtomSet) *Descriptor {
	touched := make(kb.AtomSet)
	for _, r := range rules {
		for _, p := range r.Premises {
			touched.Add(p)
		}
		touched.Add(r.Conclusion)
	}
	for a := range given {
		touched.Add(a)
	}
	for a := range goals {
		touched.Add(a)
	}

	d := &Descriptor{Name: name, Direction: "LR"}
	for _, a := range touched.Sorted() {
		role := RoleDerived
		if given.Has(a) {
			role = RoleGiven
		}
		if goals.Has(a) {
			role = RoleGoal
		}
		d.Nodes = append(d.Nodes, Node{ID: string(a), Kind: KindFact, Role: role})
	}

	ordered := make([]kb.Rule, len(rules))
	copy(ordered, rules)
	sort.Slice(ordered, func(i, j int) bool { return ordered[i].ID < ordered[j].ID })
	for _, r := range ordered {
		d.Nodes = append(d.Nodes, Node{ID: r.Label(), Kind: KindRule, RuleID: r.ID})
		for _, p := range r.Premises {
			d.Edges = append(d.Edges, Edge{From: string(p), To: r.Label()})
		}
		d.Edges = append(d.Edges, Edge{From: r.Label(), To: string(r.Conclusion)})
	}
	return d
}

// BuildRPG builds the rule-precedence graph over a fired sequence: a
// node per fired rule in firing order, with an edge from an earlier
// rule to a later one when the earlier conclusion was consumed as a
// premise.
func BuildRPG(name string, fired []kb.Rule) *Descriptor {
	d := &Descriptor{Name: name, Direction: "TB"}
	for _, r := range fired {
		d.Nodes = append(d.Nodes, Node{ID: r.Label(), Kind: KindRule, RuleID: r.ID})
	}
	for i, earlier := range fired {
		for _, later := range fired[i+1:] {
			if later.HasPremise(earlier.Conclusion) {
				d.Edges = append(d.Edges, Edge{From: earlier.Label(), To: later.Label()})
			}
		}
	}
	return d
}

// FromForward derives the FPG and RPG descriptors for a forward run.
// Given atoms are the knowledge base's working set at build time.
func FromForward(base *kb.KnowledgeBase, res forward.Result) map[string]*Descriptor {
	fired := lookupRules(base, res.FiredRules)
	goals := kb.NewAtomSet(res.Goals...)
	return map[string]*Descriptor{
		ForwardFPG: BuildFPG(ForwardFPG, fired, base.KnownFacts(), goals),
		ForwardRPG: BuildRPG(ForwardRPG, fired),
	}
}

// FromBackward derives the FPG descriptor for a backward run.
func FromBackward(base *kb.KnowledgeBase, res backward.Result) map[string]*Descriptor {
	used := lookupRules(base, res.UsedRules)
	goals := kb.NewAtomSet(res.Goals...)
	return map[string]*Descriptor{
		BackwardFPG: BuildFPG(BackwardFPG, used, base.KnownFacts(), goals),
	}
}

func lookupRules(base *kb.KnowledgeBase, ids []int) []kb.Rule {
	out := make([]kb.Rule, 0, len(ids))
	for _, id := range ids {
		if r, ok := base.Rule(id); ok {
			out = append(out, r)
		}
	}
	return out
}
