// Package render turns graph descriptors into SVG files via the
// graphviz layout engine. It owns layout, colors and file lifecycle;
// the descriptors themselves stay pure data.
package render

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/goccy/go-graphviz"
	"github.com/goccy/go-graphviz/cgraph"

	"github.com/reasonware/inferlab/pkg/inferlab/graphs"
)

// fact node palette per role
var factFill = map[graphs.Role]string{
	graphs.RoleGiven:   "#e4f1ff",
	graphs.RoleGoal:    "#e6f8ed",
	graphs.RoleDerived: "#fff4c7",
}

var factStroke = map[graphs.Role]string{
	graphs.RoleGiven:   "#1f6fb2",
	graphs.RoleGoal:    "#28924d",
	graphs.RoleDerived: "#c5a200",
}

// SVG lays out one descriptor and writes it as an SVG file.
func SVG(desc *graphs.Descriptor, path string) error {
	g := graphviz.New()
	defer g.Close()

	graph, err := g.Graph()
	if err != nil {
		return fmt.Errorf("render %s: %w", desc.Name, err)
	}
	defer graph.Close()

	if desc.Direction == "TB" {
		graph.SetRankDir(cgraph.TBRank)
	} else {
		graph.SetRankDir(cgraph.LRRank)
	}

	nodes := make(map[string]*cgraph.Node, len(desc.Nodes))
	for _, n := range desc.Nodes {
		gn, err := graph.CreateNode(n.ID)
		if err != nil {
			return fmt.Errorf("render %s: node %s: %w", desc.Name, n.ID, err)
		}
		gn.SetStyle(cgraph.FilledNodeStyle)
		if n.Kind == graphs.KindRule {
			gn.SetShape(cgraph.BoxShape)
			gn.SetFillColor("#f3f3f3")
			gn.SetColor("#7a7a7a")
		} else {
			gn.SetShape(cgraph.CircleShape)
			gn.SetFillColor(factFill[n.Role])
			gn.SetColor(factStroke[n.Role])
		}
		nodes[n.ID] = gn
	}

	for _, e := range desc.Edges {
		from, ok := nodes[e.From]
		if !ok {
			continue
		}
		to, ok := nodes[e.To]
		if !ok {
			continue
		}
		if _, err := graph.CreateEdge("", from, to); err != nil {
			return fmt.Errorf("render %s: edge %s->%s: %w", desc.Name, e.From, e.To, err)
		}
	}

	if err := g.RenderFilename(graph, graphviz.SVG, path); err != nil {
		return fmt.Errorf("render %s: %w", desc.Name, err)
	}
	return nil
}

// All renders every descriptor into dir as <name>.svg and returns the
// written paths keyed by descriptor name.
func All(descs map[string]*graphs.Descriptor, dir string) (map[string]string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	out := make(map[string]string, len(descs))
	for name, desc := range descs {
		path := filepath.Join(dir, name+".svg")
		if err := SVG(desc, path); err != nil {
			return nil, err
		}
		out[name] = path
	}
	return out, nil
}
