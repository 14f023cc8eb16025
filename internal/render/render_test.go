package render

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/reasonware/inferlab/pkg/inferlab/graphs"
	"github.com/reasonware/inferlab/pkg/inferlab/kb"
)

func testDescriptor() *graphs.Descriptor {
	base := kb.New("render-test")
	base.AddRule([]kb.Atom{"a", "b"}, "c")
	base.AddFact("a")
	base.AddFact("b")
	return graphs.BuildFPG("test_fpg", base.AllRules(), base.KnownFacts(), kb.NewAtomSet("c"))
}

func TestSVGWritesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.svg")

	if err := SVG(testDescriptor(), path); err != nil {
		t.Fatalf("SVG: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	body := string(data)
	if !strings.Contains(body, "<svg") {
		t.Error("output is not an SVG document")
	}
	for _, id := range []string{"a", "b", "c", "R1"} {
		if !strings.Contains(body, ">"+id+"<") {
			t.Errorf("node %q missing from rendered output", id)
		}
	}
}

func TestAllRendersEveryDescriptor(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "out")
	descs := map[string]*graphs.Descriptor{
		"first":  testDescriptor(),
		"second": testDescriptor(),
	}

	files, err := All(descs, dir)
	if err != nil {
		t.Fatalf("All: %v", err)
	}
	if len(files) != 2 {
		t.Fatalf("expected 2 files, got %v", files)
	}
	for name, path := range files {
		if filepath.Base(path) != name+".svg" {
			t.Errorf("file for %q should be <name>.svg, got %s", name, path)
		}
		if _, err := os.Stat(path); err != nil {
			t.Errorf("missing output %s: %v", path, err)
		}
	}
}
