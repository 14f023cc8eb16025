package web

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"golang.org/x/net/html"

	"github.com/reasonware/inferlab/pkg/inferlab"
	"github.com/reasonware/inferlab/pkg/inferlab/config"
	"github.com/reasonware/inferlab/pkg/inferlab/sample"
	"github.com/reasonware/inferlab/pkg/inferlab/store/memstore"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	cfg := config.DefaultServer()
	cfg.OutputDir = t.TempDir()
	engine := inferlab.New(inferlab.Options{Store: memstore.New()})
	t.Cleanup(func() { engine.Close() })
	return New(cfg, engine, nil)
}

func postInfer(t *testing.T, s *Server, body map[string]any) *httptest.ResponseRecorder {
	t.Helper()
	raw, err := json.Marshal(body)
	if err != nil {
		t.Fatal(err)
	}
	req := httptest.NewRequest(http.MethodPost, "/api/infer", bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)
	return w
}

func triangleRequest(mode string) map[string]any {
	return map[string]any{
		"mode":  mode,
		"rules": sample.TriangleRules,
		"facts": sample.TriangleFacts,
		"goals": sample.TriangleGoals,
		"options": map[string]any{
			"structure":  "queue",
			"index_mode": "min",
			"graphs":     false,
		},
	}
}

type inferResponse struct {
	OK     bool              `json:"ok"`
	Mode   string            `json:"mode"`
	RunID  string            `json:"run_id"`
	Result resultPayload     `json:"result"`
	Graphs map[string]string `json:"graphs"`
	Error  string            `json:"error"`
}

func decodeInfer(t *testing.T, w *httptest.ResponseRecorder) inferResponse {
	t.Helper()
	var resp inferResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v\n%s", err, w.Body.String())
	}
	return resp
}

func TestInferForward(t *testing.T) {
	s := newTestServer(t)

	w := postInfer(t, s, triangleRequest("forward"))
	if w.Code != http.StatusOK {
		t.Fatalf("status %d: %s", w.Code, w.Body.String())
	}

	resp := decodeInfer(t, w)
	if !resp.OK || resp.Mode != "forward" {
		t.Errorf("unexpected response: %+v", resp)
	}
	if len(resp.RunID) != 26 {
		t.Errorf("run ids are ULIDs, got %q", resp.RunID)
	}
	if !resp.Result.Success {
		t.Error("the triangle goal should be reached")
	}
	if len(resp.Result.Steps) == 0 {
		t.Error("forward results carry the step history")
	}
	if len(resp.Graphs) != 0 {
		t.Errorf("graphs were not requested, got %v", resp.Graphs)
	}
}

func TestInferBackward(t *testing.T) {
	s := newTestServer(t)

	w := postInfer(t, s, triangleRequest("backward"))
	if w.Code != http.StatusOK {
		t.Fatalf("status %d: %s", w.Code, w.Body.String())
	}

	resp := decodeInfer(t, w)
	if !resp.OK || !resp.Result.Success {
		t.Errorf("unexpected response: %+v", resp)
	}
	if len(resp.Result.Trace) == 0 {
		t.Error("backward results carry the proof trace")
	}
	if len(resp.Result.RuleIDs) == 0 {
		t.Error("backward results list the used rules")
	}
}

func TestInferRejectsBadInput(t *testing.T) {
	s := newTestServer(t)

	cases := []struct {
		name string
		body map[string]any
	}{
		{"unknown mode", map[string]any{"mode": "sideways", "rules": []string{"a -> b"}, "goals": []string{"b"}}},
		{"no rules", map[string]any{"mode": "forward", "rules": []string{}, "goals": []string{"b"}}},
		{"no goals", map[string]any{"mode": "forward", "rules": []string{"a -> b"}, "goals": []string{}}},
		{"malformed rule", map[string]any{"mode": "forward", "rules": []string{"a b c"}, "goals": []string{"b"}}},
		{"bad structure", map[string]any{
			"mode": "forward", "rules": []string{"a -> b"}, "goals": []string{"b"},
			"options": map[string]any{"structure": "heap"},
		}},
	}
	for _, tc := range cases {
		w := postInfer(t, s, tc.body)
		if w.Code != http.StatusBadRequest {
			t.Errorf("%s: expected 400, got %d: %s", tc.name, w.Code, w.Body.String())
		}
	}
}

func TestInferRejectsInvalidJSON(t *testing.T) {
	s := newTestServer(t)

	req := httptest.NewRequest(http.MethodPost, "/api/infer", strings.NewReader("{not json"))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)
	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", w.Code)
	}
}

func TestRunsListing(t *testing.T) {
	s := newTestServer(t)

	for i := 0; i < 3; i++ {
		if w := postInfer(t, s, triangleRequest("forward")); w.Code != http.StatusOK {
			t.Fatalf("seed run failed: %d", w.Code)
		}
	}

	req := httptest.NewRequest(http.MethodGet, "/api/runs?limit=2", nil)
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("status %d: %s", w.Code, w.Body.String())
	}

	var resp struct {
		OK   bool         `json:"ok"`
		Runs []runPayload `json:"runs"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !resp.OK || len(resp.Runs) != 2 {
		t.Errorf("expected 2 runs, got %+v", resp)
	}
	for _, r := range resp.Runs {
		if r.Mode != "forward" || !r.Success {
			t.Errorf("unexpected run entry: %+v", r)
		}
	}

	bad := httptest.NewRequest(http.MethodGet, "/api/runs?limit=-1", nil)
	w = httptest.NewRecorder()
	s.Handler().ServeHTTP(w, bad)
	if w.Code != http.StatusBadRequest {
		t.Errorf("negative limit: expected 400, got %d", w.Code)
	}
}

func TestIndexPageRenders(t *testing.T) {
	s := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("status %d", w.Code)
	}

	doc, err := html.Parse(bytes.NewReader(w.Body.Bytes()))
	if err != nil {
		t.Fatalf("page is not parseable HTML: %v", err)
	}

	var selects int
	var textareaText []string
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch n.Data {
			case "textarea":
				var text strings.Builder
				for c := n.FirstChild; c != nil; c = c.NextSibling {
					if c.Type == html.TextNode {
						text.WriteString(c.Data)
					}
				}
				textareaText = append(textareaText, text.String())
			case "select":
				selects++
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)

	if len(textareaText) < 3 {
		t.Fatalf("page needs rule, fact and goal inputs, found %d textareas", len(textareaText))
	}
	if selects < 2 {
		t.Errorf("page needs mode and strategy selectors, found %d selects", selects)
	}
	if !strings.Contains(textareaText[0], sample.TriangleRules[0]) {
		t.Errorf("rules textarea should be seeded with the sample rule set, got %q", textareaText[0])
	}
}
