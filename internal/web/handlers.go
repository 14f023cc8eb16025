package web

import (
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/reasonware/inferlab/internal/render"
	"github.com/reasonware/inferlab/pkg/inferlab/backward"
	"github.com/reasonware/inferlab/pkg/inferlab/forward"
	"github.com/reasonware/inferlab/pkg/inferlab/graphs"
	"github.com/reasonware/inferlab/pkg/inferlab/kb"
	"github.com/reasonware/inferlab/pkg/inferlab/ruletext"
	"github.com/reasonware/inferlab/pkg/inferlab/sample"
)

type inferOptions struct {
	Structure string `json:"structure"`
	IndexMode string `json:"index_mode"`
	Graphs    bool   `json:"graphs"`
}

type inferRequest struct {
	Mode    string       `json:"mode"`
	Rules   []string     `json:"rules"`
	Facts   []string     `json:"facts"`
	Goals   []string     `json:"goals"`
	Options inferOptions `json:"options"`
}

type stepPayload struct {
	Step   int      `json:"step"`
	RuleID int      `json:"rule_id,omitempty"`
	Agenda []int    `json:"agenda"`
	Known  []string `json:"known"`
	Fired  []int    `json:"fired"`
	Note   string   `json:"note,omitempty"`
}

type resultPayload struct {
	Success    bool          `json:"success"`
	Goals      []string      `json:"goals"`
	FinalFacts []string      `json:"final_facts"`
	RuleIDs    []int         `json:"rule_ids"`
	Steps      []stepPayload `json:"steps,omitempty"`
	Trace      []string      `json:"trace,omitempty"`
}

type runPayload struct {
	ID        string    `json:"id"`
	Mode      string    `json:"mode"`
	CreatedAt time.Time `json:"created_at"`
	Success   bool      `json:"success"`
	Goals     []string  `json:"goals"`
}

func (s *Server) handleIndex(c *gin.Context) {
	c.HTML(http.StatusOK, "index.html", gin.H{
		"SampleRules": sample.TriangleRules,
		"SampleFacts": sample.TriangleFacts,
		"SampleGoals": sample.TriangleGoals,
		"Year":        time.Now().Year(),
	})
}

func (s *Server) handleInfer(c *gin.Context) {
	logger := s.logger.With("handler", "infer")

	var req inferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "invalid JSON payload"})
		return
	}
	if req.Mode != "forward" && req.Mode != "backward" {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "mode must be 'forward' or 'backward'"})
		return
	}

	base, goals, err := buildSession(req)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": err.Error()})
		return
	}

	ctx := c.Request.Context()
	var (
		runID   string
		payload resultPayload
		descs   map[string]*graphs.Descriptor
	)
	switch req.Mode {
	case "forward":
		structure, err := forward.ParseStructure(defaultStr(req.Options.Structure, string(forward.Stack)))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": err.Error()})
			return
		}
		mode, err := forward.ParseIndexMode(defaultStr(req.Options.IndexMode, string(forward.Min)))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": err.Error()})
			return
		}
		id, res, err := s.engine.RunForward(ctx, base, forward.Options{
			Structure: structure,
			IndexMode: mode,
			Goals:     goals,
		})
		if err != nil {
			logger.Error("forward run failed", "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": "inference failed"})
			return
		}
		runID = id
		payload = forwardPayload(res)
		if req.Options.Graphs {
			descs = graphs.FromForward(base, res)
		}
	case "backward":
		mode, err := backward.ParseIndexMode(defaultStr(req.Options.IndexMode, string(backward.Min)))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": err.Error()})
			return
		}
		id, res, err := s.engine.RunBackward(ctx, base, backward.Options{
			IndexMode: mode,
			Goals:     goals,
		})
		if err != nil {
			logger.Error("backward run failed", "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": "inference failed"})
			return
		}
		runID = id
		payload = backwardPayload(res)
		if req.Options.Graphs {
			descs = graphs.FromBackward(base, res)
		}
	}

	graphURLs := map[string]string{}
	if len(descs) > 0 {
		dir := filepath.Join(s.cfg.OutputDir, runID)
		files, err := render.All(descs, dir)
		if err != nil {
			// Graphs are best-effort; the inference result stands.
			logger.Warn("graph rendering failed", "run_id", runID, "error", err)
		} else {
			for name := range files {
				graphURLs[name] = "/graphs/" + runID + "/" + name + ".svg"
			}
		}
	}

	s.pruneHistory(c)

	c.JSON(http.StatusOK, gin.H{
		"ok":     true,
		"mode":   req.Mode,
		"run_id": runID,
		"result": payload,
		"graphs": graphURLs,
	})
}

func (s *Server) handleRuns(c *gin.Context) {
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if err != nil || limit < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "limit must be a non-negative integer"})
		return
	}
	runs, err := s.engine.History(c.Request.Context(), limit)
	if err != nil {
		s.logger.Error("history listing failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": "history unavailable"})
		return
	}
	out := make([]runPayload, 0, len(runs))
	for _, r := range runs {
		out = append(out, runPayload{
			ID:        r.ID,
			Mode:      r.Mode,
			CreatedAt: r.CreatedAt,
			Success:   r.Success,
			Goals:     r.Goals,
		})
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "runs": out})
}

// pruneHistory drops the oldest run records past the configured keep
// count, together with their rendered graph directories.
func (s *Server) pruneHistory(c *gin.Context) {
	removed, err := s.engine.Prune(c.Request.Context(), s.cfg.KeepHistory)
	if err != nil {
		s.logger.Warn("history pruning failed", "error", err)
		return
	}
	for _, id := range removed {
		if err := os.RemoveAll(filepath.Join(s.cfg.OutputDir, id)); err != nil {
			s.logger.Warn("stale graph dir not removed", "run_id", id, "error", err)
		}
	}
}

// buildSession turns the request payload into a fresh knowledge base
// and goal list owned by this request.
func buildSession(req inferRequest) (*kb.KnowledgeBase, []kb.Atom, error) {
	base := kb.New("web-session")
	for _, line := range req.Rules {
		premises, conclusion, err := ruletext.ParseRule(line)
		if err != nil {
			return nil, nil, err
		}
		if _, err := base.AddRule(premises, conclusion); err != nil {
			return nil, nil, err
		}
	}
	if base.RuleCount() == 0 {
		return nil, nil, fmt.Errorf("at least one rule is required")
	}

	facts := make([]kb.Atom, 0, len(req.Facts))
	for _, f := range req.Facts {
		facts = append(facts, ruletext.SplitAtoms(f)...)
	}
	base.SetFacts(facts)

	goals := make([]kb.Atom, 0, len(req.Goals))
	for _, g := range req.Goals {
		goals = append(goals, ruletext.SplitAtoms(g)...)
	}
	if len(goals) == 0 {
		return nil, nil, fmt.Errorf("at least one goal is required")
	}
	return base, goals, nil
}

func forwardPayload(res forward.Result) resultPayload {
	steps := make([]stepPayload, len(res.History))
	for i, t := range res.History {
		steps[i] = stepPayload{
			Step:   t.Step,
			RuleID: t.RuleID,
			Agenda: t.Agenda,
			Known:  atomStrings(t.Known),
			Fired:  t.Fired,
			Note:   t.Note,
		}
	}
	return resultPayload{
		Success:    res.Success,
		Goals:      atomStrings(res.Goals),
		FinalFacts: atomStrings(res.FinalFacts),
		RuleIDs:    res.FiredRules,
		Steps:      steps,
	}
}

func backwardPayload(res backward.Result) resultPayload {
	return resultPayload{
		Success:    res.Success,
		Goals:      atomStrings(res.Goals),
		FinalFacts: atomStrings(res.FinalKnown),
		RuleIDs:    res.UsedRules,
		Trace:      res.Steps,
	}
}

func atomStrings(atoms []kb.Atom) []string {
	out := make([]string, len(atoms))
	for i, a := range atoms {
		out[i] = string(a)
	}
	return out
}

func defaultStr(v, fallback string) string {
	if v == "" {
		return fallback
	}
	return v
}
