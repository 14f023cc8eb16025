// Package config loads YAML configuration: rule-set documents for the
// front-ends and settings for the web server.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/reasonware/inferlab/pkg/inferlab/internalerr"
	"github.com/reasonware/inferlab/pkg/inferlab/kb"
	"github.com/reasonware/inferlab/pkg/inferlab/ruletext"
)

// RuleSet is a YAML rule-set document: one rule text per entry plus
// the default facts and goals for a run.
type RuleSet struct {
	Name  string   `yaml:"name"`
	Rules []string `yaml:"rules"`
	Facts []string `yaml:"facts"`
	Goals []string `yaml:"goals"`
}

// LoadRuleSet reads a rule-set document from a YAML file.
func LoadRuleSet(path string) (*RuleSet, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("load rule set: %w", err)
	}
	var rs RuleSet
	if err := yaml.Unmarshal(data, &rs); err != nil {
		return nil, fmt.Errorf("load rule set %s: %v: %w", path, err, internalerr.ErrInvalidConfig)
	}
	if len(rs.Rules) == 0 {
		return nil, fmt.Errorf("rule set %s has no rules: %w", path, internalerr.ErrInvalidConfig)
	}
	return &rs, nil
}

// Build constructs a knowledge base from the document and returns it
// together with the document's goal atoms.
func (rs *RuleSet) Build() (*kb.KnowledgeBase, []kb.Atom, error) {
	base := kb.New(rs.Name)
	for _, line := range rs.Rules {
		premises, conclusion, err := ruletext.ParseRule(line)
		if err != nil {
			return nil, nil, err
		}
		if _, err := base.AddRule(premises, conclusion); err != nil {
			return nil, nil, err
		}
	}
	facts := make([]kb.Atom, len(rs.Facts))
	for i, f := range rs.Facts {
		facts[i] = kb.Atom(f)
	}
	base.SetFacts(facts)

	goals := make([]kb.Atom, len(rs.Goals))
	for i, g := range rs.Goals {
		goals[i] = kb.Normalize(g)
	}
	return base, goals, nil
}

// Server holds the web front-end settings.
type Server struct {
	Addr        string `yaml:"addr"`
	OutputDir   string `yaml:"output_dir"`
	KeepHistory int    `yaml:"keep_history"`
	StorePath   string `yaml:"store"`
}

// DefaultServer returns the settings used when no config file is given.
func DefaultServer() Server {
	return Server{
		Addr:        ":8080",
		OutputDir:   "inference_outputs",
		KeepHistory: 12,
	}
}

// LoadServer reads server settings from a YAML file, filling unset
// fields from the defaults.
func LoadServer(path string) (Server, error) {
	cfg := DefaultServer()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("load server config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("load server config %s: %v: %w", path, err, internalerr.ErrInvalidConfig)
	}
	if cfg.Addr == "" {
		cfg.Addr = DefaultServer().Addr
	}
	if cfg.OutputDir == "" {
		cfg.OutputDir = DefaultServer().OutputDir
	}
	if cfg.KeepHistory <= 0 {
		cfg.KeepHistory = DefaultServer().KeepHistory
	}
	return cfg, nil
}
