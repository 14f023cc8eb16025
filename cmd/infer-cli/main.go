package main

import (
	"bufio"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/reasonware/inferlab/internal/render"
	"github.com/reasonware/inferlab/pkg/inferlab/backward"
	"github.com/reasonware/inferlab/pkg/inferlab/config"
	"github.com/reasonware/inferlab/pkg/inferlab/forward"
	"github.com/reasonware/inferlab/pkg/inferlab/graphs"
	"github.com/reasonware/inferlab/pkg/inferlab/kb"
	"github.com/reasonware/inferlab/pkg/inferlab/ruletext"
	"github.com/reasonware/inferlab/pkg/inferlab/sample"
)

func main() {
	var (
		rulesetPath = flag.String("ruleset", "", "Rule-set YAML file (default: triangle sample)")
		noSample    = flag.Bool("no-sample", false, "Start with an empty knowledge base")
		outputDir   = flag.String("out", "inference_outputs", "Directory for rendered graphs")
	)
	flag.Parse()

	base := sample.TriangleKB()
	goals := sample.TriangleGoalAtoms()
	if *noSample {
		base = kb.New("scratch")
		goals = nil
	}
	if *rulesetPath != "" {
		rs, err := config.LoadRuleSet(*rulesetPath)
		if err != nil {
			log.Fatal(err)
		}
		base, goals, err = rs.Build()
		if err != nil {
			log.Fatal(err)
		}
	}

	c := &cli{
		scanner:   bufio.NewScanner(os.Stdin),
		base:      base,
		goals:     goals,
		outputDir: *outputDir,
	}
	c.loop()
}

type cli struct {
	scanner   *bufio.Scanner
	base      *kb.KnowledgeBase
	goals     []kb.Atom
	outputDir string
}

func (c *cli) loop() {
	for {
		fmt.Println("\n=== Inference Lab ===")
		fmt.Println(c.base.Summary())
		c.printRules()
		c.printFacts()
		fmt.Println("\nMenu:")
		fmt.Println(" 1. Manage rules")
		fmt.Println(" 2. Manage facts")
		fmt.Println(" 3. Run forward inference")
		fmt.Println(" 4. Run backward inference")
		fmt.Println(" 5. Render graphs (FPG & RPG)")
		fmt.Println(" 6. Reload triangle sample")
		fmt.Println(" 0. Exit")

		switch c.prompt("Select option: ") {
		case "0", "":
			fmt.Println("Goodbye!")
			return
		case "1":
			c.manageRules()
		case "2":
			c.manageFacts()
		case "3":
			c.runForward()
		case "4":
			c.runBackward()
		case "5":
			c.renderGraphs()
		case "6":
			c.base = sample.TriangleKB()
			c.goals = sample.TriangleGoalAtoms()
			fmt.Println("Triangle sample reloaded.")
		default:
			fmt.Println("Unknown option.")
		}
	}
}

func (c *cli) prompt(message string) string {
	fmt.Print(message)
	if !c.scanner.Scan() {
		fmt.Println()
		return ""
	}
	return strings.TrimSpace(c.scanner.Text())
}

func (c *cli) printRules() {
	rules := c.base.AllRules()
	fmt.Println("\n=== Rules ===")
	if len(rules) == 0 {
		fmt.Println("No rules defined.")
		return
	}
	for _, r := range rules {
		fmt.Printf("%s: %s\n", r.Label(), r.Text())
	}
}

func (c *cli) printFacts() {
	fmt.Println("Facts:", formatAtoms(c.base.KnownFacts()))
}

func (c *cli) manageRules() {
	for {
		c.printRules()
		fmt.Println("\nRule menu: [a]dd, [e]dit, [d]elete, [c]lear, [q]uit")
		switch strings.ToLower(c.prompt("Select option: ")) {
		case "q", "":
			return
		case "a":
			text := c.prompt("Enter rule (example: a, b -> c): ")
			if text == "" {
				continue
			}
			premises, conclusion, err := ruletext.ParseRule(text)
			if err != nil {
				fmt.Println("Error:", err)
				continue
			}
			rule, err := c.base.AddRule(premises, conclusion)
			if err != nil {
				fmt.Println("Error:", err)
				continue
			}
			fmt.Printf("Added %s.\n", rule.Label())
		case "e":
			id, err := strconv.Atoi(c.prompt("Rule id to edit: "))
			if err != nil {
				fmt.Println("Error: rule id must be a number.")
				continue
			}
			existing, ok := c.base.Rule(id)
			if !ok {
				fmt.Println("Error: unknown rule id.")
				continue
			}
			text := c.prompt(fmt.Sprintf("New text for %s [%s]: ", existing.Label(), existing.Text()))
			if text == "" {
				continue
			}
			premises, conclusion, err := ruletext.ParseRule(text)
			if err != nil {
				fmt.Println("Error:", err)
				continue
			}
			if _, err := c.base.UpdateRule(id, premises, conclusion); err != nil {
				fmt.Println("Error:", err)
				continue
			}
			fmt.Println("Rule updated.")
		case "d":
			id, err := strconv.Atoi(c.prompt("Rule id to delete: "))
			if err != nil {
				fmt.Println("Error: rule id must be a number.")
				continue
			}
			if err := c.base.RemoveRule(id); err != nil {
				fmt.Println("Error:", err)
				continue
			}
			fmt.Println("Rule removed.")
		case "c":
			if strings.ToLower(c.prompt("Clear ALL rules? (y/N): ")) == "y" {
				c.base.ClearRules()
				fmt.Println("Rules cleared.")
			}
		default:
			fmt.Println("Unknown option.")
		}
	}
}

func (c *cli) manageFacts() {
	for {
		c.printFacts()
		fmt.Println("\nFact menu: [a]dd, [r]emove, [s]et, [c]lear, [q]uit")
		switch strings.ToLower(c.prompt("Select option: ")) {
		case "q", "":
			return
		case "a":
			raw := c.prompt("Fact to add: ")
			if raw == "" {
				continue
			}
			if _, err := c.base.AddFact(kb.Atom(raw)); err != nil {
				fmt.Println("Error:", err)
				continue
			}
			fmt.Println("Fact added.")
		case "r":
			raw := c.prompt("Fact to remove: ")
			if raw != "" {
				c.base.RemoveFact(kb.Atom(raw))
				fmt.Println("Fact removed.")
			}
		case "s":
			c.base.SetFacts(ruletext.SplitAtoms(c.prompt("Facts (comma separated): ")))
			fmt.Println("Facts replaced.")
		case "c":
			c.base.ClearFacts()
			fmt.Println("Facts cleared.")
		default:
			fmt.Println("Unknown option.")
		}
	}
}

func (c *cli) collectGoals() []kb.Atom {
	def := make([]string, len(c.goals))
	for i, g := range c.goals {
		def[i] = string(g)
	}
	raw := c.prompt(fmt.Sprintf("Goals [%s]: ", strings.Join(def, ", ")))
	if raw == "" {
		return c.goals
	}
	return ruletext.SplitAtoms(raw)
}

func (c *cli) runForward() {
	goals := c.collectGoals()
	structure, err := forward.ParseStructure(orDefault(c.prompt("Structure stack/queue [stack]: "), "stack"))
	if err != nil {
		fmt.Println("Error:", err)
		return
	}
	mode, err := forward.ParseIndexMode(orDefault(c.prompt("Index mode min/max [min]: "), "min"))
	if err != nil {
		fmt.Println("Error:", err)
		return
	}

	res, err := forward.Run(c.base, forward.Options{
		Structure: structure,
		IndexMode: mode,
		Goals:     goals,
	})
	if err != nil {
		fmt.Println("Error:", err)
		return
	}

	fmt.Println("\n=== Forward inference result ===")
	fmt.Printf("Goals: %s\n", joinAtoms(res.Goals))
	fmt.Printf("Success: %v\n", res.Success)
	fmt.Printf("Final facts: %s\n", joinAtoms(res.FinalFacts))
	fmt.Printf("Fired rules: %s\n", joinRuleIDs(res.FiredRules))
	fmt.Println("\nStep traces:")
	for _, t := range res.History {
		fmt.Println(t.String())
	}

	c.renderRun(graphs.FromForward(c.base, res))
}

func (c *cli) runBackward() {
	goals := c.collectGoals()
	mode, err := backward.ParseIndexMode(orDefault(c.prompt("Index mode min/max [min]: "), "min"))
	if err != nil {
		fmt.Println("Error:", err)
		return
	}

	res, err := backward.Run(c.base, backward.Options{
		IndexMode: mode,
		Goals:     goals,
	})
	if err != nil {
		fmt.Println("Error:", err)
		return
	}

	fmt.Println("\n=== Backward inference result ===")
	fmt.Printf("Goals: %s\n", joinAtoms(res.Goals))
	fmt.Printf("Success: %v\n", res.Success)
	fmt.Printf("Final known facts: %s\n", joinAtoms(res.FinalKnown))
	fmt.Printf("Used rules: %s\n", joinRuleIDs(res.UsedRules))
	fmt.Println("\nTrace:")
	for _, line := range res.Steps {
		fmt.Println(line)
	}

	c.renderRun(graphs.FromBackward(c.base, res))
}

func (c *cli) renderGraphs() {
	rules := c.base.AllRules()
	if len(rules) == 0 {
		fmt.Println("No rules to render.")
		return
	}
	goalSet := kb.NewAtomSet(c.goals...)
	descs := map[string]*graphs.Descriptor{
		"manual_fpg": graphs.BuildFPG("manual_fpg", rules, c.base.KnownFacts(), goalSet),
		"manual_rpg": graphs.BuildRPG("manual_rpg", rules),
	}
	c.renderRun(descs)
}

func (c *cli) renderRun(descs map[string]*graphs.Descriptor) {
	files, err := render.All(descs, c.outputDir)
	if err != nil {
		fmt.Println("Graphs were not generated:", err)
		return
	}
	for name, path := range files {
		fmt.Printf("%s saved to: %s\n", strings.ToUpper(name), filepath.Clean(path))
	}
}

func formatAtoms(set kb.AtomSet) string {
	if len(set) == 0 {
		return "(none)"
	}
	return joinAtoms(set.Sorted())
}

func joinAtoms(atoms []kb.Atom) string {
	parts := make([]string, len(atoms))
	for i, a := range atoms {
		parts[i] = string(a)
	}
	return strings.Join(parts, ", ")
}

func joinRuleIDs(ids []int) string {
	if len(ids) == 0 {
		return "(none)"
	}
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = fmt.Sprintf("R%d", id)
	}
	return strings.Join(parts, ", ")
}

func orDefault(v, fallback string) string {
	if v == "" {
		return fallback
	}
	return v
}
