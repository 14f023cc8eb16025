// Package ruletext turns free-form rule text into structured premises
// and conclusions. It is the only place raw text is interpreted; the
// chaining core consumes structured rules exclusively.
package ruletext

import (
	"bufio"
	"fmt"
	"regexp"
	"strings"

	"github.com/reasonware/inferlab/pkg/inferlab/internalerr"
	"github.com/reasonware/inferlab/pkg/inferlab/kb"
)

// Atoms on the premise side may be joined by commas, ampersands,
// carets or the word "and".
var connectivePattern = regexp.MustCompile(`(?i)\s*(?:,|&|\^|\band\b)\s*`)

// controlChars covers ASCII control characters that sneak in through
// copy-paste from editors.
var controlChars = regexp.MustCompile(`[\x00-\x1f\x7f]`)

// SplitAtoms splits a connective-joined atom list into normalized atoms.
func SplitAtoms(raw string) []kb.Atom {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	tokens := connectivePattern.Split(raw, -1)
	return kb.NormalizeAll(tokens)
}

// ParseRule parses a single rule line such as "a, b -> c". The arrow
// variants "=>", "→" and ":>" are accepted.
func ParseRule(raw string) (premises []kb.Atom, conclusion kb.Atom, err error) {
	text := strings.TrimSpace(raw)
	if text == "" {
		return nil, "", fmt.Errorf("rule text is empty: %w", internalerr.ErrInvalidInput)
	}
	cleaned := controlChars.ReplaceAllString(text, "")
	normalized := strings.NewReplacer("=>", "->", "→", "->", ":>", "->").Replace(cleaned)

	left, right, found := strings.Cut(normalized, "->")
	if !found {
		return nil, "", fmt.Errorf("rule %q needs an arrow like '->' (example: a & b -> c): %w",
			raw, internalerr.ErrInvalidInput)
	}
	premises = SplitAtoms(left)
	conclusion = kb.Normalize(right)
	if len(premises) == 0 {
		return nil, "", fmt.Errorf("rule %q is missing premises: %w", raw, internalerr.ErrInvalidInput)
	}
	if conclusion == "" {
		return nil, "", fmt.Errorf("rule %q is missing a conclusion: %w", raw, internalerr.ErrInvalidInput)
	}
	return premises, conclusion, nil
}

// LoadRules parses one rule per line into the knowledge base. Blank
// lines and #-comments are skipped.
func LoadRules(base *kb.KnowledgeBase, text string) error {
	scanner := bufio.NewScanner(strings.NewReader(text))
	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		premises, conclusion, err := ParseRule(line)
		if err != nil {
			return fmt.Errorf("line %d: %w", lineNum, err)
		}
		if _, err := base.AddRule(premises, conclusion); err != nil {
			return fmt.Errorf("line %d: %w", lineNum, err)
		}
	}
	return scanner.Err()
}
