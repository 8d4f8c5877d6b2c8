// Package rules loads and applies the regex-backed rule documents that sit
// next to skill definitions: validations.yaml and sharp-edges.yaml.
//
// Both document kinds share one rule shape and one engine. Rules are
// flattened across the whole catalog in walk order and applied in that
// order; there is no dedup and no reranking. A rule whose pattern does not
// compile stays in the inventory but is inert: it is logged once at load
// time and never matches.
package rules

import "regexp"

// --- Severity enum ---

// Severity orders rules by how badly ignoring them tends to end.
type Severity string

const (
	SeverityCritical Severity = "critical"
	SeverityHigh     Severity = "high"
	SeverityMedium   Severity = "medium"
	SeverityLow      Severity = "low"
)

// Rank maps a severity to its position in the ordering
// critical > high > medium > low. Unknown severities rank below low.
func (s Severity) Rank() int {
	switch s {
	case SeverityCritical:
		return 4
	case SeverityHigh:
		return 3
	case SeverityMedium:
		return 2
	case SeverityLow:
		return 1
	default:
		return 0
	}
}

// --- Rule ---

// Rule is one check from a validations.yaml or sharp-edges.yaml document.
// Validation rules carry name/message/fix_action; sharp edges carry
// summary/solution. Either way the pattern is a Go regexp matched against
// the text under inspection.
type Rule struct {
	ID       string   `yaml:"id" json:"id"`
	Severity Severity `yaml:"severity" json:"severity"`
	Pattern  string   `yaml:"pattern" json:"pattern"`

	Name      string `yaml:"name" json:"name,omitempty"`
	Message   string `yaml:"message" json:"message,omitempty"`
	FixAction string `yaml:"fix_action" json:"fix_action,omitempty"`

	Summary  string `yaml:"summary" json:"summary,omitempty"`
	Solution string `yaml:"solution" json:"solution,omitempty"`

	// SkillID is the id of the skill whose directory defined this rule.
	SkillID string `yaml:"-" json:"skill_id,omitempty"`

	// SourceFile is where the rule was read from, for logs only.
	SourceFile string `yaml:"-" json:"-"`

	re *regexp.Regexp
}

// Matches reports whether the rule's pattern occurs anywhere in text.
// Inert rules never match.
func (r *Rule) Matches(text string) bool {
	return r.re != nil && r.re.MatchString(text)
}

// Inert reports whether the rule was disabled at load time because its
// pattern failed to compile (or was empty).
func (r *Rule) Inert() bool {
	return r.re == nil
}

// Title returns the best human label the rule carries.
func (r *Rule) Title() string {
	switch {
	case r.Name != "":
		return r.Name
	case r.Summary != "":
		return r.Summary
	default:
		return r.ID
	}
}

// Advice returns the remediation text, whichever field carries it.
func (r *Rule) Advice() string {
	if r.FixAction != "" {
		return r.FixAction
	}
	return r.Solution
}
