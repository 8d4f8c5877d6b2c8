// Package tools implements the MCP tool surface.
//
// Each tool lives in its own file as a small struct holding its
// dependencies, with a Definition method for registration and a Handle
// method for calls. Input problems and domain not-founds come back as
// tool-level error results; only infrastructure faults return Go errors.
package tools

import (
	"fmt"
	"strings"

	"github.com/sensei-mcp/sensei/internal/rules"
	"github.com/sensei-mcp/sensei/internal/skills"
)

// writeSummaryList renders reduced skill projections as a markdown list.
func writeSummaryList(b *strings.Builder, summaries []skills.Summary) {
	for _, s := range summaries {
		fmt.Fprintf(b, "- **%s**", s.ID)
		if s.Name != "" && s.Name != s.ID {
			fmt.Fprintf(b, " (%s)", s.Name)
		}
		if s.Category != "" {
			fmt.Fprintf(b, " [%s]", s.Category)
		}
		if s.Description != "" {
			fmt.Fprintf(b, ": %s", s.Description)
		}
		b.WriteByte('\n')
	}
}

// writeRuleHit renders one rule as a numbered report entry.
func writeRuleHit(b *strings.Builder, n int, r *rules.Rule) {
	fmt.Fprintf(b, "%d. [%s] %s (%s)\n", n, r.Severity, r.Title(), r.ID)
	if r.Message != "" {
		fmt.Fprintf(b, "   %s\n", r.Message)
	}
	if advice := r.Advice(); advice != "" {
		fmt.Fprintf(b, "   Fix: %s\n", advice)
	}
}

// writeRuleInventory renders a rule as catalog documentation rather than a
// match, flagging inert rules.
func writeRuleInventory(b *strings.Builder, r *rules.Rule) {
	fmt.Fprintf(b, "- [%s] %s (`%s`)", r.Severity, r.Title(), r.ID)
	if r.Inert() {
		b.WriteString(" [disabled: pattern does not compile]")
	}
	b.WriteByte('\n')
	if advice := r.Advice(); advice != "" {
		fmt.Fprintf(b, "  %s\n", advice)
	}
}
