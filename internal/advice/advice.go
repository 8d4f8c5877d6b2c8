// Package advice maps free-text task and problem descriptions onto the
// server's tool surface.
//
// Routing is deliberately dumb: an ordered rule table per router, matched
// by case-insensitive keyword containment. Every matching rule contributes
// its steps in table order and duplicates collapse; when nothing matches
// the caller gets the generic fallback. No scoring, no NLP.
package advice

import (
	"context"
	"fmt"
	"strings"

	"github.com/sensei-mcp/sensei/internal/skills"
)

// route is one row of a rule table.
type route struct {
	keywords []string
	steps    []string
}

var planRoutes = []route{
	{
		keywords: []string{"fix", "bug", "crash", "error", "broken", "regression"},
		steps: []string{
			"`get_troubleshooting_advice` - describe the failure to pick an angle of attack",
			"`find_expert_skill` - search for the skill covering the failing area",
			"`consult_skill` - load that skill's patterns before touching code",
			"`validate_code_implementation` - re-check the patched code against its rules",
		},
	},
	{
		keywords: []string{"refactor", "legacy", "cleanup", "migrate", "migration", "upgrade"},
		steps: []string{
			"`analyze_risk_sharp_edges` - map the known sharp edges before moving code",
			"`consult_skill` - review the owning skill's patterns and anti-patterns",
			"`validate_code_implementation` - validate each refactored slice as you go",
		},
	},
	{
		keywords: []string{"test", "verify", "review", "check", "audit"},
		steps: []string{
			"`validate_code_implementation` - run the code against every validation rule",
			"`analyze_risk_sharp_edges` - scan for known pitfall patterns",
		},
	},
	{
		keywords: []string{"remember", "memory", "decision", "recall", "context"},
		steps: []string{
			"`access_project_memory` - list what earlier sessions recorded before deciding anything",
		},
	},
	{
		keywords: []string{"feature", "build", "implement", "add", "create", "new"},
		steps: []string{
			"`list_available_skills` - see which expertise areas exist",
			"`find_expert_skill` - narrow down to the skill for this work",
			"`consult_skill` - absorb its patterns before writing code",
			"`access_project_memory` - record the decisions you make along the way",
		},
	},
}

var fallbackPlan = []string{
	"`list_available_skills` - start from the catalog",
	"`find_expert_skill` - search for anything matching your task",
	"`consult_skill` - load the closest skill and follow its patterns",
}

var troubleshootRoutes = []route{
	{
		keywords: []string{"panic", "crash", "segfault", "fatal", "exception"},
		steps: []string{
			"Reproduce the crash with the smallest input you can, then run `validate_code_implementation` on the failing unit. Crash-adjacent rules are usually tagged critical.",
		},
	},
	{
		keywords: []string{"slow", "timeout", "performance", "hang", "deadlock", "stuck"},
		steps: []string{
			"Check `analyze_risk_sharp_edges` without code first: the scoped inventory lists the latency and locking pitfalls already known for that skill.",
		},
	},
	{
		keywords: []string{"flaky", "intermittent", "race", "sometimes"},
		steps: []string{
			"Intermittent failures are usually ordering or shared state. Consult the owning skill and look for concurrency anti-patterns before adding retries.",
		},
	},
	{
		keywords: []string{"yaml", "parse", "config", "load", "catalog"},
		steps: []string{
			"Malformed documents are skipped, not fatal: the catalog keeps serving without them. Run `sensei check` against the skills directory to see every file that failed and why.",
		},
	},
	{
		keywords: []string{"forgot", "lost", "memory", "context"},
		steps: []string{
			"Use `access_project_memory` with action `list` to recover what previous sessions stored. Keys survive restarts; only unsaved in-flight values are gone.",
		},
	},
}

const fallbackAdvice = "No stored guidance matches this problem directly. " +
	"Start with `find_expert_skill` to locate the most relevant skill, " +
	"then `consult_skill` to read its patterns and sharp edges."

// Router turns free-text descriptions into tool guidance. It consults the
// skill index only to point at concretely relevant skills; routing itself
// never depends on catalog content.
type Router struct {
	index *skills.Index
}

// NewRouter builds a Router over the given index.
func NewRouter(index *skills.Index) *Router {
	return &Router{index: index}
}

// Plan maps a task description to a numbered tool sequence.
func (r *Router) Plan(ctx context.Context, task string) string {
	steps := collect(planRoutes, task)
	if len(steps) == 0 {
		steps = fallbackPlan
	}

	var b strings.Builder
	b.WriteString("# Development Plan\n\n")
	fmt.Fprintf(&b, "Task: %s\n\n", task)
	for i, step := range steps {
		fmt.Fprintf(&b, "%d. %s\n", i+1, step)
	}

	if related := r.relatedSkills(ctx, task); len(related) > 0 {
		fmt.Fprintf(&b, "\nSkills matching this task: %s. Consult them first.\n",
			strings.Join(related, ", "))
	}
	return b.String()
}

// Troubleshoot maps a problem description to advice paragraphs.
func (r *Router) Troubleshoot(ctx context.Context, problem string) string {
	tips := collect(troubleshootRoutes, problem)

	var b strings.Builder
	b.WriteString("# Troubleshooting Advice\n\n")
	fmt.Fprintf(&b, "Problem: %s\n\n", problem)
	if len(tips) == 0 {
		b.WriteString(fallbackAdvice)
		b.WriteString("\n")
		return b.String()
	}
	for _, tip := range tips {
		fmt.Fprintf(&b, "- %s\n", tip)
	}

	if related := r.relatedSkills(ctx, problem); len(related) > 0 {
		fmt.Fprintf(&b, "\nSkills matching this problem: %s.\n", strings.Join(related, ", "))
	}
	return b.String()
}

// collect walks the table in order, gathering the steps of every matching
// rule and dropping exact duplicates.
func collect(routes []route, text string) []string {
	lower := strings.ToLower(text)

	var out []string
	seen := make(map[string]bool)
	for _, rt := range routes {
		if !containsAny(lower, rt.keywords...) {
			continue
		}
		for _, step := range rt.steps {
			if !seen[step] {
				out = append(out, step)
				seen[step] = true
			}
		}
	}
	return out
}

// relatedSkills searches the index with each useful word of the text and
// returns up to three distinct skill ids.
func (r *Router) relatedSkills(ctx context.Context, text string) []string {
	const max = 3

	var out []string
	seen := make(map[string]bool)
	for _, word := range strings.Fields(strings.ToLower(text)) {
		word = strings.Trim(word, ".,;:!?\"'`()")
		if len(word) < 4 {
			continue
		}
		for _, hit := range r.index.Search(ctx, word) {
			if seen[hit.ID] {
				continue
			}
			seen[hit.ID] = true
			out = append(out, hit.ID)
			if len(out) == max {
				return out
			}
		}
	}
	return out
}

// containsAny reports whether text contains any of the substrings.
func containsAny(text string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(text, sub) {
			return true
		}
	}
	return false
}
