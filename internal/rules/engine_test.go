package rules

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

// writeRuleDocs lays out a catalog with rule documents across two skills.
func writeRuleDocs(t *testing.T) string {
	t.Helper()
	root := t.TempDir()

	writeFile(t, filepath.Join(root, "biotech", "x", "skill.yaml"), "name: X\n")
	writeFile(t, filepath.Join(root, "biotech", "x", "sharp-edges.yaml"), `
sharp_edges:
  - id: raw-todo
    summary: Unfinished TODO committed
    severity: high
    pattern: "TODO"
    solution: Resolve or ticket it before merging.
`)
	writeFile(t, filepath.Join(root, "biotech", "crispr", "validations.yaml"), `
validations:
  - id: log-level
    name: Log level string
    severity: low
    pattern: "log\\.Printf"
    message: Use the structured logger.
  - id: no-bare-panic
    name: Avoid bare panic
    severity: critical
    pattern: 'panic\('
    message: Bare panic crashes the process.
    fix_action: Return an error instead.
`)
	writeFile(t, filepath.Join(root, "go-backend", "sqlite", "sharp-edges.yaml"), `
sharp_edges:
  - id: busy-lock
    summary: Concurrent writers without busy_timeout
    severity: medium
    pattern: "sql\\.Open"
    solution: Set PRAGMA busy_timeout right after opening.
`)
	return root
}

func TestValidationEngineApply(t *testing.T) {
	e := NewValidationEngine(writeRuleDocs(t), nil)
	ctx := context.Background()

	hits := e.Apply(ctx, "func main() { panic(\"boom\") }")
	require.Len(t, hits, 1)
	assert.Equal(t, "no-bare-panic", hits[0].ID)
	assert.Equal(t, SeverityCritical, hits[0].Severity)
	assert.Equal(t, "crispr", hits[0].SkillID)

	assert.Empty(t, e.Apply(ctx, "clean code"))
	assert.Empty(t, e.Apply(ctx, ""), "empty text matches nothing")
}

func TestApplyPreservesLoadOrder(t *testing.T) {
	e := NewValidationEngine(writeRuleDocs(t), nil)

	hits := e.Apply(context.Background(), "log.Printf(\"x\"); panic(\"boom\")")
	require.Len(t, hits, 2)
	// Document order, not severity order: the low rule comes first.
	assert.Equal(t, "log-level", hits[0].ID)
	assert.Equal(t, "no-bare-panic", hits[1].ID)
}

func TestSharpEdgeScoping(t *testing.T) {
	e := NewSharpEdgeEngine(writeRuleDocs(t), nil)
	ctx := context.Background()

	hits := e.ApplyScoped(ctx, "# TODO fix", "x")
	require.Len(t, hits, 1)
	assert.Equal(t, "raw-todo", hits[0].ID)
	assert.Equal(t, "x", hits[0].SkillID)

	assert.Empty(t, e.ApplyScoped(ctx, "done", "x"))

	// The sqlite rule matches the text but belongs to another skill.
	assert.Empty(t, e.ApplyScoped(ctx, "db, _ := sql.Open(...)", "x"))
	unscoped := e.Apply(ctx, "db, _ := sql.Open(...)")
	require.Len(t, unscoped, 1)
	assert.Equal(t, "busy-lock", unscoped[0].ID)
}

func TestInvalidPatternIsIsolated(t *testing.T) {
	root := writeRuleDocs(t)
	writeFile(t, filepath.Join(root, "biotech", "crispr", "sharp-edges.yaml"), `
sharp_edges:
  - id: broken
    summary: Bad regex
    severity: high
    pattern: "(["
  - id: works
    summary: Still fine
    severity: low
    pattern: "fine"
`)

	e := NewSharpEdgeEngine(root, nil)
	ctx := context.Background()

	hits := e.Apply(ctx, "this is fine")
	require.Len(t, hits, 1)
	assert.Equal(t, "works", hits[0].ID)

	report := e.Report(ctx)
	assert.Equal(t, 4, report.Total)
	assert.Equal(t, 1, report.Inert)

	// The broken rule stays visible in the inventory, marked inert.
	var broken *Rule
	for _, r := range e.Rules(ctx, "crispr") {
		if r.ID == "broken" {
			broken = r
		}
	}
	require.NotNil(t, broken)
	assert.True(t, broken.Inert())
}

func TestEmptyPatternIsInert(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "a", "b", "validations.yaml"), `
validations:
  - id: no-pattern
    name: Missing pattern
    severity: high
`)

	e := NewValidationEngine(root, nil)
	ctx := context.Background()

	assert.Empty(t, e.Apply(ctx, "anything at all"))
	assert.Equal(t, 1, e.Report(ctx).Inert)
}

func TestRulesInventory(t *testing.T) {
	e := NewSharpEdgeEngine(writeRuleDocs(t), nil)
	ctx := context.Background()

	all := e.Rules(ctx, "")
	assert.Len(t, all, 2)

	scoped := e.Rules(ctx, "x")
	require.Len(t, scoped, 1)
	assert.Equal(t, "raw-todo", scoped[0].ID)

	assert.Empty(t, e.Rules(ctx, "unknown"))
}

func TestEngineMissingRoot(t *testing.T) {
	e := NewValidationEngine(filepath.Join(t.TempDir(), "nope"), nil)
	ctx := context.Background()

	assert.Empty(t, e.Apply(ctx, "panic("))
	assert.Zero(t, e.Report(ctx).Total)
}

func TestMalformedDocumentSkippedWhole(t *testing.T) {
	root := writeRuleDocs(t)
	writeFile(t, filepath.Join(root, "zz", "bad", "validations.yaml"), "validations: [\n\t:")

	e := NewValidationEngine(root, nil)
	ctx := context.Background()

	assert.Equal(t, 2, e.Report(ctx).Total, "good documents still load")
	assert.Error(t, e.Report(ctx).Err)
}

func TestSeverityRank(t *testing.T) {
	assert.Greater(t, SeverityCritical.Rank(), SeverityHigh.Rank())
	assert.Greater(t, SeverityHigh.Rank(), SeverityMedium.Rank())
	assert.Greater(t, SeverityMedium.Rank(), SeverityLow.Rank())
	assert.Greater(t, SeverityLow.Rank(), Severity("whatever").Rank())
}

func TestRuleTitleAndAdvice(t *testing.T) {
	named := &Rule{ID: "a", Name: "Named", FixAction: "fix it"}
	assert.Equal(t, "Named", named.Title())
	assert.Equal(t, "fix it", named.Advice())

	edge := &Rule{ID: "b", Summary: "Summarized", Solution: "route around it"}
	assert.Equal(t, "Summarized", edge.Title())
	assert.Equal(t, "route around it", edge.Advice())

	bare := &Rule{ID: "c"}
	assert.Equal(t, "c", bare.Title())
	assert.Empty(t, bare.Advice())
}
