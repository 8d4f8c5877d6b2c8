package tools

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/require"

	"github.com/sensei-mcp/sensei/internal/advice"
	"github.com/sensei-mcp/sensei/internal/memory"
	"github.com/sensei-mcp/sensei/internal/skills"
)

// writeTestCatalog lays out the catalog shared by the tool tests.
func writeTestCatalog(t *testing.T) string {
	t.Helper()
	root := t.TempDir()

	write := func(rel, content string) {
		t.Helper()
		path := filepath.Join(root, rel)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}

	write(filepath.Join("biotech", "crispr", "skill.yaml"), `
name: CRISPR Guide Design
description: Designing guide RNAs without off-target surprises.
identity:
  role: senior genomics engineer
patterns:
  - name: check-pam-sites
    do: verify the PAM site before scoring
`)
	write(filepath.Join("biotech", "crispr", "validations.yaml"), `
validations:
  - id: no-bare-panic
    name: Avoid bare panic
    severity: critical
    pattern: 'panic\('
    message: Bare panic crashes the process.
    fix_action: Return an error instead.
`)
	write(filepath.Join("biotech", "x", "skill.yaml"), "name: X\n")
	write(filepath.Join("biotech", "x", "sharp-edges.yaml"), `
sharp_edges:
  - id: raw-todo
    summary: Unfinished TODO committed
    severity: high
    pattern: "TODO"
    solution: Resolve or ticket it before merging.
`)
	write(filepath.Join("go-backend", "sqlite", "skill.yaml"), `
description: Embedded sqlite without locking pain.
`)
	write(filepath.Join("go-backend", "sqlite", "sharp-edges.yaml"), `
sharp_edges:
  - id: busy-lock
    summary: Concurrent writers without busy_timeout
    severity: medium
    pattern: "sql\\.Open"
    solution: Set PRAGMA busy_timeout right after opening.
`)
	return root
}

func newTestIndex(t *testing.T) *skills.Index {
	t.Helper()
	return skills.NewIndex(skills.NewLoader(writeTestCatalog(t), nil))
}

// callReq builds a CallToolRequest with the given arguments.
func callReq(args map[string]any) mcp.CallToolRequest {
	req := mcp.CallToolRequest{}
	req.Params.Arguments = args
	return req
}

// resultText extracts the text content from a tool result.
func resultText(t *testing.T, r *mcp.CallToolResult) string {
	t.Helper()
	require.NotNil(t, r)
	for _, c := range r.Content {
		if tc, ok := c.(mcp.TextContent); ok {
			return tc.Text
		}
	}
	t.Fatal("tool result has no text content")
	return ""
}

func newTestMemory(t *testing.T) *memory.Store {
	t.Helper()
	return memory.NewStore(context.Background(), filepath.Join(t.TempDir(), "memory.json"))
}

func newTestRouter(t *testing.T) *advice.Router {
	t.Helper()
	return advice.NewRouter(newTestIndex(t))
}
