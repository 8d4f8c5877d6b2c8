package tools

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/sensei-mcp/sensei/internal/skills"
)

// FindSkillTool handles the find_expert_skill MCP tool.
type FindSkillTool struct {
	index *skills.Index
}

// NewFindSkillTool creates a FindSkillTool backed by the given index.
func NewFindSkillTool(index *skills.Index) *FindSkillTool {
	return &FindSkillTool{index: index}
}

// Definition returns the MCP tool definition for registration.
func (t *FindSkillTool) Definition() mcp.Tool {
	return mcp.NewTool("find_expert_skill",
		mcp.WithDescription(
			"Search the skill catalog by keyword. The query is matched case-insensitively against "+
				"each skill's id, name, and description. Returns reduced records; follow up with "+
				"consult_skill for the full content.",
		),
		mcp.WithString("query",
			mcp.Required(),
			mcp.Description("Search term, e.g. 'crispr' or 'sqlite locking'."),
		),
	)
}

// Handle processes the find_expert_skill tool call.
func (t *FindSkillTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	query := req.GetString("query", "")
	if strings.TrimSpace(query) == "" {
		return mcp.NewToolResultError("'query' is required - pass a keyword to search for"), nil
	}

	hits := t.index.Search(ctx, query)
	if len(hits) == 0 {
		return mcp.NewToolResultText(fmt.Sprintf(
			"No skills match %q. Try a broader term, or call list_available_skills for the full catalog.",
			query,
		)), nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "# Skills matching %q (%d)\n\n", query, len(hits))
	writeSummaryList(&b, hits)

	return mcp.NewToolResultText(b.String()), nil
}
