package tools

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/sensei-mcp/sensei/internal/skills"
)

// ListSkillsTool handles the list_available_skills MCP tool.
type ListSkillsTool struct {
	index *skills.Index
}

// NewListSkillsTool creates a ListSkillsTool backed by the given index.
func NewListSkillsTool(index *skills.Index) *ListSkillsTool {
	return &ListSkillsTool{index: index}
}

// Definition returns the MCP tool definition for registration.
func (t *ListSkillsTool) Definition() mcp.Tool {
	return mcp.NewTool("list_available_skills",
		mcp.WithDescription(
			"List every expert skill in the catalog with its id, name, category, and a short description. "+
				"Call this first to see which expertise areas exist, then use consult_skill with an id to go deep.",
		),
		mcp.WithString("category",
			mcp.Description("Only list skills in this category (exact match, e.g. 'biotech'). Omit for the full catalog."),
		),
	)
}

// Handle processes the list_available_skills tool call.
func (t *ListSkillsTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	category := req.GetString("category", "")

	summaries := t.index.List(ctx, category)
	if len(summaries) == 0 {
		if category != "" {
			return mcp.NewToolResultText(fmt.Sprintf(
				"No skills found in category %q. Call list_available_skills without a category to see everything.",
				category,
			)), nil
		}
		return mcp.NewToolResultText(
			"The skill catalog is empty. Check that the skills directory is configured and readable.",
		), nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "# Available Skills (%d)\n\n", len(summaries))
	writeSummaryList(&b, summaries)
	b.WriteString("\nUse `consult_skill` with an id for the full record.\n")

	return mcp.NewToolResultText(b.String()), nil
}
