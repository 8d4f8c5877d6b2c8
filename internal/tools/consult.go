package tools

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/sensei-mcp/sensei/internal/skills"
)

// ConsultTool handles the consult_skill MCP tool.
type ConsultTool struct {
	index *skills.Index
}

// NewConsultTool creates a ConsultTool backed by the given index.
func NewConsultTool(index *skills.Index) *ConsultTool {
	return &ConsultTool{index: index}
}

// Definition returns the MCP tool definition for registration.
func (t *ConsultTool) Definition() mcp.Tool {
	return mcp.NewTool("consult_skill",
		mcp.WithDescription(
			"Fetch the full record of one expert skill: identity, patterns, anti-patterns, and any "+
				"attached validations, sharp edges, and collaboration metadata. Read this before "+
				"writing code in the skill's area.",
		),
		mcp.WithString("id",
			mcp.Required(),
			mcp.Description("The skill id as shown by list_available_skills, e.g. 'crispr'."),
		),
	)
}

// Handle processes the consult_skill tool call.
func (t *ConsultTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id := req.GetString("id", "")
	if id == "" {
		return mcp.NewToolResultError("'id' is required - use list_available_skills to see valid ids"), nil
	}

	skill, ok := t.index.GetByID(ctx, id)
	if !ok {
		return mcp.NewToolResultError(fmt.Sprintf(
			"skill %q not found - use list_available_skills or find_expert_skill to locate the right id",
			id,
		)), nil
	}

	data, err := json.MarshalIndent(skill, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to serialize skill %q: %v", id, err)), nil
	}

	return mcp.NewToolResultText(string(data)), nil
}
