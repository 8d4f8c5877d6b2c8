package tools

import (
	"context"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/sensei-mcp/sensei/internal/advice"
)

// AdviceTool handles the get_troubleshooting_advice MCP tool.
type AdviceTool struct {
	router *advice.Router
}

// NewAdviceTool creates an AdviceTool over the given router.
func NewAdviceTool(router *advice.Router) *AdviceTool {
	return &AdviceTool{router: router}
}

// Definition returns the MCP tool definition for registration.
func (t *AdviceTool) Definition() mcp.Tool {
	return mcp.NewTool("get_troubleshooting_advice",
		mcp.WithDescription(
			"Describe a problem in plain words and get pointed at the right next tool: which check to "+
				"run, which skill to consult, where the known pitfalls are recorded.",
		),
		mcp.WithString("problem",
			mcp.Required(),
			mcp.Description("The problem you are stuck on, e.g. 'tests are flaky on CI'."),
		),
	)
}

// Handle processes the get_troubleshooting_advice tool call.
func (t *AdviceTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	problem := req.GetString("problem", "")
	if strings.TrimSpace(problem) == "" {
		return mcp.NewToolResultError("'problem' is required - describe what you are stuck on"), nil
	}

	return mcp.NewToolResultText(t.router.Troubleshoot(ctx, problem)), nil
}
