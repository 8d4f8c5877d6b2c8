package tools

import (
	"context"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/sensei-mcp/sensei/internal/advice"
)

// OrchestrateTool handles the orchestrate_development_plan MCP tool.
type OrchestrateTool struct {
	router *advice.Router
}

// NewOrchestrateTool creates an OrchestrateTool over the given router.
func NewOrchestrateTool(router *advice.Router) *OrchestrateTool {
	return &OrchestrateTool{router: router}
}

// Definition returns the MCP tool definition for registration.
func (t *OrchestrateTool) Definition() mcp.Tool {
	return mcp.NewTool("orchestrate_development_plan",
		mcp.WithDescription(
			"Turn a task description into a numbered plan of tool calls: which skills to consult, "+
				"which checks to run, and in what order. Use it at the start of non-trivial work.",
		),
		mcp.WithString("task",
			mcp.Required(),
			mcp.Description("What you are about to build or change, e.g. 'add guide RNA scoring'."),
		),
	)
}

// Handle processes the orchestrate_development_plan tool call.
func (t *OrchestrateTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	task := req.GetString("task", "")
	if strings.TrimSpace(task) == "" {
		return mcp.NewToolResultError("'task' is required - describe the work you are planning"), nil
	}

	return mcp.NewToolResultText(t.router.Plan(ctx, task)), nil
}
