package tools

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/sensei-mcp/sensei/internal/rules"
)

// ValidateTool handles the validate_code_implementation MCP tool.
type ValidateTool struct {
	engine *rules.Engine
}

// NewValidateTool creates a ValidateTool over the validation rule engine.
func NewValidateTool(engine *rules.Engine) *ValidateTool {
	return &ValidateTool{engine: engine}
}

// Definition returns the MCP tool definition for registration.
func (t *ValidateTool) Definition() mcp.Tool {
	return mcp.NewTool("validate_code_implementation",
		mcp.WithDescription(
			"Check code against every validation rule in the catalog. Rules are regex checks curated "+
				"per skill; matches come back in rule order with severity, message, and fix. "+
				"A clean report clears the known checks, it is not a full review.",
		),
		mcp.WithString("code",
			mcp.Required(),
			mcp.Description("The code to check, as plain text."),
		),
		mcp.WithString("language",
			mcp.Description("Language of the code, echoed into the report header (e.g. 'go')."),
		),
		mcp.WithString("context",
			mcp.Description("What this code is for, echoed into the report header."),
		),
	)
}

// Handle processes the validate_code_implementation tool call.
func (t *ValidateTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	code := req.GetString("code", "")
	if code == "" {
		return mcp.NewToolResultError("'code' is required - pass the implementation you want checked"), nil
	}

	hits := t.engine.Apply(ctx, code)
	total := t.engine.Report(ctx).Total

	var b strings.Builder
	b.WriteString("# Validation Report\n\n")
	if language := req.GetString("language", ""); language != "" {
		fmt.Fprintf(&b, "Language: %s\n", language)
	}
	if note := req.GetString("context", ""); note != "" {
		fmt.Fprintf(&b, "Context: %s\n", note)
	}
	fmt.Fprintf(&b, "%d of %d rules matched.\n\n", len(hits), total)

	if len(hits) == 0 {
		b.WriteString("No validation rules matched.\n")
		return mcp.NewToolResultText(b.String()), nil
	}

	for i, r := range hits {
		writeRuleHit(&b, i+1, r)
	}

	return mcp.NewToolResultText(b.String()), nil
}
