package tools

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/sensei-mcp/sensei/internal/rules"
)

// SharpEdgesTool handles the analyze_risk_sharp_edges MCP tool.
type SharpEdgesTool struct {
	engine *rules.Engine
}

// NewSharpEdgesTool creates a SharpEdgesTool over the sharp-edge engine.
func NewSharpEdgesTool(engine *rules.Engine) *SharpEdgesTool {
	return &SharpEdgesTool{engine: engine}
}

// Definition returns the MCP tool definition for registration.
func (t *SharpEdgesTool) Definition() mcp.Tool {
	return mcp.NewTool("analyze_risk_sharp_edges",
		mcp.WithDescription(
			"Scan code for known sharp edges: the pitfall patterns curated per skill. "+
				"Pass skill_id to restrict the scan to one skill's edges. "+
				"Omit code entirely to get the inventory of known edges instead of a scan.",
		),
		mcp.WithString("code",
			mcp.Description("The code to scan. When omitted, the tool lists the known sharp edges."),
		),
		mcp.WithString("skill_id",
			mcp.Description("Restrict to the sharp edges owned by this skill, e.g. 'crispr'."),
		),
	)
}

// Handle processes the analyze_risk_sharp_edges tool call.
func (t *SharpEdgesTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	code := req.GetString("code", "")
	skillID := req.GetString("skill_id", "")

	if code == "" {
		return t.inventory(ctx, skillID), nil
	}

	hits := t.engine.ApplyScoped(ctx, code, skillID)

	var b strings.Builder
	b.WriteString("# Sharp Edge Analysis\n\n")
	if skillID != "" {
		fmt.Fprintf(&b, "Scope: skill %q\n", skillID)
	}
	fmt.Fprintf(&b, "%d sharp edge(s) matched.\n\n", len(hits))

	if len(hits) == 0 {
		b.WriteString("No known sharp edges matched this code.\n")
		return mcp.NewToolResultText(b.String()), nil
	}

	for i, r := range hits {
		writeRuleHit(&b, i+1, r)
	}

	return mcp.NewToolResultText(b.String()), nil
}

// inventory lists the loaded sharp edges instead of scanning, used when no
// code was passed.
func (t *SharpEdgesTool) inventory(ctx context.Context, skillID string) *mcp.CallToolResult {
	edges := t.engine.Rules(ctx, skillID)

	if len(edges) == 0 {
		if skillID != "" {
			return mcp.NewToolResultText(fmt.Sprintf(
				"No sharp edges recorded for skill %q.", skillID,
			))
		}
		return mcp.NewToolResultText("No sharp edges recorded in the catalog.")
	}

	var b strings.Builder
	b.WriteString("# Known Sharp Edges\n\n")
	if skillID != "" {
		fmt.Fprintf(&b, "Scope: skill %q\n", skillID)
	}
	fmt.Fprintf(&b, "%d edge(s) on record. Pass code to scan against them.\n\n", len(edges))
	for _, r := range edges {
		writeRuleInventory(&b, r)
	}

	return mcp.NewToolResultText(b.String())
}
