package prompts

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
)

// ReviewPrompt handles the sensei-review MCP prompt.
// It instructs the AI to run code through the rule engines before review.
type ReviewPrompt struct{}

// NewReviewPrompt creates a ReviewPrompt.
func NewReviewPrompt() *ReviewPrompt {
	return &ReviewPrompt{}
}

// Definition returns the MCP prompt definition for registration.
func (p *ReviewPrompt) Definition() mcp.Prompt {
	return mcp.NewPrompt("sensei-review",
		mcp.WithPromptDescription(
			"Pre-review checklist for code you just wrote or changed. "+
				"Runs the validation rules and the sharp-edge scan, then asks for "+
				"a severity-ordered summary of anything that matched.",
		),
		mcp.WithArgument("language",
			mcp.ArgumentDescription("Language of the code under review (e.g. 'go')"),
		),
	)
}

// Handle processes the sensei-review prompt request.
func (p *ReviewPrompt) Handle(ctx context.Context, req mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
	languageNote := ""
	if args := req.Params.Arguments; args != nil {
		if lang, ok := args["language"]; ok && lang != "" {
			languageNote = fmt.Sprintf(" Pass language='%s' so the report is labeled.", lang)
		}
	}

	return &mcp.GetPromptResult{
		Description: "Pre-review rule check",
		Messages: []mcp.PromptMessage{
			{
				Role: mcp.RoleUser,
				Content: mcp.NewTextContent(
					"Please review the code we just worked on:\n\n" +
						"1. Run `validate_code_implementation` with the changed code." + languageNote + "\n" +
						"2. Run `analyze_risk_sharp_edges` with the same code\n" +
						"3. Summarize every hit grouped by severity, critical first\n" +
						"4. For each hit, either propose the fix from the rule or explain why it does not apply here\n\n" +
						"A clean run only clears the known checks - finish with your own review of anything " +
						"the rules cannot see (naming, structure, missing tests).",
				),
			},
		},
	}, nil
}
