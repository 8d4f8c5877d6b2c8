// Package prompts implements the MCP prompt handlers.
//
// MCP prompts are user-triggered workflows (like slash commands) that
// instruct the AI to execute a specific sequence. Unlike tools (which
// the AI calls), prompts are initiated by the user.
package prompts

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
)

// StartPrompt handles the sensei-start MCP prompt.
// It guides the AI through the intended tool sequence for a fresh task.
type StartPrompt struct{}

// NewStartPrompt creates a StartPrompt.
func NewStartPrompt() *StartPrompt {
	return &StartPrompt{}
}

// Definition returns the MCP prompt definition for registration.
func (p *StartPrompt) Definition() mcp.Prompt {
	return mcp.NewPrompt("sensei-start",
		mcp.WithPromptDescription(
			"Start working on a task with expert guidance. "+
				"Walks through finding the relevant skill, consulting its patterns, "+
				"and recovering project memory before any code is written.",
		),
		mcp.WithArgument("task",
			mcp.ArgumentDescription("What you are about to work on, in a sentence"),
		),
	)
}

// Handle processes the sensei-start prompt request.
func (p *StartPrompt) Handle(ctx context.Context, req mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
	task := "my current task"
	if args := req.Params.Arguments; args != nil {
		if t, ok := args["task"]; ok && t != "" {
			task = t
		}
	}

	return &mcp.GetPromptResult{
		Description: fmt.Sprintf("Start with expert guidance: %s", task),
		Messages: []mcp.PromptMessage{
			{
				Role: mcp.RoleUser,
				Content: mcp.NewTextContent(fmt.Sprintf(
					"I'm about to start on: %s\n\n"+
						"Before writing any code, please:\n"+
						"1. Run `orchestrate_development_plan` with this task to get the recommended tool sequence\n"+
						"2. Run `access_project_memory` with action 'list' to recover decisions from earlier sessions\n"+
						"3. Run `find_expert_skill` with the key terms of the task\n"+
						"4. Run `consult_skill` on the best match and summarize its patterns and anti-patterns for me\n\n"+
						"Then propose an approach that follows those patterns. "+
						"If a step turns up nothing, say so and move on - do not invent guidance.",
					task,
				)),
			},
		},
	}, nil
}
