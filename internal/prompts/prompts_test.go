package prompts

import (
	"context"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func promptReq(args map[string]string) mcp.GetPromptRequest {
	req := mcp.GetPromptRequest{}
	req.Params.Arguments = args
	return req
}

func messageText(t *testing.T, result *mcp.GetPromptResult) string {
	t.Helper()
	require.NotEmpty(t, result.Messages)
	content, ok := result.Messages[0].Content.(mcp.TextContent)
	require.True(t, ok, "prompt message carries text content")
	return content.Text
}

func TestStartPrompt(t *testing.T) {
	p := NewStartPrompt()

	assert.Equal(t, "sensei-start", p.Definition().Name)

	result, err := p.Handle(context.Background(), promptReq(map[string]string{
		"task": "add retry logic to the fetcher",
	}))
	require.NoError(t, err)

	text := messageText(t, result)
	assert.Contains(t, text, "add retry logic to the fetcher")
	assert.Contains(t, text, "orchestrate_development_plan")
	assert.Contains(t, text, "access_project_memory")
	assert.Contains(t, text, "consult_skill")
}

func TestStartPromptDefaultTask(t *testing.T) {
	p := NewStartPrompt()

	result, err := p.Handle(context.Background(), promptReq(nil))
	require.NoError(t, err)
	assert.Contains(t, messageText(t, result), "my current task")
}

func TestReviewPrompt(t *testing.T) {
	p := NewReviewPrompt()

	assert.Equal(t, "sensei-review", p.Definition().Name)

	result, err := p.Handle(context.Background(), promptReq(map[string]string{
		"language": "go",
	}))
	require.NoError(t, err)

	text := messageText(t, result)
	assert.Contains(t, text, "validate_code_implementation")
	assert.Contains(t, text, "analyze_risk_sharp_edges")
	assert.Contains(t, text, "language='go'")
}

func TestReviewPromptWithoutLanguage(t *testing.T) {
	p := NewReviewPrompt()

	result, err := p.Handle(context.Background(), promptReq(nil))
	require.NoError(t, err)
	assert.NotContains(t, messageText(t, result), "language=")
}
