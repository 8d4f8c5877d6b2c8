package tools

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOrchestrateTool(t *testing.T) {
	tool := NewOrchestrateTool(newTestRouter(t))

	result, err := tool.Handle(context.Background(), callReq(map[string]any{
		"task": "fix the crash in the loader",
	}))
	require.NoError(t, err)
	require.False(t, result.IsError)

	text := resultText(t, result)
	assert.Contains(t, text, "# Development Plan")
	assert.Contains(t, text, "1. ")
	assert.Contains(t, text, "get_troubleshooting_advice")
}

func TestOrchestrateToolRequiresTask(t *testing.T) {
	tool := NewOrchestrateTool(newTestRouter(t))

	result, err := tool.Handle(context.Background(), callReq(map[string]any{"task": "   "}))
	require.NoError(t, err)
	assert.True(t, result.IsError)
	assert.Contains(t, resultText(t, result), "'task' is required")
}

func TestAdviceTool(t *testing.T) {
	tool := NewAdviceTool(newTestRouter(t))

	result, err := tool.Handle(context.Background(), callReq(map[string]any{
		"problem": "the server keeps panicking on startup",
	}))
	require.NoError(t, err)
	require.False(t, result.IsError)

	text := resultText(t, result)
	assert.Contains(t, text, "# Troubleshooting Advice")
	assert.Contains(t, text, "validate_code_implementation")
}

func TestAdviceToolFallback(t *testing.T) {
	tool := NewAdviceTool(newTestRouter(t))

	result, err := tool.Handle(context.Background(), callReq(map[string]any{
		"problem": "things feel off",
	}))
	require.NoError(t, err)
	assert.Contains(t, resultText(t, result), "No stored guidance matches")
}

func TestAdviceToolRequiresProblem(t *testing.T) {
	tool := NewAdviceTool(newTestRouter(t))

	result, err := tool.Handle(context.Background(), callReq(nil))
	require.NoError(t, err)
	assert.True(t, result.IsError)
	assert.Contains(t, resultText(t, result), "'problem' is required")
}
