package tools

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/sensei-mcp/sensei/internal/memory"
)

// MemoryTool handles the access_project_memory MCP tool.
type MemoryTool struct {
	store *memory.Store
}

// NewMemoryTool creates a MemoryTool over the given store.
func NewMemoryTool(store *memory.Store) *MemoryTool {
	return &MemoryTool{store: store}
}

// Definition returns the MCP tool definition for registration.
func (t *MemoryTool) Definition() mcp.Tool {
	return mcp.NewTool("access_project_memory",
		mcp.WithDescription(
			"Persistent key-value memory for this project. Store decisions, conventions, and context "+
				"that future sessions should know. Values survive restarts. "+
				"Actions: 'set' (requires key and value), 'get' (requires key), 'list'.",
		),
		mcp.WithString("action",
			mcp.Required(),
			mcp.Description("One of: set, get, list."),
		),
		mcp.WithString("key",
			mcp.Description("Memory key, e.g. 'db-choice'. Required for set and get."),
		),
		mcp.WithString("value",
			mcp.Description("Value to store. Required for set; overwrites any previous value."),
		),
	)
}

// Handle processes the access_project_memory tool call.
func (t *MemoryTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	action := strings.ToLower(req.GetString("action", ""))
	key := req.GetString("key", "")
	value := req.GetString("value", "")

	switch action {
	case "set":
		return t.set(ctx, key, value), nil
	case "get":
		return t.get(key), nil
	case "list":
		return t.list(), nil
	case "":
		return mcp.NewToolResultError("'action' is required - one of: set, get, list"), nil
	default:
		return mcp.NewToolResultError(fmt.Sprintf("unknown action %q - one of: set, get, list", action)), nil
	}
}

func (t *MemoryTool) set(ctx context.Context, key, value string) *mcp.CallToolResult {
	if key == "" {
		return mcp.NewToolResultError("'key' is required for action 'set'")
	}
	if value == "" {
		return mcp.NewToolResultError("'value' is required for action 'set'")
	}

	entry, err := t.store.Set(ctx, key, value)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf(
			"failed to persist memory: %v. The value is held for this run but will not survive a restart.",
			err,
		))
	}

	return mcp.NewToolResultText(fmt.Sprintf("Remembered %q.\nStored: %s", key, entry.Timestamp))
}

func (t *MemoryTool) get(key string) *mcp.CallToolResult {
	if key == "" {
		return mcp.NewToolResultError("'key' is required for action 'get'")
	}

	entry, ok := t.store.Get(key)
	if !ok {
		return mcp.NewToolResultError(fmt.Sprintf(
			"no memory stored under %q - use action 'list' to see every key", key,
		))
	}

	return mcp.NewToolResultText(fmt.Sprintf("# %s\n\n%s\n\nStored: %s", entry.Key, entry.Value, entry.Timestamp))
}

func (t *MemoryTool) list() *mcp.CallToolResult {
	entries := t.store.List()
	if len(entries) == 0 {
		return mcp.NewToolResultText("Project memory is empty. Store decisions with action 'set'.")
	}

	var b strings.Builder
	fmt.Fprintf(&b, "# Project Memory (%d)\n\n", len(entries))
	for _, e := range entries {
		fmt.Fprintf(&b, "- **%s** (%s): %s\n", e.Key, e.Timestamp, e.Value)
	}

	return mcp.NewToolResultText(b.String())
}
