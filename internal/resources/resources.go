// Package resources implements the MCP resource handlers.
//
// Resources provide read-only data that the host can consume for context.
// They use URI-based addressing (sensei://...) following MCP conventions.
package resources

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/pkg/errors"

	"github.com/sensei-mcp/sensei/internal/journal"
	"github.com/sensei-mcp/sensei/internal/rules"
	"github.com/sensei-mcp/sensei/internal/skills"
)

// Handler serves the catalog status and usage stats resources.
type Handler struct {
	index       *skills.Index
	validations *rules.Engine
	sharpEdges  *rules.Engine
	journal     *journal.Store // nil when the journal is disabled
}

// NewHandler creates a resource Handler with its dependencies. A nil
// journal is allowed and reported as unavailable.
func NewHandler(index *skills.Index, validations, sharpEdges *rules.Engine, jstore *journal.Store) *Handler {
	return &Handler{index: index, validations: validations, sharpEdges: sharpEdges, journal: jstore}
}

// catalogStatus is the payload served at sensei://catalog/status.
type catalogStatus struct {
	Skills          int      `json:"skills"`
	Categories      []string `json:"categories"`
	ValidationRules int      `json:"validation_rules"`
	SharpEdgeRules  int      `json:"sharp_edge_rules"`
	InertRules      int      `json:"inert_rules"`
	SkippedFiles    int      `json:"skipped_files"`
}

// CatalogStatusResource returns the resource definition for catalog status.
func (h *Handler) CatalogStatusResource() mcp.Resource {
	return mcp.NewResource(
		"sensei://catalog/status",
		"Skill Catalog Status",
		mcp.WithResourceDescription("Loaded skills, categories, rule counts, and load problems"),
		mcp.WithMIMEType("application/json"),
	)
}

// HandleCatalogStatus serves the catalog status as JSON. Reading it
// triggers the lazy catalog load like any tool call would.
func (h *Handler) HandleCatalogStatus(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	vReport := h.validations.Report(ctx)
	eReport := h.sharpEdges.Report(ctx)

	status := catalogStatus{
		Skills:          h.index.Count(ctx),
		Categories:      h.index.Categories(ctx),
		ValidationRules: vReport.Total,
		SharpEdgeRules:  eReport.Total,
		InertRules:      vReport.Inert + eReport.Inert,
		SkippedFiles:    len(h.index.Report(ctx).Skipped),
	}

	data, err := json.MarshalIndent(status, "", "  ")
	if err != nil {
		return nil, errors.Wrap(err, "marshaling catalog status")
	}

	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      req.Params.URI,
			MIMEType: "application/json",
			Text:     string(data),
		},
	}, nil
}

// UsageStatsResource returns the resource definition for usage stats.
func (h *Handler) UsageStatsResource() mcp.Resource {
	return mcp.NewResource(
		"sensei://usage/stats",
		"Tool Usage Stats",
		mcp.WithResourceDescription("Aggregated tool invocation counts from the usage journal"),
		mcp.WithMIMEType("application/json"),
	)
}

// HandleUsageStats serves the journal aggregates as JSON.
func (h *Handler) HandleUsageStats(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	if h.journal == nil {
		return errorResource(req.Params.URI, "usage journal is disabled"), nil
	}

	stats, err := h.journal.Stats(ctx)
	if err != nil {
		return errorResource(req.Params.URI, err.Error()), nil
	}

	data, err := json.MarshalIndent(stats, "", "  ")
	if err != nil {
		return nil, errors.Wrap(err, "marshaling usage stats")
	}

	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      req.Params.URI,
			MIMEType: "application/json",
			Text:     string(data),
		},
	}, nil
}

// errorResource returns a resource carrying an error message.
func errorResource(uri, message string) []mcp.ResourceContents {
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      uri,
			MIMEType: "text/plain",
			Text:     fmt.Sprintf("Error: %s", message),
		},
	}
}
