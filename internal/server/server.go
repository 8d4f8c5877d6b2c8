// Package server wires all MCP components and creates the server instance.
//
// This is the composition root: it builds the stores, engines, and session
// registry and injects them into the tools/prompts/resources that depend on
// them. No business logic lives here - only wiring.
package server

import (
	"context"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/sensei-mcp/sensei/internal/advice"
	"github.com/sensei-mcp/sensei/internal/config"
	"github.com/sensei-mcp/sensei/internal/journal"
	"github.com/sensei-mcp/sensei/internal/logger"
	"github.com/sensei-mcp/sensei/internal/memory"
	"github.com/sensei-mcp/sensei/internal/prompts"
	"github.com/sensei-mcp/sensei/internal/resources"
	"github.com/sensei-mcp/sensei/internal/rules"
	"github.com/sensei-mcp/sensei/internal/session"
	"github.com/sensei-mcp/sensei/internal/skills"
	"github.com/sensei-mcp/sensei/internal/tools"
)

// Version is set at build time via ldflags.
var Version = "dev"

// New creates and configures the MCP server with all tools, prompts, and
// resources registered. This is the single place where dependencies are
// resolved.
//
// The catalog and rule engines are constructed here but stay unloaded until
// the first call touches them. The returned cleanup function stops the
// session sweeper and closes the usage journal; it is always non-nil and
// safe to call even when parts of the setup degraded.
func New(ctx context.Context, cfg *config.Config) (*server.MCPServer, func(), error) {
	log := logger.G(ctx)

	// --- Shared read-only services (lazy) ---

	index := skills.NewIndex(skills.NewLoader(cfg.SkillsDir, cfg.Ignore))
	validations := rules.NewValidationEngine(cfg.SkillsDir, cfg.Ignore)
	sharpEdges := rules.NewSharpEdgeEngine(cfg.SkillsDir, cfg.Ignore)
	router := advice.NewRouter(index)

	// --- Mutable state ---

	memStore := memory.NewStore(ctx, cfg.MemoryFile)

	// The journal is bookkeeping: when it cannot open, the server runs
	// without it and the stats resource reports unavailable.
	jstore, err := journal.Open(ctx, cfg.JournalFile)
	if err != nil {
		log.WithError(err).Warn("usage journal disabled")
		jstore = nil
	}

	// --- Session registry ---

	sessions := session.NewManager(cfg.SessionIdleTimeout, cfg.SessionSweepInterval)
	sessions.Start(ctx)

	cleanup := func() {
		sessions.Stop()
		if jstore != nil {
			if err := jstore.Close(); err != nil {
				log.WithError(err).Warn("closing usage journal")
			}
		}
	}

	// --- Create the MCP server ---

	hooks := &server.Hooks{}
	hooks.AddOnRegisterSession(func(ctx context.Context, cs server.ClientSession) {
		sessions.Track(cs.SessionID())
		logger.G(ctx).WithField("session", cs.SessionID()).Debug("session registered")
	})
	hooks.AddOnUnregisterSession(func(ctx context.Context, cs server.ClientSession) {
		sessions.Close(cs.SessionID())
		logger.G(ctx).WithField("session", cs.SessionID()).Debug("session closed")
	})

	s := server.NewMCPServer(
		"sensei",
		Version,
		server.WithToolCapabilities(true),
		server.WithResourceCapabilities(false, true),
		server.WithPromptCapabilities(true),
		server.WithRecovery(),
		server.WithHooks(hooks),
		server.WithToolHandlerMiddleware(trackSessions(sessions, jstore)),
		server.WithInstructions(serverInstructions()),
	)

	// --- Register tools ---

	listTool := tools.NewListSkillsTool(index)
	s.AddTool(listTool.Definition(), listTool.Handle)

	findTool := tools.NewFindSkillTool(index)
	s.AddTool(findTool.Definition(), findTool.Handle)

	consultTool := tools.NewConsultTool(index)
	s.AddTool(consultTool.Definition(), consultTool.Handle)

	validateTool := tools.NewValidateTool(validations)
	s.AddTool(validateTool.Definition(), validateTool.Handle)

	edgesTool := tools.NewSharpEdgesTool(sharpEdges)
	s.AddTool(edgesTool.Definition(), edgesTool.Handle)

	memoryTool := tools.NewMemoryTool(memStore)
	s.AddTool(memoryTool.Definition(), memoryTool.Handle)

	adviceTool := tools.NewAdviceTool(router)
	s.AddTool(adviceTool.Definition(), adviceTool.Handle)

	orchestrateTool := tools.NewOrchestrateTool(router)
	s.AddTool(orchestrateTool.Definition(), orchestrateTool.Handle)

	// --- Register prompts ---

	startPrompt := prompts.NewStartPrompt()
	s.AddPrompt(startPrompt.Definition(), startPrompt.Handle)

	reviewPrompt := prompts.NewReviewPrompt()
	s.AddPrompt(reviewPrompt.Definition(), reviewPrompt.Handle)

	// --- Register resources ---

	resourceHandler := resources.NewHandler(index, validations, sharpEdges, jstore)
	s.AddResource(resourceHandler.CatalogStatusResource(), resourceHandler.HandleCatalogStatus)
	s.AddResource(resourceHandler.UsageStatsResource(), resourceHandler.HandleUsageStats)

	return s, cleanup, nil
}

// trackSessions is the tool middleware: every call is attached to its
// session, serialized against other calls on the same session, and recorded
// to the journal. Transports that carry no session id land on the manager's
// process-wide fallback session.
func trackSessions(sessions *session.Manager, jstore *journal.Store) server.ToolHandlerMiddleware {
	return func(next server.ToolHandlerFunc) server.ToolHandlerFunc {
		return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			var id string
			if cs := server.ClientSessionFromContext(ctx); cs != nil {
				id = cs.SessionID()
			}
			sess, _ := sessions.Track(id)

			sess.Lock()
			defer sess.Unlock()

			start := time.Now()
			result, err := next(ctx, req)

			if jstore != nil {
				inv := journal.Invocation{
					SessionID:  sess.ID,
					Tool:       req.Params.Name,
					IsError:    err != nil || (result != nil && result.IsError),
					DurationMS: time.Since(start).Milliseconds(),
				}
				// Best-effort: a journal failure never fails the call.
				if jerr := jstore.Record(ctx, inv); jerr != nil {
					logger.G(ctx).WithError(jerr).Debug("recording invocation failed")
				}
			}

			return result, err
		}
	}
}

// serverInstructions returns the system instructions that tell the AI how
// to use sensei effectively.
func serverInstructions() string {
	return `You have access to sensei, an expert-skill knowledge server.

## What sensei knows
A curated catalog of "skills": per-domain expert guidance with proven
patterns, anti-patterns, regex validation rules, and documented pitfalls
("sharp edges"). It also keeps a persistent project memory that survives
between sessions.

## Core workflow
1. list_available_skills / find_expert_skill - discover what expertise
   exists for the area you are working in
2. consult_skill - read the full skill BEFORE writing code in its area;
   follow its patterns, avoid its anti-patterns
3. validate_code_implementation - after writing code, check it against the
   catalog's validation rules
4. analyze_risk_sharp_edges - scan code for known pitfalls; pass skill_id
   to focus on one skill's edges, or omit code to see the list of known
   edges up front
5. access_project_memory - record decisions (action 'set') and recover
   context from earlier sessions (action 'list' / 'get')

## When you are unsure what to do
- orchestrate_development_plan turns a task description into a numbered
  tool sequence - use it at the start of non-trivial work
- get_troubleshooting_advice points a problem description at the right
  next tool

## Rules of use
- Consult the relevant skill before writing code, not after
- Validation hits are ordered by rule, not severity - triage critical and
  high severity findings first
- A clean validation run clears the known checks only; it is not a review
- Store decisions in project memory proactively: what was chosen, why, and
  where. Future sessions only know what you record
- Not-found results (unknown skill id, missing memory key) are normal
  outcomes - pick a different id or key and continue`
}
