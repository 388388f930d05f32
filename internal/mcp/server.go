package mcp

import (
	"log/slog"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// New creates an MCP server with all tools and resources registered.
func New(ds DataSource, version string, log *slog.Logger) *server.MCPServer {
	s := server.NewMCPServer("RepClock", version,
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
		server.WithInstructions("RepClock workout session server. Inspect the live session and rest timers, start rest countdowns, and query finished workout summaries and training volume."),
	)

	h := &handlers{ds: ds, log: log}

	// Tools
	s.AddTools(
		server.ServerTool{Tool: toolGetActiveSession, Handler: h.getActiveSession},
		server.ServerTool{Tool: toolGetRestTimers, Handler: h.getRestTimers},
		server.ServerTool{Tool: toolStartRestTimer, Handler: h.startRestTimer},
		server.ServerTool{Tool: toolGetWorkoutSummaries, Handler: h.getWorkoutSummaries},
		server.ServerTool{Tool: toolGetWorkoutDetail, Handler: h.getWorkoutDetail},
		server.ServerTool{Tool: toolGetVolumeStats, Handler: h.getVolumeStats},
	)

	// Resources
	s.AddResources(
		server.ServerResource{Resource: resLiveSession, Handler: h.liveSession},
		server.ServerResource{Resource: resRecentWorkouts, Handler: h.recentWorkouts},
	)

	return s
}

// handlers holds dependencies for MCP tool/resource handlers.
type handlers struct {
	ds  DataSource
	log *slog.Logger
}

// --- Resource definitions ---

var resLiveSession = mcp.NewResource(
	"repclock://live_session",
	"Live Session",
	mcp.WithResourceDescription("The active workout session with its exercises, sets, running total volume, and all rest timers"),
	mcp.WithMIMEType("application/json"),
)

var resRecentWorkouts = mcp.NewResource(
	"repclock://recent_workouts",
	"Recent Workouts",
	mcp.WithResourceDescription("Workout summaries from the last 14 days"),
	mcp.WithMIMEType("application/json"),
)
