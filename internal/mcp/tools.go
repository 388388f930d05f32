package mcp

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/mark3labs/mcp-go/mcp"
)

// defaultTimeRange returns start/end defaulting to the last 30 days.
func defaultTimeRange(startStr, endStr string) (time.Time, time.Time, error) {
	var start, end time.Time
	var err error

	if endStr != "" {
		end, err = parseFlexTime(endStr)
		if err != nil {
			return time.Time{}, time.Time{}, err
		}
	} else {
		end = time.Now()
	}

	if startStr != "" {
		start, err = parseFlexTime(startStr)
		if err != nil {
			return time.Time{}, time.Time{}, err
		}
	} else {
		start = end.AddDate(0, 0, -30)
	}

	return start, end, nil
}

func parseFlexTime(s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339, s)
	if err == nil {
		return t, nil
	}
	t, err = time.Parse("2006-01-02", s)
	if err == nil {
		return t, nil
	}
	return time.Time{}, err
}

// --- Tool definitions ---

var toolGetActiveSession = mcp.NewTool("get_active_session",
	mcp.WithDescription("Get the workout session currently in progress: exercises, sets, elapsed time, and running total volume. Returns active=false when nothing is running."),
)

var toolGetRestTimers = mcp.NewTool("get_rest_timers",
	mcp.WithDescription("List all rest timers for the active session, including the most relevant one (the most recently started timer that is still counting down)."),
)

var toolStartRestTimer = mcp.NewTool("start_rest_timer",
	mcp.WithDescription("Start (or restart) a rest countdown for an exercise in the active session. A running timer for the same exercise is replaced."),
	mcp.WithString("exercise_id", mcp.Required(), mcp.Description("UUID of the exercise, as returned by get_active_session")),
	mcp.WithNumber("seconds", mcp.Description("Countdown length in seconds. Defaults to the server's configured rest duration.")),
)

var toolGetWorkoutSummaries = mcp.NewTool("get_workout_summaries",
	mcp.WithDescription("Query finished workout summaries: name, date, duration, total volume, and estimated calories per session."),
	mcp.WithString("start", mcp.Description("Start date (ISO 8601 or YYYY-MM-DD). Defaults to 30 days ago.")),
	mcp.WithString("end", mcp.Description("End date (ISO 8601 or YYYY-MM-DD). Defaults to now.")),
)

var toolGetWorkoutDetail = mcp.NewTool("get_workout_detail",
	mcp.WithDescription("Get one finished workout with every exercise and set: weight, reps, set type, completion, and per-exercise calories."),
	mcp.WithString("id", mcp.Required(), mcp.Description("UUID of the workout summary, as returned by get_workout_summaries")),
)

var toolGetVolumeStats = mcp.NewTool("get_volume_stats",
	mcp.WithDescription("Aggregated training volume per period: sessions, completed sets, total reps, tonnage, and calories."),
	mcp.WithString("start", mcp.Description("Start date. Defaults to 30 days ago.")),
	mcp.WithString("end", mcp.Description("End date. Defaults to now.")),
	mcp.WithString("bucket", mcp.Description("Aggregation period. Defaults to 'week'."), mcp.Enum("day", "week", "month")),
)

// --- Tool handlers ---

func (h *handlers) getActiveSession(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	snap, err := h.ds.ActiveSession(ctx)
	if err != nil {
		h.log.Error("mcp get_active_session", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}
	if snap == nil {
		result, err := mcp.NewToolResultJSON(map[string]any{"active": false})
		if err != nil {
			return mcp.NewToolResultError("serialization failed"), nil
		}
		return result, nil
	}

	result, err := mcp.NewToolResultJSON(map[string]any{"active": true, "session": snap})
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) getRestTimers(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	timers, best, err := h.ds.RestTimers(ctx)
	if err != nil {
		h.log.Error("mcp get_rest_timers", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}

	payload := map[string]any{"timers": timers}
	if best != nil {
		payload["most_relevant"] = best
	}

	result, err := mcp.NewToolResultJSON(payload)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) startRestTimer(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	idStr, err := req.RequireString("exercise_id")
	if err != nil {
		return mcp.NewToolResultError("exercise_id parameter is required"), nil
	}
	id, err := uuid.Parse(idStr)
	if err != nil {
		return mcp.NewToolResultError("invalid exercise_id: " + err.Error()), nil
	}

	seconds := req.GetInt("seconds", 0)
	if seconds < 0 {
		return mcp.NewToolResultError("seconds must not be negative"), nil
	}

	snap, err := h.ds.StartRest(ctx, id, seconds)
	if err != nil {
		h.log.Error("mcp start_rest_timer", "error", err)
		return mcp.NewToolResultError("start failed: " + err.Error()), nil
	}

	result, err := mcp.NewToolResultJSON(snap)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) getWorkoutSummaries(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	start, end, err := defaultTimeRange(req.GetString("start", ""), req.GetString("end", ""))
	if err != nil {
		return mcp.NewToolResultError("invalid date format: " + err.Error()), nil
	}

	rows, err := h.ds.Summaries(ctx, start, end)
	if err != nil {
		h.log.Error("mcp get_workout_summaries", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}

	result, err := mcp.NewToolResultJSON(rows)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) getWorkoutDetail(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	idStr, err := req.RequireString("id")
	if err != nil {
		return mcp.NewToolResultError("id parameter is required"), nil
	}
	id, err := uuid.Parse(idStr)
	if err != nil {
		return mcp.NewToolResultError("invalid id: " + err.Error()), nil
	}

	detail, err := h.ds.SummaryDetail(ctx, id)
	if err != nil {
		h.log.Error("mcp get_workout_detail", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}
	if detail == nil {
		return mcp.NewToolResultError("workout not found"), nil
	}

	result, err := mcp.NewToolResultJSON(detail)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) getVolumeStats(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	start, end, err := defaultTimeRange(req.GetString("start", ""), req.GetString("end", ""))
	if err != nil {
		return mcp.NewToolResultError("invalid date format: " + err.Error()), nil
	}
	bucket := req.GetString("bucket", "week")

	periods, err := h.ds.VolumeStats(ctx, start, end, bucket)
	if err != nil {
		h.log.Error("mcp get_volume_stats", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}

	result, err := mcp.NewToolResultJSON(periods)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}
