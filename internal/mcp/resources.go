package mcp

import (
	"context"
	"encoding/json"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
)

func (h *handlers) liveSession(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	snap, err := h.ds.ActiveSession(ctx)
	if err != nil {
		return nil, err
	}

	payload := map[string]any{"active": snap != nil}
	if snap != nil {
		payload["session"] = snap

		timers, best, err := h.ds.RestTimers(ctx)
		if err != nil {
			h.log.Warn("live_session: timer query failed", "error", err)
		} else {
			payload["timers"] = timers
			if best != nil {
				payload["most_relevant_timer"] = best
			}
		}
	}

	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      req.Params.URI,
			MIMEType: "application/json",
			Text:     string(data),
		},
	}, nil
}

func (h *handlers) recentWorkouts(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	end := time.Now()
	start := end.AddDate(0, 0, -14)

	rows, err := h.ds.Summaries(ctx, start, end)
	if err != nil {
		return nil, err
	}

	data, err := json.Marshal(rows)
	if err != nil {
		return nil, err
	}

	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      req.Params.URI,
			MIMEType: "application/json",
			Text:     string(data),
		},
	}, nil
}
