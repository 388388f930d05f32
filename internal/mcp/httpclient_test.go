package mcp

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/claude/repclock/internal/engine"
	"github.com/claude/repclock/internal/storage"
)

// newTestServer creates an httptest server that routes requests to handler
// functions keyed by path. Verifies the HTTP client sends correct paths and
// query params.
func newTestServer(t *testing.T, handlers map[string]http.HandlerFunc) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h, ok := handlers[r.URL.Path]
		if !ok {
			t.Errorf("unexpected request path: %s", r.URL.Path)
			http.NotFound(w, r)
			return
		}
		h(w, r)
	}))
}

func writeTestJSON(t *testing.T, w http.ResponseWriter, status int, v any) {
	t.Helper()
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		t.Fatal(err)
	}
}

// TestActiveSessionRunning verifies the client decodes a live session
// response.
func TestActiveSessionRunning(t *testing.T) {
	id := uuid.New()
	ts := newTestServer(t, map[string]http.HandlerFunc{
		"/api/v1/session": func(w http.ResponseWriter, r *http.Request) {
			writeTestJSON(t, w, http.StatusOK, engine.SessionSnapshot{
				ID:   id,
				Name: "Monday Workout",
			})
		},
	})
	defer ts.Close()

	client := NewHTTPClient(ts.URL, "")
	snap, err := client.ActiveSession(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if snap == nil {
		t.Fatal("snapshot = nil, want session")
	}
	if snap.ID != id || snap.Name != "Monday Workout" {
		t.Errorf("snapshot = %+v, want id %s and Monday Workout", snap, id)
	}
}

// TestActiveSessionNone verifies a 409 from the server maps to a nil
// snapshot rather than an error.
func TestActiveSessionNone(t *testing.T) {
	ts := newTestServer(t, map[string]http.HandlerFunc{
		"/api/v1/session": func(w http.ResponseWriter, r *http.Request) {
			writeTestJSON(t, w, http.StatusConflict, map[string]string{"error": "no active session"})
		},
	})
	defer ts.Close()

	client := NewHTTPClient(ts.URL, "")
	snap, err := client.ActiveSession(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if snap != nil {
		t.Errorf("snapshot = %+v, want nil", snap)
	}
}

// TestRestTimersDecode verifies the timer listing and most-relevant pointer
// are decoded from the wrapped response.
func TestRestTimersDecode(t *testing.T) {
	exID := uuid.New()
	ts := newTestServer(t, map[string]http.HandlerFunc{
		"/api/v1/timers": func(w http.ResponseWriter, r *http.Request) {
			writeTestJSON(t, w, http.StatusOK, map[string]any{
				"timers": []engine.TimerSnapshot{
					{ExerciseID: exID, ExerciseName: "Squats", TotalSeconds: 120, RemainingSeconds: 80},
				},
				"most_relevant": engine.TimerSnapshot{ExerciseID: exID, ExerciseName: "Squats"},
			})
		},
	})
	defer ts.Close()

	client := NewHTTPClient(ts.URL, "")
	timers, best, err := client.RestTimers(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(timers) != 1 || timers[0].RemainingSeconds != 80 {
		t.Errorf("timers = %+v, want one with 80s remaining", timers)
	}
	if best == nil || best.ExerciseID != exID {
		t.Errorf("most relevant = %+v, want exercise %s", best, exID)
	}
}

// TestStartRestSendsKey verifies the mutating call carries the API key and
// the request body.
func TestStartRestSendsKey(t *testing.T) {
	exID := uuid.New()
	ts := newTestServer(t, map[string]http.HandlerFunc{
		"/api/v1/session/exercises/" + exID.String() + "/rest": func(w http.ResponseWriter, r *http.Request) {
			if got := r.Header.Get("X-API-Key"); got != "secret" {
				t.Errorf("X-API-Key = %q, want secret", got)
			}
			var body struct {
				Seconds int `json:"seconds"`
			}
			if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
				t.Errorf("decode body: %v", err)
			}
			if body.Seconds != 120 {
				t.Errorf("seconds = %d, want 120", body.Seconds)
			}
			writeTestJSON(t, w, http.StatusCreated, engine.TimerSnapshot{
				ExerciseID:   exID,
				TotalSeconds: 120,
			})
		},
	})
	defer ts.Close()

	client := NewHTTPClient(ts.URL, "secret")
	snap, err := client.StartRest(context.Background(), exID, 120)
	if err != nil {
		t.Fatal(err)
	}
	if snap.TotalSeconds != 120 {
		t.Errorf("total = %d, want 120", snap.TotalSeconds)
	}
}

// TestSummariesParams verifies the time range is forwarded as RFC3339 query
// params and the wrapped list is unwrapped.
func TestSummariesParams(t *testing.T) {
	ts := newTestServer(t, map[string]http.HandlerFunc{
		"/api/v1/summaries": func(w http.ResponseWriter, r *http.Request) {
			if got := r.URL.Query().Get("start"); got == "" {
				t.Error("start param missing")
			}
			writeTestJSON(t, w, http.StatusOK, map[string]any{
				"summaries": []storage.SummaryRow{{Name: "Leg Day", TotalVolumeKg: 4200}},
			})
		},
	})
	defer ts.Close()

	client := NewHTTPClient(ts.URL, "")
	start := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2026, 8, 31, 0, 0, 0, 0, time.UTC)

	rows, err := client.Summaries(context.Background(), start, end)
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 1 || rows[0].TotalVolumeKg != 4200 {
		t.Errorf("rows = %+v, want one with tonnage 4200", rows)
	}
}

// TestSummaryDetailNotFound verifies a 404 maps to nil, nil.
func TestSummaryDetailNotFound(t *testing.T) {
	id := uuid.New()
	ts := newTestServer(t, map[string]http.HandlerFunc{
		"/api/v1/summaries/" + id.String(): func(w http.ResponseWriter, r *http.Request) {
			writeTestJSON(t, w, http.StatusNotFound, map[string]string{"error": "summary not found"})
		},
	})
	defer ts.Close()

	client := NewHTTPClient(ts.URL, "")
	detail, err := client.SummaryDetail(context.Background(), id)
	if err != nil {
		t.Fatal(err)
	}
	if detail != nil {
		t.Errorf("detail = %+v, want nil", detail)
	}
}

// TestVolumeStatsBucket verifies the bucket param is forwarded.
func TestVolumeStatsBucket(t *testing.T) {
	ts := newTestServer(t, map[string]http.HandlerFunc{
		"/api/v1/stats/volume": func(w http.ResponseWriter, r *http.Request) {
			if got := r.URL.Query().Get("bucket"); got != "month" {
				t.Errorf("bucket = %q, want month", got)
			}
			writeTestJSON(t, w, http.StatusOK, map[string]any{
				"periods": []storage.VolumePeriod{{Period: "2026-08", Sessions: 12}},
			})
		},
	})
	defer ts.Close()

	client := NewHTTPClient(ts.URL, "")
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)

	periods, err := client.VolumeStats(context.Background(), start, end, "month")
	if err != nil {
		t.Fatal(err)
	}
	if len(periods) != 1 || periods[0].Sessions != 12 {
		t.Errorf("periods = %+v, want one with 12 sessions", periods)
	}
}
