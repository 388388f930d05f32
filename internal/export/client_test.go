package export

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"
)

// TestFetchSummaries verifies the listing response wrapper is unwrapped and
// the time range is forwarded.
func TestFetchSummaries(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/v1/summaries" {
			t.Errorf("path = %s, want /api/v1/summaries", r.URL.Path)
		}
		if r.URL.Query().Get("start") == "" {
			t.Error("start param missing")
		}
		json.NewEncoder(w).Encode(map[string]any{
			"summaries": []SummaryRecord{
				{ID: "w1", Name: "Leg Day", TotalVolumeKg: 3100},
			},
		})
	}))
	defer ts.Close()

	client := NewClient(ts.URL)
	start := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2026, 8, 31, 0, 0, 0, 0, time.UTC)

	rows, err := client.FetchSummaries(start, end)
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 1 || rows[0].ID != "w1" {
		t.Errorf("rows = %+v, want one with id w1", rows)
	}
}

// TestFetchWorkout verifies the detail response decodes with nested
// exercises and sets.
func TestFetchWorkout(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/v1/summaries/w1" {
			t.Errorf("path = %s, want /api/v1/summaries/w1", r.URL.Path)
		}
		json.NewEncoder(w).Encode(testWorkout("w1"))
	}))
	defer ts.Close()

	client := NewClient(ts.URL)
	rec, err := client.FetchWorkout("w1")
	if err != nil {
		t.Fatal(err)
	}
	if len(rec.Exercises) != 2 {
		t.Fatalf("exercises = %d, want 2", len(rec.Exercises))
	}
	if len(rec.Exercises[0].Sets) != 2 || rec.Exercises[0].Sets[1].WeightKg != 100 {
		t.Errorf("sets = %+v, want second set at 100kg", rec.Exercises[0].Sets)
	}
}

// TestFetchRetriesOnFailure verifies a transient server error is retried
// and the second attempt succeeds.
func TestFetchRetriesOnFailure(t *testing.T) {
	var calls atomic.Int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			http.Error(w, "temporary", http.StatusInternalServerError)
			return
		}
		json.NewEncoder(w).Encode(map[string]any{"summaries": []SummaryRecord{}})
	}))
	defer ts.Close()

	client := NewClient(ts.URL)
	_, err := client.FetchSummaries(time.Now().AddDate(0, 0, -7), time.Now())
	if err != nil {
		t.Fatalf("expected retry to succeed: %v", err)
	}
	if got := calls.Load(); got != 2 {
		t.Errorf("attempts = %d, want 2", got)
	}
}
