package export

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

// SummaryRecord mirrors the server's summary listing row without importing
// the storage package (which would pull in pgx and other server-side
// dependencies).
type SummaryRecord struct {
	ID              string    `json:"id"`
	Name            string    `json:"name"`
	Date            time.Time `json:"date"`
	DurationMinutes float64   `json:"duration_minutes"`
	TotalVolumeKg   float64   `json:"total_volume_kg"`
	TotalCalories   float64   `json:"total_calories"`
	Status          string    `json:"status"`
}

// SetRecord is one set of an exported workout.
type SetRecord struct {
	SetNumber int     `json:"set_number"`
	SetType   string  `json:"set_type"`
	WeightKg  float64 `json:"weight_kg"`
	Reps      int     `json:"reps"`
	Completed bool    `json:"completed"`
}

// ExerciseRecord is one exercise of an exported workout with its sets.
type ExerciseRecord struct {
	Name     string      `json:"name"`
	Calories float64     `json:"calories"`
	Sets     []SetRecord `json:"sets"`
}

// WorkoutRecord is a full exported workout.
type WorkoutRecord struct {
	SummaryRecord
	Exercises []ExerciseRecord `json:"exercises"`
}

// Client fetches workout summaries from the RepClock server over HTTP.
type Client struct {
	serverURL  string
	httpClient *http.Client
}

// NewClient creates a new HTTP client for the RepClock server.
func NewClient(serverURL string) *Client {
	return &Client{
		serverURL: serverURL,
		httpClient: &http.Client{
			Timeout: 60 * time.Second,
		},
	}
}

// getJSON issues a GET with up to 3 attempts and exponential backoff,
// decoding the response body into out.
func (c *Client) getJSON(path string, params url.Values, out any) error {
	u := c.serverURL + path
	if len(params) > 0 {
		u += "?" + params.Encode()
	}

	var lastErr error
	for attempt := range 3 {
		if attempt > 0 {
			time.Sleep(time.Duration(1<<uint(attempt-1)) * time.Second)
		}

		resp, err := c.httpClient.Get(u)
		if err != nil {
			lastErr = err
			continue
		}

		body, _ := io.ReadAll(resp.Body)
		resp.Body.Close()

		if resp.StatusCode == http.StatusOK {
			if err := json.Unmarshal(body, out); err != nil {
				return fmt.Errorf("decoding %s: %w", path, err)
			}
			return nil
		}
		lastErr = fmt.Errorf("%s failed (status %d): %s", path, resp.StatusCode, body)
	}

	return fmt.Errorf("after 3 attempts: %w", lastErr)
}

// FetchSummaries retrieves summary headers for a time range.
func (c *Client) FetchSummaries(start, end time.Time) ([]SummaryRecord, error) {
	params := url.Values{}
	params.Set("start", start.Format(time.RFC3339))
	params.Set("end", end.Format(time.RFC3339))

	var resp struct {
		Summaries []SummaryRecord `json:"summaries"`
	}
	if err := c.getJSON("/api/v1/summaries", params, &resp); err != nil {
		return nil, fmt.Errorf("fetching summaries: %w", err)
	}
	return resp.Summaries, nil
}

// FetchWorkout retrieves one workout with all exercises and sets.
func (c *Client) FetchWorkout(id string) (*WorkoutRecord, error) {
	var rec WorkoutRecord
	if err := c.getJSON("/api/v1/summaries/"+id, nil, &rec); err != nil {
		return nil, fmt.Errorf("fetching workout %s: %w", id, err)
	}
	return &rec, nil
}
