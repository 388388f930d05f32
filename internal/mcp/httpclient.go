package mcp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/claude/repclock/internal/engine"
	"github.com/claude/repclock/internal/storage"
)

// HTTPClient implements DataSource by calling the RepClock REST API.
// Used for remote MCP mode where the binary runs locally (stdio) but
// the engine and data live on the remote server.
type HTTPClient struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// Compile-time check: HTTPClient satisfies DataSource.
var _ DataSource = (*HTTPClient)(nil)

// NewHTTPClient creates an HTTPClient targeting the given base URL. The
// API key is only needed for mutating tools such as start_rest_timer.
func NewHTTPClient(baseURL, apiKey string) *HTTPClient {
	return &HTTPClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

func (c *HTTPClient) do(ctx context.Context, method, path string, params url.Values, body any) (int, []byte, error) {
	u := c.baseURL + path
	if len(params) > 0 {
		u += "?" + params.Encode()
	}

	var rd io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return 0, nil, fmt.Errorf("httpclient: encode body: %w", err)
		}
		rd = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, rd)
	if err != nil {
		return 0, nil, fmt.Errorf("httpclient: create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if method != http.MethodGet && c.apiKey != "" {
		req.Header.Set("X-API-Key", c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, nil, fmt.Errorf("httpclient: %s: %w", path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, nil, fmt.Errorf("httpclient: read body: %w", err)
	}
	return resp.StatusCode, data, nil
}

func (c *HTTPClient) get(ctx context.Context, path string, params url.Values) ([]byte, error) {
	status, data, err := c.do(ctx, http.MethodGet, path, params, nil)
	if err != nil {
		return nil, err
	}
	if status != http.StatusOK {
		return nil, fmt.Errorf("httpclient: %s returned %d: %s", path, status, data)
	}
	return data, nil
}

func timeParams(start, end time.Time) url.Values {
	v := url.Values{}
	v.Set("start", start.Format(time.RFC3339))
	v.Set("end", end.Format(time.RFC3339))
	return v
}

func (c *HTTPClient) ActiveSession(ctx context.Context) (*engine.SessionSnapshot, error) {
	status, data, err := c.do(ctx, http.MethodGet, "/api/v1/session", nil, nil)
	if err != nil {
		return nil, err
	}
	// The server answers 409 when no session is running.
	if status == http.StatusConflict {
		return nil, nil
	}
	if status != http.StatusOK {
		return nil, fmt.Errorf("httpclient: /api/v1/session returned %d: %s", status, data)
	}

	var snap engine.SessionSnapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("httpclient: decode session: %w", err)
	}
	return &snap, nil
}

func (c *HTTPClient) RestTimers(ctx context.Context) ([]engine.TimerSnapshot, *engine.TimerSnapshot, error) {
	data, err := c.get(ctx, "/api/v1/timers", nil)
	if err != nil {
		return nil, nil, err
	}

	var resp struct {
		Timers       []engine.TimerSnapshot `json:"timers"`
		MostRelevant *engine.TimerSnapshot  `json:"most_relevant"`
	}
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, nil, fmt.Errorf("httpclient: decode timers: %w", err)
	}
	return resp.Timers, resp.MostRelevant, nil
}

func (c *HTTPClient) StartRest(ctx context.Context, exerciseID uuid.UUID, seconds int) (engine.TimerSnapshot, error) {
	path := "/api/v1/session/exercises/" + exerciseID.String() + "/rest"
	status, data, err := c.do(ctx, http.MethodPost, path, nil, map[string]int{"seconds": seconds})
	if err != nil {
		return engine.TimerSnapshot{}, err
	}
	if status != http.StatusCreated {
		return engine.TimerSnapshot{}, fmt.Errorf("httpclient: %s returned %d: %s", path, status, data)
	}

	var snap engine.TimerSnapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return engine.TimerSnapshot{}, fmt.Errorf("httpclient: decode timer: %w", err)
	}
	return snap, nil
}

func (c *HTTPClient) Summaries(ctx context.Context, start, end time.Time) ([]storage.SummaryRow, error) {
	data, err := c.get(ctx, "/api/v1/summaries", timeParams(start, end))
	if err != nil {
		return nil, err
	}

	var resp struct {
		Summaries []storage.SummaryRow `json:"summaries"`
	}
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, fmt.Errorf("httpclient: decode summaries: %w", err)
	}
	return resp.Summaries, nil
}

func (c *HTTPClient) SummaryDetail(ctx context.Context, id uuid.UUID) (*storage.SummaryDetail, error) {
	path := "/api/v1/summaries/" + id.String()
	status, data, err := c.do(ctx, http.MethodGet, path, nil, nil)
	if err != nil {
		return nil, err
	}
	if status == http.StatusNotFound {
		return nil, nil
	}
	if status != http.StatusOK {
		return nil, fmt.Errorf("httpclient: %s returned %d: %s", path, status, data)
	}

	var detail storage.SummaryDetail
	if err := json.Unmarshal(data, &detail); err != nil {
		return nil, fmt.Errorf("httpclient: decode summary: %w", err)
	}
	return &detail, nil
}

func (c *HTTPClient) VolumeStats(ctx context.Context, start, end time.Time, bucket string) ([]storage.VolumePeriod, error) {
	params := timeParams(start, end)
	if bucket != "" {
		params.Set("bucket", bucket)
	}

	data, err := c.get(ctx, "/api/v1/stats/volume", params)
	if err != nil {
		return nil, err
	}

	var resp struct {
		Periods []storage.VolumePeriod `json:"periods"`
	}
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, fmt.Errorf("httpclient: decode volume stats: %w", err)
	}
	return resp.Periods, nil
}
