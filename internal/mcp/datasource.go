package mcp

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/claude/repclock/internal/engine"
	"github.com/claude/repclock/internal/storage"
)

// DataSource abstracts the data layer for MCP tools. LocalSource (in-process
// engine + database) and HTTPClient (remote via REST API) both satisfy it.
type DataSource interface {
	// ActiveSession returns nil when no session is running.
	ActiveSession(ctx context.Context) (*engine.SessionSnapshot, error)
	RestTimers(ctx context.Context) ([]engine.TimerSnapshot, *engine.TimerSnapshot, error)
	StartRest(ctx context.Context, exerciseID uuid.UUID, seconds int) (engine.TimerSnapshot, error)
	Summaries(ctx context.Context, start, end time.Time) ([]storage.SummaryRow, error)
	SummaryDetail(ctx context.Context, id uuid.UUID) (*storage.SummaryDetail, error)
	VolumeStats(ctx context.Context, start, end time.Time, bucket string) ([]storage.VolumePeriod, error)
}

// LocalSource serves MCP tools from the in-process engine and database.
type LocalSource struct {
	Mgr         *engine.Manager
	DB          *storage.DB
	DefaultRest int
}

// Compile-time check: *LocalSource satisfies DataSource.
var _ DataSource = (*LocalSource)(nil)

func (l *LocalSource) ActiveSession(context.Context) (*engine.SessionSnapshot, error) {
	snap, err := l.Mgr.Snapshot()
	if errors.Is(err, engine.ErrNoSession) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &snap, nil
}

func (l *LocalSource) RestTimers(context.Context) ([]engine.TimerSnapshot, *engine.TimerSnapshot, error) {
	timers := l.Mgr.Timers()
	if best, ok := l.Mgr.MostRelevantTimer(); ok {
		return timers, &best, nil
	}
	return timers, nil, nil
}

func (l *LocalSource) StartRest(_ context.Context, exerciseID uuid.UUID, seconds int) (engine.TimerSnapshot, error) {
	if seconds <= 0 {
		seconds = l.DefaultRest
	}
	return l.Mgr.StartRest(exerciseID, seconds)
}

func (l *LocalSource) Summaries(ctx context.Context, start, end time.Time) ([]storage.SummaryRow, error) {
	return l.DB.QuerySummaries(ctx, start, end)
}

func (l *LocalSource) SummaryDetail(ctx context.Context, id uuid.UUID) (*storage.SummaryDetail, error) {
	return l.DB.GetSummary(ctx, id)
}

func (l *LocalSource) VolumeStats(ctx context.Context, start, end time.Time, bucket string) ([]storage.VolumePeriod, error) {
	return l.DB.GetVolumeStats(ctx, start, end, bucket)
}
