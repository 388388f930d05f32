package server

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/claude/repclock/internal/display"
	"github.com/claude/repclock/internal/engine"
	"github.com/claude/repclock/internal/storage"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

// SummaryStore is the persistence surface the server needs. *storage.DB
// satisfies it; tests substitute a fake.
type SummaryStore interface {
	InsertSummary(ctx context.Context, s engine.WorkoutSummary) (bool, error)
	QuerySummaries(ctx context.Context, start, end time.Time) ([]storage.SummaryRow, error)
	GetSummary(ctx context.Context, id uuid.UUID) (*storage.SummaryDetail, error)
	GetVolumeStats(ctx context.Context, start, end time.Time, bucket string) ([]storage.VolumePeriod, error)
}

// Compile-time check: *storage.DB satisfies SummaryStore.
var _ SummaryStore = (*storage.DB)(nil)

// Server holds dependencies for HTTP handlers.
type Server struct {
	mgr         *engine.Manager
	store       SummaryStore
	board       *display.Board
	log         *slog.Logger
	apiKey      string
	defaultRest int
	router      chi.Router
}

// New creates a new Server with all routes configured. defaultRest is the
// rest duration in seconds applied when a rest request carries none.
func New(mgr *engine.Manager, store SummaryStore, board *display.Board, apiKey string, defaultRest int, log *slog.Logger) *Server {
	s := &Server{
		mgr:         mgr,
		store:       store,
		board:       board,
		log:         log,
		apiKey:      apiKey,
		defaultRest: defaultRest,
		router:      chi.NewRouter(),
	}
	s.routes()
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Mount attaches an extra handler subtree (e.g. the MCP endpoint).
func (s *Server) Mount(pattern string, h http.Handler) {
	s.router.Mount(pattern, h)
}

func (s *Server) routes() {
	s.router.Use(RequestLogging(s.log))
	s.router.Use(CORS)

	// Read-only surfaces
	s.router.Get("/api/v1/session", s.handleGetSession)
	s.router.Get("/api/v1/timers", s.handleGetTimers)
	s.router.Get("/api/v1/live", s.handleGetLive)
	s.router.Get("/api/v1/summaries", s.handleQuerySummaries)
	s.router.Get("/api/v1/summaries/{id}", s.handleGetSummary)
	s.router.Get("/api/v1/stats/volume", s.handleVolumeStats)

	// Mutating surfaces (API key required)
	s.router.Group(func(r chi.Router) {
		r.Use(APIKeyAuth(s.apiKey))

		r.Post("/api/v1/session", s.handleStartSession)
		r.Post("/api/v1/session/finish", s.handleFinishSession)
		r.Post("/api/v1/session/discard", s.handleDiscardSession)

		r.Post("/api/v1/session/exercises", s.handleAddExercise)
		r.Delete("/api/v1/session/exercises/{id}", s.handleRemoveExercise)
		r.Post("/api/v1/session/exercises/{id}/sets", s.handleAddSet)
		r.Patch("/api/v1/session/exercises/{id}/sets/{index}", s.handleUpdateSet)
		r.Post("/api/v1/session/exercises/{id}/sets/{index}/complete", s.handleCompleteSet)
		r.Post("/api/v1/session/exercises/{id}/rest", s.handleStartRest)

		r.Post("/api/v1/timers/{id}/pause", s.handlePauseTimer)
		r.Post("/api/v1/timers/{id}/resume", s.handleResumeTimer)
		r.Post("/api/v1/timers/{id}/skip", s.handleSkipTimer)
		r.Post("/api/v1/timers/{id}/add-time", s.handleAddTime)
		r.Delete("/api/v1/timers/{id}", s.handleStopTimer)
	})
}
