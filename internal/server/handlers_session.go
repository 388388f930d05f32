package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/claude/repclock/internal/engine"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

func (s *Server) handleStartSession(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name string `json:"name"`
	}
	if r.ContentLength > 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
			return
		}
	}

	snap, err := s.mgr.StartSession(req.Name)
	if err != nil {
		writeEngineError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, snap)
}

func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	snap, err := s.mgr.Snapshot()
	if err != nil {
		writeEngineError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, snap)
}

// handleFinishSession finishes the session and commits the summary.
// Persistence is fire-and-forget: a storage failure is logged but never
// rolls back the finish or fails the response.
func (s *Server) handleFinishSession(w http.ResponseWriter, r *http.Request) {
	summary, err := s.mgr.Finish()
	if err != nil {
		writeEngineError(w, err)
		return
	}

	if _, err := s.store.InsertSummary(r.Context(), summary); err != nil {
		s.log.Error("summary persist failed", "id", summary.ID, "error", err)
	}

	writeJSON(w, http.StatusOK, summary)
}

func (s *Server) handleDiscardSession(w http.ResponseWriter, r *http.Request) {
	if err := s.mgr.Discard(); err != nil {
		writeEngineError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "discarded"})
}

func (s *Server) handleAddExercise(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name string `json:"name"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
		return
	}
	if req.Name == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "name is required"})
		return
	}

	ex, err := s.mgr.AddExercise(req.Name)
	if err != nil {
		writeEngineError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, ex)
}

func (s *Server) handleRemoveExercise(w http.ResponseWriter, r *http.Request) {
	id, ok := exerciseID(w, r)
	if !ok {
		return
	}
	if err := s.mgr.RemoveExercise(id); err != nil {
		writeEngineError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "removed"})
}

func (s *Server) handleAddSet(w http.ResponseWriter, r *http.Request) {
	id, ok := exerciseID(w, r)
	if !ok {
		return
	}

	var set engine.WorkoutSet
	if err := json.NewDecoder(r.Body).Decode(&set); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
		return
	}
	if set.Reps < 0 || set.WeightKg < 0 {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "reps and weight_kg must not be negative"})
		return
	}

	index, err := s.mgr.AddSet(id, set)
	if err != nil {
		writeEngineError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]int{"index": index})
}

func (s *Server) handleUpdateSet(w http.ResponseWriter, r *http.Request) {
	id, ok := exerciseID(w, r)
	if !ok {
		return
	}
	index, ok := setIndex(w, r)
	if !ok {
		return
	}

	var set engine.WorkoutSet
	if err := json.NewDecoder(r.Body).Decode(&set); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
		return
	}
	if set.Reps < 0 || set.WeightKg < 0 {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "reps and weight_kg must not be negative"})
		return
	}

	if err := s.mgr.UpdateSet(id, index, set); err != nil {
		writeEngineError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, set)
}

func (s *Server) handleCompleteSet(w http.ResponseWriter, r *http.Request) {
	id, ok := exerciseID(w, r)
	if !ok {
		return
	}
	index, ok := setIndex(w, r)
	if !ok {
		return
	}

	if err := s.mgr.CompleteSet(id, index); err != nil {
		writeEngineError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "completed"})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writeEngineError maps engine sentinel errors onto HTTP statuses.
func writeEngineError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, engine.ErrInvalidDuration):
		status = http.StatusBadRequest
	case errors.Is(err, engine.ErrSessionActive):
		status = http.StatusConflict
	case errors.Is(err, engine.ErrNoSession):
		status = http.StatusConflict
	case errors.Is(err, engine.ErrExerciseNotFound),
		errors.Is(err, engine.ErrSetNotFound),
		errors.Is(err, engine.ErrTimerNotFound):
		status = http.StatusNotFound
	}
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

func exerciseID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid exercise ID"})
		return uuid.Nil, false
	}
	return id, true
}

func setIndex(w http.ResponseWriter, r *http.Request) (int, bool) {
	index, err := strconv.Atoi(chi.URLParam(r, "index"))
	if err != nil || index < 0 {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid set index"})
		return 0, false
	}
	return index, true
}

func parseTimeRange(r *http.Request) (start, end time.Time, err error) {
	startStr := r.URL.Query().Get("start")
	endStr := r.URL.Query().Get("end")

	if startStr == "" {
		// Default: last 30 days
		end = time.Now()
		start = end.AddDate(0, 0, -30)
		return
	}

	start, err = time.Parse(time.RFC3339, startStr)
	if err != nil {
		start, err = time.Parse("2006-01-02", startStr)
		if err != nil {
			return time.Time{}, time.Time{}, err
		}
	}

	if endStr == "" {
		end = time.Now()
	} else {
		end, err = time.Parse(time.RFC3339, endStr)
		if err != nil {
			end, err = time.Parse("2006-01-02", endStr)
			if err != nil {
				return time.Time{}, time.Time{}, err
			}
			// End of day for date-only
			end = end.Add(24 * time.Hour)
		}
	}
	return
}
