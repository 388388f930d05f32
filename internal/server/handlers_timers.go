package server

import (
	"encoding/json"
	"net/http"
)

// handleStartRest starts (or replaces) an exercise's rest timer. A
// missing or zero duration falls back to the configured default; the
// engine itself never chooses rest durations.
func (s *Server) handleStartRest(w http.ResponseWriter, r *http.Request) {
	id, ok := exerciseID(w, r)
	if !ok {
		return
	}

	var req struct {
		Seconds int `json:"seconds"`
	}
	if r.ContentLength > 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
			return
		}
	}
	if req.Seconds < 0 {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "seconds must not be negative"})
		return
	}
	if req.Seconds == 0 {
		req.Seconds = s.defaultRest
	}

	snap, err := s.mgr.StartRest(id, req.Seconds)
	if err != nil {
		writeEngineError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, snap)
}

func (s *Server) handleGetTimers(w http.ResponseWriter, r *http.Request) {
	resp := map[string]any{
		"timers": s.mgr.Timers(),
	}
	if best, ok := s.mgr.MostRelevantTimer(); ok {
		resp["most_relevant"] = best
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleGetLive(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.board.Snapshot())
}

func (s *Server) handlePauseTimer(w http.ResponseWriter, r *http.Request) {
	id, ok := exerciseID(w, r)
	if !ok {
		return
	}
	snap, err := s.mgr.PauseRest(id)
	if err != nil {
		writeEngineError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, snap)
}

func (s *Server) handleResumeTimer(w http.ResponseWriter, r *http.Request) {
	id, ok := exerciseID(w, r)
	if !ok {
		return
	}
	snap, err := s.mgr.ResumeRest(id)
	if err != nil {
		writeEngineError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, snap)
}

func (s *Server) handleSkipTimer(w http.ResponseWriter, r *http.Request) {
	id, ok := exerciseID(w, r)
	if !ok {
		return
	}
	snap, err := s.mgr.SkipRest(id)
	if err != nil {
		writeEngineError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, snap)
}

func (s *Server) handleAddTime(w http.ResponseWriter, r *http.Request) {
	id, ok := exerciseID(w, r)
	if !ok {
		return
	}

	var req struct {
		Seconds int `json:"seconds"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
		return
	}
	if req.Seconds <= 0 {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "seconds must be positive"})
		return
	}

	snap, err := s.mgr.AddRestTime(id, req.Seconds)
	if err != nil {
		writeEngineError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, snap)
}

func (s *Server) handleStopTimer(w http.ResponseWriter, r *http.Request) {
	id, ok := exerciseID(w, r)
	if !ok {
		return
	}
	if err := s.mgr.StopRest(id); err != nil {
		writeEngineError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "stopped"})
}
