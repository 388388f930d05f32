package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/claude/repclock/internal/storage"
)

func (s *Server) handleQuerySummaries(w http.ResponseWriter, r *http.Request) {
	start, end, err := parseTimeRange(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	rows, err := s.store.QuerySummaries(r.Context(), start, end)
	if err != nil {
		s.log.Error("summary query failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "query failed"})
		return
	}
	if rows == nil {
		rows = []storage.SummaryRow{}
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"start":     start,
		"end":       end,
		"summaries": rows,
	})
}

func (s *Server) handleGetSummary(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid summary id"})
		return
	}

	detail, err := s.store.GetSummary(r.Context(), id)
	if err != nil {
		s.log.Error("summary lookup failed", "id", id, "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "query failed"})
		return
	}
	if detail == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "summary not found"})
		return
	}

	writeJSON(w, http.StatusOK, detail)
}

func (s *Server) handleVolumeStats(w http.ResponseWriter, r *http.Request) {
	start, end, err := parseTimeRange(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	bucket := r.URL.Query().Get("bucket")

	periods, err := s.store.GetVolumeStats(r.Context(), start, end, bucket)
	if err != nil {
		s.log.Error("volume stats query failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "query failed"})
		return
	}
	if periods == nil {
		periods = []storage.VolumePeriod{}
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"start":   start,
		"end":     end,
		"periods": periods,
	})
}
