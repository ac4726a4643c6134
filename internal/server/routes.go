package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/okivie/lifewheel/internal/engine"
	"github.com/okivie/lifewheel/internal/sphere"
)

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func (s *Server) handleSpheres(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"spheres": sphere.List(),
	})
}

func (s *Server) handleLifeIndex(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")

	result, err := s.engine.ComputeLifeIndex(r.Context(), userID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleSphereStats(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")
	key := chi.URLParam(r, "sphereKey")

	stats, err := s.engine.SphereStats(r.Context(), userID, key)
	if err != nil {
		if errors.Is(err, sphere.ErrNotFound) {
			writeError(w, http.StatusNotFound, "unknown sphere: "+key)
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")
	period := r.URL.Query().Get("period")
	if period == "" {
		period = "month"
	}

	history, err := s.engine.History(r.Context(), userID, period)
	if err != nil {
		if errors.Is(err, engine.ErrUnknownPeriod) {
			writeError(w, http.StatusBadRequest, "period must be month or year")
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, history)
}

// handleCalculate scores a caller-supplied stats payload without
// touching the database. Useful for what-if previews and calibration.
func (s *Server) handleCalculate(w http.ResponseWriter, r *http.Request) {
	var req struct {
		engine.SphereStats
		FinanceCapable bool `json:"finance_capable"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}

	index := s.engine.Calculator.Calculate(req.SphereStats, req.FinanceCapable)
	writeJSON(w, http.StatusOK, map[string]float64{"index": index})
}
