package web

import (
	"encoding/json"
	"net/http"

	"github.com/vbonduro/retrocam/internal/domain"
)

func (s *Server) handleGetSettings(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, s.settings.Current())
}

func (s *Server) handleSaveSettings(w http.ResponseWriter, r *http.Request) {
	var settings domain.AISettings
	if err := json.NewDecoder(r.Body).Decode(&settings); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	if err := s.settings.Save(r.Context(), settings); err != nil {
		http.Error(w, "failed to save settings", http.StatusInternalServerError)
		s.logger.Error("save settings failed", "error", err)
		return
	}

	s.respondJSON(w, http.StatusOK, s.settings.Current())
}
