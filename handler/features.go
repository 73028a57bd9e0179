package handler

import (
	"encoding/json"
	"net/http"

	"companion-backend/internal/domain"
)

type generateLetterRequest struct {
	Style string `json:"style"`
}

func (s *Server) handleGenerateLetter(w http.ResponseWriter, r *http.Request) {
	scope, ok := scopeFrom(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "Invalid token")
		return
	}

	var req generateLetterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	letter, err := s.letters.Generate(r.Context(), scope, domain.LetterStyle(req.Style))
	if err != nil {
		s.logger.Error("letter generation failed", "err", err)
		respondError(w, err)
		return
	}

	writeSuccess(w, map[string]any{"letter": letter})
}

func (s *Server) handleListLetters(w http.ResponseWriter, r *http.Request) {
	scope, ok := scopeFrom(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "Invalid token")
		return
	}

	letters, err := s.letters.List(r.Context(), scope)
	if err != nil {
		s.logger.Error("list letters failed", "err", err)
		respondError(w, err)
		return
	}

	writeSuccess(w, map[string]any{"letters": letters})
}

func (s *Server) handleDailyToday(w http.ResponseWriter, r *http.Request) {
	scope, ok := scopeFrom(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "Invalid token")
		return
	}

	msg, err := s.daily.Today(r.Context(), scope)
	if err != nil {
		s.logger.Error("daily message failed", "err", err)
		respondError(w, err)
		return
	}

	writeSuccess(w, map[string]any{"daily": msg})
}

func (s *Server) handleRecordVisit(w http.ResponseWriter, r *http.Request) {
	scope, ok := scopeFrom(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "Invalid token")
		return
	}

	if err := s.admin.RecordVisit(r.Context(), scope); err != nil {
		s.logger.Error("record visit failed", "err", err)
		respondError(w, err)
		return
	}

	writeSuccess(w, nil)
}

type updateConfigRequest struct {
	PartnerName   string `json:"partnerName"`
	CompanionName string `json:"companionName"`
	Persona       string `json:"persona"`
}

func (s *Server) handleUpdateUserConfig(w http.ResponseWriter, r *http.Request) {
	scope, ok := scopeFrom(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "Invalid token")
		return
	}

	var req updateConfigRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.PartnerName == "" && req.CompanionName == "" && req.Persona == "" {
		writeError(w, http.StatusBadRequest, "Nothing to update")
		return
	}

	cfg := domain.UserConfig{
		PartnerName:   req.PartnerName,
		CompanionName: req.CompanionName,
		Persona:       req.Persona,
	}
	if err := s.users.UpdateUserConfig(r.Context(), scope.Owner(), cfg); err != nil {
		s.logger.Error("update user config failed", "err", err)
		respondError(w, err)
		return
	}

	writeSuccess(w, map[string]any{"message": "Configuration updated"})
}
