package handler

import (
	"fmt"
	"net/http"
)

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	scope, ok := scopeFrom(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "Invalid token")
		return
	}

	dashboard, err := s.admin.GetDashboard(r.Context(), scope)
	if err != nil {
		s.logger.Error("dashboard failed", "err", err)
		respondError(w, err)
		return
	}

	writeSuccess(w, map[string]any{"dashboard": dashboard})
}

func (s *Server) handleChatLogs(w http.ResponseWriter, r *http.Request) {
	scope, ok := scopeFrom(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "Invalid token")
		return
	}

	chats, err := s.admin.GetChatLogs(r.Context(), scope)
	if err != nil {
		s.logger.Error("chat logs failed", "err", err)
		respondError(w, err)
		return
	}

	writeSuccess(w, map[string]any{"chats": chats})
}

func (s *Server) handleClearChats(w http.ResponseWriter, r *http.Request) {
	scope, ok := scopeFrom(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "Invalid token")
		return
	}

	deleted, err := s.admin.ClearChats(r.Context(), scope)
	if err != nil {
		s.logger.Error("clear chats failed", "err", err)
		respondError(w, err)
		return
	}

	writeSuccess(w, map[string]any{
		"message":      fmt.Sprintf("Cleared %d chat session(s)", deleted),
		"deletedCount": deleted,
	})
}

func (s *Server) handleAdminLetters(w http.ResponseWriter, r *http.Request) {
	scope, ok := scopeFrom(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "Invalid token")
		return
	}

	letters, err := s.admin.GetLetters(r.Context(), scope)
	if err != nil {
		s.logger.Error("admin letters failed", "err", err)
		respondError(w, err)
		return
	}

	writeSuccess(w, map[string]any{"letters": letters})
}

func (s *Server) handleSecret(w http.ResponseWriter, r *http.Request) {
	scope, ok := scopeFrom(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "Invalid token")
		return
	}

	secret, err := s.admin.GetSecret(r.Context(), scope)
	if err != nil {
		s.logger.Error("secret lookup failed", "err", err)
		respondError(w, err)
		return
	}
	if secret == nil {
		writeError(w, http.StatusNotFound, "No secret found")
		return
	}

	writeSuccess(w, map[string]any{"secret": secret})
}
