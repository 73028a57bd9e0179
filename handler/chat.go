package handler

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/gorilla/mux"

	"companion-backend/internal/usecase"
)

type sendMessageRequest struct {
	Message string `json:"message"`
	Session string `json:"sessionId"`
}

func (s *Server) handleSendMessage(w http.ResponseWriter, r *http.Request) {
	scope, ok := scopeFrom(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "Invalid token")
		return
	}

	var req sendMessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	out, err := s.chat.SendMessage(r.Context(), scope, usecase.SendInput{
		Message: req.Message,
		Session: req.Session,
	})
	if err != nil {
		s.logger.Error("send message failed", "err", err)
		respondError(w, err)
		return
	}

	writeSuccess(w, map[string]any{
		"reply":   out.Reply,
		"bubbles": out.Bubbles,
	})
}

func (s *Server) handleGetHistory(w http.ResponseWriter, r *http.Request) {
	scope, ok := scopeFrom(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "Invalid token")
		return
	}

	session := mux.Vars(r)["sessionId"]
	turns, err := s.chat.History(r.Context(), scope, session)
	if err != nil {
		s.logger.Error("fetch history failed", "err", err)
		respondError(w, err)
		return
	}

	writeSuccess(w, map[string]any{"messages": turns})
}

func (s *Server) handleClearHistory(w http.ResponseWriter, r *http.Request) {
	scope, ok := scopeFrom(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "Invalid token")
		return
	}

	session := mux.Vars(r)["sessionId"]
	if err := s.chat.Clear(r.Context(), scope, session); err != nil {
		s.logger.Error("clear history failed", "err", err)
		respondError(w, err)
		return
	}

	writeSuccess(w, map[string]any{
		"message": fmt.Sprintf("Session %q cleared", sessionLabel(session)),
	})
}

func sessionLabel(session string) string {
	if session == "" {
		return "default"
	}
	return session
}
