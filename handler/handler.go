// Package handler wires the HTTP surface: route families, the auth
// middlewares that resolve credentials into scopes, and the JSON envelope.
package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"companion-backend/internal/domain"
	"companion-backend/internal/usecase"
)

// ChatService is the conversation session lifecycle consumed by the chat
// routes.
type ChatService interface {
	SendMessage(ctx context.Context, scope domain.Scope, in usecase.SendInput) (usecase.SendOutput, error)
	History(ctx context.Context, scope domain.Scope, session string) ([]domain.Turn, error)
	Clear(ctx context.Context, scope domain.Scope, session string) error
}

// AdminService serves the administrative reads and bulk deletes.
type AdminService interface {
	GetDashboard(ctx context.Context, scope domain.Scope) (usecase.Dashboard, error)
	GetChatLogs(ctx context.Context, scope domain.Scope) ([]domain.Conversation, error)
	GetLetters(ctx context.Context, scope domain.Scope) ([]domain.Letter, error)
	GetSecret(ctx context.Context, scope domain.Scope) (*domain.Secret, error)
	ClearChats(ctx context.Context, scope domain.Scope) (int64, error)
	RecordVisit(ctx context.Context, scope domain.Scope) error
}

// LetterService generates and lists letters for the feature routes.
type LetterService interface {
	Generate(ctx context.Context, scope domain.Scope, style domain.LetterStyle) (*domain.Letter, error)
	List(ctx context.Context, scope domain.Scope) ([]domain.Letter, error)
}

// DailyService serves today's message.
type DailyService interface {
	Today(ctx context.Context, scope domain.Scope) (*domain.DailyMessage, error)
}

// UserConfigStore updates per-identity personalization.
type UserConfigStore interface {
	UpdateUserConfig(ctx context.Context, owner domain.OwnerRef, cfg domain.UserConfig) error
}

// Deps are the collaborators behind the HTTP surface.
type Deps struct {
	Chat    ChatService
	Admin   AdminService
	Letters LetterService
	Daily   DailyService
	Users   UserConfigStore
}

// Options carry the transport-level configuration.
type Options struct {
	Secret         []byte
	AllowedOrigins []string
	RateLimitRPS   int
	RateLimitBurst int
	Logger         *slog.Logger
}

// Server is the HTTP surface over the services.
type Server struct {
	secret         []byte
	allowedOrigins []string
	logger         *slog.Logger
	limiter        *rateLimiter

	chat    ChatService
	admin   AdminService
	letters LetterService
	daily   DailyService
	users   UserConfigStore
}

func NewServer(opts Options, deps Deps) (*Server, error) {
	if len(opts.Secret) == 0 {
		return nil, errors.New("handler: secret must not be empty")
	}
	if deps.Chat == nil || deps.Admin == nil || deps.Letters == nil || deps.Daily == nil || deps.Users == nil {
		return nil, errors.New("handler: all services must be provided")
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	rps, burst := opts.RateLimitRPS, opts.RateLimitBurst
	if rps <= 0 {
		rps = 20
	}
	if burst <= 0 {
		burst = rps * 2
	}
	return &Server{
		secret:         opts.Secret,
		allowedOrigins: opts.AllowedOrigins,
		logger:         logger,
		limiter:        newRateLimiter(rps, burst),
		chat:           deps.Chat,
		admin:          deps.Admin,
		letters:        deps.Letters,
		daily:          deps.Daily,
		users:          deps.Users,
	}, nil
}

// Routes builds the router with CORS and rate limiting applied globally.
func (s *Server) Routes() http.Handler {
	r := mux.NewRouter()

	r.HandleFunc("/api/health", s.handleHealth).Methods(http.MethodGet)

	// Feature routes: entry credential in the dedicated header.
	r.HandleFunc("/api/chat/send", s.requireEntry(s.handleSendMessage)).Methods(http.MethodPost)
	r.HandleFunc("/api/chat/history/{sessionId}", s.requireEntry(s.handleGetHistory)).Methods(http.MethodGet)
	r.HandleFunc("/api/chat/history/{sessionId}", s.requireEntry(s.handleClearHistory)).Methods(http.MethodDelete)
	r.HandleFunc("/api/letter", s.requireEntry(s.handleGenerateLetter)).Methods(http.MethodPost)
	r.HandleFunc("/api/letter", s.requireEntry(s.handleListLetters)).Methods(http.MethodGet)
	r.HandleFunc("/api/daily/today", s.requireEntry(s.handleDailyToday)).Methods(http.MethodGet)
	r.HandleFunc("/api/visit", s.requireEntry(s.handleRecordVisit)).Methods(http.MethodPost)

	// Administrative routes: bearer credential, admin or creator.
	r.HandleFunc("/api/admin/dashboard", s.requireAdminOrCreator(s.handleDashboard)).Methods(http.MethodGet)
	r.HandleFunc("/api/admin/chats", s.requireAdminOrCreator(s.handleChatLogs)).Methods(http.MethodGet)
	r.HandleFunc("/api/admin/chats", s.requireAdminOrCreator(s.handleClearChats)).Methods(http.MethodDelete)
	r.HandleFunc("/api/admin/letters", s.requireAdminOrCreator(s.handleAdminLetters)).Methods(http.MethodGet)
	r.HandleFunc("/api/admin/secret", s.requireAdminOrCreator(s.handleSecret)).Methods(http.MethodGet)

	// Identity management: creator only.
	r.HandleFunc("/api/user/config", s.requireCreator(s.handleUpdateUserConfig)).Methods(http.MethodPut)

	return s.corsMiddleware(s.limiter.middleware(r))
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeSuccess(w, map[string]any{
		"status":    "alive",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}
