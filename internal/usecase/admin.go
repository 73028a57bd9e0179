package usecase

import (
	"context"
	"errors"
	"time"

	"companion-backend/internal/domain"
)

// ResourceStore is the scoped-resource persistence behind the administrative
// surface. Every operation takes the resolved scope; the store's filter
// builder is the single enforcement point for isolation, so no caller can
// request cross-scope data regardless of parameters.
type ResourceStore interface {
	CountConversations(ctx context.Context, scope domain.Scope) (int64, error)
	CountLetters(ctx context.Context, scope domain.Scope) (int64, error)
	CountMemories(ctx context.Context, scope domain.Scope) (int64, error)
	CountDailyMessages(ctx context.Context, scope domain.Scope) (int64, error)
	VisitorStats(ctx context.Context, scope domain.Scope) (domain.Visitor, error)
	RecordVisit(ctx context.Context, scope domain.Scope, at time.Time) error
	ListConversations(ctx context.Context, scope domain.Scope) ([]domain.Conversation, error)
	ListLetters(ctx context.Context, scope domain.Scope) ([]domain.Letter, error)
	GetSecret(ctx context.Context, scope domain.Scope) (*domain.Secret, error)
	DeleteConversations(ctx context.Context, scope domain.Scope) (int64, error)
}

// Dashboard is the aggregate view returned to admin and creator tokens. For
// the unscoped admin view VisitorCount sums every identity's counter and
// LastVisit is nil.
type Dashboard struct {
	TotalChats         int64      `json:"totalChats"`
	TotalLetters       int64      `json:"totalLetters"`
	TotalMemories      int64      `json:"totalMemories"`
	TotalDailyMessages int64      `json:"totalDailyMessages"`
	VisitorCount       int64      `json:"visitorCount"`
	LastVisit          *time.Time `json:"lastVisit"`
}

// AdminService serves the administrative reads and the bulk chat delete.
type AdminService struct {
	store ResourceStore
	now   func() time.Time
}

func NewAdminService(store ResourceStore) (*AdminService, error) {
	if store == nil {
		return nil, errors.New("usecase: resource store must not be nil")
	}
	return &AdminService{store: store, now: time.Now}, nil
}

func (s *AdminService) GetDashboard(ctx context.Context, scope domain.Scope) (Dashboard, error) {
	chats, err := s.store.CountConversations(ctx, scope)
	if err != nil {
		return Dashboard{}, newError(ErrorInternal, "chat_count_error", err)
	}
	letters, err := s.store.CountLetters(ctx, scope)
	if err != nil {
		return Dashboard{}, newError(ErrorInternal, "letter_count_error", err)
	}
	memories, err := s.store.CountMemories(ctx, scope)
	if err != nil {
		return Dashboard{}, newError(ErrorInternal, "memory_count_error", err)
	}
	daily, err := s.store.CountDailyMessages(ctx, scope)
	if err != nil {
		return Dashboard{}, newError(ErrorInternal, "daily_count_error", err)
	}
	visitor, err := s.store.VisitorStats(ctx, scope)
	if err != nil {
		return Dashboard{}, newError(ErrorInternal, "visitor_stats_error", err)
	}

	d := Dashboard{
		TotalChats:         chats,
		TotalLetters:       letters,
		TotalMemories:      memories,
		TotalDailyMessages: daily,
		VisitorCount:       visitor.Count,
	}
	if scope.Owner().IsSet() && !visitor.LastVisit.IsZero() {
		last := visitor.LastVisit
		d.LastVisit = &last
	}
	return d, nil
}

func (s *AdminService) GetChatLogs(ctx context.Context, scope domain.Scope) ([]domain.Conversation, error) {
	chats, err := s.store.ListConversations(ctx, scope)
	if err != nil {
		return nil, newError(ErrorInternal, "chat_list_error", err)
	}
	return chats, nil
}

func (s *AdminService) GetLetters(ctx context.Context, scope domain.Scope) ([]domain.Letter, error) {
	letters, err := s.store.ListLetters(ctx, scope)
	if err != nil {
		return nil, newError(ErrorInternal, "letter_list_error", err)
	}
	return letters, nil
}

func (s *AdminService) GetSecret(ctx context.Context, scope domain.Scope) (*domain.Secret, error) {
	secret, err := s.store.GetSecret(ctx, scope)
	if err != nil {
		return nil, newError(ErrorInternal, "secret_read_error", err)
	}
	return secret, nil
}

// ClearChats deletes every conversation visible to the scope and reports how
// many records went away.
func (s *AdminService) ClearChats(ctx context.Context, scope domain.Scope) (int64, error) {
	deleted, err := s.store.DeleteConversations(ctx, scope)
	if err != nil {
		return 0, newError(ErrorInternal, "chat_clear_error", err)
	}
	return deleted, nil
}

// RecordVisit bumps the visitor counter for the scope.
func (s *AdminService) RecordVisit(ctx context.Context, scope domain.Scope) error {
	if err := s.store.RecordVisit(ctx, scope, s.now().UTC()); err != nil {
		return newError(ErrorInternal, "visit_record_error", err)
	}
	return nil
}
