// Package usecase implements the conversation session lifecycle and the
// scoped read/delete operations behind the administrative surface.
package usecase

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"companion-backend/internal/domain"
)

// LLMClient is the external completion collaborator.
type LLMClient interface {
	Chat(ctx context.Context, model string, messages []domain.ChatMessage) (string, error)
}

// ConversationStore is the persistence consumed by the chat service. Find
// returns (nil, nil) for an absent conversation.
type ConversationStore interface {
	FindConversation(ctx context.Context, owner domain.OwnerRef, session string) (*domain.Conversation, error)
	SaveConversation(ctx context.Context, conv *domain.Conversation) error
	DeleteConversation(ctx context.Context, owner domain.OwnerRef, session string) error
}

// ConfigSource supplies per-identity personalization for the prompt builder.
type ConfigSource interface {
	GetUserConfig(ctx context.Context, owner domain.OwnerRef) (domain.UserConfig, error)
}

// ChatService manages the find-or-create/append/clear lifecycle of
// conversations. SendMessage is serialized per (owner, session) key so two
// concurrent sends cannot interleave their read-history/append steps.
type ChatService struct {
	llm     LLMClient
	store   ConversationStore
	configs ConfigSource
	model   string

	mu    sync.Mutex
	locks map[string]*sync.Mutex

	now func() time.Time
}

type SendInput struct {
	Message string
	Session string
}

type SendOutput struct {
	Reply   string
	Bubbles []string
}

func NewChatService(llm LLMClient, store ConversationStore, configs ConfigSource, model string) (*ChatService, error) {
	if llm == nil {
		return nil, errors.New("usecase: llm client must not be nil")
	}
	if store == nil {
		return nil, errors.New("usecase: conversation store must not be nil")
	}
	if configs == nil {
		return nil, errors.New("usecase: config source must not be nil")
	}
	if strings.TrimSpace(model) == "" {
		return nil, errors.New("usecase: model must not be empty")
	}
	return &ChatService{
		llm:     llm,
		store:   store,
		configs: configs,
		model:   model,
		locks:   make(map[string]*sync.Mutex),
		now:     time.Now,
	}, nil
}

// SendMessage runs one full turn: validate, rebuild history, complete,
// segment, then persist the human turn together with every assistant turn.
// Nothing is written if the completion fails, so the history never ends in a
// human turn with no reply.
func (s *ChatService) SendMessage(ctx context.Context, scope domain.Scope, in SendInput) (SendOutput, error) {
	text := strings.TrimSpace(in.Message)
	if text == "" {
		return SendOutput{}, newError(ErrorValidation, "empty_message", nil)
	}
	session := sessionOrDefault(in.Session)
	owner := scope.Owner()

	unlock := s.lockConversation(owner, session)
	defer unlock()

	conv, err := s.store.FindConversation(ctx, owner, session)
	if err != nil {
		return SendOutput{}, newError(ErrorInternal, "conversation_read_error", err)
	}
	if conv == nil {
		conv = &domain.Conversation{
			ID:        newID(),
			Owner:     owner,
			Session:   session,
			CreatedAt: s.now().UTC(),
		}
	}

	cfg, err := s.configs.GetUserConfig(ctx, owner)
	if err != nil {
		return SendOutput{}, newError(ErrorInternal, "user_config_error", err)
	}

	raw, err := s.llm.Chat(ctx, s.model, buildChatMessages(cfg, conv.Turns, text))
	if err != nil {
		return SendOutput{}, newError(ErrorUpstream, "completion_error", err)
	}
	bubbles := SegmentReply(raw)

	now := s.now().UTC()
	conv.Turns = append(conv.Turns, domain.Turn{
		Speaker:   domain.SpeakerHuman,
		Text:      text,
		CreatedAt: now,
	})
	for _, bubble := range bubbles {
		conv.Turns = append(conv.Turns, domain.Turn{
			Speaker:   domain.SpeakerAssistant,
			Text:      bubble,
			CreatedAt: now,
		})
	}
	conv.UpdatedAt = now

	if err := s.store.SaveConversation(ctx, conv); err != nil {
		return SendOutput{}, newError(ErrorInternal, "conversation_write_error", err)
	}

	return SendOutput{Reply: raw, Bubbles: bubbles}, nil
}

// History returns the turn sequence verbatim. An absent conversation is an
// empty history, never an error.
func (s *ChatService) History(ctx context.Context, scope domain.Scope, session string) ([]domain.Turn, error) {
	conv, err := s.store.FindConversation(ctx, scope.Owner(), sessionOrDefault(session))
	if err != nil {
		return nil, newError(ErrorInternal, "conversation_read_error", err)
	}
	if conv == nil {
		return []domain.Turn{}, nil
	}
	return conv.Turns, nil
}

// Clear deletes the conversation record outright; the next message starts a
// fresh empty history.
func (s *ChatService) Clear(ctx context.Context, scope domain.Scope, session string) error {
	if err := s.store.DeleteConversation(ctx, scope.Owner(), sessionOrDefault(session)); err != nil {
		return newError(ErrorInternal, "conversation_delete_error", err)
	}
	return nil
}

func (s *ChatService) lockConversation(owner domain.OwnerRef, session string) func() {
	key := session
	if id, ok := owner.ID(); ok {
		key = id + "\x00" + session
	}

	s.mu.Lock()
	lock, ok := s.locks[key]
	if !ok {
		lock = &sync.Mutex{}
		s.locks[key] = lock
	}
	s.mu.Unlock()

	lock.Lock()
	return lock.Unlock
}

func sessionOrDefault(session string) string {
	session = strings.TrimSpace(session)
	if session == "" {
		return domain.DefaultSession
	}
	return session
}

var newID = func() string {
	return uuid.NewString()
}
