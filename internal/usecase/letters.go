package usecase

import (
	"context"
	"errors"
	"strings"
	"time"

	"companion-backend/internal/domain"
)

// LetterStore persists generated letters.
type LetterStore interface {
	SaveLetter(ctx context.Context, letter *domain.Letter) error
	ListLetters(ctx context.Context, scope domain.Scope) ([]domain.Letter, error)
}

// LetterService writes letters in a requested style through the completion
// service and keeps them per identity.
type LetterService struct {
	llm     LLMClient
	store   LetterStore
	configs ConfigSource
	model   string
	now     func() time.Time
}

func NewLetterService(llm LLMClient, store LetterStore, configs ConfigSource, model string) (*LetterService, error) {
	if llm == nil {
		return nil, errors.New("usecase: llm client must not be nil")
	}
	if store == nil {
		return nil, errors.New("usecase: letter store must not be nil")
	}
	if configs == nil {
		return nil, errors.New("usecase: config source must not be nil")
	}
	if strings.TrimSpace(model) == "" {
		return nil, errors.New("usecase: model must not be empty")
	}
	return &LetterService{llm: llm, store: store, configs: configs, model: model, now: time.Now}, nil
}

// Generate writes one letter in the given style for the scope's identity and
// persists it. Unknown styles are rejected before any completion call.
func (s *LetterService) Generate(ctx context.Context, scope domain.Scope, style domain.LetterStyle) (*domain.Letter, error) {
	if !domain.ValidLetterStyle(style) {
		return nil, newError(ErrorValidation, "unknown_letter_style", nil)
	}

	cfg, err := s.configs.GetUserConfig(ctx, scope.Owner())
	if err != nil {
		return nil, newError(ErrorInternal, "user_config_error", err)
	}

	content, err := s.llm.Chat(ctx, s.model, buildLetterPrompt(cfg, style))
	if err != nil {
		return nil, newError(ErrorUpstream, "completion_error", err)
	}

	letter := &domain.Letter{
		ID:        newID(),
		Owner:     scope.Owner(),
		Style:     style,
		Content:   strings.TrimSpace(content),
		CreatedAt: s.now().UTC(),
	}
	if err := s.store.SaveLetter(ctx, letter); err != nil {
		return nil, newError(ErrorInternal, "letter_write_error", err)
	}
	return letter, nil
}

func (s *LetterService) List(ctx context.Context, scope domain.Scope) ([]domain.Letter, error) {
	letters, err := s.store.ListLetters(ctx, scope)
	if err != nil {
		return nil, newError(ErrorInternal, "letter_list_error", err)
	}
	return letters, nil
}
