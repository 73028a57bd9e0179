package usecase

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"companion-backend/internal/domain"
)

// DailyStore persists the per-identity daily messages and can enumerate
// identities for the scheduled run.
type DailyStore interface {
	GetDailyMessage(ctx context.Context, owner domain.OwnerRef, date string) (*domain.DailyMessage, error)
	SaveDailyMessage(ctx context.Context, msg *domain.DailyMessage) error
	ListUsers(ctx context.Context) ([]domain.User, error)
}

// DailyService generates one companion message per identity per day. Today
// generates lazily on first read; GenerateAll is the scheduled variant run by
// the cron job.
type DailyService struct {
	llm     LLMClient
	store   DailyStore
	configs ConfigSource
	model   string
	logger  *slog.Logger
	now     func() time.Time
}

func NewDailyService(llm LLMClient, store DailyStore, configs ConfigSource, model string, logger *slog.Logger) (*DailyService, error) {
	if llm == nil {
		return nil, errors.New("usecase: llm client must not be nil")
	}
	if store == nil {
		return nil, errors.New("usecase: daily store must not be nil")
	}
	if configs == nil {
		return nil, errors.New("usecase: config source must not be nil")
	}
	if strings.TrimSpace(model) == "" {
		return nil, errors.New("usecase: model must not be empty")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &DailyService{llm: llm, store: store, configs: configs, model: model, logger: logger, now: time.Now}, nil
}

// Today returns the scope's message for the current date, generating and
// saving one if the cron has not run yet.
func (s *DailyService) Today(ctx context.Context, scope domain.Scope) (*domain.DailyMessage, error) {
	date := s.today()
	owner := scope.Owner()

	existing, err := s.store.GetDailyMessage(ctx, owner, date)
	if err != nil {
		return nil, newError(ErrorInternal, "daily_read_error", err)
	}
	if existing != nil {
		return existing, nil
	}
	return s.generate(ctx, owner, date)
}

// GenerateAll produces the day's message for every identity that does not
// have one yet. Individual failures are logged and skipped so one identity
// cannot starve the rest of the run.
func (s *DailyService) GenerateAll(ctx context.Context) error {
	date := s.today()
	users, err := s.store.ListUsers(ctx)
	if err != nil {
		return newError(ErrorInternal, "user_list_error", err)
	}

	for _, user := range users {
		owner := domain.Owner(user.ID)
		existing, err := s.store.GetDailyMessage(ctx, owner, date)
		if err != nil {
			s.logger.Warn("daily message read failed", "user", user.ID, "err", err)
			continue
		}
		if existing != nil {
			continue
		}
		if _, err := s.generate(ctx, owner, date); err != nil {
			s.logger.Warn("daily message generation failed", "user", user.ID, "err", err)
		}
	}
	return nil
}

func (s *DailyService) generate(ctx context.Context, owner domain.OwnerRef, date string) (*domain.DailyMessage, error) {
	cfg, err := s.configs.GetUserConfig(ctx, owner)
	if err != nil {
		return nil, newError(ErrorInternal, "user_config_error", err)
	}

	text, err := s.llm.Chat(ctx, s.model, buildDailyPrompt(cfg, date))
	if err != nil {
		return nil, newError(ErrorUpstream, "completion_error", err)
	}

	msg := &domain.DailyMessage{
		ID:        newID(),
		Owner:     owner,
		Message:   strings.TrimSpace(text),
		Date:      date,
		CreatedAt: s.now().UTC(),
	}
	if err := s.store.SaveDailyMessage(ctx, msg); err != nil {
		return nil, newError(ErrorInternal, "daily_write_error", err)
	}
	return msg, nil
}

func (s *DailyService) today() string {
	return s.now().UTC().Format("2006-01-02")
}
