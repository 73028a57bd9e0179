package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"companion-backend/internal/domain"
)

type memLetters struct {
	saved   []*domain.Letter
	saveErr error
}

func (m *memLetters) SaveLetter(_ context.Context, letter *domain.Letter) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.saved = append(m.saved, letter)
	return nil
}

func (m *memLetters) ListLetters(_ context.Context, _ domain.Scope) ([]domain.Letter, error) {
	out := make([]domain.Letter, 0, len(m.saved))
	for _, l := range m.saved {
		out = append(out, *l)
	}
	return out, nil
}

func TestLetterGenerate_HappyPath(t *testing.T) {
	llm := &mockLLM{reply: "  My dearest,\nevery day with you...  "}
	store := &memLetters{}
	svc, err := NewLetterService(llm, store, defaultConfigs(), "llama-3.3-70b-versatile")
	require.NoError(t, err)

	scope := domain.EntrantScope("user-1")
	letter, err := svc.Generate(context.Background(), scope, domain.StyleRomantic)
	require.NoError(t, err)
	require.Equal(t, domain.StyleRomantic, letter.Style)
	require.Equal(t, "My dearest,\nevery day with you...", letter.Content)
	require.Equal(t, scope.Owner(), letter.Owner)
	require.NotEmpty(t, letter.ID)
	require.Len(t, store.saved, 1)
}

func TestLetterGenerate_UnknownStyleRejectedBeforeCompletion(t *testing.T) {
	llm := &mockLLM{reply: "unused"}
	svc, err := NewLetterService(llm, &memLetters{}, defaultConfigs(), "m")
	require.NoError(t, err)

	_, err = svc.Generate(context.Background(), domain.AnonymousScope(), "sarcastic")
	expectUsecaseError(t, err, ErrorValidation, "unknown_letter_style")
	require.Zero(t, llm.calls)
}

func TestLetterGenerate_UpstreamFailureWritesNothing(t *testing.T) {
	store := &memLetters{}
	svc, err := NewLetterService(&mockLLM{err: errors.New("groq down")}, store, defaultConfigs(), "m")
	require.NoError(t, err)

	_, err = svc.Generate(context.Background(), domain.AnonymousScope(), domain.StyleComfort)
	expectUsecaseError(t, err, ErrorUpstream, "completion_error")
	require.Empty(t, store.saved)
}
