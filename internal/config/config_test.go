package config

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoad_RequiresSecrets(t *testing.T) {
	t.Setenv("JWT_SECRET", "")
	t.Setenv("GROQ_API_KEY", "")

	_, err := Load()
	require.Error(t, err)
	require.Contains(t, err.Error(), "JWT_SECRET")

	t.Setenv("JWT_SECRET", "s3cret")
	_, err = Load()
	require.Error(t, err)
	require.Contains(t, err.Error(), "GROQ_API_KEY")
}

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("GROQ_API_KEY", "gsk-test")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, "5000", cfg.Port)
	require.Equal(t, "mongodb://localhost:27017", cfg.MongoURI)
	require.Equal(t, "companion", cfg.MongoDB)
	require.Equal(t, "llama-3.3-70b-versatile", cfg.GroqModel)
	require.Equal(t, 20, cfg.RateLimitRPS)
	require.Equal(t, "0 8 * * *", cfg.DailyCronSpec)
	require.Len(t, cfg.FrontendURLs, 2)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("GROQ_API_KEY", "gsk-test")
	t.Setenv("PORT", "8080")
	t.Setenv("FRONTEND_URLS", "https://app.example.com, ,https://admin.example.com")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, "8080", cfg.Port)
	require.Equal(t, []string{"https://app.example.com", "https://admin.example.com"}, cfg.FrontendURLs)
}
