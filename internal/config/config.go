// Package config loads process configuration from the environment.
package config

import (
	"errors"
	"strings"

	"github.com/spf13/viper"
)

// Config is everything the process reads from its environment. Read once in
// main and pass values down; no component reads the environment directly.
type Config struct {
	Port     string
	MongoURI string
	MongoDB  string

	JWTSecret string

	GroqAPIKey  string
	GroqModel   string
	GroqBaseURL string

	FrontendURLs []string

	RateLimitRPS   int
	RateLimitBurst int

	DailyCronSpec string
}

// Load reads configuration from the environment with sane defaults. The JWT
// secret and the Groq API key have no defaults on purpose.
func Load() (Config, error) {
	v := viper.New()
	v.AutomaticEnv()

	v.SetDefault("PORT", "5000")
	v.SetDefault("MONGODB_URI", "mongodb://localhost:27017")
	v.SetDefault("MONGODB_DB", "companion")
	v.SetDefault("GROQ_MODEL", "llama-3.3-70b-versatile")
	v.SetDefault("GROQ_BASE_URL", "")
	v.SetDefault("FRONTEND_URLS", "http://localhost:5173,http://localhost:3000")
	v.SetDefault("RATE_LIMIT_RPS", 20)
	v.SetDefault("RATE_LIMIT_BURST", 40)
	v.SetDefault("DAILY_CRON_SPEC", "0 8 * * *")

	cfg := Config{
		Port:           v.GetString("PORT"),
		MongoURI:       v.GetString("MONGODB_URI"),
		MongoDB:        v.GetString("MONGODB_DB"),
		JWTSecret:      v.GetString("JWT_SECRET"),
		GroqAPIKey:     v.GetString("GROQ_API_KEY"),
		GroqModel:      v.GetString("GROQ_MODEL"),
		GroqBaseURL:    v.GetString("GROQ_BASE_URL"),
		FrontendURLs:   splitList(v.GetString("FRONTEND_URLS")),
		RateLimitRPS:   v.GetInt("RATE_LIMIT_RPS"),
		RateLimitBurst: v.GetInt("RATE_LIMIT_BURST"),
		DailyCronSpec:  v.GetString("DAILY_CRON_SPEC"),
	}

	if cfg.JWTSecret == "" {
		return Config{}, errors.New("config: JWT_SECRET is required")
	}
	if cfg.GroqAPIKey == "" {
		return Config{}, errors.New("config: GROQ_API_KEY is required")
	}
	return cfg, nil
}

func splitList(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
