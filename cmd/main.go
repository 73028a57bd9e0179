package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/robfig/cron/v3"

	"companion-backend/handler"
	"companion-backend/internal/config"
	"companion-backend/internal/integrations/groq"
	"companion-backend/internal/repository"
	"companion-backend/internal/usecase"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	if err := run(logger); err != nil {
		logger.Error("fatal", "err", err)
		os.Exit(1)
	}
}

func run(logger *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// ---- Configuration (read only here) ----
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	// ---- Storage ----
	connectCtx, cancelConnect := context.WithTimeout(ctx, 15*time.Second)
	defer cancelConnect()
	store, err := repository.Connect(connectCtx, cfg.MongoURI, cfg.MongoDB, logger)
	if err != nil {
		return err
	}
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := store.Close(closeCtx); err != nil {
			logger.Warn("store close failed", "err", err)
		}
	}()

	// Bring pre-multi-user data in line before serving traffic.
	store.Reconcile(ctx)

	// ---- Clients ----
	var groqOpts []groq.Option
	if cfg.GroqBaseURL != "" {
		groqOpts = append(groqOpts, groq.WithBaseURL(cfg.GroqBaseURL))
	}
	llm, err := groq.NewClient(cfg.GroqAPIKey, groqOpts...)
	if err != nil {
		return err
	}

	// ---- Services ----
	chatService, err := usecase.NewChatService(llm, store, store, cfg.GroqModel)
	if err != nil {
		return err
	}
	adminService, err := usecase.NewAdminService(store)
	if err != nil {
		return err
	}
	letterService, err := usecase.NewLetterService(llm, store, store, cfg.GroqModel)
	if err != nil {
		return err
	}
	dailyService, err := usecase.NewDailyService(llm, store, store, cfg.GroqModel, logger)
	if err != nil {
		return err
	}

	// ---- HTTP surface ----
	srv, err := handler.NewServer(handler.Options{
		Secret:         []byte(cfg.JWTSecret),
		AllowedOrigins: cfg.FrontendURLs,
		RateLimitRPS:   cfg.RateLimitRPS,
		RateLimitBurst: cfg.RateLimitBurst,
		Logger:         logger,
	}, handler.Deps{
		Chat:    chatService,
		Admin:   adminService,
		Letters: letterService,
		Daily:   dailyService,
		Users:   store,
	})
	if err != nil {
		return err
	}

	// ---- Daily generation schedule ----
	scheduler := cron.New()
	if _, err := scheduler.AddFunc(cfg.DailyCronSpec, func() {
		jobCtx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
		defer cancel()
		if err := dailyService.GenerateAll(jobCtx); err != nil {
			logger.Error("scheduled daily generation failed", "err", err)
		}
	}); err != nil {
		return err
	}
	scheduler.Start()
	defer scheduler.Stop()

	httpServer := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           srv.Routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		logger.Info("listening", "addr", httpServer.Addr)
		serveErr <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-serveErr:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
	case <-ctx.Done():
		logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return err
		}
	}
	return nil
}
