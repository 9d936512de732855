package app

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"titledoctor/features/job"
	"titledoctor/internal/adapter/gemini"
	"titledoctor/internal/adapter/resend"
	"titledoctor/internal/adapter/youtube"
	"titledoctor/internal/bus"
	"titledoctor/internal/config"
	"titledoctor/internal/middleware"
	"titledoctor/internal/worker"
)

// consumerChannel is the NSQ channel name shared by all pipeline
// subscriptions. One channel per topic means each event is handled once
// per deployment, not once per instance.
const consumerChannel = "pipeline"

type App struct {
	Handler http.Handler

	port int
}

func New(ctx context.Context, cfg *config.Config, db *sql.DB, b bus.Bus, logger *slog.Logger) (*App, error) {
	store := job.NewPostgresStore(db)
	jobService := job.NewService(store, b)
	jobHandler := job.NewHandler(jobService)

	// Adapters. Constructed eagerly; a missing API key surfaces per call
	// so the failure routes through the stage error path instead of
	// refusing to boot.
	searcher, err := youtube.NewClient(ctx, cfg.YouTubeAPIKey)
	if err != nil {
		return nil, fmt.Errorf("youtube client error: %w", err)
	}
	generator, err := gemini.NewGenerator(ctx, cfg.GeminiAPIKey)
	if err != nil {
		return nil, fmt.Errorf("gemini client error: %w", err)
	}
	sender := resend.NewClient(cfg.ResendAPIKey)

	// Pipeline stages
	timeout := time.Duration(cfg.StageTimeoutSeconds) * time.Second
	runner := worker.NewRunner(store, b, timeout)

	subscriptions := map[string]bus.HandlerFunc{
		config.TopicJobSubmitted:    worker.NewResolveChannel(runner, searcher).Handle,
		config.TopicChannelResolved: worker.NewFetchVideos(runner, searcher).Handle,
		config.TopicVideosFetched:   worker.NewGenerateTitles(runner, generator).Handle,
		config.TopicTitlesGenerated: worker.NewSendEmail(runner, sender, cfg.ResendFromEmail).Handle,
	}
	for topic, h := range subscriptions {
		if err := b.Subscribe(topic, consumerChannel, h); err != nil {
			return nil, fmt.Errorf("subscribe %s: %w", topic, err)
		}
	}

	errorHandler := worker.NewErrorHandler(store, b, sender, cfg.ResendFromEmail, timeout)
	for _, topic := range config.ErrorTopics() {
		if err := b.Subscribe(topic, consumerChannel, errorHandler.Handle); err != nil {
			return nil, fmt.Errorf("subscribe %s: %w", topic, err)
		}
	}

	// Routes
	mux := http.NewServeMux()
	mux.Handle("POST /submit", middleware.CorrelationID(http.HandlerFunc(jobHandler.Submit)))
	mux.Handle("GET /jobs/{id}", middleware.CorrelationID(http.HandlerFunc(jobHandler.Get)))
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	})

	return &App{Handler: mux, port: cfg.ServerPort}, nil
}

func (a *App) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", a.port),
		Handler: a.Handler,
	}

	go func() {
		<-ctx.Done()
		slog.Info("shutting down server...")
		if err := srv.Shutdown(context.Background()); err != nil {
			slog.Error("server shutdown failed", "error", err)
		}
	}()

	slog.Info("server starting", "port", a.port)
	if err := srv.ListenAndServe(); err != http.ErrServerClosed {
		return err
	}
	return nil
}
