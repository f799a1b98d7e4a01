package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"

	"github.com/PratikDhanave/fortune-service/internal/auth"
	"github.com/PratikDhanave/fortune-service/internal/config"
	"github.com/PratikDhanave/fortune-service/internal/fortune"
	"github.com/PratikDhanave/fortune-service/internal/history"
	"github.com/PratikDhanave/fortune-service/internal/httpserver"
	"github.com/PratikDhanave/fortune-service/internal/llm"
	"github.com/PratikDhanave/fortune-service/internal/logging"
	"github.com/PratikDhanave/fortune-service/internal/store"
)

// main boots the service: config → logger → LLM → DB → schema → HTTP server.
func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("load config", "error", err)
		os.Exit(1)
	}

	logger := logging.New(cfg.Log)

	if err := run(cfg, logger); err != nil {
		logger.Error("server stopped", "error", err)
		os.Exit(1)
	}
}

func run(cfg config.Config, logger *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// The service starts without a key; generation requests then fail with a
	// configuration error.
	var gen fortune.TextGenerator
	if key := cfg.LLM.APIKey(); key != "" {
		gen = llm.NewClient(&http.Client{Timeout: cfg.LLM.Timeout}, key, cfg.LLM.BaseURL, cfg.LLM.Model, logger)
	} else {
		logger.Error("no LLM API key configured; set GOOGLE_API_KEY or GOOGLE_GENERATIVE_AI_API_KEY")
	}

	deps := httpserver.Deps{
		Fortune:        fortune.NewService(gen, cfg.LLM.FortuneYear, logger),
		AllowedOrigins: cfg.CORS.Origins(),
		Logger:         logger,
	}

	// Without DB_URL the history endpoints run in disabled mode.
	if cfg.Database.Enabled() {
		db, err := store.NewPostgresStore(ctx, cfg.Database.URL, cfg.Database.MaxConns)
		if err != nil {
			return err
		}
		defer db.Close()

		// Apply pending migrations before serving traffic.
		if err := db.EnsureSchema(ctx); err != nil {
			return err
		}

		deps.History = history.NewService(db, history.SystemClock{}, logger)
		deps.Store = db
	} else {
		logger.Warn("DB_URL not set; fortune history is disabled")
		deps.History = history.NewService(nil, history.SystemClock{}, logger)
	}

	verifier, err := auth.NewVerifier(cfg.Auth.JWTSecret, cfg.Auth.JWTPublicKey, cfg.Auth.JWTIssuer)
	if err != nil {
		return err
	}
	if verifier == nil {
		logger.Warn("no token verifier configured; all requests are anonymous")
	}
	deps.Verifier = verifier

	gin.SetMode(gin.ReleaseMode)
	srv := &http.Server{
		Addr:    cfg.Server.Addr,
		Handler: httpserver.NewRouter(deps),
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server started", "addr", cfg.Server.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
