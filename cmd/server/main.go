package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/RamizjonSheraliyev/Auths-Advances/internal/config"
	"github.com/RamizjonSheraliyev/Auths-Advances/internal/db"
	transport "github.com/RamizjonSheraliyev/Auths-Advances/internal/http"
	"github.com/RamizjonSheraliyev/Auths-Advances/internal/http/middleware"
	"github.com/RamizjonSheraliyev/Auths-Advances/internal/mail"
	"github.com/RamizjonSheraliyev/Auths-Advances/internal/repo"
	"github.com/RamizjonSheraliyev/Auths-Advances/internal/services"
	"github.com/RamizjonSheraliyev/Auths-Advances/internal/token"
	"github.com/gin-gonic/gin"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := newLogger(cfg.Env)

	if cfg.IsProd() {
		gin.SetMode(gin.ReleaseMode)
	}

	codec, err := token.NewCodec(cfg.JWTSecret, cfg.JWTExpiry)
	if err != nil {
		logger.Error("failed to build token codec", "error", err)
		os.Exit(1)
	}

	database, err := db.Connect(ctx, cfg.MongoURI, cfg.MongoDB)
	if err != nil {
		logger.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer database.Close(context.Background())

	userRepo := repo.NewUserRepo(database.Users, cfg.RequestTimeout)
	mailer := mail.NewMailer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUsername, cfg.SMTPPassword, cfg.SMTPFrom)
	authService := services.NewAuthService(userRepo, mailer, codec, cfg, logger)

	router := transport.NewRouter(transport.Dependencies{
		Config:      cfg,
		AuthService: authService,
		TokenCodec:  codec,
		Logger:      logger,
		RateLimiter: middleware.NewRateLimiter(cfg.RateLimitPerMinute),
	})

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           router,
		ReadTimeout:       cfg.RequestTimeout,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      cfg.RequestTimeout,
		IdleTimeout:       60 * time.Second,
	}

	serverErrors := make(chan error, 1)
	go func() {
		logger.Info("http server starting", "addr", cfg.HTTPAddr, "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErrors <- err
		}
	}()

	select {
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	case err := <-serverErrors:
		logger.Error("http server stopped unexpectedly", "error", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown failed", "error", err)
		os.Exit(1)
	}

	logger.Info("http server stopped")
}

func newLogger(env string) *slog.Logger {
	level := slog.LevelInfo
	if env != "prod" {
		level = slog.LevelDebug
	}

	var handler slog.Handler
	if env == "prod" {
		handler = slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level})
	} else {
		handler = slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: level})
	}

	return slog.New(handler)
}
