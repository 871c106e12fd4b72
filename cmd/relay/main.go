package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"certigen/internal/config"
	"certigen/internal/domain/relay"
	"certigen/internal/infra/mailer"
	"certigen/internal/infra/template"

	"github.com/gin-gonic/gin"
)

func main() {
	// Initialize structured logger
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	slog.Info("relay configuration loaded", "port", cfg.Relay.Port, "provider", cfg.Mail.Provider)

	// ==========================================
	// Dependency Injection (Manual Wiring)
	// ==========================================

	// Template Engine (embedded mail body templates)
	tmplEngine, err := template.NewEngine()
	if err != nil {
		slog.Error("failed to initialize template engine", "error", err)
		os.Exit(1)
	}

	// Mailer (SMTP by default, Resend as the hosted alternative)
	var mail relay.Mailer
	switch cfg.Mail.Provider {
	case "resend":
		mail = mailer.NewResendMailer(cfg.Mail.APIKey, cfg.Mail.FromAddress, cfg.Mail.FromName)
	default:
		mail = mailer.NewSMTPMailer(
			cfg.SMTP.Host,
			cfg.SMTP.Port,
			cfg.SMTP.Username,
			cfg.SMTP.Password,
			cfg.Mail.FromAddress,
			cfg.Mail.FromName,
		)
	}

	// Audit log (JSONL, one entry per delivery attempt)
	audit := relay.NewAuditLog(cfg.Mail.AuditLog)

	// Service + Handler
	relayService := relay.NewService(mail, tmplEngine, audit)
	relayHandler := relay.NewHandler(relayService)

	// Router. The relay has a single legacy-contract endpoint; it does not
	// share the API server's middleware stack.
	gin.SetMode(cfg.Server.Mode)
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(gin.Logger())
	relayHandler.RegisterRoutes(r)

	// ==========================================
	// HTTP Server with Graceful Shutdown
	// ==========================================

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Relay.Port),
		Handler:      r,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		slog.Info("relay starting", "address", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("relay failed to start", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down relay...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("relay forced to shutdown", "error", err)
		os.Exit(1)
	}

	slog.Info("relay exited gracefully")
}
