package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/aneeshsrinivas/academy-api/internal/chat"
	"github.com/aneeshsrinivas/academy-api/internal/config"
	"github.com/aneeshsrinivas/academy-api/internal/logger"
	"github.com/aneeshsrinivas/academy-api/internal/notify"
	"github.com/aneeshsrinivas/academy-api/internal/server"
	"github.com/aneeshsrinivas/academy-api/internal/store"
	"github.com/aneeshsrinivas/academy-api/internal/utils"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg.Env, cfg.LogLevel)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	db, err := store.NewGormStore(cfg)
	if err != nil {
		logr.Fatal("failed to open store", zap.Error(err))
	}
	defer db.Close()

	var sender notify.Sender
	if cfg.SendgridAPIKey != "" {
		sender = notify.NewSendgridSender(cfg.SendgridAPIKey, cfg.MailFromName, cfg.MailFromAddr)
	} else {
		sender = notify.NewConsoleSender(logr)
	}
	queue := notify.NewQueue(sender, notify.QueueConfig{Workers: 2, Logger: logr})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	queue.Start(ctx)
	defer queue.Stop()

	mailer := notify.NewMailer(queue, cfg.AppBaseURL, cfg.ContactInbox)
	hub := chat.NewHub()

	var r2 *utils.R2Storage
	if cfg.R2Endpoint != "" {
		r2 = utils.NewR2Storage(cfg.R2AccessKeyID, cfg.R2SecretAccessKey, cfg.R2Endpoint, cfg.R2BucketName)
	}

	srv := server.NewServer(cfg, db, logr, mailer, hub, r2).NewHTTPServer()

	go func() {
		logr.Info("server starting", zap.String("addr", cfg.BindAddr), zap.String("env", cfg.Env))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logr.Fatal("server error", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logr.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logr.Error("graceful shutdown failed", zap.Error(err))
	}
}
