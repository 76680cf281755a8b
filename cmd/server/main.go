// main wires the service: configuration, storage, cache, change stream, mail
// transport, and the HTTP surface. Business logic lives in the internal
// service packages.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"formdesk/internal/audit"
	"formdesk/internal/audit/stream"
	jwttoken "formdesk/internal/jwt_token"
	"formdesk/internal/label"
	labelstore "formdesk/internal/label/store"
	"formdesk/internal/message/handler"
	messagemetrics "formdesk/internal/message/metrics"
	"formdesk/internal/message/service"
	messagestore "formdesk/internal/message/store"
	"formdesk/internal/notify"
	"formdesk/internal/notify/attachments"
	"formdesk/internal/notify/smtp"
	"formdesk/internal/platform/config"
	"formdesk/internal/platform/httpserver"
	"formdesk/internal/platform/logger"
	"formdesk/internal/platform/postgres"
	"formdesk/internal/platform/redis"
	"formdesk/internal/settings"
	httptransport "formdesk/internal/transport/http"
)

func main() {
	log := logger.New()

	cfg, err := config.Load()
	if err != nil {
		log.Error("load configuration", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := postgres.Open(ctx, cfg.Postgres)
	if err != nil {
		log.Error("open postgres", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	// Settings, optionally cached. A missing Redis URL runs uncached.
	var optionStore settings.Store = settings.NewPostgres(db)
	redisClient, err := redis.New(cfg.Redis)
	if err != nil {
		log.Error("connect redis", "error", err)
		os.Exit(1)
	}
	if redisClient != nil {
		defer redisClient.Close()
		optionStore = settings.NewCached(optionStore, redisClient.Client, cfg.Redis.SettingsTTL, log)
	}
	optionSvc, err := settings.New(optionStore, settings.WithLogger(log))
	if err != nil {
		log.Error("build settings service", "error", err)
		os.Exit(1)
	}

	labelSvc, err := label.New(labelstore.NewPostgres(db), label.WithLogger(log))
	if err != nil {
		log.Error("build label service", "error", err)
		os.Exit(1)
	}

	// Audit trail, optionally mirrored onto Kafka.
	historyStore := messagestore.NewPostgresHistory(db)
	auditOpts := []audit.Option{audit.WithLogger(log)}
	if len(cfg.Kafka.Brokers) > 0 {
		changeStream, err := stream.NewKafka(ctx, cfg.Kafka.Brokers, cfg.Kafka.Topic, log)
		if err != nil {
			log.Error("connect kafka", "error", err)
			os.Exit(1)
		}
		defer func() {
			closeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = changeStream.Close(closeCtx)
		}()
		auditOpts = append(auditOpts, audit.WithStream(changeStream))
	}
	recorder, err := audit.NewRecorder(historyStore, auditOpts...)
	if err != nil {
		log.Error("build audit recorder", "error", err)
		os.Exit(1)
	}

	mailer, err := smtp.New(cfg.SMTP)
	if err != nil {
		log.Error("build smtp mailer", "error", err)
		os.Exit(1)
	}
	notifySvc, err := notify.New(
		mailer,
		attachments.NewDir(cfg.Notify.AttachmentDir, cfg.Notify.AttachmentBaseURL),
		optionSvc,
		recorder,
		notify.WithLogger(log),
		notify.WithDryRun(cfg.Notify.DryRun),
		notify.WithMetrics(notify.NewMetrics()),
	)
	if err != nil {
		log.Error("build notify service", "error", err)
		os.Exit(1)
	}

	messageSvc, err := service.New(
		messagestore.NewPostgresMessages(db),
		historyStore,
		labelSvc,
		optionSvc,
		recorder,
		service.WithLogger(log),
		service.WithMetrics(messagemetrics.New()),
		service.WithNotifier(notifySvc),
	)
	if err != nil {
		log.Error("build message service", "error", err)
		os.Exit(1)
	}

	tokens := jwttoken.NewService(cfg.Auth.JWTSigningKey, "formdesk")
	router := httptransport.NewRouter(handler.New(messageSvc, tokens, log), log)
	srv := httpserver.New(cfg.Server.Addr, router)

	go func() {
		log.Info("starting formdesk", "addr", cfg.Server.Addr, "dry_run", cfg.Notify.DryRun)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server error", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	log.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("graceful shutdown failed", "error", err)
		os.Exit(1)
	}
}
