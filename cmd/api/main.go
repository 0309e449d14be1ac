package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"reportdesk/internal/auth"
	"reportdesk/internal/config"
	"reportdesk/internal/database"
	"reportdesk/internal/handlers"
	"reportdesk/internal/queue"
	"reportdesk/internal/router"
	"reportdesk/internal/storage"
	"reportdesk/pkg/logger"
)

func main() {
	// config + logger
	_ = godotenv.Load()
	cfg := config.Load()
	l := logger.New(cfg.Env)

	// db
	pool, err := database.Open(context.Background(), cfg)
	if err != nil {
		l.Fatal().Err(err).Msg("db connect failed")
	}
	defer pool.Close()

	// optional notification event stream
	var producer *queue.Producer
	if cfg.Kafka.Broker != "" {
		producer = queue.New(cfg.Kafka.Broker, cfg.Kafka.Topic, cfg.Kafka.Username, cfg.Kafka.Password)
		defer producer.Close()
		l.Info().Str("broker", cfg.Kafka.Broker).Str("topic", cfg.Kafka.Topic).Msg("notification events enabled")
	}

	// optional object storage
	var uploader storage.Uploader
	if cfg.CloudinaryURL != "" {
		up, err := storage.NewCloudinary(cfg.CloudinaryURL)
		if err != nil {
			l.Fatal().Err(err).Msg("cloudinary init failed")
		}
		uploader = up
	}

	// optional OIDC login
	var verifier handlers.IdentityVerifier
	if cfg.OIDC.Secret != "" {
		verifier = auth.NewOIDCVerifier(cfg.OIDC.Secret, cfg.OIDC.Issuer, cfg.OIDC.Audience)
		l.Info().Str("issuer", cfg.OIDC.Issuer).Msg("oidc login enabled")
	}

	// http
	r := router.New(router.Deps{
		Log:      l,
		DB:       pool,
		Cfg:      cfg,
		Producer: producer,
		Uploader: uploader,
		Verifier: verifier,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		l.Info().Str("addr", srv.Addr).Msg("api listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			l.Fatal().Err(err).Msg("server error")
		}
	}()

	// graceful shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = srv.Shutdown(ctx)
	l.Info().Msg("shutdown complete")
}
