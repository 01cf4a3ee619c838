// @title                       Blog API
// @version                     1.0
// @description                 Multi-tenant blogging backend: accounts, JWT sessions and owner-scoped posts.
// @BasePath                    /
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
// @description                 Type "Bearer" followed by an access token.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/inkpost/blog-api/internal/api"
	"github.com/inkpost/blog-api/internal/core/ports"
	"github.com/inkpost/blog-api/internal/core/service"
	"github.com/inkpost/blog-api/internal/infrastructure/config"
	mongodb "github.com/inkpost/blog-api/internal/infrastructure/db/mongo"
	redisdb "github.com/inkpost/blog-api/internal/infrastructure/db/redis"
	"github.com/inkpost/blog-api/internal/infrastructure/http/handlers"
	"github.com/inkpost/blog-api/internal/infrastructure/storage"
	"github.com/inkpost/blog-api/pkg/logger"
)

const shutdownTimeout = 10 * time.Second

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	cfg, err := config.Load(ctx)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  cfg.IsDevelopment(),
		Service: "blog-api",
	})

	if err := run(ctx, cfg, log); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}

func run(ctx context.Context, cfg *config.Config, log zerolog.Logger) error {
	mongoClient, db, err := mongodb.Connect(ctx, mongodb.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database})
	if err != nil {
		return err
	}
	defer func() {
		if err := mongoClient.Disconnect(context.Background()); err != nil {
			log.Warn().Err(err).Msg("mongo disconnect")
		}
	}()

	if err := mongodb.EnsureIndexes(ctx, db); err != nil {
		return err
	}

	checks := map[string]handlers.Check{"mongo": handlers.MongoCheck(db)}

	rdb, err := redisdb.Connect(ctx, redisdb.Config{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		return err
	}
	var idem ports.IdempotencyStore
	if rdb != nil {
		defer rdb.Close()
		idem = redisdb.NewIdempotencyStore(rdb)
		checks["redis"] = handlers.RedisCheck(rdb)
	} else {
		log.Info().Msg("redis disabled: Idempotency-Key headers are ignored")
	}

	deps := api.Dependencies{Logger: &log, HealthChecks: checks}

	var uploader ports.Uploader
	switch cfg.Upload.Backend {
	case config.UploadS3:
		s3Uploader, err := storage.NewS3Uploader(ctx, storage.S3Config{
			Bucket:    cfg.Upload.S3Bucket,
			Region:    cfg.Upload.S3Region,
			Endpoint:  cfg.Upload.S3Endpoint,
			AccessKey: cfg.Upload.S3AccessKey,
			SecretKey: cfg.Upload.S3SecretKey,
			PublicURL: cfg.Upload.S3PublicURL,
		})
		if err != nil {
			return err
		}
		uploader = s3Uploader
	default:
		local, err := storage.NewLocalUploader(cfg.Upload.Dir, cfg.Upload.URLPrefix)
		if err != nil {
			return err
		}
		uploader = local
		deps.MediaDir = local.Dir()
		deps.MediaPrefix = local.URLPrefix()
	}

	tokens, err := service.NewTokenService(service.TokenConfig{
		AccessSecret:       cfg.Auth.AccessSecret,
		RefreshSecret:      cfg.Auth.RefreshSecret,
		VerificationSecret: cfg.Auth.VerificationSecret,
		ResetSecret:        cfg.Auth.ResetSecret,
		Algorithm:          cfg.Auth.Algorithm,
		AccessTTL:          cfg.Auth.AccessTTL(),
		RefreshTTL:         cfg.Auth.RefreshTTL(),
	})
	if err != nil {
		return err
	}

	users := mongodb.NewUserRepository(db)
	blogs := mongodb.NewBlogRepository(db)

	deps.AuthService = service.NewAuthService(users, service.NewBcryptHasher(cfg.Auth.BcryptCost), tokens, log)
	deps.BlogService = service.NewBlogService(blogs, uploader, idem, log)

	e := api.NewRouter(deps)

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("port", cfg.Port).Str("upload_backend", cfg.Upload.Backend).Msg("http server listening")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return e.Shutdown(shutdownCtx)
}
