package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	gormlogger "gorm.io/gorm/logger"

	"github.com/funtube/funtube-server/internal/config"
	"github.com/funtube/funtube-server/internal/domain/channel"
	"github.com/funtube/funtube-server/internal/domain/user"
	"github.com/funtube/funtube-server/internal/domain/video"
	"github.com/funtube/funtube-server/internal/infrastructure/database"
	"github.com/funtube/funtube-server/internal/infrastructure/logger"
	"github.com/funtube/funtube-server/internal/infrastructure/observability"
	"github.com/funtube/funtube-server/internal/infrastructure/repository/historyrepo"
	"github.com/funtube/funtube-server/internal/infrastructure/repository/likerepo"
	"github.com/funtube/funtube-server/internal/infrastructure/repository/subscriptionrepo"
	"github.com/funtube/funtube-server/internal/infrastructure/repository/userrepo"
	"github.com/funtube/funtube-server/internal/infrastructure/repository/videorepo"
	"github.com/funtube/funtube-server/internal/infrastructure/storage"
	"github.com/funtube/funtube-server/internal/infrastructure/tokens"
	"github.com/funtube/funtube-server/internal/interfaces/httpserver"
)

type Application struct {
	httpServer *httpserver.HttpServer
	log        zerolog.Logger
}

func NewApplication(httpServer *httpserver.HttpServer, log zerolog.Logger) *Application {
	return &Application{
		httpServer: httpServer,
		log:        log,
	}
}

func (a *Application) Start(ctx context.Context) error {
	return a.httpServer.Run(ctx)
}

func main() {
	loadEnvFiles()

	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	log := logger.New(cfg)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTelemetry, err := observability.Setup(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("initialize observability")
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		if err := shutdownTelemetry(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("shutdown telemetry")
		}
	}()

	db, err := database.Connect(database.Config{
		DSN:             cfg.DatabaseURL,
		MaxIdleConns:    cfg.DBMaxIdleConns,
		MaxOpenConns:    cfg.DBMaxOpenConns,
		ConnMaxLifetime: cfg.DBConnLifetime,
		LogLevel:        gormlogger.Warn,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("connect database")
	}

	if err := database.AutoMigrate(ctx, db, log); err != nil {
		log.Fatal().Err(err).Msg("migrate database")
	}

	store, err := newStorage(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("initialize storage")
	}

	tokenManager := tokens.NewManager(tokens.Config{
		Secret: cfg.JWTSecret,
		Issuer: cfg.JWTIssuer,
		Expiry: cfg.JWTExpiry,
	})

	users := userrepo.New(db)
	videos := videorepo.New(db)
	likes := likerepo.New(db)
	history := historyrepo.New(db)
	subscriptions := subscriptionrepo.New(db)

	userService := user.NewService(users, tokenManager, log)
	videoService := video.NewService(cfg, videos, likes, history, subscriptions, users, store, log)
	channelService := channel.NewService(users, subscriptions, videoService, log)

	if cfg.SeedAdmin {
		if err := userService.EnsureAdmin(ctx, cfg.AdminUsername, cfg.AdminEmail, cfg.AdminPassword); err != nil {
			log.Fatal().Err(err).Msg("seed admin user")
		}
	}

	httpServer := httpserver.New(cfg, log, userService, videoService, channelService, tokenManager, store)
	app := NewApplication(httpServer, log)

	if err := app.Start(ctx); err != nil {
		log.Fatal().Err(err).Msg("application stopped with error")
	}

	log.Info().Msg("application exited cleanly")
}

type mediaStorage interface {
	video.Storage
	httpserver.HealthChecker
}

func newStorage(ctx context.Context, cfg *config.Config, log zerolog.Logger) (mediaStorage, error) {
	if cfg.IsS3Storage() {
		return storage.NewS3Storage(ctx, cfg, log)
	}
	return storage.NewLocalStorage(cfg, log)
}

func loadEnvFiles() {
	paths := []string{".env", "../.env"}
	for _, path := range paths {
		if _, err := os.Stat(path); err == nil {
			if err := godotenv.Overload(path); err != nil {
				fmt.Fprintf(os.Stderr, "warning: failed to load %s: %v\n", path, err)
			}
		}
	}
}
