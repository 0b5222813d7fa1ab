package main // Entry point package

import (
	"context"
	"errors"
	stdlog "log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/iliyamo/cinema-booking/internal/config"
	"github.com/iliyamo/cinema-booking/internal/database"
	"github.com/iliyamo/cinema-booking/internal/handler"
	"github.com/iliyamo/cinema-booking/internal/logger"
	"github.com/iliyamo/cinema-booking/internal/middleware"
	"github.com/iliyamo/cinema-booking/internal/queue"
	"github.com/iliyamo/cinema-booking/internal/repository"
	"github.com/iliyamo/cinema-booking/internal/router"
	"github.com/iliyamo/cinema-booking/internal/service"
	"github.com/iliyamo/cinema-booking/internal/storage"
)

func main() {
	cfg := config.Load()
	log, err := logger.New(cfg.Env)
	if err != nil {
		stdlog.Fatalf("logger: %v", err)
	}
	defer func() { _ = log.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.Open(ctx, cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatal("database open failed", zap.Error(err))
	}
	defer db.Close()
	if cfg.DBMigrate {
		if err := database.Migrate(ctx, db); err != nil {
			log.Fatal("database migrate failed", zap.Error(err))
		}
		log.Info("database schema applied")
	}

	// Redis is optional: cache is skipped and the limiter runs in-process
	// without it.
	var rdb *redis.Client
	if rc := config.LoadRedisConfig(); rc.Addr != "" {
		rdb, err = config.NewRedisClient(ctx, rc)
		if err != nil {
			log.Warn("redis unavailable, continuing without it", zap.Error(err))
			rdb = nil
		} else {
			defer rdb.Close()
			log.Info("redis connected", zap.String("addr", rc.Addr))
		}
	}

	var publisher handler.EventPublisher
	if cfg.AMQPURL != "" {
		publisher = service.NewPublisher(cfg.AMQPURL, log)
		consumer := queue.NewConsumer(cfg.AMQPURL, "", log)
		go func() {
			if err := consumer.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
				log.Error("order consumer stopped", zap.Error(err))
			}
		}()
	} else {
		log.Info("RABBITMQ_URL not set, order events disabled")
	}

	users := repository.NewUserRepo(db)
	tokens := repository.NewTokenRepo(db)
	genres := repository.NewGenreRepo(db)
	actors := repository.NewActorRepo(db)
	halls := repository.NewCinemaHallRepo(db)
	movies := repository.NewMovieRepo(db)
	sessions := repository.NewMovieSessionRepo(db)
	orders := repository.NewOrderRepo(db)
	files := storage.NewLocalStore(cfg.Media.Root)

	e := echo.New()
	e.HideBanner = true
	router.UseCommon(e, log, cfg.Media)

	limit := middleware.NewTokenBucket(ctx, config.LoadRateLimitConfig(), rdb, log)
	cache := middleware.NewRedisCache(config.LoadCacheConfig(), rdb, log)

	router.RegisterRoutes(e, db, cfg.Media)
	router.RegisterAuth(e, handler.NewAuthHandler(cfg, users, tokens, log), cfg.JWTSecret, limit)
	router.RegisterCinema(e, router.CinemaHandlers{
		Catalog:  handler.NewCatalogHandler(genres, actors, halls, log),
		Movies:   handler.NewMovieHandler(movies, files, cfg.Media, log),
		Sessions: handler.NewMovieSessionHandler(sessions, movies, halls, cfg.Media, log),
		Orders:   handler.NewOrderHandler(orders, publisher, log),
	}, cfg.JWTSecret, cache, limit)

	addr := ":" + cfg.Port
	go func() {
		log.Info("listening", zap.String("addr", addr), zap.String("env", cfg.Env))
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("server failed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error("graceful shutdown failed", zap.Error(err))
	}
}
