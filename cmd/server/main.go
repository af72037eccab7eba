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

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/DigitalQatalyst/DQ-Intranet-DWS--sub009/internal/api"
	"github.com/DigitalQatalyst/DQ-Intranet-DWS--sub009/internal/catalog"
	"github.com/DigitalQatalyst/DQ-Intranet-DWS--sub009/internal/config"
	"github.com/DigitalQatalyst/DQ-Intranet-DWS--sub009/internal/db"
	"github.com/DigitalQatalyst/DQ-Intranet-DWS--sub009/internal/events"
	"github.com/DigitalQatalyst/DQ-Intranet-DWS--sub009/internal/membership"
	"github.com/DigitalQatalyst/DQ-Intranet-DWS--sub009/internal/observ"
	"github.com/DigitalQatalyst/DQ-Intranet-DWS--sub009/internal/repository/postgres"
	"github.com/DigitalQatalyst/DQ-Intranet-DWS--sub009/internal/repository/redis"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// ---------------------------------------------------------------
	// 1. Config and logger
	// ---------------------------------------------------------------
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger, err := observ.NewLogger(cfg.Env, cfg.LogLevel, cfg.Tracing.ServiceName)
	if err != nil {
		return fmt.Errorf("create logger: %w", err)
	}
	defer logger.Sync()

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// ---------------------------------------------------------------
	// 2. Tracing
	// ---------------------------------------------------------------
	shutdownTracing, err := observ.InitTracing(ctx, cfg.Tracing, cfg.Env, logger)
	if err != nil {
		return fmt.Errorf("init tracing: %w", err)
	}
	defer func() {
		flushCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownTracing(flushCtx); err != nil {
			logger.Warn("tracing shutdown failed", zap.Error(err))
		}
	}()

	// ---------------------------------------------------------------
	// 3. Postgres and migrations
	// ---------------------------------------------------------------
	database, err := db.New(ctx, cfg.Database, logger)
	if err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}
	defer database.Close()

	pool := database.Pool()
	if cfg.Database.MigrateOnStart {
		if err := db.Migrate(ctx, pool, logger); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}

	// ---------------------------------------------------------------
	// 4. Optional cache and event publisher
	// ---------------------------------------------------------------
	var cache api.ResponseCache = api.NopCache{}
	if cfg.Cache.RedisURL != "" {
		client, err := redis.NewClient(ctx, cfg.Cache.RedisURL)
		if err != nil {
			return fmt.Errorf("connect to redis: %w", err)
		}
		defer client.Close()
		cache = redis.NewResponseCache(client, cfg.Cache.TTL, logger)
		logger.Info("response cache enabled", zap.Duration("ttl", cfg.Cache.TTL))
	}

	var publisher events.Publisher = events.NopPublisher{}
	if brokers := cfg.KafkaBrokers(); len(brokers) > 0 {
		publisher = events.NewKafkaPublisher(events.NewKafkaWriter(brokers, cfg.Events.Topic), logger)
		logger.Info("event publishing enabled",
			zap.Strings("brokers", brokers),
			zap.String("topic", cfg.Events.Topic),
		)
	}
	defer publisher.Close()

	// ---------------------------------------------------------------
	// 5. Stores, services, handlers
	// ---------------------------------------------------------------
	guideStore := postgres.NewGuideStore(pool)
	searchStore := postgres.NewSearchStore(pool)
	auditStore := postgres.NewAuditStore(pool)
	courseStore := postgres.NewCourseStore(pool)
	communityStore := postgres.NewCommunityStore(pool)
	membershipStore := postgres.NewMembershipStore(pool)
	txManager := postgres.NewTxManager(pool)

	guides := catalog.NewGuideService(guideStore, searchStore, auditStore, txManager, logger)
	courses := catalog.NewCourseService(courseStore)
	memberships := membership.NewService(membershipStore, logger)

	router := api.NewRouter(api.Handlers{
		Health:     api.NewHealthHandler(database, logger),
		Catalog:    api.NewCatalogHandler(guides, cache, publisher, cfg.Auth.AdminRole, logger),
		Course:     api.NewCourseHandler(courses, cache, logger),
		Community:  api.NewCommunityHandler(communityStore, logger),
		Membership: api.NewMembershipHandler(memberships, membershipStore, communityStore, publisher, logger),
	}, api.RouterConfig{
		ServiceName: cfg.Tracing.ServiceName,
		JWTSecret:   cfg.Auth.JWTSecret,
		AdminRole:   cfg.Auth.AdminRole,
		CORSOrigins: cfg.CORSOrigins(),
	}, logger)

	// ---------------------------------------------------------------
	// 6. Serve until signalled, then drain
	// ---------------------------------------------------------------
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("starting DWS API",
			zap.String("port", cfg.Port),
			zap.String("env", cfg.Env),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("serve: %w", err)
		}
	case <-ctx.Done():
		logger.Info("shutting down")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
