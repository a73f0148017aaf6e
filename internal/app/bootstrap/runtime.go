package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/hobbyforge/storefront/internal/adapters/cache"
	eventadapter "github.com/hobbyforge/storefront/internal/adapters/events"
	httpadapter "github.com/hobbyforge/storefront/internal/adapters/http"
	identityadapter "github.com/hobbyforge/storefront/internal/adapters/identity"
	"github.com/hobbyforge/storefront/internal/adapters/notify"
	"github.com/hobbyforge/storefront/internal/adapters/postgres"
	"github.com/hobbyforge/storefront/internal/application"
	"github.com/hobbyforge/storefront/internal/ports"
)

type Runtime struct {
	cfg        Config
	logger     *slog.Logger
	httpServer *http.Server
	engine     *application.Engine
	cleanupFn  func(context.Context)
}

func NewRuntime(ctx context.Context, configPath string) (*Runtime, error) {
	cfg, err := LoadConfig(configPath)
	if err != nil {
		return nil, err
	}
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo})).With("service", cfg.ServiceID)
	slog.SetDefault(logger)

	db, err := postgres.Connect(ctx, cfg.DatabaseURL, postgres.PoolConfig{
		MaxOpenConns:    cfg.MaxDBConns,
		ConnMaxIdleTime: cfg.DBConnMaxIdle,
		ConnMaxLifetime: cfg.DBConnMaxLife,
	})
	if err != nil {
		return nil, err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	if err := postgres.RunMigrations(ctx, db); err != nil {
		_ = sqlDB.Close()
		return nil, err
	}
	repos := postgres.NewRepositories(db)

	var closers []io.Closer

	// The pending-action bridge needs storage scoped to the browsing
	// session. With redis configured the session survives a process restart
	// until its TTL lapses; without it an in-process store carries the same
	// contract for a single run.
	sessionID := uuid.NewString()
	var kv ports.KeyValue = cache.NewMemoryKeyValue()
	if cfg.RedisURL != "" {
		redisClient, redisErr := cache.Connect(ctx, cfg.RedisURL)
		if redisErr != nil {
			_ = sqlDB.Close()
			return nil, redisErr
		}
		kv = cache.NewRedisKeyValue(redisClient, sessionID, cfg.SessionTTL)
		closers = append(closers, redisClient)
	} else {
		logger.WarnContext(ctx, "redis not configured, session storage is in-process only")
	}
	bridge, err := application.NewPendingBridge(kv)
	if err != nil {
		_ = sqlDB.Close()
		return nil, err
	}

	provider := identityadapter.NewMemoryProvider()
	notifier := httpadapter.NewContextNotifier(notify.NewSlogNotifier(logger))
	navigator := httpadapter.NewContextNavigator(cfg.SignInPath)

	engine, err := application.NewEngine(application.Dependencies{
		Config: application.Config{
			ServiceName: cfg.ServiceID,
			TaxRate:     decimal.NewFromFloat(cfg.TaxRate),
		},
		Carts:     repos.Carts,
		Identity:  provider,
		Notifier:  notifier,
		Navigator: navigator,
		Bridge:    bridge,
		Logger:    logger,
	})
	if err != nil {
		_ = sqlDB.Close()
		return nil, err
	}

	publisher := ports.EventPublisher(eventadapter.NewLoggingPublisher(logger))
	if len(cfg.KafkaBrokers) > 0 {
		kafkaPublisher, pubErr := eventadapter.NewKafkaPublisher(eventadapter.KafkaConfig{
			Brokers:      cfg.KafkaBrokers,
			TopicByEvent: map[string]string{eventadapter.EventCartUpdated: cfg.KafkaTopicCartUpdated},
			RequiredAcks: cfg.KafkaRequiredAcks,
		})
		if pubErr != nil {
			logger.WarnContext(ctx, "kafka publisher disabled, using logging publisher", "error", pubErr)
		} else {
			publisher = kafkaPublisher
			closers = append(closers, kafkaPublisher)
		}
	}
	engine.Subscribe(eventadapter.NewCartEventBridge(publisher, provider, logger))

	handler := httpadapter.NewHandler(engine, bridge, repos.Products, provider)
	router := httpadapter.NewRouter(handler, logger)
	httpServer := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	return &Runtime{
		cfg:        cfg,
		logger:     logger,
		httpServer: httpServer,
		engine:     engine,
		cleanupFn: func(ctx context.Context) {
			for _, closer := range closers {
				_ = closer.Close()
			}
			_ = sqlDB.Close()
		},
	}, nil
}

func (r *Runtime) RunAPI(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()
	errCh := make(chan error, 1)

	go func() {
		if err := r.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
	case err := <-errCh:
		r.logger.ErrorContext(ctx, "runtime failure", "error", err)
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = r.httpServer.Shutdown(shutdownCtx)
	r.cleanupFn(shutdownCtx)
	return nil
}
