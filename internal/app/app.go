package app

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/GlebRadaev/investadmin/internal/config"
	"github.com/GlebRadaev/investadmin/internal/handlers"
	"github.com/GlebRadaev/investadmin/internal/notify"
	"github.com/GlebRadaev/investadmin/internal/pg"
	"github.com/GlebRadaev/investadmin/internal/repo"
	"github.com/GlebRadaev/investadmin/internal/service"
	"github.com/GlebRadaev/investadmin/pkg/auth"
	"github.com/GlebRadaev/investadmin/pkg/clients"
	"github.com/GlebRadaev/investadmin/pkg/logger"
)

type ApplicationI interface {
	Start(ctx context.Context) error
	Wait(ctx context.Context, cancel context.CancelFunc) error
}

type Application struct {
	cfg      *config.Config
	api      *handlers.Handlers
	srv      *service.Services
	repo     *repo.Repositories
	notifier *notify.Dispatcher
	closers  []io.Closer

	// serverDone is closed once the HTTP server has drained in-flight requests.
	serverDone chan struct{}

	errCh chan error
	wg    sync.WaitGroup
	ready bool
}

func New() *Application {
	return &Application{
		errCh:      make(chan error),
		serverDone: make(chan struct{}),
	}
}

func (a *Application) Start(ctx context.Context) error {
	cfg := config.New()
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	err := logger.InitLogger(cfg)
	if err != nil {
		return fmt.Errorf("can't init logger: %w", err)
	}

	pool, err := getPgxpool(ctx, cfg)
	if err != nil {
		zap.L().Error("build pgx pool failed: ", zap.Error(err))
		return fmt.Errorf("can't build pgx pool: %w", err)
	}
	if err := pg.RunMigrations(pool); err != nil {
		zap.L().Error("migrations failed: ", zap.Error(err))
		return fmt.Errorf("can't run migrations: %w", err)
	}
	txManager := pg.NewTXManager(pool)

	senders, closers := buildSenders(cfg)
	a.closers = closers
	a.notifier = notify.NewDispatcher(cfg.NotifyWorkers, cfg.NotifyQueue, senders...)

	conn := pg.New(pool)
	a.cfg = cfg
	a.repo = repo.New(conn)
	a.srv = service.New(cfg, a.repo, txManager, a.notifier)
	a.api = handlers.New(a.srv, auth.NewJWTService(cfg.JWTSecret))

	if err = a.startHTTPServer(ctx); err != nil {
		return fmt.Errorf("can't start http server: %w", err)
	}
	a.startShutdownWatcher(ctx, pool.Close)

	a.ready = true
	zap.L().Info("all systems started successfully",
		zap.Int("senders", len(senders)), zap.String("depositApprovedStatus", cfg.DepositApprovedStatus))
	return nil
}

// buildSenders returns the configured notification senders and whatever must be closed
// with them. The log sender is always present.
func buildSenders(cfg *config.Config) ([]notify.Sender, []io.Closer) {
	senders := []notify.Sender{notify.LogSender{}}
	var closers []io.Closer

	if cfg.NotifyWebhookURL != "" {
		senders = append(senders, notify.NewWebhookSender(cfg.NotifyWebhookURL, clients.NewHTTPClient()))
	}
	if cfg.RedisAddress != "" {
		client := redis.NewClient(&redis.Options{Addr: cfg.RedisAddress})
		senders = append(senders, notify.NewRedisSender(client, cfg.RedisStream))
		closers = append(closers, client)
	}
	if len(cfg.KafkaBrokers) > 0 {
		writer := notify.NewKafkaWriter(cfg.KafkaBrokers, cfg.KafkaTopic)
		senders = append(senders, notify.NewKafkaSender(writer))
		closers = append(closers, writer)
	}
	return senders, closers
}

func getPgxpool(ctx context.Context, cfg *config.Config) (*pgxpool.Pool, error) {
	cfgpool, err := pgxpool.ParseConfig(cfg.Database)
	if err != nil {
		return nil, err
	}
	dbpool, err := pgxpool.NewWithConfig(ctx, cfgpool)
	if err != nil {
		return nil, err
	}
	if err = dbpool.Ping(ctx); err != nil {
		return nil, err
	}
	return dbpool, nil
}

func (a *Application) startHTTPServer(ctx context.Context) error {
	router := chi.NewRouter()
	a.api.InitRoutes(router)
	server := http.Server{
		Addr:              a.cfg.Address,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	a.wg.Add(1)
	go func() {
		defer a.wg.Done()
		defer close(a.serverDone)
		<-ctx.Done()

		sCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := server.Shutdown(sCtx); err != nil {
			zap.L().Warn("http server shutdown", zap.Error(err))
		}
	}()

	a.wg.Add(1)
	go func() {
		defer a.wg.Done()
		zap.L().Info("starting http server on port", zap.String("port", a.cfg.Address))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			a.errCh <- fmt.Errorf("http server exited with error: %w", err)
		}
	}()

	return nil
}

// startShutdownWatcher waits for the HTTP server to finish draining, then flushes queued
// notifications and releases broker clients and the pool.
func (a *Application) startShutdownWatcher(ctx context.Context, closePool func()) {
	a.wg.Add(1)
	go func() {
		defer a.wg.Done()
		<-ctx.Done()
		<-a.serverDone

		a.notifier.Close()
		for _, c := range a.closers {
			if err := c.Close(); err != nil {
				zap.L().Warn("failed to close notification sender", zap.Error(err))
			}
		}
		closePool()
	}()
}

func (a *Application) Wait(ctx context.Context, cancel context.CancelFunc) error {
	var appErr error

	var wg sync.WaitGroup
	wg.Add(1)

	go func() {
		defer wg.Done()

		for err := range a.errCh {
			cancel()
			zap.L().Error(err.Error())
			appErr = err
		}
	}()

	<-ctx.Done()
	a.wg.Wait()
	close(a.errCh)
	wg.Wait()

	return appErr
}
