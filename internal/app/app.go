package app

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/GlebRadaev/fortvest/internal/config"
	"github.com/GlebRadaev/fortvest/internal/handlers"
	"github.com/GlebRadaev/fortvest/internal/idempotency"
	"github.com/GlebRadaev/fortvest/internal/pg"
	"github.com/GlebRadaev/fortvest/internal/repo"
	"github.com/GlebRadaev/fortvest/internal/service"
	"github.com/GlebRadaev/fortvest/pkg/logger"
)

type ApplicationI interface {
	Start(ctx context.Context) error
	Wait(ctx context.Context, cancel context.CancelFunc) error
}

type Application struct {
	cfg   *config.Config
	api   *handlers.Handlers
	srv   *service.Services
	repo  *repo.Repositories
	idem  idempotency.Store
	close []func()

	errCh chan error
	wg    sync.WaitGroup
	ready bool
}

func New() *Application {
	return &Application{
		errCh: make(chan error),
	}
}

func (a *Application) Start(ctx context.Context) error {
	cfg := config.New()

	err := logger.InitLogger(cfg)
	if err != nil {
		return fmt.Errorf("can't init logger: %w", err)
	}

	pool, err := getPgxpool(ctx, cfg)
	if err != nil {
		zap.L().Error("build pgx pool failed: ", zap.Error(err))
		return fmt.Errorf("can't build pgx pool: %w", err)
	}
	a.close = append(a.close, pool.Close)
	if err := pg.RunMigrations(pool); err != nil {
		zap.L().Error("migrations failed: ", zap.Error(err))
		return fmt.Errorf("can't run migrations: %w", err)
	}
	txManager := pg.NewTXManager(pool, cfg.TxTimeout)

	idem, err := a.idempotencyStore(ctx, cfg)
	if err != nil {
		return fmt.Errorf("can't connect idempotency store: %w", err)
	}

	conn := pg.New(pool)
	a.cfg = cfg
	a.idem = idem
	a.repo = repo.New(conn, txManager)
	a.srv = service.New(a.repo, cfg)
	a.api = handlers.New(a.srv, a.idem, cfg.IdempotencyTTL)

	if err = a.startHTTPServer(ctx); err != nil {
		return fmt.Errorf("can't start http server: %w", err)
	}

	a.startReconcile(ctx, a.srv.Reconcile)

	a.ready = true
	zap.L().Info("all systems started successfully")
	return nil
}

// idempotencyStore prefers Redis so replays survive restarts and are shared between replicas.
func (a *Application) idempotencyStore(ctx context.Context, cfg *config.Config) (idempotency.Store, error) {
	if cfg.RedisAddr == "" {
		zap.L().Info("REDIS_ADDR not set, keeping idempotency keys in memory")
		return idempotency.NewMemoryStore(cfg.IdempotencyTTL), nil
	}
	client, err := idempotency.ConnectRedis(ctx, cfg.RedisAddr, cfg.RedisPassword)
	if err != nil {
		zap.L().Error("redis connection failed: ", zap.Error(err))
		return nil, err
	}
	a.close = append(a.close, func() {
		if err := client.Close(); err != nil {
			zap.L().Error("can't close redis client", zap.Error(err))
		}
	})
	return idempotency.NewRedisStore(client), nil
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
		<-ctx.Done()

		sCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := server.Shutdown(sCtx); err != nil {
			zap.L().Error("http server shutdown failed", zap.Error(err))
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

type runner interface {
	Run(ctx context.Context)
}

// startReconcile tracks the sweep loop so Wait only releases the pool after it stops.
func (a *Application) startReconcile(ctx context.Context, r runner) {
	a.wg.Add(1)
	go func() {
		defer a.wg.Done()
		r.Run(ctx)
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

	for i := len(a.close) - 1; i >= 0; i-- {
		a.close[i]()
	}

	return appErr
}
