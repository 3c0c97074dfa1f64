package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/v9"

	busevents "github.com/som23ya/workwale-core/internal/adapters/events"
	"github.com/som23ya/workwale-core/internal/adapters/http/api"
	"github.com/som23ya/workwale-core/internal/adapters/http/swagger"
	"github.com/som23ya/workwale-core/internal/adapters/repository"
	"github.com/som23ya/workwale-core/internal/adapters/ws"
	service "github.com/som23ya/workwale-core/internal/app"
	"github.com/som23ya/workwale-core/internal/config"
	"github.com/som23ya/workwale-core/internal/domain/matching"
	"github.com/som23ya/workwale-core/internal/domain/ranking"
	"github.com/som23ya/workwale-core/internal/scheduler"
	"github.com/som23ya/workwale-core/pkg/logger"
	"github.com/som23ya/workwale-core/pkg/metrics"
)

// HTTP server timeout constants.
const (
	readTimeout            = 10 * time.Second
	writeTimeout           = 10 * time.Second
	idleTimeout            = 60 * time.Second
	readHeaderTimeout      = 5 * time.Second
	shutdownTimeout        = 30 * time.Second
	serviceMetricsInterval = 5 * time.Second
)

func main() {
	// Disable default Go metrics collection to avoid duplicate metrics.
	prometheus.Unregister(collectors.NewGoCollector())
	prometheus.Unregister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	if err := logger.Init(); err != nil {
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		return
	}

	log := logger.Get()

	// Root context with cancel on SIGINT/SIGTERM.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Load configuration (defaults -> optional file -> env).
	cfg, err := config.Load(ctx)
	if err != nil {
		os.Stderr.WriteString("failed to load config: " + err.Error() + "\n")
		return
	}

	// Apply configured log level (fallback to info on invalid input).
	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		log.Warn(ctx, "invalid log_level; falling back to info", logger.String("log_level", cfg.LogLevel), logger.Error(err))
		_ = logger.SetLevelString("info")
	}

	// Event fan-out: in-process bus always; Redis pub/sub when configured.
	bus := busevents.NewBus()
	defer bus.Close()
	emitter := busevents.Emitter(bus)
	if cfg.RedisAddr != "" {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		defer rdb.Close()
		emitter = busevents.Multi(bus, busevents.NewRedisEmitter(rdb))
		log.Info(ctx, "redis event emitter enabled", logger.String("addr", cfg.RedisAddr))
	}

	opts := []service.Option{
		service.WithLogger(log),
		service.WithWorkerCount(cfg.WorkerCount),
		service.WithQueueSize(cfg.RescoreQueueSize),
		service.WithScoreParallelism(cfg.ScoreParallelism),
		service.WithScoreDeadline(time.Duration(cfg.ScoreDeadlineMS) * time.Millisecond),
		service.WithEngine(matchingEngine(cfg)),
		service.WithRanker(rankerFromConfig(cfg)),
		service.WithMaxPageLimit(cfg.MaxPageLimit),
		service.WithEmitter(emitter),
	}

	// Postgres persistence for match sets and applications when configured;
	// the in-memory store remains the default.
	if cfg.PostgresDSN != "" {
		pool, perr := pgxpool.New(ctx, cfg.PostgresDSN)
		if perr != nil {
			os.Stderr.WriteString("failed to connect to postgres: " + perr.Error() + "\n")
			return
		}
		defer pool.Close()
		pg := repository.NewPostgres(pool)
		opts = append(opts,
			service.WithMatchStore(pg),
			service.WithApplicationStore(pg),
		)
		log.Info(ctx, "postgres store enabled")
	}

	svc := service.New(opts...)
	if err := svc.Start(ctx); err != nil {
		os.Stderr.WriteString("failed to start service: " + err.Error() + "\n")
		return
	}
	defer svc.Stop()

	// Periodic full rescore sweep.
	sched := scheduler.New(svc, cfg.RescoreCronSpec)
	if err := sched.Start(ctx); err != nil {
		os.Stderr.WriteString("failed to start scheduler: " + err.Error() + "\n")
		return
	}
	defer sched.Stop()

	// WebSocket fan-out of domain events.
	hub := ws.NewHub()
	go hub.Run(ctx)
	go ws.Forward(ctx, hub, bus.Subscribe())

	// Service metrics updater.
	go startServiceMetricsUpdater(ctx, svc)

	// HTTP mux and routes.
	mux := http.NewServeMux()

	swagger.Register(ctx, mux)

	apiServer := api.NewServer(svc, svc)
	apiServer.Register(mux)

	mux.Handle("GET /ws", ws.NewHandler(hub))

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           mux,
		ReadTimeout:       readTimeout,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       idleTimeout,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	go func() {
		log.Info(ctx, "starting HTTP server", logger.String("addr", cfg.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			os.Stderr.WriteString("HTTP server failed: " + err.Error() + "\n")
			return
		}
	}()

	<-ctx.Done()
	log.Info(ctx, "shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error(ctx, "server shutdown failed", logger.Error(err))
	}

	log.Info(ctx, "server stopped")
}

// matchingEngine builds the scoring engine with configured feature weights.
func matchingEngine(cfg *config.Config) *matching.Engine {
	return matching.New(matching.WithWeights(matching.Weights{
		Skill:    cfg.SkillWeight,
		Location: cfg.LocationWeight,
		Salary:   cfg.SalaryWeight,
		WorkType: cfg.WorkTypeWeight,
	}))
}

// rankerFromConfig builds the default ranker with the configured score floor.
func rankerFromConfig(cfg *config.Config) *ranking.Ranker {
	return ranking.New(ranking.WithFloor(cfg.ScoreFloor))
}

// startServiceMetricsUpdater refreshes queue and worker gauges on a ticker.
func startServiceMetricsUpdater(ctx context.Context, svc *service.Service) {
	ticker := time.NewTicker(serviceMetricsInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			updateServiceMetrics(svc)
		}
	}
}

// updateServiceMetrics reads current stats and pushes them to the gauges.
func updateServiceMetrics(svc *service.Service) {
	stats := svc.GetStats()

	if queueLen, ok := stats["queueLength"].(int); ok {
		metrics.UpdateQueueSize(queueLen)
	}
	if workerCount, ok := stats["workerCount"].(int); ok {
		metrics.UpdateWorkerCount(workerCount)
	}
}
