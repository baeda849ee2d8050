// Package bootstrap wires all dependencies and starts the application.
package bootstrap

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/calcstack/calcd/adapters/auth"
	"github.com/calcstack/calcd/adapters/clock"
	calchttp "github.com/calcstack/calcd/adapters/http"
	"github.com/calcstack/calcd/adapters/idgen"
	"github.com/calcstack/calcd/adapters/memory"
	"github.com/calcstack/calcd/adapters/metrics"
	"github.com/calcstack/calcd/adapters/random"
	rediscalc "github.com/calcstack/calcd/adapters/redis"
	"github.com/calcstack/calcd/adapters/solver"
	"github.com/calcstack/calcd/adapters/sqlite"
	"github.com/calcstack/calcd/app"
	"github.com/calcstack/calcd/config"
	"github.com/calcstack/calcd/domain/ratelimit"
	"github.com/calcstack/calcd/ports"
)

// App represents the running application.
type App struct {
	Logger     zerolog.Logger
	Config     *config.Holder
	DB         *sqlite.DB
	Redis      *redis.Client
	HTTPServer *http.Server
	Metrics    *metrics.Collector
	Service    *app.CalcService

	rateLimitStore ports.RateLimitStore
	auditStore     ports.AuditStore
	auditRecorder  *app.BufferedAuditRecorder
	stopJanitor    chan struct{}
}

// New creates and initializes the application from a loaded config holder.
func New(holder *config.Holder) (*App, error) {
	cfg := holder.Get()
	logger := setupLogger(cfg.Logging)

	logger.Info().Msg("initializing calcd")

	a := &App{
		Logger:      logger,
		Config:      holder,
		stopJanitor: make(chan struct{}),
	}

	if err := a.initStores(cfg); err != nil {
		return nil, fmt.Errorf("init stores: %w", err)
	}

	if cfg.Metrics.Enabled {
		a.Metrics = metrics.New()
		logger.Info().Msg("prometheus metrics enabled")
	}

	a.initService(cfg)
	a.initHTTPServer(cfg)

	// Hot reload: API keys and the keyed multiplier apply without
	// restart; everything else needs one.
	holder.OnChange(func(c *config.Config) {
		a.Service.UpdateConfig(dynamicConfig(c))
	})

	return a, nil
}

// initStores opens the sqlite database and selects the rate limit
// backend per the configured driver.
func (a *App) initStores(cfg *config.Config) error {
	switch cfg.Database.Driver {
	case "memory":
		a.rateLimitStore = memory.NewRateLimitStore()

	case "redis":
		a.Redis = redis.NewClient(&redis.Options{
			Addr:     cfg.Database.Redis.Addr,
			Password: cfg.Database.Redis.Password,
			DB:       cfg.Database.Redis.DB,
		})
		var opts []rediscalc.Option
		if cfg.Database.Redis.Prefix != "" {
			opts = append(opts, rediscalc.WithPrefix(cfg.Database.Redis.Prefix))
		}
		a.rateLimitStore = rediscalc.NewRateLimitStore(a.Redis, opts...)

	case "sqlite":
		// Limiter windows live next to the audit records
	default:
		return fmt.Errorf("unknown database driver %q", cfg.Database.Driver)
	}

	// Audit records always persist; memory mode keeps them in-process.
	if cfg.Database.Driver == "memory" {
		a.auditStore = memory.NewAuditStore()
		return nil
	}

	db, err := sqlite.Open(cfg.Database.DSN)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	if err := db.Migrate(); err != nil {
		db.Close()
		return fmt.Errorf("migrate database: %w", err)
	}
	a.DB = db
	a.auditStore = sqlite.NewAuditStore(db)
	if a.rateLimitStore == nil {
		a.rateLimitStore = sqlite.NewRateLimitStore(db)
	}
	return nil
}

func (a *App) initService(cfg *config.Config) {
	a.auditRecorder = app.NewBufferedAuditRecorder(
		a.auditStore, a.Logger, a.Metrics,
		cfg.Audit.BatchSize, cfg.Audit.FlushInterval,
	)

	sol := solver.New(solver.Config{
		GatewayURL:   cfg.Solver.GatewayURL,
		APIKey:       cfg.Solver.APIKey,
		Model:        cfg.Solver.Model,
		Timeout:      cfg.Solver.Timeout,
		GatewayRPS:   cfg.Solver.GatewayRPS,
		GatewayBurst: cfg.Solver.GatewayBurst,
	})

	limits := map[string]ratelimit.Config{}
	if cfg.RateLimit.Enabled {
		for name, limit := range cfg.RateLimit.Limits {
			limits[name] = ratelimit.Config{
				Limit:  limit.PerMinute,
				Window: time.Minute,
			}
		}
	}

	a.Service = app.NewCalcService(app.Deps{
		RateLimit: a.rateLimitStore,
		Audit:     a.auditRecorder,
		Solver:    sol,
		Clock:     clock.Real{},
		Random:    random.Real{},
		IDGen:     idgen.UUID{},
		Metrics:   a.Metrics,
		Logger:    a.Logger,
	}, dynamicConfig(cfg), app.DefaultEndpoints(limits))
}

// dynamicConfig extracts the hot-reloadable slice of the config.
func dynamicConfig(cfg *config.Config) app.DynamicConfig {
	keys := make([]app.APIKey, 0, len(cfg.Auth.Keys))
	for _, k := range cfg.Auth.Keys {
		keys = append(keys, app.APIKey{ID: k.ID, Hash: []byte(k.Hash)})
	}
	return app.DynamicConfig{
		Keys:            keys,
		KeyedMultiplier: cfg.RateLimit.KeyedMultiplier,
	}
}

func (a *App) initHTTPServer(cfg *config.Config) {
	tokens := auth.NewTokenService(cfg.Auth.JWTSecret, cfg.Auth.TokenExpiration)
	analytics := app.NewAnalyticsService(a.auditStore, clock.Real{}, a.Logger)
	adminHandler := calchttp.NewAdminHandler(analytics, tokens, a.Logger)

	handler := calchttp.NewCalcHandler(a.Service, a.Logger)
	health := calchttp.NewHealthHandler(a)

	router := calchttp.NewRouter(handler, health, a.Logger, calchttp.RouterConfig{
		MetricsEnabled: cfg.Metrics.Enabled,
		AdminHandler:   adminHandler.Routes(),
	})

	a.HTTPServer = &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}
}

// Ready reports whether the backing stores answer.
func (a *App) Ready(ctx context.Context) error {
	if a.DB != nil {
		if err := a.DB.PingContext(ctx); err != nil {
			return fmt.Errorf("sqlite: %w", err)
		}
	}
	if a.Redis != nil {
		if err := a.Redis.Ping(ctx).Err(); err != nil {
			return fmt.Errorf("redis: %w", err)
		}
	}
	return nil
}

// Run starts the HTTP server and the window janitor, then blocks until
// interrupted.
func (a *App) Run() error {
	go a.janitorLoop()

	errCh := make(chan error, 1)
	go func() {
		a.Logger.Info().
			Str("addr", a.HTTPServer.Addr).
			Msg("starting http server")
		if err := a.HTTPServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return fmt.Errorf("server error: %w", err)
	case sig := <-quit:
		a.Logger.Info().Str("signal", sig.String()).Msg("shutting down")
	}

	return a.Shutdown()
}

// janitorLoop purges expired rate limit windows so the store does not
// grow without bound.
func (a *App) janitorLoop() {
	interval := a.Config.Get().RateLimit.CleanupInterval
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			purged, err := a.rateLimitStore.Cleanup(ctx, time.Now())
			cancel()
			if err != nil {
				a.Logger.Error().Err(err).Msg("window cleanup failed")
				continue
			}
			if purged > 0 {
				a.Logger.Debug().Int64("purged", purged).Msg("expired windows purged")
			}
		case <-a.stopJanitor:
			return
		}
	}
}

// Shutdown gracefully stops the application.
func (a *App) Shutdown() error {
	close(a.stopJanitor)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if a.HTTPServer != nil {
		if err := a.HTTPServer.Shutdown(ctx); err != nil {
			a.Logger.Error().Err(err).Msg("http server shutdown failed")
		}
	}

	if a.auditRecorder != nil {
		if err := a.auditRecorder.Close(); err != nil {
			a.Logger.Error().Err(err).Msg("audit recorder close failed")
		}
	}

	if a.Redis != nil {
		a.Redis.Close()
	}
	if a.DB != nil {
		if err := a.DB.Close(); err != nil {
			return fmt.Errorf("close database: %w", err)
		}
	}

	a.Logger.Info().Msg("shutdown complete")
	return nil
}

func setupLogger(cfg config.LoggingConfig) zerolog.Logger {
	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	if cfg.Format == "console" {
		output := zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}
		return zerolog.New(output).With().Timestamp().Logger()
	}
	return zerolog.New(os.Stdout).With().Timestamp().Logger()
}
