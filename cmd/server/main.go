package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"syscall"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"

	"kasirinaja/frontend/internal/apiclient"
	"kasirinaja/frontend/internal/cache"
	"kasirinaja/frontend/internal/config"
	"kasirinaja/frontend/internal/data"
	"kasirinaja/frontend/internal/pos"
	"kasirinaja/frontend/internal/session"
	"kasirinaja/frontend/internal/store"
	"kasirinaja/frontend/internal/store/memory"
	pgstore "kasirinaja/frontend/internal/store/postgres"
	"kasirinaja/frontend/internal/web"
)

const purgeInterval = 10 * time.Minute

func main() {
	if err := newApp().Run(os.Args); err != nil {
		log.WithError(err).Fatal("kasirweb stopped")
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:  "kasirweb",
		Usage: "POS web frontend for the Kasirinaja API",
		Commands: []*cli.Command{
			{
				Name:   "serve",
				Usage:  "serve the web pages",
				Action: func(c *cli.Context) error { return serve(c.Context) },
			},
			{
				Name:   "migrate",
				Usage:  "apply session store migrations to DATABASE_URL",
				Action: func(c *cli.Context) error { return migrate(c.Context) },
			},
		},
		Action: func(c *cli.Context) error { return serve(c.Context) },
	}
}

func loadConfig() (config.Config, error) {
	cfg := config.Load()
	cfg.ConfigureLogging()
	if err := validateSecurityConfig(cfg); err != nil {
		return cfg, fmt.Errorf("invalid security configuration: %w", err)
	}
	return cfg, nil
}

func validateSecurityConfig(cfg config.Config) error {
	if len(cfg.SessionSecret) < 32 {
		return fmt.Errorf("SESSION_SECRET must be set and at least 32 characters")
	}
	u, err := url.Parse(cfg.APIBaseURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("API_BASE_URL must be an absolute http(s) URL")
	}
	return nil
}

func migrate(ctx context.Context) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if cfg.DatabaseURL == "" {
		return errors.New("DATABASE_URL is not set; the in-memory session store needs no migrations")
	}
	pg, err := pgstore.New(ctx, cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer pg.Close()

	version, err := pg.Migrate()
	if err != nil {
		return err
	}
	log.WithField("version", version).Info("session store migrated")
	return nil
}

// openSessionStore picks postgres when DATABASE_URL is set and refuses to
// fall back to memory if it is unreachable.
func openSessionStore(ctx context.Context, cfg config.Config) (store.SessionRepository, func() error, error) {
	if cfg.DatabaseURL == "" {
		log.Info("session store: in-memory")
		return memory.New(), nil, nil
	}
	pg, err := pgstore.New(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, nil, fmt.Errorf("postgres unavailable and DATABASE_URL is set; refusing to start with in-memory fallback: %w", err)
	}
	if _, err := pg.Migrate(); err != nil {
		_ = pg.Close()
		return nil, nil, err
	}
	log.Info("session store: postgres")
	return pg, pg.Close, nil
}

// openQueryCache uses redis when it answers a ping and the in-process cache
// otherwise.
func openQueryCache(ctx context.Context, cfg config.Config) (cache.QueryCache, func() error) {
	if cfg.RedisAddr == "" {
		log.Info("query cache: memory")
		return cache.NewMemory(), nil
	}
	redisCache := cache.NewRedis(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	if err := redisCache.Ping(ctx); err != nil {
		log.WithError(err).Warn("redis unavailable, using memory cache")
		_ = redisCache.Close()
		return cache.NewMemory(), nil
	}
	log.Info("query cache: redis")
	return redisCache, redisCache.Close
}

// writeTimeout leaves room for a page that waits on one full API call.
func writeTimeout(cfg config.Config) time.Duration {
	return time.Duration(cfg.APITimeoutSeconds)*time.Second + 5*time.Second
}

// closers releases opened resources in reverse order.
type closers []func() error

func (c *closers) add(fn func() error) {
	if fn != nil {
		*c = append(*c, fn)
	}
}

func (c closers) closeAll() {
	for i := len(c) - 1; i >= 0; i-- {
		if err := c[i](); err != nil {
			log.WithError(err).Warn("close error")
		}
	}
}

// purgeSessions drops expired sessions, and the POS workspaces they owned,
// until ctx is done.
func purgeSessions(ctx context.Context, sessions *session.Manager, workspaces *pos.Registry, every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := sessions.Purge(ctx)
			if err != nil {
				log.WithError(err).Warn("purge expired sessions")
			} else if n > 0 {
				log.WithField("count", n).Debug("purged expired sessions")
			}
			dropped := workspaces.Prune(func(id string) bool { return sessions.Alive(ctx, id) })
			if dropped > 0 {
				log.WithField("count", dropped).Debug("dropped workspaces of ended sessions")
			}
		}
	}
}

func serve(ctx context.Context) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	startCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	var opened closers
	defer func() { opened.closeAll() }()

	repo, closeRepo, err := openSessionStore(startCtx, cfg)
	if err != nil {
		return err
	}
	opened.add(closeRepo)
	queryCache, closeCache := openQueryCache(startCtx, cfg)
	opened.add(closeCache)

	client, err := apiclient.New(cfg.APIBaseURL, time.Duration(cfg.APITimeoutSeconds)*time.Second)
	if err != nil {
		return err
	}
	sessions, err := session.NewManager(cfg.SessionSecret, time.Duration(cfg.SessionTTLMinutes)*time.Minute, repo)
	if err != nil {
		return err
	}
	workspaces := pos.NewRegistry()
	site, err := web.New(web.Options{
		Data:               data.New(client, queryCache, time.Duration(cfg.QueryCacheTTLSeconds)*time.Second),
		Sessions:           sessions,
		Workspaces:         workspaces,
		CookieSecure:       cfg.CookieSecure,
		LoginRatePerMinute: cfg.LoginRatePerMinute,
		CSRFSecret:         cfg.SessionSecret,
	})
	if err != nil {
		return err
	}

	server := &http.Server{
		Addr:              cfg.Address(),
		Handler:           site.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      writeTimeout(cfg),
		IdleTimeout:       60 * time.Second,
	}

	janitorCtx, stopJanitor := context.WithCancel(context.Background())
	defer stopJanitor()
	go purgeSessions(janitorCtx, sessions, workspaces, purgeInterval)

	serverErr := make(chan error, 1)
	go func() {
		log.WithFields(log.Fields{"addr": cfg.Address(), "api": cfg.APIBaseURL}).Info("POS frontend listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	select {
	case <-sig:
	case err := <-serverErr:
		return fmt.Errorf("server error: %w", err)
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 8*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Warn("shutdown error")
	}
	stopJanitor()
	log.Info("server stopped")
	return nil
}
