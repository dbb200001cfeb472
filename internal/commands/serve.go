package commands

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"admin-dashboard-api/internal/cache"
	"admin-dashboard-api/internal/database"
	"admin-dashboard-api/internal/kanban"
	"admin-dashboard-api/internal/middleware"
	"admin-dashboard-api/internal/realtime"
	"admin-dashboard-api/internal/routes"

	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP and websocket API",
	RunE:  withDB(runServe),
}

func init() {
	serveCmd.Flags().String("port", "", "listen port (overrides PORT)")
}

// boardCache picks Redis when configured so several API instances share one
// snapshot; otherwise the cache lives in process.
func boardCache(ctx context.Context) (cache.Cache, func()) {
	if cfg.RedisAddr == "" {
		mem := cache.NewMemory()
		stop := make(chan struct{})
		go func() {
			t := time.NewTicker(time.Minute)
			defer t.Stop()
			for {
				select {
				case <-stop:
					return
				case <-t.C:
					mem.PurgeExpired()
				}
			}
		}()
		return mem, func() { close(stop) }
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		log.WithError(err).WithField("addr", cfg.RedisAddr).Warn("redis unreachable; board reads will fall through to the database")
	}
	return cache.NewRedis(client, "admin-dashboard:"), func() { _ = client.Close() }
}

func runServe(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	c, closeCache := boardCache(ctx)
	defer closeCache()

	hub := realtime.NewHub()
	svc := kanban.NewService(kanban.NewStore(database.GetDB()), c, cfg.BoardCacheTTL, hub)
	if cfg.SeedOnStart {
		if _, err := svc.Seed(ctx); err != nil {
			return err
		}
	}

	limiter := middleware.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst)
	go func() {
		t := time.NewTicker(5 * time.Minute)
		defer t.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-t.C:
				limiter.Cleanup(10 * time.Minute)
			}
		}
	}()

	ginRoutes := routes.SetupRoutes(routes.Deps{
		Kanban:         svc,
		Hub:            hub,
		Limiter:        limiter,
		PersistTimeout: cfg.PersistTimeout,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           ginRoutes,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.WithField("addr", srv.Addr).Info("server starting")
		log.Info("API endpoints: POST /api/login, GET /api/kanban, POST /api/kanban/moves, GET /api/ws, GET /health, GET /metrics")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return err
		}
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
