package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"

	"github.com/yene-farm/yene-farm/cmd/yenefarm/cli"
	"github.com/yene-farm/yene-farm/internal/app"
	"github.com/yene-farm/yene-farm/internal/auth"
	"github.com/yene-farm/yene-farm/internal/observability"
	"github.com/yene-farm/yene-farm/internal/platform/cache"
	"github.com/yene-farm/yene-farm/internal/platform/db"
)

const usage = `usage: yenefarm [serve | migrate | create-admin -email <email>]`

func main() {
	if app.InTestMode() {
		slog.Default().Info("test mode detected, skipping runtime startup")
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := app.LoadConfig()
	if err != nil {
		slog.Default().Error("load config", slog.Any("error", err))
		os.Exit(1)
	}
	logger := app.NewLogger(cfg)

	command, args := "serve", []string(nil)
	if len(os.Args) > 1 {
		command, args = os.Args[1], os.Args[2:]
	}

	switch command {
	case "serve":
		err = serve(ctx, cfg, logger)
	case "migrate":
		err = migrate(ctx, cfg, logger)
	case "create-admin":
		err = createAdmin(ctx, cfg, logger, args)
	default:
		err = fmt.Errorf("unknown command %q\n%s", command, usage)
	}
	if err != nil {
		logger.Error(command, slog.Any("error", err))
		os.Exit(1)
	}
}

func serve(ctx context.Context, cfg *app.Config, logger *slog.Logger) error {
	if cfg.WeakJWTSecret() {
		logger.Warn("JWT_SECRET is the public default; set a private value before exposing this server")
	}

	dbpool, err := db.New(ctx, cfg.PGDSN)
	if err != nil {
		return err
	}
	defer dbpool.Close()

	redisClient, err := cache.New(ctx, cfg.RedisAddr)
	if err != nil {
		return err
	}
	if redisClient == nil {
		logger.Info("REDIS_ADDR not set, token revocation disabled")
	} else {
		defer func() {
			if err := redisClient.Close(); err != nil {
				logger.Warn("redis close", slog.Any("error", err))
			}
		}()
	}

	router, err := app.NewAPI(app.APIParams{
		Logger:  logger,
		Config:  cfg,
		Metrics: observability.NewMetrics(),
		Stores:  app.NewPGStores(dbpool, redisClient),
		Ready:   readiness(dbpool, redisClient),
	})
	if err != nil {
		return err
	}

	server := &http.Server{
		Addr:         cfg.AppAddr,
		Handler:      router,
		ReadTimeout:  cfg.AppReadTimeout,
		WriteTimeout: cfg.AppWriteTimeout,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("starting http server", slog.String("addr", cfg.AppAddr), slog.String("env", cfg.AppEnv))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.AppShutdownTimeout)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

func readiness(pool *pgxpool.Pool, redisClient *redis.Client) app.ReadinessCheck {
	return func(ctx context.Context) error {
		g, gctx := errgroup.WithContext(ctx)
		g.Go(func() error { return pool.Ping(gctx) })
		if redisClient != nil {
			g.Go(func() error { return redisClient.Ping(gctx).Err() })
		}
		return g.Wait()
	}
}

func migrate(ctx context.Context, cfg *app.Config, logger *slog.Logger) error {
	dbpool, err := db.New(ctx, cfg.PGDSN)
	if err != nil {
		return err
	}
	defer dbpool.Close()

	if err := db.ApplySchema(ctx, dbpool); err != nil {
		return err
	}
	logger.Info("schema applied")
	return nil
}

func createAdmin(ctx context.Context, cfg *app.Config, logger *slog.Logger, args []string) error {
	fs := flag.NewFlagSet("create-admin", flag.ContinueOnError)
	email := fs.String("email", "", "admin email address")
	first := fs.String("first-name", "", "first name")
	last := fs.String("last-name", "", "last name")
	if err := fs.Parse(args); err != nil {
		return err
	}
	password := os.Getenv("YENEFARM_ADMIN_PASSWORD")
	if password == "" {
		return errors.New("YENEFARM_ADMIN_PASSWORD must be set")
	}

	dbpool, err := db.New(ctx, cfg.PGDSN)
	if err != nil {
		return err
	}
	defer dbpool.Close()

	admins := cli.NewAdminCLI(auth.NewRepository(dbpool), auth.NewPasswordHasher(cfg.BcryptCost))
	user, err := admins.CreateAdmin(ctx, cli.AdminInput{Email: *email, Password: password, FirstName: *first, LastName: *last})
	if err != nil {
		return err
	}
	logger.Info("admin created", slog.String("id", user.ID), slog.String("email", user.Email))
	return nil
}
