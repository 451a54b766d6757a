package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"

	"github.com/vijay7733/roomgate/internal/access"
	auditrepo "github.com/vijay7733/roomgate/internal/audit/repo"
	"github.com/vijay7733/roomgate/internal/config"
	identityrepo "github.com/vijay7733/roomgate/internal/identity/repo"
	roomrepo "github.com/vijay7733/roomgate/internal/room/repo"
	"github.com/vijay7733/roomgate/internal/router"
	"github.com/vijay7733/roomgate/pkg/database"
	"github.com/vijay7733/roomgate/pkg/utilities"
)

func main() {
	// load .env file if present so os.Getenv picks values from it
	_ = godotenv.Load()

	// init logger
	lg, err := utilities.Init(utilities.ConfigFromEnv())
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to init logger: %v\n", err)
		os.Exit(1)
	}
	defer lg.Sync()

	sugar := lg.Sugar()
	sugar.Info("starting roomgate")

	cfg, err := config.FromEnv()
	if err != nil {
		// prod without explicit signing secrets refuses to start
		sugar.Fatalf("config: %v", err)
	}

	// init db
	sqlDB, err := database.Connect(database.ConfigFromEnv())
	if err != nil {
		sugar.Fatalf("db connect: %v", err)
	}
	defer sqlDB.Close()

	// wrap with sqlx for convenience in repos/services
	sqlxDB := sqlx.NewDb(sqlDB, "postgres")
	defer sqlxDB.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := ensureTables(ctx, sqlxDB); err != nil {
		sugar.Fatalf("ensure tables: %v", err)
	}

	// replay guard: shared via Redis when configured, in-process otherwise
	var guard access.ReplayGuard
	if cfg.RedisAddr != "" {
		client := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr, Password: cfg.RedisPassword})
		if err := client.Ping(ctx).Err(); err != nil {
			sugar.Fatalf("redis connect: %v", err)
		}
		defer client.Close()
		guard = access.NewRedisReplayGuard(client)
	} else {
		if cfg.IsProd() {
			sugar.Warn("no ROOMGATE_REDIS_ADDR set; replay guard is per-instance only")
		}
		guard = access.NewMemoryReplayGuard()
	}

	// mount http server
	handler := router.RegisterRoutes(sugar, sqlxDB, cfg, guard)
	srv := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: handler,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			sugar.Fatalf("http server failed: %v", err)
		}
	}()

	sugar.Infow("service is running", "addr", cfg.HTTPAddr, "env", cfg.Env)

	<-ctx.Done()

	sugar.Info("shutting down")

	doneCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(doneCtx); err != nil {
		sugar.Warnf("http server shutdown failed: %v", err)
	}
	if err := sqlDB.PingContext(doneCtx); err != nil {
		sugar.Warnf("db ping on shutdown failed: %v", err)
	}

	sugar.Info("goodbye")
}

func ensureTables(ctx context.Context, db *sqlx.DB) error {
	if err := identityrepo.NewIdentityRepo(db).EnsureTable(ctx); err != nil {
		return err
	}
	if err := roomrepo.NewRoomRepo(db).EnsureTable(ctx); err != nil {
		return err
	}
	return auditrepo.NewLogRepo(db).EnsureTable(ctx)
}
