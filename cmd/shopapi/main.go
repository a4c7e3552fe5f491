package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"shopapi/internal/cache"
	"shopapi/internal/config"
	"shopapi/internal/http/handlers"
	applog "shopapi/internal/log"
	"shopapi/internal/repos"
)

func main() {
	// .env is optional; real environment variables win.
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		panic(err)
	}

	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	logger, err := applog.Init(cfg.LogLevel, cfg.LogFile)
	if err != nil {
		panic(err)
	}
	defer func() { _ = logger.Sync() }()
	cfg.Log()

	db, err := repos.OpenDB(cfg.DBDriver, cfg.DBDSN)
	if err != nil {
		logger.Fatal("db.open", zap.Error(err))
	}
	defer db.Close()
	if cfg.Seed {
		if err := repos.Seed(db); err != nil {
			logger.Fatal("db.seed", zap.Error(err))
		}
	}

	var rdb *redis.Client
	if cfg.RedisAddr != "" {
		ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		rdb, err = cache.NewRedis(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		cancel()
		if err != nil {
			logger.Warn("cache.disabled", zap.String("addr", cfg.RedisAddr), zap.Error(err))
		} else {
			defer rdb.Close()
			logger.Info("cache.enabled", zap.String("addr", cfg.RedisAddr))
		}
	}

	app := handlers.NewApp(cfg, handlers.NewDeps(db, cfg, rdb))

	go func() {
		sig := make(chan os.Signal, 1)
		signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
		<-sig
		logger.Info("server.shutdown")
		_ = app.ShutdownWithTimeout(10 * time.Second)
	}()

	logger.Info("server.start", zap.String("port", cfg.Port))
	if err := app.Listen(":" + cfg.Port); err != nil {
		logger.Fatal("server.listen", zap.Error(err))
	}
}
