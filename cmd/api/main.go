package main

import (
	"context"
	"database/sql"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"ordersvc/pkg/api"
	"ordersvc/pkg/config"
	"ordersvc/pkg/logger"
	"ordersvc/pkg/order"
	pg "ordersvc/pkg/order/postgres"
	"ordersvc/pkg/order/rediscache"
	"ordersvc/pkg/otel"
)

// @title Orders REST API Service
// @version 1.0
// @description Service for managing customer orders and their items
// @BasePath /
func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	zlog, err := logger.New(cfg.LogLevel)
	if err != nil {
		log.Fatalf("init logger: %v", err)
	}
	defer zlog.Sync()

	tp, shutdownTracing, err := otel.InitTracing(zlog, otel.Config{
		ServiceName: "ordersvc",
		Host:        cfg.OtelHost,
		Probability: 1.0,
	})
	if err != nil {
		zlog.Fatal("init tracing", zap.Error(err))
	}
	defer shutdownTracing(context.Background())
	tracer := tp.Tracer("ordersvc")

	db, err := sql.Open("postgres", cfg.DatabaseURL)
	if err != nil {
		zlog.Fatal("db connect", zap.Error(err))
	}
	defer db.Close()
	if err := pg.Migrate(db); err != nil {
		zlog.Fatal("db migrate", zap.Error(err))
	}

	var repo order.Repository = pg.New(db)
	if cfg.RedisAddr != "" {
		rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		repo = rediscache.New(repo, rdb, cfg.CacheTTL)
		zlog.Info("order cache enabled", zap.String("addr", cfg.RedisAddr))
	}

	srv := api.NewServer(repo, zlog, tracer)
	httpServer := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: srv.Router(),
	}

	go func() {
		zlog.Info("listening", zap.String("addr", httpServer.Addr))
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			zlog.Fatal("server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	zlog.Info("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(ctx); err != nil {
		zlog.Error("server shutdown failed", zap.Error(err))
	}
}
