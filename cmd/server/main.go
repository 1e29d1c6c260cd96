package main

import (
	"context"
	"database/sql"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/redis/go-redis/v9"

	"github.com/mixbar/kitstore/internal/adapter/handler"
	"github.com/mixbar/kitstore/internal/adapter/storage"
	"github.com/mixbar/kitstore/internal/config"
	"github.com/mixbar/kitstore/internal/core/service"
	"github.com/mixbar/kitstore/internal/logger"
)

func main() {
	cfg := config.Load()

	log, err := logger.New(cfg.LogMode)
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// MySQL backs the catalog and the order log
	db, err := sql.Open("mysql", cfg.MySQLDSN)
	if err != nil {
		log.Fatal("failed to open mysql", "error", err)
	}
	db.SetMaxOpenConns(50)
	db.SetMaxIdleConns(25)
	db.SetConnMaxLifetime(5 * time.Minute)
	if err := db.PingContext(ctx); err != nil {
		log.Fatal("failed to ping mysql", "error", err)
	}
	log.Info("connected to mysql")

	// Redis backs carts, custom kits and the custom id allocator
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		PoolSize: cfg.RedisPoolSize,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		log.Fatal("failed to connect redis", "error", err)
	}
	log.Info("connected to redis")

	mysqlAdapter := storage.NewMySQLAdapter(db)
	redisAdapter := storage.NewRedisAdapter(rdb, cfg.CustomIDThreshold, cfg.CustomKitTTL)

	resolver := service.NewResolver(mysqlAdapter)
	catalogService := service.NewCatalogService(mysqlAdapter)
	cartService := service.NewCartService(redisAdapter, mysqlAdapter, redisAdapter, resolver, cfg.CustomIDThreshold, log)
	kitBuilder := service.NewKitBuilder(resolver, redisAdapter, redisAdapter, log)
	orderService := service.NewOrderService(mysqlAdapter, cartService, mysqlAdapter, redisAdapter, resolver, cfg.CustomIDThreshold, log)

	httpHandler := handler.NewHTTPHandler(catalogService, cartService, kitBuilder, orderService, log)

	httpServer := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: httpHandler.Router(),
	}

	go func() {
		log.Info("http server listening", "addr", cfg.HTTPAddr)
		if err := httpServer.ListenAndServe(); err != http.ErrServerClosed {
			log.Error("http server error", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer shutdownCancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Error("http server shutdown", "error", err)
	}
	log.Info("http server stopped")

	rdb.Close()
	db.Close()
	log.Info("connections closed")
}
