package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/yeremiapane/canteen-pos/config"
	"github.com/yeremiapane/canteen-pos/kds"
	"github.com/yeremiapane/canteen-pos/router"
	"github.com/yeremiapane/canteen-pos/services"
	"github.com/yeremiapane/canteen-pos/utils"
	"golang.org/x/sync/errgroup"
)

func main() {
	cfg := config.Load()
	utils.InitLogger(cfg.LogLevel)

	if cfg.GinMode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Initialize DB
	db, err := config.InitDB(cfg)
	if err != nil {
		utils.ErrorLogger.Fatalf("Failed to connect to database: %v", err)
	}
	if err := config.AutoMigrate(db); err != nil {
		utils.ErrorLogger.Fatalf("Failed to AutoMigrate: %v", err)
	}
	utils.InfoLogger.Println("AutoMigrate completed.")

	if err := config.SeedStaff(db, cfg); err != nil {
		utils.ErrorLogger.Fatalf("Failed to seed staff account: %v", err)
	}

	relay, err := newRelay(cfg)
	if err != nil {
		utils.ErrorLogger.Fatalf("Failed to connect to channel layer: %v", err)
	}

	hub := kds.NewHub(relay, kds.Options{
		WriteWait:  cfg.WSWriteWait,
		PongWait:   cfg.WSPongWait,
		SendBuffer: cfg.WSSendBuffer,
	}, utils.InfoLogger)

	heartbeat := services.NewHeartbeat(hub, cfg.WSPingInterval)
	if err := heartbeat.Start(); err != nil {
		utils.ErrorLogger.Fatalf("Failed to start heartbeat: %v", err)
	}

	tokens := utils.NewTokenManager(cfg.JWTSecret, cfg.JWTTTL)
	if cfg.JWTSecret == "changeme" {
		utils.InfoLogger.Warn("JWT_SECRET is not set, using the development default")
	}

	r := router.SetupRouter(router.Deps{DB: db, Hub: hub, Tokens: tokens, Config: cfg})
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		utils.InfoLogger.Printf("Listening on port %s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		return hub.Run(gctx)
	})
	g.Go(func() error {
		<-gctx.Done()
		utils.InfoLogger.Println("Shutting down...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		// websocket connections are hijacked, so the hub closes them itself
		if err := heartbeat.Stop(); err != nil {
			utils.ErrorLogger.Printf("heartbeat stop: %v", err)
		}
		if err := hub.Shutdown(); err != nil {
			utils.ErrorLogger.Printf("hub shutdown: %v", err)
		}
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		utils.ErrorLogger.Fatalf("server stopped: %v", err)
	}

	if sqlDB, err := db.DB(); err == nil {
		sqlDB.Close()
	}
	utils.InfoLogger.Println("Server exited")
}

// newRelay returns nil for in-process delivery.
func newRelay(cfg *config.Config) (kds.Relay, error) {
	if cfg.ChannelLayer != "redis" {
		return nil, nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPass,
		DB:       cfg.RedisDB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, err
	}

	utils.InfoLogger.Printf("channel layer: redis %s (prefix %q)", cfg.RedisAddr, cfg.RedisPrefix)
	return kds.NewRedisRelay(client, cfg.RedisPrefix), nil
}
