package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/toxicdevil0/timeout/backend/go-services/handlers"
	"github.com/toxicdevil0/timeout/backend/go-services/internal/audit"
	"github.com/toxicdevil0/timeout/backend/go-services/internal/config"
	"github.com/toxicdevil0/timeout/backend/go-services/internal/database"
	"github.com/toxicdevil0/timeout/backend/go-services/internal/focus"
	"github.com/toxicdevil0/timeout/backend/go-services/internal/identity"
	"github.com/toxicdevil0/timeout/backend/go-services/internal/ratelimit"
	"github.com/toxicdevil0/timeout/backend/go-services/internal/rooms"
	"github.com/toxicdevil0/timeout/backend/go-services/internal/verifier"
	"github.com/toxicdevil0/timeout/backend/go-services/internal/wallet"
	"github.com/toxicdevil0/timeout/backend/go-services/pkg/logger"
	"github.com/toxicdevil0/timeout/backend/go-services/pkg/metrics"
	"github.com/toxicdevil0/timeout/backend/go-services/pkg/middleware"
)

var startTime = time.Now()

func main() {
	// LOG_LEVEL env: debug|info|warn|error|fatal
	logger.Init(os.Getenv("LOG_LEVEL"))

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Fatalf("failed to load config: %v", err)
	}
	logger.Infof("config loaded: issuer=%v mongo=%v redis=%v", cfg.Auth.Issuer != "", cfg.MongoDB.URI != "", cfg.Redis.Host != "")

	ctx := context.Background()

	// the trust path is fixed here, once, and never re-evaluated per call
	ver, err := verifier.NewFromConfig(ctx, cfg)
	if err != nil {
		logger.Fatalf("failed to initialize credential verifier: %v", err)
	}
	logger.Infof("credential verifier initialized path=%s", ver.Path())
	if ver.Path() == "local" {
		logger.Warn("UNSIGNED token verification enabled (dev mode); never run this in production")
	}

	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery())

	// Lightweight CORS for dev/test; production sits behind a stricter proxy policy.
	r.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Origin, Content-Type, Accept, Authorization")
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusOK)
			return
		}
		c.Next()
	})

	// Redis backs focus-session presence; optional
	var redisClient *redis.Client
	if cfg.Redis.Host != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Host + ":" + cfg.Redis.Port,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err := redisClient.Ping(ctx).Err(); err != nil {
			logger.Warnf("failed to connect to Redis (%s:%s): %v", cfg.Redis.Host, cfg.Redis.Port, err)
			redisClient = nil
		} else {
			logger.Infof("connected to Redis %s:%s", cfg.Redis.Host, cfg.Redis.Port)
		}
	}

	// MongoDB backs the identity store and the domain collections.
	// Retry with backoff to tolerate startup races.
	var mongoClient *mongo.Client
	if cfg.MongoDB.URI != "" {
		const maxAttempts = 5
		backoff := time.Second
		for attempt := 1; attempt <= maxAttempts; attempt++ {
			mongoClient, err = database.ConnectMongo(ctx, cfg.MongoDB.URI, cfg.MongoDB.Timeout)
			if err == nil {
				break
			}
			logger.Warnf("attempt %d/%d: failed to connect to MongoDB: %v", attempt, maxAttempts, err)
			if attempt < maxAttempts {
				time.Sleep(backoff)
				backoff *= 2
			}
		}
	}
	if mongoClient == nil {
		logger.Fatalf("identity store unavailable: MongoDB connection is required")
	}
	defer func() { _ = mongoClient.Disconnect(ctx) }()
	db := mongoClient.Database(cfg.MongoDB.Database)

	enricher := identity.NewEnricher(identity.NewMongoUserRepository(db.Collection("users")))
	auditor := audit.Fanout{
		audit.NewLogRecorder(),
		audit.NewMongoRecorder(db.Collection("security_events")),
	}
	deps := middleware.Deps{Verifier: ver, Enricher: enricher, Auditor: auditor}

	// nil limiter disables the gate per configuration
	var lim *ratelimit.Limiter
	if cfg.RateLimit.Enabled {
		lim = ratelimit.NewFromConfig(cfg.RateLimit)
	} else {
		logger.Warn("rate limiting disabled by configuration")
	}

	roomsSvc := rooms.NewService(rooms.NewMongoRepository(db.Collection("rooms")))
	walletSvc := wallet.NewService(wallet.NewMongoRepository(db.Collection("wallets")))

	api := r.Group("/api/v1")
	handlers.NewAuthHandler().Register(api, deps, lim)
	handlers.NewMeHandler(enricher).Register(api, deps, lim)
	handlers.NewRoomsHandler(roomsSvc).Register(api, deps, lim)
	handlers.NewWalletHandler(walletSvc).Register(api, deps, lim)
	handlers.NewAdminHandler(enricher).Register(api, deps, lim)

	if redisClient != nil {
		focusSvc := focus.NewService(focus.NewRedisRepository(redisClient, ""), walletSvc)
		handlers.NewFocusHandler(focusSvc).Register(api, deps, lim)
	} else {
		logger.Warnf("focus session endpoints not registered because Redis is unavailable")
	}

	r.GET("/health", func(c *gin.Context) {
		c.String(http.StatusOK, "healthy")
	})

	// readiness: 200 only when critical dependencies are available
	r.GET("/ready", func(c *gin.Context) {
		deps := map[string]bool{
			"verifier": ver != nil,
			"mongo":    mongoClient != nil,
			"redis":    redisClient != nil || cfg.Redis.Host == "",
		}
		ready := true
		for _, ok := range deps {
			if !ok {
				ready = false
			}
		}
		status := http.StatusOK
		state := "ready"
		if !ready {
			status = http.StatusServiceUnavailable
			state = "not_ready"
		}
		c.JSON(status, gin.H{"status": state, "deps": deps, "uptime": time.Since(startTime).String()})
	})

	metrics.RegisterCollectors(prometheus.DefaultRegisterer)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	addr := fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port)
	logger.Infof("starting timeout backend on %s", addr)
	if err := r.Run(addr); err != nil {
		logger.Fatalf("server failed: %v", err)
	}
}
