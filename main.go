package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/restaurant-ops/config"
	"github.com/yeremiapane/restaurant-ops/database"
	"github.com/yeremiapane/restaurant-ops/kds"
	"github.com/yeremiapane/restaurant-ops/middlewares"
	"github.com/yeremiapane/restaurant-ops/router"
	"github.com/yeremiapane/restaurant-ops/services"
	"github.com/yeremiapane/restaurant-ops/utils"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		utils.ErrorLogger.Fatalf("Failed to load config: %v", err)
	}
	utils.InitLogger(cfg.Log.Level)

	if cfg.Server.GinMode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := database.Open(cfg.DB)
	if err != nil {
		utils.ErrorLogger.Fatalf("Failed to connect to database: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		utils.ErrorLogger.Fatalf("Failed to AutoMigrate: %v", err)
	}
	if cfg.SeedFile != "" {
		if _, err := database.SeedFromFile(context.Background(), db, cfg.SeedFile); err != nil {
			utils.ErrorLogger.Fatalf("Failed to seed database: %v", err)
		}
	}

	var tokenStore utils.TokenStore
	var janitors []*services.Janitor
	if client := config.NewRedisClient(cfg.Redis); client != nil {
		defer client.Close()
		tokenStore = utils.NewRedisTokenStore(client)
		utils.InfoLogger.Printf("Revoked tokens stored in redis at %s", cfg.Redis.Addr)
	} else {
		memStore := utils.NewMemoryTokenStore()
		tokenStore = memStore
		janitors = append(janitors, services.NewJanitor("revoked-tokens", 10*time.Minute, memStore.Cleanup))
	}

	var publisher services.Publisher = services.NoopPublisher{}
	if cfg.RabbitMQ.URL != "" {
		amqpPublisher, err := services.NewAMQPPublisher(cfg.RabbitMQ.URL, cfg.RabbitMQ.Exchange)
		if err != nil {
			utils.ErrorLogger.Errorf("RabbitMQ unavailable, events will not be published: %v", err)
		} else {
			publisher = amqpPublisher
			utils.InfoLogger.Printf("Publishing events to exchange %s", cfg.RabbitMQ.Exchange)
		}
	}
	defer publisher.Close()

	authLimiter := middlewares.NewStrictRateLimiter()
	janitors = append(janitors, services.NewJanitor("auth-rate-limiter", 5*time.Minute, func() int {
		return authLimiter.Cleanup(15 * time.Minute)
	}))
	for _, j := range janitors {
		j.Start()
		defer j.Stop()
	}

	r := router.SetupRouter(router.Options{
		DB:                db,
		Tokens:            utils.NewTokenManager(cfg.JWT.Secret, cfg.JWT.TTL),
		TokenStore:        tokenStore,
		Hub:               kds.NewHub(),
		Publisher:         publisher,
		CORS:              cfg.CORS,
		ReservationWindow: cfg.Reservation.Window,
		AuthLimiter:       authLimiter,
	})
	if err := r.SetTrustedProxies([]string{"127.0.0.1"}); err != nil {
		utils.ErrorLogger.Fatalf("Failed to set trusted proxies: %v", err)
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		utils.InfoLogger.Printf("Listening on port %s", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			utils.ErrorLogger.Fatal(err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	utils.InfoLogger.Println("Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		utils.ErrorLogger.Errorf("Server forced to shutdown: %v", err)
	}
}
