package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"food-truck-api/cache"
	"food-truck-api/config"
	"food-truck-api/events"
	"food-truck-api/handlers"
	"food-truck-api/jobs"
	"food-truck-api/logger"
	"food-truck-api/metrics"
	"food-truck-api/middleware"
	"food-truck-api/routes"
	"food-truck-api/service"
	"food-truck-api/store"
)

func main() {
	cfg := config.Load(".env")
	log := logger.New(cfg.Logger)
	gin.SetMode(cfg.Server.GinMode)

	// Initialize database
	db, err := config.OpenDB(cfg.Database)
	if err != nil {
		log.WithError(err).Fatal("Failed to open database")
	}
	st := store.New(db)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if n, err := st.NormalizeLegacyStatuses(ctx); err != nil {
		log.WithError(err).Fatal("Failed to normalize order statuses")
	} else if n > 0 {
		log.WithField("orders", n).Info("Normalized legacy order statuses")
	}

	// Redis backs cooldowns and sign-outs when configured
	var (
		cooldown cache.Cooldown = cache.NewMemoryCooldown(cfg.RefreshCooldown)
		revoker  cache.Revoker  = cache.NewMemoryRevoker()
	)
	if cfg.Redis.Addr != "" {
		client, err := cache.NewRedisClient(cfg.Redis)
		if err != nil {
			log.WithError(err).Fatal("Failed to connect to Redis")
		}
		defer client.Close()
		cooldown = cache.NewRedisCooldown(client, cfg.RefreshCooldown)
		revoker = cache.NewRedisRevoker(client)
	}

	var publisher events.Publisher = events.NewLogPublisher(log)
	if cfg.NSQ.Addr != "" {
		p, err := events.NewNSQPublisher(cfg.NSQ.Addr, log)
		if err != nil {
			log.WithError(err).Fatal("Failed to connect to NSQ")
		}
		publisher = p
	}
	defer publisher.Stop()

	trucks := service.NewTruckService(st, log)
	favorites := service.NewFavoriteService(st, log)
	menus := service.NewMenuService(st, log)
	svc := handlers.Services{
		Auth:      service.NewAuthService(st, log),
		Trucks:    trucks,
		Menus:     menus,
		Orders:    service.NewOrderService(st, publisher, log),
		Favorites: favorites,
		Reviews:   service.NewReviewService(st, log),
		Dashboard: service.NewDashboardService(trucks, favorites),
	}
	tokens := middleware.NewTokens(cfg.JWT, revoker)

	scheduler := jobs.NewScheduler(log)
	if err := scheduler.AddDeletionSweep(cfg.Jobs.DeletionSweepSpec, menus); err != nil {
		log.WithError(err).Fatal("Failed to schedule jobs")
	}
	scheduler.Start()
	defer scheduler.Stop()

	r := gin.New()
	r.Use(gin.Recovery(), middleware.RequestID(), middleware.Logger(log), metrics.Middleware())

	// CORS middleware for frontend integration
	r.Use(func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Origin, Content-Type, Authorization, X-Request-ID")
		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	})

	r.GET("/health", func(c *gin.Context) {
		status, code := "healthy", http.StatusOK
		if err := st.Ping(c.Request.Context()); err != nil {
			status, code = "unhealthy", http.StatusServiceUnavailable
		}
		c.JSON(code, gin.H{
			"status":  status,
			"service": cfg.App.Name,
			"env":     cfg.App.Environment,
		})
	})
	r.GET("/metrics", gin.WrapH(metrics.Handler()))

	routes.SetupRoutes(r, handlers.New(svc, tokens, log), routes.Deps{
		Tokens:   tokens,
		Cooldown: cooldown,
		Location: cfg.Location(),
		Log:      log,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		log.WithField("port", cfg.Server.Port).Info("Server running")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Fatal("Failed to start server")
		}
	}()

	<-ctx.Done()
	log.Info("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).WithFields(logrus.Fields{"timeout": cfg.Server.ShutdownTimeout}).Error("Forced shutdown")
	}
}
