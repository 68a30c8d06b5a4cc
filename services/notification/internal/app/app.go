package internal

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"lotto-settlement/pkg/cache"
	"lotto-settlement/pkg/config"
	"lotto-settlement/pkg/database"
	"lotto-settlement/pkg/jwt"
	"lotto-settlement/pkg/logger"
	"lotto-settlement/pkg/middleware"
	"lotto-settlement/pkg/queue"
	notificationHTTP "lotto-settlement/services/notification/internal/controller/http"
	"lotto-settlement/services/notification/internal/repo/persistent"
	"lotto-settlement/services/notification/internal/usecase"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gorm.io/gorm"

	_ "lotto-settlement/services/notification/docs" // Swagger docs
)

type App struct {
	cfg         *config.Config
	log         *logger.Logger
	db          *gorm.DB
	redisClient *redis.Client
	jwtService  *jwt.Service
	queueClient *queue.Client
	httpServer  *http.Server
}

func NewApp(cfg *config.Config) (*App, error) {
	log := logger.New()

	db, err := database.NewPostgresDB(cfg)
	if err != nil {
		log.Error("Failed to connect to database: %v", err)
		return nil, err
	}

	// Inboxes live in redis, so it is required here
	redisClient, err := cache.NewRedisClient(cfg)
	if err != nil {
		log.Error("Failed to connect to redis: %v", err)
		return nil, err
	}

	queueClient, err := queue.NewRabbitMQClient(cfg, log)
	if err != nil {
		log.Error("Failed to connect to RabbitMQ: %v (no events will be consumed)", err)
		queueClient = nil
	}

	return &App{
		cfg:         cfg,
		log:         log,
		db:          db,
		redisClient: redisClient,
		jwtService:  jwt.NewService(cfg.JWTSecret),
		queueClient: queueClient,
	}, nil
}

func (a *App) Run() error {
	// Initialize repositories
	notificationRepo := persistent.NewNotificationRepository(a.db)
	inboxRepo := persistent.NewInboxRepository(a.redisClient)

	// Initialize use cases
	notificationUseCase := usecase.NewNotificationUseCase(notificationRepo, inboxRepo, a.log)

	// Initialize HTTP handlers
	notificationHandler := notificationHTTP.NewNotificationHandler(notificationUseCase, a.log, a.jwtService)

	// Setup router
	r := gin.Default()

	// CORS middleware
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"http://localhost:3000", "http://127.0.0.1:3000"},
		AllowMethods:     []string{"GET", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "Accept"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	// Health check
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// Swagger documentation
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	api := r.Group("/api/v1")
	protected := api.Group("")
	protected.Use(middleware.AuthMiddleware(a.jwtService))
	{
		protected.GET("/notifications", notificationHandler.GetNotifications)
	}
	// WebSocket endpoint authenticates through the token query parameter
	api.GET("/notifications/ws", notificationHandler.HandleWebSocket)

	if a.queueClient != nil {
		err := a.queueClient.Consume(queue.NotificationQueueName, func(task map[string]interface{}) error {
			a.log.Info("[NOTIFICATION HANDLER] Received task from RabbitMQ queue: %+v", task)
			return notificationUseCase.HandleTask(task)
		})
		if err != nil {
			a.log.Error("Error starting notification queue consumer: %v", err)
		}
	}

	// Create HTTP server
	a.httpServer = &http.Server{
		Addr:    ":" + a.cfg.ServerPort,
		Handler: r,
	}

	// Start server in a goroutine
	go func() {
		a.log.Info("Notification service starting on port %s", a.cfg.ServerPort)
		if err := a.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			a.log.Error("Failed to start server: %v", err)
			panic(err)
		}
	}()

	return nil
}

func (a *App) Wait() {
	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	a.log.Info("Shutting down notification service...")
}

func (a *App) Shutdown() error {
	// The context is used to inform the server it has 5 seconds to finish
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if a.httpServer != nil {
		if err := a.httpServer.Shutdown(ctx); err != nil {
			a.log.Error("Server forced to shutdown: %v", err)
			return err
		}
	}

	if a.queueClient != nil {
		if err := a.queueClient.Close(); err != nil {
			a.log.Error("Error closing RabbitMQ: %v", err)
		}
	}

	if err := a.redisClient.Close(); err != nil {
		a.log.Error("Error closing Redis: %v", err)
	}

	sqlDB, err := a.db.DB()
	if err == nil {
		if err := sqlDB.Close(); err != nil {
			a.log.Error("Error closing database: %v", err)
		}
	}

	a.log.Info("Notification service exited")
	return nil
}
