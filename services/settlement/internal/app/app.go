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
	"lotto-settlement/pkg/s3"
	settlementHTTP "lotto-settlement/services/settlement/internal/controller/http"
	"lotto-settlement/services/settlement/internal/repo/persistent"
	"lotto-settlement/services/settlement/internal/usecase"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/robfig/cron/v3"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gorm.io/gorm"

	_ "lotto-settlement/services/settlement/docs" // Swagger docs
)

type App struct {
	cfg         *config.Config
	policy      *config.Policy
	log         *logger.Logger
	db          *gorm.DB
	redisClient *redis.Client
	s3Client    *s3.Client
	jwtService  *jwt.Service
	queueClient *queue.Client
	scheduler   *cron.Cron
	httpServer  *http.Server
}

func NewApp(cfg *config.Config) (*App, error) {
	log := logger.New()

	policy, err := config.LoadPolicy(cfg.PolicyFile)
	if err != nil {
		log.Error("Failed to load settlement policy: %v", err)
		return nil, err
	}

	db, err := database.NewPostgresDB(cfg)
	if err != nil {
		log.Error("Failed to connect to database: %v", err)
		return nil, err
	}

	redisClient, err := cache.NewRedisClient(cfg)
	if err != nil {
		log.Error("Failed to connect to redis: %v (continuing without settings cache and rate limiting)", err)
		redisClient = nil
	}

	s3Client, err := s3.NewClient(cfg)
	if err != nil {
		log.Error("Failed to create S3 client: %v (continuing without result archive)", err)
		s3Client = nil
	}

	queueClient, err := queue.NewRabbitMQClient(cfg, log)
	if err != nil {
		log.Error("Failed to connect to RabbitMQ: %v (continuing without queue)", err)
		queueClient = nil
	}

	return &App{
		cfg:         cfg,
		policy:      policy,
		log:         log,
		db:          db,
		redisClient: redisClient,
		s3Client:    s3Client,
		jwtService:  jwt.NewService(cfg.JWTSecret),
		queueClient: queueClient,
	}, nil
}

func (a *App) Run() error {
	store := persistent.NewStore(a.db)

	// Optional collaborators stay untyped nil when absent.
	var publisher usecase.EventPublisher
	if a.queueClient != nil {
		publisher = a.queueClient
	}
	var archive usecase.ArchiveStore
	if a.s3Client != nil {
		archive = a.s3Client
	}

	// Initialize use cases
	settingsUseCase := usecase.NewSettingsUseCase(store, a.redisClient, a.policy, a.log)
	walletUseCase := usecase.NewWalletUseCase(store, a.log)
	transferUseCase := usecase.NewTransferUseCase(store, settingsUseCase, a.policy, a.log)
	lottoUseCase := usecase.NewLottoUseCase(store, a.policy, a.log)
	participationUseCase := usecase.NewParticipationUseCase(store, settingsUseCase, settingsUseCase, a.policy, a.log)
	prizeUseCase := usecase.NewPrizeUseCase(store, archive, publisher, a.policy, a.log)
	approvalUseCase := usecase.NewApprovalUseCase(store, prizeUseCase, publisher, a.policy, a.log)

	if err := a.startWorkers(walletUseCase, lottoUseCase); err != nil {
		return err
	}

	// Initialize HTTP handlers
	walletHandler := settlementHTTP.NewWalletHandler(walletUseCase, a.log)
	transferHandler := settlementHTTP.NewTransferHandler(transferUseCase, a.log)
	lottoHandler := settlementHTTP.NewLottoHandler(lottoUseCase, a.log)
	participationHandler := settlementHTTP.NewParticipationHandler(participationUseCase, a.log)
	prizeHandler := settlementHTTP.NewPrizeHandler(prizeUseCase, approvalUseCase, a.log)
	approvalHandler := settlementHTTP.NewApprovalHandler(approvalUseCase, a.log)
	settingsHandler := settlementHTTP.NewSettingsHandler(settingsUseCase, a.log)

	// Setup router
	r := gin.Default()

	// CORS middleware
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"http://localhost:3000", "http://127.0.0.1:3000"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS", "PATCH"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "Accept"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * 3600,
	}))

	if a.cfg.MetricsEnabled {
		r.Use(middleware.MetricsMiddleware())
		r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	}

	// Health check
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// Swagger documentation
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	api := r.Group("/api/v1")
	api.Use(middleware.AuthMiddleware(a.jwtService))
	api.Use(middleware.RateLimitMiddleware(a.redisClient, a.cfg.RateLimit, time.Minute))

	{
		api.GET("/wallets", walletHandler.ListMyWallets)
		api.GET("/wallets/transactions", walletHandler.GetTransactions)
		api.GET("/wallets/:owner_id", walletHandler.ListWallets)
		api.POST("/wallets/:owner_id/open", walletHandler.OpenWallets)
		api.POST("/wallets/:owner_id/deposit", walletHandler.Deposit)

		api.POST("/transfers", transferHandler.Transfer)
		api.GET("/transfers", transferHandler.ListTransfers)
		api.GET("/transfers/quote", transferHandler.Quote)

		api.GET("/lottos", lottoHandler.ListLottos)
		api.POST("/lottos", lottoHandler.CreateLotto)
		api.GET("/lottos/:id", lottoHandler.GetLotto)
		api.PUT("/lottos/:id", lottoHandler.UpdateLotto)
		api.DELETE("/lottos/:id", lottoHandler.DeleteLotto)
		api.PATCH("/lottos/:id/enabled", lottoHandler.SetEnabled)

		api.POST("/lottos/:id/participations", participationHandler.Participate)
		api.GET("/lottos/:id/participations", participationHandler.ListByLotto)
		api.GET("/participations/mine", participationHandler.ListMine)
		api.GET("/participations/:id", participationHandler.GetParticipation)
		api.POST("/participations/:id/cancel", participationHandler.Cancel)
		api.POST("/participations/:id/pay", participationHandler.PayPrize)

		api.POST("/lottos/:id/prizes/preview", prizeHandler.PreviewPrizes)
		api.POST("/lottos/:id/prizes", prizeHandler.SubmitPrizes)
		api.GET("/lottos/:id/prizes", prizeHandler.GetResult)

		api.GET("/approvals", approvalHandler.ListApprovals)
		api.GET("/approvals/:id", approvalHandler.GetApproval)
		api.POST("/approvals/:id/vote", approvalHandler.Vote)
		api.POST("/approvals/:id/comments", approvalHandler.Comment)
		api.POST("/approvals/:id/process", approvalHandler.Process)

		api.GET("/settings/commission", settingsHandler.GetCommissionRates)
		api.PUT("/settings/commission", settingsHandler.UpdateCommissionRates)
		api.GET("/settings/cancellation-fee", settingsHandler.GetCancellationFee)
		api.PUT("/settings/cancellation-fee", settingsHandler.UpdateCancellationFee)
	}

	// Create HTTP server
	a.httpServer = &http.Server{
		Addr:    ":" + a.cfg.ServerPort,
		Handler: r,
	}

	// Start server in a goroutine
	go func() {
		a.log.Info("Settlement service starting on port %s", a.cfg.ServerPort)
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
	a.log.Info("Shutting down settlement service...")
}

func (a *App) Shutdown() error {
	// The context is used to inform the server it has 5 seconds to finish
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	// Shutdown server
	if a.httpServer != nil {
		if err := a.httpServer.Shutdown(ctx); err != nil {
			a.log.Error("Server forced to shutdown: %v", err)
			return err
		}
	}

	if a.scheduler != nil {
		<-a.scheduler.Stop().Done()
	}

	if a.queueClient != nil {
		if err := a.queueClient.Close(); err != nil {
			a.log.Error("Error closing RabbitMQ: %v", err)
		}
	}

	// Close Redis connection
	if a.redisClient != nil {
		if err := a.redisClient.Close(); err != nil {
			a.log.Error("Error closing Redis: %v", err)
		}
	}

	// Close database connection
	sqlDB, err := a.db.DB()
	if err == nil {
		if err := sqlDB.Close(); err != nil {
			a.log.Error("Error closing database: %v", err)
		}
	}

	a.log.Info("Settlement service exited")
	return nil
}
