package main

import (
	"context"
	"errors"
	"log"
	"math/rand/v2"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"gorm.io/gorm/logger"

	"github.com/yourusername/automatismes-api/internal/config"
	"github.com/yourusername/automatismes-api/internal/engine"
	"github.com/yourusername/automatismes-api/internal/handler"
	"github.com/yourusername/automatismes-api/internal/middleware"
	redisRepo "github.com/yourusername/automatismes-api/internal/repository/redis"
	"github.com/yourusername/automatismes-api/internal/repository/sqlstore"
	"github.com/yourusername/automatismes-api/internal/scheduler"
	"github.com/yourusername/automatismes-api/internal/service"
	"github.com/yourusername/automatismes-api/pkg/auth"
	"github.com/yourusername/automatismes-api/pkg/database"
)

func main() {
	// .env не обязателен: в контейнере переменные приходят из окружения
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("Warning: failed to load .env: %v", err)
	}

	// Загружаем конфигурацию
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "config/config.yaml"
	}
	log.Printf("Загрузка конфигурации из %s", configPath)

	cfg, err := config.Load(configPath)
	if err != nil {
		log.Printf("Failed to load config: %v", err)
		os.Exit(1)
	}

	isProduction := gin.Mode() == gin.ReleaseMode
	logLevel := logger.Info
	if isProduction {
		logLevel = logger.Warn
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Подключение к БД (PostgreSQL или SQLite)
	db, err := database.Open(cfg.Database, logLevel)
	if err != nil {
		log.Printf("Failed to connect to database: %v", err)
		os.Exit(1)
	}

	// Применяем миграции
	if err := database.MigrateDB(db, cfg.Database.Driver, cfg.Database.MigrationsPath()); err != nil {
		log.Printf("Failed to migrate database: %v", err)
		os.Exit(1)
	}

	sqlxDB, err := database.NewSQLX(db, cfg.Database.Driver)
	if err != nil {
		log.Printf("Failed to initialize sqlx: %v", err)
		os.Exit(1)
	}

	// Инициализируем подключение к Redis с использованием унифицированной конфигурации
	redisClient, err := database.NewUniversalRedisClient(ctx, cfg.Redis)
	if err != nil {
		log.Printf("Failed to connect to Redis: %v", err)
		os.Exit(1)
	}
	log.Println("Successfully connected to Redis")

	// Инициализируем репозитории
	userRepo := sqlstore.NewUserRepo(db)
	exerciseRepo := sqlstore.NewExerciseRepo(db)
	methodRepo := sqlstore.NewMethodRepo(db)
	attemptRepo := sqlstore.NewAttemptRepo(db)
	feedbackRepo := sqlstore.NewFeedbackRepo(db)
	statsRepo := sqlstore.NewStatsRepo(sqlxDB)

	cacheRepo, err := redisRepo.NewCacheRepo(redisClient)
	if err != nil {
		log.Printf("Failed to initialize CacheRepo: %v", err)
		os.Exit(1)
	}

	// JWT с отзывом токенов через Redis
	jwtService, err := auth.NewJWTService(cfg.JWT.Secret, cfg.JWT.ExpirationHrs, auth.NewCacheRevocationStore(cacheRepo))
	if err != nil {
		log.Printf("Failed to initialize JWTService: %v", err)
		os.Exit(1)
	}

	// Генератор значений: фиксированный seed только для тестовых стендов
	var generator *engine.Generator
	if cfg.Practice.Seed != 0 {
		log.Printf("Генератор упражнений с фиксированным seed=%d", cfg.Practice.Seed)
		generator = engine.NewSeededGenerator(cfg.Practice.Seed, engine.DefaultRules)
	} else {
		generator = engine.NewGenerator(rand.NewPCG(rand.Uint64(), rand.Uint64()), engine.DefaultRules)
	}

	// Отправка писем
	var emailService service.EmailService = &service.NoopEmailService{}
	if cfg.Email.Enabled {
		resendService, err := service.NewResendEmailService(cfg.Email.ResendAPIKey, cfg.Email.From, cfg.Email.FeedbackRecipients)
		if err != nil {
			log.Printf("Failed to initialize email service: %v", err)
			os.Exit(1)
		}
		emailService = resendService
	}

	// Инициализируем сервисы
	authService, err := service.NewAuthService(userRepo, jwtService)
	if err != nil {
		log.Printf("Failed to initialize AuthService: %v", err)
		os.Exit(1)
	}
	catalogService, err := service.NewCatalogService(exerciseRepo, methodRepo, cacheRepo, cfg.Practice.CatalogCacheTTL)
	if err != nil {
		log.Printf("Failed to initialize CatalogService: %v", err)
		os.Exit(1)
	}
	contentService, err := service.NewContentService(exerciseRepo, methodRepo, catalogService)
	if err != nil {
		log.Printf("Failed to initialize ContentService: %v", err)
		os.Exit(1)
	}
	practiceService, err := service.NewPracticeService(exerciseRepo, attemptRepo, statsRepo, userRepo, cacheRepo, generator, cfg.Practice.AttemptTTL)
	if err != nil {
		log.Printf("Failed to initialize PracticeService: %v", err)
		os.Exit(1)
	}
	statsService, err := service.NewStatsService(statsRepo)
	if err != nil {
		log.Printf("Failed to initialize StatsService: %v", err)
		os.Exit(1)
	}
	feedbackService, err := service.NewFeedbackService(feedbackRepo, emailService)
	if err != nil {
		log.Printf("Failed to initialize FeedbackService: %v", err)
		os.Exit(1)
	}

	// Фоновые задачи
	jobs := scheduler.New(cfg.Scheduler, feedbackService, catalogService, contentService)
	if err := jobs.Start(); err != nil {
		log.Printf("Failed to start scheduler: %v", err)
		os.Exit(1)
	}

	// Инициализируем обработчики
	authHandler := handler.NewAuthHandler(authService)
	catalogHandler := handler.NewCatalogHandler(catalogService)
	practiceHandler := handler.NewPracticeHandler(practiceService)
	statsHandler := handler.NewStatsHandler(statsService)
	feedbackHandler := handler.NewFeedbackHandler(feedbackService)
	healthHandler := handler.NewHealthHandler(map[string]handler.HealthCheck{
		"database": func(ctx context.Context) error {
			sqlDB, err := database.GetSQLDB(db)
			if err != nil {
				return err
			}
			return sqlDB.PingContext(ctx)
		},
		"redis": func(ctx context.Context) error {
			return redisClient.Ping(ctx).Err()
		},
	})

	// Инициализируем middleware
	authMiddleware := middleware.NewAuthMiddleware(jwtService)
	rateLimiter := middleware.NewRateLimiter(cacheRepo)

	// Инициализируем роутер Gin
	router := gin.Default()

	// В production не доверяем прокси-заголовкам, в development доверяем localhost
	if isProduction {
		if err := router.SetTrustedProxies(nil); err != nil {
			log.Printf("Warning: failed to set trusted proxies: %v", err)
		}
	} else {
		if err := router.SetTrustedProxies([]string{"127.0.0.1", "::1"}); err != nil {
			log.Printf("Warning: failed to set trusted proxies: %v", err)
		}
	}

	// Настройка CORS
	router.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.Server.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition", "Retry-After"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	// Настраиваем маршруты API
	api := router.Group("/api")
	api.Use(rateLimiter.Limit(middleware.DefaultAPIRateLimitConfig()))
	{
		api.GET("/health", healthHandler.Health)

		authGroup := api.Group("/auth")
		{
			strict := rateLimiter.LimitByIP(middleware.StrictAuthRateLimitConfig())
			authGroup.POST("/register", strict, authHandler.Register)
			authGroup.POST("/login", strict, authHandler.Login)

			authedAuth := authGroup.Group("/")
			authedAuth.Use(authMiddleware.RequireAuth())
			{
				authedAuth.GET("/verify-token", authHandler.VerifyToken)
				authedAuth.POST("/logout", authHandler.Logout)
			}
		}

		authed := api.Group("/")
		authed.Use(authMiddleware.RequireAuth())
		{
			authed.GET("/automatismes", catalogHandler.GetAutomatisms)
			authed.GET("/exercises/:automatisme", catalogHandler.GetExercises)
			authed.GET("/methods/:automatisme", catalogHandler.GetMethods)

			authed.GET("/recommendation", practiceHandler.GetRecommendation)
			authed.POST("/practice", practiceHandler.StartPractice)
			authed.POST("/practice/:attempt_id/answer",
				middleware.ExtractUUIDParam("attempt_id", handler.ContextKeyAttemptID),
				practiceHandler.SubmitAnswer)
			authed.POST("/results", practiceHandler.SaveResult)

			authed.GET("/stats", statsHandler.GetStats)
			authed.GET("/stats/export", statsHandler.ExportStats)

			authed.POST("/feedback", feedbackHandler.SubmitFeedback)
		}
	}

	// Настраиваем HTTP сервер с тайм-аутами для защиты от slow client attacks
	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	// Запускаем сервер в горутине
	go func() {
		log.Printf("Starting server on port %s", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Printf("Failed to start server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	cancel()
	jobs.Stop()

	// Создаем контекст с таймаутом для graceful shutdown сервера
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server forced to shutdown: %v", err)
	}

	if err := redisClient.Close(); err != nil {
		log.Printf("Error closing Redis client: %v", err)
	}
	if sqlDB, err := database.GetSQLDB(db); err == nil {
		sqlDB.Close()
	}

	log.Println("Server exited properly")
}
