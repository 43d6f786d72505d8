package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/yourusername/examprep-api/internal/config"
	"github.com/yourusername/examprep-api/internal/domain/entity"
	"github.com/yourusername/examprep-api/internal/handler"
	"github.com/yourusername/examprep-api/internal/middleware"
	pgRepo "github.com/yourusername/examprep-api/internal/repository/postgres"
	redisRepo "github.com/yourusername/examprep-api/internal/repository/redis"
	"github.com/yourusername/examprep-api/internal/service"
	"github.com/yourusername/examprep-api/pkg/auth"
	"github.com/yourusername/examprep-api/pkg/database"
)

func main() {
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

	// Инициализируем подключение к PostgreSQL
	db, err := database.NewPostgresDB(cfg.Database.PostgresConnectionString())
	if err != nil {
		log.Printf("Failed to connect to database: %v", err)
		os.Exit(1)
	}

	// Применяем миграции
	if err := database.MigrateDB(db); err != nil {
		log.Printf("Failed to migrate database: %v", err)
		os.Exit(1)
	}

	// Инициализируем подключение к Redis с использованием унифицированной конфигурации
	redisClient, err := database.NewUniversalRedisClient(cfg.Redis)
	if err != nil {
		log.Printf("Failed to connect to Redis: %v", err)
		os.Exit(1)
	}
	log.Println("Successfully connected to Redis")

	// Инициализируем репозитории
	userRepo := pgRepo.NewUserRepo(db)
	contentRepo := pgRepo.NewContentRepo(db)
	questionRepo := pgRepo.NewQuestionRepo(db)
	configRepo := pgRepo.NewTestConfigRepo(db)
	testRepo := pgRepo.NewGeneratedTestRepo(db)
	attemptRepo := pgRepo.NewAttemptRepo(db)

	cacheRepo, err := redisRepo.NewCacheRepo(redisClient)
	if err != nil {
		log.Printf("Failed to initialize CacheRepo: %v", err)
		os.Exit(1)
	}

	// Инициализируем JWTService
	jwtService, err := auth.NewJWTService(cfg.JWT.Secret, time.Duration(cfg.JWT.ExpirationHrs)*time.Hour)
	if err != nil {
		log.Printf("Failed to initialize JWTService: %v", err)
		os.Exit(1)
	}

	// Отправка писем родителям: Resend, если задан API-ключ, иначе no-op
	var emailService service.EmailService = &service.NoopEmailService{}
	if cfg.Email.APIKey != "" {
		from := cfg.Email.FromEmail
		if cfg.Email.FromName != "" {
			from = cfg.Email.FromName + " <" + cfg.Email.FromEmail + ">"
		}
		resendService, err := service.NewResendEmailService(cfg.Email.APIKey, from)
		if err != nil {
			log.Printf("Failed to initialize ResendEmailService: %v", err)
			os.Exit(1)
		}
		emailService = resendService
		log.Println("Email notifications enabled (Resend)")
	} else {
		log.Println("EMAIL_API_KEY не задан, уведомления родителям отключены")
	}

	// Инициализируем сервисы
	authService, err := service.NewAuthService(userRepo, jwtService)
	if err != nil {
		log.Printf("Failed to initialize AuthService: %v", err)
		os.Exit(1)
	}
	userService := service.NewUserService(userRepo)
	contentService := service.NewContentService(contentRepo, questionRepo)
	configService := service.NewConfigService(configRepo, userRepo)
	generatorService := service.NewGeneratorService(configRepo, questionRepo, contentRepo, testRepo, userRepo, cacheRepo, nil)
	scorerService := service.NewScorerService(testRepo, questionRepo, attemptRepo, userRepo, emailService)

	// Инициализируем обработчики
	authHandler := handler.NewAuthHandler(authService)
	userHandler := handler.NewUserHandler(userService)
	contentHandler := handler.NewContentHandler(contentService)
	testHandler := handler.NewTestHandler(configService, generatorService, scorerService)

	// Инициализируем middleware
	authMiddleware := middleware.NewAuthMiddleware(jwtService)

	// Инициализируем роутер Gin
	router := gin.Default()

	isProduction := gin.Mode() == gin.ReleaseMode

	// Настройка доверенных прокси для корректной работы c.ClientIP()
	if isProduction {
		// Production: не доверять прокси-заголовкам
		if err := router.SetTrustedProxies(nil); err != nil {
			log.Printf("Warning: failed to set trusted proxies: %v", err)
		}
	} else {
		// Development: доверяем localhost
		if err := router.SetTrustedProxies([]string{"127.0.0.1", "::1"}); err != nil {
			log.Printf("Warning: failed to set trusted proxies: %v", err)
		}
	}

	// Настройка CORS
	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"http://localhost:5173", "http://localhost:3000"},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	// Настраиваем маршруты API
	api := router.Group("/api")
	{
		// Аутентификация
		authGroup := api.Group("/auth")
		{
			authGroup.POST("/register", authHandler.Register)
			authGroup.POST("/login", authHandler.Login)
			authGroup.GET("/me", authMiddleware.RequireAuth(), authHandler.Me)
		}

		// Профили пользователей
		users := api.Group("/users")
		users.Use(authMiddleware.RequireAuth())
		{
			users.GET("/me", userHandler.GetProfile)
			users.PUT("/me", userHandler.UpdateProfile)
		}

		// Иерархия контента: чтение доступно всем аутентифицированным
		content := api.Group("")
		content.Use(authMiddleware.RequireAuth())
		{
			exams := content.Group("/exams")
			{
				exams.GET("", contentHandler.ListExams)

				examWithID := exams.Group("/:examId")
				examWithID.Use(middleware.ExtractUintParam("examId", "examID"))
				{
					examWithID.GET("", contentHandler.GetExam)
					examWithID.GET("/subjects", contentHandler.ListSubjects)
				}
			}

			subjectWithID := content.Group("/subjects/:subjectId")
			subjectWithID.Use(middleware.ExtractUintParam("subjectId", "subjectID"))
			{
				subjectWithID.GET("/topics", contentHandler.ListTopics)
			}

			topicWithID := content.Group("/topics/:topicId")
			topicWithID.Use(middleware.ExtractUintParam("topicId", "topicID"))
			{
				topicWithID.GET("/subtopics", contentHandler.ListSubtopics)
			}
		}

		// Конфигурации тестов
		configs := api.Group("/configurations")
		configs.Use(authMiddleware.RequireAuth())
		{
			configs.POST("", testHandler.CreateConfig)
			configs.GET("", testHandler.ListConfigs)

			configWithID := configs.Group("/:configId")
			configWithID.Use(middleware.ExtractUintParam("configId", "configID"))
			{
				configWithID.GET("", testHandler.GetConfig)
				configWithID.POST("/revise", testHandler.ReviseConfig)
			}
		}

		// Сгенерированные тесты и попытки
		tests := api.Group("/tests")
		tests.Use(authMiddleware.RequireAuth())
		{
			tests.GET("", testHandler.ListMyTests)
			tests.POST("/generate/:configId",
				middleware.ExtractUintParam("configId", "configID"),
				testHandler.GenerateTest)
			tests.GET("/public/:publicId", testHandler.GetTestByPublicID)

			testWithID := tests.Group("/:testId")
			testWithID.Use(middleware.ExtractUintParam("testId", "testID"))
			{
				testWithID.GET("", testHandler.GetTest)
				testWithID.POST("/submit", testHandler.SubmitAttempt)
				testWithID.GET("/attempts", testHandler.ListTestAttempts)
			}
		}

		// История попыток текущего пользователя
		api.GET("/attempts", authMiddleware.RequireAuth(), testHandler.ListMyAttempts)

		// Администрирование контента
		admin := api.Group("/admin")
		admin.Use(authMiddleware.RequireAuth(), authMiddleware.AdminOnly())
		{
			adminExams := admin.Group("/exams")
			{
				adminExams.POST("", contentHandler.CreateExam)

				adminExamWithID := adminExams.Group("/:examId")
				adminExamWithID.Use(middleware.ExtractUintParam("examId", "examID"))
				{
					adminExamWithID.PUT("", contentHandler.UpdateExam)
					adminExamWithID.DELETE("", contentHandler.DeleteExam)
					adminExamWithID.POST("/subjects", contentHandler.CreateSubject)
				}
			}

			admin.POST("/subjects/:subjectId/topics",
				middleware.ExtractUintParam("subjectId", "subjectID"),
				contentHandler.CreateTopic)
			admin.POST("/topics/:topicId/subtopics",
				middleware.ExtractUintParam("topicId", "topicID"),
				contentHandler.CreateSubtopic)

			adminQuestions := admin.Group("/questions")
			{
				adminQuestions.POST("", contentHandler.CreateQuestion)
				adminQuestions.GET("", contentHandler.ListQuestions)
				adminQuestions.POST("/bulk", contentHandler.BulkCreateQuestions)
				adminQuestions.POST("/import", contentHandler.ImportQuestionsXLSX)
				adminQuestions.GET("/export", contentHandler.ExportQuestions)

				questionWithID := adminQuestions.Group("/:questionId")
				questionWithID.Use(middleware.ExtractUintParam("questionId", "questionID"))
				{
					questionWithID.GET("", contentHandler.GetQuestion)
					questionWithID.PUT("", contentHandler.UpdateQuestion)
					questionWithID.DELETE("", contentHandler.DeleteQuestion)
				}
			}
		}

		// Управление студентами: доступно админам и тьюторам
		students := api.Group("/students")
		students.Use(authMiddleware.RequireAuth(), authMiddleware.RequireRole(entity.RoleAdmin, entity.RoleTutor))
		{
			students.GET("", userHandler.ListStudents)
			students.POST("/:studentId/tutor",
				middleware.ExtractUintParam("studentId", "studentID"),
				userHandler.AssignTutor)
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

	log.Printf("Server started on port %s", cfg.Server.Port)

	// Ожидаем сигнал остановки
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	// Контекст с таймаутом для graceful shutdown сервера
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server forced to shutdown: %v", err)
		os.Exit(1)
	}

	if err := redisClient.Close(); err != nil {
		log.Printf("Error closing Redis client: %v", err)
	}

	log.Println("Server exited properly")
}
