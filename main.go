package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"main/config"
	"main/handler"
	"main/middleware"
	"main/repository"
	"main/services"
	"main/usecase"
	"main/utils"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func init() {
	// Load environment variables from .env file
	if err := godotenv.Load(); err != nil && os.Getenv("GO_ENV") != "test" {
		log.Printf("No .env file loaded: %v", err)
	}

	requiredEnvVars := []string{
		"MONGO_URI",
		"MONGO_DB",
		"JWT_SECRET_KEY",
		"JWT_EXPIRATION_TIME",
		"REFRESH_TOKEN_EXPIRATION_TIME",
		"REDIS_URL",
	}

	for _, envVar := range requiredEnvVars {
		if os.Getenv(envVar) == "" && os.Getenv("GO_ENV") != "test" {
			log.Fatalf("Required environment variable %s is not set", envVar)
		}
	}

	utils.InitValidator()
	utils.InitJWT()
	utils.InitMongoClient()
}

type appServices struct {
	progress    *usecase.ProgressService
	counter     *usecase.CounterService
	tasbih      *usecase.TasbihService
	prayerTimes *services.PrayerTimesService
	tasks       *usecase.TaskRunner

	statsRepo    *repository.StatsRepo
	dailyRepo    *repository.DailyStatsRepo
	goalsRepo    *repository.GoalsRepo
	progressRepo *repository.ProgressRepo
	userRepo     *repository.UserRepo
}

func buildServices() *appServices {
	client := utils.MongoClient

	statsRepo := repository.GetStatsRepo(client)
	dailyRepo := repository.GetDailyStatsRepo(client)
	goalsRepo := repository.GetGoalsRepo(client)
	progressRepo := repository.GetProgressRepo(client)
	sessionsRepo := repository.GetSessionsRepo(client)
	userRepo := repository.GetUserRepo(client)

	cacheConfig := config.LoadCacheConfig()
	cache, err := services.NewRedisCache(cacheConfig.RedisURL)
	if err != nil {
		log.Fatalf("Failed to initialize cache: %v", err)
	}

	tasks := usecase.NewTaskRunner(
		utils.GetEnvAsInt("TASK_WORKERS", 4),
		utils.GetEnvAsInt("TASK_QUEUE_SIZE", 256),
		usecase.DefaultRemoteTimeout,
	)

	goalService := &usecase.GoalService{Store: goalsRepo}
	progressService := &usecase.ProgressService{
		Progress:   progressRepo,
		Stats:      statsRepo,
		Activities: dailyRepo,
		Goals:      goalService,
		Tasks:      tasks,
	}
	counterService := usecase.NewCounterService(sessionsRepo, progressService, tasks)
	tasbihService := &usecase.TasbihService{Cache: cache, Recorder: progressService}
	prayerTimesService := services.NewPrayerTimesService(cache)

	return &appServices{
		progress:     progressService,
		counter:      counterService,
		tasbih:       tasbihService,
		prayerTimes:  prayerTimesService,
		tasks:        tasks,
		statsRepo:    statsRepo,
		dailyRepo:    dailyRepo,
		goalsRepo:    goalsRepo,
		progressRepo: progressRepo,
		userRepo:     userRepo,
	}
}

func setupRouter(app *appServices) *gin.Engine {
	router := gin.Default()

	router.Use(middleware.CORSMiddleware())
	router.Use(middleware.RequestTracingMiddleware())
	router.Use(middleware.MetricsMiddleware())
	router.Use(middleware.EnhancedRecoveryMiddleware())
	router.Use(middleware.RequestSizeLimiter(1 << 20))

	router.GET("/health", handler.HealthHandler)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Public routes (no authentication required)
	public := router.Group("/api")
	{
		auth := public.Group("/auth")
		{
			auth.POST("/register", func(c *gin.Context) {
				handler.RegistrationHandler(c, app.userRepo)
			})
			auth.POST("/login", func(c *gin.Context) {
				handler.LoginHandler(c, app.userRepo)
			})
		}

		// Prayer times are reference data, usable before sign-in.
		public.GET("/prayer-times", middleware.CacheControlMiddleware("300"), func(c *gin.Context) {
			handler.GetPrayerTimesHandler(c, app.prayerTimes)
		})
	}

	// Internal routes for the external scheduler.
	internal := router.Group("/api/internal")
	{
		internal.POST("/reset-daily/:userId", func(c *gin.Context) {
			handler.ResetDailyHandler(c, app.progress)
		})
	}

	// Protected routes (authentication required)
	protected := router.Group("/api")
	protected.Use(middleware.AuthMiddleware())
	{
		user := protected.Group("/user")
		{
			user.GET("/profile", func(c *gin.Context) {
				handler.GetUserProfileHandler(c, app.userRepo)
			})
		}

		progress := protected.Group("/progress")
		{
			progress.POST("/prayer", func(c *gin.Context) {
				handler.RecordPrayerHandler(c, app.progress)
			})
			progress.POST("/dhikr", func(c *gin.Context) {
				handler.RecordDhikrHandler(c, app.progress)
			})
			progress.POST("/quran", func(c *gin.Context) {
				handler.RecordQuranHandler(c, app.progress)
			})
			progress.POST("/dua", func(c *gin.Context) {
				handler.RecordDuaHandler(c, app.progress)
			})
		}

		stats := protected.Group("/stats")
		{
			stats.GET("/dashboard", func(c *gin.Context) {
				handler.GetDashboardHandler(c, app.progress, app.statsRepo, app.dailyRepo, app.goalsRepo)
			})
			stats.GET("/", func(c *gin.Context) {
				handler.GetUserStatsHandler(c, app.statsRepo)
			})
			stats.GET("/daily", func(c *gin.Context) {
				handler.GetDailyStatsHandler(c, app.dailyRepo)
			})
			stats.GET("/weekly", func(c *gin.Context) {
				handler.GetWeeklyStatsHandler(c, app.dailyRepo)
			})
			stats.GET("/stream", func(c *gin.Context) {
				handler.StreamStatsHandler(c, app.statsRepo)
			})
			stats.GET("/prayer-history", func(c *gin.Context) {
				handler.GetPrayerHistoryHandler(c, app.progressRepo)
			})
		}

		goals := protected.Group("/goals")
		{
			goals.GET("/", func(c *gin.Context) {
				handler.ListGoalsHandler(c, app.goalsRepo)
			})
			goals.POST("/", func(c *gin.Context) {
				handler.CreateGoalHandler(c, app.goalsRepo)
			})
		}

		counter := protected.Group("/counter")
		{
			counter.POST("/start", func(c *gin.Context) {
				handler.StartCounterHandler(c, app.counter)
			})
			counter.POST("/increment", func(c *gin.Context) {
				handler.IncrementCounterHandler(c, app.counter)
			})
			counter.POST("/complete", func(c *gin.Context) {
				handler.CompleteCounterHandler(c, app.counter)
			})
			counter.POST("/reset", func(c *gin.Context) {
				handler.ResetCounterHandler(c, app.counter)
			})
			counter.GET("/", func(c *gin.Context) {
				handler.GetCounterHandler(c, app.counter)
			})
		}

		tasbih := protected.Group("/tasbih")
		{
			tasbih.POST("/tap", func(c *gin.Context) {
				handler.TapTasbihHandler(c, app.tasbih)
			})
			tasbih.GET("/", func(c *gin.Context) {
				handler.GetTasbihHandler(c, app.tasbih)
			})
			tasbih.POST("/save", func(c *gin.Context) {
				handler.SaveTasbihHandler(c, app.tasbih)
			})
			tasbih.POST("/reset", func(c *gin.Context) {
				handler.ResetTasbihHandler(c, app.tasbih)
			})
		}
	}

	return router
}

func main() {
	dbConfig := config.LoadDatabaseConfig()
	db := utils.MongoClient.Database(dbConfig.DatabaseName)
	if err := repository.SetupIndexes(db); err != nil {
		log.Fatalf("Failed to set up indexes: %v", err)
	}

	app := buildServices()
	router := setupRouter(app)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%s", port),
		Handler: router,
	}

	go func() {
		log.Printf("Server starting on %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("Server shutdown error: %v", err)
	}

	// Drain queued best-effort work (activity appends, goal progress,
	// streak refreshes) before the process exits.
	app.tasks.Close()
	log.Println("Server stopped")
}
