package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/uptrace/bun"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/exertrack/exertrack/internal/config"
	"github.com/exertrack/exertrack/internal/metrics"
	"github.com/exertrack/exertrack/internal/tracker"
	"github.com/exertrack/exertrack/internal/tracker/exercises"
	"github.com/exertrack/exertrack/internal/tracker/users"
)

// AppState holds all application services
type AppState struct {
	DB              *bun.DB
	Logger          *zap.Logger
	Config          *config.Config
	UserService     users.UserService
	ExerciseService exercises.ExerciseService
}

func main() {
	// Load configuration
	config.Load()

	logger := initLogger()

	as, err := newAppState(logger)
	if err != nil {
		logger.Fatal("Failed to initialize application state", zap.Error(err))
	}

	// Bootstrap schema
	ctx := context.Background()
	if err := users.CreateTables(ctx, as.DB); err != nil {
		logger.Fatal("Failed to create users schema", zap.Error(err))
	}
	if err := exercises.CreateTables(ctx, as.DB); err != nil {
		logger.Fatal("Failed to create exercises schema", zap.Error(err))
	}

	router := setupRouter(as)

	addr := fmt.Sprintf("%s:%d", config.Http().Host, config.Http().Port)

	server := &http.Server{
		Addr:    addr,
		Handler: router,
	}

	done := setupSignalHandler(as, server, logger)

	logger.Info("Starting ExerTrack server", zap.String("address", addr))

	err = server.ListenAndServe()
	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Fatal("Failed to start server", zap.Error(err))
	}

	<-done
	logger.Info("Server shutdown complete")
}

// newAppState creates and initializes the application state
func newAppState(logger *zap.Logger) (*AppState, error) {
	pgConfig := config.Postgres()

	logger.Info("Database configuration",
		zap.String("host", pgConfig.Host),
		zap.Int("port", pgConfig.Port),
		zap.String("database", pgConfig.Database),
		zap.String("user", pgConfig.User))

	db, err := tracker.OpenDatabase(pgConfig.DSN(), pgConfig.MaxOpenConnections)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	userStore := users.NewUserStore(db)
	userService := users.NewUserService(userStore)

	exerciseStore := exercises.NewExerciseStore(db)
	exerciseService := exercises.NewExerciseService(exerciseStore)

	return &AppState{
		DB:              db,
		Logger:          logger,
		Config:          config.Get(),
		UserService:     userService,
		ExerciseService: exerciseService,
	}, nil
}

func initLogger() *zap.Logger {
	logConfig := config.Logger()

	var config zap.Config
	if logConfig.Format == "json" {
		config = zap.NewProductionConfig()
	} else {
		config = zap.NewDevelopmentConfig()
	}

	switch logConfig.Level {
	case "debug":
		config.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	case "info":
		config.Level = zap.NewAtomicLevelAt(zap.InfoLevel)
	case "warn":
		config.Level = zap.NewAtomicLevelAt(zap.WarnLevel)
	case "error":
		config.Level = zap.NewAtomicLevelAt(zap.ErrorLevel)
	default:
		config.Level = zap.NewAtomicLevelAt(zap.InfoLevel)
	}

	config.EncoderConfig.TimeKey = "timestamp"
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	logger, err := config.Build()
	if err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}

	return logger
}

func setupRouter(as *AppState) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()

	router.Use(cors.Default())
	router.Use(gin.Logger())
	router.Use(gin.Recovery())

	if config.Metrics().Enabled {
		router.Use(metrics.Middleware())
		router.GET(config.Metrics().Path, metrics.Handler())
	}

	// Static landing page
	staticDir := config.Http().StaticDir
	if staticDir != "" {
		router.StaticFile("/", staticDir+"/index.html")
		router.Static("/public", staticDir)
	}

	// Health endpoint
	router.GET("/health", func(c *gin.Context) {
		ctx := c.Request.Context()

		if err := as.DB.PingContext(ctx); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":    "unhealthy",
				"timestamp": time.Now().Format(time.RFC3339),
				"error":     err.Error(),
			})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"status":    "healthy",
			"timestamp": time.Now().Format(time.RFC3339),
			"services": gin.H{
				"database": "healthy",
			},
		})
	})

	api := router.Group("/api")
	{
		usersGroup := api.Group("/users")
		{
			usersGroup.POST("", createUser(as))
			usersGroup.GET("", listUsers(as))
			usersGroup.POST("/:id/exercises", addExercise(as))
			usersGroup.GET("/:id/logs", getLogs(as))
		}
	}

	return router
}

func createUser(as *AppState) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req users.CreateUserRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
			return
		}

		user, err := as.UserService.CreateUser(c.Request.Context(), &req)
		if err != nil {
			respondError(as, c, err, "Failed to create user")
			return
		}

		as.Logger.Info("User created",
			zap.String("user_id", user.UUID.String()),
			zap.String("username", user.Username))
		c.JSON(http.StatusCreated, user)
	}
}

func listUsers(as *AppState) gin.HandlerFunc {
	return func(c *gin.Context) {
		list, err := as.UserService.ListUsers(c.Request.Context())
		if err != nil {
			respondError(as, c, err, "Failed to list users")
			return
		}

		c.JSON(http.StatusOK, list)
	}
}

func addExercise(as *AppState) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req exercises.CreateExerciseRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
			return
		}

		user, err := as.UserService.Resolve(c.Request.Context(), c.Param("id"))
		if err != nil {
			respondError(as, c, err, "Failed to resolve user")
			return
		}

		record, err := as.ExerciseService.AddExercise(c.Request.Context(), user, &req)
		if err != nil {
			respondError(as, c, err, "Failed to add exercise")
			return
		}

		as.Logger.Info("Exercise logged",
			zap.String("user_id", user.UUID.String()),
			zap.String("description", record.Description),
			zap.Int("duration", record.Duration))
		c.JSON(http.StatusCreated, record)
	}
}

func getLogs(as *AppState) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, err := as.UserService.Resolve(c.Request.Context(), c.Param("id"))
		if err != nil {
			respondError(as, c, err, "Failed to resolve user")
			return
		}

		filter := exercises.ParseLogFilter(c.Query("from"), c.Query("to"), c.Query("limit"))

		log, err := as.ExerciseService.QueryLog(c.Request.Context(), user, filter)
		if err != nil {
			respondError(as, c, err, "Failed to query log")
			return
		}

		c.JSON(http.StatusOK, log)
	}
}

// respondError maps tracker error kinds onto HTTP statuses. Anything
// unclassified is an internal failure and gets logged.
func respondError(as *AppState, c *gin.Context, err error, message string) {
	switch {
	case tracker.IsValidation(err):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case tracker.IsNotFound(err):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case tracker.IsAlreadyExists(err):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	default:
		as.Logger.Error(message, zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": message})
	}
}

func setupSignalHandler(as *AppState, server *http.Server, logger *zap.Logger) chan struct{} {
	done := make(chan struct{}, 1)

	signalCh := make(chan os.Signal, 1)
	signal.Notify(signalCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-signalCh

		logger.Info("Shutting down server...")

		timeout := time.Duration(config.Http().ShutdownTimeout) * time.Second
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		if err := server.Shutdown(ctx); err != nil {
			logger.Error("Error during server shutdown", zap.Error(err))
		}

		if err := as.DB.Close(); err != nil {
			logger.Error("Error closing database", zap.Error(err))
		}

		done <- struct{}{}
	}()

	return done
}
