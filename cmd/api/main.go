package main

import (
	"fmt"
	"net/http"
	"os"

	"github.com/gin-gonic/gin"

	"costbook/internal/auth"
	"costbook/internal/config"
	"costbook/internal/database"
	"costbook/internal/handlers"
	"costbook/internal/logger"
	"costbook/internal/middleware"
	"costbook/internal/services"
	"costbook/internal/validator"
)

func main() {
	// Initialize logger (use ENV var if available, default to development)
	logger.Init(os.Getenv("ENV"))
	defer logger.Sync()

	if err := run(); err != nil {
		logger.Get().Fatalf("Fatal error: %v", err)
	}
}

func run() error {
	log := logger.Get()

	// Load configuration
	appConfig, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	// Create database manager
	dbManager, err := database.NewManager(appConfig)
	if err != nil {
		return fmt.Errorf("failed to create database manager: %w", err)
	}

	if err := dbManager.AutoMigrate(); err != nil {
		return fmt.Errorf("failed to migrate database schema: %w", err)
	}

	db := dbManager.DB()

	// Demo seeding is best-effort: failures are logged, never fatal.
	if appConfig.SeedDemoData {
		database.SeedDemoData(db)
	}

	// Register custom binding validators
	validator.Register()

	// Token service holds the signing secret loaded once at startup;
	// rotating it invalidates all outstanding tokens.
	tokens := auth.NewTokenService(appConfig.JWTSecret, appConfig.JWTExpirationDur)

	// Initialize services
	userService := services.NewUserService(db)
	bookService := services.NewBookService(db)
	categoryService := services.NewCategoryService(db)
	recordService := services.NewRecordService(db)
	auditService := services.NewAuditService(db)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(userService, tokens)
	userHandler := handlers.NewUserHandler(userService, auditService)
	bookHandler := handlers.NewBookHandler(bookService, auditService)
	categoryHandler := handlers.NewCategoryHandler(categoryService, auditService)
	recordHandler := handlers.NewRecordHandler(recordService, auditService)

	// Initialize Gin router
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogging())
	router.Use(middleware.ErrorHandler())

	// Greeting kept for client compatibility.
	router.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "Hello, labor man!"})
	})

	// Health check endpoint
	router.GET("/api/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// Public routes: login and signup.
	router.POST("/token", authHandler.Token)
	router.POST("/users", userHandler.CreateUser)

	// All entity routes require a valid bearer token.
	protected := router.Group("/")
	protected.Use(middleware.RequireAuth(tokens, userService))

	users := protected.Group("/users")
	users.GET("", userHandler.ListUsers)
	users.GET("/me", userHandler.GetMe)
	users.GET("/:id", userHandler.GetUserByID)
	users.PUT("/:id", userHandler.UpdateUser)
	users.DELETE("/:id", userHandler.DeleteUser)

	books := protected.Group("/books")
	books.POST("", bookHandler.CreateBook)
	books.GET("", bookHandler.ListBooks)
	books.GET("/:id", bookHandler.GetBookByID)
	books.PUT("/:id", bookHandler.UpdateBook)
	books.DELETE("/:id", bookHandler.DeleteBook)
	books.POST("/:id/members", bookHandler.AddMember)
	books.DELETE("/:id/members/:userID", bookHandler.RemoveMember)

	categories := protected.Group("/categories")
	categories.POST("", categoryHandler.CreateCategory)
	categories.GET("", categoryHandler.ListCategories)
	categories.GET("/:id", categoryHandler.GetCategoryByID)
	categories.PUT("/:id", categoryHandler.UpdateCategory)
	categories.DELETE("/:id", categoryHandler.DeleteCategory)

	records := protected.Group("/records")
	records.POST("", recordHandler.CreateRecord)
	records.GET("", recordHandler.ListRecords)
	records.GET("/:id", recordHandler.GetRecordByID)
	records.PUT("/:id", recordHandler.UpdateRecord)
	records.DELETE("/:id", recordHandler.DeleteRecord)

	log.Infof("Starting costbook server on port %s", appConfig.Port)
	return router.Run(":" + appConfig.Port)
}
