package main

import (
	"log"
	"net/http"
	"strconv"
	"time"

	"saarthi-be/config"
	"saarthi-be/middlewares"
	"saarthi-be/routes"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}

	config.InitLogger()
	defer config.Log.Sync()

	if config.GetEnv("GO_ENV", "development") == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	db := config.ConnectDB()
	if db == nil {
		config.Log.Fatal("Failed to connect to MongoDB")
	}
	config.Log.Info("MongoDB connection established")

	config.ConnectRedis()

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middlewares.RequestLogger())

	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{config.GetEnv("FRONTEND_URL", "http://localhost:8080")},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	rateLimit, _ := strconv.Atoi(config.GetEnv("RATE_LIMIT_MAX_REQUESTS", "100"))
	rateWindow, _ := strconv.Atoi(config.GetEnv("RATE_LIMIT_WINDOW_MINUTES", "15"))
	r.Use(middlewares.RateLimiter(rateLimit, time.Duration(rateWindow)*time.Minute))

	routes.AuthRoutes(r)
	routes.IssueRoutes(r)
	routes.CommentRoutes(r)

	r.GET("/api/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"success":   true,
			"message":   "SAARTHI Backend API is running",
			"timestamp": time.Now().Format(time.RFC3339),
		})
	})

	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"message": "Route not found",
		})
	})

	port := config.GetEnv("PORT", "5000")
	config.Log.Info("Starting server", zap.String("port", port))
	if err := r.Run(":" + port); err != nil {
		config.Log.Fatal("Failed to start server", zap.Error(err))
	}
}
