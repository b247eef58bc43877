package routes

import (
	"saarthi-be/controllers"
	"saarthi-be/middlewares"

	"github.com/gin-gonic/gin"
)

// AuthRoutes sets up registration, login, and profile routes
func AuthRoutes(r *gin.Engine) {
	auth := r.Group("/api/auth")
	{
		auth.POST("/register", controllers.Register)
		auth.POST("/login", controllers.Login)
		auth.POST("/logout", controllers.Logout)
		auth.GET("/me", middlewares.Protect(), controllers.GetMe)
		auth.PUT("/profile", middlewares.Protect(), controllers.UpdateProfile)
	}
}
