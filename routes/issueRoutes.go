package routes

import (
	"saarthi-be/controllers"
	"saarthi-be/middlewares"
	"saarthi-be/models"

	"github.com/gin-gonic/gin"
)

// IssueRoutes sets up the issue routes, including the nested comment routes
// that share the :id segment
func IssueRoutes(r *gin.Engine) {
	issue := r.Group("/api/issues")
	{
		issue.GET("", middlewares.OptionalAuth(), controllers.GetIssues)
		issue.GET("/stats", controllers.GetIssueStats)
		issue.GET("/map", controllers.GetMapIssues)
		issue.GET("/mine", middlewares.Protect(), controllers.GetMyIssues)
		issue.GET("/:id", middlewares.OptionalAuth(), controllers.GetIssue)
		issue.POST("", middlewares.Protect(), controllers.CreateIssue)
		issue.PUT("/:id", middlewares.Protect(), controllers.UpdateIssue)
		issue.DELETE("/:id", middlewares.Protect(), controllers.DeleteIssue)
		issue.POST("/:id/upvote", middlewares.Protect(), controllers.ToggleUpvote)
		issue.PUT("/:id/assign", middlewares.Protect(), middlewares.Authorize(models.RoleAdmin), controllers.AssignIssue)

		issue.GET("/:id/comments", middlewares.OptionalAuth(), controllers.GetComments)
		issue.POST("/:id/comments", middlewares.Protect(), controllers.CreateComment)
	}
}
