package routes

import (
	"saarthi-be/controllers"
	"saarthi-be/middlewares"

	"github.com/gin-gonic/gin"
)

// CommentRoutes sets up the direct comment routes
func CommentRoutes(r *gin.Engine) {
	comment := r.Group("/api/comments")
	{
		comment.PUT("/:id", middlewares.Protect(), controllers.UpdateComment)
		comment.DELETE("/:id", middlewares.Protect(), controllers.DeleteComment)
		comment.POST("/:id/upvote", middlewares.Protect(), controllers.ToggleCommentUpvote)
	}
}
