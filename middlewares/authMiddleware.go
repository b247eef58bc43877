package middlewares

import (
	"context"
	"net/http"
	"strings"
	"time"

	"saarthi-be/config"
	"saarthi-be/models"
	"saarthi-be/utils"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ContextKeyUser is the gin context key holding the resolved *models.User
const ContextKeyUser = "user"

// extractToken pulls the bearer token from the Authorization header, falling
// back to the "token" cookie
func extractToken(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	if strings.HasPrefix(header, "Bearer ") {
		return header[len("Bearer "):]
	}
	if cookie, err := c.Cookie("token"); err == nil {
		return cookie
	}
	return ""
}

// resolveUser verifies the token and loads the user it names
func resolveUser(c *gin.Context, raw string) (*models.User, error) {
	claims, err := utils.ParseToken(raw)
	if err != nil {
		return nil, err
	}

	userID, err := primitive.ObjectIDFromHex(claims.UserID)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	var user models.User
	if err := config.GetCollection("users").FindOne(ctx, bson.M{"_id": userID}).Decode(&user); err != nil {
		return nil, err
	}
	return &user, nil
}

// Protect rejects requests without a valid token naming an existing user
func Protect() gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := extractToken(c)
		if raw == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"success": false,
				"message": "Not authorized to access this route",
			})
			return
		}

		user, err := resolveUser(c, raw)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"success": false,
				"message": "Not authorized to access this route",
			})
			return
		}

		c.Set(ContextKeyUser, user)
		c.Next()
	}
}

// OptionalAuth resolves the user when a valid token is present and proceeds
// anonymously otherwise. Downstream handlers must tolerate an absent user.
func OptionalAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if raw := extractToken(c); raw != "" {
			if user, err := resolveUser(c, raw); err == nil {
				c.Set(ContextKeyUser, user)
			}
		}
		c.Next()
	}
}

// Authorize restricts a route to the given roles. It must run after Protect.
func Authorize(roles ...models.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := CurrentUser(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"success": false,
				"message": "User not authenticated",
			})
			return
		}

		for _, role := range roles {
			if user.Role == role {
				c.Next()
				return
			}
		}

		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
			"success": false,
			"message": "User role " + string(user.Role) + " is not authorized to access this route",
		})
	}
}

// CurrentUser returns the user attached by Protect or OptionalAuth
func CurrentUser(c *gin.Context) (*models.User, bool) {
	val, exists := c.Get(ContextKeyUser)
	if !exists {
		return nil, false
	}
	user, ok := val.(*models.User)
	if !ok || user == nil {
		return nil, false
	}
	return user, true
}
