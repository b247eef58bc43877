package controllers

import (
	"context"
	"net/http"
	"os"
	"time"

	"saarthi-be/config"
	"saarthi-be/middlewares"
	"saarthi-be/models"
	"saarthi-be/utils"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

// userPayload is the caller's own profile, credentials excluded
func userPayload(u *models.User) gin.H {
	return gin.H{
		"id":             u.ID,
		"name":           u.Name,
		"email":          u.Email,
		"avatar":         u.Avatar,
		"location":       u.Location,
		"bio":            u.Bio,
		"role":           u.Role,
		"issuesReported": u.IssuesReported,
		"issuesResolved": u.IssuesResolved,
		"reputation":     u.Reputation,
		"createdAt":      u.CreatedAt,
	}
}

func setAuthCookie(c *gin.Context, token string) {
	environment := os.Getenv("GO_ENV")
	domain := os.Getenv("DOMAIN")
	if environment == "production" {
		domain = ""
	}

	cookie := &http.Cookie{
		Name:     "token",
		Value:    token,
		MaxAge:   7 * 24 * 3600,
		Path:     "/",
		Domain:   domain,
		Secure:   environment == "production",
		HttpOnly: true,
		SameSite: http.SameSiteNoneMode,
	}
	http.SetCookie(c.Writer, cookie)
}

// Register creates a user account and returns a signed token
func Register(c *gin.Context) {
	var input struct {
		Name     string `json:"name" binding:"required,min=2,max=50"`
		Email    string `json:"email" binding:"required,email"`
		Password string `json:"password" binding:"required,min=6"`
		Location string `json:"location" binding:"omitempty,max=100"`
	}

	if err := c.ShouldBindJSON(&input); err != nil {
		validationFailed(c, bindingErrors(err))
		return
	}

	userCollection := config.GetCollection("users")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	count, err := userCollection.CountDocuments(ctx, bson.M{"email": input.Email})
	if err != nil {
		config.Log.Error("checking existing user", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Something went wrong"})
		return
	}
	if count > 0 {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "User already exists with this email"})
		return
	}

	location := input.Location
	if location == "" {
		location = "Delhi, India"
	}

	now := time.Now()
	user := models.User{
		Name:       input.Name,
		Email:      input.Email,
		Password:   input.Password,
		Location:   location,
		Role:       models.RoleUser,
		Reputation: 10,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	if err := user.HashPassword(); err != nil {
		config.Log.Error("hashing password", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Something went wrong"})
		return
	}

	result, err := userCollection.InsertOne(ctx, user)
	if err != nil {
		// the unique email index catches registrations racing past the
		// pre-insert count
		if mongo.IsDuplicateKeyError(err) {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "User already exists with this email"})
			return
		}
		config.Log.Error("inserting user", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Something went wrong"})
		return
	}
	user.ID = result.InsertedID.(primitive.ObjectID)

	token, err := utils.GenerateToken(&user)
	if err != nil {
		config.Log.Error("generating token", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Something went wrong"})
		return
	}
	setAuthCookie(c, token)

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"message": "User registered successfully",
		"data": gin.H{
			"user":  userPayload(&user),
			"token": token,
		},
	})
}

// Login verifies credentials and returns a signed token
func Login(c *gin.Context) {
	var input struct {
		Email    string `json:"email" binding:"required,email"`
		Password string `json:"password" binding:"required"`
	}

	if err := c.ShouldBindJSON(&input); err != nil {
		validationFailed(c, bindingErrors(err))
		return
	}

	userCollection := config.GetCollection("users")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var user models.User
	if err := userCollection.FindOne(ctx, bson.M{"email": input.Email}).Decode(&user); err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "Invalid credentials"})
		return
	}

	if !user.ComparePassword(input.Password) {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "Invalid credentials"})
		return
	}

	token, err := utils.GenerateToken(&user)
	if err != nil {
		config.Log.Error("generating token", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Something went wrong"})
		return
	}
	setAuthCookie(c, token)

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Login successful",
		"data": gin.H{
			"user":  userPayload(&user),
			"token": token,
		},
	})
}

// GetMe returns the authenticated user's profile
func GetMe(c *gin.Context) {
	user, ok := middlewares.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "User not authenticated"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    gin.H{"user": userPayload(user)},
	})
}

// UpdateProfile updates name, location, and bio only
func UpdateProfile(c *gin.Context) {
	user, ok := middlewares.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "User not authenticated"})
		return
	}

	var input struct {
		Name     *string `json:"name" binding:"omitempty,min=2,max=50"`
		Location *string `json:"location" binding:"omitempty,max=100"`
		Bio      *string `json:"bio" binding:"omitempty,max=500"`
	}

	if err := c.ShouldBindJSON(&input); err != nil {
		validationFailed(c, bindingErrors(err))
		return
	}

	update := bson.M{"updatedAt": time.Now()}
	if input.Name != nil {
		update["name"] = *input.Name
	}
	if input.Location != nil {
		update["location"] = *input.Location
	}
	if input.Bio != nil {
		update["bio"] = *input.Bio
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var updated models.User
	err := config.GetCollection("users").FindOneAndUpdate(
		ctx,
		bson.M{"_id": user.ID},
		bson.M{"$set": update},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&updated)
	if err != nil {
		config.Log.Error("updating profile", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Something went wrong"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Profile updated successfully",
		"data":    gin.H{"user": userPayload(&updated)},
	})
}

// Logout clears the auth cookie
func Logout(c *gin.Context) {
	environment := os.Getenv("GO_ENV")
	domain := os.Getenv("DOMAIN")

	c.SetCookie("token", "", -1, "/", domain, environment == "production", true)
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Logged out successfully",
	})
}
