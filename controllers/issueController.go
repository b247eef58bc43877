package controllers

import (
	"context"
	"net/http"
	"strconv"
	"strings"
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

const dbTimeout = 10 * time.Second

// priorityOrder drives the "urgent" sort; index position is the rank
var priorityOrder = bson.A{"Low", "Medium", "High", "Critical"}

// buildIssueFilter translates the list query parameters into a Mongo filter.
// Empty and "all" values are treated as "no filter".
func buildIssueFilter(category, status, priority, location, search string) bson.M {
	filter := bson.M{}

	if category != "" && category != "all" {
		filter["category"] = category
	}
	if status != "" && status != "all" {
		filter["status"] = status
	}
	if priority != "" && priority != "all" {
		filter["priority"] = priority
	}
	if location != "" {
		filter["location.address"] = bson.M{"$regex": location, "$options": "i"}
	}
	if search != "" {
		filter["$or"] = []bson.M{
			{"title": bson.M{"$regex": search, "$options": "i"}},
			{"description": bson.M{"$regex": search, "$options": "i"}},
		}
	}

	return filter
}

// issueSort maps a sort mode to Mongo sort keys. The "urgent" mode is handled
// separately via an aggregation pipeline because priority is stored as a label.
func issueSort(sort string) bson.D {
	switch sort {
	case "oldest":
		return bson.D{{Key: "createdAt", Value: 1}}
	case "popular":
		return bson.D{{Key: "metadata.views", Value: -1}}
	case "newest":
		fallthrough
	default:
		return bson.D{{Key: "createdAt", Value: -1}}
	}
}

// parsePagination normalizes page/limit query values into a skip offset
func parsePagination(pageStr, limitStr string, defaultLimit int) (page, limit, skip int) {
	page, _ = strconv.Atoi(pageStr)
	limit, _ = strconv.Atoi(limitStr)

	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = defaultLimit
	}
	return page, limit, (page - 1) * limit
}

// totalPages is ceil(total / limit)
func totalPages(total int64, limit int) int {
	return int((total + int64(limit) - 1) / int64(limit))
}

// lookupSummary loads the public identity subset for a user id
func lookupSummary(ctx context.Context, id primitive.ObjectID) *models.UserSummary {
	var user models.User
	if err := config.GetCollection("users").FindOne(ctx, bson.M{"_id": id}).Decode(&user); err != nil {
		return nil
	}
	summary := user.Summary()
	return &summary
}

// issuePayload serializes an issue with its computed fields. The reporter and
// assignee subsets are passed in; hasUpvoted is present only for signed-in
// viewers.
func issuePayload(issue *models.Issue, reporter, assignee *models.UserSummary, viewer *models.User) gin.H {
	payload := gin.H{
		"id":           issue.ID,
		"title":        issue.Title,
		"description":  issue.Description,
		"category":     issue.Category,
		"location":     issue.Location,
		"images":       issue.Images,
		"tags":         issue.Tags,
		"status":       issue.Status,
		"priority":     issue.Priority,
		"metadata":     issue.Metadata,
		"createdAt":    issue.CreatedAt,
		"updatedAt":    issue.UpdatedAt,
		"upvoteCount":  issue.UpvoteCount(),
		"commentCount": issue.CommentCount(),
		"timeAgo":      utils.TimeAgo(issue.CreatedAt),
	}

	if reporter != nil {
		payload["reportedBy"] = reporter
	} else {
		payload["reportedBy"] = gin.H{"id": issue.ReportedBy}
	}
	if assignee != nil {
		payload["assignedTo"] = assignee
	}
	if issue.Resolution != nil {
		payload["resolution"] = issue.Resolution
	}
	if viewer != nil {
		payload["hasUpvoted"] = issue.HasUpvoted(viewer.ID)
	}

	return payload
}

// CreateIssue reports a new issue on behalf of the authenticated user
func CreateIssue(c *gin.Context) {
	user, ok := middlewares.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "User not authenticated"})
		return
	}

	var input struct {
		Title       string               `json:"title" binding:"required,max=200"`
		Description string               `json:"description" binding:"required,max=2000"`
		Category    string               `json:"category" binding:"required"`
		Location    models.IssueLocation `json:"location" binding:"required"`
		Images      []string             `json:"images" binding:"omitempty,max=5,dive,url"`
		Tags        []string             `json:"tags"`
		Priority    string               `json:"priority"`
	}

	if err := c.ShouldBindJSON(&input); err != nil {
		validationFailed(c, bindingErrors(err))
		return
	}

	title := strings.TrimSpace(input.Title)
	if !lengthBetween(title, 5, 200) {
		validationFailed(c, []gin.H{{"field": "title", "message": "Title must be between 5 and 200 characters"}})
		return
	}
	description := strings.TrimSpace(input.Description)
	if !lengthBetween(description, 10, 2000) {
		validationFailed(c, []gin.H{{"field": "description", "message": "Description must be between 10 and 2000 characters"}})
		return
	}

	if !models.ValidCategory(input.Category) {
		validationFailed(c, []gin.H{{"field": "category", "message": "Invalid category"}})
		return
	}

	priority := models.PriorityMedium
	if input.Priority != "" {
		if !models.ValidPriority(input.Priority) {
			validationFailed(c, []gin.H{{"field": "priority", "message": "Invalid priority level"}})
			return
		}
		priority = models.IssuePriority(input.Priority)
	}

	images := input.Images
	if images == nil {
		images = []string{}
	}

	now := time.Now()
	issue := models.Issue{
		ID:          primitive.NewObjectID(),
		Title:       title,
		Description: description,
		Category:    models.IssueCategory(input.Category),
		Location:    input.Location,
		Images:      images,
		Tags:        models.NormalizeTags(input.Tags),
		Status:      models.StatusPending,
		Priority:    priority,
		ReportedBy:  user.ID,
		Upvotes:     []primitive.ObjectID{},
		Comments:    []primitive.ObjectID{},
		Metadata:    models.IssueMetadata{LastActivity: now},
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	ctx, cancel := context.WithTimeout(context.Background(), dbTimeout)
	defer cancel()

	if _, err := config.GetCollection("issues").InsertOne(ctx, issue); err != nil {
		config.Log.Error("inserting issue", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to create issue"})
		return
	}

	if _, err := config.GetCollection("users").UpdateOne(ctx,
		bson.M{"_id": user.ID},
		bson.M{"$inc": bson.M{"issuesReported": 1}},
	); err != nil {
		config.Log.Error("incrementing issuesReported", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to create issue"})
		return
	}

	reporter := user.Summary()
	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"message": "Issue reported successfully",
		"data":    gin.H{"issue": issuePayload(&issue, &reporter, nil, user)},
	})
}

// GetIssues returns a filtered, sorted, paginated issue feed
func GetIssues(c *gin.Context) {
	ctx, cancel := context.WithTimeout(context.Background(), dbTimeout)
	defer cancel()

	filter := buildIssueFilter(
		c.Query("category"),
		c.Query("status"),
		c.Query("priority"),
		c.Query("location"),
		c.Query("search"),
	)
	sortMode := c.DefaultQuery("sort", "newest")
	page, limit, skip := parsePagination(c.DefaultQuery("page", "1"), c.DefaultQuery("limit", "10"), 10)

	issueCollection := config.GetCollection("issues")

	total, err := issueCollection.CountDocuments(ctx, filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to count issues"})
		return
	}

	var issues []models.Issue
	if sortMode == "urgent" {
		// priority is stored as a label, so rank it inside the pipeline
		pipeline := []bson.M{
			{"$match": filter},
			{"$addFields": bson.M{"priorityRank": bson.M{"$indexOfArray": bson.A{priorityOrder, "$priority"}}}},
			{"$sort": bson.D{{Key: "priorityRank", Value: -1}, {Key: "createdAt", Value: -1}}},
			{"$skip": skip},
			{"$limit": limit},
		}
		cursor, err := issueCollection.Aggregate(ctx, pipeline)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to retrieve issues"})
			return
		}
		defer cursor.Close(ctx)
		if err := cursor.All(ctx, &issues); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to decode issues"})
			return
		}
	} else {
		findOptions := options.Find().
			SetSort(issueSort(sortMode)).
			SetSkip(int64(skip)).
			SetLimit(int64(limit))

		cursor, err := issueCollection.Find(ctx, filter, findOptions)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to retrieve issues"})
			return
		}
		defer cursor.Close(ctx)
		if err := cursor.All(ctx, &issues); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to decode issues"})
			return
		}
	}

	viewer, _ := middlewares.CurrentUser(c)

	payloads := make([]gin.H, 0, len(issues))
	for i := range issues {
		issue := &issues[i]
		reporter := lookupSummary(ctx, issue.ReportedBy)
		var assignee *models.UserSummary
		if issue.AssignedTo != nil {
			assignee = lookupSummary(ctx, *issue.AssignedTo)
		}
		payloads = append(payloads, issuePayload(issue, reporter, assignee, viewer))
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"issues": payloads,
			"pagination": gin.H{
				"page":  page,
				"limit": limit,
				"total": total,
				"pages": totalPages(total, limit),
			},
		},
	})
}

// GetIssue returns a single issue, incrementing its view counter on every read
func GetIssue(c *gin.Context) {
	issueID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid issue ID"})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), dbTimeout)
	defer cancel()

	var issue models.Issue
	err = config.GetCollection("issues").FindOneAndUpdate(
		ctx,
		bson.M{"_id": issueID},
		bson.M{"$inc": bson.M{"metadata.views": 1}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&issue)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Issue not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to retrieve issue"})
		}
		return
	}

	reporter := lookupSummary(ctx, issue.ReportedBy)
	var assignee *models.UserSummary
	if issue.AssignedTo != nil {
		assignee = lookupSummary(ctx, *issue.AssignedTo)
	}
	viewer, _ := middlewares.CurrentUser(c)

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    gin.H{"issue": issuePayload(&issue, reporter, assignee, viewer)},
	})
}

// UpdateIssue lets the owner or an admin edit an issue. Non-admins cannot
// change status: a supplied status field is ignored and the update still
// succeeds with the remaining fields.
func UpdateIssue(c *gin.Context) {
	issueID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid issue ID"})
		return
	}

	user, ok := middlewares.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "User not authenticated"})
		return
	}

	var input struct {
		Title       *string               `json:"title" binding:"omitempty,max=200"`
		Description *string               `json:"description" binding:"omitempty,max=2000"`
		Category    *string               `json:"category"`
		Location    *models.IssueLocation `json:"location"`
		Images      *[]string             `json:"images" binding:"omitempty,max=5,dive,url"`
		Tags        *[]string             `json:"tags"`
		Status      *string               `json:"status"`
	}

	if err := c.ShouldBindJSON(&input); err != nil {
		validationFailed(c, bindingErrors(err))
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), dbTimeout)
	defer cancel()

	issueCollection := config.GetCollection("issues")

	var issue models.Issue
	if err := issueCollection.FindOne(ctx, bson.M{"_id": issueID}).Decode(&issue); err != nil {
		if err == mongo.ErrNoDocuments {
			c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Issue not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to retrieve issue"})
		}
		return
	}

	if issue.ReportedBy != user.ID && !user.IsAdmin() {
		c.JSON(http.StatusForbidden, gin.H{"success": false, "message": "Not authorized to update this issue"})
		return
	}

	now := time.Now()
	update := bson.M{
		"updatedAt":             now,
		"metadata.lastActivity": now,
	}

	if input.Title != nil {
		title := strings.TrimSpace(*input.Title)
		if !lengthBetween(title, 5, 200) {
			validationFailed(c, []gin.H{{"field": "title", "message": "Title must be between 5 and 200 characters"}})
			return
		}
		update["title"] = title
	}
	if input.Description != nil {
		description := strings.TrimSpace(*input.Description)
		if !lengthBetween(description, 10, 2000) {
			validationFailed(c, []gin.H{{"field": "description", "message": "Description must be between 10 and 2000 characters"}})
			return
		}
		update["description"] = description
	}
	if input.Category != nil {
		if !models.ValidCategory(*input.Category) {
			validationFailed(c, []gin.H{{"field": "category", "message": "Invalid category"}})
			return
		}
		update["category"] = *input.Category
	}
	if input.Location != nil {
		if input.Location.Address == "" {
			validationFailed(c, []gin.H{{"field": "location", "message": "Location address is required"}})
			return
		}
		update["location"] = *input.Location
	}
	if input.Images != nil {
		update["images"] = *input.Images
	}
	if input.Tags != nil {
		update["tags"] = models.NormalizeTags(*input.Tags)
	}
	if input.Status != nil && user.IsAdmin() {
		if !models.ValidStatus(*input.Status) {
			validationFailed(c, []gin.H{{"field": "status", "message": "Invalid status"}})
			return
		}
		update["status"] = *input.Status
		if models.IssueStatus(*input.Status) == models.StatusResolved && issue.Status != models.StatusResolved {
			update["resolution"] = models.Resolution{
				Description: "Marked resolved",
				ResolvedAt:  now,
				ResolvedBy:  user.ID,
			}
		}
	}

	var updated models.Issue
	err = issueCollection.FindOneAndUpdate(
		ctx,
		bson.M{"_id": issueID},
		bson.M{"$set": update},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&updated)
	if err != nil {
		config.Log.Error("updating issue", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to update issue"})
		return
	}

	reporter := lookupSummary(ctx, updated.ReportedBy)
	var assignee *models.UserSummary
	if updated.AssignedTo != nil {
		assignee = lookupSummary(ctx, *updated.AssignedTo)
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Issue updated successfully",
		"data":    gin.H{"issue": issuePayload(&updated, reporter, assignee, user)},
	})
}

// DeleteIssue removes an issue and cascades to its comments. Order: comments,
// then the issue, then the reporter's counter. A failure partway through is
// surfaced as a server error with no compensating rollback.
func DeleteIssue(c *gin.Context) {
	issueID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid issue ID"})
		return
	}

	user, ok := middlewares.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "User not authenticated"})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), dbTimeout)
	defer cancel()

	issueCollection := config.GetCollection("issues")

	var issue models.Issue
	if err := issueCollection.FindOne(ctx, bson.M{"_id": issueID}).Decode(&issue); err != nil {
		if err == mongo.ErrNoDocuments {
			c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Issue not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to retrieve issue"})
		}
		return
	}

	if issue.ReportedBy != user.ID && !user.IsAdmin() {
		c.JSON(http.StatusForbidden, gin.H{"success": false, "message": "Not authorized to delete this issue"})
		return
	}

	if _, err := config.GetCollection("comments").DeleteMany(ctx, bson.M{"issue": issueID}); err != nil {
		config.Log.Error("deleting issue comments", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to delete issue"})
		return
	}

	if _, err := issueCollection.DeleteOne(ctx, bson.M{"_id": issueID}); err != nil {
		config.Log.Error("deleting issue", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to delete issue"})
		return
	}

	if _, err := config.GetCollection("users").UpdateOne(ctx,
		bson.M{"_id": issue.ReportedBy},
		bson.M{"$inc": bson.M{"issuesReported": -1}},
	); err != nil {
		config.Log.Error("decrementing issuesReported", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to delete issue"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Issue deleted successfully",
	})
}

// ToggleUpvote adds or removes the acting user from the issue's upvote set.
// $addToSet/$pull keep the set duplicate-free under concurrent toggles.
func ToggleUpvote(c *gin.Context) {
	issueID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid issue ID"})
		return
	}

	user, ok := middlewares.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "User not authenticated"})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), dbTimeout)
	defer cancel()

	issueCollection := config.GetCollection("issues")

	var issue models.Issue
	if err := issueCollection.FindOne(ctx, bson.M{"_id": issueID}).Decode(&issue); err != nil {
		if err == mongo.ErrNoDocuments {
			c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Issue not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to retrieve issue"})
		}
		return
	}

	var update bson.M
	if issue.HasUpvoted(user.ID) {
		update = bson.M{"$pull": bson.M{"upvotes": user.ID}}
	} else {
		update = bson.M{"$addToSet": bson.M{"upvotes": user.ID}}
	}

	var updated models.Issue
	err = issueCollection.FindOneAndUpdate(
		ctx,
		bson.M{"_id": issueID},
		update,
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&updated)
	if err != nil {
		config.Log.Error("toggling issue upvote", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to toggle upvote"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"upvoteCount": updated.UpvoteCount(),
			"hasUpvoted":  updated.HasUpvoted(user.ID),
		},
	})
}

// GetIssueStats aggregates counts by status and category across all issues
func GetIssueStats(c *gin.Context) {
	ctx, cancel := context.WithTimeout(context.Background(), dbTimeout)
	defer cancel()

	issueCollection := config.GetCollection("issues")

	statusCond := func(status models.IssueStatus) bson.M {
		return bson.M{"$sum": bson.M{"$cond": bson.A{bson.M{"$eq": bson.A{"$status", status}}, 1, 0}}}
	}

	overviewPipeline := []bson.M{
		{"$group": bson.M{
			"_id":              nil,
			"totalIssues":      bson.M{"$sum": 1},
			"pendingIssues":    statusCond(models.StatusPending),
			"inProgressIssues": statusCond(models.StatusInProgress),
			"resolvedIssues":   statusCond(models.StatusResolved),
			"rejectedIssues":   statusCond(models.StatusRejected),
			"totalUpvotes":     bson.M{"$sum": bson.M{"$size": "$upvotes"}},
			"totalViews":       bson.M{"$sum": "$metadata.views"},
		}},
		{"$project": bson.M{"_id": 0}},
	}

	cursor, err := issueCollection.Aggregate(ctx, overviewPipeline)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to get issue stats"})
		return
	}
	defer cursor.Close(ctx)

	var overviews []bson.M
	if err := cursor.All(ctx, &overviews); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to decode issue stats"})
		return
	}

	overview := bson.M{
		"totalIssues":      0,
		"pendingIssues":    0,
		"inProgressIssues": 0,
		"resolvedIssues":   0,
		"rejectedIssues":   0,
		"totalUpvotes":     0,
		"totalViews":       0,
	}
	if len(overviews) > 0 {
		overview = overviews[0]
	}

	categoryPipeline := []bson.M{
		{"$group": bson.M{"_id": "$category", "count": bson.M{"$sum": 1}}},
		{"$sort": bson.M{"count": -1}},
	}

	categoryCursor, err := issueCollection.Aggregate(ctx, categoryPipeline)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to get category stats"})
		return
	}
	defer categoryCursor.Close(ctx)

	var categories []bson.M
	if err := categoryCursor.All(ctx, &categories); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to decode category stats"})
		return
	}
	if categories == nil {
		categories = []bson.M{}
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"overview":   overview,
			"categories": categories,
		},
	})
}

// GetMyIssues returns the authenticated user's reported issues, newest first
func GetMyIssues(c *gin.Context) {
	user, ok := middlewares.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "User not authenticated"})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), dbTimeout)
	defer cancel()

	findOptions := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := config.GetCollection("issues").Find(ctx, bson.M{"reportedBy": user.ID}, findOptions)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to retrieve issues"})
		return
	}
	defer cursor.Close(ctx)

	var issues []models.Issue
	if err := cursor.All(ctx, &issues); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to decode issues"})
		return
	}

	reporter := user.Summary()
	payloads := make([]gin.H, 0, len(issues))
	for i := range issues {
		issue := &issues[i]
		var assignee *models.UserSummary
		if issue.AssignedTo != nil {
			assignee = lookupSummary(ctx, *issue.AssignedTo)
		}
		payloads = append(payloads, issuePayload(issue, &reporter, assignee, user))
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    gin.H{"issues": payloads},
	})
}

// GetMapIssues returns recent issues that carry coordinates, projected down
// to what a map pin needs
func GetMapIssues(c *gin.Context) {
	ctx, cancel := context.WithTimeout(context.Background(), dbTimeout)
	defer cancel()

	filter := bson.M{"location.coordinates": bson.M{"$exists": true, "$ne": nil}}
	projection := bson.M{
		"_id":       1,
		"title":     1,
		"category":  1,
		"location":  1,
		"createdAt": 1,
	}

	findOptions := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}}).
		SetLimit(20).
		SetProjection(projection)

	cursor, err := config.GetCollection("issues").Find(ctx, filter, findOptions)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to retrieve map issues"})
		return
	}
	defer cursor.Close(ctx)

	var issues []models.Issue
	if err := cursor.All(ctx, &issues); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to decode map issues"})
		return
	}

	pins := make([]gin.H, 0, len(issues))
	for i := range issues {
		issue := &issues[i]
		if issue.Location.Coordinates == nil {
			continue
		}
		pins = append(pins, gin.H{
			"id":        issue.ID,
			"title":     issue.Title,
			"category":  issue.Category,
			"address":   issue.Location.Address,
			"lat":       issue.Location.Coordinates.Lat,
			"lng":       issue.Location.Coordinates.Lng,
			"createdAt": issue.CreatedAt,
		})
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    gin.H{"issues": pins},
	})
}

// AssignIssue sets the assignee on an issue. Admin only.
func AssignIssue(c *gin.Context) {
	issueID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid issue ID"})
		return
	}

	user, ok := middlewares.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "User not authenticated"})
		return
	}

	var input struct {
		AssignedTo string `json:"assignedTo" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		validationFailed(c, bindingErrors(err))
		return
	}

	assigneeID, err := primitive.ObjectIDFromHex(input.AssignedTo)
	if err != nil {
		validationFailed(c, []gin.H{{"field": "assignedTo", "message": "Invalid user ID"}})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), dbTimeout)
	defer cancel()

	assignee := lookupSummary(ctx, assigneeID)
	if assignee == nil {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Assignee not found"})
		return
	}

	now := time.Now()
	var updated models.Issue
	err = config.GetCollection("issues").FindOneAndUpdate(
		ctx,
		bson.M{"_id": issueID},
		bson.M{"$set": bson.M{
			"assignedTo":            assigneeID,
			"updatedAt":             now,
			"metadata.lastActivity": now,
		}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&updated)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Issue not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to assign issue"})
		}
		return
	}

	reporter := lookupSummary(ctx, updated.ReportedBy)
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Issue assigned successfully",
		"data":    gin.H{"issue": issuePayload(&updated, reporter, assignee, user)},
	})
}
