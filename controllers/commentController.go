package controllers

import (
	"context"
	"net/http"
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

// commentPayload serializes a comment with its computed fields. replies, when
// non-nil, holds the serialized reply payloads of a top-level comment.
func commentPayload(comment *models.Comment, author *models.UserSummary, replies []gin.H, viewer *models.User) gin.H {
	payload := gin.H{
		"id":          comment.ID,
		"content":     comment.Content,
		"issue":       comment.Issue,
		"isEdited":    comment.IsEdited,
		"createdAt":   comment.CreatedAt,
		"updatedAt":   comment.UpdatedAt,
		"upvoteCount": comment.UpvoteCount(),
		"replyCount":  comment.ReplyCount(),
		"timeAgo":     utils.TimeAgo(comment.CreatedAt),
	}

	if author != nil {
		payload["author"] = author
	} else {
		payload["author"] = gin.H{"id": comment.Author}
	}
	if comment.ParentComment != nil {
		payload["parentComment"] = comment.ParentComment
	}
	if comment.EditedAt != nil {
		payload["editedAt"] = comment.EditedAt
	}
	if replies != nil {
		payload["replies"] = replies
	}
	if viewer != nil {
		payload["hasUpvoted"] = comment.HasUpvoted(viewer.ID)
	}

	return payload
}

// loadReplies fetches a top-level comment's replies in creation order
func loadReplies(ctx context.Context, parentID primitive.ObjectID, viewer *models.User) ([]gin.H, error) {
	findOptions := options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}})
	cursor, err := config.GetCollection("comments").Find(ctx, bson.M{"parentComment": parentID}, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var replies []models.Comment
	if err := cursor.All(ctx, &replies); err != nil {
		return nil, err
	}

	payloads := make([]gin.H, 0, len(replies))
	for i := range replies {
		reply := &replies[i]
		author := lookupSummary(ctx, reply.Author)
		payloads = append(payloads, commentPayload(reply, author, nil, viewer))
	}
	return payloads, nil
}

// GetComments returns an issue's top-level comments, paginated, each with its
// replies populated in creation order
func GetComments(c *gin.Context) {
	issueID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid issue ID"})
		return
	}

	page, limit, skip := parsePagination(c.DefaultQuery("page", "1"), c.DefaultQuery("limit", "20"), 20)

	ctx, cancel := context.WithTimeout(context.Background(), dbTimeout)
	defer cancel()

	if err := config.GetCollection("issues").FindOne(ctx, bson.M{"_id": issueID}).Err(); err != nil {
		if err == mongo.ErrNoDocuments {
			c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Issue not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to retrieve issue"})
		}
		return
	}

	commentCollection := config.GetCollection("comments")
	filter := bson.M{"issue": issueID, "parentComment": nil}

	total, err := commentCollection.CountDocuments(ctx, filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to count comments"})
		return
	}

	findOptions := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: 1}}).
		SetSkip(int64(skip)).
		SetLimit(int64(limit))

	cursor, err := commentCollection.Find(ctx, filter, findOptions)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to retrieve comments"})
		return
	}
	defer cursor.Close(ctx)

	var comments []models.Comment
	if err := cursor.All(ctx, &comments); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to decode comments"})
		return
	}

	viewer, _ := middlewares.CurrentUser(c)

	payloads := make([]gin.H, 0, len(comments))
	for i := range comments {
		comment := &comments[i]
		author := lookupSummary(ctx, comment.Author)
		replies, err := loadReplies(ctx, comment.ID, viewer)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to retrieve replies"})
			return
		}
		payloads = append(payloads, commentPayload(comment, author, replies, viewer))
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"comments": payloads,
			"pagination": gin.H{
				"page":  page,
				"limit": limit,
				"total": total,
				"pages": totalPages(total, limit),
			},
		},
	})
}

// CreateComment attaches a comment or a one-level reply to an issue
func CreateComment(c *gin.Context) {
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
		Content         string `json:"content" binding:"required,max=1000"`
		ParentCommentID string `json:"parentCommentId"`
	}

	if err := c.ShouldBindJSON(&input); err != nil {
		validationFailed(c, bindingErrors(err))
		return
	}

	content := strings.TrimSpace(input.Content)
	if !lengthBetween(content, 1, 1000) {
		validationFailed(c, []gin.H{{"field": "content", "message": "Comment must be between 1 and 1000 characters"}})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), dbTimeout)
	defer cancel()

	issueCollection := config.GetCollection("issues")
	commentCollection := config.GetCollection("comments")

	if err := issueCollection.FindOne(ctx, bson.M{"_id": issueID}).Err(); err != nil {
		if err == mongo.ErrNoDocuments {
			c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Issue not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to retrieve issue"})
		}
		return
	}

	var parentID *primitive.ObjectID
	if input.ParentCommentID != "" {
		pid, err := primitive.ObjectIDFromHex(input.ParentCommentID)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid parent comment ID"})
			return
		}

		var parent models.Comment
		if err := commentCollection.FindOne(ctx, bson.M{"_id": pid}).Decode(&parent); err != nil {
			if err == mongo.ErrNoDocuments {
				c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Parent comment not found"})
			} else {
				c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to retrieve parent comment"})
			}
			return
		}

		// nesting is exactly one level: the parent must be a top-level
		// comment on this same issue
		if parent.IsReply() || parent.Issue != issueID {
			c.JSON(http.StatusBadRequest, gin.H{
				"success": false,
				"message": "Replies can only be added to top-level comments of the same issue",
			})
			return
		}
		parentID = &pid
	}

	now := time.Now()
	comment := models.Comment{
		ID:            primitive.NewObjectID(),
		Content:       content,
		Author:        user.ID,
		Issue:         issueID,
		ParentComment: parentID,
		Replies:       []primitive.ObjectID{},
		Upvotes:       []primitive.ObjectID{},
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if _, err := commentCollection.InsertOne(ctx, comment); err != nil {
		config.Log.Error("inserting comment", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to add comment"})
		return
	}

	if parentID != nil {
		if _, err := commentCollection.UpdateOne(ctx,
			bson.M{"_id": *parentID},
			bson.M{"$addToSet": bson.M{"replies": comment.ID}},
		); err != nil {
			config.Log.Error("linking reply to parent", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to add comment"})
			return
		}
	}

	if _, err := issueCollection.UpdateOne(ctx,
		bson.M{"_id": issueID},
		bson.M{
			"$push": bson.M{"comments": comment.ID},
			"$set":  bson.M{"metadata.lastActivity": now},
		},
	); err != nil {
		config.Log.Error("linking comment to issue", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to add comment"})
		return
	}

	author := user.Summary()
	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"message": "Comment added successfully",
		"data":    gin.H{"comment": commentPayload(&comment, &author, nil, user)},
	})
}

// UpdateComment edits a comment's content. Author only; an edit after
// creation sets isEdited and editedAt.
func UpdateComment(c *gin.Context) {
	commentID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid comment ID"})
		return
	}

	user, ok := middlewares.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "User not authenticated"})
		return
	}

	var input struct {
		Content string `json:"content" binding:"required,max=1000"`
	}

	if err := c.ShouldBindJSON(&input); err != nil {
		validationFailed(c, bindingErrors(err))
		return
	}

	content := strings.TrimSpace(input.Content)
	if !lengthBetween(content, 1, 1000) {
		validationFailed(c, []gin.H{{"field": "content", "message": "Comment must be between 1 and 1000 characters"}})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), dbTimeout)
	defer cancel()

	commentCollection := config.GetCollection("comments")

	var comment models.Comment
	if err := commentCollection.FindOne(ctx, bson.M{"_id": commentID}).Decode(&comment); err != nil {
		if err == mongo.ErrNoDocuments {
			c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Comment not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to retrieve comment"})
		}
		return
	}

	if comment.Author != user.ID {
		c.JSON(http.StatusForbidden, gin.H{"success": false, "message": "Not authorized to update this comment"})
		return
	}

	now := time.Now()
	update := bson.M{
		"content":   content,
		"updatedAt": now,
	}
	if content != comment.Content {
		update["isEdited"] = true
		update["editedAt"] = now
	}

	var updated models.Comment
	err = commentCollection.FindOneAndUpdate(
		ctx,
		bson.M{"_id": commentID},
		bson.M{"$set": update},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&updated)
	if err != nil {
		config.Log.Error("updating comment", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to update comment"})
		return
	}

	author := lookupSummary(ctx, updated.Author)
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Comment updated successfully",
		"data":    gin.H{"comment": commentPayload(&updated, author, nil, user)},
	})
}

// DeleteComment removes a comment. A reply is pulled from its parent's reply
// list; a top-level comment takes all of its replies with it. The comment id
// is always pulled from the issue's comment list.
func DeleteComment(c *gin.Context) {
	commentID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid comment ID"})
		return
	}

	user, ok := middlewares.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "User not authenticated"})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), dbTimeout)
	defer cancel()

	commentCollection := config.GetCollection("comments")

	var comment models.Comment
	if err := commentCollection.FindOne(ctx, bson.M{"_id": commentID}).Decode(&comment); err != nil {
		if err == mongo.ErrNoDocuments {
			c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Comment not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to retrieve comment"})
		}
		return
	}

	if comment.Author != user.ID && !user.IsAdmin() {
		c.JSON(http.StatusForbidden, gin.H{"success": false, "message": "Not authorized to delete this comment"})
		return
	}

	if comment.ParentComment != nil {
		if _, err := commentCollection.UpdateOne(ctx,
			bson.M{"_id": *comment.ParentComment},
			bson.M{"$pull": bson.M{"replies": comment.ID}},
		); err != nil {
			config.Log.Error("unlinking reply from parent", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to delete comment"})
			return
		}
	}

	if _, err := config.GetCollection("issues").UpdateOne(ctx,
		bson.M{"_id": comment.Issue},
		bson.M{"$pull": bson.M{"comments": comment.ID}},
	); err != nil {
		config.Log.Error("unlinking comment from issue", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to delete comment"})
		return
	}

	// one DeleteMany removes the comment and, when it is top-level, every
	// reply pointing at it
	if _, err := commentCollection.DeleteMany(ctx, bson.M{
		"$or": []bson.M{
			{"_id": comment.ID},
			{"parentComment": comment.ID},
		},
	}); err != nil {
		config.Log.Error("deleting comment cascade", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to delete comment"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Comment deleted successfully",
	})
}

// ToggleCommentUpvote mirrors the issue upvote toggle, scoped to comments
func ToggleCommentUpvote(c *gin.Context) {
	commentID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid comment ID"})
		return
	}

	user, ok := middlewares.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "User not authenticated"})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), dbTimeout)
	defer cancel()

	commentCollection := config.GetCollection("comments")

	var comment models.Comment
	if err := commentCollection.FindOne(ctx, bson.M{"_id": commentID}).Decode(&comment); err != nil {
		if err == mongo.ErrNoDocuments {
			c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Comment not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to retrieve comment"})
		}
		return
	}

	var update bson.M
	if comment.HasUpvoted(user.ID) {
		update = bson.M{"$pull": bson.M{"upvotes": user.ID}}
	} else {
		update = bson.M{"$addToSet": bson.M{"upvotes": user.ID}}
	}

	var updated models.Comment
	err = commentCollection.FindOneAndUpdate(
		ctx,
		bson.M{"_id": commentID},
		update,
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&updated)
	if err != nil {
		config.Log.Error("toggling comment upvote", zap.Error(err))
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
