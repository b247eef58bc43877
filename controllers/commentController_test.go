package controllers

import (
	"net/http"
	"testing"

	"saarthi-be/config"
	"saarthi-be/models"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"
)

func TestCommentPayloadComputedFields(t *testing.T) {
	voter := primitive.NewObjectID()
	comment := models.Comment{
		ID:      primitive.NewObjectID(),
		Content: "Same here",
		Upvotes: []primitive.ObjectID{voter},
		Replies: []primitive.ObjectID{primitive.NewObjectID()},
	}

	payload := commentPayload(&comment, nil, nil, nil)
	assert.Equal(t, 1, payload["upvoteCount"])
	assert.Equal(t, 1, payload["replyCount"])
	_, repliesPresent := payload["replies"]
	assert.False(t, repliesPresent, "replies only attached when loaded")
	_, parentPresent := payload["parentComment"]
	assert.False(t, parentPresent)

	viewer := models.User{ID: voter}
	payload = commentPayload(&comment, nil, []gin.H{}, &viewer)
	assert.Equal(t, true, payload["hasUpvoted"])
	_, repliesPresent = payload["replies"]
	assert.True(t, repliesPresent)
}

func TestCommentPayloadReplyShape(t *testing.T) {
	parent := primitive.NewObjectID()
	reply := models.Comment{
		ID:            primitive.NewObjectID(),
		Content:       "+1",
		ParentComment: &parent,
	}

	payload := commentPayload(&reply, nil, nil, nil)
	assert.Equal(t, &parent, payload["parentComment"])
	assert.Equal(t, 0, payload["upvoteCount"])
	assert.Equal(t, 0, payload["replyCount"])
}

// a reply whose parent-link write fails must not report success: the parent's
// reply list would be missing the new id
func TestCreateCommentParentLinkFailureIsNotSuccess(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("reply link write fails", func(mt *mtest.T) {
		config.SetDatabase(mt.DB)

		issueID := primitive.NewObjectID()
		parentID := primitive.NewObjectID()
		user := &models.User{ID: primitive.NewObjectID(), Role: models.RoleUser}

		mt.AddMockResponses(
			// issue existence check
			mtest.CreateCursorResponse(0, "saarthi.issues", mtest.FirstBatch,
				bson.D{{Key: "_id", Value: issueID}}),
			// parent lookup: top-level comment on the same issue
			mtest.CreateCursorResponse(0, "saarthi.comments", mtest.FirstBatch,
				bson.D{{Key: "_id", Value: parentID}, {Key: "issue", Value: issueID}}),
			// reply insert succeeds
			mtest.CreateSuccessResponse(),
			// linking the reply into the parent's reply list fails
			mtest.CreateWriteErrorsResponse(mtest.WriteError{Index: 0, Code: 11601, Message: "operation failed"}),
		)

		r := gin.New()
		r.POST("/api/issues/:id/comments", withUser(user), CreateComment)

		body := `{"content":"Same here","parentCommentId":"` + parentID.Hex() + `"}`
		w := postJSON(r, "/api/issues/"+issueID.Hex()+"/comments", body)

		assert.Equal(mt, http.StatusInternalServerError, w.Code)
		assert.Contains(mt, w.Body.String(), "Failed to add comment")
	})
}
