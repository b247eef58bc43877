package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestCommentIsReply(t *testing.T) {
	parent := primitive.NewObjectID()

	top := Comment{}
	assert.False(t, top.IsReply())

	reply := Comment{ParentComment: &parent}
	assert.True(t, reply.IsReply())
}

func TestCommentCountsDeriveFromArrays(t *testing.T) {
	voter := primitive.NewObjectID()
	comment := Comment{
		Upvotes: []primitive.ObjectID{voter},
		Replies: []primitive.ObjectID{primitive.NewObjectID(), primitive.NewObjectID()},
	}

	assert.Equal(t, 1, comment.UpvoteCount())
	assert.Equal(t, 2, comment.ReplyCount())
	assert.True(t, comment.HasUpvoted(voter))
	assert.False(t, comment.HasUpvoted(primitive.NewObjectID()))
}
