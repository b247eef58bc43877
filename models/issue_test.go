package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestValidCategory(t *testing.T) {
	assert.True(t, ValidCategory("Roads & Potholes"))
	assert.True(t, ValidCategory("Other"))
	assert.False(t, ValidCategory("Spaceports"))
	assert.False(t, ValidCategory(""))
}

func TestValidStatus(t *testing.T) {
	for _, s := range []string{"Pending", "In Progress", "Resolved", "Rejected"} {
		assert.True(t, ValidStatus(s), s)
	}
	assert.False(t, ValidStatus("Open"))
	assert.False(t, ValidStatus("pending"))
}

func TestValidPriority(t *testing.T) {
	for _, p := range []string{"Low", "Medium", "High", "Critical"} {
		assert.True(t, ValidPriority(p), p)
	}
	assert.False(t, ValidPriority("Urgent"))
}

func TestContainsID(t *testing.T) {
	a := primitive.NewObjectID()
	b := primitive.NewObjectID()

	assert.True(t, ContainsID([]primitive.ObjectID{a, b}, a))
	assert.False(t, ContainsID([]primitive.ObjectID{a}, b))
	assert.False(t, ContainsID(nil, a))
}

func TestIssueCountsDeriveFromArrays(t *testing.T) {
	voter := primitive.NewObjectID()
	issue := Issue{
		Upvotes:  []primitive.ObjectID{voter, primitive.NewObjectID()},
		Comments: []primitive.ObjectID{primitive.NewObjectID()},
	}

	assert.Equal(t, 2, issue.UpvoteCount())
	assert.Equal(t, 1, issue.CommentCount())
	assert.True(t, issue.HasUpvoted(voter))
	assert.False(t, issue.HasUpvoted(primitive.NewObjectID()))
}

func TestNormalizeTags(t *testing.T) {
	tags := NormalizeTags([]string{" Pothole ", "ROAD", "", "  "})
	assert.Equal(t, []string{"pothole", "road"}, tags)

	assert.Empty(t, NormalizeTags(nil))
}
