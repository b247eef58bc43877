package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Comment is a discussion entry on an issue. Nesting is exactly one level:
// a top-level comment has no ParentComment and may hold replies; a reply
// points at a top-level comment of the same issue and never holds replies
// of its own.
type Comment struct {
	ID            primitive.ObjectID   `bson:"_id,omitempty" json:"id"`
	Content       string               `bson:"content" json:"content"`
	Author        primitive.ObjectID   `bson:"author" json:"author"`
	Issue         primitive.ObjectID   `bson:"issue" json:"issue"`
	ParentComment *primitive.ObjectID  `bson:"parentComment,omitempty" json:"parentComment,omitempty"`
	Replies       []primitive.ObjectID `bson:"replies" json:"replies"`
	Upvotes       []primitive.ObjectID `bson:"upvotes" json:"upvotes"`
	IsEdited      bool                 `bson:"isEdited" json:"isEdited"`
	EditedAt      *time.Time           `bson:"editedAt,omitempty" json:"editedAt,omitempty"`
	CreatedAt     time.Time            `bson:"createdAt" json:"createdAt"`
	UpdatedAt     time.Time            `bson:"updatedAt" json:"updatedAt"`
}

// IsReply reports whether the comment is a one-level reply
func (c *Comment) IsReply() bool {
	return c.ParentComment != nil
}

// UpvoteCount is derived from the stored voter set, never stored itself
func (c *Comment) UpvoteCount() int {
	return len(c.Upvotes)
}

// ReplyCount is derived from the stored reply list, never stored itself
func (c *Comment) ReplyCount() int {
	return len(c.Replies)
}

// HasUpvoted reports whether userID is in the upvote set
func (c *Comment) HasUpvoted(userID primitive.ObjectID) bool {
	return ContainsID(c.Upvotes, userID)
}
