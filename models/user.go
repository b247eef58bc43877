package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/crypto/bcrypt"
)

// Role enum
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// User represents a registered citizen or administrator
type User struct {
	ID             primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name           string             `bson:"name" json:"name"`
	Email          string             `bson:"email" json:"email"`
	Password       string             `bson:"password" json:"-"`
	Avatar         string             `bson:"avatar,omitempty" json:"avatar,omitempty"`
	Location       string             `bson:"location,omitempty" json:"location,omitempty"`
	Bio            string             `bson:"bio,omitempty" json:"bio,omitempty"`
	Role           Role               `bson:"role" json:"role"`
	IssuesReported int                `bson:"issuesReported" json:"issuesReported"`
	IssuesResolved int                `bson:"issuesResolved" json:"issuesResolved"`
	Reputation     int                `bson:"reputation" json:"reputation"`
	CreatedAt      time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt      time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// UserSummary is the identity subset attached to issues and comments.
// Credentials are never part of it.
type UserSummary struct {
	ID         primitive.ObjectID `json:"id"`
	Name       string             `json:"name"`
	Avatar     string             `json:"avatar,omitempty"`
	Location   string             `json:"location,omitempty"`
	Bio        string             `json:"bio,omitempty"`
	Reputation int                `json:"reputation"`
}

// Summary returns the public identity subset of the user
func (u *User) Summary() UserSummary {
	return UserSummary{
		ID:         u.ID,
		Name:       u.Name,
		Avatar:     u.Avatar,
		Location:   u.Location,
		Bio:        u.Bio,
		Reputation: u.Reputation,
	}
}

// IsAdmin reports whether the user holds the admin role
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

func (u *User) HashPassword() error {
	hashed, err := bcrypt.GenerateFromPassword([]byte(u.Password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.Password = string(hashed)
	return nil
}

func (u *User) ComparePassword(candidate string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(candidate))
	return err == nil
}
