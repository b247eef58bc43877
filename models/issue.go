package models

import (
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// IssueCategory enum
type IssueCategory string

const (
	RoadsPotholes     IssueCategory = "Roads & Potholes"
	WaterSupply       IssueCategory = "Water Supply"
	GarbageSanitation IssueCategory = "Garbage & Sanitation"
	StreetLights      IssueCategory = "Street Lights"
	Drainage          IssueCategory = "Drainage"
	PublicSafety      IssueCategory = "Public Safety"
	TrafficParking    IssueCategory = "Traffic & Parking"
	PublicTransport   IssueCategory = "Public Transport"
	Electricity       IssueCategory = "Electricity"
	Healthcare        IssueCategory = "Healthcare"
	Education         IssueCategory = "Education"
	OtherCategory     IssueCategory = "Other"
)

// IssueStatus enum
type IssueStatus string

const (
	StatusPending    IssueStatus = "Pending"
	StatusInProgress IssueStatus = "In Progress"
	StatusResolved   IssueStatus = "Resolved"
	StatusRejected   IssueStatus = "Rejected"
)

// IssuePriority enum
type IssuePriority string

const (
	PriorityLow      IssuePriority = "Low"
	PriorityMedium   IssuePriority = "Medium"
	PriorityHigh     IssuePriority = "High"
	PriorityCritical IssuePriority = "Critical"
)

// MaxIssueImages caps the number of image URLs per issue
const MaxIssueImages = 5

var issueCategories = map[IssueCategory]bool{
	RoadsPotholes: true, WaterSupply: true, GarbageSanitation: true,
	StreetLights: true, Drainage: true, PublicSafety: true,
	TrafficParking: true, PublicTransport: true, Electricity: true,
	Healthcare: true, Education: true, OtherCategory: true,
}

var issueStatuses = map[IssueStatus]bool{
	StatusPending: true, StatusInProgress: true,
	StatusResolved: true, StatusRejected: true,
}

var issuePriorities = map[IssuePriority]bool{
	PriorityLow: true, PriorityMedium: true,
	PriorityHigh: true, PriorityCritical: true,
}

// ValidCategory reports whether s is one of the twelve issue categories
func ValidCategory(s string) bool {
	return issueCategories[IssueCategory(s)]
}

// ValidStatus reports whether s is a known lifecycle status
func ValidStatus(s string) bool {
	return issueStatuses[IssueStatus(s)]
}

// ValidPriority reports whether s is a known priority level
func ValidPriority(s string) bool {
	return issuePriorities[IssuePriority(s)]
}

// Coordinates holds an optional lat/lng pair; stored only, never matched on
type Coordinates struct {
	Lat float64 `bson:"lat" json:"lat"`
	Lng float64 `bson:"lng" json:"lng"`
}

// IssueLocation is a free-text address with optional coordinates
type IssueLocation struct {
	Address     string       `bson:"address" json:"address" binding:"required"`
	Coordinates *Coordinates `bson:"coordinates,omitempty" json:"coordinates,omitempty"`
}

// Resolution records how and when an issue was closed out
type Resolution struct {
	Description string             `bson:"description" json:"description"`
	ResolvedAt  time.Time          `bson:"resolvedAt" json:"resolvedAt"`
	ResolvedBy  primitive.ObjectID `bson:"resolvedBy" json:"resolvedBy"`
}

// IssueMetadata holds the view/share counters and the activity timestamp
type IssueMetadata struct {
	Views        int       `bson:"views" json:"views"`
	Shares       int       `bson:"shares" json:"shares"`
	LastActivity time.Time `bson:"lastActivity" json:"lastActivity"`
}

// Issue represents a civic issue reported by a user.
//
// Upvotes holds each voter at most once; Comments mirrors the ids of attached
// comments and is maintained by explicit push/pull on comment create/delete.
// The counts exposed to clients are always the lengths of these arrays,
// computed at serialization time.
type Issue struct {
	ID          primitive.ObjectID   `bson:"_id,omitempty" json:"id"`
	Title       string               `bson:"title" json:"title"`
	Description string               `bson:"description" json:"description"`
	Category    IssueCategory        `bson:"category" json:"category"`
	Location    IssueLocation        `bson:"location" json:"location"`
	Images      []string             `bson:"images" json:"images"`
	Tags        []string             `bson:"tags" json:"tags"`
	Status      IssueStatus          `bson:"status" json:"status"`
	Priority    IssuePriority        `bson:"priority" json:"priority"`
	ReportedBy  primitive.ObjectID   `bson:"reportedBy" json:"reportedBy"`
	AssignedTo  *primitive.ObjectID  `bson:"assignedTo,omitempty" json:"assignedTo,omitempty"`
	Upvotes     []primitive.ObjectID `bson:"upvotes" json:"upvotes"`
	Comments    []primitive.ObjectID `bson:"comments" json:"comments"`
	Resolution  *Resolution          `bson:"resolution,omitempty" json:"resolution,omitempty"`
	Metadata    IssueMetadata        `bson:"metadata" json:"metadata"`
	CreatedAt   time.Time            `bson:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time            `bson:"updatedAt" json:"updatedAt"`
}

// UpvoteCount is the number of distinct voters, derived from the stored set
func (i *Issue) UpvoteCount() int {
	return len(i.Upvotes)
}

// CommentCount is the number of attached comments, derived from the stored list
func (i *Issue) CommentCount() int {
	return len(i.Comments)
}

// HasUpvoted reports whether userID is in the upvote set
func (i *Issue) HasUpvoted(userID primitive.ObjectID) bool {
	return ContainsID(i.Upvotes, userID)
}

// ContainsID reports whether id is present in ids
func ContainsID(ids []primitive.ObjectID, id primitive.ObjectID) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}

// NormalizeTags trims, lower-cases, and drops empty tags
func NormalizeTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		t = strings.ToLower(strings.TrimSpace(t))
		if t != "" {
			out = append(out, t)
		}
	}
	return out
}
