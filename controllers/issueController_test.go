package controllers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"saarthi-be/middlewares"
	"saarthi-be/models"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func withUser(user *models.User) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(middlewares.ContextKeyUser, user)
		c.Next()
	}
}

func postJSON(r *gin.Engine, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestBuildIssueFilter(t *testing.T) {
	tests := []struct {
		name                                         string
		category, status, priority, location, search string
		want                                         bson.M
	}{
		{
			name: "no filters",
			want: bson.M{},
		},
		{
			name:     "all sentinel ignored",
			category: "all",
			status:   "all",
			priority: "all",
			want:     bson.M{},
		},
		{
			name:     "exact filters",
			category: "Roads & Potholes",
			status:   "Pending",
			priority: "High",
			want: bson.M{
				"category": "Roads & Potholes",
				"status":   "Pending",
				"priority": "High",
			},
		},
		{
			name:     "location substring",
			location: "elm",
			want: bson.M{
				"location.address": bson.M{"$regex": "elm", "$options": "i"},
			},
		},
		{
			name:   "search across title and description",
			search: "pothole",
			want: bson.M{
				"$or": []bson.M{
					{"title": bson.M{"$regex": "pothole", "$options": "i"}},
					{"description": bson.M{"$regex": "pothole", "$options": "i"}},
				},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := buildIssueFilter(tt.category, tt.status, tt.priority, tt.location, tt.search)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestIssueSort(t *testing.T) {
	assert.Equal(t, bson.D{{Key: "createdAt", Value: -1}}, issueSort("newest"))
	assert.Equal(t, bson.D{{Key: "createdAt", Value: -1}}, issueSort(""))
	assert.Equal(t, bson.D{{Key: "createdAt", Value: -1}}, issueSort("unknown"))
	assert.Equal(t, bson.D{{Key: "createdAt", Value: 1}}, issueSort("oldest"))
	assert.Equal(t, bson.D{{Key: "metadata.views", Value: -1}}, issueSort("popular"))
}

func TestParsePagination(t *testing.T) {
	tests := []struct {
		name                          string
		pageStr, limitStr             string
		wantPage, wantLimit, wantSkip int
	}{
		{"defaults", "1", "10", 1, 10, 0},
		{"second page", "2", "10", 2, 10, 10},
		{"garbage falls back", "x", "y", 1, 10, 0},
		{"zero page clamps", "0", "10", 1, 10, 0},
		{"oversized limit clamps", "3", "500", 3, 10, 20},
		{"negative clamps", "-2", "-5", 1, 10, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			page, limit, skip := parsePagination(tt.pageStr, tt.limitStr, 10)
			assert.Equal(t, tt.wantPage, page)
			assert.Equal(t, tt.wantLimit, limit)
			assert.Equal(t, tt.wantSkip, skip)
		})
	}
}

func TestTotalPagesIsCeil(t *testing.T) {
	assert.Equal(t, 0, totalPages(0, 10))
	assert.Equal(t, 1, totalPages(1, 10))
	assert.Equal(t, 1, totalPages(10, 10))
	assert.Equal(t, 2, totalPages(11, 10))
	assert.Equal(t, 5, totalPages(41, 10))
}

func TestCreateIssueValidatesTrimmedLengths(t *testing.T) {
	user := &models.User{ID: primitive.NewObjectID(), Role: models.RoleUser}
	r := gin.New()
	r.POST("/api/issues", withUser(user), CreateIssue)

	// padding must not count toward the minimum title length
	w := postJSON(r, "/api/issues", `{
		"title": "  abc  ",
		"description": "There is a deep pothole here",
		"category": "Roads & Potholes",
		"location": {"address": "Elm St"}
	}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Title must be between 5 and 200 characters")

	w = postJSON(r, "/api/issues", `{
		"title": "Pothole on Elm St",
		"description": "  too short  ",
		"category": "Roads & Potholes",
		"location": {"address": "Elm St"}
	}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Description must be between 10 and 2000 characters")
}

func TestIssuePayloadComputedFields(t *testing.T) {
	voter := primitive.NewObjectID()
	issue := models.Issue{
		ID:       primitive.NewObjectID(),
		Title:    "Pothole on Elm St",
		Upvotes:  []primitive.ObjectID{voter},
		Comments: []primitive.ObjectID{primitive.NewObjectID(), primitive.NewObjectID()},
	}

	payload := issuePayload(&issue, nil, nil, nil)
	assert.Equal(t, 1, payload["upvoteCount"])
	assert.Equal(t, 2, payload["commentCount"])
	_, hasUpvotedPresent := payload["hasUpvoted"]
	assert.False(t, hasUpvotedPresent, "anonymous viewers get no hasUpvoted")

	viewer := models.User{ID: voter}
	payload = issuePayload(&issue, nil, nil, &viewer)
	assert.Equal(t, true, payload["hasUpvoted"])

	other := models.User{ID: primitive.NewObjectID()}
	payload = issuePayload(&issue, nil, nil, &other)
	assert.Equal(t, false, payload["hasUpvoted"])
}
