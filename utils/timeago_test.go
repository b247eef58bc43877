package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestTimeAgo(t *testing.T) {
	now := time.Now()

	tests := []struct {
		name string
		t    time.Time
		want string
	}{
		{"just now", now.Add(-30 * time.Second), "Just now"},
		{"minutes", now.Add(-5 * time.Minute), "5 minutes ago"},
		{"under an hour", now.Add(-59 * time.Minute), "59 minutes ago"},
		{"hours", now.Add(-3 * time.Hour), "3 hours ago"},
		{"under a day", now.Add(-23 * time.Hour), "23 hours ago"},
		{"yesterday", now.Add(-30 * time.Hour), "Yesterday"},
		{"days", now.Add(-4 * 24 * time.Hour), "4 days ago"},
		{"weeks", now.Add(-10 * 24 * time.Hour), "1 weeks ago"},
		{"three weeks", now.Add(-25 * 24 * time.Hour), "3 weeks ago"},
		{"months", now.Add(-65 * 24 * time.Hour), "2 months ago"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, TimeAgo(tt.t))
		})
	}
}

func TestTimeAgoFreshTimestampIsJustNow(t *testing.T) {
	assert.Equal(t, "Just now", TimeAgo(time.Now()))
}
