package projection

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestAgeOf_Buckets(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		diff int64
		want string
	}{
		{"zero seconds", 0, "now"},
		{"just under a minute", 59, "now"},
		{"exactly one minute", 60, "1 minute ago"},
		{"sixty-one seconds", 61, "1 minute ago"},
		{"just under two minutes", 119, "1 minute ago"},
		{"two minutes", 120, "2 minutes ago"},
		{"just under an hour", 3599, "59 minutes ago"},
		{"exactly one hour", 3600, "1 hour ago"},
		{"one hour one minute", 3661, "1 hour ago"},
		{"two hours", 7200, "2 hours ago"},
		{"just under a day", 86399, "23 hours ago"},
		{"exactly one day", 86400, "1 day ago"},
		{"two days", 172800, "2 days ago"},
		{"eleven and a half days", 1000000, "11 days ago"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := require.New(t)
			ts := now.Add(-time.Duration(tt.diff) * time.Second)
			req.Equal(tt.want, AgeOf(ts, now))
		})
	}
}

func TestAgeOf_FutureTimestampReadsAsNow(t *testing.T) {
	req := require.New(t)
	now := time.Now()
	// Clock skew: a message stamped slightly ahead of local time.
	req.Equal("now", AgeOf(now.Add(5*time.Second), now))
}

func TestAgeTicker_EmitsAndStops(t *testing.T) {
	req := require.New(t)
	ts := time.Now().Add(-2 * time.Minute)
	ticker := NewAgeTicker(ts, 10*time.Millisecond)

	first, ok := <-ticker.Updates()
	req.True(ok)
	req.Equal("2 minutes ago", first)

	ticker.Stop()
	ticker.Stop() // idempotent

	for range ticker.Updates() {
		// drain whatever was in flight until the channel closes
	}
}
