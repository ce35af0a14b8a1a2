package liveview

import (
	"fmt"
	"time"
)

// FormatLastSync renders how long ago the last snapshot arrived.
func FormatLastSync(lastSync, now time.Time) string {
	seconds := int(now.Sub(lastSync) / time.Second)
	if seconds < 0 {
		seconds = 0
	}
	if seconds < 60 {
		return fmt.Sprintf("%d seconds ago", seconds)
	}
	minutes := seconds / 60
	return fmt.Sprintf("%d %s ago", minutes, plural(minutes, "minute"))
}

// FormatTimeAgo renders the age of a service request.
func FormatTimeAgo(t, now time.Time) string {
	minutes := int(now.Sub(t) / time.Minute)
	switch {
	case minutes < 1:
		return "Just now"
	case minutes < 60:
		return fmt.Sprintf("%d min ago", minutes)
	}
	hours := minutes / 60
	return fmt.Sprintf("%d %s ago", hours, plural(hours, "hour"))
}

func plural(n int, word string) string {
	if n == 1 {
		return word
	}
	return word + "s"
}
