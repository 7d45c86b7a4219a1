package utils

import (
	"fmt"
	"time"
)

// FormatAge formats how long ago something happened with two units max.
// E.g., "5d 3h", "2h 30m", "45s"
func FormatAge(d time.Duration) string {
	if d < 0 {
		d = 0
	}

	totalSeconds := int(d.Seconds())
	days := totalSeconds / 86400
	hours := (totalSeconds % 86400) / 3600
	minutes := (totalSeconds % 3600) / 60
	seconds := totalSeconds % 60

	if days > 0 {
		return fmt.Sprintf("%dd %dh", days, hours)
	}
	if hours > 0 {
		return fmt.Sprintf("%dh %dm", hours, minutes)
	}
	if minutes > 0 {
		return fmt.Sprintf("%dm %ds", minutes, seconds)
	}
	return fmt.Sprintf("%ds", seconds)
}

// FormatCreatedAt renders a unix-millisecond creation time relative to now.
func FormatCreatedAt(ms *int64, now time.Time) string {
	if ms == nil || *ms <= 0 {
		return "-"
	}
	return FormatAge(now.Sub(time.UnixMilli(*ms))) + " ago"
}
