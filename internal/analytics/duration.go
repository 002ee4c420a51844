package analytics

import (
	"fmt"
	"time"
)

// formatDuration renders a duration as "Xh Ym", "Xm Ys", or "Xs" depending
// on magnitude.
func formatDuration(d time.Duration) string {
	seconds := int(d.Seconds())
	minutes := seconds / 60
	hours := minutes / 60

	switch {
	case hours > 0:
		return formatHoursMinutes(hours, minutes%60)
	case minutes > 0:
		return fmt.Sprintf("%dm %ds", minutes, seconds%60)
	default:
		return fmt.Sprintf("%ds", seconds)
	}
}

func formatHoursMinutes(hours, minutes int) string {
	return fmt.Sprintf("%dh %dm", hours, minutes)
}
