package analytics

import (
	"fmt"
	"math"
	"time"

	"panion/internal/model"
)

// sessionGap is the inactivity threshold that splits usage sessions.
const sessionGap = 30 * time.Minute

var dayNames = [7]string{
	"Sunday", "Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday",
}

// analyzeActivity buckets messages into a day-of-week by hour-of-day grid
// and derives peak/most/least-active labels plus session estimates. The
// least-active day ignores days with zero messages so absent data can't win.
func (e *Engine) analyzeActivity() model.ActivityData {
	var grid [7][24]int
	var dayCounts [7]int
	var hourCounts [24]int

	for _, msg := range e.messages {
		day := int(msg.Timestamp.Weekday())
		hour := msg.Timestamp.Hour()
		grid[day][hour]++
		dayCounts[day]++
		hourCounts[hour]++
	}

	peakHour := 0
	for h, c := range hourCounts {
		if c > hourCounts[peakHour] {
			peakHour = h
		}
	}

	mostIdx := 0
	for d, c := range dayCounts {
		if c > dayCounts[mostIdx] {
			mostIdx = d
		}
	}

	leastIdx := mostIdx
	minPositive := 0
	for d, c := range dayCounts {
		if c > 0 && (minPositive == 0 || c < minPositive) {
			minPositive = c
			leastIdx = d
		}
	}

	opens := int(math.Round(float64(e.sessionCount()) / float64(e.dayCount())))

	return model.ActivityData{
		HourlyActivity:         grid,
		PeakHours:              fmt.Sprintf("%d:00 - %d:00", peakHour, (peakHour+1)%24),
		MostActiveDay:          dayNames[mostIdx],
		LeastActiveDay:         dayNames[leastIdx],
		DailyOpens:             opens,
		AverageSessionDuration: formatDuration(e.averageSessionDuration()),
	}
}

// sessionCount infers usage sessions: a new session starts whenever the gap
// since the previous message exceeds sessionGap.
func (e *Engine) sessionCount() int {
	count := 0
	var last time.Time
	for i, msg := range e.messages {
		if i == 0 || msg.Timestamp.Sub(last) > sessionGap {
			count++
		}
		last = msg.Timestamp
	}
	return count
}

// averageSessionDuration is the mean span from first to last message of each
// inferred session. Single-message sessions contribute zero.
func (e *Engine) averageSessionDuration() time.Duration {
	var durations []time.Duration
	var start, last time.Time

	for i, msg := range e.messages {
		if i == 0 || msg.Timestamp.Sub(last) > sessionGap {
			if i > 0 {
				durations = append(durations, last.Sub(start))
			}
			start = msg.Timestamp
		}
		last = msg.Timestamp
	}
	if len(e.messages) > 0 {
		durations = append(durations, last.Sub(start))
	}

	if len(durations) == 0 {
		return 0
	}
	var sum time.Duration
	for _, d := range durations {
		sum += d
	}
	return sum / time.Duration(len(durations))
}
