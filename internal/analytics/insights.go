package analytics

import (
	"fmt"
	"strconv"
	"strings"

	"panion/internal/model"
)

// wellbeingScore derives a 0-100 score from sentiment positivity, usage
// volume, and time-of-day concentration, starting from a base of 50.
func wellbeingScore(activity model.ActivityData, sentiment model.SentimentData) int {
	score := 50

	if sentiment.Positive > 70 {
		score += 20
	} else if sentiment.Positive > 50 {
		score += 10
	}

	if activity.DailyOpens < 50 {
		score += 15
	} else if activity.DailyOpens > 100 {
		score -= 10
	}

	peak := peakHourOf(activity.PeakHours)
	if peak >= 9 && peak <= 21 {
		score += 15
	} else {
		score -= 10
	}

	if score > 100 {
		score = 100
	}
	if score < 0 {
		score = 0
	}
	return score
}

// buildInsights assembles the ordered natural-language observations.
func buildInsights(contacts []model.ContactStats, activity model.ActivityData, sentiment model.SentimentData, calls model.CallStats) []string {
	insights := []string{}

	if len(contacts) > 0 {
		insights = append(insights, fmt.Sprintf(
			"You're most talkative with %s (%d messages)", contacts[0].Name, contacts[0].Messages))
	}

	insights = append(insights, fmt.Sprintf("You're most active on %s", activity.MostActiveDay))

	peak := peakHourOf(activity.PeakHours)
	if peak >= 21 || peak <= 6 {
		insights = append(insights, "You're a night owl - most active during late hours")
	} else if peak >= 6 && peak <= 12 {
		insights = append(insights, "You're an early bird - most active in the morning")
	}

	if sentiment.Positive > 70 {
		insights = append(insights, fmt.Sprintf(
			"Your conversations are overwhelmingly positive (%d%%)", sentiment.Positive))
	}

	if calls.VoiceCalls+calls.VideoCalls > 0 {
		insights = append(insights, fmt.Sprintf(
			"You made %d calls this period", calls.VoiceCalls+calls.VideoCalls))
	}

	return insights
}

// peakHourOf extracts the leading hour from a "H:00 - H+1:00" label.
func peakHourOf(peakHours string) int {
	hour, _ := strconv.Atoi(strings.SplitN(peakHours, ":", 2)[0])
	return hour
}
