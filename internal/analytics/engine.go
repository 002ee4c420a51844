// Package analytics computes a full analytics snapshot from an ordered
// message sequence. Each invocation is a pure recomputation over the whole
// list; callers re-run the engine instead of patching a prior snapshot.
package analytics

import (
	"math"
	"sort"
	"time"

	"panion/internal/model"
)

// Confidence signals how reliable the current-user inference is. The upload
// flow uses a low-confidence result to prompt the human for disambiguation.
type Confidence string

const (
	ConfidenceHigh Confidence = "high"
	ConfidenceLow  Confidence = "low"
)

// Engine analyzes one message batch. It holds no state across invocations
// and performs no I/O.
type Engine struct {
	messages    []model.Message
	currentUser string
	confidence  Confidence
}

// New builds an engine over the given messages. System messages are excluded
// from all analysis. When userName is empty, the current user is inferred
// from traffic volume.
func New(messages []model.Message, userName string) *Engine {
	e := &Engine{confidence: ConfidenceLow}
	for _, m := range messages {
		if m.Type != model.TypeSystem {
			e.messages = append(e.messages, m)
		}
	}

	if userName != "" {
		e.currentUser = userName
		e.confidence = ConfidenceHigh
	} else {
		e.detectCurrentUser()
	}
	return e
}

type senderCount struct {
	name  string
	count int
}

// detectCurrentUser guesses which participant owns the exporting device.
// With one sender the answer is certain. With two, a roughly balanced chat
// falls back to alphabetical order; an asymmetric one assumes the
// lower-volume side is the owner. Group chats pick the most frequent sender.
func (e *Engine) detectCurrentUser() {
	counts := make(map[string]int)
	var order []string
	for _, m := range e.messages {
		if _, seen := counts[m.Sender]; !seen {
			order = append(order, m.Sender)
		}
		counts[m.Sender]++
	}

	ranked := make([]senderCount, 0, len(order))
	for _, name := range order {
		ranked = append(ranked, senderCount{name, counts[name]})
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].count != ranked[j].count {
			return ranked[i].count > ranked[j].count
		}
		return ranked[i].name < ranked[j].name
	})

	switch len(ranked) {
	case 0:
		e.currentUser = ""
		e.confidence = ConfidenceLow
	case 1:
		e.currentUser = ranked[0].name
		e.confidence = ConfidenceHigh
	case 2:
		more, less := ranked[0], ranked[1]
		ratio := float64(less.count) / float64(more.count)
		alphaFirst := more.name
		if less.name < alphaFirst {
			alphaFirst = less.name
		}

		switch {
		case ratio > 0.3 && ratio < 0.7:
			e.currentUser = alphaFirst
		case more.count == less.count:
			// "Less frequent" degenerates to a tie; resolve alphabetically.
			e.currentUser = alphaFirst
		default:
			e.currentUser = less.name
		}
		e.confidence = ConfidenceLow
	default:
		e.currentUser = ranked[0].name
		e.confidence = ConfidenceLow
	}
}

// CurrentUser returns the declared or inferred current user.
func (e *Engine) CurrentUser() string { return e.currentUser }

// Confidence reports how reliable the current-user identification is.
func (e *Engine) Confidence() Confidence { return e.confidence }

// Participants lists the distinct non-system senders, sorted. The upload
// flow shows this list when the inference confidence is too low to trust.
func (e *Engine) Participants() []string {
	seen := make(map[string]struct{})
	var names []string
	for _, m := range e.messages {
		if _, ok := seen[m.Sender]; !ok {
			seen[m.Sender] = struct{}{}
			names = append(names, m.Sender)
		}
	}
	sort.Strings(names)
	return names
}

// Generate computes the full analytics snapshot. It never fails; degenerate
// input yields a well-formed default snapshot.
func (e *Engine) Generate() *model.Analytics {
	if len(e.messages) == 0 {
		return e.emptySnapshot()
	}

	contacts := e.analyzeContacts()
	activity := e.analyzeActivity()
	media := e.analyzeMedia()
	sentiment := e.analyzeSentiment()
	calls := e.analyzeCalls()

	sent := 0
	for _, m := range e.messages {
		if m.Sender == e.currentUser {
			sent++
		}
	}

	topContact := "Unknown"
	if len(contacts) > 0 {
		topContact = contacts[0].Name
	}

	start, end := e.dateBounds()

	return &model.Analytics{
		TotalMessages:    len(e.messages),
		MessagesSent:     sent,
		MessagesReceived: len(e.messages) - sent,
		TotalOnlineTime:  e.estimateOnlineTime(),
		MostActiveTime:   activity.PeakHours,
		TopContact:       topContact,
		Contacts:         contacts,
		Activity:         activity,
		Media:            media,
		Sentiment:        sentiment,
		Calls:            calls,
		WellbeingScore:   wellbeingScore(activity, sentiment),
		Insights:         buildInsights(contacts, activity, sentiment, calls),
		DateRange: model.DateRange{
			Start: isoTimestamp(start),
			End:   isoTimestamp(end),
		},
	}
}

// emptySnapshot is the zero-message result: all counts at zero, fallback
// labels, and the base wellbeing score with no adjustments applied.
func (e *Engine) emptySnapshot() *model.Analytics {
	now := isoTimestamp(time.Now())
	return &model.Analytics{
		TotalOnlineTime: "0h 0m",
		TopContact:      "Unknown",
		Contacts:        []model.ContactStats{},
		Activity: model.ActivityData{
			AverageSessionDuration: "0s",
		},
		Sentiment: model.SentimentData{
			TopEmojis:   []model.EmojiCount{},
			TopKeywords: []string{},
		},
		Calls: model.CallStats{
			AvgVoiceDuration: avgVoiceDuration,
			AvgVideoDuration: avgVideoDuration,
			TopCallers:       []model.CallerStats{},
		},
		WellbeingScore: 50,
		Insights:       []string{},
		DateRange:      model.DateRange{Start: now, End: now},
	}
}

func (e *Engine) dateBounds() (time.Time, time.Time) {
	start, end := e.messages[0].Timestamp, e.messages[0].Timestamp
	for _, m := range e.messages[1:] {
		if m.Timestamp.Before(start) {
			start = m.Timestamp
		}
		if m.Timestamp.After(end) {
			end = m.Timestamp
		}
	}
	return start, end
}

// dayCount is the observed span in days, ceiled and floored at 1.
func (e *Engine) dayCount() int {
	if len(e.messages) == 0 {
		return 1
	}
	start, end := e.dateBounds()
	days := int(math.Ceil(end.Sub(start).Hours() / 24))
	if days < 1 {
		days = 1
	}
	return days
}

// estimateOnlineTime guesses daily screen time from message volume,
// assuming ~20 messages per online hour and capping at 12h/day.
func (e *Engine) estimateOnlineTime() string {
	perDay := float64(len(e.messages)) / float64(e.dayCount())
	estimated := math.Min(12, perDay/20)
	hours := int(estimated)
	minutes := int((estimated - float64(hours)) * 60)
	return formatHoursMinutes(hours, minutes)
}

// isoTimestamp renders a time the way JSON date serialization does:
// UTC with millisecond precision and a literal Z suffix.
func isoTimestamp(t time.Time) string {
	return t.UTC().Format("2006-01-02T15:04:05.000") + "Z"
}
