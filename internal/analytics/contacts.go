package analytics

import (
	"math"
	"sort"
	"time"

	"panion/internal/contact"
	"panion/internal/model"
)

// replyWindow bounds how old a user-sent message may be for the next
// received message to count as a reply-latency sample.
const replyWindow = time.Hour

type contactAccum struct {
	sent       int
	received   int
	replyTimes []time.Duration
	texts      []string
}

// analyzeContacts groups traffic by "other party". Messages from the current
// user collapse into a single "You" bucket which is excluded from the
// result; every other sender is normalized before grouping. A reply-latency
// sample is taken only when a received message directly follows a user-sent
// one within the reply window.
func (e *Engine) analyzeContacts() []model.ContactStats {
	accums := make(map[string]*contactAccum)
	var order []string

	for i, msg := range e.messages {
		other := "You"
		if msg.Sender != e.currentUser {
			other = contact.Normalize(msg.Sender)
		}

		acc, ok := accums[other]
		if !ok {
			acc = &contactAccum{}
			accums[other] = acc
			order = append(order, other)
		}

		if msg.Sender == e.currentUser {
			acc.sent++
		} else {
			acc.received++
			if i > 0 && e.messages[i-1].Sender == e.currentUser {
				if gap := msg.Timestamp.Sub(e.messages[i-1].Timestamp); gap < replyWindow {
					acc.replyTimes = append(acc.replyTimes, gap)
				}
			}
		}

		acc.texts = append(acc.texts, msg.Content)
	}

	total := len(e.messages)
	contacts := []model.ContactStats{}

	for _, name := range order {
		if name == "You" {
			continue
		}
		acc := accums[name]
		count := acc.sent + acc.received

		var avgReply time.Duration
		if len(acc.replyTimes) > 0 {
			var sum time.Duration
			for _, rt := range acc.replyTimes {
				sum += rt
			}
			avgReply = sum / time.Duration(len(acc.replyTimes))
		}

		contacts = append(contacts, model.ContactStats{
			Name:             name,
			Messages:         count,
			Percentage:       int(math.Round(float64(count) / float64(total) * 100)),
			AvgResponse:      formatDuration(avgReply),
			Sentiment:        Classify(acc.texts),
			MessagesSent:     acc.sent,
			MessagesReceived: acc.received,
		})
	}

	sort.SliceStable(contacts, func(i, j int) bool {
		return contacts[i].Messages > contacts[j].Messages
	})
	if len(contacts) > 10 {
		contacts = contacts[:10]
	}
	return contacts
}
