package analytics

import (
	"math"
	"regexp"
	"sort"
	"strings"
	"unicode/utf8"

	"panion/internal/model"
)

var positiveWords = []string{
	"good", "great", "awesome", "excellent", "happy", "love", "thanks", "thank",
	"nice", "wonderful", "amazing", "perfect", "best", "haha", "lol", "cool",
}

var negativeWords = []string{
	"bad", "terrible", "awful", "hate", "angry", "sad", "sorry", "worst",
	"problem", "issue", "wrong", "error", "fail",
}

var stopWords = map[string]struct{}{
	"the": {}, "and": {}, "for": {}, "that": {}, "this": {}, "with": {},
	"from": {}, "have": {}, "was": {}, "were": {}, "been": {}, "are": {},
	"will": {}, "would": {}, "could": {}, "should": {},
}

// emojiPattern covers the miscellaneous-symbols/dingbats block plus the
// supplementary emoji planes.
var emojiPattern = regexp.MustCompile(`[\x{2600}-\x{27BF}\x{1F000}-\x{1FAFF}]`)

// Classify scans a message batch against the fixed word lists using
// case-insensitive substring containment (one hit per word per message).
// Positive wins at 1.5x the negative hits and vice versa; both sides
// nonzero without a winner is mixed, anything else neutral.
//
// The same primitive serves two granularities: once per contact over that
// contact's full message list, and once per individual text message for the
// engine-level aggregate.
func Classify(texts []string) model.Sentiment {
	var pos, neg int
	for _, text := range texts {
		lower := strings.ToLower(text)
		for _, w := range positiveWords {
			if strings.Contains(lower, w) {
				pos++
			}
		}
		for _, w := range negativeWords {
			if strings.Contains(lower, w) {
				neg++
			}
		}
	}

	switch {
	case float64(pos) > float64(neg)*1.5:
		return model.SentimentPositive
	case float64(neg) > float64(pos)*1.5:
		return model.SentimentNegative
	case pos > 0 && neg > 0:
		return model.SentimentMixed
	default:
		return model.SentimentNeutral
	}
}

// analyzeSentiment classifies each text message individually and derives the
// three-way percentage split, plus emoji and keyword frequency tables.
// Mixed-classified messages are excluded from the split's denominator (the
// per-contact classification keeps mixed as a bucket; this asymmetry is
// long-standing observed behavior).
func (e *Engine) analyzeSentiment() model.SentimentData {
	var pos, neu, neg int
	emojiCounts := make(map[string]int)
	var emojiOrder []string
	wordCounts := make(map[string]int)
	var wordOrder []string

	for _, msg := range e.messages {
		if msg.Type != model.TypeText {
			continue
		}

		switch Classify([]string{msg.Content}) {
		case model.SentimentPositive:
			pos++
		case model.SentimentNeutral:
			neu++
		case model.SentimentNegative:
			neg++
		}

		for _, em := range emojiPattern.FindAllString(msg.Content, -1) {
			if emojiCounts[em] == 0 {
				emojiOrder = append(emojiOrder, em)
			}
			emojiCounts[em]++
		}

		stripped := emojiPattern.ReplaceAllString(msg.Content, "")
		for _, w := range strings.Fields(strings.ToLower(stripped)) {
			if utf8.RuneCountInString(w) <= 3 {
				continue
			}
			if _, stop := stopWords[w]; stop {
				continue
			}
			if wordCounts[w] == 0 {
				wordOrder = append(wordOrder, w)
			}
			wordCounts[w]++
		}
	}

	total := pos + neu + neg
	if total == 0 {
		total = 1
	}

	// Stable sorts keep first-encountered order for equal counts.
	sort.SliceStable(emojiOrder, func(i, j int) bool {
		return emojiCounts[emojiOrder[i]] > emojiCounts[emojiOrder[j]]
	})
	topEmojis := []model.EmojiCount{}
	for _, em := range emojiOrder {
		if len(topEmojis) == 10 {
			break
		}
		topEmojis = append(topEmojis, model.EmojiCount{Emoji: em, Count: emojiCounts[em]})
	}

	sort.SliceStable(wordOrder, func(i, j int) bool {
		return wordCounts[wordOrder[i]] > wordCounts[wordOrder[j]]
	})
	if len(wordOrder) > 10 {
		wordOrder = wordOrder[:10]
	}
	topKeywords := append([]string{}, wordOrder...)

	return model.SentimentData{
		Positive:    int(math.Round(float64(pos) / float64(total) * 100)),
		Neutral:     int(math.Round(float64(neu) / float64(total) * 100)),
		Negative:    int(math.Round(float64(neg) / float64(total) * 100)),
		TopEmojis:   topEmojis,
		TopKeywords: topKeywords,
	}
}
