package analytics

import (
	"testing"
	"time"

	"panion/internal/model"
)

// --- Classify ---

func TestClassify_WhenPositiveDominates_ShouldReturnPositive(t *testing.T) {
	got := Classify([]string{"great awesome perfect", "so nice"})
	if got != model.SentimentPositive {
		t.Errorf("expected positive, got %q", got)
	}
}

func TestClassify_WhenNegativeDominates_ShouldReturnNegative(t *testing.T) {
	got := Classify([]string{"terrible awful worst", "what a problem"})
	if got != model.SentimentNegative {
		t.Errorf("expected negative, got %q", got)
	}
}

func TestClassify_WhenBothSidesPresentWithoutWinner_ShouldReturnMixed(t *testing.T) {
	// One positive hit vs one negative hit: neither crosses 1.5x.
	got := Classify([]string{"great but terrible"})
	if got != model.SentimentMixed {
		t.Errorf("expected mixed, got %q", got)
	}
}

func TestClassify_WhenNoHits_ShouldReturnNeutral(t *testing.T) {
	got := Classify([]string{"meeting at noon", "see you then"})
	if got != model.SentimentNeutral {
		t.Errorf("expected neutral, got %q", got)
	}
}

func TestClassify_WhenMatchIsSubstring_ShouldStillCount(t *testing.T) {
	// Containment scan, not tokenized: "thanksgiving" hits both
	// "thanks" and "thank".
	got := Classify([]string{"thanksgiving"})
	if got != model.SentimentPositive {
		t.Errorf("expected positive, got %q", got)
	}
}

// --- analyzeSentiment ---

func TestAnalyzeSentiment_WhenMixedMessagesExist_ShouldExcludeThemFromSplit(t *testing.T) {
	// Two clean messages plus one mixed one: the mixed message counts
	// toward neither bucket nor the denominator, so the split stays 50/50.
	msgs := []model.Message{
		textMsg(base, "Alice", "this is great"),
		textMsg(base.Add(time.Minute), "Bob", "this is awful"),
		textMsg(base.Add(2*time.Minute), "Alice", "great but terrible"),
	}
	a := New(msgs, "Alice").Generate()

	if a.Sentiment.Positive != 50 || a.Sentiment.Negative != 50 {
		t.Errorf("expected 50/50 split excluding mixed, got +%d/-%d",
			a.Sentiment.Positive, a.Sentiment.Negative)
	}
	if a.Sentiment.Neutral != 0 {
		t.Errorf("expected 0 neutral, got %d", a.Sentiment.Neutral)
	}
}

func TestAnalyzeSentiment_WhenOnlyTextMessagesCount_ShouldIgnoreMediaContent(t *testing.T) {
	msgs := []model.Message{
		textMsg(base, "Alice", "great day"),
		{Timestamp: base.Add(time.Minute), Sender: "Bob", Content: "awful.pdf attached terrible",
			Type: model.TypeMedia, MediaType: model.MediaDocument},
	}
	a := New(msgs, "Alice").Generate()

	if a.Sentiment.Positive != 100 {
		t.Errorf("expected media content ignored, positive=100, got %d", a.Sentiment.Positive)
	}
}

func TestAnalyzeSentiment_WhenEmojisPresent_ShouldRankByFrequency(t *testing.T) {
	msgs := []model.Message{
		textMsg(base, "Alice", "hi 😀😀🎉"),
		textMsg(base.Add(time.Minute), "Bob", "yes 😀"),
	}
	a := New(msgs, "Alice").Generate()

	if len(a.Sentiment.TopEmojis) != 2 {
		t.Fatalf("expected 2 emoji entries, got %d", len(a.Sentiment.TopEmojis))
	}
	if a.Sentiment.TopEmojis[0].Emoji != "😀" || a.Sentiment.TopEmojis[0].Count != 3 {
		t.Errorf("expected 😀 x3 first, got %q x%d",
			a.Sentiment.TopEmojis[0].Emoji, a.Sentiment.TopEmojis[0].Count)
	}
	if a.Sentiment.TopEmojis[1].Emoji != "🎉" || a.Sentiment.TopEmojis[1].Count != 1 {
		t.Errorf("expected 🎉 x1 second, got %q x%d",
			a.Sentiment.TopEmojis[1].Emoji, a.Sentiment.TopEmojis[1].Count)
	}
}

func TestAnalyzeSentiment_WhenKeywordsRepeat_ShouldRankAndFilter(t *testing.T) {
	msgs := []model.Message{
		textMsg(base, "Alice", "the weekend plans with everyone"),
		textMsg(base.Add(time.Minute), "Bob", "weekend plans again"),
		textMsg(base.Add(2*time.Minute), "Alice", "weekend it is"),
	}
	a := New(msgs, "Alice").Generate()

	if len(a.Sentiment.TopKeywords) == 0 {
		t.Fatal("expected keywords")
	}
	if a.Sentiment.TopKeywords[0] != "weekend" {
		t.Errorf("expected 'weekend' first, got %q", a.Sentiment.TopKeywords[0])
	}
	for _, w := range a.Sentiment.TopKeywords {
		if w == "the" || w == "with" {
			t.Errorf("stopword %q leaked into keywords", w)
		}
		if len(w) <= 3 {
			t.Errorf("short word %q leaked into keywords", w)
		}
	}
}

func TestAnalyzeSentiment_WhenFrequenciesTie_ShouldKeepFirstEncounteredOrder(t *testing.T) {
	msgs := []model.Message{
		textMsg(base, "Alice", "banana apple"),
		textMsg(base.Add(time.Minute), "Bob", "banana apple"),
	}
	a := New(msgs, "Alice").Generate()

	if len(a.Sentiment.TopKeywords) != 2 {
		t.Fatalf("expected 2 keywords, got %d", len(a.Sentiment.TopKeywords))
	}
	if a.Sentiment.TopKeywords[0] != "banana" || a.Sentiment.TopKeywords[1] != "apple" {
		t.Errorf("expected first-encountered order [banana apple], got %v", a.Sentiment.TopKeywords)
	}
}
