package analytics

import (
	"testing"
	"time"

	"panion/internal/model"
)

func TestAnalyzeContacts_WhenUserAndContactExchange_ShouldSplitSentReceived(t *testing.T) {
	msgs := []model.Message{
		textMsg(base, "Me", "hi"),
		textMsg(base.Add(time.Minute), "Alice", "hello"),
		textMsg(base.Add(2*time.Minute), "Me", "how are you"),
		textMsg(base.Add(3*time.Minute), "Alice", "fine"),
		textMsg(base.Add(4*time.Minute), "Alice", "and you"),
	}
	a := New(msgs, "Me").Generate()

	if len(a.Contacts) != 1 {
		t.Fatalf("expected 1 contact, got %d", len(a.Contacts))
	}
	c := a.Contacts[0]
	if c.Name != "Alice" {
		t.Errorf("expected Alice, got %q", c.Name)
	}
	if c.MessagesSent != 2 || c.MessagesReceived != 3 {
		t.Errorf("expected 2 sent / 3 received, got %d/%d", c.MessagesSent, c.MessagesReceived)
	}
	if c.Messages != 5 {
		t.Errorf("expected 5 total, got %d", c.Messages)
	}
	if c.Percentage != 100 {
		t.Errorf("expected 100%%, got %d", c.Percentage)
	}
}

func TestAnalyzeContacts_WhenReplyFollowsUserMessage_ShouldAverageLatency(t *testing.T) {
	msgs := []model.Message{
		textMsg(base, "Me", "ping"),
		textMsg(base.Add(2*time.Minute), "Alice", "pong"), // 2m sample
		textMsg(base.Add(10*time.Minute), "Me", "ping"),
		textMsg(base.Add(14*time.Minute), "Alice", "pong"), // 4m sample
	}
	a := New(msgs, "Me").Generate()

	if a.Contacts[0].AvgResponse != "3m 0s" {
		t.Errorf("expected 3m 0s average reply, got %q", a.Contacts[0].AvgResponse)
	}
}

func TestAnalyzeContacts_WhenReplyGapExceedsWindow_ShouldSkipSample(t *testing.T) {
	msgs := []model.Message{
		textMsg(base, "Me", "ping"),
		textMsg(base.Add(2*time.Hour), "Alice", "pong"), // outside window
	}
	a := New(msgs, "Me").Generate()

	if a.Contacts[0].AvgResponse != "0s" {
		t.Errorf("expected no reply samples, got %q", a.Contacts[0].AvgResponse)
	}
}

func TestAnalyzeContacts_WhenContactAfterContact_ShouldNotSampleLatency(t *testing.T) {
	// A received message following another received message is not a reply
	// to the user.
	msgs := []model.Message{
		textMsg(base, "Alice", "hi"),
		textMsg(base.Add(time.Minute), "Alice", "there"),
	}
	a := New(msgs, "Me").Generate()

	if a.Contacts[0].AvgResponse != "0s" {
		t.Errorf("expected no reply samples, got %q", a.Contacts[0].AvgResponse)
	}
}

func TestAnalyzeContacts_WhenSenderIsRawIdentifier_ShouldNormalizeName(t *testing.T) {
	msgs := []model.Message{
		textMsg(base, "15551234567890123@lid", "hello"),
	}
	a := New(msgs, "Me").Generate()

	if a.Contacts[0].Name != "1234567890123" {
		t.Errorf("expected normalized phone tail, got %q", a.Contacts[0].Name)
	}
}

func TestAnalyzeContacts_WhenContactTextsArePositive_ShouldClassifySentiment(t *testing.T) {
	msgs := []model.Message{
		textMsg(base, "Alice", "this is great"),
		textMsg(base.Add(time.Minute), "Alice", "awesome news"),
	}
	a := New(msgs, "Me").Generate()

	if a.Contacts[0].Sentiment != model.SentimentPositive {
		t.Errorf("expected positive sentiment, got %q", a.Contacts[0].Sentiment)
	}
}
