// Package model defines the domain types shared across the application.
package model

import "time"

// MessageType classifies a parsed transcript record.
type MessageType string

const (
	TypeText   MessageType = "text"
	TypeMedia  MessageType = "media"
	TypeVoice  MessageType = "voice"
	TypeCall   MessageType = "call"
	TypeSystem MessageType = "system"
)

// MediaType discriminates media records. Voice notes keep their own
// top-level type but still carry MediaVoice for display layers.
type MediaType string

const (
	MediaPhoto    MediaType = "photo"
	MediaVideo    MediaType = "video"
	MediaVoice    MediaType = "voice"
	MediaDocument MediaType = "document"
)

// Message is one parsed unit of transcript content.
type Message struct {
	Timestamp time.Time   `json:"timestamp"`
	Sender    string      `json:"sender"`
	Content   string      `json:"content"`
	Type      MessageType `json:"type"`
	MediaType MediaType   `json:"mediaType,omitempty"`
	IsDeleted bool        `json:"isDeleted,omitempty"`
}

// Sentiment is the four-way classification produced by the sentiment scanner.
type Sentiment string

const (
	SentimentPositive Sentiment = "positive"
	SentimentNeutral  Sentiment = "neutral"
	SentimentNegative Sentiment = "negative"
	SentimentMixed    Sentiment = "mixed"
)

// ContactStats is the per-contact rollup, capped at the top 10 by volume.
type ContactStats struct {
	Name             string    `json:"name"`
	Messages         int       `json:"messages"`
	Percentage       int       `json:"percentage"`
	AvgResponse      string    `json:"avgResponse"`
	Sentiment        Sentiment `json:"sentiment"`
	MessagesSent     int       `json:"messagesSent"`
	MessagesReceived int       `json:"messagesReceived"`
}

// ActivityData holds temporal activity patterns. HourlyActivity is indexed
// [day-of-week][hour-of-day] with Sunday as day 0.
type ActivityData struct {
	HourlyActivity         [7][24]int `json:"hourlyActivity"`
	PeakHours              string     `json:"peakHours"`
	MostActiveDay          string     `json:"mostActiveDay"`
	LeastActiveDay         string     `json:"leastActiveDay"`
	DailyOpens             int        `json:"dailyOpens"`
	AverageSessionDuration string     `json:"averageSessionDuration"`
}

// MediaStats counts media by kind. TotalSize is a heuristic estimate in
// bytes, not a measurement; exports don't carry attachments.
type MediaStats struct {
	Photos     int     `json:"photos"`
	Videos     int     `json:"videos"`
	VoiceNotes int     `json:"voiceNotes"`
	Documents  int     `json:"documents"`
	TotalSize  float64 `json:"totalSize"`
}

// EmojiCount pairs an emoji with its frequency.
type EmojiCount struct {
	Emoji string `json:"emoji"`
	Count int    `json:"count"`
}

// SentimentData is the engine-level sentiment profile over text messages.
type SentimentData struct {
	Positive    int          `json:"positive"`
	Neutral     int          `json:"neutral"`
	Negative    int          `json:"negative"`
	TopEmojis   []EmojiCount `json:"topEmojis"`
	TopKeywords []string     `json:"topKeywords"`
}

// CallerStats is a per-sender call rollup.
type CallerStats struct {
	Name     string `json:"name"`
	Calls    int    `json:"calls"`
	Type     string `json:"type"`
	Duration string `json:"duration"`
}

// CallStats summarises call-type messages. Transcripts carry no durations,
// so the duration fields are placeholder estimates.
type CallStats struct {
	VoiceCalls       int           `json:"voiceCalls"`
	VideoCalls       int           `json:"videoCalls"`
	MissedCalls      int           `json:"missedCalls"`
	AvgVoiceDuration string        `json:"avgVoiceDuration"`
	AvgVideoDuration string        `json:"avgVideoDuration"`
	TopCallers       []CallerStats `json:"topCallers"`
}

// DateRange bounds the observed timestamps, as ISO-8601 strings.
type DateRange struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// Analytics is the complete snapshot produced by one engine invocation.
// It is constructed once and never mutated afterwards.
type Analytics struct {
	TotalMessages    int            `json:"totalMessages"`
	MessagesSent     int            `json:"messagesSent"`
	MessagesReceived int            `json:"messagesReceived"`
	TotalOnlineTime  string         `json:"totalOnlineTime"`
	MostActiveTime   string         `json:"mostActiveTime"`
	TopContact       string         `json:"topContact"`
	Contacts         []ContactStats `json:"contacts"`
	Activity         ActivityData   `json:"activity"`
	Media            MediaStats     `json:"media"`
	Sentiment        SentimentData  `json:"sentiment"`
	Calls            CallStats      `json:"calls"`
	WellbeingScore   int            `json:"wellbeingScore"`
	Insights         []string       `json:"insights"`
	DateRange        DateRange      `json:"dateRange"`
}

// Report is a stored analytics snapshot with its identifier.
type Report struct {
	ID        string     `json:"id"`
	Analytics *Analytics `json:"analytics"`
	CreatedAt time.Time  `json:"createdAt"`
}
