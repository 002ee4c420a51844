// Package narrative generates LLM-based prose write-ups of analytics
// snapshots via chat completion APIs.
package narrative

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"panion/internal/model"
)

const systemPrompt = "Write a short friendly paragraph describing this person's chat habits based on the statistics below. Speak directly to them. Do not use markdown formatting."

// Narrator calls an OpenAI-compatible chat completion API.
type Narrator struct {
	endpoint string
	model    string
	apiKey   string
	client   *http.Client
}

// NewFromEnv detects a chat completion provider from the environment.
// Returns (nil, nil) when no provider is configured — this is not an error.
func NewFromEnv() (*Narrator, error) {
	if model := os.Getenv("OLLAMA_CHAT_MODEL"); model != "" {
		host := os.Getenv("OLLAMA_HOST")
		if host == "" {
			return nil, nil
		}
		return &Narrator{
			endpoint: strings.TrimRight(host, "/") + "/v1/chat/completions",
			model:    model,
			apiKey:   "ollama",
			client:   &http.Client{Timeout: 120 * time.Second},
		}, nil
	}

	if key := os.Getenv("OPENAI_API_KEY"); key != "" {
		return &Narrator{
			endpoint: "https://api.openai.com/v1/chat/completions",
			model:    "gpt-4o-mini",
			apiKey:   key,
			client:   &http.Client{Timeout: 60 * time.Second},
		}, nil
	}

	return nil, nil
}

// Model returns the model name used for narration.
func (n *Narrator) Model() string { return n.model }

// Narrate generates a one-paragraph write-up of the given snapshot.
func (n *Narrator) Narrate(analytics *model.Analytics) (string, error) {
	reqBody, err := json.Marshal(chatRequest{
		Model:    n.model,
		Messages: buildPrompt(analytics),
	})
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequest(http.MethodPost, n.endpoint, bytes.NewReader(reqBody))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+n.apiKey)

	resp, err := n.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("chat completion request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		preview := string(body)
		if len(preview) > 200 {
			preview = preview[:200] + "..."
		}
		return "", fmt.Errorf("chat API returned %d: %s", resp.StatusCode, preview)
	}

	var result chatResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return "", fmt.Errorf("unmarshal response: %w", err)
	}

	if len(result.Choices) == 0 {
		return "", fmt.Errorf("chat API returned no choices")
	}

	return strings.TrimSpace(result.Choices[0].Message.Content), nil
}

func buildPrompt(a *model.Analytics) []chatMessage {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Total messages: %d (%d sent, %d received)\n", a.TotalMessages, a.MessagesSent, a.MessagesReceived)
	fmt.Fprintf(&sb, "Top contact: %s\n", a.TopContact)
	fmt.Fprintf(&sb, "Most active: %s, peak hours %s\n", a.Activity.MostActiveDay, a.Activity.PeakHours)
	fmt.Fprintf(&sb, "Sentiment: %d%% positive, %d%% neutral, %d%% negative\n",
		a.Sentiment.Positive, a.Sentiment.Neutral, a.Sentiment.Negative)
	fmt.Fprintf(&sb, "Calls: %d voice, %d video, %d missed\n",
		a.Calls.VoiceCalls, a.Calls.VideoCalls, a.Calls.MissedCalls)
	fmt.Fprintf(&sb, "Wellbeing score: %d/100\n", a.WellbeingScore)
	for _, insight := range a.Insights {
		fmt.Fprintf(&sb, "- %s\n", insight)
	}

	return []chatMessage{
		{Role: "system", Content: systemPrompt},
		{Role: "user", Content: sb.String()},
	}
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
}

type chatResponse struct {
	Choices []chatChoice `json:"choices"`
}

type chatChoice struct {
	Message chatMessage `json:"message"`
}
