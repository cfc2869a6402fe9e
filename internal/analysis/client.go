package analysis

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"axiom-backend/internal/models"

	"github.com/rs/zerolog"
	"github.com/sashabaranov/go-openai"
)

// Classifier turns raw feedback text into a structured analysis.
type Classifier interface {
	Classify(ctx context.Context, text string) (*models.Analysis, error)
}

const classifyPrompt = `You are a feedback triage assistant for aXiom, a shop selling genetically-engineered cats.
Analyze the customer feedback below and respond with a single JSON object and nothing else.
No markdown, no code fences, no commentary.

The object must have exactly these fields:
- "summary": a one-sentence summary of the feedback
- "sentiment": one of "positive", "neutral", "negative"
- "tags": an array of short lowercase category strings (may be empty)
- "priority": one of "P0", "P1", "P2", "P3" (P0 = most urgent)
- "nextAction": a recommended follow-up action, 10 to 500 characters

Feedback:
%s`

// Client calls an OpenAI-compatible chat-completion endpoint once per
// classification. No retries, no caching, no streaming.
type Client struct {
	client    *openai.Client
	model     string
	maxTokens int
}

func NewClient(baseURL, apiKey, model string, maxTokens int) *Client {
	clientConfig := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		clientConfig.BaseURL = baseURL
	}
	return &Client{
		client:    openai.NewClientWithConfig(clientConfig),
		model:     model,
		maxTokens: maxTokens,
	}
}

func (c *Client) Classify(ctx context.Context, text string) (*models.Analysis, error) {
	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:     c.model,
		MaxTokens: c.maxTokens,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleUser,
				Content: fmt.Sprintf(classifyPrompt, text),
			},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("classification request failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("classification returned no choices")
	}

	raw := resp.Choices[0].Message.Content
	zerolog.Ctx(ctx).Debug().Int("response_len", len(raw)).Msg("classification response received")

	return parseAnalysis(raw)
}

var requiredFields = []string{"summary", "sentiment", "tags", "priority", "nextAction"}

// parseAnalysis strips any enclosing code fences from the model output and
// parses it as the five-field analysis object. Missing fields fail the whole
// call; there is no partial result.
func parseAnalysis(raw string) (*models.Analysis, error) {
	cleaned := stripCodeFences(raw)

	var fields map[string]json.RawMessage
	if err := json.Unmarshal([]byte(cleaned), &fields); err != nil {
		return nil, fmt.Errorf("classification response is not valid JSON: %w", err)
	}
	for _, name := range requiredFields {
		if _, ok := fields[name]; !ok {
			return nil, fmt.Errorf("classification response missing field %q", name)
		}
	}

	var result models.Analysis
	if err := json.Unmarshal([]byte(cleaned), &result); err != nil {
		return nil, fmt.Errorf("classification response has wrong shape: %w", err)
	}
	if result.Tags == nil {
		result.Tags = []string{}
	}
	return &result, nil
}

// stripCodeFences removes a leading ``` or ```json line and a trailing ```
// fence, if present. Anything else is returned trimmed but untouched.
func stripCodeFences(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "```") {
		if i := strings.IndexByte(s, '\n'); i >= 0 {
			s = s[i+1:]
		} else {
			s = strings.TrimPrefix(s, "```")
		}
	}
	s = strings.TrimSpace(s)
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}
