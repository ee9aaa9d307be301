package gemini

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

const (
	modelName       = "gemini-1.5-flash"
	icebreakerCount = 3
)

// GeminiClient writes opening lines for fresh matches
type GeminiClient struct {
	client *genai.Client
	model  *genai.GenerativeModel
}

func NewGeminiClient(ctx context.Context, apiKey string) (*GeminiClient, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}

	model := client.GenerativeModel(modelName)
	model.SetTemperature(0.8)
	model.ResponseMIMEType = "application/json"

	return &GeminiClient{
		client: client,
		model:  model,
	}, nil
}

func (c *GeminiClient) Close() error {
	return c.client.Close()
}

// GenerateIcebreakers asks the model for opening lines. When the model is
// unreachable or answers with something unusable, lines built from the
// shared hobbies are returned instead.
func (c *GeminiClient) GenerateIcebreakers(ctx context.Context, user1Interests, user2Interests []string) ([]string, error) {
	prompt := fmt.Sprintf(`Generate %d short icebreaker messages for a dating app match.
User 1 hobbies: %s
User 2 hobbies: %s
Write opening lines User 1 could send to User 2, leaning on shared hobbies or playful contrasts.
Language: English.
Output: a JSON array of strings and nothing else.`,
		icebreakerCount, strings.Join(user1Interests, ", "), strings.Join(user2Interests, ", "))

	resp, err := c.model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		log.Printf("[Match] gemini unavailable, using fallback icebreakers: %v", err)
		return FallbackIcebreakers(user1Interests, user2Interests), nil
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return FallbackIcebreakers(user1Interests, user2Interests), nil
	}

	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if txt, ok := part.(genai.Text); ok {
			sb.WriteString(string(txt))
		}
	}

	lines, err := ParseIcebreakers(sb.String())
	if err != nil {
		log.Printf("[Match] %v", err)
		return FallbackIcebreakers(user1Interests, user2Interests), nil
	}
	return lines, nil
}

// ParseIcebreakers reads a JSON array of lines, tolerating a markdown fence
// or a plain list with one line per row.
func ParseIcebreakers(text string) ([]string, error) {
	text = strings.TrimSpace(text)
	text = strings.TrimPrefix(text, "```json")
	text = strings.TrimPrefix(text, "```")
	text = strings.TrimSuffix(text, "```")
	text = strings.TrimSpace(text)

	var lines []string
	if err := json.Unmarshal([]byte(text), &lines); err != nil {
		lines = lines[:0]
		for _, line := range strings.Split(text, "\n") {
			line = strings.TrimSpace(strings.TrimLeft(line, "-*0123456789. "))
			if line == "" || line == "[" || line == "]" {
				continue
			}
			lines = append(lines, strings.Trim(line, `",`))
		}
		if len(lines) == 0 {
			return nil, fmt.Errorf("failed to parse icebreakers: %w", err)
		}
	}

	out := make([]string, 0, icebreakerCount)
	for _, line := range lines {
		if line = strings.TrimSpace(line); line != "" {
			out = append(out, line)
		}
		if len(out) == icebreakerCount {
			break
		}
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("no icebreakers in response")
	}
	return out, nil
}

// FallbackIcebreakers builds canned lines around the first shared hobby
func FallbackIcebreakers(user1Interests, user2Interests []string) []string {
	theirs := make(map[string]bool, len(user2Interests))
	for _, h := range user2Interests {
		theirs[h] = true
	}
	for _, h := range user1Interests {
		if theirs[h] {
			topic := strings.ToLower(h)
			return []string{
				fmt.Sprintf("I see we're both into %s. What got you started?", topic),
				fmt.Sprintf("Best %s memory of the last year, go!", topic),
				"Okay, the match gods have spoken. How's your week going?",
			}
		}
	}
	return []string{
		"Hi! Your profile made me smile. What are you up to this weekend?",
		"Quick question: coffee or a long walk for a first meet?",
		"Tell me one thing that isn't on your profile.",
	}
}
