package aigen

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/scrivehq/scrive/internal/pkg/env"
)

const defaultOpenRouterBaseURL = "https://openrouter.ai/api/v1"
const defaultPromptModel = "google/gemini-2.5-pro-exp-03-25:free"

// PromptClient talks to the OpenRouter chat completions API to turn the
// user's concept plus sketch into an optimized image prompt.
type PromptClient struct {
	APIKey  string
	BaseURL string
	Model   string
	Referer string
	Title   string

	HTTPClient *http.Client
}

func NewPromptClientFromEnv() *PromptClient {
	return &PromptClient{
		APIKey:  strings.TrimSpace(env.GetEnv("OPENROUTER_API_KEY", "")),
		BaseURL: strings.TrimRight(env.GetEnv("OPENROUTER_BASE_URL", defaultOpenRouterBaseURL), "/"),
		Model:   strings.TrimSpace(env.GetEnv("OPENROUTER_PROMPT_MODEL", defaultPromptModel)),
		Referer: env.GetEnv("PUBLIC_DOMAIN", "https://scrive.app"),
		Title:   "scrive",
		HTTPClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

type chatMessage struct {
	Role    string      `json:"role"`
	Content interface{} `json:"content"`
}

type chatContentPart struct {
	Type     string        `json:"type"`
	Text     string        `json:"text,omitempty"`
	ImageURL *chatImageURL `json:"image_url,omitempty"`
}

type chatImageURL struct {
	URL string `json:"url"`
}

type chatCompletionResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// Enhance sends the base prompt and the sketch to the prompt model and
// returns the enhanced prompt text. Callers fall back to the base prompt
// on any error.
func (c *PromptClient) Enhance(ctx context.Context, basePrompt, sketch string) (string, error) {
	if strings.TrimSpace(c.APIKey) == "" {
		return "", errors.New("OPENROUTER_API_KEY is not configured")
	}

	payload := map[string]interface{}{
		"model": c.Model,
		"messages": []chatMessage{
			{
				Role:    "system",
				Content: "You are a specialized assistant that creates optimized thumbnail prompts for digital content.",
			},
			{
				Role: "user",
				Content: []chatContentPart{
					{Type: "text", Text: basePrompt},
					{Type: "image_url", ImageURL: &chatImageURL{URL: sketch}},
				},
			},
		},
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Authorization", "Bearer "+c.APIKey)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("HTTP-Referer", c.Referer)
	req.Header.Set("X-Title", c.Title)

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("openrouter request failed: status=%d body=%s", resp.StatusCode, string(raw))
	}

	var out chatCompletionResponse
	if err := json.Unmarshal(raw, &out); err != nil {
		return "", err
	}
	if len(out.Choices) == 0 {
		return "", errors.New("openrouter response carries no choices")
	}

	content := strings.TrimSpace(out.Choices[0].Message.Content)
	if content == "" {
		return "", errors.New("openrouter response carries no content")
	}

	// Some models wrap the prompt in a JSON object; unwrap it when they do.
	if strings.HasPrefix(content, "{") && strings.Contains(content, `"prompt"`) {
		var wrapped struct {
			Prompt string `json:"prompt"`
		}
		if err := json.Unmarshal([]byte(content), &wrapped); err == nil && wrapped.Prompt != "" {
			return wrapped.Prompt, nil
		}
	}

	return content, nil
}
