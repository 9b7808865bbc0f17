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

const defaultGeminiBaseURL = "https://generativelanguage.googleapis.com/v1beta"
const defaultImageModel = "gemini-2.0-flash-exp-image-generation"

// ImageClient talks to the Gemini generateContent API and extracts one
// inline image per call.
type ImageClient struct {
	APIKey  string
	BaseURL string
	Model   string

	HTTPClient *http.Client
}

func NewImageClientFromEnv() *ImageClient {
	return &ImageClient{
		APIKey:  strings.TrimSpace(env.GetEnv("GEMINI_API_KEY", "")),
		BaseURL: strings.TrimRight(env.GetEnv("GEMINI_BASE_URL", defaultGeminiBaseURL), "/"),
		Model:   strings.TrimSpace(env.GetEnv("GEMINI_IMAGE_MODEL", defaultImageModel)),
		HTTPClient: &http.Client{
			Timeout: 60 * time.Second,
		},
	}
}

type generateContentRequest struct {
	Contents         []geminiContent  `json:"contents"`
	GenerationConfig generationConfig `json:"generationConfig"`
}

type geminiContent struct {
	Parts []geminiPart `json:"parts"`
}

type geminiPart struct {
	Text       string            `json:"text,omitempty"`
	InlineData *geminiInlineData `json:"inlineData,omitempty"`
}

type geminiInlineData struct {
	MimeType string `json:"mimeType"`
	Data     string `json:"data"`
}

type generationConfig struct {
	ResponseModalities []string `json:"responseModalities"`
}

type generateContentResponse struct {
	Candidates []struct {
		Content geminiContent `json:"content"`
	} `json:"candidates"`
}

// Generate runs one image generation call and returns the base64 payload of
// the first inline image in the response.
func (c *ImageClient) Generate(ctx context.Context, prompt string) (string, error) {
	if strings.TrimSpace(c.APIKey) == "" {
		return "", errors.New("GEMINI_API_KEY is not configured")
	}

	body, err := json.Marshal(generateContentRequest{
		Contents: []geminiContent{
			{Parts: []geminiPart{{Text: prompt}}},
		},
		GenerationConfig: generationConfig{
			ResponseModalities: []string{"Text", "Image"},
		},
	})
	if err != nil {
		return "", err
	}

	url := fmt.Sprintf("%s/models/%s:generateContent?key=%s", c.BaseURL, c.Model, c.APIKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 32<<20))
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("gemini request failed: status=%d body=%s", resp.StatusCode, truncate(raw, 512))
	}

	var out generateContentResponse
	if err := json.Unmarshal(raw, &out); err != nil {
		return "", err
	}
	if len(out.Candidates) == 0 {
		return "", errors.New("gemini response carries no candidates")
	}

	for _, part := range out.Candidates[0].Content.Parts {
		if part.InlineData != nil && part.InlineData.Data != "" {
			return part.InlineData.Data, nil
		}
	}
	return "", errors.New("gemini response carries no inline image")
}

func truncate(b []byte, n int) string {
	if len(b) <= n {
		return string(b)
	}
	return string(b[:n]) + "..."
}
