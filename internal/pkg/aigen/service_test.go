package aigen

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/scrivehq/scrive/app/models"
	"github.com/scrivehq/scrive/app/repository"
	"github.com/scrivehq/scrive/internal/pkg/credits"
)

type fakeAccounts struct {
	repository.AccountRepository
	accounts map[string]*models.Account
}

func newFakeAccounts(accounts ...*models.Account) *fakeAccounts {
	f := &fakeAccounts{accounts: make(map[string]*models.Account)}
	for _, a := range accounts {
		f.accounts[a.Email] = a
	}
	return f
}

func (f *fakeAccounts) ConsumeCredit(email string) error {
	account, ok := f.accounts[email]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	if account.MonthlyLimit >= 0 && account.CreditsUsed >= account.MonthlyLimit {
		return repository.ErrCreditsExhausted
	}
	account.CreditsUsed++
	return nil
}

type fakeGenerations struct {
	repository.GenerationRepository
	created []*models.Generation
	updated []*models.Generation
}

func (f *fakeGenerations) Create(generation *models.Generation) error {
	generation.UUID = fmt.Sprintf("gen-%d", len(f.created)+1)
	f.created = append(f.created, generation)
	return nil
}

func (f *fakeGenerations) Update(generation *models.Generation) error {
	f.updated = append(f.updated, generation)
	return nil
}

func newPromptServer(t *testing.T, handler http.HandlerFunc) (*httptest.Server, *PromptClient) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	client := &PromptClient{
		APIKey:     "test-key",
		BaseURL:    server.URL,
		Model:      "test-model",
		Referer:    "https://scrive.test",
		Title:      "scrive",
		HTTPClient: &http.Client{Timeout: 5 * time.Second},
	}
	return server, client
}

func newImageServer(t *testing.T, handler http.HandlerFunc) (*httptest.Server, *ImageClient) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	client := &ImageClient{
		APIKey:     "test-key",
		BaseURL:    server.URL,
		Model:      "test-model",
		HTTPClient: &http.Client{Timeout: 5 * time.Second},
	}
	return server, client
}

func enhanceResponse(prompt string) string {
	body, _ := json.Marshal(map[string]interface{}{
		"choices": []map[string]interface{}{
			{"message": map[string]string{"content": prompt}},
		},
	})
	return string(body)
}

func imageResponse(data string) string {
	body, _ := json.Marshal(map[string]interface{}{
		"candidates": []map[string]interface{}{
			{"content": map[string]interface{}{
				"parts": []map[string]interface{}{
					{"inlineData": map[string]string{"mimeType": "image/png", "data": data}},
				},
			}},
		},
	})
	return string(body)
}

func testRequest() Request {
	return Request{
		Prompt:         "space documentary",
		Sketch:         "data:image/png;base64,c2tldGNo",
		TargetPlatform: "youtube",
	}
}

func TestGenerateProducesAllVariations(t *testing.T) {
	_, prompts := newPromptServer(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, enhanceResponse("an enhanced prompt"))
	})
	var imageCalls int64
	_, images := newImageServer(t, func(w http.ResponseWriter, r *http.Request) {
		n := atomic.AddInt64(&imageCalls, 1)
		fmt.Fprint(w, imageResponse(fmt.Sprintf("aW1hZ2Ut%d", n)))
	})

	account := &models.Account{ID: 1, Email: "u1@example.com", Plan: "Starter", MonthlyLimit: 50}
	accounts := newFakeAccounts(account)
	generations := &fakeGenerations{}
	service := NewService(prompts, images, credits.NewRecorder(accounts), generations, nil)

	result, err := service.Generate(context.Background(), account, testRequest())
	require.NoError(t, err)
	assert.Len(t, result.Variations, VariationCount)
	assert.Equal(t, "an enhanced prompt", result.Prompt)
	assert.Equal(t, int64(VariationCount), imageCalls)

	assert.Equal(t, 1, account.CreditsUsed)
	require.Len(t, generations.created, 1)
	assert.Equal(t, VariationCount, generations.created[0].VariationCount)
	assert.Equal(t, "an enhanced prompt", generations.created[0].EnhancedPrompt)
	assert.Equal(t, result.UUID, generations.created[0].UUID)
}

func TestGenerateFallsBackToBasePrompt(t *testing.T) {
	_, prompts := newPromptServer(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "upstream unavailable", http.StatusBadGateway)
	})
	_, images := newImageServer(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, imageResponse("aW1hZ2U="))
	})

	account := &models.Account{ID: 1, Email: "u1@example.com", Plan: "Starter", MonthlyLimit: 50}
	service := NewService(prompts, images, credits.NewRecorder(newFakeAccounts(account)), &fakeGenerations{}, nil)

	req := testRequest()
	result, err := service.Generate(context.Background(), account, req)
	require.NoError(t, err)
	assert.Equal(t, BuildPrompt(req), result.Prompt)
	assert.Len(t, result.Variations, VariationCount)
}

func TestGenerateToleratesPartialVariationFailure(t *testing.T) {
	_, prompts := newPromptServer(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, enhanceResponse("an enhanced prompt"))
	})
	var imageCalls int64
	_, images := newImageServer(t, func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt64(&imageCalls, 1)%2 == 0 {
			http.Error(w, "model overloaded", http.StatusServiceUnavailable)
			return
		}
		fmt.Fprint(w, imageResponse("aW1hZ2U="))
	})

	account := &models.Account{ID: 1, Email: "u1@example.com", Plan: "Starter", MonthlyLimit: 50}
	generations := &fakeGenerations{}
	service := NewService(prompts, images, credits.NewRecorder(newFakeAccounts(account)), generations, nil)

	result, err := service.Generate(context.Background(), account, testRequest())
	require.NoError(t, err)
	assert.Len(t, result.Variations, 2)
	require.Len(t, generations.created, 1)
	assert.Equal(t, 2, generations.created[0].VariationCount)
}

func TestGenerateFailsWhenNoVariationSucceeds(t *testing.T) {
	_, prompts := newPromptServer(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, enhanceResponse("an enhanced prompt"))
	})
	_, images := newImageServer(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model overloaded", http.StatusServiceUnavailable)
	})

	account := &models.Account{ID: 1, Email: "u1@example.com", Plan: "Starter", MonthlyLimit: 50}
	generations := &fakeGenerations{}
	service := NewService(prompts, images, credits.NewRecorder(newFakeAccounts(account)), generations, nil)

	_, err := service.Generate(context.Background(), account, testRequest())
	assert.ErrorIs(t, err, ErrGenerationFailed)

	// The credit stays consumed and nothing is persisted.
	assert.Equal(t, 1, account.CreditsUsed)
	assert.Empty(t, generations.created)
}

func TestGenerateDeniesExhaustedAccountBeforeImageCalls(t *testing.T) {
	_, prompts := newPromptServer(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, enhanceResponse("an enhanced prompt"))
	})
	var imageCalls int64
	_, images := newImageServer(t, func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt64(&imageCalls, 1)
		fmt.Fprint(w, imageResponse("aW1hZ2U="))
	})

	account := &models.Account{ID: 1, Email: "u1@example.com", Plan: "Weekly", CreditsUsed: 20, MonthlyLimit: 20}
	service := NewService(prompts, images, credits.NewRecorder(newFakeAccounts(account)), &fakeGenerations{}, nil)

	_, err := service.Generate(context.Background(), account, testRequest())
	assert.True(t, errors.Is(err, credits.ErrExhausted))
	assert.Equal(t, int64(0), imageCalls)
	assert.Equal(t, 20, account.CreditsUsed)
}

func TestGenerateUnlimitedPlanNeverExhausts(t *testing.T) {
	_, prompts := newPromptServer(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, enhanceResponse("an enhanced prompt"))
	})
	_, images := newImageServer(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, imageResponse("aW1hZ2U="))
	})

	account := &models.Account{ID: 1, Email: "u1@example.com", Plan: "Pro", CreditsUsed: 9999, MonthlyLimit: models.LimitUnlimited}
	service := NewService(prompts, images, credits.NewRecorder(newFakeAccounts(account)), &fakeGenerations{}, nil)

	result, err := service.Generate(context.Background(), account, testRequest())
	require.NoError(t, err)
	assert.Len(t, result.Variations, VariationCount)
	assert.Equal(t, 10000, account.CreditsUsed)
}
