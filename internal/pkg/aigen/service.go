package aigen

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/scrivehq/scrive/app/models"
	"github.com/scrivehq/scrive/app/repository"
	"github.com/scrivehq/scrive/internal/pkg/credits"
	"github.com/scrivehq/scrive/internal/pkg/s3archive"
)

// VariationCount is how many thumbnail variations one generation produces.
const VariationCount = 4

// ErrGenerationFailed means no variation could be produced at all.
var ErrGenerationFailed = errors.New("thumbnail generation failed")

// Result is a finished generation: the persisted record's UUID, the prompt
// that was actually sent to the image model and the surviving variations as
// base64 PNG payloads.
type Result struct {
	UUID       string
	Prompt     string
	Variations []string
}

// Service orchestrates one generation: prompt building, enhancement, credit
// consumption, the variation fan-out and persistence.
type Service struct {
	prompts     *PromptClient
	images      *ImageClient
	recorder    *credits.Recorder
	generations repository.GenerationRepository
	archive     *s3archive.Client
}

func NewService(prompts *PromptClient, images *ImageClient, recorder *credits.Recorder, generations repository.GenerationRepository, archive *s3archive.Client) *Service {
	return &Service{
		prompts:     prompts,
		images:      images,
		recorder:    recorder,
		generations: generations,
		archive:     archive,
	}
}

// Generate runs the full pipeline for one request. The credit is consumed
// after prompt enhancement but before any image call, so an exhausted
// account never reaches the image provider. Individual variation failures
// are tolerated as long as at least one variation succeeds.
func (s *Service) Generate(ctx context.Context, account *models.Account, req Request) (*Result, error) {
	basePrompt := BuildPrompt(req)

	prompt := basePrompt
	enhanced, err := s.prompts.Enhance(ctx, basePrompt, req.Sketch)
	if err != nil {
		log.Printf("[AIGen] Prompt enhancement failed, using base prompt: %v", err)
	} else if strings.TrimSpace(enhanced) != "" {
		prompt = enhanced
	}

	if err := s.recorder.Consume(ctx, account.Email); err != nil {
		return nil, err
	}

	variations := make([]string, 0, VariationCount)
	for i := 1; i <= VariationCount; i++ {
		variationPrompt := fmt.Sprintf("%s (Variation %d: Make this unique from other variations)", prompt, i)
		image, err := s.images.Generate(ctx, variationPrompt)
		if err != nil {
			log.Printf("[AIGen] Variation %d failed: %v", i, err)
			continue
		}
		variations = append(variations, image)
	}

	if len(variations) == 0 {
		return nil, ErrGenerationFailed
	}

	record := &models.Generation{
		AccountID:      account.ID,
		Prompt:         req.Prompt,
		EnhancedPrompt: prompt,
		TargetPlatform: req.TargetPlatform,
		VariationCount: len(variations),
	}
	if err := s.generations.Create(record); err != nil {
		log.Printf("[AIGen] Failed to persist generation record: %v", err)
	}

	if s.archive != nil && record.UUID != "" {
		key, err := s.archive.StoreGeneration(ctx, record.UUID, variations)
		if err != nil {
			log.Printf("[AIGen] Archival failed for generation %s: %v", record.UUID, err)
		} else {
			record.ArchiveKey = key
			if err := s.generations.Update(record); err != nil {
				log.Printf("[AIGen] Failed to store archive key for generation %s: %v", record.UUID, err)
			}
		}
	}

	return &Result{
		UUID:       record.UUID,
		Prompt:     prompt,
		Variations: variations,
	}, nil
}
