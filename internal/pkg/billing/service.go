package billing

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"strings"

	"github.com/scrivehq/scrive/app/models"
	"github.com/scrivehq/scrive/internal/pkg/entitlements"
	"gorm.io/gorm"
)

var (
	// ErrPlanNotFound means the event named no plan, or a plan the active
	// revision does not sell.
	ErrPlanNotFound = errors.New("plan not found")
	// ErrAccountNotFound means the event carried no usable account identity.
	ErrAccountNotFound = errors.New("account not found")
)

// Service materializes entitlement state from verified payment events.
type Service struct {
	repo Repository
	rev  entitlements.Revision
}

// NewService creates a billing service from an injected repository.
func NewService(repo Repository, rev entitlements.Revision) *Service {
	return &Service{repo: repo, rev: rev}
}

// NewServiceFromDB creates a billing service from a GORM DB handle.
func NewServiceFromDB(db *gorm.DB, rev entitlements.Revision) *Service {
	return NewService(NewRepository(db), rev)
}

// ActivatePlan applies a verified payment confirmation: overwrite the plan,
// set the cap from the revision's tier table, reset the usage counter to
// zero and record the billing cadence. The write is an overwrite, so a
// replayed event converges on the same state (it also re-resets the usage
// counter; accepted for at-least-once delivery).
func (s *Service) ActivatePlan(ctx context.Context, ev ActivationEvent) error {
	_ = ctx
	plan := strings.TrimSpace(ev.PlanName)
	if plan == "" {
		return ErrPlanNotFound
	}
	email := strings.TrimSpace(ev.Email)
	if email == "" {
		return ErrAccountNotFound
	}
	cap, ok := s.rev.Cap(plan)
	if !ok {
		return ErrPlanNotFound
	}

	err := s.repo.SetPlan(email, plan, cap, normalizeSubscriptionType(ev.SubscriptionType))
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrAccountNotFound
	}
	return err
}

// RecordWebhookEvent persists webhook payloads idempotently.
func (s *Service) RecordWebhookEvent(ctx context.Context, in WebhookEventInput) (bool, *models.BillingWebhookEvent, error) {
	_ = ctx
	provider := strings.ToLower(strings.TrimSpace(in.Provider))
	if provider == "" {
		return false, nil, errors.New("provider is required")
	}
	eventID := strings.TrimSpace(in.ProviderEventID)
	if eventID == "" {
		sum := sha256.Sum256([]byte(in.PayloadJSON))
		eventID = "hash:" + hex.EncodeToString(sum[:])
	}

	event := &models.BillingWebhookEvent{
		Provider:        provider,
		ProviderEventID: eventID,
		EventType:       strings.TrimSpace(in.EventType),
		PayloadJSON:     in.PayloadJSON,
		SignatureValid:  in.SignatureValid,
	}
	return s.repo.CreateWebhookEventIfNotExists(event)
}

// MarkWebhookProcessed marks an event as processed and stores an optional error.
func (s *Service) MarkWebhookProcessed(ctx context.Context, webhookEventID uint, processingErr error) error {
	_ = ctx
	if webhookEventID == 0 {
		return errors.New("webhook_event_id is required")
	}
	errMsg := ""
	if processingErr != nil {
		errMsg = processingErr.Error()
	}
	return s.repo.MarkWebhookProcessed(webhookEventID, errMsg)
}
