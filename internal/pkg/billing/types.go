package billing

// ActivationEvent is the normalized payment confirmation the service acts
// on. It is only built from a webhook payload whose signature verified.
type ActivationEvent struct {
	Email            string
	PlanName         string
	SubscriptionType string
}

// WebhookEventInput is the normalized input for webhook event persistence.
type WebhookEventInput struct {
	Provider        string
	ProviderEventID string
	EventType       string
	PayloadJSON     string
	SignatureValid  bool
}
