package billing

import (
	"encoding/json"
	"strings"

	"github.com/stripe/stripe-go/v79"
	"github.com/stripe/stripe-go/v79/webhook"
)

// EventTypeCheckoutCompleted is the only event type that activates a plan;
// everything else delivered to the webhook is recorded and ignored.
const EventTypeCheckoutCompleted = "checkout.session.completed"

// VerifyWebhook checks the Stripe-Signature header against the shared
// endpoint secret and parses the event. Nothing downstream may trust a
// payload that did not pass this check.
func VerifyWebhook(payload []byte, signatureHeader, secret string) (stripe.Event, error) {
	return webhook.ConstructEventWithOptions(
		payload,
		signatureHeader,
		secret,
		webhook.ConstructEventOptions{
			IgnoreAPIVersionMismatch: true,
		},
	)
}

// ParseActivation extracts the activation data from a verified
// checkout.session.completed event. Validation of the fields themselves is
// left to Service.ActivatePlan so that rejects are uniform.
func ParseActivation(event stripe.Event) (ActivationEvent, error) {
	var sess stripe.CheckoutSession
	if err := json.Unmarshal(event.Data.Raw, &sess); err != nil {
		return ActivationEvent{}, err
	}
	return ActivationEvent{
		Email:            strings.TrimSpace(sess.Metadata["email"]),
		PlanName:         strings.TrimSpace(sess.Metadata["plan"]),
		SubscriptionType: sess.Metadata["subscription_type"],
	}, nil
}
