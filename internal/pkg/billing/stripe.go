package billing

import (
	"errors"
	"strings"

	"github.com/stripe/stripe-go/v79"
	checkoutsession "github.com/stripe/stripe-go/v79/checkout/session"

	"github.com/scrivehq/scrive/internal/pkg/env"
)

// InitStripe wires the Stripe API key from the environment.
func InitStripe() error {
	key := strings.TrimSpace(env.GetEnv("STRIPE_SECRET_KEY", ""))
	if key == "" {
		return errors.New("STRIPE_SECRET_KEY is not configured")
	}
	stripe.Key = key
	return nil
}

// CreateCheckoutSession starts a Stripe Checkout Session for a subscription
// purchase. The account email and plan travel in the session metadata and
// come back on the checkout.session.completed webhook.
func CreateCheckoutSession(email, plan, subscriptionType string) (string, error) {
	priceID := PriceIDForPlan(plan)
	if priceID == "" {
		return "", ErrPlanNotFound
	}
	frontendURL := strings.TrimRight(env.GetEnv("FRONTEND_URL", ""), "/")
	if frontendURL == "" {
		return "", errors.New("FRONTEND_URL is not configured")
	}

	params := &stripe.CheckoutSessionParams{
		Mode: stripe.String(string(stripe.CheckoutSessionModeSubscription)),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				Price:    stripe.String(priceID),
				Quantity: stripe.Int64(1),
			},
		},
		SuccessURL:          stripe.String(frontendURL + "?session_id={CHECKOUT_SESSION_ID}"),
		CancelURL:           stripe.String(frontendURL),
		AllowPromotionCodes: stripe.Bool(true),
	}
	params.AddMetadata("email", email)
	params.AddMetadata("plan", plan)
	params.AddMetadata("subscription_type", normalizeSubscriptionType(subscriptionType))

	sess, err := checkoutsession.New(params)
	if err != nil {
		return "", err
	}
	return sess.URL, nil
}
