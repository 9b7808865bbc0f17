package billing

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stripe/stripe-go/v79/webhook"
)

const checkoutCompletedPayload = `{
	"id": "evt_test_1",
	"type": "checkout.session.completed",
	"data": {
		"object": {
			"id": "cs_test_1",
			"object": "checkout.session",
			"metadata": {
				"email": "u1@example.com",
				"plan": "Starter",
				"subscription_type": "monthly"
			}
		}
	}
}`

func TestVerifyWebhookRoundTrip(t *testing.T) {
	secret := "whsec_test_secret"
	signed := webhook.GenerateTestSignedPayload(&webhook.UnsignedPayload{
		Payload:   []byte(checkoutCompletedPayload),
		Secret:    secret,
		Timestamp: time.Now(),
	})

	event, err := VerifyWebhook(signed.Payload, signed.Header, secret)
	require.NoError(t, err)
	assert.Equal(t, EventTypeCheckoutCompleted, string(event.Type))

	activation, err := ParseActivation(event)
	require.NoError(t, err)
	assert.Equal(t, "u1@example.com", activation.Email)
	assert.Equal(t, "Starter", activation.PlanName)
	assert.Equal(t, "monthly", activation.SubscriptionType)
}

func TestVerifyWebhookRejectsBadSignature(t *testing.T) {
	signed := webhook.GenerateTestSignedPayload(&webhook.UnsignedPayload{
		Payload:   []byte(checkoutCompletedPayload),
		Secret:    "whsec_real",
		Timestamp: time.Now(),
	})

	_, err := VerifyWebhook(signed.Payload, signed.Header, "whsec_other")
	assert.Error(t, err)
}

func TestVerifyWebhookRejectsTamperedPayload(t *testing.T) {
	secret := "whsec_test_secret"
	signed := webhook.GenerateTestSignedPayload(&webhook.UnsignedPayload{
		Payload:   []byte(checkoutCompletedPayload),
		Secret:    secret,
		Timestamp: time.Now(),
	})

	tampered := append([]byte(nil), signed.Payload...)
	tampered[len(tampered)-2] = ' '
	_, err := VerifyWebhook(tampered, signed.Header, secret)
	assert.Error(t, err)
}
