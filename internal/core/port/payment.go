package port

import (
	"context"
	"time"
)

// CheckoutSession is the handle returned by the payment gateway for a
// newly created hosted checkout flow.
type CheckoutSession struct {
	ID  string
	URL string
}

// CheckoutMetadata is echoed back by the gateway on completion and ties
// an asynchronous event to a local user.
type CheckoutMetadata struct {
	UserID    string
	Plan      string
	Frequency string
}

// WebhookEvent is a signature-verified gateway event. Data is the raw
// "data.object" JSON of the event; business parsing happens only after
// the signature check established trust.
type WebhookEvent struct {
	ID   string
	Type string
	Data []byte
}

// SubscriptionDetails carries refresh-cycle billing facts that checkout
// events do not include, re-queried from the gateway by reference.
type SubscriptionDetails struct {
	Price       float64
	PeriodStart time.Time
	PeriodEnd   time.Time
}

// PaymentGateway abstracts the payment processor's checkout and webhook
// surfaces.
type PaymentGateway interface {
	CreateCheckoutSession(ctx context.Context, priceID string, meta CheckoutMetadata, successURL, cancelURL string) (*CheckoutSession, error)
	// VerifyWebhook authenticates the payload against the shared secret
	// before any parsing of business data.
	VerifyWebhook(payload []byte, signatureHeader string) (*WebhookEvent, error)
	GetSubscription(ctx context.Context, subscriptionID string) (*SubscriptionDetails, error)
}
