package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	uuid "github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/enuda-labs/summit-BE/internal/core/domain"
	"github.com/enuda-labs/summit-BE/internal/core/port"
	"github.com/enuda-labs/summit-BE/internal/infra/stripe"
	"github.com/enuda-labs/summit-BE/internal/repository"
)

const (
	lockScopeWebhook = "webhook"
	lockTTLWebhook   = 30 * time.Second

	eventCheckoutCompleted = "checkout.session.completed"
)

var (
	// ErrUnknownPlan indicates the plan or frequency is not purchasable.
	ErrUnknownPlan = errors.New("unknown plan or frequency")
	// ErrMissingSignature indicates the webhook request carried no signature header.
	ErrMissingSignature = errors.New("missing webhook signature")
	// ErrInvalidSignature indicates the webhook signature did not verify.
	ErrInvalidSignature = errors.New("invalid webhook signature")
	// ErrMalformedPayload indicates the verified payload is not a well-formed event.
	ErrMalformedPayload = errors.New("malformed webhook payload")
	// ErrMissingMetadata indicates a checkout event without usable session metadata.
	ErrMissingMetadata = errors.New("checkout session metadata missing or incomplete")
	// ErrReconcileBusy indicates another reconciliation for the same user is in flight.
	ErrReconcileBusy = errors.New("reconciliation already in progress")
)

// quotaByPlan maps each plan to its resource allowance per billing cycle.
var quotaByPlan = map[domain.SubscriptionPlan]int{
	domain.PlanFree:     10,
	domain.PlanLight:    100,
	domain.PlanStandard: 500,
	domain.PlanPro:      2000,
}

// PriceResolver maps a (plan, frequency) pair to a gateway price reference.
type PriceResolver interface {
	PriceID(plan, frequency string) (string, bool)
}

// WebhookOutcome describes how a delivery was handled.
type WebhookOutcome int

const (
	// WebhookProcessed means a checkout completion was reconciled.
	WebhookProcessed WebhookOutcome = iota
	// WebhookIgnored means the event type is not handled; acknowledged
	// without side effects so the gateway stops redelivering it.
	WebhookIgnored
)

// SubscriptionService drives paid plan checkout and webhook reconciliation.
type SubscriptionService struct {
	users     port.UserRepository
	subs      port.SubscriptionRepository
	quotas    port.QuotaRepository
	gateway   port.PaymentGateway
	prices    PriceResolver
	publisher port.EventPublisher
	locker    port.UserLocker
	log       *zap.Logger

	successURL string
	cancelURL  string
	now        func() time.Time
}

// NewSubscriptionService constructs a subscription service.
func NewSubscriptionService(
	users port.UserRepository,
	subs port.SubscriptionRepository,
	quotas port.QuotaRepository,
	gateway port.PaymentGateway,
	prices PriceResolver,
	publisher port.EventPublisher,
	locker port.UserLocker,
	successURL, cancelURL string,
	log *zap.Logger,
) *SubscriptionService {
	if log == nil {
		log = zap.NewNop()
	}
	return &SubscriptionService{
		users:      users,
		subs:       subs,
		quotas:     quotas,
		gateway:    gateway,
		prices:     prices,
		publisher:  publisher,
		locker:     locker,
		log:        log,
		successURL: successURL,
		cancelURL:  cancelURL,
		now:        func() time.Time { return time.Now().UTC() },
	}
}

// WithClock overrides the time source. Intended for tests.
func (s *SubscriptionService) WithClock(clock func() time.Time) {
	if clock != nil {
		s.now = clock
	}
}

// CreateCheckout opens a hosted checkout session for the user. Nothing is
// persisted here; the subscription row is written only when the gateway
// confirms completion through the webhook.
func (s *SubscriptionService) CreateCheckout(ctx context.Context, userID, plan, frequency string) (*port.CheckoutSession, error) {
	parsedPlan, ok := domain.ParsePlan(plan)
	if !ok {
		return nil, ErrUnknownPlan
	}
	parsedFreq, ok := domain.ParseFrequency(frequency)
	if !ok {
		return nil, ErrUnknownPlan
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("lookup user: %w", err)
	}

	priceID, ok := s.prices.PriceID(string(parsedPlan), string(parsedFreq))
	if !ok {
		return nil, ErrUnknownPlan
	}

	meta := port.CheckoutMetadata{
		UserID:    user.ID,
		Plan:      string(parsedPlan),
		Frequency: string(parsedFreq),
	}

	session, err := s.gateway.CreateCheckoutSession(ctx, priceID, meta, s.successURL, s.cancelURL)
	if err != nil {
		return nil, fmt.Errorf("create checkout session: %w", err)
	}

	s.log.Info("checkout session created",
		zap.String("user_id", user.ID),
		zap.String("plan", string(parsedPlan)),
		zap.String("frequency", string(parsedFreq)),
		zap.String("session_id", session.ID))

	return session, nil
}

// checkoutSession is the slice of the gateway's session object the
// reconciliation needs.
type checkoutSession struct {
	ID           string            `json:"id"`
	Subscription string            `json:"subscription"`
	Metadata     map[string]string `json:"metadata"`
}

// HandleWebhook authenticates and reconciles one webhook delivery.
// Signature verification happens before any payload field is read.
// Permanent errors (ErrMissingSignature, ErrInvalidSignature,
// ErrMalformedPayload, ErrMissingMetadata) mean redelivery cannot
// succeed; any other error is transient and worth a retry.
func (s *SubscriptionService) HandleWebhook(ctx context.Context, payload []byte, signatureHeader string) (WebhookOutcome, error) {
	if signatureHeader == "" {
		return WebhookIgnored, ErrMissingSignature
	}

	event, err := s.gateway.VerifyWebhook(payload, signatureHeader)
	if err != nil {
		switch {
		case errors.Is(err, stripe.ErrInvalidSignature):
			return WebhookIgnored, ErrInvalidSignature
		case errors.Is(err, stripe.ErrMalformedPayload):
			return WebhookIgnored, ErrMalformedPayload
		}
		return WebhookIgnored, fmt.Errorf("verify webhook: %w", err)
	}

	if event.Type != eventCheckoutCompleted {
		s.log.Debug("webhook event ignored",
			zap.String("event_id", event.ID),
			zap.String("event_type", event.Type))
		return WebhookIgnored, nil
	}

	var session checkoutSession
	if err := json.Unmarshal(event.Data, &session); err != nil {
		return WebhookIgnored, fmt.Errorf("%w: %v", ErrMalformedPayload, err)
	}

	meta, err := sessionMetadata(session)
	if err != nil {
		return WebhookIgnored, err
	}

	if session.Subscription == "" {
		return WebhookIgnored, fmt.Errorf("%w: subscription reference", ErrMissingMetadata)
	}

	plan, ok := domain.ParsePlan(meta.Plan)
	if !ok {
		return WebhookIgnored, fmt.Errorf("%w: plan %q", ErrMissingMetadata, meta.Plan)
	}
	frequency, ok := domain.ParseFrequency(meta.Frequency)
	if !ok {
		return WebhookIgnored, fmt.Errorf("%w: frequency %q", ErrMissingMetadata, meta.Frequency)
	}

	user, err := s.users.GetByID(ctx, meta.UserID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return WebhookIgnored, fmt.Errorf("%w: user %s", ErrMissingMetadata, meta.UserID)
		}
		return WebhookIgnored, fmt.Errorf("lookup user: %w", err)
	}

	// Checkout events do not carry billing period or price, so those
	// are re-queried from the gateway by subscription reference.
	details, err := s.gateway.GetSubscription(ctx, session.Subscription)
	if err != nil {
		return WebhookIgnored, fmt.Errorf("fetch subscription details: %w", err)
	}

	release, ok, err := s.locker.Acquire(ctx, lockScopeWebhook, user.ID, lockTTLWebhook)
	if err != nil {
		return WebhookIgnored, fmt.Errorf("acquire reconcile lock: %w", err)
	}
	if !ok {
		return WebhookIgnored, ErrReconcileBusy
	}
	defer release()

	now := s.now()
	endDate := details.PeriodEnd
	stripeSubID := session.Subscription
	sub := domain.Subscription{
		ID:                   uuid.NewString(),
		UserID:               user.ID,
		Plan:                 plan,
		Frequency:            frequency,
		Price:                details.Price,
		IsActive:             true,
		StartDate:            details.PeriodStart,
		EndDate:              &endDate,
		StripeSubscriptionID: &stripeSubID,
		UpdatedAt:            now,
	}

	if err := s.subs.Upsert(ctx, sub); err != nil {
		return WebhookIgnored, fmt.Errorf("upsert subscription: %w", err)
	}

	if err := s.quotas.UpsertTotal(ctx, user.ID, quotaByPlan[plan]); err != nil {
		return WebhookIgnored, fmt.Errorf("upsert quota: %w", err)
	}

	s.log.Info("subscription reconciled",
		zap.String("user_id", user.ID),
		zap.String("plan", string(plan)),
		zap.String("frequency", string(frequency)),
		zap.String("event_id", event.ID))

	if s.publisher != nil {
		evt := domain.SubscriptionUpdatedEvent{
			EventID:              uuid.NewString(),
			UserID:               user.ID,
			Plan:                 string(plan),
			Frequency:            string(frequency),
			Price:                details.Price,
			StripeSubscriptionID: stripeSubID,
			PeriodStart:          details.PeriodStart,
			PeriodEnd:            details.PeriodEnd,
			UpdatedAt:            now,
		}
		if err := s.publisher.PublishSubscriptionUpdated(ctx, evt); err != nil {
			s.log.Warn("publish subscription updated event failed",
				zap.String("user_id", user.ID),
				zap.Error(err))
		}
	}

	return WebhookProcessed, nil
}

// GetByUser returns the user's current subscription.
func (s *SubscriptionService) GetByUser(ctx context.Context, userID string) (*domain.Subscription, error) {
	sub, err := s.subs.GetByUser(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("lookup subscription: %w", err)
	}
	return sub, nil
}

func sessionMetadata(session checkoutSession) (port.CheckoutMetadata, error) {
	meta := port.CheckoutMetadata{
		UserID:    session.Metadata["user_id"],
		Plan:      session.Metadata["subscription_plan"],
		Frequency: session.Metadata["subscription_frequency"],
	}
	if meta.UserID == "" || meta.Plan == "" || meta.Frequency == "" {
		return port.CheckoutMetadata{}, ErrMissingMetadata
	}
	return meta, nil
}
