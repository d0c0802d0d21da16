package domain

import "time"

// UserRegisteredEvent represents the payload for summit.user.registered messages.
type UserRegisteredEvent struct {
	EventID      string
	UserID       string
	Username     string
	Email        string
	RegisteredAt time.Time
	Metadata     map[string]any
}

// UserActivatedEvent represents the payload for summit.user.activated messages.
type UserActivatedEvent struct {
	EventID     string
	UserID      string
	Email       string
	ActivatedAt time.Time
	Metadata    map[string]any
}

// SubscriptionUpdatedEvent represents the payload for summit.subscription.updated messages.
type SubscriptionUpdatedEvent struct {
	EventID              string
	UserID               string
	Plan                 string
	Frequency            string
	Price                float64
	StripeSubscriptionID string
	PeriodStart          time.Time
	PeriodEnd            time.Time
	UpdatedAt            time.Time
	Metadata             map[string]any
}
