package domain

import "time"

// SubscriptionPlan enumerates the purchasable plans.
type SubscriptionPlan string

const (
	PlanFree     SubscriptionPlan = "free"
	PlanLight    SubscriptionPlan = "light"
	PlanStandard SubscriptionPlan = "standard"
	PlanPro      SubscriptionPlan = "pro"
)

// SubscriptionFrequency enumerates billing cycles.
type SubscriptionFrequency string

const (
	FrequencyMonthly SubscriptionFrequency = "monthly"
	FrequencyYearly  SubscriptionFrequency = "yearly"
)

// ParsePlan validates a raw plan string.
func ParsePlan(raw string) (SubscriptionPlan, bool) {
	switch SubscriptionPlan(raw) {
	case PlanFree, PlanLight, PlanStandard, PlanPro:
		return SubscriptionPlan(raw), true
	}
	return "", false
}

// ParseFrequency validates a raw frequency string.
func ParseFrequency(raw string) (SubscriptionFrequency, bool) {
	switch SubscriptionFrequency(raw) {
	case FrequencyMonthly, FrequencyYearly:
		return SubscriptionFrequency(raw), true
	}
	return "", false
}

// Subscription is the current billing state for a user. At most one row
// is current per user; reconciliation upserts by user key rather than
// appending history.
type Subscription struct {
	ID                   string
	UserID               string
	Plan                 SubscriptionPlan
	Frequency            SubscriptionFrequency
	Price                float64
	IsActive             bool
	StartDate            time.Time
	EndDate              *time.Time
	StripeSubscriptionID *string
	UpdatedAt            time.Time
}

// Quota tracks resource accounting alongside a subscription. used <= total
// is expected but not enforced at this layer.
type Quota struct {
	ID        string
	UserID    string
	Total     int
	Used      int
	CreatedAt time.Time
	UpdatedAt time.Time
}
