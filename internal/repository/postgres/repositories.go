package postgres

import (
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repositories aggregates the PostgreSQL-backed repositories sharing one pool.
type Repositories struct {
	Users         *UserRepository
	OTPs          *OTPRepository
	Subscriptions *SubscriptionRepository
	Quotas        *QuotaRepository
}

// NewRepositories wires every repository to the provided pool.
func NewRepositories(pool *pgxpool.Pool) *Repositories {
	return &Repositories{
		Users:         NewUserRepository(pool),
		OTPs:          NewOTPRepository(pool),
		Subscriptions: NewSubscriptionRepository(pool),
		Quotas:        NewQuotaRepository(pool),
	}
}
