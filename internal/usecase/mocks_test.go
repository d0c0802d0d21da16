package usecase

import (
	"context"
	"time"

	"github.com/enuda-labs/summit-BE/internal/core/domain"
	"github.com/enuda-labs/summit-BE/internal/core/port"
	"github.com/enuda-labs/summit-BE/internal/repository"
)

type mockUserRepository struct {
	users map[string]*domain.User

	createErr   error
	createCalls int
	createdUser domain.User

	activateErr    error
	activateCalls  int
	activateLastID string

	updateErr   error
	updateCalls int

	deleteErr   error
	deleteCalls int

	listErr error

	getCalls int
}

func newMockUserRepository(users ...domain.User) *mockUserRepository {
	m := &mockUserRepository{users: make(map[string]*domain.User)}
	for i := range users {
		u := users[i]
		m.users[u.ID] = &u
	}
	return m
}

func (m *mockUserRepository) Create(_ context.Context, user domain.User) error {
	m.createCalls++
	m.createdUser = user
	if m.createErr != nil {
		return m.createErr
	}
	u := user
	m.users[u.ID] = &u
	return nil
}

func (m *mockUserRepository) GetByID(_ context.Context, id string) (*domain.User, error) {
	m.getCalls++
	if u, ok := m.users[id]; ok {
		cp := *u
		return &cp, nil
	}
	return nil, repoNotFound()
}

func (m *mockUserRepository) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	m.getCalls++
	for _, u := range m.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, repoNotFound()
}

func (m *mockUserRepository) GetByUsername(_ context.Context, username string) (*domain.User, error) {
	for _, u := range m.users {
		if u.Username == username {
			cp := *u
			return &cp, nil
		}
	}
	return nil, repoNotFound()
}

func (m *mockUserRepository) List(context.Context) ([]domain.User, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	out := make([]domain.User, 0, len(m.users))
	for _, u := range m.users {
		out = append(out, *u)
	}
	return out, nil
}

func (m *mockUserRepository) Update(_ context.Context, user domain.User) error {
	m.updateCalls++
	if m.updateErr != nil {
		return m.updateErr
	}
	if _, ok := m.users[user.ID]; !ok {
		return repoNotFound()
	}
	cp := user
	m.users[user.ID] = &cp
	return nil
}

func (m *mockUserRepository) Activate(_ context.Context, id string) error {
	m.activateCalls++
	m.activateLastID = id
	if m.activateErr != nil {
		return m.activateErr
	}
	u, ok := m.users[id]
	if !ok {
		return repoNotFound()
	}
	u.IsActive = true
	return nil
}

func (m *mockUserRepository) Delete(_ context.Context, id string) error {
	m.deleteCalls++
	if m.deleteErr != nil {
		return m.deleteErr
	}
	if _, ok := m.users[id]; !ok {
		return repoNotFound()
	}
	delete(m.users, id)
	return nil
}

type mockOTPRepository struct {
	codes map[string]domain.OTPCode // keyed by code ID

	createErr    error
	createCalls  int
	createdCode  domain.OTPCode
	consumeErr   error
	consumeCalls int
	deleteCalls  int
}

func newMockOTPRepository(codes ...domain.OTPCode) *mockOTPRepository {
	m := &mockOTPRepository{codes: make(map[string]domain.OTPCode)}
	for _, c := range codes {
		m.codes[c.ID] = c
	}
	return m
}

func (m *mockOTPRepository) Create(_ context.Context, code domain.OTPCode) error {
	m.createCalls++
	m.createdCode = code
	if m.createErr != nil {
		return m.createErr
	}
	m.codes[code.ID] = code
	return nil
}

func (m *mockOTPRepository) GetLatestByUser(_ context.Context, userID string) (*domain.OTPCode, error) {
	var latest *domain.OTPCode
	for id := range m.codes {
		c := m.codes[id]
		if c.UserID != userID {
			continue
		}
		if latest == nil || c.CreatedAt.After(latest.CreatedAt) {
			cp := c
			latest = &cp
		}
	}
	if latest == nil {
		return nil, repoNotFound()
	}
	return latest, nil
}

func (m *mockOTPRepository) Consume(_ context.Context, id string) error {
	m.consumeCalls++
	if m.consumeErr != nil {
		return m.consumeErr
	}
	if _, ok := m.codes[id]; !ok {
		return repoNotFound()
	}
	delete(m.codes, id)
	return nil
}

func (m *mockOTPRepository) DeleteByUser(_ context.Context, userID string) error {
	m.deleteCalls++
	for id, c := range m.codes {
		if c.UserID == userID {
			delete(m.codes, id)
		}
	}
	return nil
}

type mockSender struct {
	err        error
	calls      int
	lastCode   string
	lastName   string
	lastEmail  string
	sentCtxErr error
}

func (m *mockSender) Send(ctx context.Context, code, recipientName, recipientEmail string) error {
	m.calls++
	m.lastCode = code
	m.lastName = recipientName
	m.lastEmail = recipientEmail
	m.sentCtxErr = ctx.Err()
	return m.err
}

type mockPublisher struct {
	registeredCalls int
	activatedCalls  int
	updatedCalls    int
	lastUpdated     domain.SubscriptionUpdatedEvent
	err             error
}

func (m *mockPublisher) PublishUserRegistered(context.Context, domain.UserRegisteredEvent) error {
	m.registeredCalls++
	return m.err
}

func (m *mockPublisher) PublishUserActivated(context.Context, domain.UserActivatedEvent) error {
	m.activatedCalls++
	return m.err
}

func (m *mockPublisher) PublishSubscriptionUpdated(_ context.Context, event domain.SubscriptionUpdatedEvent) error {
	m.updatedCalls++
	m.lastUpdated = event
	return m.err
}

type mockLocker struct {
	held         bool
	err          error
	acquireCalls int
	releaseCalls int
	lastScope    string
	lastUserID   string
}

func (m *mockLocker) Acquire(_ context.Context, scope, userID string, _ time.Duration) (func(), bool, error) {
	m.acquireCalls++
	m.lastScope = scope
	m.lastUserID = userID
	if m.err != nil {
		return nil, false, m.err
	}
	if m.held {
		return nil, false, nil
	}
	return func() { m.releaseCalls++ }, true, nil
}

type mockSubscriptionRepository struct {
	subs map[string]domain.Subscription // keyed by user ID

	upsertErr   error
	upsertCalls int
	lastUpsert  domain.Subscription
}

func newMockSubscriptionRepository() *mockSubscriptionRepository {
	return &mockSubscriptionRepository{subs: make(map[string]domain.Subscription)}
}

func (m *mockSubscriptionRepository) Upsert(_ context.Context, sub domain.Subscription) error {
	m.upsertCalls++
	m.lastUpsert = sub
	if m.upsertErr != nil {
		return m.upsertErr
	}
	m.subs[sub.UserID] = sub
	return nil
}

func (m *mockSubscriptionRepository) GetByUser(_ context.Context, userID string) (*domain.Subscription, error) {
	if sub, ok := m.subs[userID]; ok {
		cp := sub
		return &cp, nil
	}
	return nil, repoNotFound()
}

type mockQuotaRepository struct {
	totals      map[string]int
	upsertErr   error
	upsertCalls int
}

func newMockQuotaRepository() *mockQuotaRepository {
	return &mockQuotaRepository{totals: make(map[string]int)}
}

func (m *mockQuotaRepository) UpsertTotal(_ context.Context, userID string, total int) error {
	m.upsertCalls++
	if m.upsertErr != nil {
		return m.upsertErr
	}
	m.totals[userID] = total
	return nil
}

func (m *mockQuotaRepository) GetByUser(_ context.Context, userID string) (*domain.Quota, error) {
	total, ok := m.totals[userID]
	if !ok {
		return nil, repoNotFound()
	}
	return &domain.Quota{UserID: userID, Total: total}, nil
}

type mockGateway struct {
	session    *port.CheckoutSession
	sessionErr error

	event     *port.WebhookEvent
	verifyErr error

	details    *port.SubscriptionDetails
	detailsErr error

	checkoutCalls int
	verifyCalls   int
	detailsCalls  int

	lastPriceID    string
	lastMeta       port.CheckoutMetadata
	lastSuccessURL string
	lastCancelURL  string
	lastSubID      string
}

func (m *mockGateway) CreateCheckoutSession(_ context.Context, priceID string, meta port.CheckoutMetadata, successURL, cancelURL string) (*port.CheckoutSession, error) {
	m.checkoutCalls++
	m.lastPriceID = priceID
	m.lastMeta = meta
	m.lastSuccessURL = successURL
	m.lastCancelURL = cancelURL
	if m.sessionErr != nil {
		return nil, m.sessionErr
	}
	return m.session, nil
}

func (m *mockGateway) VerifyWebhook(payload []byte, signatureHeader string) (*port.WebhookEvent, error) {
	m.verifyCalls++
	if m.verifyErr != nil {
		return nil, m.verifyErr
	}
	return m.event, nil
}

func (m *mockGateway) GetSubscription(_ context.Context, subscriptionID string) (*port.SubscriptionDetails, error) {
	m.detailsCalls++
	m.lastSubID = subscriptionID
	if m.detailsErr != nil {
		return nil, m.detailsErr
	}
	return m.details, nil
}

type staticPrices map[string]string

func (p staticPrices) PriceID(plan, frequency string) (string, bool) {
	id, ok := p[plan+"_"+frequency]
	return id, ok
}

func repoNotFound() error {
	return repository.ErrNotFound
}
