package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	uuid "github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/enuda-labs/summit-BE/internal/core/domain"
	"github.com/enuda-labs/summit-BE/internal/core/port"
	"github.com/enuda-labs/summit-BE/internal/infra/logger"
	"github.com/enuda-labs/summit-BE/internal/infra/security"
	"github.com/enuda-labs/summit-BE/internal/repository"
)

const (
	defaultOTPLength = 6
	defaultOTPTTL    = 20 * time.Minute

	lockScopeVerify = "verify"
	lockTTLVerify   = 10 * time.Second
)

var (
	// ErrUserNotFound indicates no account exists for the given identifier.
	ErrUserNotFound = errors.New("user not found")
	// ErrNoOTPIssued indicates the user has no pending verification code.
	ErrNoOTPIssued = errors.New("no verification code issued")
	// ErrOTPExpired indicates the latest code exists but its validity window has passed.
	ErrOTPExpired = errors.New("verification code expired")
	// ErrOTPInvalid indicates the submitted code does not match the latest issued code.
	ErrOTPInvalid = errors.New("verification code invalid")
	// ErrEmailTaken indicates the email is already registered.
	ErrEmailTaken = errors.New("email already registered")
	// ErrUsernameTaken indicates the username is already registered.
	ErrUsernameTaken = errors.New("username already registered")
	// ErrPasswordPolicyViolation indicates the password does not satisfy complexity requirements.
	ErrPasswordPolicyViolation = errors.New("password does not meet complexity requirements")
	// ErrVerificationBusy indicates another verification for the same user is in flight.
	ErrVerificationBusy = errors.New("verification already in progress")
	// ErrAlreadyActive indicates the account is verified and needs no further codes.
	ErrAlreadyActive = errors.New("account already active")
)

// RegistrationService handles account onboarding: user creation, OTP
// issuance and delivery, and OTP verification that activates the account.
type RegistrationService struct {
	users             port.UserRepository
	otps              port.OTPRepository
	sender            port.NotificationSender
	publisher         port.EventPublisher
	locker            port.UserLocker
	passwordValidator *security.PasswordValidator
	log               *zap.Logger

	otpLength int
	otpTTL    time.Duration
	now       func() time.Time
}

// NewRegistrationService constructs a registration service with the
// default OTP length and validity window.
func NewRegistrationService(
	users port.UserRepository,
	otps port.OTPRepository,
	sender port.NotificationSender,
	publisher port.EventPublisher,
	locker port.UserLocker,
	validator *security.PasswordValidator,
	log *zap.Logger,
) *RegistrationService {
	if validator == nil {
		validator = security.DefaultPasswordValidator()
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &RegistrationService{
		users:             users,
		otps:              otps,
		sender:            sender,
		publisher:         publisher,
		locker:            locker,
		passwordValidator: validator,
		log:               log,
		otpLength:         defaultOTPLength,
		otpTTL:            defaultOTPTTL,
		now:               func() time.Time { return time.Now().UTC() },
	}
}

// WithOTPPolicy overrides code length and validity window.
func (s *RegistrationService) WithOTPPolicy(length int, ttl time.Duration) {
	if length > 0 {
		s.otpLength = length
	}
	if ttl > 0 {
		s.otpTTL = ttl
	}
}

// WithClock overrides the time source. Intended for tests.
func (s *RegistrationService) WithClock(clock func() time.Time) {
	if clock != nil {
		s.now = clock
	}
}

// RegisterInput carries the fields of a registration request.
type RegisterInput struct {
	Email    string
	Username string
	Password string
	FullName string
}

// Register creates an inactive user, issues an OTP, and attempts email
// delivery. Delivery failure does not fail the registration: the user
// row and the code survive and the caller can use resend.
func (s *RegistrationService) Register(ctx context.Context, input RegisterInput) (domain.User, error) {
	email := strings.ToLower(strings.TrimSpace(input.Email))
	username := strings.TrimSpace(input.Username)

	if email == "" {
		return domain.User{}, fmt.Errorf("email is required")
	}
	if username == "" {
		return domain.User{}, fmt.Errorf("username is required")
	}
	if strings.TrimSpace(input.Password) == "" {
		return domain.User{}, fmt.Errorf("password is required")
	}

	if err := s.passwordValidator.Validate(input.Password); err != nil {
		return domain.User{}, fmt.Errorf("%w: %v", ErrPasswordPolicyViolation, err)
	}

	passwordHash, err := security.HashPassword(input.Password)
	if err != nil {
		return domain.User{}, fmt.Errorf("hash password: %w", err)
	}

	now := s.now()
	user := domain.User{
		ID:           uuid.NewString(),
		Email:        email,
		Username:     username,
		PasswordHash: passwordHash,
		PasswordAlgo: security.PasswordAlgo,
		FullName:     strings.TrimSpace(input.FullName),
		IsActive:     false,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.users.Create(ctx, user); err != nil {
		switch {
		case errors.Is(err, repository.ErrDuplicateEmail):
			return domain.User{}, ErrEmailTaken
		case errors.Is(err, repository.ErrDuplicateUsername):
			return domain.User{}, ErrUsernameTaken
		}
		return domain.User{}, fmt.Errorf("create user: %w", err)
	}

	if err := s.issueOTP(ctx, user); err != nil {
		return domain.User{}, err
	}

	if s.publisher != nil {
		event := domain.UserRegisteredEvent{
			EventID:      uuid.NewString(),
			UserID:       user.ID,
			Username:     user.Username,
			Email:        user.Email,
			RegisteredAt: now,
		}
		if err := s.publisher.PublishUserRegistered(ctx, event); err != nil {
			s.log.Warn("publish user registered event failed",
				zap.String("user_id", user.ID),
				zap.Error(err))
		}
	}

	return user, nil
}

// ResendOTP replaces any pending code with a fresh one and attempts
// delivery again.
func (s *RegistrationService) ResendOTP(ctx context.Context, email string) error {
	user, err := s.users.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrUserNotFound
		}
		return fmt.Errorf("lookup user: %w", err)
	}

	if user.IsActive {
		return ErrAlreadyActive
	}

	if err := s.otps.DeleteByUser(ctx, user.ID); err != nil {
		return fmt.Errorf("purge previous codes: %w", err)
	}

	return s.issueOTP(ctx, *user)
}

// issueOTP generates a code, stores it, and hands it to the sender. A
// delivery error is logged and swallowed.
func (s *RegistrationService) issueOTP(ctx context.Context, user domain.User) error {
	code, err := security.GenerateNumericCode(s.otpLength)
	if err != nil {
		return fmt.Errorf("generate code: %w", err)
	}

	otp := domain.OTPCode{
		ID:        uuid.NewString(),
		UserID:    user.ID,
		Code:      code,
		CreatedAt: s.now(),
	}
	if err := s.otps.Create(ctx, otp); err != nil {
		return fmt.Errorf("store code: %w", err)
	}

	recipientName := user.FullName
	if recipientName == "" {
		recipientName = user.Username
	}

	// Delivery is best effort. The account and the stored code remain
	// valid, and the resend endpoint covers lost mail.
	if err := s.sender.Send(ctx, code, recipientName, user.Email); err != nil {
		s.log.Warn("otp delivery failed",
			zap.String("user_id", user.ID),
			zap.String("email", logger.MaskEmail(user.Email)),
			zap.Error(err))
	}

	return nil
}

// VerifyOTP checks the submitted code against the latest issued code for
// the account identified by email. On success the code is consumed and
// the account is activated. Only the most recent code is verifiable, a
// code is valid through exactly created_at+ttl, and concurrent attempts
// for the same user are serialized so at most one succeeds.
func (s *RegistrationService) VerifyOTP(ctx context.Context, email, submitted string) (domain.User, error) {
	submitted = strings.TrimSpace(submitted)
	if submitted == "" {
		return domain.User{}, ErrOTPInvalid
	}

	user, err := s.users.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return domain.User{}, ErrUserNotFound
		}
		return domain.User{}, fmt.Errorf("lookup user: %w", err)
	}

	release, ok, err := s.locker.Acquire(ctx, lockScopeVerify, user.ID, lockTTLVerify)
	if err != nil {
		return domain.User{}, fmt.Errorf("acquire verify lock: %w", err)
	}
	if !ok {
		return domain.User{}, ErrVerificationBusy
	}
	defer release()

	otp, err := s.otps.GetLatestByUser(ctx, user.ID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return domain.User{}, ErrNoOTPIssued
		}
		return domain.User{}, fmt.Errorf("lookup code: %w", err)
	}

	if otp.ExpiredAt(s.now(), s.otpTTL) {
		return domain.User{}, ErrOTPExpired
	}
	if otp.Code != submitted {
		return domain.User{}, ErrOTPInvalid
	}

	// Consumption before activation: a row that vanished between the
	// read and the delete means another attempt already won.
	if err := s.otps.Consume(ctx, otp.ID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return domain.User{}, ErrNoOTPIssued
		}
		return domain.User{}, fmt.Errorf("consume code: %w", err)
	}

	if err := s.users.Activate(ctx, user.ID); err != nil {
		return domain.User{}, fmt.Errorf("activate user: %w", err)
	}
	user.IsActive = true

	if s.publisher != nil {
		event := domain.UserActivatedEvent{
			EventID:     uuid.NewString(),
			UserID:      user.ID,
			Email:       user.Email,
			ActivatedAt: s.now(),
		}
		if err := s.publisher.PublishUserActivated(ctx, event); err != nil {
			s.log.Warn("publish user activated event failed",
				zap.String("user_id", user.ID),
				zap.Error(err))
		}
	}

	return *user, nil
}
