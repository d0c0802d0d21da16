package handlers

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/enuda-labs/summit-BE/internal/core/domain"
	"github.com/enuda-labs/summit-BE/internal/transport/http/middleware"
)

// ErrorResponse represents a generic error payload with the request
// correlation identifier for debugging.
type ErrorResponse struct {
	Error     string `json:"error"`
	RequestID string `json:"request_id,omitempty"`
}

// NewErrorResponse creates an error response carrying the request ID.
func NewErrorResponse(c *gin.Context, errorMsg string) ErrorResponse {
	return ErrorResponse{
		Error:     errorMsg,
		RequestID: middleware.GetRequestID(c),
	}
}

// MessageResponse represents a simple message payload.
type MessageResponse struct {
	Message string `json:"message"`
}

// RegistrationRequest defines the payload for the register endpoint.
type RegistrationRequest struct {
	Email    string `json:"email" binding:"required"`
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
	FullName string `json:"full_name"`
}

// ResendOTPRequest defines the payload for the resend endpoint.
type ResendOTPRequest struct {
	Email string `json:"email" binding:"required"`
}

// LoginRequest defines the payload for the login endpoint.
type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// LoginResponse carries an issued access token.
type LoginResponse struct {
	User        UserView  `json:"user"`
	AccessToken string    `json:"access_token"`
	TokenType   string    `json:"token_type"`
	ExpiresAt   time.Time `json:"expires_at"`
}

// UpdateUserRequest defines the payload for user updates. Omitted fields
// are left unchanged.
type UpdateUserRequest struct {
	Email    *string `json:"email"`
	Username *string `json:"username"`
	FullName *string `json:"full_name"`
}

// UserView describes the API representation of a user.
type UserView struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Username  string    `json:"username"`
	FullName  string    `json:"full_name,omitempty"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
}

func newUserView(user domain.User) UserView {
	return UserView{
		ID:        user.ID,
		Email:     user.Email,
		Username:  user.Username,
		FullName:  user.FullName,
		IsActive:  user.IsActive,
		CreatedAt: user.CreatedAt,
	}
}

// CheckoutResponse carries the hosted checkout session handle.
type CheckoutResponse struct {
	SessionID   string `json:"session_id"`
	CheckoutURL string `json:"checkout_url"`
}

// SubscriptionView describes the API representation of a subscription.
type SubscriptionView struct {
	ID                   string     `json:"id"`
	UserID               string     `json:"user_id"`
	Plan                 string     `json:"plan"`
	Frequency            string     `json:"frequency"`
	Price                float64    `json:"price"`
	IsActive             bool       `json:"is_active"`
	StartDate            time.Time  `json:"start_date"`
	EndDate              *time.Time `json:"end_date,omitempty"`
	StripeSubscriptionID *string    `json:"stripe_subscription_id,omitempty"`
	UpdatedAt            time.Time  `json:"updated_at"`
}

func newSubscriptionView(sub domain.Subscription) SubscriptionView {
	return SubscriptionView{
		ID:                   sub.ID,
		UserID:               sub.UserID,
		Plan:                 string(sub.Plan),
		Frequency:            string(sub.Frequency),
		Price:                sub.Price,
		IsActive:             sub.IsActive,
		StartDate:            sub.StartDate,
		EndDate:              sub.EndDate,
		StripeSubscriptionID: sub.StripeSubscriptionID,
		UpdatedAt:            sub.UpdatedAt,
	}
}
