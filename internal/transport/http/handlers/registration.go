package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/enuda-labs/summit-BE/internal/usecase"
)

// RegistrationHandler exposes endpoints for user registration and OTP verification.
type RegistrationHandler struct {
	registration *usecase.RegistrationService
}

func NewRegistrationHandler(registration *usecase.RegistrationService) *RegistrationHandler {
	return &RegistrationHandler{registration: registration}
}

// RegisterRoutes binds registration endpoints.
func (h *RegistrationHandler) RegisterRoutes(r *gin.RouterGroup) {
	r.POST("/register", h.Register)
	r.POST("/verify-otp/:otp/:email", h.VerifyOTP)
	r.POST("/resend-otp", h.ResendOTP)
}

// Register creates an inactive account and emails a verification code.
func (h *RegistrationHandler) Register(c *gin.Context) {
	var req RegistrationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "invalid registration payload"))
		return
	}

	user, err := h.registration.Register(c.Request.Context(), usecase.RegisterInput{
		Email:    req.Email,
		Username: req.Username,
		Password: req.Password,
		FullName: req.FullName,
	})
	if err != nil {
		RespondWithMappedError(c, err, []ErrorCase{
			{Err: usecase.ErrEmailTaken, Status: http.StatusConflict, Message: "email already registered"},
			{Err: usecase.ErrUsernameTaken, Status: http.StatusConflict, Message: "username already registered"},
			{Err: usecase.ErrPasswordPolicyViolation, Status: http.StatusBadRequest, Message: "password does not meet requirements"},
		}, http.StatusInternalServerError, "failed to register user")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"user":    newUserView(user),
		"message": "verification code sent",
	})
}

// VerifyOTP validates the submitted code and activates the account.
func (h *RegistrationHandler) VerifyOTP(c *gin.Context) {
	otp := strings.TrimSpace(c.Param("otp"))
	email := strings.TrimSpace(c.Param("email"))

	if otp == "" || email == "" {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "otp and email are required"))
		return
	}

	user, err := h.registration.VerifyOTP(c.Request.Context(), email, otp)
	if err != nil {
		RespondWithMappedError(c, err, []ErrorCase{
			{Err: usecase.ErrUserNotFound, Status: http.StatusNotFound, Message: "user not found"},
			{Err: usecase.ErrNoOTPIssued, Status: http.StatusBadRequest, Message: "no verification code issued"},
			{Err: usecase.ErrOTPExpired, Status: http.StatusBadRequest, Message: "verification code expired"},
			{Err: usecase.ErrOTPInvalid, Status: http.StatusBadRequest, Message: "verification code invalid"},
			{Err: usecase.ErrVerificationBusy, Status: http.StatusConflict, Message: "verification already in progress"},
		}, http.StatusInternalServerError, "failed to verify code")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"user":    newUserView(user),
		"message": "account verified",
	})
}

// ResendOTP issues a fresh code, invalidating any previous one.
func (h *RegistrationHandler) ResendOTP(c *gin.Context) {
	var req ResendOTPRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "invalid resend payload"))
		return
	}

	if err := h.registration.ResendOTP(c.Request.Context(), req.Email); err != nil {
		RespondWithMappedError(c, err, []ErrorCase{
			{Err: usecase.ErrUserNotFound, Status: http.StatusNotFound, Message: "user not found"},
			{Err: usecase.ErrAlreadyActive, Status: http.StatusConflict, Message: "account already verified"},
		}, http.StatusInternalServerError, "failed to resend code")
		return
	}

	c.JSON(http.StatusOK, MessageResponse{Message: "verification code sent"})
}
