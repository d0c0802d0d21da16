package handlers

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/enuda-labs/summit-BE/internal/repository"
	"github.com/enuda-labs/summit-BE/internal/usecase"
)

const stripeSignatureHeader = "Stripe-Signature"

// SubscriptionHandler exposes checkout, webhook, and subscription lookup
// endpoints.
type SubscriptionHandler struct {
	subscriptions *usecase.SubscriptionService
}

func NewSubscriptionHandler(subscriptions *usecase.SubscriptionService) *SubscriptionHandler {
	return &SubscriptionHandler{subscriptions: subscriptions}
}

// RegisterRoutes binds subscription endpoints.
func (h *SubscriptionHandler) RegisterRoutes(r *gin.RouterGroup) {
	r.POST("/create-subscription/:user_id/:plan/:frequency", h.CreateCheckout)
	r.POST("/stripe/webhook", h.Webhook)
	r.GET("/get-subscription-by-user-id/:user_id", h.GetByUser)
}

// CreateCheckout opens a hosted checkout session for the user and plan.
func (h *SubscriptionHandler) CreateCheckout(c *gin.Context) {
	session, err := h.subscriptions.CreateCheckout(
		c.Request.Context(),
		c.Param("user_id"),
		c.Param("plan"),
		c.Param("frequency"),
	)
	if err != nil {
		RespondWithMappedError(c, err, []ErrorCase{
			{Err: usecase.ErrUnknownPlan, Status: http.StatusBadRequest, Message: "unknown plan or frequency"},
			{Err: usecase.ErrUserNotFound, Status: http.StatusNotFound, Message: "user not found"},
		}, http.StatusBadGateway, "failed to create checkout session")
		return
	}

	c.JSON(http.StatusOK, CheckoutResponse{
		SessionID:   session.ID,
		CheckoutURL: session.URL,
	})
}

// Webhook receives gateway event deliveries. The raw body is passed to
// the service untouched so the signature covers exactly the bytes sent.
// 4xx tells the gateway the delivery can never succeed; 5xx asks for a
// retry.
func (h *SubscriptionHandler) Webhook(c *gin.Context) {
	payload, err := io.ReadAll(c.Request.Body)
	if err != nil {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "failed to read payload"))
		return
	}

	outcome, err := h.subscriptions.HandleWebhook(c.Request.Context(), payload, c.GetHeader(stripeSignatureHeader))
	if err != nil {
		RespondWithMappedError(c, err, []ErrorCase{
			{Err: usecase.ErrMissingSignature, Status: http.StatusBadRequest, Message: "missing signature"},
			{Err: usecase.ErrInvalidSignature, Status: http.StatusBadRequest, Message: "invalid signature"},
			{Err: usecase.ErrMalformedPayload, Status: http.StatusBadRequest, Message: "malformed payload"},
			{Err: usecase.ErrMissingMetadata, Status: http.StatusBadRequest, Message: "session metadata missing"},
			{Err: usecase.ErrReconcileBusy, Status: http.StatusServiceUnavailable, Message: "reconciliation in progress"},
		}, http.StatusInternalServerError, "failed to process webhook")
		return
	}

	switch outcome {
	case usecase.WebhookProcessed:
		c.JSON(http.StatusOK, MessageResponse{Message: "processed"})
	default:
		c.JSON(http.StatusOK, MessageResponse{Message: "ignored"})
	}
}

// GetByUser returns the user's current subscription.
func (h *SubscriptionHandler) GetByUser(c *gin.Context) {
	sub, err := h.subscriptions.GetByUser(c.Request.Context(), c.Param("user_id"))
	if err != nil {
		RespondWithMappedError(c, err, []ErrorCase{
			{Err: repository.ErrNotFound, Status: http.StatusNotFound, Message: "subscription not found"},
		}, http.StatusInternalServerError, "failed to fetch subscription")
		return
	}

	c.JSON(http.StatusOK, newSubscriptionView(*sub))
}
