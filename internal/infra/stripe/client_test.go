package stripe

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/enuda-labs/summit-BE/internal/core/port"
	"github.com/enuda-labs/summit-BE/internal/infra/config"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	return NewClient(config.StripeSettings{
		APIBaseURL:    srv.URL,
		SecretKey:     "sk_test_123",
		WebhookSecret: webhookSecret,
	}, nil)
}

func TestCreateCheckoutSession_SendsSubscriptionForm(t *testing.T) {
	var gotForm map[string]string
	var gotAuth string

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/v1/checkout/sessions" {
			t.Fatalf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		gotAuth = r.Header.Get("Authorization")
		if err := r.ParseForm(); err != nil {
			t.Fatalf("parse form: %v", err)
		}
		gotForm = map[string]string{}
		for key := range r.PostForm {
			gotForm[key] = r.PostForm.Get(key)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id": "cs_test_123", "url": "https://checkout.stripe.com/pay/cs_test_123"}`))
	})

	session, err := client.CreateCheckoutSession(context.Background(), "price_light_m", port.CheckoutMetadata{
		UserID:    "u1",
		Plan:      "light",
		Frequency: "monthly",
	}, "https://summit.guide", "https://summit.guide/cancel")
	if err != nil {
		t.Fatalf("CreateCheckoutSession returned error: %v", err)
	}

	if session.ID != "cs_test_123" || session.URL == "" {
		t.Fatalf("unexpected session %+v", session)
	}
	if gotAuth != "Bearer sk_test_123" {
		t.Fatalf("unexpected authorization header %q", gotAuth)
	}
	if gotForm["mode"] != "subscription" {
		t.Fatalf("expected subscription mode, got %q", gotForm["mode"])
	}
	if gotForm["line_items[0][price]"] != "price_light_m" {
		t.Fatalf("unexpected price %q", gotForm["line_items[0][price]"])
	}
	if gotForm["metadata[user_id]"] != "u1" ||
		gotForm["metadata[subscription_plan]"] != "light" ||
		gotForm["metadata[subscription_frequency]"] != "monthly" {
		t.Fatalf("incomplete metadata in form: %v", gotForm)
	}
}

func TestGetSubscription_MapsCentsAndPeriods(t *testing.T) {
	periodStart := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	periodEnd := periodStart.AddDate(0, 1, 0)

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/subscriptions/sub_123" {
			t.Fatalf("unexpected path %s", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"items": {"data": [{
				"current_period_start": ` + formatUnix(periodStart) + `,
				"current_period_end": ` + formatUnix(periodEnd) + `,
				"price": {"unit_amount": 999}
			}]}
		}`))
	})

	details, err := client.GetSubscription(context.Background(), "sub_123")
	if err != nil {
		t.Fatalf("GetSubscription returned error: %v", err)
	}

	if details.Price != 9.99 {
		t.Fatalf("expected 9.99, got %v", details.Price)
	}
	if !details.PeriodStart.Equal(periodStart) || !details.PeriodEnd.Equal(periodEnd) {
		t.Fatalf("unexpected period %v .. %v", details.PeriodStart, details.PeriodEnd)
	}
}

func TestGetSubscription_SurfacesAPIError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"error": {"message": "No such subscription: sub_missing"}}`))
	})

	_, err := client.GetSubscription(context.Background(), "sub_missing")

	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected APIError, got %v", err)
	}
	if apiErr.Status != http.StatusNotFound {
		t.Fatalf("unexpected status %d", apiErr.Status)
	}
	if apiErr.Message != "No such subscription: sub_missing" {
		t.Fatalf("unexpected message %q", apiErr.Message)
	}
}

func TestGetSubscription_RequiresID(t *testing.T) {
	client := NewClient(config.StripeSettings{APIBaseURL: "http://127.0.0.1:0"}, nil)

	if _, err := client.GetSubscription(context.Background(), "  "); err == nil {
		t.Fatal("expected error for blank subscription id")
	}
}

func formatUnix(at time.Time) string {
	return strconv.FormatInt(at.Unix(), 10)
}
