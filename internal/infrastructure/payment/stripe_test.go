package payment

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"companygrow/internal/domain"
	"companygrow/internal/domain/bonus"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stripe/stripe-go/v79"
)

func newTestGateway(t *testing.T, h http.HandlerFunc) *StripeGateway {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)

	backend := stripe.GetBackendWithConfig(stripe.APIBackend, &stripe.BackendConfig{
		URL:               stripe.String(srv.URL),
		MaxNetworkRetries: stripe.Int64(0),
		LeveledLogger:     &stripe.LeveledLogger{Level: stripe.LevelNull},
	})
	return NewStripeGateway("sk_test_123", &stripe.Backends{API: backend, Connect: backend, Uploads: backend}, nil)
}

func TestStripeGateway_CreateCheckoutSession(t *testing.T) {
	var form map[string][]string
	g := newTestGateway(t, func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "/v1/checkout/sessions", r.URL.Path)
		form = r.PostForm
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"cs_test_1","object":"checkout.session","url":"https://checkout.stripe.com/c/cs_test_1"}`))
	})

	s, err := g.CreateCheckoutSession(context.Background(), bonus.CheckoutRequest{
		LineItem:   bonus.LineItem{Name: "Performance bonus for Dana", UnitAmount: 15000, Quantity: 1, Currency: "usd"},
		Metadata:   map[string]string{"employeeId": "e-1", "badgeCount": "1"},
		SuccessURL: "https://app/success",
		CancelURL:  "https://app/cancel",
	})
	require.NoError(t, err)
	assert.Equal(t, "cs_test_1", s.ID)
	assert.Equal(t, "https://checkout.stripe.com/c/cs_test_1", s.URL)

	assert.Equal(t, []string{"payment"}, form["mode"])
	assert.Equal(t, []string{"15000"}, form["line_items[0][price_data][unit_amount]"])
	assert.Equal(t, []string{"usd"}, form["line_items[0][price_data][currency]"])
	assert.Equal(t, []string{"e-1"}, form["metadata[employeeId]"])
}

func TestStripeGateway_RetrieveNotFound(t *testing.T) {
	g := newTestGateway(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"error":{"type":"invalid_request_error","message":"No such checkout.session"}}`))
	})

	_, err := g.RetrieveSession(context.Background(), "cs_missing")
	assert.ErrorIs(t, err, bonus.ErrSessionNotFound)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestStripeGateway_ServerError(t *testing.T) {
	g := newTestGateway(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":{"type":"api_error","message":"boom"}}`))
	})

	_, err := g.RetrieveSession(context.Background(), "cs_1")
	assert.ErrorIs(t, err, domain.ErrUpstreamUnavailable)
}

func TestUnconfigured(t *testing.T) {
	_, err := Unconfigured{}.CreateCheckoutSession(context.Background(), bonus.CheckoutRequest{})
	assert.ErrorIs(t, err, domain.ErrUpstreamUnavailable)
}
