package payment

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"companygrow/internal/domain"
	"companygrow/internal/domain/bonus"
	"companygrow/internal/pkg/logger"

	"github.com/stripe/stripe-go/v79"
	"github.com/stripe/stripe-go/v79/client"
)

var ErrNotConfigured = domain.NewError(domain.ErrUpstreamUnavailable, "payment provider is not configured")

// StripeGateway opens hosted checkout sessions on Stripe.
type StripeGateway struct {
	api *client.API
	log *logger.Logger
}

// NewStripeGateway builds a gateway for secretKey. backends may be nil to use
// Stripe's default endpoints.
func NewStripeGateway(secretKey string, backends *stripe.Backends, log *logger.Logger) *StripeGateway {
	if log == nil {
		log = logger.Nop()
	}
	api := &client.API{}
	api.Init(secretKey, backends)
	return &StripeGateway{api: api, log: log.With("component", "stripe")}
}

func (g *StripeGateway) CreateCheckoutSession(ctx context.Context, req bonus.CheckoutRequest) (bonus.CheckoutSession, error) {
	item := req.LineItem
	currency := strings.ToLower(strings.TrimSpace(item.Currency))
	if currency == "" {
		currency = bonus.Currency
	}
	qty := item.Quantity
	if qty <= 0 {
		qty = 1
	}

	productData := &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
		Name: stripe.String(item.Name),
	}
	if item.Description != "" {
		productData.Description = stripe.String(item.Description)
	}

	params := &stripe.CheckoutSessionParams{
		Mode:               stripe.String(string(stripe.CheckoutSessionModePayment)),
		SuccessURL:         stripe.String(req.SuccessURL),
		CancelURL:          stripe.String(req.CancelURL),
		PaymentMethodTypes: stripe.StringSlice([]string{"card"}),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
					Currency:    stripe.String(currency),
					ProductData: productData,
					UnitAmount:  stripe.Int64(item.UnitAmount),
				},
				Quantity: stripe.Int64(qty),
			},
		},
	}
	params.Context = ctx
	for k, v := range req.Metadata {
		params.AddMetadata(k, v)
	}

	s, err := g.api.CheckoutSessions.New(params)
	if err != nil {
		return bonus.CheckoutSession{}, mapStripeError(err)
	}
	g.log.Debug("checkout session opened", "session", s.ID, "amount", item.UnitAmount)
	return bonus.CheckoutSession{ID: s.ID, URL: s.URL}, nil
}

func (g *StripeGateway) RetrieveSession(ctx context.Context, sessionID string) (bonus.SessionDetails, error) {
	params := &stripe.CheckoutSessionParams{}
	params.Context = ctx

	s, err := g.api.CheckoutSessions.Get(sessionID, params)
	if err != nil {
		return bonus.SessionDetails{}, mapStripeError(err)
	}

	out := bonus.SessionDetails{
		ID:            s.ID,
		Status:        string(s.Status),
		PaymentStatus: string(s.PaymentStatus),
		AmountTotal:   s.AmountTotal,
		Currency:      string(s.Currency),
		Metadata:      s.Metadata,
	}
	if s.CustomerDetails != nil {
		out.CustomerEmail = s.CustomerDetails.Email
	}
	if out.Metadata == nil {
		out.Metadata = map[string]string{}
	}
	return out, nil
}

func mapStripeError(err error) error {
	var se *stripe.Error
	if errors.As(err, &se) {
		if se.HTTPStatusCode == http.StatusNotFound {
			return fmt.Errorf("%w: %s", bonus.ErrSessionNotFound, se.Msg)
		}
		return fmt.Errorf("%w: stripe %s: %s", domain.ErrUpstreamUnavailable, se.Type, se.Msg)
	}
	return fmt.Errorf("%w: %w", domain.ErrUpstreamUnavailable, err)
}

// Unconfigured is used when no Stripe key is set; every call fails as upstream
// unavailable.
type Unconfigured struct{}

func (Unconfigured) CreateCheckoutSession(context.Context, bonus.CheckoutRequest) (bonus.CheckoutSession, error) {
	return bonus.CheckoutSession{}, ErrNotConfigured
}

func (Unconfigured) RetrieveSession(context.Context, string) (bonus.SessionDetails, error) {
	return bonus.SessionDetails{}, ErrNotConfigured
}
