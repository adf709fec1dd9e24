package bonus

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"companygrow/internal/domain"

	"github.com/google/uuid"
)

const Currency = "usd"

var (
	ErrInvalidAmount   = domain.NewError(domain.ErrValidation, "total amount must be greater than zero")
	ErrMissingEmployee = domain.NewError(domain.ErrValidation, "employee id is required")
	ErrMissingManager  = domain.NewError(domain.ErrValidation, "manager id is required")
	ErrNoBadges        = domain.NewError(domain.ErrValidation, "at least one badge id is required")
	ErrSessionNotFound = domain.NewError(domain.ErrNotFound, "checkout session not found")
)

// Metadata keys round-tripped through the payment provider for later reconciliation.
const (
	MetaEmployeeID  = "employeeId"
	MetaManagerID   = "managerId"
	MetaBadgeIDs    = "badgeIds"
	MetaBadgeCount  = "badgeCount"
	MetaTotalAmount = "totalAmount"
)

type LineItem struct {
	Name        string
	Description string
	// UnitAmount is in minor currency units.
	UnitAmount int64
	Quantity   int64
	Currency   string
}

type CheckoutRequest struct {
	LineItem   LineItem
	Metadata   map[string]string
	SuccessURL string
	CancelURL  string
}

type CheckoutSession struct {
	ID  string `json:"session_id"`
	URL string `json:"url"`
}

type SessionDetails struct {
	ID            string            `json:"id"`
	Status        string            `json:"status"`
	PaymentStatus string            `json:"payment_status"`
	AmountTotal   int64             `json:"amount_total"`
	Currency      string            `json:"currency"`
	CustomerEmail string            `json:"customer_email,omitempty"`
	Metadata      map[string]string `json:"metadata"`
}

// Gateway is the hosted checkout provider.
type Gateway interface {
	CreateCheckoutSession(ctx context.Context, req CheckoutRequest) (CheckoutSession, error)
	RetrieveSession(ctx context.Context, sessionID string) (SessionDetails, error)
}

// SessionInput carries what a manager submits to pay out a bonus.
type SessionInput struct {
	EmployeeID   uuid.UUID
	EmployeeName string
	ManagerID    uuid.UUID
	// Badges holds human readable badge titles for the line item description.
	Badges      []string
	BadgeIDs    []string
	TotalAmount float64
}

func (in SessionInput) Validate() error {
	switch {
	case in.EmployeeID == uuid.Nil:
		return ErrMissingEmployee
	case in.ManagerID == uuid.Nil:
		return ErrMissingManager
	case len(in.BadgeIDs) == 0:
		return ErrNoBadges
	case math.IsNaN(in.TotalAmount) || math.IsInf(in.TotalAmount, 0) || in.TotalAmount <= 0:
		return ErrInvalidAmount
	}
	return nil
}

// MinorUnits converts a major-unit amount to integer cents.
func MinorUnits(amount float64) int64 {
	return int64(math.Round(amount * 100))
}

// BuildCheckoutRequest assembles the single line item checkout request for in.
func BuildCheckoutRequest(in SessionInput, successURL, cancelURL string) (CheckoutRequest, error) {
	if err := in.Validate(); err != nil {
		return CheckoutRequest{}, err
	}

	ids, err := json.Marshal(in.BadgeIDs)
	if err != nil {
		return CheckoutRequest{}, fmt.Errorf("%w: encode badge ids: %v", domain.ErrValidation, err)
	}

	name := strings.TrimSpace(in.EmployeeName)
	if name == "" {
		name = in.EmployeeID.String()
	}

	desc := fmt.Sprintf("%d badge(s)", len(in.BadgeIDs))
	if len(in.Badges) > 0 {
		desc = "Badges: " + strings.Join(in.Badges, ", ")
	}

	return CheckoutRequest{
		LineItem: LineItem{
			Name:        "Performance bonus for " + name,
			Description: desc,
			UnitAmount:  MinorUnits(in.TotalAmount),
			Quantity:    1,
			Currency:    Currency,
		},
		Metadata: map[string]string{
			MetaEmployeeID:  in.EmployeeID.String(),
			MetaManagerID:   in.ManagerID.String(),
			MetaBadgeIDs:    string(ids),
			MetaBadgeCount:  strconv.Itoa(len(in.BadgeIDs)),
			MetaTotalAmount: strconv.FormatFloat(in.TotalAmount, 'f', -1, 64),
		},
		SuccessURL: successURL,
		CancelURL:  cancelURL,
	}, nil
}
