package usecase

import (
	"context"
	"strings"

	"companygrow/internal/domain"
	"companygrow/internal/domain/period"
	"companygrow/internal/domain/user"

	"github.com/google/uuid"
)

var (
	ErrInvalidRating  = domain.NewError(domain.ErrValidation, "rating must be between 1 and 5")
	ErrMetricNotFound = domain.NewError(domain.ErrNotFound, "no performance metric for period")
	ErrSelfReview     = domain.NewError(domain.ErrForbidden, "reviewers cannot rate their own ledger")
)

type LedgerUsecase interface {
	Report(ctx context.Context, caller Principal, userID uuid.UUID, periodLabel string) ([]user.PeriodMetric, error)
	Review(ctx context.Context, caller Principal, userID uuid.UUID, periodLabel string, rating int, feedback string) (user.PeriodMetric, error)
}

type Ledger struct {
	users user.Repository
}

func NewLedgerUsecase(users user.Repository) *Ledger {
	return &Ledger{users: users}
}

// Report returns the ledger of userID, optionally narrowed to one period. Callers
// may read their own ledger; reviewers may read anyone's.
func (uc *Ledger) Report(ctx context.Context, caller Principal, userID uuid.UUID, periodLabel string) ([]user.PeriodMetric, error) {
	if caller.UserID != userID && !caller.CanReview() {
		return nil, ErrForbidden
	}
	periodLabel = strings.TrimSpace(periodLabel)
	if periodLabel != "" && !period.Valid(periodLabel) {
		return nil, period.ErrInvalidLabel
	}

	u, err := uc.users.GetUserByID(ctx, userID)
	if err != nil {
		return nil, storeError(err)
	}

	out := make([]user.PeriodMetric, 0, len(u.PerformanceMetrics))
	for _, m := range u.PerformanceMetrics {
		if periodLabel != "" && m.Period != periodLabel {
			continue
		}
		out = append(out, m)
	}
	return out, nil
}

// Review records a rating and feedback on an existing period metric.
func (uc *Ledger) Review(ctx context.Context, caller Principal, userID uuid.UUID, periodLabel string, rating int, feedback string) (user.PeriodMetric, error) {
	if !caller.CanReview() {
		return user.PeriodMetric{}, ErrForbidden
	}
	if caller.UserID == userID {
		return user.PeriodMetric{}, ErrSelfReview
	}
	if !period.Valid(periodLabel) {
		return user.PeriodMetric{}, period.ErrInvalidLabel
	}
	if rating < 1 || rating > 5 {
		return user.PeriodMetric{}, ErrInvalidRating
	}

	var out user.PeriodMetric
	err := retryStale(ctx, func() error {
		u, err := uc.users.GetUserByID(ctx, userID)
		if err != nil {
			return err
		}
		m := u.Metric(periodLabel)
		if m == nil {
			return ErrMetricNotFound
		}
		r := rating
		m.Rating = &r
		m.Feedback = strings.TrimSpace(feedback)
		out = *m
		return uc.users.SaveUser(ctx, &u)
	})
	if err != nil {
		return user.PeriodMetric{}, storeError(err)
	}
	return out, nil
}
