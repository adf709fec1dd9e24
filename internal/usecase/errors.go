package usecase

import (
	"context"
	"errors"
	"fmt"

	"companygrow/internal/domain"
)

var (
	ErrForbidden         = domain.NewError(domain.ErrForbidden, "not allowed for this principal")
	ErrRequestInProgress = domain.NewError(domain.ErrConflict, "request with this idempotency key is in progress")
)

const maxWriteAttempts = 3

// retryStale runs fn until it stops failing with domain.ErrStaleWrite, at most
// maxWriteAttempts times. fn must reload whatever it mutates.
func retryStale(ctx context.Context, fn func() error) error {
	var err error
	for attempt := 0; attempt < maxWriteAttempts; attempt++ {
		err = fn()
		if !errors.Is(err, domain.ErrStaleWrite) {
			return err
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
	}
	return err
}

var categories = []error{
	domain.ErrNotFound,
	domain.ErrConflict,
	domain.ErrValidation,
	domain.ErrForbidden,
	domain.ErrStoreUnavailable,
	domain.ErrUpstreamUnavailable,
	domain.ErrPartialBatchFailure,
}

// storeError classifies uncategorized repository failures as store outages.
func storeError(err error) error {
	if err == nil {
		return nil
	}
	for _, c := range categories {
		if errors.Is(err, c) {
			return err
		}
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	return fmt.Errorf("%w: %w", domain.ErrStoreUnavailable, err)
}
