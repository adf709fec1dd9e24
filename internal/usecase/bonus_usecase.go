package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"companygrow/internal/domain"
	"companygrow/internal/domain/bonus"
	"companygrow/internal/domain/user"
	"companygrow/internal/pkg/logger"

	"github.com/google/uuid"
)

const (
	sessionKeyPrefix    = "bonus:session:"
	approvePayKeyPrefix = "bonus:approve-pay:"

	defaultIdempotencyTTL = 24 * time.Hour
	idempotencyLockTTL    = 30 * time.Second
)

var (
	ErrBadgeKeysRequired = domain.NewError(domain.ErrValidation, "badge keys are required")
	ErrUnknownBadgeKeys  = domain.NewError(domain.ErrValidation, "badge keys do not match any badge of the employee")
)

type BonusUsecase interface {
	ListBadges(ctx context.Context, userID uuid.UUID, onlyUnapproved bool) ([]bonus.KeyedBadge, error)
	ApproveBadges(ctx context.Context, userID uuid.UUID, keys []string) (int, error)
	CreateBonusSession(ctx context.Context, in bonus.SessionInput, idempotencyKey string) (bonus.CheckoutSession, error)
	GetSessionDetails(ctx context.Context, sessionID string) (bonus.SessionDetails, error)
	ApproveAndPay(ctx context.Context, in bonus.SessionInput, idempotencyKey string) (ApproveAndPayResult, error)
}

type ApproveAndPayResult struct {
	Approved int                   `json:"approved"`
	Session  bonus.CheckoutSession `json:"session"`
}

type BonusURLs struct {
	SuccessURL string
	CancelURL  string
}

type Bonus struct {
	users    user.Repository
	gateway  bonus.Gateway
	cache    Cache
	notifier Notifier
	urls     BonusURLs
	ttl      time.Duration
	log      *logger.Logger
}

func NewBonusUsecase(users user.Repository, gateway bonus.Gateway, cache Cache, notifier Notifier, urls BonusURLs, ttl time.Duration, log *logger.Logger) *Bonus {
	if notifier == nil {
		notifier = nopNotifier{}
	}
	if log == nil {
		log = logger.Nop()
	}
	if ttl <= 0 {
		ttl = defaultIdempotencyTTL
	}
	return &Bonus{
		users:    users,
		gateway:  gateway,
		cache:    cache,
		notifier: notifier,
		urls:     urls,
		ttl:      ttl,
		log:      log.With("component", "bonus"),
	}
}

func (uc *Bonus) ListBadges(ctx context.Context, userID uuid.UUID, onlyUnapproved bool) ([]bonus.KeyedBadge, error) {
	u, err := uc.users.GetUserByID(ctx, userID)
	if err != nil {
		return nil, storeError(err)
	}
	return bonus.Badges(u, onlyUnapproved), nil
}

// ApproveBadges flips approved on every badge of the user whose derived key is in
// keys. Keys matching nothing are ignored.
func (uc *Bonus) ApproveBadges(ctx context.Context, userID uuid.UUID, keys []string) (int, error) {
	if keys == nil {
		return 0, ErrBadgeKeysRequired
	}

	var approved int
	err := retryStale(ctx, func() error {
		u, err := uc.users.GetUserByID(ctx, userID)
		if err != nil {
			return err
		}
		if approved = bonus.Approve(&u, keys); approved == 0 {
			return nil
		}
		return uc.users.SaveUser(ctx, &u)
	})
	if err != nil {
		return 0, storeError(err)
	}

	uc.log.Info("badges approved", "user_id", userID, "requested", len(keys), "approved", approved)
	return approved, nil
}

// CreateBonusSession opens a checkout session for the bonus. It does not approve
// anything; callers that need both steps use ApproveAndPay.
func (uc *Bonus) CreateBonusSession(ctx context.Context, in bonus.SessionInput, idempotencyKey string) (bonus.CheckoutSession, error) {
	if err := in.Validate(); err != nil {
		return bonus.CheckoutSession{}, err
	}
	return idempotent(ctx, uc, sessionKeyPrefix, idempotencyKey, func() (bonus.CheckoutSession, error) {
		return uc.createSession(ctx, in)
	})
}

func (uc *Bonus) GetSessionDetails(ctx context.Context, sessionID string) (bonus.SessionDetails, error) {
	sessionID = strings.TrimSpace(sessionID)
	if sessionID == "" {
		return bonus.SessionDetails{}, bonus.ErrSessionNotFound
	}
	d, err := uc.gateway.RetrieveSession(ctx, sessionID)
	if err != nil {
		return bonus.SessionDetails{}, upstreamError(err)
	}
	return d, nil
}

// ApproveAndPay approves in.BadgeIDs on the employee ledger and only then opens the
// checkout session. Every requested key must resolve to a badge of the employee;
// otherwise nothing is approved.
func (uc *Bonus) ApproveAndPay(ctx context.Context, in bonus.SessionInput, idempotencyKey string) (ApproveAndPayResult, error) {
	if err := in.Validate(); err != nil {
		return ApproveAndPayResult{}, err
	}
	return idempotent(ctx, uc, approvePayKeyPrefix, idempotencyKey, func() (ApproveAndPayResult, error) {
		u, err := uc.users.GetUserByID(ctx, in.EmployeeID)
		if err != nil {
			return ApproveAndPayResult{}, storeError(err)
		}
		if missing := unknownKeys(u, in.BadgeIDs); len(missing) > 0 {
			return ApproveAndPayResult{}, fmt.Errorf("%w: %s", ErrUnknownBadgeKeys, strings.Join(missing, ", "))
		}
		if strings.TrimSpace(in.EmployeeName) == "" {
			in.EmployeeName = u.Name
		}

		approved, err := uc.ApproveBadges(ctx, in.EmployeeID, in.BadgeIDs)
		if err != nil {
			return ApproveAndPayResult{}, err
		}

		s, err := uc.createSession(ctx, in)
		if err != nil {
			return ApproveAndPayResult{}, err
		}
		return ApproveAndPayResult{Approved: approved, Session: s}, nil
	})
}

func (uc *Bonus) createSession(ctx context.Context, in bonus.SessionInput) (bonus.CheckoutSession, error) {
	req, err := bonus.BuildCheckoutRequest(in, uc.urls.SuccessURL, uc.urls.CancelURL)
	if err != nil {
		return bonus.CheckoutSession{}, err
	}
	s, err := uc.gateway.CreateCheckoutSession(ctx, req)
	if err != nil {
		uc.log.Error("checkout session failed", "employee_id", in.EmployeeID, "error", err)
		return bonus.CheckoutSession{}, upstreamError(err)
	}

	uc.log.Info("bonus session created", "employee_id", in.EmployeeID, "manager_id", in.ManagerID,
		"badges", len(in.BadgeIDs), "unit_amount", req.LineItem.UnitAmount, "session", s.ID)
	uc.notifier.Notify(in.ManagerID, EventBonusSessionCreated, s)
	return s, nil
}

func unknownKeys(u user.User, keys []string) []string {
	known := map[string]bool{}
	for _, kb := range bonus.Badges(u, false) {
		known[kb.Key] = true
	}
	var missing []string
	for _, k := range keys {
		if !known[k] {
			missing = append(missing, k)
		}
	}
	return missing
}

// idempotent replays the cached result stored under prefix+key, or runs fn while
// holding a SETNX lock and caches its successful result. An empty key disables it.
func idempotent[T any](ctx context.Context, uc *Bonus, prefix, key string, fn func() (T, error)) (T, error) {
	key = strings.TrimSpace(key)
	if key == "" || uc.cache == nil {
		return fn()
	}

	var zero T
	resultKey := prefix + key
	lockKey := resultKey + ":lock"

	var cached T
	hit, err := uc.cache.GetJSON(ctx, resultKey, &cached)
	if err != nil {
		uc.log.Warn("idempotency lookup failed", "key", resultKey, "error", err)
	}
	if hit {
		uc.log.Debug("idempotent replay", "key", resultKey)
		return cached, nil
	}

	locked, err := uc.cache.SetIfNotExists(ctx, lockKey, "1", idempotencyLockTTL)
	if err != nil {
		return zero, fmt.Errorf("%w: idempotency lock: %w", domain.ErrUpstreamUnavailable, err)
	}
	if !locked {
		return zero, ErrRequestInProgress
	}
	defer func() {
		if err := uc.cache.Delete(context.WithoutCancel(ctx), lockKey); err != nil {
			uc.log.Warn("idempotency unlock failed", "key", lockKey, "error", err)
		}
	}()

	out, err := fn()
	if err != nil {
		return zero, err
	}
	if err := uc.cache.SetJSON(ctx, resultKey, out, uc.ttl); err != nil {
		uc.log.Warn("idempotency store failed", "key", resultKey, "error", err)
	}
	return out, nil
}

func upstreamError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, domain.ErrNotFound) || errors.Is(err, domain.ErrValidation) || errors.Is(err, domain.ErrUpstreamUnavailable) {
		return err
	}
	return fmt.Errorf("%w: %w", domain.ErrUpstreamUnavailable, err)
}
