package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"companygrow/internal/domain"
	"companygrow/internal/domain/bonus"
	"companygrow/internal/domain/user"
	"companygrow/internal/pkg/logger"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type bonusFixture struct {
	*fixture
	gateway *fakeGateway
	cache   *mapCache
	bonus   *Bonus
}

func newBonusFixture(t *testing.T) *bonusFixture {
	t.Helper()
	f := newFixture(t)
	gw := &fakeGateway{sessions: map[string]bonus.SessionDetails{}}
	cache := newMapCache()
	return &bonusFixture{
		fixture: f,
		gateway: gw,
		cache:   cache,
		bonus: NewBonusUsecase(f.users, gw, cache, f.notifier,
			BonusURLs{SuccessURL: "https://app/success", CancelURL: "https://app/cancel"}, time.Hour, logger.Nop()),
	}
}

// seedBadges gives the user three badges in the current period.
func (f *bonusFixture) seedBadges(t *testing.T, u user.User) []bonus.KeyedBadge {
	t.Helper()
	ctx := context.Background()
	for i, reward := range []user.BadgeTier{user.BadgeGreen, user.BadgeBlue, user.BadgeRed} {
		f.perf.now = func() time.Time { return fixedNow.Add(time.Duration(i) * time.Second) }
		c := f.addCourse(t, 1, reward)
		_, err := f.perf.Enroll(ctx, u.ID, c.ID)
		require.NoError(t, err)
		_, err = f.perf.CompleteModule(ctx, u.ID, c.ID, c.Content[0].ID)
		require.NoError(t, err)
	}
	badges, err := f.bonus.ListBadges(ctx, u.ID, true)
	require.NoError(t, err)
	require.Len(t, badges, 3)
	return badges
}

func TestBonus_ApproveOneOfThreeThenPay(t *testing.T) {
	ctx := context.Background()
	f := newBonusFixture(t)
	emp := f.addUser(t, "Dana")
	mgr := f.addUser(t, "Morgan")
	badges := f.seedBadges(t, emp)

	n, err := f.bonus.ApproveBadges(ctx, emp.ID, []string{badges[1].Key})
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	stored := f.user(t, emp.ID).Metric(fixedPeriod).BadgesEarned
	assert.False(t, stored[0].Approved)
	assert.True(t, stored[1].Approved)
	assert.False(t, stored[2].Approved)

	s, err := f.bonus.CreateBonusSession(ctx, bonus.SessionInput{
		EmployeeID:   emp.ID,
		EmployeeName: emp.Name,
		ManagerID:    mgr.ID,
		Badges:       []string{string(badges[1].Badge.Title)},
		BadgeIDs:     []string{badges[1].Key},
		TotalAmount:  150,
	}, "")
	require.NoError(t, err)
	assert.NotEmpty(t, s.URL)

	require.Len(t, f.gateway.requests, 1)
	req := f.gateway.requests[0]
	assert.Equal(t, int64(15000), req.LineItem.UnitAmount)
	assert.Equal(t, "https://app/success", req.SuccessURL)
	var ids []string
	require.NoError(t, json.Unmarshal([]byte(req.Metadata[bonus.MetaBadgeIDs]), &ids))
	assert.Equal(t, []string{badges[1].Key}, ids)
	assert.Equal(t, 1, f.notifier.count(EventBonusSessionCreated))
}

func TestBonus_ApproveUnknownKeysIsNoop(t *testing.T) {
	ctx := context.Background()
	f := newBonusFixture(t)
	emp := f.addUser(t, "Dana")
	f.seedBadges(t, emp)
	before := f.user(t, emp.ID)

	n, err := f.bonus.ApproveBadges(ctx, emp.ID, []string{"typo"})
	require.NoError(t, err)
	assert.Zero(t, n)
	assert.Equal(t, before, f.user(t, emp.ID))
}

func TestBonus_ApproveValidation(t *testing.T) {
	f := newBonusFixture(t)

	_, err := f.bonus.ApproveBadges(context.Background(), uuid.New(), nil)
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = f.bonus.ApproveBadges(context.Background(), uuid.New(), []string{"k"})
	assert.ErrorIs(t, err, user.ErrNotFound)
}

func TestBonus_CreateSessionDoesNotApprove(t *testing.T) {
	ctx := context.Background()
	f := newBonusFixture(t)
	emp := f.addUser(t, "Dana")
	badges := f.seedBadges(t, emp)

	_, err := f.bonus.CreateBonusSession(ctx, bonus.SessionInput{
		EmployeeID: emp.ID, ManagerID: uuid.New(), BadgeIDs: []string{badges[0].Key}, TotalAmount: 10,
	}, "")
	require.NoError(t, err)

	pending, err := f.bonus.ListBadges(ctx, emp.ID, true)
	require.NoError(t, err)
	assert.Len(t, pending, 3)
}

func TestBonus_UpstreamFailure(t *testing.T) {
	f := newBonusFixture(t)
	f.gateway.err = errors.New("connection reset")

	_, err := f.bonus.CreateBonusSession(context.Background(), bonus.SessionInput{
		EmployeeID: uuid.New(), ManagerID: uuid.New(), BadgeIDs: []string{"k"}, TotalAmount: 10,
	}, "")
	assert.ErrorIs(t, err, domain.ErrUpstreamUnavailable)
}

func TestBonus_SessionDetailsPassthrough(t *testing.T) {
	f := newBonusFixture(t)
	f.gateway.sessions["cs_1"] = bonus.SessionDetails{ID: "cs_1", PaymentStatus: "paid", AmountTotal: 15000}

	d, err := f.bonus.GetSessionDetails(context.Background(), "cs_1")
	require.NoError(t, err)
	assert.Equal(t, "paid", d.PaymentStatus)

	_, err = f.bonus.GetSessionDetails(context.Background(), "cs_missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestBonus_ApproveAndPayIdempotent(t *testing.T) {
	ctx := context.Background()
	f := newBonusFixture(t)
	emp := f.addUser(t, "Dana")
	badges := f.seedBadges(t, emp)

	in := bonus.SessionInput{
		EmployeeID:  emp.ID,
		ManagerID:   uuid.New(),
		BadgeIDs:    []string{badges[0].Key, badges[2].Key},
		TotalAmount: 99.5,
	}

	first, err := f.bonus.ApproveAndPay(ctx, in, "req-1")
	require.NoError(t, err)
	assert.Equal(t, 2, first.Approved)

	second, err := f.bonus.ApproveAndPay(ctx, in, "req-1")
	require.NoError(t, err)
	assert.Equal(t, first, second)
	require.Len(t, f.gateway.requests, 1)
	assert.Equal(t, int64(9950), f.gateway.requests[0].LineItem.UnitAmount)
	assert.Contains(t, f.gateway.requests[0].LineItem.Name, "Dana")

	pending, err := f.bonus.ListBadges(ctx, emp.ID, true)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, badges[1].Key, pending[0].Key)
}

func TestBonus_ApproveAndPayRejectsUnknownKeys(t *testing.T) {
	ctx := context.Background()
	f := newBonusFixture(t)
	emp := f.addUser(t, "Dana")
	badges := f.seedBadges(t, emp)

	_, err := f.bonus.ApproveAndPay(ctx, bonus.SessionInput{
		EmployeeID:  emp.ID,
		ManagerID:   uuid.New(),
		BadgeIDs:    []string{badges[0].Key, "forged"},
		TotalAmount: 10,
	}, "")
	assert.ErrorIs(t, err, ErrUnknownBadgeKeys)
	assert.Empty(t, f.gateway.requests)

	pending, err := f.bonus.ListBadges(ctx, emp.ID, true)
	require.NoError(t, err)
	assert.Len(t, pending, 3)
	assert.False(t, f.user(t, emp.ID).Metric(fixedPeriod).BadgesEarned[0].Approved)
}

func TestBonus_IdempotencyLockHeld(t *testing.T) {
	ctx := context.Background()
	f := newBonusFixture(t)
	_, err := f.cache.SetIfNotExists(ctx, sessionKeyPrefix+"req-2:lock", "1", time.Minute)
	require.NoError(t, err)

	_, err = f.bonus.CreateBonusSession(ctx, bonus.SessionInput{
		EmployeeID: uuid.New(), ManagerID: uuid.New(), BadgeIDs: []string{"k"}, TotalAmount: 10,
	}, "req-2")
	assert.ErrorIs(t, err, ErrRequestInProgress)
	assert.Empty(t, f.gateway.requests)
}
