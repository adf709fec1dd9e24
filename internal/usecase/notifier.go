package usecase

import (
	"companygrow/internal/domain/user"

	"github.com/google/uuid"
)

const (
	EventBadgeEarned         = "badge_earned"
	EventBonusSessionCreated = "bonus_session_created"
)

// Notifier pushes best-effort events to connected clients of a user.
type Notifier interface {
	Notify(userID uuid.UUID, event string, payload any)
}

type nopNotifier struct{}

func (nopNotifier) Notify(uuid.UUID, string, any) {}

// Principal is the authenticated caller of a usecase.
type Principal struct {
	UserID uuid.UUID
	Role   string
}

func (p Principal) CanReview() bool {
	return user.Role(p.Role).CanReview()
}
