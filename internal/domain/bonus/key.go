// Package bonus derives badge identities and turns approved badges into payment
// requests for the checkout collaborator.
package bonus

import (
	"time"

	"companygrow/internal/domain/user"
)

const isoLayout = "2006-01-02T15:04:05.000Z"

// ISODate renders t the way badge keys expect: UTC, millisecond precision.
func ISODate(t time.Time) string {
	return t.UTC().Format(isoLayout)
}

// BadgeKey is the derived identity of a badge within a user ledger. Two badges
// issued in the same period with equal type, tier and timestamp share a key.
func BadgeKey(period string, b user.Badge) string {
	return period + "-" + string(b.Type) + "-" + string(b.Title) + "-" + ISODate(b.DateEarned)
}

// KeyedBadge is a badge together with its derived key.
type KeyedBadge struct {
	Key    string     `json:"key"`
	Period string     `json:"period"`
	Badge  user.Badge `json:"badge"`
}

// Approve sets approved on every badge whose derived key is listed. Unknown keys
// are ignored. It returns the number of badges that flipped from unapproved.
func Approve(u *user.User, keys []string) int {
	if len(keys) == 0 {
		return 0
	}
	want := make(map[string]struct{}, len(keys))
	for _, k := range keys {
		want[k] = struct{}{}
	}

	approved := 0
	for i := range u.PerformanceMetrics {
		m := &u.PerformanceMetrics[i]
		for j := range m.BadgesEarned {
			b := &m.BadgesEarned[j]
			if _, ok := want[BadgeKey(m.Period, *b)]; !ok {
				continue
			}
			if !b.Approved {
				approved++
			}
			b.Approved = true
		}
	}
	return approved
}

// Badges lists every badge of u with its key, in ledger order. When onlyUnapproved
// is set, approved badges are skipped.
func Badges(u user.User, onlyUnapproved bool) []KeyedBadge {
	out := []KeyedBadge{}
	for _, m := range u.PerformanceMetrics {
		for _, b := range m.BadgesEarned {
			if onlyUnapproved && b.Approved {
				continue
			}
			out = append(out, KeyedBadge{Key: BadgeKey(m.Period, b), Period: m.Period, Badge: b})
		}
	}
	return out
}
