package performance

import (
	"fmt"
	"strings"
	"time"

	"companygrow/internal/domain/user"
)

// IssueBadge appends a badge to m when reward is set. Issuance is append-only and
// has no duplicate guard of its own.
func IssueBadge(m *user.PeriodMetric, reward *user.BadgeTier, typ user.BadgeType, sourceName string, now time.Time) *user.Badge {
	if m == nil || reward == nil || *reward == "" {
		return nil
	}
	b := user.Badge{
		Title:       *reward,
		Type:        typ,
		Description: fmt.Sprintf("Successfully completed %s %s", typ, sourceName),
		// Millisecond precision keeps the derived badge key stable across storage round trips.
		DateEarned: now.UTC().Truncate(time.Millisecond),
		Approved:   false,
	}
	m.BadgesEarned = append(m.BadgesEarned, b)
	out := m.BadgesEarned[len(m.BadgesEarned)-1]
	return &out
}

// MergeSkills adds newSkills to u.Skills, skipping blanks and anything already owned
// under a case-insensitive, trimmed comparison. It returns the skills added.
func MergeSkills(u *user.User, newSkills []string) []string {
	var added []string
	for _, s := range newSkills {
		s = strings.TrimSpace(s)
		if s == "" || u.HasSkill(s) {
			continue
		}
		u.Skills = append(u.Skills, s)
		added = append(added, s)
	}
	return added
}
