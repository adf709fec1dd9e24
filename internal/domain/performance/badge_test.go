package performance

import (
	"testing"

	"companygrow/internal/domain/user"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMergeSkills_Idempotent(t *testing.T) {
	u := user.User{}

	MergeSkills(&u, []string{"React", "react "})
	MergeSkills(&u, []string{"React", "react "})

	assert.Equal(t, []string{"React"}, u.Skills)
}

func TestMergeSkills_FirstSeenCasingAndOrder(t *testing.T) {
	u := user.User{Skills: []string{"golang"}}

	added := MergeSkills(&u, []string{"  Docker ", "GOLANG", "", "   ", "docker", "Kubernetes"})

	assert.Equal(t, []string{"Docker", "Kubernetes"}, added)
	assert.Equal(t, []string{"golang", "Docker", "Kubernetes"}, u.Skills)
}

func TestIssueBadge_NoReward(t *testing.T) {
	m := &user.PeriodMetric{Period: testPeriod}
	assert.Nil(t, IssueBadge(m, nil, user.BadgeTypeCourse, "x", testNow))
	empty := user.BadgeTier("")
	assert.Nil(t, IssueBadge(m, &empty, user.BadgeTypeCourse, "x", testNow))
	assert.Empty(t, m.BadgesEarned)
}

func TestIssueBadge_AppendOnly(t *testing.T) {
	m := &user.PeriodMetric{Period: testPeriod}

	first := IssueBadge(m, tier(user.BadgeRed), user.BadgeTypeProject, "Apollo", testNow)
	second := IssueBadge(m, tier(user.BadgeRed), user.BadgeTypeProject, "Apollo", testNow)

	require.NotNil(t, first)
	require.NotNil(t, second)
	assert.Len(t, m.BadgesEarned, 2)
	assert.Equal(t, *first, *second)
}
