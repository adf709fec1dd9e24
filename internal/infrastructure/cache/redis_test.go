package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRedis_DegradedMode(t *testing.T) {
	ctx := context.Background()
	r := NewRedisWithClient(nil, 0, nil)

	assert.Error(t, r.Ping(ctx))

	require.NoError(t, r.SetJSON(ctx, "k", map[string]int{"a": 1}, time.Minute))

	var out map[string]int
	hit, err := r.GetJSON(ctx, "k", &out)
	require.NoError(t, err)
	assert.False(t, hit)

	locked, err := r.SetIfNotExists(ctx, "lock", "1", time.Second)
	require.NoError(t, err)
	assert.True(t, locked)

	assert.NoError(t, r.Delete(ctx, "k"))
	assert.NoError(t, r.Close())
}
