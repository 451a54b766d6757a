package access

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryReplayGuardFirstUse(t *testing.T) {
	g := NewMemoryReplayGuard()

	first, err := g.MarkUsed(context.Background(), "sig-1")
	require.NoError(t, err)
	assert.True(t, first)

	first, err = g.MarkUsed(context.Background(), "sig-1")
	require.NoError(t, err)
	assert.False(t, first)

	// distinct signatures do not interfere
	first, err = g.MarkUsed(context.Background(), "sig-2")
	require.NoError(t, err)
	assert.True(t, first)
}

func TestMemoryReplayGuardExpiry(t *testing.T) {
	g := NewMemoryReplayGuard()
	now := time.Now()
	g.now = func() time.Time { return now }

	first, err := g.MarkUsed(context.Background(), "sig-1")
	require.NoError(t, err)
	assert.True(t, first)

	// after the retention window the signature is forgotten; a token that
	// old fails the freshness check anyway
	g.now = func() time.Time { return now.Add(g.ttl + time.Second) }
	first, err = g.MarkUsed(context.Background(), "sig-1")
	require.NoError(t, err)
	assert.True(t, first)
}
