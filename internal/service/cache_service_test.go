package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCacheService_TTL(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cs := NewCacheService(ctx)
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	cs.now = func() time.Time { return now }

	cs.Set("oficinas:all", 1, time.Minute)
	v, ok := cs.Get("oficinas:all")
	require.True(t, ok)
	assert.Equal(t, 1, v)

	now = now.Add(2 * time.Minute)
	_, ok = cs.Get("oficinas:all")
	assert.False(t, ok)
}

func TestCacheService_GetOrSet(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	cs := NewCacheService(ctx)

	calls := 0
	load := func() (interface{}, error) {
		calls++
		return "valor", nil
	}

	for i := 0; i < 3; i++ {
		v, err := cs.GetOrSet("k", time.Minute, load)
		require.NoError(t, err)
		assert.Equal(t, "valor", v)
	}
	assert.Equal(t, 1, calls)

	_, err := cs.GetOrSet("falha", time.Minute, func() (interface{}, error) {
		return nil, errors.New("boom")
	})
	assert.Error(t, err)
	_, ok := cs.Get("falha")
	assert.False(t, ok)
}
