package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zatekoja/coachlanding/internal/domain/providers"
)

func TestMemoryAdapter_SetGetExpire(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	m := NewMemoryAdapter()
	m.now = func() time.Time { return now }

	require.NoError(t, m.Set(ctx, "token:admin", []byte("abc"), 60))

	got, err := m.Get(ctx, "token:admin")
	require.NoError(t, err)
	assert.Equal(t, []byte("abc"), got)

	exists, err := m.Exists(ctx, "token:admin")
	require.NoError(t, err)
	assert.True(t, exists)

	now = now.Add(61 * time.Second)
	_, err = m.Get(ctx, "token:admin")
	assert.ErrorIs(t, err, providers.ErrCacheMiss)

	exists, _ = m.Exists(ctx, "token:admin")
	assert.False(t, exists)
}

func TestMemoryAdapter_Delete(t *testing.T) {
	ctx := context.Background()
	m := NewMemoryAdapter()

	require.NoError(t, m.Set(ctx, "k", []byte("v"), 0))
	require.NoError(t, m.Delete(ctx, "k"))

	_, err := m.Get(ctx, "k")
	assert.ErrorIs(t, err, providers.ErrCacheMiss)
}

func TestMemoryAdapter_ReturnsCopy(t *testing.T) {
	ctx := context.Background()
	m := NewMemoryAdapter()
	require.NoError(t, m.Set(ctx, "k", []byte("v"), 0))

	got, _ := m.Get(ctx, "k")
	got[0] = 'x'

	again, _ := m.Get(ctx, "k")
	assert.Equal(t, []byte("v"), again)
}
