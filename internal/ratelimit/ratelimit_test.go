package ratelimit

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemory_FixedWindow(t *testing.T) {
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	l := NewMemory(2, time.Minute)
	l.now = func() time.Time { return now }
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		ok, err := l.Allow(ctx, "10.0.0.1")
		require.NoError(t, err)
		assert.True(t, ok)
	}

	ok, err := l.Allow(ctx, "10.0.0.1")
	require.NoError(t, err)
	assert.False(t, ok, "third request in window")

	ok, err = l.Allow(ctx, "10.0.0.2")
	require.NoError(t, err)
	assert.True(t, ok, "other keys have their own window")

	now = now.Add(time.Minute)
	ok, err = l.Allow(ctx, "10.0.0.1")
	require.NoError(t, err)
	assert.True(t, ok, "window reset")
}

func TestMemory_SweepsExpiredBuckets(t *testing.T) {
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	l := NewMemory(1, time.Minute)
	l.now = func() time.Time { return now }
	ctx := context.Background()

	for _, ip := range []string{"a", "b", "c"} {
		_, err := l.Allow(ctx, ip)
		require.NoError(t, err)
	}
	assert.Len(t, l.buckets, 3)

	now = now.Add(2 * time.Minute)
	_, err := l.Allow(ctx, "d")
	require.NoError(t, err)
	assert.Len(t, l.buckets, 1)
}

func TestWindowTTL(t *testing.T) {
	tests := []struct {
		name   string
		window time.Duration
		want   int64
	}{
		{name: "minute", window: time.Minute, want: 60000},
		{name: "sub second", window: 250 * time.Millisecond, want: 250},
		{name: "sub millisecond", window: 10 * time.Microsecond, want: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, windowTTL(tt.window))
		})
	}
}

func TestRedis_WindowKey(t *testing.T) {
	r := NewRedis(nil, "rl", 5, 500*time.Millisecond)
	start := time.Unix(1700000000, 0)

	first := r.windowKey("10.0.0.1", start)
	assert.Regexp(t, `^rl:10\.0\.0\.1:\d+$`, first)
	assert.Equal(t, first, r.windowKey("10.0.0.1", start.Add(499*time.Millisecond)))
	assert.NotEqual(t, first, r.windowKey("10.0.0.1", start.Add(500*time.Millisecond)))
	assert.NotEqual(t, first, r.windowKey("10.0.0.2", start))
}
