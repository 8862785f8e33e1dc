package cache

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/limbachsamaj/communitysite/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingCache struct {
	refreshes atomic.Int32
}

func (c *countingCache) GetCounts(ctx context.Context) (models.AlbumCountMap, bool) {
	return models.AlbumCountMap{}, true
}

func (c *countingCache) Refresh(ctx context.Context) models.AlbumCountMap {
	c.refreshes.Add(1)
	return models.AlbumCountMap{"diwali-2023": 14}
}

func (c *countingCache) Invalidate()                {}
func (c *countingCache) Peek() models.AlbumCountMap { return nil }

func TestCountWarmerRefreshesOnEveryTick(t *testing.T) {
	clock := clockwork.NewFakeClock()
	countCache := &countingCache{}

	warmer := NewCountWarmerService(CountWarmerConfig{
		Clock:      clock,
		CountCache: countCache,
	})

	warmer.Start(4 * time.Minute)
	defer warmer.Stop()

	require.Eventually(t, func() bool { return countCache.refreshes.Load() == 1 }, time.Second, 5*time.Millisecond)

	clock.Advance(4 * time.Minute)
	require.Eventually(t, func() bool { return countCache.refreshes.Load() == 2 }, time.Second, 5*time.Millisecond)

	clock.Advance(4 * time.Minute)
	require.Eventually(t, func() bool { return countCache.refreshes.Load() == 3 }, time.Second, 5*time.Millisecond)
}

func TestCountWarmerStopsWithShutdownContext(t *testing.T) {
	clock := clockwork.NewFakeClock()
	countCache := &countingCache{}
	ctx, cancel := context.WithCancel(context.Background())

	warmer := NewCountWarmerService(CountWarmerConfig{
		Clock:       clock,
		CountCache:  countCache,
		ShutdownCtx: ctx,
	})

	warmer.Start(time.Minute)
	require.Eventually(t, func() bool { return countCache.refreshes.Load() == 1 }, time.Second, 5*time.Millisecond)

	cancel()
	warmer.Stop()

	clock.Advance(time.Minute)
	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, int32(1), countCache.refreshes.Load())
}

func TestCountWarmerStopIsSafeToRepeat(t *testing.T) {
	warmer := NewCountWarmerService(CountWarmerConfig{
		Clock:      clockwork.NewFakeClock(),
		CountCache: &countingCache{},
	})

	assert.NotPanics(t, func() {
		warmer.Stop()
		warmer.Start(time.Minute)
		warmer.Stop()
		warmer.Stop()
	})
}

func TestWarmRunsOnce(t *testing.T) {
	countCache := &countingCache{}

	warmer := NewCountWarmerService(CountWarmerConfig{CountCache: countCache})
	warmer.Warm()

	assert.Equal(t, int32(1), countCache.refreshes.Load())
}
