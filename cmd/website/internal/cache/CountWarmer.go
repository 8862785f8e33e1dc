package cache

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/limbachsamaj/communitysite/pkg/services"
)

type CountWarmer interface {
	Warm()
	Start(interval time.Duration)
	Stop()
}

type CountWarmerConfig struct {
	Clock       clockwork.Clock
	CountCache  services.CountCacher
	ShutdownCtx context.Context
}

/*
CountWarmerService refreshes the album counts in the background so the
gallery grid rarely has to wait on the media store.
*/
type CountWarmerService struct {
	clock       clockwork.Clock
	countCache  services.CountCacher
	shutdownCtx context.Context

	running *atomic.Bool
	stop    chan struct{}
	wg      *sync.WaitGroup
	started *atomic.Bool
}

func NewCountWarmerService(config CountWarmerConfig) CountWarmerService {
	if config.Clock == nil {
		config.Clock = clockwork.NewRealClock()
	}

	if config.ShutdownCtx == nil {
		config.ShutdownCtx = context.Background()
	}

	return CountWarmerService{
		clock:       config.Clock,
		countCache:  config.CountCache,
		shutdownCtx: config.ShutdownCtx,
		running:     &atomic.Bool{},
		stop:        make(chan struct{}),
		wg:          &sync.WaitGroup{},
		started:     &atomic.Bool{},
	}
}

// Warm runs one refresh unless another one is still going.
func (s CountWarmerService) Warm() {
	if !s.running.CompareAndSwap(false, true) {
		slog.Info("count warmer already running. skipping...")
		return
	}

	defer s.running.Store(false)

	counts := s.countCache.Refresh(s.shutdownCtx)
	slog.Info("count warmer finished.", "numAlbums", len(counts))
}

/*
Start warms the cache right away and then on every tick until Stop is
called or the shutdown context is done.
*/
func (s CountWarmerService) Start(interval time.Duration) {
	if !s.started.CompareAndSwap(false, true) {
		return
	}

	ticker := s.clock.NewTicker(interval)

	s.wg.Add(1)

	go func() {
		defer s.wg.Done()
		defer ticker.Stop()

		s.Warm()

		for {
			select {
			case <-ticker.Chan():
				s.Warm()

			case <-s.stop:
				return

			case <-s.shutdownCtx.Done():
				return
			}
		}
	}()

	slog.Info("count warmer started", "interval", interval)
}

func (s CountWarmerService) Stop() {
	if !s.started.CompareAndSwap(true, false) {
		return
	}

	close(s.stop)
	s.wg.Wait()
	slog.Info("count warmer stopped")
}
