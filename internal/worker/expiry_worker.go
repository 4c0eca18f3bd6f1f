package worker

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"
)

const defaultSweepInterval = time.Minute

// Expirer releases the seats of pending bookings whose hold has elapsed.
type Expirer interface {
	ExpireStaleBookings(ctx context.Context, now time.Time) (int, error)
}

// ExpiryWorkerStats
type ExpiryWorkerStats struct {
	IsRunning        bool
	Runs             int64
	TotalExpired     int64
	LastRunTime      time.Time
	LastExpiredCount int
}

// ExpiryWorker menjalankan sweep booking pending secara berkala
type ExpiryWorker struct {
	expirer  Expirer
	interval time.Duration
	now      func() time.Time
	log      *zap.Logger

	stopCh  chan struct{}
	wg      sync.WaitGroup
	mu      sync.Mutex
	running bool

	runs             int64
	totalExpired     int64
	lastRunTime      time.Time
	lastExpiredCount int
}

func NewExpiryWorker(expirer Expirer, interval time.Duration, log *zap.Logger) *ExpiryWorker {
	if interval <= 0 {
		interval = defaultSweepInterval
	}

	return &ExpiryWorker{
		expirer:  expirer,
		interval: interval,
		now:      time.Now,
		log:      log.With(zap.String("worker", "expiry")),
		stopCh:   make(chan struct{}),
	}
}

func (w *ExpiryWorker) Start(ctx context.Context) error {
	w.mu.Lock()
	if w.running {
		w.mu.Unlock()
		return errors.New("expiry worker already running")
	}
	w.running = true
	w.mu.Unlock()

	w.log.Info("Starting expiry worker", zap.Duration("interval", w.interval))

	w.wg.Add(1)
	go w.loop(ctx)

	return nil
}

// Stop blocks until the running sweep, if any, has finished.
func (w *ExpiryWorker) Stop() {
	w.mu.Lock()
	if !w.running {
		w.mu.Unlock()
		return
	}
	w.running = false
	w.mu.Unlock()

	w.log.Info("Stopping expiry worker")
	close(w.stopCh)
	w.wg.Wait()
	w.log.Info("Expiry worker stopped")
}

func (w *ExpiryWorker) loop(ctx context.Context) {
	defer w.wg.Done()

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	// langsung sweep saat start
	w.RunOnce(ctx)

	for {
		select {
		case <-ctx.Done():
			return
		case <-w.stopCh:
			return
		case <-ticker.C:
			w.RunOnce(ctx)
		}
	}
}

// RunOnce performs a single sweep and returns how many bookings expired.
func (w *ExpiryWorker) RunOnce(ctx context.Context) int {
	now := w.now()
	expired, err := w.expirer.ExpireStaleBookings(ctx, now)

	w.mu.Lock()
	w.runs++
	w.lastRunTime = now
	if err == nil {
		w.totalExpired += int64(expired)
		w.lastExpiredCount = expired
	}
	w.mu.Unlock()

	if err != nil {
		w.log.Error("Failed to expire stale bookings", zap.Error(err))
		return 0
	}

	if expired > 0 {
		w.log.Info("Expired stale bookings", zap.Int("count", expired))
	}
	return expired
}

func (w *ExpiryWorker) GetStats() *ExpiryWorkerStats {
	w.mu.Lock()
	defer w.mu.Unlock()

	return &ExpiryWorkerStats{
		IsRunning:        w.running,
		Runs:             w.runs,
		TotalExpired:     w.totalExpired,
		LastRunTime:      w.lastRunTime,
		LastExpiredCount: w.lastExpiredCount,
	}
}
