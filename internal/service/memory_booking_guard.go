package service

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/patrickmn/go-cache"
	"github.com/sirupsen/logrus"
)

const (
	// Interval for cleaning up stale mutexes
	mutexCleanupInterval = 10 * time.Minute

	// How long a mutex must be unused before cleanup
	mutexStaleThreshold = 10 * time.Minute
)

// MemoryBookingGuard is the single-instance guard backed by go-cache.
//
// Lock Ordering:
// 1. Acquire the pair mutex FIRST
// 2. Then read or write the key and lock caches
type MemoryBookingGuard struct {
	keys  *cache.Cache
	locks *cache.Cache
	log   *logrus.Logger
	ttls  GuardTTLs

	// Per-pair mutex so get-or-set of the key is atomic
	pairMu sync.Map // map[string]*mutexWithTimestamp

	stopChan chan struct{}
	wg       sync.WaitGroup
	stopped  atomic.Bool
}

// mutexWithTimestamp tracks mutex usage for cleanup
type mutexWithTimestamp struct {
	mu       sync.Mutex
	lastUsed atomic.Int64 // Unix timestamp
}

// NewMemoryBookingGuard starts a background goroutine for mutex cleanup.
// Call Stop() during graceful shutdown.
func NewMemoryBookingGuard(log *logrus.Logger, ttls GuardTTLs) *MemoryBookingGuard {
	ttls = ttls.withDefaults()
	g := &MemoryBookingGuard{
		keys:     cache.New(ttls.Key, mutexCleanupInterval),
		locks:    cache.New(ttls.Lock, time.Minute),
		log:      log,
		ttls:     ttls,
		stopChan: make(chan struct{}),
	}

	g.wg.Add(1)
	go g.cleanupMutexMapLoop()

	return g
}

// Stop is safe to call multiple times
func (g *MemoryBookingGuard) Stop() {
	if g.stopped.CompareAndSwap(false, true) {
		close(g.stopChan)
		g.wg.Wait()
		g.log.Info("MemoryBookingGuard stopped")
	}
}

func (g *MemoryBookingGuard) Acquire(ctx context.Context, slotID, patientID, candidateKey string) (BookingLease, error) {
	if err := ctx.Err(); err != nil {
		return BookingLease{}, err
	}
	pair := pairID(slotID, patientID)

	mt := g.getPairMutex(pair)
	mt.mu.Lock()
	defer mt.mu.Unlock()

	key := candidateKey
	if existing, found := g.keys.Get(pair); found {
		key = existing.(string)
	} else {
		g.keys.Set(pair, key, g.ttls.Key)
	}

	token := newLockToken()
	if err := g.locks.Add(pair, token, g.ttls.Lock); err != nil {
		g.log.Debugf("Booking for %s already in flight", pair)
		return BookingLease{Key: key}, ErrBookingInFlight
	}

	g.log.Debugf("Acquired booking lock for %s: key=%s", pair, key)
	return BookingLease{Key: key, Token: token}, nil
}

// Release deletes the lock only while it still holds token
func (g *MemoryBookingGuard) Release(_ context.Context, slotID, patientID, token string) error {
	if token == "" {
		return nil
	}
	pair := pairID(slotID, patientID)

	mt := g.getPairMutex(pair)
	mt.mu.Lock()
	defer mt.mu.Unlock()

	if held, found := g.locks.Get(pair); found && held.(string) == token {
		g.locks.Delete(pair)
		return nil
	}
	g.log.Debugf("Booking lock for %s no longer owned, left in place", pair)
	return nil
}

// getPairMutex returns the mutex for a (slot, patient) pair
func (g *MemoryBookingGuard) getPairMutex(pair string) *mutexWithTimestamp {
	mt, _ := g.pairMu.LoadOrStore(pair, &mutexWithTimestamp{})
	result := mt.(*mutexWithTimestamp)
	result.lastUsed.Store(time.Now().Unix())
	return result
}

func (g *MemoryBookingGuard) cleanupMutexMapLoop() {
	defer g.wg.Done()

	ticker := time.NewTicker(mutexCleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-g.stopChan:
			g.log.Debug("Mutex cleanup goroutine stopping")
			return
		case <-ticker.C:
			g.cleanupStaleMutexes()
		}
	}
}

// cleanupStaleMutexes checks lastUsed inside the lock so a concurrent
// getPairMutex cannot be missed
func (g *MemoryBookingGuard) cleanupStaleMutexes() {
	cutoffTime := time.Now().Add(-mutexStaleThreshold).Unix()
	var cleaned int

	g.pairMu.Range(func(key, value any) bool {
		mt, ok := value.(*mutexWithTimestamp)
		if !ok {
			return true
		}

		if mt.mu.TryLock() {
			if mt.lastUsed.Load() < cutoffTime {
				g.pairMu.Delete(key)
				cleaned++
			}
			mt.mu.Unlock()
		}
		return true
	})

	if cleaned > 0 {
		g.log.Debugf("Cleaned up %d stale mutexes", cleaned)
	}
}
