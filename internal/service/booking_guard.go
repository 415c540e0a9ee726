package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// =============================================================================
// Errors
// =============================================================================

// ErrBookingInFlight is returned when the same patient is already submitting
// a booking for the same slot
var ErrBookingInFlight = errors.New("booking already in flight for this slot")

// =============================================================================
// Constants
// =============================================================================

const (
	// Key prefixes for the booking guard
	BookingKeyPrefix  = "booking:idem:"
	BookingLockPrefix = "booking:lock:"

	DefaultBookingKeyTTL  = 24 * time.Hour
	DefaultBookingLockTTL = 30 * time.Second

	// Timeout for individual guard operations
	guardOpTimeout = 5 * time.Second
)

// =============================================================================
// Types
// =============================================================================

// BookingGuard makes booking submissions idempotent per (slot, patient) pair.
//
// Acquire returns the idempotency key to send upstream: the first candidate
// ever offered for the pair, so a retry from any wizard reuses it. It also
// takes a short in-flight lock owned by the returned lease; a second Acquire
// while the lock is held fails with ErrBookingInFlight and a lease carrying
// only the key. Release drops the lock only while the lease still owns it
// and always keeps the key.
type BookingGuard interface {
	Acquire(ctx context.Context, slotID, patientID, candidateKey string) (BookingLease, error)
	Release(ctx context.Context, slotID, patientID, token string) error
}

// BookingLease is the result of Acquire
type BookingLease struct {
	// Key is the idempotency key to send upstream
	Key string
	// Token identifies the lock holder; empty when the lock was not taken
	Token string
}

// GuardTTLs configures key and lock lifetimes
type GuardTTLs struct {
	Key  time.Duration
	Lock time.Duration
}

func (t GuardTTLs) withDefaults() GuardTTLs {
	if t.Key <= 0 {
		t.Key = DefaultBookingKeyTTL
	}
	if t.Lock <= 0 {
		t.Lock = DefaultBookingLockTTL
	}
	return t
}

func pairID(slotID, patientID string) string {
	return fmt.Sprintf("%s:%s", slotID, patientID)
}

// newLockToken marks one Acquire as the lock owner
func newLockToken() string {
	return uuid.NewString()
}
