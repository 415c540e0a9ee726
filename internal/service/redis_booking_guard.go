package service

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

// acquireBookingScript is a package-level Lua script so the client can switch
// to EVALSHA after the first call.
//
// Logic:
// 1. GET idempotency key; if missing SET it to the candidate with TTL
// 2. SET lock to the owner token NX PX; if the lock is held return {-1, key}
// 3. Otherwise return {1, key}
var acquireBookingScript = redis.NewScript(`
	local key = redis.call('GET', KEYS[1])
	if not key then
		key = ARGV[1]
		redis.call('SET', KEYS[1], key, 'PX', ARGV[2])
	end
	local locked = redis.call('SET', KEYS[2], ARGV[4], 'NX', 'PX', ARGV[3])
	if not locked then
		return {-1, key}
	end
	return {1, key}
`)

// releaseBookingScript deletes the lock only while it still holds the
// caller's token. A lock that expired and was taken by another submission
// is left alone. Returns 1 when deleted, 0 otherwise.
var releaseBookingScript = redis.NewScript(`
	if redis.call('GET', KEYS[1]) == ARGV[1] then
		return redis.call('DEL', KEYS[1])
	end
	return 0
`)

// RedisBookingGuard shares idempotency keys and in-flight locks between
// portal instances.
type RedisBookingGuard struct {
	redisClient *redis.Client
	log         *logrus.Logger
	ttls        GuardTTLs
}

func NewRedisBookingGuard(redisClient *redis.Client, log *logrus.Logger, ttls GuardTTLs) *RedisBookingGuard {
	return &RedisBookingGuard{
		redisClient: redisClient,
		log:         log,
		ttls:        ttls.withDefaults(),
	}
}

func (g *RedisBookingGuard) Acquire(ctx context.Context, slotID, patientID, candidateKey string) (BookingLease, error) {
	ctx, cancel := context.WithTimeout(ctx, guardOpTimeout)
	defer cancel()

	pair := pairID(slotID, patientID)
	keys := []string{BookingKeyPrefix + pair, BookingLockPrefix + pair}
	token := newLockToken()

	raw, err := acquireBookingScript.Run(ctx, g.redisClient, keys,
		candidateKey, g.ttls.Key.Milliseconds(), g.ttls.Lock.Milliseconds(), token).Slice()
	if err != nil {
		g.log.Warnf("Failed Lua script acquireBooking for %s: %+v", pair, err)
		return BookingLease{}, fmt.Errorf("lua acquire booking for %s: %w", pair, err)
	}
	if len(raw) != 2 {
		return BookingLease{}, fmt.Errorf("lua acquire booking for %s: unexpected reply %v", pair, raw)
	}

	status, _ := raw[0].(int64)
	key, _ := raw[1].(string)
	if status == -1 {
		g.log.Debugf("Booking for %s already in flight", pair)
		return BookingLease{Key: key}, ErrBookingInFlight
	}

	g.log.Debugf("Acquired booking lock for %s: key=%s", pair, key)
	return BookingLease{Key: key, Token: token}, nil
}

func (g *RedisBookingGuard) Release(ctx context.Context, slotID, patientID, token string) error {
	if token == "" {
		return nil
	}
	ctx, cancel := context.WithTimeout(ctx, guardOpTimeout)
	defer cancel()

	pair := pairID(slotID, patientID)
	deleted, err := releaseBookingScript.Run(ctx, g.redisClient, []string{BookingLockPrefix + pair}, token).Int64()
	if err != nil {
		g.log.Warnf("Failed Lua script releaseBooking for %s: %+v", pair, err)
		return fmt.Errorf("lua release booking for %s: %w", pair, err)
	}
	if deleted == 0 {
		g.log.Debugf("Booking lock for %s no longer owned, left in place", pair)
	}
	return nil
}
