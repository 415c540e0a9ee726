package usecase

import (
	"context"
	"errors"
	"time"

	"psico-portal/internal/domain/entity"
	"psico-portal/internal/domain/repository"
	"psico-portal/internal/service"
	"psico-portal/pkg/metrics"

	gocache "github.com/patrickmn/go-cache"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/singleflight"
)

const (
	DefaultSessionTTL = 30 * time.Minute

	// Upper bound for the profile lookup that creates a workspace
	workspaceCreateTimeout = 10 * time.Second
)

var ErrEmptySessionKey = errors.New("session key is empty")

// Workspace holds one session's workflow objects. Profile is resolved once
// when the workspace is created.
type Workspace struct {
	Profile      *entity.Profile
	Availability *AvailabilityManager
	Scheduling   *SchedulingWizard
	Payments     *PaymentLedger
}

func (w *Workspace) close() {
	w.Scheduling.Close()
	w.Availability.Close()
}

// SessionRegistry maps a session key to its workspace. Entries expire after
// ttl without access; eviction closes the workspace.
type SessionRegistry struct {
	log          *logrus.Logger
	sessions     repository.SessionRepository
	appointments repository.AppointmentRepository
	payments     repository.PaymentRepository
	guard        service.BookingGuard
	clock        Clock
	metrics      *metrics.Metrics
	cache        *gocache.Cache
	creating     singleflight.Group
}

func NewSessionRegistry(
	log *logrus.Logger,
	sessions repository.SessionRepository,
	appointments repository.AppointmentRepository,
	payments repository.PaymentRepository,
	guard service.BookingGuard,
	clock Clock,
	m *metrics.Metrics,
	ttl time.Duration,
) *SessionRegistry {
	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}
	r := &SessionRegistry{
		log:          log,
		sessions:     sessions,
		appointments: appointments,
		payments:     payments,
		guard:        guard,
		clock:        clock,
		metrics:      m,
		cache:        gocache.New(ttl, ttl/2),
	}
	r.cache.OnEvicted(func(key string, value interface{}) {
		if ws, ok := value.(*Workspace); ok {
			ws.close()
		}
		r.metrics.SetSessions(r.cache.ItemCount())
		r.log.Debugf("Session workspace %s evicted", shortKey(key))
	})
	return r
}

// Workspace returns the session's workspace, creating it on first use.
// ctx must carry the session's bearer token for the profile lookup.
func (r *SessionRegistry) Workspace(ctx context.Context, sessionKey string) (*Workspace, error) {
	if sessionKey == "" {
		return nil, ErrEmptySessionKey
	}
	if value, ok := r.cache.Get(sessionKey); ok {
		ws := value.(*Workspace)
		// sliding expiry
		r.cache.SetDefault(sessionKey, ws)
		return ws, nil
	}

	// the lookup is shared by every caller waiting on this key, so it must
	// not die with the first caller's request
	ch := r.creating.DoChan(sessionKey, func() (interface{}, error) {
		if value, ok := r.cache.Get(sessionKey); ok {
			return value, nil
		}
		lookupCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), workspaceCreateTimeout)
		defer cancel()

		profile, err := r.sessions.CurrentProfile(lookupCtx)
		if err != nil {
			r.log.Warnf("Failed to resolve profile for new session: %+v", err)
			return nil, err
		}
		ws := r.newWorkspace(profile)
		r.cache.SetDefault(sessionKey, ws)
		r.metrics.SetSessions(r.cache.ItemCount())
		r.log.Debugf("Session workspace %s created for %s %s", shortKey(sessionKey), profile.Role, profile.ID)
		return ws, nil
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(*Workspace), nil
	}
}

func (r *SessionRegistry) newWorkspace(profile *entity.Profile) *Workspace {
	ws := &Workspace{
		Profile:      profile,
		Availability: NewAvailabilityManager(r.log, r.appointments, r.clock, r.metrics),
		Scheduling:   NewSchedulingWizard(r.log, r.appointments, r.sessions, r.guard, r.metrics),
		Payments:     NewPaymentLedger(r.log, r.payments, r.clock, r.metrics),
	}
	profileID := profile.ID
	ws.Scheduling.OnClose(func() {
		r.log.Debugf("Scheduling closed for %s", profileID)
	})
	return ws
}

// Profile is the cached identity of the session
func (r *SessionRegistry) Profile(ctx context.Context, sessionKey string) (*entity.Profile, error) {
	ws, err := r.Workspace(ctx, sessionKey)
	if err != nil {
		return nil, err
	}
	return ws.Profile, nil
}

// Drop closes and forgets the session's workspace
func (r *SessionRegistry) Drop(sessionKey string) {
	r.cache.Delete(sessionKey)
}

func (r *SessionRegistry) Count() int {
	return r.cache.ItemCount()
}

// Stop closes every workspace
func (r *SessionRegistry) Stop() {
	for key := range r.cache.Items() {
		r.cache.Delete(key)
	}
}

func shortKey(key string) string {
	if len(key) > 8 {
		return key[:8]
	}
	return key
}
