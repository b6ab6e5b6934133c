package session

import (
	"context"
	"log"
	"sync"
	"time"

	"finflow-gateway/internal/core/domain"
	"finflow-gateway/internal/pkg/token"

	"github.com/google/uuid"
)

// Registry materializes sessions for the gateway: it maps a bearer
// credential to its resolved user record, caching resolutions for a TTL so
// the guard middleware does not hit the backend on every request. Any
// decode or resolve failure evicts the entry — a session that cannot be
// verified is treated as no session.
type Registry struct {
	resolver UserResolver
	ttl      time.Duration

	mu      sync.RWMutex
	entries map[string]*registryEntry
}

type registryEntry struct {
	id         string
	user       *domain.User
	resolvedAt time.Time
	lastSeen   time.Time
}

// NewRegistry creates a registry caching resolutions for ttl
func NewRegistry(resolver UserResolver, ttl time.Duration) *Registry {
	return &Registry{
		resolver: resolver,
		ttl:      ttl,
		entries:  make(map[string]*registryEntry),
	}
}

// Resolve returns the user behind the credential, decoding it and asking
// the backend when the cached resolution is missing or stale.
func (r *Registry) Resolve(ctx context.Context, credential string) (*domain.User, error) {
	userID, err := token.Decode(credential)
	if err != nil {
		r.Invalidate(credential)
		return nil, domain.ErrInvalidCredential
	}

	now := time.Now()

	r.mu.Lock()
	if e, ok := r.entries[credential]; ok && now.Sub(e.resolvedAt) < r.ttl {
		e.lastSeen = now
		user := e.user
		r.mu.Unlock()
		return user, nil
	}
	r.mu.Unlock()

	user, err := r.resolver.GetUserByID(ctx, userID, credential)
	if err != nil {
		r.Invalidate(credential)
		return nil, err
	}

	r.mu.Lock()
	e, ok := r.entries[credential]
	if !ok {
		e = &registryEntry{id: uuid.New().String()}
		r.entries[credential] = e
		log.Printf("session %s materialized for user %s", e.id, user.ID)
	}
	e.user = user
	e.resolvedAt = now
	e.lastSeen = now
	r.mu.Unlock()

	return user, nil
}

// Invalidate drops the cached resolution for the credential, if any
func (r *Registry) Invalidate(credential string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.entries, credential)
}

// Len reports the number of materialized sessions
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.entries)
}

// Sweep re-verifies every cached session and evicts the ones that are idle
// or no longer verify. Run periodically from the server's scheduler.
func (r *Registry) Sweep(ctx context.Context) {
	r.mu.RLock()
	credentials := make([]string, 0, len(r.entries))
	for c := range r.entries {
		credentials = append(credentials, c)
	}
	r.mu.RUnlock()

	idleCutoff := time.Now().Add(-2 * r.ttl)
	evicted := 0
	for _, credential := range credentials {
		r.mu.RLock()
		e, ok := r.entries[credential]
		r.mu.RUnlock()
		if !ok {
			continue
		}
		if e.lastSeen.Before(idleCutoff) {
			r.Invalidate(credential)
			evicted++
			continue
		}

		userID, err := token.Decode(credential)
		if err != nil {
			r.Invalidate(credential)
			evicted++
			continue
		}
		user, err := r.resolver.GetUserByID(ctx, userID, credential)
		if err != nil {
			r.Invalidate(credential)
			evicted++
			continue
		}

		r.mu.Lock()
		if e, ok := r.entries[credential]; ok {
			e.user = user
			e.resolvedAt = time.Now()
		}
		r.mu.Unlock()
	}

	if evicted > 0 {
		log.Printf("session sweep evicted %d of %d sessions", evicted, len(credentials))
	}
}
