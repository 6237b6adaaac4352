package session

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
)

type registryEntry struct {
	manager  *Manager
	lastSeen time.Time
}

// Registry owns one Manager per visitor and tears down the ones that
// have gone idle.
type Registry struct {
	newManager func() *Manager
	idleTTL    time.Duration
	now        func() time.Time

	mu       sync.Mutex
	sessions map[string]*registryEntry
}

// NewRegistry builds managers with newManager. A zero idleTTL keeps
// sessions forever.
func NewRegistry(newManager func() *Manager, idleTTL time.Duration) *Registry {
	return &Registry{
		newManager: newManager,
		idleTTL:    idleTTL,
		now:        time.Now,
		sessions:   make(map[string]*registryEntry),
	}
}

// Get returns the session's manager and marks it as seen.
func (r *Registry) Get(id string) (*Manager, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.sessions[id]
	if !ok {
		return nil, false
	}
	e.lastSeen = r.now()
	return e.manager, true
}

// Create starts a new session and performs its initial load. A failing
// initial load leaves the session usable with an empty saved set.
func (r *Registry) Create(ctx context.Context) (string, *Manager) {
	id := uuid.NewString()
	m := r.newManager()

	r.mu.Lock()
	r.sessions[id] = &registryEntry{manager: m, lastSeen: r.now()}
	r.mu.Unlock()

	slog.Debug("session created", "session", id)
	_ = m.Start(ctx)
	return id, m
}

// Sweep drops sessions idle for longer than the TTL and returns how many
// were removed.
func (r *Registry) Sweep() int {
	if r.idleTTL <= 0 {
		return 0
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	cutoff := r.now().Add(-r.idleTTL)
	removed := 0
	for id, e := range r.sessions {
		if e.lastSeen.Before(cutoff) {
			delete(r.sessions, id)
			removed++
		}
	}
	return removed
}

// Run sweeps every interval until ctx is done.
func (r *Registry) Run(ctx context.Context, interval time.Duration) {
	if r.idleTTL <= 0 || interval <= 0 {
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := r.Sweep(); n > 0 {
				slog.Info("expired idle sessions", "count", n)
			}
		}
	}
}

func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}
