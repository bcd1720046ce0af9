package debthistory

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"salon/models"
)

// Registry keeps the mounted views of the running process. Nothing is
// persisted: a fresh page load always mounts a new view.
type Registry struct {
	api API
	ttl time.Duration
	loc *time.Location
	now func() time.Time

	mu    sync.Mutex
	views map[string]*View
}

func NewRegistry(api API, ttl time.Duration, loc *time.Location) *Registry {
	if loc == nil {
		loc = time.Local
	}
	return &Registry{
		api:   api,
		ttl:   ttl,
		loc:   loc,
		now:   time.Now,
		views: make(map[string]*View),
	}
}

// Mount creates a view with default criteria and runs its initial employee
// fetch. Views idle for longer than the TTL are dropped on the way.
func (r *Registry) Mount(ctx context.Context) *View {
	v := NewView(uuid.NewString(), r.api, models.Today(r.loc))

	r.mu.Lock()
	r.evictIdleLocked()
	r.views[v.ID()] = v
	r.mu.Unlock()

	v.Initialize(ctx)
	return v
}

func (r *Registry) Get(id string) (*View, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	v, ok := r.views[id]
	return v, ok
}

func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.views)
}

func (r *Registry) evictIdleLocked() {
	if r.ttl <= 0 {
		return
	}
	cutoff := r.now().Add(-r.ttl)
	for id, v := range r.views {
		if v.idleSince().Before(cutoff) {
			delete(r.views, id)
		}
	}
}
