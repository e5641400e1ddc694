package teleport

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// DefaultRequestTTL is the time a Request stays in a Registry if no TTL is
// set.
const DefaultRequestTTL = time.Minute

// Request records who asked for a target to be teleported.
type Request struct {
	Requester uuid.UUID
	// RequesterName is the name of the requester at the time of the request.
	RequesterName string
	Target        uuid.UUID
	At            time.Time
}

// Registry holds the most recent teleport Request per target. Requests are
// dropped once they are older than the TTL of the Registry. Expired requests
// are swept by Put at most once per TTL. Registry is safe for concurrent use.
type Registry struct {
	ttl time.Duration
	now func() time.Time

	mu        sync.RWMutex
	requests  map[uuid.UUID]Request
	lastSweep time.Time
}

// NewRegistry returns an empty Registry that keeps requests for ttl. A ttl
// of zero or less is replaced with DefaultRequestTTL.
func NewRegistry(ttl time.Duration) *Registry {
	if ttl <= 0 {
		ttl = DefaultRequestTTL
	}
	return &Registry{ttl: ttl, now: time.Now, requests: make(map[uuid.UUID]Request)}
}

// Put stores a request of requester to teleport target, replacing any
// earlier request for the same target.
func (r *Registry) Put(requester Actor, target uuid.UUID) Request {
	req := Request{Target: target, At: r.now()}
	if requester != nil {
		req.Requester, req.RequesterName = requester.UUID(), requester.Name()
	}
	r.mu.Lock()
	if req.At.Sub(r.lastSweep) >= r.ttl {
		r.sweepLocked(req.At)
	}
	r.requests[target] = req
	r.mu.Unlock()
	return req
}

// Lookup returns the pending request for target, if it has not yet expired.
func (r *Registry) Lookup(target uuid.UUID) (Request, bool) {
	r.mu.RLock()
	req, ok := r.requests[target]
	r.mu.RUnlock()
	if !ok {
		return Request{}, false
	}
	if r.expired(req, r.now()) {
		r.mu.Lock()
		// The request may have been replaced since it was read.
		if cur, ok := r.requests[target]; ok && cur.At.Equal(req.At) {
			delete(r.requests, target)
		}
		r.mu.Unlock()
		return Request{}, false
	}
	return req, true
}

// Forget removes the request for target.
func (r *Registry) Forget(target uuid.UUID) {
	r.mu.Lock()
	delete(r.requests, target)
	r.mu.Unlock()
}

// Sweep removes all expired requests and returns how many were removed.
func (r *Registry) Sweep() int {
	now := r.now()
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.sweepLocked(now)
}

func (r *Registry) sweepLocked(now time.Time) int {
	r.lastSweep = now
	n := 0
	for id, req := range r.requests {
		if r.expired(req, now) {
			delete(r.requests, id)
			n++
		}
	}
	return n
}

// Len returns the number of requests held, expired or not.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.requests)
}

func (r *Registry) expired(req Request, now time.Time) bool {
	return now.Sub(req.At) >= r.ttl
}
