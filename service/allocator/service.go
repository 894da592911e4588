package allocator

import (
	"errors"
	"math"
	"sync"
)

// ErrSpaceExhausted is returned when the reuse pool is empty and the
// monotonic counter has consumed the whole 32-bit space. It is a distinct
// error so callers never observe a silent wrap-around.
var ErrSpaceExhausted = errors.New("identifier space exhausted")

// Service issues process identifiers and recycles released ones. Released
// identifiers are preferred over the monotonic counter, which bounds
// exhaustion under heavy create/terminate churn.
//
// The reuse pool is a LIFO stack: the most recently released identifier is
// the next one allocated. This keeps reuse latency deterministic and favours
// identifiers whose bookkeeping is still cache-warm.
type Service struct {
	next   uint64 // counter runs past MaxUint32 so the last identifier is issuable
	free   []uint32
	pooled map[uint32]bool
	mux    sync.Mutex
}

// New creates an allocator whose first fresh identifier is start. A start of
// zero is promoted to one; zero is reserved as the absent identifier.
func New(start uint32) *Service {
	if start == 0 {
		start = 1
	}
	return &Service{next: uint64(start), pooled: map[uint32]bool{}}
}

// Allocate returns an identifier unique among currently-live processes.
func (s *Service) Allocate() (uint32, error) {
	s.mux.Lock()
	defer s.mux.Unlock()
	if n := len(s.free); n > 0 {
		id := s.free[n-1]
		s.free = s.free[:n-1]
		delete(s.pooled, id)
		return id, nil
	}
	if s.next > math.MaxUint32 {
		return 0, ErrSpaceExhausted
	}
	id := uint32(s.next)
	s.next++
	return id, nil
}

// Release returns an identifier to the reuse pool. Callers must only release
// identifiers whose resources have been confirmed cleaned up - a released
// identifier may be handed out to the very next Allocate call. Releasing
// zero, an identifier never issued, or one already pooled is a no-op, so a
// misbehaving double-release cannot make two live processes share an
// identifier.
func (s *Service) Release(id uint32) {
	if id == 0 {
		return
	}
	s.mux.Lock()
	defer s.mux.Unlock()
	if uint64(id) >= s.next || s.pooled[id] {
		return
	}
	s.pooled[id] = true
	s.free = append(s.free, id)
}

// Pooled returns the current number of identifiers waiting for reuse.
func (s *Service) Pooled() int {
	s.mux.Lock()
	defer s.mux.Unlock()
	return len(s.free)
}
