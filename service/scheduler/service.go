package scheduler

import (
	"sync"
	"time"
)

// Policy selects the scheduling algorithm. The policy is fixed for the
// scheduler's lifetime; there is no runtime hot-swap.
type Policy string

const (
	// PolicyRoundRobin rotates a FIFO ready queue on a fixed quantum.
	PolicyRoundRobin Policy = "roundRobin"

	// PolicyPriority always selects the highest-priority ready identifier.
	// Lower-priority entries may starve; intended for latency-sensitive work.
	PolicyPriority Policy = "priority"

	// PolicyFair approximates weighted CPU-time sharing via virtual runtime.
	PolicyFair Policy = "fair"
)

// Config represents scheduler configuration.
type Config struct {
	Policy  Policy        `json:"policy" yaml:"policy"`
	Quantum time.Duration `json:"quantum" yaml:"quantum"`
}

// DefaultConfig returns the default scheduler configuration.
func DefaultConfig() Config {
	return Config{
		Policy:  PolicyFair,
		Quantum: 10 * time.Millisecond,
	}
}

// Stats captures scheduler counters.
type Stats struct {
	TotalScheduled  uint64        `json:"totalScheduled"`
	ContextSwitches uint64        `json:"contextSwitches"`
	Preemptions     uint64        `json:"preemptions"`
	Active          int           `json:"active"`
	Policy          Policy        `json:"policy"`
	Quantum         time.Duration `json:"quantum"`
}

// ProcessStats is a per-entry scheduling snapshot.
type ProcessStats struct {
	ID             uint32 `json:"id"`
	Priority       uint8  `json:"priority"`
	Weight         uint64 `json:"weight"`
	Scheduled      uint64 `json:"scheduled"`
	CPUTimeMicros  uint64 `json:"cpuTimeMicros"`
	VruntimeMicros uint64 `json:"vruntimeMicros"`
}

// Service is a cooperative, logical CPU scheduler: entries are tracked
// identifiers, not OS threads, and an external driver loop performs the
// actual dispatch after ScheduleNext.
type Service struct {
	config Config

	mux     sync.Mutex
	entries map[uint32]*entry
	order   []uint32 // round-robin ready queue, front is next
	seq     uint64
	current uint32 // last selected identifier, zero when none
	yielded bool   // current gave up its slot voluntarily
	stats   Stats
}

// New creates a scheduler with the given configuration.
func New(config Config) *Service {
	if config.Quantum <= 0 {
		config.Quantum = DefaultConfig().Quantum
	}
	if config.Policy == "" {
		config.Policy = DefaultConfig().Policy
	}
	return &Service{
		config:  config,
		entries: map[uint32]*entry{},
	}
}

// Policy returns the fixed scheduling policy.
func (s *Service) Policy() Policy {
	return s.config.Policy
}

// Add registers an identifier with the ready set. Re-adding a present
// identifier only updates its priority.
func (s *Service) Add(id uint32, priority uint8) {
	s.mux.Lock()
	defer s.mux.Unlock()
	if existing, ok := s.entries[id]; ok {
		existing.setPriority(priority)
		return
	}
	s.seq++
	e := &entry{id: id, seq: s.seq}
	e.setPriority(priority)
	s.entries[id] = e
	s.order = append(s.order, id)
}

// Remove deregisters an identifier. Removing an absent identifier is a
// no-op; the return value reports whether anything was removed. The entry
// leaves the ready set atomically, so a terminating process cannot be
// re-selected mid-teardown.
func (s *Service) Remove(id uint32) bool {
	s.mux.Lock()
	defer s.mux.Unlock()
	if _, ok := s.entries[id]; !ok {
		return false
	}
	delete(s.entries, id)
	for i, queued := range s.order {
		if queued == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	if s.current == id {
		s.current = 0
		s.yielded = false
	}
	return true
}

// Contains reports whether the identifier is in the ready set.
func (s *Service) Contains(id uint32) bool {
	s.mux.Lock()
	defer s.mux.Unlock()
	_, ok := s.entries[id]
	return ok
}

// SetPriority updates an entry's priority and recomputes its weight.
func (s *Service) SetPriority(id uint32, priority uint8) bool {
	s.mux.Lock()
	defer s.mux.Unlock()
	e, ok := s.entries[id]
	if !ok {
		return false
	}
	e.setPriority(priority)
	return true
}

// ScheduleNext selects the next runnable identifier, or false when the ready
// set is empty. A previously selected entry that neither yielded nor was
// removed counts as preempted when a different entry displaces it.
func (s *Service) ScheduleNext() (uint32, bool) {
	s.mux.Lock()
	defer s.mux.Unlock()

	var selected *entry
	switch s.config.Policy {
	case PolicyRoundRobin:
		selected = s.rotate()
	case PolicyPriority:
		selected = s.highestPriority()
	default:
		selected = s.minVruntime()
	}
	if selected == nil {
		s.current = 0
		s.yielded = false
		return 0, false
	}

	s.stats.TotalScheduled++
	selected.scheduled++
	selected.cpuMicros += uint64(s.config.Quantum.Microseconds())
	if selected.id != s.current {
		s.stats.ContextSwitches++
		if s.current != 0 && !s.yielded {
			if _, stillActive := s.entries[s.current]; stillActive {
				s.stats.Preemptions++
			}
		}
	}
	s.current = selected.id
	s.yielded = false
	return selected.id, true
}

// rotate pops the front of the FIFO queue and requeues it at the back.
func (s *Service) rotate() *entry {
	if len(s.order) == 0 {
		return nil
	}
	id := s.order[0]
	s.order = append(s.order[1:], id)
	return s.entries[id]
}

// highestPriority returns the highest-priority entry, arrival order breaking
// ties. Selection is stable: the same entry wins until it is removed or a
// higher-priority entry arrives.
func (s *Service) highestPriority() *entry {
	var best *entry
	for _, e := range s.entries {
		if best == nil || e.priority > best.priority ||
			(e.priority == best.priority && e.seq < best.seq) {
			best = e
		}
	}
	return best
}

// minVruntime returns the entry with the least virtual runtime, insertion
// order breaking ties, and charges it one weighted quantum.
func (s *Service) minVruntime() *entry {
	var best *entry
	for _, e := range s.entries {
		if best == nil || e.vruntime < best.vruntime ||
			(e.vruntime == best.vruntime && e.seq < best.seq) {
			best = e
		}
	}
	if best != nil {
		best.charge(uint64(s.config.Quantum.Microseconds()))
	}
	return best
}

// Yield voluntarily gives up the identifier's slot. The entry immediately
// re-enters the ready set, distinct from quantum-expiry preemption; yielding
// the sole runnable entry re-selects that same entry on the next call.
func (s *Service) Yield(id uint32) {
	s.mux.Lock()
	defer s.mux.Unlock()
	if _, ok := s.entries[id]; !ok {
		return
	}
	if s.current == id {
		s.yielded = true
		s.stats.ContextSwitches++
	}
	if s.config.Policy == PolicyRoundRobin {
		// Move the yielder behind the rest of the queue.
		for i, queued := range s.order {
			if queued == id {
				s.order = append(append(s.order[:i], s.order[i+1:]...), id)
				break
			}
		}
	}
}

// ProcessStats returns the per-entry scheduling snapshot for id.
func (s *Service) ProcessStats(id uint32) (ProcessStats, bool) {
	s.mux.Lock()
	defer s.mux.Unlock()
	e, ok := s.entries[id]
	if !ok {
		return ProcessStats{}, false
	}
	return ProcessStats{
		ID:             e.id,
		Priority:       e.priority,
		Weight:         e.weight,
		Scheduled:      e.scheduled,
		CPUTimeMicros:  e.cpuMicros,
		VruntimeMicros: e.vruntime,
	}, true
}

// Current returns the most recently selected identifier, when it is still in
// the ready set.
func (s *Service) Current() (uint32, bool) {
	s.mux.Lock()
	defer s.mux.Unlock()
	if s.current == 0 {
		return 0, false
	}
	if _, ok := s.entries[s.current]; !ok {
		return 0, false
	}
	return s.current, true
}

// Stats returns a snapshot of scheduler counters.
func (s *Service) Stats() Stats {
	s.mux.Lock()
	defer s.mux.Unlock()
	out := s.stats
	out.Active = len(s.entries)
	out.Policy = s.config.Policy
	out.Quantum = s.config.Quantum
	return out
}

// Len returns the number of entries in the ready set.
func (s *Service) Len() int {
	s.mux.Lock()
	defer s.mux.Unlock()
	return len(s.entries)
}
