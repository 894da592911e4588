package process

import (
	"sync"
	"time"

	"github.com/viant/procos/internal/clock"
)

// Process lifecycle states. Only ready/running records are visible to the
// scheduler; creating/initializing records are deliberately excluded so a
// half-initialized process can never be selected.
const (
	StateCreating     = "creating"
	StateInitializing = "initializing"
	StateReady        = "ready"
	StateRunning      = "running"
	StateBlocked      = "blocked"
	StateTerminating  = "terminating"
	StateTerminated   = "terminated"
)

// MaxPriority is the highest accepted priority value.
const MaxPriority = 255

// Process represents a tracked unit of execution. It is a logical process:
// dispatch is performed by an external driver, not by this runtime.
type Process struct {
	ID        uint32     `json:"id"`
	ParentID  uint32     `json:"parentId,omitempty"`
	Name      string     `json:"name"`
	Priority  uint8      `json:"priority"`
	State     string     `json:"state"`
	SandboxID string     `json:"sandboxId,omitempty"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt time.Time  `json:"updatedAt"`
	EndedAt   *time.Time `json:"endedAt,omitempty"`

	mu sync.RWMutex
}

// New creates a process record in the creating state.
func New(id uint32, name string, priority uint8) *Process {
	now := clock.Now()
	return &Process{
		ID:        id,
		Name:      name,
		Priority:  priority,
		State:     StateCreating,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// GetState returns the current lifecycle state.
func (p *Process) GetState() string {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.State
}

// SetState updates the lifecycle state and bookkeeping timestamps.
func (p *Process) SetState(state string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.State = state
	p.UpdatedAt = clock.Now()
	if state == StateTerminated {
		now := clock.Now()
		p.EndedAt = &now
	}
}

// Transition moves the record to state only when its current state is one
// of from, returning the prior state and whether the move happened. A record
// that has entered terminating or terminated can never be resurrected by a
// racing scheduler call, because no caller lists those states as a valid
// origin.
func (p *Process) Transition(state string, from ...string) (string, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	prior := p.State
	matched := false
	for _, candidate := range from {
		if prior == candidate {
			matched = true
			break
		}
	}
	if !matched {
		return prior, false
	}
	p.State = state
	p.UpdatedAt = clock.Now()
	if state == StateTerminated {
		now := clock.Now()
		p.EndedAt = &now
	}
	return prior, true
}

// BeginTermination atomically moves the record into the terminating state.
// It returns false when the record is already terminating or terminated, so
// concurrent callers cannot race the same teardown.
func (p *Process) BeginTermination() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	switch p.State {
	case StateTerminating, StateTerminated:
		return false
	}
	p.State = StateTerminating
	p.UpdatedAt = clock.Now()
	return true
}

// AttachSandbox records the sandbox handle established for this process.
func (p *Process) AttachSandbox(sandboxID string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.SandboxID = sandboxID
	p.UpdatedAt = clock.Now()
}

// GetPriority returns the current priority.
func (p *Process) GetPriority() uint8 {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.Priority
}

// SetPriority updates the priority.
func (p *Process) SetPriority(priority uint8) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.Priority = priority
	p.UpdatedAt = clock.Now()
}

// Schedulable reports whether the record may be visible to the scheduler.
func (p *Process) Schedulable() bool {
	switch p.GetState() {
	case StateReady, StateRunning:
		return true
	}
	return false
}

// Clone returns a copy safe for use outside the table. The sync.RWMutex is
// not copied; callers receive an owned snapshot and cannot bypass the state
// machine through it.
func (p *Process) Clone() *Process {
	if p == nil {
		return nil
	}
	p.mu.RLock()
	defer p.mu.RUnlock()
	out := &Process{
		ID:        p.ID,
		ParentID:  p.ParentID,
		Name:      p.Name,
		Priority:  p.Priority,
		State:     p.State,
		SandboxID: p.SandboxID,
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
	if p.EndedAt != nil {
		ended := *p.EndedAt
		out.EndedAt = &ended
	}
	return out
}
