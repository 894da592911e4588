package manager

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/viant/procos/runtime/process"
	"github.com/viant/procos/service/allocator"
	"github.com/viant/procos/service/cleanup"
	"github.com/viant/procos/service/event"
	"github.com/viant/procos/service/sandbox"
	"github.com/viant/procos/service/scheduler"
	"github.com/viant/procos/tracing"
)

// ErrPermissionDenied signals a sandbox rejection at creation time. It is
// surfaced immediately and never retried.
var ErrPermissionDenied = errors.New("permission denied")

// InitHook attaches collaborator resources (memory, IPC, descriptors) while
// the process is in the initializing state, before it becomes schedulable.
type InitHook func(ctx context.Context, id uint32) error

// Service is the process lifecycle manager. It composes the identifier
// allocator, process table, scheduler, resource orchestrator and sandbox
// checker into the public lifecycle API. Duplicating the Service value is
// safe: all composed state is shared by reference, including the
// orchestrator's immutable handler list.
type Service struct {
	allocator    *allocator.Service
	table        *process.Table
	scheduler    *scheduler.Service
	orchestrator *cleanup.Orchestrator
	checker      sandbox.Checker
	events       *event.Service
	initHooks    []InitHook
}

// New creates a manager from already-built collaborators.
func New(options ...Option) *Service {
	ret := &Service{}
	for _, option := range options {
		option(ret)
	}
	if ret.allocator == nil {
		ret.allocator = allocator.New(1)
	}
	if ret.table == nil {
		ret.table = process.NewTable()
	}
	if ret.scheduler == nil {
		ret.scheduler = scheduler.New(scheduler.DefaultConfig())
	}
	if ret.orchestrator == nil {
		ret.orchestrator = cleanup.New()
	}
	return ret
}

// Create allocates an identifier, establishes the sandbox, runs
// initialization hooks and only then registers the process with the
// scheduler. The scheduler can never observe the process before its
// supporting resources exist.
func (s *Service) Create(ctx context.Context, name string, priority uint8, config *sandbox.Config) (uint32, error) {
	ctx, span := tracing.StartSpan(ctx, fmt.Sprintf("manager.Create %s", name), "INTERNAL")
	var err error
	defer func() { tracing.EndSpan(span, err) }()

	id, err := s.allocator.Allocate()
	if err != nil {
		return 0, err
	}
	record := process.New(id, name, priority)
	if !s.table.Insert(record) {
		// Allocator and table disagree about liveness; refuse to clobber.
		err = fmt.Errorf("identifier %v already live, table/allocator desynchronized", id)
		log.Printf("invariant violation: %v", err)
		return 0, err
	}

	if s.checker != nil {
		handle, sandboxErr := s.checker.CreateSandbox(ctx, id, config)
		if sandboxErr != nil {
			s.table.Remove(id)
			s.allocator.Release(id)
			err = fmt.Errorf("%w: %v", ErrPermissionDenied, sandboxErr)
			return 0, err
		}
		record.AttachSandbox(handle.ID)
	}

	s.transition(ctx, record, process.StateInitializing, process.StateCreating)
	for _, hook := range s.initHooks {
		if hookErr := hook(ctx, id); hookErr != nil {
			// Roll back whatever earlier hooks attached before giving up.
			result := s.orchestrator.Cleanup(id)
			if !result.Success() {
				log.Printf("partial cleanup rolling back process %v: %v", id, result.Errors)
			}
			if s.checker != nil {
				s.checker.Remove(id)
			}
			s.table.Remove(id)
			s.allocator.Release(id)
			err = fmt.Errorf("failed to initialize process %v: %w", id, hookErr)
			return 0, err
		}
	}

	s.transition(ctx, record, process.StateReady, process.StateInitializing)
	s.scheduler.Add(id, priority)

	s.events.Publish(ctx, &event.Event{
		Type:      event.TypeCreated,
		ProcessID: id,
		Name:      name,
		Priority:  priority,
	})
	return id, nil
}

// Terminate tears a process down: deregister from the scheduler, run LIFO
// resource cleanup, remove the record and only then recycle the identifier.
// It is idempotent; a second call returns false and performs no work.
// Partial cleanup failure is logged and folded into the emitted event, but
// termination always makes forward progress.
func (s *Service) Terminate(ctx context.Context, id uint32) bool {
	record, ok := s.table.Lookup(id)
	if !ok {
		return false
	}
	if !record.BeginTermination() {
		return false
	}
	ctx, span := tracing.StartSpan(ctx, fmt.Sprintf("manager.Terminate %d", id), "INTERNAL")
	defer tracing.EndSpan(span, nil)

	// Out of the ready set before any teardown, so the scheduler cannot
	// select a process whose resources are being freed.
	s.scheduler.Remove(id)

	result := s.orchestrator.Cleanup(id)
	if !result.Success() {
		log.Printf("partial cleanup failure for process %v: %v", id, result.Errors)
	}
	if s.checker != nil {
		s.checker.Remove(id)
	}

	record.SetState(process.StateTerminated)
	s.table.Remove(id)
	s.allocator.Release(id)

	s.events.Publish(ctx, &event.Event{
		Type:      event.TypeTerminated,
		ProcessID: id,
		Name:      record.Name,
		Cleanup:   result,
	})
	return true
}

// Get returns an owned copy of the process record; callers cannot bypass
// the state machine through it.
func (s *Service) Get(id uint32) (*process.Process, bool) {
	return s.table.Get(id)
}

// List returns owned copies of all live records.
func (s *Service) List() []*process.Process {
	return s.table.List()
}

// SetPriority updates the record and recomputes scheduler weight.
// Out-of-range values are rejected; unknown identifiers return false.
func (s *Service) SetPriority(ctx context.Context, id uint32, priority int) bool {
	if priority < 0 || priority > process.MaxPriority {
		return false
	}
	record, ok := s.table.Lookup(id)
	if !ok {
		return false
	}
	record.SetPriority(uint8(priority))
	if !s.scheduler.SetPriority(id, uint8(priority)) && record.Schedulable() {
		// A ready record must always be visible to the scheduler.
		log.Printf("invariant violation: process %v is %v but absent from scheduler, re-adding", id, record.GetState())
		s.scheduler.Add(id, uint8(priority))
	}
	return true
}

// ScheduleNext selects the next runnable identifier and moves it to the
// running state. It returns false when nothing is runnable. A selected
// identifier whose record is mid-termination is dropped from the ready set
// and selection retries, so a dying process is never reported as scheduled.
func (s *Service) ScheduleNext(ctx context.Context) (uint32, bool) {
	for {
		id, ok := s.scheduler.ScheduleNext()
		if !ok {
			return 0, false
		}
		record, found := s.table.Lookup(id)
		if !found {
			s.scheduler.Remove(id)
			continue
		}
		if !s.transition(ctx, record, process.StateRunning, process.StateReady, process.StateRunning) {
			s.scheduler.Remove(id)
			continue
		}
		s.events.Publish(ctx, &event.Event{Type: event.TypeScheduled, ProcessID: id})
		return id, true
	}
}

// Yield voluntarily returns a running process to the ready set, distinct
// from quantum-expiry preemption.
func (s *Service) Yield(ctx context.Context, id uint32) {
	record, ok := s.table.Lookup(id)
	if !ok {
		return
	}
	s.transition(ctx, record, process.StateReady, process.StateRunning)
	s.scheduler.Yield(id)
}

// Block parks a running or ready process until Unblock; a blocked process
// is invisible to the scheduler.
func (s *Service) Block(ctx context.Context, id uint32) bool {
	record, ok := s.table.Lookup(id)
	if !ok {
		return false
	}
	if !s.transition(ctx, record, process.StateBlocked, process.StateReady, process.StateRunning) {
		return false
	}
	s.scheduler.Remove(id)
	return true
}

// Unblock returns a blocked process to the ready set.
func (s *Service) Unblock(ctx context.Context, id uint32) bool {
	record, ok := s.table.Lookup(id)
	if !ok {
		return false
	}
	if !s.transition(ctx, record, process.StateReady, process.StateBlocked) {
		return false
	}
	s.scheduler.Add(id, record.GetPriority())
	return true
}

// SchedulerStats returns a snapshot of scheduler counters.
func (s *Service) SchedulerStats() scheduler.Stats {
	return s.scheduler.Stats()
}

// ProcessStats returns the per-process scheduling snapshot for a live,
// schedulable identifier.
func (s *Service) ProcessStats(id uint32) (scheduler.ProcessStats, bool) {
	return s.scheduler.ProcessStats(id)
}

// CheckPermission consults the sandbox collaborator; without one every
// capability is allowed.
func (s *Service) CheckPermission(id uint32, capability string) bool {
	if s.checker == nil {
		return true
	}
	return s.checker.CheckPermission(id, capability)
}

// Orchestrator exposes the shared cleanup orchestrator.
func (s *Service) Orchestrator() *cleanup.Orchestrator {
	return s.orchestrator
}

func (s *Service) transition(ctx context.Context, record *process.Process, state string, from ...string) bool {
	prior, ok := record.Transition(state, from...)
	if !ok {
		return false
	}
	if prior == state {
		// Re-selection of the current process is not a transition.
		return true
	}
	s.events.Publish(ctx, &event.Event{
		Type:      event.TypeTransition,
		ProcessID: record.ID,
		From:      prior,
		To:        state,
	})
	return true
}
