package manager

import (
	"github.com/viant/procos/runtime/process"
	"github.com/viant/procos/service/allocator"
	"github.com/viant/procos/service/cleanup"
	"github.com/viant/procos/service/event"
	"github.com/viant/procos/service/sandbox"
	"github.com/viant/procos/service/scheduler"
)

// Option customises a manager Service.
type Option func(s *Service)

// WithAllocator sets the identifier allocator.
func WithAllocator(svc *allocator.Service) Option {
	return func(s *Service) { s.allocator = svc }
}

// WithTable sets the process table.
func WithTable(table *process.Table) Option {
	return func(s *Service) { s.table = table }
}

// WithScheduler sets the scheduler; the policy is fixed for its lifetime.
func WithScheduler(svc *scheduler.Service) Option {
	return func(s *Service) { s.scheduler = svc }
}

// WithOrchestrator sets the resource cleanup orchestrator. Handler
// registration must be complete before the manager is built.
func WithOrchestrator(orchestrator *cleanup.Orchestrator) Option {
	return func(s *Service) { s.orchestrator = orchestrator }
}

// WithSandbox sets the consumed capability checker.
func WithSandbox(checker sandbox.Checker) Option {
	return func(s *Service) { s.checker = checker }
}

// WithEvents sets the lifecycle event sink.
func WithEvents(events *event.Service) Option {
	return func(s *Service) { s.events = events }
}

// WithInitHook appends a collaborator attach hook run while a new process is
// initializing, before it becomes schedulable.
func WithInitHook(hooks ...InitHook) Option {
	return func(s *Service) { s.initHooks = append(s.initHooks, hooks...) }
}
