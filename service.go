package procos

import (
	"context"
	"log"

	"github.com/viant/afs"
	"github.com/viant/procos/runtime/process"
	"github.com/viant/procos/service/allocator"
	"github.com/viant/procos/service/cleanup"
	"github.com/viant/procos/service/event"
	"github.com/viant/procos/service/manager"
	"github.com/viant/procos/service/resource"
	"github.com/viant/procos/service/sandbox"
	smemory "github.com/viant/procos/service/sandbox/memory"
	"github.com/viant/procos/service/scheduler"
)

// Resources groups the built-in per-process resource registries. The host
// attaches instances as collaborators hand them out; the orchestrator tears
// them down in reverse registration order on termination.
type Resources struct {
	Mappings    *resource.Registry
	Descriptors *resource.Registry
	Sockets     *resource.Registry
	Signals     *resource.Registry
	Rings       *resource.Registry
	Tasks       *resource.Registry
}

// Service assembles the process orchestration runtime: identifier
// allocator, process table, scheduler, resource orchestrator, sandbox
// checker and lifecycle event stream. Scheduler policy and cleanup handler
// registration are fixed once New returns.
type Service struct {
	config       *Config
	manager      *manager.Service
	events       *event.Service
	checker      sandbox.Checker
	scheduler    *scheduler.Service
	orchestrator *cleanup.Orchestrator
	resources    *Resources
	handlers     []cleanup.Handler
	initHooks    []manager.InitHook
}

// New creates a runtime Service. Without options it uses the fair policy,
// an in-memory sandbox vendor and an in-memory event queue.
func New(options ...Option) (*Service, error) {
	ret := &Service{}
	for _, option := range options {
		option(ret)
	}
	if err := ret.init(); err != nil {
		return nil, err
	}
	return ret, nil
}

func (s *Service) init() error {
	if s.config == nil {
		s.config = DefaultConfig()
	}
	if err := s.config.Validate(); err != nil {
		return err
	}
	if s.scheduler == nil {
		s.scheduler = scheduler.New(s.config.schedulerConfig())
	}
	if s.checker == nil {
		s.checker = smemory.New()
	}
	if s.events == nil {
		var eventOptions []event.Option
		if s.config.JournalURL != "" {
			journal, err := event.NewJournal(afs.New(), s.config.JournalURL)
			if err != nil {
				return err
			}
			eventOptions = append(eventOptions, event.WithJournal(journal))
		}
		s.events = event.New(eventOptions...)
	}

	s.resources = &Resources{
		Mappings:    resource.NewMappings(),
		Descriptors: resource.NewDescriptors(),
		Sockets:     resource.NewSockets(),
		Signals:     resource.NewSignals(),
		Rings:       resource.NewRings(),
		Tasks:       resource.NewTasks(),
	}
	s.orchestrator = cleanup.New().Register(
		s.resources.Mappings,
		s.resources.Descriptors,
		s.resources.Sockets,
		s.resources.Signals,
		s.resources.Rings,
		s.resources.Tasks,
	).Register(s.handlers...)
	if missing := s.orchestrator.ValidateCoverage(resource.Names()...); len(missing) > 0 {
		log.Printf("cleanup coverage incomplete: %v", missing)
	}

	s.manager = manager.New(
		manager.WithAllocator(allocator.New(1)),
		manager.WithTable(process.NewTable()),
		manager.WithScheduler(s.scheduler),
		manager.WithOrchestrator(s.orchestrator),
		manager.WithSandbox(s.checker),
		manager.WithEvents(s.events),
		manager.WithInitHook(s.initHooks...),
	)
	return nil
}

// Manager returns the process lifecycle manager.
func (s *Service) Manager() *manager.Service {
	return s.manager
}

// Events returns the lifecycle event service.
func (s *Service) Events() *event.Service {
	return s.events
}

// Resources returns the built-in resource registries.
func (s *Service) Resources() *Resources {
	return s.resources
}

// Create starts a new process through the full lifecycle gate.
func (s *Service) Create(ctx context.Context, name string, priority uint8, config *sandbox.Config) (uint32, error) {
	return s.manager.Create(ctx, name, priority, config)
}

// Terminate tears a process down; it is idempotent.
func (s *Service) Terminate(ctx context.Context, id uint32) bool {
	return s.manager.Terminate(ctx, id)
}

// Get returns an owned copy of a process record.
func (s *Service) Get(id uint32) (*process.Process, bool) {
	return s.manager.Get(id)
}

// SetPriority updates a process priority and scheduler weight.
func (s *Service) SetPriority(ctx context.Context, id uint32, priority int) bool {
	return s.manager.SetPriority(ctx, id, priority)
}

// ScheduleNext selects the next runnable process identifier.
func (s *Service) ScheduleNext(ctx context.Context) (uint32, bool) {
	return s.manager.ScheduleNext(ctx)
}

// Yield voluntarily returns a running process to the ready set.
func (s *Service) Yield(ctx context.Context, id uint32) {
	s.manager.Yield(ctx, id)
}

// SchedulerStats returns a snapshot of scheduler counters.
func (s *Service) SchedulerStats() scheduler.Stats {
	return s.manager.SchedulerStats()
}

// ProcessStats returns the per-process scheduling snapshot for id.
func (s *Service) ProcessStats(id uint32) (scheduler.ProcessStats, bool) {
	return s.manager.ProcessStats(id)
}

// Shutdown terminates every live process and stops the event listener.
func (s *Service) Shutdown(ctx context.Context) {
	for _, record := range s.manager.List() {
		s.manager.Terminate(ctx, record.ID)
	}
	s.events.Shutdown()
}
