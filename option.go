package procos

import (
	"time"

	"github.com/viant/procos/service/cleanup"
	"github.com/viant/procos/service/event"
	"github.com/viant/procos/service/manager"
	"github.com/viant/procos/service/sandbox"
	"github.com/viant/procos/service/scheduler"
)

// Option customises the runtime Service.
type Option func(s *Service)

// WithConfig sets the whole configuration.
func WithConfig(config *Config) Option {
	return func(s *Service) { s.config = config }
}

// WithPolicy selects the scheduling policy; it is fixed for the runtime's
// lifetime.
func WithPolicy(policy scheduler.Policy) Option {
	return func(s *Service) {
		s.ensureConfig()
		s.config.Scheduler.Policy = policy
	}
}

// WithQuantum sets the scheduling quantum.
func WithQuantum(quantum time.Duration) Option {
	return func(s *Service) {
		s.ensureConfig()
		s.config.Scheduler.QuantumMs = int(quantum / time.Millisecond)
	}
}

// WithSandbox sets the capability checker consulted at process creation.
func WithSandbox(checker sandbox.Checker) Option {
	return func(s *Service) { s.checker = checker }
}

// WithEventService sets the lifecycle event service.
func WithEventService(events *event.Service) Option {
	return func(s *Service) { s.events = events }
}

// WithCleanupHandlers registers additional resource cleanup handlers after
// the built-in registries. Registration is only possible before New returns.
func WithCleanupHandlers(handlers ...cleanup.Handler) Option {
	return func(s *Service) { s.handlers = append(s.handlers, handlers...) }
}

// WithInitHook appends collaborator attach hooks run while a new process is
// initializing.
func WithInitHook(hooks ...manager.InitHook) Option {
	return func(s *Service) { s.initHooks = append(s.initHooks, hooks...) }
}

func (s *Service) ensureConfig() {
	if s.config == nil {
		s.config = DefaultConfig()
	}
}
