package event

import (
	"context"
	"log"

	"github.com/google/uuid"
	"github.com/viant/procos/internal/clock"
	"github.com/viant/procos/service/messaging"
	"github.com/viant/procos/service/messaging/memory"
)

// Service publishes lifecycle events to a queue and optionally mirrors them
// into a durable journal. Publishing is fire-and-forget: failures are logged
// and dropped so the observability path can never stall the core.
type Service struct {
	queue    messaging.Queue[Event]
	journal  *Journal
	listener *Listener
}

// Option customises a Service.
type Option func(s *Service)

// WithQueue sets the backing queue. Publish runs on the lifecycle path, so
// the queue must not block when full; see memory.Config.DropOldest.
func WithQueue(queue messaging.Queue[Event]) Option {
	return func(s *Service) { s.queue = queue }
}

// WithJournal mirrors published events into a durable journal.
func WithJournal(journal *Journal) Option {
	return func(s *Service) { s.journal = journal }
}

// New creates an event service; without options it uses an in-memory queue
// that sheds its oldest event when full, so a host that never attaches a
// listener cannot stall the publishers.
func New(options ...Option) *Service {
	ret := &Service{}
	for _, option := range options {
		option(ret)
	}
	if ret.queue == nil {
		config := memory.DefaultConfig()
		config.DropOldest = true
		ret.queue = memory.NewQueue[Event](config)
	}
	return ret
}

// Publish emits a lifecycle event. The event ID and timestamp are assigned
// here; errors are logged, never returned.
func (s *Service) Publish(ctx context.Context, event *Event) {
	if s == nil || event == nil {
		return
	}
	event.ID = uuid.New().String()
	event.CreatedAt = clock.Now()
	if err := s.queue.Publish(ctx, event); err != nil {
		log.Printf("failed to publish %v event for process %v: %v", event.Type, event.ProcessID, err)
	}
	if s.journal != nil {
		if err := s.journal.Append(ctx, event); err != nil {
			log.Printf("failed to journal %v event for process %v: %v", event.Type, event.ProcessID, err)
		}
	}
}

// SetListener replaces the active listener with one invoking handler for
// every consumed event.
func (s *Service) SetListener(handler func(*Event)) {
	if s.listener != nil {
		s.listener.Stop()
	}
	s.listener = NewListener(s.queue, handler)
	s.listener.Start()
}

// Shutdown stops the active listener, if any.
func (s *Service) Shutdown() {
	if s.listener != nil {
		s.listener.Stop()
		s.listener = nil
	}
}
