package cleanup

import (
	"fmt"
	"log"
	"time"

	"github.com/viant/procos/internal/clock"
)

// Handler is the uniform capability every resource manager exposes so the
// orchestrator can tear it down generically.
type Handler interface {
	// HasResources reports whether the process owns any resource of this type.
	// It is used as a cheap existence probe before Cleanup.
	HasResources(id uint32) bool

	// Cleanup releases everything the process owns and reports what was freed.
	Cleanup(id uint32) Stats

	// TypeName identifies the resource type for logging and coverage checks.
	TypeName() string
}

// Stats describes the outcome of a single handler invocation.
type Stats struct {
	Freed      int      `json:"freed"`
	BytesFreed int      `json:"bytesFreed"`
	Errors     []string `json:"errors,omitempty"`
}

// Result aggregates cleanup across all registered handlers for one process.
type Result struct {
	ID         uint32         `json:"id"`
	Freed      int            `json:"freed"`
	BytesFreed int            `json:"bytesFreed"`
	ByType     map[string]int `json:"byType,omitempty"`
	Errors     []string       `json:"errors,omitempty"`
	TimeTaken  time.Duration  `json:"timeTaken"`
}

// Success reports whether every handler completed without errors. Partial
// failure never blocks termination; it only surfaces here.
func (r *Result) Success() bool {
	return len(r.Errors) == 0
}

// Orchestrator coordinates ordered teardown across heterogeneous resource
// managers. The handler list is immutable once the orchestrator is built, so
// sharing it across duplicated managers never drops registered handlers.
type Orchestrator struct {
	handlers []Handler
}

// New creates an orchestrator with no handlers.
func New() *Orchestrator {
	return &Orchestrator{}
}

// Register appends a handler and returns a new orchestrator value. All
// registration must happen at system initialization, before the orchestrator
// is shared with a manager.
func (o *Orchestrator) Register(handlers ...Handler) *Orchestrator {
	merged := make([]Handler, 0, len(o.handlers)+len(handlers))
	merged = append(merged, o.handlers...)
	for _, h := range handlers {
		if h != nil {
			merged = append(merged, h)
		}
	}
	return &Orchestrator{handlers: merged}
}

// Cleanup tears down all resources owned by a terminated process. Handlers
// run in reverse registration order: later-registered resources often depend
// on earlier ones (sockets close before the mappings backing their buffers
// are freed). Errors are collected, never fatal - one resource type's failure
// must not block cleanup of the rest.
func (o *Orchestrator) Cleanup(id uint32) *Result {
	started := clock.Now()
	result := &Result{ID: id, ByType: map[string]int{}}

	for i := len(o.handlers) - 1; i >= 0; i-- {
		handler := o.handlers[i]
		if !handler.HasResources(id) {
			continue
		}
		stats := handler.Cleanup(id)
		result.Freed += stats.Freed
		result.BytesFreed += stats.BytesFreed
		result.ByType[handler.TypeName()] += stats.Freed
		for _, msg := range stats.Errors {
			result.Errors = append(result.Errors, fmt.Sprintf("%s: %s", handler.TypeName(), msg))
		}
	}
	result.TimeTaken = clock.Since(started)
	return result
}

// HandlerCount returns the number of registered handlers.
func (o *Orchestrator) HandlerCount() int {
	return len(o.handlers)
}

// RegisteredTypes returns handler type names in registration order.
func (o *Orchestrator) RegisteredTypes() []string {
	out := make([]string, 0, len(o.handlers))
	for _, h := range o.handlers {
		out = append(out, h.TypeName())
	}
	return out
}

// ValidateCoverage warns when an expected resource category has no registered
// handler; an uncovered category is a potential leak source.
func (o *Orchestrator) ValidateCoverage(expected ...string) []string {
	registered := map[string]bool{}
	for _, h := range o.handlers {
		registered[h.TypeName()] = true
	}
	var missing []string
	for _, name := range expected {
		if !registered[name] {
			missing = append(missing, name)
			log.Printf("resource type %q has no registered cleanup handler", name)
		}
	}
	return missing
}
