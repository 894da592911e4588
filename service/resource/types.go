package resource

// Canonical resource type names. Registration order at assembly time
// matters: mappings underpin rings and sockets, tasks may reference any of
// them, so mappings register first and tasks last (cleanup runs in reverse).
const (
	TypeMappings    = "mappings"
	TypeDescriptors = "descriptors"
	TypeSockets     = "sockets"
	TypeSignals     = "signals"
	TypeRings       = "rings"
	TypeTasks       = "tasks"
)

// NewMappings tracks memory-mapped regions per process.
func NewMappings() *Registry { return NewRegistry(TypeMappings) }

// NewDescriptors tracks open file descriptors per process.
func NewDescriptors() *Registry { return NewRegistry(TypeDescriptors) }

// NewSockets tracks open sockets per process.
func NewSockets() *Registry { return NewRegistry(TypeSockets) }

// NewSignals tracks registered signal state per process.
func NewSignals() *Registry { return NewRegistry(TypeSignals) }

// NewRings tracks zero-copy ring buffers per process.
func NewRings() *Registry { return NewRegistry(TypeRings) }

// NewTasks tracks background tasks per process.
func NewTasks() *Registry { return NewRegistry(TypeTasks) }

// Names lists the canonical type names in registration order, suitable for
// cleanup coverage validation.
func Names() []string {
	return []string{TypeMappings, TypeDescriptors, TypeSockets, TypeSignals, TypeRings, TypeTasks}
}
