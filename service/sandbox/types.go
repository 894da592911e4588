package sandbox

import "time"

// Well-known capability names checked at process creation and during
// syscall-style requests from the host.
const (
	CapabilitySpawn   = "process.spawn"
	CapabilityIPC     = "ipc.use"
	CapabilityMemory  = "memory.map"
	CapabilityNetwork = "net.socket"
	CapabilityFile    = "fs.open"
	CapabilitySignal  = "signal.send"
)

// Config describes the permission set requested for a new process. The
// zero value denies nothing: an empty allow list permits every capability.
type Config struct {
	Name      string   `json:"name,omitempty" yaml:"name,omitempty"`
	AllowList []string `json:"allow,omitempty" yaml:"allow,omitempty"`
	BlockList []string `json:"block,omitempty" yaml:"block,omitempty"`
}

// Handle identifies an established sandbox for a live process.
type Handle struct {
	ID        string    `json:"id"`
	ProcessID uint32    `json:"processId"`
	Config    *Config   `json:"config,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}
