package sandbox

import "context"

// Checker is the capability collaborator consumed by the process manager.
// CreateSandbox runs before a process leaves the creating state; a denial
// rolls the creation back.
type Checker interface {
	// CreateSandbox establishes a sandbox for the process, or returns an
	// error when the requested permission set is rejected.
	CreateSandbox(ctx context.Context, id uint32, config *Config) (*Handle, error)

	// CheckPermission reports whether the process may use the capability.
	CheckPermission(id uint32, capability string) bool

	// Remove discards sandbox state for a terminated process.
	Remove(id uint32)
}
