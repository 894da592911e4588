// Package allocator issues and recycles process identifiers. Identifiers are
// returned to the reuse pool only after resource cleanup for the owning
// process has fully completed.
package allocator
