// Package manager implements the process lifecycle API: creation through
// the creating/initializing/ready gate, priority updates, scheduling
// selection and idempotent termination with ordered resource cleanup and
// identifier recycling.
package manager
