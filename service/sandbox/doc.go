// Package sandbox defines the capability checker the process manager
// consults at creation time. Policy definition lives with the host; this
// package only carries the permission check shape and an in-memory vendor.
package sandbox
