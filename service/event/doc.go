// Package event streams fire-and-forget process lifecycle notifications
// (created, transition, scheduled, terminated) to the observability sink.
// Delivery failure is logged and dropped; it never affects core correctness.
package event
