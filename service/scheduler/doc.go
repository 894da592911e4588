// Package scheduler selects the next runnable process identifier under one
// of three policies: round-robin, strict priority, or proportional-share
// fair scheduling driven by virtual runtime. The scheduler is cooperative
// and logical; dispatch is owned by an external driver loop.
package scheduler
