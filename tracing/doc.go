// Package tracing provides a thin wrapper around OpenTelemetry so the rest
// of the code-base can start and end lifecycle spans without depending on
// the upstream API directly.
package tracing
