// Package telemetry wires OpenTelemetry tracing and metrics for the server.
package telemetry
