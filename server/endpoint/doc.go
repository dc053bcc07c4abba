// Package endpoint provides the operational routes of the scribe server:
// aggregated health, liveness and readiness probes, Prometheus metrics and
// build version.
package endpoint
