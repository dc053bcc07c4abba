// Package app assembles a scribe process: the configuration aggregate,
// the component registry and the pipeline wired over the started
// infrastructure.
//
// Startup runs in phases. The infrastructure components (database, redis,
// storage) start first; then the driver, record store, summary enricher
// and pipeline service are wired; then OnConfigure callbacks add the
// surfaces (HTTP server, inbox watcher) which start last. Shutdown stops
// components in reverse order within the graceful timeout.
package app
