// Package component manages the lifecycle of scribe's infrastructure:
// the database, redis, the watcher and the HTTP server each implement
// Component and are started in registration order by a Registry.
package component
