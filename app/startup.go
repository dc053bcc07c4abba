package app

import (
	"context"
	"time"

	"github.com/kbukum/scribe/observability"
	"github.com/kbukum/scribe/server"
	"github.com/kbukum/scribe/version"
)

// logStartup logs the startup summary: build, component health and, when
// an HTTP server is registered, its routes.
func (a *App) logStartup(ctx context.Context) {
	log := a.Logger.WithComponent("startup")

	log.Info("Build", version.GetVersionInfo().Fields())

	health := a.Health(ctx)
	for _, h := range health.Components {
		fields := map[string]interface{}{"component": h.Name, "status": string(h.Status)}
		if h.Message != "" {
			fields["message"] = h.Message
		}
		if h.Status == observability.HealthStatusUp {
			log.Info("Component ready", fields)
		} else {
			log.Warn("Component not ready", fields)
		}
	}

	if c, ok := a.Components.Get("http-server").(*server.Component); ok {
		for _, r := range c.Routes() {
			log.Debug("Route", map[string]interface{}{"method": r.Method, "path": r.Path})
		}
	}

	log.Info("Startup complete", map[string]interface{}{
		"status":      string(health.Status),
		"components":  len(health.Components),
		"provider":    a.Cfg.Transcription.Provider,
		"production":  a.Cfg.Transcription.UseProductionService,
		"summary":     a.Cfg.Summary.Enabled,
		"duration_ms": time.Since(a.started).Milliseconds(),
	})
}
