package server

import (
	"context"
	"sort"

	"github.com/gin-gonic/gin"

	"github.com/kbukum/scribe/component"
	"github.com/kbukum/scribe/observability"
)

const componentName = "http-server"

var _ component.Component = (*Component)(nil)

// Component wraps Server for the component registry.
type Component struct {
	server *Server
}

// NewComponent returns a component.Component backed by the given Server.
func NewComponent(s *Server) *Component {
	return &Component{server: s}
}

// Name returns the component name used for registration.
func (c *Component) Name() string { return componentName }

// Start starts the underlying HTTP server.
func (c *Component) Start(ctx context.Context) error {
	return c.server.Start(ctx)
}

// Stop gracefully shuts down the underlying HTTP server.
func (c *Component) Stop(ctx context.Context) error {
	return c.server.Stop(ctx)
}

// CheckHealth reports the server up once it is listening.
func (c *Component) CheckHealth(context.Context) observability.Health {
	c.server.mu.Lock()
	listening := c.server.listener != nil
	c.server.mu.Unlock()

	h := observability.Health{Name: componentName, Status: observability.HealthStatusUp}
	if !listening {
		h.Status = observability.HealthStatusDown
		h.Message = "HTTP server not listening"
		return h
	}
	h.Details = map[string]string{"addr": c.server.Addr()}
	return h
}

// Routes returns the registered routes, API routes first, for the startup log.
func (c *Component) Routes() gin.RoutesInfo {
	routes := c.server.engine.Routes()
	sort.Slice(routes, func(i, j int) bool {
		iSys, jSys := systemPaths[routes[i].Path], systemPaths[routes[j].Path]
		if iSys != jSys {
			return !iSys
		}
		if routes[i].Path != routes[j].Path {
			return routes[i].Path < routes[j].Path
		}
		return routes[i].Method < routes[j].Method
	})
	return routes
}

var systemPaths = map[string]bool{
	"/healthz": true,
	"/livez":   true,
	"/readyz":  true,
	"/metrics": true,
	"/version": true,
}
