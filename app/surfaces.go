package app

import (
	"fmt"

	"github.com/kbukum/scribe/ratelimit"
	"github.com/kbukum/scribe/redis"
	"github.com/kbukum/scribe/server"
	"github.com/kbukum/scribe/watcher"
)

// AddServer builds the HTTP server over the wired pipeline and registers
// it as a component. Call it from an OnConfigure callback.
func (a *App) AddServer(localPaths bool) (*server.Server, error) {
	if a.service == nil {
		return nil, fmt.Errorf("app: AddServer called before the pipeline is wired")
	}

	var client *redis.Client
	if a.redis != nil {
		client = a.redis.Client()
	}
	limiter, err := ratelimit.New(a.Cfg.RateLimit, client, a.Logger)
	if err != nil {
		return nil, err
	}

	srv := server.New(a.Cfg.Server, a.Logger)
	srv.RegisterOperational(a.Name, a.Health, a.Metrics.Handler())
	srv.RegisterAPI(server.API{
		Transcriber: a.service,
		Records:     a.store,
		Limiter:     limiter,
		LocalPaths:  localPaths,
	})
	if err := a.Components.Register(server.NewComponent(srv)); err != nil {
		return nil, err
	}
	return srv, nil
}

// AddWatcher builds the inbox watcher over the wired pipeline and
// registers it as a component. Call it from an OnConfigure callback.
func (a *App) AddWatcher() (*watcher.Watcher, error) {
	if a.service == nil {
		return nil, fmt.Errorf("app: AddWatcher called before the pipeline is wired")
	}
	w, err := watcher.New(a.Cfg.Watch, a.service, a.Logger)
	if err != nil {
		return nil, err
	}
	if err := a.Components.Register(watcher.NewComponent(w)); err != nil {
		return nil, err
	}
	return w, nil
}
