package app

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/kbukum/scribe/adaptive"
	"github.com/kbukum/scribe/audio"
	"github.com/kbukum/scribe/component"
	"github.com/kbukum/scribe/database"
	"github.com/kbukum/scribe/defect"
	"github.com/kbukum/scribe/llm"
	_ "github.com/kbukum/scribe/llm/ollama"
	_ "github.com/kbukum/scribe/llm/openai"
	"github.com/kbukum/scribe/logger"
	"github.com/kbukum/scribe/metrics"
	"github.com/kbukum/scribe/observability"
	"github.com/kbukum/scribe/pipeline"
	"github.com/kbukum/scribe/record"
	"github.com/kbukum/scribe/redis"
	"github.com/kbukum/scribe/storage"
	"github.com/kbukum/scribe/summary"
	"github.com/kbukum/scribe/transcription"
	"github.com/kbukum/scribe/transcription/openai"
	"github.com/kbukum/scribe/transcription/whisper"
)

// App owns the configuration, the component registry and the wired
// pipeline of one scribe process.
//
//	a, _ := app.New(cfg)
//	a.OnConfigure(func(ctx context.Context, a *app.App) error {
//	    _, err := a.AddServer(false)
//	    return err
//	})
//	a.Run(ctx)
type App struct {
	Name       string
	Version    string
	Cfg        *Config
	Components *component.Registry
	Logger     *logger.Logger
	Metrics    *metrics.Metrics

	database *database.Component
	redis    *redis.Component
	storage  *storage.Component

	opts    *appOptions
	store   *record.Store
	service *pipeline.Service

	gracefulTimeout time.Duration
	stopTracer      func(context.Context) error
	onConfigure     []func(ctx context.Context, app *App) error
	onReady         []Hook
	onStop          []Hook
	started         time.Time
}

// New creates an application from cfg. It applies defaults, validates
// the config, initializes the logger and registers the infrastructure
// components. Nothing is started yet.
func New(cfg *Config, opts ...Option) (*App, error) {
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}

	o := resolveOptions(opts)
	a := &App{
		Name:            cfg.Name,
		Version:         cfg.Version,
		Cfg:             cfg,
		opts:            o,
		gracefulTimeout: time.Duration(cfg.Server.ShutdownTimeout)*time.Second + 5*time.Second,
	}
	if o.gracefulTimeout != nil {
		a.gracefulTimeout = *o.gracefulTimeout
	}

	if o.logger != nil {
		a.Logger = o.logger
	} else {
		logger.Init(cfg.Logging, cfg.Name)
		a.Logger = logger.GetGlobalLogger()
	}
	a.Metrics = o.metrics
	if a.Metrics == nil {
		a.Metrics = metrics.New()
	}

	a.Components = component.NewRegistry(a.Logger)
	a.database = database.NewComponent(cfg.Database, a.Logger).WithMigrations(record.Migrations())
	if err := a.Components.Register(a.database); err != nil {
		return nil, err
	}
	if cfg.Redis.Enabled {
		a.redis = redis.NewComponent(cfg.Redis, a.Logger)
		if err := a.Components.Register(a.redis); err != nil {
			return nil, err
		}
	}
	if cfg.Storage.Enabled {
		a.storage = storage.NewComponent(cfg.Storage, a.Logger)
		if err := a.Components.Register(a.storage); err != nil {
			return nil, err
		}
	}
	return a, nil
}

// Service returns the wired pipeline. It is nil before startup.
func (a *App) Service() *pipeline.Service { return a.service }

// Store returns the record store. It is nil before startup.
func (a *App) Store() *record.Store { return a.store }

// Health aggregates the health of every registered component.
func (a *App) Health(ctx context.Context) *observability.ServiceHealth {
	return a.Components.Health(ctx, a.Name, a.Version)
}

// Run starts everything, blocks until SIGINT/SIGTERM or ctx is done, then
// shuts down gracefully.
func (a *App) Run(ctx context.Context) error {
	if err := a.startup(ctx); err != nil {
		return errors.Join(err, a.stop())
	}

	a.Logger.Info("Application ready, waiting for shutdown signal")
	a.WaitForSignal(ctx)
	return a.stop()
}

// RunTask starts everything, runs task and shuts down when it returns.
// SIGINT/SIGTERM cancel the task's context.
func (a *App) RunTask(ctx context.Context, task func(ctx context.Context) error) error {
	if err := a.startup(ctx); err != nil {
		return errors.Join(err, a.stop())
	}

	taskCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	go func() {
		select {
		case sig := <-sigCh:
			a.Logger.Info("Received signal, canceling task", map[string]interface{}{
				"signal": sig.String(),
			})
			cancel()
		case <-taskCtx.Done():
		}
	}()

	taskErr := task(taskCtx)
	if stopErr := a.stop(); stopErr != nil && taskErr == nil {
		return stopErr
	}
	return taskErr
}

// WaitForSignal blocks until an OS interrupt/term signal or context cancellation.
func (a *App) WaitForSignal(ctx context.Context) os.Signal {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	select {
	case sig := <-sigCh:
		a.Logger.Info("Received shutdown signal, graceful shutdown starting", map[string]interface{}{
			"signal": sig.String(),
		})
		return sig
	case <-ctx.Done():
		a.Logger.Info("Context canceled, shutting down")
		return nil
	}
}

// startup runs the phases shared by Run and RunTask: tracing, the
// infrastructure components, pipeline wiring, configure callbacks and
// the components they registered.
func (a *App) startup(ctx context.Context) error {
	a.started = time.Now()
	a.Logger.Info("Starting application", map[string]interface{}{
		"name":        a.Name,
		"version":     a.Version,
		"environment": a.Cfg.Environment,
	})

	stopTracer, err := observability.InitTracer(ctx, a.Cfg.Tracing)
	if err != nil {
		return fmt.Errorf("tracing: %w", err)
	}
	a.stopTracer = stopTracer

	a.Logger.Info("Phase 1: Starting infrastructure")
	if err := a.Components.StartAll(ctx); err != nil {
		return fmt.Errorf("initialization failed: %w", err)
	}

	a.Logger.Info("Phase 2: Wiring pipeline")
	if err := a.wire(); err != nil {
		return fmt.Errorf("wiring failed: %w", err)
	}
	for _, fn := range a.onConfigure {
		if err := fn(ctx, a); err != nil {
			return fmt.Errorf("configuration failed: %w", err)
		}
	}

	a.Logger.Info("Phase 3: Starting surfaces")
	if err := a.Components.StartAll(ctx); err != nil {
		return fmt.Errorf("surface start failed: %w", err)
	}

	if err := runHooks(ctx, a.onReady); err != nil {
		return fmt.Errorf("onReady hook failed: %w", err)
	}
	a.logStartup(ctx)
	return nil
}

// wire builds the record store, the transcription driver, the optional
// summary enricher and the pipeline service over the started infrastructure.
func (a *App) wire() error {
	cfg := a.Cfg
	a.store = record.NewStore(a.database.DB())

	provider := a.opts.provider
	if provider == nil {
		reg := transcription.NewRegistry()
		reg.Register(openai.ProviderName, openai.Factory())
		reg.Register(whisper.ProviderName, whisper.Factory())
		p, err := reg.Create(cfg.Transcription)
		if err != nil {
			return err
		}
		provider = p
	}

	media := a.opts.media
	if media == nil {
		media = audio.NewFFmpeg(cfg.Audio)
	}

	driver, err := adaptive.NewDriver(cfg.Transcription, cfg.Audio, adaptive.Deps{
		Provider: provider,
		Media:    media,
		Detector: defect.New(cfg.Defect),
		Metrics:  a.Metrics,
		Logger:   a.Logger,
	})
	if err != nil {
		return err
	}

	deps := pipeline.Deps{
		Driver:  driver,
		Records: a.store,
		Metrics: a.Metrics,
		Logger:  a.Logger,
	}
	if a.storage != nil {
		deps.Storage = a.storage.Storage()
	}
	if cfg.Summary.Enabled {
		completer := a.opts.completer
		if completer == nil {
			llmCfg := cfg.LLM
			if cfg.Summary.Model != "" {
				llmCfg.Model = cfg.Summary.Model
			}
			adapter, err := llm.New(llmCfg)
			if err != nil {
				return err
			}
			completer = adapter
		}
		deps.Enricher = summary.NewGenerator(completer, a.store, cfg.Summary, a.Logger)
	}

	svc, err := pipeline.NewService(cfg.Pipeline, deps)
	if err != nil {
		return err
	}
	a.service = svc
	return nil
}

// stop runs the stop hooks, stops every component in reverse order and
// flushes traces, all within the graceful timeout.
func (a *App) stop() error {
	a.Logger.Info("Shutting down application", map[string]interface{}{
		"timeout": a.gracefulTimeout.String(),
	})

	ctx, cancel := context.WithTimeout(context.Background(), a.gracefulTimeout)
	defer cancel()

	var errs []error
	if err := runHooks(ctx, a.onStop); err != nil {
		errs = append(errs, err)
	}
	if err := a.Components.StopAll(ctx); err != nil {
		errs = append(errs, err)
	}
	if a.stopTracer != nil {
		if err := a.stopTracer(ctx); err != nil {
			errs = append(errs, fmt.Errorf("tracer shutdown: %w", err))
		}
	}

	err := errors.Join(errs...)
	if err != nil {
		a.Logger.Error("Shutdown completed with errors", map[string]interface{}{"error": err.Error()})
		return err
	}
	a.Logger.Info("Application stopped")
	return nil
}
