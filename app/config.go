package app

import (
	"fmt"

	"github.com/kbukum/scribe/audio"
	"github.com/kbukum/scribe/config"
	"github.com/kbukum/scribe/database"
	"github.com/kbukum/scribe/defect"
	"github.com/kbukum/scribe/llm"
	"github.com/kbukum/scribe/observability"
	"github.com/kbukum/scribe/pipeline"
	"github.com/kbukum/scribe/ratelimit"
	"github.com/kbukum/scribe/redis"
	"github.com/kbukum/scribe/server"
	"github.com/kbukum/scribe/storage"
	"github.com/kbukum/scribe/summary"
	"github.com/kbukum/scribe/transcription"
	"github.com/kbukum/scribe/watcher"
)

// Config is the complete scribe configuration.
//
//	name: scribe
//	environment: production
//	transcription:
//	  provider: openai
//	  use_production_service: true
//	summary:
//	  enabled: true
type Config struct {
	config.ServiceConfig `yaml:",inline" mapstructure:",squash"`

	Database      database.Config            `yaml:"database" mapstructure:"database"`
	Redis         redis.Config               `yaml:"redis" mapstructure:"redis"`
	RateLimit     ratelimit.Config           `yaml:"ratelimit" mapstructure:"ratelimit"`
	Storage       storage.Config             `yaml:"storage" mapstructure:"storage"`
	Audio         audio.Config               `yaml:"audio" mapstructure:"audio"`
	Transcription transcription.Config       `yaml:"transcription" mapstructure:"transcription"`
	Defect        defect.Thresholds          `yaml:"defect" mapstructure:"defect"`
	LLM           llm.Config                 `yaml:"llm" mapstructure:"llm"`
	Summary       summary.Config             `yaml:"summary" mapstructure:"summary"`
	Tracing       observability.TracerConfig `yaml:"tracing" mapstructure:"tracing"`
	Server        server.Config              `yaml:"server" mapstructure:"server"`
	Pipeline      pipeline.Config            `yaml:"pipeline" mapstructure:"pipeline"`
	Watch         watcher.Config             `yaml:"watch" mapstructure:"watch"`
}

// Load reads the configuration from an optional YAML file, an optional
// .env file and the environment, then applies defaults and validates it.
func Load(configFile, envFile string) (*Config, error) {
	var opts []config.LoaderOption
	if configFile != "" {
		opts = append(opts, config.WithConfigFile(configFile))
	}
	if envFile != "" {
		opts = append(opts, config.WithEnvFile(envFile))
	}

	cfg := &Config{}
	if err := config.LoadConfig("scribe", cfg, opts...); err != nil {
		return nil, err
	}
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// GetServiceConfig returns the embedded base configuration.
func (c *Config) GetServiceConfig() *config.ServiceConfig {
	return &c.ServiceConfig
}

// ApplyDefaults applies defaults to every section.
func (c *Config) ApplyDefaults() {
	c.ServiceConfig.ApplyDefaults()
	c.Database.ApplyDefaults()
	c.Redis.ApplyDefaults()
	c.RateLimit.ApplyDefaults()
	c.Storage.ApplyDefaults()
	c.Audio.ApplyDefaults()
	c.Transcription.ApplyDefaults()
	c.Defect.ApplyDefaults()
	c.LLM.ApplyDefaults()
	c.Summary.ApplyDefaults()
	c.Tracing.ApplyDefaults(c.Name)
	c.Server.ApplyDefaults()
	c.Pipeline.ApplyDefaults()
	c.Watch.ApplyDefaults()
	if c.Tracing.Environment == "" || c.Tracing.Environment == "development" {
		c.Tracing.Environment = c.Environment
	}
}

type section struct {
	name     string
	validate func() error
}

// Validate checks every section that is in use. The watch section is
// checked when a watcher is created.
func (c *Config) Validate() error {
	sections := []section{
		{"service", c.ServiceConfig.Validate},
		{"database", c.Database.Validate},
		{"audio", c.Audio.Validate},
		{"transcription", c.Transcription.Validate},
		{"defect", c.Defect.Validate},
		{"tracing", c.Tracing.Validate},
		{"server", c.Server.Validate},
		{"pipeline", c.Pipeline.Validate},
	}
	if c.Redis.Enabled {
		sections = append(sections, section{"redis", c.Redis.Validate})
	}
	if c.RateLimit.Enabled {
		sections = append(sections, section{"ratelimit", c.RateLimit.Validate})
	}
	if c.Storage.Enabled {
		sections = append(sections, section{"storage", c.Storage.Validate})
	}
	if c.Summary.Enabled {
		sections = append(sections, section{"summary", c.Summary.Validate}, section{"llm", c.LLM.Validate})
	}

	for _, s := range sections {
		if err := s.validate(); err != nil {
			return fmt.Errorf("config.%s: %w", s.name, err)
		}
	}
	if c.RateLimit.Enabled && c.RateLimit.Backend == ratelimit.BackendRedis && !c.Redis.Enabled {
		return fmt.Errorf("config.ratelimit: redis backend requires redis.enabled")
	}
	return nil
}
