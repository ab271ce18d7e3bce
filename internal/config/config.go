package config

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"git.home.luguber.info/inful/sitegraph/internal/foundation/errors"
)

// SupportedVersion is the only accepted configuration version.
const SupportedVersion = "1.0"

// DefaultPath is the configuration file looked up when none is given.
const DefaultPath = "sitegraph.yaml"

// Config is the sitegraph configuration file.
type Config struct {
	Version      string             `yaml:"version"`
	Source       SourceConfig       `yaml:"source"`
	Output       OutputConfig       `yaml:"output"`
	Templates    TemplatesConfig    `yaml:"templates"`
	Routes       RoutesConfig       `yaml:"routes"`
	ClientRoutes ClientRoutesConfig `yaml:"client_routes"`
	Daemon       *DaemonConfig      `yaml:"daemon,omitempty"`
	Notify       *NotifyConfig      `yaml:"notify,omitempty"`
	Monitoring   *MonitoringConfig  `yaml:"monitoring,omitempty"`
	EventStore   EventStoreConfig   `yaml:"eventstore"`
}

// SourceConfig selects where the content graph snapshot comes from.
type SourceConfig struct {
	Kind     SourceKind  `yaml:"kind"`               // file|graphql
	Path     string      `yaml:"path,omitempty"`     // snapshot file (kind=file)
	Endpoint string      `yaml:"endpoint,omitempty"` // GraphQL endpoint (kind=graphql)
	Token    string      `yaml:"token,omitempty"`    // bearer token, usually ${CMS_TOKEN}
	Timeout  string      `yaml:"timeout,omitempty"`  // per-request timeout, e.g. "30s"
	Retry    RetryConfig `yaml:"retry"`
}

// RetryConfig tunes retries of transient fetch failures.
type RetryConfig struct {
	Backoff      RetryBackoffMode `yaml:"backoff"`
	InitialDelay string           `yaml:"initial_delay"`
	MaxDelay     string           `yaml:"max_delay"`
	MaxRetries   int              `yaml:"max_retries"`
}

// OutputConfig controls where compiled tables are written.
type OutputConfig struct {
	Directory string       `yaml:"directory"`
	Format    OutputFormat `yaml:"format"` // json|yaml
	Clean     bool         `yaml:"clean"`
	S3        *S3Config    `yaml:"s3,omitempty"`
}

// S3Config uploads the compiled tables to an S3 compatible bucket in
// addition to the local directory.
type S3Config struct {
	Bucket    string `yaml:"bucket"`
	Prefix    string `yaml:"prefix,omitempty"`
	Region    string `yaml:"region,omitempty"`
	Endpoint  string `yaml:"endpoint,omitempty"` // custom endpoint for MinIO and friends
	PathStyle bool   `yaml:"path_style,omitempty"`
}

// TemplatesConfig resolves template identifiers to component paths.
type TemplatesConfig struct {
	Directory string `yaml:"directory"`
}

// RoutesConfig tunes route table compilation.
type RoutesConfig struct {
	// StrictPaths fails the build when distinct nodes compile to one path
	// instead of warning.
	StrictPaths bool `yaml:"strict_paths"`
}

// ClientRoutesConfig sets the reserved application prefix.
type ClientRoutesConfig struct {
	Prefix string `yaml:"prefix"`
}

// DaemonConfig configures watch mode and scheduled recompilation.
type DaemonConfig struct {
	Interval  string `yaml:"interval"`   // rebuild interval, e.g. "15m"; empty disables
	Watch     bool   `yaml:"watch"`      // recompile when the snapshot file changes
	Debounce  string `yaml:"debounce"`   // quiet period before a watch-triggered build
	AdminAddr string `yaml:"admin_addr"` // admin HTTP listen address
}

// NotifyConfig publishes build completions.
type NotifyConfig struct {
	NATSURL string `yaml:"nats_url"`
	Subject string `yaml:"subject"`
}

// MonitoringConfig represents monitoring and observability configuration.
type MonitoringConfig struct {
	Metrics MonitoringMetrics `yaml:"metrics"`
	Logging MonitoringLogging `yaml:"logging"`
}

// MonitoringMetrics toggles the Prometheus recorder.
type MonitoringMetrics struct {
	Enabled bool `yaml:"enabled"`
}

// MonitoringLogging represents logging configuration.
type MonitoringLogging struct {
	Level  LogLevel  `yaml:"level"`
	Format LogFormat `yaml:"format"`
}

// EventStoreConfig locates the build history database. An empty path
// disables history.
type EventStoreConfig struct {
	Path string `yaml:"path"`
}

// Load reads, expands, normalizes, defaults and validates a configuration file.
func Load(configPath string) (*Config, error) {
	loadEnvFiles()

	data, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.ConfigError("configuration file not found").
				WithContext("path", configPath).
				Build()
		}
		return nil, errors.WrapError(err, errors.CategoryConfig, "failed to read config file").
			WithContext("path", configPath).
			Build()
	}
	return Parse(data)
}

// Parse builds a Config from YAML bytes. ${VAR} references are expanded from
// the process environment first.
func Parse(data []byte) (*Config, error) {
	expanded := os.ExpandEnv(string(data))

	var cfg Config
	if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
		return nil, errors.WrapError(err, errors.CategoryConfig, "failed to unmarshal config").
			Fatal().
			UserAction().
			Build()
	}

	if cfg.Version != SupportedVersion {
		msg := fmt.Sprintf("unsupported configuration version: %q (expected %s)", cfg.Version, SupportedVersion)
		return nil, errors.ConfigError(msg).Build()
	}

	if err := finalize(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// ForSnapshot returns a default configuration reading the snapshot file at
// path. It is used when no configuration file exists.
func ForSnapshot(path string) (*Config, error) {
	cfg := &Config{
		Version: SupportedVersion,
		Source:  SourceConfig{Kind: SourceFile, Path: path},
	}
	if err := finalize(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func finalize(cfg *Config) error {
	nres := NormalizeConfig(cfg)
	for _, w := range nres.Warnings {
		slog.Warn("Config normalization", slog.String("detail", w))
	}
	applyDefaults(cfg)
	return ValidateConfig(cfg)
}

// Init writes an example configuration file.
func Init(configPath string, force bool) error {
	if _, err := os.Stat(configPath); err == nil && !force {
		return errors.ConfigError("configuration file already exists (use --force to overwrite)").
			WithContext("path", configPath).
			Build()
	}

	data, err := yaml.Marshal(Example())
	if err != nil {
		return errors.WrapError(err, errors.CategoryInternal, "failed to marshal example config").Build()
	}
	header := "# sitegraph configuration\n# Values of the form ${VAR} are read from the environment or .env files.\n"
	if err := os.WriteFile(configPath, append([]byte(header), data...), 0o600); err != nil {
		return errors.WrapError(err, errors.CategoryConfig, "failed to write config file").
			WithContext("path", configPath).
			Build()
	}
	return nil
}

// Example returns the configuration written by Init.
func Example() *Config {
	return &Config{
		Version: SupportedVersion,
		Source: SourceConfig{
			Kind:     SourceGraphQL,
			Endpoint: "https://cms.example.com/graphql",
			Token:    "${CMS_TOKEN}",
			Timeout:  "30s",
			Retry: RetryConfig{
				Backoff:      RetryBackoffExponential,
				InitialDelay: "1s",
				MaxDelay:     "30s",
				MaxRetries:   3,
			},
		},
		Output: OutputConfig{
			Directory: "./public/__sitegraph",
			Format:    OutputJSON,
			Clean:     true,
		},
		Templates:    TemplatesConfig{Directory: DefaultTemplateDir},
		ClientRoutes: ClientRoutesConfig{Prefix: DefaultClientPrefix},
		Daemon: &DaemonConfig{
			Interval:  "15m",
			Debounce:  "2s",
			AdminAddr: "127.0.0.1:9464",
		},
		Monitoring: &MonitoringConfig{
			Metrics: MonitoringMetrics{Enabled: true},
			Logging: MonitoringLogging{Level: LogLevelInfo, Format: LogFormatText},
		},
		EventStore: EventStoreConfig{Path: "./.sitegraph/history.db"},
	}
}

// TimeoutDuration returns the parsed request timeout.
func (s SourceConfig) TimeoutDuration() time.Duration {
	return parseDurationOr(s.Timeout, DefaultTimeout)
}

// IntervalDuration returns the scheduled rebuild interval, zero when disabled.
func (d *DaemonConfig) IntervalDuration() time.Duration {
	if d == nil {
		return 0
	}
	return parseDurationOr(d.Interval, 0)
}

// DebounceDuration returns the watch debounce period.
func (d *DaemonConfig) DebounceDuration() time.Duration {
	if d == nil {
		return DefaultDebounce
	}
	return parseDurationOr(d.Debounce, DefaultDebounce)
}

// LoggingConfig returns the logging section, or the defaults when
// monitoring is not configured.
func (c *Config) LoggingConfig() MonitoringLogging {
	if c.Monitoring == nil {
		return MonitoringLogging{Level: LogLevelInfo, Format: LogFormatText}
	}
	return c.Monitoring.Logging
}

// MetricsEnabled reports whether the Prometheus recorder should be used.
func (c *Config) MetricsEnabled() bool {
	return c.Monitoring != nil && c.Monitoring.Metrics.Enabled
}

func parseDurationOr(raw string, def time.Duration) time.Duration {
	if raw == "" {
		return def
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return def
	}
	return d
}
