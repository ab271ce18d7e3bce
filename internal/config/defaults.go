package config

import "time"

const (
	DefaultTemplateDir  = "./src/templates"
	DefaultClientPrefix = "/app"
	DefaultOutputDir    = "./.sitegraph/out"
	DefaultSubject      = "sitegraph.build.completed"
	DefaultAdminAddr    = "127.0.0.1:9464"
	DefaultTimeout      = 30 * time.Second
	DefaultDebounce     = 2 * time.Second
)

// applyDefaults fills every field left empty by the file or reset by
// normalization.
func applyDefaults(c *Config) {
	if c.Source.Kind == "" {
		if c.Source.Endpoint != "" && c.Source.Path == "" {
			c.Source.Kind = SourceGraphQL
		} else {
			c.Source.Kind = SourceFile
		}
	}
	if c.Source.Timeout == "" {
		c.Source.Timeout = DefaultTimeout.String()
	}
	r := &c.Source.Retry
	if r.Backoff == "" {
		r.Backoff = RetryBackoffLinear
	}
	if r.InitialDelay == "" {
		r.InitialDelay = "1s"
	}
	if r.MaxDelay == "" {
		r.MaxDelay = "30s"
	}

	if c.Output.Directory == "" {
		c.Output.Directory = DefaultOutputDir
	}
	if c.Output.Format == "" {
		c.Output.Format = OutputJSON
	}
	if c.Templates.Directory == "" {
		c.Templates.Directory = DefaultTemplateDir
	}
	if c.ClientRoutes.Prefix == "" {
		c.ClientRoutes.Prefix = DefaultClientPrefix
	}

	if c.Daemon != nil {
		if c.Daemon.Debounce == "" {
			c.Daemon.Debounce = DefaultDebounce.String()
		}
		if c.Daemon.AdminAddr == "" {
			c.Daemon.AdminAddr = DefaultAdminAddr
		}
	}
	if c.Notify != nil && c.Notify.Subject == "" {
		c.Notify.Subject = DefaultSubject
	}
	if c.Monitoring != nil {
		if c.Monitoring.Logging.Level == "" {
			c.Monitoring.Logging.Level = LogLevelInfo
		}
		if c.Monitoring.Logging.Format == "" {
			c.Monitoring.Logging.Format = LogFormatText
		}
	}
}
