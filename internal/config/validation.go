package config

import (
	"net/url"
	"strings"
	"time"

	"git.home.luguber.info/inful/sitegraph/internal/foundation/errors"
)

// ValidateConfig checks a defaulted configuration. The first problem found
// is returned as a validation error naming the offending field.
func ValidateConfig(c *Config) error {
	checks := []func(*Config) error{
		validateSource,
		validateOutput,
		validateDaemon,
		validateNotify,
	}
	for _, check := range checks {
		if err := check(c); err != nil {
			return err
		}
	}
	return nil
}

func invalid(field, msg string) error {
	return errors.ValidationError(msg).WithContext("field", field).Build()
}

func validateSource(c *Config) error {
	s := c.Source
	switch s.Kind {
	case SourceFile:
		if s.Path == "" {
			return invalid("source.path", "source.path is required for kind file")
		}
	case SourceGraphQL:
		if s.Endpoint == "" {
			return invalid("source.endpoint", "source.endpoint is required for kind graphql")
		}
		u, err := url.Parse(s.Endpoint)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			return invalid("source.endpoint", "source.endpoint must be an absolute http(s) URL")
		}
	default:
		return invalid("source.kind", "source.kind must be one of "+strings.Join(sourceKinds.Valid(), ", "))
	}

	if err := validDuration("source.timeout", s.Timeout, true); err != nil {
		return err
	}
	if err := validDuration("source.retry.initial_delay", s.Retry.InitialDelay, true); err != nil {
		return err
	}
	if err := validDuration("source.retry.max_delay", s.Retry.MaxDelay, true); err != nil {
		return err
	}
	return nil
}

func validateOutput(c *Config) error {
	if c.Output.Directory == "/" {
		return invalid("output.directory", "output.directory must not be the filesystem root")
	}
	if s3 := c.Output.S3; s3 != nil {
		if s3.Bucket == "" {
			return invalid("output.s3.bucket", "output.s3.bucket is required when output.s3 is set")
		}
		if s3.Endpoint != "" {
			if u, err := url.Parse(s3.Endpoint); err != nil || u.Host == "" {
				return invalid("output.s3.endpoint", "output.s3.endpoint must be an absolute URL")
			}
		}
	}
	return nil
}

func validateDaemon(c *Config) error {
	d := c.Daemon
	if d == nil {
		return nil
	}
	if err := validDuration("daemon.interval", d.Interval, true); err != nil {
		return err
	}
	if err := validDuration("daemon.debounce", d.Debounce, false); err != nil {
		return err
	}
	if d.Watch && c.Source.Kind != SourceFile {
		return invalid("daemon.watch", "daemon.watch requires source.kind file")
	}
	if d.Interval == "" && !d.Watch {
		return invalid("daemon", "daemon needs an interval, watch, or both")
	}
	return nil
}

func validateNotify(c *Config) error {
	n := c.Notify
	if n == nil {
		return nil
	}
	if n.NATSURL == "" {
		return invalid("notify.nats_url", "notify.nats_url is required when notify is set")
	}
	if strings.ContainsAny(n.Subject, " \t*>") {
		return invalid("notify.subject", "notify.subject must be a literal NATS subject")
	}
	return nil
}

// validDuration accepts an empty value only when optional. Zero and negative
// durations are rejected.
func validDuration(field, raw string, optional bool) error {
	if raw == "" {
		if optional {
			return nil
		}
		return invalid(field, field+" is required")
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return invalid(field, field+" is not a valid duration")
	}
	if d <= 0 {
		return invalid(field, field+" must be positive")
	}
	return nil
}
