package config

import (
	"fmt"
	"strings"
)

// NormalizationResult captures adjustments and warnings from the
// normalization pass.
type NormalizationResult struct{ Warnings []string }

// NormalizeConfig canonicalizes enumerated fields and trims paths before
// defaults are applied. Unknown enum values are reset to empty so the
// defaults pass picks them up, with a warning.
func NormalizeConfig(c *Config) *NormalizationResult {
	res := &NormalizationResult{}

	c.Source.Kind = normalizeEnum(res, "source.kind", c.Source.Kind, sourceKinds.Normalize)
	c.Source.Retry.Backoff = normalizeEnum(res, "source.retry.backoff", c.Source.Retry.Backoff, retryBackoffs.Normalize)
	c.Output.Format = normalizeEnum(res, "output.format", c.Output.Format, NormalizeOutputFormat)

	if c.Monitoring != nil {
		c.Monitoring.Logging.Level = normalizeEnum(res, "monitoring.logging.level", c.Monitoring.Logging.Level, logLevels.Normalize)
		c.Monitoring.Logging.Format = normalizeEnum(res, "monitoring.logging.format", c.Monitoring.Logging.Format, logFormats.Normalize)
	}

	c.Source.Endpoint = strings.TrimSpace(c.Source.Endpoint)
	c.Source.Path = strings.TrimSpace(c.Source.Path)
	c.Output.Directory = strings.TrimSpace(c.Output.Directory)
	if c.ClientRoutes.Prefix != "" {
		p := "/" + strings.Trim(strings.TrimSpace(c.ClientRoutes.Prefix), "/")
		if p != c.ClientRoutes.Prefix {
			res.Warnings = append(res.Warnings, warnChanged("client_routes.prefix", c.ClientRoutes.Prefix, p))
			c.ClientRoutes.Prefix = p
		}
	}
	if c.Source.Retry.MaxRetries < 0 {
		res.Warnings = append(res.Warnings, warnChanged("source.retry.max_retries", c.Source.Retry.MaxRetries, 0))
		c.Source.Retry.MaxRetries = 0
	}
	return res
}

func normalizeEnum[T ~string](res *NormalizationResult, field string, v T, norm func(string) (T, bool)) T {
	if strings.TrimSpace(string(v)) == "" {
		return ""
	}
	canonical, ok := norm(string(v))
	if !ok {
		res.Warnings = append(res.Warnings, warnUnknown(field, string(v)))
		return ""
	}
	if canonical != v {
		res.Warnings = append(res.Warnings, warnChanged(field, v, canonical))
	}
	return canonical
}

func warnChanged(field string, from, to any) string {
	return fmt.Sprintf("normalized %s from '%v' to '%v'", field, from, to)
}

func warnUnknown(field, value string) string {
	return fmt.Sprintf("unknown %s '%s', using default", field, value)
}
