package output

import (
	"context"
	"strings"

	"git.home.luguber.info/inful/sitegraph/internal/config"
)

// Multi writes to each sink in order and stops at the first failure.
type Multi []Sink

func (m Multi) Write(ctx context.Context, res *Result) error {
	for _, s := range m {
		if err := s.Write(ctx, res); err != nil {
			return err
		}
	}
	return nil
}

func (m Multi) Describe() string {
	names := make([]string, len(m))
	for i, s := range m {
		names[i] = s.Describe()
	}
	return strings.Join(names, ",")
}

// New builds the sinks named by the output configuration: always the
// local directory, plus S3 when configured.
func New(cfg config.OutputConfig) Sink {
	sinks := Multi{NewFSSink(cfg)}
	if cfg.S3 != nil {
		sinks = append(sinks, NewS3Sink(NewS3Client(cfg.S3), cfg.S3.Bucket, cfg.S3.Prefix, cfg.Format))
	}
	return sinks
}
