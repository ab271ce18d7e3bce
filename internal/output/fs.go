package output

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"

	"git.home.luguber.info/inful/sitegraph/internal/config"
	"git.home.luguber.info/inful/sitegraph/internal/foundation/errors"
	"git.home.luguber.info/inful/sitegraph/internal/logfields"
)

// FSSink writes artifacts into a local directory. Each file is replaced
// atomically so readers never observe a half-written table.
type FSSink struct {
	Dir    string
	Format config.OutputFormat
	Clean  bool
}

func NewFSSink(cfg config.OutputConfig) *FSSink {
	return &FSSink{Dir: cfg.Directory, Format: cfg.Format, Clean: cfg.Clean}
}

func (s *FSSink) Describe() string { return "fs:" + s.Dir }

func (s *FSSink) Write(ctx context.Context, res *Result) error {
	artifacts, _, err := Render(res, s.Format)
	if err != nil {
		return err
	}

	if s.Clean {
		if err := os.RemoveAll(s.Dir); err != nil {
			return s.fail(err, "failed to clean output directory")
		}
	}
	if err := os.MkdirAll(s.Dir, 0o750); err != nil {
		return s.fail(err, "failed to create output directory")
	}

	for _, a := range artifacts {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := writeAtomic(filepath.Join(s.Dir, a.Name), a.Data); err != nil {
			return s.fail(err, "failed to write "+a.Name)
		}
		slog.Debug("Wrote artifact", logfields.Path(filepath.Join(s.Dir, a.Name)), slog.Int("bytes", len(a.Data)))
	}
	return nil
}

func (s *FSSink) fail(err error, msg string) error {
	return errors.WrapError(err, errors.CategoryOutput, msg).WithContext("dir", s.Dir).Build()
}

func writeAtomic(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return err
	}
	name := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(name)
		return err
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(name)
		return err
	}
	if err := os.Chmod(name, 0o644); err != nil {
		_ = os.Remove(name)
		return err
	}
	return os.Rename(name, path)
}
