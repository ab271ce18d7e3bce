package fetch

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"git.home.luguber.info/inful/sitegraph/internal/foundation/errors"
)

// FileFetcher reads a snapshot saved to disk. Files ending in .yaml or .yml
// are converted to JSON so the decoder sees one format.
type FileFetcher struct {
	Path string
}

func NewFileFetcher(path string) *FileFetcher { return &FileFetcher{Path: path} }

func (f *FileFetcher) Describe() string { return "file:" + f.Path }

func (f *FileFetcher) Fetch(ctx context.Context) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(f.Path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.ConfigError("snapshot file not found").WithContext("path", f.Path).Build()
		}
		return nil, errors.WrapError(err, errors.CategoryFetch, "failed to read snapshot file").
			WithContext("path", f.Path).
			Build()
	}

	switch strings.ToLower(filepath.Ext(f.Path)) {
	case ".yaml", ".yml":
		return yamlToJSON(data, f.Path)
	default:
		return data, nil
	}
}

func yamlToJSON(data []byte, path string) ([]byte, error) {
	var v any
	if err := yaml.Unmarshal(data, &v); err != nil {
		return nil, errors.WrapError(err, errors.CategorySnapshot, "snapshot is not valid YAML").
			Fatal().
			WithContext("path", path).
			Build()
	}
	out, err := json.Marshal(v)
	if err != nil {
		// yaml.v3 yields map[string]any for string keys; non-string keys end up here.
		return nil, errors.WrapError(err, errors.CategorySnapshot, "snapshot YAML cannot be represented as JSON").
			Fatal().
			WithContext("path", path).
			Build()
	}
	return out, nil
}
