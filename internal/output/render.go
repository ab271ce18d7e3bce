// Package output renders compiled tables and writes them to sinks.
package output

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"time"

	"gopkg.in/yaml.v3"

	"git.home.luguber.info/inful/sitegraph/internal/config"
	"git.home.luguber.info/inful/sitegraph/internal/foundation/errors"
	"git.home.luguber.info/inful/sitegraph/internal/redirects"
	"git.home.luguber.info/inful/sitegraph/internal/routes"
)

// Artifact file names. The manifest is always JSON.
const (
	RoutesBase    = "routes"
	RedirectsBase = "redirects"
	ManifestName  = "manifest.json"
)

// Sink persists the rendered artifacts of one build.
type Sink interface {
	Write(ctx context.Context, res *Result) error
	Describe() string
}

// Result is what a build hands to its sinks.
type Result struct {
	BuildID     string
	GeneratedAt time.Time
	Pages       []routes.PageDescriptor
	Redirects   []redirects.Rule
	TemplateDir string
}

// RouteRecord is a page descriptor with its template resolved to the
// component path the site generator loads.
type RouteRecord struct {
	Path      string         `json:"path" yaml:"path"`
	Template  string         `json:"template" yaml:"template"`
	Component string         `json:"component" yaml:"component"`
	Context   map[string]any `json:"context" yaml:"context"`
	MatchPath string         `json:"matchPath,omitempty" yaml:"matchPath,omitempty"`
}

// ArtifactInfo describes one written table in the manifest.
type ArtifactInfo struct {
	SHA256 string `json:"sha256"`
	Bytes  int    `json:"bytes"`
}

// Manifest lets consumers detect table changes without diffing them.
type Manifest struct {
	BuildID     string                  `json:"build_id"`
	GeneratedAt time.Time               `json:"generated_at"`
	Format      config.OutputFormat     `json:"format"`
	Pages       int                     `json:"pages"`
	Redirects   int                     `json:"redirects"`
	Artifacts   map[string]ArtifactInfo `json:"artifacts"`
}

// Artifact is one rendered file.
type Artifact struct {
	Name        string
	ContentType string
	Data        []byte
}

// Records resolves every descriptor's template to a component path.
func Records(pages []routes.PageDescriptor, templateDir string) []RouteRecord {
	out := make([]RouteRecord, len(pages))
	for i, p := range pages {
		ctx := p.Context
		if ctx == nil {
			ctx = map[string]any{}
		}
		out[i] = RouteRecord{
			Path:      p.Path,
			Template:  string(p.Template),
			Component: p.Template.Component(templateDir),
			Context:   ctx,
			MatchPath: p.MatchPath,
		}
	}
	return out
}

// Render encodes the route table, the redirect table and the manifest, in
// that order.
func Render(res *Result, format config.OutputFormat) ([]Artifact, *Manifest, error) {
	rules := res.Redirects
	if rules == nil {
		rules = []redirects.Rule{}
	}

	routesArt, err := encode(RoutesBase, format, Records(res.Pages, res.TemplateDir))
	if err != nil {
		return nil, nil, err
	}
	redirectsArt, err := encode(RedirectsBase, format, rules)
	if err != nil {
		return nil, nil, err
	}

	m := &Manifest{
		BuildID:     res.BuildID,
		GeneratedAt: res.GeneratedAt.UTC(),
		Format:      format,
		Pages:       len(res.Pages),
		Redirects:   len(rules),
		Artifacts: map[string]ArtifactInfo{
			routesArt.Name:    info(routesArt.Data),
			redirectsArt.Name: info(redirectsArt.Data),
		},
	}
	mdata, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return nil, nil, errors.WrapError(err, errors.CategoryOutput, "failed to encode manifest").Build()
	}
	manifestArt := Artifact{Name: ManifestName, ContentType: "application/json", Data: append(mdata, '\n')}

	return []Artifact{routesArt, redirectsArt, manifestArt}, m, nil
}

func encode(base string, format config.OutputFormat, v any) (Artifact, error) {
	switch format {
	case config.OutputYAML:
		var buf bytes.Buffer
		enc := yaml.NewEncoder(&buf)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return Artifact{}, errors.WrapError(err, errors.CategoryOutput, "failed to encode "+base).Build()
		}
		if err := enc.Close(); err != nil {
			return Artifact{}, errors.WrapError(err, errors.CategoryOutput, "failed to encode "+base).Build()
		}
		return Artifact{Name: base + ".yaml", ContentType: "application/yaml", Data: buf.Bytes()}, nil
	default:
		data, err := json.MarshalIndent(v, "", "  ")
		if err != nil {
			return Artifact{}, errors.WrapError(err, errors.CategoryOutput, "failed to encode "+base).Build()
		}
		return Artifact{Name: base + ".json", ContentType: "application/json", Data: append(data, '\n')}, nil
	}
}

func info(data []byte) ArtifactInfo {
	sum := sha256.Sum256(data)
	return ArtifactInfo{SHA256: hex.EncodeToString(sum[:]), Bytes: len(data)}
}
