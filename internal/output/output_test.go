package output

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/sitegraph/internal/config"
	"git.home.luguber.info/inful/sitegraph/internal/foundation/errors"
	"git.home.luguber.info/inful/sitegraph/internal/redirects"
	"git.home.luguber.info/inful/sitegraph/internal/routes"
)

func sampleResult() *Result {
	return &Result{
		BuildID:     "build-1",
		GeneratedAt: time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
		Pages: []routes.PageDescriptor{
			{Path: "/about/", Template: routes.TemplatePage, Context: map[string]any{"id": "page-about"}},
			{Path: "/checkout/", Template: routes.TemplatePage, Context: map[string]any{"id": "page-checkout"}, MatchPath: "/checkout/*"},
			{Path: "/product/stool/", Template: routes.TemplateProduct, Context: map[string]any{"id": "prod-1"}},
		},
		Redirects: []redirects.Rule{
			{FromPath: "/old-page", ToPath: "/new-page/", IsPermanent: true},
			{FromPath: "/old-page/", ToPath: "/new-page/", IsPermanent: true},
		},
	}
}

func digest(b []byte) string {
	sum := sha256.Sum256(b)
	return hex.EncodeToString(sum[:])
}

func TestRecordsResolveComponents(t *testing.T) {
	recs := Records(sampleResult().Pages, "web/templates")
	require.Len(t, recs, 3)
	assert.Equal(t, "web/templates/page.js", recs[0].Component)
	assert.Equal(t, "web/templates/product.js", recs[2].Component)
	assert.Equal(t, "/checkout/*", recs[1].MatchPath)
}

func TestRecordsNeverEmitNullContext(t *testing.T) {
	recs := Records([]routes.PageDescriptor{{Path: "/x/", Template: routes.TemplatePage}}, "")
	data, err := json.Marshal(recs)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"context":{}`)
}

func TestRenderYAMLRoutes(t *testing.T) {
	artifacts, m, err := Render(sampleResult(), config.OutputYAML)
	require.NoError(t, err)
	require.Len(t, artifacts, 3)
	assert.Equal(t, "routes.yaml", artifacts[0].Name)
	assert.Equal(t, "redirects.yaml", artifacts[1].Name)
	assert.Equal(t, ManifestName, artifacts[2].Name)
	assert.Equal(t, config.OutputYAML, m.Format)

	gold := goldie.New(t, goldie.WithEqualFn(func(actual, expected []byte) bool {
		return bytes.Equal(bytes.TrimSpace(actual), bytes.TrimSpace(expected))
	}))
	gold.Assert(t, "routes_yaml", artifacts[0].Data)
}

func TestRenderEmptyRedirectsIsArray(t *testing.T) {
	res := sampleResult()
	res.Redirects = nil
	artifacts, m, err := Render(res, config.OutputJSON)
	require.NoError(t, err)
	assert.Equal(t, "[]\n", string(artifacts[1].Data))
	assert.Equal(t, 0, m.Redirects)
}

func TestFSSinkWritesArtifactsAndManifest(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "out")
	sink := NewFSSink(config.OutputConfig{Directory: dir, Format: config.OutputJSON})
	require.NoError(t, sink.Write(context.Background(), sampleResult()))

	routesData, err := os.ReadFile(filepath.Join(dir, "routes.json"))
	require.NoError(t, err)
	var recs []RouteRecord
	require.NoError(t, json.Unmarshal(routesData, &recs))
	assert.Len(t, recs, 3)
	assert.Equal(t, "./src/templates/page.js", recs[0].Component)

	redirectsData, err := os.ReadFile(filepath.Join(dir, "redirects.json"))
	require.NoError(t, err)

	var m Manifest
	raw, err := os.ReadFile(filepath.Join(dir, ManifestName))
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(raw, &m))
	assert.Equal(t, "build-1", m.BuildID)
	assert.Equal(t, 3, m.Pages)
	assert.Equal(t, 2, m.Redirects)
	assert.Equal(t, digest(routesData), m.Artifacts["routes.json"].SHA256)
	assert.Equal(t, digest(redirectsData), m.Artifacts["redirects.json"].SHA256)
	assert.Equal(t, len(redirectsData), m.Artifacts["redirects.json"].Bytes)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 3, "no temp files left behind")
}

func TestFSSinkClean(t *testing.T) {
	dir := t.TempDir()
	stale := filepath.Join(dir, "stale.txt")
	require.NoError(t, os.WriteFile(stale, []byte("x"), 0o600))

	keep := NewFSSink(config.OutputConfig{Directory: dir, Format: config.OutputJSON})
	require.NoError(t, keep.Write(context.Background(), sampleResult()))
	assert.FileExists(t, stale)

	clean := NewFSSink(config.OutputConfig{Directory: dir, Format: config.OutputYAML, Clean: true})
	require.NoError(t, clean.Write(context.Background(), sampleResult()))
	assert.NoFileExists(t, stale)
	assert.NoFileExists(t, filepath.Join(dir, "routes.json"))
	assert.FileExists(t, filepath.Join(dir, "routes.yaml"))
}

func TestFSSinkHonorsCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := NewFSSink(config.OutputConfig{Directory: t.TempDir(), Format: config.OutputJSON}).Write(ctx, sampleResult())
	assert.ErrorIs(t, err, context.Canceled)
}

type fakeS3 struct {
	keys   []string
	bodies map[string][]byte
	fail   error
}

func (f *fakeS3) PutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	if f.fail != nil {
		return nil, f.fail
	}
	data, err := io.ReadAll(in.Body)
	if err != nil {
		return nil, err
	}
	key := aws.ToString(in.Key)
	f.keys = append(f.keys, key)
	if f.bodies == nil {
		f.bodies = map[string][]byte{}
	}
	f.bodies[key] = data
	return &s3.PutObjectOutput{}, nil
}

func TestS3SinkUploadsManifestLast(t *testing.T) {
	fake := &fakeS3{}
	sink := NewS3Sink(fake, "site-bucket", "tables/prod", config.OutputJSON)
	require.NoError(t, sink.Write(context.Background(), sampleResult()))

	assert.Equal(t, []string{"tables/prod/routes.json", "tables/prod/redirects.json", "tables/prod/manifest.json"}, fake.keys)
	assert.Equal(t, "s3://site-bucket/tables/prod", sink.Describe())

	var m Manifest
	require.NoError(t, json.Unmarshal(fake.bodies["tables/prod/manifest.json"], &m))
	assert.Equal(t, digest(fake.bodies["tables/prod/routes.json"]), m.Artifacts["routes.json"].SHA256)
}

func TestS3SinkClassifiesFailures(t *testing.T) {
	sink := NewS3Sink(&fakeS3{fail: io.ErrUnexpectedEOF}, "b", "", config.OutputJSON)
	err := sink.Write(context.Background(), sampleResult())
	require.Error(t, err)
	assert.True(t, errors.HasCategory(err, errors.CategoryOutput))
	assert.ErrorIs(t, err, io.ErrUnexpectedEOF)
}

func TestNewComposesSinks(t *testing.T) {
	sink := New(config.OutputConfig{Directory: "out", Format: config.OutputJSON})
	assert.Equal(t, "fs:out", sink.Describe())

	sink = New(config.OutputConfig{Directory: "out", S3: &config.S3Config{Bucket: "b", Endpoint: "http://localhost:9000", PathStyle: true}})
	assert.Equal(t, "fs:out,s3://b", sink.Describe())
}
