package commands

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/alecthomas/kong"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/sitegraph/internal/eventstore"
	"git.home.luguber.info/inful/sitegraph/internal/foundation/errors"
	"git.home.luguber.info/inful/sitegraph/internal/routes"
)

var fixturePath, _ = filepath.Abs("../../../internal/content/testdata/snapshot.json")

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var cli CLI
	parser, err := kong.New(&cli, kong.Name("sitegraph"), kong.Vars{"version": "test"})
	require.NoError(t, err)
	kctx, err := parser.Parse(args)
	require.NoError(t, err)

	var out bytes.Buffer
	err = kctx.Run(&Global{Out: &out}, &cli)
	return out.String(), err
}

func writeConfig(t *testing.T, dir, body string) string {
	t.Helper()
	path := filepath.Join(dir, "sitegraph.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestCompile_SnapshotWithoutConfig(t *testing.T) {
	dir := t.TempDir()
	outDir := filepath.Join(dir, "out")

	out, err := run(t, "-c", filepath.Join(dir, "missing.yaml"),
		"compile", "--snapshot", fixturePath, "-o", outDir, "-f", "yml")
	require.NoError(t, err)
	assert.Contains(t, out, "outcome=success")
	assert.Contains(t, out, "registered=14")

	for _, name := range []string{"routes.yaml", "redirects.yaml", "manifest.json"} {
		_, statErr := os.Stat(filepath.Join(outDir, name))
		assert.NoError(t, statErr, name)
	}
}

func TestCompile_InvalidFormat(t *testing.T) {
	dir := t.TempDir()
	_, err := run(t, "-c", filepath.Join(dir, "missing.yaml"),
		"compile", "--snapshot", fixturePath, "-o", dir, "-f", "xml")
	require.Error(t, err)
	assert.True(t, errors.HasCategory(err, errors.CategoryValidation))
}

func TestCompile_StrictConflict(t *testing.T) {
	dir := t.TempDir()
	snapshot := filepath.Join(dir, "snapshot.json")
	require.NoError(t, os.WriteFile(snapshot, []byte(`{"data":{
		"allWpPage":{"nodes":[{"id":"a","uri":"/same/"},{"id":"b","uri":"/same/"}]},
		"frontPage":{"nodes":[{"id":"home"}]},
		"favouriteListPage":{"nodes":[]},
		"articles":{"nodes":[]},
		"productCategoryPage":{"nodes":[]},
		"allWpProductCategory":{"nodes":[]},
		"allWpPost":{"nodes":[]},
		"allWpProduct":{"nodes":[]},
		"wp":{"wcSettings":{},"seo":{"redirects":[]}}
	}}`), 0o600))

	out, err := run(t, "-c", filepath.Join(dir, "missing.yaml"),
		"compile", "--snapshot", snapshot, "-o", filepath.Join(dir, "out"), "--strict")
	require.ErrorIs(t, err, routes.ErrPathConflict)
	assert.Contains(t, out, "outcome=failed")
}

func TestCompile_MissingConfig(t *testing.T) {
	_, err := run(t, "-c", filepath.Join(t.TempDir(), "missing.yaml"), "compile")
	require.Error(t, err)
	assert.True(t, errors.HasCategory(err, errors.CategoryConfig))
}

func TestInit(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sitegraph.yaml")
	out, err := run(t, "-c", path, "init")
	require.NoError(t, err)
	assert.Contains(t, out, "initialized successfully")
	assert.FileExists(t, path)

	_, err = run(t, "-c", path, "init")
	require.Error(t, err)

	_, err = run(t, "-c", path, "init", "--force")
	require.NoError(t, err)
}

func TestResolveDuotone(t *testing.T) {
	out, err := run(t, "resolve", "duotone", `{"color":{"duotone":["#000000","#ffffff"]}}`)
	require.NoError(t, err)
	assert.JSONEq(t, `{"r":"0 1","g":"0 1","b":"0 1","a":"1 1"}`, strings.TrimSpace(out))

	out, err = run(t, "resolve", "duotone", `{"color":{}}`)
	require.NoError(t, err)
	assert.Equal(t, "null\n", out)
}

func TestResolveForm(t *testing.T) {
	path := filepath.Join(t.TempDir(), "form.html")
	markup := `<form>
		<input name="send-request-firstname"><input name="send-request-lastname">
		<input name="send-request-email"><input name="send-request-phone">
	</form>`
	require.NoError(t, os.WriteFile(path, []byte(markup), 0o600))

	out, err := run(t, "resolve", "form", path)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "send-request\n"))
	assert.Contains(t, out, "fields: send-request-firstname, send-request-lastname")

	_, err = run(t, "resolve", "form", filepath.Join(t.TempDir(), "missing.html"))
	require.Error(t, err)
}

func TestVisualize(t *testing.T) {
	dir := t.TempDir()
	out, err := run(t, "-c", filepath.Join(dir, "missing.yaml"), "visualize", "--snapshot", fixturePath)
	require.NoError(t, err)
	assert.Contains(t, out, "digraph")
	assert.Contains(t, out, "/old-page")

	file := filepath.Join(dir, "redirects.dot")
	_, err = run(t, "-c", filepath.Join(dir, "missing.yaml"), "visualize", "--snapshot", fixturePath, "-o", file)
	require.NoError(t, err)
	assert.FileExists(t, file)
}

func TestHistory(t *testing.T) {
	dir := t.TempDir()
	cfgPath := writeConfig(t, dir, `version: "1.0"
source:
  path: `+fixturePath+`
output:
  directory: `+filepath.Join(dir, "out")+`
eventstore:
  path: `+filepath.Join(dir, "history.db")+`
`)

	for range 2 {
		_, err := run(t, "-c", cfgPath, "compile")
		require.NoError(t, err)
	}

	out, err := run(t, "-c", cfgPath, "history", "--json", "-n", "5")
	require.NoError(t, err)
	var builds []eventstore.BuildSummary
	require.NoError(t, json.Unmarshal([]byte(out), &builds))
	require.Len(t, builds, 2)
	assert.Equal(t, "cli", builds[0].Trigger)
	assert.Equal(t, "success", builds[0].Status)

	out, err = run(t, "-c", cfgPath, "history")
	require.NoError(t, err)
	assert.Contains(t, out, builds[0].BuildID)
}

func TestHistory_Disabled(t *testing.T) {
	dir := t.TempDir()
	cfgPath := writeConfig(t, dir, "version: \"1.0\"\nsource:\n  path: "+fixturePath+"\n")
	_, err := run(t, "-c", cfgPath, "history")
	require.Error(t, err)
	assert.True(t, errors.HasCategory(err, errors.CategoryConfig))
}

func TestDaemon_RequiresSection(t *testing.T) {
	dir := t.TempDir()
	cfgPath := writeConfig(t, dir, "version: \"1.0\"\nsource:\n  path: "+fixturePath+"\n")
	_, err := run(t, "-c", cfgPath, "daemon")
	require.Error(t, err)
	assert.True(t, errors.HasCategory(err, errors.CategoryConfig))
}
