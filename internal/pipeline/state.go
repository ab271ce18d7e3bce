package pipeline

import (
	"git.home.luguber.info/inful/sitegraph/internal/content"
	"git.home.luguber.info/inful/sitegraph/internal/output"
	"git.home.luguber.info/inful/sitegraph/internal/redirects"
	"git.home.luguber.info/inful/sitegraph/internal/routes"
	"git.home.luguber.info/inful/sitegraph/internal/store"
)

// BuildState carries the artifacts stages hand to each other. Each field is
// written by exactly one stage.
type BuildState struct {
	Report *BuildReport

	Graph    *content.Graph      // load_snapshot
	Table    *routes.Table       // compile
	Rules    *redirects.Result   // compile
	Store    *store.Store        // register
	Analysis *redirects.Analysis // analyze_redirects
	Manifest *output.Manifest    // write_output
}

// Snapshot returns the registered pages and redirects, or nil before the
// register stage has run.
func (bs *BuildState) Snapshot() *store.State {
	if bs.Store == nil {
		return nil
	}
	return bs.Store.Snapshot()
}
