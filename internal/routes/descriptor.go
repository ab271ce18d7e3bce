package routes

import (
	"maps"
)

// PageDescriptor is one compiled route binding. MatchPath is set for routes
// whose sub-paths are resolved client-side.
type PageDescriptor struct {
	Path      string         `json:"path" yaml:"path"`
	Template  TemplateID     `json:"template" yaml:"template"`
	Context   map[string]any `json:"context" yaml:"context"`
	MatchPath string         `json:"matchPath,omitempty" yaml:"matchPath,omitempty"`
}

// NodeID returns the context id of the node the page renders.
func (d PageDescriptor) NodeID() string {
	id, _ := d.Context["id"].(string)
	return id
}

// Clone returns a copy that shares no mutable state with d.
func (d PageDescriptor) Clone() PageDescriptor {
	d.Context = maps.Clone(d.Context)
	return d
}

// WithMatchPath returns a copy of d with the client-match pattern set.
func (d PageDescriptor) WithMatchPath(pattern string) PageDescriptor {
	out := d.Clone()
	out.MatchPath = pattern
	return out
}
