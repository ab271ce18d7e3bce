package routes

import (
	"fmt"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// WarningCode classifies a non-fatal finding made while compiling routes.
type WarningCode string

const (
	WarnIgnoredSingleton WarningCode = "ignored_singleton"
	WarnDuplicatePath    WarningCode = "duplicate_path"
)

// Warning is an author-visible content misconfiguration. It never fails the
// build on its own.
type Warning struct {
	Code    WarningCode `json:"code"`
	Message string      `json:"message"`
	Path    string      `json:"path,omitempty"`
	NodeIDs []string    `json:"node_ids,omitempty"`
}

func (w Warning) String() string { return string(w.Code) + ": " + w.Message }

// Table is the ordered descriptor list for one build. Pages may hold several
// descriptors for one path; the page store keeps the last.
type Table struct {
	Pages    []PageDescriptor
	Warnings []Warning
	// RootFallback is true when "/" is bound to the first generic page
	// because the site has no front page yet.
	RootFallback bool
}

// Len returns the number of emitted descriptors.
func (t *Table) Len() int { return len(t.Pages) }

// Duplicate is a path claimed by more than one node.
type Duplicate struct {
	Path    string
	NodeIDs []string
}

// Duplicates reports paths emitted for more than one distinct node. Paths are
// compared in Unicode NFC so visually identical URIs collide. Overlaps where
// every descriptor renders the same node (a master category and its
// per-category page, or a singleton page and its generic page) are expected
// and not reported.
func (t *Table) Duplicates() []Duplicate {
	type group struct {
		path string
		ids  []string
		seen map[string]bool
	}
	var order []string
	groups := make(map[string]*group)
	for _, d := range t.Pages {
		key := norm.NFC.String(d.Path)
		grp, ok := groups[key]
		if !ok {
			grp = &group{path: d.Path, seen: make(map[string]bool)}
			groups[key] = grp
			order = append(order, key)
		}
		id := d.NodeID()
		if !grp.seen[id] {
			grp.seen[id] = true
			grp.ids = append(grp.ids, id)
		}
	}

	var out []Duplicate
	for _, key := range order {
		grp := groups[key]
		if len(grp.ids) > 1 {
			out = append(out, Duplicate{Path: grp.path, NodeIDs: grp.ids})
		}
	}
	return out
}

// CheckConflicts returns ErrPathConflict for the first duplicate path, or nil.
func (t *Table) CheckConflicts() error {
	dups := t.Duplicates()
	if len(dups) == 0 {
		return nil
	}
	return ErrPathConflict.
		WithContext("path", dups[0].Path).
		WithContext("node_ids", strings.Join(dups[0].NodeIDs, ",")).
		WithContext("conflicts", len(dups))
}

func duplicateWarning(d Duplicate) Warning {
	return Warning{
		Code:    WarnDuplicatePath,
		Message: fmt.Sprintf("path %q is claimed by %d nodes; the last registered wins", d.Path, len(d.NodeIDs)),
		Path:    d.Path,
		NodeIDs: d.NodeIDs,
	}
}
