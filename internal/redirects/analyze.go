package redirects

import (
	stdErrors "errors"
	"fmt"
	"io"
	"slices"
	"strconv"
	"strings"

	"github.com/dominikbraun/graph"
	"github.com/dominikbraun/graph/draw"

	"git.home.luguber.info/inful/sitegraph/internal/foundation/errors"
)

// Chain is a redirect whose target is itself redirected. Hops lists every
// path visited, starting at the origin.
type Chain struct {
	Hops []string `json:"hops"`
}

// Analysis describes the shape of a redirect table. It never changes the
// table: chains and loops are reported so authors can fix them in the CMS.
type Analysis struct {
	Chains []Chain    `json:"chains"`
	Loops  [][]string `json:"loops"`
	Paths  int        `json:"paths"`
	Rules  int        `json:"rules"`
}

// Warnings converts the analysis into author-visible warnings.
func (a *Analysis) Warnings() []Warning {
	out := make([]Warning, 0, len(a.Chains)+len(a.Loops))
	for _, c := range a.Chains {
		out = append(out, Warning{
			Code:     WarnChain,
			Message:  fmt.Sprintf("%d hops: %s", len(c.Hops)-1, strings.Join(c.Hops, " -> ")),
			FromPath: c.Hops[0],
		})
	}
	for _, l := range a.Loops {
		out = append(out, Warning{
			Code:     WarnLoop,
			Message:  "redirect loop between " + strings.Join(l, ", "),
			FromPath: l[0],
		})
	}
	return out
}

// NewGraph builds the directed redirect graph: one vertex per path and one
// edge per rule, labelled with its status code.
func NewGraph(rules []Rule) (graph.Graph[string, string], error) {
	g := graph.New(graph.StringHash, graph.Directed())
	for _, r := range rules {
		for _, p := range []string{r.FromPath, r.ToPath} {
			if err := g.AddVertex(p); err != nil && !stdErrors.Is(err, graph.ErrVertexAlreadyExists) {
				return nil, wrapGraphErr(err, p)
			}
		}
		err := g.AddEdge(r.FromPath, r.ToPath,
			graph.EdgeAttribute("label", strconv.Itoa(r.StatusCode())))
		if err != nil && !stdErrors.Is(err, graph.ErrEdgeAlreadyExists) {
			return nil, wrapGraphErr(err, r.FromPath)
		}
	}
	return g, nil
}

// Analyze reports redirect chains and loops in rules.
func Analyze(rules []Rule) (*Analysis, error) {
	g, err := NewGraph(rules)
	if err != nil {
		return nil, err
	}
	adj, err := g.AdjacencyMap()
	if err != nil {
		return nil, wrapGraphErr(err, "")
	}

	a := &Analysis{Rules: len(rules), Paths: len(adj)}

	sccs, err := graph.StronglyConnectedComponents(g)
	if err != nil {
		return nil, wrapGraphErr(err, "")
	}
	looping := make(map[string]bool)
	for _, comp := range sccs {
		if len(comp) < 2 {
			continue
		}
		slices.Sort(comp)
		for _, p := range comp {
			looping[p] = true
		}
		a.Loops = append(a.Loops, comp)
	}
	slices.SortFunc(a.Loops, func(x, y []string) int { return strings.Compare(x[0], y[0]) })

	next := func(p string) (string, bool) {
		for target := range adj[p] {
			return target, true
		}
		return "", false
	}
	for _, r := range rules {
		if looping[r.FromPath] || len(adj[r.ToPath]) == 0 {
			continue
		}
		hops := []string{r.FromPath, r.ToPath}
		seen := map[string]bool{r.FromPath: true, r.ToPath: true}
		for cur := r.ToPath; ; {
			nxt, ok := next(cur)
			if !ok || seen[nxt] {
				break
			}
			hops = append(hops, nxt)
			seen[nxt] = true
			cur = nxt
		}
		a.Chains = append(a.Chains, Chain{Hops: hops})
	}
	return a, nil
}

// WriteDOT renders the redirect graph in Graphviz DOT format.
func WriteDOT(w io.Writer, rules []Rule) error {
	g, err := NewGraph(rules)
	if err != nil {
		return err
	}
	if err := draw.DOT(g, w, draw.GraphAttribute("label", "redirects")); err != nil {
		return wrapGraphErr(err, "")
	}
	return nil
}

func wrapGraphErr(err error, path string) error {
	b := errors.WrapError(err, errors.CategoryRedirects, "failed to build redirect graph")
	if path != "" {
		b = b.WithContext("path", path)
	}
	return b.Build()
}
