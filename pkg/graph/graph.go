// Package graph recovers a clean electrical multigraph from noisy geometric
// pin coordinates: pin clustering, ideal-wire contraction over a union-find,
// canonical node renumbering, spanning-forest decomposition and tree-path
// reconstruction.
package graph

import (
	"errors"
	"fmt"
	"sort"

	"github.com/M4rulli/Dynamica/internal/consts"
	"github.com/M4rulli/Dynamica/pkg/component"
)

var (
	// ErrEmptyGraph is returned when wire contraction leaves zero branches.
	ErrEmptyGraph = errors.New("graph: no analyzable branches remain after wire contraction")
	// ErrPathNotFound signals a missing tree path between nodes that the
	// spanning-forest invariant guarantees connected. It is an internal
	// invariant violation, never recoverable user input.
	ErrPathNotFound = errors.New("graph: no tree path between nodes expected connected")
)

// Edge is a surviving circuit branch between two canonical nodes. The a→b
// orientation is fixed at construction and defines the positive sign for
// branch currents and loop traversal.
type Edge struct {
	ID      string
	Kind    component.Kind
	A, B    string
	Label   string
	CompIdx int
}

// Build collapses geometric pins into node clusters, contracts ideal-wire
// branches via union-find, drops degenerate self-loops and renumbers the
// surviving nodes into N1..Nk (lexicographic over the pre-contraction
// cluster labels). Wire-kind edges never survive. Returns ErrEmptyGraph
// when nothing analyzable remains.
func Build(components []component.Component) (nodes []string, edges []Edge, err error) {
	cl := NewClusterer(consts.PinTolerance)

	raw := make([]Edge, 0, len(components))
	for idx := range components {
		c := &components[idx]
		a := cl.Assign(c.PinA.X, c.PinA.Y)
		b := cl.Assign(c.PinB.X, c.PinB.Y)
		raw = append(raw, Edge{
			ID:      c.ID,
			Kind:    c.Kind,
			A:       fmt.Sprintf("N%d", a+1),
			B:       fmt.Sprintf("N%d", b+1),
			Label:   c.CanonicalLabel(idx),
			CompIdx: idx,
		})
	}

	uf := newUnionFind()
	for _, e := range raw {
		uf.add(e.A)
		uf.add(e.B)
	}
	// Contract ideal wires in original component order.
	for _, e := range raw {
		if e.Kind == component.Wire {
			uf.union(e.A, e.B)
		}
	}

	edges = make([]Edge, 0, len(raw))
	for _, e := range raw {
		if e.Kind == component.Wire {
			continue
		}
		aRep, bRep := uf.find(e.A), uf.find(e.B)
		if aRep == bRep {
			// Degenerate short: both terminals collapsed onto one node.
			continue
		}
		e.A, e.B = aRep, bRep
		edges = append(edges, e)
	}
	if len(edges) == 0 {
		return nil, nil, ErrEmptyGraph
	}

	// Renumber surviving representatives into contiguous canonical labels.
	used := make(map[string]bool, 2*len(edges))
	for _, e := range edges {
		used[e.A] = true
		used[e.B] = true
	}
	old := make([]string, 0, len(used))
	for n := range used {
		old = append(old, n)
	}
	sort.Strings(old)

	rename := make(map[string]string, len(old))
	nodes = make([]string, len(old))
	for i, n := range old {
		nodes[i] = fmt.Sprintf("N%d", i+1)
		rename[n] = nodes[i]
	}
	for i := range edges {
		edges[i].A = rename[edges[i].A]
		edges[i].B = rename[edges[i].B]
	}
	return nodes, edges, nil
}

// unionFind is an id-keyed disjoint set with path compression.
type unionFind struct {
	parent map[string]string
}

func newUnionFind() *unionFind {
	return &unionFind{parent: make(map[string]string)}
}

func (u *unionFind) add(id string) {
	if _, ok := u.parent[id]; !ok {
		u.parent[id] = id
	}
}

func (u *unionFind) find(id string) string {
	for u.parent[id] != id {
		// Path compression: point id at its grandparent while walking up.
		u.parent[id] = u.parent[u.parent[id]]
		id = u.parent[id]
	}
	return id
}

func (u *unionFind) union(a, b string) {
	ra, rb := u.find(a), u.find(b)
	if ra != rb {
		u.parent[rb] = ra
	}
}
