package graph

import "fmt"

// Forest partitions edge indices into a spanning tree and its cotree.
// Invariants: len(Tree) = |nodes| - (#connected components) and
// len(Tree) + len(Cotree) = |edges|.
type Forest struct {
	Tree   []int
	Cotree []int
}

type halfEdge struct {
	to   string
	edge int
}

// adjacency is an undirected adjacency list that remembers key insertion
// order. Go map iteration is randomized, so traversal roots and neighbor
// order must come from explicit slices to keep repeated runs identical.
type adjacency struct {
	order []string
	list  map[string][]halfEdge
}

func newAdjacency() *adjacency {
	return &adjacency{list: make(map[string][]halfEdge)}
}

func (a *adjacency) add(from, to string, edge int) {
	if _, ok := a.list[from]; !ok {
		a.order = append(a.order, from)
	}
	a.list[from] = append(a.list[from], halfEdge{to: to, edge: edge})
}

// SpanningForest splits edges into tree and cotree. Each connected component
// is explored breadth-first from the first of its nodes in adjacency
// insertion order; every edge first reached by the traversal becomes a tree
// edge, everything else lands in the cotree.
func SpanningForest(edges []Edge) Forest {
	adj := newAdjacency()
	for i, e := range edges {
		adj.add(e.A, e.B, i)
		adj.add(e.B, e.A, i)
	}

	visited := make(map[string]bool, len(adj.order))
	usedEdge := make(map[int]bool, len(edges))
	var tree []int

	for _, root := range adj.order {
		if visited[root] {
			continue
		}
		visited[root] = true
		queue := []string{root}
		for len(queue) > 0 {
			cur := queue[0]
			queue = queue[1:]
			for _, he := range adj.list[cur] {
				if visited[he.to] {
					continue
				}
				visited[he.to] = true
				queue = append(queue, he.to)
				usedEdge[he.edge] = true
				tree = append(tree, he.edge)
			}
		}
	}

	cotree := make([]int, 0, len(edges)-len(tree))
	for i := range edges {
		if !usedEdge[i] {
			cotree = append(cotree, i)
		}
	}
	return Forest{Tree: tree, Cotree: cotree}
}

// PathStep is one signed step along the spanning tree: Sign is +1 when the
// step follows the edge's stored a→b orientation, -1 against it.
type PathStep struct {
	Edge int
	Sign int
}

// TreePath reconstructs the unique path from start to end using tree edges
// only, via breadth-first search with parent pointers. For two nodes of the
// same connected component the path always exists by the spanning-forest
// invariant; ErrPathNotFound therefore means a corrupted forest.
func TreePath(start, end string, edges []Edge, tree []int) ([]PathStep, error) {
	adj := newAdjacency()
	for _, idx := range tree {
		e := edges[idx]
		adj.add(e.A, e.B, idx)
		adj.add(e.B, e.A, idx)
	}

	type link struct {
		from string
		edge int
	}
	parent := make(map[string]link)
	visited := map[string]bool{start: true}
	queue := []string{start}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		if cur == end {
			break
		}
		for _, he := range adj.list[cur] {
			if visited[he.to] {
				continue
			}
			visited[he.to] = true
			parent[he.to] = link{from: cur, edge: he.edge}
			queue = append(queue, he.to)
		}
	}
	if !visited[end] {
		return nil, fmt.Errorf("%w: %s -> %s", ErrPathNotFound, start, end)
	}

	// Walk parent pointers back to start, then flip into forward order.
	var back []link
	var heads []string
	for node := end; node != start; {
		l := parent[node]
		back = append(back, l)
		heads = append(heads, node)
		node = l.from
	}

	path := make([]PathStep, 0, len(back))
	for i := len(back) - 1; i >= 0; i-- {
		e := edges[back[i].edge]
		sign := -1
		if back[i].from == e.A && heads[i] == e.B {
			sign = 1
		}
		path = append(path, PathStep{Edge: back[i].edge, Sign: sign})
	}
	return path, nil
}
