package graph

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/M4rulli/Dynamica/internal/consts"
	"github.com/M4rulli/Dynamica/pkg/component"
)

var (
	// ErrEmptyCircuit is returned for a submission with no components.
	ErrEmptyCircuit = errors.New("graph: circuit is empty, add at least one component")
	// ErrDanglingComponent is returned when a component terminal is not
	// shared with any other terminal.
	ErrDanglingComponent = errors.New("graph: dangling component terminals")
	// ErrDisconnectedCircuit is returned when the components do not form a
	// single interconnected circuit.
	ErrDisconnectedCircuit = errors.New("graph: circuit is not fully interconnected")
)

// ValidateIntegrity runs the fast checks performed before a job is
// accepted: non-empty submission, valid kinds with required parameters, no
// dangling terminals, full interconnection. It reuses the same clustering
// tolerance as Build so that
// a circuit passing validation cannot fall apart during analysis.
func ValidateIntegrity(components []component.Component) error {
	if len(components) == 0 {
		return ErrEmptyCircuit
	}
	for idx := range components {
		if err := components[idx].CheckParams(); err != nil {
			return err
		}
	}

	cl := NewClusterer(consts.PinTolerance)
	terminalCount := make(map[int]int)
	clusterMembers := make(map[int][]int)
	nodePairs := make([][2]int, 0, len(components))

	appendMember := func(cluster, comp int) {
		for _, m := range clusterMembers[cluster] {
			if m == comp {
				return
			}
		}
		clusterMembers[cluster] = append(clusterMembers[cluster], comp)
	}

	for idx := range components {
		c := &components[idx]
		a := cl.Assign(c.PinA.X, c.PinA.Y)
		b := cl.Assign(c.PinB.X, c.PinB.Y)
		nodePairs = append(nodePairs, [2]int{a, b})
		terminalCount[a]++
		terminalCount[b]++
		appendMember(a, idx)
		appendMember(b, idx)
	}

	var dangling []string
	for idx, pair := range nodePairs {
		if terminalCount[pair[0]] < 2 || terminalCount[pair[1]] < 2 {
			dangling = append(dangling, components[idx].CanonicalLabel(idx))
		}
	}
	if len(dangling) > 0 {
		names := dangling
		suffix := ""
		if len(names) > 4 {
			names = names[:4]
			suffix = "..."
		}
		return fmt.Errorf("%w: %s%s", ErrDanglingComponent, strings.Join(names, ", "), suffix)
	}

	// Component-to-component adjacency through shared clusters.
	adj := make([][]int, len(components))
	addNeighbor := func(a, b int) {
		for _, n := range adj[a] {
			if n == b {
				return
			}
		}
		adj[a] = append(adj[a], b)
	}
	clusters := make([]int, 0, len(clusterMembers))
	for c := range clusterMembers {
		clusters = append(clusters, c)
	}
	sort.Ints(clusters)
	for _, c := range clusters {
		members := clusterMembers[c]
		for i := 0; i < len(members); i++ {
			for j := i + 1; j < len(members); j++ {
				addNeighbor(members[i], members[j])
				addNeighbor(members[j], members[i])
			}
		}
	}

	visited := make([]bool, len(components))
	visited[0] = true
	queue := []int{0}
	seen := 1
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for _, nxt := range adj[cur] {
			if visited[nxt] {
				continue
			}
			visited[nxt] = true
			seen++
			queue = append(queue, nxt)
		}
	}
	if seen != len(components) {
		return ErrDisconnectedCircuit
	}
	return nil
}
