// Package mesh assembles and solves loop-current (mesh) equations over the
// contracted circuit graph: fundamental-loop extraction from the cotree,
// the loop-incidence matrix, per-loop KVL equations in the Laplace domain,
// and current-source constraint equations with lazily created auxiliary
// voltage unknowns (the supermesh technique).
package mesh

import (
	"errors"
	"fmt"

	"github.com/M4rulli/Dynamica/pkg/algebra"
	"github.com/M4rulli/Dynamica/pkg/component"
	"github.com/M4rulli/Dynamica/pkg/graph"
)

// ErrNoFundamentalLoop is returned when the contracted graph is acyclic:
// the cotree is empty and mesh analysis is undefined for the topology.
var ErrNoFundamentalLoop = errors.New("mesh: no fundamental loop found, graph has an empty cotree")

// Analyze runs the full mesh pipeline over an ordered component list. The
// computation is a pure single pass: every accumulator is scoped to this
// invocation and nothing is shared across calls.
func Analyze(components []component.Component) (*Result, error) {
	nodes, edges, err := graph.Build(components)
	if err != nil {
		return nil, err
	}
	forest := graph.SpanningForest(edges)
	if len(forest.Cotree) == 0 {
		return nil, ErrNoFundamentalLoop
	}

	a := &assembler{
		components: components,
		nodes:      nodes,
		edges:      edges,
		forest:     forest,
		aux:        make(map[int]algebra.Sym),
	}
	if err := a.buildLoops(); err != nil {
		return nil, err
	}
	if err := a.buildEquations(); err != nil {
		return nil, err
	}

	unknowns := a.unknowns()
	equations := make([]algebra.Expr, 0, len(a.kvl)+len(a.constraints))
	equations = append(equations, a.kvl...)
	equations = append(equations, a.constraints...)

	solution, err := algebra.LinearSolve(equations, unknowns)
	if err != nil {
		return nil, err
	}

	branches, power := a.deriveBranches(solution)

	return &Result{
		Nodes:        nodes,
		Edges:        edges,
		Forest:       forest,
		Loops:        a.loops,
		B:            a.b,
		MeshCurrents: symNames(a.meshSyms),
		Unknowns:     unknowns,
		KVL:          a.kvl,
		Constraints:  a.constraints,
		Solution:     solution,
		Branches:     branches,
		Power:        power,
		Diagnostics: Diagnostics{
			Components:       len(components),
			Nodes:            len(nodes),
			Branches:         len(edges),
			FundamentalLoops: len(forest.Cotree),
			Constraints:      len(a.constraints),
			Supermeshes:      a.supermeshes,
		},
	}, nil
}

// assembler holds the accumulators of one Analyze invocation.
type assembler struct {
	components []component.Component
	nodes      []string
	edges      []graph.Edge
	forest     graph.Forest

	loops    []Loop
	b        [][]int
	meshSyms []algebra.Sym

	aux      map[int]algebra.Sym // edge index -> auxiliary voltage unknown
	auxOrder []int               // first-reference order

	kvl         []algebra.Expr
	constraints []algebra.Expr
	supermeshes int
}

// buildLoops derives one fundamental loop per cotree edge and fills the
// loop-incidence matrix. The generator contributes +1 in its own row; the
// closing tree path runs from the generator's b-endpoint to its a-endpoint.
func (a *assembler) buildLoops() error {
	a.b = make([][]int, len(a.forest.Cotree))
	a.loops = make([]Loop, 0, len(a.forest.Cotree))
	a.meshSyms = make([]algebra.Sym, len(a.forest.Cotree))

	for li, ci := range a.forest.Cotree {
		gen := a.edges[ci]
		path, err := graph.TreePath(gen.B, gen.A, a.edges, a.forest.Tree)
		if err != nil {
			// Both endpoints sit in one component by construction; a missing
			// path is a corrupted forest, not bad input.
			return err
		}

		row := make([]int, len(a.edges))
		row[ci] = 1
		loop := Loop{Generator: ci, Path: path, Edges: []int{ci}}
		for _, step := range path {
			row[step.Edge] = step.Sign
			loop.Edges = append(loop.Edges, step.Edge)
		}
		a.b[li] = row
		a.loops = append(a.loops, loop)
		a.meshSyms[li] = algebra.Sym(fmt.Sprintf("I_%d", li+1))
	}
	return nil
}

// branchCurrent expresses the current through edge bi as the signed sum of
// the loop currents whose loops traverse it.
func (a *assembler) branchCurrent(bi int) algebra.Expr {
	terms := make(algebra.Add, 0, 2)
	for li := range a.loops {
		if s := a.b[li][bi]; s != 0 {
			terms = append(terms, algebra.Mul{algebra.Num(s), a.meshSyms[li]})
		}
	}
	return algebra.Simplify(terms)
}

// symbolicValue parses a component parameter; malformed or symbolic-free
// literals fall back to a symbol derived from the branch label.
func symbolicValue(raw, label string) algebra.Expr {
	if e, err := algebra.Parse(raw); err == nil {
		return e
	}
	return algebra.Sym(algebra.SafeSymbol(label, "X"))
}

// auxVoltage returns the auxiliary voltage unknown for a current-source
// edge, creating it on first reference and reusing it afterwards.
func (a *assembler) auxVoltage(bi int) algebra.Sym {
	if s, ok := a.aux[bi]; ok {
		return s
	}
	s := algebra.Sym("V_" + algebra.SafeSymbol(a.edges[bi].Label, fmt.Sprintf("B%d", bi+1)))
	a.aux[bi] = s
	a.auxOrder = append(a.auxOrder, bi)
	return s
}

// buildEquations assembles one KVL equation per loop and one constraint per
// current-source edge.
func (a *assembler) buildEquations() error {
	// Defensive parameter re-check; the job API validated already.
	for _, e := range a.edges {
		if err := a.components[e.CompIdx].CheckParams(); err != nil {
			return err
		}
	}

	s := algebra.Sym("s") // Laplace variable

	for li := range a.loops {
		terms := make(algebra.Add, 0, len(a.loops[li].Edges))
		for bi := range a.edges {
			sign := a.b[li][bi]
			if sign == 0 {
				continue
			}
			edge := a.edges[bi]
			comp := &a.components[edge.CompIdx]
			iBranch := a.branchCurrent(bi)

			var drop algebra.Expr
			switch comp.Kind {
			case component.Resistor:
				r := symbolicValue(comp.Value, edge.Label)
				drop = algebra.Mul{r, iBranch}
			case component.Inductor:
				l := symbolicValue(comp.Value, edge.Label)
				drop = algebra.Mul{s, l, iBranch}
			case component.Capacitor:
				c := symbolicValue(comp.Value, edge.Label)
				drop = algebra.Div{N: iBranch, D: algebra.Mul{s, c}}
			case component.VoltageSource:
				v := symbolicValue(comp.Voltage, edge.Label)
				if comp.Polarity == component.BPositive {
					v = algebra.Neg(v)
				}
				drop = v
			case component.CurrentSource:
				// Terminal voltage unknown: solve for it explicitly. The
				// same unknown serves every loop the edge appears in, which
				// is what makes the supermesh case fall out for free.
				drop = a.auxVoltage(bi)
			default:
				return fmt.Errorf("%w: %s (%s)", component.ErrUnknownKind, comp.Kind, comp.ID)
			}
			terms = append(terms, algebra.Mul{algebra.Num(sign), drop})
		}
		a.kvl = append(a.kvl, algebra.Simplify(terms))
	}

	for bi := range a.edges {
		edge := a.edges[bi]
		comp := &a.components[edge.CompIdx]
		if comp.Kind != component.CurrentSource {
			continue
		}
		rated := symbolicValue(comp.Current, edge.Label)
		if comp.Direction == component.DirectionBToA {
			rated = algebra.Neg(rated)
		}
		a.constraints = append(a.constraints, algebra.Simplify(algebra.Sub(a.branchCurrent(bi), rated)))

		memberships := 0
		for li := range a.loops {
			if a.b[li][bi] != 0 {
				memberships++
			}
		}
		if memberships >= 2 {
			a.supermeshes++
		}
	}
	return nil
}

// unknowns lists the solver variables: loop currents in loop order, then
// auxiliary voltages in first-reference order.
func (a *assembler) unknowns() []algebra.Sym {
	out := make([]algebra.Sym, 0, len(a.meshSyms)+len(a.auxOrder))
	out = append(out, a.meshSyms...)
	for _, bi := range a.auxOrder {
		out = append(out, a.aux[bi])
	}
	return out
}

func symNames(syms []algebra.Sym) []string {
	out := make([]string, len(syms))
	for i, s := range syms {
		out[i] = string(s)
	}
	return out
}
