package mesh

import (
	"github.com/M4rulli/Dynamica/pkg/algebra"
	"github.com/M4rulli/Dynamica/pkg/graph"
)

// Loop is a fundamental loop: a generating cotree edge (always traversed
// with sign +1) closed by the signed tree path from its b-endpoint back to
// its a-endpoint.
type Loop struct {
	Generator int
	Path      []graph.PathStep
	Edges     []int // generator first, then path edges in order
}

// Branch is the per-edge report material derived after the solve.
type Branch struct {
	Label   string
	Current algebra.Expr // in terms of loop-current unknowns
	Value   algebra.Expr // current after back-substitution
	Voltage algebra.Expr // nil when the branch voltage stays unknown
	Power   algebra.Expr // nil when the branch power stays unknown
}

// PowerBalance classifies the circuit energetically. Entering/Exiting are
// meaningful only when NumericSigns holds, i.e. every branch power
// evaluated to a plain number.
type PowerBalance struct {
	Entering     float64
	Exiting      float64
	NumericSigns bool
	Total        algebra.Expr
	Balanced     bool
	UnknownCount int
}

// Diagnostics are the counters reported alongside the solution.
type Diagnostics struct {
	Components       int `json:"components"`
	Nodes            int `json:"nodes"`
	Branches         int `json:"branches"`
	FundamentalLoops int `json:"fundamental_loops"`
	Constraints      int `json:"constraints"`
	Supermeshes      int `json:"supermeshes"`
}

// Result is the full mesh-analysis output for one invocation.
type Result struct {
	Nodes        []string
	Edges        []graph.Edge
	Forest       graph.Forest
	Loops        []Loop
	B            [][]int // loop-incidence matrix, rows follow Loops
	MeshCurrents []string
	Unknowns     []algebra.Sym
	KVL          []algebra.Expr
	Constraints  []algebra.Expr
	Solution     map[algebra.Sym]algebra.Expr
	Branches     []Branch
	Power        PowerBalance
	Diagnostics  Diagnostics
}

// Equations returns the assembled equation set, KVL first and then the
// current-source constraints, each implicitly equated to zero.
func (r *Result) Equations() []algebra.Expr {
	out := make([]algebra.Expr, 0, len(r.KVL)+len(r.Constraints))
	out = append(out, r.KVL...)
	out = append(out, r.Constraints...)
	return out
}

// EquationStrings renders the equation set for reports and transports.
func (r *Result) EquationStrings() []string {
	eqs := r.Equations()
	out := make([]string, len(eqs))
	for i, e := range eqs {
		out[i] = e.String() + " = 0"
	}
	return out
}

// SolutionStrings renders the solved unknowns in unknown-creation order.
func (r *Result) SolutionStrings() []string {
	out := make([]string, 0, len(r.Unknowns))
	for _, u := range r.Unknowns {
		if v, ok := r.Solution[u]; ok {
			out = append(out, string(u)+" = "+v.String())
		}
	}
	return out
}
