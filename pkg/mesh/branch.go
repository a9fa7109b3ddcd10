package mesh

import (
	"math"

	"github.com/M4rulli/Dynamica/pkg/algebra"
	"github.com/M4rulli/Dynamica/pkg/component"
)

// deriveBranches back-substitutes the solution into the per-edge current,
// voltage and power expressions and classifies the overall power balance.
func (a *assembler) deriveBranches(solution map[algebra.Sym]algebra.Expr) ([]Branch, PowerBalance) {
	subst := make(map[string]algebra.Expr, len(solution))
	for u, v := range solution {
		subst[string(u)] = v
	}
	s := algebra.Sym("s")

	branches := make([]Branch, 0, len(a.edges))
	powerTerms := make(algebra.Add, 0, len(a.edges))
	balance := PowerBalance{NumericSigns: true}

	for bi := range a.edges {
		edge := a.edges[bi]
		comp := &a.components[edge.CompIdx]
		iExpr := a.branchCurrent(bi)
		iVal := algebra.Substitute(iExpr, subst)

		br := Branch{Label: edge.Label, Current: iExpr, Value: iVal}

		switch comp.Kind {
		case component.Resistor, component.Inductor, component.Capacitor:
			z := symbolicValue(comp.Value, edge.Label)
			var v algebra.Expr
			switch comp.Kind {
			case component.Inductor:
				v = algebra.Mul{s, z, iVal}
			case component.Capacitor:
				v = algebra.Div{N: iVal, D: algebra.Mul{s, z}}
			default:
				v = algebra.Mul{z, iVal}
			}
			br.Voltage = algebra.Simplify(v)
			br.Power = algebra.Simplify(algebra.Mul{br.Voltage, iVal})
		case component.VoltageSource:
			v := symbolicValue(comp.Voltage, edge.Label)
			if comp.Polarity == component.BPositive {
				v = algebra.Neg(v)
			}
			br.Voltage = algebra.Simplify(v)
			br.Power = algebra.Simplify(algebra.Mul{br.Voltage, iVal})
		case component.CurrentSource:
			// The terminal voltage exists only if the solver produced the
			// auxiliary unknown; a source outside every loop keeps it
			// unknown and the power stays unreported.
			if aux, ok := a.aux[bi]; ok {
				if v, ok := solution[aux]; ok {
					br.Voltage = v
					br.Power = algebra.Simplify(algebra.Mul{v, iVal})
				}
			}
		}

		if br.Power != nil {
			powerTerms = append(powerTerms, br.Power)
			if x, err := algebra.Eval(br.Power, nil); err == nil {
				if x >= 0 {
					balance.Entering += math.Abs(x)
				} else {
					balance.Exiting += math.Abs(x)
				}
			} else {
				balance.NumericSigns = false
			}
		} else {
			balance.UnknownCount++
		}
		branches = append(branches, br)
	}

	if !balance.NumericSigns {
		balance.Entering, balance.Exiting = 0, 0
	}
	balance.Total = algebra.Simplify(powerTerms)
	balance.Balanced = balance.UnknownCount == 0 && totalIsZero(balance.Total)
	return branches, balance
}

func totalIsZero(total algebra.Expr) bool {
	if algebra.IsZero(total) {
		return true
	}
	if x, err := algebra.Eval(total, nil); err == nil {
		return math.Abs(x) < 1e-9
	}
	return false
}
