package algebra

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLinearSolveNumeric(t *testing.T) {
	// 2x + y - 5 = 0
	// x  - y - 1 = 0  =>  x = 2, y = 1
	eqs := []Expr{
		Add{Mul{Num(2), Sym("x")}, Sym("y"), Num(-5)},
		Add{Sym("x"), Neg(Sym("y")), Num(-1)},
	}
	sol, err := LinearSolve(eqs, []Sym{"x", "y"})
	require.NoError(t, err)

	x, err := Eval(sol["x"], nil)
	require.NoError(t, err)
	y, err := Eval(sol["y"], nil)
	require.NoError(t, err)
	assert.InDelta(t, 2.0, x, 1e-9)
	assert.InDelta(t, 1.0, y, 1e-9)
}

func TestLinearSolveSymbolic(t *testing.T) {
	// R*I - V = 0  =>  I = V/R
	eqs := []Expr{Sub(Mul{Sym("R"), Sym("I")}, Sym("V"))}
	sol, err := LinearSolve(eqs, []Sym{"I"})
	require.NoError(t, err)

	got, err := Eval(sol["I"], map[string]float64{"V": 12, "R": 4})
	require.NoError(t, err)
	assert.InDelta(t, 3.0, got, 1e-12)
}

func TestLinearSolveSymbolicTwoUnknowns(t *testing.T) {
	// (R1+R2)*i1 - R2*i2 - V = 0
	// -R2*i1 + (R2+R3)*i2     = 0
	r1, r2, r3, v := Sym("R1"), Sym("R2"), Sym("R3"), Sym("V")
	eqs := []Expr{
		Add{Mul{Add{r1, r2}, Sym("i1")}, Neg(Mul{r2, Sym("i2")}), Neg(v)},
		Add{Neg(Mul{r2, Sym("i1")}), Mul{Add{r2, r3}, Sym("i2")}},
	}
	sol, err := LinearSolve(eqs, []Sym{"i1", "i2"})
	require.NoError(t, err)

	bind := map[string]float64{"R1": 100, "R2": 200, "R3": 300, "V": 10}
	i1, err := Eval(sol["i1"], bind)
	require.NoError(t, err)
	i2, err := Eval(sol["i2"], bind)
	require.NoError(t, err)

	// Reference: i1 = V*(R2+R3)/(R1*R2 + R1*R3 + R2*R3), i2 = i1*R2/(R2+R3).
	den := 100*200 + 100*300 + 200*300.0
	assert.InDelta(t, 10*500/den, i1, 1e-9)
	assert.InDelta(t, 10*200/den, i2, 1e-9)
}

func TestLinearSolveUnderdetermined(t *testing.T) {
	eqs := []Expr{Add{Sym("x"), Sym("y"), Num(-1)}}
	_, err := LinearSolve(eqs, []Sym{"x", "y"})
	assert.ErrorIs(t, err, ErrUnderdetermined)
}

func TestLinearSolveUnsatisfiable(t *testing.T) {
	// x = 0 and x - 1 = 0 contradict.
	eqs := []Expr{Sym("x"), Sub(Sym("x"), Num(1))}
	_, err := LinearSolve(eqs, []Sym{"x"})
	assert.ErrorIs(t, err, ErrUnsatisfiable)
}

func TestLinearSolveSingularNumericFallsBack(t *testing.T) {
	// Numeric and square but rank deficient: the LU path must not produce
	// a bogus answer.
	eqs := []Expr{
		Add{Sym("x"), Sym("y"), Num(-1)},
		Add{Mul{Num(2), Sym("x")}, Mul{Num(2), Sym("y")}, Num(-2)},
	}
	_, err := LinearSolve(eqs, []Sym{"x", "y"})
	assert.ErrorIs(t, err, ErrUnderdetermined)
}

func TestLinearSolveNonLinear(t *testing.T) {
	eqs := []Expr{Sub(Mul{Sym("x"), Sym("y")}, Num(1))}
	_, err := LinearSolve(eqs, []Sym{"x", "y"})
	assert.ErrorIs(t, err, ErrNonLinear)

	eqs = []Expr{Sub(Div{N: Num(1), D: Sym("x")}, Num(2))}
	_, err = LinearSolve(eqs, []Sym{"x"})
	assert.ErrorIs(t, err, ErrNonLinear)
}

func TestLinearSolveOverdeterminedConsistent(t *testing.T) {
	// Three consistent equations in one unknown still solve.
	eqs := []Expr{
		Sub(Sym("x"), Num(4)),
		Sub(Mul{Num(2), Sym("x")}, Num(8)),
		Sub(Mul{Num(3), Sym("x")}, Num(12)),
	}
	sol, err := LinearSolve(eqs, []Sym{"x"})
	require.NoError(t, err)
	got, err := Eval(sol["x"], nil)
	require.NoError(t, err)
	assert.InDelta(t, 4.0, got, 1e-9)
}
