package algebra

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEval(t *testing.T) {
	// (2x + y) / z at x=3, y=4, z=2
	e := Div{N: Add{Mul{Num(2), Sym("x")}, Sym("y")}, D: Sym("z")}
	got, err := Eval(e, map[string]float64{"x": 3, "y": 4, "z": 2})
	require.NoError(t, err)
	assert.InDelta(t, 5.0, got, 1e-12)
}

func TestEvalUnboundSymbol(t *testing.T) {
	_, err := Eval(Add{Num(1), Sym("missing")}, nil)
	assert.ErrorIs(t, err, ErrUnboundSymbol)
}

func TestEvalDivisionByZero(t *testing.T) {
	_, err := Eval(Div{N: Num(1), D: Sym("z")}, map[string]float64{"z": 0})
	assert.Error(t, err)
}

func TestSubstitute(t *testing.T) {
	// R*I with I -> V/R collapses to V.
	e := Mul{Sym("R"), Sym("I")}
	got := Substitute(e, map[string]Expr{"I": Div{N: Sym("V"), D: Sym("R")}})
	assert.Equal(t, Sym("V"), got)
}

func TestSubstitutePartial(t *testing.T) {
	e := Add{Sym("a"), Sym("b")}
	got := Substitute(e, map[string]Expr{"a": Num(2)})
	sum, ok := got.(Add)
	require.True(t, ok)
	assert.Contains(t, sum, Sym("b"))
}
