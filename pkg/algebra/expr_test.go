package algebra

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExprString(t *testing.T) {
	cases := []struct {
		e    Expr
		want string
	}{
		{Num(3.5), "3.5"},
		{Sym("R1"), "R1"},
		{Add{Sym("a"), Sym("b")}, "a + b"},
		{Add{Sym("a"), Neg(Sym("b"))}, "a - b"},
		{Add{Neg(Sym("a")), Sym("b")}, "-a + b"},
		{Mul{Num(2), Sym("R"), Sym("I")}, "2*R*I"},
		{Mul{Add{Sym("a"), Sym("b")}, Sym("c")}, "(a + b)*c"},
		{Div{N: Sym("V"), D: Add{Sym("R1"), Sym("R2")}}, "V/(R1 + R2)"},
		{Div{N: Add{Sym("a"), Sym("b")}, D: Sym("c")}, "(a + b)/c"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, tc.e.String())
	}
}

func TestSubNeg(t *testing.T) {
	got, err := Eval(Sub(Num(7), Num(3)), nil)
	assert.NoError(t, err)
	assert.InDelta(t, 4.0, got, 1e-12)

	got, err = Eval(Neg(Sym("x")), map[string]float64{"x": 5})
	assert.NoError(t, err)
	assert.InDelta(t, -5.0, got, 1e-12)
}
