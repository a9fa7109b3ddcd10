package algebra

import (
	"errors"
	"fmt"
)

// ErrUnboundSymbol is returned by Eval for a symbol without a binding.
var ErrUnboundSymbol = errors.New("algebra: unbound symbol")

// Eval computes the numeric value of e under the given symbol bindings.
// A nil or empty binding map evaluates only fully numeric expressions.
func Eval(e Expr, bindings map[string]float64) (float64, error) {
	switch v := e.(type) {
	case Num:
		return float64(v), nil
	case Sym:
		if x, ok := bindings[string(v)]; ok {
			return x, nil
		}
		return 0, fmt.Errorf("%w: %s", ErrUnboundSymbol, v)
	case Add:
		sum := 0.0
		for _, t := range v {
			x, err := Eval(t, bindings)
			if err != nil {
				return 0, err
			}
			sum += x
		}
		return sum, nil
	case Mul:
		prod := 1.0
		for _, f := range v {
			x, err := Eval(f, bindings)
			if err != nil {
				return 0, err
			}
			prod *= x
		}
		return prod, nil
	case Div:
		n, err := Eval(v.N, bindings)
		if err != nil {
			return 0, err
		}
		d, err := Eval(v.D, bindings)
		if err != nil {
			return 0, err
		}
		if d == 0 {
			return 0, fmt.Errorf("algebra: division by zero in %s", e)
		}
		return n / d, nil
	}
	return 0, fmt.Errorf("algebra: cannot evaluate %T", e)
}

// Substitute replaces symbols with expressions and simplifies the result.
func Substitute(e Expr, bindings map[string]Expr) Expr {
	var walk func(Expr) Expr
	walk = func(e Expr) Expr {
		switch v := e.(type) {
		case Num:
			return v
		case Sym:
			if r, ok := bindings[string(v)]; ok {
				return r
			}
			return v
		case Add:
			out := make(Add, len(v))
			for i, t := range v {
				out[i] = walk(t)
			}
			return out
		case Mul:
			out := make(Mul, len(v))
			for i, f := range v {
				out[i] = walk(f)
			}
			return out
		case Div:
			return Div{N: walk(v.N), D: walk(v.D)}
		}
		return e
	}
	return Simplify(walk(e))
}
