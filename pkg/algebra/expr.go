// Package algebra is the small symbolic engine behind mesh analysis:
// expression trees over numbers and free symbols, literal parsing with
// SPICE-style engineering suffixes, light simplification, numeric
// evaluation, and linear-system solving (symbolic Gaussian elimination with
// a sparse-LU fast path for fully numeric systems). It is deliberately not
// a general computer-algebra system; it covers exactly what the equation
// assembler produces.
package algebra

import (
	"strconv"
	"strings"
)

// Expr is a symbolic expression node. The variant set is closed:
// Num, Sym, Add, Mul and Div.
type Expr interface {
	String() string
	isExpr()
}

// Num is a numeric literal.
type Num float64

// Sym is a free symbol: a component value, an unknown, or the Laplace
// variable s.
type Sym string

// Add is a sum of terms.
type Add []Expr

// Mul is a product of factors.
type Mul []Expr

// Div is a quotient.
type Div struct {
	N, D Expr
}

func (Num) isExpr() {}
func (Sym) isExpr() {}
func (Add) isExpr() {}
func (Mul) isExpr() {}
func (Div) isExpr() {}

// Neg returns -e.
func Neg(e Expr) Expr { return Mul{Num(-1), e} }

// Sub returns a - b.
func Sub(a, b Expr) Expr { return Add{a, Neg(b)} }

func (n Num) String() string {
	return strconv.FormatFloat(float64(n), 'g', -1, 64)
}

func (s Sym) String() string { return string(s) }

func (a Add) String() string {
	if len(a) == 0 {
		return "0"
	}
	var b strings.Builder
	for i, t := range a {
		neg, body := signSplit(t)
		switch {
		case i == 0 && neg:
			b.WriteString("-")
		case i > 0 && neg:
			b.WriteString(" - ")
		case i > 0:
			b.WriteString(" + ")
		}
		b.WriteString(body)
	}
	return b.String()
}

func (m Mul) String() string {
	if len(m) == 0 {
		return "1"
	}
	var b strings.Builder
	for i, f := range m {
		if i > 0 {
			b.WriteString("*")
		}
		switch f.(type) {
		case Add, Div:
			b.WriteString("(" + f.String() + ")")
		default:
			b.WriteString(f.String())
		}
	}
	return b.String()
}

func (d Div) String() string {
	num := d.N.String()
	if _, ok := d.N.(Add); ok {
		num = "(" + num + ")"
	}
	den := d.D.String()
	switch d.D.(type) {
	case Add, Mul, Div:
		den = "(" + den + ")"
	}
	return num + "/" + den
}

// signSplit factors a leading minus out of a term for rendering.
func signSplit(e Expr) (neg bool, body string) {
	switch v := e.(type) {
	case Num:
		if v < 0 {
			return true, Num(-v).String()
		}
	case Mul:
		if len(v) > 0 {
			if c, ok := v[0].(Num); ok && c < 0 {
				rest := make(Mul, len(v))
				copy(rest, v)
				rest[0] = Num(-c)
				if rest[0] == Num(1) && len(rest) > 1 {
					rest = rest[1:]
				}
				if len(rest) == 1 {
					return true, rest[0].String()
				}
				return true, rest.String()
			}
		}
	case Div:
		if negN, _ := signSplit(v.N); negN {
			flipped := Div{N: Simplify(Neg(v.N)), D: v.D}
			return true, flipped.String()
		}
	}
	return false, e.String()
}
