package algebra

import (
	"sort"
	"strings"
)

// Simplify rewrites e into a flatter, lighter form: nested sums and products
// are flattened, numeric factors folded, zero and identity elements removed,
// quotients pulled to the top of each product, and like terms collected.
// The rewrite is deterministic: term and factor order follows first
// appearance, never map iteration.
func Simplify(e Expr) Expr {
	switch v := e.(type) {
	case nil:
		return Num(0)
	case Num, Sym:
		return v
	case Add:
		return simplifyAdd(v)
	case Mul:
		return simplifyMul(v)
	case Div:
		return simplifyDiv(Simplify(v.N), Simplify(v.D))
	}
	return e
}

// IsZero reports whether e simplifies structurally to the numeric zero.
func IsZero(e Expr) bool {
	n, ok := Simplify(e).(Num)
	return ok && n == 0
}

func simplifyAdd(a Add) Expr {
	// Flatten and simplify the term list first.
	flat := make([]Expr, 0, len(a))
	for _, t := range a {
		st := Simplify(t)
		if inner, ok := st.(Add); ok {
			flat = append(flat, inner...)
			continue
		}
		flat = append(flat, st)
	}

	// Collect like terms by canonical key, preserving first-appearance order.
	type bucket struct {
		coeff float64
		base  Expr // nil for the numeric constant bucket
	}
	var order []string
	buckets := make(map[string]*bucket)
	push := func(key string, coeff float64, base Expr) {
		b, ok := buckets[key]
		if !ok {
			b = &bucket{base: base}
			buckets[key] = b
			order = append(order, key)
		}
		b.coeff += coeff
	}

	for _, t := range flat {
		coeff, base := splitCoeff(t)
		if base == nil {
			push("", coeff, nil)
			continue
		}
		push(canonicalKey(base), coeff, base)
	}

	terms := make([]Expr, 0, len(order))
	for _, key := range order {
		b := buckets[key]
		if b.coeff == 0 {
			continue
		}
		terms = append(terms, attachCoeff(b.coeff, b.base))
	}
	switch len(terms) {
	case 0:
		return Num(0)
	case 1:
		return terms[0]
	}
	return Add(terms)
}

func simplifyMul(m Mul) Expr {
	coeff := 1.0
	var nums []Expr // non-numeric numerator factors
	var dens []Expr // non-numeric denominator factors

	var walk func(e Expr, inverted bool)
	walk = func(e Expr, inverted bool) {
		switch v := e.(type) {
		case Num:
			if inverted {
				if v != 0 {
					coeff /= float64(v)
				} else {
					// Division by a literal zero: keep the quotient visible
					// instead of folding it away.
					dens = append(dens, v)
				}
				return
			}
			coeff *= float64(v)
		case Mul:
			for _, f := range v {
				walk(f, inverted)
			}
		case Div:
			walk(v.N, inverted)
			walk(v.D, !inverted)
		default:
			if inverted {
				dens = append(dens, v)
			} else {
				nums = append(nums, v)
			}
		}
	}
	for _, f := range m {
		walk(Simplify(f), false)
	}

	if coeff == 0 && len(dens) == 0 {
		return Num(0)
	}
	num := rebuildProduct(coeff, nums)
	if len(dens) == 0 {
		return num
	}
	return simplifyDiv(num, rebuildProduct(1, dens))
}

// simplifyDiv expects both operands already simplified.
func simplifyDiv(n, d Expr) Expr {
	if dn, ok := d.(Num); ok && dn != 0 {
		// x / c -> (1/c) * x
		return Simplify(Mul{Num(1 / float64(dn)), n})
	}
	if nn, ok := n.(Num); ok && nn == 0 {
		return Num(0)
	}
	// Nested quotients flatten into a single fraction bar.
	if nd, ok := n.(Div); ok {
		return simplifyDiv(nd.N, Simplify(Mul{nd.D, d}))
	}
	if dd, ok := d.(Div); ok {
		return simplifyDiv(Simplify(Mul{n, dd.D}), dd.N)
	}
	if canonicalKey(n) == canonicalKey(d) {
		return Num(1)
	}
	return cancelFactors(n, d)
}

// cancelFactors removes factors shared between numerator and denominator and
// folds their numeric coefficients into the numerator.
func cancelFactors(n, d Expr) Expr {
	cn, nf := factorize(n)
	cd, df := factorize(d)

	rest := make([]Expr, 0, len(df))
	for _, fd := range df {
		key := canonicalKey(fd)
		matched := false
		for i, fn := range nf {
			if fn != nil && canonicalKey(fn) == key {
				nf[i] = nil
				matched = true
				break
			}
		}
		if !matched {
			rest = append(rest, fd)
		}
	}
	kept := nf[:0]
	for _, fn := range nf {
		if fn != nil {
			kept = append(kept, fn)
		}
	}

	if cd != 0 {
		cn /= cd
		cd = 1
	}
	num := rebuildProduct(cn, kept)
	if len(rest) == 0 && cd == 1 {
		return num
	}
	return Div{N: num, D: rebuildProduct(cd, rest)}
}

// factorize splits a product into its numeric coefficient and non-numeric
// factors. Non-products come back as a single factor.
func factorize(e Expr) (float64, []Expr) {
	m, ok := e.(Mul)
	if !ok {
		if n, isNum := e.(Num); isNum {
			return float64(n), nil
		}
		return 1, []Expr{e}
	}
	coeff := 1.0
	factors := make([]Expr, 0, len(m))
	for _, f := range m {
		if n, isNum := f.(Num); isNum {
			coeff *= float64(n)
			continue
		}
		factors = append(factors, f)
	}
	return coeff, factors
}

// splitCoeff separates a term into its numeric coefficient and symbolic
// base. The base is nil for pure numbers.
func splitCoeff(e Expr) (float64, Expr) {
	switch v := e.(type) {
	case Num:
		return float64(v), nil
	case Mul:
		coeff := 1.0
		rest := make([]Expr, 0, len(v))
		for _, f := range v {
			if n, ok := f.(Num); ok {
				coeff *= float64(n)
				continue
			}
			rest = append(rest, f)
		}
		switch len(rest) {
		case 0:
			return coeff, nil
		case 1:
			return coeff, rest[0]
		}
		return coeff, Mul(rest)
	case Div:
		cn, bn := splitCoeff(v.N)
		if bn == nil {
			bn = Num(1)
		}
		return cn, Div{N: bn, D: v.D}
	}
	return 1, e
}

// attachCoeff rebuilds coeff*base without re-simplifying.
func attachCoeff(coeff float64, base Expr) Expr {
	if base == nil {
		return Num(coeff)
	}
	if coeff == 1 {
		return base
	}
	switch v := base.(type) {
	case Mul:
		out := make(Mul, 0, len(v)+1)
		out = append(out, Num(coeff))
		out = append(out, v...)
		return out
	case Div:
		if n, ok := v.N.(Num); ok {
			return Div{N: Num(coeff * float64(n)), D: v.D}
		}
		return Div{N: attachCoeff(coeff, v.N), D: v.D}
	}
	return Mul{Num(coeff), base}
}

func rebuildProduct(coeff float64, factors []Expr) Expr {
	if len(factors) == 0 {
		return Num(coeff)
	}
	if coeff == 1 {
		if len(factors) == 1 {
			return factors[0]
		}
		return Mul(factors)
	}
	out := make(Mul, 0, len(factors)+1)
	out = append(out, Num(coeff))
	out = append(out, factors...)
	return out
}

// canonicalKey renders e into an order-insensitive fingerprint so that
// commuted products and sums collect as like terms.
func canonicalKey(e Expr) string {
	switch v := e.(type) {
	case Num:
		return "n:" + v.String()
	case Sym:
		return "s:" + string(v)
	case Add:
		keys := make([]string, len(v))
		for i, t := range v {
			keys[i] = canonicalKey(t)
		}
		sort.Strings(keys)
		return "a:(" + strings.Join(keys, ",") + ")"
	case Mul:
		keys := make([]string, len(v))
		for i, f := range v {
			keys[i] = canonicalKey(f)
		}
		sort.Strings(keys)
		return "m:(" + strings.Join(keys, ",") + ")"
	case Div:
		return "d:(" + canonicalKey(v.N) + "/" + canonicalKey(v.D) + ")"
	}
	return "?"
}
