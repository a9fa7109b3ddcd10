package algebra

import (
	"errors"
	"fmt"
)

var (
	// ErrUnsatisfiable is returned when the equations contradict each other.
	ErrUnsatisfiable = errors.New("algebra: linear system is unsatisfiable")
	// ErrUnderdetermined is returned when at least one unknown stays free.
	ErrUnderdetermined = errors.New("algebra: linear system is underdetermined")
	// ErrNonLinear is returned when an equation is not linear in the unknowns.
	ErrNonLinear = errors.New("algebra: equation is not linear in the unknowns")
)

// linearForm is an expression rewritten as Σ coeff_u·u + constant over a
// fixed unknown set.
type linearForm struct {
	coeffs map[string]Expr
	c      Expr
}

func containsAny(e Expr, unknowns map[string]bool) bool {
	switch v := e.(type) {
	case Num:
		return false
	case Sym:
		return unknowns[string(v)]
	case Add:
		for _, t := range v {
			if containsAny(t, unknowns) {
				return true
			}
		}
	case Mul:
		for _, f := range v {
			if containsAny(f, unknowns) {
				return true
			}
		}
	case Div:
		return containsAny(v.N, unknowns) || containsAny(v.D, unknowns)
	}
	return false
}

// collect extracts the linear form of e over the unknowns, failing with
// ErrNonLinear on products of unknowns or unknowns in a denominator.
func collect(e Expr, unknowns map[string]bool) (linearForm, error) {
	zero := func() linearForm {
		return linearForm{coeffs: make(map[string]Expr), c: Num(0)}
	}
	switch v := e.(type) {
	case nil:
		return zero(), nil
	case Num:
		lf := zero()
		lf.c = v
		return lf, nil
	case Sym:
		lf := zero()
		if unknowns[string(v)] {
			lf.coeffs[string(v)] = Num(1)
		} else {
			lf.c = v
		}
		return lf, nil
	case Add:
		lf := zero()
		cTerms := make(Add, 0, len(v))
		cTerms = append(cTerms, lf.c)
		for _, t := range v {
			sub, err := collect(t, unknowns)
			if err != nil {
				return linearForm{}, err
			}
			for u, co := range sub.coeffs {
				if prev, ok := lf.coeffs[u]; ok {
					lf.coeffs[u] = Add{prev, co}
				} else {
					lf.coeffs[u] = co
				}
			}
			cTerms = append(cTerms, sub.c)
		}
		lf.c = cTerms
		return lf, nil
	case Mul:
		var carrier Expr
		rest := make(Mul, 0, len(v))
		for _, f := range v {
			if containsAny(f, unknowns) {
				if carrier != nil {
					return linearForm{}, fmt.Errorf("%w: %s", ErrNonLinear, e)
				}
				carrier = f
				continue
			}
			rest = append(rest, f)
		}
		if carrier == nil {
			lf := zero()
			lf.c = v
			return lf, nil
		}
		sub, err := collect(carrier, unknowns)
		if err != nil {
			return linearForm{}, err
		}
		lf := zero()
		for u, co := range sub.coeffs {
			lf.coeffs[u] = Mul(append(append(Mul{}, rest...), co))
		}
		lf.c = Mul(append(append(Mul{}, rest...), sub.c))
		return lf, nil
	case Div:
		if containsAny(v.D, unknowns) {
			return linearForm{}, fmt.Errorf("%w: %s", ErrNonLinear, e)
		}
		sub, err := collect(v.N, unknowns)
		if err != nil {
			return linearForm{}, err
		}
		lf := zero()
		for u, co := range sub.coeffs {
			lf.coeffs[u] = Div{N: co, D: v.D}
		}
		lf.c = Div{N: sub.c, D: v.D}
		return lf, nil
	}
	return linearForm{}, fmt.Errorf("algebra: cannot collect %T", e)
}

// LinearSolve solves the equations (each implicitly = 0) for the unknowns.
// Fully numeric square systems go through the sparse LU fast path; anything
// symbolic, or a system the factorization rejects, falls back to
// Gauss-Jordan elimination over expression fractions. The outcome is either
// one expression per unknown, ErrUnsatisfiable, or ErrUnderdetermined.
func LinearSolve(equations []Expr, unknowns []Sym) (map[Sym]Expr, error) {
	n := len(unknowns)
	set := make(map[string]bool, n)
	for _, u := range unknowns {
		set[string(u)] = true
	}

	rows := make([][]Expr, len(equations))
	rhs := make([]Expr, len(equations))
	for i, eq := range equations {
		lf, err := collect(eq, set)
		if err != nil {
			return nil, err
		}
		rows[i] = make([]Expr, n)
		for j, u := range unknowns {
			co, ok := lf.coeffs[string(u)]
			if !ok {
				co = Num(0)
			}
			rows[i][j] = Simplify(co)
		}
		rhs[i] = Simplify(Neg(lf.c))
	}

	if len(equations) == n {
		if a, b, ok := numericSystem(rows, rhs); ok {
			if x, err := solveNumeric(a, b); err == nil {
				sol := make(map[Sym]Expr, n)
				for j, u := range unknowns {
					sol[u] = Num(x[j])
				}
				return sol, nil
			}
			// Singular or otherwise rejected by the factorization: let the
			// symbolic path classify it.
		}
	}
	return solveSymbolic(rows, rhs, unknowns)
}

func numericSystem(rows [][]Expr, rhs []Expr) (a [][]float64, b []float64, ok bool) {
	a = make([][]float64, len(rows))
	b = make([]float64, len(rhs))
	for i, row := range rows {
		a[i] = make([]float64, len(row))
		for j, e := range row {
			num, isNum := e.(Num)
			if !isNum {
				return nil, nil, false
			}
			a[i][j] = float64(num)
		}
		num, isNum := rhs[i].(Num)
		if !isNum {
			return nil, nil, false
		}
		b[i] = float64(num)
	}
	return a, b, true
}

func solveSymbolic(rows [][]Expr, rhs []Expr, unknowns []Sym) (map[Sym]Expr, error) {
	m, n := len(rows), len(unknowns)
	pivotRow := make([]int, n)
	for i := range pivotRow {
		pivotRow[i] = -1
	}

	row := 0
	for col := 0; col < n && row < m; col++ {
		p := -1
		for r := row; r < m; r++ {
			if !IsZero(rows[r][col]) {
				p = r
				break
			}
		}
		if p == -1 {
			continue
		}
		rows[row], rows[p] = rows[p], rows[row]
		rhs[row], rhs[p] = rhs[p], rhs[row]

		piv := rows[row][col]
		for c := col; c < n; c++ {
			rows[row][c] = Simplify(Div{N: rows[row][c], D: piv})
		}
		rhs[row] = Simplify(Div{N: rhs[row], D: piv})

		for r := 0; r < m; r++ {
			if r == row {
				continue
			}
			f := rows[r][col]
			if IsZero(f) {
				continue
			}
			for c := col; c < n; c++ {
				rows[r][c] = Simplify(Add{rows[r][c], Neg(Mul{f, rows[row][c]})})
			}
			rhs[r] = Simplify(Add{rhs[r], Neg(Mul{f, rhs[row]})})
		}
		pivotRow[col] = row
		row++
	}

	// Leftover rows reduced to 0 = rhs; any nonzero residual is a
	// contradiction.
	for r := row; r < m; r++ {
		if !IsZero(rhs[r]) {
			return nil, fmt.Errorf("%w: residual %s = 0", ErrUnsatisfiable, rhs[r])
		}
	}
	for col, pr := range pivotRow {
		if pr == -1 {
			return nil, fmt.Errorf("%w: %s is free", ErrUnderdetermined, unknowns[col])
		}
	}

	sol := make(map[Sym]Expr, n)
	for col, pr := range pivotRow {
		sol[unknowns[col]] = Simplify(rhs[pr])
	}
	return sol, nil
}
