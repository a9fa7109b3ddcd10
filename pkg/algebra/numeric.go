package algebra

import (
	"fmt"
	"math"

	"github.com/edp1096/sparse"
)

// solveNumeric LU-factors and solves a dense-free square system through the
// sparse kernel. Indices are 1-based on the sparse side.
func solveNumeric(a [][]float64, b []float64) ([]float64, error) {
	n := len(a)
	if n == 0 {
		return nil, nil
	}

	config := &sparse.Configuration{
		Real:           true,
		Expandable:     true,
		Translate:      false,
		ModifiedNodal:  true,
		TiesMultiplier: 5,
		PrinterWidth:   140,
	}
	m, err := sparse.Create(int64(n), config)
	if err != nil {
		return nil, fmt.Errorf("creating sparse matrix: %w", err)
	}
	defer m.Destroy()

	m.Clear()
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			if a[i][j] != 0 {
				m.GetElement(int64(i+1), int64(j+1)).Real += a[i][j]
			}
		}
	}

	rhs := make([]float64, n+1)
	for i := 0; i < n; i++ {
		rhs[i+1] = b[i]
	}

	if err := m.Factor(); err != nil {
		return nil, fmt.Errorf("factoring system: %w", err)
	}
	x, err := m.Solve(rhs)
	if err != nil {
		return nil, fmt.Errorf("solving system: %w", err)
	}

	out := make([]float64, n)
	copy(out, x[1:n+1])

	// A near-singular factorization can still "solve"; verify the residual
	// before trusting the result.
	for i := 0; i < n; i++ {
		r := -b[i]
		for j := 0; j < n; j++ {
			r += a[i][j] * out[j]
		}
		if math.IsNaN(r) || math.Abs(r) > 1e-9*(1+math.Abs(b[i])) {
			return nil, fmt.Errorf("solving system: residual %g at row %d", r, i+1)
		}
	}
	return out, nil
}
