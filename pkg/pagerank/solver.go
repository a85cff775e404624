package pagerank

import (
	"errors"
	"fmt"
	"math"
	"time"

	"gonum.org/v1/gonum/mat"
)

// ErrZeroDiagonal is returned when a diagonal entry of M is exactly zero.
// It cannot happen for α < 1 and positive out-degrees.
var ErrZeroDiagonal = errors.New("zero diagonal entry in coefficient matrix")

// Result is the outcome of a Gauss-Seidel solve
type Result struct {
	Ranks      []float64
	Residual   float64 // Euclidean norm of the last sweep's change
	Iterations int
	Converged  bool          // Residual <= Tolerance
	Elapsed    time.Duration // sweep loop only
}

// Solve finds x with M·x = ((1-α)/N)·𝟙 starting from x = 1/N.
//
// Each sweep updates x in place, so row i already sees the new values of
// rows 0..i-1. The loop stops when the norm of the sweep's change drops to
// p.Tolerance or after p.MaxIterations sweeps, whichever comes first.
func Solve(m *mat.Dense, p Params) (*Result, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	r, c := m.Dims()
	if r != c {
		return nil, fmt.Errorf("%w: coefficient matrix is %dx%d", ErrDimensionMismatch, r, c)
	}

	n := r
	raw := m.RawMatrix()
	data, stride := raw.Data, raw.Stride

	for i := 0; i < n; i++ {
		if data[i*stride+i] == 0 {
			return nil, fmt.Errorf("%w: row %d", ErrZeroDiagonal, i)
		}
	}

	x := make([]float64, n)
	for i := range x {
		x[i] = 1.0 / float64(n)
	}
	rhs := (1 - p.Alpha) / float64(n)

	var (
		iterations int
		sumSq      float64
	)

	start := time.Now()
	for {
		iterations++
		sumSq = 0

		for i := 0; i < n; i++ {
			row := data[i*stride : i*stride+n]
			dot := 0.0
			for j, v := range row {
				if j != i {
					dot += v * x[j]
				}
			}

			xNew := (rhs - dot) / row[i]
			delta := x[i] - xNew
			sumSq += delta * delta
			x[i] = xNew
		}

		if math.Sqrt(sumSq) <= p.Tolerance || iterations >= p.MaxIterations {
			break
		}
	}
	elapsed := time.Since(start)

	residual := math.Sqrt(sumSq)
	return &Result{
		Ranks:      x,
		Residual:   residual,
		Iterations: iterations,
		Converged:  residual <= p.Tolerance,
		Elapsed:    elapsed,
	}, nil
}

// Rank transforms m in place and solves the resulting system. m and outdeg
// must describe a dangling-corrected adjacency.
func Rank(m *mat.Dense, outdeg []int, p Params) (*Result, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	if err := BuildCoefficientMatrix(m, outdeg, p.Alpha); err != nil {
		return nil, err
	}
	return Solve(m, p)
}
