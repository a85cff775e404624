package pagerank

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/mat"
)

var (
	ErrDimensionMismatch    = errors.New("matrix and out-degree dimensions differ")
	ErrNonPositiveOutDegree = errors.New("out-degree must be positive")
)

// BuildCoefficientMatrix rewrites the adjacency matrix m in place into
// M = I - α·Pᵀ, where P is m with every row divided by its out-degree.
//
// The steps are applied in this order on the same storage:
//  1. m[i][j] = α·m[i][j]/outdeg[i]
//  2. transpose
//  3. negate off-diagonal entries, then m[i][i] = 1 - m[i][i]
//
// outdeg must come from a dangling-corrected adjacency.
func BuildCoefficientMatrix(m *mat.Dense, outdeg []int, alpha float64) error {
	r, c := m.Dims()
	if r != c || r != len(outdeg) {
		return fmt.Errorf("%w: matrix is %dx%d, out-degree has %d entries", ErrDimensionMismatch, r, c, len(outdeg))
	}
	for i, d := range outdeg {
		if d <= 0 {
			return fmt.Errorf("%w: node %d has out-degree %d", ErrNonPositiveOutDegree, i, d)
		}
	}

	n := r
	raw := m.RawMatrix()
	data, stride := raw.Data, raw.Stride

	for i := 0; i < n; i++ {
		row := data[i*stride : i*stride+n]
		deg := float64(outdeg[i])
		for j := range row {
			row[j] = alpha * row[j] / deg
		}
	}

	transpose(data, stride, n)

	for i := 0; i < n; i++ {
		for j := 0; j < i; j++ {
			data[i*stride+j] = -data[i*stride+j]
			data[j*stride+i] = -data[j*stride+i]
		}
	}
	for i := 0; i < n; i++ {
		data[i*stride+i] = 1 - data[i*stride+i]
	}

	return nil
}

// transpose swaps the strict lower and upper triangles of an n×n block
func transpose(data []float64, stride, n int) {
	for i := 0; i < n; i++ {
		for j := 0; j < i; j++ {
			data[i*stride+j], data[j*stride+i] = data[j*stride+i], data[i*stride+j]
		}
	}
}
