package graph

import (
	"errors"
	"fmt"
	"math"

	"github.com/ritzau/pagerank-gs/pkg/adjlist"
	"github.com/ritzau/pagerank-gs/pkg/logging"
	"gonum.org/v1/gonum/mat"
)

// DefaultMaxCells bounds the dense matrix at 2^27 cells (1 GiB of float64)
const DefaultMaxCells = 1 << 27

var (
	// ErrTooLarge is returned when N×N cells exceed the configured limit
	ErrTooLarge = errors.New("graph too large for a dense matrix")

	// ErrEmpty is returned for a graph without nodes
	ErrEmpty = errors.New("graph has no nodes")
)

// Adjacency is the dense 0/1 link matrix of a page graph together with
// the out-degree of every node
type Adjacency struct {
	Matrix    *mat.Dense
	OutDegree []int
	Dangling  []int // nodes that had no outbound links before correction
}

// Load materializes the parsed graph and applies dangling-node correction.
// maxCells <= 0 means DefaultMaxCells.
func Load(g *adjlist.Graph, maxCells int) (*Adjacency, error) {
	a, err := NewAdjacency(g.Nodes, g.Links, maxCells)
	if err != nil {
		return nil, err
	}
	a.CorrectDangling()
	return a, nil
}

// CheckSize reports whether an n×n dense matrix fits in maxCells.
// maxCells <= 0 means DefaultMaxCells.
func CheckSize(n, maxCells int) error {
	if n <= 0 {
		return ErrEmpty
	}
	if maxCells <= 0 {
		maxCells = DefaultMaxCells
	}
	if n > maxCells/n {
		return fmt.Errorf("%w: %d nodes need %d cells, limit is %d", ErrTooLarge, n, cells(n), maxCells)
	}
	return nil
}

// cells is n² or, when that overflows, the largest int64
func cells(n int) int64 {
	if int64(n) > math.MaxInt64/int64(n) {
		return math.MaxInt64
	}
	return int64(n) * int64(n)
}

// NewAdjacency sets A[i][j] = 1 for every listed link i→j. A repeated link
// sets the same cell again but still counts towards the out-degree.
func NewAdjacency(n int, links [][]int, maxCells int) (*Adjacency, error) {
	if err := CheckSize(n, maxCells); err != nil {
		return nil, err
	}
	if len(links) > n {
		return nil, fmt.Errorf("%w: %d link lists for %d nodes", adjlist.ErrMalformed, len(links), n)
	}

	m := mat.NewDense(n, n, nil)
	raw := m.RawMatrix()
	outdeg := make([]int, n)
	duplicates := 0

	for i, targets := range links {
		row := raw.Data[i*raw.Stride : i*raw.Stride+n]
		for _, j := range targets {
			if j < 0 || j >= n {
				return nil, fmt.Errorf("%w: node %d links to %d, outside [0, %d)", adjlist.ErrMalformed, i, j, n)
			}
			if row[j] != 0 {
				duplicates++
			}
			row[j] = 1
			outdeg[i]++
		}
	}

	if duplicates > 0 {
		logging.Debug("repeated links counted in out-degree", "duplicates", duplicates)
	}

	return &Adjacency{Matrix: m, OutDegree: outdeg}, nil
}

// Nodes returns N
func (a *Adjacency) Nodes() int {
	return len(a.OutDegree)
}

// CorrectDangling links every node without outbound links to all nodes,
// itself included, and sets its out-degree to N. Running it again is a no-op.
// It returns the number of nodes corrected by this call.
func (a *Adjacency) CorrectDangling() int {
	n := a.Nodes()
	raw := a.Matrix.RawMatrix()
	corrected := 0

	for i := 0; i < n; i++ {
		if a.OutDegree[i] != 0 {
			continue
		}
		row := raw.Data[i*raw.Stride : i*raw.Stride+n]
		for j := range row {
			row[j] = 1
		}
		a.OutDegree[i] = n
		a.Dangling = append(a.Dangling, i)
		corrected++
	}

	return corrected
}
