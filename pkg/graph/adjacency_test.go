package graph

import (
	"errors"
	"testing"

	"github.com/ritzau/pagerank-gs/pkg/adjlist"
	"gonum.org/v1/gonum/mat"
)

func TestNewAdjacency(t *testing.T) {
	a, err := NewAdjacency(3, [][]int{{1, 2}, {2}, {0}}, 0)
	if err != nil {
		t.Fatalf("NewAdjacency() error = %v", err)
	}

	want := mat.NewDense(3, 3, []float64{
		0, 1, 1,
		0, 0, 1,
		1, 0, 0,
	})
	if !mat.Equal(a.Matrix, want) {
		t.Errorf("matrix =\n%v\nwant\n%v", mat.Formatted(a.Matrix), mat.Formatted(want))
	}

	wantDeg := []int{2, 1, 1}
	for i, d := range a.OutDegree {
		if d != wantDeg[i] {
			t.Errorf("OutDegree[%d] = %d, want %d", i, d, wantDeg[i])
		}
	}
}

func TestNewAdjacencyDuplicateLinks(t *testing.T) {
	a, err := NewAdjacency(2, [][]int{{1, 1}, {0}}, 0)
	if err != nil {
		t.Fatalf("NewAdjacency() error = %v", err)
	}

	if a.Matrix.At(0, 1) != 1 {
		t.Errorf("repeated link should set the cell to 1, got %v", a.Matrix.At(0, 1))
	}
	if a.OutDegree[0] != 2 {
		t.Errorf("repeated link should still count towards out-degree, got %d", a.OutDegree[0])
	}
}

func TestNewAdjacencyErrors(t *testing.T) {
	tests := []struct {
		name     string
		n        int
		links    [][]int
		maxCells int
		want     error
	}{
		{"no nodes", 0, nil, 0, ErrEmpty},
		{"target out of range", 2, [][]int{{2}, {}}, 0, adjlist.ErrMalformed},
		{"negative target", 2, [][]int{{-1}, {}}, 0, adjlist.ErrMalformed},
		{"too many lists", 1, [][]int{{}, {}}, 0, adjlist.ErrMalformed},
		{"exceeds cell limit", 10, make([][]int, 10), 99, ErrTooLarge},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a, err := NewAdjacency(tt.n, tt.links, tt.maxCells)
			if !errors.Is(err, tt.want) {
				t.Errorf("NewAdjacency() error = %v, want %v", err, tt.want)
			}
			if a != nil {
				t.Error("no adjacency should be returned on error")
			}
		})
	}
}

func TestCellLimitBoundary(t *testing.T) {
	if _, err := NewAdjacency(10, make([][]int, 10), 100); err != nil {
		t.Errorf("exactly maxCells cells should be accepted, got %v", err)
	}
}

func TestCheckSize(t *testing.T) {
	tests := []struct {
		name     string
		n        int
		maxCells int
		want     error
	}{
		{"fits", 10, 100, nil},
		{"one node over", 11, 100, ErrTooLarge},
		{"default limit", 11585, 0, nil},
		{"huge count", 1000000000000000, 0, ErrTooLarge},
		{"empty", 0, 0, ErrEmpty},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := CheckSize(tt.n, tt.maxCells)
			if !errors.Is(err, tt.want) {
				t.Errorf("CheckSize(%d, %d) = %v, want %v", tt.n, tt.maxCells, err, tt.want)
			}
		})
	}
}

func TestCorrectDangling(t *testing.T) {
	a, err := NewAdjacency(3, [][]int{{1}, {2}, {}}, 0)
	if err != nil {
		t.Fatalf("NewAdjacency() error = %v", err)
	}

	if got := a.CorrectDangling(); got != 1 {
		t.Errorf("CorrectDangling() = %d, want 1", got)
	}

	for j := 0; j < 3; j++ {
		if a.Matrix.At(2, j) != 1 {
			t.Errorf("dangling row should link to node %d", j)
		}
	}
	if a.OutDegree[2] != 3 {
		t.Errorf("OutDegree[2] = %d, want 3", a.OutDegree[2])
	}
	if len(a.Dangling) != 1 || a.Dangling[0] != 2 {
		t.Errorf("Dangling = %v, want [2]", a.Dangling)
	}
}

func TestCorrectDanglingIdempotent(t *testing.T) {
	a, err := NewAdjacency(4, [][]int{{}, {0, 2}, {}, {3}}, 0)
	if err != nil {
		t.Fatalf("NewAdjacency() error = %v", err)
	}

	a.CorrectDangling()
	once := mat.DenseCopyOf(a.Matrix)
	onceDeg := append([]int(nil), a.OutDegree...)

	if got := a.CorrectDangling(); got != 0 {
		t.Errorf("second CorrectDangling() corrected %d nodes, want 0", got)
	}
	if !mat.Equal(a.Matrix, once) {
		t.Error("second correction changed the matrix")
	}
	for i := range onceDeg {
		if a.OutDegree[i] != onceDeg[i] {
			t.Errorf("second correction changed OutDegree[%d]", i)
		}
	}
}

func TestRowSumsMatchOutDegree(t *testing.T) {
	links := [][]int{{1, 2, 3}, {}, {0}, {3}, {}}
	a, err := Load(&adjlist.Graph{Nodes: 5, Links: links}, 0)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	for i := 0; i < a.Nodes(); i++ {
		if a.OutDegree[i] <= 0 {
			t.Errorf("OutDegree[%d] = %d, want > 0", i, a.OutDegree[i])
		}
		sum := mat.Sum(a.Matrix.RowView(i))
		if sum != float64(a.OutDegree[i]) {
			t.Errorf("row %d sums to %v, out-degree is %d", i, sum, a.OutDegree[i])
		}
	}
}

func TestLoadSingleNode(t *testing.T) {
	a, err := Load(&adjlist.Graph{Nodes: 1, Links: [][]int{{}}}, 0)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if a.Matrix.At(0, 0) != 1 || a.OutDegree[0] != 1 {
		t.Errorf("single dangling node should link to itself, got A=%v outdeg=%d", a.Matrix.At(0, 0), a.OutDegree[0])
	}
}
