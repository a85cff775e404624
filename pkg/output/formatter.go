package output

import (
	"fmt"
	"io"
	"sort"

	"github.com/fatih/color"
	"github.com/ritzau/pagerank-gs/pkg/pagerank"
	"gonum.org/v1/gonum/floats"
)

// Summary describes a finished ranking run for the console report
type Summary struct {
	Dir        string
	Nodes      int
	Edges      int
	Dangling   int
	Components int
	Result     *pagerank.Result
	Tolerance  float64
	Top        int // number of highest ranked nodes to list, 0 disables
	RanksFile  string
}

// RankedNode pairs a node index with its score
type RankedNode struct {
	Node int
	Rank float64
}

// TopRanked returns the k highest ranked nodes, ties broken by lower index
func TopRanked(ranks []float64, k int) []RankedNode {
	nodes := make([]RankedNode, len(ranks))
	for i, r := range ranks {
		nodes[i] = RankedNode{Node: i, Rank: r}
	}
	sort.SliceStable(nodes, func(a, b int) bool {
		return nodes[a].Rank > nodes[b].Rank
	})
	if k < len(nodes) {
		nodes = nodes[:k]
	}
	return nodes
}

// PrintSummary prints the timing line followed by a colorized report
func PrintSummary(w io.Writer, s Summary) {
	bold := color.New(color.Bold)
	green := color.New(color.FgGreen)
	yellow := color.New(color.FgYellow)
	red := color.New(color.FgRed)
	cyan := color.New(color.FgCyan)

	res := s.Result
	fmt.Fprintf(w, "time:\t%f epsilon:\t%f it:\t%d\n", res.Elapsed.Seconds(), res.Residual, res.Iterations)
	fmt.Fprintln(w)

	bold.Fprintln(w, "Gauss-Seidel PageRank")
	bold.Fprintln(w, "=====================")
	fmt.Fprintf(w, "Directory: %s\n", s.Dir)
	fmt.Fprintf(w, "Graph: %d nodes, %d links\n", s.Nodes, s.Edges)

	if s.Dangling > 0 {
		yellow.Fprintf(w, "Dangling: %d node(s) linked to every page\n", s.Dangling)
	}
	if s.Components > 1 {
		yellow.Fprintf(w, "Components: %d strongly connected components\n", s.Components)
	}

	if res.Converged {
		green.Fprintf(w, "Converged: %d iterations, residual %.3e <= %.0e\n", res.Iterations, res.Residual, s.Tolerance)
	} else {
		red.Fprintf(w, "Not converged: stopped after %d iterations, residual %.3e > %.0e\n", res.Iterations, res.Residual, s.Tolerance)
	}
	fmt.Fprintf(w, "Rank sum: %.6f\n", floats.Sum(res.Ranks))

	if s.Top > 0 {
		fmt.Fprintln(w)
		bold.Fprintf(w, "Top %d:\n", min(s.Top, len(res.Ranks)))
		for i, rn := range TopRanked(res.Ranks, s.Top) {
			cyan.Fprintf(w, "  %3d. ", i+1)
			fmt.Fprintf(w, "node %-8d %f\n", rn.Node, rn.Rank)
		}
	}

	if s.RanksFile != "" {
		fmt.Fprintln(w)
		fmt.Fprintf(w, "Ranks written to %s\n", s.RanksFile)
	}
}
