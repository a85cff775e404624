package runner

import (
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/ritzau/pagerank-gs/pkg/adjlist"
	"github.com/ritzau/pagerank-gs/pkg/config"
	"github.com/ritzau/pagerank-gs/pkg/graph"
	"github.com/ritzau/pagerank-gs/pkg/logging"
	"github.com/ritzau/pagerank-gs/pkg/output"
	"github.com/ritzau/pagerank-gs/pkg/pagerank"
	"github.com/ritzau/pagerank-gs/pkg/watcher"
)

// Report is what one run produced
type Report struct {
	RunID      string
	Nodes      int
	Edges      int
	Dangling   int
	Components int
	Result     *pagerank.Result
	OutputPath string
}

// Runner executes the load, build, solve and write stages for a directory
type Runner struct {
	cfg *config.Config
	out io.Writer  // console summary, nil to skip it
	mu  sync.Mutex // Prevent concurrent runs
}

// NewRunner creates a runner. The summary of every run is printed to out.
func NewRunner(cfg *config.Config, out io.Writer) *Runner {
	return &Runner{cfg: cfg, out: out}
}

// Run ranks the configured directory once. Stages are sequential; ctx is
// only checked between them.
func (r *Runner) Run(ctx context.Context) (*Report, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	report := &Report{RunID: logging.NewRunID(), OutputPath: r.cfg.OutputPath()}
	ctx = logging.WithRunID(ctx, report.RunID)
	params := r.cfg.Params()

	logging.InfoContext(ctx, "[1/4] Loading graph", "dir", r.cfg.Dir)
	parsed, err := adjlist.Load(r.cfg.Dir, func(n int) error {
		return graph.CheckSize(n, r.cfg.MaxCells)
	})
	if err != nil {
		return nil, err
	}
	report.Nodes = parsed.Nodes
	report.Edges = parsed.Edges()

	// Computed from the raw links, before the matrix is densified
	components := graph.Components(parsed.Nodes, parsed.Links)

	adj, err := graph.Load(parsed, r.cfg.MaxCells)
	if err != nil {
		return nil, err
	}
	report.Dangling = len(adj.Dangling)
	report.Components = len(components)
	logging.InfoContext(ctx, "[1/4] Complete",
		"nodes", report.Nodes,
		"links", report.Edges,
		"dangling", report.Dangling,
		"components", report.Components,
	)
	if report.Components > 1 {
		logging.WarnContext(ctx, "graph is not strongly connected", "components", report.Components, "largest", len(components[0]))
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	logging.InfoContext(ctx, "[2/4] Building coefficient matrix", "alpha", params.Alpha)
	if err := params.Validate(); err != nil {
		return nil, err
	}
	if err := pagerank.BuildCoefficientMatrix(adj.Matrix, adj.OutDegree, params.Alpha); err != nil {
		return nil, fmt.Errorf("building coefficient matrix: %w", err)
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	logging.InfoContext(ctx, "[3/4] Solving", "tolerance", params.Tolerance, "maxIterations", params.MaxIterations)
	res, err := pagerank.Solve(adj.Matrix, params)
	if err != nil {
		return nil, fmt.Errorf("solving: %w", err)
	}
	report.Result = res
	logging.InfoContext(ctx, "[3/4] Complete",
		"iterations", res.Iterations,
		"residual", res.Residual,
		"elapsedMs", res.Elapsed.Milliseconds(),
	)
	if !res.Converged {
		logging.WarnContext(ctx, "iteration cap reached before convergence",
			"iterations", res.Iterations,
			"residual", res.Residual,
			"tolerance", params.Tolerance,
		)
	}

	logging.InfoContext(ctx, "[4/4] Writing ranks", "path", report.OutputPath)
	if err := output.WriteRanks(report.OutputPath, res.Ranks); err != nil {
		return nil, err
	}

	if r.out != nil {
		output.PrintSummary(r.out, output.Summary{
			Dir:        r.cfg.Dir,
			Nodes:      report.Nodes,
			Edges:      report.Edges,
			Dangling:   report.Dangling,
			Components: report.Components,
			Result:     res,
			Tolerance:  params.Tolerance,
			Top:        r.cfg.Top,
			RanksFile:  report.OutputPath,
		})
	}

	return report, nil
}

// Watch runs once, then again every time the input files change, until ctx
// is done. Failed runs are logged and do not stop watching; only a failure
// to set up the watcher is returned.
func (r *Runner) Watch(ctx context.Context) error {
	if _, err := r.Run(ctx); err != nil {
		logging.Error("initial run failed", "error", err)
	}

	fw, err := watcher.NewFileWatcher(r.cfg.Dir)
	if err != nil {
		return err
	}
	if err := fw.Start(ctx); err != nil {
		return err
	}

	debouncer := watcher.NewDebouncer(fw.Events(), 300*time.Millisecond, 2*time.Second)
	debouncer.Start(ctx)

	for event := range debouncer.Output() {
		analysis := watcher.AnalyzeChanges(event, r.cfg.Dir)
		if !analysis.NeedRerun {
			logging.Warn("input incomplete, waiting", "missing", analysis.MissingInputs)
			continue
		}

		logging.Info("inputs changed, re-ranking", "change", event.Type.String(), "files", len(analysis.ChangedFiles))
		if _, err := r.Run(ctx); err != nil {
			if ctx.Err() != nil {
				break
			}
			logging.Error("run failed", "error", err)
		}
	}

	return nil
}
