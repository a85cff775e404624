package watcher

import (
	"os"
	"path/filepath"

	"github.com/ritzau/pagerank-gs/pkg/adjlist"
)

// ChangeAnalysis describes whether a batch of changes warrants a new run
type ChangeAnalysis struct {
	NeedRerun     bool
	MissingInputs []string
	ChangedFiles  []string
}

// AnalyzeChanges decides whether to re-rank after event. Removing or renaming
// an input only triggers a run once both files exist again.
func AnalyzeChanges(event ChangeEvent, dir string) *ChangeAnalysis {
	analysis := &ChangeAnalysis{
		ChangedFiles: event.Paths,
	}

	for _, name := range []string{adjlist.NodesFile, adjlist.AdjListFile} {
		path := filepath.Join(dir, name)
		if _, err := os.Stat(path); err != nil {
			analysis.MissingInputs = append(analysis.MissingInputs, path)
		}
	}

	// Both change types need every input in place before a run can succeed
	analysis.NeedRerun = len(analysis.MissingInputs) == 0

	return analysis
}
