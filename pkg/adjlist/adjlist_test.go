package adjlist

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
)

func writeDataset(t *testing.T, nodes, adjList string) string {
	t.Helper()
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, NodesFile), []byte(nodes), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, AdjListFile), []byte(adjList), 0o644); err != nil {
		t.Fatal(err)
	}
	return dir
}

func TestParseNodeCount(t *testing.T) {
	tests := []struct {
		input   string
		want    int
		wantErr bool
	}{
		{"3\n", 3, false},
		{"  42  ", 42, false},
		{"1", 1, false},
		{"", 0, true},
		{"0\n", 0, true},
		{"-5\n", 0, true},
		{"abc\n", 0, true},
	}

	for _, tt := range tests {
		got, err := ParseNodeCount(strings.NewReader(tt.input))
		if tt.wantErr {
			if !errors.Is(err, ErrMalformed) {
				t.Errorf("ParseNodeCount(%q) error = %v, want ErrMalformed", tt.input, err)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseNodeCount(%q) unexpected error: %v", tt.input, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseNodeCount(%q) = %d, want %d", tt.input, got, tt.want)
		}
	}
}

func TestParseLinks(t *testing.T) {
	input := "0: 1,2,-1\n1: -1\n2: 0,-1\n"

	links, err := ParseLinks(strings.NewReader(input), 3)
	if err != nil {
		t.Fatalf("ParseLinks() error = %v", err)
	}

	want := [][]int{{1, 2}, {}, {0}}
	if !reflect.DeepEqual(links, want) {
		t.Errorf("ParseLinks() = %v, want %v", links, want)
	}
}

func TestParseLinksSeparators(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"commas", "0: 1,2,-1\n1: 0,-1\n2: -1\n"},
		{"spaces", "0: 1 2 -1\n1: 0 -1\n2: -1\n"},
		{"mixed", "0:1, 2 ,-1\n1:\t0,-1\n2: -1"},
		{"record spans lines", "0: 1,\n2,\n-1\n1: 0,-1\n2:\n-1\n"},
		{"crlf", "0: 1,2,-1\r\n1: 0,-1\r\n2: -1\r\n"},
	}

	want := [][]int{{1, 2}, {0}, {}}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			links, err := ParseLinks(strings.NewReader(tt.input), 3)
			if err != nil {
				t.Fatalf("ParseLinks() error = %v", err)
			}
			if !reflect.DeepEqual(links, want) {
				t.Errorf("ParseLinks() = %v, want %v", links, want)
			}
		})
	}
}

func TestParseLinksKeepsDuplicates(t *testing.T) {
	links, err := ParseLinks(strings.NewReader("0: 1,1,-1\n1: 0,-1\n"), 2)
	if err != nil {
		t.Fatalf("ParseLinks() error = %v", err)
	}
	if !reflect.DeepEqual(links[0], []int{1, 1}) {
		t.Errorf("duplicates should be preserved, got %v", links[0])
	}
}

func TestParseLinksPositionalSourceID(t *testing.T) {
	// Source ids are positional, so 1-based ids still describe nodes 0 and 1
	links, err := ParseLinks(strings.NewReader("1: 1,-1\n2: 0,-1\n"), 2)
	if err != nil {
		t.Fatalf("ParseLinks() error = %v", err)
	}
	if !reflect.DeepEqual(links, [][]int{{1}, {0}}) {
		t.Errorf("ParseLinks() = %v", links)
	}
}

func TestParseLinksMalformed(t *testing.T) {
	tests := []struct {
		name  string
		input string
		n     int
		msg   string
	}{
		{"target out of range", "0: 3,-1\n1: -1\n", 2, "outside [0, 2)"},
		{"negative target", "0: -2,-1\n1: -1\n", 2, "outside"},
		{"missing sentinel", "0: 1\n1: 0\n", 2, "sentinel"},
		{"missing colon", "0 1,-1\n1: 0,-1\n", 2, "expected ':'"},
		{"non-integer target", "0: x,-1\n1: -1\n", 2, "not an integer"},
		{"non-integer source", "a: 1,-1\n1: -1\n", 2, "source id"},
		{"too few records", "0: 1,-1\n", 2, "expected 2 records, found 1"},
		{"empty file", "", 1, "expected 1 records, found 0"},
		{"bad count", "0: -1\n", 0, "must be positive"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseLinks(strings.NewReader(tt.input), tt.n)
			if !errors.Is(err, ErrMalformed) {
				t.Fatalf("ParseLinks() error = %v, want ErrMalformed", err)
			}
			if !strings.Contains(err.Error(), tt.msg) {
				t.Errorf("error %q should mention %q", err, tt.msg)
			}
		})
	}
}

func TestLoad(t *testing.T) {
	dir := writeDataset(t, "3\n", "0: 1,-1\n1: 2,-1\n2: -1\n")

	g, err := Load(dir, nil)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if g.Nodes != 3 {
		t.Errorf("Nodes = %d, want 3", g.Nodes)
	}
	if g.Edges() != 2 {
		t.Errorf("Edges() = %d, want 2", g.Edges())
	}
}

func TestLoadMissingFiles(t *testing.T) {
	dir := t.TempDir()

	_, err := Load(dir, nil)
	if !errors.Is(err, ErrRead) {
		t.Fatalf("Load() error = %v, want ErrRead", err)
	}
	if !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("Load() error = %v, should wrap fs.ErrNotExist", err)
	}
	if !strings.Contains(err.Error(), filepath.Join(dir, NodesFile)) {
		t.Errorf("error should name the offending path: %v", err)
	}

	if err := os.WriteFile(filepath.Join(dir, NodesFile), []byte("2"), 0o644); err != nil {
		t.Fatal(err)
	}
	_, err = Load(dir, nil)
	if !errors.Is(err, ErrRead) || !strings.Contains(err.Error(), AdjListFile) {
		t.Errorf("Load() error = %v, want ErrRead naming %s", err, AdjListFile)
	}
}

func TestLoadMalformedNamesPath(t *testing.T) {
	dir := writeDataset(t, "2\n", "0: 5,-1\n1: -1\n")

	_, err := Load(dir, nil)
	if !errors.Is(err, ErrMalformed) {
		t.Fatalf("Load() error = %v, want ErrMalformed", err)
	}
	if errors.Is(err, ErrRead) {
		t.Errorf("malformed input should not be reported as a read error: %v", err)
	}
	if !strings.Contains(err.Error(), filepath.Join(dir, AdjListFile)) {
		t.Errorf("error should name the offending path: %v", err)
	}
}

func TestLoadChecksNodeCountBeforeLinks(t *testing.T) {
	// adj_list is garbage: the check must reject n before it is parsed
	dir := writeDataset(t, "1000000000000000\n", "not a record\n")
	errLimit := errors.New("too many nodes")

	var checked int
	_, err := Load(dir, func(n int) error {
		checked = n
		return errLimit
	})
	if !errors.Is(err, errLimit) {
		t.Fatalf("Load() error = %v, want the check's error", err)
	}
	if checked != 1000000000000000 {
		t.Errorf("check saw n = %d", checked)
	}
}

func TestParseLinksHugeCountWithShortInput(t *testing.T) {
	_, err := ParseLinks(strings.NewReader("0: -1\n"), 1000000000000000)
	if !errors.Is(err, ErrMalformed) {
		t.Fatalf("ParseLinks() error = %v, want ErrMalformed", err)
	}
	if !strings.Contains(err.Error(), "found 1") {
		t.Errorf("error %q should report the records found", err)
	}
}
