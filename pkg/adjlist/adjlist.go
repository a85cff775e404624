// Package adjlist reads the two input files of a ranking run: "nodes", holding
// the node count, and "adj_list", holding one sentinel-terminated link list
// per node.
package adjlist

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/ritzau/pagerank-gs/pkg/logging"
)

const (
	NodesFile   = "nodes"
	AdjListFile = "adj_list"

	// Sentinel terminates every link list
	Sentinel = -1
)

var (
	// ErrRead wraps failures to open or read an input file
	ErrRead = errors.New("cannot read input")

	// ErrMalformed marks input that does not follow the file format
	ErrMalformed = errors.New("malformed input")
)

// Graph is the parsed content of an input directory
type Graph struct {
	Nodes int
	Links [][]int // Links[i] lists the targets of node i in file order
}

// Edges returns the number of listed links, duplicates included
func (g *Graph) Edges() int {
	total := 0
	for _, targets := range g.Links {
		total += len(targets)
	}
	return total
}

// Load reads dir/nodes and dir/adj_list. checkNodes, when not nil, vets the
// node count before adj_list is read; its error is returned unwrapped.
func Load(dir string, checkNodes func(n int) error) (*Graph, error) {
	nodesPath := filepath.Join(dir, NodesFile)
	n, err := readFile(nodesPath, ParseNodeCount)
	if err != nil {
		return nil, err
	}
	if checkNodes != nil {
		if err := checkNodes(n); err != nil {
			return nil, err
		}
	}

	listPath := filepath.Join(dir, AdjListFile)
	links, err := readFile(listPath, func(r io.Reader) ([][]int, error) {
		return ParseLinks(r, n)
	})
	if err != nil {
		return nil, err
	}

	return &Graph{Nodes: n, Links: links}, nil
}

func readFile[T any](path string, parse func(io.Reader) (T, error)) (T, error) {
	var zero T

	file, err := os.Open(path)
	if err != nil {
		return zero, fmt.Errorf("%w %s: %w", ErrRead, path, err)
	}
	defer func() { _ = file.Close() }()

	v, err := parse(file)
	if err != nil {
		if errors.Is(err, ErrMalformed) {
			return zero, fmt.Errorf("%s: %w", path, err)
		}
		return zero, fmt.Errorf("%w %s: %w", ErrRead, path, err)
	}
	return v, nil
}

// ParseNodeCount reads a single positive integer
func ParseNodeCount(r io.Reader) (int, error) {
	scanner := bufio.NewScanner(r)
	scanner.Split(bufio.ScanWords)

	if !scanner.Scan() {
		if err := scanner.Err(); err != nil {
			return 0, err
		}
		return 0, fmt.Errorf("%w: node count missing", ErrMalformed)
	}

	word := scanner.Text()
	n, err := strconv.Atoi(word)
	if err != nil {
		return 0, fmt.Errorf("%w: node count %q is not an integer", ErrMalformed, word)
	}
	if n <= 0 {
		return 0, fmt.Errorf("%w: node count must be positive, got %d", ErrMalformed, n)
	}

	if scanner.Scan() {
		logging.Debug("ignoring trailing content after node count", "token", scanner.Text())
	}
	return n, nil
}

// ParseLinks reads n records of the form "pid: t1,t2,...,tk,-1".
// Targets may be separated by commas, whitespace or both, and a record may
// span several lines. The pid is positional: record i describes node i
// whatever number is written in front of the colon.
func ParseLinks(r io.Reader, n int) ([][]int, error) {
	if n <= 0 {
		return nil, fmt.Errorf("%w: node count must be positive, got %d", ErrMalformed, n)
	}

	tokens := newTokenizer(r)
	// n is not trusted yet, grow with the records actually present
	links := make([][]int, 0, min(n, 4096))

	for i := 0; i < n; i++ {
		if err := expectHeader(tokens, i, n); err != nil {
			return nil, err
		}

		targets := make([]int, 0)
		for {
			tok, err := tokens.next()
			if err == io.EOF {
				return nil, fmt.Errorf("%w: line %d: record %d has no %d sentinel", ErrMalformed, tokens.line, i, Sentinel)
			}
			if err != nil {
				return nil, err
			}
			if tok.text == ":" {
				return nil, fmt.Errorf("%w: line %d: record %d has no %d sentinel", ErrMalformed, tok.line, i, Sentinel)
			}

			j, convErr := strconv.Atoi(tok.text)
			if convErr != nil {
				return nil, fmt.Errorf("%w: line %d: target %q is not an integer", ErrMalformed, tok.line, tok.text)
			}
			if j == Sentinel {
				break
			}
			if j < 0 || j >= n {
				return nil, fmt.Errorf("%w: line %d: node %d links to %d, outside [0, %d)", ErrMalformed, tok.line, i, j, n)
			}
			targets = append(targets, j)
		}
		links = append(links, targets)
	}

	if tok, err := tokens.next(); err == nil {
		logging.Debug("ignoring content after last record", "line", tok.line, "token", tok.text)
	}

	return links, nil
}

// expectHeader consumes "pid" and ":" for record i of n
func expectHeader(tokens *tokenizer, i, n int) error {
	tok, err := tokens.next()
	if err == io.EOF {
		return fmt.Errorf("%w: expected %d records, found %d", ErrMalformed, n, i)
	}
	if err != nil {
		return err
	}
	pid, convErr := strconv.Atoi(tok.text)
	if convErr != nil {
		return fmt.Errorf("%w: line %d: record %d: source id %q is not an integer", ErrMalformed, tok.line, i, tok.text)
	}
	if pid != i {
		logging.Trace("source id differs from record position", "line", tok.line, "pid", pid, "position", i)
	}

	colon, err := tokens.next()
	if err == io.EOF || (err == nil && colon.text != ":") {
		return fmt.Errorf("%w: line %d: record %d: expected ':' after source id", ErrMalformed, tok.line, i)
	}
	return err
}

type token struct {
	text string
	line int
}

// tokenizer splits the input into integers and ':' tokens, treating commas
// and whitespace as separators
type tokenizer struct {
	scanner *bufio.Scanner
	pending []token
	line    int
}

func newTokenizer(r io.Reader) *tokenizer {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	return &tokenizer{scanner: scanner}
}

func (t *tokenizer) next() (token, error) {
	for len(t.pending) == 0 {
		if !t.scanner.Scan() {
			if err := t.scanner.Err(); err != nil {
				return token{}, err
			}
			return token{}, io.EOF
		}
		t.line++
		t.pending = splitLine(t.scanner.Text(), t.line)
	}

	tok := t.pending[0]
	t.pending = t.pending[1:]
	return tok, nil
}

func splitLine(line string, lineNo int) []token {
	fields := strings.FieldsFunc(line, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\t' || r == '\r'
	})

	var tokens []token
	for _, field := range fields {
		// "12:" and "12:3" both carry the colon inside the field
		for {
			idx := strings.IndexByte(field, ':')
			if idx == -1 {
				break
			}
			if idx > 0 {
				tokens = append(tokens, token{text: field[:idx], line: lineNo})
			}
			tokens = append(tokens, token{text: ":", line: lineNo})
			field = field[idx+1:]
		}
		if field != "" {
			tokens = append(tokens, token{text: field, line: lineNo})
		}
	}
	return tokens
}
