package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/toml/v2"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/ritzau/pagerank-gs/pkg/graph"
	"github.com/ritzau/pagerank-gs/pkg/logging"
	"github.com/ritzau/pagerank-gs/pkg/output"
	"github.com/ritzau/pagerank-gs/pkg/pagerank"
	"github.com/spf13/pflag"
)

const (
	// FileName is the optional config file looked up in the working directory
	FileName = "pagerank-gs.toml"

	// EnvPrefix selects environment overrides, e.g. PAGERANK_GS_MAX_ITERATIONS=500
	EnvPrefix = "PAGERANK_GS_"
)

// ErrUsage is returned when the positional arguments are wrong
var ErrUsage = errors.New("expected exactly one argument: the directory holding nodes and adj_list")

// Config holds all configuration for the application
type Config struct {
	Dir           string  `koanf:"dir"`
	Alpha         float64 `koanf:"alpha"`
	Tolerance     float64 `koanf:"tolerance"`
	MaxIterations int     `koanf:"max-iterations"`
	Output        string  `koanf:"output"`
	MaxCells      int     `koanf:"max-cells"`
	Top           int     `koanf:"top"`
	Watch         bool    `koanf:"watch"`
	Verbosity     string  `koanf:"verbosity"`
	VerboseCnt    int     `koanf:"verbose"`
	JSONLogs      bool    `koanf:"json-logs"`
}

// NewFlagSet declares every flag understood by Load
func NewFlagSet(name string) *pflag.FlagSet {
	f := pflag.NewFlagSet(name, pflag.ContinueOnError)
	f.Float64("alpha", pagerank.DefaultAlpha, "Damping factor in [0, 1)")
	f.Float64("tolerance", pagerank.DefaultTolerance, "Stop when the norm of a sweep's change is at most this")
	f.Int("max-iterations", pagerank.DefaultMaxIterations, "Maximum number of Gauss-Seidel sweeps")
	f.String("output", output.RanksFile, "Name of the ranks file written into the directory")
	f.Int("max-cells", graph.DefaultMaxCells, "Refuse graphs whose dense matrix exceeds this many cells")
	f.Int("top", 10, "Number of highest ranked nodes to print, 0 to disable")
	f.Bool("watch", false, "Re-rank whenever nodes or adj_list change")
	f.String("verbosity", "", "Log level: trace, debug, info, warn or error")
	f.CountP("verbose", "v", "Increase log verbosity (repeatable)")
	f.Bool("json-logs", false, "Emit logs as JSON")
	return f
}

// Load loads configuration from defaults, config file, environment variables,
// flags and the positional directory argument.
// Priority: Args > Flags > Env > Config File > Defaults
func Load(f *pflag.FlagSet, args []string) (*Config, error) {
	if len(args) != 1 {
		return nil, ErrUsage
	}

	k := koanf.New(".")

	// 1. Defaults
	defaults := map[string]interface{}{
		"alpha":          pagerank.DefaultAlpha,
		"tolerance":      pagerank.DefaultTolerance,
		"max-iterations": pagerank.DefaultMaxIterations,
		"output":         output.RanksFile,
		"max-cells":      graph.DefaultMaxCells,
		"top":            10,
		"watch":          false,
		"verbosity":      "",
		"verbose":        0,
		"json-logs":      false,
	}
	if err := k.Load(makeMapProvider(defaults), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	// 2. Config File (optional) - pagerank-gs.toml
	if err := k.Load(file.Provider(FileName), toml.Parser()); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load %s: %w", FileName, err)
	}

	// 3. Environment Variables
	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return nil, fmt.Errorf("failed to load env vars: %w", err)
	}

	// 4. Flags
	if f != nil {
		if err := k.Load(posflag.Provider(f, ".", k), nil); err != nil {
			return nil, fmt.Errorf("failed to load flags: %w", err)
		}
	}

	// 5. Positional directory
	if err := k.Load(makeMapProvider(map[string]interface{}{"dir": args[0]}), nil); err != nil {
		return nil, fmt.Errorf("failed to load arguments: %w", err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// envKey maps PAGERANK_GS_MAX_ITERATIONS to max-iterations
func envKey(s string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimPrefix(s, EnvPrefix)), "_", "-")
}

// Params returns the solver parameters
func (c *Config) Params() pagerank.Params {
	return pagerank.Params{
		Alpha:         c.Alpha,
		Tolerance:     c.Tolerance,
		MaxIterations: c.MaxIterations,
	}
}

// OutputPath returns where the ranks file is written
func (c *Config) OutputPath() string {
	if filepath.IsAbs(c.Output) {
		return c.Output
	}
	return filepath.Join(c.Dir, c.Output)
}

// LogLevel resolves the verbosity settings
func (c *Config) LogLevel() slog.Level {
	return logging.ParseLevel(c.Verbosity, c.VerboseCnt)
}

// Validate checks values that would otherwise only fail deep inside a run
func (c *Config) Validate() error {
	if c.Dir == "" {
		return ErrUsage
	}
	if err := c.Params().Validate(); err != nil {
		return err
	}
	if c.Output == "" {
		return fmt.Errorf("output file name must not be empty")
	}
	if c.Top < 0 {
		return fmt.Errorf("top must be >= 0, got %d", c.Top)
	}
	return nil
}

// Helper to use map as a provider
type mapProvider struct {
	m map[string]interface{}
}

func makeMapProvider(m map[string]interface{}) *mapProvider {
	return &mapProvider{m: m}
}

func (p *mapProvider) Read() (map[string]interface{}, error) {
	return p.m, nil
}

func (p *mapProvider) ReadBytes() ([]byte, error) {
	return nil, fmt.Errorf("not implemented")
}
