package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/ritzau/pagerank-gs/pkg/config"
	"github.com/ritzau/pagerank-gs/pkg/logging"
	"github.com/ritzau/pagerank-gs/pkg/runner"
	"github.com/spf13/pflag"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout))
}

// run is main without the exit, returning the process exit code
func run(args []string, stdout io.Writer) int {
	f := config.NewFlagSet("pagerank-gs")
	f.SetOutput(stdout)
	f.Usage = func() {
		fmt.Fprintln(stdout, "Usage: pagerank-gs [flags] <directory>")
		fmt.Fprintln(stdout, "\nThe directory must hold the files nodes and adj_list; ranks are written to pageranks.")
		fmt.Fprintln(stdout, "\nFlags:")
		f.PrintDefaults()
	}

	if err := f.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return 0
		}
		fmt.Fprintf(stdout, "Error: %v\n", err)
		return 1
	}

	cfg, err := config.Load(f, f.Args())
	if err != nil {
		fmt.Fprintf(stdout, "Error: %v\n", err)
		if errors.Is(err, config.ErrUsage) {
			f.Usage()
		}
		return 1
	}

	logging.SetOutput(stdout, cfg.LogLevel(), cfg.JSONLogs)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	r := runner.NewRunner(cfg, stdout)
	if cfg.Watch {
		err = r.Watch(ctx)
	} else {
		_, err = r.Run(ctx)
	}
	if err != nil {
		fmt.Fprintf(stdout, "Error: %v\n", err)
		return 1
	}
	return 0
}
