// Command bindtree renders a layout file against a data file with the
// in-memory renderer and prints the resulting node tree as YAML.
//
// Usage:
//
//	bindtree -layout page.yaml [-data data.json] [-config bindtree.yaml] [-watch]
//
// With -watch the layout is rendered again every time the file changes,
// until the process is interrupted. On a terminal the screen is cleared
// before each render.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/term"

	"github.com/sandrolain/bindtree"
	"github.com/sandrolain/bindtree/pkg/config"
	"github.com/sandrolain/bindtree/pkg/evaluator"
	"github.com/sandrolain/bindtree/pkg/layout"
	"github.com/sandrolain/bindtree/pkg/render/memory"
	"github.com/sandrolain/bindtree/pkg/value"
	"github.com/sandrolain/bindtree/pkg/view"
)

func main() {
	ctx := context.Background()
	if err := run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// run is the entry point, separated from main for tests.
func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	flags := flag.NewFlagSet("bindtree", flag.ContinueOnError)
	flags.SetOutput(io.Discard)

	var (
		layoutPath  = flags.String("layout", "", "Path to the layout file (YAML or JSON)")
		dataPath    = flags.String("data", "", "Path to the data file (YAML or JSON)")
		configPath  = flags.String("config", config.FileName, "Path to the config file")
		watch       = flags.Bool("watch", false, "Render again when the layout file changes")
		showVersion = flags.Bool("version", false, "Show version")
	)

	if err := flags.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			printUsage(stdout)
			return nil
		}
		printUsage(stderr)
		return err
	}

	if *showVersion {
		fmt.Fprintf(stdout, "bindtree %s\n", bindtree.Version())
		return nil
	}
	if *layoutPath == "" {
		printUsage(stderr)
		return errors.New("missing -layout")
	}

	cfg, err := config.LoadOptional(*configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	logger, err := cfg.Logger(stderr)
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}
	ev, err := cfg.Evaluator(logger)
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}

	data := value.NewMap(nil)
	if *dataPath != "" {
		if data, err = layout.LoadDataFile(*dataPath); err != nil {
			return err
		}
	}

	l, err := layout.LoadFile(*layoutPath, ev)
	if err != nil {
		return err
	}
	if err := render(stdout, l, data, ev, logger); err != nil {
		return err
	}
	if !*watch {
		return nil
	}

	ctx, cancel := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	return layout.Watch(ctx, *layoutPath, ev, func(l value.Layout, err error) {
		if err != nil {
			fmt.Fprintf(stderr, "error: %v\n", err)
			return
		}
		fmt.Fprint(stdout, separator(stdout))
		if err := render(stdout, l, data, ev, logger); err != nil {
			fmt.Fprintf(stderr, "error: %v\n", err)
		}
	}, layout.WithLogger(logger))
}

// render inflates l into a fresh in-memory tree and writes it as YAML.
func render(w io.Writer, l value.Layout, data value.Map, ev *evaluator.Evaluator, logger *slog.Logger) error {
	r := memory.New(memory.WithLogger(logger))
	in := view.NewInflater(r, r, ev, view.WithLogger(logger))
	if _, err := in.Inflate(nil, l, data); err != nil {
		return fmt.Errorf("inflate: %w", err)
	}
	out, err := r.YAML()
	if err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	_, err = w.Write(out)
	return err
}

// separator is written before every re-render: a screen clear on a
// terminal, a YAML document separator otherwise.
func separator(w io.Writer) string {
	if f, ok := w.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		return "\x1b[H\x1b[2J"
	}
	return "---\n"
}

func printUsage(w io.Writer) {
	fmt.Fprintf(w, `bindtree renders a layout against data and prints the node tree.

Usage:
  bindtree -layout <file> [-data <file>] [-config <file>] [-watch]

Options:
  -layout   Layout file (YAML or JSON)
  -data     Data file (YAML or JSON); empty data when omitted
  -config   Config file (default %s; ignored when missing)
  -watch    Render again when the layout file changes
  -version  Show version
`, config.FileName)
}
