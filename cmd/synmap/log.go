package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/synmap/synmap-go/cmd/synmap/commands"
)

const logUsage = `synmap log - Protocol log analyzer

Usage:
  synmap log <command> [flags] <file.synlog>

Commands:
  view     View log file in human-readable format
  export   Export log file to JSON or CSV format
  filter   Filter log file and write to new file
  stats    Show statistics about the log file
`

func runLog(args []string) {
	if len(args) < 1 {
		fmt.Fprint(os.Stderr, logUsage)
		os.Exit(1)
	}

	switch args[0] {
	case "view":
		runLogView(args[1:])
	case "export":
		runLogExport(args[1:])
	case "filter":
		runLogFilter(args[1:])
	case "stats":
		runLogStats(args[1:])
	case "-h", "-help", "--help", "help":
		fmt.Print(logUsage)
	default:
		fmt.Fprintf(os.Stderr, "Unknown log command: %s\n", args[0])
		fmt.Fprint(os.Stderr, logUsage)
		os.Exit(1)
	}
}

// filterFlags registers the event selection flags shared by view and filter.
func filterFlags(fs *flag.FlagSet) *commands.FilterOptions {
	opts := &commands.FilterOptions{}
	fs.StringVar(&opts.SessionID, "session", "", "Filter by session ID")
	fs.StringVar(&opts.Device, "device", "", "Filter by device name")
	fs.StringVar(&opts.PathPrefix, "path", "", "Filter parameter events by path prefix")
	fs.StringVar(&opts.TimeStart, "time-start", "", "Filter by start time (RFC3339)")
	fs.StringVar(&opts.TimeEnd, "time-end", "", "Filter by end time (RFC3339)")
	fs.StringVar(&opts.Layer, "layer", "", "Filter by layer (frame, map)")
	fs.StringVar(&opts.Direction, "direction", "", "Filter by direction (in, out)")
	fs.StringVar(&opts.Category, "category", "", "Filter by category (message, param, state, error)")
	return opts
}

func requireLogFile(fs *flag.FlagSet) string {
	if fs.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "Error: log file path required")
		fs.Usage()
		os.Exit(1)
	}
	return fs.Arg(0)
}

func runLogView(args []string) {
	fs := newFlagSet("log view", "log view [flags] <file.synlog>", "View log file in human-readable format")
	opts := filterFlags(fs)
	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}
	path := requireLogFile(fs)

	filter, err := commands.BuildFilter(*opts)
	if err != nil {
		fatalf("%v", err)
	}
	if err := commands.RunView(path, filter, os.Stdout); err != nil {
		fatalf("%v", err)
	}
}

func runLogExport(args []string) {
	fs := newFlagSet("log export", "log export [flags] <file.synlog>", "Export log file to JSON or CSV format")
	format := fs.String("format", "jsonl", "Output format (jsonl, csv)")
	output := fs.String("o", "", "Output file (default: stdout)")
	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}
	path := requireLogFile(fs)

	if err := commands.RunExport(path, *format, *output); err != nil {
		fatalf("%v", err)
	}
}

func runLogFilter(args []string) {
	fs := newFlagSet("log filter", "log filter [flags] <file.synlog>", "Filter log file and write to new file")
	opts := filterFlags(fs)
	fs.StringVar(&opts.Output, "o", "", "Output file (required)")
	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}
	path := requireLogFile(fs)

	if opts.Output == "" {
		fmt.Fprintln(os.Stderr, "Error: output file (-o) required")
		fs.Usage()
		os.Exit(1)
	}

	if err := commands.RunFilter(path, *opts, os.Stdout); err != nil {
		fatalf("%v", err)
	}
}

func runLogStats(args []string) {
	fs := newFlagSet("log stats", "log stats <file.synlog>", "Show statistics about the log file")
	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}
	path := requireLogFile(fs)

	if err := commands.RunStats(path, os.Stdout); err != nil {
		fatalf("%v", err)
	}
}
