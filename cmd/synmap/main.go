// Command synmap inspects and edits synthesizer parameter maps and
// produces or reads their SysEx bulk dumps.
//
// Usage:
//
//	synmap <command> [flags] [args]
//
// Commands:
//
//	list     List known devices
//	info     Show the identity and dump layout of a device
//	tree     Print the parameter tree with current values
//	dump     Render bulk dump frames as hex or a .syx file
//	apply    Read a .syx file into a device and print the changes
//	shell    Edit a device interactively
//	log      View, export, filter or summarize protocol logs
//
// Examples:
//
//	# Print the XG multi part section
//	synmap tree -device xg "Multi Part/Part 01"
//
//	# Write the reverb section with a changed type to a .syx file
//	synmap dump -device xg -set "Effect 1/Reverb Type=Hall 2" -format syx -o reverb.syx "Effect 1"
//
//	# Read a dump back and record the session
//	synmap apply -device xg -protocol-log session.synlog reverb.syx
//
//	# Show what a recorded session changed
//	synmap log view -category param session.synlog
package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"strings"

	"github.com/google/uuid"

	"github.com/synmap/synmap-go/cmd/synmap/commands"
	"github.com/synmap/synmap-go/cmd/synmap/interactive"
	"github.com/synmap/synmap-go/pkg/device"
	plog "github.com/synmap/synmap-go/pkg/log"
	"github.com/synmap/synmap-go/pkg/sysex"
)

const usage = `synmap - SysEx parameter map editor

Usage:
  synmap <command> [flags] [args]

Commands:
  list     List known devices
  info     Show the identity and dump layout of a device
  tree     Print the parameter tree with current values
  dump     Render bulk dump frames as hex or a .syx file
  apply    Read a .syx file into a device and print the changes
  shell    Edit a device interactively
  log      View, export, filter or summarize protocol logs

Use "synmap <command> -help" for more information about a command.
`

func main() {
	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(1)
	}

	cmd := os.Args[1]
	args := os.Args[2:]

	switch cmd {
	case "list":
		runList(args)
	case "info":
		runInfo(args)
	case "tree":
		runTree(args)
	case "dump":
		runDump(args)
	case "apply":
		runApply(args)
	case "shell":
		runShell(args)
	case "log":
		runLog(args)
	case "-h", "-help", "--help", "help":
		fmt.Print(usage)
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", cmd)
		fmt.Fprint(os.Stderr, usage)
		os.Exit(1)
	}
}

// commonFlags are shared by every command that opens a device.
type commonFlags struct {
	config       string
	device       string
	deviceNumber int
	tables       string
	logLevel     string
	protocolLog  string
}

func addCommonFlags(fs *flag.FlagSet) *commonFlags {
	c := &commonFlags{}
	fs.StringVar(&c.config, "config", "", "Configuration file path (default: user config dir/"+commands.ConfigFileName+")")
	fs.StringVar(&c.device, "device", "", "Device name (see 'synmap list')")
	fs.IntVar(&c.deviceNumber, "device-number", -1, "Device number 0-15 (default from table)")
	fs.StringVar(&c.tables, "tables", "", "Comma-separated directories of extra device tables")
	fs.StringVar(&c.logLevel, "log-level", "", "Log level: debug, info, warn, error")
	fs.StringVar(&c.protocolLog, "protocol-log", "", "Record protocol events to this file")
	return c
}

// session is an opened device plus the options every dump or read uses.
type session struct {
	cfg    *commands.Config
	dev    *device.Device
	opts   []sysex.Option
	closer io.Closer
	record *plog.FileLogger
}

func (s *session) Close() {
	if s.closer != nil {
		if err := s.closer.Close(); err != nil {
			log.Printf("closing protocol log: %v", err)
		}
	}
	if s.record != nil {
		commands.PrintRecorded(os.Stderr, s.record, s.cfg.ProtocolLog)
	}
}

// load merges flags over the config file.
func (c *commonFlags) load() *commands.Config {
	cfg, err := commands.FindConfig(c.config)
	if err != nil {
		fatalf("%v", err)
	}
	if c.device != "" {
		cfg.Device = c.device
	}
	if c.deviceNumber >= 0 {
		n := c.deviceNumber
		cfg.DeviceNumber = &n
	}
	if c.tables != "" {
		cfg.Tables = append(cfg.Tables, strings.Split(c.tables, ",")...)
	}
	if c.logLevel != "" {
		cfg.LogLevel = c.logLevel
	}
	if c.protocolLog != "" {
		cfg.ProtocolLog = c.protocolLog
	}
	if err := cfg.Validate(); err != nil {
		fatalf("%v", err)
	}
	setupLogging(cfg.LogLevel)
	return cfg
}

func (c *commonFlags) registry() (*commands.Config, *device.Registry) {
	cfg := c.load()
	r, err := commands.OpenRegistry(cfg.Tables)
	if err != nil {
		fatalf("%v", err)
	}
	return cfg, r
}

func (c *commonFlags) open() *session {
	cfg, r := c.registry()
	d, err := commands.OpenDevice(r, cfg.Device, cfg.DeviceNumber)
	if err != nil {
		fatalf("%v", err)
	}

	s := &session{cfg: cfg, dev: d}
	s.opts = append(s.opts, sysex.WithSessionID(uuid.NewString()))

	var loggers []plog.Logger
	if cfg.ProtocolLog != "" {
		fl, err := plog.NewFileLogger(cfg.ProtocolLog)
		if err != nil {
			fatalf("opening protocol log: %v", err)
		}
		loggers = append(loggers, fl)
		s.closer = fl
		s.record = fl
	}
	if cfg.LogLevel == "debug" {
		loggers = append(loggers, plog.NewSlogAdapter(slog.Default()))
	}
	switch len(loggers) {
	case 0:
	case 1:
		s.opts = append(s.opts, sysex.WithLogger(loggers[0]))
	default:
		ml := plog.NewMultiLogger(loggers...)
		s.opts = append(s.opts, sysex.WithLogger(ml))
		s.closer = ml
	}
	return s
}

func setupLogging(level string) {
	log.SetFlags(log.Ltime | log.Lmicroseconds)

	switch level {
	case "debug":
		log.SetFlags(log.Ltime | log.Lmicroseconds | log.Lshortfile)
		slog.SetLogLoggerLevel(slog.LevelDebug)
	case "warn":
		log.SetFlags(log.Ltime)
		slog.SetLogLoggerLevel(slog.LevelWarn)
	case "error":
		log.SetFlags(log.Ltime)
		slog.SetLogLoggerLevel(slog.LevelError)
	}
}

func fatalf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "Error: "+format+"\n", args...)
	os.Exit(1)
}

func newFlagSet(name, synopsis, help string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ExitOnError)
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "synmap %s - %s\n\nUsage:\n  synmap %s\n\nFlags:\n", name, help, synopsis)
		fs.PrintDefaults()
	}
	return fs
}

func runList(args []string) {
	fs := newFlagSet("list", "list [flags]", "List known devices")
	common := addCommonFlags(fs)
	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}

	_, r := common.registry()
	if err := commands.RunList(r, os.Stdout); err != nil {
		fatalf("%v", err)
	}
}

func runInfo(args []string) {
	fs := newFlagSet("info", "info [flags]", "Show the identity and dump layout of a device")
	common := addCommonFlags(fs)
	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}

	s := common.open()
	defer s.Close()
	if err := commands.RunInfo(s.dev, os.Stdout); err != nil {
		fatalf("%v", err)
	}
}

func runTree(args []string) {
	fs := newFlagSet("tree", "tree [flags] [path]", "Print the parameter tree with current values")
	common := addCommonFlags(fs)
	raw := fs.Bool("raw", false, "Show raw values")
	noAddr := fs.Bool("no-addresses", false, "Hide addresses")
	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}

	s := common.open()
	defer s.Close()
	opts := commands.TreeOptions{Path: fs.Arg(0), Raw: *raw, Addresses: !*noAddr}
	if err := commands.RunTree(s.dev, opts, os.Stdout); err != nil {
		fatalf("%v", err)
	}
}

// stringList collects a repeatable flag.
type stringList []string

func (l *stringList) String() string     { return strings.Join(*l, ", ") }
func (l *stringList) Set(v string) error { *l = append(*l, v); return nil }

func runDump(args []string) {
	fs := newFlagSet("dump", "dump [flags] [path]", "Render bulk dump frames as hex or a .syx file")
	common := addCommonFlags(fs)
	format := fs.String("format", commands.FormatHex, "Output format (hex, syx)")
	output := fs.String("o", "", "Output file (default: stdout)")
	start := fs.Int64("start", 0, "Start bit address of a single frame (with -end)")
	end := fs.Int64("end", 0, "End bit address of a single frame")
	var sets stringList
	fs.Var(&sets, "set", "Assign path=value before dumping (repeatable)")
	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}

	s := common.open()
	defer s.Close()
	opts := commands.DumpOptions{
		Path:   fs.Arg(0),
		Start:  *start,
		End:    *end,
		Format: *format,
		Output: *output,
		Set:    sets,
	}
	if err := commands.RunDump(s.dev, opts, os.Stdout, s.opts...); err != nil {
		s.Close()
		fatalf("%v", err)
	}
}

func runApply(args []string) {
	fs := newFlagSet("apply", "apply [flags] <file.syx>", "Read a .syx file into a device and print the changes")
	common := addCommonFlags(fs)
	checksum := fs.String("checksum", "", "Checksum policy: reject, warn (default from config)")
	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}
	if fs.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "Error: .syx file path required")
		fs.Usage()
		os.Exit(1)
	}

	s := common.open()
	defer s.Close()
	if *checksum != "" {
		s.cfg.Checksum = *checksum
		if err := s.cfg.Validate(); err != nil {
			s.Close()
			fatalf("%v", err)
		}
	}
	if _, err := commands.RunApply(s.dev, fs.Arg(0), s.cfg.Policy(), os.Stdout, s.opts...); err != nil {
		s.Close()
		fatalf("%v", err)
	}
}

func runShell(args []string) {
	fs := newFlagSet("shell", "shell [flags]", "Edit a device interactively")
	common := addCommonFlags(fs)
	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}

	s := common.open()
	defer s.Close()
	sh, err := interactive.New(s.dev, interactive.Options{
		Policy: s.cfg.Policy(),
		Sysex:  s.opts,
	})
	if err != nil {
		s.Close()
		fatalf("%v", err)
	}
	log.SetOutput(sh.Stderr())
	sh.Run()
}
