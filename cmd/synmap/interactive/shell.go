// Package interactive provides the interactive editor for synmap.
package interactive

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/chzyer/readline"

	"github.com/synmap/synmap-go/pkg/device"
	"github.com/synmap/synmap-go/pkg/inspect"
	"github.com/synmap/synmap-go/pkg/model"
	"github.com/synmap/synmap-go/pkg/sysex"
)

// Options configures a Shell.
type Options struct {
	// Policy applies to dumps loaded with the load command.
	Policy sysex.Policy

	// Sysex is passed to every dump and read.
	Sysex []sysex.Option
}

// Shell handles interactive editing of one device.
type Shell struct {
	dev       *device.Device
	opts      Options
	inspector *inspect.Inspector
	formatter *inspect.Formatter
	rl        *readline.Instance
	out       io.Writer

	// cwd is the group relative paths start from ("" is the root).
	cwd string

	unwatch func()
}

// New creates a shell reading commands from the terminal.
func New(d *device.Device, opts Options) (*Shell, error) {
	rl, err := readline.NewEx(&readline.Config{
		Prompt:          d.Name() + "> ",
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
		AutoComplete:    completer(),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create readline: %w", err)
	}
	s := newShell(d, opts, rl.Stdout())
	s.rl = rl
	return s, nil
}

func newShell(d *device.Device, opts Options, out io.Writer) *Shell {
	return &Shell{
		dev:       d,
		opts:      opts,
		inspector: inspect.NewInspector(d),
		formatter: inspect.NewFormatter(),
		out:       out,
	}
}

// Stdout returns a writer that properly coordinates with the readline input.
func (s *Shell) Stdout() io.Writer {
	if s.rl == nil {
		return s.out
	}
	return s.rl.Stdout()
}

// Stderr returns a writer that properly coordinates with the readline input.
func (s *Shell) Stderr() io.Writer {
	if s.rl == nil {
		return s.out
	}
	return s.rl.Stderr()
}

// Run reads and executes commands until quit or end of input.
func (s *Shell) Run() {
	defer s.rl.Close()
	defer s.stopWatch()

	s.printHelp()

	for {
		s.rl.SetPrompt(s.prompt())
		line, err := s.rl.Readline()
		if err != nil {
			// EOF or interrupt
			if err == readline.ErrInterrupt {
				continue
			}
			fmt.Fprintln(s.out, "Exiting...")
			return
		}
		if !s.Execute(line) {
			return
		}
	}
}

func (s *Shell) prompt() string {
	if s.cwd == "" {
		return s.dev.Name() + "> "
	}
	return s.dev.Name() + ":" + s.cwd + "> "
}

// Execute runs one command line. It returns false when the shell should exit.
func (s *Shell) Execute(line string) bool {
	input := strings.TrimSpace(line)
	if input == "" {
		return true
	}

	cmd, rest, _ := strings.Cut(input, " ")
	cmd = strings.ToLower(cmd)
	rest = strings.TrimSpace(rest)

	switch cmd {
	case "help", "?":
		s.printHelp()

	case "ls", "l":
		s.cmdList(rest)

	case "cd":
		s.cmdCd(rest)

	case "tree", "t":
		s.cmdTree(rest)

	case "get", "g":
		s.cmdGet(rest)

	case "set", "s":
		s.cmdSet(rest)

	case "inc", "+":
		s.cmdStep(rest, true)

	case "dec", "-":
		s.cmdStep(rest, false)

	case "reset":
		s.cmdReset(rest)

	case "select", "view":
		s.cmdSelect(rest)

	case "dump", "d":
		s.cmdDump(rest)

	case "save":
		s.cmdSave(rest)

	case "load":
		s.cmdLoad(rest)

	case "devnum":
		s.cmdDevNum(rest)

	case "watch":
		s.cmdWatch(rest)

	case "info":
		s.cmdInfo()

	case "quit", "exit", "q":
		fmt.Fprintln(s.out, "Exiting...")
		return false

	default:
		fmt.Fprintf(s.out, "Unknown command: %s (type 'help' for commands)\n", cmd)
	}
	return true
}

func (s *Shell) printHelp() {
	fmt.Fprintln(s.out, `
Device Map Commands:
  Navigation:
    ls [path]            - List the children of a group
    cd [path]            - Change the current group (.. goes up, / to the root)
    tree [path]          - Show a subtree with values
    info                 - Show device identity and layout

  Editing:
    get <path>           - Show a parameter
    set <path> = <value> - Set a parameter (label, number, or #raw)
    inc <path>           - Step to the next value
    dec <path>           - Step to the previous value
    select <path> <n>    - Switch a parameter to display view n
    reset [path]         - Restore defaults at or below path
    watch on|off         - Print every value change

  Dumps:
    dump [path]          - Show dump frames as hex
    save <file> [path]   - Write dump frames to a .syx file
    load <file>          - Read a .syx file into the map
    devnum [n]           - Show or set the device number

  General:
    help                 - Show this help
    quit                 - Exit

  Path Format:
    Labels separated by '/', relative to the current group unless they
    start with '/'. Labels match case-insensitively. '@hh mm ll' names
    the parameter holding a byte address.`)
}

// resolvePath joins arg onto the current group.
func (s *Shell) resolvePath(arg string) string {
	arg = strings.TrimSpace(arg)
	switch {
	case strings.HasPrefix(arg, "@"), strings.HasPrefix(arg, "/"):
		return arg
	case arg == "":
		if s.cwd == "" {
			return "/"
		}
		return "/" + s.cwd
	case s.cwd == "":
		return "/" + arg
	default:
		return "/" + s.cwd + "/" + arg
	}
}

func (s *Shell) printError(err error) {
	fmt.Fprintf(s.out, "Error: %v\n", err)
}

func (s *Shell) cmdList(arg string) {
	n, err := s.inspector.Resolve(s.resolvePath(arg))
	if err != nil {
		s.printError(err)
		return
	}
	g, ok := n.(*model.Group)
	if !ok {
		fmt.Fprintln(s.out, s.formatter.FormatParam(s.inspector.Info(n.(*model.Leaf))))
		return
	}
	for _, c := range g.Children() {
		switch v := c.(type) {
		case *model.Group:
			fmt.Fprintf(s.out, "  %-10s %s/\n", s.dev.FormatAddress(v.Address()), v.Label())
		case *model.Leaf:
			fmt.Fprintf(s.out, "  %-10s %s = %s\n", s.dev.FormatAddress(v.Address()), v.Label(), v.Contents().Display())
		}
	}
}

func (s *Shell) cmdCd(arg string) {
	switch arg {
	case "", "/":
		s.cwd = ""
		return
	case "..":
		if i := strings.LastIndex(s.cwd, "/"); i >= 0 {
			s.cwd = s.cwd[:i]
		} else {
			s.cwd = ""
		}
		return
	}

	n, err := s.inspector.Resolve(s.resolvePath(arg))
	if err != nil {
		s.printError(err)
		return
	}
	if _, ok := n.(*model.Group); !ok {
		fmt.Fprintf(s.out, "Error: %s is a parameter\n", n.Path())
		return
	}
	s.cwd = n.Path()
}

func (s *Shell) cmdTree(arg string) {
	n, err := s.inspector.Resolve(s.resolvePath(arg))
	if err != nil {
		s.printError(err)
		return
	}
	fmt.Fprint(s.out, s.formatter.FormatTree(s.dev, n))
}

func (s *Shell) cmdGet(arg string) {
	if arg == "" {
		fmt.Fprintln(s.out, "Usage: get <path>")
		return
	}
	info, err := s.inspector.Get(s.resolvePath(arg))
	if err != nil {
		s.printError(err)
		return
	}
	f := *s.formatter
	f.ShowRaw = true
	fmt.Fprintln(s.out, f.FormatParam(info))
	if info.Icon != "" {
		fmt.Fprintf(s.out, "  icon: %s\n", info.Icon)
	}
}

// splitAssignment accepts "path = value" and "path value" with a quoted path.
func splitAssignment(arg string) (path, value string, ok bool) {
	if p, v, found := strings.Cut(arg, "="); found {
		path, value = strings.TrimSpace(p), strings.TrimSpace(v)
		return path, value, path != "" && value != ""
	}
	if strings.HasPrefix(arg, `"`) {
		end := strings.Index(arg[1:], `"`)
		if end < 0 {
			return "", "", false
		}
		path, value = arg[1:end+1], strings.TrimSpace(arg[end+2:])
		return path, value, path != "" && value != ""
	}
	path, value, found := strings.Cut(arg, " ")
	value = strings.TrimSpace(value)
	return path, value, found && value != ""
}

func (s *Shell) cmdSet(arg string) {
	path, value, ok := splitAssignment(arg)
	if !ok {
		fmt.Fprintln(s.out, "Usage: set <path> = <value>")
		fmt.Fprintln(s.out, "  Example: set System/Master Volume = 100")
		return
	}
	info, err := s.inspector.Set(s.resolvePath(path), value)
	if err != nil {
		s.printError(err)
		return
	}
	fmt.Fprintln(s.out, s.formatter.FormatParam(info))
}

func (s *Shell) cmdStep(arg string, up bool) {
	if arg == "" {
		fmt.Fprintln(s.out, "Usage: inc|dec <path>")
		return
	}
	info, moved, err := s.inspector.Step(s.resolvePath(arg), up)
	if err != nil {
		s.printError(err)
		return
	}
	fmt.Fprintln(s.out, s.formatter.FormatParam(info))
	if !moved {
		fmt.Fprintln(s.out, "  (at the end of the range)")
	}
}

func (s *Shell) cmdReset(arg string) {
	n, err := s.inspector.Reset(s.resolvePath(arg))
	if err != nil {
		s.printError(err)
		return
	}
	fmt.Fprintf(s.out, "Reset %d parameters\n", n)
}

func (s *Shell) cmdSelect(arg string) {
	i := strings.LastIndex(arg, " ")
	if i < 0 {
		fmt.Fprintln(s.out, "Usage: select <path> <n>")
		return
	}
	n, err := strconv.Atoi(arg[i+1:])
	if err != nil || n < 1 {
		fmt.Fprintf(s.out, "Invalid view number: %s\n", arg[i+1:])
		return
	}
	info, err := s.inspector.SelectRange(s.resolvePath(arg[:i]), n-1)
	if err != nil {
		s.printError(err)
		return
	}
	fmt.Fprintln(s.out, s.formatter.FormatParam(info))
}

func (s *Shell) dumpFrames(arg string) ([][]byte, error) {
	n, err := s.inspector.Resolve(s.resolvePath(arg))
	if err != nil {
		return nil, err
	}
	frames, err := s.dev.DumpNode(n, s.opts.Sysex...)
	if err != nil {
		return nil, err
	}
	if len(frames) == 0 {
		return nil, fmt.Errorf("%s holds no parameters", n.Path())
	}
	return frames, nil
}

func (s *Shell) cmdDump(arg string) {
	frames, err := s.dumpFrames(arg)
	if err != nil {
		s.printError(err)
		return
	}
	for _, f := range frames {
		fmt.Fprintln(s.out, inspect.HexDump(f))
	}
	fmt.Fprintf(s.out, "%d frames\n", len(frames))
}

func (s *Shell) cmdSave(arg string) {
	file, path, _ := strings.Cut(arg, " ")
	if file == "" {
		fmt.Fprintln(s.out, "Usage: save <file> [path]")
		return
	}
	frames, err := s.dumpFrames(path)
	if err != nil {
		s.printError(err)
		return
	}
	data := s.dev.Syx(frames)
	if err := os.WriteFile(file, data, 0o644); err != nil {
		s.printError(err)
		return
	}
	fmt.Fprintf(s.out, "Wrote %d frames (%d bytes) to %s\n", len(frames), len(data), file)
}

func (s *Shell) cmdLoad(arg string) {
	if arg == "" {
		fmt.Fprintln(s.out, "Usage: load <file>")
		return
	}
	data, err := os.ReadFile(arg)
	if err != nil {
		s.printError(err)
		return
	}
	results, err := s.dev.ApplySyx(data, s.opts.Policy, s.opts.Sysex...)
	changes := 0
	for _, r := range results {
		// With watch on, changes are printed as they happen.
		if s.unwatch == nil {
			for _, c := range r.Changes {
				fmt.Fprintln(s.out, s.formatter.FormatChange(c))
			}
		}
		if !r.ChecksumOK {
			fmt.Fprintln(s.out, "warning: checksum mismatch, applied anyway")
		}
		changes += len(r.Changes)
	}
	fmt.Fprintf(s.out, "Loaded %d messages, %d changes\n", len(results), changes)
	if err != nil {
		if errors.Is(err, sysex.ErrChecksum) {
			fmt.Fprintln(s.out, "Hint: 'checksum: warn' in the config applies mismatched dumps")
		}
		s.printError(err)
	}
}

func (s *Shell) cmdDevNum(arg string) {
	if arg == "" {
		fmt.Fprintf(s.out, "Device number: %d\n", s.dev.Identity().DeviceNumber)
		return
	}
	n, err := strconv.ParseUint(arg, 0, 8)
	if err != nil {
		fmt.Fprintf(s.out, "Invalid device number: %s\n", arg)
		return
	}
	if err := s.dev.SetDeviceNumber(byte(n)); err != nil {
		s.printError(err)
		return
	}
	fmt.Fprintf(s.out, "Device number: %d\n", n)
}

func (s *Shell) cmdWatch(arg string) {
	switch strings.ToLower(arg) {
	case "on":
		if s.unwatch != nil {
			return
		}
		s.unwatch = s.dev.Root().Observe(func(c model.Change) {
			fmt.Fprintf(s.out, "  %s\n", s.formatter.FormatChange(c))
		})
		fmt.Fprintln(s.out, "Watching value changes")
	case "off":
		s.stopWatch()
		fmt.Fprintln(s.out, "Stopped watching")
	default:
		fmt.Fprintln(s.out, "Usage: watch on|off")
	}
}

func (s *Shell) stopWatch() {
	if s.unwatch != nil {
		s.unwatch()
		s.unwatch = nil
	}
}

func (s *Shell) cmdInfo() {
	info := s.dev.Info()
	fmt.Fprintf(s.out, "%s: %s, %s framing, %d parameters\n",
		info.Name, info.Identity, info.Framing, len(s.dev.Leaves()))
	for _, b := range device.Blocks(s.dev.Root()) {
		fmt.Fprintf(s.out, "  %s  %d bytes\n", s.dev.FormatAddress(b.Start), b.Len())
	}
}

func completer() *readline.PrefixCompleter {
	return readline.NewPrefixCompleter(
		readline.PcItem("help"),
		readline.PcItem("ls"),
		readline.PcItem("cd"),
		readline.PcItem("tree"),
		readline.PcItem("get"),
		readline.PcItem("set"),
		readline.PcItem("inc"),
		readline.PcItem("dec"),
		readline.PcItem("select"),
		readline.PcItem("reset"),
		readline.PcItem("dump"),
		readline.PcItem("save"),
		readline.PcItem("load"),
		readline.PcItem("devnum"),
		readline.PcItem("watch", readline.PcItem("on"), readline.PcItem("off")),
		readline.PcItem("info"),
		readline.PcItem("quit"),
	)
}
