package interactive

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/synmap/synmap-go/pkg/builtin"
	"github.com/synmap/synmap-go/pkg/sysex"
)

func newTestShell(t *testing.T) (*Shell, *bytes.Buffer) {
	t.Helper()
	d, err := builtin.Registry().New("nc-demo")
	if err != nil {
		t.Fatalf("failed to build device: %v", err)
	}
	var buf bytes.Buffer
	return newShell(d, Options{Policy: sysex.ChecksumReject}, &buf), &buf
}

// run executes each line and returns the combined output.
func run(t *testing.T, s *Shell, buf *bytes.Buffer, lines ...string) string {
	t.Helper()
	buf.Reset()
	for _, line := range lines {
		if !s.Execute(line) {
			t.Fatalf("shell exited on %q", line)
		}
	}
	return buf.String()
}

func assertContains(t *testing.T, output string, want ...string) {
	t.Helper()
	for _, w := range want {
		if !strings.Contains(output, w) {
			t.Errorf("expected %q in output:\n%s", w, output)
		}
	}
}

func TestExecuteHelpAndUnknown(t *testing.T) {
	s, buf := newTestShell(t)
	assertContains(t, run(t, s, buf, "help"), "Device Map Commands", "save <file> [path]")
	assertContains(t, run(t, s, buf, "frobnicate"), "Unknown command: frobnicate")
	if out := run(t, s, buf, "", "   "); out != "" {
		t.Errorf("expected no output for blank lines, got %q", out)
	}
}

func TestExecuteQuit(t *testing.T) {
	for _, cmd := range []string{"quit", "exit", "q", "QUIT"} {
		s, _ := newTestShell(t)
		if s.Execute(cmd) {
			t.Errorf("expected %q to exit", cmd)
		}
	}
}

func TestNavigation(t *testing.T) {
	s, buf := newTestShell(t)

	assertContains(t, run(t, s, buf, "ls"), "Patch/", "Mod/", "Global/")

	run(t, s, buf, "cd patch")
	if s.cwd != "Patch" {
		t.Errorf("expected cwd Patch, got %q", s.cwd)
	}
	assertContains(t, run(t, s, buf, "ls"), "Cutoff = 64", "Envelope/")

	run(t, s, buf, "cd Envelope")
	if s.cwd != "Patch/Envelope" {
		t.Errorf("expected cwd Patch/Envelope, got %q", s.cwd)
	}
	if got := s.prompt(); got != "nc-demo:Patch/Envelope> " {
		t.Errorf("unexpected prompt %q", got)
	}

	run(t, s, buf, "cd ..")
	if s.cwd != "Patch" {
		t.Errorf("expected cwd Patch after '..', got %q", s.cwd)
	}

	// Absolute paths ignore the current group.
	run(t, s, buf, "cd /Mod/Slot 2")
	if s.cwd != "Mod/Slot 2" {
		t.Errorf("expected cwd Mod/Slot 2, got %q", s.cwd)
	}

	assertContains(t, run(t, s, buf, "cd Source"), "is a parameter")
	assertContains(t, run(t, s, buf, "cd Nope"), "Error:")

	run(t, s, buf, "cd /")
	if s.cwd != "" {
		t.Errorf("expected root cwd, got %q", s.cwd)
	}
}

func TestTree(t *testing.T) {
	s, buf := newTestShell(t)
	out := run(t, s, buf, "tree Patch/Envelope")
	want := "[6] Envelope/\n  [6] Attack = 0\n  [7] Decay = 64\n  [8] Sustain = 127\n  [9] Release = 32\n"
	if out != want {
		t.Errorf("unexpected tree:\n%s", out)
	}
}

func TestGetSet(t *testing.T) {
	s, buf := newTestShell(t)

	assertContains(t, run(t, s, buf, "get Patch/Cutoff"), "Patch/Cutoff = 64", "raw 64, 7 bits")
	assertContains(t, run(t, s, buf, "get Patch/Wave"), "icon: wave")
	assertContains(t, run(t, s, buf, "get"), "Usage: get")

	assertContains(t, run(t, s, buf, "set Patch/Wave = PCM Strings"), "Patch/Wave = PCM Strings")
	assertContains(t, run(t, s, buf, `set "Global/MIDI Channel" 16`), "Global/MIDI Channel = 16")

	run(t, s, buf, "cd Patch")
	assertContains(t, run(t, s, buf, "set Cutoff 12"), "Patch/Cutoff = 12")

	assertContains(t, run(t, s, buf, "set Cutoff"), "Usage: set")
	assertContains(t, run(t, s, buf, "set Wave = Sine"), "Error:")
}

func TestSplitAssignment(t *testing.T) {
	tests := []struct {
		in          string
		path, value string
		ok          bool
	}{
		{"System/Master Volume = 100", "System/Master Volume", "100", true},
		{"Cutoff 12", "Cutoff", "12", true},
		{`"Effect 1/Reverb Type" Hall 2`, "Effect 1/Reverb Type", "Hall 2", true},
		{"Cutoff", "", "", false},
		{"= 3", "", "3", false},
		{`"unterminated 3`, "", "", false},
	}
	for _, tt := range tests {
		path, value, ok := splitAssignment(tt.in)
		if ok != tt.ok {
			t.Errorf("splitAssignment(%q) ok = %v, want %v", tt.in, ok, tt.ok)
			continue
		}
		if ok && (path != tt.path || value != tt.value) {
			t.Errorf("splitAssignment(%q) = %q, %q", tt.in, path, value)
		}
	}
}

func TestStepSelectReset(t *testing.T) {
	s, buf := newTestShell(t)

	assertContains(t, run(t, s, buf, "inc Patch/Cutoff"), "Patch/Cutoff = 65")
	assertContains(t, run(t, s, buf, "dec Patch/Cutoff", "dec Patch/Cutoff"), "Patch/Cutoff = 63")
	assertContains(t, run(t, s, buf, "inc Global/Local Control"), "On", "at the end of the range")

	assertContains(t, run(t, s, buf, "select Patch/Wave 2"), "[view 2/2]")
	assertContains(t, run(t, s, buf, "select Patch/Wave 3"), "Error:")
	assertContains(t, run(t, s, buf, "select Patch/Wave x"), "Invalid view number")

	assertContains(t, run(t, s, buf, "reset Patch"), "Reset 9 parameters")
	assertContains(t, run(t, s, buf, "get Patch/Cutoff"), "Patch/Cutoff = 64")
}

func TestDumpSaveLoad(t *testing.T) {
	s, buf := newTestShell(t)

	out := run(t, s, buf, "dump Global")
	assertContains(t, out, "7D 01 00 02 00 00 64", "1 frames")

	run(t, s, buf, "set Patch/Cutoff = 12", "set Mod/Slot 3/Source = Velocity")
	file := filepath.Join(t.TempDir(), "patch.syx")
	assertContains(t, run(t, s, buf, "save "+file), "Wrote 3 frames")

	dst, dstBuf := newTestShell(t)
	out = run(t, dst, dstBuf, "load "+file)
	assertContains(t, out,
		"Patch/Cutoff: 64 -> 12",
		"Mod/Slot 3/Source: Off -> Velocity",
		"Loaded 3 messages, 2 changes",
	)

	assertContains(t, run(t, s, buf, "save"), "Usage: save")
	assertContains(t, run(t, s, buf, "load "+filepath.Join(t.TempDir(), "missing.syx")), "Error:")
}

func TestLoadRejectsBadChecksum(t *testing.T) {
	s, buf := newTestShell(t)
	frames, err := s.dev.DumpNode(s.dev.Root().Children()[0])
	if err != nil {
		t.Fatal(err)
	}
	frames[0][len(frames[0])-1] ^= 0x01
	file := filepath.Join(t.TempDir(), "bad.syx")
	if err := os.WriteFile(file, s.dev.Syx(frames), 0o644); err != nil {
		t.Fatal(err)
	}

	assertContains(t, run(t, s, buf, "load "+file), "checksum mismatch", "Hint:")
}

func TestWatch(t *testing.T) {
	s, buf := newTestShell(t)

	assertContains(t, run(t, s, buf, "watch on"), "Watching value changes")
	assertContains(t, run(t, s, buf, "set Patch/Volume = 90"), "Patch/Volume: 100 -> 90")

	run(t, s, buf, "watch off")
	if s.unwatch != nil {
		t.Error("expected watch to be cancelled")
	}
	out := run(t, s, buf, "set Patch/Volume = 80")
	if strings.Contains(out, "->") {
		t.Errorf("expected no change output after watch off:\n%s", out)
	}
	assertContains(t, run(t, s, buf, "watch"), "Usage: watch")
}

func TestDevNumAndInfo(t *testing.T) {
	s, buf := newTestShell(t)

	assertContains(t, run(t, s, buf, "devnum"), "Device number: 0")
	assertContains(t, run(t, s, buf, "devnum 5"), "Device number: 5")
	if s.dev.Identity().DeviceNumber != 5 {
		t.Errorf("expected device number 5, got %d", s.dev.Identity().DeviceNumber)
	}
	assertContains(t, run(t, s, buf, "devnum 16"), "Error:")
	assertContains(t, run(t, s, buf, "devnum x"), "Invalid device number")

	assertContains(t, run(t, s, buf, "info"), "nc-demo:", "embedded framing", "19 parameters", "  100  2 bytes")
}
