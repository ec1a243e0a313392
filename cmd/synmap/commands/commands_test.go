package commands

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/synmap/synmap-go/pkg/device"
	"github.com/synmap/synmap-go/pkg/sysex"
)

func openTestDevice(t *testing.T, name string) *device.Device {
	t.Helper()
	r, err := OpenRegistry(nil)
	if err != nil {
		t.Fatalf("OpenRegistry failed: %v", err)
	}
	d, err := OpenDevice(r, name, nil)
	if err != nil {
		t.Fatalf("OpenDevice(%s) failed: %v", name, err)
	}
	return d
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadConfig(t *testing.T) {
	path := writeFile(t, "config.yaml", `
device: nc-demo
device_number: 3
checksum: warn
protocol_log: /tmp/x.synlog
tables: [./tables]
`)
	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if cfg.Device != "nc-demo" {
		t.Errorf("expected device nc-demo, got %q", cfg.Device)
	}
	if cfg.DeviceNumber == nil || *cfg.DeviceNumber != 3 {
		t.Errorf("expected device number 3, got %v", cfg.DeviceNumber)
	}
	if cfg.Policy() != sysex.ChecksumWarn {
		t.Errorf("expected warn policy, got %s", cfg.Policy())
	}
	if len(cfg.Tables) != 1 || cfg.Tables[0] != "./tables" {
		t.Errorf("unexpected tables: %v", cfg.Tables)
	}
	// Unset keys keep their defaults.
	if cfg.LogLevel != "info" {
		t.Errorf("expected default log level, got %q", cfg.LogLevel)
	}
}

func TestLoadConfigEmptyFile(t *testing.T) {
	cfg, err := LoadConfig(writeFile(t, "config.yaml", ""))
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if cfg.Device != "xg" || cfg.Policy() != sysex.ChecksumReject {
		t.Errorf("expected defaults, got %+v", cfg)
	}
}

func TestLoadConfigErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    string
	}{
		{"unknown key", "colour: red\n", "colour"},
		{"bad policy", "checksum: ignore\n", "checksum policy"},
		{"bad device number", "device_number: 16\n", "0-15"},
		{"bad log level", "log_level: loud\n", "log_level"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadConfig(writeFile(t, "config.yaml", tt.content))
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error %q does not mention %q", err, tt.want)
			}
		})
	}
}

func TestFindConfigMissingExplicitFile(t *testing.T) {
	_, err := FindConfig(filepath.Join(t.TempDir(), "nope.yaml"))
	if err == nil {
		t.Error("expected error for a missing explicit config file")
	}
}

func TestOpenRegistryWithExtraTables(t *testing.T) {
	dir := t.TempDir()
	table := `
name: tiny
manufacturer: 0x7D
model: 0x02
framing: embedded
ranges:
  level:
    subranges:
      - {lower: 0, upper: 127, offset: 0}
nodes:
  - {label: Level, range: level, default: 5}
`
	if err := os.WriteFile(filepath.Join(dir, "tiny.yaml"), []byte(table), 0o644); err != nil {
		t.Fatal(err)
	}

	r, err := OpenRegistry([]string{dir})
	if err != nil {
		t.Fatalf("OpenRegistry failed: %v", err)
	}
	want := []string{"nc-demo", "tiny", "xg"}
	if got := r.Names(); strings.Join(got, ",") != strings.Join(want, ",") {
		t.Errorf("expected %v, got %v", want, got)
	}

	n := 2
	d, err := OpenDevice(r, "tiny", &n)
	if err != nil {
		t.Fatalf("OpenDevice failed: %v", err)
	}
	if d.Identity().DeviceNumber != 2 {
		t.Errorf("expected device number 2, got %d", d.Identity().DeviceNumber)
	}

	bad := 16
	if _, err := OpenDevice(r, "tiny", &bad); err == nil {
		t.Error("expected error for device number 16")
	}
	if _, err := OpenDevice(r, "dx7", nil); !errors.Is(err, device.ErrUnknownDevice) {
		t.Errorf("expected ErrUnknownDevice, got %v", err)
	}
}

func TestOpenRegistryRejectsDuplicateNames(t *testing.T) {
	_, err := OpenRegistry([]string{filepath.Join("..", "..", "..", "tables")})
	if !errors.Is(err, device.ErrDuplicateDevice) {
		t.Errorf("expected ErrDuplicateDevice, got %v", err)
	}
}

func TestRunList(t *testing.T) {
	r, err := OpenRegistry(nil)
	if err != nil {
		t.Fatal(err)
	}
	var buf bytes.Buffer
	if err := RunList(r, &buf); err != nil {
		t.Fatalf("RunList failed: %v", err)
	}
	output := buf.String()

	for _, want := range []string{"NAME", "nc-demo", "xg", "mfr=43 model=4C dev=0", "embedded", "hex3"} {
		if !strings.Contains(output, want) {
			t.Errorf("expected %q in output:\n%s", want, output)
		}
	}
}

func TestRunInfo(t *testing.T) {
	d := openTestDevice(t, "nc-demo")
	var buf bytes.Buffer
	if err := RunInfo(d, &buf); err != nil {
		t.Fatalf("RunInfo failed: %v", err)
	}
	output := buf.String()

	// Patch (bytes 0-9), Mod (16-23), Global (100-101).
	for _, want := range []string{"Device:      nc-demo", "Framing:     embedded", "Dump frames: 3", "  16  8 bytes", "  100  2 bytes"} {
		if !strings.Contains(output, want) {
			t.Errorf("expected %q in output:\n%s", want, output)
		}
	}

	s := Summarize(d)
	if s.Params != 19 {
		t.Errorf("expected 19 parameters, got %d", s.Params)
	}
	if s.Padding <= 0 {
		t.Errorf("expected padding, got %d", s.Padding)
	}
}

func TestRunTree(t *testing.T) {
	d := openTestDevice(t, "nc-demo")
	var buf bytes.Buffer
	err := RunTree(d, TreeOptions{Path: "Patch/Envelope", Addresses: true}, &buf)
	if err != nil {
		t.Fatalf("RunTree failed: %v", err)
	}
	want := "[6] Envelope/\n  [6] Attack = 0\n  [7] Decay = 64\n  [8] Sustain = 127\n  [9] Release = 32\n"
	if buf.String() != want {
		t.Errorf("unexpected tree:\n%s", buf.String())
	}

	if err := RunTree(d, TreeOptions{Path: "Patch/Nope"}, &buf); err == nil {
		t.Error("expected error for unknown path")
	}
}

func TestRunDumpHex(t *testing.T) {
	d := openTestDevice(t, "nc-demo")
	var buf bytes.Buffer
	err := RunDump(d, DumpOptions{Path: "Patch/Volume", Set: []string{"Patch/Volume=100"}}, &buf)
	if err != nil {
		t.Fatalf("RunDump failed: %v", err)
	}
	cs := sysex.Checksum(0x7D, 0x01, 0x00, 0x01, 0x00, 0x00, 0x00, 0x64)
	want := fmt.Sprintf("7D 01 00 01 00 00 00 64 %02X\n", cs)
	if buf.String() != want {
		t.Errorf("expected %q, got %q", want, buf.String())
	}
}

func TestRunDumpAssignmentErrors(t *testing.T) {
	d := openTestDevice(t, "nc-demo")
	var buf bytes.Buffer
	if err := RunDump(d, DumpOptions{Set: []string{"Patch/Volume"}}, &buf); err == nil {
		t.Error("expected error for assignment without '='")
	}
	if err := RunDump(d, DumpOptions{Set: []string{"Patch/Wave=Sine"}}, &buf); err == nil {
		t.Error("expected error for unknown value label")
	}
	if err := RunDump(d, DumpOptions{Format: "midi"}, &buf); err == nil {
		t.Error("expected error for unknown format")
	}
}

func TestRunDumpApplyRoundTrip(t *testing.T) {
	src := openTestDevice(t, "nc-demo")
	out := filepath.Join(t.TempDir(), "patch.syx")

	var buf bytes.Buffer
	err := RunDump(src, DumpOptions{
		Format: FormatSyx,
		Output: out,
		Set:    []string{"Patch/Cutoff=12", "Patch/Wave=PCM Strings", "Mod/Slot 3/Source=Velocity"},
	}, &buf)
	if err != nil {
		t.Fatalf("RunDump failed: %v", err)
	}
	if !strings.Contains(buf.String(), "Wrote 3 frames") {
		t.Errorf("unexpected output: %s", buf.String())
	}

	dst := openTestDevice(t, "nc-demo")
	buf.Reset()
	res, err := RunApply(dst, out, sysex.ChecksumReject, &buf)
	if err != nil {
		t.Fatalf("RunApply failed: %v", err)
	}
	if res.Messages != 3 {
		t.Errorf("expected 3 messages, got %d", res.Messages)
	}
	if len(res.Changes) != 3 {
		t.Errorf("expected 3 changes, got %d", len(res.Changes))
	}
	output := buf.String()
	for _, want := range []string{
		"Patch/Cutoff: 64 -> 12",
		"Patch/Wave: Saw -> PCM Strings",
		"Mod/Slot 3/Source: Off -> Velocity",
		"3 messages",
	} {
		if !strings.Contains(output, want) {
			t.Errorf("expected %q in output:\n%s", want, output)
		}
	}
}

func TestRunApplyChecksumPolicy(t *testing.T) {
	src := openTestDevice(t, "xg")
	frames, err := src.DumpNode(src.Root().Children()[0])
	if err != nil {
		t.Fatal(err)
	}
	last := frames[len(frames)-1]
	last[len(last)-2] ^= 0x01
	path := writeFile(t, "bad.syx", string(src.Syx(frames)))

	var buf bytes.Buffer
	_, err = RunApply(openTestDevice(t, "xg"), path, sysex.ChecksumReject, &buf)
	if !errors.Is(err, sysex.ErrChecksum) {
		t.Errorf("expected ErrChecksum, got %v", err)
	}

	buf.Reset()
	res, err := RunApply(openTestDevice(t, "xg"), path, sysex.ChecksumWarn, &buf)
	if err != nil {
		t.Fatalf("RunApply failed: %v", err)
	}
	if res.BadChecks != 1 {
		t.Errorf("expected 1 bad checksum, got %d", res.BadChecks)
	}
	if !strings.Contains(buf.String(), "warning: 1 messages had a bad checksum") {
		t.Errorf("expected checksum warning, got:\n%s", buf.String())
	}
}
