package log

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"
	"time"
)

func captureSlog(t *testing.T, level slog.Level, ev Event) map[string]any {
	t.Helper()
	var buf bytes.Buffer
	handler := slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: level})
	NewSlogAdapter(slog.New(handler)).Log(ev)

	if buf.Len() == 0 {
		return nil
	}
	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("failed to parse log output: %v", err)
	}
	return entry
}

func TestSlogAdapterFrame(t *testing.T) {
	entry := captureSlog(t, slog.LevelDebug, Event{
		Timestamp: time.Now(),
		SessionID: "s-1",
		Direction: DirectionOut,
		Layer:     LayerFrame,
		Frame:     NewFrameEvent([]byte{0xF0, 0x43, 0xF7}),
	})
	if entry == nil {
		t.Fatal("no output produced")
	}
	if entry["session"] != "s-1" {
		t.Errorf("session: got %v", entry["session"])
	}
	if entry["direction"] != "OUT" {
		t.Errorf("direction: got %v", entry["direction"])
	}
	if entry["data"] != "f043f7" {
		t.Errorf("data: got %v", entry["data"])
	}
	if entry["level"] != "DEBUG" {
		t.Errorf("level: got %v", entry["level"])
	}
}

func TestSlogAdapterParam(t *testing.T) {
	entry := captureSlog(t, slog.LevelDebug, Event{
		SessionID: "s-2",
		Layer:     LayerMap,
		Category:  CategoryParam,
		Param:     &ParamEvent{Path: "System/Transpose", Old: 0x40, New: 0x41, Display: "+1"},
	})
	if entry["path"] != "System/Transpose" {
		t.Errorf("path: got %v", entry["path"])
	}
	if entry["display"] != "+1" {
		t.Errorf("display: got %v", entry["display"])
	}
}

func TestSlogAdapterErrorRaisesLevel(t *testing.T) {
	entry := captureSlog(t, slog.LevelWarn, Event{
		SessionID: "s-3",
		Category:  CategoryError,
		Error:     &ErrorEventData{Layer: LayerMap, Message: "checksum mismatch", Context: "apply"},
	})
	if entry == nil {
		t.Fatal("error event was filtered at warn level")
	}
	if entry["level"] != "WARN" {
		t.Errorf("level: got %v", entry["level"])
	}
	if entry["error_msg"] != "checksum mismatch" {
		t.Errorf("error_msg: got %v", entry["error_msg"])
	}
}

func TestSlogAdapterDebugFilteredAtInfo(t *testing.T) {
	entry := captureSlog(t, slog.LevelInfo, Event{SessionID: "quiet", Frame: NewFrameEvent(nil)})
	if entry != nil {
		t.Errorf("debug event should be filtered, got %v", entry)
	}
}
