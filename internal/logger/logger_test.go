package logger

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/zap"
)

func TestNewConsole(t *testing.T) {
	var buf bytes.Buffer
	l, err := New(Config{Level: "info", Console: &buf})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	l.Debug("hidden")
	l.Info("song loaded", zap.String("song_id", "abc"))
	_ = l.Sync()

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 1 {
		t.Fatalf("got %d lines, want 1: %q", len(lines), buf.String())
	}

	var entry map[string]any
	if err := json.Unmarshal([]byte(lines[0]), &entry); err != nil {
		t.Fatalf("line is not JSON: %v", err)
	}
	if entry["msg"] != "song loaded" {
		t.Errorf("msg = %v, want %q", entry["msg"], "song loaded")
	}
	if entry["song_id"] != "abc" {
		t.Errorf("song_id = %v, want %q", entry["song_id"], "abc")
	}
}

func TestNewFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "auralyn.log")
	l, err := New(Config{Level: "debug", File: path, MaxSize: 1})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	l.Debug("written")
	_ = l.Sync()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	if !strings.Contains(string(data), "written") {
		t.Errorf("log file = %q, want it to contain %q", data, "written")
	}
}

func TestNewRejectsUnknownLevel(t *testing.T) {
	if _, err := New(Config{Level: "loud"}); err == nil {
		t.Error("New() with unknown level should fail")
	}
}

func TestNewWithoutOutputsIsNop(t *testing.T) {
	l, err := New(Config{})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if l.Core().Enabled(zap.ErrorLevel) {
		t.Error("expected a no-op logger")
	}
}
