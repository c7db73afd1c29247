package logging

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
)

func TestNewRespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := New(&buf, "test", log.WarnLevel)

	logger.Info("hidden")
	logger.Warn("shown", "lines", 4)

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("info message should be filtered: %q", out)
	}
	if !strings.Contains(out, "shown") || !strings.Contains(out, "lines=4") {
		t.Errorf("warn message missing: %q", out)
	}
	if !strings.Contains(out, "test") {
		t.Errorf("prefix missing: %q", out)
	}
}

func TestOpenFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "game.log")

	logger, f, err := OpenFile(path, "blockfall")
	if err != nil {
		t.Fatalf("OpenFile: %v", err)
	}
	logger.Debug("lock", "kind", "T")
	f.Close()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "kind=T") {
		t.Errorf("debug line not written: %q", data)
	}
}

func TestParseLevel(t *testing.T) {
	if lvl, err := ParseLevel(""); err != nil || lvl != log.InfoLevel {
		t.Errorf("ParseLevel(\"\") = %v, %v", lvl, err)
	}
	if lvl, err := ParseLevel("debug"); err != nil || lvl != log.DebugLevel {
		t.Errorf("ParseLevel(debug) = %v, %v", lvl, err)
	}
	if _, err := ParseLevel("loud"); err == nil {
		t.Error("expected error for unknown level")
	}
}
