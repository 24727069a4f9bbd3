package logging

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestNew_WritesConsoleAndFile(t *testing.T) {
	dir := t.TempDir()
	var console bytes.Buffer

	logger, closer, err := New(Options{Dir: dir, Console: &console, NoColor: true})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	logger.Info().Str("sprint", "s1").Msg("hello")
	logger.Debug().Msg("hidden at info level")
	if err := closer.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	if !strings.Contains(console.String(), "hello") || !strings.Contains(console.String(), "sprint=s1") {
		t.Errorf("console output = %q", console.String())
	}
	if strings.Contains(console.String(), "hidden") {
		t.Error("debug line leaked at info level")
	}

	data, err := os.ReadFile(filepath.Join(dir, FileName))
	if err != nil {
		t.Fatalf("log file missing: %v", err)
	}
	if !strings.Contains(string(data), `"message":"hello"`) {
		t.Errorf("log file = %q", data)
	}
}

func TestNew_VerboseEnablesDebug(t *testing.T) {
	var console bytes.Buffer
	logger, closer, err := New(Options{Dir: t.TempDir(), Console: &console, NoColor: true, Verbose: true})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer closer.Close()

	logger.Debug().Msg("details")
	if !strings.Contains(console.String(), "details") {
		t.Errorf("debug line missing: %q", console.String())
	}
}

func TestDefaultDir_HonorsEnv(t *testing.T) {
	t.Setenv("LOGS_FOLDER", "/tmp/sprintlens-logs")
	if got := DefaultDir(); got != "/tmp/sprintlens-logs" {
		t.Errorf("DefaultDir = %q", got)
	}
}
