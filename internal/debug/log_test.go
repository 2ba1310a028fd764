package debug

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLogDisabledByDefault(t *testing.T) {
	Disable()
	Log("engine", "should not appear")
	if out != nil {
		t.Error("writer set while disabled")
	}
}

func TestLogEvery(t *testing.T) {
	var buf bytes.Buffer
	enableWriter(&buf)
	defer Disable()

	for i := 0; i < 10; i++ {
		LogEvery(5, "sched", "tick %d", i)
	}

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("got %d lines, want 2:\n%s", len(lines), buf.String())
	}
	if !strings.Contains(lines[0], "sched") || !strings.Contains(lines[0], "tick 4 (every 5, count=5)") {
		t.Errorf("unexpected line %q", lines[0])
	}
}

func TestEnableFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "debug.log")
	if err := Enable(path); err != nil {
		t.Fatalf("Enable: %v", err)
	}
	Log("sink", "resume failed: %s", "boom")
	Disable()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading log: %v", err)
	}
	if !strings.Contains(string(data), "Debug logging started") || !strings.Contains(string(data), "resume failed: boom") {
		t.Errorf("log contents:\n%s", data)
	}
}
