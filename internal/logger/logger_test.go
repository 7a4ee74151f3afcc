package logger

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestResolveLogFilePathUsesConfiguredDir(t *testing.T) {
	tmpDir := t.TempDir()

	got, err := resolveLogFilePath(Options{Dir: tmpDir, Filename: "billing.log"})
	if err != nil {
		t.Fatalf("resolve log path failed: %v", err)
	}
	if filepath.Base(got) != "billing.log" {
		t.Fatalf("unexpected filename: %s", filepath.Base(got))
	}
	if _, err := os.Stat(got); err != nil {
		t.Fatalf("expected log file to be created: %v", err)
	}
}

func TestNewReleaseWritesJSONToFile(t *testing.T) {
	tmpDir := t.TempDir()

	log := New("release", Options{Dir: tmpDir, Filename: "release.log"})
	log.Info("release-log-probe")
	_ = log.Sync()

	content, err := os.ReadFile(filepath.Join(tmpDir, "release.log"))
	if err != nil {
		t.Fatalf("read release log failed: %v", err)
	}
	if !strings.Contains(string(content), "release-log-probe") {
		t.Fatalf("expected log line in file, got: %s", string(content))
	}
	if !strings.Contains(string(content), `"message"`) {
		t.Fatalf("expected JSON encoded entry, got: %s", string(content))
	}
}

func TestPositiveOr(t *testing.T) {
	if got := positiveOr(0, 7); got != 7 {
		t.Fatalf("expected fallback 7, got %d", got)
	}
	if got := positiveOr(3, 7); got != 3 {
		t.Fatalf("expected 3, got %d", got)
	}
}
