package logging

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"
)

func TestGetWeekKey(t *testing.T) {
	tests := []struct {
		date     time.Time
		expected string
	}{
		{time.Date(2025, 10, 7, 12, 0, 0, 0, time.UTC), "2025-W41"},
		{time.Date(2021, 1, 1, 0, 0, 0, 0, time.UTC), "2020-W53"},
		{time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC), "2026-W02"},
	}

	for _, tt := range tests {
		if got := getWeekKey(tt.date); got != tt.expected {
			t.Errorf("getWeekKey(%s) = %s, want %s", tt.date.Format(time.DateOnly), got, tt.expected)
		}
	}
}

func TestRotatingLoggerWritesWeeklyFile(t *testing.T) {
	dir := t.TempDir()
	rl := NewRotatingLogger(dir, 1)
	defer func() { _ = rl.Close() }()

	if _, err := rl.Write([]byte("first line\n")); err != nil {
		t.Fatalf("Failed to write: %v", err)
	}

	path := filepath.Join(dir, logFilePrefix+getWeekKey(time.Now())+".log")
	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Expected weekly log file %s: %v", path, err)
	}
	if !strings.Contains(string(content), "first line") {
		t.Errorf("Log file does not contain message: %s", content)
	}
}

func TestRotatingLoggerSplitsOnSize(t *testing.T) {
	dir := t.TempDir()
	rl := NewRotatingLoggerWithSizeLimit(dir, 1, 64)
	defer func() { _ = rl.Close() }()

	line := []byte(strings.Repeat("x", 40) + "\n")
	for i := 0; i < 3; i++ {
		if _, err := rl.Write(line); err != nil {
			t.Fatalf("Write %d failed: %v", i, err)
		}
	}

	week := getWeekKey(time.Now())
	for _, name := range []string{
		logFilePrefix + week + ".log",
		logFilePrefix + week + "_01.log",
		logFilePrefix + week + "_02.log",
	} {
		if _, err := os.Stat(filepath.Join(dir, name)); err != nil {
			t.Errorf("Expected %s to exist: %v", name, err)
		}
	}
}

func TestRotatingLoggerReusesPartWithRoom(t *testing.T) {
	dir := t.TempDir()
	week := getWeekKey(time.Now())

	full := filepath.Join(dir, logFilePrefix+week+".log")
	part := filepath.Join(dir, logFilePrefix+week+"_01.log")
	if err := os.WriteFile(full, []byte(strings.Repeat("x", 100)), 0644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(part, []byte("short\n"), 0644); err != nil {
		t.Fatal(err)
	}

	rl := NewRotatingLoggerWithSizeLimit(dir, 1, 100)
	defer func() { _ = rl.Close() }()

	if _, err := rl.Write([]byte("next\n")); err != nil {
		t.Fatalf("Write failed: %v", err)
	}

	content, _ := os.ReadFile(part)
	if !strings.Contains(string(content), "next") {
		t.Errorf("Expected write to go to existing part, got: %s", content)
	}
}

func TestCleanupOldLogs(t *testing.T) {
	dir := t.TempDir()
	old := filepath.Join(dir, logFilePrefix+"2020-W01.log")
	recent := filepath.Join(dir, logFilePrefix+"2099-W01.log")
	unrelated := filepath.Join(dir, "notes.txt")

	for _, p := range []string{old, recent, unrelated} {
		if err := os.WriteFile(p, []byte("x"), 0644); err != nil {
			t.Fatal(err)
		}
	}
	twoMonthsAgo := time.Now().Add(-60 * 24 * time.Hour)
	if err := os.Chtimes(old, twoMonthsAgo, twoMonthsAgo); err != nil {
		t.Fatal(err)
	}
	if err := os.Chtimes(unrelated, twoMonthsAgo, twoMonthsAgo); err != nil {
		t.Fatal(err)
	}

	rl := NewRotatingLogger(dir, 1)
	if err := rl.cleanupOldLogs(); err != nil {
		t.Fatalf("cleanupOldLogs failed: %v", err)
	}

	if _, err := os.Stat(old); !os.IsNotExist(err) {
		t.Error("Expected old log file to be removed")
	}
	if _, err := os.Stat(recent); err != nil {
		t.Error("Expected recent log file to be kept")
	}
	if _, err := os.Stat(unrelated); err != nil {
		t.Error("Expected unrelated file to be kept")
	}
}

func TestRotatingLoggerConcurrentWrites(t *testing.T) {
	dir := t.TempDir()
	rl := NewRotatingLoggerWithSizeLimit(dir, 1, 1024)
	defer func() { _ = rl.Close() }()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 20; j++ {
				if _, err := rl.Write([]byte("concurrent log line\n")); err != nil {
					t.Errorf("Write failed: %v", err)
					return
				}
			}
		}()
	}
	wg.Wait()

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	var total int64
	for _, e := range entries {
		info, _ := e.Info()
		total += info.Size()
	}
	if want := int64(20 * 20 * len("concurrent log line\n")); total != want {
		t.Errorf("Expected %d bytes across files, got %d", want, total)
	}
}

func TestSetupLoggerWithoutDirectory(t *testing.T) {
	logger, rotating := SetupLogger(Options{})
	if logger == nil {
		t.Fatal("Expected console logger")
	}
	if rotating != nil {
		t.Error("Expected no rotating logger without a directory")
	}
}

func TestMultiHandler(t *testing.T) {
	var a, b strings.Builder
	h := &multiHandler{handlers: []slog.Handler{
		slog.NewTextHandler(&a, &slog.HandlerOptions{Level: slog.LevelInfo}),
		slog.NewTextHandler(&b, &slog.HandlerOptions{Level: slog.LevelError}),
	}}

	if !h.Enabled(context.Background(), slog.LevelInfo) {
		t.Error("Expected info to be enabled by the first handler")
	}

	logger := slog.New(h).With("component", "test").WithGroup("g")
	logger.Info("only first", "k", "v")
	logger.Error("both")

	if !strings.Contains(a.String(), "only first") || !strings.Contains(a.String(), "component=test") {
		t.Errorf("First handler missing records: %s", a.String())
	}
	if strings.Contains(b.String(), "only first") {
		t.Errorf("Second handler should skip info records: %s", b.String())
	}
	if !strings.Contains(b.String(), "both") {
		t.Errorf("Second handler missing error record: %s", b.String())
	}
}
