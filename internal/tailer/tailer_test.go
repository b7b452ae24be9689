package tailer

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/atikulmunna/warp/internal/model"
	"github.com/atikulmunna/warp/internal/watcher"
)

func collectLines(t *testing.T, ch <-chan model.RawLine, n int) []string {
	t.Helper()
	var lines []string
	deadline := time.After(3 * time.Second)
	for len(lines) < n {
		select {
		case raw := <-ch:
			lines = append(lines, raw.Text)
		case <-deadline:
			t.Fatalf("timed out after %d of %d lines", len(lines), n)
		}
	}
	return lines
}

func TestTailFromStart(t *testing.T) {
	// A build log is parsed whole: pre-existing content must be emitted.
	dir := t.TempDir()
	logPath := filepath.Join(dir, "build.log")
	content := "1>------ Build started: Project: Foo, Configuration: Debug Win32 ------\n1>  foo.cpp\n"
	if err := os.WriteFile(logPath, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	w, err := watcher.New([]string{logPath})
	if err != nil {
		t.Fatal(err)
	}
	ckpt, err := NewCheckpoint(filepath.Join(dir, ".warp-state.json"))
	if err != nil {
		t.Fatal(err)
	}
	tail := New(w, ckpt)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go w.Start(ctx)
	go tail.Start(ctx)

	lines := collectLines(t, tail.Lines(), 2)
	if lines[0] != "1>------ Build started: Project: Foo, Configuration: Debug Win32 ------" {
		t.Errorf("unexpected first line %q", lines[0])
	}
	if lines[1] != "1>  foo.cpp" {
		t.Errorf("unexpected second line %q", lines[1])
	}
}

func TestTailAppendedLines(t *testing.T) {
	dir := t.TempDir()
	logPath := filepath.Join(dir, "build.log")
	if err := os.WriteFile(logPath, []byte("1>existing\n"), 0644); err != nil {
		t.Fatal(err)
	}

	w, err := watcher.New([]string{logPath})
	if err != nil {
		t.Fatal(err)
	}
	ckpt, err := NewCheckpoint(filepath.Join(dir, ".warp-state.json"))
	if err != nil {
		t.Fatal(err)
	}
	tail := New(w, ckpt)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go w.Start(ctx)
	go tail.Start(ctx)

	// Drain the initial content first.
	collectLines(t, tail.Lines(), 1)

	f, err := os.OpenFile(logPath, os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := f.WriteString("1>appended\n"); err != nil {
		t.Fatal(err)
	}
	f.Close()

	lines := collectLines(t, tail.Lines(), 1)
	if lines[0] != "1>appended" {
		t.Errorf("expected appended line, got %q", lines[0])
	}
}

func TestCheckpointRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")

	c, err := NewCheckpoint(path)
	if err != nil {
		t.Fatal(err)
	}
	c.Set("/logs/build.log", 1234)
	if err := c.Save(); err != nil {
		t.Fatal(err)
	}

	reloaded, err := NewCheckpoint(path)
	if err != nil {
		t.Fatal(err)
	}
	offset, ok := reloaded.Get("/logs/build.log")
	if !ok || offset != 1234 {
		t.Errorf("expected offset 1234, got %d (ok=%v)", offset, ok)
	}
}

func TestCheckpointMissingFile(t *testing.T) {
	c, err := NewCheckpoint(filepath.Join(t.TempDir(), "absent.json"))
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := c.Get("anything"); ok {
		t.Error("fresh checkpoint should have no offsets")
	}
}
