package cmd

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/harrison/findfile/internal/cache"
)

func TestCacheBuildAndList(t *testing.T) {
	dir := t.TempDir()
	makeTree(t, dir, "a.txt", "sub/b.txt")

	stdout, _, err := execute(t, "", "cache", "build", dir, "--config", missingConfig(t))
	if err != nil {
		t.Fatalf("cache build returned error: %v", err)
	}
	if want := dir + "\t4 paths"; strings.TrimSpace(stdout) != want {
		t.Errorf("cache build = %q, want %q", stdout, want)
	}
	if _, err := os.Stat(filepath.Join(dir, cache.SnapshotFileName)); err != nil {
		t.Fatalf("snapshot file missing: %v", err)
	}

	stdout, _, err = execute(t, "", "cache", "list", dir, "--config", missingConfig(t))
	if err != nil {
		t.Fatalf("cache list returned error: %v", err)
	}
	want := []string{
		filepath.Join(dir, "a.txt"),
		filepath.Join(dir, "sub", "b.txt"),
		dir,
		filepath.Join(dir, "sub"),
	}
	got := lines(stdout)
	if len(got) != len(want) {
		t.Fatalf("cache list = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("cache list[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestCacheBuildSeveralDirsShowsProgress(t *testing.T) {
	one, two := t.TempDir(), t.TempDir()
	makeTree(t, one, "x.txt")
	makeTree(t, two, "y.txt")

	_, stderr, err := execute(t, "", "cache", "build", one, two, "--config", missingConfig(t))
	if err != nil {
		t.Fatalf("cache build returned error: %v", err)
	}
	if !strings.Contains(stderr, "[2/2] "+two) {
		t.Errorf("missing progress step in %q", stderr)
	}
	if !strings.Contains(stderr, "Built 2 snapshots") {
		t.Errorf("missing completion line in %q", stderr)
	}
}

func TestCacheReadWrite(t *testing.T) {
	dir := t.TempDir()
	makeTree(t, dir, "notes/todo.txt", "notes/readme.md")

	stdout, _, err := execute(t, "", "cache", "write", dir, "--content", "first\n", "--config", missingConfig(t))
	if err != nil {
		t.Fatalf("cache write returned error: %v", err)
	}
	if got := strings.TrimSpace(stdout); got != filepath.Join(dir, "notes", "todo.txt") {
		t.Errorf("cache write = %q, want only the txt file", got)
	}

	// Content from stdin, appended
	if _, _, err := execute(t, "second\n", "cache", "write", dir, "--append", "--config", missingConfig(t)); err != nil {
		t.Fatalf("cache write --append returned error: %v", err)
	}

	stdout, _, err = execute(t, "", "cache", "read", dir, "--config", missingConfig(t))
	if err != nil {
		t.Fatalf("cache read returned error: %v", err)
	}
	if stdout != "first\nsecond\n" {
		t.Errorf("cache read = %q", stdout)
	}

	stdout, _, err = execute(t, "", "cache", "read", dir, "--ext", "md", "--config", missingConfig(t))
	if err != nil {
		t.Fatalf("cache read --ext md returned error: %v", err)
	}
	if stdout != "notes/readme.md" {
		t.Errorf("cache read --ext md = %q", stdout)
	}
}

func TestCacheSQLiteStore(t *testing.T) {
	t.Setenv("FINDFILE_HOME", t.TempDir())
	one, two := t.TempDir(), t.TempDir()
	makeTree(t, one, "x.txt")
	makeTree(t, two, "y.txt")

	if _, _, err := execute(t, "", "cache", "build", one, two, "--store", "sqlite", "--config", missingConfig(t)); err != nil {
		t.Fatalf("cache build returned error: %v", err)
	}
	if _, err := os.Stat(filepath.Join(one, cache.SnapshotFileName)); !os.IsNotExist(err) {
		t.Errorf("sqlite store should not write a snapshot file, stat err = %v", err)
	}

	stdout, _, err := execute(t, "", "cache", "list", "--work-dirs", "--store", "sqlite", "--config", missingConfig(t))
	if err != nil {
		t.Fatalf("cache list --work-dirs returned error: %v", err)
	}
	got := lines(stdout)
	if len(got) != 2 {
		t.Fatalf("work dirs = %v, want 2", got)
	}
	for _, d := range []string{one, two} {
		if got[0] != d && got[1] != d {
			t.Errorf("work dirs %v lack %s", got, d)
		}
	}

	_, _, err = execute(t, "", "cache", "list", "--work-dirs", "--config", missingConfig(t))
	if err == nil || !strings.Contains(err.Error(), "sqlite") {
		t.Errorf("expected --work-dirs to require sqlite, got %v", err)
	}
}

func TestCacheInvalidStore(t *testing.T) {
	_, _, err := execute(t, "", "cache", "list", t.TempDir(), "--store", "redis", "--config", missingConfig(t))
	if err == nil || !strings.Contains(err.Error(), "cache.store") {
		t.Errorf("expected cache.store error, got %v", err)
	}
}

func TestCacheUnknownWorkDir(t *testing.T) {
	_, _, err := execute(t, "", "cache", "build", "no-such-work-dir-anywhere", "--cache-depth", "0", "--config", missingConfig(t))
	if err == nil || !strings.Contains(err.Error(), "work_dir") {
		t.Errorf("expected work_dir error, got %v", err)
	}
}
