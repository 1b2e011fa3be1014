package cache

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/harrison/findfile/internal/finder"
)

// DefaultExtension is the extension ReadLines, Read and WriteLines operate
// on when none is given.
const DefaultExtension = "txt"

// Manager is the read/write facade over the cached files of a work
// directory. It loads the stored snapshot, or builds and stores one.
type Manager struct {
	finder *finder.Finder
	store  Store
	cache  *DiskCache
}

// OpenManager opens the cache of workDir. A stored snapshot taken with the
// same maxDepth is reused; otherwise (including an unreadable snapshot) the
// work directory is traversed and the new snapshot saved.
func OpenManager(f *finder.Finder, store Store, workDir string, maxDepth int) (*Manager, error) {
	dir, err := resolveWorkDir(f, workDir, maxDepth)
	if err != nil {
		return nil, err
	}

	m := &Manager{finder: f, store: store}

	snap, err := store.Load(dir)
	if err == nil && snap.MaxDepth == maxDepth {
		m.cache = diskCacheFromSnapshot(f, snap)
		return m, nil
	}

	m.cache = &DiskCache{finder: f, workDir: dir, maxDepth: maxDepth}
	if err := m.Recache(); err != nil {
		return nil, err
	}
	return m, nil
}

// Cache returns the underlying disk cache.
func (m *Manager) Cache() *DiskCache {
	return m.cache
}

// WorkDir returns the absolute work directory.
func (m *Manager) WorkDir() string {
	return m.cache.WorkDir()
}

// Recache traverses the work directory again and saves the new snapshot.
func (m *Manager) Recache() error {
	if err := m.cache.Recache(); err != nil {
		return err
	}
	if err := m.store.Save(m.cache.snap); err != nil {
		return fmt.Errorf("failed to save snapshot of %s: %w", m.cache.WorkDir(), err)
	}
	return nil
}

// ReadLines returns the lines, without line terminators, of every cached
// regular file whose extension is one of exts (default "txt"), in cache
// order. Files that vanished or cannot be read are skipped.
func (m *Manager) ReadLines(exts ...string) ([]string, error) {
	lines := []string{}
	for _, path := range m.targets(exts) {
		data, err := os.ReadFile(path)
		if err != nil {
			continue
		}
		scanner := bufio.NewScanner(bytes.NewReader(data))
		scanner.Buffer(make([]byte, 0, 64*1024), len(data)+1)
		for scanner.Scan() {
			lines = append(lines, scanner.Text())
		}
		if err := scanner.Err(); err != nil {
			return nil, fmt.Errorf("failed to split %s: %w", path, err)
		}
	}
	return lines, nil
}

// Read returns the concatenated contents of the files ReadLines would read.
func (m *Manager) Read(exts ...string) (string, error) {
	var sb strings.Builder
	for _, path := range m.targets(exts) {
		data, err := os.ReadFile(path)
		if err != nil {
			continue
		}
		sb.Write(data)
	}
	return sb.String(), nil
}

// WriteLines writes content to every cached regular file whose extension is
// one of exts (default "txt"), truncating unless appendMode is set. It
// returns the written paths; failures are joined into the error.
func (m *Manager) WriteLines(content string, appendMode bool, exts ...string) ([]string, error) {
	flags := os.O_WRONLY | os.O_TRUNC
	if appendMode {
		flags = os.O_WRONLY | os.O_APPEND
	}

	written := []string{}
	var errs []error
	for _, path := range m.targets(exts) {
		if err := writeFile(path, flags, content); err != nil {
			errs = append(errs, err)
			continue
		}
		written = append(written, path)
	}
	return written, errors.Join(errs...)
}

func writeFile(path string, flags int, content string) error {
	f, err := os.OpenFile(path, flags, 0)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", path, err)
	}
	if _, err := f.WriteString(content); err != nil {
		f.Close()
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return f.Close()
}

// targets returns the cached regular files with one of the extensions.
func (m *Manager) targets(exts []string) []string {
	wanted := normalizeExtensions(exts)

	var out []string
	for _, path := range m.cache.snap.Paths {
		ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(path), "."))
		if !wanted[ext] {
			continue
		}
		info, err := os.Lstat(path)
		if err != nil || !info.Mode().IsRegular() {
			continue
		}
		out = append(out, path)
	}
	return out
}

func normalizeExtensions(exts []string) map[string]bool {
	if len(exts) == 0 {
		exts = []string{DefaultExtension}
	}
	wanted := make(map[string]bool, len(exts))
	for _, e := range exts {
		wanted[strings.ToLower(strings.TrimPrefix(strings.TrimSpace(e), "."))] = true
	}
	return wanted
}
