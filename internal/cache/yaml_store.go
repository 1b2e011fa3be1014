package cache

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/harrison/findfile/internal/filelock"
)

// SnapshotFileName is the file YAMLStore keeps inside each work directory.
// Its name contains the ".findfile_disk_cache" sentinel so searches never
// report it.
const SnapshotFileName = ".findfile_disk_cache.yaml"

// isStoreFile reports whether name is the base name of a snapshot file or
// its lock file. These never belong in a snapshot and never trigger a
// recache, whatever the ignore list holds.
func isStoreFile(name string) bool {
	name = strings.ToLower(name)
	return name == SnapshotFileName || name == filelock.LockPath(SnapshotFileName)
}

// DefaultLockTimeout bounds how long Save waits for a concurrent writer.
const DefaultLockTimeout = 5 * time.Second

// YAMLStore keeps each snapshot as a YAML file in its work directory.
type YAMLStore struct {
	lockTimeout time.Duration
}

// NewYAMLStore creates a YAMLStore. A non-positive timeout uses
// DefaultLockTimeout.
func NewYAMLStore(lockTimeout time.Duration) *YAMLStore {
	if lockTimeout <= 0 {
		lockTimeout = DefaultLockTimeout
	}
	return &YAMLStore{lockTimeout: lockTimeout}
}

// Path returns the snapshot file of workDir.
func (s *YAMLStore) Path(workDir string) string {
	return filepath.Join(workDir, SnapshotFileName)
}

// Load reads the snapshot of workDir under a shared lock.
func (s *YAMLStore) Load(workDir string) (*Snapshot, error) {
	data, err := filelock.LockAndRead(s.Path(workDir))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, ErrSnapshotNotFound
		}
		return nil, fmt.Errorf("failed to read snapshot: %w", err)
	}

	var doc snapshotDoc
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse snapshot %s: %w", s.Path(workDir), err)
	}
	return fromDoc(doc)
}

// Save writes the snapshot atomically under an exclusive lock.
func (s *YAMLStore) Save(snap *Snapshot) error {
	data, err := yaml.Marshal(toDoc(snap))
	if err != nil {
		return fmt.Errorf("failed to encode snapshot: %w", err)
	}
	if err := filelock.LockAndWrite(s.Path(snap.WorkDir), data, s.lockTimeout); err != nil {
		return fmt.Errorf("failed to write snapshot: %w", err)
	}
	return nil
}
