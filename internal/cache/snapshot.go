// Package cache materializes a work directory's files and directories into a
// persisted snapshot and offers a line-oriented read/write facade over it.
package cache

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// ErrSnapshotNotFound is returned by a Store that holds no snapshot for the
// requested work directory.
var ErrSnapshotNotFound = errors.New("cache: snapshot not found")

// Snapshot is the persisted path list of one work directory.
type Snapshot struct {
	ID        uuid.UUID
	WorkDir   string
	MaxDepth  int
	CreatedAt time.Time
	Paths     []string
}

// Store persists snapshots, one per work directory.
type Store interface {
	// Load returns the snapshot stored for workDir or ErrSnapshotNotFound.
	Load(workDir string) (*Snapshot, error)

	// Save replaces the snapshot stored for s.WorkDir.
	Save(s *Snapshot) error
}

// newSnapshot stamps a fresh snapshot.
func newSnapshot(workDir string, maxDepth int, paths []string) *Snapshot {
	return &Snapshot{
		ID:        uuid.New(),
		WorkDir:   workDir,
		MaxDepth:  maxDepth,
		CreatedAt: time.Now().UTC(),
		Paths:     paths,
	}
}

// clone returns a deep copy so callers cannot alias the cached path slice.
func (s *Snapshot) clone() *Snapshot {
	c := *s
	c.Paths = append([]string(nil), s.Paths...)
	return &c
}

// snapshotDoc is the serialized form shared by the stores.
type snapshotDoc struct {
	ID        string    `yaml:"id"`
	WorkDir   string    `yaml:"work_dir"`
	MaxDepth  int       `yaml:"max_depth"`
	CreatedAt time.Time `yaml:"created_at"`
	Paths     []string  `yaml:"paths"`
}

func toDoc(s *Snapshot) snapshotDoc {
	return snapshotDoc{
		ID:        s.ID.String(),
		WorkDir:   s.WorkDir,
		MaxDepth:  s.MaxDepth,
		CreatedAt: s.CreatedAt,
		Paths:     s.Paths,
	}
}

func fromDoc(d snapshotDoc) (*Snapshot, error) {
	id, err := uuid.Parse(d.ID)
	if err != nil {
		return nil, fmt.Errorf("invalid snapshot id %q: %w", d.ID, err)
	}
	paths := d.Paths
	if paths == nil {
		paths = []string{}
	}
	return &Snapshot{
		ID:        id,
		WorkDir:   d.WorkDir,
		MaxDepth:  d.MaxDepth,
		CreatedAt: d.CreatedAt,
		Paths:     paths,
	}, nil
}
