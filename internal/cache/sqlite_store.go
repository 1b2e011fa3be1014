package cache

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
	"gopkg.in/yaml.v3"
)

const snapshotSchema = `CREATE TABLE IF NOT EXISTS snapshots (
	work_dir   TEXT PRIMARY KEY,
	id         TEXT NOT NULL,
	max_depth  INTEGER NOT NULL,
	created_at TEXT NOT NULL,
	paths      TEXT NOT NULL
)`

// SQLiteStore keeps the snapshots of many work directories in one database,
// one row per work directory. The paths column holds a YAML sequence, since
// file names may contain any byte but NUL and '/'.
type SQLiteStore struct {
	db     *sql.DB
	dbPath string
}

// OpenSQLiteStore opens (creating if needed) the database at dbPath.
// ":memory:" opens a private in-memory database.
func OpenSQLiteStore(dbPath string) (*SQLiteStore, error) {
	if dbPath != ":memory:" {
		dir := filepath.Dir(dbPath)
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("create database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if dbPath == ":memory:" {
		// Every connection would get its own empty database
		db.SetMaxOpenConns(1)
	}

	pragmas := []string{
		"PRAGMA busy_timeout=5000",
		"PRAGMA journal_mode=WAL",
		"PRAGMA synchronous=NORMAL",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("set %s: %w", pragma, err)
		}
	}

	if _, err := db.Exec(snapshotSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("init schema: %w", err)
	}

	return &SQLiteStore{db: db, dbPath: dbPath}, nil
}

// Path returns the database path.
func (s *SQLiteStore) Path() string {
	return s.dbPath
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// Load returns the snapshot stored for workDir.
func (s *SQLiteStore) Load(workDir string) (*Snapshot, error) {
	var (
		id, createdAt, paths string
		maxDepth             int
	)
	err := s.db.QueryRow(
		`SELECT id, max_depth, created_at, paths FROM snapshots WHERE work_dir = ?`,
		workDir,
	).Scan(&id, &maxDepth, &createdAt, &paths)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrSnapshotNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query snapshot: %w", err)
	}

	snap := &Snapshot{WorkDir: workDir, MaxDepth: maxDepth}
	if snap.Paths, err = decodePaths(paths); err != nil {
		return nil, fmt.Errorf("invalid snapshot paths of %s: %w", workDir, err)
	}
	if snap.ID, err = uuid.Parse(id); err != nil {
		return nil, fmt.Errorf("invalid snapshot id %q: %w", id, err)
	}
	if snap.CreatedAt, err = time.Parse(time.RFC3339Nano, createdAt); err != nil {
		return nil, fmt.Errorf("invalid snapshot timestamp %q: %w", createdAt, err)
	}
	return snap, nil
}

// Save inserts or replaces the row of snap.WorkDir.
func (s *SQLiteStore) Save(snap *Snapshot) error {
	paths, err := encodePaths(snap.Paths)
	if err != nil {
		return fmt.Errorf("failed to encode snapshot paths: %w", err)
	}

	_, err = s.db.Exec(
		`INSERT INTO snapshots (work_dir, id, max_depth, created_at, paths)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(work_dir) DO UPDATE SET
			id = excluded.id,
			max_depth = excluded.max_depth,
			created_at = excluded.created_at,
			paths = excluded.paths`,
		snap.WorkDir,
		snap.ID.String(),
		snap.MaxDepth,
		snap.CreatedAt.UTC().Format(time.RFC3339Nano),
		paths,
	)
	if err != nil {
		return fmt.Errorf("save snapshot: %w", err)
	}
	return nil
}

// WorkDirs lists the work directories with a stored snapshot, sorted.
func (s *SQLiteStore) WorkDirs() ([]string, error) {
	rows, err := s.db.Query(`SELECT work_dir FROM snapshots ORDER BY work_dir`)
	if err != nil {
		return nil, fmt.Errorf("query work dirs: %w", err)
	}
	defer rows.Close()

	var dirs []string
	for rows.Next() {
		var dir string
		if err := rows.Scan(&dir); err != nil {
			return nil, fmt.Errorf("scan work dir: %w", err)
		}
		dirs = append(dirs, dir)
	}
	return dirs, rows.Err()
}

func encodePaths(paths []string) (string, error) {
	if paths == nil {
		paths = []string{}
	}
	data, err := yaml.Marshal(paths)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func decodePaths(doc string) ([]string, error) {
	var paths []string
	if err := yaml.Unmarshal([]byte(doc), &paths); err != nil {
		return nil, err
	}
	if paths == nil {
		paths = []string{}
	}
	return paths, nil
}
