package project

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	_ "modernc.org/sqlite"

	"github.com/riverscapes/brat/pkg/types"
)

// Project owns the SQLite project database for the duration of a build or
// run. A single process owns the file; there is no concurrent-writer
// scenario, and each run overwrites the previous run's output columns in
// place.
type Project struct {
	mu   sync.RWMutex
	open bool
	path string
	db   *sql.DB
}

// Create initializes a fresh project database at path, replacing any
// existing file, and applies the schema, views, indexes, and seeded lookup
// tables. Used by the build step.
func Create(path string) (*Project, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("creating project directory: %w", err)
	}
	// The build step always starts from a fresh database.
	_ = os.Remove(path)

	db, err := openDB(path)
	if err != nil {
		return nil, err
	}

	for _, ddl := range schemaDDL {
		if _, err := db.Exec(ddl); err != nil {
			db.Close()
			return nil, fmt.Errorf("creating schema: %w", err)
		}
	}
	for _, ddl := range viewDDL {
		if _, err := db.Exec(ddl); err != nil {
			db.Close()
			return nil, fmt.Errorf("creating views: %w", err)
		}
	}
	for _, ddl := range indexDDL {
		if _, err := db.Exec(ddl); err != nil {
			db.Close()
			return nil, fmt.Errorf("creating indexes: %w", err)
		}
	}

	p := &Project{open: true, path: path, db: db}
	if err := p.seed(); err != nil {
		db.Close()
		return nil, fmt.Errorf("seeding lookup tables: %w", err)
	}
	return p, nil
}

// Open attaches to an existing project database. Used by the run and
// export steps, which never re-run the build step's geoprocessing.
func Open(path string) (*Project, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("project database %s: %w", path, types.ErrNotFound)
	}
	db, err := openDB(path)
	if err != nil {
		return nil, err
	}
	return &Project{open: true, path: path, db: db}, nil
}

func openDB(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling foreign keys: %w", err)
	}
	return db, nil
}

// Path returns the project database file path.
func (p *Project) Path() string {
	return p.path
}

// Close releases the database handle. Idempotent; after Close all
// operations return ErrProjectClosed.
func (p *Project) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.open {
		return nil
	}
	if p.db != nil {
		if err := p.db.Close(); err != nil {
			return err
		}
		p.db = nil
	}
	p.open = false
	return nil
}

// guard returns ErrProjectClosed when the project has been closed.
// Callers hold at least a read lock.
func (p *Project) guard() error {
	if !p.open {
		return types.ErrProjectClosed
	}
	return nil
}
