package repository

import (
	"context"
	"path/filepath"
	"sync"
	"time"

	"orcamento_backend/platform/logger"

	"github.com/fsnotify/fsnotify"
)

// Snapshot holds an immutable loaded view of the catalog. Readers share
// the same slice until the snapshot is invalidated, either explicitly,
// by TTL expiry, or by a filesystem event on the catalog file. This
// decouples read cost from call frequency: matching never re-parses the
// file per call.
type Snapshot struct {
	repo *Repository
	ttl  time.Duration
	log  *logger.Logger

	mu       sync.RWMutex
	entries  []Entry
	roles    ColumnRoles
	columns  []string
	rowCount int
	loadedAt time.Time
	valid    bool
}

// NewSnapshot creates a snapshot over the given repository. A ttl of 0
// disables time-based expiry.
func NewSnapshot(repo *Repository, ttl time.Duration, log *logger.Logger) *Snapshot {
	return &Snapshot{repo: repo, ttl: ttl, log: log}
}

// Entries returns the current catalog entries, refreshing the snapshot
// if it is stale. A load failure returns the error; callers degrade to
// empty results.
func (s *Snapshot) Entries() ([]Entry, error) {
	if err := s.refreshIfStale(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.entries, nil
}

// Roles returns the detected column roles of the current snapshot.
func (s *Snapshot) Roles() (ColumnRoles, error) {
	if err := s.refreshIfStale(); err != nil {
		return ColumnRoles{}, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.roles, nil
}

// Info returns the raw column labels and row count, for the admin surface.
func (s *Snapshot) Info() (columns []string, rowCount int, err error) {
	if err := s.refreshIfStale(); err != nil {
		return nil, 0, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.columns, s.rowCount, nil
}

// Invalidate forces the next read to reload the catalog file.
func (s *Snapshot) Invalidate() {
	s.mu.Lock()
	s.valid = false
	s.mu.Unlock()
}

func (s *Snapshot) refreshIfStale() error {
	s.mu.RLock()
	fresh := s.valid && (s.ttl <= 0 || time.Since(s.loadedAt) < s.ttl)
	s.mu.RUnlock()
	if fresh {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	// Re-check under the write lock; another goroutine may have refreshed.
	if s.valid && (s.ttl <= 0 || time.Since(s.loadedAt) < s.ttl) {
		return nil
	}

	table, err := s.repo.Load()
	if err != nil {
		if s.log != nil {
			s.log.CatalogError("snapshot refresh", err)
		}
		return err
	}

	roles := DetectColumns(table.Columns)
	s.entries = table.Entries(roles)
	s.roles = roles
	s.columns = table.Columns
	s.rowCount = len(table.Rows)
	s.loadedAt = time.Now()
	s.valid = true
	return nil
}

// Watch invalidates the snapshot whenever the catalog file changes on
// disk. It blocks until ctx is cancelled; run it on its own goroutine.
func (s *Snapshot) Watch(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	// Watch the directory: editors and exporters often replace the file
	// rather than writing it in place.
	if err := watcher.Add(filepath.Dir(s.repo.Path())); err != nil {
		return err
	}

	target := filepath.Clean(s.repo.Path())
	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != target {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename|fsnotify.Remove) != 0 {
				if s.log != nil {
					s.log.Info("catalog file changed, invalidating snapshot", "file", event.Name, "op", event.Op.String())
				}
				s.Invalidate()
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			if s.log != nil {
				s.log.CatalogError("watch", err)
			}
		}
	}
}
