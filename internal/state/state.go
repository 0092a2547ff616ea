package state

import (
	"context"
	"database/sql"
	"errors"
	"os"
	"path/filepath"
	"slices"
	"sync"
	"time"

	"github.com/adrg/xdg"
	_ "modernc.org/sqlite" // SQLite driver

	dbutil "github.com/llehouerou/rebind/internal/db"
)

const (
	appName      = "rebind"
	dbFileName   = "rebind.db"
	saveDebounce = 500 * time.Millisecond
)

// Manager is a string-keyed persistent store. Writes are coalesced and
// flushed after saveDebounce of inactivity, or on Close.
type Manager struct {
	db        *sql.DB
	debounce  time.Duration
	saveMu    sync.Mutex
	saveTimer *time.Timer
	pending   map[string]string
	inflight  map[string]string // being written by Flush
	flushMu   sync.Mutex        // one Flush at a time
	onError   func(error)
}

// Option configures a Manager.
type Option func(*Manager)

// WithDebounce overrides the write coalescing delay.
func WithDebounce(d time.Duration) Option {
	return func(m *Manager) {
		if d > 0 {
			m.debounce = d
		}
	}
}

// WithErrorHandler sets a callback for errors of background writes.
func WithErrorHandler(fn func(error)) Option {
	return func(m *Manager) { m.onError = fn }
}

// Open opens the store in the XDG data directory.
func Open(opts ...Option) (*Manager, error) {
	dbPath, err := getDBPath()
	if err != nil {
		return nil, err
	}
	return OpenPath(dbPath, opts...)
}

// OpenPath opens the store at path. ":memory:" opens a private in-memory
// database.
func OpenPath(path string, opts ...Option) (*Manager, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, err
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	if path == ":memory:" {
		// Every connection would otherwise get its own empty database.
		db.SetMaxOpenConns(1)
	}

	if err := initSchema(db); err != nil {
		db.Close()
		return nil, err
	}

	m := &Manager{
		db:       db,
		debounce: saveDebounce,
		pending:  make(map[string]string),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m, nil
}

// Close flushes pending writes and closes the database.
func (m *Manager) Close() error {
	flushErr := m.Flush()
	return errors.Join(flushErr, m.db.Close())
}

func (m *Manager) DB() *sql.DB {
	return m.db
}

// GetString returns the value stored under key. Pending writes are
// visible immediately.
func (m *Manager) GetString(key string) (string, bool, error) {
	m.saveMu.Lock()
	v, ok := m.pending[key]
	if !ok {
		v, ok = m.inflight[key]
	}
	m.saveMu.Unlock()
	if ok {
		return v, true, nil
	}
	return getValue(m.db, key)
}

// SetString schedules value to be stored under key.
func (m *Manager) SetString(key, value string) {
	m.saveMu.Lock()
	defer m.saveMu.Unlock()

	m.pending[key] = value

	if m.saveTimer != nil {
		m.saveTimer.Stop()
	}

	m.saveTimer = time.AfterFunc(m.debounce, func() {
		if err := m.Flush(); err != nil && m.onError != nil {
			m.onError(err)
		}
	})
}

// Flush writes pending values now, in a single transaction. On failure
// the values are kept pending, except for keys set again meanwhile.
func (m *Manager) Flush() error {
	m.flushMu.Lock()
	defer m.flushMu.Unlock()

	m.saveMu.Lock()
	if m.saveTimer != nil {
		m.saveTimer.Stop()
		m.saveTimer = nil
	}
	pending := m.pending
	m.pending = make(map[string]string)
	m.inflight = pending
	m.saveMu.Unlock()

	if len(pending) == 0 {
		return nil
	}
	err := dbutil.WithTx(context.Background(), m.db, func(tx *sql.Tx) error {
		for k, v := range pending {
			if err := setValue(tx, k, v); err != nil {
				return err
			}
		}
		return nil
	})

	m.saveMu.Lock()
	m.inflight = nil
	if err != nil {
		for k, v := range pending {
			if _, newer := m.pending[k]; !newer {
				m.pending[k] = v
			}
		}
	}
	m.saveMu.Unlock()
	return err
}

// Delete removes key, including any pending write.
func (m *Manager) Delete(key string) error {
	m.flushMu.Lock()
	defer m.flushMu.Unlock()

	m.saveMu.Lock()
	delete(m.pending, key)
	m.saveMu.Unlock()
	_, err := m.db.Exec(`DELETE FROM kv_store WHERE key = ?`, key)
	return err
}

// Keys lists the stored keys in lexical order, including pending ones.
func (m *Manager) Keys() ([]string, error) {
	keys, err := listKeys(m.db)
	if err != nil {
		return nil, err
	}
	m.saveMu.Lock()
	defer m.saveMu.Unlock()
	seen := make(map[string]bool, len(keys))
	for _, k := range keys {
		seen[k] = true
	}
	for k := range m.pending {
		if !seen[k] {
			keys = append(keys, k)
		}
	}
	slices.Sort(keys)
	return keys, nil
}

// Path returns the default database path.
func Path() (string, error) {
	return getDBPath()
}

func getDBPath() (string, error) {
	return xdg.DataFile(filepath.Join(appName, dbFileName))
}
