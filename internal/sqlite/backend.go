// Package sqlite implements the SQLite storage backend for Taskbase.
//
// The backend expresses the conditional-write protocol the task model
// relies on — insert-if-absent, version-checked scalar update,
// existence-checked update, and commutative set mutation — as single SQL
// statements or short transactions whose applied-flag is derived from the
// rows-affected count.
package sqlite

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	_ "modernc.org/sqlite"

	"github.com/mesh-intelligence/taskbase/pkg/types"
)

// Compile-time interface check: Backend must implement Store.
var _ types.Store = (*Backend)(nil)

// Backend implements the Store interface on a single SQLite database file.
type Backend struct {
	mu       sync.RWMutex
	attached bool
	config   types.Config
	db       *sql.DB

	tasks  *TaskTable
	notifs *NotificationTable
	groups *GroupNotificationTable
}

// NewBackend creates a new SQLite backend instance. The backend is not
// attached; call Attach with a Config to initialize.
func NewBackend() *Backend {
	return &Backend{}
}

// Attach initializes the backend with the given configuration. Creates
// DataDir if it does not exist, opens the database, and applies the
// schema. Returns ErrAlreadyAttached if already attached.
func (b *Backend) Attach(config types.Config) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.attached {
		return types.ErrAlreadyAttached
	}

	if err := config.Validate(); err != nil {
		return err
	}

	dataDir := config.DataDir
	if dataDir == "" {
		dataDir = "."
	}
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return err
	}

	dbPath := filepath.Join(dataDir, "taskbase.db")
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return fmt.Errorf("open sqlite %s: %w", dbPath, err)
	}
	db.SetMaxOpenConns(1) // prevent SQLITE_BUSY

	if _, err := db.Exec(schemaSQL); err != nil {
		db.Close()
		return fmt.Errorf("apply schema: %w", err)
	}

	b.db = db
	b.config = config
	b.attached = true

	b.tasks = &TaskTable{backend: b}
	b.notifs = &NotificationTable{backend: b}
	b.groups = &GroupNotificationTable{backend: b}

	return nil
}

// Detach releases the database connection. Idempotent. After Detach, the
// entity store accessors return ErrStoreDetached.
func (b *Backend) Detach() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.attached {
		return nil // idempotent
	}

	if b.db != nil {
		if err := b.db.Close(); err != nil {
			return err
		}
		b.db = nil
	}

	b.attached = false
	b.tasks = nil
	b.notifs = nil
	b.groups = nil

	return nil
}

// Tasks returns the task store.
func (b *Backend) Tasks() (types.TaskStore, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if !b.attached {
		return nil, types.ErrStoreDetached
	}
	return b.tasks, nil
}

// Notifications returns the per-recipient notification store.
func (b *Backend) Notifications() (types.NotificationStore, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if !b.attached {
		return nil, types.ErrStoreDetached
	}
	return b.notifs, nil
}

// GroupNotifications returns the group notification store.
func (b *Backend) GroupNotifications() (types.GroupNotificationStore, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if !b.attached {
		return nil, types.ErrStoreDetached
	}
	return b.groups, nil
}
