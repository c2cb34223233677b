package migrate

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"sync"

	"github.com/pressly/goose/v3"
)

//go:embed sql/*.sql
var migrations embed.FS

const migrationsDir = "sql"

// gooseSetup guards goose's package-level configuration.
var gooseSetup sync.Mutex

// Manager runs the embedded schema migrations.
type Manager struct {
	db *sql.DB
}

// NewManager constructs a Manager.
func NewManager(db *sql.DB) *Manager {
	return &Manager{db: db}
}

// seams for tests
var (
	gooseUp      = goose.UpContext
	gooseDown    = goose.DownContext
	gooseReset   = goose.ResetContext
	gooseVersion = goose.GetDBVersionContext
)

func (m *Manager) configure() error {
	goose.SetBaseFS(migrations)
	if err := goose.SetDialect("pgx"); err != nil {
		return fmt.Errorf("set dialect: %w", err)
	}
	return nil
}

// Up applies all pending migrations.
func (m *Manager) Up(ctx context.Context) error {
	gooseSetup.Lock()
	defer gooseSetup.Unlock()
	if err := m.configure(); err != nil {
		return err
	}
	if err := gooseUp(ctx, m.db, migrationsDir); err != nil {
		return fmt.Errorf("migrate up: %w", err)
	}
	return nil
}

// Down rolls back the most recent applied migration.
func (m *Manager) Down(ctx context.Context) error {
	gooseSetup.Lock()
	defer gooseSetup.Unlock()
	if err := m.configure(); err != nil {
		return err
	}
	if err := gooseDown(ctx, m.db, migrationsDir); err != nil {
		return fmt.Errorf("migrate down: %w", err)
	}
	return nil
}

// Reset rolls back every applied migration.
func (m *Manager) Reset(ctx context.Context) error {
	gooseSetup.Lock()
	defer gooseSetup.Unlock()
	if err := m.configure(); err != nil {
		return err
	}
	if err := gooseReset(ctx, m.db, migrationsDir); err != nil {
		return fmt.Errorf("migrate reset: %w", err)
	}
	return nil
}

// Version returns the current schema version.
func (m *Manager) Version(ctx context.Context) (int64, error) {
	gooseSetup.Lock()
	defer gooseSetup.Unlock()
	if err := m.configure(); err != nil {
		return 0, err
	}
	return gooseVersion(ctx, m.db)
}

// Files lists the embedded migration file names in order.
func Files() ([]string, error) {
	entries, err := migrations.ReadDir(migrationsDir)
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name())
	}
	return names, nil
}
