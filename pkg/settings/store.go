package settings

import (
	"context"
	"errors"
	"sync"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// HostTenant is the tenant id of host-level settings shared by all tenants.
const HostTenant = ""

// Store persists setting values per tenant.
type Store interface {
	// Get returns the stored value and whether one exists.
	Get(ctx context.Context, tenantID, name string) (string, bool, error)
	Set(ctx context.Context, tenantID, name, value string) error
	Delete(ctx context.Context, tenantID, name string) error
}

// DBTX is the subset of pgxpool.Pool and pgx.Tx used by PGStore.
type DBTX interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// PGStore keeps settings in the mail_settings table.
type PGStore struct {
	db DBTX
}

// NewPGStore creates a PostgreSQL-backed store.
func NewPGStore(db DBTX) *PGStore {
	return &PGStore{db: db}
}

const (
	getSettingSQL = `SELECT value FROM mail_settings WHERE tenant_id = $1 AND name = $2`

	setSettingSQL = `INSERT INTO mail_settings (tenant_id, name, value)
VALUES ($1, $2, $3)
ON CONFLICT (tenant_id, name) DO UPDATE SET value = EXCLUDED.value, updated_at = now()`

	deleteSettingSQL = `DELETE FROM mail_settings WHERE tenant_id = $1 AND name = $2`
)

func (s *PGStore) Get(ctx context.Context, tenantID, name string) (string, bool, error) {
	var value string
	err := s.db.QueryRow(ctx, getSettingSQL, tenantID, name).Scan(&value)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, errors.Join(ErrStore, err)
	}
	return value, true, nil
}

func (s *PGStore) Set(ctx context.Context, tenantID, name, value string) error {
	if _, err := s.db.Exec(ctx, setSettingSQL, tenantID, name, value); err != nil {
		return errors.Join(ErrStore, err)
	}
	return nil
}

func (s *PGStore) Delete(ctx context.Context, tenantID, name string) error {
	if _, err := s.db.Exec(ctx, deleteSettingSQL, tenantID, name); err != nil {
		return errors.Join(ErrStore, err)
	}
	return nil
}

// MemoryStore is an in-process Store, used when no database is configured.
type MemoryStore struct {
	values map[storeKey]string
	mu     sync.RWMutex
}

type storeKey struct {
	tenant string
	name   string
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{values: make(map[storeKey]string)}
}

func (s *MemoryStore) Get(_ context.Context, tenantID, name string) (string, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.values[storeKey{tenantID, name}]
	return v, ok, nil
}

func (s *MemoryStore) Set(_ context.Context, tenantID, name, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[storeKey{tenantID, name}] = value
	return nil
}

func (s *MemoryStore) Delete(_ context.Context, tenantID, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.values, storeKey{tenantID, name})
	return nil
}

var (
	_ Store = (*PGStore)(nil)
	_ Store = (*MemoryStore)(nil)
)
