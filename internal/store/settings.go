package store

import (
	"context"
	"database/sql"
	"errors"
	"sync"
	"time"
)

// SheetURLKey is the settings key holding the spreadsheet endpoint.
const SheetURLKey = "sk_sri_aman_sheet_url"

// SQLiteSettings persists small string settings in the state directory's SQLite file.
// Each call opens and closes the database, so the value survives process restarts and is
// shared with other maklumat processes.
type SQLiteSettings struct {
	Store Store
}

func NewSQLiteSettings(dir string) *SQLiteSettings {
	return &SQLiteSettings{Store: Store{Dir: dir}}
}

func (s *SQLiteSettings) Get(ctx context.Context, key string) (string, bool, error) {
	db, err := s.Store.openSQLite(ctx)
	if err != nil {
		return "", false, err
	}
	defer db.Close()

	var v string
	err = db.QueryRowContext(ctx, `SELECT v FROM settings WHERE k = ?`, key).Scan(&v)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return v, true, nil
}

func (s *SQLiteSettings) Set(ctx context.Context, key, value string) error {
	db, err := s.Store.openSQLite(ctx)
	if err != nil {
		return err
	}
	defer db.Close()

	_, err = db.ExecContext(ctx,
		`INSERT INTO settings(k, v, updated_at_unixms) VALUES(?, ?, ?)
		 ON CONFLICT(k) DO UPDATE SET v = excluded.v, updated_at_unixms = excluded.updated_at_unixms`,
		key, value, time.Now().UTC().UnixMilli())
	return err
}

func (s *SQLiteSettings) Remove(ctx context.Context, key string) error {
	db, err := s.Store.openSQLite(ctx)
	if err != nil {
		return err
	}
	defer db.Close()

	_, err = db.ExecContext(ctx, `DELETE FROM settings WHERE k = ?`, key)
	return err
}

// MemorySettings is an in-process settings map.
type MemorySettings struct {
	mu   sync.Mutex
	vals map[string]string
}

func NewMemorySettings(initial map[string]string) *MemorySettings {
	m := &MemorySettings{vals: map[string]string{}}
	for k, v := range initial {
		m.vals[k] = v
	}
	return m
}

func (m *MemorySettings) Get(_ context.Context, key string) (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.vals[key]
	return v, ok, nil
}

func (m *MemorySettings) Set(_ context.Context, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.vals == nil {
		m.vals = map[string]string{}
	}
	m.vals[key] = value
	return nil
}

func (m *MemorySettings) Remove(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.vals, key)
	return nil
}
