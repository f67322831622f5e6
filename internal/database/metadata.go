package database

import (
	"context"
	"database/sql"
	"errors"
	"time"
)

const lastDiscoveryRunKey = "last_discovery_run"

// GetMetadata retrieves a metadata value by key, or ErrNotFound.
func (d *Database) GetMetadata(ctx context.Context, key string) (string, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var value sql.NullString
	err := d.db.QueryRowContext(ctx, "SELECT value FROM metadata WHERE key = ?", key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", err
	}
	return value.String, nil
}

// SetMetadata sets a metadata key-value pair.
func (d *Database) SetMetadata(ctx context.Context, key, value string) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	_, err := d.db.ExecContext(ctx, `
		INSERT INTO metadata (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value
	`, key, value)
	return err
}

// GetLastDiscoveryRun returns when the last successful discovery run
// finished. Returns zero time if it never has.
func (d *Database) GetLastDiscoveryRun(ctx context.Context) (time.Time, error) {
	value, err := d.GetMetadata(ctx, lastDiscoveryRunKey)
	if errors.Is(err, ErrNotFound) {
		return time.Time{}, nil
	}
	if err != nil {
		return time.Time{}, err
	}
	if value == "" {
		return time.Time{}, nil
	}
	return time.Parse(time.RFC3339Nano, value)
}

// SetLastDiscoveryRun records when a discovery run finished.
func (d *Database) SetLastDiscoveryRun(ctx context.Context, t time.Time) error {
	return d.SetMetadata(ctx, lastDiscoveryRunKey, t.UTC().Format(time.RFC3339Nano))
}
