package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"lens/internal/metrics"
)

const (
	// DefaultListLimit is used when ListImages is called with limit <= 0.
	DefaultListLimit = 100
	// MaxListLimit caps the number of rows ListImages returns.
	MaxListLimit = 1000
)

const imageColumns = `id, path, width, height, file_size, thumbnail, taken, modified, created, updated`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanImage(row rowScanner) (*Image, error) {
	var (
		img              Image
		taken, modified  sql.NullInt64
		created, updated int64
	)
	err := row.Scan(
		&img.ID, &img.Path, &img.Width, &img.Height, &img.FileSize,
		&img.Thumbnail, &taken, &modified, &created, &updated,
	)
	if err != nil {
		return nil, err
	}

	img.Taken = fromNullNanos(taken)
	img.Modified = fromNullNanos(modified)
	img.Created = time.Unix(0, created)
	img.Updated = time.Unix(0, updated)
	return &img, nil
}

func toNullNanos(t *time.Time) sql.NullInt64 {
	if t == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: t.UnixNano(), Valid: true}
}

func fromNullNanos(n sql.NullInt64) *time.Time {
	if !n.Valid {
		return nil
	}
	t := time.Unix(0, n.Int64)
	return &t
}

// FindImageByPath returns the image stored under a relative path, or nil
// without error when there is none.
func (d *Database) FindImageByPath(ctx context.Context, path string) (*Image, error) {
	start := time.Now()
	var err error
	defer func() { recordQuery("find_image_by_path", start, err) }()

	d.mu.RLock()
	defer d.mu.RUnlock()

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	img, err := scanImage(d.db.QueryRowContext(ctx,
		`SELECT `+imageColumns+` FROM images WHERE path = ?`, path))
	if errors.Is(err, sql.ErrNoRows) {
		err = nil
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find image %q: %w", path, err)
	}
	return img, nil
}

// FindImageByID returns the image with the given id, or ErrNotFound.
func (d *Database) FindImageByID(ctx context.Context, id string) (*Image, error) {
	start := time.Now()
	var err error
	defer func() { recordQuery("find_image_by_id", start, err) }()

	d.mu.RLock()
	defer d.mu.RUnlock()

	var img *Image
	img, err = d.findByID(ctx, id)
	return img, err
}

func (d *Database) findByID(ctx context.Context, id string) (*Image, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	img, err := scanImage(d.db.QueryRowContext(ctx,
		`SELECT `+imageColumns+` FROM images WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find image %s: %w", id, err)
	}
	return img, nil
}

// InsertImage creates a record with a new id. created and updated are set
// to the current time and thumbnail to false.
func (d *Database) InsertImage(ctx context.Context, fields ImageFields) (*Image, error) {
	start := time.Now()
	var err error
	defer func() { recordQuery("insert_image", start, err) }()

	d.mu.Lock()
	defer d.mu.Unlock()

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	now := d.now()
	img := &Image{
		ID:       uuid.NewString(),
		Path:     fields.Path,
		Width:    fields.Width,
		Height:   fields.Height,
		FileSize: fields.FileSize,
		Taken:    fields.Taken,
		Modified: fields.Modified,
		Created:  time.Unix(0, now.UnixNano()),
		Updated:  time.Unix(0, now.UnixNano()),
	}

	_, err = d.db.ExecContext(ctx, `
		INSERT INTO images (id, path, width, height, file_size, thumbnail, taken, modified, created, updated)
		VALUES (?, ?, ?, ?, ?, 0, ?, ?, ?, ?)
	`,
		img.ID, img.Path, img.Width, img.Height, img.FileSize,
		toNullNanos(img.Taken), toNullNanos(img.Modified),
		now.UnixNano(), now.UnixNano(),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to insert image %q: %w", fields.Path, err)
	}
	return img, nil
}

// UpdateImage overwrites the discovery fields of an existing record and
// refreshes updated. id and created are left unchanged.
func (d *Database) UpdateImage(ctx context.Context, id string, fields ImageFields) (*Image, error) {
	start := time.Now()
	var err error
	defer func() { recordQuery("update_image", start, err) }()

	d.mu.Lock()
	defer d.mu.Unlock()

	execCtx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var result sql.Result
	result, err = d.db.ExecContext(execCtx, `
		UPDATE images
		SET path = ?, width = ?, height = ?, file_size = ?, taken = ?, modified = ?, updated = ?
		WHERE id = ?
	`,
		fields.Path, fields.Width, fields.Height, fields.FileSize,
		toNullNanos(fields.Taken), toNullNanos(fields.Modified),
		d.now().UnixNano(), id,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to update image %s: %w", id, err)
	}

	var rows int64
	rows, err = result.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("failed to update image %s: %w", id, err)
	}
	if rows == 0 {
		err = ErrNotFound
		return nil, fmt.Errorf("failed to update image %s: %w", id, err)
	}

	var img *Image
	img, err = d.findByID(ctx, id)
	return img, err
}

// ListImages returns images captured between from and to, inclusive. Images
// without a taken time are matched on their modification time instead.
// Results are ordered by that effective time, then path. A zero to means
// now; limit is clamped to [1, MaxListLimit] with DefaultListLimit for <= 0.
func (d *Database) ListImages(ctx context.Context, from, to time.Time, limit int) ([]Image, error) {
	start := time.Now()
	var err error
	defer func() { recordQuery("list_images", start, err) }()

	if to.IsZero() {
		to = d.now()
	}
	if limit <= 0 {
		limit = DefaultListLimit
	}
	if limit > MaxListLimit {
		limit = MaxListLimit
	}

	d.mu.RLock()
	defer d.mu.RUnlock()

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var rows *sql.Rows
	rows, err = d.db.QueryContext(ctx, `
		SELECT `+imageColumns+`
		FROM images
		WHERE (taken IS NOT NULL AND taken BETWEEN ? AND ?)
		   OR (taken IS NULL AND modified BETWEEN ? AND ?)
		ORDER BY COALESCE(taken, modified), path
		LIMIT ?
	`, from.UnixNano(), to.UnixNano(), from.UnixNano(), to.UnixNano(), limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list images: %w", err)
	}
	defer rows.Close()

	images := []Image{}
	for rows.Next() {
		var img *Image
		img, err = scanImage(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan image: %w", err)
		}
		images = append(images, *img)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list images: %w", err)
	}
	return images, nil
}

// CatalogStats returns totals for the metrics collector.
func (d *Database) CatalogStats() (metrics.Stats, error) {
	start := time.Now()
	var err error
	defer func() { recordQuery("catalog_stats", start, err) }()

	d.mu.RLock()
	defer d.mu.RUnlock()

	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()

	var stats metrics.Stats
	err = d.db.QueryRowContext(ctx, `
		SELECT COUNT(*), COUNT(taken), COALESCE(SUM(file_size), 0) FROM images
	`).Scan(&stats.TotalImages, &stats.ImagesWithTaken, &stats.TotalBytes)
	if err != nil {
		return metrics.Stats{}, fmt.Errorf("failed to compute catalog stats: %w", err)
	}
	return stats, nil
}
