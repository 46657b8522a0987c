package media

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"mediapress/internal/config"
)

const schema = `
CREATE TABLE IF NOT EXISTS media (
    post_id INTEGER NOT NULL,
    media_id TEXT NOT NULL,
    new_media_id TEXT NOT NULL DEFAULT '',
    media_path TEXT NOT NULL DEFAULT '',
    new_media_path TEXT NOT NULL DEFAULT '',
    category_json TEXT,
    status TEXT NOT NULL,
    notification_sent INTEGER NOT NULL DEFAULT 0,
    notification_accepted INTEGER NOT NULL DEFAULT 0,
    created_at TEXT NOT NULL,
    updated_at TEXT NOT NULL,
    CONSTRAINT media_pk PRIMARY KEY (post_id)
);

CREATE INDEX IF NOT EXISTS media_unnotified_idx
    ON media (notification_accepted, notification_sent, created_at);

CREATE INDEX IF NOT EXISTS media_media_id_idx ON media (media_id);
`

// Store manages media record persistence backed by SQLite.
type Store struct {
	db   *sql.DB
	path string
}

// Open initializes or connects to the media database and applies the schema.
func Open(cfg *config.Config) (*Store, error) {
	if err := cfg.EnsureDirectories(); err != nil {
		return nil, fmt.Errorf("ensure directories: %w", err)
	}

	dbPath := filepath.Join(cfg.Paths.DataDir, "media.db")
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys = ON",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}

	return &Store{db: db, path: dbPath}, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Path returns the database file location.
func (s *Store) Path() string {
	return s.path
}

// Upsert writes the full record keyed by post id. created_at is set on first
// insert and preserved on every subsequent write.
func (s *Store) Upsert(ctx context.Context, record *Record) error {
	if record == nil {
		return errors.New("record is nil")
	}
	now := time.Now().UTC()
	if record.CreatedAt.IsZero() {
		record.CreatedAt = now
	}
	record.UpdatedAt = now

	categoryJSON, err := marshalCategory(record.Category)
	if err != nil {
		return fmt.Errorf("marshal category: %w", err)
	}

	_, err = s.db.ExecContext(
		ctx,
		`INSERT INTO media (
            post_id, media_id, new_media_id, media_path, new_media_path,
            category_json, status, notification_sent, notification_accepted,
            created_at, updated_at
        ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
        ON CONFLICT(post_id) DO UPDATE SET
            media_id = excluded.media_id,
            new_media_id = excluded.new_media_id,
            media_path = excluded.media_path,
            new_media_path = excluded.new_media_path,
            category_json = excluded.category_json,
            status = excluded.status,
            notification_sent = excluded.notification_sent,
            notification_accepted = excluded.notification_accepted,
            updated_at = excluded.updated_at`,
		record.PostID,
		record.MediaID,
		record.NewMediaID,
		record.MediaPath,
		record.NewMediaPath,
		categoryJSON,
		record.Status,
		record.NotificationSent,
		record.NotificationAccepted,
		record.CreatedAt.Format(time.RFC3339Nano),
		record.UpdatedAt.Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("upsert media record: %w", err)
	}

	// The insert values lose to a stored row on conflict; reflect the
	// authoritative creation time back into the caller's record.
	row := s.db.QueryRowContext(ctx, `SELECT created_at FROM media WHERE post_id = ?`, record.PostID)
	var createdRaw string
	if err := row.Scan(&createdRaw); err == nil {
		if created, parseErr := parseTimeString(createdRaw); parseErr == nil {
			record.CreatedAt = created
		}
	}
	return nil
}

// GetByPostID fetches a record by its primary key. Returns nil when absent.
func (s *Store) GetByPostID(ctx context.Context, postID int64) (*Record, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+recordColumns+` FROM media WHERE post_id = ?`, postID)
	record, err := scanRecord(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get media record: %w", err)
	}
	return record, nil
}

// GetByMediaID returns the first record whose current media id matches.
func (s *Store) GetByMediaID(ctx context.Context, mediaID string) (*Record, error) {
	row := s.db.QueryRowContext(
		ctx,
		`SELECT `+recordColumns+` FROM media WHERE media_id = ? ORDER BY post_id LIMIT 1`,
		mediaID,
	)
	record, err := scanRecord(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get media record by media id: %w", err)
	}
	return record, nil
}

// Unnotified returns records still awaiting backend acceptance, least-retried
// and oldest first, limited to the requested batch size. Records parked in a
// terminal rejection status never needed a notification and are excluded.
func (s *Store) Unnotified(ctx context.Context, limit int) ([]*Record, error) {
	if limit <= 0 {
		return nil, nil
	}
	rows, err := s.db.QueryContext(
		ctx,
		`SELECT `+recordColumns+` FROM media
         WHERE notification_accepted = 0 AND status NOT IN (?, ?, ?)
         ORDER BY notification_sent ASC, created_at ASC
         LIMIT ?`,
		StatusDone, StatusRejected, StatusNotFound,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("query unnotified media: %w", err)
	}
	defer rows.Close()

	var records []*Record
	for rows.Next() {
		record, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, record)
	}
	return records, rows.Err()
}

// DeleteByMediaID removes records whose current media id matches. Returns the
// number of rows removed.
func (s *Store) DeleteByMediaID(ctx context.Context, mediaID string) (int64, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM media WHERE media_id = ?`, mediaID)
	if err != nil {
		return 0, fmt.Errorf("delete media record: %w", err)
	}
	return res.RowsAffected()
}

// StatusCounts returns a count of records grouped by status.
func (s *Store) StatusCounts(ctx context.Context) (map[Status]int, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT status, COUNT(1) FROM media GROUP BY status`)
	if err != nil {
		return nil, fmt.Errorf("media status counts: %w", err)
	}
	defer rows.Close()

	counts := make(map[Status]int)
	for rows.Next() {
		var status Status
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return nil, err
		}
		counts[status] = count
	}
	return counts, rows.Err()
}

// Latest returns the most recently created records, newest first.
func (s *Store) Latest(ctx context.Context, limit int) ([]*Record, error) {
	if limit <= 0 {
		return nil, nil
	}
	rows, err := s.db.QueryContext(
		ctx,
		`SELECT `+recordColumns+` FROM media ORDER BY created_at DESC LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("query latest media: %w", err)
	}
	defer rows.Close()

	var records []*Record
	for rows.Next() {
		record, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, record)
	}
	return records, rows.Err()
}

const recordColumns = "post_id, media_id, new_media_id, media_path, new_media_path, category_json, status, notification_sent, notification_accepted, created_at, updated_at"

func scanRecord(scanner interface{ Scan(dest ...any) error }) (*Record, error) {
	var (
		postID       int64
		mediaID      string
		newMediaID   string
		mediaPath    string
		newMediaPath string
		categoryJSON sql.NullString
		statusStr    string
		sent         int
		accepted     int
		createdRaw   string
		updatedRaw   string
	)

	if err := scanner.Scan(
		&postID,
		&mediaID,
		&newMediaID,
		&mediaPath,
		&newMediaPath,
		&categoryJSON,
		&statusStr,
		&sent,
		&accepted,
		&createdRaw,
		&updatedRaw,
	); err != nil {
		return nil, err
	}

	record := &Record{
		PostID:               postID,
		MediaID:              mediaID,
		NewMediaID:           newMediaID,
		MediaPath:            mediaPath,
		NewMediaPath:         newMediaPath,
		Status:               Status(statusStr),
		NotificationSent:     sent,
		NotificationAccepted: accepted,
	}
	if categoryJSON.Valid && categoryJSON.String != "" {
		if err := json.Unmarshal([]byte(categoryJSON.String), &record.Category); err != nil {
			return nil, fmt.Errorf("unmarshal category: %w", err)
		}
	}
	if created, err := parseTimeString(createdRaw); err == nil {
		record.CreatedAt = created
	}
	if updated, err := parseTimeString(updatedRaw); err == nil {
		record.UpdatedAt = updated
	}
	return record, nil
}

func marshalCategory(category map[string]float64) (any, error) {
	if len(category) == 0 {
		return nil, nil
	}
	data, err := json.Marshal(category)
	if err != nil {
		return nil, err
	}
	return string(data), nil
}

func parseTimeString(value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, errors.New("empty")
	}
	if t, err := time.Parse(time.RFC3339Nano, value); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02 15:04:05", value)
}
