package repositories

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/desertthunder/lightness/internal/models"
	"github.com/desertthunder/lightness/internal/shared"
)

// HistoryRepository persists [models.HistoryEntry] rows.
type HistoryRepository struct {
	db *sql.DB
}

// NewHistoryRepository creates a new [HistoryRepository] with the given database connection
func NewHistoryRepository(db *sql.DB) *HistoryRepository {
	return &HistoryRepository{db: db}
}

// Record inserts entry with a generated ID.
func (r *HistoryRepository) Record(entry *models.HistoryEntry) error {
	if err := entry.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	id := shared.GenerateID()
	query := `INSERT INTO history (id, video_id, title, url, started_at) VALUES (?, ?, ?, ?, ?)`

	if _, err := r.db.Exec(query, id, entry.VideoID(), entry.Title(), entry.URL(), entry.StartedAt().UTC()); err != nil {
		return fmt.Errorf("failed to insert history entry: %w", err)
	}

	entry.SetID(id)
	return nil
}

// List returns up to limit entries, newest first. A non-positive limit returns every entry.
func (r *HistoryRepository) List(limit int) ([]*models.HistoryEntry, error) {
	query := `SELECT id, video_id, title, url, started_at FROM history ORDER BY started_at DESC, rowid DESC`
	args := []any{}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query history: %w", err)
	}
	defer rows.Close()

	var entries []*models.HistoryEntry
	for rows.Next() {
		entry, err := scanHistory(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate history: %w", err)
	}

	return entries, nil
}

// Last returns the newest entry, or [shared.ErrNotFound] when the history is empty.
func (r *HistoryRepository) Last() (*models.HistoryEntry, error) {
	row := r.db.QueryRow(`SELECT id, video_id, title, url, started_at FROM history ORDER BY started_at DESC, rowid DESC LIMIT 1`)

	entry, err := scanHistory(row)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("history is empty: %w", shared.ErrNotFound)
	}
	return entry, err
}

// Count returns the number of stored entries.
func (r *HistoryRepository) Count() (int, error) {
	var n int
	if err := r.db.QueryRow(`SELECT COUNT(*) FROM history`).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count history: %w", err)
	}
	return n, nil
}

// Prune deletes everything but the newest keep entries and returns how many rows were removed.
func (r *HistoryRepository) Prune(keep int) (int64, error) {
	if keep < 0 {
		return 0, fmt.Errorf("%w: keep must not be negative", shared.ErrInvalidArgument)
	}

	result, err := r.db.Exec(`
		DELETE FROM history WHERE id NOT IN (
			SELECT id FROM history ORDER BY started_at DESC, rowid DESC LIMIT ?
		)
	`, keep)
	if err != nil {
		return 0, fmt.Errorf("failed to prune history: %w", err)
	}

	return result.RowsAffected()
}

// Clear deletes every entry.
func (r *HistoryRepository) Clear() error {
	if _, err := r.db.Exec(`DELETE FROM history`); err != nil {
		return fmt.Errorf("failed to clear history: %w", err)
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanHistory(s scanner) (*models.HistoryEntry, error) {
	var (
		id        string
		videoID   int64
		title     string
		url       string
		startedAt time.Time
	)

	if err := s.Scan(&id, &videoID, &title, &url, &startedAt); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("failed to scan history entry: %w", err)
	}

	return models.RestoreHistoryEntry(id, videoID, title, url, startedAt), nil
}
