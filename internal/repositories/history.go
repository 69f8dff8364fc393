package repositories

import (
	"database/sql"
	"fmt"
	"slices"
	"time"

	"github.com/desertthunder/sbx/internal/models"
	"github.com/desertthunder/sbx/internal/shared"
)

var _ models.Repository[*models.PlayRecord] = (*PlayHistoryRepository)(nil)

// PlayCount is how often a sound was played.
type PlayCount struct {
	FullPath    string
	DisplayName string
	Plays       int
	LastPlayed  time.Time
}

// PlayHistoryRepository implements [models.Repository] for [models.PlayRecord] persistence.
type PlayHistoryRepository struct {
	db *sql.DB
}

// NewPlayHistoryRepository creates a new [PlayHistoryRepository] with the given database connection
func NewPlayHistoryRepository(db *sql.DB) *PlayHistoryRepository {
	return &PlayHistoryRepository{db: db}
}

const selectPlayRecord = `
	SELECT id, sequence, full_path, display_name, remote, local, created_at, updated_at, deleted_at
	FROM play_history
`

// Create inserts a record with a generated ID and the next sequence number.
func (r *PlayHistoryRepository) Create(rec *models.PlayRecord) error {
	if err := rec.Validate(); err != nil {
		return fmt.Errorf("%w: %v", shared.ErrValidation, err)
	}

	sequence, err := NextSequence(r.db, "play_history")
	if err != nil {
		return fmt.Errorf("failed to generate sequence: %w", err)
	}

	rec.SetID(shared.GenerateID())
	rec.SetSequence(sequence)

	query := `
		INSERT INTO play_history (id, sequence, full_path, display_name, remote, local, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err = r.db.Exec(query, rec.ID(), sequence, rec.FullPath(), rec.DisplayName(), rec.Remote(), rec.Local(), rec.CreatedAt(), rec.UpdatedAt())
	if err != nil {
		return fmt.Errorf("failed to insert play record: %w", err)
	}
	return nil
}

// Get retrieves a record by ID, excluding soft-deleted records
func (r *PlayHistoryRepository) Get(id string) (*models.PlayRecord, error) {
	row := r.db.QueryRow(selectPlayRecord+" WHERE id = ? AND deleted_at IS NULL", id)

	rec, err := scanPlayRecord(row)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%w: play record %s", shared.ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query play record: %w", err)
	}
	return rec, nil
}

// Update rewrites the display name of an existing record.
func (r *PlayHistoryRepository) Update(rec *models.PlayRecord) error {
	if err := rec.Validate(); err != nil {
		return fmt.Errorf("%w: %v", shared.ErrValidation, err)
	}

	now := time.Now()
	rec.SetUpdatedAt(now)

	result, err := r.db.Exec(`
		UPDATE play_history
		SET display_name = ?, updated_at = ?
		WHERE id = ? AND deleted_at IS NULL
	`, rec.DisplayName(), now, rec.ID())
	if err != nil {
		return fmt.Errorf("failed to update play record: %w", err)
	}
	return expectRows(result, rec.ID())
}

// Delete soft-deletes a record by ID
func (r *PlayHistoryRepository) Delete(id string) error {
	result, err := r.db.Exec(`
		UPDATE play_history
		SET deleted_at = ?
		WHERE id = ? AND deleted_at IS NULL
	`, time.Now(), id)
	if err != nil {
		return fmt.Errorf("failed to delete play record: %w", err)
	}
	return expectRows(result, id)
}

// Clear soft-deletes every record and returns how many were removed.
func (r *PlayHistoryRepository) Clear() (int64, error) {
	result, err := r.db.Exec("UPDATE play_history SET deleted_at = ? WHERE deleted_at IS NULL", time.Now())
	if err != nil {
		return 0, fmt.Errorf("failed to clear play history: %w", err)
	}
	return result.RowsAffected()
}

// List retrieves records in play order.
//
// Supported criteria: "full_path" (string), "since" ([time.Time]), "limit" (int, keeps the most recent n).
func (r *PlayHistoryRepository) List(criteria map[string]any) ([]*models.PlayRecord, error) {
	query := selectPlayRecord + " WHERE deleted_at IS NULL"
	args := []any{}

	if p, ok := criteria["full_path"].(string); ok && p != "" {
		query += " AND full_path = ?"
		args = append(args, p)
	}
	if since, ok := criteria["since"].(time.Time); ok && !since.IsZero() {
		query += " AND created_at >= ?"
		args = append(args, since)
	}

	limit, limited := criteria["limit"].(int)
	limited = limited && limit > 0
	if limited {
		query += " ORDER BY sequence DESC LIMIT ?"
		args = append(args, limit)
	} else {
		query += " ORDER BY sequence ASC"
	}

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query play history: %w", err)
	}
	defer rows.Close()

	var records []*models.PlayRecord
	for rows.Next() {
		rec, err := scanPlayRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan play record: %w", err)
		}
		records = append(records, rec)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	if limited {
		slices.Reverse(records)
	}
	return records, nil
}

// Recent returns the last limit plays, oldest first.
func (r *PlayHistoryRepository) Recent(limit int) ([]*models.PlayRecord, error) {
	return r.List(map[string]any{"limit": limit})
}

// TopPlayed returns the most played sounds, most plays first.
func (r *PlayHistoryRepository) TopPlayed(limit int) ([]PlayCount, error) {
	rows, err := r.db.Query(`
		SELECT full_path, MAX(display_name), COUNT(*) AS plays, MAX(sequence) AS last_sequence
		FROM play_history
		WHERE deleted_at IS NULL
		GROUP BY full_path
		ORDER BY plays DESC, last_sequence DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query play counts: %w", err)
	}

	var (
		counts    []PlayCount
		sequences []int
	)
	for rows.Next() {
		var (
			c   PlayCount
			seq int
		)
		if err := rows.Scan(&c.FullPath, &c.DisplayName, &c.Plays, &seq); err != nil {
			rows.Close()
			return nil, fmt.Errorf("failed to scan play count: %w", err)
		}
		counts = append(counts, c)
		sequences = append(sequences, seq)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	// aggregated timestamps lose their column type, so read the latest play row directly
	for i, seq := range sequences {
		if err := r.db.QueryRow("SELECT created_at FROM play_history WHERE sequence = ?", seq).Scan(&counts[i].LastPlayed); err != nil {
			return nil, fmt.Errorf("failed to query last play: %w", err)
		}
	}
	return counts, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanPlayRecord(s scanner) (*models.PlayRecord, error) {
	var (
		id          string
		sequence    int
		fullPath    string
		displayName string
		remote      bool
		local       bool
		createdAt   time.Time
		updatedAt   time.Time
		deletedAt   sql.NullTime
	)

	if err := s.Scan(&id, &sequence, &fullPath, &displayName, &remote, &local, &createdAt, &updatedAt, &deletedAt); err != nil {
		return nil, err
	}

	rec := models.NewPlayRecord(sequence, models.SoundEntry{DisplayName: displayName, FullPath: fullPath},
		models.PlaybackPreference{Remote: remote, Local: local})
	rec.SetID(id)
	rec.SetCreatedAt(createdAt)
	rec.SetUpdatedAt(updatedAt)
	if deletedAt.Valid {
		rec.SetDeletedAt(&deletedAt.Time)
	}
	return rec, nil
}

func expectRows(result sql.Result, id string) error {
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("%w: play record %s not found or already deleted", shared.ErrNotFound, id)
	}
	return nil
}
