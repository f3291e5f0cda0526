package calculations

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/aristath/hedgeguard/internal/utils"
	"github.com/rs/zerolog"
)

// ErrNotFound is returned when no record matches the requested id
var ErrNotFound = errors.New("calculation not found")

// MaxRecentLimit caps GetRecent page sizes
const MaxRecentLimit = 500

// RepositoryInterface defines the contract for calculation log storage
type RepositoryInterface interface {
	Save(rec *Record) error
	GetRecent(kind Kind, limit int) ([]Record, error)
	GetByID(id string) (*Record, error)
	DeleteOlderThan(cutoff time.Time) (int64, error)
	Count() (int, error)
}

// Repository stores calculation records in the calculations table
type Repository struct {
	db  *sql.DB
	log zerolog.Logger
}

// NewRepository creates a new calculation repository
func NewRepository(db *sql.DB, log zerolog.Logger) *Repository {
	return &Repository{
		db:  db,
		log: log.With().Str("repository", "calculations").Logger(),
	}
}

// Save inserts a record. ID and CreatedAt must already be set.
func (r *Repository) Save(rec *Record) error {
	if rec.ID == "" {
		return fmt.Errorf("calculation record has no id")
	}
	if !rec.Kind.Valid() {
		return fmt.Errorf("calculation record has invalid kind %q", rec.Kind)
	}

	var errText sql.NullString
	if rec.Error != "" {
		errText = sql.NullString{String: rec.Error, Valid: true}
	}

	_, err := r.db.Exec(`
		INSERT INTO calculations (id, kind, input, output, error, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`,
		rec.ID,
		string(rec.Kind),
		rec.Input,
		rec.Output,
		errText,
		rec.CreatedAt.UnixMilli(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert calculation: %w", err)
	}

	return nil
}

// GetRecent returns the newest records, optionally filtered by kind (empty = all kinds)
func (r *Repository) GetRecent(kind Kind, limit int) ([]Record, error) {
	if limit <= 0 {
		limit = 50
	}
	if limit > MaxRecentLimit {
		limit = MaxRecentLimit
	}

	query := `SELECT id, kind, input, output, error, created_at FROM calculations`
	args := []interface{}{}
	if kind != "" {
		query += ` WHERE kind = ?`
		args = append(args, string(kind))
	}
	query += ` ORDER BY created_at DESC, id LIMIT ?`
	args = append(args, limit)

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query calculations: %w", err)
	}
	defer rows.Close()

	var records []Record
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, *rec)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating calculations: %w", err)
	}

	return records, nil
}

// GetByID returns a single record or ErrNotFound
func (r *Repository) GetByID(id string) (*Record, error) {
	row := r.db.QueryRow(`
		SELECT id, kind, input, output, error, created_at
		FROM calculations
		WHERE id = ?
	`, id)

	rec, err := scanRecord(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	return rec, nil
}

// DeleteOlderThan removes records created before cutoff and returns how many were deleted
func (r *Repository) DeleteOlderThan(cutoff time.Time) (int64, error) {
	done := utils.MeasureDBQuery("delete_old_calculations", r.log)

	result, err := r.db.Exec(`DELETE FROM calculations WHERE created_at < ?`, cutoff.UnixMilli())
	if err != nil {
		return 0, fmt.Errorf("failed to delete old calculations: %w", err)
	}

	deleted, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to count deleted calculations: %w", err)
	}

	done(deleted)
	return deleted, nil
}

// Count returns the total number of stored records
func (r *Repository) Count() (int, error) {
	var count int
	if err := r.db.QueryRow(`SELECT COUNT(*) FROM calculations`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count calculations: %w", err)
	}
	return count, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanRecord(row rowScanner) (*Record, error) {
	var (
		rec       Record
		kind      string
		errText   sql.NullString
		createdAt int64
	)

	if err := row.Scan(&rec.ID, &kind, &rec.Input, &rec.Output, &errText, &createdAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to scan calculation: %w", err)
	}

	rec.Kind = Kind(kind)
	rec.Error = errText.String
	rec.CreatedAt = time.UnixMilli(createdAt)

	return &rec, nil
}
