package reminder

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/avillegas/care-assistant/internal/logger"

	// Register the sqlite driver.
	_ "modernc.org/sqlite"
)

// schema creates the reminders table on first open.
// last_triggered_date is stored as YYYY-MM-DD text, NULL until first firing.
const schema = `
CREATE TABLE IF NOT EXISTS reminders (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	time_hour INTEGER NOT NULL,
	time_minute INTEGER NOT NULL,
	message TEXT NOT NULL,
	last_triggered_date TEXT
)`

// SQLiteRepository persists reminders to a local sqlite database.
type SQLiteRepository struct {
	db *sql.DB
}

// NewSQLiteRepository opens (creating if needed) the database at path and
// ensures the schema exists.
func NewSQLiteRepository(ctx context.Context, path string) (*SQLiteRepository, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if _, err := db.ExecContext(ctx, schema); err != nil {
		_ = db.Close()

		return nil, fmt.Errorf("initialize schema: %w", err)
	}

	return &SQLiteRepository{db: db}, nil
}

// Insert stores a new reminder and returns its assigned id.
func (r *SQLiteRepository) Insert(ctx context.Context, hour, minute int, message string) (int64, error) {
	result, err := r.db.ExecContext(ctx,
		"INSERT INTO reminders (time_hour, time_minute, message, last_triggered_date) VALUES (?, ?, ?, NULL)",
		hour, minute, message)
	if err != nil {
		return 0, fmt.Errorf("insert reminder: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("last insert id: %w", err)
	}

	return id, nil
}

// List returns all reminders ordered by id, which is insertion order.
// A row that fails to scan is skipped and logged; the rest are returned.
func (r *SQLiteRepository) List(ctx context.Context) ([]Reminder, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT id, time_hour, time_minute, message, last_triggered_date FROM reminders ORDER BY id")
	if err != nil {
		return nil, fmt.Errorf("select reminders: %w", err)
	}
	defer rows.Close()

	var reminders []Reminder

	for rows.Next() {
		var (
			rec      Reminder
			lastDate sql.NullString
		)

		if err := rows.Scan(&rec.ID, &rec.Hour, &rec.Minute, &rec.Message, &lastDate); err != nil {
			logger.ErrorKV(ctx, "Skipping unreadable reminder row", "error", err)

			continue
		}

		if lastDate.Valid {
			parsed, err := time.Parse(DateLayout, lastDate.String)
			if err != nil {
				logger.ErrorKV(ctx, "Skipping reminder with malformed trigger date",
					"id", rec.ID, "value", lastDate.String)

				continue
			}

			rec.LastTriggered = &parsed
		}

		reminders = append(reminders, rec)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate reminders: %w", err)
	}

	return reminders, nil
}

// MarkTriggered records the date a reminder last fired.
func (r *SQLiteRepository) MarkTriggered(ctx context.Context, id int64, date time.Time) error {
	if _, err := r.db.ExecContext(ctx,
		"UPDATE reminders SET last_triggered_date = ? WHERE id = ?",
		date.Format(DateLayout), id); err != nil {
		return fmt.Errorf("update trigger date: %w", err)
	}

	return nil
}

// DeleteByID removes one reminder, reporting whether it existed.
func (r *SQLiteRepository) DeleteByID(ctx context.Context, id int64) (bool, error) {
	result, err := r.db.ExecContext(ctx, "DELETE FROM reminders WHERE id = ?", id)
	if err != nil {
		return false, fmt.Errorf("delete reminder: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected: %w", err)
	}

	return affected > 0, nil
}

// DeleteByMessagePart removes reminders whose message contains the substring.
func (r *SQLiteRepository) DeleteByMessagePart(ctx context.Context, part string) (int64, error) {
	result, err := r.db.ExecContext(ctx,
		"DELETE FROM reminders WHERE message LIKE ?", "%"+part+"%")
	if err != nil {
		return 0, fmt.Errorf("delete reminders by message: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("rows affected: %w", err)
	}

	return affected, nil
}

// Close releases the underlying database handle.
func (r *SQLiteRepository) Close() error {
	return r.db.Close()
}
