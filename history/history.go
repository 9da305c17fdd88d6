// Package history persists confirmed bookings locally so the user can
// look up past confirmation identifiers. Uses the pure-Go
// modernc.org/sqlite driver to avoid CGO dependencies.
package history

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"
)

// Store manages the SQLite database holding the booking record.
type Store struct {
	db *sql.DB
}

// Entry is one confirmed booking.
type Entry struct {
	ID           int64
	BookingId    string
	MovieTitle   string
	ShowtimeId   string
	StartTime    time.Time
	Auditorium   string
	Seats        []string
	Total        string
	CustomerName string
	CreatedAt    time.Time
}

// DefaultPath is where the booking database lives unless overridden.
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "neon-cinema-cli", "bookings.db"), nil
}

// Open creates or opens the booking database at the given path, creating
// parent directories and running migrations as needed.
func Open(dbPath string) (*Store, error) {
	if dbPath == "" {
		var err error
		dbPath, err = DefaultPath()
		if err != nil {
			return nil, fmt.Errorf("history: cannot resolve default path: %w", err)
		}
	}

	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("history: cannot create directory %s: %w", dir, err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("history: cannot open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("history: cannot connect to database: %w", err)
	}

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("history: migration failed: %w", err)
	}
	return store, nil
}

func (s *Store) migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS bookings (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			booking_id TEXT NOT NULL,
			movie_title TEXT NOT NULL,
			showtime_id TEXT NOT NULL,
			start_time DATETIME,
			auditorium TEXT,
			seats TEXT NOT NULL,
			total TEXT NOT NULL,
			customer_name TEXT,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_bookings_created ON bookings(created_at DESC);
	`
	_, err := s.db.Exec(schema)
	return err
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// Record stores a confirmed booking. Returns the ID of the inserted row.
func (s *Store) Record(entry Entry) (int64, error) {
	result, err := s.db.Exec(
		`INSERT INTO bookings (booking_id, movie_title, showtime_id, start_time, auditorium, seats, total, customer_name)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		entry.BookingId,
		entry.MovieTitle,
		entry.ShowtimeId,
		entry.StartTime.UTC().Format(time.RFC3339),
		entry.Auditorium,
		strings.Join(entry.Seats, ","),
		entry.Total,
		entry.CustomerName,
	)
	if err != nil {
		return 0, fmt.Errorf("history: cannot record booking: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("history: cannot get inserted ID: %w", err)
	}
	return id, nil
}

// Recent retrieves the latest N bookings, newest first.
func (s *Store) Recent(limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = 10
	}

	rows, err := s.db.Query(
		`SELECT id, booking_id, movie_title, showtime_id, start_time, auditorium, seats, total, customer_name, created_at
		 FROM bookings
		 ORDER BY id DESC
		 LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("history: cannot query bookings: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		var startTime, seats string
		var createdAt any
		if err := rows.Scan(&e.ID, &e.BookingId, &e.MovieTitle, &e.ShowtimeId, &startTime, &e.Auditorium, &seats, &e.Total, &e.CustomerName, &createdAt); err != nil {
			return nil, fmt.Errorf("history: cannot scan row: %w", err)
		}
		if parsed, err := time.Parse(time.RFC3339, startTime); err == nil {
			e.StartTime = parsed
		}
		if seats != "" {
			e.Seats = strings.Split(seats, ",")
		}
		switch v := createdAt.(type) {
		case time.Time:
			e.CreatedAt = v
		case string:
			if parsed, err := time.Parse("2006-01-02 15:04:05", v); err == nil {
				e.CreatedAt = parsed
			}
		}
		entries = append(entries, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("history: row iteration error: %w", err)
	}
	return entries, nil
}
