package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"tableflip.dev/agenda/pkg/booking"
	"tableflip.dev/agenda/pkg/timeutil"
)

// SQLite implements Persistence using SQLite.
type SQLite struct {
	db  *sql.DB
	now func() time.Time
}

// NewSQLite opens the database at dbPath, creating the schema if needed.
func NewSQLite(dbPath string) (*SQLite, error) {
	if dbPath != ":memory:" && !strings.HasPrefix(dbPath, "file:") {
		if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
			return nil, fmt.Errorf("store: ensure database dir: %w", err)
		}
	}
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("store: failed to open database: %w", err)
	}
	// :memory: databases are per connection.
	db.SetMaxOpenConns(1)

	s := &SQLite{db: db, now: time.Now}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("store: failed to migrate database: %w", err)
	}
	return s, nil
}

func (s *SQLite) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS bookings (
		id TEXT PRIMARY KEY,
		date TEXT NOT NULL,
		start_time TEXT NOT NULL,
		end_time TEXT NOT NULL,
		client TEXT NOT NULL,
		phone TEXT DEFAULT '',
		address TEXT DEFAULT '',
		notes TEXT DEFAULT '',
		price_per_hour TEXT DEFAULT '',
		price TEXT DEFAULT '',
		completed BOOLEAN DEFAULT FALSE,
		completed_by_role TEXT DEFAULT '',
		pago BOOLEAN DEFAULT FALSE,
		data_pagamento DATETIME,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE INDEX IF NOT EXISTS idx_bookings_date ON bookings(date, start_time);
	`

	_, err := s.db.Exec(schema)
	return err
}

// Close closes the database connection.
func (s *SQLite) Close() error {
	return s.db.Close()
}

const bookingColumns = `id, date, start_time, end_time, client, phone, address, notes,
	price_per_hour, price, completed, completed_by_role, pago, data_pagamento, created_at`

type scanner interface {
	Scan(dest ...any) error
}

func scanBooking(row scanner) (*booking.Booking, error) {
	b := &booking.Booking{}
	var paidAt sql.NullTime
	if err := row.Scan(
		&b.ID,
		&b.Date,
		&b.StartTime,
		&b.EndTime,
		&b.Client,
		&b.Phone,
		&b.Address,
		&b.Notes,
		&b.PricePerHour,
		&b.Price,
		&b.Completed,
		&b.CompletedByRole,
		&b.Paid,
		&paidAt,
		&b.CreatedAt,
	); err != nil {
		return nil, err
	}
	if paidAt.Valid {
		at := paidAt.Time.UTC()
		b.PaidAt = &at
	}
	b.CreatedAt = b.CreatedAt.UTC()
	return b, nil
}

func nullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: t.UTC(), Valid: true}
}

// FetchAll implements Persistence.
func (s *SQLite) FetchAll(ctx context.Context) ([]*booking.Booking, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+bookingColumns+`
		FROM bookings ORDER BY date, start_time, id
	`)
	if err != nil {
		return nil, fmt.Errorf("store: failed to list bookings: %w", err)
	}
	defer rows.Close()

	all := make([]*booking.Booking, 0)
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, fmt.Errorf("store: failed to scan booking: %w", err)
		}
		all = append(all, b)
	}
	return all, rows.Err()
}

func (s *SQLite) get(ctx context.Context, q interface {
	QueryRowContext(context.Context, string, ...any) *sql.Row
}, id string) (*booking.Booking, error) {
	b, err := scanBooking(q.QueryRowContext(ctx, `
		SELECT `+bookingColumns+` FROM bookings WHERE id = ?
	`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("store: failed to get booking: %w", err)
	}
	return b, nil
}

// Insert implements Persistence.
func (s *SQLite) Insert(ctx context.Context, b *booking.Booking) (*booking.Booking, error) {
	if b == nil {
		return nil, errors.New("store: nil booking")
	}
	if _, err := timeutil.ParseDate(b.Date); err != nil {
		return nil, fmt.Errorf("store: %w", err)
	}
	row := b.Clone()
	row.ID = NewID()
	row.CreatedAt = s.now().UTC()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO bookings (`+bookingColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, row.ID, row.Date, row.StartTime, row.EndTime, row.Client, row.Phone, row.Address, row.Notes,
		row.PricePerHour, row.Price, row.Completed, row.CompletedByRole, row.Paid, nullTime(row.PaidAt), row.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("store: failed to create booking: %w", err)
	}
	return row, nil
}

// Update implements Persistence.
func (s *SQLite) Update(ctx context.Context, id string, p booking.Patch) (*booking.Booking, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("store: failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	row, err := s.get(ctx, tx, id)
	if err != nil {
		return nil, err
	}
	p.Apply(row)
	if _, err := timeutil.ParseDate(row.Date); err != nil {
		return nil, fmt.Errorf("store: %w", err)
	}

	_, err = tx.ExecContext(ctx, `
		UPDATE bookings SET date = ?, start_time = ?, end_time = ?, client = ?, phone = ?, address = ?,
			notes = ?, price_per_hour = ?, price = ?, completed = ?, completed_by_role = ?, pago = ?,
			data_pagamento = ?
		WHERE id = ?
	`, row.Date, row.StartTime, row.EndTime, row.Client, row.Phone, row.Address, row.Notes,
		row.PricePerHour, row.Price, row.Completed, row.CompletedByRole, row.Paid, nullTime(row.PaidAt), id)
	if err != nil {
		return nil, fmt.Errorf("store: failed to update booking: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("store: failed to commit: %w", err)
	}
	return row, nil
}

// Delete implements Persistence.
func (s *SQLite) Delete(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM bookings WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("store: failed to delete booking: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("store: failed to get rows affected: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// Watch implements Persistence. SQLite writes from other processes are not
// observed.
func (s *SQLite) Watch(context.Context) (<-chan Event, error) {
	return nil, nil
}
