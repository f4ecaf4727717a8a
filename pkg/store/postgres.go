package store

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"tableflip.dev/agenda/pkg/booking"
	"tableflip.dev/agenda/pkg/timeutil"
)

const notifyChannel = "agenda_bookings"

// Postgres implements Persistence on a pgx connection pool. Changes made by
// any client are announced with NOTIFY so Watch can follow them.
type Postgres struct {
	pool *pgxpool.Pool
	now  func() time.Time
}

// NewPostgres connects to dbURL and creates the schema if needed.
func NewPostgres(ctx context.Context, dbURL string) (*Postgres, error) {
	pool, err := pgxpool.New(ctx, dbURL)
	if err != nil {
		return nil, fmt.Errorf("store: failed to connect to db: %w", err)
	}
	p := &Postgres{pool: pool, now: time.Now}
	if err := p.migrate(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("store: failed to migrate database: %w", err)
	}
	return p, nil
}

func (p *Postgres) migrate(ctx context.Context) error {
	schema := `
	CREATE TABLE IF NOT EXISTS bookings (
		id TEXT PRIMARY KEY,
		date DATE NOT NULL,
		start_time TEXT NOT NULL,
		end_time TEXT NOT NULL,
		client TEXT NOT NULL,
		phone TEXT NOT NULL DEFAULT '',
		address TEXT NOT NULL DEFAULT '',
		notes TEXT NOT NULL DEFAULT '',
		price_per_hour TEXT NOT NULL DEFAULT '',
		price TEXT NOT NULL DEFAULT '',
		completed BOOLEAN NOT NULL DEFAULT FALSE,
		completed_by_role TEXT NOT NULL DEFAULT '',
		pago BOOLEAN NOT NULL DEFAULT FALSE,
		data_pagamento TIMESTAMPTZ,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now()
	);

	CREATE INDEX IF NOT EXISTS idx_bookings_date ON bookings(date, start_time);

	CREATE OR REPLACE FUNCTION agenda_notify_booking() RETURNS trigger AS $$
	BEGIN
		IF TG_OP = 'DELETE' THEN
			PERFORM pg_notify('` + notifyChannel + `', to_char(OLD.date, 'YYYY-MM'));
			RETURN OLD;
		END IF;
		PERFORM pg_notify('` + notifyChannel + `', to_char(NEW.date, 'YYYY-MM'));
		RETURN NEW;
	END;
	$$ LANGUAGE plpgsql;

	DROP TRIGGER IF EXISTS agenda_bookings_notify ON bookings;
	CREATE TRIGGER agenda_bookings_notify
		AFTER INSERT OR UPDATE OR DELETE ON bookings
		FOR EACH ROW EXECUTE FUNCTION agenda_notify_booking();
	`
	_, err := p.pool.Exec(ctx, schema)
	return err
}

// Close releases the pool.
func (p *Postgres) Close() error {
	p.pool.Close()
	return nil
}

const pgColumns = `id, to_char(date, 'YYYY-MM-DD'), start_time, end_time, client, phone, address, notes,
	price_per_hour, price, completed, completed_by_role, pago, data_pagamento, created_at`

func scanPgBooking(row pgx.Row) (*booking.Booking, error) {
	b := &booking.Booking{}
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
		&b.PaidAt,
		&b.CreatedAt,
	); err != nil {
		return nil, err
	}
	if b.PaidAt != nil {
		at := b.PaidAt.UTC()
		b.PaidAt = &at
	}
	b.CreatedAt = b.CreatedAt.UTC()
	return b, nil
}

// FetchAll implements Persistence.
func (p *Postgres) FetchAll(ctx context.Context) ([]*booking.Booking, error) {
	rows, err := p.pool.Query(ctx, `SELECT `+pgColumns+` FROM bookings ORDER BY date, start_time, id`)
	if err != nil {
		return nil, fmt.Errorf("store: failed to list bookings: %w", err)
	}
	defer rows.Close()

	all := make([]*booking.Booking, 0)
	for rows.Next() {
		b, err := scanPgBooking(rows)
		if err != nil {
			return nil, fmt.Errorf("store: failed to scan booking: %w", err)
		}
		all = append(all, b)
	}
	return all, rows.Err()
}

// Insert implements Persistence.
func (p *Postgres) Insert(ctx context.Context, b *booking.Booking) (*booking.Booking, error) {
	if b == nil {
		return nil, errors.New("store: nil booking")
	}
	if _, err := timeutil.ParseDate(b.Date); err != nil {
		return nil, fmt.Errorf("store: %w", err)
	}
	insertQ := `INSERT INTO bookings
		(id, date, start_time, end_time, client, phone, address, notes, price_per_hour, price,
		 completed, completed_by_role, pago, data_pagamento, created_at)
		VALUES ($1, $2::date, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
		RETURNING ` + pgColumns
	row, err := scanPgBooking(p.pool.QueryRow(ctx, insertQ,
		NewID(), b.Date, b.StartTime, b.EndTime, b.Client, b.Phone, b.Address, b.Notes,
		b.PricePerHour, b.Price, b.Completed, b.CompletedByRole, b.Paid, b.PaidAt, p.now().UTC(),
	))
	if err != nil {
		return nil, fmt.Errorf("store: failed to create booking: %w", err)
	}
	return row, nil
}

// Update implements Persistence.
func (p *Postgres) Update(ctx context.Context, id string, patch booking.Patch) (*booking.Booking, error) {
	tx, err := p.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("store: failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	row, err := scanPgBooking(tx.QueryRow(ctx, `SELECT `+pgColumns+` FROM bookings WHERE id = $1 FOR UPDATE`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("store: failed to get booking: %w", err)
	}
	patch.Apply(row)
	if _, err := timeutil.ParseDate(row.Date); err != nil {
		return nil, fmt.Errorf("store: %w", err)
	}

	_, err = tx.Exec(ctx, `
		UPDATE bookings SET date = $1::date, start_time = $2, end_time = $3, client = $4, phone = $5,
			address = $6, notes = $7, price_per_hour = $8, price = $9, completed = $10,
			completed_by_role = $11, pago = $12, data_pagamento = $13
		WHERE id = $14`,
		row.Date, row.StartTime, row.EndTime, row.Client, row.Phone, row.Address, row.Notes,
		row.PricePerHour, row.Price, row.Completed, row.CompletedByRole, row.Paid, row.PaidAt, id)
	if err != nil {
		return nil, fmt.Errorf("store: failed to update booking: %w", err)
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("store: failed to commit: %w", err)
	}
	return row, nil
}

// Delete implements Persistence.
func (p *Postgres) Delete(ctx context.Context, id string) error {
	tag, err := p.pool.Exec(ctx, `DELETE FROM bookings WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("store: failed to delete booking: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// Watch implements Persistence by listening on the bookings channel.
func (p *Postgres) Watch(ctx context.Context) (<-chan Event, error) {
	conn, err := p.pool.Acquire(ctx)
	if err != nil {
		return nil, fmt.Errorf("store: acquire listener: %w", err)
	}
	if _, err := conn.Exec(ctx, "LISTEN "+notifyChannel); err != nil {
		conn.Release()
		return nil, fmt.Errorf("store: listen: %w", err)
	}

	events := make(chan Event, 64)
	go func() {
		defer close(events)
		defer conn.Release()
		for {
			n, err := conn.Conn().WaitForNotification(ctx)
			if err != nil {
				if ctx.Err() == nil {
					fmt.Fprintf(os.Stderr, "store: listener: %v\n", err)
				}
				return
			}
			ev := Event{Type: EventMonthChanged, Month: n.Payload}
			if n.Payload == "" {
				ev = Event{Type: EventInvalidated}
			}
			select {
			case events <- ev:
			default:
			}
		}
	}()
	return events, nil
}
