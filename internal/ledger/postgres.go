package ledger

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"marquee/internal/bookingerr"
	"marquee/internal/database"
	"marquee/internal/models"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// PostgresStore is the durable ledger backend.
type PostgresStore struct {
	db *database.DB
}

func NewPostgresStore(db *database.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Append(ctx context.Context, booking *models.Booking) error {
	if booking.ID == "" {
		booking.ID = uuid.New().String()
	}
	if booking.CreatedAt.IsZero() {
		booking.CreatedAt = time.Now().UTC()
	}

	query := `
		INSERT INTO bookings (id, claim_id, theatre, movie, showtime, seats, total_price, payment_method, owner_tag, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`

	_, err := s.db.ExecContext(ctx, query,
		booking.ID,
		booking.ClaimID,
		booking.Theatre,
		booking.Movie,
		string(booking.Showtime),
		pq.Array(booking.Seats),
		booking.TotalPrice,
		booking.PaymentMethod,
		booking.Owner,
		booking.Status,
		booking.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert booking: %w", err)
	}

	return nil
}

func (s *PostgresStore) Lookup(ctx context.Context, id string) (*models.Booking, error) {
	query := `
		SELECT id, claim_id, theatre, movie, showtime, seats, total_price, payment_method, owner_tag, status, created_at
		FROM bookings
		WHERE id = $1`

	booking, err := scanBooking(s.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("booking %s: %w", id, bookingerr.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("lookup booking: %w", err)
	}

	return booking, nil
}

func (s *PostgresStore) ListByOwner(ctx context.Context, owner string) ([]models.Booking, error) {
	query := `
		SELECT id, claim_id, theatre, movie, showtime, seats, total_price, payment_method, owner_tag, status, created_at
		FROM bookings
		WHERE owner_tag = $1
		ORDER BY created_at ASC`

	rows, err := s.db.QueryContext(ctx, query, owner)
	if err != nil {
		return nil, fmt.Errorf("list bookings: %w", err)
	}
	defer rows.Close()

	var bookings []models.Booking
	for rows.Next() {
		booking, err := scanBooking(rows)
		if err != nil {
			return nil, fmt.Errorf("scan booking: %w", err)
		}
		bookings = append(bookings, *booking)
	}

	return bookings, rows.Err()
}

func (s *PostgresStore) UpdateStatus(ctx context.Context, id, status string) error {
	query := `UPDATE bookings SET status = $1 WHERE id = $2`

	result, err := s.db.ExecContext(ctx, query, status, id)
	if err != nil {
		return fmt.Errorf("update booking status: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("update booking status: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("booking %s: %w", id, bookingerr.ErrNotFound)
	}

	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanBooking(row rowScanner) (*models.Booking, error) {
	booking := &models.Booking{}
	var showtime string
	var seats pq.Int64Array

	err := row.Scan(
		&booking.ID,
		&booking.ClaimID,
		&booking.Theatre,
		&booking.Movie,
		&showtime,
		&seats,
		&booking.TotalPrice,
		&booking.PaymentMethod,
		&booking.Owner,
		&booking.Status,
		&booking.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	booking.Showtime = models.Showtime(showtime)
	booking.Seats = make([]int, len(seats))
	for i, seat := range seats {
		booking.Seats[i] = int(seat)
	}

	return booking, nil
}
