package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/lorenzaCara/enjoypark/internal/model"
)

// BookingRepo stores service bookings.  Booking times are stored in UTC.
type BookingRepo struct {
	db *sql.DB
}

// NewBookingRepo returns a new BookingRepo bound to the given database.
func NewBookingRepo(db *sql.DB) *BookingRepo { return &BookingRepo{db: db} }

// Create inserts b and populates its ID and CreatedAt.  BookingTime must be
// RFC3339.
func (r *BookingRepo) Create(ctx context.Context, b *model.ServiceBooking) error {
	at, err := time.Parse(time.RFC3339, b.BookingTime)
	if err != nil {
		return fmt.Errorf("booking time %q: %w", b.BookingTime, err)
	}
	const q = `INSERT INTO service_bookings (service_id, ticket_id, user_id, booking_time, number_of_people, special_requests, status)
               VALUES (?, ?, ?, ?, ?, ?, ?)`
	res, err := r.db.ExecContext(ctx, q,
		b.ServiceID, nullUint(b.TicketID), nullUint(b.UserID),
		at.UTC().Format("2006-01-02 15:04:05"), b.NumberOfPeople,
		nullString(b.SpecialRequests), string(b.Status),
	)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	b.ID = uint64(id)
	// Query back created_at set by the DB default
	return r.db.QueryRowContext(ctx, `SELECT created_at FROM service_bookings WHERE id = ?`, b.ID).Scan(&b.CreatedAt)
}

func nullUint(v *uint64) any {
	if v == nil {
		return nil
	}
	return *v
}

func nullString(v *string) any {
	if v == nil {
		return nil
	}
	return *v
}
