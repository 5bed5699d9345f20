package repository

import (
	"context"
	"database/sql"

	"github.com/lorenzaCara/enjoypark/internal/model"
)

// TicketRepo loads purchased tickets together with their ticket type and
// the catalog items each type unlocks.  Tickets are written by the
// purchase flow, never by this service.
type TicketRepo struct {
	db *sql.DB
}

// NewTicketRepo returns a new TicketRepo bound to the given database.
func NewTicketRepo(db *sql.DB) *TicketRepo { return &TicketRepo{db: db} }

// valid_for is rendered as text so the stored day is what callers see,
// whatever the session time zone.
const ticketSelect = `SELECT t.id, t.user_id, t.status,
                             COALESCE(DATE_FORMAT(t.valid_for, '%Y-%m-%dT%H:%i:%s'), ''),
                             tt.id, tt.name
                      FROM tickets t
                      JOIN ticket_types tt ON tt.id = t.ticket_type_id`

// ListPurchasedByUser returns every ticket bought by userID, newest validity
// day first.  Tickets without a validity day come last.
func (r *TicketRepo) ListPurchasedByUser(ctx context.Context, userID uint64) ([]model.Ticket, error) {
	rows, err := r.db.QueryContext(ctx,
		ticketSelect+` WHERE t.user_id = ? ORDER BY t.valid_for IS NULL, t.valid_for DESC, t.id ASC`, userID)
	if err != nil {
		return nil, err
	}
	tickets, err := scanTickets(rows)
	if err != nil {
		return nil, err
	}
	if err := r.loadTypes(ctx, tickets); err != nil {
		return nil, err
	}
	return tickets, nil
}

// GetByIDForUser returns a single ticket owned by userID.  A ticket owned
// by someone else is reported as ErrTicketNotFound.
func (r *TicketRepo) GetByIDForUser(ctx context.Context, ticketID, userID uint64) (model.Ticket, error) {
	rows, err := r.db.QueryContext(ctx, ticketSelect+` WHERE t.id = ? AND t.user_id = ?`, ticketID, userID)
	if err != nil {
		return model.Ticket{}, err
	}
	tickets, err := scanTickets(rows)
	if err != nil {
		return model.Ticket{}, err
	}
	if len(tickets) == 0 {
		return model.Ticket{}, ErrTicketNotFound
	}
	if err := r.loadTypes(ctx, tickets); err != nil {
		return model.Ticket{}, err
	}
	return tickets[0], nil
}

func scanTickets(rows *sql.Rows) ([]model.Ticket, error) {
	defer rows.Close()
	out := []model.Ticket{}
	for rows.Next() {
		var t model.Ticket
		var status string
		if err := rows.Scan(&t.ID, &t.UserID, &status, &t.ValidFor, &t.TicketType.ID, &t.TicketType.Name); err != nil {
			return nil, err
		}
		t.Status = model.TicketStatus(status)
		out = append(out, t)
	}
	return out, rows.Err()
}

// loadTypes fills the attraction/show/service links of every ticket type
// referenced by tickets with three queries in total.
func (r *TicketRepo) loadTypes(ctx context.Context, tickets []model.Ticket) error {
	if len(tickets) == 0 {
		return nil
	}
	typeIDs := make([]any, 0, len(tickets))
	seen := map[uint64]bool{}
	for _, t := range tickets {
		if !seen[t.TicketType.ID] {
			seen[t.TicketType.ID] = true
			typeIDs = append(typeIDs, t.TicketType.ID)
		}
	}
	in := placeholders(len(typeIDs))

	attractions := map[uint64][]model.AttractionLink{}
	err := r.each(ctx, `SELECT tta.ticket_type_id, a.id, a.name, a.category, a.wait_time, a.location, a.description
                        FROM ticket_type_attractions tta
                        JOIN attractions a ON a.id = tta.attraction_id
                        WHERE tta.ticket_type_id IN (`+in+`)
                        ORDER BY a.id`, typeIDs, func(rows *sql.Rows) error {
		var typeID uint64
		var a model.Attraction
		if err := rows.Scan(&typeID, &a.ID, &a.Name, &a.Category, &a.WaitTime, &a.Location, &a.Description); err != nil {
			return err
		}
		attractions[typeID] = append(attractions[typeID], model.AttractionLink{Attraction: a})
		return nil
	})
	if err != nil {
		return err
	}

	shows := map[uint64][]model.ShowLink{}
	err = r.each(ctx, `SELECT tts.ticket_type_id, s.id, s.title, DATE_FORMAT(s.date, '%Y-%m-%d'), s.time, s.location, s.description
                       FROM ticket_type_shows tts
                       JOIN shows s ON s.id = tts.show_id
                       WHERE tts.ticket_type_id IN (`+in+`)
                       ORDER BY s.id`, typeIDs, func(rows *sql.Rows) error {
		var typeID uint64
		var s model.Show
		if err := rows.Scan(&typeID, &s.ID, &s.Title, &s.Date, &s.Time, &s.Location, &s.Description); err != nil {
			return err
		}
		shows[typeID] = append(shows[typeID], model.ShowLink{Show: s})
		return nil
	})
	if err != nil {
		return err
	}

	services := map[uint64][]model.ServiceLink{}
	err = r.each(ctx, `SELECT ticket_type_id, service_id FROM ticket_type_services
                       WHERE ticket_type_id IN (`+in+`)
                       ORDER BY service_id`, typeIDs, func(rows *sql.Rows) error {
		var typeID, serviceID uint64
		if err := rows.Scan(&typeID, &serviceID); err != nil {
			return err
		}
		services[typeID] = append(services[typeID], model.ServiceLink{ServiceID: serviceID})
		return nil
	})
	if err != nil {
		return err
	}

	for i := range tickets {
		id := tickets[i].TicketType.ID
		tickets[i].TicketType.Attractions = nonNil(attractions[id])
		tickets[i].TicketType.Shows = nonNil(shows[id])
		tickets[i].TicketType.Services = nonNil(services[id])
	}
	return nil
}

// each runs q and calls fn for every row.
func (r *TicketRepo) each(ctx context.Context, q string, args []any, fn func(*sql.Rows) error) error {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return err
	}
	defer rows.Close()
	for rows.Next() {
		if err := fn(rows); err != nil {
			return err
		}
	}
	return rows.Err()
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
