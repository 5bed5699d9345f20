// Package service runs the visitor flows on top of the planning rules:
// it fetches tickets and planners from the stores, lets the planning
// package decide, performs the single resulting write and announces it.
package service

import (
	"context"
	"errors"

	"github.com/lorenzaCara/enjoypark/internal/model"
	"github.com/lorenzaCara/enjoypark/internal/queue"
)

// TicketSource yields the tickets a visitor has purchased.
type TicketSource interface {
	ListPurchasedByUser(ctx context.Context, userID uint64) ([]model.Ticket, error)
}

// PlannerStore reads and writes planners.  Create assigns the ID.
type PlannerStore interface {
	ListByUser(ctx context.Context, userID uint64) ([]model.Planner, error)
	Create(ctx context.Context, p *model.Planner) error
	Update(ctx context.Context, p *model.Planner) error
}

// BookingStore writes service bookings.  Create assigns the ID.
type BookingStore interface {
	Create(ctx context.Context, b *model.ServiceBooking) error
}

// Catalog looks up bookable items by id.
type Catalog interface {
	GetAttraction(ctx context.Context, id uint64) (model.Attraction, error)
	GetShow(ctx context.Context, id uint64) (model.Show, error)
	GetService(ctx context.Context, id uint64) (model.Service, error)
}

// EventPublisher announces completed writes.
type EventPublisher interface {
	PublishPlannerSaved(ctx context.Context, ev queue.PlannerSavedEvent) error
	PublishServiceBooked(ctx context.Context, ev queue.ServiceBookedEvent) error
}

// ErrTicketNotFound is returned when a request names a ticket the visitor
// does not own.
var ErrTicketNotFound = errors.New("ticket not found")

// NopPublisher drops every event.  It is used when no broker is configured.
type NopPublisher struct{}

func (NopPublisher) PublishPlannerSaved(context.Context, queue.PlannerSavedEvent) error   { return nil }
func (NopPublisher) PublishServiceBooked(context.Context, queue.ServiceBookedEvent) error { return nil }

func findTicket(tickets []model.Ticket, id uint64) (model.Ticket, bool) {
	for _, t := range tickets {
		if t.ID == id {
			return t, true
		}
	}
	return model.Ticket{}, false
}
