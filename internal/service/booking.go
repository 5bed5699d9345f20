package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/lorenzaCara/enjoypark/internal/model"
	"github.com/lorenzaCara/enjoypark/internal/planning"
	"github.com/lorenzaCara/enjoypark/internal/queue"
)

// BookingInput is one submission of the service booking form.
type BookingInput struct {
	ServiceID       uint64
	TicketID        *uint64
	Date            string
	Time            string
	PartyCount      int
	SpecialRequests string

	// AddToPlanner also puts the service into a planner for the ticket's
	// day; PlannerMode/PlannerID pick which one as in Selection.
	AddToPlanner bool
	PlannerMode  planning.Mode
	PlannerID    *uint64
}

// Bookings stores service bookings.
type Bookings struct {
	Store   BookingStore
	Tickets TicketSource
	Catalog Catalog
	Planner *Planner
	Events  EventPublisher
	Builder planning.BookingBuilder
}

// NewBookings wires a Bookings service.  planner may be nil, in which case
// AddToPlanner requests are rejected.
func NewBookings(store BookingStore, tickets TicketSource, catalog Catalog, planner *Planner, events EventPublisher, builder planning.BookingBuilder) *Bookings {
	if events == nil {
		events = NopPublisher{}
	}
	return &Bookings{Store: store, Tickets: tickets, Catalog: catalog, Planner: planner, Events: events, Builder: builder}
}

// ErrPlannerUnavailable is returned for AddToPlanner when no planner
// service is wired.
var ErrPlannerUnavailable = errors.New("planner not available")

// Book validates and stores a booking for userID.  Everything is checked
// before the first write; when the service is already part of the chosen
// planner only the booking is written.
func (s *Bookings) Book(ctx context.Context, userID uint64, in BookingInput) (model.ServiceBooking, error) {
	svc, err := s.Catalog.GetService(ctx, in.ServiceID)
	if err != nil {
		return model.ServiceBooking{}, err
	}

	var ticket *model.Ticket
	if in.TicketID != nil {
		tickets, err := s.Tickets.ListPurchasedByUser(ctx, userID)
		if err != nil {
			return model.ServiceBooking{}, fmt.Errorf("list tickets: %w", err)
		}
		t, ok := findTicket(tickets, *in.TicketID)
		if !ok {
			return model.ServiceBooking{}, fmt.Errorf("%w: id %d", ErrTicketNotFound, *in.TicketID)
		}
		ticket = &t
	}

	b, err := s.Builder.Build(svc, ticket, in.Date, in.Time, in.PartyCount, in.SpecialRequests)
	if err != nil {
		return model.ServiceBooking{}, err
	}
	if b.UserID == nil {
		uid := userID
		b.UserID = &uid
	}

	var (
		mutation    *planning.Mutation
		plannerItem planning.Item
	)
	if in.AddToPlanner {
		if s.Planner == nil {
			return model.ServiceBooking{}, ErrPlannerUnavailable
		}
		mode := in.PlannerMode
		if mode == "" {
			mode = planning.ModeNew
		}
		sel := planning.Selection{
			Kind:      planning.KindService,
			ItemID:    svc.ID,
			TicketID:  in.TicketID,
			Mode:      mode,
			PlannerID: in.PlannerID,
		}
		m, item, err := s.Planner.prepare(ctx, userID, sel)
		switch {
		case errors.Is(err, planning.ErrDuplicateItem):
			// already planned
		case err != nil:
			return model.ServiceBooking{}, err
		default:
			mutation, plannerItem = &m, item
		}
	}

	if err := s.Store.Create(ctx, &b); err != nil {
		return model.ServiceBooking{}, fmt.Errorf("create booking: %w", err)
	}
	log.Info().Str("component", "booking").Uint64("booking_id", b.ID).
		Uint64("service_id", b.ServiceID).Str("booking_time", b.BookingTime).
		Int("people", b.NumberOfPeople).Msg("service booked")

	ev := queue.ServiceBookedEvent{
		BookingID:      b.ID,
		ServiceID:      b.ServiceID,
		ServiceName:    svc.Name,
		TicketID:       b.TicketID,
		UserID:         b.UserID,
		BookingTime:    b.BookingTime,
		NumberOfPeople: b.NumberOfPeople,
		Status:         string(b.Status),
		BookedAt:       s.now().UTC().Format(time.RFC3339),
	}
	if err := s.Events.PublishServiceBooked(ctx, ev); err != nil {
		log.Warn().Err(err).Uint64("booking_id", b.ID).Msg("service.booked not published")
	}

	if mutation != nil {
		if _, err := s.Planner.commit(ctx, *mutation, plannerItem); err != nil {
			// the booking stays; the visitor can add the service from the planner flow
			log.Error().Err(err).Uint64("booking_id", b.ID).Msg("booking not added to planner")
		}
	}
	return b, nil
}

func (s *Bookings) now() time.Time {
	if s.Builder.Now != nil {
		return s.Builder.Now()
	}
	return time.Now()
}
