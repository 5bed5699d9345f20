package service

import (
	"context"
	"errors"
	"time"

	"github.com/lorenzaCara/enjoypark/internal/model"
	"github.com/lorenzaCara/enjoypark/internal/planning"
	"github.com/lorenzaCara/enjoypark/internal/queue"
)

var errMissing = errors.New("missing")

var (
	coaster  = model.Attraction{ID: 3, Name: "Dragon Coaster"}
	parade   = model.Show{ID: 7, Title: "Night Parade", Date: "2025-06-18", Time: "21:00"}
	bistro   = model.Service{ID: 11, Name: "Lakeside Bistro", Type: model.ServiceRestaurant}
	infoDesk = model.Service{ID: 12, Name: "Info Point", Type: model.ServiceInfo}

	dayPass = model.TicketType{
		ID:          1,
		Name:        "Day Pass",
		Attractions: []model.AttractionLink{{Attraction: coaster}},
		Shows:       []model.ShowLink{{Show: parade}},
		Services:    []model.ServiceLink{{ServiceID: bistro.ID}, {ServiceID: infoDesk.ID}},
	}
)

const visitor = uint64(9)

func ticketFor(id uint64, status model.TicketStatus, day string) model.Ticket {
	return model.Ticket{ID: id, UserID: visitor, Status: status, ValidFor: day + "T00:00:00Z", TicketType: dayPass}
}

type fakeTickets struct {
	byUser map[uint64][]model.Ticket
	err    error
}

func (f *fakeTickets) ListPurchasedByUser(_ context.Context, userID uint64) ([]model.Ticket, error) {
	return f.byUser[userID], f.err
}

type fakePlanners struct {
	stored  []model.Planner
	creates int
	updates int
	err     error
}

func (f *fakePlanners) ListByUser(_ context.Context, userID uint64) ([]model.Planner, error) {
	var out []model.Planner
	for _, p := range f.stored {
		if p.UserID == userID {
			out = append(out, p.Clone())
		}
	}
	return out, nil
}

func (f *fakePlanners) Create(_ context.Context, p *model.Planner) error {
	if f.err != nil {
		return f.err
	}
	f.creates++
	p.ID = uint64(100 + len(f.stored))
	f.stored = append(f.stored, p.Clone())
	return nil
}

func (f *fakePlanners) Update(_ context.Context, p *model.Planner) error {
	if f.err != nil {
		return f.err
	}
	f.updates++
	for i := range f.stored {
		if f.stored[i].ID == p.ID {
			f.stored[i] = p.Clone()
			return nil
		}
	}
	return errMissing
}

type fakeBookings struct {
	stored []model.ServiceBooking
	err    error
}

func (f *fakeBookings) Create(_ context.Context, b *model.ServiceBooking) error {
	if f.err != nil {
		return f.err
	}
	b.ID = uint64(500 + len(f.stored))
	f.stored = append(f.stored, *b)
	return nil
}

type fakeCatalog struct{}

func (fakeCatalog) GetAttraction(_ context.Context, id uint64) (model.Attraction, error) {
	if id == coaster.ID {
		return coaster, nil
	}
	return model.Attraction{}, errMissing
}

func (fakeCatalog) GetShow(_ context.Context, id uint64) (model.Show, error) {
	if id == parade.ID {
		return parade, nil
	}
	return model.Show{}, errMissing
}

func (fakeCatalog) GetService(_ context.Context, id uint64) (model.Service, error) {
	switch id {
	case bistro.ID:
		return bistro, nil
	case infoDesk.ID:
		return infoDesk, nil
	}
	return model.Service{}, errMissing
}

type recorder struct {
	saved  []queue.PlannerSavedEvent
	booked []queue.ServiceBookedEvent
	err    error
}

func (r *recorder) PublishPlannerSaved(_ context.Context, ev queue.PlannerSavedEvent) error {
	r.saved = append(r.saved, ev)
	return r.err
}

func (r *recorder) PublishServiceBooked(_ context.Context, ev queue.ServiceBookedEvent) error {
	r.booked = append(r.booked, ev)
	return r.err
}

var fixedNow = time.Date(2025, 6, 18, 8, 0, 0, 0, time.UTC)

type env struct {
	tickets  *fakeTickets
	planners *fakePlanners
	bookings *fakeBookings
	events   *recorder
	planner  *Planner
	booker   *Bookings
}

func newEnv(tickets ...model.Ticket) *env {
	e := &env{
		tickets:  &fakeTickets{byUser: map[uint64][]model.Ticket{visitor: tickets}},
		planners: &fakePlanners{},
		bookings: &fakeBookings{},
		events:   &recorder{},
	}
	e.planner = NewPlanner(e.tickets, e.planners, fakeCatalog{}, e.events)
	e.planner.Now = func() time.Time { return fixedNow }
	builder := planning.BookingBuilder{Now: func() time.Time { return fixedNow }, Location: time.UTC}
	e.booker = NewBookings(e.bookings, e.tickets, fakeCatalog{}, e.planner, e.events, builder)
	return e
}

func ptr[T any](v T) *T { return &v }
