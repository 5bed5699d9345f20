package planning

import (
	"fmt"
	"strings"
	"time"

	"github.com/lorenzaCara/enjoypark/internal/datekey"
	"github.com/lorenzaCara/enjoypark/internal/model"
)

// DefaultPartySize is used when the request leaves the party size unset.
const DefaultPartySize = 2

// BookingBuilder composes service bookings.  Dates and times entered by
// visitors are wall-clock values in the park's Location; Now decides what
// "in the past" means.
type BookingBuilder struct {
	Now      func() time.Time
	Location *time.Location
}

// NewBookingBuilder returns a builder for the given park location using the
// system clock.  A nil loc means UTC.
func NewBookingBuilder(loc *time.Location) BookingBuilder {
	if loc == nil {
		loc = time.UTC
	}
	return BookingBuilder{Now: time.Now, Location: loc}
}

// Build validates a booking request and returns the booking to hand to the
// booking store.  With a ticket the date must be the ticket's valid day and
// the ticket must grant the service; without one any day from today on is
// accepted.
func (b BookingBuilder) Build(svc model.Service, ticket *model.Ticket, date, clock string, party int, special string) (model.ServiceBooking, error) {
	date, clock = strings.TrimSpace(date), strings.TrimSpace(clock)
	if date == "" || clock == "" {
		return model.ServiceBooking{}, ErrMissingSchedule
	}
	if !svc.Type.Bookable() {
		return model.ServiceBooking{}, fmt.Errorf("%w: %s (%s)", ErrServiceNotBookable, svc.Name, svc.Type)
	}
	at, err := b.combine(date, clock)
	if err != nil {
		return model.ServiceBooking{}, err
	}
	day := datekey.FromTime(at)

	out := model.ServiceBooking{
		ServiceID:      svc.ID,
		BookingTime:    at.UTC().Format(time.RFC3339),
		NumberOfPeople: clampParty(party),
		Status:         model.BookingConfirmed,
	}
	if ticket != nil {
		ticketDay, ok := datekey.ToDateKey(ticket.ValidFor)
		if !ok || ticketDay != day {
			return model.ServiceBooking{}, fmt.Errorf("%w: %s vs %s", ErrTicketDateMismatch, day, ticketDay)
		}
		if !Grants(ServiceItem(svc), *ticket) {
			return model.ServiceBooking{}, fmt.Errorf("%w: ticket %d, service %d", ErrTicketNotEligible, ticket.ID, svc.ID)
		}
		tid, uid := ticket.ID, ticket.UserID
		out.TicketID = &tid
		out.UserID = &uid
	} else if day < b.today() {
		return model.ServiceBooking{}, fmt.Errorf("%w: %s", ErrDateInPast, day)
	}
	if s := strings.TrimSpace(special); s != "" {
		out.SpecialRequests = &s
	}
	return out, nil
}

func (b BookingBuilder) location() *time.Location {
	if b.Location == nil {
		return time.UTC
	}
	return b.Location
}

func (b BookingBuilder) today() string {
	now := time.Now
	if b.Now != nil {
		now = b.Now
	}
	return datekey.FromTime(now().In(b.location()))
}

// combine joins a "YYYY-MM-DD" date and an "HH:MM[:SS]" time in the park location.
func (b BookingBuilder) combine(date, clock string) (time.Time, error) {
	key, _ := datekey.ToDateKey(date)
	layout := "2006-01-02 15:04"
	if strings.Count(clock, ":") == 2 {
		layout = "2006-01-02 15:04:05"
	}
	at, err := time.ParseInLocation(layout, key+" "+clock, b.location())
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q %q", ErrInvalidSchedule, date, clock)
	}
	return at, nil
}

func clampParty(n int) int {
	switch {
	case n == 0:
		return DefaultPartySize
	case n < 1:
		return 1
	}
	return n
}
