package planning

import (
	"github.com/lorenzaCara/enjoypark/internal/datekey"
	"github.com/lorenzaCara/enjoypark/internal/model"
)

// CandidatePlanners returns the planners an item chosen with ticket may be
// added to: same ticket, same calendar day.
func CandidatePlanners(planners []model.Planner, ticket model.Ticket) []model.Planner {
	out := make([]model.Planner, 0, len(planners))
	for _, p := range planners {
		if matchesTicket(p, ticket) {
			out = append(out, p)
		}
	}
	return out
}

// CanAddToExisting reports whether "add to existing planner" should be offered.
func CanAddToExisting(planners []model.Planner, ticket model.Ticket) bool {
	for _, p := range planners {
		if matchesTicket(p, ticket) {
			return true
		}
	}
	return false
}

func matchesTicket(p model.Planner, t model.Ticket) bool {
	return p.TicketID == t.ID && datekey.SameDay(p.Date, t.ValidFor)
}
