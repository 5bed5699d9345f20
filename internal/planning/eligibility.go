package planning

import "github.com/lorenzaCara/enjoypark/internal/model"

// EligibleTickets returns the tickets that grant access to item, in input
// order.  The result is a new slice; an unknown kind yields no tickets.
func EligibleTickets(item Item, tickets []model.Ticket) []model.Ticket {
	out := make([]model.Ticket, 0, len(tickets))
	r, ok := rules[item.Kind]
	if !ok {
		return out
	}
	for _, t := range tickets {
		if r.admits(item, t) {
			out = append(out, t)
		}
	}
	return out
}

// Grants reports whether a single ticket unlocks item.
func Grants(item Item, t model.Ticket) bool {
	r, ok := rules[item.Kind]
	return ok && r.admits(item, t)
}
