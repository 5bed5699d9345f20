// Package planning holds the decision logic shared by the attraction, show
// and service flows: which purchased tickets unlock an item, which existing
// planners an item may be added to, what planner write to perform, and how
// a service booking request is composed.  Everything here is pure; callers
// own the I/O.
package planning

import (
	"github.com/lorenzaCara/enjoypark/internal/datekey"
	"github.com/lorenzaCara/enjoypark/internal/model"
)

// ItemKind tags a bookable item.
type ItemKind string

const (
	KindAttraction ItemKind = "attraction"
	KindShow       ItemKind = "show"
	KindService    ItemKind = "service"
)

// ParseKind accepts the singular or plural form used in URLs.
func ParseKind(s string) (ItemKind, bool) {
	switch s {
	case "attraction", "attractions":
		return KindAttraction, true
	case "show", "shows":
		return KindShow, true
	case "service", "services":
		return KindService, true
	}
	return "", false
}

// Item is the kind-independent view of an attraction, show or service.
// Date is only set for shows.
type Item struct {
	Kind ItemKind
	ID   uint64
	Name string
	Date string
}

func AttractionItem(a model.Attraction) Item {
	return Item{Kind: KindAttraction, ID: a.ID, Name: a.Name}
}

func ShowItem(s model.Show) Item {
	return Item{Kind: KindShow, ID: s.ID, Name: s.Title, Date: s.Date}
}

func ServiceItem(s model.Service) Item {
	return Item{Kind: KindService, ID: s.ID, Name: s.Name}
}

// rule captures what differs between the three kinds.
type rule struct {
	statuses    []model.TicketStatus
	sameDay     bool
	grants      func(tt model.TicketType, itemID uint64) bool
	slot        func(p *model.Planner) *[]uint64
	description func(name string) string
}

var rules = map[ItemKind]rule{
	KindAttraction: {
		// attractions are planned once the ticket has been scanned at the gate
		statuses: []model.TicketStatus{model.TicketUsed},
		grants: func(tt model.TicketType, id uint64) bool {
			for _, l := range tt.Attractions {
				if l.Attraction.ID == id {
					return true
				}
			}
			return false
		},
		slot:        func(p *model.Planner) *[]uint64 { return &p.AttractionIDs },
		description: func(name string) string { return "Day plan including the attraction " + name },
	},
	KindShow: {
		statuses: []model.TicketStatus{model.TicketActive},
		sameDay:  true,
		grants: func(tt model.TicketType, id uint64) bool {
			for _, l := range tt.Shows {
				if l.Show.ID == id {
					return true
				}
			}
			return false
		},
		slot:        func(p *model.Planner) *[]uint64 { return &p.ShowIDs },
		description: func(name string) string { return "Day plan including the show " + name },
	},
	KindService: {
		statuses: []model.TicketStatus{model.TicketActive, model.TicketUsed},
		grants: func(tt model.TicketType, id uint64) bool {
			for _, l := range tt.Services {
				if l.ServiceID == id {
					return true
				}
			}
			return false
		},
		slot:        func(p *model.Planner) *[]uint64 { return &p.ServiceIDs },
		description: func(name string) string { return "Day plan including the service " + name },
	},
}

func (r rule) acceptsStatus(s model.TicketStatus) bool {
	for _, ok := range r.statuses {
		if ok == s {
			return true
		}
	}
	return false
}

// admits applies the full per-kind rule to one ticket.
func (r rule) admits(item Item, t model.Ticket) bool {
	if !r.acceptsStatus(t.Status) || !t.HasValidDay() {
		return false
	}
	if !r.grants(t.TicketType, item.ID) {
		return false
	}
	if r.sameDay && !datekey.SameDay(t.ValidFor, item.Date) {
		return false
	}
	return true
}
