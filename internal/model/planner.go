package model

// Planner is a per-visit itinerary bound to exactly one ticket and one
// calendar day.  It only holds references; the id lists never contain the
// same id twice.
//
// Fields:
//  ID            – primary key identifier, assigned on create.
//  TicketID      – ticket the visit is made with.
//  UserID        – owner of the planner.
//  Title         – display title.
//  Description   – free text.
//  Date          – day key ("YYYY-MM-DD") equal to the ticket's validity day.
//  AttractionIDs – attractions included in the plan.
//  ShowIDs       – shows included in the plan.
//  ServiceIDs    – services included in the plan.
type Planner struct {
    ID            uint64   `json:"id"`             // planners.id
    TicketID      uint64   `json:"ticket_id"`      // planners.ticket_id
    UserID        uint64   `json:"user_id"`        // planners.user_id
    Title         string   `json:"title"`          // planners.title
    Description   string   `json:"description"`    // planners.description
    Date          string   `json:"date"`           // planners.date
    AttractionIDs []uint64 `json:"attraction_ids"` // planner_items (kind=attraction)
    ShowIDs       []uint64 `json:"show_ids"`       // planner_items (kind=show)
    ServiceIDs    []uint64 `json:"service_ids"`    // planner_items (kind=service)
}

// Clone returns a copy whose id slices do not share memory with p.
func (p Planner) Clone() Planner {
    out := p
    out.AttractionIDs = append(make([]uint64, 0, len(p.AttractionIDs)+1), p.AttractionIDs...)
    out.ShowIDs = append(make([]uint64, 0, len(p.ShowIDs)+1), p.ShowIDs...)
    out.ServiceIDs = append(make([]uint64, 0, len(p.ServiceIDs)+1), p.ServiceIDs...)
    return out
}
