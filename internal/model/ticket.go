package model

// TicketStatus is the lifecycle state of a purchased ticket.
type TicketStatus string

const (
    TicketActive  TicketStatus = "ACTIVE"  // bought, not yet scanned at the gate
    TicketUsed    TicketStatus = "USED"    // scanned at the gate; the park visit is under way
    TicketExpired TicketStatus = "EXPIRED" // validity day has passed
)

// Ticket is a purchased, dated admission credential.  ValidFor holds the
// timestamp text of the single calendar day the ticket is usable; an empty
// string means the day has not been assigned yet.
//
// Fields:
//  ID         – primary key identifier.
//  UserID     – visitor who purchased the ticket.
//  Status     – ACTIVE, USED or EXPIRED.
//  ValidFor   – day the ticket is valid for (ISO text, may be empty).
//  TicketType – catalog class with the items the ticket unlocks.
type Ticket struct {
    ID         uint64       `json:"id"`          // tickets.id
    UserID     uint64       `json:"user_id"`     // tickets.user_id
    Status     TicketStatus `json:"status"`      // tickets.status
    ValidFor   string       `json:"valid_for"`   // tickets.valid_for (nullable)
    TicketType TicketType   `json:"ticket_type"` // tickets.ticket_type_id -> ticket_types
}

// HasValidDay reports whether the ticket carries a validity day.
func (t Ticket) HasValidDay() bool { return t.ValidFor != "" }

// TicketType is the catalog class defining which attractions, shows and
// services a ticket unlocks.  The link slices mirror the join tables
// ticket_type_attractions, ticket_type_shows and ticket_type_services.
type TicketType struct {
    ID          uint64           `json:"id"`          // ticket_types.id
    Name        string           `json:"name"`        // ticket_types.name
    Attractions []AttractionLink `json:"attractions"` // ticket_type_attractions
    Shows       []ShowLink       `json:"shows"`       // ticket_type_shows
    Services    []ServiceLink    `json:"services"`    // ticket_type_services
}

// AttractionLink is one row of ticket_type_attractions with the attraction loaded.
type AttractionLink struct {
    Attraction Attraction `json:"attraction"`
}

// ShowLink is one row of ticket_type_shows with the show loaded.
type ShowLink struct {
    Show Show `json:"show"`
}

// ServiceLink is one row of ticket_type_services.  Only the id is carried.
type ServiceLink struct {
    ServiceID uint64 `json:"service_id"`
}
