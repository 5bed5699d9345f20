// Package queue defines message payloads exchanged over the message broker.
package queue

// Queue names.  Both are durable and fed through the default exchange.
const (
    PlannerSavedQueue  = "planner.saved"
    ServiceBookedQueue = "service.booked"
)

// PlannerSavedEvent is published after a planner was created or extended.
// Op is CREATE or UPDATE; Kind/ItemID name the item that triggered the write.
type PlannerSavedEvent struct {
    PlannerID uint64 `json:"planner_id"`
    TicketID  uint64 `json:"ticket_id"`
    UserID    uint64 `json:"user_id"`
    Op        string `json:"op"`
    Kind      string `json:"kind"`
    ItemID    uint64 `json:"item_id"`
    Date      string `json:"date"`
    Title     string `json:"title"`
    SavedAt   string `json:"saved_at"`
}

// ServiceBookedEvent is published when a service booking is stored.  It
// contains enough information for downstream consumers to log, notify the
// venue, or feed analytics without querying the primary database.
type ServiceBookedEvent struct {
    BookingID      uint64  `json:"booking_id"`
    ServiceID      uint64  `json:"service_id"`
    ServiceName    string  `json:"service_name"`
    TicketID       *uint64 `json:"ticket_id,omitempty"`
    UserID         *uint64 `json:"user_id,omitempty"`
    BookingTime    string  `json:"booking_time"`
    NumberOfPeople int     `json:"number_of_people"`
    Status         string  `json:"status"`
    BookedAt       string  `json:"booked_at"`
}
