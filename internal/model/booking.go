package model

import "time"

// BookingStatus is the state of a service booking.  Only CONFIRMED is
// produced; pending bookings are not modelled.
type BookingStatus string

const BookingConfirmed BookingStatus = "CONFIRMED"

// ServiceBooking is a timed reservation against a service, independent of
// planner membership.  It is built per submission and owned by the booking
// store once written.
//
// Fields:
//  ID              – primary key identifier, assigned on create.
//  ServiceID       – service being reserved.
//  TicketID        – ticket the booking was made with (nil when none).
//  UserID          – visitor (nil for anonymous requests).
//  BookingTime     – combined date and time, RFC3339 in UTC.
//  NumberOfPeople  – party size, at least 1.
//  SpecialRequests – optional free text (nil when empty).
//  Status          – always CONFIRMED.
//  CreatedAt       – set by the store.
type ServiceBooking struct {
    ID              uint64        `json:"id"`                         // service_bookings.id
    ServiceID       uint64        `json:"service_id"`                 // service_bookings.service_id
    TicketID        *uint64       `json:"ticket_id,omitempty"`        // service_bookings.ticket_id (nullable)
    UserID          *uint64       `json:"user_id,omitempty"`          // service_bookings.user_id (nullable)
    BookingTime     string        `json:"booking_time"`               // service_bookings.booking_time
    NumberOfPeople  int           `json:"number_of_people"`           // service_bookings.number_of_people
    SpecialRequests *string       `json:"special_requests,omitempty"` // service_bookings.special_requests (nullable)
    Status          BookingStatus `json:"status"`                     // service_bookings.status
    CreatedAt       time.Time     `json:"created_at"`                 // service_bookings.created_at
}
