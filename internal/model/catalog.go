package model

// Attraction is a ride or exhibit.  It has no date of its own and is
// reachable on any day a granting ticket is valid.
//
// Fields:
//  ID          – primary key identifier.
//  Name        – display name.
//  Category    – ride category (e.g. thrill, family, water).
//  WaitTime    – current estimated wait in minutes.
//  Location    – park area.
//  Description – free text.
type Attraction struct {
    ID          uint64 `json:"id"`          // attractions.id
    Name        string `json:"name"`        // attractions.name
    Category    string `json:"category"`    // attractions.category
    WaitTime    int    `json:"wait_time"`   // attractions.wait_time
    Location    string `json:"location"`    // attractions.location
    Description string `json:"description"` // attractions.description
}

// Show is a performance held on one fixed calendar day.  Date carries the
// day as ISO text and Time the start time ("HH:MM").
type Show struct {
    ID          uint64 `json:"id"`          // shows.id
    Title       string `json:"title"`       // shows.title
    Date        string `json:"date"`        // shows.date
    Time        string `json:"time"`        // shows.time
    Location    string `json:"location"`    // shows.location
    Description string `json:"description"` // shows.description
}

// ServiceType classifies park services.
type ServiceType string

const (
    ServiceRestaurant ServiceType = "restaurant"
    ServiceCafe       ServiceType = "café"
    ServiceRental     ServiceType = "rental"
    ServiceShop       ServiceType = "shop"
    ServiceFirstAid   ServiceType = "first_aid"
    ServiceInfo       ServiceType = "info"
)

// Bookable reports whether a service of this type takes time-slot
// reservations in addition to planner inclusion.  "cafe" without the
// accent is accepted because older catalog rows use it.
func (t ServiceType) Bookable() bool {
    switch t {
    case ServiceRestaurant, ServiceCafe, "cafe", ServiceRental:
        return true
    }
    return false
}

// Service is a restaurant, café, rental desk or similar facility.
type Service struct {
    ID             uint64      `json:"id"`              // services.id
    Name           string      `json:"name"`            // services.name
    Type           ServiceType `json:"type"`            // services.type
    OperatingHours string      `json:"operating_hours"` // services.operating_hours
    Location       string      `json:"location"`        // services.location
}
