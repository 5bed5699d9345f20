package planning

import "github.com/lorenzaCara/enjoypark/internal/model"

var (
	coaster   = model.Attraction{ID: 3, Name: "Dragon Coaster", Category: "thrill"}
	laserShow = model.Show{ID: 7, Title: "Laser Show", Date: "2025-06-18", Time: "21:00"}
	bistro    = model.Service{ID: 11, Name: "Lakeside Bistro", Type: model.ServiceRestaurant}
	firstAid  = model.Service{ID: 12, Name: "First Aid", Type: model.ServiceFirstAid}

	fullPass = model.TicketType{
		ID:          1,
		Name:        "Full Pass",
		Attractions: []model.AttractionLink{{Attraction: coaster}},
		Shows:       []model.ShowLink{{Show: laserShow}},
		Services:    []model.ServiceLink{{ServiceID: bistro.ID}, {ServiceID: firstAid.ID}},
	}
	basicPass = model.TicketType{ID: 2, Name: "Basic"}
)

func ticket(id uint64, status model.TicketStatus, validFor string, tt model.TicketType) model.Ticket {
	return model.Ticket{ID: id, UserID: 9, Status: status, ValidFor: validFor, TicketType: tt}
}

func ptr[T any](v T) *T { return &v }
