package dto

import "github.com/Badsnus/events-backend/internal/domain/entity"

type Location struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

type VenueInput struct {
	Name     string    `json:"name" binding:"required,max=255"`
	Location *Location `json:"location" binding:"required"`
}

type Venue struct {
	ID       string   `json:"id"`
	Name     string   `json:"name"`
	Location Location `json:"location"`
}

func NewVenueFromEntity(venue entity.Venue) Venue {
	return Venue{
		ID:   venue.ID,
		Name: venue.Name,
		Location: Location{
			Latitude:  venue.Latitude,
			Longitude: venue.Longitude,
		},
	}
}
