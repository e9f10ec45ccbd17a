package entity

import (
	"fmt"
	"time"
)

// WeatherSnapshot is a point-in-time weather reading for a venue.
// The most recent snapshot of a venue is its current weather.
type WeatherSnapshot struct {
	ID                 string `gorm:"primaryKey;type:uuid;default:gen_random_uuid()"`
	VenueID            string `gorm:"not null;type:uuid;index"`
	Venue              *Venue `gorm:"constraint:OnDelete:CASCADE;"`
	TemperatureCelsius float64
	HumidityPercent    float64
	PressureMmHg       float64
	WindDirection      string `gorm:"size:10"`
	WindSpeedMs        float64
	CreatedAt          time.Time `gorm:"index"`
}

func (w *WeatherSnapshot) String() string {
	if w.Venue == nil {
		return fmt.Sprintf("Weather at venue %s on %s", w.VenueID, w.CreatedAt)
	}
	return fmt.Sprintf("Weather at %s on %s", w.Venue.Name, w.CreatedAt)
}
