package dto

import (
	"time"

	"github.com/Badsnus/events-backend/internal/domain/entity"
)

// WeatherReading is a provider response already converted to storage units.
type WeatherReading struct {
	TemperatureCelsius float64
	HumidityPercent    float64
	PressureMmHg       float64
	WindSpeedMs        float64
	WindDirection      string
}

type Weather struct {
	ID                 string    `json:"id"`
	VenueID            string    `json:"venue"`
	VenueName          string    `json:"venue_name,omitempty"`
	TemperatureCelsius float64   `json:"temperature_celsius"`
	HumidityPercent    float64   `json:"humidity_percent"`
	PressureMmHg       float64   `json:"pressure_mmhg"`
	WindDirection      string    `json:"wind_direction"`
	WindSpeedMs        float64   `json:"wind_speed_ms"`
	CreatedAt          time.Time `json:"created_at"`
}

func NewWeatherFromEntity(snapshot entity.WeatherSnapshot) Weather {
	out := Weather{
		ID:                 snapshot.ID,
		VenueID:            snapshot.VenueID,
		TemperatureCelsius: snapshot.TemperatureCelsius,
		HumidityPercent:    snapshot.HumidityPercent,
		PressureMmHg:       snapshot.PressureMmHg,
		WindDirection:      snapshot.WindDirection,
		WindSpeedMs:        snapshot.WindSpeedMs,
		CreatedAt:          snapshot.CreatedAt,
	}
	if snapshot.Venue != nil {
		out.VenueName = snapshot.Venue.Name
	}
	return out
}
