package entity

import (
	"fmt"
	"time"
)

type EventStatus string

const (
	EventStatusDraft     EventStatus = "DRAFT"
	EventStatusScheduled EventStatus = "SCHEDULED"
	EventStatusPublished EventStatus = "PUBLISHED"
	EventStatusEnded     EventStatus = "ENDED"
	EventStatusDeleted   EventStatus = "DELETED"
)

// Valid reports whether s is one of the known statuses.
func (s EventStatus) Valid() bool {
	switch s {
	case EventStatusDraft, EventStatusScheduled, EventStatusPublished, EventStatusEnded, EventStatusDeleted:
		return true
	}
	return false
}

// Column names reported to the save hook as changed fields.
const (
	EventFieldTitle        = "title"
	EventFieldDescription  = "description"
	EventFieldPublishAt    = "publish_at"
	EventFieldStartAt      = "start_at"
	EventFieldEndAt        = "end_at"
	EventFieldVenueID      = "venue_id"
	EventFieldRating       = "rating"
	EventFieldStatus       = "status"
	EventFieldPreviewImage = "preview_image"
	EventFieldWeatherID    = "weather_id"
)

const (
	MinEventRating = 0
	MaxEventRating = 25
)

type Event struct {
	ID           string `gorm:"primaryKey;type:uuid;default:gen_random_uuid()"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
	Title        string `gorm:"not null;size:255" validate:"required,max=255"`
	Description  string `gorm:"type:text"`
	PublishAt    *time.Time
	StartAt      time.Time   `gorm:"not null" validate:"required"`
	EndAt        time.Time   `gorm:"not null;check:event_end_after_start,end_at > start_at" validate:"required,gtfield=StartAt"`
	AuthorID     int64       `gorm:"not null"`
	Author       *User       `gorm:"constraint:OnDelete:RESTRICT;" validate:"-"`
	VenueID      string      `gorm:"not null;type:uuid" validate:"required"`
	Venue        *Venue      `gorm:"constraint:OnDelete:RESTRICT;" validate:"-"`
	Rating       int         `gorm:"not null;default:0;check:event_rating_0_25,rating >= 0 AND rating <= 25" validate:"gte=0,lte=25"`
	Status       EventStatus `gorm:"not null;size:16;default:DRAFT;index" validate:"oneof=DRAFT SCHEDULED PUBLISHED ENDED DELETED"`
	PreviewImage string
	WeatherID    *string          `gorm:"type:uuid"`
	Weather      *WeatherSnapshot `gorm:"constraint:OnDelete:SET NULL;" validate:"-"`
	Images       []EventImage     `gorm:"constraint:OnDelete:CASCADE;" validate:"-"`
}

// IsPublished reports whether the event is visible to everyone.
func (e *Event) IsPublished() bool {
	return e.Status == EventStatusPublished
}

// HasWeather reports whether a weather snapshot is attached to the event.
func (e *Event) HasWeather() bool {
	return e.WeatherID != nil && *e.WeatherID != ""
}

// VenueName returns the venue name or fallback when the venue is not loaded.
func (e *Event) VenueName(fallback string) string {
	if e.Venue == nil || e.Venue.Name == "" {
		return fallback
	}
	return e.Venue.Name
}

func (e *Event) String() string {
	return e.Title
}

type EventImage struct {
	ID        string `gorm:"primaryKey;type:uuid;default:gen_random_uuid()"`
	EventID   string `gorm:"not null;type:uuid;index"`
	Image     string `gorm:"not null"`
	CreatedAt time.Time
}

func (i *EventImage) String() string {
	return fmt.Sprintf("Image for event_id=%s", i.EventID)
}
