package dto

import (
	"time"

	"github.com/Badsnus/events-backend/internal/domain/entity"
)

// EventFilter narrows event listings. Limit <= 0 means no limit.
type EventFilter struct {
	Status        entity.EventStatus
	PublishedOnly bool
	VenueID       string
	Limit         int
	Offset        int
}

// EventInput is the payload for creating an event.
type EventInput struct {
	Title       string             `json:"title" binding:"required,max=255"`
	Description string             `json:"description"`
	PublishAt   *time.Time         `json:"publish_at"`
	StartAt     time.Time          `json:"start_at" binding:"required"`
	EndAt       time.Time          `json:"end_at" binding:"required"`
	VenueID     string             `json:"venue" binding:"required"`
	Rating      int                `json:"rating"`
	Status      entity.EventStatus `json:"status"`
}

func (in EventInput) ToEntity() *entity.Event {
	return &entity.Event{
		Title:       in.Title,
		Description: in.Description,
		PublishAt:   in.PublishAt,
		StartAt:     in.StartAt,
		EndAt:       in.EndAt,
		VenueID:     in.VenueID,
		Rating:      in.Rating,
		Status:      in.Status,
	}
}

// EventPatch carries a partial update; nil fields are left untouched.
type EventPatch struct {
	Title       *string             `json:"title"`
	Description *string             `json:"description"`
	PublishAt   *time.Time          `json:"publish_at"`
	StartAt     *time.Time          `json:"start_at"`
	EndAt       *time.Time          `json:"end_at"`
	VenueID     *string             `json:"venue"`
	Rating      *int                `json:"rating"`
	Status      *entity.EventStatus `json:"status"`
}

type EventImage struct {
	ID        string    `json:"id"`
	Image     string    `json:"image"`
	CreatedAt time.Time `json:"created_at"`
}

type Event struct {
	ID           string       `json:"id"`
	Title        string       `json:"title"`
	Description  string       `json:"description"`
	PublishAt    *time.Time   `json:"publish_at"`
	StartAt      time.Time    `json:"start_at"`
	EndAt        time.Time    `json:"end_at"`
	Author       string       `json:"author"`
	VenueID      string       `json:"venue"`
	Rating       int          `json:"rating"`
	Status       string       `json:"status"`
	PreviewImage *string      `json:"preview_image"`
	WeatherID    *string      `json:"weather"`
	Images       []EventImage `json:"images"`
	CreatedAt    time.Time    `json:"created_at"`
	UpdatedAt    time.Time    `json:"updated_at"`
}

func NewEventFromEntity(event entity.Event, mediaURL func(key string) string) Event {
	out := Event{
		ID:          event.ID,
		Title:       event.Title,
		Description: event.Description,
		PublishAt:   event.PublishAt,
		StartAt:     event.StartAt,
		EndAt:       event.EndAt,
		VenueID:     event.VenueID,
		Rating:      event.Rating,
		Status:      string(event.Status),
		WeatherID:   event.WeatherID,
		Images:      make([]EventImage, 0, len(event.Images)),
		CreatedAt:   event.CreatedAt,
		UpdatedAt:   event.UpdatedAt,
	}
	if event.Author != nil {
		out.Author = event.Author.String()
	}
	if event.PreviewImage != "" {
		preview := mediaURL(event.PreviewImage)
		out.PreviewImage = &preview
	}
	for _, image := range event.Images {
		out.Images = append(out.Images, EventImage{
			ID:        image.ID,
			Image:     mediaURL(image.Image),
			CreatedAt: image.CreatedAt,
		})
	}
	return out
}

type EventList struct {
	Count   int64   `json:"count"`
	Results []Event `json:"results"`
}
