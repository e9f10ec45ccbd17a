package validator

import (
	"github.com/Badsnus/events-backend/internal/domain/entity"
)

// Event checks the event invariants: title present, rating within 0..25,
// end strictly after start and a known status.
func Event(event *entity.Event) error {
	return Struct(event)
}

func Venue(venue *entity.Venue) error {
	return Struct(venue)
}
