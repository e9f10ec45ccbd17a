package postgres

import "github.com/Badsnus/events-backend/internal/domain/entity"

// Migrations is a list of all gorm migrations for the database.
var Migrations = []interface{}{
	&entity.User{},
	&entity.Venue{},
	&entity.WeatherSnapshot{},
	&entity.Event{},
	&entity.EventImage{},
	&entity.EmailNotificationConfig{},
	&entity.NotificationLog{},
}
