package entity

import (
	"time"

	"github.com/lib/pq"
)

// EmailNotificationConfig controls the publish notification templates and recipients.
// Only the first row is ever consulted.
type EmailNotificationConfig struct {
	ID              string `gorm:"primaryKey;type:uuid;default:gen_random_uuid()"`
	CreatedAt       time.Time
	UpdatedAt       time.Time
	SubjectTemplate string `gorm:"not null;default:'New event: {title}'"`
	MessageTemplate string `gorm:"type:text;not null;default:'{title} starts at {date} ({venue}). {description}'"`
	RecipientsList  string `gorm:"type:text"`
	SendToAllUsers  bool   `gorm:"not null;default:false"`
}

// NotificationLog records a delivered publish notification
type NotificationLog struct {
	ID         string         `gorm:"primaryKey;type:uuid;default:gen_random_uuid()"`
	EventID    string         `gorm:"not null;type:uuid;index"`
	TaskID     string         `gorm:"index"`
	Subject    string         `gorm:"not null"`
	Recipients pq.StringArray `gorm:"type:text[]"`
	Failed     pq.StringArray `gorm:"type:text[]"`
	CreatedAt  time.Time      `gorm:"not null"`
}
