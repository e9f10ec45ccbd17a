package dto

import (
	"time"

	"github.com/Badsnus/events-backend/internal/domain/entity"
)

type NotificationConfigInput struct {
	SubjectTemplate *string `json:"subject_template"`
	MessageTemplate *string `json:"message_template"`
	RecipientsList  *string `json:"recipients_list"`
	SendToAllUsers  *bool   `json:"send_to_all_users"`
}

type NotificationConfig struct {
	ID              string `json:"id"`
	SubjectTemplate string `json:"subject_template"`
	MessageTemplate string `json:"message_template"`
	RecipientsList  string `json:"recipients_list"`
	SendToAllUsers  bool   `json:"send_to_all_users"`
}

func NewNotificationConfigFromEntity(cfg entity.EmailNotificationConfig) NotificationConfig {
	return NotificationConfig{
		ID:              cfg.ID,
		SubjectTemplate: cfg.SubjectTemplate,
		MessageTemplate: cfg.MessageTemplate,
		RecipientsList:  cfg.RecipientsList,
		SendToAllUsers:  cfg.SendToAllUsers,
	}
}

type NotificationLog struct {
	ID         string    `json:"id"`
	TaskID     string    `json:"task_id"`
	Subject    string    `json:"subject"`
	Recipients []string  `json:"recipients"`
	Failed     []string  `json:"failed"`
	CreatedAt  time.Time `json:"created_at"`
}

func NewNotificationLogFromEntity(log entity.NotificationLog) NotificationLog {
	return NotificationLog{
		ID:         log.ID,
		TaskID:     log.TaskID,
		Subject:    log.Subject,
		Recipients: append([]string{}, log.Recipients...),
		Failed:     append([]string{}, log.Failed...),
		CreatedAt:  log.CreatedAt,
	}
}
