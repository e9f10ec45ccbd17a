package dto

// Task names understood by the worker.
const (
	TaskFetchEventWeather     = "weather.fetch_event"
	TaskSendEventNotification = "notification.send_event"
)

type FetchEventWeatherPayload struct {
	EventID string `json:"event_id"`
}

type SendEventNotificationPayload struct {
	EventID       string   `json:"event_id"`
	Subject       string   `json:"subject"`
	Message       string   `json:"message"`
	RecipientList []string `json:"recipient_list"`
}
