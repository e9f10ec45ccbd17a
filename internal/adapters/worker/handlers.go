package worker

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/Badsnus/events-backend/internal/domain/dto"
)

type weatherFetcher interface {
	SetEventWeather(ctx context.Context, eventID string) error
}

type notificationSender interface {
	SendEventNotification(ctx context.Context, taskID string, payload dto.SendEventNotificationPayload) error
}

// FetchEventWeather handles dto.TaskFetchEventWeather.
func FetchEventWeather(fetcher weatherFetcher) Handler {
	return func(ctx context.Context, _ string, raw json.RawMessage) error {
		var payload dto.FetchEventWeatherPayload
		if err := json.Unmarshal(raw, &payload); err != nil {
			return fmt.Errorf("decode payload: %w", err)
		}
		return fetcher.SetEventWeather(ctx, payload.EventID)
	}
}

// SendEventNotification handles dto.TaskSendEventNotification.
func SendEventNotification(sender notificationSender) Handler {
	return func(ctx context.Context, taskID string, raw json.RawMessage) error {
		var payload dto.SendEventNotificationPayload
		if err := json.Unmarshal(raw, &payload); err != nil {
			return fmt.Errorf("decode payload: %w", err)
		}
		return sender.SendEventNotification(ctx, taskID, payload)
	}
}
