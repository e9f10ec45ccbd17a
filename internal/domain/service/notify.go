package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap/zapcore"

	"github.com/Badsnus/events-backend/internal/domain/dto"
	"github.com/Badsnus/events-backend/internal/domain/entity"
	"github.com/Badsnus/events-backend/pkg/logger/types"
)

const logHookFailureMessage = "failed to mail log entry"

type Mailer interface {
	Send(to, subject, body string) error
}

type notificationLogStorage interface {
	CreateLog(ctx context.Context, log *entity.NotificationLog) error
	GetLogs(ctx context.Context, eventID string) ([]entity.NotificationLog, error)
}

type NotifyService struct {
	mailer     Mailer
	logStorage notificationLogStorage
	logger     *types.Logger
}

func NewNotifyService(mailer Mailer, logStorage notificationLogStorage, logger *types.Logger) *NotifyService {
	return &NotifyService{
		mailer:     mailer,
		logStorage: logStorage,
		logger:     logger,
	}
}

// Logs returns the notifications sent for an event, newest first.
func (s *NotifyService) Logs(ctx context.Context, eventID string) ([]entity.NotificationLog, error) {
	return s.logStorage.GetLogs(ctx, eventID)
}

// SendEventNotification mails the rendered notification to every recipient separately
// and records the outcome. It fails only when no recipient could be reached, so a
// retried task does not mail the already reached ones again in the common case.
func (s *NotifyService) SendEventNotification(ctx context.Context, taskID string, payload dto.SendEventNotificationPayload) error {
	if len(payload.RecipientList) == 0 {
		return nil
	}

	var (
		delivered []string
		failed    []string
		errs      []error
	)
	for _, to := range payload.RecipientList {
		if err := s.mailer.Send(to, payload.Subject, payload.Message); err != nil {
			s.logger.Warnf("failed to send notification (event_id=%s, to=%s): %v", payload.EventID, to, err)
			failed = append(failed, to)
			errs = append(errs, err)
			continue
		}
		delivered = append(delivered, to)
	}

	err := s.logStorage.CreateLog(ctx, &entity.NotificationLog{
		EventID:    payload.EventID,
		TaskID:     taskID,
		Subject:    payload.Subject,
		Recipients: delivered,
		Failed:     failed,
	})
	if err != nil {
		s.logger.Errorf("failed to store notification log (event_id=%s): %v", payload.EventID, err)
	}

	if len(delivered) == 0 {
		return fmt.Errorf("notification for event %s not delivered: %w", payload.EventID, errors.Join(errs...))
	}

	s.logger.Infof("Notification sent (event_id=%s, delivered=%d, failed=%d)", payload.EventID, len(delivered), len(failed))
	return nil
}

// LogHook returns a log hook mailing entries at or above level to the given address.
func (s *NotifyService) LogHook(to string, level zapcore.Level) types.LogHook {
	return func(log types.Log) {
		if log.Level < level || strings.Contains(log.Message, logHookFailureMessage) {
			return
		}
		go func() {
			subject := fmt.Sprintf("[%s] %s", log.Level.CapitalString(), log.LoggerName)
			body := fmt.Sprintf("%s\n%s\n\n%s", log.Timestamp.Format("2006-01-02 15:04:05"), log.Caller, log.Message)
			if err := s.mailer.Send(to, subject, body); err != nil {
				s.logger.Errorf("%s to %s: %v", logHookFailureMessage, to, err)
			}
		}()
	}
}
