package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"

	"github.com/Badsnus/events-backend/internal/domain/dto"
	"github.com/Badsnus/events-backend/internal/domain/entity"
	"github.com/Badsnus/events-backend/pkg/logger/types"
)

type sentMail struct {
	To, Subject, Body string
}

type fakeMailer struct {
	mu     sync.Mutex
	sent   []sentMail
	failTo map[string]bool
}

func (m *fakeMailer) Send(to, subject, body string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failTo[to] {
		return errors.New("mailbox unavailable")
	}
	m.sent = append(m.sent, sentMail{To: to, Subject: subject, Body: body})
	return nil
}

func (m *fakeMailer) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sent)
}

type memNotificationLogs struct {
	logs []entity.NotificationLog
}

func (s *memNotificationLogs) CreateLog(_ context.Context, log *entity.NotificationLog) error {
	s.logs = append(s.logs, *log)
	return nil
}

func (s *memNotificationLogs) GetLogs(_ context.Context, eventID string) ([]entity.NotificationLog, error) {
	var out []entity.NotificationLog
	for i := len(s.logs) - 1; i >= 0; i-- {
		if s.logs[i].EventID == eventID {
			out = append(out, s.logs[i])
		}
	}
	return out, nil
}

func TestSendEventNotification(t *testing.T) {
	mailer := &fakeMailer{failTo: map[string]bool{"bad@x.com": true}}
	logs := &memNotificationLogs{}
	service := NewNotifyService(mailer, logs, nopLogger())

	err := service.SendEventNotification(context.Background(), "task-1", dto.SendEventNotificationPayload{
		EventID:       "event-1",
		Subject:       "New event: Gala",
		Message:       "Gala starts soon",
		RecipientList: []string{"a@x.com", "bad@x.com", "b@x.com"},
	})

	require.NoError(t, err)
	require.Len(t, mailer.sent, 2)
	assert.Equal(t, sentMail{To: "a@x.com", Subject: "New event: Gala", Body: "Gala starts soon"}, mailer.sent[0])

	require.Len(t, logs.logs, 1)
	assert.Equal(t, "task-1", logs.logs[0].TaskID)
	assert.Equal(t, []string{"a@x.com", "b@x.com"}, []string(logs.logs[0].Recipients))
	assert.Equal(t, []string{"bad@x.com"}, []string(logs.logs[0].Failed))

	history, err := service.Logs(context.Background(), "event-1")
	require.NoError(t, err)
	assert.Len(t, history, 1)
}

func TestSendEventNotification_AllFailed(t *testing.T) {
	mailer := &fakeMailer{failTo: map[string]bool{"a@x.com": true}}
	logs := &memNotificationLogs{}
	service := NewNotifyService(mailer, logs, nopLogger())

	err := service.SendEventNotification(context.Background(), "task-1", dto.SendEventNotificationPayload{
		EventID:       "event-1",
		RecipientList: []string{"a@x.com"},
	})

	assert.Error(t, err)
	assert.Len(t, logs.logs, 1)
}

func TestSendEventNotification_NoRecipients(t *testing.T) {
	logs := &memNotificationLogs{}
	service := NewNotifyService(&fakeMailer{}, logs, nopLogger())

	require.NoError(t, service.SendEventNotification(context.Background(), "task-1", dto.SendEventNotificationPayload{EventID: "e"}))
	assert.Empty(t, logs.logs)
}

func TestLogHook(t *testing.T) {
	mailer := &fakeMailer{}
	hook := NewNotifyService(mailer, &memNotificationLogs{}, nopLogger()).LogHook("ops@x.com", zapcore.ErrorLevel)

	hook(types.Log{Level: zapcore.InfoLevel, Message: "fine"})
	hook(types.Log{Level: zapcore.ErrorLevel, Message: logHookFailureMessage + " to ops"})
	hook(types.Log{Level: zapcore.ErrorLevel, LoggerName: "main.tasks", Message: "task failed"})

	assert.Eventually(t, func() bool { return mailer.count() == 1 }, time.Second, 10*time.Millisecond)
	assert.Never(t, func() bool { return mailer.count() > 1 }, 100*time.Millisecond, 10*time.Millisecond)
}
