package service

import (
	"context"
	"slices"
	"time"

	"github.com/Badsnus/events-backend/internal/domain/dto"
	"github.com/Badsnus/events-backend/internal/domain/entity"
	"github.com/Badsnus/events-backend/internal/domain/utils/location"
	"github.com/Badsnus/events-backend/pkg/logger/types"
)

// UnknownVenue is rendered into {venue} when the event has no venue loaded.
const UnknownVenue = "Not specified"

const templateDateLayout = "2006-01-02 15:04:05-07:00"

type TaskQueue interface {
	Enqueue(ctx context.Context, name string, payload interface{}) (string, error)
}

type notificationConfigLoader interface {
	First(ctx context.Context) (*entity.EmailNotificationConfig, error)
}

type recipientResolver interface {
	Resolve(ctx context.Context, cfg *entity.EmailNotificationConfig) (RecipientSet, error)
}

// PublicationTrigger decides on every event save whether a weather fetch and a
// publish notification have to be queued. It never fails the save it is attached to.
type PublicationTrigger struct {
	queue             TaskQueue
	configLoader      notificationConfigLoader
	recipientResolver recipientResolver
	logger            *types.Logger
}

func NewPublicationTrigger(
	queue TaskQueue,
	configLoader notificationConfigLoader,
	recipientResolver recipientResolver,
	logger *types.Logger,
) *PublicationTrigger {
	return &PublicationTrigger{
		queue:             queue,
		configLoader:      configLoader,
		recipientResolver: recipientResolver,
		logger:            logger,
	}
}

// OnEventSaved runs after the event was persisted. changedFields lists the columns
// written by an update; nil or empty means the caller could not tell, and the
// status is then assumed to have changed.
func (t *PublicationTrigger) OnEventSaved(ctx context.Context, event *entity.Event, created bool, changedFields []string) {
	defer func() {
		if r := recover(); r != nil {
			t.logger.Errorf("publication trigger panicked (event_id=%s): %v", event.ID, r)
		}
	}()

	if event.Status != entity.EventStatusPublished {
		return
	}

	// a save of some other column (weather, preview) on an already published event
	if !created && len(changedFields) > 0 && !slices.Contains(changedFields, entity.EventFieldStatus) {
		t.logger.Debugf("skip publication side effects, status untouched (event_id=%s, fields=%v)", event.ID, changedFields)
		return
	}

	if !event.HasWeather() {
		t.dispatch(ctx, dto.TaskFetchEventWeather, dto.FetchEventWeatherPayload{EventID: event.ID})
	}

	cfg, err := t.configLoader.First(ctx)
	if err != nil {
		t.logger.Errorf("failed to load notification config (event_id=%s): %v", event.ID, err)
		return
	}
	if cfg == nil {
		t.logger.Debugf("no notification config, nothing to send (event_id=%s)", event.ID)
		return
	}

	recipients, err := t.recipientResolver.Resolve(ctx, cfg)
	if err != nil {
		t.logger.Errorf("failed to resolve recipients (event_id=%s): %v", event.ID, err)
		return
	}
	if len(recipients) == 0 {
		t.logger.Debugf("notification config yields no recipients (event_id=%s)", event.ID)
		return
	}

	subject, message := RenderTemplates(cfg.SubjectTemplate, cfg.MessageTemplate, TemplateValues(event))

	t.dispatch(ctx, dto.TaskSendEventNotification, dto.SendEventNotificationPayload{
		EventID:       event.ID,
		Subject:       subject,
		Message:       message,
		RecipientList: recipients.List(),
	})
}

func (t *PublicationTrigger) dispatch(ctx context.Context, name string, payload interface{}) {
	taskID, err := t.queue.Enqueue(ctx, name, payload)
	if err != nil {
		t.logger.Errorf("failed to enqueue %s: %v", name, err)
		return
	}
	t.logger.Infof("Enqueued %s (task_id=%s)", name, taskID)
}

// TemplateValues builds the placeholder values for an event.
func TemplateValues(event *entity.Event) map[string]string {
	return map[string]string{
		TemplateKeyTitle:       event.Title,
		TemplateKeyVenue:       event.VenueName(UnknownVenue),
		TemplateKeyDate:        FormatTemplateDate(event.StartAt),
		TemplateKeyDescription: event.Description,
	}
}

func FormatTemplateDate(t time.Time) string {
	return t.In(location.Location()).Format(templateDateLayout)
}
