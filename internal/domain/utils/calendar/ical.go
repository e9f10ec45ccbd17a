package calendar

import (
	"bytes"
	"fmt"
	"time"

	ics "github.com/arran4/golang-ical"

	"github.com/Badsnus/events-backend/internal/domain/entity"
)

const productID = "-//Events Backend//EN"

const ContentType = "text/calendar; charset=utf-8"

// ExportEventsToICS serializes events into an iCalendar feed. Every event gets a
// stable UID, its venue as location, and display alarms one day and one hour
// before the start.
func ExportEventsToICS(events []entity.Event) ([]byte, error) {
	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId(productID)
	cal.SetVersion("2.0")
	cal.SetCalscale("GREGORIAN")

	now := time.Now()
	for _, event := range events {
		e := cal.AddEvent(fmt.Sprintf("%s@events-backend", event.ID))

		// DTSTAMP is required by most mobile clients
		e.SetDtStampTime(now)
		e.SetCreatedTime(event.CreatedAt)
		e.SetModifiedAt(event.UpdatedAt)

		e.SetStartAt(event.StartAt)
		e.SetEndAt(event.EndAt)

		e.SetSummary(event.Title)
		if event.Description != "" {
			e.SetDescription(event.Description)
		}
		e.SetLocation(event.VenueName(""))

		e.SetStatus(ics.ObjectStatusConfirmed)
		e.SetTimeTransparency(ics.TransparencyOpaque)
		e.SetClass(ics.ClassificationPublic)
		e.SetSequence(0)

		dayAlarm := e.AddAlarm()
		dayAlarm.SetAction(ics.ActionDisplay)
		dayAlarm.AddProperty("TRIGGER;VALUE=DURATION", "-P1D")
		dayAlarm.SetDescription(fmt.Sprintf("Reminder: %s (tomorrow)", event.Title))

		hourAlarm := e.AddAlarm()
		hourAlarm.SetAction(ics.ActionDisplay)
		hourAlarm.AddProperty("TRIGGER;VALUE=DURATION", "-PT1H")
		hourAlarm.SetDescription(fmt.Sprintf("Reminder: %s (in one hour)", event.Title))
	}

	var buf bytes.Buffer
	if err := cal.SerializeTo(&buf); err != nil {
		return nil, fmt.Errorf("error serializing calendar: %w", err)
	}

	return buf.Bytes(), nil
}

// ExportEventToICS serializes a single event.
func ExportEventToICS(event entity.Event) ([]byte, error) {
	return ExportEventsToICS([]entity.Event{event})
}
