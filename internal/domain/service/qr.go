package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/Badsnus/events-backend/internal/domain/entity"
	qr "github.com/Badsnus/events-backend/pkg/qrcode"
)

type qrEventService interface {
	GetVisible(ctx context.Context, id string, viewer *entity.User) (*entity.Event, error)
}

type QrService struct {
	eventService qrEventService
	qrCFG        qr.Config
	publicURL    string
}

func NewQrService(eventService qrEventService, qrCFG qr.Config, publicURL string) *QrService {
	return &QrService{
		eventService: eventService,
		qrCFG:        qrCFG,
		publicURL:    strings.TrimRight(publicURL, "/"),
	}
}

// EventLink is the public API address of an event.
func (s *QrService) EventLink(eventID string) string {
	return fmt.Sprintf("%s/api/events/%s", s.publicURL, eventID)
}

// GetEventQR returns a PNG QR code pointing at the event.
func (s *QrService) GetEventQR(ctx context.Context, eventID string, viewer *entity.User) ([]byte, error) {
	event, err := s.eventService.GetVisible(ctx, eventID, viewer)
	if err != nil {
		return nil, err
	}
	return s.qrCFG.Generate(s.EventLink(event.ID))
}
