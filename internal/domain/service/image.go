package service

import (
	"context"
	"fmt"
	"path"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"

	"github.com/Badsnus/events-backend/internal/domain/common/errorz"
	"github.com/Badsnus/events-backend/internal/domain/entity"
	"github.com/Badsnus/events-backend/pkg/logger/types"
	"github.com/Badsnus/events-backend/pkg/preview"
)

type MediaStorage interface {
	Put(ctx context.Context, key string, data []byte, contentType string) error
	URL(key string) string
}

type EventImageStorage interface {
	Create(ctx context.Context, image *entity.EventImage) (*entity.EventImage, error)
}

type imageEventStorage interface {
	Get(ctx context.Context, id string) (*entity.Event, error)
}

type ImageService struct {
	media        MediaStorage
	storage      EventImageStorage
	eventStorage imageEventStorage
	eventSaver   eventSaver
	logger       *types.Logger
}

func NewImageService(
	media MediaStorage,
	storage EventImageStorage,
	eventStorage imageEventStorage,
	eventSaver eventSaver,
	logger *types.Logger,
) *ImageService {
	return &ImageService{
		media:        media,
		storage:      storage,
		eventStorage: eventStorage,
		eventSaver:   eventSaver,
		logger:       logger,
	}
}

// AddImage stores an uploaded image for the event. The first image of an event
// without a preview also produces the preview.
func (s *ImageService) AddImage(ctx context.Context, eventID, filename string, data []byte) (*entity.EventImage, error) {
	mime := mimetype.Detect(data)
	if !strings.HasPrefix(mime.String(), "image/") {
		return nil, fmt.Errorf("%w: unsupported content type %s", errorz.ErrValidation, mime.String())
	}

	event, err := s.eventStorage.Get(ctx, eventID)
	if err != nil {
		return nil, err
	}

	ext := mime.Extension()
	if ext == "" {
		ext = strings.ToLower(path.Ext(filename))
	}
	key := fmt.Sprintf("events/images/%s%s", uuid.NewString(), ext)
	if err = s.media.Put(ctx, key, data, mime.String()); err != nil {
		return nil, err
	}

	image, err := s.storage.Create(ctx, &entity.EventImage{EventID: event.ID, Image: key})
	if err != nil {
		return nil, err
	}

	if event.PreviewImage == "" {
		if err = s.attachPreview(ctx, event, data); err != nil {
			s.logger.Warnf("failed to generate preview (event_id=%s): %v", event.ID, err)
		}
	}

	return image, nil
}

func (s *ImageService) attachPreview(ctx context.Context, event *entity.Event, data []byte) error {
	thumb, err := preview.Make(data, preview.DefaultWidth)
	if err != nil {
		return err
	}

	key := fmt.Sprintf("events/previews/preview_%s.jpg", event.ID)
	if err = s.media.Put(ctx, key, thumb, "image/jpeg"); err != nil {
		return err
	}

	event.PreviewImage = key
	_, err = s.eventSaver.Save(ctx, event, false, entity.EventFieldPreviewImage)
	return err
}

func (s *ImageService) URL(key string) string {
	return s.media.URL(key)
}
