package service

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Badsnus/events-backend/internal/domain/common/errorz"
	"github.com/Badsnus/events-backend/internal/domain/dto"
	"github.com/Badsnus/events-backend/internal/domain/entity"
)

type memMedia struct {
	mu    sync.Mutex
	files map[string][]byte
}

func (m *memMedia) Put(_ context.Context, key string, data []byte, _ string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.files == nil {
		m.files = make(map[string][]byte)
	}
	m.files[key] = data
	return nil
}

func (m *memMedia) URL(key string) string {
	return "/media/" + key
}

type memEventImages struct {
	images []entity.EventImage
}

func (s *memEventImages) Create(_ context.Context, image *entity.EventImage) (*entity.EventImage, error) {
	image.ID = uuid.NewString()
	s.images = append(s.images, *image)
	return image, nil
}

func testPNG(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 400, 300))
	img.Set(10, 10, color.RGBA{R: 255, A: 255})
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestAddImage_FirstImageMakesPreviewWithoutRenotifying(t *testing.T) {
	f := newEventFixture(t)
	ctx := context.Background()
	event := f.draft(t)
	_, err := f.service.Update(ctx, event.ID, dto.EventPatch{Status: statusPtr(entity.EventStatusPublished)})
	require.NoError(t, err)

	media := &memMedia{}
	images := &memEventImages{}
	service := NewImageService(media, images, f.store, f.service, nopLogger())

	_, err = service.AddImage(ctx, event.ID, "photo.PNG", testPNG(t))
	require.NoError(t, err)
	_, err = service.AddImage(ctx, event.ID, "second.png", testPNG(t))
	require.NoError(t, err)

	stored, err := f.service.Get(ctx, event.ID)
	require.NoError(t, err)
	assert.Equal(t, "events/previews/preview_"+event.ID+".jpg", stored.PreviewImage)
	assert.Len(t, images.images, 2)
	assert.Contains(t, images.images[0].Image, ".png")
	assert.Len(t, media.files, 3)
	assert.Len(t, f.queue.named(dto.TaskSendEventNotification), 1)
}

func TestAddImage_RejectsNonImages(t *testing.T) {
	f := newEventFixture(t)
	event := f.draft(t)
	service := NewImageService(&memMedia{}, &memEventImages{}, f.store, f.service, nopLogger())

	_, err := service.AddImage(context.Background(), event.ID, "notes.txt", []byte("plain text"))

	assert.ErrorIs(t, err, errorz.ErrValidation)
}
