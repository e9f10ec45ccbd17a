package media

import (
	"context"
	"io"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Badsnus/events-backend/internal/domain/common/errorz"
)

func TestLocalStorage(t *testing.T) {
	storage := NewLocalStorageFs(afero.NewMemMapFs(), "/media/")
	ctx := context.Background()

	require.NoError(t, storage.Put(ctx, "events/images/a.png", []byte("png"), "image/png"))

	r, err := storage.Open(ctx, "events/images/a.png")
	require.NoError(t, err)
	data, err := io.ReadAll(r)
	require.NoError(t, r.Close())
	require.NoError(t, err)
	assert.Equal(t, "png", string(data))

	assert.Equal(t, "/media/events/images/a.png", storage.URL("events/images/a.png"))

	_, err = storage.Open(ctx, "events/images/missing.png")
	assert.ErrorIs(t, err, errorz.ErrNotFound)
}

func TestLocalStorage_RejectsEscapingKeys(t *testing.T) {
	storage := NewLocalStorageFs(afero.NewMemMapFs(), "/media")

	assert.ErrorIs(t, storage.Put(context.Background(), "../etc/passwd", nil, ""), errorz.ErrValidation)
	_, err := storage.Open(context.Background(), "")
	assert.ErrorIs(t, err, errorz.ErrValidation)
}
