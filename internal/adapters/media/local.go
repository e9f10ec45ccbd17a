package media

import (
	"context"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"

	"github.com/Badsnus/events-backend/internal/domain/common/errorz"
)

// LocalStorage keeps media files under a root directory and serves them below baseURL.
type LocalStorage struct {
	fs      afero.Fs
	baseURL string
}

func NewLocalStorage(dir, baseURL string) (*LocalStorage, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create media dir: %w", err)
	}
	return NewLocalStorageFs(afero.NewBasePathFs(afero.NewOsFs(), dir), baseURL), nil
}

// NewLocalStorageFs uses fs as the media root.
func NewLocalStorageFs(fs afero.Fs, baseURL string) *LocalStorage {
	return &LocalStorage{
		fs:      fs,
		baseURL: strings.TrimRight(baseURL, "/"),
	}
}

func (s *LocalStorage) Put(_ context.Context, key string, data []byte, _ string) error {
	name, err := cleanKey(key)
	if err != nil {
		return err
	}
	if err = s.fs.MkdirAll(filepath.Dir(name), 0o755); err != nil {
		return err
	}
	return afero.WriteFile(s.fs, name, data, 0o644)
}

func (s *LocalStorage) Open(_ context.Context, key string) (io.ReadCloser, error) {
	name, err := cleanKey(key)
	if err != nil {
		return nil, err
	}
	f, err := s.fs.Open(name)
	if os.IsNotExist(err) {
		return nil, errorz.ErrNotFound
	}
	return f, err
}

func (s *LocalStorage) URL(key string) string {
	return s.baseURL + "/" + strings.TrimLeft(key, "/")
}

// cleanKey rejects keys escaping the media root.
func cleanKey(key string) (string, error) {
	cleaned := path.Clean("/" + key)
	if cleaned == "/" || strings.Contains(key, "..") {
		return "", fmt.Errorf("%w: invalid media key %q", errorz.ErrValidation, key)
	}
	return filepath.FromSlash(cleaned), nil
}
