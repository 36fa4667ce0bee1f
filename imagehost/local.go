package imagehost

import (
	"bytes"
	"context"
	"os"
	"path/filepath"

	"github.com/disintegration/imaging"
	"github.com/google/uuid"
)

// Anything wider gets downscaled before it hits disk.
const maxWidth = 1280

// LocalStore keeps images on disk under Dir and serves them through the
// static file routes at BaseURL.
type LocalStore struct {
	Dir     string
	BaseURL string
}

func NewLocalStore(dir, baseURL string) (*LocalStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &LocalStore{Dir: dir, BaseURL: baseURL}, nil
}

func (s *LocalStore) Upload(ctx context.Context, dataURI string) (string, error) {
	data, mediaType, err := ParseDataURI(dataURI)
	if err != nil {
		return "", err
	}

	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return "", err
	}
	if img.Bounds().Dx() > maxWidth {
		img = imaging.Resize(img, maxWidth, 0, imaging.Lanczos)
	}

	ext := ".jpg"
	if mediaType == "image/png" {
		ext = ".png"
	}
	fname := uuid.New().String() + ext
	if err := imaging.Save(img, filepath.Join(s.Dir, fname)); err != nil {
		return "", err
	}

	return s.BaseURL + "/" + fname, nil
}
