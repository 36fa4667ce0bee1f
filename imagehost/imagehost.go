// Package imagehost is the boundary to wherever attachment and avatar
// images actually live. Handlers hand it a data URI and get back a URL
// they can persist; everything behind that is swappable.
package imagehost

import (
	"context"
	"encoding/base64"
	"errors"
	"strings"
)

type Store interface {
	// Upload stores the image encoded in dataURI and returns its public URL.
	Upload(ctx context.Context, dataURI string) (string, error)
}

var ErrNotConfigured = errors.New("imagehost: not configured")

// Noop rejects every upload. Used when no image store is wired up.
type Noop struct{}

func (Noop) Upload(ctx context.Context, dataURI string) (string, error) {
	return "", ErrNotConfigured
}

// ParseDataURI splits a "data:image/...;base64,..." URI into raw bytes
// and the declared media type.
func ParseDataURI(s string) ([]byte, string, error) {
	if !strings.HasPrefix(s, "data:") {
		return nil, "", errors.New("imagehost: not a data URI")
	}
	meta, payload, ok := strings.Cut(s[len("data:"):], ",")
	if !ok {
		return nil, "", errors.New("imagehost: malformed data URI")
	}
	mediaType, enc, _ := strings.Cut(meta, ";")
	if enc != "base64" {
		return nil, "", errors.New("imagehost: unsupported data URI encoding")
	}
	if !strings.HasPrefix(mediaType, "image/") {
		return nil, "", errors.New("imagehost: not an image")
	}
	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, "", err
	}
	return data, mediaType, nil
}
