// Package upload stores user-supplied files such as profile pictures.
package upload

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
)

var (
	// ErrUnsupportedMediaType is returned for uploads that are not images.
	ErrUnsupportedMediaType = errors.New("unsupported media type")
	// ErrContentTooLarge is returned for uploads over the configured size.
	ErrContentTooLarge = errors.New("content too large")
)

// Store persists uploaded files and resolves their public URLs. Deleting a
// key that does not exist is not an error.
type Store interface {
	Put(ctx context.Context, key string, contentType string, body []byte) error
	Delete(ctx context.Context, key string) error
	URL(key string) string
}

// ReadImage reads an uploaded file and checks by content sniffing that it is
// an image no larger than maxBytes.
func ReadImage(fh *multipart.FileHeader, maxBytes int64) ([]byte, *mimetype.MIME, error) {
	if maxBytes > 0 && fh.Size > maxBytes {
		return nil, nil, ErrContentTooLarge
	}
	file, err := fh.Open()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open upload: %w", err)
	}
	defer file.Close()

	buffer, err := io.ReadAll(file)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read upload: %w", err)
	}
	mtype := mimetype.Detect(buffer)
	if !strings.HasPrefix(mtype.String(), "image/") {
		return nil, nil, ErrUnsupportedMediaType
	}
	return buffer, mtype, nil
}

// NewKey returns a fresh, unguessable key under prefix, keeping the detected
// file extension.
func NewKey(prefix string, mtype *mimetype.MIME) string {
	return filepath.ToSlash(filepath.Join(prefix, uuid.NewString()+mtype.Extension()))
}
