// Package storage holds the screenshot file stores and the shared key/value
// storage used by the HTTP middleware.
package storage

import (
	"context"
	"errors"
	"io"
	"path"
	"strings"

	"github.com/google/uuid"
)

var ErrFileNotFound = errors.New("file not found")

// FileStore keeps uploaded payment screenshots.
type FileStore interface {
	Save(ctx context.Context, name string, body io.Reader, contentType string) error
	Open(ctx context.Context, name string) (io.ReadCloser, error)
	// Delete removes name. Deleting a missing file is not an error.
	Delete(ctx context.Context, name string) error
}

var allowedImageExt = map[string]string{
	"png":  "image/png",
	"jpg":  "image/jpeg",
	"jpeg": "image/jpeg",
}

// SanitizeFilename reduces a client supplied name to a safe base name made
// of letters, digits, dots, dashes and underscores. It returns "" when
// nothing usable is left.
func SanitizeFilename(name string) string {
	name = strings.ReplaceAll(name, "\\", "/")
	name = path.Base(name)

	var b strings.Builder
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '.', r == '-', r == '_':
			b.WriteRune(r)
		case r == ' ':
			b.WriteRune('_')
		}
	}
	return strings.TrimLeft(b.String(), "._")
}

// ImageContentType returns the content type for an allowed image name.
func ImageContentType(name string) (string, bool) {
	i := strings.LastIndexByte(name, '.')
	if i < 0 {
		return "", false
	}
	ct, ok := allowedImageExt[strings.ToLower(name[i+1:])]
	return ct, ok
}

// UniqueName prefixes the sanitized name with a random id so uploads never
// overwrite each other.
func UniqueName(original string) string {
	return uuid.NewString() + "_" + SanitizeFilename(original)
}
