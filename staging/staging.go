// Package staging holds uploaded image bytes between the moment a user picks
// a file and the moment the form is submitted. Staged files are previewed
// from here and never reach the backend until submit.
package staging

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"mime/multipart"
	"net/http"
	"path"
	"strings"

	"github.com/google/uuid"
	_ "golang.org/x/image/webp"
)

// MaxFileSize is the per-image upload limit.
const MaxFileSize = 5 << 20

var (
	// ErrTooLarge is returned for files over MaxFileSize.
	ErrTooLarge = errors.New("staging: file too large")
	// ErrUnsupported is returned for anything that is not a jpeg, png, gif
	// or webp image.
	ErrUnsupported = errors.New("staging: unsupported image type")
	// ErrNotFound is returned when a key has no stored bytes.
	ErrNotFound = errors.New("staging: not found")
)

// File describes one staged upload.
type File struct {
	Key         string
	Name        string
	ContentType string
	Size        int64
}

// Store keeps staged bytes by key.
type Store interface {
	Put(ctx context.Context, key, contentType string, r io.Reader, size int64) error
	Open(ctx context.Context, key string) (io.ReadCloser, error)
	Delete(ctx context.Context, key string) error
}

var allowedTypes = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/gif":  ".gif",
	"image/webp": ".webp",
}

// Stage validates an uploaded file and writes it to s under prefix.
func Stage(ctx context.Context, s Store, prefix string, fh *multipart.FileHeader) (File, error) {
	if fh.Size > MaxFileSize {
		return File{}, fmt.Errorf("%w: %s", ErrTooLarge, fh.Filename)
	}
	src, err := fh.Open()
	if err != nil {
		return File{}, fmt.Errorf("open upload: %w", err)
	}
	defer src.Close()

	data, err := io.ReadAll(io.LimitReader(src, MaxFileSize+1))
	if err != nil {
		return File{}, fmt.Errorf("read upload: %w", err)
	}
	if len(data) > MaxFileSize {
		return File{}, fmt.Errorf("%w: %s", ErrTooLarge, fh.Filename)
	}
	return StageBytes(ctx, s, prefix, fh.Filename, data)
}

// StageBytes is Stage for bytes already in memory.
func StageBytes(ctx context.Context, s Store, prefix, name string, data []byte) (File, error) {
	if len(data) > MaxFileSize {
		return File{}, fmt.Errorf("%w: %s", ErrTooLarge, name)
	}
	ct, err := Sniff(data)
	if err != nil {
		return File{}, fmt.Errorf("%w: %s", err, name)
	}
	key := path.Join(prefix, uuid.NewString()+allowedTypes[ct])
	if err := s.Put(ctx, key, ct, bytes.NewReader(data), int64(len(data))); err != nil {
		return File{}, fmt.Errorf("stage %s: %w", name, err)
	}
	return File{Key: key, Name: cleanName(name), ContentType: ct, Size: int64(len(data))}, nil
}

// Sniff returns the image content type of data, or ErrUnsupported. The magic
// bytes must name an allowed type and the header must decode.
func Sniff(data []byte) (string, error) {
	ct := http.DetectContentType(data)
	if _, ok := allowedTypes[ct]; !ok {
		return "", ErrUnsupported
	}
	if _, _, err := image.DecodeConfig(bytes.NewReader(data)); err != nil {
		return "", ErrUnsupported
	}
	return ct, nil
}

// Discard deletes every file, ignoring keys already gone.
func Discard(ctx context.Context, s Store, files []File) error {
	var errs []error
	for _, f := range files {
		if err := s.Delete(ctx, f.Key); err != nil && !errors.Is(err, ErrNotFound) {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func cleanName(name string) string {
	name = path.Base(strings.ReplaceAll(name, "\\", "/"))
	if name == "." || name == "/" || name == "" {
		return "image"
	}
	return name
}
