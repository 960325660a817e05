// internal/imagestore/imagestore.go
//
// Object storage for ad photos.
//
// Context
// -------
// Photos are uploaded once at submission time and deleted when an admin
// removes the ad.  Objects are keyed "ads/{uuid}.{ext}" and referenced by
// their public URL in ad.Images.
//
// Implementations
// ---------------
//   - S3     – AWS S3 or any S3-compatible endpoint (production).
//   - Local  – files under a directory served by the app (development).
//   - Memory – in-process map (tests).
//
// Only JPEG, PNG, WebP, and GIF are accepted.  The type is sniffed from
// the first 512 bytes; the client's Content-Type header is ignored.
//
// Notes
// -----
// • Oxford commas, two spaces after periods.
package imagestore

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ErrUnsupportedType is returned for uploads that are not an accepted
// image format.
var ErrUnsupportedType = errors.New("imagestore: unsupported image type")

// ErrTooLarge is returned for a file above MaxImageSize.
var ErrTooLarge = errors.New("imagestore: image too large")

// MaxImageSize caps a single upload.
const MaxImageSize = 8 << 20

// KeyPrefix is the folder every ad image lives under.
const KeyPrefix = "ads/"

var accepted = map[string]string{
	"image/jpeg": "jpg",
	"image/png":  "png",
	"image/webp": "webp",
	"image/gif":  "gif",
}

// Store persists images and returns their public URL.
type Store interface {
	Put(ctx context.Context, key, contentType string, r io.Reader) (url string, err error)
	Remove(ctx context.Context, url string) error
}

// Sniff inspects the head of r and returns the content type, the file
// extension, and a reader that still yields the full stream.
func Sniff(r io.Reader) (contentType, ext string, body io.Reader, err error) {
	br := bufio.NewReaderSize(r, 512)
	head, err := br.Peek(512)
	if err != nil && !errors.Is(err, io.EOF) && !errors.Is(err, bufio.ErrBufferFull) {
		return "", "", nil, err
	}
	ct := http.DetectContentType(head)
	ext, ok := accepted[ct]
	if !ok {
		return "", "", nil, fmt.Errorf("%w: %s", ErrUnsupportedType, ct)
	}
	return ct, ext, br, nil
}

// NewKey returns a fresh object key for ext.
func NewKey(ext string) string {
	return KeyPrefix + uuid.NewString() + "." + ext
}

// UploadAll stores every file and returns their URLs in order.  Sizes are
// checked before anything is stored.  On failure the files already stored
// are removed again (best effort).
func UploadAll(ctx context.Context, s Store, files []*multipart.FileHeader) ([]string, error) {
	for _, fh := range files {
		if fh.Size > MaxImageSize {
			return nil, fmt.Errorf("%s: %w", fh.Filename, ErrTooLarge)
		}
	}

	urls := make([]string, 0, len(files))
	for _, fh := range files {
		u, err := uploadOne(ctx, s, fh)
		if err != nil {
			rollback(ctx, s, urls)
			return nil, err
		}
		urls = append(urls, u)
	}
	return urls, nil
}

func uploadOne(ctx context.Context, s Store, fh *multipart.FileHeader) (string, error) {
	f, err := fh.Open()
	if err != nil {
		return "", fmt.Errorf("open %s: %w", fh.Filename, err)
	}
	defer f.Close()

	ct, ext, body, err := Sniff(f)
	if err != nil {
		return "", err
	}
	return s.Put(ctx, NewKey(ext), ct, body)
}

func rollback(ctx context.Context, s Store, urls []string) {
	for _, u := range urls {
		if err := s.Remove(ctx, u); err != nil {
			zap.L().Warn("image rollback failed", zap.String("url", u), zap.Error(err))
		}
	}
}

// keyFromURL strips the public base from url.  ok is false for URLs this
// store did not issue.
func keyFromURL(base, url string) (string, bool) {
	base = strings.TrimRight(base, "/") + "/"
	if !strings.HasPrefix(url, base) {
		return "", false
	}
	key := strings.TrimPrefix(url, base)
	if !strings.HasPrefix(key, KeyPrefix) || strings.Contains(key, "..") {
		return "", false
	}
	return key, true
}
