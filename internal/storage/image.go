// Package storage validates uploaded images and writes them under the
// media root.
package storage

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/gif"  // register GIF decoder
	_ "image/jpeg" // register JPEG decoder
	_ "image/png"  // register PNG decoder
	"regexp"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
)

// ErrInvalidImage is returned for payloads that are not a supported image.
var ErrInvalidImage = errors.New("upload a valid image")

// allowedImages maps sniffed MIME types to the extension used on disk.
var allowedImages = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/gif":  ".gif",
}

// ImageInfo describes a validated upload.
type ImageInfo struct {
	MIME   string
	Ext    string
	Width  int
	Height int
}

// InspectImage sniffs data and checks that it decodes as an image of a
// supported type.
func InspectImage(data []byte) (ImageInfo, error) {
	if len(data) == 0 {
		return ImageInfo{}, fmt.Errorf("%w: empty file", ErrInvalidImage)
	}
	mt := mimetype.Detect(data)
	ext, ok := allowedImages[mt.String()]
	if !ok {
		return ImageInfo{}, fmt.Errorf("%w: unsupported type %s", ErrInvalidImage, mt.String())
	}
	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return ImageInfo{}, fmt.Errorf("%w: %v", ErrInvalidImage, err)
	}
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return ImageInfo{}, fmt.Errorf("%w: empty dimensions", ErrInvalidImage)
	}
	return ImageInfo{MIME: mt.String(), Ext: ext, Width: cfg.Width, Height: cfg.Height}, nil
}

var nonSlug = regexp.MustCompile(`[^a-z0-9]+`)

// Slugify lower-cases s and joins its ASCII alphanumeric runs with '-'.
func Slugify(s string) string {
	return strings.Trim(nonSlug.ReplaceAllString(strings.ToLower(s), "-"), "-")
}

// MovieImageName builds "uploads/movies/<slug>-<uuid><ext>".
func MovieImageName(title, ext string) string {
	slug := Slugify(title)
	if slug == "" {
		slug = "movie"
	}
	return "uploads/movies/" + slug + "-" + uuid.NewString() + ext
}
