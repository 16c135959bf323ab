// Package image normalizes uploaded pictures before they are stored.
package image

import (
	"bytes"
	"fmt"
	"io"

	"github.com/disintegration/imaging"
)

const (
	ThumbnailMaxSide = 512
	ThumbnailQuality = 85
	ThumbnailExt     = "jpg"
)

// Thumbnail decodes r, applies EXIF orientation and fits it into a maxSide square, returning JPEG bytes.
// Images already within bounds keep their size.
func Thumbnail(r io.Reader, maxSide int) ([]byte, error) {
	img, err := imaging.Decode(r, imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}

	bounds := img.Bounds()
	if bounds.Dx() > maxSide || bounds.Dy() > maxSide {
		img = imaging.Fit(img, maxSide, maxSide, imaging.Lanczos)
	}

	var buf bytes.Buffer
	if err = imaging.Encode(&buf, img, imaging.JPEG, imaging.JPEGQuality(ThumbnailQuality)); err != nil {
		return nil, fmt.Errorf("failed to encode image: %w", err)
	}

	return buf.Bytes(), nil
}
