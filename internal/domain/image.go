package domain

import (
	"context"
	"io"
)

// ImageUploader stores an image with an external service and returns its display URL.
type ImageUploader interface {
	Upload(ctx context.Context, filename string, r io.Reader) (url string, err error)
}
