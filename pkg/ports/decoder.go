package ports

import (
	"image"
)

// ImageDecoder decodes a single encoded still image.
type ImageDecoder interface {
	// Decode returns the image and the detected format name ("jpeg", "png", ...).
	Decode(data []byte) (image.Image, string, error)

	// DecodeConfig returns dimensions without decoding pixel data.
	DecodeConfig(data []byte) (image.Config, string, error)
}
