// Package imagedecoder decodes still-image frame payloads using the standard
// codecs plus the golang.org/x/image codecs.
package imagedecoder

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/gif"  // register GIF
	_ "image/jpeg" // register JPEG
	_ "image/png"  // register PNG

	_ "golang.org/x/image/bmp"  // register BMP
	_ "golang.org/x/image/tiff" // register TIFF
	_ "golang.org/x/image/webp" // register WebP

	"github.com/user/phonecam/pkg/ports"
)

// Format is an image container format detected from magic bytes.
type Format string

const (
	FormatJPEG    Format = "jpeg"
	FormatPNG     Format = "png"
	FormatGIF     Format = "gif"
	FormatWebP    Format = "webp"
	FormatBMP     Format = "bmp"
	FormatTIFF    Format = "tiff"
	FormatUnknown Format = "unknown"
)

var (
	// ErrUnsupportedFormat is returned when the payload is not a known image format.
	ErrUnsupportedFormat = errors.New("imagedecoder: unsupported format")
	// ErrEmptyPayload is returned for zero-length payloads.
	ErrEmptyPayload = errors.New("imagedecoder: empty payload")
)

// Decoder implements ports.ImageDecoder.
type Decoder struct{}

// New creates a new Decoder.
func New() *Decoder {
	return &Decoder{}
}

// Decode decodes data into an image.
func (d *Decoder) Decode(data []byte) (image.Image, string, error) {
	if err := precheck(data); err != nil {
		return nil, string(FormatUnknown), err
	}
	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, format, fmt.Errorf("decode %s: %w", Detect(data), err)
	}
	return img, format, nil
}

// DecodeConfig reads the image header only.
func (d *Decoder) DecodeConfig(data []byte) (image.Config, string, error) {
	if err := precheck(data); err != nil {
		return image.Config{}, string(FormatUnknown), err
	}
	return image.DecodeConfig(bytes.NewReader(data))
}

func precheck(data []byte) error {
	if len(data) == 0 {
		return ErrEmptyPayload
	}
	if Detect(data) == FormatUnknown {
		return ErrUnsupportedFormat
	}
	return nil
}

// Detect identifies the image format from the leading magic bytes.
func Detect(data []byte) Format {
	switch {
	case bytes.HasPrefix(data, []byte{0xFF, 0xD8, 0xFF}):
		return FormatJPEG
	case bytes.HasPrefix(data, []byte("\x89PNG\r\n\x1a\n")):
		return FormatPNG
	case bytes.HasPrefix(data, []byte("GIF87a")), bytes.HasPrefix(data, []byte("GIF89a")):
		return FormatGIF
	case len(data) >= 12 && bytes.Equal(data[0:4], []byte("RIFF")) && bytes.Equal(data[8:12], []byte("WEBP")):
		return FormatWebP
	case bytes.HasPrefix(data, []byte("BM")):
		return FormatBMP
	case bytes.HasPrefix(data, []byte("II*\x00")), bytes.HasPrefix(data, []byte("MM\x00*")):
		return FormatTIFF
	default:
		return FormatUnknown
	}
}

// Ensure Decoder implements ports.ImageDecoder
var _ ports.ImageDecoder = (*Decoder)(nil)
