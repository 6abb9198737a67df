package mocks

import (
	"errors"
	"image"

	"github.com/user/phonecam/pkg/ports"
)

// ImageDecoder is a mock implementation of ports.ImageDecoder.
// Without funcs set it returns a 100x100 black image.
type ImageDecoder struct {
	DecodeFunc       func(data []byte) (image.Image, string, error)
	DecodeConfigFunc func(data []byte) (image.Config, string, error)
}

func (m *ImageDecoder) Decode(data []byte) (image.Image, string, error) {
	if m.DecodeFunc != nil {
		return m.DecodeFunc(data)
	}
	return image.NewRGBA(image.Rect(0, 0, 100, 100)), "mock", nil
}

func (m *ImageDecoder) DecodeConfig(data []byte) (image.Config, string, error) {
	if m.DecodeConfigFunc != nil {
		return m.DecodeConfigFunc(data)
	}
	return image.Config{}, "", errors.New("mock: no config")
}

var _ ports.ImageDecoder = (*ImageDecoder)(nil)
