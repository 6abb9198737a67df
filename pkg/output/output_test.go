package output

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/user/phonecam/pkg/adapters/logger"
	"github.com/user/phonecam/pkg/mocks"
	"github.com/user/phonecam/pkg/pipeline"
	"github.com/user/phonecam/pkg/ports"
)

var testFormat = ports.CameraFormat{Width: 4, Height: 2, FPS: 30, Device: "test"}

func TestSink_OpenWriteClose(t *testing.T) {
	driver := mocks.NewCameraDriver()
	sink := New(driver, logger.NewNoop())

	require.NoError(t, sink.Open(testFormat))
	require.NoError(t, sink.Write(pipeline.NewFrame(4, 2)))
	require.NoError(t, sink.Close())

	assert.Equal(t, 1, driver.Camera.FrameCount())
	assert.Equal(t, 1, driver.Camera.Closed())
	assert.Equal(t, testFormat, sink.Format())
}

func TestSink_OpenFailureIsSinkUnavailable(t *testing.T) {
	driver := &mocks.CameraDriver{
		OpenFunc: func(ports.CameraFormat) (ports.Camera, error) {
			return nil, errors.New("device busy")
		},
	}
	sink := New(driver, logger.NewNoop())

	err := sink.Open(testFormat)
	require.Error(t, err)
	assert.True(t, errors.Is(err, pipeline.ErrSinkUnavailable))
	assert.Contains(t, err.Error(), "device busy")
}

func TestSink_OpenRejectsBadFormat(t *testing.T) {
	driver := mocks.NewCameraDriver()
	sink := New(driver, logger.NewNoop())

	err := sink.Open(ports.CameraFormat{Width: 0, Height: 720, FPS: 30})
	assert.ErrorIs(t, err, pipeline.ErrSinkUnavailable)
	assert.Equal(t, 0, driver.OpenCount())
}

func TestSink_WriteSizeMismatch(t *testing.T) {
	driver := mocks.NewCameraDriver()
	sink := New(driver, logger.NewNoop())
	require.NoError(t, sink.Open(testFormat))

	err := sink.Write(pipeline.NewFrame(2, 4))
	assert.ErrorIs(t, err, pipeline.ErrFrameSize)

	short := pipeline.NewFrame(4, 2)
	short.Pix = short.Pix[:len(short.Pix)-1]
	assert.ErrorIs(t, sink.Write(short), pipeline.ErrFrameSize)

	assert.Equal(t, 0, driver.Camera.FrameCount())
}

func TestSink_WriteErrorIsSinkWrite(t *testing.T) {
	driver := mocks.NewCameraDriver()
	driver.Camera.WriteFunc = func([]byte) error { return errors.New("broken pipe") }
	sink := New(driver, logger.NewNoop())
	require.NoError(t, sink.Open(testFormat))

	err := sink.Write(pipeline.NewFrame(4, 2))
	assert.ErrorIs(t, err, pipeline.ErrSinkWrite)
}

func TestSink_WriteBeforeOpen(t *testing.T) {
	sink := New(mocks.NewCameraDriver(), logger.NewNoop())

	err := sink.Write(pipeline.NewFrame(4, 2))
	assert.ErrorIs(t, err, pipeline.ErrSinkWrite)
	assert.ErrorIs(t, err, ErrNotOpen)
}

func TestSink_CloseIsIdempotent(t *testing.T) {
	driver := mocks.NewCameraDriver()
	sink := New(driver, logger.NewNoop())

	// Never opened.
	require.NoError(t, sink.Close())

	require.NoError(t, sink.Open(testFormat))
	require.NoError(t, sink.Close())
	require.NoError(t, sink.Close())

	assert.Equal(t, 1, driver.Camera.Closed())
	assert.ErrorIs(t, sink.Write(pipeline.NewFrame(4, 2)), ErrNotOpen)
}
