package ports

// CameraFormat is the fixed output geometry of a virtual camera.
type CameraFormat struct {
	Width  int
	Height int
	FPS    int
	Device string // Device name or path, e.g. "/dev/video10"
}

// CameraDriver creates virtual camera devices.
type CameraDriver interface {
	// Open creates the device with the given format.
	// Implementations return an error wrapping pipeline.ErrSinkUnavailable
	// when the device is busy, missing, or rejects the format.
	Open(format CameraFormat) (Camera, error)
}

// Camera is an open virtual camera accepting packed RGB24 frames.
// Implementations need not be safe for concurrent use.
type Camera interface {
	// WriteFrame writes one frame of exactly Width*Height*3 bytes.
	WriteFrame(frame []byte) error

	// Device returns the resolved device name.
	Device() string

	// Close releases the device.
	Close() error
}
