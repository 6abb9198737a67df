package ports

// FileSystem is the file access used for TLS material and debug captures.
type FileSystem interface {
	ReadFile(path string) ([]byte, error)

	// WriteFile replaces path with data, creating parent directories.
	WriteFile(path string, data []byte) error

	MkdirAll(path string) error
}
