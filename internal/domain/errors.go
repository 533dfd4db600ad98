package domain

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrFileNotFound is reported when the engine succeeded but nothing
	// carrying the expected name prefix was written.
	ErrFileNotFound = errors.New("Download completed but file not found")

	// ErrInvalidCommand is reported for unknown commands and bad arity.
	ErrInvalidCommand = errors.New("Invalid command")

	// ErrInvalidOptions is wrapped by DownloadOptions.Validate failures.
	ErrInvalidOptions = errors.New("invalid download options")

	// ErrHostNotAllowed rejects URLs outside the server's allowed hosts.
	ErrHostNotAllowed = errors.New("Invalid URL: host not allowed")

	// ErrInvalidQuality is wrapped when a "<res>p-<format>" quality is malformed.
	ErrInvalidQuality = errors.New("invalid quality")

	// ErrDeliveryNotFound is reported when a requested download file is gone.
	ErrDeliveryNotFound = errors.New("File not found")
)

// EngineErrorKind tells extraction failures from post-processing failures
type EngineErrorKind string

const (
	KindExtraction  EngineErrorKind = "extraction"
	KindPostProcess EngineErrorKind = "postprocess"
)

// EngineError is returned when the extraction engine exits unsuccessfully
type EngineError struct {
	Kind    EngineErrorKind
	Message string // last error line printed by the engine, if any
	Err     error
}

func (e *EngineError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("yt-dlp failed: %v", e.Err)
}

func (e *EngineError) Unwrap() error {
	return e.Err
}

// NewEngineError builds an EngineError, deriving its kind from the message
func NewEngineError(message string, err error) *EngineError {
	kind := KindExtraction
	lower := strings.ToLower(message)
	if strings.Contains(lower, "postprocessing") || strings.Contains(lower, "ffmpeg") {
		kind = KindPostProcess
	}
	return &EngineError{Kind: kind, Message: message, Err: err}
}
