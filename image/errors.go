package image

import (
	"errors"
	"fmt"
)

var (
	ErrorFormat     = errors.New("invalid or unsupported image format")
	ErrUnknownCodec = errors.New("unknown codec")
	ErrEmptyImage   = errors.New("image has no pixels")
)

// DecodeError is returned when a source can not be read as a supported image
type DecodeError struct {
	Path string
	Err  error
}

func (e *DecodeError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("decode: %s", e.Err)
	}
	return fmt.Sprintf("decode %s: %s", e.Path, e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}
