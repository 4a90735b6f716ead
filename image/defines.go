package image

import (
	"bufio"
	"bytes"
	"io"
	"path/filepath"
	"strings"
)

// Format of an encoded image
type Format uint8

const (
	FormatNone Format = iota
	FormatJPEG
	FormatPNG
)

const (
	sigJPEG = "\xff\xd8\xff"
	sigPNG  = "\211PNG\r\n\032\n"
)

// JPEG quality range accepted by encoders
const (
	MinQuality     = 1
	MaxQuality     = 95
	DefaultQuality = 80
)

func (f Format) String() string {
	switch f {
	case FormatJPEG:
		return "jpeg"
	case FormatPNG:
		return "png"
	}
	return "unknown"
}

// Ext returns the canonical extension
func (f Format) Ext() string {
	switch f {
	case FormatJPEG:
		return ".jpg"
	case FormatPNG:
		return ".png"
	}
	return ""
}

// Mime ...
func (f Format) Mime() string {
	switch f {
	case FormatJPEG:
		return "image/jpeg"
	case FormatPNG:
		return "image/png"
	}
	return ""
}

// MarshalText implements the encoding.TextMarshaler interface.
func (f Format) MarshalText() ([]byte, error) {
	return []byte(f.String()), nil
}

// GuessFormat detects the format from the leading bytes of a file
func GuessFormat(head []byte) Format {
	if bytes.HasPrefix(head, []byte(sigJPEG)) {
		return FormatJPEG
	}
	if bytes.HasPrefix(head, []byte(sigPNG)) {
		return FormatPNG
	}
	return FormatNone
}

// FormatByExt maps a file name or extension to a Format, case-insensitively
func FormatByExt(name string) Format {
	ext := strings.ToLower(filepath.Ext(name))
	if ext == "" {
		ext = "." + strings.ToLower(name)
	}
	switch ext {
	case ".jpg", ".jpeg":
		return FormatJPEG
	case ".png":
		return FormatPNG
	}
	return FormatNone
}

// IsSupported reports whether name carries a supported image extension
func IsSupported(name string) bool {
	return FormatByExt(name) != FormatNone
}

// ClampQuality limits q to [MinQuality, MaxQuality]
func ClampQuality(q int) int {
	if q < MinQuality {
		return MinQuality
	}
	if q > MaxQuality {
		return MaxQuality
	}
	return q
}

const headSize = 8

// A reader is an io.Reader that can also peek ahead.
type reader interface {
	io.Reader
	Peek(int) ([]byte, error)
}

// asReader converts an io.Reader to a reader.
func asReader(r io.Reader) reader {
	if rr, ok := r.(reader); ok {
		return rr
	}
	return bufio.NewReader(r)
}
