package image

import (
	"bytes"
	"fmt"
	"image"

	// register decoders for DecodeConfig
	_ "image/jpeg"
	_ "image/png"
)

// Size of an image in pixels
type Size struct {
	Width  uint `json:"width"`
	Height uint `json:"height"`
}

// Longest returns max(width, height)
func (s Size) Longest() uint {
	if s.Width > s.Height {
		return s.Width
	}
	return s.Height
}

// IsZero ...
func (s Size) IsZero() bool {
	return s.Width == 0 || s.Height == 0
}

func (s Size) String() string {
	return fmt.Sprintf("%dx%d", s.Width, s.Height)
}

// SizeOf returns the bounds of m
func SizeOf(m image.Image) Size {
	b := m.Bounds()
	return Size{Width: uint(b.Dx()), Height: uint(b.Dy())}
}

// Attr describes an encoded image without decoding its pixels
type Attr struct {
	Size
	Format   Format   `json:"format"`
	Ext      string   `json:"ext,omitempty"`
	Mime     string   `json:"mime,omitempty"`
	Bytes    int      `json:"bytes"`
	Metadata []string `json:"metadata,omitempty"`
}

// ReadAttr inspects an encoded image
func ReadAttr(data []byte) (*Attr, error) {
	f := GuessFormat(data)
	if f == FormatNone {
		return nil, ErrorFormat
	}
	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, &DecodeError{Err: err}
	}
	return &Attr{
		Size:     Size{Width: uint(cfg.Width), Height: uint(cfg.Height)},
		Format:   f,
		Ext:      f.Ext(),
		Mime:     f.Mime(),
		Bytes:    len(data),
		Metadata: MetadataBlocks(data),
	}, nil
}
