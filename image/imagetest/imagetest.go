// Package imagetest builds small encoded images for tests, optionally
// carrying metadata blocks.
package imagetest

import (
	"bytes"
	"encoding/binary"
	"hash/crc32"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"testing"
)

// Exif is a minimal APP1 payload
const Exif = "Exif\x00\x00MM\x00\x2a\x00\x00\x00\x08\x00\x00"

// Gradient returns an opaque w x h picture
func Gradient(w, h int) *image.NRGBA {
	m := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			m.Set(x, y, color.NRGBA{uint8(x * 255 / w), uint8(y * 255 / h), 128, 255})
		}
	}
	return m
}

// Transparent returns a w x h picture whose left half is fully transparent
func Transparent(w, h int) *image.NRGBA {
	m := Gradient(w, h)
	for y := 0; y < h; y++ {
		for x := 0; x < w/2; x++ {
			m.Set(x, y, color.NRGBA{})
		}
	}
	return m
}

// JPEG encodes a gradient, with an EXIF segment and a comment when withMeta
func JPEG(t testing.TB, w, h int, withMeta bool) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, Gradient(w, h), &jpeg.Options{Quality: 90}); err != nil {
		t.Fatalf("jpeg encode: %s", err)
	}
	data := buf.Bytes()
	if !withMeta {
		return data
	}
	out := append([]byte{}, data[:2]...)
	out = append(out, segment(0xe1, []byte(Exif))...)
	out = append(out, segment(0xfe, []byte("shot on a test"))...)
	return append(out, data[2:]...)
}

// PNG encodes m, with tEXt and iCCP-like chunks when withMeta
func PNG(t testing.TB, m image.Image, withMeta bool) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, m); err != nil {
		t.Fatalf("png encode: %s", err)
	}
	data := buf.Bytes()
	if !withMeta {
		return data
	}
	// signature (8) + IHDR chunk (4 + 4 + 13 + 4)
	const afterIHDR = 8 + 25
	out := append([]byte{}, data[:afterIHDR]...)
	out = append(out, chunk("tEXt", []byte("Comment\x00made in a test"))...)
	out = append(out, chunk("tIME", []byte{0x07, 0xea, 1, 2, 3, 4, 5})...)
	return append(out, data[afterIHDR:]...)
}

// WriteFile writes data under dir and returns the full path
func WriteFile(t testing.TB, dir, name string, data []byte) string {
	t.Helper()
	fn := filepath.Join(dir, name)
	if err := os.WriteFile(fn, data, 0644); err != nil {
		t.Fatalf("write %s: %s", fn, err)
	}
	return fn
}

// WithSegment inserts a JPEG marker segment right after SOI
func WithSegment(data []byte, marker byte, payload []byte) []byte {
	out := append([]byte{}, data[:2]...)
	out = append(out, segment(marker, payload)...)
	return append(out, data[2:]...)
}

func segment(marker byte, payload []byte) []byte {
	b := []byte{0xff, marker, 0, 0}
	binary.BigEndian.PutUint16(b[2:], uint16(len(payload)+2))
	return append(b, payload...)
}

func chunk(typ string, data []byte) []byte {
	b := make([]byte, 8, 12+len(data))
	binary.BigEndian.PutUint32(b, uint32(len(data)))
	copy(b[4:], typ)
	b = append(b, data...)
	crc := crc32.ChecksumIEEE(b[4:])
	return binary.BigEndian.AppendUint32(b, crc)
}
