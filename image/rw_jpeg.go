package image

import (
	"image"
	"image/color"
	"image/draw"
	"image/jpeg"
	"io"
)

type opaquer interface {
	Opaque() bool
}

func encodeJPEG(w io.Writer, m image.Image, quality int) error {
	if quality == 0 {
		quality = DefaultQuality
	}
	return jpeg.Encode(w, flatten(m), &jpeg.Options{Quality: ClampQuality(quality)})
}

// flatten composes images with transparency over a white background,
// JPEG has no alpha channel.
func flatten(m image.Image) image.Image {
	if o, ok := m.(opaquer); !ok || o.Opaque() {
		return m
	}
	b := m.Bounds()
	dst := image.NewRGBA(b)
	draw.Draw(dst, b, image.NewUniform(color.White), image.Point{}, draw.Src)
	draw.Draw(dst, b, m, b.Min, draw.Over)
	return dst
}
