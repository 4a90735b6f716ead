package image

import (
	"image"
	"image/png"
	"io"
)

var pngEncoder = &png.Encoder{CompressionLevel: png.BestCompression}

func encodePNG(w io.Writer, m image.Image) error {
	return pngEncoder.Encode(w, m)
}
