package image

import (
	"image"

	"github.com/anthonynsimon/bild/transform"
	"github.com/disintegration/imaging"
	"github.com/nfnt/resize"
	"golang.org/x/image/draw"
)

func init() {
	RegisterResampler("nfnt", resampleNfnt)
	RegisterResampler("imaging", resampleImaging)
	RegisterResampler("bild", resampleBild)
	RegisterResampler("xdraw", resampleXDraw)
}

func resampleNfnt(m image.Image, sz Size) image.Image {
	return resize.Resize(sz.Width, sz.Height, m, resize.Lanczos3)
}

func resampleImaging(m image.Image, sz Size) image.Image {
	return imaging.Resize(m, int(sz.Width), int(sz.Height), imaging.Lanczos)
}

func resampleBild(m image.Image, sz Size) image.Image {
	return transform.Resize(m, int(sz.Width), int(sz.Height), transform.Lanczos)
}

func resampleXDraw(m image.Image, sz Size) image.Image {
	dst := image.NewRGBA(image.Rect(0, 0, int(sz.Width), int(sz.Height)))
	draw.CatmullRom.Scale(dst, dst.Bounds(), m, m.Bounds(), draw.Src, nil)
	return dst
}
