package image

import (
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"io"
	"sort"
	"sync"
)

// DefaultCodec is the resampling backend used when none is named
const DefaultCodec = "nfnt"

// Image is the standard library image.Image
type Image = image.Image

// WriteOption ...
type WriteOption struct {
	Format  Format
	Quality int
}

// Codec decodes, resizes and encodes images. Encoded output never carries
// metadata: only pixels survive a Decode/Encode round.
type Codec interface {
	Name() string
	Decode(r io.Reader) (image.Image, Format, error)
	Resize(m image.Image, sz Size) image.Image
	Encode(w io.Writer, m image.Image, opt WriteOption) (int, error)
}

// Resampler scales m to exactly sz
type Resampler func(m image.Image, sz Size) image.Image

var (
	resamplersMu sync.RWMutex
	resamplers   = make(map[string]Resampler)
)

// RegisterResampler makes a resampling backend available by name
func RegisterResampler(name string, fn Resampler) {
	resamplersMu.Lock()
	defer resamplersMu.Unlock()
	if fn == nil {
		panic("image: nil resampler " + name)
	}
	resamplers[name] = fn
}

// Codecs returns the registered backend names, sorted
func Codecs() []string {
	resamplersMu.RLock()
	defer resamplersMu.RUnlock()
	names := make([]string, 0, len(resamplers))
	for name := range resamplers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// NewCodec returns the codec for a registered backend, "" means DefaultCodec
func NewCodec(name string) (Codec, error) {
	if name == "" {
		name = DefaultCodec
	}
	resamplersMu.RLock()
	fn, ok := resamplers[name]
	resamplersMu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownCodec, name)
	}
	return &codec{name: name, resample: fn}, nil
}

type codec struct {
	name     string
	resample Resampler
}

func (c *codec) Name() string {
	return c.name
}

func (c *codec) Decode(r io.Reader) (image.Image, Format, error) {
	return Decode(r)
}

func (c *codec) Resize(m image.Image, sz Size) image.Image {
	if sz == SizeOf(m) {
		return m
	}
	return c.resample(m, sz)
}

func (c *codec) Encode(w io.Writer, m image.Image, opt WriteOption) (int, error) {
	return SaveTo(w, m, opt)
}

// Decode reads a JPEG or PNG image, detected by signature
func Decode(r io.Reader) (m image.Image, f Format, err error) {
	rr := asReader(r)
	head, _ := rr.Peek(headSize)
	f = GuessFormat(head)
	switch f {
	case FormatJPEG:
		m, err = jpeg.Decode(rr)
	case FormatPNG:
		m, err = png.Decode(rr)
	default:
		return nil, FormatNone, ErrorFormat
	}
	if err != nil {
		return nil, f, err
	}
	if SizeOf(m).IsZero() {
		return nil, f, ErrEmptyImage
	}
	return
}

// SaveTo encodes m into w and returns the number of bytes written
func SaveTo(w io.Writer, m image.Image, opt WriteOption) (int, error) {
	cw := &CountWriter{}
	mw := io.MultiWriter(w, cw)
	var err error
	switch opt.Format {
	case FormatJPEG:
		err = encodeJPEG(mw, m, opt.Quality)
	case FormatPNG:
		err = encodePNG(mw, m)
	default:
		err = ErrorFormat
	}
	return cw.Len(), err
}

// CountWriter counts bytes passing through SaveTo
type CountWriter struct {
	n int
}

// Write implements for io.Writer
func (cw *CountWriter) Write(p []byte) (n int, err error) {
	n = len(p)
	cw.n += n
	return
}

// Len return count value
func (cw *CountWriter) Len() int {
	return cw.n
}
