package image

import (
	"bytes"
	"fmt"

	jpegstructure "github.com/dsoprea/go-jpeg-image-structure/v2"
	pngstructure "github.com/dsoprea/go-png-image-structure/v2"
)

const (
	markerCOM   = 0xfe
	markerAPP0  = 0xe0
	markerAPP15 = 0xef
)

var pngMetaChunks = map[string]bool{
	"tEXt": true,
	"zTXt": true,
	"iTXt": true,
	"iCCP": true,
	"eXIf": true,
	"tIME": true,
}

// MetadataBlocks lists the auxiliary blocks (EXIF, XMP, ICC profiles,
// comments, text chunks) found in an encoded JPEG or PNG file.
func MetadataBlocks(data []byte) []string {
	switch GuessFormat(data) {
	case FormatJPEG:
		return jpegMetadata(data)
	case FormatPNG:
		return pngMetadata(data)
	}
	return nil
}

func jpegMetadata(data []byte) (out []string) {
	// segments read before a parse error are still returned
	mc, _ := jpegstructure.NewJpegMediaParser().ParseBytes(data)
	sl, ok := mc.(*jpegstructure.SegmentList)
	if !ok || sl == nil {
		return
	}
	for _, s := range sl.Segments() {
		switch {
		case s.MarkerId == markerCOM:
			out = append(out, "comment")
		case s.MarkerId >= markerAPP0 && s.MarkerId <= markerAPP15:
			if name := appName(s.MarkerId, s.Data); name != "" {
				out = append(out, name)
			}
		}
	}
	return
}

func appName(marker byte, payload []byte) string {
	switch {
	case marker == markerAPP0 && bytes.HasPrefix(payload, []byte("JFIF\x00")):
		// format header, not metadata
		return ""
	case marker == markerAPP0+1 && bytes.HasPrefix(payload, []byte("Exif\x00")):
		return "exif"
	case marker == markerAPP0+1 && bytes.HasPrefix(payload, []byte("http://ns.adobe.com/xap/")):
		return "xmp"
	case marker == markerAPP0+2 && bytes.HasPrefix(payload, []byte("ICC_PROFILE\x00")):
		return "icc"
	}
	return fmt.Sprintf("app%d", marker-markerAPP0)
}

func pngMetadata(data []byte) (out []string) {
	mc, _ := pngstructure.NewPngMediaParser().ParseBytes(data)
	cs, ok := mc.(*pngstructure.ChunkSlice)
	if !ok || cs == nil {
		return
	}
	for _, c := range cs.Chunks() {
		if pngMetaChunks[c.Type] {
			out = append(out, c.Type)
		}
	}
	return
}
