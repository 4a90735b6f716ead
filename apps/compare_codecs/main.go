// compare_codecs resizes one image with every resampling backend, to compare
// quality and speed side by side.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-imsto/imresize/image"
)

var (
	size    = flag.Uint("size", 400, "longest side of the outputs")
	quality = flag.Int("q", image.DefaultQuality, "JPEG quality")
	outDir  = flag.String("o", ".", "output directory")
)

func main() {
	flag.Parse()
	if flag.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "usage: compare_codecs [-size 400] [-q 80] [-o dir] image")
		os.Exit(2)
	}
	src := flag.Arg(0)

	file, err := os.Open(src)
	if err != nil {
		log.Fatal(err)
	}
	m, format, err := image.Decode(file)
	file.Close()
	if err != nil {
		log.Fatal(err)
	}
	orig := image.SizeOf(m)
	dst, ok := image.FitLongest(orig, *size)
	if !ok {
		log.Fatalf("%s is already within %d", orig, *size)
	}
	log.Printf("format: %s, %s -> %s", format, orig, dst)

	base := strings.TrimSuffix(filepath.Base(src), filepath.Ext(src))
	for i, name := range image.Codecs() {
		c, err := image.NewCodec(name)
		if err != nil {
			log.Fatal(err)
		}
		start := time.Now()
		rm := c.Resize(m, dst)
		elapsed := time.Since(start)
		filename := filepath.Join(*outDir, base+"."+name+format.Ext())
		n, err := encode(c, rm, format, filename)
		if err != nil {
			log.Fatal(err)
		}
		log.Printf("%d resize with %-8s %8s  %7d bytes  %s", i, name, elapsed.Round(time.Millisecond), n, filename)
	}
}

func encode(c image.Codec, m image.Image, format image.Format, filename string) (int, error) {
	out, err := os.Create(filename)
	if err != nil {
		return 0, err
	}
	defer out.Close()

	return c.Encode(out, m, image.WriteOption{Format: format, Quality: *quality})
}
