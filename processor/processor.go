// Package processor resizes a single image file.
package processor

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spaolacci/murmur3"

	"github.com/go-imsto/imresize/image"
	zlog "github.com/go-imsto/imresize/log"
	"github.com/go-imsto/imresize/utils"
)

// Option ...
type Option struct {
	Codec      image.Codec
	TargetSize uint
	Quality    int
}

func logger() zlog.Logger {
	return zlog.Get()
}

// Process resizes task.Source into task.Destination. Errors are never
// returned, they end up in a Failed result.
func Process(task Task, opt Option) (res Result) {
	start := time.Now()
	res = Result{Task: task}
	defer func() {
		if p := recover(); p != nil {
			res.Outcome = Failed
			res.Err = fmt.Errorf("process %s: panic: %v", task.Source, p)
		}
		res.Elapsed = time.Since(start)
		logResult(res)
	}()

	if opt.Codec == nil {
		c, err := image.NewCodec("")
		if err != nil {
			return fail(res, err)
		}
		opt.Codec = c
	}

	m, format, err := decodeFile(opt.Codec, task.Source)
	if err != nil {
		return fail(res, err)
	}
	res.Format = format
	res.Original = image.SizeOf(m)

	size, ok := image.FitLongest(res.Original, opt.TargetSize)
	if !ok {
		res.Resized = res.Original
		res.Outcome = Skipped
		res.Reason = ReasonWithinTarget
		return
	}
	res.Resized = size

	// output keeps the extension the file is named with
	outFormat := image.FormatByExt(task.Destination)
	if outFormat == image.FormatNone {
		outFormat = format
	}
	res.Format = outFormat
	wopt := image.WriteOption{Format: outFormat, Quality: opt.Quality}

	dst := opt.Codec.Resize(m, size)
	perm := utils.FileMode(task.Source, 0644)
	h := murmur3.New128()
	err = utils.WriteFileAtomic(task.Destination, perm, func(f *os.File) error {
		n, err := opt.Codec.Encode(io.MultiWriter(f, h), dst, wopt)
		if err != nil {
			return &utils.FSError{Op: "encode", Path: task.Destination, Err: err}
		}
		res.Written = n
		return nil
	})
	if err != nil {
		res.Written = 0
		return fail(res, err)
	}
	h1, h2 := h.Sum128()
	res.Checksum = fmt.Sprintf("%016x%016x", h1, h2)
	res.Outcome = Succeeded
	return
}

func decodeFile(c image.Codec, name string) (m image.Image, format image.Format, err error) {
	var f *os.File
	f, err = os.Open(name)
	if err != nil {
		err = &utils.FSError{Op: "open", Path: name, Err: err}
		return
	}
	defer f.Close()
	m, format, err = c.Decode(f)
	if err != nil {
		err = &image.DecodeError{Path: name, Err: err}
	}
	return
}

func fail(res Result, err error) Result {
	res.Outcome = Failed
	res.Err = err
	return res
}

func logResult(res Result) {
	switch res.Outcome {
	case Failed:
		logger().Warnw("process fail", "src", res.Task.Source, "err", res.Err)
	case Skipped:
		logger().Debugw("skipped", "src", res.Task.Source, "reason", res.Reason, "size", res.Original)
	default:
		logger().Infow("resized", "src", res.Task.Source, "dst", res.Task.Destination,
			"from", res.Original, "to", res.Resized, "bytes", res.Written, "elapsed", res.Elapsed)
	}
}
