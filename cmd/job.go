package cmd

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-imsto/imresize/batch"
	"github.com/go-imsto/imresize/config"
	"github.com/go-imsto/imresize/image"
	"github.com/go-imsto/imresize/processor"
)

// jobFlags are shared by resize and watch
type jobFlags struct {
	src, dst  string
	size      uint
	quality   int
	overwrite bool
	workers   int
	codec     string
	jobFile   string
}

func (jf *jobFlags) register(fs *flag.FlagSet) {
	c := config.Current
	fs.StringVar(&jf.src, "src", "", "source folder containing images")
	fs.StringVar(&jf.dst, "dst", "", "destination folder for resized images")
	fs.UintVar(&jf.size, "size", c.Size, "target size of the longest side, in pixels")
	fs.IntVar(&jf.quality, "q", c.Quality, "JPEG quality (1-95)")
	fs.BoolVar(&jf.overwrite, "overwrite", false, "overwrite original images")
	fs.IntVar(&jf.workers, "workers", c.Workers, "files processed at once")
	fs.StringVar(&jf.codec, "codec", c.Codec, fmt.Sprintf("resampling backend %v", image.Codecs()))
	fs.StringVar(&jf.jobFile, "job", "", "YAML job file, flags given explicitly win")
}

// load merges the job file under the explicitly set flags
func (jf *jobFlags) load(fs *flag.FlagSet) error {
	if jf.jobFile == "" {
		return nil
	}
	f, err := config.LoadJobFile(jf.jobFile)
	if err != nil {
		return err
	}
	set := map[string]bool{}
	fs.Visit(func(fl *flag.Flag) { set[fl.Name] = true })
	if !set["src"] {
		jf.src = f.Source
	}
	if !set["dst"] {
		jf.dst = f.Destination
	}
	if !set["size"] {
		jf.size = f.Size
	}
	if !set["q"] {
		jf.quality = f.Quality
	}
	if !set["overwrite"] {
		jf.overwrite = f.Overwrite
	}
	if !set["workers"] {
		jf.workers = f.Workers
	}
	if !set["codec"] {
		jf.codec = f.Codec
	}
	return nil
}

func (jf *jobFlags) job() *batch.Job {
	return batch.NewJob(jf.src, jf.dst, jf.size, jf.quality, jf.overwrite)
}

func (jf *jobFlags) runner(progress batch.ProgressFunc) (*batch.Runner, error) {
	c, err := image.NewCodec(jf.codec)
	if err != nil {
		return nil, err
	}
	return batch.New(batch.WithCodec(c), batch.WithWorkers(jf.workers), batch.WithProgress(progress))
}

// signalContext is cancelled on SIGINT or SIGTERM
func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}

func printResult(w io.Writer, res processor.Result, completed, total int) {
	pct := 100
	if total > 0 {
		pct = completed * 100 / total
	}
	fmt.Fprintf(w, "[%d/%d %3d%%] %-9s %s  %s\n", completed, total, pct, res.Outcome, res.Task.Name, res.Message())
}

func printSummary(w io.Writer, sum *batch.Summary) {
	if sum.Total == 0 {
		fmt.Fprintln(w, "No images found in the source folder.")
		return
	}
	fmt.Fprintf(w, "%s: %d images, %d resized, %d skipped, %d failed\n",
		sum.State, sum.Total, sum.Succeeded, sum.Skipped, sum.Failed)
}
