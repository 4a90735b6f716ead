package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/go-imsto/imresize/batch"
	"github.com/go-imsto/imresize/image"
	"github.com/go-imsto/imresize/utils"
)

var cmdWatch = &Command{
	UsageLine: "watch -src DIR [-dst DIR | -overwrite] [-size 1920] [-q 80]",
	Short:     "resize images as they arrive in a folder",
	Long: `
Resize the images already in -src, then keep watching the folder and
resize every JPG/JPEG/PNG file written or moved into it, until
interrupted. Flags are the same as for resize, and images already within
the size are not copied to -dst either.
`,
}

var (
	watchFlags jobFlags
	watchQuiet time.Duration
)

func init() {
	cmdWatch.Run = runWatch
	watchFlags.register(&cmdWatch.Flag)
	cmdWatch.Flag.DurationVar(&watchQuiet, "settle", 500*time.Millisecond, "wait for writes to settle before resizing")
}

func runWatch(args []string) bool {
	if err := watchFlags.load(&cmdWatch.Flag); err != nil {
		errorf("load job: %s", err)
		setExitStatus(1)
		return true
	}
	if watchFlags.src == "" && len(args) > 0 {
		watchFlags.src = args[0]
	}
	if watchFlags.src == "" {
		return false
	}

	r, err := watchFlags.runner(func(res batch.Result, completed, total int) {
		printResult(os.Stdout, res, completed, total)
	})
	if err != nil {
		errorf("%s", err)
		setExitStatus(2)
		return true
	}

	ctx, cancel := signalContext()
	defer cancel()

	job := watchFlags.job()
	sum, err := r.Run(ctx, job)
	if err != nil {
		errorf("Error: %s", err)
		setExitStatus(2)
		return true
	}
	printSummary(os.Stdout, sum)

	w, err := fsnotify.NewWatcher()
	if err != nil {
		errorf("watcher: %s", err)
		setExitStatus(1)
		return true
	}
	atExit(func() { w.Close() })
	if err = w.Add(job.Source); err != nil {
		errorf("watch %s: %s", job.Source, err)
		setExitStatus(1)
		return true
	}
	fmt.Printf("watching %s\n", job.Source)
	logger().Infow("watching", "src", job.Source, "job", job.ID)

	if watchQuiet < 10*time.Millisecond {
		watchQuiet = 10 * time.Millisecond
	}
	pending := map[string]time.Time{}
	tick := time.NewTicker(watchQuiet / 2)
	defer tick.Stop()
	var done int
	for {
		select {
		case <-ctx.Done():
			fmt.Printf("stopped, %d files handled\n", done)
			return true
		case ev, ok := <-w.Events:
			if !ok {
				return true
			}
			if !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Rename) {
				continue
			}
			if image.IsSupported(ev.Name) && filepath.Dir(ev.Name) == filepath.Clean(job.Source) {
				pending[ev.Name] = time.Now()
			}
		case err, ok := <-w.Errors:
			if !ok {
				return true
			}
			logger().Warnw("watch error", "err", err)
		case now := <-tick.C:
			for name, seen := range pending {
				if now.Sub(seen) < watchQuiet {
					continue
				}
				delete(pending, name)
				if !settled(name) {
					continue
				}
				res, err := r.ProcessFile(job, name)
				if err != nil {
					errorf("%s", err)
					continue
				}
				done++
				printResult(os.Stdout, res, done, done)
			}
		}
	}
}

// settled reports whether name is a non-empty regular file. An empty file
// is still being written; its next write event queues it again.
func settled(name string) bool {
	return utils.IsRegular(name) && utils.FileSize(name) > 0
}
