package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/go-imsto/imresize/batch"
	"github.com/go-imsto/imresize/utils"
)

var cmdResize = &Command{
	UsageLine: "resize -src DIR [-dst DIR | -overwrite] [-size 1920] [-q 80]",
	Short:     "resize all images of a folder",
	Long: `
Resize every JPG/JPEG/PNG image directly under -src so that its longest
side is -size pixels, keeping the aspect ratio. Metadata (EXIF, color
profiles, text chunks) is removed from every written file. Results go
to -dst, or replace the originals with -overwrite.

Images already within the size are skipped and left untouched: with
-dst they are not copied, so the destination folder only holds the
resized images.

Press Ctrl-C to stop after the file being processed.
`,
}

var (
	resizeFlags jobFlags
	reportFile  string
)

func init() {
	cmdResize.Run = runResize
	resizeFlags.register(&cmdResize.Flag)
	cmdResize.Flag.StringVar(&reportFile, "report", "", "write the summary as JSON to this file")
}

func runResize(args []string) bool {
	if err := resizeFlags.load(&cmdResize.Flag); err != nil {
		errorf("load job: %s", err)
		setExitStatus(1)
		return true
	}
	if resizeFlags.src == "" && len(args) > 0 {
		resizeFlags.src = args[0]
	}
	if resizeFlags.src == "" {
		return false
	}

	r, err := resizeFlags.runner(func(res batch.Result, completed, total int) {
		printResult(os.Stdout, res, completed, total)
	})
	if err != nil {
		errorf("%s", err)
		setExitStatus(2)
		return true
	}

	ctx, cancel := signalContext()
	defer cancel()

	sum, err := r.Run(ctx, resizeFlags.job())
	if err != nil {
		errorf("Error: %s", err)
		setExitStatus(2)
		return true
	}
	printSummary(os.Stdout, sum)
	if sum.Failed > 0 {
		setExitStatus(1)
	}

	if reportFile != "" {
		if err = writeReport(reportFile, sum); err != nil {
			errorf("write report: %s", err)
			setExitStatus(1)
		}
	}
	return true
}

func writeReport(filename string, sum *batch.Summary) error {
	data, err := json.MarshalIndent(sum, "", "  ")
	if err != nil {
		return err
	}
	return utils.WriteFileAtomic(filename, 0644, func(f *os.File) error {
		_, err := fmt.Fprintf(f, "%s\n", data)
		return err
	})
}
