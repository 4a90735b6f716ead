package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-imsto/imresize/image"
	"github.com/go-imsto/imresize/utils"
)

var cmdInfo = &Command{
	UsageLine: "info DIR|FILE ...",
	Short:     "show size, format and metadata of images",
	Long: `
List the supported images of a folder (or the given files) with their
dimensions, format, file size and the metadata blocks they carry.
`,
}

func init() {
	cmdInfo.Run = runInfo
}

func runInfo(args []string) bool {
	if len(args) == 0 {
		return false
	}
	files, ok := infoFiles(args)
	if !ok {
		setExitStatus(1)
	}

	fmt.Printf("%-11s %-5s %9s  %-20s %s\n", "size", "fmt", "bytes", "metadata", "name")
	for _, fn := range files {
		data, err := os.ReadFile(fn)
		if err != nil {
			errorf("%s", err)
			setExitStatus(1)
			continue
		}
		a, err := image.ReadAttr(data)
		if err != nil {
			errorf("%s: %s", fn, err)
			setExitStatus(1)
			continue
		}
		meta := strings.Join(a.Metadata, ",")
		if meta == "" {
			meta = "-"
		}
		fmt.Printf("%-11s %-5s %9d  %-20s %s\n", a.Size, a.Format, a.Bytes, meta, fn)
	}
	return true
}

// infoFiles expands folders in args to their supported images. Missing
// paths are reported and make ok false.
func infoFiles(args []string) (files []string, ok bool) {
	ok = true
	for _, arg := range args {
		if !utils.Exists(arg) {
			errorf("%s: no such file or directory", arg)
			ok = false
			continue
		}
		if !utils.IsDir(arg) {
			files = append(files, arg)
			continue
		}
		entries, err := os.ReadDir(arg)
		if err != nil {
			errorf("%s", err)
			ok = false
			continue
		}
		for _, entry := range entries {
			if !entry.IsDir() && image.IsSupported(entry.Name()) {
				files = append(files, filepath.Join(arg, entry.Name()))
			}
		}
	}
	return
}
