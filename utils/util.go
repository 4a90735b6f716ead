package utils

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/renameio/v2"
)

// FSError records a failed filesystem operation and the path that caused it
type FSError struct {
	Op   string
	Path string
	Err  error
}

func (e *FSError) Error() string {
	return fmt.Sprintf("%s %s: %s", e.Op, e.Path, e.Err)
}

func (e *FSError) Unwrap() error {
	return e.Err
}

// ReadyDir ...
func ReadyDir(filename string) error {
	dir := filepath.Dir(filename)
	if err := os.MkdirAll(dir, os.FileMode(0755)); err != nil {
		return &FSError{Op: "mkdir", Path: dir, Err: err}
	}
	return nil
}

// WriteFileAtomic writes through fn into a pending file next to filename
// and renames it into place. The pending file is removed on failure.
func WriteFileAtomic(filename string, perm os.FileMode, fn func(f *os.File) error) (err error) {
	if err = ReadyDir(filename); err != nil {
		return
	}
	var pf *renameio.PendingFile
	pf, err = renameio.TempFile(filepath.Dir(filename), filename)
	if err != nil {
		return &FSError{Op: "create", Path: filename, Err: err}
	}
	defer pf.Cleanup() // no-op once replaced

	if err = fn(pf.File); err != nil {
		return
	}
	if err = pf.Chmod(perm); err != nil {
		return &FSError{Op: "chmod", Path: pf.Name(), Err: err}
	}
	if err = pf.CloseAtomicallyReplace(); err != nil {
		return &FSError{Op: "rename", Path: filename, Err: err}
	}
	return nil
}

// Exists returns true if a file exists
func Exists(fpath string) bool {
	_, err := os.Stat(fpath)
	return !os.IsNotExist(err)
}

// IsDir ...
func IsDir(fpath string) bool {
	fi, err := os.Stat(fpath)
	return err == nil && fi.Mode().IsDir()
}

// IsRegular ...
func IsRegular(fpath string) bool {
	fi, err := os.Stat(fpath)
	return err == nil && fi.Mode().IsRegular()
}

// FileSize return file size, return -1 if error
func FileSize(fpath string) int64 {
	if fi, err := os.Stat(fpath); err == nil {
		return fi.Size()
	}
	return -1
}

// FileMode returns the permission bits of fpath, or def when it can not be read
func FileMode(fpath string, def os.FileMode) os.FileMode {
	if fi, err := os.Stat(fpath); err == nil {
		return fi.Mode().Perm()
	}
	return def
}
