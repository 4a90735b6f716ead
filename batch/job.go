package batch

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/go-imsto/imresize/image"
	"github.com/go-imsto/imresize/processor"
	"github.com/go-imsto/imresize/utils"
)

// ErrInvalidConfig is matched by every *ConfigError
var ErrInvalidConfig = errors.New("invalid config")

// ConfigError reports a job parameter that failed validation
type ConfigError struct {
	Field  string
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("invalid config: %s %s", e.Field, e.Reason)
}

// Is ...
func (e *ConfigError) Is(target error) bool {
	return target == ErrInvalidConfig
}

// Job is one resize run over a folder
type Job struct {
	ID          string `json:"id"`
	Source      string `json:"source"`
	Destination string `json:"destination,omitempty"`
	TargetSize  uint   `json:"targetSize"`
	Quality     int    `json:"quality"`
	Overwrite   bool   `json:"overwrite"`
}

// NewJob creates a job with a fresh ID
func NewJob(source, destination string, size uint, quality int, overwrite bool) *Job {
	return &Job{
		ID:          uuid.New().String(),
		Source:      source,
		Destination: destination,
		TargetSize:  size,
		Quality:     quality,
		Overwrite:   overwrite,
	}
}

// Validate checks parameters only, no file is touched
func (j *Job) Validate() error {
	if j.Source == "" {
		return &ConfigError{Field: "source", Reason: "is required"}
	}
	if j.TargetSize == 0 {
		return &ConfigError{Field: "size", Reason: "must be greater than 0"}
	}
	if j.Quality < image.MinQuality || j.Quality > image.MaxQuality {
		return &ConfigError{Field: "quality",
			Reason: fmt.Sprintf("must be between %d and %d, got %d", image.MinQuality, image.MaxQuality, j.Quality)}
	}
	if !j.Overwrite && j.Destination == "" {
		return &ConfigError{Field: "destination", Reason: "is required unless overwrite is set"}
	}
	return nil
}

// prepare checks the source folder and creates the destination
func (j *Job) prepare() error {
	if !utils.IsDir(j.Source) {
		return &ConfigError{Field: "source", Reason: fmt.Sprintf("%q is not a directory", j.Source)}
	}
	if j.Overwrite {
		return nil
	}
	if err := os.MkdirAll(j.Destination, os.FileMode(0755)); err != nil {
		return &utils.FSError{Op: "mkdir", Path: j.Destination, Err: err}
	}
	return nil
}

// TaskFor builds the task for one source file
func (j *Job) TaskFor(index int, src string) processor.Task {
	name := filepath.Base(src)
	dst := src
	if !j.Overwrite {
		dst = filepath.Join(j.Destination, name)
	}
	return processor.Task{Index: index, Name: name, Source: src, Destination: dst}
}

// Tasks lists supported images directly under Source, in directory order
func (j *Job) Tasks() ([]processor.Task, error) {
	entries, err := os.ReadDir(j.Source)
	if err != nil {
		return nil, &utils.FSError{Op: "readdir", Path: j.Source, Err: err}
	}
	var tasks []processor.Task
	for _, entry := range entries {
		if entry.IsDir() || !image.IsSupported(entry.Name()) {
			continue
		}
		tasks = append(tasks, j.TaskFor(len(tasks), filepath.Join(j.Source, entry.Name())))
	}
	return tasks, nil
}
