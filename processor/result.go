package processor

import (
	"encoding/json"
	"time"

	"github.com/go-imsto/imresize/image"
)

// Outcome of one task
type Outcome uint8

const (
	Succeeded Outcome = iota + 1
	Skipped
	Failed
)

// Skip reasons
const (
	ReasonWithinTarget = "already within target size"
	ReasonCancelled    = "cancelled"
)

func (o Outcome) String() string {
	switch o {
	case Succeeded:
		return "succeeded"
	case Skipped:
		return "skipped"
	case Failed:
		return "failed"
	}
	return "pending"
}

// MarshalText implements the encoding.TextMarshaler interface.
func (o Outcome) MarshalText() ([]byte, error) {
	return []byte(o.String()), nil
}

// Task is one image file of a run
type Task struct {
	Index       int    `json:"index"`
	Name        string `json:"name"`
	Source      string `json:"source"`
	Destination string `json:"destination"`
}

// Result is what Process reports for a task, exactly one per task
type Result struct {
	Task     Task          `json:"task"`
	Outcome  Outcome       `json:"outcome"`
	Reason   string        `json:"reason,omitempty"`
	Err      error         `json:"-"`
	Format   image.Format  `json:"format,omitempty"`
	Original image.Size    `json:"original"`
	Resized  image.Size    `json:"resized"`
	Written  int           `json:"written,omitempty"`
	Checksum string        `json:"checksum,omitempty"`
	Elapsed  time.Duration `json:"elapsed"`
}

// Message is a human readable status line
func (r Result) Message() string {
	switch r.Outcome {
	case Succeeded:
		return r.Original.String() + " -> " + r.Resized.String()
	case Skipped:
		return r.Reason
	case Failed:
		if r.Err != nil {
			return r.Err.Error()
		}
	}
	return ""
}

// MarshalJSON adds the error text
func (r Result) MarshalJSON() ([]byte, error) {
	type plain Result
	var errText string
	if r.Err != nil {
		errText = r.Err.Error()
	}
	return json.Marshal(struct {
		plain
		Error string `json:"error,omitempty"`
	}{plain(r), errText})
}

// Skip builds a Skipped result
func Skip(task Task, reason string) Result {
	return Result{Task: task, Outcome: Skipped, Reason: reason}
}
