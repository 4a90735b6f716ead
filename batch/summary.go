package batch

import "github.com/go-imsto/imresize/processor"

// State of a Runner
type State uint8

const (
	Idle State = iota
	Validating
	Running
	Completed
	Cancelled
	ConfigRejected
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Validating:
		return "validating"
	case Running:
		return "running"
	case Completed:
		return "completed"
	case Cancelled:
		return "cancelled"
	case ConfigRejected:
		return "config-rejected"
	}
	return "unknown"
}

// MarshalText implements the encoding.TextMarshaler interface.
func (s State) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Summary is the tally of a finished run
type Summary struct {
	JobID     string             `json:"jobID"`
	State     State              `json:"state"`
	Total     int                `json:"total"`
	Succeeded int                `json:"succeeded"`
	Skipped   int                `json:"skipped"`
	Failed    int                `json:"failed"`
	Cancelled bool               `json:"cancelled"`
	Results   []processor.Result `json:"results"`
}

func (s *Summary) tally() {
	s.Succeeded, s.Skipped, s.Failed = 0, 0, 0
	for _, r := range s.Results {
		switch r.Outcome {
		case processor.Succeeded:
			s.Succeeded++
		case processor.Skipped:
			s.Skipped++
		case processor.Failed:
			s.Failed++
		}
	}
}
