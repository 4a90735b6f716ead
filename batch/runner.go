// Package batch runs the resize processor over every image of a folder.
package batch

import (
	"context"
	"sync"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"github.com/go-imsto/imresize/image"
	zlog "github.com/go-imsto/imresize/log"
	"github.com/go-imsto/imresize/processor"
)

// Result of one task
type Result = processor.Result

// ProgressFunc receives every result as soon as its task is done.
// Calls are serialized.
type ProgressFunc func(res processor.Result, completed, total int)

// Option ...
type Option func(*Runner)

// WithCodec ...
func WithCodec(c image.Codec) Option {
	return func(r *Runner) {
		r.codec = c
	}
}

// WithWorkers sets how many files are processed at once
func WithWorkers(n int) Option {
	return func(r *Runner) {
		if n > 0 {
			r.workers = n
		}
	}
}

// WithProgress ...
func WithProgress(fn ProgressFunc) Option {
	return func(r *Runner) {
		r.progress = fn
	}
}

// Runner executes jobs. A Runner runs one job at a time.
type Runner struct {
	codec    image.Codec
	workers  int
	progress ProgressFunc

	state atomic.Uint32
	mu    sync.Mutex // guards the completed counter and progress
}

// New returns a Runner, the default codec is used unless WithCodec is given
func New(opts ...Option) (*Runner, error) {
	r := &Runner{workers: 1}
	for _, opt := range opts {
		opt(r)
	}
	if r.codec == nil {
		c, err := image.NewCodec("")
		if err != nil {
			return nil, err
		}
		r.codec = c
	}
	return r, nil
}

func logger() zlog.Logger {
	return zlog.Get()
}

// State returns the current state
func (r *Runner) State() State {
	return State(r.state.Load())
}

func (r *Runner) setState(s State) {
	r.state.Store(uint32(s))
}

func (r *Runner) option(job *Job) processor.Option {
	return processor.Option{Codec: r.codec, TargetSize: job.TargetSize, Quality: job.Quality}
}

// Run validates job, then processes each of its tasks. An error is returned
// only when the run could not start; per-file failures are in the Summary.
// Cancelling ctx stops before the next task, the remaining ones are
// reported as skipped.
func (r *Runner) Run(ctx context.Context, job *Job) (*Summary, error) {
	sum := &Summary{JobID: job.ID}
	r.setState(Validating)
	err := job.Validate()
	if err == nil {
		err = job.prepare()
	}
	var tasks []processor.Task
	if err == nil {
		tasks, err = job.Tasks()
	}
	if err != nil {
		r.setState(ConfigRejected)
		sum.State = ConfigRejected
		logger().Warnw("job rejected", "job", job.ID, "err", err)
		return sum, err
	}

	r.setState(Running)
	sum.Total = len(tasks)
	sum.Results = make([]processor.Result, len(tasks))
	logger().Infow("job start", "job", job.ID, "src", job.Source, "dst", job.Destination,
		"total", sum.Total, "size", job.TargetSize, "quality", job.Quality, "workers", r.workers, "codec", r.codec.Name())

	var completed int
	report := func(res processor.Result) {
		sum.Results[res.Task.Index] = res
		r.mu.Lock()
		defer r.mu.Unlock()
		completed++
		if r.progress != nil {
			r.progress(res, completed, sum.Total)
		}
	}

	opt := r.option(job)
	if r.workers <= 1 {
		for _, task := range tasks {
			if ctx.Err() != nil {
				report(processor.Skip(task, processor.ReasonCancelled))
				continue
			}
			report(processor.Process(task, opt))
		}
	} else {
		g := new(errgroup.Group)
		g.SetLimit(r.workers)
		for _, task := range tasks {
			task := task
			if ctx.Err() != nil {
				report(processor.Skip(task, processor.ReasonCancelled))
				continue
			}
			g.Go(func() error {
				if ctx.Err() != nil {
					report(processor.Skip(task, processor.ReasonCancelled))
					return nil
				}
				report(processor.Process(task, opt))
				return nil
			})
		}
		_ = g.Wait()
	}

	sum.tally()
	sum.Cancelled = ctx.Err() != nil && hasCancelled(sum.Results)
	if sum.Cancelled {
		sum.State = Cancelled
	} else {
		sum.State = Completed
	}
	r.setState(sum.State)
	logger().Infow("job done", "job", job.ID, "state", sum.State, "total", sum.Total,
		"succeeded", sum.Succeeded, "skipped", sum.Skipped, "failed", sum.Failed)
	return sum, nil
}

// ProcessFile resizes one file of job outside a full run
func (r *Runner) ProcessFile(job *Job, src string) (processor.Result, error) {
	if err := job.Validate(); err != nil {
		return processor.Result{}, err
	}
	return processor.Process(job.TaskFor(0, src), r.option(job)), nil
}

func hasCancelled(results []processor.Result) bool {
	for _, res := range results {
		if res.Outcome == processor.Skipped && res.Reason == processor.ReasonCancelled {
			return true
		}
	}
	return false
}
