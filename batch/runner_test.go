package batch

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/go-imsto/imresize/image"
	"github.com/go-imsto/imresize/image/imagetest"
	"github.com/go-imsto/imresize/processor"
	"github.com/go-imsto/imresize/utils"
)

func sizeOf(t *testing.T, fn string) image.Size {
	t.Helper()
	data, err := os.ReadFile(fn)
	require.NoError(t, err)
	a, err := image.ReadAttr(data)
	require.NoError(t, err)
	assert.Empty(t, a.Metadata, fn)
	return a.Size
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name  string
		job   Job
		field string
	}{
		{"ok", Job{Source: "in", Destination: "out", TargetSize: 1920, Quality: 80}, ""},
		{"ok overwrite", Job{Source: "in", TargetSize: 1, Quality: 95, Overwrite: true}, ""},
		{"no source", Job{Destination: "out", TargetSize: 10, Quality: 80}, "source"},
		{"zero size", Job{Source: "in", Destination: "out", Quality: 80}, "size"},
		{"quality low", Job{Source: "in", Destination: "out", TargetSize: 10, Quality: 0}, "quality"},
		{"quality high", Job{Source: "in", Destination: "out", TargetSize: 10, Quality: 96}, "quality"},
		{"no destination", Job{Source: "in", TargetSize: 10, Quality: 80}, "destination"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.job.Validate()
			if tt.field == "" {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, ErrInvalidConfig)
			var ce *ConfigError
			require.ErrorAs(t, err, &ce)
			assert.Equal(t, tt.field, ce.Field)
		})
	}
}

func TestRunRejectsConfigBeforeTouchingFiles(t *testing.T) {
	src := t.TempDir()
	imagetest.WriteFile(t, src, "a.jpg", imagetest.JPEG(t, 50, 50, false))
	dst := filepath.Join(t.TempDir(), "out")

	r, err := New()
	require.NoError(t, err)
	sum, err := r.Run(context.Background(), NewJob(src, dst, 10, 120, false))
	assert.ErrorIs(t, err, ErrInvalidConfig)
	assert.Equal(t, ConfigRejected, sum.State)
	assert.Equal(t, ConfigRejected, r.State())
	assert.False(t, utils.Exists(dst))

	_, err = r.Run(context.Background(), NewJob(filepath.Join(src, "nope"), dst, 10, 80, false))
	assert.ErrorIs(t, err, ErrInvalidConfig)

	blocker := imagetest.WriteFile(t, t.TempDir(), "blocker", nil)
	_, err = r.Run(context.Background(), NewJob(src, filepath.Join(blocker, "out"), 10, 80, false))
	var fe *utils.FSError
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, "mkdir", fe.Op)
}

func TestRunFolder(t *testing.T) {
	src := t.TempDir()
	imagetest.WriteFile(t, src, "a.jpg", imagetest.JPEG(t, 300, 200, true))
	imagetest.WriteFile(t, src, "b.JPEG", imagetest.JPEG(t, 100, 400, true))
	imagetest.WriteFile(t, src, "c.png", imagetest.PNG(t, imagetest.Gradient(80, 60), true))
	imagetest.WriteFile(t, src, "d.Png", imagetest.PNG(t, imagetest.Gradient(500, 500), true))
	imagetest.WriteFile(t, src, "broken.jpg", []byte("garbage"))
	imagetest.WriteFile(t, src, "notes.txt", []byte("hello"))
	imagetest.WriteFile(t, src, "anim.gif", []byte("GIF89a"))
	require.NoError(t, os.Mkdir(filepath.Join(src, "nested.jpg"), 0755))
	imagetest.WriteFile(t, filepath.Join(src, "nested.jpg"), "e.jpg", imagetest.JPEG(t, 300, 300, false))
	dst := filepath.Join(t.TempDir(), "resized")

	var calls []string
	var counters [][2]int
	r, err := New(WithProgress(func(res processor.Result, completed, total int) {
		calls = append(calls, res.Task.Name)
		counters = append(counters, [2]int{completed, total})
	}))
	require.NoError(t, err)

	job := NewJob(src, dst, 150, 80, false)
	sum, err := r.Run(context.Background(), job)
	require.NoError(t, err)

	assert.Equal(t, job.ID, sum.JobID)
	assert.Equal(t, Completed, sum.State)
	assert.Equal(t, 5, sum.Total)
	assert.Equal(t, 3, sum.Succeeded)
	assert.Equal(t, 1, sum.Skipped)
	assert.Equal(t, 1, sum.Failed)
	assert.False(t, sum.Cancelled)
	assert.Equal(t, []string{"a.jpg", "b.JPEG", "broken.jpg", "c.png", "d.Png"}, calls)
	assert.Equal(t, [][2]int{{1, 5}, {2, 5}, {3, 5}, {4, 5}, {5, 5}}, counters)

	byName := map[string]processor.Result{}
	for _, res := range sum.Results {
		byName[res.Task.Name] = res
	}
	assert.Equal(t, processor.Failed, byName["broken.jpg"].Outcome)
	assert.Equal(t, processor.Skipped, byName["c.png"].Outcome)

	assert.Equal(t, image.Size{Width: 150, Height: 100}, sizeOf(t, filepath.Join(dst, "a.jpg")))
	assert.Equal(t, image.Size{Width: 38, Height: 150}, sizeOf(t, filepath.Join(dst, "b.JPEG")))
	assert.Equal(t, image.Size{Width: 150, Height: 150}, sizeOf(t, filepath.Join(dst, "d.Png")))
	assert.False(t, utils.Exists(filepath.Join(dst, "c.png")))
	assert.False(t, utils.Exists(filepath.Join(dst, "broken.jpg")))
	assert.False(t, utils.Exists(filepath.Join(dst, "e.jpg")))
}

func TestRunOverwriteIdempotent(t *testing.T) {
	dir := t.TempDir()
	fn := imagetest.WriteFile(t, dir, "big.jpg", imagetest.JPEG(t, 3000, 2000, true))

	r, err := New()
	require.NoError(t, err)
	job := NewJob(dir, "", 1920, 80, true)
	sum, err := r.Run(context.Background(), job)
	require.NoError(t, err)
	require.Equal(t, 1, sum.Succeeded)
	assert.Equal(t, image.Size{Width: 1920, Height: 1280}, sizeOf(t, fn))

	sum, err = r.Run(context.Background(), job)
	require.NoError(t, err)
	assert.Equal(t, 1, sum.Skipped)
	assert.Equal(t, image.Size{Width: 1920, Height: 1280}, sizeOf(t, fn))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestRunOneCorruptAmongMany(t *testing.T) {
	src := t.TempDir()
	const n = 6
	for i := 0; i < n-1; i++ {
		imagetest.WriteFile(t, src, fmt.Sprintf("img%d.jpg", i), imagetest.JPEG(t, 64, 48, false))
	}
	imagetest.WriteFile(t, src, "zz.png", []byte("\x89PNG\r\n\x1a\n truncated"))

	for _, workers := range []int{1, 3} {
		t.Run(fmt.Sprintf("workers=%d", workers), func(t *testing.T) {
			r, err := New(WithWorkers(workers))
			require.NoError(t, err)
			sum, err := r.Run(context.Background(), NewJob(src, t.TempDir(), 32, 80, false))
			require.NoError(t, err)
			assert.Equal(t, n, sum.Total)
			assert.Equal(t, n-1, sum.Succeeded)
			assert.Equal(t, 1, sum.Failed)
			assert.Equal(t, "zz.png", sum.Results[n-1].Task.Name)
			assert.Equal(t, processor.Failed, sum.Results[n-1].Outcome)
		})
	}
}

func TestRunCancel(t *testing.T) {
	const files = 12
	src := t.TempDir()
	for i := 0; i < files; i++ {
		imagetest.WriteFile(t, src, fmt.Sprintf("%02d.jpg", i), imagetest.JPEG(t, 40, 40, false))
	}

	for _, workers := range []int{1, 3} {
		t.Run(fmt.Sprintf("workers=%d", workers), func(t *testing.T) {
			ctx, cancel := context.WithCancel(context.Background())
			defer cancel()

			r, err := New(WithWorkers(workers), WithProgress(func(res processor.Result, completed, total int) {
				if completed == 2 {
					cancel()
				}
			}))
			require.NoError(t, err)
			sum, err := r.Run(ctx, NewJob(src, t.TempDir(), 20, 80, false))
			require.NoError(t, err)

			assert.True(t, sum.Cancelled)
			assert.Equal(t, Cancelled, sum.State)
			assert.Equal(t, Cancelled, r.State())
			assert.Equal(t, files, sum.Total)
			require.Len(t, sum.Results, files)

			var cancelled int
			for i, res := range sum.Results {
				assert.NotZero(t, res.Outcome, "result %d has no outcome", i)
				assert.Equal(t, i, res.Task.Index)
				if res.Outcome == processor.Skipped {
					assert.Equal(t, processor.ReasonCancelled, res.Reason)
					cancelled++
				}
			}
			assert.Equal(t, sum.Total, sum.Succeeded+sum.Failed+cancelled)
			assert.Equal(t, cancelled, sum.Skipped)
			assert.Positive(t, cancelled)
			assert.GreaterOrEqual(t, sum.Succeeded, 2)

			if workers == 1 {
				assert.Equal(t, 2, sum.Succeeded)
				assert.Equal(t, files-2, sum.Skipped)
				for _, res := range sum.Results[2:] {
					assert.Equal(t, processor.Skipped, res.Outcome)
				}
			}
		})
	}
}

func TestRunParallelReportsEachOnce(t *testing.T) {
	src := t.TempDir()
	const n = 12
	for i := 0; i < n; i++ {
		imagetest.WriteFile(t, src, fmt.Sprintf("p%02d.png", i), imagetest.PNG(t, imagetest.Gradient(60, 30), false))
	}
	var mu sync.Mutex
	seen := map[string]int{}
	var last int
	r, err := New(WithWorkers(4), WithProgress(func(res processor.Result, completed, total int) {
		mu.Lock()
		defer mu.Unlock()
		seen[res.Task.Name]++
		assert.Equal(t, last+1, completed)
		assert.Equal(t, n, total)
		last = completed
	}))
	require.NoError(t, err)
	sum, err := r.Run(context.Background(), NewJob(src, t.TempDir(), 30, 80, false))
	require.NoError(t, err)

	assert.Len(t, seen, n)
	for name, c := range seen {
		assert.Equal(t, 1, c, name)
	}
	assert.Equal(t, n, sum.Succeeded)
	for i, res := range sum.Results {
		assert.Equal(t, fmt.Sprintf("p%02d.png", i), res.Task.Name)
	}
}

func TestProcessFile(t *testing.T) {
	src := t.TempDir()
	fn := imagetest.WriteFile(t, src, "one.jpg", imagetest.JPEG(t, 200, 100, false))
	dst := t.TempDir()
	r, err := New()
	require.NoError(t, err)

	res, err := r.ProcessFile(NewJob(src, dst, 100, 70, false), fn)
	require.NoError(t, err)
	assert.Equal(t, processor.Succeeded, res.Outcome)
	assert.Equal(t, filepath.Join(dst, "one.jpg"), res.Task.Destination)

	_, err = r.ProcessFile(NewJob(src, "", 100, 70, false), fn)
	assert.True(t, errors.Is(err, ErrInvalidConfig))
}
