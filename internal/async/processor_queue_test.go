package async

import (
	"context"
	"errors"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joseph-ayodele/followups-tracker/internal/common"
	"github.com/joseph-ayodele/followups-tracker/internal/pipeline"
)

type fakeProcessor struct {
	mu        sync.Mutex
	paths     []string
	deadlines []bool
	delay     time.Duration
}

func (f *fakeProcessor) ProcessFile(ctx context.Context, path string) (pipeline.Result, error) {
	if f.delay > 0 {
		time.Sleep(f.delay)
	}
	_, hasDeadline := ctx.Deadline()
	f.mu.Lock()
	f.paths = append(f.paths, path)
	f.deadlines = append(f.deadlines, hasDeadline)
	f.mu.Unlock()
	if path == "bad.pdf" {
		return pipeline.Result{}, errors.New("unreadable")
	}
	return pipeline.Result{}, nil
}

func TestProcessorQueueDrainsOnShutdown(t *testing.T) {
	proc := &fakeProcessor{delay: 5 * time.Millisecond}

	var (
		mu       sync.Mutex
		failed   []string
		traceIDs []string
	)
	q := NewProcessorQueue(proc, nil,
		WithWorkers(2),
		WithQueueSize(1),
		WithProcessTimeout(time.Second),
		WithResultHandler(func(ctx context.Context, job Job, _ pipeline.Result, err error) {
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				failed = append(failed, job.Path)
			}
			traceIDs = append(traceIDs, common.RequestIDFromContext(ctx))
		}),
	)

	paths := []string{"a.pdf", "b.txt", "bad.pdf", "c.png", "d.jpg"}
	for _, p := range paths {
		require.NoError(t, q.Enqueue(context.Background(), Job{Path: p, TraceID: "t-" + p}))
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	q.Shutdown(ctx)

	proc.mu.Lock()
	got := append([]string(nil), proc.paths...)
	deadlines := append([]bool(nil), proc.deadlines...)
	proc.mu.Unlock()

	sort.Strings(got)
	want := append([]string(nil), paths...)
	sort.Strings(want)
	assert.Equal(t, want, got)
	for _, d := range deadlines {
		assert.True(t, d, "jobs run with a timeout")
	}

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []string{"bad.pdf"}, failed)
	assert.Len(t, traceIDs, len(paths))
	assert.Contains(t, traceIDs, "t-a.pdf")
}

func TestProcessorQueueRejectsAfterShutdown(t *testing.T) {
	q := NewProcessorQueue(&fakeProcessor{}, nil, WithWorkers(1))
	q.Shutdown(context.Background())
	q.Shutdown(context.Background())

	err := q.Enqueue(context.Background(), Job{Path: "late.pdf"})
	require.ErrorIs(t, err, ErrQueueClosed)
}

func TestProcessorQueueEnqueueHonoursContext(t *testing.T) {
	block := make(chan struct{})
	proc := &blockingProcessor{release: block, started: make(chan struct{})}
	q := NewProcessorQueue(proc, nil, WithWorkers(1), WithQueueSize(1))
	defer func() {
		close(block)
		q.Shutdown(context.Background())
	}()

	require.NoError(t, q.Enqueue(context.Background(), Job{Path: "1"}))
	<-proc.started
	require.NoError(t, q.Enqueue(context.Background(), Job{Path: "2"}))

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	err := q.Enqueue(ctx, Job{Path: "3"})
	require.ErrorIs(t, err, context.DeadlineExceeded)
}

type blockingProcessor struct {
	release chan struct{}
	started chan struct{}
	once    sync.Once
}

func (b *blockingProcessor) ProcessFile(context.Context, string) (pipeline.Result, error) {
	b.once.Do(func() { close(b.started) })
	<-b.release
	return pipeline.Result{}, nil
}
