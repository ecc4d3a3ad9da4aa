package jobs

import (
	"context"
	"errors"

	"github.com/signalsfoundry/sensorplan/internal/logging"
)

// RunFunc performs the work of a job. progress reports units done out of
// total and may be called any number of times.
type RunFunc func(ctx context.Context, progress func(done, total int)) (any, error)

// Run executes fn synchronously on the calling goroutine inside a new job
// and returns the job's final snapshot. If the job was cancelled while fn
// ran, the snapshot reports StatusCancelled and fn's result is discarded.
func (m *Manager) Run(ctx context.Context, kind string, fn RunFunc) (Job, error) {
	j := m.Create(kind)
	return m.execute(ctx, j, fn)
}

// Go executes fn on a new goroutine and returns the job ID immediately. The
// returned channel receives the final snapshot and is then closed.
func (m *Manager) Go(ctx context.Context, kind string, fn RunFunc) (string, <-chan Job) {
	j := m.Create(kind)
	done := make(chan Job, 1)
	go func() {
		defer close(done)
		final, _ := m.execute(ctx, j, fn)
		done <- final
	}()
	return j.ID, done
}

func (m *Manager) execute(ctx context.Context, j Job, fn RunFunc) (Job, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	if err := m.Start(j.ID); err != nil {
		return m.snapshotOr(j, StatusCancelled), err
	}

	progress := func(done, total int) {
		if total <= 0 {
			return
		}
		err := m.SetProgress(j.ID, float64(done)/float64(total)*100)
		if err != nil && !errors.Is(err, ErrJobNotFound) {
			m.log.Warn(ctx, "progress update rejected",
				logging.String("job_id", j.ID),
				logging.Error(err),
			)
		}
	}

	result, runErr := fn(ctx, progress)
	if runErr != nil {
		if err := m.Fail(j.ID, runErr); err != nil && errors.Is(err, ErrJobNotFound) {
			return m.snapshotOr(j, StatusCancelled), runErr
		}
		return m.snapshotOr(j, StatusFailed), runErr
	}
	if err := m.Complete(j.ID, result); err != nil {
		if errors.Is(err, ErrJobNotFound) {
			return m.snapshotOr(j, StatusCancelled), nil
		}
		return m.snapshotOr(j, StatusFailed), err
	}
	return m.snapshotOr(j, StatusCompleted), nil
}

// snapshotOr returns the current snapshot, or j with status when the job
// has been removed.
func (m *Manager) snapshotOr(j Job, status Status) Job {
	if cur, ok := m.Get(j.ID); ok {
		return cur
	}
	j.Status = status
	return j
}
