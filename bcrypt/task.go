package bcrypt

import "context"

// ProgressFunc receives the completed fraction of a running key schedule,
// in (0, 1]. It is called from the goroutine running the derivation.
type ProgressFunc func(fraction float64)

// Task is the handle of a non-blocking operation. It completes exactly once.
type Task[T any] struct {
	done chan struct{}
	val  T
	err  error
}

func newTask[T any]() *Task[T] {
	return &Task[T]{done: make(chan struct{})}
}

func completedTask[T any](v T, err error) *Task[T] {
	t := newTask[T]()
	t.complete(v, err)
	return t
}

func startTask[T any](fn func() (T, error)) *Task[T] {
	t := newTask[T]()
	go func() {
		t.complete(fn())
	}()
	return t
}

func (t *Task[T]) complete(v T, err error) {
	t.val, t.err = v, err
	close(t.done)
}

// Done is closed when the task has completed.
func (t *Task[T]) Done() <-chan struct{} { return t.done }

// Result blocks until the task completes.
func (t *Task[T]) Result() (T, error) {
	<-t.done
	return t.val, t.err
}

// Wait blocks until the task completes or ctx is done. A cancelled ctx only
// stops the wait: the derivation keeps running and its result is dropped.
func (t *Task[T]) Wait(ctx context.Context) (T, error) {
	select {
	case <-t.done:
		return t.val, t.err
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}
