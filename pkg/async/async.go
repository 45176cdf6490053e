package async

import (
	"context"
)

// Future holds the eventual result of a computation started with Go.
type Future[U any] struct {
	result U
	err    error
	done   chan struct{}
}

// Await blocks until the computation completes and returns its result and error.
func (f *Future[U]) Await() (U, error) {
	<-f.done
	return f.result, f.err
}

// Done reports whether the computation has completed without blocking.
func (f *Future[U]) Done() bool {
	select {
	case <-f.done:
		return true
	default:
		return false
	}
}

// Go runs fn(ctx, param) in a new goroutine and returns a Future for its result.
func Go[T any, U any](ctx context.Context, param T, fn func(context.Context, T) (U, error)) *Future[U] {
	f := &Future[U]{done: make(chan struct{})}

	go func() {
		defer close(f.done)

		// A pre-cancelled context must not start work at all.
		select {
		case <-ctx.Done():
			f.err = ctx.Err()
			return
		default:
		}

		f.result, f.err = fn(ctx, param)
	}()

	return f
}

// WaitAll awaits every future in order and returns their results.
// The first error encountered is returned together with the results
// collected so far.
func WaitAll[U any](futures ...*Future[U]) ([]U, error) {
	results := make([]U, len(futures))

	for i, future := range futures {
		result, err := future.Await()
		results[i] = result
		if err != nil {
			return results, err
		}
	}

	return results, nil
}
