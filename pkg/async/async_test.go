package async_test

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/commhealth/recordkit/pkg/async"
)

func TestGoAndAwait(t *testing.T) {
	t.Parallel()

	t.Run("returns the computed value", func(t *testing.T) {
		f := async.Go(context.Background(), 21, func(_ context.Context, v int) (int, error) {
			return v * 2, nil
		})
		got, err := f.Await()
		require.NoError(t, err)
		assert.Equal(t, 42, got)
	})

	t.Run("propagates the callback error", func(t *testing.T) {
		wantErr := errors.New("boom")
		f := async.Go(context.Background(), "x", func(_ context.Context, _ string) (string, error) {
			return "", wantErr
		})
		_, err := f.Await()
		assert.ErrorIs(t, err, wantErr)
	})

	t.Run("pre-cancelled context skips the callback", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		var called atomic.Bool
		f := async.Go(ctx, 0, func(_ context.Context, _ int) (int, error) {
			called.Store(true)
			return 1, nil
		})
		_, err := f.Await()
		assert.ErrorIs(t, err, context.Canceled)
		assert.False(t, called.Load())
	})
}

func TestDone(t *testing.T) {
	t.Parallel()

	release := make(chan struct{})
	f := async.Go(context.Background(), 0, func(_ context.Context, _ int) (int, error) {
		<-release
		return 1, nil
	})
	assert.False(t, f.Done())
	close(release)
	_, err := f.Await()
	require.NoError(t, err)
	assert.True(t, f.Done())
}

func TestWaitAll(t *testing.T) {
	t.Parallel()

	t.Run("collects results in argument order", func(t *testing.T) {
		ctx := context.Background()
		futures := make([]*async.Future[int], 3)
		for i := range futures {
			futures[i] = async.Go(ctx, i, func(_ context.Context, v int) (int, error) {
				time.Sleep(time.Duration(3-v) * time.Millisecond)
				return v * 10, nil
			})
		}
		results, err := async.WaitAll(futures...)
		require.NoError(t, err)
		assert.Equal(t, []int{0, 10, 20}, results)
	})

	t.Run("returns the first error", func(t *testing.T) {
		ctx := context.Background()
		wantErr := errors.New("lookup failed")
		ok := async.Go(ctx, 0, func(_ context.Context, _ int) (int, error) { return 1, nil })
		bad := async.Go(ctx, 0, func(_ context.Context, _ int) (int, error) { return 0, wantErr })
		_, err := async.WaitAll(ok, bad)
		assert.ErrorIs(t, err, wantErr)
	})
}
