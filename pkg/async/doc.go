// Package async provides a minimal generic Future type for fanning out
// independent read-only operations and collecting their results.
//
// A Future is obtained from Go, which runs the supplied function in its own
// goroutine and returns immediately. Await blocks until the computation
// finishes; WaitAll awaits a batch in order and stops at the first error.
//
// The helpers are context-aware: a context cancelled before the computation
// starts completes the Future with the context error without invoking the
// callback.
//
//	futures := make([]*async.Future[[]string], len(keys))
//	for i, key := range keys {
//	    futures[i] = async.Go(ctx, key, store.Lookup)
//	}
//	results, err := async.WaitAll(futures...)
//
// Futures are thin wrappers around a goroutine and a channel; callers that
// need bounded concurrency should gate calls to Go themselves.
package async
