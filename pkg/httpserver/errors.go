package httpserver

import "errors"

var (
	// ErrServe indicates the listener failed while starting or serving.
	ErrServe = errors.New("http server failed")
	// ErrShutdown indicates the drain did not finish within the timeout.
	ErrShutdown = errors.New("http server shutdown failed")
)
