package docstore

import "errors"

var (
	ErrMongoConnectionFailed      = errors.New("docstore: failed to connect to mongo")
	ErrOpenSearchConnectionFailed = errors.New("docstore: failed to connect to opensearch")
	ErrUnknownView                = errors.New("docstore: unknown view")
	ErrQueryFailed                = errors.New("docstore: view query failed")
	ErrFetchFailed                = errors.New("docstore: document fetch failed")
)
