package index

import "errors"

// Error definitions for index store operations.
var (
	// ErrIndexNotFound is returned when a query targets an index that does not exist.
	ErrIndexNotFound = errors.New("index: not found")

	// ErrServerError is returned for search-engine internal errors (HTTP 5xx)
	// and for any other non-2xx status that is not a 400 or a 404.
	ErrServerError = errors.New("index: server error")

	// ErrBadRequest is returned when the search engine rejects a request (HTTP 400).
	ErrBadRequest = errors.New("index: bad request")

	// ErrNoDocumentsIndexed is returned when a bulk load produced zero
	// successful documents; the caller should treat this as a fatal setup error.
	ErrNoDocumentsIndexed = errors.New("index: no documents were indexed")
)
