package fetch

import "errors"

// ErrInsufficientContent is returned when a tier returned a body too short
// to be considered a real page; Fetch wraps it into its terminal error when
// that was the last attempt's failure.
var ErrInsufficientContent = errors.New("fetch: insufficient content")

// ErrAllRetriesExhausted is the terminal error returned once every retry
// attempt for a target has failed.
var ErrAllRetriesExhausted = errors.New("fetch: all retries exhausted")

// ErrHTTPStatusNotOK indicates a non-2xx response from the lightweight tier.
var ErrHTTPStatusNotOK = errors.New("fetch: HTTP status not OK")

// ErrChromeUnavailable indicates the headless browser tier could not be
// started, typically because CHROME_BINARY_PATH is unset or invalid.
var ErrChromeUnavailable = errors.New("fetch: chrome unavailable")
