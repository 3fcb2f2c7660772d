package feed

import "fmt"

type ErrorKind string

const (
	KindTransport  ErrorKind = "transport"
	KindHTTPStatus ErrorKind = "http-status"
	KindParse      ErrorKind = "parse"
)

// FetchError is returned by Fetch for any failure of the single request.
type FetchError struct {
	Kind       ErrorKind
	StatusCode int
	Err        error
}

func (e *FetchError) Error() string {
	switch e.Kind {
	case KindHTTPStatus:
		return fmt.Sprintf("feed fetch: http %d: %v", e.StatusCode, e.Err)
	default:
		return fmt.Sprintf("feed fetch %s: %v", e.Kind, e.Err)
	}
}

func (e *FetchError) Unwrap() error { return e.Err }
