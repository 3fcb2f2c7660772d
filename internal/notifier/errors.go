package notifier

import "fmt"

type ErrorKind string

const (
	KindTransport  ErrorKind = "transport"
	KindHTTPStatus ErrorKind = "http-status"
)

// NotifyError is returned by Send when the message was not accepted.
//
// KindHTTPStatus carries the response code and (truncated) body;
// KindTransport wraps the network or timeout failure.
type NotifyError struct {
	Kind       ErrorKind
	StatusCode int
	Body       string
	Err        error
}

func (e *NotifyError) Error() string {
	if e.Kind == KindHTTPStatus {
		return fmt.Sprintf("telegram send failed: HTTP %d - %s", e.StatusCode, e.Body)
	}
	return fmt.Sprintf("telegram send error: %v", e.Err)
}

func (e *NotifyError) Unwrap() error { return e.Err }
