package rancher

import (
	"fmt"

	"github.com/conn-castle/rancher-client/internal/messages"
)

// TransportError reports a request that never produced an HTTP response.
type TransportError struct {
	URL string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf(messages.RancherTransportFmt, e.URL, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// StatusError reports a response whose status code was not 200.
type StatusError struct {
	URL        string
	StatusCode int
	Status     string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf(messages.RancherUnexpectedStatusFmt, e.URL, e.StatusCode)
}

// MalformedResponseError reports a response body that does not have the
// expected collection shape.
type MalformedResponseError struct {
	Kind   string
	Reason string
	Err    error
}

func (e *MalformedResponseError) Error() string {
	reason := e.Reason
	if reason == "" && e.Err != nil {
		reason = e.Err.Error()
	}
	return fmt.Sprintf(messages.RancherMalformedFmt, e.Kind, reason)
}

func (e *MalformedResponseError) Unwrap() error {
	return e.Err
}

// NotFoundError reports that no entity of Kind matched Name.
// Name is empty when an unfiltered collection came back empty.
type NotFoundError struct {
	Kind string
	Name string
}

func (e *NotFoundError) Error() string {
	if e.Name == "" {
		return fmt.Sprintf(messages.RancherNotFoundAnyFmt, e.Kind)
	}
	return fmt.Sprintf(messages.RancherNotFoundFmt, e.Kind, e.Name)
}
