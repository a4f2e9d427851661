package notifications

import (
	"fmt"
	"strings"
)

// ConfigurationError is raised before any network call and is never retried.
type ConfigurationError struct {
	Field string
	Err   error
}

func (e *ConfigurationError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("invalid configuration: %s", e.Err)
	}
	return fmt.Sprintf("invalid configuration (%s): %s", e.Field, e.Err)
}

func (e *ConfigurationError) Unwrap() error { return e.Err }

func configErrorf(field, format string, args ...interface{}) *ConfigurationError {
	return &ConfigurationError{Field: field, Err: fmt.Errorf(format, args...)}
}

// RenderError means a template file exists but could not be read.
type RenderError struct {
	Path string
	Err  error
}

func (e *RenderError) Error() string {
	return fmt.Sprintf("cannot read template %s: %s", e.Path, e.Err)
}

func (e *RenderError) Unwrap() error { return e.Err }

// TransportError means no HTTP response was obtained.
type TransportError struct {
	Channel Channel
	Err     error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s: could not reach provider: %s", e.Channel, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// DeliveryRejected means the provider answered with a non-success status.
type DeliveryRejected struct {
	Channel Channel
	Status  int
}

func (e *DeliveryRejected) Error() string {
	return fmt.Sprintf("%s: provider rejected the message, status: %d", e.Channel, e.Status)
}

// TimeoutExceeded is returned when the retry loop gave up without success.
type TimeoutExceeded struct {
	Channel  Channel
	Attempts int
	Elapsed  int
	Reason   TerminationReason
	Last     error
}

func (e *TimeoutExceeded) Error() string {
	msg := fmt.Sprintf("%s: giving up after %d attempts in %ds (%s)", e.Channel, e.Attempts, e.Elapsed, e.Reason)
	if e.Last != nil {
		msg += ": " + e.Last.Error()
	}
	return msg
}

func (e *TimeoutExceeded) Unwrap() error { return e.Last }

type multiError struct {
	errs []error
}

func (m *multiError) Error() string {
	msgs := make([]string, 0, len(m.errs))
	for _, err := range m.errs {
		msgs = append(msgs, err.Error())
	}
	return strings.Join(msgs, "; ")
}

func (m *multiError) Unwrap() []error { return m.errs }
