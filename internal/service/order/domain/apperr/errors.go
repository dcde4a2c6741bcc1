// Package apperr defines the error taxonomy shared across the order service.
// Handlers map these onto HTTP status codes; everything else wraps and
// propagates them.
package apperr

import (
	"errors"
	"fmt"
)

// ValidationError reports a missing or malformed required field. The message
// names the first offending field and is safe to return to clients.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

func Validation(format string, args ...any) error {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

func IsValidation(err error) bool {
	var v *ValidationError
	return errors.As(err, &v)
}

// NotFoundError reports a referenced resource that does not exist.
type NotFoundError struct {
	Resource string
	ID       string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s with id %s not found", e.Resource, e.ID)
}

func NotFound(resource, id string) error {
	return &NotFoundError{Resource: resource, ID: id}
}

func IsNotFound(err error) bool {
	var v *NotFoundError
	return errors.As(err, &v)
}

// UpstreamError reports a collaborator service that returned non-success or
// was unreachable. It names the collaborator and the URL that failed.
type UpstreamError struct {
	Service string
	URL     string
	Err     error
}

func (e *UpstreamError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s request to %s failed", e.Service, e.URL)
	}
	return fmt.Sprintf("%s request to %s failed: %v", e.Service, e.URL, e.Err)
}

func (e *UpstreamError) Unwrap() error { return e.Err }

func Upstream(service, url string, err error) error {
	return &UpstreamError{Service: service, URL: url, Err: err}
}

func IsUpstream(err error) bool {
	var v *UpstreamError
	return errors.As(err, &v)
}

// ConnectionError reports a tenant storage connection that could not be
// established.
type ConnectionError struct {
	Tenant string
	Err    error
}

func (e *ConnectionError) Error() string {
	return fmt.Sprintf("could not connect to storage for tenant %s: %v", e.Tenant, e.Err)
}

func (e *ConnectionError) Unwrap() error { return e.Err }

func Connection(tenant string, err error) error {
	return &ConnectionError{Tenant: tenant, Err: err}
}

func IsConnection(err error) bool {
	var v *ConnectionError
	return errors.As(err, &v)
}
