package errors

import (
	"fmt"
	"strings"
)

// ErrInvalidRequest indicates a structurally malformed request body
type ErrInvalidRequest struct {
	Message string
}

func (e *ErrInvalidRequest) Error() string {
	if e.Message == "" {
		return "invalid request"
	}
	return e.Message
}

// ErrInvalidCustomer indicates a customer field that failed format validation
type ErrInvalidCustomer struct {
	Field string
}

func (e *ErrInvalidCustomer) Error() string {
	return fmt.Sprintf("invalid customer %s", e.Field)
}

// ErrValidationFailed carries every per-item cart validation error collected
// in one pass, so the client sees all problems at once.
type ErrValidationFailed struct {
	Messages []string
}

func (e *ErrValidationFailed) Error() string {
	return strings.Join(e.Messages, ", ")
}

// ErrOrderPersistenceFailed indicates the order store rejected the create.
// Fatal to checkout: no payment URL may be issued for an order that was
// never durably created.
type ErrOrderPersistenceFailed struct {
	Err error
}

func (e *ErrOrderPersistenceFailed) Error() string {
	return fmt.Sprintf("order persistence failed: %v", e.Err)
}

func (e *ErrOrderPersistenceFailed) Unwrap() error {
	return e.Err
}

// ErrMissingOrderReference indicates a provider notification without an
// order identifier. Non-fatal: the provider still gets a structured ack.
type ErrMissingOrderReference struct{}

func (e *ErrMissingOrderReference) Error() string {
	return "notification missing order reference"
}

// ErrNotFound indicates a missing resource
type ErrNotFound struct {
	Resource string
	ID       string
}

func (e *ErrNotFound) Error() string {
	return fmt.Sprintf("%s %s not found", e.Resource, e.ID)
}

// ErrUnauthorized indicates a failed authentication
type ErrUnauthorized struct {
	Message string
}

func (e *ErrUnauthorized) Error() string {
	return e.Message
}
