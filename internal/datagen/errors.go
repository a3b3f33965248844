package datagen

import (
	"errors"
	"fmt"
)

// Sentinel kinds for generation and upload errors.
var (
	ErrInvalidOptions = errors.New("invalid generator options")
	ErrCircuitOpen    = errors.New("circuit breaker open")
	ErrServerError    = errors.New("server error")
	ErrRejected       = errors.New("upload rejected")
)

// RejectedError is a 4xx answer from the dashboard. It is never retried.
type RejectedError struct {
	Status  int
	Code    string
	Message string
}

func (e *RejectedError) Error() string {
	return fmt.Sprintf("upload rejected (%d %s): %s", e.Status, e.Code, e.Message)
}

// Is lets callers match with errors.Is(err, ErrRejected).
func (e *RejectedError) Is(target error) bool { return target == ErrRejected }
