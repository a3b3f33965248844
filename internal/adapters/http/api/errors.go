package api

import (
	"errors"
	"fmt"
)

// Sentinel kinds for API errors.
var (
	ErrBadRequest   = errors.New("bad request")
	ErrNoFile       = errors.New("no file in upload")
	ErrTemplate     = errors.New("dashboard template failed")
	ErrUploadFailed = errors.New("upload failed")
)

// Error codes returned in the JSON error body.
const (
	codeBadRequest    = "bad_request"
	codeDataFormat    = "data_format"
	codeTooLarge      = "too_large"
	codeInternalError = "internal_error"
)

// NewKind tags an operation with an error kind.
func NewKind(op string, kind error) error {
	return fmt.Errorf("%s: %w", op, kind)
}

// WrapKind tags an operation with an error kind and keeps the cause matchable.
func WrapKind(op string, kind, cause error) error {
	if cause == nil {
		return NewKind(op, kind)
	}
	return fmt.Errorf("%s: %w: %w", op, kind, cause)
}
