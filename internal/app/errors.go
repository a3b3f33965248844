package service

import "errors"

// Sentinel kinds for service errors.
var (
	ErrUploadTooLarge = errors.New("upload too large")
)
