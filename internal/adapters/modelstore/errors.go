package modelstore

import "errors"

// Sentinel kinds for model loading.
var (
	ErrModelNotFound = errors.New("model not found")
	ErrModelFormat   = errors.New("invalid model artifact")
	ErrFeatureShape  = errors.New("unexpected feature shape")
)
