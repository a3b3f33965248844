package advice

import "errors"

// Sentinel kinds for rule loading.
var (
	ErrInvalidRules  = errors.New("invalid recommendation rules")
	ErrRulesNotFound = errors.New("recommendation rules not found")
)
