package threshold

import "errors"

// Sentinel errors for threshold and milestone configuration. All of them are
// configuration errors: the run is aborted instead of falling back silently.
var (
	// ErrNoMatchingThreshold is returned when no status range covers a day
	// count, either while validating a table or while matching.
	ErrNoMatchingThreshold = errors.New("no status threshold matches")

	// ErrOverlappingThresholds is returned when two status ranges cover the
	// same day count.
	ErrOverlappingThresholds = errors.New("status thresholds overlap")

	// ErrInvalidMilestone is returned for malformed milestone configuration.
	ErrInvalidMilestone = errors.New("invalid milestone configuration")
)
