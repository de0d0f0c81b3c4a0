package streak

import "errors"

var (
	// ErrInvalidClock is returned when "today" precedes the most recent
	// incident, which means either the clock or the history is wrong.
	ErrInvalidClock = errors.New("today is before the last incident")

	// ErrNoHistory is returned when a streak is asked of an empty history.
	// The streak is undefined, not zero.
	ErrNoHistory = errors.New("no incidents recorded")
)
