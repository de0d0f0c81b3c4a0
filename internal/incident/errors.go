package incident

import "errors"

// ErrFutureIncident is returned when a new record is dated after the day it
// is being reported.
var ErrFutureIncident = errors.New("incident date is in the future")
