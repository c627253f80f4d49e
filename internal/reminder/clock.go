package reminder

import "time"

// Clock abstracts wall-clock reads so tests can time-travel.
type Clock func() time.Time

// SystemClock reads the real wall clock.
func SystemClock() time.Time { return time.Now() }
