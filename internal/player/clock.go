package player

import "time"

// Clock abstracts wall-clock time so tests can pin "now" to an exact weekday
// and minute.
type Clock interface {
	Now() time.Time
}

type RealClock struct{}

func (RealClock) Now() time.Time {
	return time.Now()
}
