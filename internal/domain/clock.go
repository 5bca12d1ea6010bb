package domain

import "time"

// Clock provides the current time so expiry checks can be driven in tests
type Clock interface {
	Now() time.Time
}

// RealClock reads the system clock
type RealClock struct{}

// Now returns time.Now()
func (RealClock) Now() time.Time {
	return time.Now()
}

var _ Clock = RealClock{}
