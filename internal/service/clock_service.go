package service

import "time"

// Clock is an interface for getting the current time. Every expiry
// decision in the service goes through it, so tests can pin time.
type Clock interface {
	Now() time.Time
}

// RealClock implements Clock using the system time.
type RealClock struct{}

func (RealClock) Now() time.Time {
	return time.Now().UTC()
}
