package utils

import "time"

// Clock abstracts wall-clock reads so deadline arithmetic stays testable.
// Engines take a Clock at construction and pass explicit instants to their
// sweep operations.
type Clock interface {
	Now() time.Time
}

// RealClock reads the system clock.
type RealClock struct{}

func (RealClock) Now() time.Time {
	return time.Now()
}

// FixedClock always returns the same instant. Intended for tests.
type FixedClock struct {
	Instant time.Time
}

func (c FixedClock) Now() time.Time {
	return c.Instant
}
