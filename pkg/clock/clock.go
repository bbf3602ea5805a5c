// Package clock lets business code read the time through an interface so
// tests can pin it.
package clock

import "time"

type Clocker interface {
	Now() time.Time
}

type TimeClocker struct{}

func New() *TimeClocker {
	return &TimeClocker{}
}

func (*TimeClocker) Now() time.Time {
	return time.Now()
}
