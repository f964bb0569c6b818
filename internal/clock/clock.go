package clock

import (
	"time"

	"go.uber.org/fx"
)

// Module provides the system clock.
var Module = fx.Provide(NewSystemClock)

// Clock abstracts time for components that do time arithmetic.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

// NewSystemClock returns a Clock backed by the wall clock, in UTC.
func NewSystemClock() Clock {
	return systemClock{}
}

func (systemClock) Now() time.Time {
	return time.Now().UTC()
}
