package txflow

import "time"

type Timer interface {
	Stop() bool
}

// Clock schedules the cooldown reset.
type Clock interface {
	AfterFunc(d time.Duration, f func()) Timer
}

type systemClock struct{}

func (systemClock) AfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}
