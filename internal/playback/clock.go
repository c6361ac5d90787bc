package playback

import "time"

// Clock abstracts timer scheduling so the scheduler's state machine can
// be tested with a manual clock instead of real timers.
type Clock interface {
	// After runs fn once d has elapsed. The returned func cancels the
	// pending call; cancelling after it fired is a no-op.
	After(d time.Duration, fn func()) (cancel func())
}

type realClock struct{}

// RealClock returns a Clock backed by time.AfterFunc.
func RealClock() Clock {
	return realClock{}
}

func (realClock) After(d time.Duration, fn func()) func() {
	t := time.AfterFunc(d, fn)
	return func() { t.Stop() }
}
