package host

import (
	"time"
)

// Time is the frame clock of a World.
type Time struct {
	Time  time.Time
	Dt    time.Duration
	Frame uint64
}

// tick advances the clock to now. The first tick has a zero Dt.
func (t *Time) tick(now time.Time) {
	if t.Time.IsZero() {
		t.Time = now
	}
	t.Dt = now.Sub(t.Time)
	t.Time = now
	t.Frame++
}

// step advances the clock by a fixed dt.
func (t *Time) step(dt time.Duration) {
	if t.Time.IsZero() {
		t.Time = time.Now()
	}
	t.Dt = dt
	t.Time = t.Time.Add(dt)
	t.Frame++
}
