package crash

import (
	"math"
	"time"
)

// Clock maps elapsed time since round start to the current multiplier.
// The curve is exp(rate * seconds): strictly increasing, 1.0 at zero.
type Clock struct {
	Rate float64
}

func NewClock(rate float64) *Clock {
	return &Clock{Rate: rate}
}

// MultiplierAt returns the raw curve value. Truncation to two decimals
// happens only where a multiplier is recorded or displayed, so repeated
// evaluations stay strictly monotonic in elapsed time.
func (c *Clock) MultiplierAt(elapsed time.Duration) float64 {
	secs := elapsed.Seconds()
	if secs < 0 {
		secs = 0
	}
	return math.Exp(c.Rate * secs)
}

// Trunc2 rounds a multiplier down to the displayed precision.
func Trunc2(m float64) float64 {
	return math.Floor(m*100) / 100
}
