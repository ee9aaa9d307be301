package gesture

import (
	"math"
	"time"
)

// Spring is a critically damped spring pulling an offset back to zero.
type Spring struct {
	// Stiffness over unit mass; the natural frequency is its square root.
	Stiffness float64
	// Epsilon is the offset below which the spring counts as settled.
	Epsilon float64
}

func DefaultSpring() Spring {
	return Spring{Stiffness: 180, Epsilon: 0.5}
}

func (s Spring) omega() float64 {
	return math.Sqrt(s.Stiffness)
}

// Position returns the offset t after release from x0 at rest.
func (s Spring) Position(x0 float64, t time.Duration) float64 {
	w := s.omega()
	sec := t.Seconds()
	return x0 * (1 + w*sec) * math.Exp(-w*sec)
}

// SettleTime is how long the spring needs before |offset| stays under Epsilon.
// A critically damped spring never overshoots, so the first crossing is final.
func (s Spring) SettleTime(x0 float64) time.Duration {
	if math.Abs(x0) <= s.Epsilon {
		return 0
	}
	const step = time.Millisecond
	const limit = 5 * time.Second
	for t := step; t < limit; t += step {
		if math.Abs(s.Position(x0, t)) <= s.Epsilon {
			return t
		}
	}
	return limit
}
