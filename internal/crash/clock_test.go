package crash

import (
	"math"
	"testing"
	"time"
)

func TestMultiplierAtZero(t *testing.T) {
	c := NewClock(0.16)

	if m := c.MultiplierAt(0); m != 1.0 {
		t.Fatalf("MultiplierAt(0) = %v, want 1.0", m)
	}
}

func TestMultiplierNegativeElapsedClamps(t *testing.T) {
	c := NewClock(0.16)

	if m := c.MultiplierAt(-3 * time.Second); m != 1.0 {
		t.Fatalf("MultiplierAt(-3s) = %v, want 1.0", m)
	}
}

func TestMultiplierStrictlyMonotonic(t *testing.T) {
	c := NewClock(0.16)

	steps := []time.Duration{
		0,
		time.Millisecond,
		2 * time.Millisecond,
		50 * time.Millisecond,
		time.Second,
		1500 * time.Millisecond,
		10 * time.Second,
		time.Minute,
	}

	prev := -1.0
	for _, d := range steps {
		m := c.MultiplierAt(d)
		if m <= prev {
			t.Fatalf("MultiplierAt(%v) = %v, not greater than previous %v", d, m, prev)
		}
		prev = m
	}
}

func TestMultiplierKnownPoint(t *testing.T) {
	// rate chosen so the curve doubles every five seconds
	c := NewClock(math.Ln2 / 5)

	if got := Trunc2(c.MultiplierAt(5 * time.Second)); got != 2.00 {
		t.Fatalf("multiplier at 5s = %v, want 2.00", got)
	}
	if got := Trunc2(c.MultiplierAt(10 * time.Second)); got != 4.00 {
		t.Fatalf("multiplier at 10s = %v, want 4.00", got)
	}
}

func TestTrunc2RoundsDown(t *testing.T) {
	cases := map[float64]float64{
		1.0:     1.0,
		1.999:   1.99,
		2.001:   2.00,
		3.14159: 3.14,
	}
	for in, want := range cases {
		if got := Trunc2(in); got != want {
			t.Errorf("Trunc2(%v) = %v, want %v", in, got, want)
		}
	}
}
