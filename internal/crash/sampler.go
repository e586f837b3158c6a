package crash

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"math"
)

// Sampler draws a round's crash point from a per-round seed. The draw
// is a mixture: most rounds crash early (exponential tail from 1.0),
// a minority ride a heavier tail from 1.5, capped at Max.
type Sampler struct {
	Floor float64
	Max   float64
}

func NewSampler(floor, max float64) *Sampler {
	return &Sampler{Floor: floor, Max: max}
}

// NewSeed returns a fresh 32-byte hex seed. Stored on the round at
// creation and revealed only after the round is terminal, it lets a
// dispute replay the exact draw.
func NewSeed() string {
	b := make([]byte, 32)
	rand.Read(b)
	return hex.EncodeToString(b)
}

// Sample is deterministic in (seed, roundID): querying a round any
// number of times can never move its crash point.
func (s *Sampler) Sample(seed, roundID string) float64 {
	u := deriveFloat(seed, roundID+":branch")
	draw := deriveFloat(seed, roundID+":magnitude")

	var x float64
	if u < 0.85 {
		x = 1.0 + expDraw(draw)*1.2
	} else {
		x = 1.5 + expDraw(draw)*5.0
	}

	if x > s.Max {
		x = s.Max
	}
	if x < s.Floor {
		x = s.Floor
	}
	return Trunc2(x)
}

// deriveFloat maps HMAC-SHA256(seed, label) to a uniform value in [0,1).
func deriveFloat(seed, label string) float64 {
	mac := hmac.New(sha256.New, []byte(seed))
	mac.Write([]byte(label))
	sum := mac.Sum(nil)

	v := binary.BigEndian.Uint64(sum[:8])
	return float64(v) / float64(1<<64)
}

// expDraw inverts the exponential CDF for a uniform u in [0,1).
func expDraw(u float64) float64 {
	if u >= 1 {
		u = math.Nextafter(1, 0)
	}
	return -math.Log(1 - u)
}
