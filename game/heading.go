package game

import (
	"math"

	"golang.org/x/exp/rand"
)

// Rand is the slice of *rand.Rand the simulation needs.
type Rand interface {
	Intn(n int) int
}

func NewRand(seed uint64) *rand.Rand {
	return rand.New(rand.NewSource(seed))
}

// RandomizeHeading gives the ball a fresh heading of magnitude BallSpeed.
// Whole-degree angles on an axis are redrawn so neither component is zero.
func RandomizeHeading(b *Ball, r Rand) {
	deg := r.Intn(HeadingDegrees)
	for deg%90 == 0 {
		deg = r.Intn(HeadingDegrees)
	}
	rad := float64(deg) * math.Pi / 180
	b.DX = BallSpeed * math.Sin(rad)
	b.DY = BallSpeed * math.Cos(rad)
}
